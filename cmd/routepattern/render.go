// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/common-nighthawk/go-figure"
	"golang.org/x/term"

	"rivaas.dev/routepattern/config"
	"rivaas.dev/routepattern/routeset"
)

// colorWriter downsamples ANSI colors to what w supports and strips them
// entirely when w is not a terminal or noColor is set.
func colorWriter(w io.Writer, noColor bool) *colorprofile.Writer {
	cpw := colorprofile.NewWriter(w, os.Environ())
	if noColor {
		cpw.Profile = colorprofile.NoTTY
	}
	return cpw
}

// printBanner prints the command name as gradient ASCII art.
func printBanner(w io.Writer) {
	gradient := []string{"12", "14", "10", "11"}

	var art strings.Builder
	for _, line := range figure.NewFigure("routepattern", "", false).Slicify() {
		if strings.TrimSpace(line) == "" {
			art.WriteString("\n")
			continue
		}
		for i, char := range line {
			style := lipgloss.NewStyle().
				Foreground(lipgloss.Color(gradient[i%len(gradient)])).
				Bold(true)
			art.WriteString(style.Render(string(char)))
		}
		art.WriteString("\n")
	}

	fmt.Fprintln(w)
	fmt.Fprint(w, art.String())
	fmt.Fprintln(w)
}

var (
	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Width(14).
			Align(lipgloss.Left)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("15")).
			Bold(true)
)

// printField prints one "label  value" line of the version block.
func printField(w io.Writer, label, value string) {
	fmt.Fprintln(w, labelStyle.Render(label)+"  "+valueStyle.Render(value))
}

// minTableWidth is the width a routes table is stretched to when its content
// is narrower.
const minTableWidth = 80

// terminalWidth returns the column count of the terminal behind w, or 0 when
// w is not a terminal.
func terminalWidth(w io.Writer) int {
	file, ok := w.(*os.File)
	if !ok {
		return 0
	}
	width, _, err := term.GetSize(int(file.Fd()))
	if err != nil || width <= 0 {
		return 0
	}

	return width
}

// renderRoutesTable renders the compiled routes of rt in declaration order.
// A positive maxWidth, usually the terminal width, caps the table width.
func renderRoutesTable(w io.Writer, rt *config.RouteTable, set *routeset.Set, maxWidth int) {
	rows := make([][]string, 0, len(rt.Routes))
	maxName, maxTemplate, maxPattern, maxKeys := len("Name"), len("Template"), len("Pattern"), len("Keys")

	for _, entry := range rt.Routes {
		p := set.Get(entry.Template)
		if p == nil {
			continue
		}

		name := entry.Name
		if name == "" {
			name = "-"
		}
		keys := "-"
		if p.NumParams() > 0 {
			keys = strings.Join(p.Keys(), ", ")
		}

		maxName = max(maxName, len(name))
		maxTemplate = max(maxTemplate, len(p.Template()))
		maxPattern = max(maxPattern, len(p.Pattern()))
		maxKeys = max(maxKeys, len(keys))

		rows = append(rows, []string{name, p.Template(), p.Pattern(), keys})
	}

	// Borders (2) + separators (3) + padding (8) + content.
	tableWidth := max(2+3+8+maxName+maxTemplate+maxPattern+maxKeys, minTableWidth)
	if maxWidth > 0 {
		tableWidth = min(tableWidth, maxWidth)
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		StyleFunc(func(row, _ int) lipgloss.Style {
			style := lipgloss.NewStyle().Align(lipgloss.Left).Padding(0, 1)
			if row == table.HeaderRow {
				style = style.Bold(true).Foreground(lipgloss.Color("230"))
			}
			return style
		}).
		Headers("Name", "Template", "Pattern", "Keys").
		Rows(rows...).
		Width(tableWidth)

	fmt.Fprintln(w, t.Render())
}
