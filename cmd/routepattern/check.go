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
	"os"

	"github.com/spf13/cobra"

	"rivaas.dev/routepattern/config"
	"rivaas.dev/routepattern/config/codec"
	"rivaas.dev/routepattern/pattern"
	"rivaas.dev/routepattern/routeset"
	"rivaas.dev/routepattern/telemetry/semconv"
)

func checkCmd(e *env) *cobra.Command {
	var (
		format    string
		dump      string
		showTable bool
	)

	cmd := &cobra.Command{
		Use:   "check <file>",
		Short: "Validate a route table file",
		Long: `Load a YAML, TOML or JSON route table, compile every template and verify
its example paths. Duplicate templates, duplicate names and duplicate
parameters within a template are reported with the offending entry.`,
		Example: `  routepattern check routes.yaml
  routepattern check --format toml routes.conf
  routepattern check --table routes.yaml
  routepattern check --dump json routes.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := loadTable(args[0], format)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			set, err := table.Compile(routeset.WithCompiler(func(template string) (*pattern.RoutePattern, error) {
				return e.compile(ctx, template)
			}))
			if err != nil {
				return err
			}

			e.logger.Info("route table compiled", semconv.RouteSource, table.Source(), semconv.RouteCount, set.Len())

			out := cmd.OutOrStdout()
			if dump != "" {
				data, err := table.Encode(codec.Type(dump))
				if err != nil {
					return err
				}
				_, err = out.Write(data)
				return err
			}

			if showTable {
				renderRoutesTable(colorWriter(out, e.noColor), table, set, terminalWidth(out))
			}
			fmt.Fprintf(out, "%s: %d routes ok\n", args[0], set.Len())

			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "File format (yaml, toml, json); default from extension")
	cmd.Flags().BoolVar(&showTable, "table", false, "Print the compiled routes as a table")
	cmd.Flags().StringVar(&dump, "dump", "", "Write the checked table in this format (yaml, toml, json) instead of the summary")

	return cmd
}

func loadTable(path, format string) (*config.RouteTable, error) {
	if format == "" {
		return config.Load(path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, config.NewError(path, "read", err)
	}

	return config.Decode(data, codec.Type(format))
}
