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
	"strings"

	"github.com/spf13/cobra"
)

func compileCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "compile <template>...",
		Short: "Print the regular expression and keys of route templates",
		Example: `  routepattern compile /video/:id
  routepattern compile /posts/:post/comments/:comment /about`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			for _, template := range args {
				p, err := e.compile(cmd.Context(), template)
				if err != nil {
					return err
				}

				fmt.Fprintf(out, "%s\n", p.Template())
				fmt.Fprintf(out, "  pattern: %s\n", p.Pattern())
				keys := "(none)"
				if p.NumParams() > 0 {
					keys = strings.Join(p.Keys(), ", ")
				}
				fmt.Fprintf(out, "  keys:    %s\n", keys)
			}

			return nil
		},
	}
}
