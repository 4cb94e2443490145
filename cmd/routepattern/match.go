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
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func matchCmd(e *env) *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "match <template> <path>...",
		Short: "Match paths against a route template",
		Long: `Match each path against the template and print the extracted parameters
as a JSON object, or "no match".`,
		Example: `  routepattern match /video/:id /video/42 /video/42/ /audio/42
  routepattern match --strict /users/:id /users/7`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := e.compile(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			missed := false

			for _, path := range args[1:] {
				params, ok := e.match(cmd.Context(), p, path)
				if !ok {
					missed = true
					fmt.Fprintf(out, "%s\tno match\n", path)
					continue
				}

				encoded, err := json.Marshal(params)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s\t%s\n", path, encoded)
			}

			if strict && missed {
				return errNoMatch
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "Fail when any path does not match")

	return cmd
}
