/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"dirpx.dev/polyref"
	"dirpx.dev/polyref/apis"
	"dirpx.dev/polyref/config"
	"dirpx.dev/polyref/identity"
)

func newEmitCmd() *cobra.Command {
	var (
		configPath string
		scope      string
		unwrap     string
	)

	cmd := &cobra.Command{
		Use:   "emit <graph.yaml|graph.toml>",
		Short: "Write a node graph as JSON with back-references",
		Long: `Emit reads a graph of nodes (id, name, next) and writes its roots as a JSON
array. A node reached again within the active scope is written as its id.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			cfg := config.DefaultConfig()
			if configPath != "" {
				loaded, err := config.Load(configPath)
				if err != nil {
					return err
				}
				cfg = loaded
				logger.Debug("loaded config", "path", configPath, "scope", cfg.Scope, "unwrap_single", cfg.UnwrapSingle)
			}

			var opts []polyref.CallOption
			if cmd.Flags().Changed("scope") {
				s, err := apis.ParseScope(scope)
				if err != nil {
					return err
				}
				opts = append(opts, polyref.WithScope(s))
			}
			u, err := apis.ParseUnwrap(unwrap)
			if err != nil {
				return err
			}
			opts = append(opts, polyref.WithUnwrap(u))

			roots, err := loadGraph(args[0])
			if err != nil {
				return err
			}
			logger.Debug("loaded graph", "path", args[0], "roots", len(roots))

			m := polyref.New(
				polyref.WithConfig(cfg),
				polyref.WithIdentity(identity.Property("ID")),
				polyref.WithLogger(logger),
			)
			out := cmd.OutOrStdout()
			if err := m.WriteJSON(out, roots, opts...); err != nil {
				return err
			}
			_, err = fmt.Fprintln(out)
			return err
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "config file (.yaml, .yml or .toml)")
	cmd.Flags().StringVar(&scope, "scope", apis.ScopeDocument.String(), "reference scope: document or per-root-element")
	cmd.Flags().StringVar(&unwrap, "unwrap", apis.UnwrapDefault.String(), "single-element unwrap: default, always or never")
	return cmd
}
