// Copyright 2025 walteh LLC
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

package commands

import (
	"github.com/spf13/cobra"
	"github.com/walteh/retext/cmd/retext/opts"
)

// NewRulesCmd creates a new rules command
func NewRulesCmd(o *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Show the prepared rule set",
		Long: `Rules resolves every rule source and prints the rules the way they are
applied: smart-case rules expanded into their case variants, duplicates removed,
and each pattern compiled.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := o.Config(ctx)
			if err != nil {
				return err
			}
			rules, err := o.Rules(ctx, cfg)
			if err != nil {
				return err
			}
			prepared, err := o.Prepare(cfg, rules)
			if err != nil {
				return err
			}

			o.User.LogStateChange(cfg.String())
			if err := o.User.LogRules(prepared); err != nil {
				return err
			}
			o.User.LogValidation(true, "Rules are valid", nil)
			return nil
		},
	}

	return cmd
}
