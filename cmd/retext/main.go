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

package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"github.com/walteh/retext/cmd/retext/commands"
	"github.com/walteh/retext/cmd/retext/opts"
	"github.com/walteh/retext/pkg/log"

	_ "github.com/walteh/retext/pkg/remote/file"
	_ "github.com/walteh/retext/pkg/remote/github"
)

func main() {
	ctx := context.Background()
	rootOpts := &opts.RootOpts{}

	rootCmd := &cobra.Command{
		Use:   "retext",
		Short: "Rule-driven text substitution for documents",
		Long: `retext rewrites the visible text of documents with find/replace rules.
Rules come from the config file and any rule sources it names. HTML documents
are rewritten node by node; watched documents are rewritten again as they change.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			rootOpts.ConfigExplicit = cmd.Flags().Changed("config")
			cmd.SetContext(setupLogging(cmd.Context(), rootOpts))
			return nil
		},
	}

	addRootFlags(rootCmd, rootOpts)

	rootCmd.AddCommand(
		commands.NewApplyCmd(rootOpts),
		commands.NewWatchCmd(rootOpts),
		commands.NewHostCmd(rootOpts),
		commands.NewRulesCmd(rootOpts),
		newVersionCmd(),
	)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		user := rootOpts.User
		if user == nil {
			user = log.NewUserLogger(ctx)
		}
		user.LogValidation(false, "Command failed", err)
		os.Exit(1)
	}
}
