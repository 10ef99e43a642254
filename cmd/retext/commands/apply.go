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
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/retext/cmd/retext/opts"
	"github.com/walteh/retext/pkg/config"
	"github.com/walteh/retext/pkg/log"
	"github.com/walteh/retext/pkg/operation"
	"github.com/walteh/retext/pkg/rule"
	"github.com/walteh/retext/pkg/status"
	"gitlab.com/tozd/go/errors"
)

type applyFlags struct {
	output      string
	root        string
	concurrency int
	watch       bool
}

// NewApplyCmd creates a new apply command
func NewApplyCmd(o *opts.RootOpts) *cobra.Command {
	flags := &applyFlags{}

	cmd := &cobra.Command{
		Use:   "apply [documents...]",
		Short: "Rewrite documents once with the configured rules",
		Long: `Apply runs one substitution pass over each document.
It will:
1. Load the config and resolve its rule sources
2. Expand the document globs (arguments win over the config)
3. Rewrite every document, HTML node by node and anything else as plain text
4. Write the results to the output directory, or in place
5. In dynamic mode, keep the HTML documents watched like the watch command`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := zerolog.Ctx(cmd.Context()).With().Str("command", "apply").Logger().WithContext(cmd.Context())

			cfg, err := o.Config(ctx)
			if err != nil {
				return err
			}
			flags.override(cfg)

			if err := runApply(ctx, o, cfg, args); err != nil {
				return err
			}
			if !cfg.Dynamic {
				return nil
			}

			docs, err := resolveDocuments(cfg, args)
			if err != nil {
				return err
			}
			var pages []string
			for _, doc := range docs {
				if operation.KindOf(doc) == operation.KindHTML {
					pages = append(pages, doc)
				}
			}
			if len(pages) == 0 {
				o.Console.Warning("dynamic mode: no html documents to watch")
				return nil
			}

			ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer cancel()
			return watchDocuments(ctx, o, cfg, pages)
		},
	}

	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output directory (default: rewrite in place)")
	cmd.Flags().StringVar(&flags.root, "root", "", "CSS selector scoping the substitution")
	cmd.Flags().IntVarP(&flags.concurrency, "concurrency", "j", 0, "documents processed at once (0: no limit)")
	cmd.Flags().BoolVarP(&flags.watch, "watch", "w", false, "keep html documents rewritten as they change")

	return cmd
}

func (f *applyFlags) override(cfg *config.Config) {
	if f.output != "" {
		cfg.OutputDir = filepath.Clean(f.output)
	}
	if f.root != "" {
		cfg.Root = f.root
	}
	if f.concurrency > 0 {
		cfg.Concurrency = f.concurrency
	}
	if f.watch {
		cfg.Dynamic = true
	}
}

func runApply(ctx context.Context, o *opts.RootOpts, cfg *config.Config, args []string) error {
	rules, err := o.Rules(ctx, cfg)
	if err != nil {
		return err
	}
	prepared, err := o.Prepare(cfg, rules)
	if err != nil {
		return err
	}

	docs, err := resolveDocuments(cfg, args)
	if err != nil {
		return err
	}

	console := o.Console
	console.Header("apply")
	console.StartSession(ctx, log.SessionOperation{
		ID:     uuid.NewString(),
		Rules:  len(prepared),
		Source: opts.Source(cfg),
	})

	mgr := status.New(cfg.OutputDir, zerolog.Ctx(ctx))
	hostOpts := opts.HostOptions(cfg, nil)

	ops := make([]operation.Operation, 0, len(docs))
	for _, path := range docs {
		path := path
		ops = append(ops, operation.Func{
			Label: path,
			Fn: func(ctx context.Context) error {
				return applyDocument(ctx, mgr, console, path, rules, hostOpts)
			},
		})
	}

	runner := operation.NewRunner(zerolog.Ctx(ctx), cfg.Concurrency != 1, cfg.Concurrency)
	runErr := runner.Run(ctx, ops...)
	total := console.EndSession(ctx)
	if runErr != nil {
		return runErr
	}

	summary := mgr.Summary()
	console.Successf("%d matches in %d documents (%d written, %d unchanged)",
		total, len(docs), summary[status.StatusNew]+summary[status.StatusModified], summary[status.StatusUnchanged])
	return nil
}

// applyDocument rewrites one document and writes the result
func applyDocument(ctx context.Context, mgr *status.Manager, console *log.Logger, path string, rules []rule.Rule, hostOpts operation.Options) error {
	fail := func(err error) error {
		mgr.Fail(ctx, path, err)
		console.LogDocumentOperation(ctx, log.DocumentOperation{
			Path:     path,
			Kind:     operation.KindOf(path),
			Status:   status.StatusFailed.String(),
			IsFailed: true,
		})
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fail(errors.Errorf("reading %s: %w", path, err))
	}

	res, err := operation.RewriteDocument(ctx, path, data, rules, hostOpts)
	if err != nil {
		return fail(err)
	}

	info, err := mgr.Put(ctx, path, res.Content, res.Matches)
	if err != nil {
		return fail(errors.Errorf("writing %s: %w", path, err))
	}

	console.LogDocumentOperation(ctx, log.DocumentOperation{
		Path:       path,
		Kind:       res.Kind,
		Status:     info.Status.String(),
		Matches:    res.Matches,
		Nodes:      res.Nodes,
		IsModified: info.Status == status.StatusNew || info.Status == status.StatusModified,
	})
	return nil
}

// 🔍 resolveDocuments expands document globs into a sorted list of files.
// Arguments replace the config's globs. Files inside the output directory
// are skipped so a second run does not rewrite its own results.
func resolveDocuments(cfg *config.Config, args []string) ([]string, error) {
	patterns := args
	if len(patterns) == 0 {
		patterns = cfg.Documents
	}
	if len(patterns) == 0 {
		return nil, errors.Errorf("no documents given: pass paths or set documents in the config")
	}

	seen := map[string]bool{}
	var docs []string
	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, errors.Errorf("expanding %q: %w", pattern, err)
		}
		for _, m := range matches {
			m = filepath.Clean(m)
			if seen[m] || insideDir(cfg.OutputDir, m) {
				continue
			}
			seen[m] = true
			docs = append(docs, m)
		}
	}

	if len(docs) == 0 {
		return nil, errors.Errorf("no documents match %s", strings.Join(patterns, ", "))
	}
	sort.Strings(docs)
	return docs, nil
}

func insideDir(dir, path string) bool {
	if dir == "" {
		return false
	}
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
