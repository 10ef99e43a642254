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
	"bytes"
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/retext/cmd/retext/opts"
	"github.com/walteh/retext/pkg/config"
	"github.com/walteh/retext/pkg/log"
	"github.com/walteh/retext/pkg/message"
	"github.com/walteh/retext/pkg/operation"
	"github.com/walteh/retext/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// NewWatchCmd creates a new watch command
func NewWatchCmd(o *opts.RootOpts) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "watch <document>...",
		Short: "Keep documents rewritten while they and the config change",
		Long: `Watch applies the rules to an HTML document and keeps the session open.
Edits to the document are spliced into the live copy and only the new text is
rewritten; edits to the config start a new session. Results are written to the
output directory after every change.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()
			ctx = zerolog.Ctx(ctx).With().Str("command", "watch").Logger().WithContext(ctx)

			cfg, err := o.Config(ctx)
			if err != nil {
				return err
			}
			if output != "" {
				cfg.OutputDir = filepath.Clean(output)
			}

			return watchDocuments(ctx, o, cfg, args)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output directory (required unless set in the config)")

	return cmd
}

// 👀 watchDocuments keeps every html document in paths rewritten until ctx
// is done. One file watcher serves all documents.
func watchDocuments(ctx context.Context, o *opts.RootOpts, cfg *config.Config, paths []string) error {
	var watches []*documentWatch
	defer func() {
		for _, w := range watches {
			w.close()
		}
	}()

	dirs := map[string]bool{}
	for _, path := range paths {
		w, err := newDocumentWatch(o, cfg, path)
		if err != nil {
			return err
		}
		watches = append(watches, w)
		for _, dir := range w.dirs() {
			dirs[dir] = true
		}
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Errorf("creating file watcher: %w", err)
	}
	defer fsw.Close()

	for dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			return errors.Errorf("watching %s: %w", dir, err)
		}
	}

	for _, w := range watches {
		if err := w.start(ctx); err != nil {
			return err
		}
	}
	o.Console.Infof("watching %d documents", len(watches))

	return runWatches(ctx, o, watches, fsw.Events, fsw.Errors)
}

func runWatches(ctx context.Context, o *opts.RootOpts, watches []*documentWatch, events <-chan fsnotify.Event, errs <-chan error) error {
	for {
		select {
		case <-ctx.Done():
			o.Console.EndSession(ctx)
			return nil
		case evt, ok := <-events:
			if !ok {
				return nil
			}
			for _, w := range watches {
				w.handle(ctx, evt)
			}
		case err, ok := <-errs:
			if !ok {
				return nil
			}
			zerolog.Ctx(ctx).Warn().Err(err).Msg("file watcher error")
		}
	}
}

// documentWatch keeps one live document rewritten across file changes
type documentWatch struct {
	o       *opts.RootOpts
	cfg     *config.Config
	path    string // Document as given
	absPath string
	mgr     *status.Manager
	live    *operation.LiveDocument
	last    []byte // Content of the last load, to drop duplicate events
}

func newDocumentWatch(o *opts.RootOpts, cfg *config.Config, path string) (*documentWatch, error) {
	if operation.KindOf(path) != operation.KindHTML {
		return nil, errors.Errorf("watch needs an html document, got %s", path)
	}
	if cfg.OutputDir == "" {
		return nil, errors.Errorf("watch needs an output directory: pass --output or set output_dir")
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Errorf("resolving %s: %w", path, err)
	}

	mgr := status.New(cfg.OutputDir, nil)
	target, err := filepath.Abs(mgr.Target(path))
	if err != nil {
		return nil, errors.Errorf("resolving output for %s: %w", path, err)
	}
	if target == absPath {
		return nil, errors.Errorf("output for %s would overwrite the document", path)
	}

	return &documentWatch{
		o:       o,
		cfg:     cfg,
		path:    path,
		absPath: absPath,
		mgr:     mgr,
	}, nil
}

// dirs returns the directories to watch. Editors often replace files, so
// parents are watched rather than the files themselves.
func (w *documentWatch) dirs() []string {
	dirs := []string{filepath.Dir(w.absPath)}
	if cfgPath := w.configPath(); cfgPath != "" && filepath.Dir(cfgPath) != dirs[0] {
		dirs = append(dirs, filepath.Dir(cfgPath))
	}
	return dirs
}

func (w *documentWatch) configPath() string {
	if w.cfg.Location() == "" {
		return ""
	}
	abs, err := filepath.Abs(w.cfg.Location())
	if err != nil {
		return ""
	}
	return abs
}

// 🚀 start loads the document and opens the first session
func (w *documentWatch) start(ctx context.Context) error {
	data, err := os.ReadFile(w.path)
	if err != nil {
		return errors.Errorf("reading %s: %w", w.path, err)
	}
	w.last = data

	live, err := operation.OpenLive(data, opts.HostOptions(w.cfg, w.o.Console))
	if err != nil {
		return errors.Errorf("opening %s: %w", w.path, err)
	}
	w.live = live

	return w.restart(ctx)
}

// restart applies the current rules as a new dynamic session
func (w *documentWatch) restart(ctx context.Context) error {
	rules, err := w.o.Rules(ctx, w.cfg)
	if err != nil {
		return err
	}

	id := uuid.NewString()
	w.o.Console.StartSession(ctx, log.SessionOperation{
		ID:      id,
		Rules:   len(rules),
		Source:  opts.Source(w.cfg),
		Dynamic: true,
	})

	if _, err := w.live.Apply(ctx, message.ApplyRules{
		Event:          message.EventApplyRules,
		SessionID:      id,
		UseDynamicMode: true,
		Replacements:   rules,
	}); err != nil {
		return errors.Errorf("applying rules to %s: %w", w.path, err)
	}

	return w.write(ctx)
}

// 🔁 reloadDocument splices the document's new content into the live copy
func (w *documentWatch) reloadDocument(ctx context.Context) error {
	data, err := os.ReadFile(w.path)
	if err != nil {
		return errors.Errorf("reading %s: %w", w.path, err)
	}
	if bytes.Equal(data, w.last) {
		return nil
	}
	w.last = data

	if _, err := w.live.Reload(ctx, data); err != nil {
		return errors.Errorf("reloading %s: %w", w.path, err)
	}
	return w.write(ctx)
}

// reloadConfig re-reads the config and starts a new session with its rules
func (w *documentWatch) reloadConfig(ctx context.Context) error {
	cfg, err := w.o.Reload(ctx)
	if err != nil {
		return err
	}
	cfg.OutputDir = w.cfg.OutputDir
	w.cfg = cfg

	w.o.Console.EndSession(ctx)
	return w.restart(ctx)
}

func (w *documentWatch) write(ctx context.Context) error {
	total := 0
	if sess := w.live.Session(); sess != nil {
		total = sess.Total()
	}

	info, err := w.mgr.Put(ctx, w.path, w.live.Bytes(), total)
	if err != nil {
		w.mgr.Fail(ctx, w.path, err)
		return errors.Errorf("writing %s: %w", w.path, err)
	}

	w.o.Console.LogDocumentOperation(ctx, log.DocumentOperation{
		Path:       w.path,
		Kind:       operation.KindHTML,
		Status:     info.Status.String(),
		Matches:    total,
		IsModified: info.Status == status.StatusNew || info.Status == status.StatusModified,
		IsDynamic:  true,
	})
	return nil
}

// 🔄 handle routes one file event. Errors are reported and the watch goes on.
func (w *documentWatch) handle(ctx context.Context, evt fsnotify.Event) {
	if !evt.Has(fsnotify.Write) && !evt.Has(fsnotify.Create) {
		return
	}

	name, err := filepath.Abs(evt.Name)
	if err != nil {
		return
	}

	switch name {
	case w.absPath:
		err = w.reloadDocument(ctx)
	case w.configPath():
		err = w.reloadConfig(ctx)
	default:
		return
	}

	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("file", evt.Name).Msg("handling change")
		w.o.Console.Errorf("%s: %v", filepath.Base(evt.Name), err)
	}
}

func (w *documentWatch) close() {
	if w.live != nil {
		w.live.Close()
	}
}
