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
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/retext/cmd/retext/opts"
	"github.com/walteh/retext/pkg/message"
	"github.com/walteh/retext/pkg/operation"
	"github.com/walteh/retext/pkg/status"
	"gitlab.com/tozd/go/errors"
)

type hostFlags struct {
	document string
	output   string
	watch    bool
}

// NewHostCmd creates a new host command
func NewHostCmd(o *opts.RootOpts) *cobra.Command {
	flags := &hostFlags{}

	cmd := &cobra.Command{
		Use:   "host",
		Short: "Serve a document over a JSON-lines message stream",
		Long: `Host loads one HTML document and reads applyRules messages from stdin,
one JSON object per line. Every message starts a new session on the document and
sessionStarted and countUpdate messages are written to stdout. With --watch, edits
to the document are fed to the active session. When stdin closes the document is
written to --output, if given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()
			ctx = zerolog.Ctx(ctx).With().Str("command", "host").Logger().WithContext(ctx)

			cfg, err := o.Config(ctx)
			if err != nil {
				return err
			}

			data, err := os.ReadFile(flags.document)
			if err != nil {
				return errors.Errorf("reading %s: %w", flags.document, err)
			}

			enc := message.NewEncoder(cmd.OutOrStdout())
			live, err := operation.OpenLive(data, opts.HostOptions(cfg, enc))
			if err != nil {
				return err
			}
			defer live.Close()

			h := &messageHost{
				live:     live,
				document: flags.document,
				output:   flags.output,
			}

			var events <-chan fsnotify.Event
			if flags.watch {
				fsw, err := fsnotify.NewWatcher()
				if err != nil {
					return errors.Errorf("creating file watcher: %w", err)
				}
				defer fsw.Close()
				if err := fsw.Add(filepath.Dir(flags.document)); err != nil {
					return errors.Errorf("watching %s: %w", flags.document, err)
				}
				events = fsw.Events
			}

			return h.serve(ctx, cmd.InOrStdin(), events)
		},
	}

	cmd.Flags().StringVar(&flags.document, "document", "", "HTML document to host")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "file the document is written to when the stream ends")
	cmd.Flags().BoolVarP(&flags.watch, "watch", "w", false, "feed edits of the document to the active session")
	_ = cmd.MarkFlagRequired("document")

	return cmd
}

// 🏠 messageHost drives a live document from inbound messages
type messageHost struct {
	live     *operation.LiveDocument
	document string
	output   string
}

type inbound struct {
	msg message.ApplyRules
	err error
}

// 🔁 serve handles messages until the stream ends or ctx is done. A message
// that fails to apply is logged and the host keeps serving.
func (h *messageHost) serve(ctx context.Context, in io.Reader, events <-chan fsnotify.Event) error {
	logger := zerolog.Ctx(ctx)

	msgs := make(chan inbound)
	// the reader cannot be interrupted, so after ctx is done this goroutine
	// may stay blocked in Decode until the input closes or the process exits
	go func() {
		defer close(msgs)
		dec := message.NewDecoder(in)
		for {
			msg, err := dec.Decode()
			if errors.Is(err, message.ErrUnsupported) {
				logger.Warn().Err(err).Msg("skipping message")
				continue
			}
			select {
			case msgs <- inbound{msg: msg, err: err}:
			case <-ctx.Done():
				return
			}
			if err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return h.finish(ctx)
		case m, ok := <-msgs:
			if !ok || errors.Is(m.err, io.EOF) {
				return h.finish(ctx)
			}
			if m.err != nil {
				return errors.Errorf("reading messages: %w", m.err)
			}
			if _, err := h.live.Apply(ctx, m.msg); err != nil {
				logger.Error().Err(err).Str("session", m.msg.SessionID).Msg("applying rules")
			}
		case evt, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			h.handle(ctx, evt)
		}
	}
}

func (h *messageHost) handle(ctx context.Context, evt fsnotify.Event) {
	if !evt.Has(fsnotify.Write) && !evt.Has(fsnotify.Create) {
		return
	}
	if !samePath(evt.Name, h.document) {
		return
	}

	data, err := os.ReadFile(h.document)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("document", h.document).Msg("reading document")
		return
	}
	if _, err := h.live.Reload(ctx, data); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("document", h.document).Msg("reloading document")
	}
}

// finish writes the document once the stream is over
func (h *messageHost) finish(ctx context.Context) error {
	if h.output == "" {
		return nil
	}

	total := 0
	if sess := h.live.Session(); sess != nil {
		total = sess.Total()
	}
	if _, err := status.New("", zerolog.Ctx(ctx)).Put(ctx, h.output, h.live.Bytes(), total); err != nil {
		return errors.Errorf("writing %s: %w", h.output, err)
	}
	return nil
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}
