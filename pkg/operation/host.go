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

package operation

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/walteh/retext/pkg/bridge"
	"github.com/walteh/retext/pkg/dom"
	"github.com/walteh/retext/pkg/message"
	"github.com/walteh/retext/pkg/rule"
	"github.com/walteh/retext/pkg/text"
	"github.com/walteh/retext/pkg/tree"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/net/html"
)

// 🔧 Options configures a host
type Options struct {
	// Reporter receives sessionStarted and countUpdate messages
	Reporter message.Reporter
	// NodeLimit caps the text nodes visited per pass; zero means tree.DefaultNodeLimit
	NodeLimit int
	// MatchTimeout bounds a single regex match; zero disables the bound
	MatchTimeout time.Duration
	// RootSelector scopes the initial pass to the outermost matching elements
	RootSelector string
}

// 🏠 Host owns one document and the substitution session running on it.
// A host is not safe for concurrent use; run one host per document.
type Host struct {
	doc      *dom.Document
	reporter message.Reporter
	walker   *tree.Walker
	opts     Options
	current  *Session
}

// 🏭 NewHost creates a host for the given document
func NewHost(doc *dom.Document, opts Options) (*Host, error) {
	if doc == nil {
		return nil, errors.Errorf("document is required")
	}
	if opts.Reporter == nil {
		opts.Reporter = message.Discard
	}
	return &Host{
		doc:      doc,
		reporter: opts.Reporter,
		walker:   tree.NewWalker(opts.NodeLimit),
		opts:     opts,
	}, nil
}

// Document returns the hosted document.
func (h *Host) Document() *dom.Document {
	return h.doc
}

// Current returns the active session, or nil before the first ApplyRules.
func (h *Host) Current() *Session {
	return h.current
}

// 🎯 ApplyRules runs one applyRules request against the document. Any
// previous session stops watching before the new one starts, and the new
// session begins a fresh running total.
func (h *Host) ApplyRules(ctx context.Context, msg message.ApplyRules) (*Session, error) {
	h.Close()
	h.current = nil

	id := msg.SessionID
	if id == "" {
		id = uuid.NewString()
	}
	logger := zerolog.Ctx(ctx).With().Str("session", id).Logger()
	ctx = logger.WithContext(ctx)

	h.reporter.SessionStarted(ctx, message.NewSessionStarted(id))

	var compileOpts []rule.CompileOption
	if h.opts.MatchTimeout > 0 {
		compileOpts = append(compileOpts, rule.WithMatchTimeout(h.opts.MatchTimeout))
	}
	compiled, err := rule.Prepare(msg.Replacements, compileOpts...)
	if err != nil {
		return nil, errors.Errorf("preparing rules: %w", err)
	}

	sess := &Session{ID: id, Rules: compiled}
	h.current = sess

	if err := h.rewriteTitle(ctx, compiled); err != nil {
		return nil, err
	}

	roots, err := h.roots()
	if err != nil {
		return nil, err
	}
	for _, root := range roots {
		res, err := h.walker.Walk(ctx, h.doc.Subtree(root), compiled)
		if err != nil {
			return nil, errors.Errorf("initial pass: %w", err)
		}
		sess.Initial = sess.Initial.Add(res)
	}

	logger.Debug().
		Int("rules", len(compiled)).
		Int("matches", sess.Initial.MatchCount).
		Int("nodes", sess.Initial.NodesVisited).
		Msg("initial pass complete")

	h.reporter.CountUpdate(ctx, message.NewCountUpdate(id, sess.Initial.MatchCount))

	if !msg.UseDynamicMode {
		return sess, nil
	}

	body := h.doc.Body()
	if body == nil {
		return nil, errors.Errorf("document has no body to watch")
	}
	sess.observer = h.doc.NewObserver(body)
	b, err := bridge.New(bridge.Options{
		SessionID: id,
		Notifier:  sess.observer,
		Walker:    h.walker,
		Rules:     compiled,
		Reporter:  h.reporter,
	})
	if err != nil {
		sess.close()
		return nil, errors.Errorf("creating bridge: %w", err)
	}
	if err := b.Start(ctx, sess.Initial.MatchCount); err != nil {
		sess.close()
		return nil, errors.Errorf("starting bridge: %w", err)
	}
	sess.bridge = b

	return sess, nil
}

// Close stops the current session from watching the document.
func (h *Host) Close() {
	if h.current != nil {
		h.current.close()
	}
}

// the title is not part of the body, so it is rewritten once and never watched
func (h *Host) rewriteTitle(ctx context.Context, rules []*rule.Compiled) error {
	if len(rules) == 0 {
		return nil
	}
	res, err := text.Rewrite(h.doc.Title(), rules)
	if err != nil {
		return errors.Errorf("rewriting title: %w", err)
	}
	if res.Count > 0 {
		zerolog.Ctx(ctx).Debug().Int("matches", res.Count).Msg("title rewritten")
		h.doc.SetTitle(res.Text)
	}
	return nil
}

func (h *Host) roots() ([]*html.Node, error) {
	if h.opts.RootSelector == "" {
		body := h.doc.Body()
		if body == nil {
			return nil, nil
		}
		return []*html.Node{body}, nil
	}
	nodes, err := h.doc.Select(h.opts.RootSelector)
	if err != nil {
		return nil, errors.Errorf("selecting roots %q: %w", h.opts.RootSelector, err)
	}
	return nodes, nil
}
