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
	"bytes"
	"context"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/retext/pkg/dom"
	"github.com/walteh/retext/pkg/message"
	"github.com/walteh/retext/pkg/rule"
	"github.com/walteh/retext/pkg/text"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/net/html"
)

// 📄 Document kinds
const (
	KindHTML = "html"
	KindText = "text"
)

// KindOf picks the engine for a document from its extension.
func KindOf(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm", ".xhtml":
		return KindHTML
	default:
		return KindText
	}
}

// 📊 DocumentResult is the outcome of rewriting one document
type DocumentResult struct {
	Path     string
	Kind     string
	Content  []byte
	Matches  int
	Nodes    int
	Modified bool
}

// 🔄 RewriteDocument applies the rules to a document once. HTML goes
// through a host and its text nodes; anything else is rewritten as one
// string. A document where nothing changed comes back byte for byte.
func RewriteDocument(ctx context.Context, path string, data []byte, rules []rule.Rule, opts Options) (DocumentResult, error) {
	res := DocumentResult{Path: path, Kind: KindOf(path), Content: data}

	if res.Kind == KindText {
		var compileOpts []rule.CompileOption
		if opts.MatchTimeout > 0 {
			compileOpts = append(compileOpts, rule.WithMatchTimeout(opts.MatchTimeout))
		}
		compiled, err := rule.Prepare(rules, compileOpts...)
		if err != nil {
			return res, errors.Errorf("preparing rules: %w", err)
		}
		out, err := text.NewReplacer().ReplaceText(ctx, bytes.NewReader(data), compiled)
		if err != nil {
			return res, errors.Errorf("rewriting %s: %w", path, err)
		}
		res.Matches = out.ReplacementCount
		res.Modified = out.WasModified
		if out.WasModified {
			res.Content = out.ModifiedContent
		}
		return res, nil
	}

	doc, err := dom.Parse(bytes.NewReader(data))
	if err != nil {
		return res, errors.Errorf("parsing %s: %w", path, err)
	}
	host, err := NewHost(doc, opts)
	if err != nil {
		return res, err
	}
	defer host.Close()

	title := doc.Title()
	sess, err := host.ApplyRules(ctx, message.ApplyRules{
		Event:        message.EventApplyRules,
		Replacements: rules,
	})
	if err != nil {
		return res, errors.Errorf("rewriting %s: %w", path, err)
	}

	res.Matches = sess.Initial.MatchCount
	res.Nodes = sess.Initial.NodesVisited
	if res.Matches > 0 || doc.Title() != title {
		res.Content = []byte(doc.String())
		res.Modified = !bytes.Equal(res.Content, data)
	}

	zerolog.Ctx(ctx).Debug().
		Str("document", path).
		Int("matches", res.Matches).
		Int("nodes", res.Nodes).
		Msg("document rewritten")

	return res, nil
}

// 🔴 LiveDocument is a parsed document kept in memory across reloads.
// New content is spliced into the live body so an active dynamic session
// sees it as a mutation.
type LiveDocument struct {
	host *Host
}

// OpenLive parses data and creates a host for it.
func OpenLive(data []byte, opts Options) (*LiveDocument, error) {
	doc, err := dom.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Errorf("parsing document: %w", err)
	}
	host, err := NewHost(doc, opts)
	if err != nil {
		return nil, err
	}
	return &LiveDocument{host: host}, nil
}

// Apply starts a new session on the live document.
func (l *LiveDocument) Apply(ctx context.Context, msg message.ApplyRules) (*Session, error) {
	return l.host.ApplyRules(ctx, msg)
}

// Session returns the active session, if any.
func (l *LiveDocument) Session() *Session {
	return l.host.Current()
}

// 🔁 Reload swaps the live body's children for those parsed from data and
// delivers the resulting mutations. It returns the matches the reload
// added to the running total.
func (l *LiveDocument) Reload(ctx context.Context, data []byte) (int, error) {
	fresh, err := dom.Parse(bytes.NewReader(data))
	if err != nil {
		return 0, errors.Errorf("parsing document: %w", err)
	}

	doc := l.host.Document()
	body, freshBody := doc.Body(), fresh.Body()
	if body == nil || freshBody == nil {
		return 0, errors.Errorf("document has no body")
	}

	var children []*html.Node
	for c := freshBody.FirstChild; c != nil; c = c.NextSibling {
		children = append(children, c)
	}

	before := 0
	if sess := l.Session(); sess != nil {
		before = sess.Total()
	}

	doc.ReplaceChildren(body, children...)
	rounds := doc.Flush(ctx)

	after := 0
	if sess := l.Session(); sess != nil {
		after = sess.Total()
	}

	zerolog.Ctx(ctx).Debug().
		Int("nodes", len(children)).
		Int("rounds", rounds).
		Int("matches", after-before).
		Msg("document reloaded")

	return after - before, nil
}

// Bytes renders the live document.
func (l *LiveDocument) Bytes() []byte {
	return []byte(l.host.Document().String())
}

// Close stops the active session.
func (l *LiveDocument) Close() {
	l.host.Close()
}
