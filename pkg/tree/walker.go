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

package tree

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/walteh/retext/pkg/rule"
	"github.com/walteh/retext/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// DefaultNodeLimit is the number of text nodes a single walk may visit.
const DefaultNodeLimit = 50000

// 📊 Result is the outcome of one traversal
type Result struct {
	MatchCount   int `json:"match_count"`
	NodesVisited int `json:"nodes_visited"`
}

// Add returns the sum of two results.
func (r Result) Add(o Result) Result {
	return Result{
		MatchCount:   r.MatchCount + o.MatchCount,
		NodesVisited: r.NodesVisited + o.NodesVisited,
	}
}

// 🚶 Walker rewrites the text nodes of a subtree, bounded by a node budget
type Walker struct {
	// NodeLimit caps the nodes visited per walk; zero or less means DefaultNodeLimit
	NodeLimit int
}

// NewWalker creates a walker with the given node budget
func NewWalker(limit int) *Walker {
	return &Walker{NodeLimit: limit}
}

// Limit returns the effective node budget.
func (w *Walker) Limit() int {
	if w == nil || w.NodeLimit <= 0 {
		return DefaultNodeLimit
	}
	return w.NodeLimit
}

// 🔄 Walk visits the text nodes under root in document order, rewriting
// each in place. It stops silently once the node budget is spent. With no
// rules nothing is traversed.
func (w *Walker) Walk(ctx context.Context, root Root, rules []*rule.Compiled) (Result, error) {
	var res Result
	if len(rules) == 0 {
		return res, nil
	}

	limit := w.Limit()
	it := root.TextNodes()
	for it.HasNext() && res.NodesVisited < limit {
		node := it.Next()
		out, err := text.Rewrite(node.Text(), rules)
		if err != nil {
			return res, errors.Errorf("rewriting node %d: %w", res.NodesVisited, err)
		}
		node.SetText(out.Text)
		res.MatchCount += out.Count
		res.NodesVisited++
	}

	if res.NodesVisited == limit && it.HasNext() {
		zerolog.Ctx(ctx).Debug().
			Int("limit", limit).
			Msg("node budget reached, remaining nodes skipped")
	}

	return res, nil
}
