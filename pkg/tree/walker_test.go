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
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/retext/pkg/rule"
)

func prepare(t *testing.T, rules ...rule.Rule) []*rule.Compiled {
	t.Helper()
	compiled, err := rule.Prepare(rules)
	require.NoError(t, err, "preparing rules should succeed")
	return compiled
}

func stringNodes(values ...string) ([]*StringNode, Root) {
	nodes := make([]*StringNode, len(values))
	generic := make([]TextNode, len(values))
	for i, v := range values {
		nodes[i] = &StringNode{Value: v}
		generic[i] = nodes[i]
	}
	return nodes, Nodes(generic...)
}

// recordingNode counts writes so tests can see which nodes were touched
type recordingNode struct {
	StringNode
	writes int
}

func (n *recordingNode) SetText(s string) {
	n.writes++
	n.StringNode.SetText(s)
}

func TestWalk(t *testing.T) {
	tests := []struct {
		name      string
		values    []string
		rules     []rule.Rule
		limit     int
		want      []string
		wantCount int
		wantNodes int
	}{
		{
			name:      "rewrites_every_node_in_order",
			values:    []string{"a cat", "no match", "cat cat"},
			rules:     []rule.Rule{{From: "cat", To: "dog"}},
			want:      []string{"a dog", "no match", "dog dog"},
			wantCount: 3,
			wantNodes: 3,
		},
		{
			name:      "budget_stops_early",
			values:    []string{"a", "a", "a", "a", "a"},
			rules:     []rule.Rule{{From: "a", To: "b"}},
			limit:     3,
			want:      []string{"b", "b", "b", "a", "a"},
			wantCount: 3,
			wantNodes: 3,
		},
		{
			name:      "budget_larger_than_tree",
			values:    []string{"a", "a"},
			rules:     []rule.Rule{{From: "a", To: "b"}},
			limit:     10,
			want:      []string{"b", "b"},
			wantCount: 2,
			wantNodes: 2,
		},
		{
			name:      "no_rules_skips_traversal",
			values:    []string{"a", "a"},
			rules:     nil,
			want:      []string{"a", "a"},
			wantCount: 0,
			wantNodes: 0,
		},
		{
			name:      "empty_tree",
			values:    nil,
			rules:     []rule.Rule{{From: "a", To: "b"}},
			want:      []string{},
			wantCount: 0,
			wantNodes: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nodes, root := stringNodes(tt.values...)
			w := NewWalker(tt.limit)

			res, err := w.Walk(context.Background(), root, prepare(t, tt.rules...))
			require.NoError(t, err)
			assert.Equal(t, tt.wantCount, res.MatchCount, "match count should match")
			assert.Equal(t, tt.wantNodes, res.NodesVisited, "visited nodes should match")

			got := make([]string, len(nodes))
			for i, n := range nodes {
				got[i] = n.Value
			}
			assert.Equal(t, tt.want, got, "node text should match")
		})
	}
}

func TestWalkBudgetNeverExceeded(t *testing.T) {
	const limit = 100

	values := make([]string, limit*3)
	for i := range values {
		values[i] = fmt.Sprintf("node %d", i)
	}
	_, root := stringNodes(values...)

	res, err := NewWalker(limit).Walk(context.Background(), root, prepare(t, rule.Rule{From: "node", To: "leaf"}))
	require.NoError(t, err)
	assert.Equal(t, limit, res.NodesVisited, "visited nodes should equal the budget")
	assert.Equal(t, limit, res.MatchCount)
}

func TestWalkWritesEachVisitedNode(t *testing.T) {
	a := &recordingNode{StringNode: StringNode{Value: "x"}}
	b := &recordingNode{StringNode: StringNode{Value: "y"}}

	_, err := NewWalker(1).Walk(context.Background(), Nodes(a, b), prepare(t, rule.Rule{From: "x", To: "z"}))
	require.NoError(t, err)
	assert.Equal(t, 1, a.writes, "visited node should be written once")
	assert.Equal(t, 0, b.writes, "node past the budget should not be touched")
	assert.Equal(t, "z", a.Value)
}

func TestWalkerLimit(t *testing.T) {
	assert.Equal(t, DefaultNodeLimit, NewWalker(0).Limit())
	assert.Equal(t, DefaultNodeLimit, NewWalker(-5).Limit())
	assert.Equal(t, 7, NewWalker(7).Limit())

	var nilWalker *Walker
	assert.Equal(t, DefaultNodeLimit, nilWalker.Limit())
}

func TestResultAdd(t *testing.T) {
	got := Result{MatchCount: 1, NodesVisited: 2}.Add(Result{MatchCount: 3, NodesVisited: 4})
	assert.Equal(t, Result{MatchCount: 4, NodesVisited: 6}, got)
}
