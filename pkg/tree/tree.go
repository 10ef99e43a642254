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

// 📄 TextNode is a text-bearing leaf of a document tree
type TextNode interface {
	// Text returns the current text content
	Text() string
	// SetText replaces the text content in place
	SetText(s string)
}

// 🔁 Iterator enumerates text nodes in document order
type Iterator interface {
	HasNext() bool
	Next() TextNode
}

// 🌳 Root is a subtree whose text nodes can be enumerated
type Root interface {
	// TextNodes returns a fresh iterator positioned before the first text node
	TextNodes() Iterator
}

// Nodes returns a Root over a fixed list of text nodes.
func Nodes(nodes ...TextNode) Root {
	return sliceRoot(nodes)
}

type sliceRoot []TextNode

func (r sliceRoot) TextNodes() Iterator {
	return &sliceIterator{nodes: r}
}

type sliceIterator struct {
	nodes []TextNode
	pos   int
}

func (it *sliceIterator) HasNext() bool {
	return it.pos < len(it.nodes)
}

func (it *sliceIterator) Next() TextNode {
	n := it.nodes[it.pos]
	it.pos++
	return n
}

// StringNode is an in-memory TextNode.
type StringNode struct {
	Value string
}

func (n *StringNode) Text() string {
	return n.Value
}

func (n *StringNode) SetText(s string) {
	n.Value = s
}
