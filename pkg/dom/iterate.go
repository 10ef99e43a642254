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

package dom

import (
	"github.com/walteh/retext/pkg/tree"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// text inside these elements is markup or code, not content
var rawTextElements = map[atom.Atom]bool{
	atom.Script:   true,
	atom.Style:    true,
	atom.Noscript: true,
	atom.Iframe:   true,
	atom.Noembed:  true,
	atom.Noframes: true,
	atom.Xmp:      true,
}

// 🌳 Subtree returns the text nodes under n as a tree.Root. Nodes are
// enumerated lazily in pre-order, so a node's successor is found only
// after the node itself has been handed out.
//
// Unlike a browser TreeWalker with SHOW_TEXT, text inside raw-text
// elements (script, style and the like) is never visited, so it neither
// matches nor counts against the node budget.
func (d *Document) Subtree(n *html.Node) tree.Root {
	return subtree{doc: d, root: n}
}

type subtree struct {
	doc  *Document
	root *html.Node
}

func (s subtree) TextNodes() tree.Iterator {
	return &textIterator{doc: s.doc, root: s.root}
}

type textIterator struct {
	doc     *Document
	root    *html.Node
	cur     *html.Node
	started bool
	peeked  bool
	next    *html.Node
}

func (it *textIterator) HasNext() bool {
	return it.peek() != nil
}

func (it *textIterator) Next() tree.TextNode {
	n := it.peek()
	if n == nil {
		return nil
	}
	it.cur = n
	it.peeked = false
	return &textNode{doc: it.doc, node: n}
}

func (it *textIterator) peek() *html.Node {
	if it.peeked {
		return it.next
	}
	it.peeked = true

	var candidate *html.Node
	if !it.started {
		it.started = true
		if it.root == nil {
			return nil
		}
		if isRawText(it.root) {
			it.next = nil
			return nil
		}
		candidate = it.root
	} else {
		candidate = following(it.cur, it.root, false)
	}

	for candidate != nil {
		switch {
		case candidate.Type == html.TextNode:
			it.next = candidate
			return candidate
		case isRawText(candidate):
			candidate = following(candidate, it.root, true)
		default:
			candidate = following(candidate, it.root, false)
		}
	}
	it.next = nil
	return nil
}

// following returns the node after n in pre-order without leaving root.
func following(n, root *html.Node, skipChildren bool) *html.Node {
	if !skipChildren && n.FirstChild != nil {
		return n.FirstChild
	}
	for ; n != nil && n != root; n = n.Parent {
		if n.NextSibling != nil {
			return n.NextSibling
		}
	}
	return nil
}

func isRawText(n *html.Node) bool {
	return n.Type == html.ElementNode && rawTextElements[n.DataAtom]
}

// textNode adapts an html text node to tree.TextNode, routing writes
// through the document so observers see them.
type textNode struct {
	doc  *Document
	node *html.Node
}

func (t *textNode) Text() string {
	return t.node.Data
}

func (t *textNode) SetText(s string) {
	t.doc.SetText(t.node, s)
}
