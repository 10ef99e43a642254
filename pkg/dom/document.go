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
	"bytes"
	"io"
	"strings"

	"gitlab.com/tozd/go/errors"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// 📄 Document is a live, mutable HTML tree. Every change made through its
// mutation methods is reported to the observers watching the changed node.
type Document struct {
	root      *html.Node
	observers []*Observer
}

// 🏭 Parse reads an HTML document
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, errors.Errorf("parsing html: %w", err)
	}
	return &Document{root: root}, nil
}

// ParseString reads an HTML document from a string
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

// Root returns the document node.
func (d *Document) Root() *html.Node {
	return d.root
}

// Body returns the body element, or nil if there is none.
func (d *Document) Body() *html.Node {
	return findElement(d.root, atom.Body)
}

// Head returns the head element, or nil if there is none.
func (d *Document) Head() *html.Node {
	return findElement(d.root, atom.Head)
}

// 📝 Render writes the document as HTML
func (d *Document) Render(w io.Writer) error {
	if err := html.Render(w, d.root); err != nil {
		return errors.Errorf("rendering html: %w", err)
	}
	return nil
}

// String renders the document, returning an empty string on failure.
func (d *Document) String() string {
	var buf bytes.Buffer
	if err := d.Render(&buf); err != nil {
		return ""
	}
	return buf.String()
}

// 🏷️ Title returns the text of the first title element with whitespace
// collapsed, the way a browser reports document.title.
func (d *Document) Title() string {
	title := findElement(d.root, atom.Title)
	if title == nil {
		return ""
	}
	var sb strings.Builder
	for c := title.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
		}
	}
	return strings.Join(strings.Fields(sb.String()), " ")
}

// SetTitle replaces the children of the title element with a single text
// node, creating the title element in head when it is missing.
func (d *Document) SetTitle(s string) {
	title := findElement(d.root, atom.Title)
	if title == nil {
		head := d.Head()
		if head == nil {
			return
		}
		title = &html.Node{Type: html.ElementNode, DataAtom: atom.Title, Data: atom.Title.String()}
		d.AppendChild(head, title)
	}
	d.ReplaceChildren(title, &html.Node{Type: html.TextNode, Data: s})
}

// ✏️ SetText replaces the data of a text or comment node
func (d *Document) SetText(n *html.Node, s string) {
	n.Data = s
	d.record(MutationRecord{Type: CharacterData, Target: n})
}

// AppendChild adds child as the last child of parent, detaching it from
// its current parent first.
func (d *Document) AppendChild(parent, child *html.Node) {
	d.detach(child)
	parent.AppendChild(child)
	d.record(MutationRecord{Type: ChildList, Target: parent})
}

// InsertBefore inserts child before ref. A nil ref appends.
func (d *Document) InsertBefore(parent, child, ref *html.Node) {
	d.detach(child)
	parent.InsertBefore(child, ref)
	d.record(MutationRecord{Type: ChildList, Target: parent})
}

// RemoveChild removes child from parent.
func (d *Document) RemoveChild(parent, child *html.Node) error {
	if child.Parent != parent {
		return errors.Errorf("node is not a child of the given parent")
	}
	parent.RemoveChild(child)
	d.record(MutationRecord{Type: ChildList, Target: parent})
	return nil
}

// ReplaceChildren swaps all children of parent for the given nodes as one change.
func (d *Document) ReplaceChildren(parent *html.Node, children ...*html.Node) {
	for c := parent.FirstChild; c != nil; {
		next := c.NextSibling
		parent.RemoveChild(c)
		c = next
	}
	for _, c := range children {
		if c.Parent != nil {
			c.Parent.RemoveChild(c)
		}
		parent.AppendChild(c)
	}
	d.record(MutationRecord{Type: ChildList, Target: parent})
}

func (d *Document) detach(n *html.Node) {
	if n.Parent == nil {
		return
	}
	parent := n.Parent
	parent.RemoveChild(n)
	d.record(MutationRecord{Type: ChildList, Target: parent})
}

func findElement(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, a); found != nil {
			return found
		}
	}
	return nil
}

func contains(ancestor, n *html.Node) bool {
	for ; n != nil; n = n.Parent {
		if n == ancestor {
			return true
		}
	}
	return false
}
