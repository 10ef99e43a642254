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
	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/net/html"
)

// 🎯 Select returns the outermost nodes matching a CSS selector, in
// document order. Nodes nested inside another match are dropped so no
// text is visited twice.
func (d *Document) Select(selector string) ([]*html.Node, error) {
	if selector == "" {
		return nil, errors.Errorf("selector is empty")
	}

	sel, err := cascadia.Compile(selector)
	if err != nil {
		return nil, errors.Errorf("compiling selector %q: %w", selector, err)
	}

	matches := goquery.NewDocumentFromNode(d.root).FindMatcher(sel).Nodes

	outermost := make([]*html.Node, 0, len(matches))
	for _, n := range matches {
		nested := false
		for _, other := range matches {
			if other != n && contains(other, n) {
				nested = true
				break
			}
		}
		if !nested {
			outermost = append(outermost, n)
		}
	}
	return outermost, nil
}
