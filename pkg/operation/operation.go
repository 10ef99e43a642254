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

	"github.com/walteh/retext/pkg/bridge"
	"github.com/walteh/retext/pkg/dom"
	"github.com/walteh/retext/pkg/rule"
	"github.com/walteh/retext/pkg/tree"
)

// 🔄 Operation is one unit of work the runner can execute
type Operation interface {
	// Name identifies the operation in logs, usually a document path
	Name() string
	// Execute performs the operation
	Execute(ctx context.Context) error
}

// 🎮 Func adapts a named function to the Operation interface
type Func struct {
	Label string
	Fn    func(ctx context.Context) error
}

func (f Func) Name() string {
	return f.Label
}

func (f Func) Execute(ctx context.Context) error {
	return f.Fn(ctx)
}

// 📋 Session is one applyRules request applied to a document
type Session struct {
	// ID is the session identifier echoed in every outbound message
	ID string
	// Rules is the prepared rule list: expanded, deduplicated and compiled
	Rules []*rule.Compiled
	// Initial is the outcome of the initial pass
	Initial tree.Result

	observer *dom.Observer
	bridge   *bridge.Bridge
}

// Total returns the running match total, including incremental passes.
func (s *Session) Total() int {
	if s.bridge != nil {
		return s.bridge.Total()
	}
	return s.Initial.MatchCount
}

// Dynamic reports whether the session keeps watching the document.
func (s *Session) Dynamic() bool {
	return s.bridge != nil
}

// Bridge returns the session's bridge, or nil for a static session.
func (s *Session) Bridge() *bridge.Bridge {
	return s.bridge
}

func (s *Session) close() {
	if s.observer != nil {
		s.observer.Close()
		s.observer = nil
	}
}
