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

package bridge

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/walteh/retext/pkg/message"
	"github.com/walteh/retext/pkg/rule"
	"github.com/walteh/retext/pkg/tree"
	"gitlab.com/tozd/go/errors"
)

// 🔔 Handler receives one batch of changed subtree roots
type Handler = func(ctx context.Context, changes []tree.Root)

// 🔌 Notifier is a source of tree-change notifications
type Notifier interface {
	// Subscribe starts delivering change batches to fn
	Subscribe(fn Handler)
	// Unsubscribe stops delivery and drops anything not yet delivered
	Unsubscribe()
}

// 🚦 State is the bridge's position in its lifecycle
type State int

const (
	Idle State = iota
	Watching
	Suspended
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Watching:
		return "watching"
	case Suspended:
		return "suspended"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// 🔧 Options configures a bridge
type Options struct {
	SessionID string
	Notifier  Notifier
	Walker    *tree.Walker
	Rules     []*rule.Compiled
	Reporter  message.Reporter
}

// 🌉 Bridge keeps substitutions applied while the tree changes. It
// unsubscribes for the duration of each handler so its own writes never
// notify it again.
type Bridge struct {
	sessionID string
	notifier  Notifier
	walker    *tree.Walker
	rules     []*rule.Compiled
	reporter  message.Reporter

	// guards the fields below for readers outside the handler
	mu      sync.Mutex
	state   State
	total   int
	handled int
}

// 🏭 New creates an idle bridge
func New(opts Options) (*Bridge, error) {
	if opts.Notifier == nil {
		return nil, errors.Errorf("notifier is required")
	}
	if opts.Walker == nil {
		opts.Walker = tree.NewWalker(0)
	}
	if opts.Reporter == nil {
		opts.Reporter = message.Discard
	}
	return &Bridge{
		sessionID: opts.SessionID,
		notifier:  opts.Notifier,
		walker:    opts.Walker,
		rules:     opts.Rules,
		reporter:  opts.Reporter,
		state:     Idle,
	}, nil
}

// ▶️ Start moves the bridge from Idle to Watching, continuing the running
// total from the initial pass. It may only be called once.
func (b *Bridge) Start(ctx context.Context, initialTotal int) error {
	b.mu.Lock()
	if b.state != Idle {
		state := b.state
		b.mu.Unlock()
		return errors.Errorf("bridge already started (state %s)", state)
	}
	b.total = initialTotal
	b.state = Watching
	b.mu.Unlock()

	zerolog.Ctx(ctx).Debug().
		Str("session", b.sessionID).
		Int("total", initialTotal).
		Msg("watching for changes")

	b.notifier.Subscribe(b.handle)
	return nil
}

// State returns the current state.
func (b *Bridge) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Total returns the running match total of the session.
func (b *Bridge) Total() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.total
}

// Handled returns how many change batches the bridge has processed.
func (b *Bridge) Handled() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.handled
}

func (b *Bridge) handle(ctx context.Context, changes []tree.Root) {
	b.suspended(func() {
		logger := zerolog.Ctx(ctx)

		var res tree.Result
		for i, root := range changes {
			r, err := b.walker.Walk(ctx, root, b.rules)
			if err != nil {
				logger.Error().Err(err).Int("change", i).Str("session", b.sessionID).Msg("incremental pass failed")
			}
			res = res.Add(r)
		}

		b.mu.Lock()
		b.total += res.MatchCount
		b.handled++
		total := b.total
		b.mu.Unlock()

		logger.Debug().
			Str("session", b.sessionID).
			Int("changes", len(changes)).
			Int("matches", res.MatchCount).
			Int("nodes", res.NodesVisited).
			Int("total", total).
			Msg("incremental pass")

		b.reporter.CountUpdate(ctx, message.NewCountUpdate(b.sessionID, total))
	})
}

// suspended runs fn with notifications switched off and always switches
// them back on, including when fn panics.
func (b *Bridge) suspended(fn func()) {
	b.notifier.Unsubscribe()
	b.setState(Suspended)

	defer func() {
		b.setState(Watching)
		b.notifier.Subscribe(b.handle)
	}()

	fn()
}

func (b *Bridge) setState(s State) {
	b.mu.Lock()
	b.state = s
	b.mu.Unlock()
}
