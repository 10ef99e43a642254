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
	"context"

	"github.com/walteh/retext/pkg/tree"
	"golang.org/x/net/html"
)

// 🧬 MutationType is the kind of change a record describes
type MutationType int

const (
	// CharacterData is a change to the data of a text node
	CharacterData MutationType = iota
	// ChildList is a change to the children of an element
	ChildList
)

func (t MutationType) String() string {
	switch t {
	case CharacterData:
		return "characterData"
	case ChildList:
		return "childList"
	default:
		return "unknown"
	}
}

// 📋 MutationRecord names a changed node
type MutationRecord struct {
	Type   MutationType
	Target *html.Node
}

// 👀 Observer queues mutation records for one subtree of a document and
// hands them to its subscriber on Flush. It satisfies bridge.Notifier.
type Observer struct {
	doc       *Document
	target    *html.Node
	handler   func(ctx context.Context, changes []tree.Root)
	connected bool
	closed    bool
	pending   []MutationRecord
}

// NewObserver creates an unsubscribed observer of the subtree rooted at target.
func (d *Document) NewObserver(target *html.Node) *Observer {
	o := &Observer{doc: d, target: target}
	d.observers = append(d.observers, o)
	return o
}

// Subscribe starts queuing records for fn. It does nothing once the
// observer is closed.
func (o *Observer) Subscribe(fn func(ctx context.Context, changes []tree.Root)) {
	if o.closed {
		return
	}
	o.handler = fn
	o.connected = true
}

// Unsubscribe stops queuing and drops records not yet delivered.
func (o *Observer) Unsubscribe() {
	o.connected = false
	o.handler = nil
	o.pending = nil
}

// Close unsubscribes for good and detaches the observer from its document.
func (o *Observer) Close() {
	o.Unsubscribe()
	o.closed = true
	o.doc.removeObserver(o)
}

// Connected reports whether records are currently being queued.
func (o *Observer) Connected() bool {
	return o.connected
}

// Pending returns the number of records waiting for the next Flush.
func (o *Observer) Pending() int {
	return len(o.pending)
}

// 🚿 Flush delivers every observer's queued records as one batch each.
// Records queued while handlers run wait for the next Flush. It returns
// the number of batches delivered.
func (d *Document) Flush(ctx context.Context) int {
	observers := make([]*Observer, len(d.observers))
	copy(observers, d.observers)

	delivered := 0
	for _, o := range observers {
		if !o.connected || len(o.pending) == 0 {
			continue
		}
		batch := o.pending
		o.pending = nil

		changes := make([]tree.Root, 0, len(batch))
		for _, rec := range batch {
			changes = append(changes, d.Subtree(rec.Target))
		}
		o.handler(ctx, changes)
		delivered++
	}
	return delivered
}

func (d *Document) record(rec MutationRecord) {
	for _, o := range d.observers {
		if o.connected && contains(o.target, rec.Target) {
			o.pending = append(o.pending, rec)
		}
	}
}

func (d *Document) removeObserver(o *Observer) {
	for i, other := range d.observers {
		if other == o {
			d.observers = append(d.observers[:i], d.observers[i+1:]...)
			return
		}
	}
}
