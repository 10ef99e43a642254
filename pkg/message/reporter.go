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

package message

import (
	"context"
	"sync"
)

// 📣 Reporter delivers outbound messages. Delivery is fire-and-forget:
// implementations log their own failures.
type Reporter interface {
	SessionStarted(ctx context.Context, msg SessionStarted)
	CountUpdate(ctx context.Context, msg CountUpdate)
}

// Discard drops every message.
var Discard Reporter = discard{}

type discard struct{}

func (discard) SessionStarted(context.Context, SessionStarted) {}
func (discard) CountUpdate(context.Context, CountUpdate) {}

// Reporters fans messages out to several reporters in order.
type Reporters []Reporter

func (rs Reporters) SessionStarted(ctx context.Context, msg SessionStarted) {
	for _, r := range rs {
		r.SessionStarted(ctx, msg)
	}
}

func (rs Reporters) CountUpdate(ctx context.Context, msg CountUpdate) {
	for _, r := range rs {
		r.CountUpdate(ctx, msg)
	}
}

// Recorder keeps every message it receives, for tests and summaries.
type Recorder struct {
	mu      sync.Mutex
	Started []SessionStarted
	Counts  []CountUpdate
}

func (r *Recorder) SessionStarted(_ context.Context, msg SessionStarted) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Started = append(r.Started, msg)
}

func (r *Recorder) CountUpdate(_ context.Context, msg CountUpdate) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Counts = append(r.Counts, msg)
}

// LastCount returns the most recent countUpdate and whether there was one.
func (r *Recorder) LastCount() (CountUpdate, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.Counts) == 0 {
		return CountUpdate{}, false
	}
	return r.Counts[len(r.Counts)-1], true
}
