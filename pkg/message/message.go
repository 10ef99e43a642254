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
	"github.com/walteh/retext/pkg/rule"
)

// 📨 Event names a message on the wire
type Event string

const (
	EventApplyRules     Event = "applyRules"
	EventSessionStarted Event = "sessionStarted"
	EventCountUpdate    Event = "countUpdate"
)

// 📥 ApplyRules asks the host to start a rewrite session with a new rule batch
type ApplyRules struct {
	Event          Event       `json:"event"`
	SessionID      string      `json:"sessionId,omitempty"`
	UseDynamicMode bool        `json:"useDynamicMode"`
	Replacements   []rule.Rule `json:"replacements"`
}

// NewApplyRules creates an applyRules message
func NewApplyRules(sessionID string, dynamic bool, rules []rule.Rule) ApplyRules {
	return ApplyRules{
		Event:          EventApplyRules,
		SessionID:      sessionID,
		UseDynamicMode: dynamic,
		Replacements:   rules,
	}
}

// 📤 SessionStarted is sent when a session begins
type SessionStarted struct {
	Event     Event  `json:"event"`
	SessionID string `json:"sessionId,omitempty"`
}

// NewSessionStarted creates a sessionStarted message
func NewSessionStarted(sessionID string) SessionStarted {
	return SessionStarted{Event: EventSessionStarted, SessionID: sessionID}
}

// 📤 CountUpdate carries the running match total of a session
type CountUpdate struct {
	Event      Event  `json:"event"`
	SessionID  string `json:"sessionId"`
	TotalCount int    `json:"totalCount"`
}

// NewCountUpdate creates a countUpdate message
func NewCountUpdate(sessionID string, total int) CountUpdate {
	return CountUpdate{Event: EventCountUpdate, SessionID: sessionID, TotalCount: total}
}
