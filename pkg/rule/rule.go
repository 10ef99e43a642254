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

package rule

import (
	"fmt"
	"strings"
)

// 🔄 Rule is a single find/replace request as it arrives from a rule source
type Rule struct {
	From       string `json:"from" yaml:"from"`                                   // Regular-expression pattern to match
	To         string `json:"to" yaml:"to"`                                       // Replacement text, may reference capture groups
	IgnoreCase bool   `json:"ignoreCase,omitempty" yaml:"ignore_case,omitempty"` // Match case-insensitively
	WholeWord  bool   `json:"wholeWord,omitempty" yaml:"whole_word,omitempty"`   // Require word boundaries at both ends
	SmartCase  bool   `json:"smartCase,omitempty" yaml:"smart_case,omitempty"`   // Expand into case variants
}

// 🎯 Equal reports whether two rules are structurally identical
func (r Rule) Equal(o Rule) bool {
	return r.From == o.From &&
		r.To == o.To &&
		r.IgnoreCase == o.IgnoreCase &&
		r.WholeWord == o.WholeWord &&
		r.SmartCase == o.SmartCase
}

// 📝 Flags returns a short flag string like "iw" for display
func (r Rule) Flags() string {
	var sb strings.Builder
	if r.IgnoreCase {
		sb.WriteByte('i')
	}
	if r.WholeWord {
		sb.WriteByte('w')
	}
	if r.SmartCase {
		sb.WriteByte('s')
	}
	return sb.String()
}

// 📝 String returns a string representation of the rule
func (r Rule) String() string {
	if flags := r.Flags(); flags != "" {
		return fmt.Sprintf("%q -> %q [%s]", r.From, r.To, flags)
	}
	return fmt.Sprintf("%q -> %q", r.From, r.To)
}
