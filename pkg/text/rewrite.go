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

package text

import (
	"github.com/walteh/retext/pkg/rule"
	"gitlab.com/tozd/go/errors"
)

// 📝 Result is the outcome of rewriting one string
type Result struct {
	Text  string // Rewritten text
	Count int    // Matches replaced across all rules
}

// 🔄 Rewrite applies rules one after another to the same evolving string.
// Each rule sees the output of the rules before it. The count of a rule is
// taken against the string as it stands when that rule runs.
func Rewrite(s string, rules []*rule.Compiled) (Result, error) {
	res := Result{Text: s}
	for _, r := range rules {
		n, err := r.Count(res.Text)
		if err != nil {
			return Result{Text: s}, errors.Errorf("counting matches: %w", err)
		}
		if n == 0 {
			continue
		}
		out, err := r.ReplaceAll(res.Text)
		if err != nil {
			return Result{Text: s}, errors.Errorf("replacing matches: %w", err)
		}
		res.Text = out
		res.Count += n
	}
	return res, nil
}
