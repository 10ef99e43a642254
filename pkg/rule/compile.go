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
	"time"

	"github.com/dlclark/regexp2"
	"gitlab.com/tozd/go/errors"
)

// wordBoundary wraps whole-word patterns on both ends
const wordBoundary = `\b`

// ⚙️ Compiled is a rule bound to its matcher. It is created once per rule
// batch and never modified afterwards.
type Compiled struct {
	Rule
	re *regexp2.Regexp
}

// ❌ PatternError reports a rule whose pattern is not a valid regular expression
type PatternError struct {
	Index int // Position in the batch, -1 when compiled on its own
	Rule  Rule
	Err   error
}

func (e *PatternError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("invalid pattern %q: %v", e.Rule.From, e.Err)
	}
	return fmt.Sprintf("rule %d: invalid pattern %q: %v", e.Index, e.Rule.From, e.Err)
}

func (e *PatternError) Unwrap() error {
	return e.Err
}

type compileOptions struct {
	matchTimeout time.Duration
}

// 🔧 CompileOption configures rule compilation
type CompileOption func(*compileOptions)

// WithMatchTimeout bounds the time a single match attempt may take.
// Zero disables the bound.
func WithMatchTimeout(d time.Duration) CompileOption {
	return func(o *compileOptions) {
		o.matchTimeout = d
	}
}

// 🏭 Compile turns a rule into a global matcher. Patterns use the ECMAScript
// dialect; whole-word rules are anchored with \b on both sides.
func Compile(r Rule, opts ...CompileOption) (*Compiled, error) {
	o := compileOptions{}
	for _, opt := range opts {
		opt(&o)
	}

	pattern := r.From
	if r.WholeWord {
		pattern = wordBoundary + pattern + wordBoundary
	}

	flags := regexp2.RegexOptions(regexp2.ECMAScript)
	if r.IgnoreCase {
		flags |= regexp2.IgnoreCase
	}

	re, err := regexp2.Compile(pattern, flags)
	if err != nil {
		return nil, errors.WithStack(&PatternError{Index: -1, Rule: r, Err: err})
	}
	if o.matchTimeout > 0 {
		re.MatchTimeout = o.matchTimeout
	}

	return &Compiled{Rule: r, re: re}, nil
}

// 📦 CompileAll compiles a batch. The first invalid pattern fails the whole
// batch; no rule is skipped.
func CompileAll(rules []Rule, opts ...CompileOption) ([]*Compiled, error) {
	compiled := make([]*Compiled, 0, len(rules))
	for i, r := range rules {
		c, err := Compile(r, opts...)
		if err != nil {
			var perr *PatternError
			if errors.As(err, &perr) {
				perr.Index = i
			}
			return nil, err
		}
		compiled = append(compiled, c)
	}
	return compiled, nil
}

// 🚀 Prepare runs a raw batch through case expansion, deduplication and
// compilation.
func Prepare(rules []Rule, opts ...CompileOption) ([]*Compiled, error) {
	return CompileAll(Dedup(Expand(rules)), opts...)
}

// Pattern returns the pattern the matcher was built from.
func (c *Compiled) Pattern() string {
	return c.re.String()
}

// 🔍 Count returns the number of non-overlapping matches in s.
func (c *Compiled) Count(s string) (int, error) {
	n := 0
	m, err := c.re.FindStringMatch(s)
	for m != nil && err == nil {
		n++
		m, err = c.re.FindNextMatch(m)
	}
	if err != nil {
		return 0, errors.Errorf("matching %q: %w", c.From, err)
	}
	return n, nil
}

// 🔄 ReplaceAll replaces every match in s with the rule's replacement.
func (c *Compiled) ReplaceAll(s string) (string, error) {
	out, err := c.re.Replace(s, c.To, -1, -1)
	if err != nil {
		return s, errors.Errorf("replacing %q: %w", c.From, err)
	}
	return out, nil
}
