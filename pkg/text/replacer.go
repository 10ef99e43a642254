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
	"context"
	"io"

	"github.com/rs/zerolog"
	"github.com/walteh/retext/pkg/rule"
	"gitlab.com/tozd/go/errors"
)

// ReplacementResult contains the results of rewriting a whole piece of content
type ReplacementResult struct {
	// WasModified indicates if any replacements were made
	WasModified bool

	// ReplacementCount is the number of replacements made
	ReplacementCount int

	// OriginalContent is the content before replacements
	OriginalContent []byte

	// ModifiedContent is the content after replacements
	ModifiedContent []byte
}

// Replacer rewrites flat text content that has no document tree
type Replacer struct{}

// NewReplacer creates a new Replacer
func NewReplacer() *Replacer {
	return &Replacer{}
}

// ReplaceText reads all of content and applies the compiled rules to it as one string
func (r *Replacer) ReplaceText(ctx context.Context, content io.Reader, rules []*rule.Compiled) (*ReplacementResult, error) {
	originalContent, err := io.ReadAll(content)
	if err != nil {
		return nil, errors.Errorf("reading content: %w", err)
	}

	res, err := Rewrite(string(originalContent), rules)
	if err != nil {
		return nil, errors.Errorf("rewriting content: %w", err)
	}

	zerolog.Ctx(ctx).Debug().
		Int("rules", len(rules)).
		Int("replacements", res.Count).
		Msg("replaced text")

	return &ReplacementResult{
		OriginalContent:  originalContent,
		ModifiedContent:  []byte(res.Text),
		ReplacementCount: res.Count,
		WasModified:      res.Text != string(originalContent),
	}, nil
}

// ValidateRules checks that every rule has a pattern and that the pattern compiles
func (r *Replacer) ValidateRules(rules []rule.Rule) error {
	for i, rl := range rules {
		if rl.From == "" {
			return errors.Errorf("rule %d: from is required", i)
		}
	}
	if _, err := rule.CompileAll(rules); err != nil {
		return err
	}
	return nil
}
