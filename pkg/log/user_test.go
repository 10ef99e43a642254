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

package log

import (
	"bytes"
	"context"
	"testing"

	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/retext/pkg/rule"
	"gitlab.com/tozd/go/errors"
)

func TestUserLogger(t *testing.T) {
	pterm.DisableStyling()
	defer pterm.EnableStyling()

	tests := []struct {
		name     string
		valid    bool
		message  string
		err      error
		contains []string
	}{
		{
			name:     "valid",
			valid:    true,
			message:  "Rules loaded",
			contains: []string{"Rules loaded"},
		},
		{
			name:     "failed_with_error",
			message:  "Command failed",
			err:      errors.New("boom"),
			contains: []string{"Command failed", "boom"},
		},
		{
			name:     "warning_without_error",
			message:  "Nothing matched",
			contains: []string{"Nothing matched"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			u := NewUserLoggerTo(context.Background(), buf)
			u.LogValidation(tt.valid, tt.message, tt.err)
			for _, want := range tt.contains {
				assert.Contains(t, buf.String(), want)
			}
		})
	}
}

func TestUserLoggerPatternError(t *testing.T) {
	pterm.DisableStyling()
	defer pterm.EnableStyling()

	_, err := rule.CompileAll([]rule.Rule{{From: "ok", To: "x"}, {From: "(", To: "y"}})
	require.Error(t, err)

	buf := &bytes.Buffer{}
	NewUserLoggerTo(context.Background(), buf).LogValidation(false, "Invalid rules", err)
	assert.Contains(t, buf.String(), "rule 1: invalid pattern")
	assert.Contains(t, buf.String(), `"(" -> "y"`)
}

func TestUserLoggerRules(t *testing.T) {
	pterm.DisableStyling()
	defer pterm.EnableStyling()

	compiled, err := rule.Prepare([]rule.Rule{{From: "cat", To: "dog", WholeWord: true}})
	require.NoError(t, err)

	buf := &bytes.Buffer{}
	u := NewUserLoggerTo(context.Background(), buf)
	require.NoError(t, u.LogRules(compiled))

	out := buf.String()
	assert.Contains(t, out, "Pattern")
	assert.Contains(t, out, `\bcat\b`)
	assert.Contains(t, out, "dog")
}
