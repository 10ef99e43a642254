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
	"io"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/retext/pkg/message"
)

func TestLogger(t *testing.T) {
	// Disable color for testing
	color.NoColor = true
	defer func() { color.NoColor = false }()

	tests := []struct {
		name     string
		op       func(t *testing.T, logger *Logger)
		wantLogs []string
	}{
		{
			name: "log_document_operation",
			op: func(t *testing.T, logger *Logger) {
				logger.LogDocumentOperation(context.Background(), DocumentOperation{
					Path:       "index.html",
					Kind:       "html",
					Status:     "REWRITTEN",
					Matches:    3,
					Nodes:      12,
					IsModified: true,
				})
			},
			wantLogs: []string{
				"⟳ index.html                          html   REWRITTEN  3 matches",
			},
		},
		{
			name: "log_session",
			op: func(t *testing.T, logger *Logger) {
				logger.StartSession(context.Background(), SessionOperation{
					ID:      "0123456789abcdef",
					Rules:   4,
					Source:  ".retext.yaml",
					Dynamic: true,
				})
			},
			wantLogs: []string{
				"[session 01234567]",
				"◆ 4 rules • dynamic",
			},
		},
		{
			name: "log_count_update",
			op: func(t *testing.T, logger *Logger) {
				logger.SessionStarted(context.Background(), message.NewSessionStarted("s1"))
				logger.CountUpdate(context.Background(), message.NewCountUpdate("s1", 7))
			},
			wantLogs: []string{
				"↻ s1 7 total",
			},
		},
		{
			name: "log_messages",
			op: func(t *testing.T, logger *Logger) {
				logger.Info("info message")
				logger.Warning("warning message")
				logger.Error("error message")
				logger.Success("success message")
			},
			wantLogs: []string{
				"ℹ️  info message",
				"⚠️  warning message",
				"❌ error message",
				"✅ success message",
			},
		},
		{
			name: "log_formatted_messages",
			op: func(t *testing.T, logger *Logger) {
				logger.Infof("info %s", "test")
				logger.Warningf("warning %s", "test")
				logger.Errorf("error %s", "test")
				logger.Successf("success %s", "test")
			},
			wantLogs: []string{
				"ℹ️  info test",
				"⚠️  warning test",
				"❌ error test",
				"✅ success test",
			},
		},
		{
			name: "log_header",
			op: func(t *testing.T, logger *Logger) {
				logger.Header("rewriting documents")
			},
			wantLogs: []string{
				"retext • rewriting documents",
			},
		},
		{
			name: "log_newline",
			op: func(t *testing.T, logger *Logger) {
				logger.Info("first")
				logger.LogNewline()
				logger.Info("second")
			},
			wantLogs: []string{
				"ℹ️  first",
				"",
				"ℹ️  second",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			logger := New(buf, zerolog.Disabled)

			tt.op(t, logger)

			output := strings.TrimSpace(buf.String())
			lines := strings.Split(output, "\n")

			require.Equal(t, len(tt.wantLogs), len(lines), "number of log lines should match")
			for i, want := range tt.wantLogs {
				assert.Equal(t, want, strings.TrimSpace(lines[i]), "log line %d should match", i)
			}
		})
	}
}

func TestLoggerContext(t *testing.T) {
	logger := New(io.Discard, zerolog.Disabled)

	ctx := NewContext(context.Background(), logger)

	got := FromContext(ctx)
	assert.Same(t, logger, got, "logger from context should be the same instance")

	assert.Panics(t, func() {
		FromContext(context.Background())
	}, "FromContext should panic when logger is missing")
}

func TestEndSession(t *testing.T) {
	ctx := context.Background()
	logger := New(io.Discard, zerolog.Disabled)

	assert.Equal(t, 0, logger.EndSession(ctx), "no session is running")

	logger.StartSession(ctx, SessionOperation{ID: "s1", Rules: 1})
	logger.LogDocumentOperation(ctx, DocumentOperation{Path: "a.html", Kind: "html", Matches: 2, IsModified: true})
	logger.LogDocumentOperation(ctx, DocumentOperation{Path: "b.txt", Kind: "text", Matches: 5, IsModified: true})
	logger.LogDocumentOperation(ctx, DocumentOperation{Path: "c.txt", Kind: "text", IsFailed: true})

	assert.Equal(t, 7, logger.EndSession(ctx))
	assert.Equal(t, 0, logger.EndSession(ctx), "session should be cleared")
}

func TestDocumentOperationFormatting(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	tests := []struct {
		name string
		op   DocumentOperation
		want string
	}{
		{
			name: "modified_document",
			op:   DocumentOperation{Path: "index.html", Kind: "html", Status: "REWRITTEN", Matches: 3, IsModified: true},
			want: "    ⟳ index.html                          html   REWRITTEN  3 matches",
		},
		{
			name: "failed_document",
			op:   DocumentOperation{Path: "broken.html", Kind: "html", Status: "FAILED", IsFailed: true, IsModified: true},
			want: "    ✗ broken.html                         html   FAILED     0 matches",
		},
		{
			name: "unchanged_document",
			op:   DocumentOperation{Path: "notes.txt", Kind: "text", Status: "UNCHANGED"},
			want: "    - notes.txt                           text   UNCHANGED  0 matches",
		},
		{
			name: "watched_document",
			op:   DocumentOperation{Path: "live.html", Kind: "html", Status: "WATCHING", Matches: 2, IsDynamic: true},
			want: "    • live.html                           html   WATCHING   2 matches",
		},
	}

	logger := New(io.Discard, zerolog.Disabled)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, logger.formatDocumentOperation(tt.op))
		})
	}
}
