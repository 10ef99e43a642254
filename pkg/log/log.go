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
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/walteh/retext/pkg/message"
)

// 🎨 Display configuration
const (
	docIndent    = 4  // spaces to indent document entries
	nameWidth    = 35 // Base width for document path
	kindWidth    = 6  // Width for document kind
	statusWidth  = 10 // Width for status text
	sessionWidth = 8  // Characters of the session id shown in headers
)

// 🎯 DocumentOperation represents one document processed in a session
type DocumentOperation struct {
	Path       string // Document path
	Kind       string // Document kind (html/text)
	Status     string // Operation status
	Matches    int    // Substitutions made
	Nodes      int    // Text nodes visited
	IsModified bool   // Whether the document changed
	IsFailed   bool   // Whether processing failed
	IsDynamic  bool   // Whether the document stays watched
}

// 📦 SessionOperation represents a substitution session for logging
type SessionOperation struct {
	ID      string // Session id
	Rules   int    // Prepared rule count
	Source  string // Where the rules came from
	Dynamic bool   // Whether documents are watched after the initial pass
}

// 🎯 Logger handles structured logging with console output
type Logger struct {
	zlog      zerolog.Logger
	console   io.Writer
	mu        sync.Mutex
	current   *SessionOperation
	documents []DocumentOperation
}

// 🏭 New creates a new logger. Console lines go to console; structured
// logs go to stderr so stdout stays free for machine output.
func New(console io.Writer, level zerolog.Level) *Logger {
	zlog := zerolog.New(zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) {
		w.Out = os.Stderr
	})).With().Timestamp().Logger().Level(level)
	return &Logger{
		zlog:    zlog,
		console: console,
		mu:      sync.Mutex{},
	}
}

// 🔑 contextKey is the type for context values
type contextKey struct{}

// 🎯 FromContext gets the logger from context
func FromContext(ctx context.Context) *Logger {
	logger, ok := ctx.Value(contextKey{}).(*Logger)
	if !ok {
		panic("logger not found in context")
	}
	return logger
}

// 🎯 NewContext adds the logger to context
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

func shortID(id string) string {
	if len(id) > sessionWidth {
		return id[:sessionWidth]
	}
	return id
}

// 📝 formatDocumentOperation formats a document operation for display
func (l *Logger) formatDocumentOperation(op DocumentOperation) string {
	var symbol rune
	var symbolColor color.Attribute
	switch {
	case op.IsFailed:
		symbol = '✗'
		symbolColor = color.FgRed
	case op.IsModified:
		symbol = '⟳'
		symbolColor = color.FgBlue
	case op.IsDynamic:
		symbol = '•'
		symbolColor = color.FgCyan
	default:
		symbol = '-'
		symbolColor = color.FgYellow
	}

	var kindColor color.Attribute
	switch op.Kind {
	case "html":
		kindColor = color.FgCyan
	default:
		kindColor = color.FgYellow
	}

	return fmt.Sprintf("%s%s %s %s %s %s",
		fmt.Sprintf("%*s", docIndent, ""),
		color.New(symbolColor).Sprint(string(symbol)),
		fmt.Sprintf("%-*s", nameWidth, op.Path),
		color.New(kindColor).Sprint(fmt.Sprintf("%-*s", kindWidth, op.Kind)),
		fmt.Sprintf("%-*s", statusWidth, op.Status),
		color.New(color.Faint).Sprintf("%d matches", op.Matches))
}

// 📝 LogDocumentOperation logs a document operation
func (l *Logger) LogDocumentOperation(ctx context.Context, op DocumentOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.documents = append(l.documents, op)

	fmt.Fprintln(l.console, l.formatDocumentOperation(op))

	l.zlog.Info().
		Str("document", op.Path).
		Str("kind", op.Kind).
		Str("status", op.Status).
		Int("matches", op.Matches).
		Int("nodes", op.Nodes).
		Bool("is_modified", op.IsModified).
		Bool("is_failed", op.IsFailed).
		Bool("is_dynamic", op.IsDynamic).
		Msg("document operation")
}

// 📝 StartSession starts a new session
func (l *Logger) StartSession(ctx context.Context, op SessionOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.current = &op
	l.documents = nil

	mode := "static"
	if op.Dynamic {
		mode = "dynamic"
	}

	fmt.Fprintf(l.console, "[session %s]\n",
		color.New(color.FgCyan).Sprint(shortID(op.ID)))

	fmt.Fprintf(l.console, "%s %s %s %s\n",
		color.New(color.FgMagenta).Sprint("◆"),
		color.New(color.Bold).Sprintf("%d rules", op.Rules),
		color.New(color.Faint).Sprint("•"),
		color.New(color.FgYellow).Sprint(mode))

	l.zlog.Info().
		Str("session", op.ID).
		Int("rules", op.Rules).
		Str("source", op.Source).
		Bool("dynamic", op.Dynamic).
		Msg("starting session")
}

// 📝 EndSession ends the current session and returns its total match count
func (l *Logger) EndSession(ctx context.Context) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.current == nil {
		return 0
	}

	total := 0
	failed := 0
	for _, d := range l.documents {
		total += d.Matches
		if d.IsFailed {
			failed++
		}
	}

	l.zlog.Info().
		Str("session", l.current.ID).
		Int("documents", len(l.documents)).
		Int("failed", failed).
		Int("matches", total).
		Msg("session complete")

	l.current = nil
	l.documents = nil
	return total
}

// SessionStarted implements message.Reporter.
func (l *Logger) SessionStarted(ctx context.Context, msg message.SessionStarted) {
	l.zlog.Debug().Str("session", msg.SessionID).Msg("session started")
}

// CountUpdate implements message.Reporter.
func (l *Logger) CountUpdate(ctx context.Context, msg message.CountUpdate) {
	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprintf(l.console, "%s%s %s %s\n",
		fmt.Sprintf("%*s", docIndent, ""),
		color.New(color.FgBlue).Sprint("↻"),
		color.New(color.Faint).Sprint(shortID(msg.SessionID)),
		color.New(color.Bold).Sprintf("%d total", msg.TotalCount))

	l.zlog.Debug().
		Str("session", msg.SessionID).
		Int("total", msg.TotalCount).
		Msg("count update")
}

var _ message.Reporter = (*Logger)(nil)

// 📝 LogNewline logs a newline
func (l *Logger) LogNewline() {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.console)
}

// 📝 Header logs a header
func (l *Logger) Header(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	retextText := color.New(color.Bold, color.FgCyan).Sprint("retext")
	fmt.Fprintf(l.console, "\n%s %s\n\n", retextText, color.New(color.Faint).Sprint("• "+msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Success logs a success message
func (l *Logger) Success(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "✅ %s\n", color.New(color.FgGreen).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Warning logs a warning message
func (l *Logger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "⚠️  %s\n", color.New(color.FgYellow).Sprint(msg))
	l.zlog.Warn().Msg(msg)
}

// 📝 Error logs an error message
func (l *Logger) Error(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "❌ %s\n", color.New(color.FgRed).Sprint(msg))
	l.zlog.Error().Msg(msg)
}

// 📝 Info logs an info message
func (l *Logger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "ℹ️  %s\n", color.New(color.FgCyan).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Infof logs a formatted info message
func (l *Logger) Infof(format string, args ...interface{}) {
	l.Info(fmt.Sprintf(format, args...))
}

// 📝 Warningf logs a formatted warning message
func (l *Logger) Warningf(format string, args ...interface{}) {
	l.Warning(fmt.Sprintf(format, args...))
}

// 📝 Errorf logs a formatted error message
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.Error(fmt.Sprintf(format, args...))
}

// 📝 Successf logs a formatted success message
func (l *Logger) Successf(format string, args ...interface{}) {
	l.Success(fmt.Sprintf(format, args...))
}
