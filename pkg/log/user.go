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
	"strconv"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/walteh/retext/pkg/rule"
	"gitlab.com/tozd/go/errors"
)

// 📢 UserLogger prints short human-facing feedback for CLI commands
type UserLogger struct {
	log zerolog.Logger // for debug/error logging
	out io.Writer
}

// 🎯 NewUserLogger creates a user logger writing to stdout
func NewUserLogger(ctx context.Context) *UserLogger {
	return NewUserLoggerTo(ctx, os.Stdout)
}

// NewUserLoggerTo creates a user logger writing to w
func NewUserLoggerTo(ctx context.Context, w io.Writer) *UserLogger {
	return &UserLogger{
		log: *zerolog.Ctx(ctx),
		out: w,
	}
}

// 📊 LogStateChange logs a change to the overall state
func (u *UserLogger) LogStateChange(description string) {
	pterm.Info.WithPrefix(pterm.Prefix{Text: "📦"}).WithWriter(u.out).Println(description)
	u.log.Info().Msg(description)
}

// 🔍 LogValidation logs validation results
func (u *UserLogger) LogValidation(valid bool, description string, err error) {
	switch {
	case valid:
		pterm.Success.WithPrefix(pterm.Prefix{Text: "✅"}).WithWriter(u.out).Println(description)
		u.log.Info().Msg(description)
	case err != nil:
		pterm.Error.WithPrefix(pterm.Prefix{Text: "❌"}).WithWriter(u.out).Println(description)
		pterm.Error.WithWriter(u.out).Println(describeError(err))
		u.log.Error().Err(err).Msg(description)
	default:
		pterm.Warning.WithPrefix(pterm.Prefix{Text: "⚠️"}).WithWriter(u.out).Println(description)
		u.log.Warn().Msg(description)
	}
}

// 📋 LogRules renders the prepared rules as a table
func (u *UserLogger) LogRules(rules []*rule.Compiled) error {
	data := pterm.TableData{{"#", "From", "To", "Flags", "Pattern"}}
	for i, r := range rules {
		data = append(data, []string{strconv.Itoa(i), r.From, r.To, r.Flags(), r.Pattern()})
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(data).WithWriter(u.out).Render(); err != nil {
		return errors.Errorf("rendering rules: %w", err)
	}
	u.log.Debug().Int("rules", len(rules)).Msg("listed rules")
	return nil
}

// pattern errors read better with the offending rule spelled out
func describeError(err error) string {
	var perr *rule.PatternError
	if errors.As(err, &perr) {
		return fmt.Sprintf("%v (rule %s)", err, perr.Rule)
	}
	return err.Error()
}
