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

package opts

import (
	"context"
	"io/fs"
	"sync"

	"github.com/rs/zerolog"
	"github.com/walteh/retext/pkg/config"
	"github.com/walteh/retext/pkg/log"
	"github.com/walteh/retext/pkg/message"
	"github.com/walteh/retext/pkg/operation"
	"github.com/walteh/retext/pkg/remote"
	"github.com/walteh/retext/pkg/rule"
	"gitlab.com/tozd/go/errors"
)

// DefaultConfigFile is read when --config is not given
const DefaultConfigFile = ".retext.yaml"

// RootOpts contains shared options used by all commands
type RootOpts struct {
	ConfigFile     string
	ConfigExplicit bool // --config was passed on the command line
	Debug          bool

	Console *log.Logger
	User    *log.UserLogger

	mu  sync.Mutex
	cfg *config.Config
}

// Level returns the log level selected by the flags.
func (o *RootOpts) Level() zerolog.Level {
	if o.Debug {
		return zerolog.DebugLevel
	}
	return zerolog.InfoLevel
}

// 📚 Config loads the config once. A missing default config file yields an
// empty config; a missing explicit one is an error.
func (o *RootOpts) Config(ctx context.Context) (*config.Config, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.cfg != nil {
		return o.cfg, nil
	}

	cfg, err := config.Load(ctx, o.ConfigFile)
	if err != nil {
		if o.ConfigExplicit || !errors.Is(err, fs.ErrNotExist) {
			return nil, errors.Errorf("loading config: %w", err)
		}
		zerolog.Ctx(ctx).Debug().Str("path", o.ConfigFile).Msg("no config file, using defaults")
		cfg = &config.Config{}
		if err := cfg.Validate(); err != nil {
			return nil, errors.Errorf("validating default config: %w", err)
		}
	}

	o.cfg = cfg
	return cfg, nil
}

// Reload drops the cached config and loads it again.
func (o *RootOpts) Reload(ctx context.Context) (*config.Config, error) {
	o.mu.Lock()
	o.cfg = nil
	o.mu.Unlock()
	return o.Config(ctx)
}

// 📜 Rules returns the inline rules of cfg followed by those of its rule sources.
func (o *RootOpts) Rules(ctx context.Context, cfg *config.Config) ([]rule.Rule, error) {
	rules, err := config.ResolveRuleSources(ctx, cfg, remote.NewFetcher())
	if err != nil {
		return nil, errors.Errorf("resolving rules: %w", err)
	}
	return rules, nil
}

// Prepare expands, deduplicates and compiles rules with the config's match timeout.
func (o *RootOpts) Prepare(cfg *config.Config, rules []rule.Rule) ([]*rule.Compiled, error) {
	var compileOpts []rule.CompileOption
	if cfg.Timeout() > 0 {
		compileOpts = append(compileOpts, rule.WithMatchTimeout(cfg.Timeout()))
	}
	compiled, err := rule.Prepare(rules, compileOpts...)
	if err != nil {
		return nil, errors.Errorf("preparing rules: %w", err)
	}
	return compiled, nil
}

// HostOptions builds host options from the config.
func HostOptions(cfg *config.Config, reporter message.Reporter) operation.Options {
	return operation.Options{
		Reporter:     reporter,
		NodeLimit:    cfg.NodeLimit,
		MatchTimeout: cfg.Timeout(),
		RootSelector: cfg.Root,
	}
}

// Source describes where the rules of cfg come from, for display.
func Source(cfg *config.Config) string {
	if cfg.Location() == "" {
		return "defaults"
	}
	return cfg.Location()
}
