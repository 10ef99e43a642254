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

package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/walteh/retext/pkg/rule"
	"gitlab.com/tozd/go/errors"
)

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the config from bytes
	Parse(ctx context.Context, data []byte) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

const (
	// ProviderGitHub reads rule sets from a GitHub repository
	ProviderGitHub = "github"
	// ProviderFile reads rule sets from the local filesystem
	ProviderFile = "file"

	defaultRef = "main"
)

// 📦 RuleSource points at a rule-set file kept outside the config
type RuleSource struct {
	Provider string `json:"provider" yaml:"provider"`             // "github" or "file"
	Repo     string `json:"repo,omitempty" yaml:"repo,omitempty"` // owner/name, github only
	Ref      string `json:"ref,omitempty" yaml:"ref,omitempty"`   // Branch, tag or sha, github only
	Path     string `json:"path" yaml:"path"`                     // File path within the repo or on disk
}

// 📝 String returns a string representation of the source
func (s RuleSource) String() string {
	if s.Provider == ProviderFile {
		return "file:" + s.Path
	}
	return fmt.Sprintf("%s:%s@%s:%s", s.Provider, s.Repo, s.Ref, s.Path)
}

// 📚 Config represents the complete configuration
type Config struct {
	Rules        []rule.Rule  `json:"rules,omitempty" yaml:"rules,omitempty"`               // Inline replacement rules
	RuleSources  []RuleSource `json:"rule_sources,omitempty" yaml:"rule_sources,omitempty"` // Rule sets fetched at load time
	Documents    []string     `json:"documents,omitempty" yaml:"documents,omitempty"`       // Doublestar globs of documents to rewrite
	OutputDir    string       `json:"output_dir,omitempty" yaml:"output_dir,omitempty"`     // Where results go; empty rewrites in place
	Dynamic      bool         `json:"dynamic,omitempty" yaml:"dynamic,omitempty"`           // Keep watching documents after the initial pass
	NodeLimit    int          `json:"node_limit,omitempty" yaml:"node_limit,omitempty"`     // Text nodes visited per pass
	MatchTimeout string       `json:"match_timeout,omitempty" yaml:"match_timeout,omitempty"`
	Root         string       `json:"root,omitempty" yaml:"root,omitempty"`               // CSS selector scoping the initial pass
	Concurrency  int          `json:"concurrency,omitempty" yaml:"concurrency,omitempty"` // Documents processed at once

	timeout  time.Duration
	location string
}

// 🎯 Load loads the configuration from a file
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	cfg, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}
	cfg.location = path

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	logger.Debug().
		Int("rules", len(cfg.Rules)).
		Int("rule_sources", len(cfg.RuleSources)).
		Int("documents", len(cfg.Documents)).
		Msg("configuration loaded")

	return cfg, nil
}

// 🔍 Validate checks if the configuration is valid and fills in defaults
func (cfg *Config) Validate() error {
	for i, r := range cfg.Rules {
		if r.From == "" {
			return errors.Errorf("rules[%d].from is required", i)
		}
	}

	for i := range cfg.RuleSources {
		src := &cfg.RuleSources[i]
		if src.Path == "" {
			return errors.Errorf("rule_sources[%d].path is required", i)
		}
		switch src.Provider {
		case ProviderGitHub:
			if src.Repo == "" {
				return errors.Errorf("rule_sources[%d].repo is required", i)
			}
			if src.Ref == "" {
				src.Ref = defaultRef
			}
		case ProviderFile:
			if !filepath.IsAbs(src.Path) && cfg.location != "" {
				src.Path = filepath.Join(filepath.Dir(cfg.location), src.Path)
			}
		case "":
			return errors.Errorf("rule_sources[%d].provider is required", i)
		default:
			return errors.Errorf("rule_sources[%d]: unknown provider %q", i, src.Provider)
		}
	}

	if cfg.NodeLimit < 0 {
		return errors.Errorf("node_limit must not be negative")
	}
	if cfg.Concurrency < 0 {
		return errors.Errorf("concurrency must not be negative")
	}

	cfg.timeout = 0
	if cfg.MatchTimeout != "" {
		d, err := time.ParseDuration(cfg.MatchTimeout)
		if err != nil {
			return errors.Errorf("parsing match_timeout: %w", err)
		}
		if d < 0 {
			return errors.Errorf("match_timeout must not be negative")
		}
		cfg.timeout = d
	}

	if cfg.OutputDir != "" {
		cfg.OutputDir = filepath.Clean(cfg.OutputDir)
	}

	return nil
}

// Timeout returns the parsed match timeout; zero means no bound.
func (cfg *Config) Timeout() time.Duration {
	return cfg.timeout
}

// Location returns the file the config was loaded from, if any.
func (cfg *Config) Location() string {
	return cfg.location
}

// 📝 String returns a string representation of the config
func (cfg *Config) String() string {
	out := cfg.OutputDir
	if out == "" {
		out = "in place"
	}
	mode := "static"
	if cfg.Dynamic {
		mode = "dynamic"
	}
	return fmt.Sprintf("%d rules, %d sources [%s] -> %s (%s)",
		len(cfg.Rules), len(cfg.RuleSources), strings.Join(cfg.Documents, ", "), out, mode)
}
