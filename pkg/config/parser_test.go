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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/retext/pkg/rule"
)

// 🧪 TestParserRegistration tests the parser registration system
func TestParserRegistration(t *testing.T) {
	originalParsers := parsers
	defer func() {
		parsers = originalParsers
	}()

	parsers = nil

	mockParser := &struct {
		Parser
		canParse bool
	}{
		canParse: true,
	}

	Register(mockParser)
	assert.Len(t, parsers, 1, "should have 1 parser registered")
	assert.Equal(t, mockParser, parsers[0], "registered parser should match")
}

// 🧪 TestParserSelection tests parser selection by file extension
func TestParserSelection(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		want     Parser
	}{
		{name: "yaml_file", filename: "config.yaml", want: &YAMLParser{}},
		{name: "yml_file", filename: "config.yml", want: &YAMLParser{}},
		{name: "dot_file", filename: ".retext.yaml", want: &YAMLParser{}},
		{name: "upper_case_extension", filename: "RULES.YML", want: &YAMLParser{}},
		{name: "hcl_file", filename: "config.hcl", want: &HCLParser{}},
		{name: "json_file", filename: "rules/common.json", want: &JSONParser{}},
		{name: "unknown_extension", filename: "config.txt", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GetParser(tt.filename)
			if tt.want == nil {
				assert.Nil(t, got, "should return nil for unknown extension")
				return
			}
			require.NotNil(t, got, "should return a parser")
			assert.IsType(t, tt.want, got, "should return correct parser type")
		})
	}
}

// 🧪 TestParsing checks every format decodes into the same model
func TestParsing(t *testing.T) {
	tests := []struct {
		name        string
		filename    string
		config      string
		wantErr     bool
		errContains string
		check       func(t *testing.T, cfg *Config)
	}{
		{
			name:     "valid_yaml",
			filename: "config.yaml",
			config: `
rules:
  - from: cat
    to: dog
    whole_word: true
  - from: hello world
    to: goodbye
    smart_case: true
rule_sources:
  - provider: github
    repo: walteh/rules
    path: rules/common.yaml
documents:
  - "site/**/*.html"
output_dir: out/
dynamic: true
node_limit: 100
match_timeout: 250ms
root: main
concurrency: 2
`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, []rule.Rule{
					{From: "cat", To: "dog", WholeWord: true},
					{From: "hello world", To: "goodbye", SmartCase: true},
				}, cfg.Rules)
				require.Len(t, cfg.RuleSources, 1)
				assert.Equal(t, RuleSource{Provider: "github", Repo: "walteh/rules", Path: "rules/common.yaml"}, cfg.RuleSources[0])
				assert.Equal(t, []string{"site/**/*.html"}, cfg.Documents)
				assert.Equal(t, "out/", cfg.OutputDir)
				assert.True(t, cfg.Dynamic)
				assert.Equal(t, 100, cfg.NodeLimit)
				assert.Equal(t, "250ms", cfg.MatchTimeout)
				assert.Equal(t, "main", cfg.Root)
				assert.Equal(t, 2, cfg.Concurrency)
			},
		},
		{
			name:        "yaml_unknown_field",
			filename:    "config.yaml",
			config:      "rulez:\n  - from: cat\n",
			wantErr:     true,
			errContains: "parsing YAML",
		},
		{
			name:     "valid_hcl",
			filename: "config.hcl",
			config: `
rule {
  from       = "cat"
  to         = "dog"
  whole_word = true
}

rule {
  from        = "Foo"
  to          = "bar"
  ignore_case = true
}

rule_source "file" {
  path = "extra.yaml"
}

rule_source "github" {
  repo = "walteh/rules"
  ref  = "v1"
  path = "common.hcl"
}

documents     = ["site/**/*.html", "notes/*.txt"]
match_timeout = "1s"
concurrency   = 4
`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, []rule.Rule{
					{From: "cat", To: "dog", WholeWord: true},
					{From: "Foo", To: "bar", IgnoreCase: true},
				}, cfg.Rules)
				assert.Equal(t, []RuleSource{
					{Provider: "file", Path: "extra.yaml"},
					{Provider: "github", Repo: "walteh/rules", Ref: "v1", Path: "common.hcl"},
				}, cfg.RuleSources)
				assert.Equal(t, []string{"site/**/*.html", "notes/*.txt"}, cfg.Documents)
				assert.Equal(t, "1s", cfg.MatchTimeout)
				assert.Equal(t, 4, cfg.Concurrency)
				assert.False(t, cfg.Dynamic)
			},
		},
		{
			name:        "hcl_missing_required",
			filename:    "config.hcl",
			config:      "rule {\n  from = \"cat\"\n}\n",
			wantErr:     true,
			errContains: "decoding HCL",
		},
		{
			name:        "hcl_syntax_error",
			filename:    "config.hcl",
			config:      "rule {",
			wantErr:     true,
			errContains: "parsing HCL",
		},
		{
			name:     "valid_json",
			filename: "config.json",
			config:   `{"rules":[{"from":"cat","to":"dog","ignoreCase":true}],"dynamic":true,"root":"article"}`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, []rule.Rule{{From: "cat", To: "dog", IgnoreCase: true}}, cfg.Rules)
				assert.True(t, cfg.Dynamic)
				assert.Equal(t, "article", cfg.Root)
			},
		},
		{
			name:        "json_unknown_field",
			filename:    "config.json",
			config:      `{"replacements":[]}`,
			wantErr:     true,
			errContains: "parsing JSON",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := GetParser(tt.filename)
			require.NotNil(t, p, "parser should exist")

			cfg, err := p.Parse(context.Background(), []byte(tt.config))
			if tt.wantErr {
				require.Error(t, err, "should return error")
				assert.Contains(t, err.Error(), tt.errContains, "error should contain expected message")
				return
			}
			require.NoError(t, err, "should parse without error")
			tt.check(t, cfg)
		})
	}
}

func TestHCLEnvironment(t *testing.T) {
	t.Setenv("RETEXT_TEST_OUT", "/tmp/retext-out")

	cfg, err := (&HCLParser{}).Parse(context.Background(), []byte(`output_dir = "${env.RETEXT_TEST_OUT}/site"`))
	require.NoError(t, err)
	assert.Equal(t, "/tmp/retext-out/site", cfg.OutputDir)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		cfg         Config
		wantErr     bool
		errContains string
		check       func(t *testing.T, cfg *Config)
	}{
		{
			name: "empty_config_is_valid",
			cfg:  Config{},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, time.Duration(0), cfg.Timeout())
			},
		},
		{
			name: "defaults_and_cleanup",
			cfg: Config{
				RuleSources:  []RuleSource{{Provider: ProviderGitHub, Repo: "a/b", Path: "r.yaml"}},
				OutputDir:    "out/./site/",
				MatchTimeout: "150ms",
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "main", cfg.RuleSources[0].Ref, "ref should default to main")
				assert.Equal(t, "out/site", cfg.OutputDir)
				assert.Equal(t, 150*time.Millisecond, cfg.Timeout())
			},
		},
		{
			name:        "rule_without_from",
			cfg:         Config{Rules: []rule.Rule{{From: "a", To: "b"}, {To: "c"}}},
			wantErr:     true,
			errContains: "rules[1].from is required",
		},
		{
			name:        "source_without_provider",
			cfg:         Config{RuleSources: []RuleSource{{Path: "x.yaml"}}},
			wantErr:     true,
			errContains: "provider is required",
		},
		{
			name:        "source_with_unknown_provider",
			cfg:         Config{RuleSources: []RuleSource{{Provider: "gitlab", Path: "x.yaml"}}},
			wantErr:     true,
			errContains: `unknown provider "gitlab"`,
		},
		{
			name:        "github_source_without_repo",
			cfg:         Config{RuleSources: []RuleSource{{Provider: ProviderGitHub, Path: "x.yaml"}}},
			wantErr:     true,
			errContains: "repo is required",
		},
		{
			name:        "source_without_path",
			cfg:         Config{RuleSources: []RuleSource{{Provider: ProviderFile}}},
			wantErr:     true,
			errContains: "path is required",
		},
		{
			name:        "bad_timeout",
			cfg:         Config{MatchTimeout: "soon"},
			wantErr:     true,
			errContains: "parsing match_timeout",
		},
		{
			name:        "negative_timeout",
			cfg:         Config{MatchTimeout: "-1s"},
			wantErr:     true,
			errContains: "match_timeout must not be negative",
		},
		{
			name:        "negative_node_limit",
			cfg:         Config{NodeLimit: -1},
			wantErr:     true,
			errContains: "node_limit",
		},
		{
			name:        "negative_concurrency",
			cfg:         Config{Concurrency: -2},
			wantErr:     true,
			errContains: "concurrency",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			err := cfg.Validate()
			if tt.wantErr {
				require.Error(t, err, "should return error")
				assert.Contains(t, err.Error(), tt.errContains, "error should contain expected message")
				return
			}
			require.NoError(t, err, "should validate")
			tt.check(t, &cfg)
		})
	}
}

func TestRuleSourceString(t *testing.T) {
	assert.Equal(t, "file:rules.yaml", RuleSource{Provider: ProviderFile, Path: "rules.yaml"}.String())
	assert.Equal(t, "github:a/b@v1:r.yaml", RuleSource{Provider: ProviderGitHub, Repo: "a/b", Ref: "v1", Path: "r.yaml"}.String())
}
