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
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/walteh/retext/pkg/rule"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
)

func init() {
	Register(&HCLParser{})
}

// 🔧 HCLParser implements the Parser interface for HCL files
type HCLParser struct{}

// 🔍 CanParse checks if this parser can handle the given file
func (p *HCLParser) CanParse(filename string) bool {
	return strings.ToLower(filepath.Ext(filename)) == ".hcl"
}

type hclRule struct {
	From       string `hcl:"from"`
	To         string `hcl:"to"`
	IgnoreCase bool   `hcl:"ignore_case,optional"`
	WholeWord  bool   `hcl:"whole_word,optional"`
	SmartCase  bool   `hcl:"smart_case,optional"`
}

type hclRuleSource struct {
	Provider string `hcl:"provider,label"`
	Repo     string `hcl:"repo,optional"`
	Ref      string `hcl:"ref,optional"`
	Path     string `hcl:"path"`
}

type hclConfig struct {
	Rules        []hclRule       `hcl:"rule,block"`
	RuleSources  []hclRuleSource `hcl:"rule_source,block"`
	Documents    []string        `hcl:"documents,optional"`
	OutputDir    string          `hcl:"output_dir,optional"`
	Dynamic      bool            `hcl:"dynamic,optional"`
	NodeLimit    int             `hcl:"node_limit,optional"`
	MatchTimeout string          `hcl:"match_timeout,optional"`
	Root         string          `hcl:"root,optional"`
	Concurrency  int             `hcl:"concurrency,optional"`
}

// 📝 Parse parses the config from HCL. Expressions may read environment
// variables through the env object, e.g. path = "${env.HOME}/rules.yaml".
func (p *HCLParser) Parse(ctx context.Context, data []byte) (*Config, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, "config.hcl")
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": envObject(),
		},
	}

	var hclCfg hclConfig
	diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &hclCfg)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	cfg := &Config{
		Documents:    hclCfg.Documents,
		OutputDir:    hclCfg.OutputDir,
		Dynamic:      hclCfg.Dynamic,
		NodeLimit:    hclCfg.NodeLimit,
		MatchTimeout: hclCfg.MatchTimeout,
		Root:         hclCfg.Root,
		Concurrency:  hclCfg.Concurrency,
	}
	for _, r := range hclCfg.Rules {
		cfg.Rules = append(cfg.Rules, rule.Rule{
			From:       r.From,
			To:         r.To,
			IgnoreCase: r.IgnoreCase,
			WholeWord:  r.WholeWord,
			SmartCase:  r.SmartCase,
		})
	}
	for _, s := range hclCfg.RuleSources {
		cfg.RuleSources = append(cfg.RuleSources, RuleSource{
			Provider: s.Provider,
			Repo:     s.Repo,
			Ref:      s.Ref,
			Path:     s.Path,
		})
	}

	return cfg, nil
}

func envObject() cty.Value {
	vars := map[string]cty.Value{}
	for _, kv := range os.Environ() {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}
		vars[k] = cty.StringVal(v)
	}
	if len(vars) == 0 {
		return cty.EmptyObjectVal
	}
	return cty.ObjectVal(vars)
}
