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

	"github.com/rs/zerolog"
	"github.com/walteh/retext/pkg/rule"
	"gitlab.com/tozd/go/errors"
)

// 🌐 RuleFetcher retrieves the raw bytes of a rule-set file
type RuleFetcher interface {
	Fetch(ctx context.Context, src RuleSource) ([]byte, error)
}

// 📜 ParseRuleSet reads the rules out of a rule-set file. A rule set uses the
// config format chosen by its extension; only its rules are kept.
func ParseRuleSet(ctx context.Context, filename string, data []byte) ([]rule.Rule, error) {
	p := GetParser(filename)
	if p == nil {
		return nil, errors.Errorf("no parser found for rule set: %s", filename)
	}

	set, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing rule set %s: %w", filename, err)
	}

	for i, r := range set.Rules {
		if r.From == "" {
			return nil, errors.Errorf("rule set %s: rules[%d].from is required", filename, i)
		}
	}
	return set.Rules, nil
}

// 🔗 ResolveRuleSources returns the inline rules followed by the rules of
// every rule source, in declaration order. The config is not modified.
func ResolveRuleSources(ctx context.Context, cfg *Config, fetcher RuleFetcher) ([]rule.Rule, error) {
	rules := make([]rule.Rule, 0, len(cfg.Rules))
	rules = append(rules, cfg.Rules...)

	if len(cfg.RuleSources) == 0 {
		return rules, nil
	}
	if fetcher == nil {
		return nil, errors.Errorf("config has rule sources but no fetcher was given")
	}

	logger := zerolog.Ctx(ctx)
	for _, src := range cfg.RuleSources {
		data, err := fetcher.Fetch(ctx, src)
		if err != nil {
			return nil, errors.Errorf("fetching rule source %s: %w", src, err)
		}

		set, err := ParseRuleSet(ctx, src.Path, data)
		if err != nil {
			return nil, err
		}

		logger.Debug().Str("source", src.String()).Int("rules", len(set)).Msg("resolved rule source")
		rules = append(rules, set...)
	}

	return rules, nil
}
