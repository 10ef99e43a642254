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

package remote_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/retext/pkg/config"
	"github.com/walteh/retext/pkg/remote"
	"gitlab.com/tozd/go/errors"
)

type staticProvider struct {
	name string
	data []byte
	err  error
	seen []config.RuleSource
}

func (p *staticProvider) Name() string {
	return p.name
}

func (p *staticProvider) Fetch(_ context.Context, src config.RuleSource) ([]byte, error) {
	p.seen = append(p.seen, src)
	return p.data, p.err
}

func TestFetcher(t *testing.T) {
	ctx := context.Background()

	ok := &staticProvider{name: "static-ok", data: []byte("rules: []")}
	bad := &staticProvider{name: "static-bad", err: errors.New("offline")}
	remote.RegisterProvider(ok.name, ok)
	remote.RegisterProvider(bad.name, bad)

	t.Run("routes_by_provider", func(t *testing.T) {
		src := config.RuleSource{Provider: ok.name, Path: "rules.yaml"}
		data, err := remote.NewFetcher().Fetch(ctx, src)
		require.NoError(t, err)
		assert.Equal(t, []byte("rules: []"), data)
		assert.Equal(t, []config.RuleSource{src}, ok.seen)
	})

	t.Run("wraps_provider_errors", func(t *testing.T) {
		_, err := remote.NewFetcher().Fetch(ctx, config.RuleSource{Provider: bad.name, Path: "x"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "fetching from static-bad")
		assert.Contains(t, err.Error(), "offline")
	})

	t.Run("unknown_provider", func(t *testing.T) {
		_, err := remote.NewFetcher().Fetch(ctx, config.RuleSource{Provider: "nowhere", Path: "x"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "provider nowhere not found")
		assert.Contains(t, err.Error(), "static-ok")
	})
}

func TestFetcherWithConfig(t *testing.T) {
	ctx := context.Background()
	p := &staticProvider{name: "static-rules", data: []byte("rules:\n  - from: cat\n    to: dog\n")}
	remote.RegisterProvider(p.name, p)

	cfg := &config.Config{RuleSources: []config.RuleSource{{Provider: p.name, Path: "set.yaml"}}}
	rules, err := config.ResolveRuleSources(ctx, cfg, remote.NewFetcher())
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.Equal(t, "cat", rules[0].From)
}
