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

package remote

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/walteh/retext/pkg/config"
	"gitlab.com/tozd/go/errors"
)

var (
	registryMu sync.RWMutex
	registry   = map[string]Provider{}
)

// 📝 RegisterProvider makes a provider available under the given name
func RegisterProvider(name string, provider Provider) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = provider
}

// 🎯 GetProvider returns the provider registered under name
func GetProvider(name string) (Provider, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	provider, ok := registry[name]
	if !ok {
		options := []string{}
		for k := range registry {
			options = append(options, k)
		}
		sort.Strings(options)
		return nil, errors.Errorf("provider %s not found, options: %s", name, strings.Join(options, ", "))
	}
	return provider, nil
}

// Provider reads rule-set files from one kind of source (e.g. GitHub)
type Provider interface {
	// Name returns the name of the provider (e.g. "github")
	Name() string
	// Fetch returns the raw bytes of the rule-set file the source points at
	Fetch(ctx context.Context, src config.RuleSource) ([]byte, error)
}

// 🌐 Fetcher routes each rule source to its registered provider
type Fetcher struct{}

// NewFetcher creates a fetcher backed by the provider registry
func NewFetcher() *Fetcher {
	return &Fetcher{}
}

// Fetch implements config.RuleFetcher.
func (f *Fetcher) Fetch(ctx context.Context, src config.RuleSource) ([]byte, error) {
	provider, err := GetProvider(src.Provider)
	if err != nil {
		return nil, err
	}

	zerolog.Ctx(ctx).Debug().Str("source", src.String()).Msg("fetching rule set")

	data, err := provider.Fetch(ctx, src)
	if err != nil {
		return nil, errors.Errorf("fetching from %s: %w", provider.Name(), err)
	}
	return data, nil
}

var _ config.RuleFetcher = (*Fetcher)(nil)
