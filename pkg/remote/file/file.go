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

package file

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/walteh/retext/pkg/config"
	"github.com/walteh/retext/pkg/remote"
	"gitlab.com/tozd/go/errors"
)

func init() {
	remote.RegisterProvider(config.ProviderFile, NewProvider())
}

// Provider reads rule sets from the local filesystem
type Provider struct{}

// NewProvider creates a file provider
func NewProvider() *Provider {
	return &Provider{}
}

// Name returns the name of the provider
func (p *Provider) Name() string {
	return config.ProviderFile
}

// Fetch reads the file at src.Path
func (p *Provider) Fetch(ctx context.Context, src config.RuleSource) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Errorf("context error: %w", err)
	}

	zerolog.Ctx(ctx).Debug().Str("path", src.Path).Msg("reading rule set")

	data, err := os.ReadFile(src.Path)
	if err != nil {
		return nil, errors.Errorf("reading rule set: %w", err)
	}
	return data, nil
}
