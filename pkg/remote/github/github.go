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

package github

import (
	"context"
	"net/http"
	"os"
	"strings"

	"github.com/google/go-github/v60/github"
	"github.com/rs/zerolog"
	"github.com/walteh/retext/pkg/config"
	"github.com/walteh/retext/pkg/remote"
	"gitlab.com/tozd/go/errors"
)

// GitHubClient defines the GitHub API operations the provider needs
type GitHubClient interface {
	GetContents(ctx context.Context, owner, repo, path string, opts *github.RepositoryContentGetOptions) (*github.RepositoryContent, []*github.RepositoryContent, *github.Response, error)
}

// Provider implements remote.Provider for files in GitHub repositories
type Provider struct {
	client GitHubClient
}

func init() {
	remote.RegisterProvider(config.ProviderGitHub, NewProvider())
}

// NewProvider creates a GitHub provider, authenticated when GITHUB_TOKEN is set
func NewProvider() *Provider {
	client := github.NewClient(nil)
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		client = client.WithAuthToken(token)
	}
	return NewProviderWithClient(&githubClientWrapper{client: client})
}

// NewProviderWithClient creates a provider around an existing client
func NewProviderWithClient(client GitHubClient) *Provider {
	return &Provider{client: client}
}

// githubClientWrapper wraps the GitHub client to implement our interface
type githubClientWrapper struct {
	client *github.Client
}

func (w *githubClientWrapper) GetContents(ctx context.Context, owner, repo, path string, opts *github.RepositoryContentGetOptions) (*github.RepositoryContent, []*github.RepositoryContent, *github.Response, error) {
	return w.client.Repositories.GetContents(ctx, owner, repo, path, opts)
}

// Name returns the name of the provider
func (p *Provider) Name() string {
	return config.ProviderGitHub
}

// 🔍 Fetch reads the rule-set file at repo@ref:path
func (p *Provider) Fetch(ctx context.Context, src config.RuleSource) ([]byte, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("repo", src.Repo).Str("ref", src.Ref).Str("path", src.Path).Msg("getting rule set")

	owner, repo, err := ParseRepo(src.Repo)
	if err != nil {
		return nil, err
	}

	// Check if context is already cancelled
	if err := ctx.Err(); err != nil {
		return nil, errors.Errorf("context error: %w", err)
	}

	var opts *github.RepositoryContentGetOptions
	if src.Ref != "" {
		opts = &github.RepositoryContentGetOptions{Ref: src.Ref}
	}

	file, dir, resp, err := p.client.GetContents(ctx, owner, repo, src.Path, opts)
	if err != nil {
		if ctx.Err() != nil {
			return nil, errors.Errorf("context error: %w", ctx.Err())
		}
		var rateErr *github.RateLimitError
		if errors.As(err, &rateErr) {
			return nil, errors.Errorf("rate limit exceeded: %w", err)
		}
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return nil, errors.Errorf("rule set %s not found in %s/%s: %w", src.Path, owner, repo, err)
		}
		return nil, errors.Errorf("getting contents from GitHub: %w", err)
	}
	if file == nil {
		return nil, errors.Errorf("path %s is a directory with %d entries, not a file", src.Path, len(dir))
	}

	content, err := file.GetContent()
	if err != nil {
		return nil, errors.Errorf("decoding content: %w", err)
	}
	return []byte(content), nil
}

// ParseRepo splits "owner/name" (optionally prefixed with github.com/) into
// its parts.
func ParseRepo(name string) (owner, repo string, err error) {
	if name == "" {
		return "", "", errors.Errorf("empty repository name")
	}

	trimmed := strings.TrimPrefix(strings.TrimPrefix(name, "https://"), "github.com/")
	parts := strings.Split(trimmed, "/")
	if len(parts) != 2 {
		return "", "", errors.Errorf("invalid repository name: %s", name)
	}

	owner = strings.TrimSpace(parts[0])
	repo = strings.TrimSpace(parts[1])
	if owner == "" || repo == "" {
		return "", "", errors.Errorf("invalid repository name: %s", name)
	}
	return owner, repo, nil
}
