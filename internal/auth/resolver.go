// Package auth resolves the GitHub token used by the gateway.
package auth

import (
	"fmt"
	"os"

	ghauth "github.com/cli/go-gh/v2/pkg/auth"
)

// Source indicates where a token was found
type Source string

const (
	SourceFlag Source = "flag"
	SourceEnv  Source = "env"
	SourceCLI  Source = "gh-cli"
)

// MissingTokenHelp is shown when no token source yields a value.
const MissingTokenHelp = `Set GITHUB_TOKEN environment variable or use --token flag

To create a token:
  1. Go to https://github.com/settings/tokens
  2. Generate a new token with 'repo' scope
  3. Set it as: export GITHUB_TOKEN=your_token_here`

// Result contains the resolved token and its source
type Result struct {
	Token  string
	Source Source
	Name   string // e.g. "GITHUB_TOKEN"
}

// TokenProvider returns a token and the name of where it came from, or "" when unavailable.
type TokenProvider func() (token string, sourceName string, source Source)

// Resolver tries token providers in priority order.
type Resolver struct {
	providers []TokenProvider
}

// NewResolver creates an empty resolver.
func NewResolver() *Resolver {
	return &Resolver{}
}

// WithFlagValue adds an explicitly supplied token (highest priority when added first).
func (r *Resolver) WithFlagValue(value string) *Resolver {
	r.providers = append(r.providers, func() (string, string, Source) {
		return value, "flag", SourceFlag
	})
	return r
}

// WithEnvs adds environment variables as token sources, checked in order.
func (r *Resolver) WithEnvs(envVars ...string) *Resolver {
	for _, envVar := range envVars {
		r.providers = append(r.providers, func() (string, string, Source) {
			return os.Getenv(envVar), envVar, SourceEnv
		})
	}
	return r
}

// WithGitHubCLI falls back to the token stored by `gh auth login` for host.
func (r *Resolver) WithGitHubCLI(host string) *Resolver {
	r.providers = append(r.providers, func() (string, string, Source) {
		token, _ := ghauth.TokenForHost(host)
		return token, "gh:" + host, SourceCLI
	})
	return r
}

// WithProvider adds a custom token provider
func (r *Resolver) WithProvider(provider TokenProvider) *Resolver {
	r.providers = append(r.providers, provider)
	return r
}

// Resolve returns the first non-empty token.
func (r *Resolver) Resolve() (*Result, error) {
	for _, provider := range r.providers {
		if token, name, source := provider(); token != "" {
			return &Result{Token: token, Source: source, Name: name}, nil
		}
	}
	return nil, fmt.Errorf("GitHub token not provided\n\n%s", MissingTokenHelp)
}

// GitHubToken is the resolver the CLI uses: flag, GITHUB_TOKEN, GH_TOKEN, then gh CLI.
func GitHubToken(flagValue, host string) (*Result, error) {
	return NewResolver().
		WithFlagValue(flagValue).
		WithEnvs("GITHUB_TOKEN", "GH_TOKEN").
		WithGitHubCLI(host).
		Resolve()
}
