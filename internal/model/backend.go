// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package model sends one rendered prompt to a hosted language model and
// returns the raw text of its reply.
package model

import (
	"context"
	"fmt"

	"github.com/pdiddy/leiden-epidoc/pkg/types"
)

// Prompt is a single completion request.
type Prompt struct {
	System      string
	User        string
	MaxTokens   int
	Temperature float64
}

// Backend abstracts the model API so tests can supply a fake. Complete makes
// exactly one call and never retries. Model reports the identifier the
// backend really sends, which may differ from the configured one.
type Backend interface {
	Complete(ctx context.Context, p Prompt) (string, error)
	Name() string
	Model() string
}

// Factory builds a Backend from settings. The orchestrator takes one so the
// choice of provider stays with the caller.
type Factory func(ctx context.Context, s types.Settings) (Backend, error)

// NewBackend selects the backend named by s.Provider.
func NewBackend(ctx context.Context, s types.Settings) (Backend, error) {
	switch s.Provider {
	case types.ProviderAnthropic, "":
		return NewClaude(s.APIKey, s.Model), nil
	case types.ProviderGemini:
		return NewGemini(ctx, s.APIKey, s.Model)
	default:
		return nil, fmt.Errorf("unknown provider %q: use %s or %s", s.Provider, types.ProviderAnthropic, types.ProviderGemini)
	}
}
