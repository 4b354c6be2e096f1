// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package model

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"

	"github.com/pdiddy/leiden-epidoc/pkg/types"
)

// defaultGeminiModel is used when the configured model is still the Claude default.
const defaultGeminiModel = "gemini-2.5-pro"

// Gemini calls the Google Gemini API through the genai SDK.
type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini creates a Gemini backend. It does not contact the API.
func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	if apiKey == "" {
		return nil, errors.New("gemini: API key is required")
	}
	if model == "" || model == types.DefaultModel {
		model = defaultGeminiModel
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating Gemini client: %w", err)
	}
	return &Gemini{client: c, model: model}, nil
}

// Name returns the provider and model.
func (g *Gemini) Name() string {
	return string(types.ProviderGemini) + "/" + g.model
}

// Model returns the Gemini model actually called, after defaulting.
func (g *Gemini) Model() string {
	return g.model
}

// Complete sends p as a system instruction plus one user turn.
func (g *Gemini) Complete(ctx context.Context, p Prompt) (string, error) {
	maxTokens := p.MaxTokens
	if maxTokens <= 0 {
		maxTokens = types.DefaultMaxTokens
	}
	cfg := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(p.Temperature)),
		MaxOutputTokens: int32(maxTokens),
	}
	if p.System != "" {
		cfg.SystemInstruction = genai.NewContentFromText(p.System, genai.RoleUser)
	}

	res, err := g.client.Models.GenerateContent(ctx, g.model, []*genai.Content{
		genai.NewContentFromText(p.User, genai.RoleUser),
	}, cfg)
	if err != nil {
		return "", fmt.Errorf("calling Gemini API: %w", err)
	}
	text := res.Text()
	if text == "" {
		return "", errors.New("Gemini API returned no text content")
	}
	return text, nil
}
