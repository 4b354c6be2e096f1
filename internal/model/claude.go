// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package model

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/pdiddy/leiden-epidoc/internal/httputil"
	"github.com/pdiddy/leiden-epidoc/pkg/types"
)

const (
	anthropicVersion = "2023-06-01"
	// DefaultClaudeTimeout bounds one Messages API call.
	DefaultClaudeTimeout = 120 * time.Second
)

// claudeAPIURL is the Messages API endpoint. Package-level var for test substitution.
var claudeAPIURL = "https://api.anthropic.com/v1/messages"

// Claude calls the Anthropic Messages API.
type Claude struct {
	APIKey string
	Client *http.Client

	model string
}

// NewClaude returns a Claude backend with the default timeout.
func NewClaude(apiKey, model string) *Claude {
	if model == "" {
		model = types.DefaultModel
	}
	return &Claude{
		APIKey: apiKey,
		model:  model,
		Client: &http.Client{Timeout: DefaultClaudeTimeout},
	}
}

// Name returns the provider and model.
func (c *Claude) Name() string {
	return string(types.ProviderAnthropic) + "/" + c.model
}

// Model returns the model identifier sent with each request.
func (c *Claude) Model() string {
	return c.model
}

// claudeRequest is the request body for the Messages API. Temperature is
// always sent because the API default is not deterministic.
type claudeRequest struct {
	Model       string          `json:"model"`
	MaxTokens   int             `json:"max_tokens"`
	Temperature float64         `json:"temperature"`
	System      string          `json:"system,omitempty"`
	Messages    []claudeMessage `json:"messages"`
}

type claudeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// claudeResponse is the response body from the Messages API.
type claudeResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
}

// Complete sends p as one system prompt and one user message.
func (c *Claude) Complete(ctx context.Context, p Prompt) (string, error) {
	if c.APIKey == "" {
		return "", errors.New("anthropic: API key is required")
	}
	maxTokens := p.MaxTokens
	if maxTokens <= 0 {
		maxTokens = types.DefaultMaxTokens
	}

	req := claudeRequest{
		Model:       c.model,
		MaxTokens:   maxTokens,
		Temperature: p.Temperature,
		System:      p.System,
		Messages:    []claudeMessage{{Role: "user", Content: p.User}},
	}
	headers := map[string]string{
		"x-api-key":         c.APIKey,
		"anthropic-version": anthropicVersion,
	}

	var resp claudeResponse
	if err := httputil.PostJSON(ctx, c.Client, claudeAPIURL, headers, req, &resp); err != nil {
		return "", fmt.Errorf("calling Claude API: %w", err)
	}

	var b strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	if b.Len() == 0 {
		return "", errors.New("Claude API returned no text content")
	}
	return b.String(), nil
}
