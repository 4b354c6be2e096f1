// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert turns Leiden Convention text into EpiDoc XML by sending it
// to a model backend and extracting the markup from the reply.
package convert

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pdiddy/leiden-epidoc/internal/logger"
	"github.com/pdiddy/leiden-epidoc/internal/model"
	"github.com/pdiddy/leiden-epidoc/internal/prompt"
	"github.com/pdiddy/leiden-epidoc/internal/response"
	"github.com/pdiddy/leiden-epidoc/internal/script"
	"github.com/pdiddy/leiden-epidoc/pkg/types"
)

var (
	// ErrEmptySource is returned when the source text is blank. No model call is made.
	ErrEmptySource = errors.New("source text is empty")

	// ErrAPIKeyMissing is returned when no API key is configured. No model call is made.
	ErrAPIKeyMissing = errors.New("no API key configured: run `leiden-epidoc config set api_key`")

	// ErrModelCall matches every *ModelError via errors.Is.
	ErrModelCall = errors.New("model call failed")
)

// ModelError reports a failed call to the model API. It wraps the transport
// or API error, so errors.As can reach an *httputil.APIError.
type ModelError struct {
	Backend string
	Err     error
}

func (e *ModelError) Error() string {
	return fmt.Sprintf("model call to %s failed: %v", e.Backend, e.Err)
}

func (e *ModelError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrModelCall) true for any ModelError.
func (e *ModelError) Is(target error) bool { return target == ErrModelCall }

// Result is the outcome of one successful conversion.
type Result struct {
	Request   types.ConversionRequest
	Raw       string
	Extracted types.ExtractedResult
	Backend   string
	Provider  types.Provider

	// Model is the identifier the backend sent, not necessarily s.Model.
	Model string

	// Scripts lists the writing systems found in the source text.
	Scripts []string
	// RTL is set when the source contains right-to-left text.
	RTL bool

	Elapsed time.Duration
}

// Converter runs conversions. The zero value is not usable; call New.
type Converter struct {
	newBackend model.Factory
	extractor  *response.Extractor
}

// New returns a Converter that builds its backend with f. A nil f selects
// model.NewBackend.
func New(f model.Factory) *Converter {
	if f == nil {
		f = model.NewBackend
	}
	return &Converter{
		newBackend: f,
		extractor:  response.New(response.DefaultMarkers),
	}
}

// WithMarkers returns a copy of c that extracts the answer between m.
func (c *Converter) WithMarkers(m response.Markers) *Converter {
	return &Converter{newBackend: c.newBackend, extractor: response.New(m)}
}

// Convert sends req to the model described by s and extracts the EpiDoc
// markup from the reply. It makes exactly one model call and never retries.
func (c *Converter) Convert(ctx context.Context, s types.Settings, req types.ConversionRequest) (*Result, error) {
	if strings.TrimSpace(req.SourceText) == "" {
		return nil, ErrEmptySource
	}
	if !s.HasAPIKey() {
		return nil, ErrAPIKeyMissing
	}
	if req.CustomInstruction != "" {
		logger.Debug("using custom instruction (%d bytes)", len(req.CustomInstruction))
	}
	if req.CustomExamples != "" {
		logger.Debug("using custom examples (%d bytes)", len(req.CustomExamples))
	}

	rendered, err := prompt.Render(req)
	if err != nil {
		return nil, err
	}

	backend, err := c.newBackend(ctx, s)
	if err != nil {
		return nil, fmt.Errorf("creating model backend: %w", err)
	}

	logger.Debug("sending %d characters to %s", len([]rune(req.SourceText)), backend.Name())
	start := time.Now()
	raw, err := backend.Complete(ctx, model.Prompt{
		System:      rendered.System,
		User:        rendered.User,
		MaxTokens:   s.MaxTokens,
		Temperature: 0,
	})
	if err != nil {
		return nil, &ModelError{Backend: backend.Name(), Err: err}
	}
	elapsed := time.Since(start)

	extracted := c.extractor.Extract(raw)
	logger.Debug("extracted %d characters via %s in %s", len(extracted.EpiDocXML), extracted.Strategy, elapsed.Round(time.Millisecond))

	return &Result{
		Request:   req,
		Raw:       raw,
		Extracted: extracted,
		Backend:   backend.Name(),
		Provider:  s.Provider,
		Model:     backend.Model(),
		Scripts:   script.Detect(req.SourceText),
		RTL:       script.ContainsRTL(req.SourceText),
		Elapsed:   elapsed,
	}, nil
}
