// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/pdiddy/leiden-epidoc/internal/archive"
	"github.com/pdiddy/leiden-epidoc/internal/convert"
	"github.com/pdiddy/leiden-epidoc/internal/logger"
	"github.com/pdiddy/leiden-epidoc/internal/model"
	"github.com/pdiddy/leiden-epidoc/internal/prompt"
	"github.com/pdiddy/leiden-epidoc/pkg/types"
)

// addConversionFlags registers the flags shared by convert and watch.
func addConversionFlags(cmd *cobra.Command) {
	cmd.Flags().String("instruction-file", "", "file that replaces the default system instruction")
	cmd.Flags().String("examples-file", "", "file that replaces the default few-shot examples")
	cmd.Flags().String("model", "", "model identifier (overrides config)")
	cmd.Flags().String("provider", "", "model provider: anthropic or gemini (overrides config)")
	cmd.Flags().Duration("timeout", model.DefaultClaudeTimeout, "HTTP timeout for one Anthropic API call")
	cmd.Flags().Bool("no-history", false, "do not record conversions in the history database")
}

// requestTemplate builds a request with no source text from the prompt flags.
func requestTemplate(cmd *cobra.Command) (types.ConversionRequest, error) {
	var custom [2]string
	for i, name := range []string{"instruction-file", "examples-file"} {
		path, _ := cmd.Flags().GetString(name)
		if path == "" {
			continue
		}
		text, err := convert.LoadSource(path)
		if err != nil {
			return types.ConversionRequest{}, err
		}
		custom[i] = text
	}
	return prompt.NewRequest("", custom[0], custom[1]), nil
}

// newBackend creates the model backend for each conversion. Tests replace it.
var newBackend model.Factory = model.NewBackend

// newConverter returns a converter whose backends honor --timeout.
func newConverter(cmd *cobra.Command) *convert.Converter {
	timeout, _ := cmd.Flags().GetDuration("timeout")
	return convert.New(func(ctx context.Context, s types.Settings) (model.Backend, error) {
		b, err := newBackend(ctx, s)
		if err != nil {
			return nil, err
		}
		if c, ok := b.(*model.Claude); ok && timeout > 0 {
			c.Client.Timeout = timeout
		}
		return b, nil
	})
}

// history records conversions in the archive. A nil history records nothing.
type history struct {
	store *archive.Store
}

// openHistory opens the archive unless --no-history is set. Failures are
// warnings: a conversion never fails because it could not be recorded.
func openHistory(cmd *cobra.Command, s types.Settings) *history {
	if off, _ := cmd.Flags().GetBool("no-history"); off {
		return nil
	}
	st, err := archive.Open(s.HistoryDB)
	if err != nil {
		logger.Warn("history disabled: %v", err)
		return nil
	}
	return &history{store: st}
}

func (h *history) record(ctx context.Context, sourcePath string, res *convert.Result) {
	if h == nil {
		return
	}
	r, err := h.store.Add(ctx, archive.NewRecord(sourcePath, res))
	if err != nil {
		logger.Warn("could not record conversion: %v", err)
		return
	}
	logger.Debug("recorded conversion %s", r.ID)
}

func (h *history) Close() {
	if h == nil {
		return
	}
	if err := h.store.Close(); err != nil {
		logger.Warn("closing history: %v", err)
	}
}
