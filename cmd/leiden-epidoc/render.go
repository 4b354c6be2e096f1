// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/pdiddy/leiden-epidoc/internal/convert"
	"github.com/pdiddy/leiden-epidoc/pkg/types"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	dimStyle    = lipgloss.NewStyle().Faint(true)

	strategyStyles = map[types.ExtractionStrategy]lipgloss.Style{
		types.StrategyTaggedBlock:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10")),
		types.StrategyFallbackHeuristic: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11")),
		types.StrategyRawPassthrough:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
	}
)

// renderer styles diagnostic output when it goes to a terminal and prints
// plain text otherwise.
type renderer struct {
	w      io.Writer
	styled bool
}

func newRenderer(w io.Writer) renderer {
	styled := false
	if f, ok := w.(*os.File); ok {
		styled = term.IsTerminal(int(f.Fd()))
	}
	return renderer{w: w, styled: styled}
}

func (r renderer) style(s lipgloss.Style, text string) string {
	if !r.styled {
		return text
	}
	return s.Render(text)
}

// status prints one line describing how res was produced.
func (r renderer) status(res *convert.Result) {
	line := fmt.Sprintf("%s via %s in %s", r.style(strategyStyles[res.Extracted.Strategy], string(res.Extracted.Strategy)),
		res.Backend, res.Elapsed.Round(time.Millisecond))
	if len(res.Scripts) > 0 {
		line += r.style(dimStyle, " ["+strings.Join(res.Scripts, ", ")+"]")
	}
	fmt.Fprintln(r.w, line)
}

// section prints a titled block. Empty bodies are skipped.
func (r renderer) section(title, body string) {
	if body == "" {
		return
	}
	fmt.Fprintf(r.w, "%s\n%s\n\n", r.style(headerStyle, "== "+title+" =="), body)
}
