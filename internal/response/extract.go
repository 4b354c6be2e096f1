// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package response isolates the EpiDoc markup in free-form model output.
//
// Extraction tries three rules in order and the first that yields text wins:
// the agreed answer markers, the first line that starts with markup, and
// finally the raw response itself. Extraction never fails.
package response

import (
	"encoding/xml"
	"errors"
	"io"
	"regexp"
	"strings"
	"unicode"

	"github.com/pdiddy/leiden-epidoc/pkg/types"
)

// Markers is the opening and closing token pair that delimits the model's
// answer. The system instruction must ask for the same pair.
type Markers struct {
	Open  string
	Close string
}

// DefaultMarkers matches the wrapper requested by the default instruction.
var DefaultMarkers = Markers{Open: "<final_translation>", Close: "</final_translation>"}

var (
	analysisMarkers = Markers{Open: "<analysis>", Close: "</analysis>"}
	notesMarkers    = Markers{Open: "<notes>", Close: "</notes>"}
)

var defaultExtractor = New(DefaultMarkers)

// Extract applies the default markers to raw.
func Extract(raw string) types.ExtractedResult {
	return defaultExtractor.Extract(raw)
}

// Extractor holds the compiled block patterns. It is safe for concurrent use.
type Extractor struct {
	answer   *regexp.Regexp
	analysis *regexp.Regexp
	notes    *regexp.Regexp
}

// New returns an Extractor for the given answer markers. A pair with an empty
// side disables the tagged rule.
func New(m Markers) *Extractor {
	e := &Extractor{
		analysis: blockPattern(analysisMarkers),
		notes:    blockPattern(notesMarkers),
	}
	if m.Open != "" && m.Close != "" {
		e.answer = blockPattern(m)
	}
	return e
}

// blockPattern matches the first opening marker and the first closing marker
// after it, case-insensitively and across lines.
func blockPattern(m Markers) *regexp.Regexp {
	return regexp.MustCompile(`(?is)` + regexp.QuoteMeta(m.Open) + `(.*?)` + regexp.QuoteMeta(m.Close))
}

// Extract returns the markup intended for the user and the rule that found it.
func (e *Extractor) Extract(raw string) types.ExtractedResult {
	res := types.ExtractedResult{
		Analysis: block(e.analysis, raw),
		Notes:    block(e.notes, raw),
	}

	// An empty tagged block falls through so the result is never empty.
	if e.answer != nil {
		if body := block(e.answer, raw); body != "" {
			res.EpiDocXML = body
			res.Strategy = types.StrategyTaggedBlock
			return res
		}
	}

	if markup, ok := fromFirstMarkupLine(raw, e.sectionSpans(raw)); ok {
		res.EpiDocXML = markup
		res.Strategy = types.StrategyFallbackHeuristic
		return res
	}

	res.EpiDocXML = raw
	res.Strategy = types.StrategyRawPassthrough
	return res
}

// block returns the trimmed contents of the first match of re, or "".
func block(re *regexp.Regexp, raw string) string {
	m := re.FindStringSubmatchIndex(raw)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(raw[m[2]:m[3]])
}

// sectionSpans returns the byte ranges of every analysis and notes block.
func (e *Extractor) sectionSpans(raw string) [][]int {
	return append(e.analysis.FindAllStringIndex(raw, -1), e.notes.FindAllStringIndex(raw, -1)...)
}

// fromFirstMarkupLine returns raw from the first line whose trimmed form
// starts with '<' to the end, trimmed. Lines that begin inside one of skip
// are passed over, so section blocks are not mistaken for the answer.
func fromFirstMarkupLine(raw string, skip [][]int) (string, bool) {
	offset := 0
	for offset < len(raw) {
		line := raw[offset:]
		end := strings.IndexByte(line, '\n')
		if end >= 0 {
			line = line[:end]
		}
		trimmed := strings.TrimLeftFunc(line, unicode.IsSpace)
		if spanEnd, ok := within(skip, offset+len(line)-len(trimmed)); ok {
			offset = spanEnd
			continue
		}
		if strings.HasPrefix(trimmed, "<") {
			return strings.TrimSpace(raw[offset:]), true
		}
		if end < 0 {
			break
		}
		offset += end + 1
	}
	return "", false
}

// within reports whether pos falls inside one of spans and returns its end.
func within(spans [][]int, pos int) (int, bool) {
	for _, sp := range spans {
		if pos >= sp[0] && pos < sp[1] {
			return sp[1], true
		}
	}
	return 0, false
}

// WellFormed reports whether fragment parses as a sequence of XML nodes.
// Callers use it to warn; it does not affect extraction.
func WellFormed(fragment string) error {
	if strings.TrimSpace(fragment) == "" {
		return errors.New("empty markup")
	}
	d := xml.NewDecoder(strings.NewReader("<fragment>" + fragment + "</fragment>"))
	for {
		_, err := d.Token()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}
