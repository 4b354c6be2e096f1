// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package response

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/leiden-epidoc/pkg/types"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name         string
		raw          string
		wantXML      string
		wantStrategy types.ExtractionStrategy
	}{
		{
			name:         "tagged block",
			raw:          "<analysis>a</analysis>\n<final_translation>\n<lb/>Le<supplied reason=\"lost\">g</supplied>\n</final_translation>",
			wantXML:      "<lb/>Le<supplied reason=\"lost\">g</supplied>",
			wantStrategy: types.StrategyTaggedBlock,
		},
		{
			name:         "tagged block with surrounding prose",
			raw:          "Here you go.\n<final_translation><ab>text</ab></final_translation>\nThanks",
			wantXML:      "<ab>text</ab>",
			wantStrategy: types.StrategyTaggedBlock,
		},
		{
			name:         "markers are case-insensitive",
			raw:          "<FINAL_TRANSLATION> <ab>x</ab> </Final_Translation>",
			wantXML:      "<ab>x</ab>",
			wantStrategy: types.StrategyTaggedBlock,
		},
		{
			name:         "first opening and first following closing marker",
			raw:          "<final_translation>one</final_translation> and <final_translation>two</final_translation>",
			wantXML:      "one",
			wantStrategy: types.StrategyTaggedBlock,
		},
		{
			name:         "closing marker before opening is ignored",
			raw:          "</final_translation> noise <final_translation>kept</final_translation>",
			wantXML:      "kept",
			wantStrategy: types.StrategyTaggedBlock,
		},
		{
			name:         "empty tagged block falls back to markup line",
			raw:          "Answer:\n<final_translation>  </final_translation>",
			wantXML:      "<final_translation>  </final_translation>",
			wantStrategy: types.StrategyFallbackHeuristic,
		},
		{
			name:         "fallback from first markup line",
			raw:          "Sure, here:\n<ab>foo</ab>",
			wantXML:      "<ab>foo</ab>",
			wantStrategy: types.StrategyFallbackHeuristic,
		},
		{
			name:         "fallback tolerates indented markup line",
			raw:          "Result follows\n\n    <div type=\"edition\">\n<p>x</p>\n</div>\n\n",
			wantXML:      "<div type=\"edition\">\n<p>x</p>\n</div>",
			wantStrategy: types.StrategyFallbackHeuristic,
		},
		{
			name:         "unclosed opening marker uses fallback",
			raw:          "Intro\n<final_translation>\n<ab>cut off",
			wantXML:      "<final_translation>\n<ab>cut off",
			wantStrategy: types.StrategyFallbackHeuristic,
		},
		{
			name:         "passthrough when nothing matches",
			raw:          "I could not process this request.",
			wantXML:      "I could not process this request.",
			wantStrategy: types.StrategyRawPassthrough,
		},
		{
			name:         "passthrough keeps surrounding whitespace",
			raw:          "  no markup here \n",
			wantXML:      "  no markup here \n",
			wantStrategy: types.StrategyRawPassthrough,
		},
		{
			name:         "empty input",
			raw:          "",
			wantXML:      "",
			wantStrategy: types.StrategyRawPassthrough,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract(tt.raw)
			assert.Equal(t, tt.wantXML, got.EpiDocXML)
			assert.Equal(t, tt.wantStrategy, got.Strategy)
		})
	}
}

func TestExtractCustomMarkers(t *testing.T) {
	e := New(Markers{Open: "<START>", Close: "<END>"})

	got := e.Extract("Here is the result:\n<START>\n<ab>text</ab>\n<END>\nThanks")
	assert.Equal(t, "<ab>text</ab>", got.EpiDocXML)
	assert.Equal(t, types.StrategyTaggedBlock, got.Strategy)

	// The default markers mean nothing to this extractor.
	got = e.Extract("note\n<final_translation>x</final_translation>")
	assert.Equal(t, "<final_translation>x</final_translation>", got.EpiDocXML)
	assert.Equal(t, types.StrategyFallbackHeuristic, got.Strategy)
}

func TestExtractMarkersWithRegexpMetacharacters(t *testing.T) {
	e := New(Markers{Open: "[[xml]]", Close: "[[/xml]]"})
	got := e.Extract("prose [[xml]] <ab>a+b</ab> [[/xml]] more")
	assert.Equal(t, "<ab>a+b</ab>", got.EpiDocXML)
	assert.Equal(t, types.StrategyTaggedBlock, got.Strategy)
}

func TestExtractEmptyMarkersDisableTaggedRule(t *testing.T) {
	e := New(Markers{})
	got := e.Extract("<final_translation>x</final_translation>")
	assert.Equal(t, types.StrategyFallbackHeuristic, got.Strategy)
}

func TestExtractSections(t *testing.T) {
	raw := `<analysis>
This is a test analysis of the inscription.
</analysis>

<notes>
Some notes about the translation.
</notes>

<final_translation>
<lb/>Εἶς θεὸ<supplied reason="lost">ς</supplied>
</final_translation>`

	got := Extract(raw)
	require.Equal(t, types.StrategyTaggedBlock, got.Strategy)
	assert.Equal(t, "This is a test analysis of the inscription.", got.Analysis)
	assert.Equal(t, "Some notes about the translation.", got.Notes)
	assert.Equal(t, `<lb/>Εἶς θεὸ<supplied reason="lost">ς</supplied>`, got.EpiDocXML)
	assert.True(t, got.HasAllSections())
}

func TestExtractPartialSections(t *testing.T) {
	raw := "<analysis>Test</analysis>\n<notes>Test notes</notes>"
	got := Extract(raw)
	assert.False(t, got.HasAllSections())
	assert.Equal(t, "Test", got.Analysis)
	assert.Equal(t, "Test notes", got.Notes)
	assert.Equal(t, types.StrategyRawPassthrough, got.Strategy)
	assert.Equal(t, raw, got.EpiDocXML)
}

func TestExtractFallbackSkipsSections(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantXML string
	}{
		{
			name:    "sections on their own lines",
			raw:     "<analysis>\none lacuna\n</analysis>\n<notes>\nrestored\n</notes>\n<TEI>\n<ab><gap/></ab>\n</TEI>",
			wantXML: "<TEI>\n<ab><gap/></ab>\n</TEI>",
		},
		{
			name:    "markup after a section on the same line",
			raw:     "<analysis>a</analysis> <ab>x</ab>",
			wantXML: "<ab>x</ab>",
		},
		{
			name:    "indented sections",
			raw:     "  <ANALYSIS>a</Analysis>\n\t<notes>n\n<still notes/></notes>\n<ab>y</ab>",
			wantXML: "<ab>y</ab>",
		},
		{
			name:    "unclosed section is not skipped",
			raw:     "<analysis>cut off\n<ab>z</ab>",
			wantXML: "<analysis>cut off\n<ab>z</ab>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract(tt.raw)
			assert.Equal(t, types.StrategyFallbackHeuristic, got.Strategy)
			assert.Equal(t, tt.wantXML, got.EpiDocXML)
		})
	}
}

func TestExtractNeverEmptyForNonEmptyInput(t *testing.T) {
	inputs := []string{
		" ",
		"\n\n",
		"<",
		"<final_translation></final_translation>",
		"<FINAL_TRANSLATION>\n\n</final_translation>",
		"text",
		"\t<x/>",
		"אבג",
	}
	for _, raw := range inputs {
		got := Extract(raw)
		assert.NotEmpty(t, got.EpiDocXML, "raw=%q", raw)
	}
}

func TestExtractIsIdempotentOnCleanResult(t *testing.T) {
	first := Extract("Preface\n<final_translation>\n<ab>text</ab>\n</final_translation>")
	require.Equal(t, types.StrategyTaggedBlock, first.Strategy)

	second := Extract(first.EpiDocXML)
	assert.Equal(t, first.EpiDocXML, second.EpiDocXML)
	assert.NotEqual(t, types.StrategyTaggedBlock, second.Strategy)

	plain := Extract("<final_translation>plain words</final_translation>")
	again := Extract(plain.EpiDocXML)
	assert.Equal(t, "plain words", again.EpiDocXML)
	assert.Equal(t, types.StrategyRawPassthrough, again.Strategy)
}

func TestExtractPreservesRightToLeftText(t *testing.T) {
	inner := `<lb/>δοῦλος θεοῦ <foreign xml:lang="heb">אבג</foreign> <foreign xml:lang="ara">بسم الله</foreign> ܫܠܡܐ`
	raw := "ملاحظة\n<final_translation>\n" + inner + "\n</final_translation>\nשלום"

	got := Extract(raw)
	require.Equal(t, types.StrategyTaggedBlock, got.Strategy)
	assert.Equal(t, inner, got.EpiDocXML)
	assert.True(t, strings.Contains(raw, got.EpiDocXML))
	assert.Equal(t, []rune(inner), []rune(got.EpiDocXML))
}

func TestExtractFallbackPreservesRightToLeftText(t *testing.T) {
	raw := "שלום\n<ab><foreign xml:lang=\"heb\">אבג דה</foreign></ab>"
	got := Extract(raw)
	assert.Equal(t, types.StrategyFallbackHeuristic, got.Strategy)
	assert.Equal(t, "<ab><foreign xml:lang=\"heb\">אבג דה</foreign></ab>", got.EpiDocXML)
}

func TestWellFormed(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		wantErr bool
	}{
		{"single element", "<ab>text</ab>", false},
		{"several roots", "<lb/>Ave <lb/>legio", false},
		{"xml lang attribute", `<foreign xml:lang="heb">אבג</foreign>`, false},
		{"unclosed element", "<ab>text", true},
		{"mismatched tags", "<ab><p></ab></p>", true},
		{"empty", "   ", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := WellFormed(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}
