// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// ExtractionStrategy records which rule isolated the EpiDoc markup in a model
// response. It tells the caller how much to trust the extraction.
type ExtractionStrategy string

const (
	// StrategyTaggedBlock means the answer was found between the agreed markers.
	StrategyTaggedBlock ExtractionStrategy = "tagged_block"
	// StrategyFallbackHeuristic means no markers were found and the text was
	// taken from the first line that starts with markup.
	StrategyFallbackHeuristic ExtractionStrategy = "fallback_heuristic"
	// StrategyRawPassthrough means nothing recognizable was found and the
	// response is returned verbatim.
	StrategyRawPassthrough ExtractionStrategy = "raw_passthrough"
)

// ConversionRequest is one Leiden-to-EpiDoc conversion. It is built per call
// and discarded once the response has been handled.
type ConversionRequest struct {
	// SourceText is the Leiden Convention input. It may contain any Unicode,
	// including right-to-left scripts.
	SourceText string

	// SystemInstruction is the default instruction sent to the model.
	SystemInstruction string

	// Examples is the default few-shot block.
	Examples string

	// CustomInstruction replaces SystemInstruction when non-empty.
	CustomInstruction string

	// CustomExamples replaces Examples when non-empty.
	CustomExamples string
}

// Instruction returns the system instruction that will be sent.
func (r ConversionRequest) Instruction() string {
	if r.CustomInstruction != "" {
		return r.CustomInstruction
	}
	return r.SystemInstruction
}

// ExampleBlock returns the few-shot block that will be sent.
func (r ConversionRequest) ExampleBlock() string {
	if r.CustomExamples != "" {
		return r.CustomExamples
	}
	return r.Examples
}

// WithSource returns a copy of the request carrying a different source text.
func (r ConversionRequest) WithSource(text string) ConversionRequest {
	r.SourceText = text
	return r
}

// ExtractedResult is the parsed model response.
type ExtractedResult struct {
	// EpiDocXML is the markup intended for the user. It is never empty when
	// the raw response is non-empty.
	EpiDocXML string `json:"epidoc_xml" yaml:"epidoc_xml"`

	// Strategy is the rule that produced EpiDocXML.
	Strategy ExtractionStrategy `json:"strategy" yaml:"strategy"`

	// Analysis is the content of the model's analysis block, if any.
	Analysis string `json:"analysis,omitempty" yaml:"analysis,omitempty"`

	// Notes is the content of the model's notes block, if any.
	Notes string `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// HasAllSections reports whether the response carried the tagged answer
// together with non-empty analysis and notes blocks.
func (r ExtractedResult) HasAllSections() bool {
	return r.Strategy == StrategyTaggedBlock && r.Analysis != "" && r.Notes != ""
}
