// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package prompt renders the instruction and user message sent to the model
// for one Leiden-to-EpiDoc conversion.
package prompt

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/pdiddy/leiden-epidoc/pkg/types"
)

// userTmpl frames the few-shot block and the source text. The <Input> wrapper
// matches the one used in the examples.
var userTmpl = template.Must(template.New("user").Parse(`Below are example inputs written according to the Leiden convention and the corresponding outputs in XML following the EpiDoc convention.
{{.Examples}}

Here is the text in Leiden Conventions format that you need to translate:

<Input>
{{.Source}}
</Input>
`))

// Rendered is the text actually sent to the model.
type Rendered struct {
	System string
	User   string
}

// NewRequest returns a request for source carrying the default instruction
// and examples plus any non-empty overrides.
func NewRequest(source, customInstruction, customExamples string) types.ConversionRequest {
	return types.ConversionRequest{
		SourceText:        source,
		SystemInstruction: DefaultInstruction,
		Examples:          DefaultExamples,
		CustomInstruction: customInstruction,
		CustomExamples:    customExamples,
	}
}

// Render builds the system and user text for req.
func Render(req types.ConversionRequest) (Rendered, error) {
	user, err := BuildUser(req.ExampleBlock(), req.SourceText)
	if err != nil {
		return Rendered{}, err
	}
	return Rendered{System: req.Instruction(), User: user}, nil
}

// BuildUser executes the user-message template.
func BuildUser(examples, source string) (string, error) {
	var buf bytes.Buffer
	err := userTmpl.Execute(&buf, struct {
		Examples string
		Source   string
	}{Examples: examples, Source: source})
	if err != nil {
		return "", fmt.Errorf("rendering user prompt: %w", err)
	}
	return buf.String(), nil
}
