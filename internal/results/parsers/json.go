// SPDX-License-Identifier: Apache-2.0

package parsers

import (
	"context"
	"strings"

	"github.com/Felpnoo/projeto-pesquisa-tcrr/internal/labels"
	"github.com/Felpnoo/projeto-pesquisa-tcrr/internal/results"
)

// JSONParser parses resultados.json files, validating each against the CUE
// result schema before decoding.
type JSONParser struct {
	schema *Schema
}

// NewJSONParser creates a JSONParser backed by schema.
func NewJSONParser(schema *Schema) *JSONParser {
	return &JSONParser{schema: schema}
}

func (p *JSONParser) Name() string {
	return "json"
}

// CanHandle returns true for a "json" format hint or content that opens a
// JSON array or object.
func (p *JSONParser) CanHandle(source results.ResultSource) bool {
	if strings.EqualFold(source.Format, "json") {
		return true
	}
	content := strings.TrimSpace(string(source.Content))
	return strings.HasPrefix(content, "[") || strings.HasPrefix(content, "{")
}

func (p *JSONParser) Parse(_ context.Context, source results.ResultSource) ([]labels.CriterionResult, error) {
	return p.schema.DecodeJSON(source.ID, source.Content)
}
