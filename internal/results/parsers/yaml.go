// SPDX-License-Identifier: Apache-2.0

package parsers

import (
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/Felpnoo/projeto-pesquisa-tcrr/internal/labels"
	"github.com/Felpnoo/projeto-pesquisa-tcrr/internal/results"
)

// YAMLParser parses result files written as YAML. The document is converted
// to JSON and validated with the same schema as JSONParser, so both formats
// share defaults and error reporting.
type YAMLParser struct {
	schema *Schema
}

func NewYAMLParser(schema *Schema) *YAMLParser {
	return &YAMLParser{schema: schema}
}

func (p *YAMLParser) Name() string {
	return "yaml"
}

func (p *YAMLParser) CanHandle(source results.ResultSource) bool {
	switch strings.ToLower(source.Format) {
	case "yaml", "yml":
		return true
	}
	content := strings.TrimSpace(string(source.Content))
	// A YAML sequence of criterion mappings.
	return strings.HasPrefix(content, "- ") || strings.HasPrefix(content, "resultados:")
}

func (p *YAMLParser) Parse(_ context.Context, source results.ResultSource) ([]labels.CriterionResult, error) {
	data, err := yaml.YAMLToJSON(source.Content)
	if err != nil {
		return nil, fmt.Errorf("failed to convert YAML: %w", err)
	}
	return p.schema.DecodeJSON(source.ID, data)
}
