// SPDX-License-Identifier: Apache-2.0

package tool

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Felpnoo/projeto-pesquisa-tcrr/internal/validate"
)

// MetadataValidateResults describes the validate_results tool.
var MetadataValidateResults = &mcp.Tool{
	Name: "validate_results",
	Description: "Run data-quality checks over one document's per-criterion results. Reports " +
		"decidable conclusions (sim, parcial, nao) without evidence, evidence pages outside the " +
		"document, empty or very short excerpts, and 'sim' conclusions whose excerpts show neither " +
		"a number nor an ABNT/NBR/ISO standard. Issues are findings for review, never errors.",
	InputSchema: resultsInputSchema(map[string]interface{}{
		"n_paginas": map[string]interface{}{
			"type":        "integer",
			"description": "Page count of the source document. When omitted or 0 the page-range check is skipped.",
			"minimum":     0,
		},
	}),
}

// InputValidateResults is the input for the ValidateResults tool.
type InputValidateResults struct {
	Content string `json:"content"`
	Format  string `json:"format"`
	DocID   string `json:"doc_id"`
	Pages   int    `json:"n_paginas"`
}

// OutputValidateResults is the output for the ValidateResults tool.
type OutputValidateResults struct {
	DocID      string   `json:"doc_id,omitempty"`
	OK         bool     `json:"ok"`
	Issues     []string `json:"erros"`
	ParserUsed string   `json:"parser_used"`
}

// ValidateResults checks a single document's results.
func ValidateResults(ctx context.Context, _ *mcp.CallToolRequest, input InputValidateResults) (*mcp.CallToolResult, OutputValidateResults, error) {
	parsed, err := parseResults(ctx, input.Content, input.Format, input.DocID)
	if err != nil {
		return nil, OutputValidateResults{}, err
	}

	rep := validate.Results(input.Pages, parsed.Results)
	return nil, OutputValidateResults{
		DocID:      input.DocID,
		OK:         rep.OK,
		Issues:     rep.Issues,
		ParserUsed: parsed.ParserUsed,
	}, nil
}
