// SPDX-License-Identifier: Apache-2.0

package tool

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Felpnoo/projeto-pesquisa-tcrr/internal/labels"
	"github.com/Felpnoo/projeto-pesquisa-tcrr/internal/metrics"
)

// MetadataConsolidateResults describes the consolidate_results tool.
var MetadataConsolidateResults = &mcp.Tool{
	Name: "consolidate_results",
	Description: "Compute the weighted adherence score (0-100) of one document from its per-criterion " +
		"results and flag the criteria that need human review: those with a high greenwashing risk " +
		"and those judged insuficiente. sim counts 1, parcial 0.5, nao and insuficiente 0. " +
		"Criteria without a weight count 0; when no weights are given the six-criterion default map is used.",
	InputSchema: resultsInputSchema(map[string]interface{}{
		"pesos": map[string]interface{}{
			"type":                 "object",
			"description":          "Optional criterion -> non-negative weight map. Negative weights are ignored.",
			"additionalProperties": map[string]interface{}{"type": "number"},
		},
	}),
}

// InputConsolidateResults is the input for the ConsolidateResults tool.
type InputConsolidateResults struct {
	Content string             `json:"content"`
	Format  string             `json:"format"`
	DocID   string             `json:"doc_id"`
	Weights map[string]float64 `json:"pesos"`
}

// OutputConsolidateResults is the output for the ConsolidateResults tool.
type OutputConsolidateResults struct {
	// Consolidated holds the score, the review flags and the canonical results.
	Consolidated labels.Consolidated `json:"consolidated"`
	// ParserUsed is the name of the parser that was selected.
	ParserUsed string `json:"parser_used"`
	// IgnoredWeights lists criteria whose weight was negative or not finite.
	IgnoredWeights []string `json:"ignored_weights,omitempty"`
}

// ConsolidateResults scores a single document's results.
func ConsolidateResults(ctx context.Context, _ *mcp.CallToolRequest, input InputConsolidateResults) (*mcp.CallToolResult, OutputConsolidateResults, error) {
	parsed, err := parseResults(ctx, input.Content, input.Format, input.DocID)
	if err != nil {
		return nil, OutputConsolidateResults{}, err
	}

	weights, ignored, _ := labels.NewWeightMap(input.Weights)
	return nil, OutputConsolidateResults{
		Consolidated:   metrics.Consolidate(input.DocID, parsed.Results, weights),
		ParserUsed:     parsed.ParserUsed,
		IgnoredWeights: ignored,
	}, nil
}
