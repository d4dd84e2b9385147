// SPDX-License-Identifier: Apache-2.0

package tool

import (
	"context"
	"fmt"

	"github.com/Felpnoo/projeto-pesquisa-tcrr/internal/results"
	"github.com/Felpnoo/projeto-pesquisa-tcrr/internal/results/parsers"
)

// resultsInputSchema is shared by the tools that take inline result content.
func resultsInputSchema(extra map[string]interface{}) map[string]interface{} {
	props := map[string]interface{}{
		"content": map[string]interface{}{
			"type": "string",
			"description": "Per-criterion results of one document, as written to resultados.json: " +
				"a list of {criterio, presenca, risco_greenwashing, evidencias[{doc, pagina, trecho}], observacoes}, " +
				"or an object with a resultados list. JSON or YAML.",
		},
		"format": map[string]interface{}{
			"type":        "string",
			"description": "Format hint for the content. One of: json, yaml. If omitted, auto-detection is used.",
			"enum":        []string{"json", "yaml"},
		},
		"doc_id": map[string]interface{}{
			"type":        "string",
			"description": "Optional document identifier echoed in the output.",
		},
	}
	for k, v := range extra {
		props[k] = v
	}
	return map[string]interface{}{
		"type":       "object",
		"required":   []string{"content"},
		"properties": props,
	}
}

// parseResults runs the result pipeline over inline content.
func parseResults(ctx context.Context, content, format, docID string) (results.RunResult, error) {
	if content == "" {
		return results.RunResult{}, fmt.Errorf("content is required")
	}
	if docID == "" {
		docID = "unknown"
	}

	pipeline, err := parsers.DefaultPipeline()
	if err != nil {
		return results.RunResult{}, err
	}
	return pipeline.RunWithMeta(ctx, results.ResultSource{
		Content: []byte(content),
		Format:  format,
		ID:      docID,
	})
}
