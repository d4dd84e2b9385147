// SPDX-License-Identifier: Apache-2.0

package tool

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Felpnoo/projeto-pesquisa-tcrr/internal/config"
	"github.com/Felpnoo/projeto-pesquisa-tcrr/internal/evaluate"
	"github.com/Felpnoo/projeto-pesquisa-tcrr/internal/labels"
	"github.com/Felpnoo/projeto-pesquisa-tcrr/internal/metrics"
)

// MetadataComputeMetrics describes the compute_metrics tool.
var MetadataComputeMetrics = &mcp.Tool{
	Name: "compute_metrics",
	Description: "Evaluate model compliance assessments against human gold labels and write the " +
		"metric tables (T1_F1.csv, T2_coverage.csv, T3_mae.csv, T3_mae_overall.txt) and charts to the " +
		"output directory. Returns macro F1 per criterion for the model and the baseline, citation " +
		"coverage, and the mean absolute error between human and model adherence scores. " +
		"Missing optional inputs (baseline, summary, weights) degrade the run and are reported as diagnostics.",
	InputSchema: map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"root":            pathProperty("Project root; other relative paths resolve against it. Default: ."),
			"gold":            pathProperty("Gold label CSV. Default: rotulos_ouro.csv"),
			"outputs":         pathProperty("Directory with mvp_results.csv or <doc_id>/resultados.json. Default: outputs"),
			"baseline":        pathProperty("Baseline CSV. Default: baseline.csv"),
			"pesos":           pathProperty("Criterion weights file (JSON or YAML). Default: pesos.json"),
			"outdir":          pathProperty("Output directory for tables and charts. Default: metrics_out"),
			"default_weights": map[string]interface{}{"type": "boolean", "description": "Use the built-in weights when the weights file yields none."},
			"prom":            map[string]interface{}{"type": "boolean", "description": "Also write metrics.prom for a Prometheus textfile collector."},
		},
	},
}

func pathProperty(description string) map[string]interface{} {
	return map[string]interface{}{"type": "string", "description": description}
}

// InputComputeMetrics is the input for the ComputeMetrics tool. Empty fields
// keep the defaults.
type InputComputeMetrics struct {
	Root           string `json:"root"`
	Gold           string `json:"gold"`
	Outputs        string `json:"outputs"`
	Baseline       string `json:"baseline"`
	Weights        string `json:"pesos"`
	OutDir         string `json:"outdir"`
	DefaultWeights bool   `json:"default_weights"`
	Prom           bool   `json:"prom"`
}

// F1Score is one row of the F1 table. Baseline is null when no baseline was
// scored.
type F1Score struct {
	Criterion string   `json:"criterio"`
	Model     float64  `json:"f1_mvp"`
	Baseline  *float64 `json:"f1_baseline"`
	N         int      `json:"n"`
}

// OutputComputeMetrics is the output for the ComputeMetrics tool.
type OutputComputeMetrics struct {
	F1              []F1Score `json:"f1"`
	CoverageNeeded  int       `json:"total_conclusoes_com_citacao_necessaria"`
	CoverageCovered int       `json:"total_conclusoes_com_citacao_presente"`
	CoveragePercent float64   `json:"coverage_percent"`
	// MAE is null when no document has both a human and a model score.
	MAE               *float64            `json:"mae"`
	DocumentsCompared int                 `json:"documents_compared"`
	ModelScores       string              `json:"model_scores"`
	Diagnostics       []labels.Diagnostic `json:"diagnostics"`
	Artifacts         []string            `json:"artifacts"`
}

// ComputeMetrics runs a full metrics batch over files on disk.
func ComputeMetrics(ctx context.Context, _ *mcp.CallToolRequest, input InputComputeMetrics) (*mcp.CallToolResult, OutputComputeMetrics, error) {
	cfg := config.Default()
	overlay := []struct {
		dst *string
		src string
	}{
		{&cfg.Root, input.Root},
		{&cfg.Gold, input.Gold},
		{&cfg.Outputs, input.Outputs},
		{&cfg.Baseline, input.Baseline},
		{&cfg.Weights, input.Weights},
		{&cfg.OutDir, input.OutDir},
	}
	for _, o := range overlay {
		if o.src != "" {
			*o.dst = o.src
		}
	}
	cfg.DefaultWeights = input.DefaultWeights
	cfg.Prom = input.Prom
	if err := cfg.Validate(); err != nil {
		return nil, OutputComputeMetrics{}, fmt.Errorf("invalid input: %w", err)
	}

	res, err := evaluate.Run(ctx, cfg.Options())
	if err != nil {
		return nil, OutputComputeMetrics{}, err
	}

	out := OutputComputeMetrics{
		F1:                make([]F1Score, 0, len(res.F1.Rows)),
		CoverageNeeded:    res.Coverage.Needed,
		CoverageCovered:   res.Coverage.Covered,
		CoveragePercent:   metrics.Round(res.Coverage.Percent, 2),
		DocumentsCompared: len(res.MAE.Rows),
		ModelScores:       res.ModelScores,
		Diagnostics:       res.Diagnostics,
		Artifacts:         res.Artifacts,
	}
	for _, r := range res.F1.Rows {
		row := F1Score{Criterion: r.Criterion, Model: metrics.Round(r.Model, 3), N: r.N}
		if v, ok := r.Baseline.Float64(); ok {
			v = metrics.Round(v, 3)
			row.Baseline = &v
		}
		out.F1 = append(out.F1, row)
	}
	if v, ok := res.MAE.MAE.Float64(); ok {
		v = metrics.Round(v, 3)
		out.MAE = &v
	}
	return nil, out, nil
}
