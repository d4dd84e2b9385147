// SPDX-License-Identifier: Apache-2.0

// Package evaluate runs a complete metrics batch: it loads the gold labels,
// model predictions, baseline, summary and weights, computes the F1,
// coverage and score-error tables, and writes every artifact to the output
// directory.
package evaluate

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/chainguard-dev/clog"

	"github.com/Felpnoo/projeto-pesquisa-tcrr/internal/labels"
	"github.com/Felpnoo/projeto-pesquisa-tcrr/internal/loader"
	"github.com/Felpnoo/projeto-pesquisa-tcrr/internal/metrics"
	"github.com/Felpnoo/projeto-pesquisa-tcrr/internal/report"
)

// Options holds the resolved input and output locations of a run.
type Options struct {
	GoldPath     string
	OutputsDir   string
	BaselinePath string
	WeightsPath  string
	OutDir       string

	// DefaultWeights substitutes the built-in weight map when the weights
	// file yields no weights.
	DefaultWeights bool
	// Prom additionally writes a Prometheus textfile.
	Prom bool
	// TopErrors caps the documents drawn in the error chart. Zero means
	// report.TopErrors.
	TopErrors int
}

// Where model adherence scores came from.
const (
	ModelScoresSummary    = "summary"
	ModelScoresRecomputed = "recomputed"
)

// Result is everything a run computed, plus the tolerated degradations.
type Result struct {
	F1          metrics.F1Table
	Coverage    metrics.CoverageResult
	MAE         metrics.MAEResult
	ModelScores string
	Diagnostics []labels.Diagnostic
	// Artifacts lists the files written, in write order.
	Artifacts []string
}

func (r *Result) note(ctx context.Context, diags ...labels.Diagnostic) {
	logDiagnostics(ctx, diags)
	r.Diagnostics = append(r.Diagnostics, diags...)
}

func logDiagnostics(ctx context.Context, diags []labels.Diagnostic) {
	log := clog.FromContext(ctx)
	for _, d := range diags {
		if d.Level == labels.LevelWarn {
			log.With("source", d.Source).Warn(d.Message)
		} else {
			log.With("source", d.Source).Info(d.Message)
		}
	}
}

// Run executes the batch. Only an unusable gold table, an output directory
// that cannot be created or a failed table write return an error; every other
// problem is recorded as a diagnostic and the run carries on.
func Run(ctx context.Context, opts Options) (*Result, error) {
	log := clog.FromContext(ctx)
	res := &Result{}

	gold, err := loader.LoadGold(opts.GoldPath)
	if err != nil {
		return nil, fmt.Errorf("loading gold labels: %w", err)
	}
	log.Infof("Loaded %d gold labels from %s", len(gold), opts.GoldPath)

	if err := os.MkdirAll(opts.OutDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	preds, diags := loader.LoadPredictions(ctx, opts.OutputsDir)
	res.note(ctx, diags...)
	baseline, diags := loader.LoadBaseline(opts.BaselinePath)
	res.note(ctx, diags...)
	summary, diags := loader.LoadSummary(opts.OutputsDir)
	res.note(ctx, diags...)
	weights, diags := loader.LoadWeights(opts.WeightsPath)
	res.note(ctx, diags...)
	if len(weights) == 0 && opts.DefaultWeights {
		weights = labels.DefaultWeights()
		res.note(ctx, labels.Infof("weights", "no weights loaded; using the default six-criterion map"))
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// T1
	res.F1 = metrics.BuildF1Table(gold, preds, baseline)
	if err := res.write(report.F1CSV, opts.OutDir, func(p string) error { return report.WriteF1CSV(p, res.F1) }); err != nil {
		return nil, err
	}

	// T2
	res.Coverage = metrics.Coverage(preds)
	if err := res.write(report.CoverageCSV, opts.OutDir, func(p string) error { return report.WriteCoverageCSV(p, res.Coverage) }); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// T3
	goldJudgments := metrics.GoldJudgments(gold)
	human := metrics.ScoreDocuments(goldJudgments, weights)
	var model []metrics.DocumentScore
	if len(summary) > 0 {
		model = metrics.SummaryScores(summary)
		res.ModelScores = ModelScoresSummary
	} else {
		predJudgments := metrics.PredictionJudgments(preds)
		model = metrics.ScoreDocuments(predJudgments, weights)
		res.ModelScores = ModelScoresRecomputed
		res.noteUnweighted(ctx, "model", predJudgments, weights)
	}
	res.noteUnweighted(ctx, "gold", goldJudgments, weights)

	res.MAE = metrics.MAETable(human, model)
	if res.MAE.MAE.State == metrics.Inapplicable {
		res.note(ctx, labels.Warnf("mae", "no document has both a human and a model score; MAE is not applicable"))
	}
	if err := res.write(report.MAECSV, opts.OutDir, func(p string) error { return report.WriteMAECSV(p, res.MAE.Rows) }); err != nil {
		return nil, err
	}
	if err := res.write(report.MAEOverallTXT, opts.OutDir, func(p string) error { return report.WriteMAEOverall(p, res.MAE.MAE) }); err != nil {
		return nil, err
	}

	res.plot(ctx, opts)

	if opts.Prom {
		err := res.write(report.PromTextfile, opts.OutDir, func(p string) error {
			return report.WritePromTextfile(p, res.F1, res.Coverage, res.MAE)
		})
		if err != nil {
			res.note(ctx, labels.Warnf("prometheus", "%v", err))
		}
	}

	log.Infof("Wrote %d artifacts to %s", len(res.Artifacts), opts.OutDir)
	return res, nil
}

func (r *Result) write(name, dir string, fn func(path string) error) error {
	path := filepath.Join(dir, name)
	if err := fn(path); err != nil {
		return err
	}
	r.Artifacts = append(r.Artifacts, path)
	return nil
}

// plot draws the charts. Chart failures, panics included, never fail the run.
func (r *Result) plot(ctx context.Context, opts Options) {
	top := opts.TopErrors
	if top <= 0 {
		top = report.TopErrors
	}
	if len(r.F1.PerCriterion()) > 0 {
		r.chart(ctx, "F1", report.F1Figure, opts.OutDir, func(p string) error { return report.PlotF1(r.F1, p) })
	}
	if len(r.MAE.Rows) > 0 {
		r.chart(ctx, "error", report.MAEFigure, opts.OutDir, func(p string) error { return report.PlotTopErrors(r.MAE.Rows, top, p) })
	}
}

func (r *Result) chart(ctx context.Context, what, name, dir string, draw func(path string) error) {
	defer func() {
		if p := recover(); p != nil {
			r.note(ctx, labels.Warnf("plot", "failed to draw %s chart: panic: %v", what, p))
		}
	}()
	if err := r.write(name, dir, draw); err != nil {
		r.note(ctx, labels.Warnf("plot", "failed to draw %s chart: %v", what, err))
	}
}

// noteUnweighted warns about documents scored with a zero weight sum.
func (r *Result) noteUnweighted(ctx context.Context, side string, judgments []metrics.Judgment, weights labels.WeightMap) {
	docs := metrics.UnweightedDocuments(judgments, weights)
	if len(docs) == 0 {
		return
	}
	r.note(ctx, labels.Warnf("weights", "%d %s document(s) have no weighted criteria and score 0 by convention: %v", len(docs), side, docs))
}

// Warnings counts the warn-level diagnostics.
func (r *Result) Warnings() int {
	n := 0
	for _, d := range r.Diagnostics {
		if d.Level == labels.LevelWarn {
			n++
		}
	}
	return n
}
