// SPDX-License-Identifier: Apache-2.0

package report

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Felpnoo/projeto-pesquisa-tcrr/internal/metrics"
)

const promNamespace = "compliance_metrics"

// WritePromTextfile exports the headline numbers of a run in the Prometheus
// text format, for pickup by a node_exporter textfile collector. Metrics that
// are absent or inapplicable are not exported.
func WritePromTextfile(path string, f1 metrics.F1Table, cov metrics.CoverageResult, mae metrics.MAEResult) error {
	reg := prometheus.NewRegistry()

	f1Gauge := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: promNamespace,
		Name:      "f1_macro",
		Help:      "Macro-averaged F1 per criterion; criterio=\"GERAL\" pools every criterion.",
	}, []string{"criterio", "system"})
	samples := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: promNamespace,
		Name:      "f1_samples",
		Help:      "Number of gold/prediction pairs scored per criterion.",
	}, []string{"criterio"})
	coverage := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: promNamespace,
		Name:      "citation_coverage_percent",
		Help:      "Share of decidable conclusions citing at least one evidence item.",
	})
	maeGauge := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: promNamespace,
		Name:      "adherence_score_mae",
		Help:      "Mean absolute error between human and model adherence scores.",
	})
	compared := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: promNamespace,
		Name:      "adherence_documents_compared",
		Help:      "Documents scored by both humans and the model.",
	})

	reg.MustRegister(f1Gauge, samples, coverage, compared)

	for _, r := range f1.Rows {
		f1Gauge.WithLabelValues(r.Criterion, "mvp").Set(r.Model)
		if v, ok := r.Baseline.Float64(); ok {
			f1Gauge.WithLabelValues(r.Criterion, "baseline").Set(v)
		}
		samples.WithLabelValues(r.Criterion).Set(float64(r.N))
	}
	coverage.Set(cov.Percent)
	compared.Set(float64(len(mae.Rows)))
	if v, ok := mae.MAE.Float64(); ok {
		reg.MustRegister(maeGauge)
		maeGauge.Set(v)
	}

	if err := prometheus.WriteToTextfile(path, reg); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
