// SPDX-License-Identifier: Apache-2.0

// Package loader reads the input artifacts of a metrics run into canonical
// tables. Only the gold table is required; every other loader degrades to an
// empty result plus diagnostics instead of failing.
package loader

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/Felpnoo/projeto-pesquisa-tcrr/internal/labels"
)

// File names looked up inside the predictions directory.
const (
	PredictionsCSV = "mvp_results.csv"
	SummaryCSV     = "summary.csv"
)

// LoadGold reads the human-annotated label table. A missing doc_id, criterio
// or presenca column yields an *InputFormatError.
func LoadGold(path string) ([]labels.GoldRecord, error) {
	t, err := readTable(path)
	if err != nil {
		return nil, fmt.Errorf("reading gold labels: %w", err)
	}
	if missing := t.missing("doc_id", "criterio", "presenca"); len(missing) > 0 {
		return nil, &InputFormatError{Path: path, Missing: missing}
	}

	out := make([]labels.GoldRecord, 0, len(t.rows))
	for _, row := range t.rows {
		out = append(out, labels.GoldRecord{
			DocID:         strings.TrimSpace(t.get(row, "doc_id")),
			Criterion:     labels.Normalize(t.get(row, "criterio")),
			Presence:      labels.ParsePresence(t.get(row, "presenca")),
			PagesEvidence: t.get(row, "paginas_evidencia"),
			Notes:         t.get(row, "observacoes"),
			Org:           t.get(row, "orgao"),
			Date:          t.get(row, "data"),
			Region:        t.get(row, "uf"),
			GreenwashRisk: labels.Normalize(t.get(row, "risco_greenwashing")),
		})
	}
	return out, nil
}

// LoadBaseline reads the baseline predictions. A missing or broken file makes
// the baseline comparison unavailable rather than failing the run.
func LoadBaseline(path string) ([]labels.BaselineRecord, []labels.Diagnostic) {
	const source = "baseline"
	t, err := readTable(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, []labels.Diagnostic{labels.Warnf(source, "%s not found; baseline metrics will be omitted", path)}
	}
	if err != nil {
		return nil, []labels.Diagnostic{labels.Warnf(source, "failed to read %s: %v; baseline metrics will be omitted", path, err)}
	}
	if missing := t.missing("doc_id", "criterio", "presenca_baseline"); len(missing) > 0 {
		return nil, []labels.Diagnostic{labels.Warnf(source, "%s lacks columns %s; baseline metrics will be omitted", path, strings.Join(missing, ", "))}
	}

	out := make([]labels.BaselineRecord, 0, len(t.rows))
	for _, row := range t.rows {
		out = append(out, labels.BaselineRecord{
			DocID:     strings.TrimSpace(t.get(row, "doc_id")),
			Criterion: labels.Normalize(t.get(row, "criterio")),
			Presence:  labels.ParsePresence(t.get(row, "presenca_baseline")),
		})
	}
	return out, nil
}

// LoadSummary reads precomputed adherence scores from dir/summary.csv. When the
// file is absent the caller recomputes model scores from predictions.
func LoadSummary(dir string) ([]labels.SummaryRecord, []labels.Diagnostic) {
	const source = "summary"
	path := filepath.Join(dir, SummaryCSV)
	t, err := readTable(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, []labels.Diagnostic{labels.Infof(source, "%s not found; model scores will be recomputed from per-criterion results", path)}
	}
	if err != nil {
		return nil, []labels.Diagnostic{labels.Warnf(source, "failed to read %s: %v; model scores will be recomputed", path, err)}
	}
	if missing := t.missing("doc_id", "escore_aderencia"); len(missing) > 0 {
		return nil, []labels.Diagnostic{labels.Warnf(source, "%s lacks columns %s; model scores will be recomputed", path, strings.Join(missing, ", "))}
	}

	var diags []labels.Diagnostic
	out := make([]labels.SummaryRecord, 0, len(t.rows))
	for _, row := range t.rows {
		docID := strings.TrimSpace(t.get(row, "doc_id"))
		raw := strings.TrimSpace(t.get(row, "escore_aderencia"))
		score, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			diags = append(diags, labels.Warnf(source, "document %q: non-numeric score %q dropped", docID, raw))
			continue
		}
		if math.IsNaN(score) || score < 0 || score > 100 {
			diags = append(diags, labels.Warnf(source, "document %q: score %q outside [0, 100] dropped", docID, raw))
			continue
		}
		out = append(out, labels.SummaryRecord{DocID: docID, AdherenceScore: score})
	}
	return out, diags
}

// LoadWeights reads a criterion -> weight mapping written as JSON or YAML.
// Any failure falls back to an empty map, which weighs every criterion 0.
func LoadWeights(path string) (labels.WeightMap, []labels.Diagnostic) {
	const source = "weights"
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return labels.WeightMap{}, []labels.Diagnostic{labels.Infof(source, "%s not found; using an empty weight map", path)}
	}
	if err != nil {
		return labels.WeightMap{}, []labels.Diagnostic{labels.Warnf(source, "failed to read %s: %v; using an empty weight map", path, err)}
	}

	raw := map[string]float64{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return labels.WeightMap{}, []labels.Diagnostic{labels.Warnf(source, "failed to parse %s: %v; using an empty weight map", path, err)}
	}

	weights, rejected, collided := labels.NewWeightMap(raw)
	var diags []labels.Diagnostic
	for _, k := range rejected {
		diags = append(diags, labels.Warnf(source, "invalid weight for %q ignored", k))
	}
	for _, k := range collided {
		diags = append(diags, labels.Warnf(source, "several keys normalize to %q; keeping %v", k, weights[k]))
	}
	return weights, diags
}
