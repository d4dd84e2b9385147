// SPDX-License-Identifier: Apache-2.0

package metrics

import (
	"sort"

	"github.com/Felpnoo/projeto-pesquisa-tcrr/internal/labels"
)

// OverallCriterion labels the F1 row computed over all criteria pooled.
const OverallCriterion = "GERAL"

// MacroF1 is the unweighted mean of the per-label F1 over targets. For each
// label the F1 is 0 whenever there is no true positive. Values outside
// targets only ever count as "not this label". When the slices differ in
// length only the common prefix is scored.
func MacroF1(yTrue, yPred []labels.Presence, targets []labels.Presence) float64 {
	if len(targets) == 0 {
		return 0
	}
	n := min(len(yTrue), len(yPred))
	var sum float64
	for _, lbl := range targets {
		sum += labelF1(yTrue[:n], yPred[:n], lbl)
	}
	return sum / float64(len(targets))
}

func labelF1(yTrue, yPred []labels.Presence, lbl labels.Presence) float64 {
	var tp, fp, fn int
	for i := range yTrue {
		t, p := yTrue[i] == lbl, yPred[i] == lbl
		switch {
		case t && p:
			tp++
		case p:
			fp++
		case t:
			fn++
		}
	}
	if tp == 0 {
		return 0
	}
	precision := float64(tp) / float64(tp+fp)
	recall := float64(tp) / float64(tp+fn)
	return 2 * precision * recall / (precision + recall)
}

// F1Row is one line of the F1 comparison table.
type F1Row struct {
	Criterion string
	Model     float64
	// Baseline is Absent when no baseline data was supplied.
	Baseline Metric
	N        int
}

// F1Table holds one row per criterion, sorted by name, followed by the
// pooled GERAL row when any gold/prediction pair matched.
type F1Table struct {
	Rows []F1Row
}

// PerCriterion returns the rows without the pooled GERAL row.
func (t F1Table) PerCriterion() []F1Row {
	out := make([]F1Row, 0, len(t.Rows))
	for _, r := range t.Rows {
		if r.Criterion != OverallCriterion {
			out = append(out, r)
		}
	}
	return out
}

// Overall returns the pooled GERAL row, if any.
func (t F1Table) Overall() (F1Row, bool) {
	for _, r := range t.Rows {
		if r.Criterion == OverallCriterion {
			return r, true
		}
	}
	return F1Row{}, false
}

// HasBaseline reports whether baseline F1 values were computed.
func (t F1Table) HasBaseline() bool {
	for _, r := range t.Rows {
		if r.Baseline.State == Present {
			return true
		}
	}
	return false
}

type key struct {
	docID     string
	criterion string
}

type matchedRow struct {
	criterion string
	gold      labels.Presence
	model     labels.Presence
	baseline  labels.Presence
}

// BuildF1Table joins gold and predictions on (doc_id, criterion), keeps the
// rows whose gold label is decidable and scores model and baseline per
// criterion and pooled. Baseline judgments missing for a matched row count as
// nao.
func BuildF1Table(gold []labels.GoldRecord, preds []labels.PredictionRecord, baseline []labels.BaselineRecord) F1Table {
	predIndex := make(map[key][]labels.Presence, len(preds))
	for _, p := range preds {
		k := key{p.DocID, p.Criterion}
		predIndex[k] = append(predIndex[k], p.Presence)
	}
	baseIndex := make(map[key]labels.Presence, len(baseline))
	for _, b := range baseline {
		k := key{b.DocID, b.Criterion}
		if _, seen := baseIndex[k]; !seen {
			baseIndex[k] = b.Presence
		}
	}
	hasBaseline := len(baseline) > 0

	var matched []matchedRow
	for _, g := range gold {
		if !g.Presence.IsTarget() {
			continue
		}
		k := key{g.DocID, g.Criterion}
		for _, p := range predIndex[k] {
			row := matchedRow{criterion: g.Criterion, gold: g.Presence, model: p, baseline: labels.Nao}
			if b, ok := baseIndex[k]; ok {
				row.baseline = b
			}
			matched = append(matched, row)
		}
	}

	groups := make(map[string][]matchedRow)
	for _, m := range matched {
		groups[m.criterion] = append(groups[m.criterion], m)
	}
	criteria := make([]string, 0, len(groups))
	for c := range groups {
		criteria = append(criteria, c)
	}
	sort.Strings(criteria)

	var table F1Table
	for _, c := range criteria {
		table.Rows = append(table.Rows, scoreRows(c, groups[c], hasBaseline))
	}
	if len(matched) > 0 {
		table.Rows = append(table.Rows, scoreRows(OverallCriterion, matched, hasBaseline))
	}
	return table
}

func scoreRows(criterion string, rows []matchedRow, hasBaseline bool) F1Row {
	yTrue := make([]labels.Presence, len(rows))
	yModel := make([]labels.Presence, len(rows))
	yBase := make([]labels.Presence, len(rows))
	for i, r := range rows {
		yTrue[i], yModel[i], yBase[i] = r.gold, r.model, r.baseline
	}

	targets := labels.TargetLabels()
	row := F1Row{
		Criterion: criterion,
		Model:     MacroF1(yTrue, yModel, targets),
		Baseline:  None(),
		N:         len(rows),
	}
	if hasBaseline {
		row.Baseline = Some(MacroF1(yTrue, yBase, targets))
	}
	return row
}
