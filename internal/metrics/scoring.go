// SPDX-License-Identifier: Apache-2.0

// Package metrics computes adherence scores, macro F1, citation coverage and
// score error from canonical label tables. Every function is pure: inputs are
// never mutated and weights are always passed in explicitly.
package metrics

import (
	"math"
	"sort"
	"strconv"

	"github.com/Felpnoo/projeto-pesquisa-tcrr/internal/labels"
)

// Judgment is a single (document, criterion, presence) triple fed to the scorer.
type Judgment struct {
	DocID     string
	Criterion string
	Presence  labels.Presence
}

// DocumentScore is the adherence score of one document in [0, 100].
type DocumentScore struct {
	DocID string
	Score float64
}

// ScoreDocuments computes the weighted adherence score of every document:
// 100 * Σ w(c)·v(p) / Σ w(c), rounded to two decimals, or 0 when the
// document's criteria carry no weight. Results are ordered by doc id.
func ScoreDocuments(judgments []Judgment, weights labels.WeightMap) []DocumentScore {
	type acc struct {
		weighted float64
		total    float64
	}
	byDoc := make(map[string]*acc)
	for _, j := range judgments {
		a, ok := byDoc[j.DocID]
		if !ok {
			a = &acc{}
			byDoc[j.DocID] = a
		}
		w := weights.Weight(j.Criterion)
		a.total += w
		a.weighted += w * j.Presence.Value()
	}

	docIDs := make([]string, 0, len(byDoc))
	for id := range byDoc {
		docIDs = append(docIDs, id)
	}
	sort.Strings(docIDs)

	out := make([]DocumentScore, 0, len(docIDs))
	for _, id := range docIDs {
		a := byDoc[id]
		score := 0.0
		if a.total > 0 {
			score = Round(100*a.weighted/a.total, 2)
		}
		out = append(out, DocumentScore{DocID: id, Score: score})
	}
	return out
}

// UnweightedDocuments lists, sorted, the documents whose criteria carry no
// weight at all. Their score is 0 by convention, which makes them a boundary
// case for error analysis.
func UnweightedDocuments(judgments []Judgment, weights labels.WeightMap) []string {
	total := make(map[string]float64)
	for _, j := range judgments {
		total[j.DocID] += weights.Weight(j.Criterion)
	}
	out := []string{}
	for id, w := range total {
		if w == 0 {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}

// GoldJudgments projects gold labels onto the scorer input.
func GoldJudgments(gold []labels.GoldRecord) []Judgment {
	out := make([]Judgment, len(gold))
	for i, g := range gold {
		out[i] = Judgment{DocID: g.DocID, Criterion: g.Criterion, Presence: g.Presence}
	}
	return out
}

// PredictionJudgments projects model predictions onto the scorer input.
func PredictionJudgments(preds []labels.PredictionRecord) []Judgment {
	out := make([]Judgment, len(preds))
	for i, p := range preds {
		out[i] = Judgment{DocID: p.DocID, Criterion: p.Criterion, Presence: p.Presence}
	}
	return out
}

// SummaryScores converts precomputed summary rows to document scores,
// preserving input order.
func SummaryScores(summary []labels.SummaryRecord) []DocumentScore {
	out := make([]DocumentScore, len(summary))
	for i, s := range summary {
		out[i] = DocumentScore{DocID: s.DocID, Score: s.AdherenceScore}
	}
	return out
}

// Consolidate scores a single document from its criterion results and
// collects the review flags: criteria with a high greenwashing risk and
// criteria judged insufficient. An empty weight map selects the defaults.
func Consolidate(docID string, results []labels.CriterionResult, weights labels.WeightMap) labels.Consolidated {
	if len(weights) == 0 {
		weights = labels.DefaultWeights()
	}

	judgments := make([]Judgment, len(results))
	highRisk := []string{}
	insufficient := []string{}
	for i, r := range results {
		judgments[i] = Judgment{DocID: docID, Criterion: r.Criterion, Presence: r.Presence}
		if labels.Normalize(r.GreenwashRisk) == "alto" {
			highRisk = append(highRisk, r.Criterion)
		}
		if r.Presence == labels.Insuficiente {
			insufficient = append(insufficient, r.Criterion)
		}
	}

	score := 0.0
	if scores := ScoreDocuments(judgments, weights); len(scores) == 1 {
		score = scores[0].Score
	}
	return labels.Consolidated{
		DocID:          docID,
		AdherenceScore: score,
		Flags: map[string][]string{
			labels.FlagHighGreenwash: highRisk,
			labels.FlagInsufficient:  insufficient,
		},
		Results: results,
	}
}

// Round rounds v to the given number of decimal places using the exact
// decimal value of v, with ties going to the even digit: 0.8125 rounds to
// 0.812 and 2.675 to 2.67, since its binary value lies below the tie.
func Round(v float64, places int) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', places, 64), 64)
	if err != nil {
		return v
	}
	return r
}
