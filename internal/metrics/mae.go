// SPDX-License-Identifier: Apache-2.0

package metrics

import (
	"math"
	"sort"
)

// ErrorRow compares the human and model adherence scores of one document.
type ErrorRow struct {
	DocID    string
	Human    float64
	Model    float64
	AbsError float64
}

type MAEResult struct {
	// Rows are sorted by AbsError, largest first.
	Rows []ErrorRow
	// MAE is Inapplicable when no document has both scores.
	MAE Metric
}

// MAETable inner-joins human and model scores on doc id and reports the
// absolute error per document plus their mean. Documents scored on one side
// only, or with a non-finite score, are left out; nothing is imputed.
func MAETable(human, model []DocumentScore) MAEResult {
	modelIndex := make(map[string][]float64, len(model))
	for _, m := range model {
		if finite(m.Score) {
			modelIndex[m.DocID] = append(modelIndex[m.DocID], m.Score)
		}
	}

	var rows []ErrorRow
	for _, h := range human {
		if !finite(h.Score) {
			continue
		}
		for _, m := range modelIndex[h.DocID] {
			rows = append(rows, ErrorRow{
				DocID:    h.DocID,
				Human:    h.Score,
				Model:    m,
				AbsError: math.Abs(h.Score - m),
			})
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].AbsError > rows[j].AbsError
	})

	if len(rows) == 0 {
		return MAEResult{MAE: NotApplicable()}
	}
	var sum float64
	for _, r := range rows {
		sum += r.AbsError
	}
	return MAEResult{Rows: rows, MAE: Some(sum / float64(len(rows)))}
}

// Top returns at most n rows with the largest errors.
func (r MAEResult) Top(n int) []ErrorRow {
	if n >= len(r.Rows) {
		return r.Rows
	}
	return r.Rows[:n]
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
