// SPDX-License-Identifier: Apache-2.0

package metrics

import "github.com/Felpnoo/projeto-pesquisa-tcrr/internal/labels"

// CoverageResult counts decidable conclusions and how many of them cite evidence.
type CoverageResult struct {
	Needed  int
	Covered int
	Percent float64
}

// Coverage measures citation coverage over predictions. A conclusion needs a
// citation when it is sim, parcial or nao; it is covered with at least one
// evidence item. Percent is 0 when nothing needs a citation.
func Coverage(preds []labels.PredictionRecord) CoverageResult {
	var res CoverageResult
	for _, p := range preds {
		if !p.Presence.IsTarget() {
			continue
		}
		res.Needed++
		if p.EvidenceCount >= 1 {
			res.Covered++
		}
	}
	if res.Needed > 0 {
		res.Percent = 100 * float64(res.Covered) / float64(res.Needed)
	}
	return res
}
