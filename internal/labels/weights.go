// SPDX-License-Identifier: Apache-2.0

package labels

import (
	"math"
	"sort"
)

// WeightMap maps a normalized criterion name to its non-negative weight.
// Criteria missing from the map weigh 0.
type WeightMap map[string]float64

// DefaultWeights returns a fresh copy of the six-criterion default map. The
// weights sum to 1.0.
func DefaultWeights() WeightMap {
	return WeightMap{
		"eficiencia_energetica":     0.25,
		"normas_tecnicas":           0.20,
		"emissoes":                  0.20,
		"uso_de_agua":               0.15,
		"materiais_reciclabilidade": 0.10,
		"rotulagem":                 0.10,
	}
}

// NewWeightMap builds a WeightMap from raw keys, normalizing each one.
// Negative and non-finite weights are dropped and returned as rejected.
// Raw keys are applied in sorted order, so when several of them normalize to
// the same criterion the last one wins and the criterion is returned in
// collided.
func NewWeightMap(raw map[string]float64) (w WeightMap, rejected, collided []string) {
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	w = make(WeightMap, len(raw))
	reported := map[string]bool{}
	for _, k := range keys {
		v := raw[k]
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			rejected = append(rejected, k)
			continue
		}
		name := Normalize(k)
		if _, ok := w[name]; ok && !reported[name] {
			reported[name] = true
			collided = append(collided, name)
		}
		w[name] = v
	}
	return w, rejected, collided
}

// Weight returns the weight of criterion, or 0 when it is unknown.
func (w WeightMap) Weight(criterion string) float64 {
	return w[Normalize(criterion)]
}

// Total is the sum of all weights in the map.
func (w WeightMap) Total() float64 {
	var total float64
	for _, v := range w {
		total += v
	}
	return total
}
