// SPDX-License-Identifier: Apache-2.0

package metrics

import (
	"math"
	"strconv"
)

// State distinguishes a computed metric from one that could not be computed.
type State int

const (
	// Absent means the inputs needed for the metric were not supplied,
	// e.g. no baseline file.
	Absent State = iota
	// Present means Value holds a computed number.
	Present
	// Inapplicable means the inputs exist but admit no value, e.g. MAE over
	// zero comparable documents.
	Inapplicable
)

// Metric is a tri-state number: present, absent or inapplicable. It is never
// collapsed to zero.
type Metric struct {
	State State
	Value float64
}

func Some(v float64) Metric {
	return Metric{State: Present, Value: v}
}

func None() Metric {
	return Metric{State: Absent}
}

func NotApplicable() Metric {
	return Metric{State: Inapplicable, Value: math.NaN()}
}

// Float64 returns the value and whether it is present.
func (m Metric) Float64() (float64, bool) {
	return m.Value, m.State == Present
}

// Format renders the metric with the given decimals: "" when absent and "nan"
// when inapplicable.
func (m Metric) Format(decimals int) string {
	switch m.State {
	case Present:
		return strconv.FormatFloat(m.Value, 'f', decimals, 64)
	case Inapplicable:
		return "nan"
	}
	return ""
}

func (m Metric) String() string {
	switch m.State {
	case Present:
		return strconv.FormatFloat(m.Value, 'f', -1, 64)
	case Inapplicable:
		return "inapplicable"
	}
	return "absent"
}
