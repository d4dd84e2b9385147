// SPDX-License-Identifier: Apache-2.0

// Package labels holds the canonical record shapes shared by the loaders,
// the metrics engine and the reports.
package labels

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Presence is the categorical judgment of whether a document satisfies a criterion.
// Values outside the four known symbols are kept verbatim (normalized) and never
// match a target class.
type Presence string

const (
	Sim          Presence = "sim"
	Parcial      Presence = "parcial"
	Nao          Presence = "nao"
	Insuficiente Presence = "insuficiente"
)

// TargetLabels returns the decidable classes used for F1 and coverage, in report order.
func TargetLabels() []Presence {
	return []Presence{Sim, Parcial, Nao}
}

// ParsePresence normalizes raw text into a Presence.
func ParsePresence(raw string) Presence {
	return Presence(Normalize(raw))
}

// IsTarget reports whether p is one of sim, parcial or nao.
func (p Presence) IsTarget() bool {
	switch p {
	case Sim, Parcial, Nao:
		return true
	}
	return false
}

// Value maps a presence to its contribution to the adherence score.
func (p Presence) Value() float64 {
	switch p {
	case Sim:
		return 1.0
	case Parcial:
		return 0.5
	}
	return 0.0
}

// Normalize trims, lowercases and strips diacritics so that "Não " and "nao"
// compare equal. It is applied to criterion names, presence values and weight keys.
func Normalize(s string) string {
	s = strings.TrimSpace(s)
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(folded)
}

type GoldRecord struct {
	DocID         string
	Criterion     string
	Presence      Presence
	PagesEvidence string
	Notes         string
	Org           string
	Date          string
	Region        string
	GreenwashRisk string
}

type PredictionRecord struct {
	DocID         string
	Criterion     string
	Presence      Presence
	EvidenceCount int
}

type BaselineRecord struct {
	DocID     string
	Criterion string
	Presence  Presence
}

// SummaryRecord is a precomputed adherence score for one document.
type SummaryRecord struct {
	DocID          string
	AdherenceScore float64
}
