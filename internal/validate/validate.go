// SPDX-License-Identifier: Apache-2.0

// Package validate runs data-quality checks over per-criterion results. The
// checks never fail a run; they only produce issues for human review.
package validate

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Felpnoo/projeto-pesquisa-tcrr/internal/labels"
)

var (
	standardCitation = regexp.MustCompile(`(?i)(ABNT\s*(NBR|ISO)?\s*\d{3,5})|(ISO\s*\d{3,5}(-\d+)?)`)
	numberPattern    = regexp.MustCompile(`\b(\d+(?:[\.,]\d+)?)\b`)
)

const minExcerptLen = 3

// Report is the outcome of checking one document.
type Report struct {
	OK     bool     `json:"ok"`
	Issues []string `json:"erros"`
}

// rule inspects a single criterion result. nPages is the page count of the
// source document, or <= 0 when unknown.
type rule func(r labels.CriterionResult, nPages int) []string

// rules are evaluated in order for every result.
var rules = []rule{
	checkEvidenceRequired,
	checkEvidenceFields,
	checkSimNeedsFigure,
}

// Results checks every criterion result of a document.
func Results(nPages int, results []labels.CriterionResult) Report {
	issues := []string{}
	for _, r := range results {
		for _, rl := range rules {
			issues = append(issues, rl(r, nPages)...)
		}
	}
	return Report{OK: len(issues) == 0, Issues: issues}
}

func checkEvidenceRequired(r labels.CriterionResult, _ int) []string {
	if r.Presence.IsTarget() && len(r.Evidence) == 0 {
		return []string{fmt.Sprintf("%s: conclusão sem evidências.", r.Criterion)}
	}
	return nil
}

func checkEvidenceFields(r labels.CriterionResult, nPages int) []string {
	var issues []string
	for _, ev := range r.Evidence {
		if nPages > 0 && (ev.Page < 1 || ev.Page > nPages) {
			issues = append(issues, fmt.Sprintf("%s: página inválida %d.", r.Criterion, ev.Page))
		}
		if len([]rune(strings.TrimSpace(ev.Excerpt))) < minExcerptLen {
			issues = append(issues, fmt.Sprintf("%s: trecho de evidência vazio/curto.", r.Criterion))
		}
	}
	return issues
}

func checkSimNeedsFigure(r labels.CriterionResult, _ int) []string {
	if r.Presence != labels.Sim {
		return nil
	}
	excerpts := make([]string, len(r.Evidence))
	for i, ev := range r.Evidence {
		excerpts[i] = ev.Excerpt
	}
	text := strings.Join(excerpts, " ")
	if numberPattern.MatchString(text) || standardCitation.MatchString(text) {
		return nil
	}
	return []string{fmt.Sprintf("%s: marcou 'sim' sem número ou norma visível.", r.Criterion)}
}
