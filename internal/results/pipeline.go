// SPDX-License-Identifier: Apache-2.0

package results

import (
	"context"
	"fmt"

	"github.com/Felpnoo/projeto-pesquisa-tcrr/internal/labels"
)

type Pipeline struct {
	parsers []ResultParser
}

// NewPipeline creates a new Pipeline with the provided parsers.
func NewPipeline(parsers ...ResultParser) *Pipeline {
	return &Pipeline{parsers: parsers}
}

// RunResult is the output of a successful pipeline run.
type RunResult struct {
	Results    []labels.CriterionResult
	ParserUsed string
}

func (p *Pipeline) Run(ctx context.Context, source ResultSource) ([]labels.CriterionResult, error) {
	result, err := p.RunWithMeta(ctx, source)
	if err != nil {
		return nil, err
	}
	return result.Results, nil
}

func (p *Pipeline) RunWithMeta(ctx context.Context, source ResultSource) (RunResult, error) {
	parser, err := p.selectParser(source)
	if err != nil {
		return RunResult{}, err
	}

	parsed, err := parser.Parse(ctx, source)
	if err != nil {
		return RunResult{}, fmt.Errorf("parser %q failed: %w", parser.Name(), err)
	}

	return RunResult{
		Results:    canonicalize(parsed),
		ParserUsed: parser.Name(),
	}, nil
}

// canonicalize normalizes the join keys and enum values of every result so
// that downstream code never sees raw casing or accents.
func canonicalize(in []labels.CriterionResult) []labels.CriterionResult {
	out := make([]labels.CriterionResult, len(in))
	for i, r := range in {
		r.Criterion = labels.Normalize(r.Criterion)
		r.Presence = labels.ParsePresence(string(r.Presence))
		r.GreenwashRisk = labels.Normalize(r.GreenwashRisk)
		if r.Evidence == nil {
			r.Evidence = []labels.Evidence{}
		}
		out[i] = r
	}
	return out
}

// selectParser returns the first registered parser that can handle the given source.
func (p *Pipeline) selectParser(source ResultSource) (ResultParser, error) {
	for _, parser := range p.parsers {
		if parser.CanHandle(source) {
			return parser, nil
		}
	}
	return nil, fmt.Errorf("unsupported result format: no parser found for source %q (format hint: %q)", source.ID, source.Format)
}

// RegisteredParsers returns the names of all currently registered parsers.
func (p *Pipeline) RegisteredParsers() []string {
	names := make([]string, len(p.parsers))
	for i, parser := range p.parsers {
		names[i] = parser.Name()
	}
	return names
}
