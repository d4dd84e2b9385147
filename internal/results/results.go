// SPDX-License-Identifier: Apache-2.0

// Package results reads the per-document result files written by the
// assessment service. A file is routed to the first registered parser that
// can handle it and comes out as canonical CriterionResult values.
package results

import (
	"context"

	"github.com/Felpnoo/projeto-pesquisa-tcrr/internal/labels"
)

// ResultSource describes one per-document result file.
type ResultSource struct {
	// Content is the raw file content.
	Content []byte
	Format  string
	// ID identifies the source in errors, usually the file path.
	ID string
}

type ResultParser interface {
	CanHandle(source ResultSource) bool
	Parse(ctx context.Context, source ResultSource) ([]labels.CriterionResult, error)
	Name() string
}
