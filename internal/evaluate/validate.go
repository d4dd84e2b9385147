// SPDX-License-Identifier: Apache-2.0

package evaluate

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/chainguard-dev/clog"

	"github.com/Felpnoo/projeto-pesquisa-tcrr/internal/labels"
	"github.com/Felpnoo/projeto-pesquisa-tcrr/internal/loader"
	"github.com/Felpnoo/projeto-pesquisa-tcrr/internal/report"
	"github.com/Felpnoo/projeto-pesquisa-tcrr/internal/validate"
)

// ValidateOptions configures a data-quality pass over the result files.
type ValidateOptions struct {
	OutputsDir string
	OutDir     string
	// Pages maps a doc id to its page count. Documents without an entry
	// skip the page-range check.
	Pages map[string]int
}

// DocumentReport is the data-quality report of one document.
type DocumentReport struct {
	DocID  string
	Path   string
	Report validate.Report
}

type ValidationResult struct {
	Documents   []DocumentReport
	Diagnostics []labels.Diagnostic
	Artifacts   []string
}

// Issues counts the issues found across all documents.
func (v *ValidationResult) Issues() int {
	n := 0
	for _, d := range v.Documents {
		n += len(d.Report.Issues)
	}
	return n
}

// Validate checks every per-document result file under OutputsDir and writes
// validation.csv. Issues are findings, not errors.
func Validate(ctx context.Context, opts ValidateOptions) (*ValidationResult, error) {
	log := clog.FromContext(ctx)

	docs, diags := loader.LoadResultFiles(ctx, opts.OutputsDir)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	res := &ValidationResult{Diagnostics: diags}
	logDiagnostics(ctx, diags)

	var rows []report.ValidationIssue
	for _, doc := range docs {
		rep := validate.Results(opts.Pages[doc.DocID], doc.Results)
		res.Documents = append(res.Documents, DocumentReport{DocID: doc.DocID, Path: doc.Path, Report: rep})
		for _, issue := range rep.Issues {
			rows = append(rows, report.ValidationIssue{DocID: doc.DocID, Issue: issue})
		}
	}

	if err := os.MkdirAll(opts.OutDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	path := filepath.Join(opts.OutDir, report.ValidationCSV)
	if err := report.WriteValidationCSV(path, rows); err != nil {
		return nil, err
	}
	res.Artifacts = append(res.Artifacts, path)

	log.Infof("Checked %d documents, found %d issues", len(res.Documents), len(rows))
	return res, nil
}
