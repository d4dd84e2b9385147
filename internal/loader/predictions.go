// SPDX-License-Identifier: Apache-2.0

package loader

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Felpnoo/projeto-pesquisa-tcrr/internal/labels"
	"github.com/Felpnoo/projeto-pesquisa-tcrr/internal/results"
	"github.com/Felpnoo/projeto-pesquisa-tcrr/internal/results/parsers"
)

// resultFileFormats maps the accepted per-document result file names to a
// parser format hint.
var resultFileFormats = map[string]string{
	"resultados.json": "json",
	"resultados.yaml": "yaml",
	"resultados.yml":  "yaml",
}

// DocumentResults holds the criterion results read from one result file.
type DocumentResults struct {
	DocID   string
	Path    string
	Results []labels.CriterionResult
}

// LoadPredictions reads model predictions from dir. The consolidated
// mvp_results.csv wins when present; otherwise every <doc_id>/resultados.json
// under dir is flattened, one record per criterion. Files that fail to parse
// are skipped and reported.
func LoadPredictions(ctx context.Context, dir string) ([]labels.PredictionRecord, []labels.Diagnostic) {
	csvPath := filepath.Join(dir, PredictionsCSV)
	if _, err := os.Stat(csvPath); err == nil {
		return loadPredictionsCSV(csvPath)
	}

	docs, diags := LoadResultFiles(ctx, dir)
	var out []labels.PredictionRecord
	for _, doc := range docs {
		for _, r := range doc.Results {
			out = append(out, labels.PredictionRecord{
				DocID:         doc.DocID,
				Criterion:     r.Criterion,
				Presence:      r.Presence,
				EvidenceCount: len(r.Evidence),
			})
		}
	}
	if len(out) == 0 {
		diags = append(diags, labels.Warnf("predictions", "no model results found in %s", dir))
	}
	return out, diags
}

func loadPredictionsCSV(path string) ([]labels.PredictionRecord, []labels.Diagnostic) {
	const source = "predictions"
	t, err := readTable(path)
	if err != nil {
		return nil, []labels.Diagnostic{labels.Warnf(source, "failed to read %s: %v", path, err)}
	}
	if missing := t.missing("doc_id", "criterio", "presenca_mvp"); len(missing) > 0 {
		return nil, []labels.Diagnostic{labels.Warnf(source, "%s lacks columns %s; no model results loaded", path, strings.Join(missing, ", "))}
	}

	var diags []labels.Diagnostic
	out := make([]labels.PredictionRecord, 0, len(t.rows))
	for i, row := range t.rows {
		count, err := parseCount(t.get(row, "evidencias_count"))
		if err != nil {
			diags = append(diags, labels.Warnf(source, "%s row %d: %v; counted as 0", path, i+2, err))
		}
		out = append(out, labels.PredictionRecord{
			DocID:         strings.TrimSpace(t.get(row, "doc_id")),
			Criterion:     labels.Normalize(t.get(row, "criterio")),
			Presence:      labels.ParsePresence(t.get(row, "presenca_mvp")),
			EvidenceCount: count,
		})
	}
	return out, diags
}

// parseCount reads an evidence count. Blank means 0.
func parseCount(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	if n, err := strconv.Atoi(raw); err == nil {
		if n < 0 {
			return 0, fmt.Errorf("negative evidence count %d", n)
		}
		return n, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f < 0 || f != float64(int(f)) {
		return 0, fmt.Errorf("invalid evidence count %q", raw)
	}
	return int(f), nil
}

// LoadResultFiles walks dir in lexical order and parses every per-document
// result file. The document id is the name of the directory holding the file.
func LoadResultFiles(ctx context.Context, dir string) ([]DocumentResults, []labels.Diagnostic) {
	const source = "predictions"
	pipeline, err := parsers.DefaultPipeline()
	if err != nil {
		return nil, []labels.Diagnostic{labels.Warnf(source, "result parsers unavailable: %v", err)}
	}

	var (
		docs  []DocumentResults
		diags []labels.Diagnostic
	)
	walkErr := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			diags = append(diags, labels.Warnf(source, "skipping %s: %v", path, err))
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		format, ok := resultFileFormats[d.Name()]
		if d.IsDir() || !ok {
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			diags = append(diags, labels.Warnf(source, "failed to read %s: %v", path, err))
			return nil
		}
		parsed, err := pipeline.Run(ctx, results.ResultSource{Content: content, Format: format, ID: path})
		if err != nil {
			diags = append(diags, labels.Warnf(source, "failed to read %s: %v", path, err))
			return nil
		}
		docs = append(docs, DocumentResults{
			DocID:   filepath.Base(filepath.Dir(path)),
			Path:    path,
			Results: parsed,
		})
		return nil
	})
	switch {
	case errors.Is(walkErr, fs.ErrNotExist):
		diags = append(diags, labels.Warnf(source, "predictions directory %s not found", dir))
	case walkErr != nil:
		diags = append(diags, labels.Warnf(source, "walking %s: %v", dir, walkErr))
	}
	return docs, diags
}
