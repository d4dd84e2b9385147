// SPDX-License-Identifier: Apache-2.0

// Package report serializes metric results into the CSV tables, the overall
// MAE text file, bar charts, a terminal summary and a Prometheus textfile.
package report

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/Felpnoo/projeto-pesquisa-tcrr/internal/metrics"
)

// Artifact file names inside the output directory.
const (
	F1CSV          = "T1_F1.csv"
	CoverageCSV    = "T2_coverage.csv"
	MAECSV         = "T3_mae.csv"
	MAEOverallTXT  = "T3_mae_overall.txt"
	F1Figure       = "fig_F1.png"
	MAEFigure      = "fig_MAE.png"
	PromTextfile   = "metrics.prom"
	ValidationCSV  = "validation.csv"
	f1Decimals     = 3
	percentDecimal = 2
)

var (
	f1Header       = []string{"criterio", "F1_mvp", "F1_baseline", "n"}
	coverageHeader = []string{
		"total_conclusoes_com_citacao_necessaria",
		"total_conclusoes_com_citacao_presente",
		"coverage_percent",
	}
	maeHeader        = []string{"doc_id", "escore_humano", "escore_mvp", "erro_abs"}
	validationHeader = []string{"doc_id", "issue"}
)

// WriteF1CSV writes the F1 table. F1 values are rounded to three decimals and
// an absent baseline is written as an empty cell.
func WriteF1CSV(path string, table metrics.F1Table) error {
	rows := make([][]string, 0, len(table.Rows))
	for _, r := range table.Rows {
		baseline := ""
		if v, ok := r.Baseline.Float64(); ok {
			baseline = FormatFloat(metrics.Round(v, f1Decimals))
		}
		rows = append(rows, []string{
			r.Criterion,
			FormatFloat(metrics.Round(r.Model, f1Decimals)),
			baseline,
			strconv.Itoa(r.N),
		})
	}
	return writeCSV(path, f1Header, rows)
}

// WriteCoverageCSV writes the single-row citation coverage table.
func WriteCoverageCSV(path string, cov metrics.CoverageResult) error {
	return writeCSV(path, coverageHeader, [][]string{{
		strconv.Itoa(cov.Needed),
		strconv.Itoa(cov.Covered),
		FormatFloat(metrics.Round(cov.Percent, percentDecimal)),
	}})
}

// WriteMAECSV writes the per-document error table in the order given.
func WriteMAECSV(path string, rows []metrics.ErrorRow) error {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string{
			r.DocID,
			FormatFloat(r.Human),
			FormatFloat(r.Model),
			FormatFloat(r.AbsError),
		})
	}
	return writeCSV(path, maeHeader, out)
}

// WriteMAEOverall writes "MAE: x.xxx", or "MAE: nan" when no document could
// be compared.
func WriteMAEOverall(path string, mae metrics.Metric) error {
	value := mae.Format(3)
	if value == "" {
		value = "nan"
	}
	if err := os.WriteFile(path, []byte("MAE: "+value+"\n"), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// ValidationIssue is one row of the data-quality report.
type ValidationIssue struct {
	DocID string
	Issue string
}

// WriteValidationCSV writes the data-quality issues found across documents.
func WriteValidationCSV(path string, issues []ValidationIssue) error {
	rows := make([][]string, 0, len(issues))
	for _, i := range issues {
		rows = append(rows, []string{i.DocID, i.Issue})
	}
	return writeCSV(path, validationHeader, rows)
}

// ReadF1CSV parses a table written by WriteF1CSV.
func ReadF1CSV(path string) (metrics.F1Table, error) {
	records, err := readCSV(path, f1Header)
	if err != nil {
		return metrics.F1Table{}, err
	}
	var table metrics.F1Table
	for i, rec := range records {
		model, err := strconv.ParseFloat(rec[1], 64)
		if err != nil {
			return metrics.F1Table{}, fmt.Errorf("%s line %d: invalid F1_mvp: %w", path, i+2, err)
		}
		baseline := metrics.None()
		if rec[2] != "" {
			v, err := strconv.ParseFloat(rec[2], 64)
			if err != nil {
				return metrics.F1Table{}, fmt.Errorf("%s line %d: invalid F1_baseline: %w", path, i+2, err)
			}
			baseline = metrics.Some(v)
		}
		n, err := strconv.Atoi(rec[3])
		if err != nil {
			return metrics.F1Table{}, fmt.Errorf("%s line %d: invalid n: %w", path, i+2, err)
		}
		table.Rows = append(table.Rows, metrics.F1Row{Criterion: rec[0], Model: model, Baseline: baseline, N: n})
	}
	return table, nil
}

// ReadMAECSV parses a table written by WriteMAECSV.
func ReadMAECSV(path string) ([]metrics.ErrorRow, error) {
	records, err := readCSV(path, maeHeader)
	if err != nil {
		return nil, err
	}
	rows := make([]metrics.ErrorRow, 0, len(records))
	for i, rec := range records {
		var vals [3]float64
		for j := range vals {
			v, err := strconv.ParseFloat(rec[j+1], 64)
			if err != nil {
				return nil, fmt.Errorf("%s line %d: invalid %s: %w", path, i+2, maeHeader[j+1], err)
			}
			vals[j] = v
		}
		rows = append(rows, metrics.ErrorRow{DocID: rec[0], Human: vals[0], Model: vals[1], AbsError: vals[2]})
	}
	return rows, nil
}

// FormatFloat renders v in its shortest form, keeping a trailing ".0" on
// integral values. NaN renders as an empty cell.
func FormatFloat(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".") && !math.IsInf(v, 0) {
		s += ".0"
	}
	return s
}

func writeCSV(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := w.WriteAll(rows); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	return nil
}

func readCSV(path string, header []string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(header)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s: empty file", path)
	}
	for i, col := range header {
		if records[0][i] != col {
			return nil, fmt.Errorf("%s: unexpected column %q, want %q", path, records[0][i], col)
		}
	}
	return records[1:], nil
}
