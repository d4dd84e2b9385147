// SPDX-License-Identifier: Apache-2.0

package report_test

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Felpnoo/projeto-pesquisa-tcrr/internal/metrics"
	"github.com/Felpnoo/projeto-pesquisa-tcrr/internal/report"
)

func sampleF1(withBaseline bool) metrics.F1Table {
	base := func(v float64) metrics.Metric {
		if withBaseline {
			return metrics.Some(v)
		}
		return metrics.None()
	}
	return metrics.F1Table{Rows: []metrics.F1Row{
		{Criterion: "emissoes", Model: 2.0 / 3.0, Baseline: base(0.5), N: 2},
		{Criterion: "rotulagem", Model: 1, Baseline: base(0), N: 1},
		{Criterion: metrics.OverallCriterion, Model: 0.8, Baseline: base(1.0 / 3.0), N: 3},
	}}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

// ---------------------------------------------------------------------------
// CSV tables
// ---------------------------------------------------------------------------

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{60, "60.0"},
		{0, "0.0"},
		{33.33, "33.33"},
		{0.667, "0.667"},
		{4.450000000000003, "4.450000000000003"},
		{math.NaN(), ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, report.FormatFloat(tt.in))
	}
}

func TestWriteF1CSV(t *testing.T) {
	dir := t.TempDir()

	t.Run("with baseline", func(t *testing.T) {
		path := filepath.Join(dir, "with.csv")
		require.NoError(t, report.WriteF1CSV(path, sampleF1(true)))
		assert.Equal(t,
			"criterio,F1_mvp,F1_baseline,n\n"+
				"emissoes,0.667,0.5,2\n"+
				"rotulagem,1.0,0.0,1\n"+
				"GERAL,0.8,0.333,3\n",
			readFile(t, path))
	})

	t.Run("absent baseline is an empty cell", func(t *testing.T) {
		path := filepath.Join(dir, "without.csv")
		require.NoError(t, report.WriteF1CSV(path, sampleF1(false)))
		assert.Equal(t,
			"criterio,F1_mvp,F1_baseline,n\n"+
				"emissoes,0.667,,2\n"+
				"rotulagem,1.0,,1\n"+
				"GERAL,0.8,,3\n",
			readFile(t, path))

		got, err := report.ReadF1CSV(path)
		require.NoError(t, err)
		require.Len(t, got.Rows, 3)
		assert.Equal(t, metrics.Absent, got.Rows[0].Baseline.State)
		assert.Equal(t, 0.667, got.Rows[0].Model)
		assert.False(t, got.HasBaseline())
	})

	t.Run("empty table keeps the header", func(t *testing.T) {
		path := filepath.Join(dir, "empty.csv")
		require.NoError(t, report.WriteF1CSV(path, metrics.F1Table{}))
		assert.Equal(t, "criterio,F1_mvp,F1_baseline,n\n", readFile(t, path))
	})
}

func TestWriteCoverageCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), report.CoverageCSV)
	require.NoError(t, report.WriteCoverageCSV(path, metrics.CoverageResult{Needed: 3, Covered: 2, Percent: 200.0 / 3.0}))
	assert.Equal(t,
		"total_conclusoes_com_citacao_necessaria,total_conclusoes_com_citacao_presente,coverage_percent\n"+
			"3,2,66.67\n",
		readFile(t, path))
}

func TestMAECSV_RoundTrip(t *testing.T) {
	rows := []metrics.ErrorRow{
		{DocID: "d2", Human: 60, Model: 55.55, AbsError: 4.450000000000003},
		{DocID: "d1", Human: 33.33, Model: 33.33, AbsError: 0},
	}
	path := filepath.Join(t.TempDir(), report.MAECSV)
	require.NoError(t, report.WriteMAECSV(path, rows))

	assert.Contains(t, readFile(t, path), "doc_id,escore_humano,escore_mvp,erro_abs\n")

	got, err := report.ReadMAECSV(path)
	require.NoError(t, err)
	require.Len(t, got, len(rows))

	var sum float64
	for i := range rows {
		assert.Equal(t, rows[i].DocID, got[i].DocID)
		assert.InDelta(t, rows[i].Human, got[i].Human, 0.01)
		assert.InDelta(t, rows[i].Model, got[i].Model, 0.01)
		assert.InDelta(t, rows[i].AbsError, got[i].AbsError, 0.01)
		sum += got[i].AbsError
	}
	assert.InDelta(t, 2.225, sum/float64(len(got)), 0.01)
}

func TestReadMAECSV_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := report.ReadMAECSV(filepath.Join(dir, "missing.csv"))
	assert.Error(t, err)

	wrongHeader := filepath.Join(dir, "wrong.csv")
	require.NoError(t, os.WriteFile(wrongHeader, []byte("a,b,c,d\n"), 0o644))
	_, err = report.ReadMAECSV(wrongHeader)
	assert.ErrorContains(t, err, "unexpected column")

	badValue := filepath.Join(dir, "bad.csv")
	require.NoError(t, os.WriteFile(badValue, []byte("doc_id,escore_humano,escore_mvp,erro_abs\nd1,x,1,1\n"), 0o644))
	_, err = report.ReadMAECSV(badValue)
	assert.ErrorContains(t, err, "invalid escore_humano")
}

func TestWriteMAEOverall(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name string
		mae  metrics.Metric
		want string
	}{
		{"present", metrics.Some(17.5), "MAE: 17.500\n"},
		{"inapplicable", metrics.NotApplicable(), "MAE: nan\n"},
		{"absent", metrics.None(), "MAE: nan\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name+".txt")
			require.NoError(t, report.WriteMAEOverall(path, tt.mae))
			assert.Equal(t, tt.want, readFile(t, path))
		})
	}
}

func TestWriteValidationCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), report.ValidationCSV)
	require.NoError(t, report.WriteValidationCSV(path, []report.ValidationIssue{
		{DocID: "d1", Issue: "emissoes: conclusão sem evidências."},
	}))
	assert.Equal(t, "doc_id,issue\nd1,emissoes: conclusão sem evidências.\n", readFile(t, path))
}

func TestWriteCSV_UnwritableDirectory(t *testing.T) {
	err := report.WriteF1CSV(filepath.Join(t.TempDir(), "missing", "T1_F1.csv"), sampleF1(true))
	assert.ErrorContains(t, err, "failed to create")
}

// ---------------------------------------------------------------------------
// Charts
// ---------------------------------------------------------------------------

func TestPlotF1(t *testing.T) {
	dir := t.TempDir()

	for _, withBaseline := range []bool{true, false} {
		path := filepath.Join(dir, "f1.png")
		require.NoError(t, report.PlotF1(sampleF1(withBaseline), path))
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Positive(t, info.Size())
	}

	err := report.PlotF1(metrics.F1Table{Rows: []metrics.F1Row{{Criterion: metrics.OverallCriterion}}}, filepath.Join(dir, "none.png"))
	assert.ErrorContains(t, err, "nothing to plot")
}

func TestPlotTopErrors(t *testing.T) {
	dir := t.TempDir()
	var rows []metrics.ErrorRow
	for i := 0; i < 20; i++ {
		rows = append(rows, metrics.ErrorRow{DocID: "doc" + string(rune('a'+i)), AbsError: float64(20 - i)})
	}

	path := filepath.Join(dir, report.MAEFigure)
	require.NoError(t, report.PlotTopErrors(rows, report.TopErrors, path))
	_, err := os.Stat(path)
	assert.NoError(t, err)

	assert.Error(t, report.PlotTopErrors(nil, report.TopErrors, filepath.Join(dir, "empty.png")))
}

// ---------------------------------------------------------------------------
// Summary and Prometheus export
// ---------------------------------------------------------------------------

func TestSummary(t *testing.T) {
	var buf bytes.Buffer
	mae := metrics.MAEResult{
		Rows: []metrics.ErrorRow{{DocID: "d1", Human: 60, Model: 50, AbsError: 10}},
		MAE:  metrics.Some(10),
	}
	require.NoError(t, report.Summary(&buf, sampleF1(false), metrics.CoverageResult{Needed: 2, Covered: 1, Percent: 50}, mae))

	out := buf.String()
	assert.Contains(t, out, "## F1")
	assert.Contains(t, out, "GERAL")
	assert.Contains(t, out, "0.667")
	assert.Contains(t, out, "50.00")
	assert.Contains(t, out, "1/2")
	assert.Contains(t, out, "10.000")
}

func TestWritePromTextfile(t *testing.T) {
	dir := t.TempDir()

	t.Run("all metrics present", func(t *testing.T) {
		path := filepath.Join(dir, "full.prom")
		mae := metrics.MAEResult{Rows: []metrics.ErrorRow{{DocID: "d1", AbsError: 5}}, MAE: metrics.Some(5)}
		require.NoError(t, report.WritePromTextfile(path, sampleF1(true), metrics.CoverageResult{Percent: 50}, mae))

		out := readFile(t, path)
		assert.Contains(t, out, `compliance_metrics_f1_macro{criterio="GERAL",system="mvp"} 0.8`)
		assert.Contains(t, out, `compliance_metrics_f1_macro{criterio="emissoes",system="baseline"} 0.5`)
		assert.Contains(t, out, "compliance_metrics_citation_coverage_percent 50")
		assert.Contains(t, out, "compliance_metrics_adherence_score_mae 5")
	})

	t.Run("inapplicable MAE is not exported", func(t *testing.T) {
		path := filepath.Join(dir, "partial.prom")
		mae := metrics.MAEResult{MAE: metrics.NotApplicable()}
		require.NoError(t, report.WritePromTextfile(path, sampleF1(false), metrics.CoverageResult{}, mae))

		out := readFile(t, path)
		assert.NotContains(t, out, "adherence_score_mae")
		assert.NotContains(t, out, `system="baseline"`)
		assert.Contains(t, out, "compliance_metrics_adherence_documents_compared 0")
	})
}
