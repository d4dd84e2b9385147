// SPDX-License-Identifier: Apache-2.0

package loader_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Felpnoo/projeto-pesquisa-tcrr/internal/labels"
	"github.com/Felpnoo/projeto-pesquisa-tcrr/internal/loader"
)

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func hasWarning(diags []labels.Diagnostic) bool {
	for _, d := range diags {
		if d.Level == labels.LevelWarn {
			return true
		}
	}
	return false
}

// ---------------------------------------------------------------------------
// Gold
// ---------------------------------------------------------------------------

func TestLoadGold(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, filepath.Join(dir, "rotulos_ouro.csv"),
		"\ufeffdoc_id,criterio,presenca,orgao\n"+
			"d1, Eficiencia_Energetica ,SIM,Prefeitura\n"+
			"d1,emissoes,Não,\n"+
			",,,\n")

	got, err := loader.LoadGold(path)
	require.NoError(t, err)

	want := []labels.GoldRecord{
		{DocID: "d1", Criterion: "eficiencia_energetica", Presence: labels.Sim, Org: "Prefeitura"},
		{DocID: "d1", Criterion: "emissoes", Presence: labels.Nao},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("LoadGold() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadGold_MissingColumns(t *testing.T) {
	path := writeFile(t, filepath.Join(t.TempDir(), "gold.csv"), "doc_id,criterion\nd1,c1\n")

	_, err := loader.LoadGold(path)
	require.Error(t, err)

	var formatErr *loader.InputFormatError
	require.True(t, errors.As(err, &formatErr))
	assert.Equal(t, []string{"criterio", "presenca"}, formatErr.Missing)
}

func TestLoadGold_MissingFile(t *testing.T) {
	_, err := loader.LoadGold(filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading gold labels")
}

func TestLoadGold_Malformed(t *testing.T) {
	path := writeFile(t, filepath.Join(t.TempDir(), "gold.csv"), "doc_id,criterio,presenca\n\"d1,c1,sim\n")
	_, err := loader.LoadGold(path)
	require.Error(t, err)
}

// ---------------------------------------------------------------------------
// Baseline / summary / weights
// ---------------------------------------------------------------------------

func TestLoadBaseline(t *testing.T) {
	dir := t.TempDir()

	got, diags := loader.LoadBaseline(filepath.Join(dir, "baseline.csv"))
	assert.Empty(t, got)
	assert.True(t, hasWarning(diags), "a missing baseline is reported")

	path := writeFile(t, filepath.Join(dir, "baseline.csv"), "doc_id,criterio,presenca_baseline\nd1,Emissoes, parcial \n")
	got, diags = loader.LoadBaseline(path)
	assert.Empty(t, diags)
	assert.Equal(t, []labels.BaselineRecord{{DocID: "d1", Criterion: "emissoes", Presence: labels.Parcial}}, got)
}

func TestLoadSummary(t *testing.T) {
	dir := t.TempDir()

	got, diags := loader.LoadSummary(dir)
	assert.Empty(t, got)
	require.Len(t, diags, 1)
	assert.Equal(t, labels.LevelInfo, diags[0].Level)

	writeFile(t, filepath.Join(dir, loader.SummaryCSV), "doc_id,escore_aderencia\nd1,72.5\nd2,n/a\n")
	got, diags = loader.LoadSummary(dir)
	assert.Equal(t, []labels.SummaryRecord{{DocID: "d1", AdherenceScore: 72.5}}, got)
	assert.True(t, hasWarning(diags))
}

func TestLoadSummary_RejectsOutOfRangeScores(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, loader.SummaryCSV),
		"doc_id,escore_aderencia\nd1,nan\nd2,10\nd3,NaN\nd4,inf\nd5,-Inf\nd6,100.5\nd7,-0.1\nd8,0\nd9,100\n")

	got, diags := loader.LoadSummary(dir)
	want := []labels.SummaryRecord{
		{DocID: "d2", AdherenceScore: 10},
		{DocID: "d8", AdherenceScore: 0},
		{DocID: "d9", AdherenceScore: 100},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("LoadSummary() mismatch (-want +got):\n%s", diff)
	}
	require.Len(t, diags, 6)
	for _, d := range diags {
		assert.Equal(t, labels.LevelWarn, d.Level)
	}
}

func TestLoadWeights(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name     string
		content  *string
		want     labels.WeightMap
		wantWarn bool
	}{
		{name: "missing file", content: nil, want: labels.WeightMap{}},
		{name: "json", content: ptr(`{"Emissoes": 0.6, "rotulagem": 0.4}`), want: labels.WeightMap{"emissoes": 0.6, "rotulagem": 0.4}},
		{name: "yaml", content: ptr("emissoes: 1\nuso_de_agua: 0.5\n"), want: labels.WeightMap{"emissoes": 1, "uso_de_agua": 0.5}},
		{name: "unparseable", content: ptr(`{"emissoes": `), want: labels.WeightMap{}, wantWarn: true},
		{name: "non numeric", content: ptr(`{"emissoes": "alto"}`), want: labels.WeightMap{}, wantWarn: true},
		{name: "negative", content: ptr(`{"emissoes": -1, "rotulagem": 1}`), want: labels.WeightMap{"rotulagem": 1}, wantWarn: true},
		{name: "colliding keys", content: ptr(`{"Emissões": 0.3, "emissoes": 0.7}`), want: labels.WeightMap{"emissoes": 0.7}, wantWarn: true},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name, "pesos.json")
			if tt.content != nil {
				writeFile(t, path, *tt.content)
			}
			got, diags := loader.LoadWeights(path)
			assert.Equal(t, tt.want, got, "case %d", i)
			assert.Equal(t, tt.wantWarn, hasWarning(diags))
		})
	}
}

func ptr(s string) *string { return &s }

// ---------------------------------------------------------------------------
// Predictions
// ---------------------------------------------------------------------------

func TestLoadPredictions_ConsolidatedCSV(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, loader.PredictionsCSV), "doc_id,criterio,presenca_mvp,evidencias_count\nd1,Emissoes,SIM,2\nd1,rotulagem,nao,\nd2,rotulagem,sim,x\n")
	// Result files are ignored when the consolidated table exists.
	writeFile(t, filepath.Join(dir, "d9", "resultados.json"), `[{"criterio": "emissoes", "presenca": "sim"}]`)

	got, diags := loader.LoadPredictions(context.Background(), dir)
	want := []labels.PredictionRecord{
		{DocID: "d1", Criterion: "emissoes", Presence: labels.Sim, EvidenceCount: 2},
		{DocID: "d1", Criterion: "rotulagem", Presence: labels.Nao, EvidenceCount: 0},
		{DocID: "d2", Criterion: "rotulagem", Presence: labels.Sim, EvidenceCount: 0},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("LoadPredictions() mismatch (-want +got):\n%s", diff)
	}
	assert.True(t, hasWarning(diags), "unparseable count is reported")
}

func TestLoadPredictions_ResultFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "d2", "resultados.json"), `[
		{"criterio": "Emissoes", "presenca": "sim", "evidencias": [{"pagina": 1, "trecho": "CO2 40%"}, {"pagina": 2, "trecho": "ISO 14064"}]},
		{"criterio": "rotulagem", "presenca": "insuficiente"}
	]`)
	writeFile(t, filepath.Join(dir, "d1", "resultados.yaml"), "- criterio: uso_de_agua\n  presenca: parcial\n  evidencias:\n    - pagina: 5\n      trecho: reuso de 20%\n")
	writeFile(t, filepath.Join(dir, "d3", "resultados.json"), `[{"criterio": "emissoes", "presenca": `)
	writeFile(t, filepath.Join(dir, "d4", "notes.json"), `not a result file`)

	got, diags := loader.LoadPredictions(context.Background(), dir)

	want := []labels.PredictionRecord{
		{DocID: "d1", Criterion: "uso_de_agua", Presence: labels.Parcial, EvidenceCount: 1},
		{DocID: "d2", Criterion: "emissoes", Presence: labels.Sim, EvidenceCount: 2},
		{DocID: "d2", Criterion: "rotulagem", Presence: labels.Insuficiente, EvidenceCount: 0},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("LoadPredictions() mismatch (-want +got):\n%s", diff)
	}

	require.Len(t, diags, 1, "only the malformed file is reported")
	assert.Equal(t, labels.LevelWarn, diags[0].Level)
	assert.Contains(t, diags[0].Message, filepath.Join("d3", "resultados.json"))
}

func TestLoadPredictions_LooseResultFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "d1", "resultados.json"),
		`[{"criterio": "emissoes", "presenca": null, "evidencias": [{"pagina": 3.0}]},`+
			`{"criterio": "rotulagem", "presenca": "sim", "evidencias": ["selo", {"pagina": "4"}, {"pagina": null}]}]`)

	got, diags := loader.LoadPredictions(context.Background(), dir)
	assert.Empty(t, diags)

	want := []labels.PredictionRecord{
		{DocID: "d1", Criterion: "emissoes", Presence: labels.Presence(""), EvidenceCount: 1},
		{DocID: "d1", Criterion: "rotulagem", Presence: labels.Sim, EvidenceCount: 3},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("LoadPredictions() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadPredictions_NothingFound(t *testing.T) {
	got, diags := loader.LoadPredictions(context.Background(), filepath.Join(t.TempDir(), "outputs"))
	assert.Empty(t, got)
	assert.True(t, hasWarning(diags))
}

func TestLoadResultFiles_Canceled(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "d1", "resultados.json"), `[]`)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	docs, diags := loader.LoadResultFiles(ctx, dir)
	assert.Empty(t, docs)
	assert.True(t, hasWarning(diags))
}
