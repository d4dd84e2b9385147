// SPDX-License-Identifier: Apache-2.0

package report

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"

	"github.com/Felpnoo/projeto-pesquisa-tcrr/internal/metrics"
)

// TopErrors is the number of documents drawn in the error chart.
const TopErrors = 15

const barWidth = vg.Length(14)

var errNothingToPlot = errors.New("nothing to plot")

// PlotF1 draws the per-criterion F1 of the model, grouped with the baseline
// when one was scored. The pooled GERAL row is left out.
func PlotF1(table metrics.F1Table, path string) error {
	rows := table.PerCriterion()
	if len(rows) == 0 {
		return fmt.Errorf("F1 chart: %w", errNothingToPlot)
	}

	names := make([]string, len(rows))
	model := make(plotter.Values, len(rows))
	baseline := make(plotter.Values, len(rows))
	withBaseline := table.HasBaseline()
	for i, r := range rows {
		names[i] = r.Criterion
		model[i] = r.Model
		if v, ok := r.Baseline.Float64(); ok {
			baseline[i] = v
		}
	}

	series := []namedValues{{"F1_mvp", model}}
	if withBaseline {
		series = append(series, namedValues{"F1_baseline", baseline})
	}
	return barChart("F1 por critério (MVP vs Baseline)", names, series, path)
}

// PlotTopErrors draws the absolute score error of the first n rows, which are
// expected to be sorted by error already.
func PlotTopErrors(rows []metrics.ErrorRow, n int, path string) error {
	if n < len(rows) {
		rows = rows[:n]
	}
	if len(rows) == 0 {
		return fmt.Errorf("error chart: %w", errNothingToPlot)
	}

	names := make([]string, len(rows))
	values := make(plotter.Values, len(rows))
	for i, r := range rows {
		names[i] = r.DocID
		values[i] = r.AbsError
	}
	title := fmt.Sprintf("Erro absoluto por documento (Top %d)", n)
	return barChart(title, names, []namedValues{{"erro_abs", values}}, path)
}

type namedValues struct {
	name   string
	values plotter.Values
}

func barChart(title string, names []string, series []namedValues, path string) error {
	p := plot.New()
	p.Title.Text = title
	p.Y.Min = 0

	for i, s := range series {
		for j, v := range s.values {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				s.values[j] = 0
			}
		}
		bars, err := plotter.NewBarChart(s.values, barWidth)
		if err != nil {
			return fmt.Errorf("failed to build bars for %s: %w", s.name, err)
		}
		bars.LineStyle.Width = 0
		bars.Color = plotutil.Color(i)
		bars.Offset = barWidth * vg.Length(2*i-len(series)+1) / 2
		p.Add(bars)
		if len(series) > 1 {
			p.Legend.Add(s.name, bars)
		}
	}
	p.Legend.Top = true
	p.NominalX(names...)
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = text.XRight
	p.X.Tick.Label.YAlign = text.YCenter

	if err := p.Save(8*vg.Inch, 5*vg.Inch, path); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}
