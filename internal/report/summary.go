// SPDX-License-Identifier: Apache-2.0

package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/Felpnoo/projeto-pesquisa-tcrr/internal/metrics"
)

// newMarkdownTable returns a left-aligned markdown table writer.
func newMarkdownTable(headers []string, w io.Writer) *tablewriter.Table {
	cfg := tablewriter.Config{
		Header: tw.CellConfig{
			Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			Formatting: tw.CellFormatting{AutoFormat: tw.Off},
		},
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignLeft},
		},
		MaxWidth: 100,
		Behavior: tw.Behavior{TrimSpace: tw.Off},
	}
	return tablewriter.NewTable(w,
		tablewriter.WithConfig(cfg),
		tablewriter.WithHeader(headers),
		tablewriter.WithRenderer(renderer.NewBlueprint()),
		tablewriter.WithRendition(tw.Rendition{
			Symbols: tw.NewSymbols(tw.StyleMarkdown),
			Borders: tw.Border{
				Left:   tw.On,
				Top:    tw.Off,
				Right:  tw.On,
				Bottom: tw.Off,
			},
		}),
		tablewriter.WithRowAutoWrap(tw.WrapNone),
	)
}

// Summary prints the headline numbers of a run as markdown tables: F1 per
// criterion, then coverage and MAE.
func Summary(w io.Writer, f1 metrics.F1Table, cov metrics.CoverageResult, mae metrics.MAEResult) error {
	if _, err := fmt.Fprintln(w, "## F1"); err != nil {
		return err
	}
	f1Table := newMarkdownTable([]string{"criterio", "F1_mvp", "F1_baseline", "n"}, w)
	for _, r := range f1.Rows {
		baseline := "-"
		if r.Baseline.State == metrics.Present {
			baseline = r.Baseline.Format(f1Decimals)
		}
		row := []string{
			r.Criterion,
			strconv.FormatFloat(r.Model, 'f', f1Decimals, 64),
			baseline,
			strconv.Itoa(r.N),
		}
		if err := f1Table.Append(row); err != nil {
			return fmt.Errorf("failed to append F1 row: %w", err)
		}
	}
	if err := f1Table.Render(); err != nil {
		return fmt.Errorf("failed to render F1 table: %w", err)
	}

	if _, err := fmt.Fprintln(w, "\n## Scores"); err != nil {
		return err
	}
	scores := newMarkdownTable([]string{"metric", "value"}, w)
	rows := [][]string{
		{"coverage_percent", strconv.FormatFloat(cov.Percent, 'f', percentDecimal, 64)},
		{"citations", fmt.Sprintf("%d/%d", cov.Covered, cov.Needed)},
		{"documents_compared", strconv.Itoa(len(mae.Rows))},
		{"MAE", mae.MAE.Format(3)},
	}
	for _, row := range rows {
		if err := scores.Append(row); err != nil {
			return fmt.Errorf("failed to append score row: %w", err)
		}
	}
	if err := scores.Render(); err != nil {
		return fmt.Errorf("failed to render score table: %w", err)
	}
	return nil
}
