package termgath

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/programme-lv/portfolio/internal/names"
	"github.com/programme-lv/portfolio/internal/scores"
)

// WriteTable prints rows in columns sized by display width. Columns listed
// in alignRight are counted from 1.
func WriteTable(w io.Writer, header []string, rows [][]string, alignRight ...int) {
	t := table.NewWriter()
	t.SetOutputMirror(w)

	style := table.StyleLight
	style.Options = table.OptionsNoBordersAndSeparators
	style.Format.Header = text.FormatDefault
	style.Box.PaddingLeft = ""
	style.Box.PaddingRight = "  "
	t.SetStyle(style)

	configs := make([]table.ColumnConfig, 0, len(alignRight))
	for _, n := range alignRight {
		configs = append(configs, table.ColumnConfig{Number: n, Align: text.AlignRight, AlignHeader: text.AlignRight})
	}
	t.SetColumnConfigs(configs)

	t.AppendHeader(row(header))
	for _, r := range rows {
		t.AppendRow(row(r))
	}
	t.Render()
}

func row(cells []string) table.Row {
	r := make(table.Row, len(cells))
	for i, c := range cells {
		r[i] = c
	}
	return r
}

// WriteScores prints a group-wise score table with one column per solver.
func WriteScores(w io.Writer, group string, columns []string, rows []scores.GroupRow, name names.Resolver) {
	if name == nil {
		name = names.Identity
	}
	header := append([]string{name(group), "count"}, name.All(columns)...)
	header = append(header, "diff", "quot", "diff2", "quot2")

	cells := make([][]string, len(rows))
	for i, r := range rows {
		c := []string{name(r.Group), fmt.Sprint(r.Count)}
		for _, col := range columns {
			c = append(c, FormatScore(r.Means[col]))
		}
		c = append(c, FormatScore(r.Diff), FormatScore(r.Quot), FormatScore(r.Diff2), FormatScore(r.Quot2))
		cells[i] = c
	}
	numeric := make([]int, 0, len(header)-1)
	for n := 2; n <= len(header); n++ {
		numeric = append(numeric, n)
	}
	WriteTable(w, header, cells, numeric...)
}
