package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/sumanth428/market-basket-analysis/internal/basket"
)

var metricColumns = []table.ColumnConfig{
	{Name: "Support", Align: text.AlignRight},
	{Name: "Confidence", Align: text.AlignRight},
	{Name: "Lift", Align: text.AlignRight},
	{Name: "Leverage", Align: text.AlignRight},
	{Name: "Conviction", Align: text.AlignRight},
}

// Table writes rules as a terminal table.
func Table(w io.Writer, title string, rules []basket.Rule) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle(title)
	t.SetColumnConfigs(append([]table.ColumnConfig{
		{Name: "If bought", WidthMax: 40},
		{Name: "Then likely", WidthMax: 40},
	}, metricColumns...))
	t.AppendHeader(table.Row{"#", "If bought", "Then likely", "Support", "Confidence", "Lift", "Leverage", "Conviction"})
	for i, r := range Rows(rules) {
		c := r.cells(", ")
		t.AppendRow(table.Row{i + 1, c[0], c[1], c[2], c[3], c[4], c[5], c[6]})
	}
	if len(rules) == 0 {
		t.AppendFooter(table.Row{"", "no rules"})
	}
	t.Render()
}

// ItemsetTable writes up to limit frequent itemsets with at least minSize items,
// most supported first. limit <= 0 shows all.
func ItemsetTable(w io.Writer, title string, f *basket.Frequent, minSize, limit int) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle(title)
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Count", Align: text.AlignRight},
		{Name: "Support", Align: text.AlignRight},
	})
	t.AppendHeader(table.Row{"#", "Itemset", "Size", "Count", "Support"})
	sets := f.TopBySupport(minSize, limit)
	for i, s := range sets {
		t.AppendRow(table.Row{i + 1, s.Items.Join(", "), len(s.Items), s.Count, num(s.Support)})
	}
	if len(sets) == 0 {
		t.AppendFooter(table.Row{"", "no itemsets"})
	}
	t.Render()
}

// Markdown renders rules as a Markdown table.
func Markdown(rules []basket.Rule) string {
	var b strings.Builder
	b.WriteString("| " + strings.Join(csvHeader, " | ") + " |\n")
	b.WriteString("|" + strings.Repeat(" --- |", len(csvHeader)) + "\n")
	for _, r := range Rows(rules) {
		cells := r.cells(", ")
		for i := range cells {
			cells[i] = strings.ReplaceAll(cells[i], "|", "/")
		}
		b.WriteString(fmt.Sprintf("| %s |\n", strings.Join(cells, " | ")))
	}
	return b.String()
}
