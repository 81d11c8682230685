package dataset

import (
	"fmt"
	"strings"
)

// Markdown renders a compact summary of the loaded transactions.
func (ds *Dataset) Markdown(topItems int) string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	if ds.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", ds.Name))
	}
	if ds.Processed < ds.Rows {
		b.WriteString(fmt.Sprintf("Rows: ~%d (processed %d)\n", ds.Rows, ds.Processed))
	} else {
		b.WriteString(fmt.Sprintf("Rows: %d\n", ds.Rows))
	}
	switch ds.Mode {
	case ModeEvents:
		b.WriteString(fmt.Sprintf("Mode: event log (item %s, grouped by %s)\n", ds.itemColumn, strings.Join(ds.groupBy, ", ")))
	default:
		b.WriteString("Mode: one transaction per row\n")
	}
	b.WriteString(fmt.Sprintf("Transactions: %d", len(ds.Transactions)))
	if ds.EmptyTransactions > 0 {
		b.WriteString(fmt.Sprintf(" (%d empty)", ds.EmptyTransactions))
	}
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Distinct items: %d\n", len(ds.ItemCounts)))
	b.WriteString(fmt.Sprintf("Basket size: mean %.2f, max %d\n", ds.MeanBasketSize(), ds.MaxBasketSize()))

	if topItems > 0 && len(ds.ItemCounts) > 0 {
		b.WriteString("\n[TOP ITEMS]\n")
		n := len(ds.Transactions)
		for i, ic := range ds.ItemCounts {
			if i >= topItems {
				break
			}
			b.WriteString(fmt.Sprintf("- %s: %d (%.1f%%)\n", safeVal(ic.Item), ic.Count, float64(ic.Count)*100/float64(n)))
		}
	}

	if len(ds.Samples) > 0 {
		b.WriteString("\n[HEAD AND SAMPLE ROWS]\n")
		width := len(ds.Header)
		for _, row := range ds.Samples {
			if len(row) > width {
				width = len(row)
			}
		}
		b.WriteString("|")
		for i := 0; i < width; i++ {
			name := fmt.Sprintf("col%d", i+1)
			if i < len(ds.Header) && ds.Header[i] != "" {
				name = ds.Header[i]
			}
			b.WriteString(" " + safeVal(name) + " |")
		}
		b.WriteString("\n|")
		for i := 0; i < width; i++ {
			b.WriteString(" --- |")
		}
		b.WriteString("\n")
		for _, row := range ds.Samples {
			b.WriteString("|")
			for i := 0; i < width; i++ {
				val := ""
				if i < len(row) {
					val = row[i]
				}
				if r := []rune(val); len(r) > 80 {
					val = string(r[:77]) + "..."
				}
				b.WriteString(" " + safeVal(val) + " |")
			}
			b.WriteString("\n")
		}
	}

	if len(ds.Warnings) > 0 {
		b.WriteString("\n[NOTES]\n")
		for _, w := range ds.Warnings {
			b.WriteString("- " + w + "\n")
		}
	}
	return b.String()
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }

// Summary renders the preview with the ten most frequent items.
func (ds *Dataset) Summary() string { return ds.Markdown(10) }
