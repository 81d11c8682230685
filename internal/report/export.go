package report

import (
	"bytes"
	"encoding/csv"
	"io"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sumanth428/market-basket-analysis/internal/basket"
	"github.com/sumanth428/market-basket-analysis/internal/utils"
)

// WriteCSV writes one rule per record. Itemsets are joined with ", ".
func WriteCSV(w io.Writer, rules []basket.Rule) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return eris.Wrap(err, "report: write CSV header")
	}
	for _, r := range Rows(rules) {
		if err := cw.Write(r.cells(", ")); err != nil {
			return eris.Wrap(err, "report: write CSV row")
		}
	}
	cw.Flush()
	return eris.Wrap(cw.Error(), "report: flush CSV")
}

// WriteJSON writes rules as an indented JSON array.
func WriteJSON(w io.Writer, rules []basket.Rule) error {
	b, err := utils.PrettyJSON(Rows(rules))
	if err != nil {
		return eris.Wrap(err, "report: encode JSON")
	}
	if _, err := w.Write(append(b, '\n')); err != nil {
		return eris.Wrap(err, "report: write JSON")
	}
	return nil
}

// DecodeJSON reads rows written by WriteJSON.
func DecodeJSON(r io.Reader) ([]Row, error) {
	var rows []Row
	if err := json.NewDecoder(r).Decode(&rows); err != nil {
		return nil, eris.Wrap(err, "report: decode JSON")
	}
	return rows, nil
}

// WriteXLSX writes rules to a single "Rules" sheet.
func WriteXLSX(w io.Writer, rules []basket.Rule) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Rules")
	if err != nil {
		return eris.Wrap(err, "report: add sheet")
	}
	header := sheet.AddRow()
	for _, h := range csvHeader {
		header.AddCell().SetString(h)
	}
	for _, r := range Rows(rules) {
		row := sheet.AddRow()
		row.AddCell().SetString(basket.Itemset(r.Antecedents).Join(", "))
		row.AddCell().SetString(basket.Itemset(r.Consequents).Join(", "))
		for _, v := range []float64{r.Support, r.Confidence, r.Lift, r.Leverage} {
			row.AddCell().SetFloat(v)
		}
		if r.Conviction == nil {
			row.AddCell().SetString("inf")
		} else {
			row.AddCell().SetFloat(*r.Conviction)
		}
	}
	if err := f.Write(w); err != nil {
		return eris.Wrap(err, "report: write xlsx")
	}
	return nil
}

// Export writes rules to path in the format implied by its extension
// (.csv, .json, .xlsx, .md). The file is replaced atomically.
func Export(path string, rules []basket.Rule) error {
	var buf bytes.Buffer
	var err error
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		err = WriteCSV(&buf, rules)
	case ".json":
		err = WriteJSON(&buf, rules)
	case ".xlsx":
		err = WriteXLSX(&buf, rules)
	case ".md", ".markdown":
		buf.WriteString(Markdown(rules))
	default:
		return eris.Errorf("report: unsupported export format %q (use .csv, .json, .xlsx or .md)", ext)
	}
	if err != nil {
		return err
	}
	return utils.SafeWriteFile(path, buf.Bytes())
}
