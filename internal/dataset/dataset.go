package dataset

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/sumanth428/market-basket-analysis/internal/basket"
)

// Options controls how a tabular file becomes a transaction set.
type Options struct {
	// MaxRows limits data rows processed; 0 means unlimited.
	MaxRows int
	// SampleRows determines how many raw rows the summary previews.
	SampleRows int
	// Delimiter for CSV. If 0, sniffed from the first line.
	Delimiter rune
	// Header treats the first row as column names rather than data.
	Header bool
	// ItemColumn switches to event-log mode: each row is one purchase event
	// and this column holds the item.
	ItemColumn string
	// GroupBy names the columns whose values identify a transaction in
	// event-log mode, e.g. member and date.
	GroupBy []string
	// MissingValues are cell spellings treated as missing, besides blanks.
	MissingValues []string
	// XLSX sheet selection; SheetIndex is 1-based and used when SheetName is empty.
	SheetName  string
	SheetIndex int
}

// DefaultMissingValues mirrors the NA spellings common CSV tooling treats as missing.
var DefaultMissingValues = []string{
	"#N/A", "#N/A N/A", "#NA", "-1.#IND", "-1.#QNAN", "-NaN", "-nan", "1.#IND", "1.#QNAN",
	"<NA>", "N/A", "NA", "NULL", "NaN", "None", "n/a", "nan", "null",
}

// DefaultOptions returns reasonable defaults for basket files.
func DefaultOptions() Options {
	return Options{
		SampleRows:    5,
		Header:        true,
		SheetIndex:    1,
		MissingValues: append([]string(nil), DefaultMissingValues...),
	}
}

// Mode tells how rows were turned into transactions.
type Mode string

const (
	ModeRows   Mode = "rows"
	ModeEvents Mode = "events"
)

// Dataset is a loaded transaction set plus a little provenance for display.
type Dataset struct {
	Name      string
	Mode      Mode
	Header    []string
	Rows      int
	Processed int
	Samples   [][]string
	Warnings  []string

	Transactions []basket.Transaction
	// EmptyTransactions counts transactions with no items; they still count
	// towards support denominators.
	EmptyTransactions int
	ItemCounts        []ItemCount

	groupBy    []string
	itemColumn string
}

// ItemCount is the number of transactions containing an item.
type ItemCount struct {
	Item  string
	Count int
}

// Load reads path with the registered reader for its extension and builds
// the transaction set.
func Load(path string, opt Options) (*Dataset, error) {
	r, err := readerFor(path)
	if err != nil {
		return nil, err
	}
	rows, err := r.ReadRows(path, opt)
	if err != nil {
		return nil, eris.Wrapf(err, "load %s", filepath.Base(path))
	}
	ds, err := Build(filepath.Base(path), rows, opt)
	if err != nil {
		return nil, err
	}
	zap.L().Debug("dataset loaded",
		zap.String("file", ds.Name),
		zap.String("mode", string(ds.Mode)),
		zap.Int("rows", ds.Rows),
		zap.Int("transactions", len(ds.Transactions)),
		zap.Int("items", len(ds.ItemCounts)),
	)
	return ds, nil
}

// Build turns a raw cell grid into a Dataset.
func Build(name string, rows [][]string, opt Options) (*Dataset, error) {
	ds := &Dataset{Name: name, Mode: ModeRows}
	if opt.Header && len(rows) > 0 {
		ds.Header = trimAll(rows[0])
		rows = rows[1:]
	}
	ds.Rows = len(rows)
	if opt.MaxRows > 0 && len(rows) > opt.MaxRows {
		rows = rows[:opt.MaxRows]
	}
	ds.Processed = len(rows)

	sampleRows := opt.SampleRows
	if sampleRows < 0 {
		sampleRows = 0
	}
	for i := 0; i < len(rows) && i < sampleRows; i++ {
		ds.Samples = append(ds.Samples, append([]string(nil), rows[i]...))
	}

	missing := make(map[string]struct{}, len(opt.MissingValues))
	for _, v := range opt.MissingValues {
		missing[v] = struct{}{}
	}
	isMissing := func(v string) bool {
		if v == "" {
			return true
		}
		_, ok := missing[v]
		return ok
	}

	if opt.ItemColumn != "" {
		if err := ds.buildEvents(rows, opt, isMissing); err != nil {
			return nil, err
		}
	} else {
		for _, row := range rows {
			cells := make([]string, 0, len(row))
			for _, c := range row {
				c = strings.TrimSpace(c)
				if isMissing(c) {
					continue
				}
				cells = append(cells, c)
			}
			ds.Transactions = append(ds.Transactions, basket.NewTransaction(cells...))
		}
	}
	ds.tally()
	return ds, nil
}

func (ds *Dataset) buildEvents(rows [][]string, opt Options, isMissing func(string) bool) error {
	if len(ds.Header) == 0 {
		return eris.New("event-log mode needs a header row to resolve column names")
	}
	if len(opt.GroupBy) == 0 {
		return eris.New("event-log mode needs at least one group-by column")
	}
	itemIdx, err := ds.column(opt.ItemColumn)
	if err != nil {
		return err
	}
	groupIdx := make([]int, 0, len(opt.GroupBy))
	for _, g := range opt.GroupBy {
		idx, err := ds.column(g)
		if err != nil {
			return err
		}
		if idx == itemIdx {
			return eris.Errorf("column %q cannot be both the item and a group-by column", g)
		}
		groupIdx = append(groupIdx, idx)
	}
	ds.Mode = ModeEvents
	ds.itemColumn = ds.Header[itemIdx]
	for _, idx := range groupIdx {
		ds.groupBy = append(ds.groupBy, ds.Header[idx])
	}

	order := map[string]int{}
	var groups [][]string
	blankKeys := 0
	for _, row := range rows {
		parts := make([]string, len(groupIdx))
		blank := true
		for i, idx := range groupIdx {
			v := cell(row, idx)
			if !isMissing(v) {
				blank = false
			}
			parts[i] = v
		}
		if blank {
			blankKeys++
		}
		key := strings.Join(parts, "\x1f")
		gi, ok := order[key]
		if !ok {
			gi = len(groups)
			order[key] = gi
			groups = append(groups, nil)
		}
		if item := cell(row, itemIdx); !isMissing(item) {
			groups[gi] = append(groups[gi], item)
		}
	}
	if blankKeys > 0 {
		ds.Warnings = append(ds.Warnings, fmt.Sprintf("%d event rows have no group-by values and were grouped together", blankKeys))
	}
	for _, items := range groups {
		ds.Transactions = append(ds.Transactions, basket.NewTransaction(items...))
	}
	return nil
}

// column resolves a header name case-insensitively.
func (ds *Dataset) column(name string) (int, error) {
	want := strings.ToLower(strings.TrimSpace(name))
	for i, h := range ds.Header {
		if strings.ToLower(h) == want {
			return i, nil
		}
	}
	return -1, eris.Errorf("column %q not found (available: %s)", name, strings.Join(ds.Header, ", "))
}

func (ds *Dataset) tally() {
	counts := map[string]int{}
	for _, tx := range ds.Transactions {
		if len(tx) == 0 {
			ds.EmptyTransactions++
		}
		for _, it := range tx {
			counts[it]++
		}
	}
	items := maps.Keys(counts)
	slices.Sort(items)
	ds.ItemCounts = make([]ItemCount, len(items))
	for i, it := range items {
		ds.ItemCounts[i] = ItemCount{Item: it, Count: counts[it]}
	}
	sort.SliceStable(ds.ItemCounts, func(i, j int) bool { return ds.ItemCounts[i].Count > ds.ItemCounts[j].Count })
	if ds.EmptyTransactions > 0 {
		ds.Warnings = append(ds.Warnings, fmt.Sprintf("%d transactions have no items after dropping missing cells", ds.EmptyTransactions))
	}
}

// Items returns the distinct items in ascending order.
func (ds *Dataset) Items() []string {
	out := make([]string, len(ds.ItemCounts))
	for i, ic := range ds.ItemCounts {
		out[i] = ic.Item
	}
	slices.Sort(out)
	return out
}

// MeanBasketSize returns the average number of items per transaction.
func (ds *Dataset) MeanBasketSize() float64 {
	if len(ds.Transactions) == 0 {
		return 0
	}
	total := 0
	for _, tx := range ds.Transactions {
		total += len(tx)
	}
	return float64(total) / float64(len(ds.Transactions))
}

// MaxBasketSize returns the size of the largest transaction.
func (ds *Dataset) MaxBasketSize() int {
	n := 0
	for _, tx := range ds.Transactions {
		if len(tx) > n {
			n = len(tx)
		}
	}
	return n
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func trimAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.TrimSpace(s)
	}
	return out
}
