package basket

import (
	"sort"

	"github.com/rotisserie/eris"
	"github.com/yourbasic/bit"
)

// Matrix is the encoded item-presence matrix of a transaction set.
// Rows are transactions, columns are the distinct items in ascending
// string order.
type Matrix struct {
	columns []string
	index   map[string]int
	rows    [][]bool
	// tids holds, per column, the set of row ids containing that item.
	tids []*bit.Set
}

// Encode converts transactions into a boolean presence matrix.
func Encode(transactions []Transaction) (*Matrix, error) {
	if len(transactions) == 0 {
		return nil, eris.Wrap(ErrEmptyInput, "encode: no transactions")
	}
	distinct := map[string]struct{}{}
	for _, t := range transactions {
		for _, it := range t {
			if it == "" {
				continue
			}
			distinct[it] = struct{}{}
		}
	}
	if len(distinct) == 0 {
		return nil, eris.Wrapf(ErrEmptyInput, "encode: %d transactions contain no items", len(transactions))
	}
	columns := make([]string, 0, len(distinct))
	for it := range distinct {
		columns = append(columns, it)
	}
	sort.Strings(columns)

	m := &Matrix{
		columns: columns,
		index:   make(map[string]int, len(columns)),
		rows:    make([][]bool, len(transactions)),
		tids:    make([]*bit.Set, len(columns)),
	}
	for c, it := range columns {
		m.index[it] = c
		m.tids[c] = bit.New()
	}
	for t, tx := range transactions {
		row := make([]bool, len(columns))
		for _, it := range tx {
			c, ok := m.index[it]
			if !ok {
				continue
			}
			row[c] = true
			m.tids[c].Add(t)
		}
		m.rows[t] = row
	}
	return m, nil
}

// Columns returns a copy of the column items in order.
func (m *Matrix) Columns() []string {
	out := make([]string, len(m.columns))
	copy(out, m.columns)
	return out
}

// NumTransactions returns the number of rows.
func (m *Matrix) NumTransactions() int { return len(m.rows) }

// NumItems returns the number of columns.
func (m *Matrix) NumItems() int { return len(m.columns) }

// Column returns the column index of item.
func (m *Matrix) Column(item string) (int, bool) {
	c, ok := m.index[item]
	return c, ok
}

// Has reports whether transaction t contains the item of column c.
func (m *Matrix) Has(t, c int) bool {
	if t < 0 || t >= len(m.rows) || c < 0 || c >= len(m.columns) {
		return false
	}
	return m.rows[t][c]
}

// Row returns a copy of the presence flags of transaction t, or nil when t
// is out of range.
func (m *Matrix) Row(t int) []bool {
	if t < 0 || t >= len(m.rows) {
		return nil
	}
	out := make([]bool, len(m.columns))
	copy(out, m.rows[t])
	return out
}

// ItemCount returns how many transactions contain item.
func (m *Matrix) ItemCount(item string) int {
	c, ok := m.index[item]
	if !ok {
		return 0
	}
	return m.tids[c].Size()
}

// count returns the number of transactions containing every column in ids.
func (m *Matrix) count(ids []int) int {
	switch len(ids) {
	case 0:
		return len(m.rows)
	case 1:
		return m.tids[ids[0]].Size()
	}
	acc := new(bit.Set).SetAnd(m.tids[ids[0]], m.tids[ids[1]])
	for _, id := range ids[2:] {
		if acc.Empty() {
			return 0
		}
		acc.SetAnd(acc, m.tids[id])
	}
	return acc.Size()
}

// itemsOf maps column indices to their canonical itemset.
func (m *Matrix) itemsOf(ids []int) Itemset {
	out := make(Itemset, len(ids))
	for i, id := range ids {
		out[i] = m.columns[id]
	}
	return out
}
