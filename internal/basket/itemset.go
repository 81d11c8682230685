package basket

import (
	"sort"
	"strconv"
	"strings"
)

// Transaction is the set of items bought together. Order carries no meaning.
type Transaction []string

// NewTransaction trims the given cells, drops blanks and collapses duplicates.
// The first-seen order is kept for display purposes.
func NewTransaction(items ...string) Transaction {
	seen := make(map[string]struct{}, len(items))
	out := make(Transaction, 0, len(items))
	for _, it := range items {
		it = strings.TrimSpace(it)
		if it == "" {
			continue
		}
		if _, ok := seen[it]; ok {
			continue
		}
		seen[it] = struct{}{}
		out = append(out, it)
	}
	return out
}

// Itemset is a canonical set of items, sorted in column order.
// Column order is ascending string order, so any sorted slice of distinct
// items is canonical.
type Itemset []string

// NewItemset builds a canonical itemset from arbitrary items.
func NewItemset(items ...string) Itemset {
	t := NewTransaction(items...)
	s := make(Itemset, len(t))
	copy(s, t)
	sort.Strings(s)
	return s
}

// Contains reports whether item is a member of the set.
func (s Itemset) Contains(item string) bool {
	i := sort.SearchStrings(s, item)
	return i < len(s) && s[i] == item
}

// Key returns an order-independent map key for the set.
func (s Itemset) Key() string {
	return strings.Join(s, "\x1f")
}

// String renders the set as {a, b}.
func (s Itemset) String() string {
	return "{" + strings.Join(s, ", ") + "}"
}

// Join renders the items separated by sep.
func (s Itemset) Join(sep string) string {
	return strings.Join(s, sep)
}

// idKey is the internal key of a set of column indices.
func idKey(ids []int) string {
	var b strings.Builder
	for i, id := range ids {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(id))
	}
	return b.String()
}
