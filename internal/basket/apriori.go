package basket

import (
	"math"
	"sort"

	"github.com/rotisserie/eris"
)

// FrequentItemset is an itemset whose support meets the mining threshold.
type FrequentItemset struct {
	Items   Itemset
	Count   int
	Support float64

	ids []int
}

// Frequent is the collection of frequent itemsets produced by Mine.
// Entries are ordered by size, then lexicographically by column order.
type Frequent struct {
	columns    []string
	index      map[string]int
	n          int
	minSupport float64
	maxLen     int

	sets  []FrequentItemset
	byKey map[string]int
}

// MineOption customizes Mine.
type MineOption func(*mineConfig)

type mineConfig struct {
	maxLen int
}

// WithMaxLen limits mining to itemsets of at most k items. Zero means no limit.
func WithMaxLen(k int) MineOption {
	return func(c *mineConfig) {
		if k > 0 {
			c.maxLen = k
		}
	}
}

// ValidateSupport checks that minSupport lies in (0,1].
func ValidateSupport(minSupport float64) error {
	if math.IsNaN(minSupport) || minSupport <= 0 || minSupport > 1 {
		return eris.Wrapf(ErrInvalidSupport, "min_support %v must be in (0,1]", minSupport)
	}
	return nil
}

// Mine enumerates every itemset of m whose support is at least minSupport,
// level by level. Candidates of size k are joined from frequent (k-1)-itemsets
// sharing their first k-2 items and dropped when any (k-1)-subset is not
// frequent, so only closed-downward candidates are ever counted.
func Mine(m *Matrix, minSupport float64, opts ...MineOption) (*Frequent, error) {
	if err := ValidateSupport(minSupport); err != nil {
		return nil, err
	}
	if m == nil || m.NumTransactions() == 0 || m.NumItems() == 0 {
		return nil, eris.Wrap(ErrEmptyInput, "mine: empty matrix")
	}
	var cfg mineConfig
	for _, o := range opts {
		o(&cfg)
	}

	n := m.NumTransactions()
	f := &Frequent{
		columns:    m.columns,
		index:      m.index,
		n:          n,
		minSupport: minSupport,
		maxLen:     cfg.maxLen,
		byKey:      map[string]int{},
	}
	frequent := func(count int) bool {
		return float64(count)/float64(n) >= minSupport
	}

	// Level 1: single items.
	var level [][]int
	for c := range m.columns {
		cnt := m.tids[c].Size()
		if !frequent(cnt) {
			continue
		}
		ids := []int{c}
		f.add(m, ids, cnt)
		level = append(level, ids)
	}

	for k := 2; len(level) > 1; k++ {
		if cfg.maxLen > 0 && k > cfg.maxLen {
			break
		}
		var next [][]int
		for _, cand := range candidates(level, f.byKey) {
			cnt := m.count(cand)
			if !frequent(cnt) {
				continue
			}
			f.add(m, cand, cnt)
			next = append(next, cand)
		}
		level = next
	}
	return f, nil
}

// candidates joins (k-1)-itemsets that share their first k-2 ids and prunes
// every join with an infrequent (k-1)-subset. level must be sorted
// lexicographically; the output is too.
func candidates(level [][]int, known map[string]int) [][]int {
	var out [][]int
	for i := 0; i < len(level); i++ {
		a := level[i]
		p := len(a) - 1
		for j := i + 1; j < len(level); j++ {
			b := level[j]
			if !samePrefix(a, b, p) {
				// sorted input: no later itemset shares a's prefix
				break
			}
			cand := make([]int, len(a)+1)
			copy(cand, a)
			cand[len(a)] = b[p]
			if hasInfrequentSubset(cand, known) {
				continue
			}
			out = append(out, cand)
		}
	}
	return out
}

func samePrefix(a, b []int, p int) bool {
	for i := 0; i < p; i++ {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// hasInfrequentSubset checks the (k-1)-subsets not already known from the join:
// dropping either of the last two ids yields the joined parents.
func hasInfrequentSubset(cand []int, known map[string]int) bool {
	k := len(cand)
	if k <= 2 {
		return false
	}
	sub := make([]int, 0, k-1)
	for skip := 0; skip < k-2; skip++ {
		sub = sub[:0]
		sub = append(sub, cand[:skip]...)
		sub = append(sub, cand[skip+1:]...)
		if _, ok := known[idKey(sub)]; !ok {
			return true
		}
	}
	return false
}

func (f *Frequent) add(m *Matrix, ids []int, count int) {
	f.byKey[idKey(ids)] = len(f.sets)
	f.sets = append(f.sets, FrequentItemset{
		Items:   m.itemsOf(ids),
		Count:   count,
		Support: float64(count) / float64(f.n),
		ids:     ids,
	})
}

// Len returns the number of frequent itemsets.
func (f *Frequent) Len() int { return len(f.sets) }

// NumTransactions returns the size of the mined transaction set.
func (f *Frequent) NumTransactions() int { return f.n }

// MinSupport returns the threshold used for mining.
func (f *Frequent) MinSupport() float64 { return f.minSupport }

// MaxLen returns the size limit used for mining, 0 when unbounded.
func (f *Frequent) MaxLen() int { return f.maxLen }

// Itemsets returns a copy of every frequent itemset in collection order.
func (f *Frequent) Itemsets() []FrequentItemset {
	out := make([]FrequentItemset, len(f.sets))
	for i, s := range f.sets {
		out[i] = s.clone()
	}
	return out
}

// Level returns the frequent itemsets with exactly k items.
func (f *Frequent) Level(k int) []FrequentItemset {
	var out []FrequentItemset
	for _, s := range f.sets {
		if len(s.ids) == k {
			out = append(out, s.clone())
		}
	}
	return out
}

// Support returns the support of items if the itemset is frequent.
func (f *Frequent) Support(items Itemset) (float64, bool) {
	e, ok := f.lookupItems(items)
	if !ok {
		return 0, false
	}
	return e.Support, true
}

// TopBySupport returns up to limit itemsets with at least minSize items,
// highest support first; ties keep collection order.
func (f *Frequent) TopBySupport(minSize, limit int) []FrequentItemset {
	var out []FrequentItemset
	for _, s := range f.sets {
		if len(s.ids) >= minSize {
			out = append(out, s.clone())
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (f *Frequent) lookupItems(items Itemset) (FrequentItemset, bool) {
	if len(items) == 0 {
		return FrequentItemset{}, false
	}
	ids := make([]int, len(items))
	for i, it := range items {
		c, ok := f.index[it]
		if !ok {
			return FrequentItemset{}, false
		}
		ids[i] = c
	}
	sort.Ints(ids)
	return f.lookup(ids)
}

func (f *Frequent) lookup(ids []int) (FrequentItemset, bool) {
	i, ok := f.byKey[idKey(ids)]
	if !ok {
		return FrequentItemset{}, false
	}
	return f.sets[i], true
}

func (s FrequentItemset) clone() FrequentItemset {
	items := make(Itemset, len(s.Items))
	copy(items, s.Items)
	s.Items = items
	return s
}
