package basket

import (
	"math"

	"github.com/rotisserie/eris"
)

// Rule is an association rule Antecedent -> Consequent derived from one
// frequent itemset.
type Rule struct {
	Antecedent Itemset
	Consequent Itemset

	AntecedentSupport float64
	ConsequentSupport float64
	// Support of Antecedent ∪ Consequent.
	Support    float64
	Confidence float64
	Lift       float64
	Leverage   float64
	// Conviction is +Inf when Confidence is 1.
	Conviction float64
}

// Value returns the rule attribute named by m.
func (r Rule) Value(m Metric) float64 {
	switch m {
	case MetricSupport:
		return r.Support
	case MetricConfidence:
		return r.Confidence
	case MetricLift:
		return r.Lift
	case MetricLeverage:
		return r.Leverage
	case MetricConviction:
		return r.Conviction
	}
	return math.NaN()
}

func (r Rule) clone() Rule {
	r.Antecedent = append(Itemset(nil), r.Antecedent...)
	r.Consequent = append(Itemset(nil), r.Consequent...)
	return r
}

// RuleSet is the ordered output of Derive.
type RuleSet struct {
	rules     []Rule
	metric    Metric
	threshold float64
}

// Len returns the number of rules.
func (rs *RuleSet) Len() int {
	if rs == nil {
		return 0
	}
	return len(rs.rules)
}

// Rules returns a copy of the rules in derivation order.
func (rs *RuleSet) Rules() []Rule {
	if rs == nil {
		return nil
	}
	out := make([]Rule, len(rs.rules))
	for i, r := range rs.rules {
		out[i] = r.clone()
	}
	return out
}

// Metric returns the metric the set was filtered on.
func (rs *RuleSet) Metric() Metric { return rs.metric }

// Threshold returns the minimum metric value of the set.
func (rs *RuleSet) Threshold() float64 { return rs.threshold }

// Derive enumerates every antecedent -> consequent split of each frequent
// itemset with two or more items and keeps the rules whose metric value is
// at least minThreshold. Rules come out in itemset order, and within one
// itemset by antecedent size and then column order.
func Derive(f *Frequent, metric Metric, minThreshold float64) (*RuleSet, error) {
	if err := ValidateThreshold(metric, minThreshold); err != nil {
		return nil, err
	}
	rs := &RuleSet{metric: metric, threshold: minThreshold}
	if f == nil {
		return rs, nil
	}
	n := f.n
	for _, fs := range f.sets {
		k := len(fs.ids)
		if k < 2 {
			continue
		}
		for r := 1; r < k; r++ {
			var err error
			forEachCombination(k, r, func(pos []int) bool {
				ante, cons := split(fs.ids, pos)
				a, ok := f.lookup(ante)
				if !ok {
					err = eris.Wrapf(ErrInternalConsistency, "antecedent %s of frequent itemset %s is not frequent",
						f.names(ante), fs.Items)
					return false
				}
				c, ok := f.lookup(cons)
				if !ok {
					err = eris.Wrapf(ErrInternalConsistency, "consequent %s of frequent itemset %s is not frequent",
						f.names(cons), fs.Items)
					return false
				}
				rule := buildRule(n, fs, a, c)
				if rule.Value(metric) >= minThreshold {
					rs.rules = append(rs.rules, rule)
				}
				return true
			})
			if err != nil {
				return nil, err
			}
		}
	}
	return rs, nil
}

func buildRule(n int, union, a, c FrequentItemset) Rule {
	conf := float64(union.Count) / float64(a.Count)
	// count(I)*n / (count(A)*count(C)) equals confidence/support(C) and is
	// symmetric in A and C.
	lift := float64(int64(union.Count)*int64(n)) / float64(int64(a.Count)*int64(c.Count))
	conviction := math.Inf(1)
	if union.Count != a.Count {
		conviction = (1 - c.Support) / (1 - conf)
	}
	return Rule{
		Antecedent:        append(Itemset(nil), a.Items...),
		Consequent:        append(Itemset(nil), c.Items...),
		AntecedentSupport: a.Support,
		ConsequentSupport: c.Support,
		Support:           union.Support,
		Confidence:        conf,
		Lift:              lift,
		Leverage:          union.Support - a.Support*c.Support,
		Conviction:        conviction,
	}
}

// split partitions ids into the positions in pos and the rest.
func split(ids, pos []int) (in, out []int) {
	in = make([]int, 0, len(pos))
	out = make([]int, 0, len(ids)-len(pos))
	j := 0
	for i, id := range ids {
		if j < len(pos) && pos[j] == i {
			in = append(in, id)
			j++
			continue
		}
		out = append(out, id)
	}
	return in, out
}

// forEachCombination calls fn with every r-subset of {0..n-1} in
// lexicographic order until fn returns false.
func forEachCombination(n, r int, fn func(pos []int) bool) {
	if r <= 0 || r > n {
		return
	}
	pos := make([]int, r)
	for i := range pos {
		pos[i] = i
	}
	for {
		if !fn(pos) {
			return
		}
		i := r - 1
		for i >= 0 && pos[i] == n-r+i {
			i--
		}
		if i < 0 {
			return
		}
		pos[i]++
		for j := i + 1; j < r; j++ {
			pos[j] = pos[j-1] + 1
		}
	}
}

// names maps column ids back to items without requiring the set to be frequent.
func (f *Frequent) names(ids []int) Itemset {
	out := make(Itemset, 0, len(ids))
	for _, id := range ids {
		if id >= 0 && id < len(f.columns) {
			out = append(out, f.columns[id])
		}
	}
	return out
}
