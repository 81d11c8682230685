package basket

import (
	"sort"

	mapset "github.com/deckarep/golang-set"
)

// DefaultTopK is the number of recommendations returned when topK <= 0.
const DefaultTopK = 10

// Recommend returns the rules whose antecedent contains item, ranked by
// rankBy (descending), then by confidence (descending), then by rule-set
// order, truncated to topK. No match is not an error.
func Recommend(rs *RuleSet, item string, rankBy Metric, topK int) ([]Rule, error) {
	rankBy, err := ParseMetric(string(rankBy))
	if err != nil {
		return nil, err
	}
	if topK <= 0 {
		topK = DefaultTopK
	}
	out := []Rule{}
	if rs == nil {
		return out, nil
	}
	for _, r := range rs.rules {
		if r.Antecedent.Contains(item) {
			out = append(out, r.clone())
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		vi, vj := out[i].Value(rankBy), out[j].Value(rankBy)
		if vi != vj {
			return vi > vj
		}
		return out[i].Confidence > out[j].Confidence
	})
	if len(out) > topK {
		out = out[:topK]
	}
	return out, nil
}

// AntecedentItems returns the sorted distinct items that appear in at least
// one antecedent, i.e. the items Recommend can answer for.
func AntecedentItems(rs *RuleSet) []string {
	if rs == nil {
		return nil
	}
	set := mapset.NewSet()
	for _, r := range rs.rules {
		for _, it := range r.Antecedent {
			set.Add(it)
		}
	}
	out := make([]string, 0, set.Cardinality())
	for _, v := range set.ToSlice() {
		out = append(out, v.(string))
	}
	sort.Strings(out)
	return out
}
