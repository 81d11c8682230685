// Package report renders rules and itemsets for terminals and export files.
package report

import (
	"math"
	"strconv"

	"github.com/sumanth428/market-basket-analysis/internal/basket"
)

// Row is the flat form of a rule used by every output format.
type Row struct {
	Antecedents []string `json:"antecedents"`
	Consequents []string `json:"consequents"`
	Support     float64  `json:"support"`
	Confidence  float64  `json:"confidence"`
	Lift        float64  `json:"lift"`
	Leverage    float64  `json:"leverage"`
	// Conviction is nil when confidence is 1 and the value is unbounded.
	Conviction *float64 `json:"conviction"`
}

// Rows flattens rules in their given order.
func Rows(rules []basket.Rule) []Row {
	out := make([]Row, len(rules))
	for i, r := range rules {
		out[i] = Row{
			Antecedents: append([]string{}, r.Antecedent...),
			Consequents: append([]string{}, r.Consequent...),
			Support:     r.Support,
			Confidence:  r.Confidence,
			Lift:        r.Lift,
			Leverage:    r.Leverage,
		}
		if !math.IsInf(r.Conviction, 0) {
			c := r.Conviction
			out[i].Conviction = &c
		}
	}
	return out
}

var csvHeader = []string{"antecedents", "consequents", "support", "confidence", "lift", "leverage", "conviction"}

func (r Row) cells(sep string) []string {
	return []string{
		basket.Itemset(r.Antecedents).Join(sep),
		basket.Itemset(r.Consequents).Join(sep),
		num(r.Support),
		num(r.Confidence),
		num(r.Lift),
		num(r.Leverage),
		r.conviction(),
	}
}

func (r Row) conviction() string {
	if r.Conviction == nil {
		return "inf"
	}
	return num(*r.Conviction)
}

func num(f float64) string { return strconv.FormatFloat(f, 'f', 4, 64) }
