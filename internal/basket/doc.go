// Package basket implements the market-basket engine: transaction encoding,
// level-wise Apriori mining of frequent itemsets, association rule derivation
// and item recommendation queries.
//
// The four stages are pure functions over immutable artifacts:
//
//	m, err := basket.Encode(transactions)
//	f, err := basket.Mine(m, 0.01)
//	rs, err := basket.Derive(f, basket.MetricLift, 1.0)
//	recs, err := basket.Recommend(rs, "milk", basket.MetricLift, 10)
//
// Every artifact is built once and only exposes read accessors, so separate
// runs never share mutable state and a finished artifact may be read from
// several goroutines.
package basket
