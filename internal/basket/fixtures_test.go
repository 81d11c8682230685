package basket

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

// groceries is the four-basket example used across the tests.
func groceries() []Transaction {
	return []Transaction{
		NewTransaction("milk", "bread"),
		NewTransaction("milk", "bread", "butter"),
		NewTransaction("beer", "diapers"),
		NewTransaction("milk", "bread", "beer"),
	}
}

// randomBaskets builds a reproducible transaction set over a small catalog.
func randomBaskets(seed int64, n int) []Transaction {
	catalog := []string{"apple", "bread", "cheese", "eggs", "flour", "grapes", "honey", "jam"}
	rng := rand.New(rand.NewSource(seed))
	out := make([]Transaction, 0, n)
	for i := 0; i < n; i++ {
		var items []string
		for j, it := range catalog {
			// skew towards the first items so deeper levels exist
			if rng.Float64() < 0.7-float64(j)*0.07 {
				items = append(items, it)
			}
		}
		if len(items) == 0 {
			items = append(items, catalog[rng.Intn(len(catalog))])
		}
		out = append(out, NewTransaction(items...))
	}
	return out
}

func mineFixture(t *testing.T, txs []Transaction, minSupport float64) *Frequent {
	t.Helper()
	m, err := Encode(txs)
	require.NoError(t, err)
	f, err := Mine(m, minSupport)
	require.NoError(t, err)
	return f
}

// bruteForceCount counts the transactions containing every item.
func bruteForceCount(txs []Transaction, items Itemset) int {
	n := 0
	for _, tx := range txs {
		all := true
		for _, it := range items {
			found := false
			for _, x := range tx {
				if x == it {
					found = true
					break
				}
			}
			if !found {
				all = false
				break
			}
		}
		if all {
			n++
		}
	}
	return n
}
