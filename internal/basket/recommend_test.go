package basket

import (
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecommend_Groceries(t *testing.T) {
	f := mineFixture(t, groceries(), 0.5)
	rs, err := Derive(f, MetricLift, 1.0)
	require.NoError(t, err)

	recs, err := Recommend(rs, "milk", MetricLift, 5)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, Itemset{"bread"}, recs[0].Consequent)
	assert.InDelta(t, 1.0, recs[0].Confidence, 1e-12)
}

func TestRecommend_RankByIsNormalized(t *testing.T) {
	f := mineFixture(t, groceries(), 0.5)
	rs, err := Derive(f, MetricLift, 1.0)
	require.NoError(t, err)

	for _, name := range []string{"Lift", " LIFT "} {
		recs, err := Recommend(rs, "milk", Metric(name), 5)
		require.NoError(t, err, name)
		require.Len(t, recs, 1, name)
		assert.Equal(t, Itemset{"bread"}, recs[0].Consequent)
	}

	recs, err := Recommend(rs, "milk", Metric("zest"), 5)
	assert.Nil(t, recs)
	assert.True(t, eris.Is(err, ErrInvalidMetric))
}

func TestRecommend_Miss(t *testing.T) {
	f := mineFixture(t, groceries(), 0.5)
	rs, err := Derive(f, MetricLift, 1.0)
	require.NoError(t, err)

	for _, item := range []string{"beer", "caviar", ""} {
		recs, err := Recommend(rs, item, MetricLift, 5)
		require.NoError(t, err)
		assert.NotNil(t, recs)
		assert.Empty(t, recs, item)
	}

	recs, err := Recommend(nil, "milk", MetricLift, 5)
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestRecommend_RankingAndTies(t *testing.T) {
	rule := func(ante, cons string, conf, lift float64) Rule {
		return Rule{Antecedent: NewItemset(ante), Consequent: NewItemset(cons), Confidence: conf, Lift: lift}
	}
	rs := &RuleSet{metric: MetricLift, rules: []Rule{
		rule("a", "b", 0.2, 1.5),
		rule("a", "c", 0.6, 2.0),
		rule("x", "y", 0.9, 9.0),
		rule("a", "d", 0.4, 1.5),
		rule("a", "e", 0.4, 1.5),
		rule("a", "f", 0.1, 0.5),
	}}

	recs, err := Recommend(rs, "a", MetricLift, 10)
	require.NoError(t, err)
	var got []string
	for _, r := range recs {
		got = append(got, r.Consequent[0])
	}
	// lift desc, then confidence desc, then rule-set order (d before e)
	assert.Equal(t, []string{"c", "d", "e", "b", "f"}, got)

	recs, err = Recommend(rs, "a", MetricConfidence, 2)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, Itemset{"c"}, recs[0].Consequent)
	assert.Equal(t, Itemset{"d"}, recs[1].Consequent)
}

func TestRecommend_DefaultTopK(t *testing.T) {
	var rules []Rule
	for i := 0; i < DefaultTopK+5; i++ {
		rules = append(rules, Rule{Antecedent: NewItemset("a"), Consequent: NewItemset(string(rune('b' + i))), Lift: float64(i)})
	}
	rs := &RuleSet{metric: MetricLift, rules: rules}

	recs, err := Recommend(rs, "a", MetricLift, 0)
	require.NoError(t, err)
	assert.Len(t, recs, DefaultTopK)
	assert.Equal(t, float64(DefaultTopK+4), recs[0].Lift)
}

func TestRecommend_InvalidRankBy(t *testing.T) {
	_, err := Recommend(&RuleSet{}, "a", Metric("popularity"), 5)
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrInvalidMetric))
}

func TestRecommend_ResultsDoNotAlias(t *testing.T) {
	f := mineFixture(t, groceries(), 0.5)
	rs, err := Derive(f, MetricLift, 1.0)
	require.NoError(t, err)

	recs, err := Recommend(rs, "milk", MetricLift, 5)
	require.NoError(t, err)
	recs[0].Consequent[0] = "changed"
	assert.Equal(t, Itemset{"bread"}, rs.Rules()[1].Consequent)
}

func TestAntecedentItems(t *testing.T) {
	f := mineFixture(t, groceries(), 0.25)
	rs, err := Derive(f, MetricLift, 1.0)
	require.NoError(t, err)

	items := AntecedentItems(rs)
	assert.IsIncreasing(t, items)
	assert.Contains(t, items, "milk")
	assert.Contains(t, items, "butter")
	assert.Nil(t, AntecedentItems(nil))
}

func TestItemset(t *testing.T) {
	s := NewItemset("milk", "bread", "milk", " eggs")
	assert.Equal(t, Itemset{"bread", "eggs", "milk"}, s)
	assert.True(t, s.Contains("eggs"))
	assert.False(t, s.Contains("egg"))
	assert.Equal(t, "{bread, eggs, milk}", s.String())
	assert.Equal(t, "bread|eggs|milk", s.Join("|"))
	assert.Equal(t, NewItemset("eggs", "milk", "bread").Key(), s.Key())
}
