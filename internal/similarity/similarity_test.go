package similarity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{"identical", "Trade Forex Today", "Trade Forex Today", 1},
		{"identical after normalization", "Trade Forex, Today!", "  trade FOREX today ", 1},
		{"disjoint", "Get Free Demo", "Trade Forex Today", 0},
		{"edit distance wins", "Trade Forex Today", "Trade Forex Now", 13.0 / 17.0},
		{"jaccard wins", "Forex Trade Today Online", "Forex Trade Today", 0.75},
		{"both blank", "", "  ", 1},
		{"one blank", "", "Trade Forex", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Similarity(tt.a, tt.b), 1e-9)
		})
	}
}

func TestSimilarity_SymmetricAndBounded(t *testing.T) {
	headlines := []string{
		"Trade Forex Today", "Trade Forex Now", "Start Trading Now", "Start Trading Today",
		"Get Free Demo", "Open Account", "Café Crème Deals", "cafe creme deals!", "",
	}

	for _, a := range headlines {
		assert.Equal(t, 1.0, Similarity(a, a), "reflexive for %q", a)
		for _, b := range headlines {
			ab, ba := Similarity(a, b), Similarity(b, a)
			assert.Equal(t, ab, ba, "symmetric for %q / %q", a, b)
			assert.GreaterOrEqual(t, ab, 0.0)
			assert.LessOrEqual(t, ab, 1.0)
		}
	}
}

func TestFindSimilarPairs_Scenario(t *testing.T) {
	pairs := FindSimilarPairs([]string{"Trade Forex Today", "Trade Forex Now"}, 0.75)

	require.Len(t, pairs, 1)
	assert.Equal(t, 0, pairs[0].Index1)
	assert.Equal(t, 1, pairs[0].Index2)
	assert.Equal(t, "Trade Forex Today", pairs[0].Headline1)
	assert.Equal(t, "Trade Forex Now", pairs[0].Headline2)
	assert.GreaterOrEqual(t, pairs[0].Similarity, 0.75)
}

func TestFindSimilarPairs_Ordering(t *testing.T) {
	headlines := []string{"Trade Forex Today", "Get Free Demo", "Trade Forex Now", "trade forex today"}
	pairs := FindSimilarPairs(headlines, 0.75)

	require.Len(t, pairs, 3)
	assert.Equal(t, [2]int{0, 2}, [2]int{pairs[0].Index1, pairs[0].Index2})
	assert.Equal(t, [2]int{0, 3}, [2]int{pairs[1].Index1, pairs[1].Index2})
	assert.Equal(t, [2]int{2, 3}, [2]int{pairs[2].Index1, pairs[2].Index2})
	assert.Equal(t, 1.0, pairs[1].Similarity)

	for _, p := range pairs {
		assert.Less(t, p.Index1, p.Index2)
		assert.GreaterOrEqual(t, p.Similarity, 0.75)
	}
}

func TestFindSimilarPairs_DefaultThresholdAndBlanks(t *testing.T) {
	assert.Empty(t, FindSimilarPairs([]string{"Trade Forex Today", "Trade Forex Now"}, 0))

	pairs := FindSimilarPairs([]string{"Trade Forex Today", " ", "Trade Forex Today"}, 0)
	require.Len(t, pairs, 1)
	assert.Equal(t, 0, pairs[0].Index1)
	assert.Equal(t, 2, pairs[0].Index2)

	assert.NotNil(t, FindSimilarPairs(nil, 0.5))
	assert.Empty(t, FindSimilarPairs(nil, 0.5))
}
