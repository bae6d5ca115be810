package patterns

import (
	"testing"

	"github.com/jonathan/ad-quality/internal/lexicon"
	"github.com/jonathan/ad-quality/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name     string
		headline string
		want     types.PatternType
	}{
		{"question mark", "Ready To Trade?", types.PatternQuestion},
		{"question word", "How Pros Trade Forex", types.PatternQuestion},
		{"question beats urgency", "Why Wait? Start Now", types.PatternQuestion},
		{"number led", "50% Off All Plans", types.PatternNumber},
		{"currency number", "$0 Commission Trades", types.PatternNumber},
		{"number beats urgency", "3 Days Left, Hurry", types.PatternNumber},
		{"urgency", "Trade Forex Today", types.PatternUrgency},
		{"urgency phrase", "Last Chance For 2x Points", types.PatternUrgency},
		{"urgency beats benefit", "Get Started Now", types.PatternUrgency},
		{"benefit", "Get Free Demo", types.PatternBenefit},
		{"benefit earn", "Earn Interest Daily", types.PatternBenefit},
		{"none", "Licensed Forex Broker", types.PatternNone},
		{"word boundary", "Know Your Broker", types.PatternNone},
		{"number inside", "Top 10 Brokers", types.PatternNone},
		{"blank", "   ", types.PatternNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Detect(tt.headline).Type)
		})
	}
}

func TestDetect_Boosts(t *testing.T) {
	assert.Equal(t, 10, Detect("How It Works").Boost)
	assert.Equal(t, 15, Detect("24/7 Support").Boost)
	assert.Equal(t, 20, Detect("Hurry, Ends Soon").Boost)
	assert.Equal(t, 10, Detect("Save On Fees").Boost)
	assert.Equal(t, 0, Detect("Regulated Broker").Boost)

	p := Detect("Hurry, Ends Soon")
	assert.Equal(t, "⏰", p.Indicator)
	assert.NotEmpty(t, p.Description)
	assert.Empty(t, Detect("Regulated Broker").Indicator)
}

func TestDetector_CustomLexicon(t *testing.T) {
	tables := lexicon.Default().Tables()
	tables.UrgencyTerms = []string{"tonight"}
	d := NewDetector(lexicon.New(tables))

	assert.Equal(t, types.PatternUrgency, d.DetectType("Sale Ends Tonight"))
	assert.Equal(t, types.PatternNone, d.DetectType("Sale Ends Soon"))
}

func TestDescribe_UnknownIsNone(t *testing.T) {
	assert.Equal(t, types.PatternNone, Describe("shouty").Type)
}

func TestPositionRecommendation(t *testing.T) {
	tests := []struct {
		name        string
		pattern     types.PatternType
		index       int
		wantNil     bool
		wantOptimal bool
		wantMessage string
	}{
		{"urgency first", types.PatternUrgency, 0, false, true, "Urgency headline works well in position 1"},
		{"urgency third", types.PatternUrgency, 2, false, true, "Urgency headline works well in position 3"},
		{"urgency tenth", types.PatternUrgency, 10, false, false, "Urgency headlines perform best in positions 1-3"},
		{"question second", types.PatternQuestion, 1, false, true, "Question headline works well in position 2"},
		{"question third", types.PatternQuestion, 2, false, false, "Question headlines perform best in positions 1-2"},
		{"number", types.PatternNumber, 3, false, false, "Number-led headlines perform best in positions 1-3"},
		{"benefit fifth", types.PatternBenefit, 4, false, true, "Benefit-led headline works well in position 5"},
		{"none", types.PatternNone, 0, true, false, ""},
		{"negative index", types.PatternUrgency, -1, true, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PositionRecommendation(tt.pattern, tt.index)
			if tt.wantNil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.wantOptimal, got.IsOptimal)
			assert.Equal(t, tt.wantMessage, got.Message)
		})
	}
}

func TestDetectAll(t *testing.T) {
	d := NewDetector(nil)
	headlines := []string{"Licensed Forex Broker", "Ready To Trade?", "Ready To Trade?"}

	plain := d.DetectAll(headlines, false)
	require.Len(t, plain, 3)
	assert.Equal(t, 1, plain[1].Index)
	assert.Equal(t, types.PatternQuestion, plain[1].Pattern.Type)
	for _, res := range plain {
		assert.Nil(t, res.Recommendation)
	}

	indexed := d.DetectAll(headlines, true)
	assert.Nil(t, indexed[0].Recommendation, "no advice for the none pattern")
	require.NotNil(t, indexed[1].Recommendation)
	assert.True(t, indexed[1].Recommendation.IsOptimal)
	require.NotNil(t, indexed[2].Recommendation)
	assert.False(t, indexed[2].Recommendation.IsOptimal)

	assert.Empty(t, d.DetectAll(nil, true))
}
