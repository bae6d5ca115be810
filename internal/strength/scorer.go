// Package strength computes a Google-Ads-style "Ad Strength" score for a responsive
// search ad from its headline, description, sitelink and callout pools.
package strength

import (
	"github.com/jonathan/ad-quality/internal/adtext"
	"github.com/jonathan/ad-quality/internal/lexicon"
	"github.com/jonathan/ad-quality/internal/patterns"
	"github.com/jonathan/ad-quality/internal/similarity"
	"github.com/jonathan/ad-quality/internal/types"
)

// Pool caps: entries beyond these earn nothing.
const (
	MaxHeadlines    = 15
	MaxDescriptions = 4
	MaxSitelinks    = 4
	MaxCallouts     = 4
)

// Band thresholds (inclusive lower bounds).
const (
	AverageThreshold   = 50
	GoodThreshold      = 70
	ExcellentThreshold = 90
)

// Scorer scores ads against a lexicon. It holds no mutable state and is safe for concurrent use.
type Scorer struct {
	lex       *lexicon.Lexicon
	detector  *patterns.Detector
	threshold float64
	pools     [4]poolSpec
}

// NewScorer creates a Scorer. A nil lexicon selects the embedded default.
func NewScorer(lex *lexicon.Lexicon) *Scorer {
	return NewScorerWithThreshold(lex, similarity.DefaultThreshold)
}

// NewScorerWithThreshold creates a Scorer whose diversity check treats entries at or above
// threshold as near-duplicates. A non-positive threshold selects the default.
func NewScorerWithThreshold(lex *lexicon.Lexicon, threshold float64) *Scorer {
	if lex == nil {
		lex = lexicon.Default()
	}
	if threshold <= 0 {
		threshold = similarity.DefaultThreshold
	}
	s := &Scorer{
		lex:       lex,
		detector:  patterns.NewDetector(lex),
		threshold: threshold,
	}
	s.pools = [4]poolSpec{
		{
			plural: "headlines", limit: adtext.HeadlineLimit, capacity: MaxHeadlines, wellUsed: 15,
			quantity: 20, length: 8, diversity: 8, bonus: 4,
			bonusFn: s.headlinePatternBonus,
		},
		{
			plural: "descriptions", limit: adtext.DescriptionLimit, capacity: MaxDescriptions, wellUsed: 45,
			quantity: 15, length: 6, diversity: 6, bonus: 3,
			bonusFn: s.descriptionCTABonus,
		},
		{
			plural: "sitelinks", limit: adtext.SitelinkLimit, capacity: MaxSitelinks, wellUsed: 10,
			quantity: 9, length: 3, diversity: 3,
		},
		{
			plural: "callouts", limit: adtext.CalloutLimit, capacity: MaxCallouts, wellUsed: 10,
			quantity: 8, length: 3, diversity: 2, bonus: 2,
			bonusFn: calloutNumberBonus,
		},
	}
	return s
}

// CalculateAdStrength scores an ad with the default lexicon.
func CalculateAdStrength(headlines, descriptions, sitelinks, callouts []string) types.AdStrengthResult {
	return NewScorer(nil).Calculate(headlines, descriptions, sitelinks, callouts)
}

// Calculate scores the four pools. It is total: nil or empty pools score zero for that pool.
func (s *Scorer) Calculate(headlines, descriptions, sitelinks, callouts []string) types.AdStrengthResult {
	inputs := [4][]string{headlines, descriptions, sitelinks, callouts}
	var points [4]int
	suggestions := []string{}

	for i, spec := range s.pools {
		res := s.scorePool(spec, inputs[i])
		points[i] = res.points
		suggestions = append(suggestions, res.suggestions...)
	}

	breakdown := types.Breakdown{
		Headlines:    points[0],
		Descriptions: points[1],
		Sitelinks:    points[2],
		Callouts:     points[3],
	}
	score := clampScore(breakdown.Total())

	return types.AdStrengthResult{
		Score:       score,
		Strength:    StrengthFor(score),
		Breakdown:   breakdown,
		Suggestions: suggestions,
	}
}

// StrengthFor maps a score to its band.
func StrengthFor(score int) types.Strength {
	switch {
	case score >= ExcellentThreshold:
		return types.StrengthExcellent
	case score >= GoodThreshold:
		return types.StrengthGood
	case score >= AverageThreshold:
		return types.StrengthAverage
	default:
		return types.StrengthPoor
	}
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
