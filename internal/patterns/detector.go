// Package patterns classifies headlines into rhetorical patterns and judges
// whether a pattern sits at a good position in the headline pool.
package patterns

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/jonathan/ad-quality/internal/adtext"
	"github.com/jonathan/ad-quality/internal/lexicon"
	"github.com/jonathan/ad-quality/internal/types"
)

// Pattern boosts, in percent.
const (
	QuestionBoost = 10
	NumberBoost   = 15
	UrgencyBoost  = 20
	BenefitBoost  = 10
)

// numberLed matches a headline that opens with a digit, optionally after a currency sign.
var numberLed = regexp.MustCompile(`^[$€£]?\d`)

var catalogue = map[types.PatternType]types.HeadlinePattern{
	types.PatternQuestion: {Type: types.PatternQuestion, Indicator: "❓", Boost: QuestionBoost, Description: "Question headline, engages curiosity"},
	types.PatternNumber:   {Type: types.PatternNumber, Indicator: "🔢", Boost: NumberBoost, Description: "Number-led headline, specific and scannable"},
	types.PatternUrgency:  {Type: types.PatternUrgency, Indicator: "⏰", Boost: UrgencyBoost, Description: "Urgency headline, prompts immediate action"},
	types.PatternBenefit:  {Type: types.PatternBenefit, Indicator: "✨", Boost: BenefitBoost, Description: "Benefit-led headline, highlights value"},
	types.PatternNone:     {Type: types.PatternNone, Indicator: "", Boost: 0, Description: "No recognized pattern"},
}

// Detector classifies headlines using a lexicon.
type Detector struct {
	lex *lexicon.Lexicon
}

// NewDetector creates a Detector. A nil lexicon selects the embedded default.
func NewDetector(lex *lexicon.Lexicon) *Detector {
	if lex == nil {
		lex = lexicon.Default()
	}
	return &Detector{lex: lex}
}

// Detect returns the first matching pattern in precedence order:
// question, number, urgency, benefit, none.
func (d *Detector) Detect(headline string) types.HeadlinePattern {
	return Describe(d.DetectType(headline))
}

// DetectType returns only the pattern type of headline.
func (d *Detector) DetectType(headline string) types.PatternType {
	h := strings.TrimSpace(headline)
	switch {
	case h == "":
		return types.PatternNone
	case d.isQuestion(h):
		return types.PatternQuestion
	case numberLed.MatchString(h):
		return types.PatternNumber
	case len(d.lex.UrgencyTerms(h)) > 0:
		return types.PatternUrgency
	case len(d.lex.BenefitTerms(h)) > 0:
		return types.PatternBenefit
	default:
		return types.PatternNone
	}
}

func (d *Detector) isQuestion(h string) bool {
	if strings.HasSuffix(h, "?") {
		return true
	}
	tokens := adtext.Tokens(h)
	return len(tokens) > 0 && d.lex.IsQuestionWord(tokens[0])
}

// Detect classifies headline with the default lexicon.
func Detect(headline string) types.HeadlinePattern {
	return defaultDetector().Detect(headline)
}

// Describe returns the catalogue entry for a pattern type. Unknown types describe as none.
func Describe(t types.PatternType) types.HeadlinePattern {
	if p, ok := catalogue[t]; ok {
		return p
	}
	return catalogue[types.PatternNone]
}

func defaultDetector() *Detector {
	return NewDetector(lexicon.Default())
}

// placement is the last 0-based headline index at which a pattern is considered optimal.
var placement = map[types.PatternType]struct {
	label   string
	lastIdx int
}{
	types.PatternQuestion: {"Question", 1},
	types.PatternNumber:   {"Number-led", 2},
	types.PatternUrgency:  {"Urgency", 2},
	types.PatternBenefit:  {"Benefit-led", 4},
}

// PositionRecommendation judges a pattern at a 0-based headline index.
// It returns nil for the none pattern, unknown patterns and negative indices.
func PositionRecommendation(patternType types.PatternType, index int) *types.PositionRecommendation {
	p, ok := placement[patternType]
	if !ok || index < 0 {
		return nil
	}
	if index <= p.lastIdx {
		return &types.PositionRecommendation{
			IsOptimal: true,
			Message:   fmt.Sprintf("%s headline works well in position %d", p.label, index+1),
		}
	}
	return &types.PositionRecommendation{
		IsOptimal: false,
		Message:   fmt.Sprintf("%s headlines perform best in positions 1-%d", p.label, p.lastIdx+1),
	}
}

// DetectAll classifies each headline in order. withIndex adds position advice for
// patterns that have a preferred slot.
func (d *Detector) DetectAll(headlines []string, withIndex bool) []types.PatternResult {
	results := make([]types.PatternResult, 0, len(headlines))
	for i, h := range headlines {
		res := types.PatternResult{Index: i, Headline: h, Pattern: d.Detect(h)}
		if withIndex {
			res.Recommendation = PositionRecommendation(res.Pattern.Type, i)
		}
		results = append(results, res)
	}
	return results
}
