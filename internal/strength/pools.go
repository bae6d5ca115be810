package strength

import (
	"fmt"
	"strings"

	"github.com/jonathan/ad-quality/internal/adtext"
	"github.com/jonathan/ad-quality/internal/similarity"
	"github.com/jonathan/ad-quality/internal/types"
)

// poolSpec describes how one asset pool earns its share of the score.
// Each component earns floor(points * count / capacity).
type poolSpec struct {
	plural   string
	limit    int
	capacity int
	wellUsed int

	quantity  int
	length    int
	diversity int
	bonus     int

	// bonusFn returns the bonus points earned by the valid entries and a suggestion
	// when the bonus is not fully earned.
	bonusFn func(valid []string, capacity, points int) (int, string)
}

type poolResult struct {
	points      int
	suggestions []string
}

func (s *Scorer) scorePool(spec poolSpec, pool []string) poolResult {
	valid := validEntries(pool, spec.limit, spec.capacity)
	n := len(valid)

	var res poolResult
	if n < spec.capacity {
		res.suggestions = append(res.suggestions,
			fmt.Sprintf("Add more %s (currently %d/%d)", spec.plural, n, spec.capacity))
	}
	if n == 0 {
		return res
	}

	wellUsed := 0
	for _, v := range valid {
		if adtext.Length(v) >= spec.wellUsed {
			wellUsed++
		}
	}
	diverse := s.countDiverse(valid)

	res.points = share(spec.quantity, n, spec.capacity) +
		share(spec.length, wellUsed, spec.capacity) +
		share(spec.diversity, diverse, spec.capacity)

	if wellUsed < n {
		res.suggestions = append(res.suggestions,
			fmt.Sprintf("Use more of the %d-character limit in your %s", spec.limit, spec.plural))
	}
	if diverse < n {
		res.suggestions = append(res.suggestions,
			fmt.Sprintf("%s are too similar, improve diversity", capitalize(spec.plural)))
	}
	if spec.bonusFn != nil {
		earned, suggestion := spec.bonusFn(valid, spec.capacity, spec.bonus)
		res.points += min(earned, spec.bonus)
		if suggestion != "" {
			res.suggestions = append(res.suggestions, suggestion)
		}
	}
	return res
}

// validEntries keeps non-blank entries within limit, drops duplicates after
// normalization, and caps the pool.
func validEntries(pool []string, limit, capacity int) []string {
	values, _ := adtext.NonBlank(pool)
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, min(len(values), capacity))
	for _, v := range values {
		if len(out) == capacity {
			break
		}
		key := adtext.Normalize(v)
		if key == "" || seen[key] || adtext.Length(v) > limit {
			continue
		}
		seen[key] = true
		out = append(out, v)
	}
	return out
}

// countDiverse counts entries that are not near-duplicates of an earlier diverse entry.
func (s *Scorer) countDiverse(valid []string) int {
	kept := make([]string, 0, len(valid))
	for _, v := range valid {
		distinct := true
		for _, k := range kept {
			if similarity.Similarity(v, k) >= s.threshold {
				distinct = false
				break
			}
		}
		if distinct {
			kept = append(kept, v)
		}
	}
	return len(kept)
}

func (s *Scorer) headlinePatternBonus(valid []string, _ int, points int) (int, string) {
	seen := make(map[types.PatternType]bool)
	for _, h := range valid {
		if t := s.detector.DetectType(h); t != types.PatternNone {
			seen[t] = true
		}
	}
	if len(seen) >= points {
		return points, ""
	}
	return len(seen), "Mix headline patterns: questions, numbers, urgency and benefits"
}

func (s *Scorer) descriptionCTABonus(valid []string, capacity, points int) (int, string) {
	withCTA := 0
	for _, d := range valid {
		if s.lex.HasCTA(d) {
			withCTA++
		}
	}
	earned := share(points, withCTA, capacity)
	if withCTA < len(valid) {
		return earned, "Add a call to action to more descriptions"
	}
	return earned, ""
}

func calloutNumberBonus(valid []string, _ int, points int) (int, string) {
	for _, c := range valid {
		if adtext.ContainsDigit(c) {
			return points, ""
		}
	}
	return 0, "Consider adding a callout with a number or stat"
}

func share(points, count, capacity int) int {
	if capacity <= 0 {
		return 0
	}
	count = min(count, capacity)
	return points * count / capacity
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
