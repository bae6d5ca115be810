// Package similarity measures how alike two headlines are, finds near-duplicate
// headline pairs, and rewrites a headline into a distinct alternative.
package similarity

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"github.com/jonathan/ad-quality/internal/adtext"
	"github.com/jonathan/ad-quality/internal/types"
)

// DefaultThreshold is the similarity at which two headlines count as near-duplicates.
const DefaultThreshold = 0.8

// Similarity scores two headlines in [0,1]. It is the larger of word-set Jaccard overlap
// and normalized edit-distance similarity over the normalized text. Headlines with no
// word in common score 0; headlines equal after normalization score 1.
func Similarity(a, b string) float64 {
	na, nb := adtext.Normalize(a), adtext.Normalize(b)
	if na == nb {
		return 1
	}

	j := jaccardTokens(toTokenSet(na), toTokenSet(nb))
	if j == 0 {
		return 0
	}
	return clamp01(math.Max(j, editSimilarity(na, nb)))
}

// FindSimilarPairs returns every pair (i, j), i < j, whose similarity is at least threshold,
// ordered by i then j. Blank headlines are skipped. A non-positive threshold selects
// DefaultThreshold.
func FindSimilarPairs(headlines []string, threshold float64) []types.SimilarPair {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}

	pairs := []types.SimilarPair{}
	for i := 0; i < len(headlines); i++ {
		if adtext.IsBlank(headlines[i]) {
			continue
		}
		for j := i + 1; j < len(headlines); j++ {
			if adtext.IsBlank(headlines[j]) {
				continue
			}
			sim := Similarity(headlines[i], headlines[j])
			if sim >= threshold {
				pairs = append(pairs, types.SimilarPair{
					Index1:     i,
					Index2:     j,
					Headline1:  headlines[i],
					Headline2:  headlines[j],
					Similarity: sim,
				})
			}
		}
	}
	return pairs
}

func toTokenSet(normalized string) map[string]struct{} {
	out := map[string]struct{}{}
	for _, tok := range strings.Fields(normalized) {
		out[tok] = struct{}{}
	}
	return out
}

func jaccardTokens(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1
	}
	inter := 0
	for k := range a {
		if _, ok := b[k]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

func editSimilarity(a, b string) float64 {
	longest := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	if longest == 0 {
		return 1
	}
	return 1 - float64(levenshtein.ComputeDistance(a, b))/float64(longest)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
