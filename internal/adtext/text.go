// Package adtext provides the text primitives shared by the ad-quality checks:
// normalization, character counting, truncation and field limits.
package adtext

import (
	"strings"
	"unicode"

	"github.com/rivo/uniseg"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Field character limits, counted in user-perceived characters.
const (
	HeadlineLimit             = 30
	DescriptionLimit          = 90
	SitelinkLimit             = 25
	CalloutLimit              = 35
	DisplayLongHeadlineLimit  = 90
	DisplayShortHeadlineLimit = 30
	DisplayDescriptionLimit   = 90
	DisplayCTALimit           = 15
)

// Length returns the number of grapheme clusters in s, so "café" and "🚀" count as
// the characters an advertiser sees.
func Length(s string) int {
	return uniseg.GraphemeClusterCount(s)
}

// IsBlank reports whether s has no visible content.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// NonBlank returns the trimmed non-blank entries of pool along with their original indices.
func NonBlank(pool []string) ([]string, []int) {
	values := make([]string, 0, len(pool))
	indices := make([]int, 0, len(pool))
	for i, s := range pool {
		if IsBlank(s) {
			continue
		}
		values = append(values, strings.TrimSpace(s))
		indices = append(indices, i)
	}
	return values, indices
}

// Truncate returns the first n grapheme clusters of s.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if Length(s) <= n {
		return s
	}
	var b strings.Builder
	g := uniseg.NewGraphemes(s)
	for count := 0; count < n && g.Next(); count++ {
		b.WriteString(g.Str())
	}
	return b.String()
}

// TruncateWords shortens s to at most n characters, cutting at the last word boundary
// that fits. If not even the first word fits, it falls back to a hard cut.
func TruncateWords(s string, n int) string {
	s = strings.TrimSpace(s)
	if Length(s) <= n {
		return s
	}
	if n <= 0 {
		return ""
	}

	var out string
	for _, word := range strings.Fields(s) {
		candidate := word
		if out != "" {
			candidate = out + " " + word
		}
		if Length(candidate) > n {
			break
		}
		out = candidate
	}
	if out == "" {
		return strings.TrimSpace(Truncate(s, n))
	}
	return out
}

// CollapseSpaces trims s and reduces every whitespace run to a single space.
func CollapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Fold lowercases s and strips diacritical marks.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, err := transform.String(t, s)
	if err != nil {
		result = s
	}
	return strings.ToLower(result)
}

// Normalize folds s, replaces punctuation with spaces and collapses whitespace.
// "Trade Forex, Today!" becomes "trade forex today".
func Normalize(s string) string {
	return normalizeKeeping(s, nil)
}

// Tokens returns the words of the normalized form of s.
func Tokens(s string) []string {
	return strings.Fields(Normalize(s))
}

// ContainsDigit reports whether s contains any decimal digit.
func ContainsDigit(s string) bool {
	return strings.IndexFunc(s, unicode.IsDigit) >= 0
}

func normalizeKeeping(s string, keep func(rune) bool) string {
	folded := Fold(s)
	mapped := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		if keep != nil && keep(r) {
			return r
		}
		return ' '
	}, folded)
	return CollapseSpaces(mapped)
}
