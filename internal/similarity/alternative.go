package similarity

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/jonathan/ad-quality/internal/adtext"
	"github.com/jonathan/ad-quality/internal/lexicon"
)

// emptyAlternative is offered when there is nothing to rewrite.
const emptyAlternative = "Discover More"

var clauseSeparators = []string{" - ", ": ", " | ", ", "}

// Generator rewrites headlines using a lexicon's synonym table.
type Generator struct {
	lex *lexicon.Lexicon
}

// NewGenerator creates a Generator. A nil lexicon selects the embedded default.
func NewGenerator(lex *lexicon.Lexicon) *Generator {
	if lex == nil {
		lex = lexicon.Default()
	}
	return &Generator{lex: lex}
}

// GenerateAlternative rewrites headline with the default lexicon.
func GenerateAlternative(headline string) string {
	return NewGenerator(nil).Alternative(headline)
}

// Alternative returns a rewrite of headline that differs from it after normalization and
// stays within the headline limit (or the input's own length when that is longer).
// Strategies, in order: synonym swap, clause swap, word rotation, a short affix.
func (g *Generator) Alternative(headline string) string {
	h := adtext.CollapseSpaces(headline)
	if h == "" {
		return emptyAlternative
	}
	limit := max(adtext.HeadlineLimit, adtext.Length(h))
	original := adtext.Normalize(h)

	accept := func(candidate string) bool {
		return adtext.Length(candidate) <= limit && adtext.Normalize(candidate) != original
	}

	if alt, ok := g.swapSynonym(h, accept); ok {
		return alt
	}
	if alt, ok := swapClauses(h, accept); ok {
		return alt
	}
	if alt, ok := rotateWords(h, accept); ok {
		return alt
	}

	short := adtext.TruncateWords(h, limit-4)
	for _, candidate := range []string{"Try " + h, h + " Now", "Try " + short, short + " Now"} {
		if accept(candidate) {
			return candidate
		}
	}
	// The two fallbacks differ from each other, so one always differs from the input.
	if accept(emptyAlternative) {
		return emptyAlternative
	}
	return "Explore More"
}

func (g *Generator) swapSynonym(h string, accept func(string) bool) (string, bool) {
	words := strings.Fields(h)
	for i, word := range words {
		lead, core, trail := splitAffixes(word)
		if core == "" {
			continue
		}
		for _, syn := range g.lex.Synonyms(core) {
			replaced := make([]string, len(words))
			copy(replaced, words)
			replaced[i] = lead + matchCase(core, syn) + trail
			candidate := strings.Join(replaced, " ")
			if accept(candidate) {
				return candidate, true
			}
		}
	}
	return "", false
}

func swapClauses(h string, accept func(string) bool) (string, bool) {
	for _, sep := range clauseSeparators {
		idx := strings.Index(h, sep)
		if idx <= 0 || idx+len(sep) >= len(h) {
			continue
		}
		left := strings.TrimSpace(h[:idx])
		right := strings.TrimSpace(h[idx+len(sep):])
		candidate := capitalizeFirst(right) + sep + left
		if accept(candidate) {
			return candidate, true
		}
	}
	return "", false
}

// rotateWords moves the last real word to the front. Trailing tokens without letters or
// digits (emoji, symbols) stay where they are.
func rotateWords(h string, accept func(string) bool) (string, bool) {
	words := strings.Fields(h)
	for i := len(words) - 1; i > 0; i-- {
		if _, core, _ := splitAffixes(words[i]); core == "" {
			continue
		}
		rest := make([]string, 0, len(words))
		rest = append(rest, capitalizeFirst(strings.TrimRightFunc(words[i], unicode.IsPunct)))
		rest = append(rest, words[:i]...)
		rest = append(rest, words[i+1:]...)
		candidate := strings.Join(rest, " ")
		return candidate, accept(candidate)
	}
	return "", false
}

// splitAffixes separates leading and trailing punctuation from a word.
func splitAffixes(word string) (lead, core, trail string) {
	isWordRune := func(r rune) bool { return unicode.IsLetter(r) || unicode.IsDigit(r) }
	start := strings.IndexFunc(word, isWordRune)
	if start < 0 {
		return word, "", ""
	}
	end := strings.LastIndexFunc(word, isWordRune)
	_, size := utf8.DecodeRuneInString(word[end:])
	return word[:start], word[start : end+size], word[end+size:]
}

// matchCase shapes replacement like original: all caps, leading capital, or as written.
func matchCase(original, replacement string) string {
	if utf8.RuneCountInString(original) > 1 && strings.ToUpper(original) == original && strings.ToLower(original) != original {
		return strings.ToUpper(replacement)
	}
	first, _ := utf8.DecodeRuneInString(original)
	if unicode.IsUpper(first) {
		return capitalizeFirst(replacement)
	}
	return replacement
}

func capitalizeFirst(s string) string {
	first, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToUpper(first)) + s[size:]
}
