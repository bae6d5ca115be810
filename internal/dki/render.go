// Package dki renders Dynamic Keyword Insertion templates such as "Buy {Kw} Online"
// under an ad-text length limit, falling back to default text or truncation on overflow.
package dki

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/jonathan/ad-quality/internal/adtext"
	"github.com/jonathan/ad-quality/internal/types"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultMaxLength matches the search-ad headline limit.
const DefaultMaxLength = adtext.HeadlineLimit

// Fallback reasons
const (
	ReasonUsedDefault      = "keyword too long, used default"
	ReasonTruncated        = "keyword truncated to fit length limit"
	ReasonDefaultTruncated = "default text truncated to fit length limit"
	ReasonEmptyUsedDefault = "keyword empty, used default"
	ReasonEmptyKeyword     = "keyword empty"
	ReasonTemplateTooLong  = "template exceeds length limit"
)

var (
	placeholderPattern = regexp.MustCompile(`\{(KW|kw|Kw)\}`)
	defaultPattern     = regexp.MustCompile(`\{DEFAULT:([^}]*)\}`)
)

// template is a parsed DKI template.
type template struct {
	body        string
	variant     string
	defaultText string
	hasDefault  bool
}

func parse(raw string) (template, bool) {
	t := template{body: raw}
	if loc := defaultPattern.FindStringSubmatchIndex(raw); loc != nil {
		t.hasDefault = true
		t.defaultText = adtext.CollapseSpaces(raw[loc[2]:loc[3]])
		t.body = splice(raw[:loc[0]], raw[loc[1]:])
	}

	m := placeholderPattern.FindStringSubmatch(t.body)
	if m == nil {
		return t, false
	}
	t.variant = m[1]
	return t, true
}

// fill substitutes text for every placeholder. The template's own whitespace is kept; an
// empty text closes the gap it leaves.
func (t template) fill(text string) string {
	if text != "" {
		return placeholderPattern.ReplaceAllLiteralString(t.body, text)
	}
	parts := placeholderPattern.Split(t.body, -1)
	out := parts[0]
	for _, part := range parts[1:] {
		out = splice(out, part)
	}
	return out
}

// splice joins the text either side of a removed segment, leaving at most one space where
// the segment was, or none when it sat at the start or end.
func splice(left, right string) string {
	l := strings.TrimRight(left, " \t")
	r := strings.TrimLeft(right, " \t")
	switch {
	case l == "" || r == "":
		return l + r
	case l != left || r != right:
		return l + " " + r
	default:
		return l + r
	}
}

func (t template) casing(keyword string) string {
	// Casers carry state, so each call gets its own.
	switch t.variant {
	case "KW":
		return cases.Upper(language.Und).String(keyword)
	case "kw":
		return cases.Lower(language.Und).String(keyword)
	default:
		return capitalizeFirst(cases.Lower(language.Und).String(keyword))
	}
}

// Render substitutes keyword into tmpl. The first placeholder variant found left to right
// decides the casing for every placeholder. A maxLength of zero or less selects
// DefaultMaxLength. The rendered text never exceeds maxLength characters.
func Render(tmpl, keyword string, maxLength int) types.DKIRenderResult {
	if maxLength <= 0 {
		maxLength = DefaultMaxLength
	}
	result := types.DKIRenderResult{Keyword: keyword}

	t, ok := parse(tmpl)
	if !ok {
		if adtext.Length(tmpl) <= maxLength {
			result.Rendered = tmpl
			return result
		}
		return fallback(result, adtext.TruncateWords(tmpl, maxLength), ReasonTemplateTooLong)
	}

	kw := adtext.CollapseSpaces(keyword)
	if kw == "" {
		if t.hasDefault {
			return withDefault(result, t, maxLength, ReasonEmptyUsedDefault)
		}
		return fallback(result, adtext.TruncateWords(t.fill(""), maxLength), ReasonEmptyKeyword)
	}

	cased := t.casing(kw)
	if rendered := t.fill(cased); adtext.Length(rendered) <= maxLength {
		result.Rendered = rendered
		return result
	}

	if t.hasDefault {
		return withDefault(result, t, maxLength, ReasonUsedDefault)
	}
	return fallback(result, truncateKeyword(t, cased, maxLength), ReasonTruncated)
}

// RenderBatch renders tmpl once per keyword, preserving order.
func RenderBatch(tmpl string, keywords []string, maxLength int) []types.DKIRenderResult {
	results := make([]types.DKIRenderResult, 0, len(keywords))
	for _, kw := range keywords {
		results = append(results, Render(tmpl, kw, maxLength))
	}
	return results
}

func withDefault(result types.DKIRenderResult, t template, maxLength int, reason string) types.DKIRenderResult {
	rendered := t.fill(t.defaultText)
	if adtext.Length(rendered) <= maxLength {
		return fallback(result, rendered, reason)
	}
	return fallback(result, adtext.TruncateWords(rendered, maxLength), ReasonDefaultTruncated)
}

// truncateKeyword keeps as many whole keyword words as fit, then as many characters of
// the first word, and finally truncates the keyword-free template itself.
func truncateKeyword(t template, cased string, maxLength int) string {
	words := strings.Fields(cased)
	for n := len(words) - 1; n > 0; n-- {
		if r := t.fill(strings.Join(words[:n], " ")); adtext.Length(r) <= maxLength {
			return r
		}
	}
	for k := adtext.Length(words[0]) - 1; k > 0; k-- {
		if r := t.fill(adtext.Truncate(words[0], k)); adtext.Length(r) <= maxLength {
			return r
		}
	}
	return adtext.TruncateWords(t.fill(""), maxLength)
}

func fallback(result types.DKIRenderResult, rendered, reason string) types.DKIRenderResult {
	result.Rendered = rendered
	result.UsedFallback = true
	result.FallbackReason = reason
	return result
}

func capitalizeFirst(s string) string {
	first, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToUpper(first)) + s[size:]
}
