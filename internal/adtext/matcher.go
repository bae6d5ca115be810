package adtext

import (
	"sort"
	"strings"

	"github.com/cloudflare/ahocorasick"
)

// MatchMode selects how a PhraseMatcher compares terms against text.
type MatchMode int

const (
	// WordBoundary matches whole words and phrases of the normalized text.
	// '#' and '%' survive normalization so claims such as "#1" and "100%" are matchable.
	WordBoundary MatchMode = iota
	// Substring matches anywhere in the case-folded text.
	Substring
)

// PhraseMatcher finds which of a fixed list of terms occur in a text in a single pass.
// It is safe for concurrent use.
type PhraseMatcher struct {
	mode    MatchMode
	terms   []string
	keys    []string
	owners  []int
	matcher *ahocorasick.Matcher
}

// NewPhraseMatcher compiles terms. Terms that normalize to nothing are ignored.
func NewPhraseMatcher(terms []string, mode MatchMode) *PhraseMatcher {
	m := &PhraseMatcher{mode: mode, terms: terms}
	seen := make(map[string]bool, len(terms))
	for i, term := range terms {
		key := m.prepare(term)
		if strings.TrimSpace(key) == "" || seen[key] {
			continue
		}
		seen[key] = true
		m.keys = append(m.keys, key)
		m.owners = append(m.owners, i)
	}
	if len(m.keys) > 0 {
		m.matcher = ahocorasick.NewStringMatcher(m.keys)
	}
	return m
}

// Match returns the original terms found in text, in term-list order, without duplicates.
func (m *PhraseMatcher) Match(text string) []string {
	if m == nil || m.matcher == nil || IsBlank(text) {
		return nil
	}

	hits := m.matcher.MatchThreadSafe([]byte(m.prepare(text)))
	if len(hits) == 0 {
		return nil
	}

	owners := make([]int, 0, len(hits))
	seen := make(map[int]bool, len(hits))
	for _, hit := range hits {
		if hit < 0 || hit >= len(m.owners) || seen[hit] {
			continue
		}
		seen[hit] = true
		owners = append(owners, m.owners[hit])
	}
	sort.Ints(owners)

	found := make([]string, 0, len(owners))
	for _, idx := range owners {
		found = append(found, m.terms[idx])
	}
	return found
}

// Contains reports whether any term occurs in text.
func (m *PhraseMatcher) Contains(text string) bool {
	return len(m.Match(text)) > 0
}

// Strip returns the prepared form of text with every occurrence of every term replaced by
// a space. In WordBoundary mode the result is normalized text.
func (m *PhraseMatcher) Strip(text string) string {
	prepared := m.prepare(text)
	if m.matcher == nil {
		return strings.TrimSpace(prepared)
	}
	sep := ""
	if m.mode == WordBoundary {
		sep = " "
	}
	for _, key := range m.keys {
		// Adjacent repeats share a boundary space, so one pass can miss the second.
		for strings.Contains(prepared, key) {
			prepared = strings.ReplaceAll(prepared, key, sep)
		}
	}
	return CollapseSpaces(prepared)
}

// Len returns the number of distinct compiled terms.
func (m *PhraseMatcher) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

func (m *PhraseMatcher) prepare(s string) string {
	if m.mode == Substring {
		return strings.TrimSpace(Fold(s))
	}
	return " " + normalizeKeeping(s, keepClaimRunes) + " "
}

func keepClaimRunes(r rune) bool {
	return r == '#' || r == '%'
}
