// Package lexicon provides the editable word tables that drive pattern detection,
// compliance claims, call-to-action detection and headline rewriting.
// A default table set is embedded at compile time and can be replaced from a JSON file.
package lexicon

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/jonathan/ad-quality/internal/adtext"
	"github.com/jonathan/ad-quality/internal/schemas"
)

//go:embed default.json
var defaultData []byte

var (
	defaultOnce sync.Once
	defaultLex  *Lexicon
)

// LoadError represents a lexicon file that could not be read or parsed
type LoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *LoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("lexicon %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("lexicon %s: %s", e.Path, e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}

// Tables is the serialized form of a lexicon.
type Tables struct {
	QuestionWords       []string            `json:"question_words"`
	UrgencyTerms        []string            `json:"urgency_terms"`
	BenefitTerms        []string            `json:"benefit_terms"`
	Superlatives        []string            `json:"superlatives"`
	SubstantiationTerms []string            `json:"substantiation_terms"`
	CTAVerbs            []string            `json:"cta_verbs"`
	Synonyms            map[string][]string `json:"synonyms"`
}

// Lexicon is a compiled, read-only set of tables. It is safe for concurrent use.
type Lexicon struct {
	tables         Tables
	questionWords  map[string]bool
	urgency        *adtext.PhraseMatcher
	benefit        *adtext.PhraseMatcher
	superlatives   *adtext.PhraseMatcher
	substantiation *adtext.PhraseMatcher
	cta            *adtext.PhraseMatcher
	synonyms       map[string][]string
}

// Default returns the embedded lexicon. It panics if the embedded tables are invalid,
// which can only happen through a broken build.
func Default() *Lexicon {
	defaultOnce.Do(func() {
		lex, err := Parse("(embedded)", defaultData)
		if err != nil {
			panic(fmt.Sprintf("failed to load embedded lexicon: %v", err))
		}
		defaultLex = lex
	})
	return defaultLex
}

// LoadFile reads, validates and compiles a lexicon file.
func LoadFile(path string) (*Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Message: "failed to read file", Cause: err}
	}
	return Parse(path, data)
}

// Parse validates data against the lexicon schema and compiles it. source names the
// data in errors.
func Parse(source string, data []byte) (*Lexicon, error) {
	if err := schemas.Validate(schemas.Lexicon, data); err != nil {
		return nil, &LoadError{Path: source, Message: "schema validation failed", Cause: err}
	}

	var tables Tables
	if err := json.Unmarshal(data, &tables); err != nil {
		return nil, &LoadError{Path: source, Message: "failed to parse JSON", Cause: err}
	}
	return New(tables), nil
}

// New compiles tables into a Lexicon.
func New(tables Tables) *Lexicon {
	lex := &Lexicon{
		tables:         tables,
		questionWords:  make(map[string]bool, len(tables.QuestionWords)),
		urgency:        adtext.NewPhraseMatcher(tables.UrgencyTerms, adtext.WordBoundary),
		benefit:        adtext.NewPhraseMatcher(tables.BenefitTerms, adtext.WordBoundary),
		superlatives:   adtext.NewPhraseMatcher(tables.Superlatives, adtext.WordBoundary),
		substantiation: adtext.NewPhraseMatcher(tables.SubstantiationTerms, adtext.WordBoundary),
		cta:            adtext.NewPhraseMatcher(tables.CTAVerbs, adtext.WordBoundary),
		synonyms:       make(map[string][]string, len(tables.Synonyms)),
	}
	for _, w := range tables.QuestionWords {
		if n := adtext.Normalize(w); n != "" {
			lex.questionWords[n] = true
		}
	}
	for word, alts := range tables.Synonyms {
		key := adtext.Normalize(word)
		if key == "" {
			continue
		}
		for _, alt := range alts {
			alt = strings.TrimSpace(alt)
			if alt != "" && !strings.EqualFold(alt, word) {
				lex.synonyms[key] = append(lex.synonyms[key], alt)
			}
		}
	}
	return lex
}

// Tables returns a copy of the source tables.
func (l *Lexicon) Tables() Tables {
	out := Tables{
		QuestionWords:       append([]string(nil), l.tables.QuestionWords...),
		UrgencyTerms:        append([]string(nil), l.tables.UrgencyTerms...),
		BenefitTerms:        append([]string(nil), l.tables.BenefitTerms...),
		Superlatives:        append([]string(nil), l.tables.Superlatives...),
		SubstantiationTerms: append([]string(nil), l.tables.SubstantiationTerms...),
		CTAVerbs:            append([]string(nil), l.tables.CTAVerbs...),
		Synonyms:            make(map[string][]string, len(l.tables.Synonyms)),
	}
	for k, v := range l.tables.Synonyms {
		out.Synonyms[k] = append([]string(nil), v...)
	}
	return out
}

// IsQuestionWord reports whether word opens a question.
func (l *Lexicon) IsQuestionWord(word string) bool {
	return l.questionWords[adtext.Normalize(word)]
}

// UrgencyTerms returns the urgency terms found in text.
func (l *Lexicon) UrgencyTerms(text string) []string {
	return l.urgency.Match(text)
}

// BenefitTerms returns the benefit verbs found in text.
func (l *Lexicon) BenefitTerms(text string) []string {
	return l.benefit.Match(text)
}

// Superlatives returns the absolute claims found in text.
func (l *Lexicon) Superlatives(text string) []string {
	return l.superlatives.Match(text)
}

// IsSubstantiated reports whether text carries supporting language for a claim.
// A footnote asterisk counts. The claims themselves are removed first, so a superlative
// never supports itself ("top rated" is not evidence of a rating).
func (l *Lexicon) IsSubstantiated(text string) bool {
	if strings.Contains(text, "*") {
		return true
	}
	return l.substantiation.Contains(l.superlatives.Strip(text))
}

// HasCTA reports whether text contains a call-to-action verb.
func (l *Lexicon) HasCTA(text string) bool {
	return l.cta.Contains(text)
}

// Synonyms returns replacement words for word, in table order.
func (l *Lexicon) Synonyms(word string) []string {
	return l.synonyms[adtext.Normalize(word)]
}

// SynonymKeys returns the words that have synonyms, sorted.
func (l *Lexicon) SynonymKeys() []string {
	keys := make([]string, 0, len(l.synonyms))
	for k := range l.synonyms {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
