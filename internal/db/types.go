package db

import (
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/ad-quality/internal/types"
)

// Term kinds stored in entity_rule_terms.kind
const (
	TermProhibitedWord     = "prohibited_word"
	TermCompetitorName     = "competitor_name"
	TermRequiredDisclaimer = "required_disclaimer"
)

// EntityRulesRecord is a stored rule set for one entity
type EntityRulesRecord struct {
	ID        uuid.UUID         `json:"id"`
	Entity    string            `json:"entity"`
	Rules     types.EntityRules `json:"rules"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// Term is one row of entity_rule_terms
type Term struct {
	Kind     string
	Value    string
	Position int
}

// FlattenRules converts rules to term rows, numbering each kind from zero.
func FlattenRules(r *types.EntityRules) []Term {
	if r == nil {
		return nil
	}
	var terms []Term
	add := func(kind string, values []string) {
		for i, v := range values {
			terms = append(terms, Term{Kind: kind, Value: v, Position: i})
		}
	}
	n := r.Normalized()
	add(TermProhibitedWord, n.ProhibitedWords)
	add(TermCompetitorName, n.CompetitorNames)
	add(TermRequiredDisclaimer, n.RequiredDisclaimers)
	return terms
}

// GroupTerms rebuilds rules from term rows ordered by kind and position. Unknown kinds are ignored.
func GroupTerms(terms []Term) types.EntityRules {
	r := types.EntityRules{
		ProhibitedWords:     []string{},
		CompetitorNames:     []string{},
		RequiredDisclaimers: []string{},
	}
	for _, t := range terms {
		switch t.Kind {
		case TermProhibitedWord:
			r.ProhibitedWords = append(r.ProhibitedWords, t.Value)
		case TermCompetitorName:
			r.CompetitorNames = append(r.CompetitorNames, t.Value)
		case TermRequiredDisclaimer:
			r.RequiredDisclaimers = append(r.RequiredDisclaimers, t.Value)
		}
	}
	return r
}
