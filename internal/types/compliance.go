// Package types provides type definitions for structured data used throughout the ad-quality system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// Severity of a compliance issue. Errors block publishing, warnings never do.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Rule codes attached to compliance issues
const (
	RuleCharLimit          = "char_limit"
	RuleRequiredField      = "required_field"
	RuleProhibitedWord     = "prohibited_word"
	RuleCompetitorName     = "competitor_name"
	RuleSuperlative        = "superlative"
	RuleMissingCTA         = "missing_cta"
	RuleRequiredDisclaimer = "required_disclaimer"
)

// ComplianceIssue is a single policy finding for one field of an ad
type ComplianceIssue struct {
	Field    string   `json:"field"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
	Rule     string   `json:"rule"`
}

// EntityRules are brand or legal overrides resolved by the caller for one entity.
type EntityRules struct {
	ProhibitedWords     []string `json:"prohibited_words" validate:"dive,required"`
	CompetitorNames     []string `json:"competitor_names" validate:"dive,required"`
	RequiredDisclaimers []string `json:"required_disclaimers,omitempty" validate:"dive,required"`
}

// Validate validates the EntityRules using the validator.
func (r *EntityRules) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// IsEmpty reports whether the rules add nothing beyond the baseline checks.
func (r *EntityRules) IsEmpty() bool {
	return r == nil || (len(r.ProhibitedWords) == 0 && len(r.CompetitorNames) == 0 && len(r.RequiredDisclaimers) == 0)
}

// Normalized returns a copy with terms trimmed, blanks dropped and case-insensitive duplicates removed.
func (r *EntityRules) Normalized() *EntityRules {
	if r == nil {
		return nil
	}
	return &EntityRules{
		ProhibitedWords:     dedupeTerms(r.ProhibitedWords),
		CompetitorNames:     dedupeTerms(r.CompetitorNames),
		RequiredDisclaimers: dedupeTerms(r.RequiredDisclaimers),
	}
}

func dedupeTerms(terms []string) []string {
	seen := make(map[string]bool, len(terms))
	out := make([]string, 0, len(terms))
	for _, term := range terms {
		term = strings.TrimSpace(term)
		key := strings.ToLower(term)
		if term == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, term)
	}
	return out
}
