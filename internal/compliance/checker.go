// Package compliance scans ad copy for policy problems: character-limit overflows,
// missing required assets, unsubstantiated claims, missing calls to action, and
// entity-specific prohibited words, competitor mentions and disclaimers.
package compliance

import (
	"fmt"
	"strings"

	"github.com/jonathan/ad-quality/internal/adtext"
	"github.com/jonathan/ad-quality/internal/lexicon"
	"github.com/jonathan/ad-quality/internal/types"
)

// Checker runs the baseline rule set plus optional entity rules.
// It holds no mutable state and is safe for concurrent use.
type Checker struct {
	lex *lexicon.Lexicon
}

// NewChecker creates a Checker. A nil lexicon selects the embedded default.
func NewChecker(lex *lexicon.Lexicon) *Checker {
	if lex == nil {
		lex = lexicon.Default()
	}
	return &Checker{lex: lex}
}

// CheckCompliance checks a search ad with the default lexicon.
func CheckCompliance(headlines, descriptions, sitelinks, callouts []string, entity string, rules *types.EntityRules) []types.ComplianceIssue {
	return NewChecker(nil).Check(headlines, descriptions, sitelinks, callouts, entity, rules)
}

// CheckDisplayAdCompliance checks a display ad with the default lexicon.
func CheckDisplayAdCompliance(longHeadline string, shortHeadlines, descriptions []string, ctaText, entity string, rules *types.EntityRules) []types.ComplianceIssue {
	return NewChecker(nil).CheckDisplay(longHeadline, shortHeadlines, descriptions, ctaText, entity, rules)
}

// field is one piece of ad text with its location and limit.
type field struct {
	name  string
	label string
	text  string
	limit int
}

// Check returns issues for a search ad in scan order: missing required pools, then each
// field of headlines, descriptions, sitelinks and callouts, then ad-level checks.
func (c *Checker) Check(headlines, descriptions, sitelinks, callouts []string, entity string, rules *types.EntityRules) []types.ComplianceIssue {
	issues := []types.ComplianceIssue{}

	if countNonBlank(headlines) == 0 {
		issues = append(issues, requiredIssue("headlines", "At least one headline is required"))
	}
	if countNonBlank(descriptions) == 0 {
		issues = append(issues, requiredIssue("descriptions", "At least one description is required"))
	}

	fields := poolFields("headlines", "Headline", headlines, adtext.HeadlineLimit)
	fields = append(fields, poolFields("descriptions", "Description", descriptions, adtext.DescriptionLimit)...)
	fields = append(fields, poolFields("sitelinks", "Sitelink", sitelinks, adtext.SitelinkLimit)...)
	fields = append(fields, poolFields("callouts", "Callout", callouts, adtext.CalloutLimit)...)

	return c.finish(issues, fields, descriptions, entity, rules, true)
}

// CheckDisplay applies the same rules to a display ad. The CTA lives in its own field,
// so only its presence is required.
func (c *Checker) CheckDisplay(longHeadline string, shortHeadlines, descriptions []string, ctaText, entity string, rules *types.EntityRules) []types.ComplianceIssue {
	issues := []types.ComplianceIssue{}

	if adtext.IsBlank(longHeadline) {
		issues = append(issues, requiredIssue("long_headline", "A long headline is required"))
	}
	if countNonBlank(shortHeadlines) == 0 {
		issues = append(issues, requiredIssue("short_headlines", "At least one short headline is required"))
	}
	if countNonBlank(descriptions) == 0 {
		issues = append(issues, requiredIssue("descriptions", "At least one description is required"))
	}

	var fields []field
	if !adtext.IsBlank(longHeadline) {
		fields = append(fields, field{name: "long_headline", label: "Long headline", text: longHeadline, limit: adtext.DisplayLongHeadlineLimit})
	}
	fields = append(fields, poolFields("short_headlines", "Short headline", shortHeadlines, adtext.DisplayShortHeadlineLimit)...)
	fields = append(fields, poolFields("descriptions", "Description", descriptions, adtext.DisplayDescriptionLimit)...)
	if !adtext.IsBlank(ctaText) {
		fields = append(fields, field{name: "cta", label: "Call to action", text: ctaText, limit: adtext.DisplayCTALimit})
	}

	issues = c.finish(issues, fields, descriptions, entity, rules, false)
	if adtext.IsBlank(ctaText) {
		issues = append(issues, types.ComplianceIssue{
			Field:    "cta",
			Message:  "No call-to-action text provided",
			Severity: types.SeverityWarning,
			Rule:     types.RuleMissingCTA,
		})
	}
	return issues
}

func (c *Checker) finish(issues []types.ComplianceIssue, fields []field, descriptions []string, entity string, rules *types.EntityRules, requireCTA bool) []types.ComplianceIssue {
	er := compileEntityRules(entity, rules)

	for _, f := range fields {
		issues = append(issues, c.checkField(f, er)...)
	}

	if er != nil {
		issues = append(issues, missingDisclaimers(er.disclaimers, descriptions, entity)...)
	}

	if requireCTA && !c.anyCTA(fields) {
		issues = append(issues, types.ComplianceIssue{
			Field:    "ad",
			Message:  "No call to action found; add an action verb such as Get, Shop or Start",
			Severity: types.SeverityWarning,
			Rule:     types.RuleMissingCTA,
		})
	}
	return issues
}

func (c *Checker) checkField(f field, er *entityMatchers) []types.ComplianceIssue {
	var issues []types.ComplianceIssue

	// Surrounding whitespace is not served, so it does not count; the scorer measures the same way.
	if n := adtext.Length(strings.TrimSpace(f.text)); n > f.limit {
		issues = append(issues, types.ComplianceIssue{
			Field:    f.name,
			Message:  fmt.Sprintf("%s exceeds %d characters (%d)", f.label, f.limit, n),
			Severity: types.SeverityError,
			Rule:     types.RuleCharLimit,
		})
	}

	if er != nil {
		for _, word := range er.prohibited.Match(f.text) {
			issues = append(issues, types.ComplianceIssue{
				Field:    f.name,
				Message:  fmt.Sprintf("%s contains prohibited word %q", f.label, word),
				Severity: types.SeverityError,
				Rule:     types.RuleProhibitedWord,
			})
		}
		for _, name := range er.competitors.Match(f.text) {
			issues = append(issues, types.ComplianceIssue{
				Field:    f.name,
				Message:  fmt.Sprintf("%s mentions competitor %q", f.label, name),
				Severity: types.SeverityError,
				Rule:     types.RuleCompetitorName,
			})
		}
	}

	if !c.lex.IsSubstantiated(f.text) {
		for _, claim := range c.lex.Superlatives(f.text) {
			issues = append(issues, types.ComplianceIssue{
				Field:    f.name,
				Message:  fmt.Sprintf("%s makes an unsubstantiated claim %q; add supporting evidence or a disclaimer", f.label, claim),
				Severity: types.SeverityWarning,
				Rule:     types.RuleSuperlative,
			})
		}
	}

	return issues
}

func (c *Checker) anyCTA(fields []field) bool {
	for _, f := range fields {
		if c.lex.HasCTA(f.text) {
			return true
		}
	}
	return false
}

func missingDisclaimers(disclaimers, descriptions []string, entity string) []types.ComplianceIssue {
	var issues []types.ComplianceIssue
	folded := make([]string, 0, len(descriptions))
	for _, d := range descriptions {
		folded = append(folded, adtext.Fold(d))
	}

	for _, disclaimer := range disclaimers {
		want := adtext.Fold(disclaimer)
		found := false
		for _, d := range folded {
			if strings.Contains(d, want) {
				found = true
				break
			}
		}
		if found {
			continue
		}
		msg := fmt.Sprintf("Required disclaimer %q is missing from descriptions", disclaimer)
		if entity != "" {
			msg = fmt.Sprintf("%s requires the disclaimer %q in a description", entity, disclaimer)
		}
		issues = append(issues, types.ComplianceIssue{
			Field:    "descriptions",
			Message:  msg,
			Severity: types.SeverityError,
			Rule:     types.RuleRequiredDisclaimer,
		})
	}
	return issues
}

func poolFields(name, label string, pool []string, limit int) []field {
	var fields []field
	for i, text := range pool {
		if adtext.IsBlank(text) {
			continue
		}
		fields = append(fields, field{
			name:  fmt.Sprintf("%s[%d]", name, i),
			label: fmt.Sprintf("%s %d", label, i+1),
			text:  text,
			limit: limit,
		})
	}
	return fields
}

func countNonBlank(pool []string) int {
	n := 0
	for _, s := range pool {
		if !adtext.IsBlank(s) {
			n++
		}
	}
	return n
}

func requiredIssue(fieldName, msg string) types.ComplianceIssue {
	return types.ComplianceIssue{
		Field:    fieldName,
		Message:  msg,
		Severity: types.SeverityError,
		Rule:     types.RuleRequiredField,
	}
}
