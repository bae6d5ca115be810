package compliance

import (
	"strings"

	"github.com/jonathan/ad-quality/internal/adtext"
	"github.com/jonathan/ad-quality/internal/types"
)

// entityMatchers are entity rules compiled for one check.
type entityMatchers struct {
	prohibited  *adtext.PhraseMatcher
	competitors *adtext.PhraseMatcher
	disclaimers []string
}

// compileEntityRules returns nil when rules add nothing. A competitor entry naming the
// entity itself is dropped.
func compileEntityRules(entity string, rules *types.EntityRules) *entityMatchers {
	rules = rules.Normalized()
	if rules.IsEmpty() {
		return nil
	}

	self := strings.TrimSpace(entity)
	competitors := make([]string, 0, len(rules.CompetitorNames))
	for _, name := range rules.CompetitorNames {
		if self != "" && strings.EqualFold(name, self) {
			continue
		}
		competitors = append(competitors, name)
	}

	return &entityMatchers{
		prohibited:  adtext.NewPhraseMatcher(rules.ProhibitedWords, adtext.Substring),
		competitors: adtext.NewPhraseMatcher(competitors, adtext.Substring),
		disclaimers: rules.RequiredDisclaimers,
	}
}

// HasErrors reports whether any issue blocks the ad from being considered compliant.
func HasErrors(issues []types.ComplianceIssue) bool {
	for _, issue := range issues {
		if issue.Severity == types.SeverityError {
			return true
		}
	}
	return false
}

// Count returns the number of errors and warnings in issues.
func Count(issues []types.ComplianceIssue) (errors, warnings int) {
	for _, issue := range issues {
		switch issue.Severity {
		case types.SeverityError:
			errors++
		case types.SeverityWarning:
			warnings++
		}
	}
	return errors, warnings
}

// Messages flattens issues into plain messages, for callers that only display strings.
func Messages(issues []types.ComplianceIssue) []string {
	out := make([]string, 0, len(issues))
	for _, issue := range issues {
		out = append(out, issue.Message)
	}
	return out
}

// Report wraps issues in a response. An ad is compliant when no issue is an error.
func Report(issues []types.ComplianceIssue) types.ComplianceResponse {
	if issues == nil {
		issues = []types.ComplianceIssue{}
	}
	return types.ComplianceResponse{Compliant: !HasErrors(issues), Issues: issues}
}
