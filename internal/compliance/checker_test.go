package compliance

import (
	"fmt"
	"testing"

	"github.com/jonathan/ad-quality/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func issue(fieldName string, severity types.Severity, rule, msg string) types.ComplianceIssue {
	return types.ComplianceIssue{Field: fieldName, Message: msg, Severity: severity, Rule: rule}
}

func TestCheckCompliance_Scenario(t *testing.T) {
	issues := CheckCompliance(
		[]string{"Best Broker #1"},
		[]string{"Guaranteed profits"},
		nil, nil,
		"ACME",
		&types.EntityRules{ProhibitedWords: []string{"guaranteed"}, CompetitorNames: []string{}},
	)

	assert.Equal(t, []types.ComplianceIssue{
		issue("headlines[0]", types.SeverityWarning, types.RuleSuperlative,
			`Headline 1 makes an unsubstantiated claim "best"; add supporting evidence or a disclaimer`),
		issue("headlines[0]", types.SeverityWarning, types.RuleSuperlative,
			`Headline 1 makes an unsubstantiated claim "#1"; add supporting evidence or a disclaimer`),
		issue("descriptions[0]", types.SeverityError, types.RuleProhibitedWord,
			`Description 1 contains prohibited word "guaranteed"`),
		issue("descriptions[0]", types.SeverityWarning, types.RuleSuperlative,
			`Description 1 makes an unsubstantiated claim "guaranteed"; add supporting evidence or a disclaimer`),
		issue("ad", types.SeverityWarning, types.RuleMissingCTA,
			"No call to action found; add an action verb such as Get, Shop or Start"),
	}, issues)
	assert.True(t, HasErrors(issues))
}

func TestCheckCompliance_EmptyAd(t *testing.T) {
	issues := CheckCompliance(nil, []string{" "}, nil, nil, "", nil)

	require.Len(t, issues, 3)
	assert.Equal(t, issue("headlines", types.SeverityError, types.RuleRequiredField, "At least one headline is required"), issues[0])
	assert.Equal(t, issue("descriptions", types.SeverityError, types.RuleRequiredField, "At least one description is required"), issues[1])
	assert.Equal(t, types.RuleMissingCTA, issues[2].Rule)
	assert.Equal(t, types.SeverityWarning, issues[2].Severity)
}

func TestCheckCompliance_CleanAd(t *testing.T) {
	issues := CheckCompliance(
		[]string{"Trade Forex Today", "Start Trading Now"},
		[]string{"Open an account in minutes."},
		[]string{"Open Account"},
		[]string{"24/7 Support"},
		"ACME",
		nil,
	)

	assert.Empty(t, issues)
	assert.NotNil(t, issues)
	assert.False(t, HasErrors(issues))
}

func TestCheckCompliance_HeadlineOverLimitIsError(t *testing.T) {
	long := "This Headline Is Definitely Too Long"
	issues := CheckCompliance([]string{"Get Started", long}, []string{"Open an account."}, nil, nil, "", nil)

	require.Len(t, issues, 1)
	assert.Equal(t, issue("headlines[1]", types.SeverityError, types.RuleCharLimit, "Headline 2 exceeds 30 characters (36)"), issues[0])
}

func TestCheckCompliance_LimitIgnoresSurroundingWhitespace(t *testing.T) {
	tests := []struct {
		name     string
		headline string
		wantLen  int
	}{
		{"30 chars padded", "  Limited Offer For New Clients!  ", 0},
		{"30 chars tab padded", "\tLimited Offer For New Clients!\n", 0},
		{"31 chars padded", " Limited Offers For New Clients! ", 31},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issues := CheckCompliance([]string{tt.headline}, []string{"Open an account."}, nil, nil, "", nil)
			var limits []types.ComplianceIssue
			for _, is := range issues {
				if is.Rule == types.RuleCharLimit {
					limits = append(limits, is)
				}
			}
			if tt.wantLen == 0 {
				assert.Empty(t, limits)
				return
			}
			require.Len(t, limits, 1)
			assert.Equal(t, fmt.Sprintf("Headline 1 exceeds 30 characters (%d)", tt.wantLen), limits[0].Message)
		})
	}
}

func TestCheckCompliance_FieldLimits(t *testing.T) {
	tests := []struct {
		name      string
		sitelinks []string
		callouts  []string
		wantField string
	}{
		{"sitelink 26 chars", []string{"Open Your Free Account Now"}, nil, "sitelinks[0]"},
		{"callout 36 chars", nil, []string{"Award Winning Support Around Globe!!"}, "callouts[0]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issues := CheckCompliance([]string{"Get Started"}, []string{"Open an account."}, tt.sitelinks, tt.callouts, "", nil)
			require.Len(t, issues, 1)
			assert.Equal(t, tt.wantField, issues[0].Field)
			assert.Equal(t, types.RuleCharLimit, issues[0].Rule)
		})
	}
}

func TestCheckCompliance_CompetitorsAndSelf(t *testing.T) {
	rules := &types.EntityRules{CompetitorNames: []string{"Globex", "ACME"}}
	issues := CheckCompliance(
		[]string{"Better Than GLOBEX", "ACME Trading"},
		[]string{"Open an account."},
		nil, nil, "acme", rules,
	)

	require.Len(t, issues, 1)
	assert.Equal(t, issue("headlines[0]", types.SeverityError, types.RuleCompetitorName, `Headline 1 mentions competitor "Globex"`), issues[0])
}

func TestCheckCompliance_SubstantiatedClaimIsNotFlagged(t *testing.T) {
	issues := CheckCompliance(
		[]string{"Rated Best Broker 2024*"},
		[]string{"Best execution according to a 2024 survey. Open an account."},
		nil, nil, "", nil,
	)
	assert.Empty(t, issues)
}

func TestCheckCompliance_RatingClaimsNeedEvidence(t *testing.T) {
	tests := []struct {
		headline string
		want     int
	}{
		{"Top Rated Broker", 1},
		{"Best Rated Forex App", 1},
		{"Best Broker", 1},
		{"Top Rated In 2024 Survey", 0},
	}

	for _, tt := range tests {
		t.Run(tt.headline, func(t *testing.T) {
			issues := CheckCompliance([]string{tt.headline}, []string{"Open an account today."}, nil, nil, "", nil)

			var superlatives int
			for _, is := range issues {
				if is.Rule == types.RuleSuperlative {
					superlatives++
					assert.Equal(t, types.SeverityWarning, is.Severity)
				}
			}
			assert.Equal(t, tt.want, superlatives)
		})
	}
}

func TestCheckCompliance_RequiredDisclaimers(t *testing.T) {
	rules := &types.EntityRules{RequiredDisclaimers: []string{"Capital at risk", "T&Cs apply"}}

	issues := CheckCompliance([]string{"Get Started"}, []string{"Trade CFDs. capital AT risk."}, nil, nil, "ACME", rules)
	require.Len(t, issues, 1)
	assert.Equal(t, issue("descriptions", types.SeverityError, types.RuleRequiredDisclaimer,
		`ACME requires the disclaimer "T&Cs apply" in a description`), issues[0])

	issues = CheckCompliance([]string{"Get Started"}, []string{"Trade CFDs."}, nil, nil, "", &types.EntityRules{RequiredDisclaimers: []string{"Capital at risk"}})
	require.Len(t, issues, 1)
	assert.Equal(t, `Required disclaimer "Capital at risk" is missing from descriptions`, issues[0].Message)
}

func TestCheckCompliance_ProhibitedWordsAreSubstrings(t *testing.T) {
	rules := &types.EntityRules{ProhibitedWords: []string{"crypto"}}
	issues := CheckCompliance([]string{"Buy Cryptocurrency"}, []string{"Shop now."}, nil, nil, "", rules)

	require.Len(t, issues, 1)
	assert.Equal(t, types.RuleProhibitedWord, issues[0].Rule)
	assert.Equal(t, "headlines[0]", issues[0].Field)
}

func TestCheckCompliance_KeepsOriginalIndicesAcrossBlanks(t *testing.T) {
	issues := CheckCompliance([]string{"", "Get The Best Deal"}, []string{"Open an account."}, nil, nil, "", nil)

	require.Len(t, issues, 1)
	assert.Equal(t, "headlines[1]", issues[0].Field)
	assert.Contains(t, issues[0].Message, "Headline 2")
}

func TestCheckDisplayAdCompliance(t *testing.T) {
	issues := CheckDisplayAdCompliance(
		"The #1 platform for forex traders",
		[]string{"Trade Forex Today", "This Short Headline Is Far Too Long"},
		[]string{"Open an account with Globex-level pricing."},
		"",
		"ACME",
		&types.EntityRules{CompetitorNames: []string{"Globex"}},
	)

	assert.Equal(t, []types.ComplianceIssue{
		issue("long_headline", types.SeverityWarning, types.RuleSuperlative,
			`Long headline makes an unsubstantiated claim "#1"; add supporting evidence or a disclaimer`),
		issue("short_headlines[1]", types.SeverityError, types.RuleCharLimit,
			"Short headline 2 exceeds 30 characters (35)"),
		issue("descriptions[0]", types.SeverityError, types.RuleCompetitorName,
			`Description 1 mentions competitor "Globex"`),
		issue("cta", types.SeverityWarning, types.RuleMissingCTA, "No call-to-action text provided"),
	}, issues)
}

func TestCheckDisplayAdCompliance_MissingAssets(t *testing.T) {
	issues := CheckDisplayAdCompliance(" ", nil, nil, "Sign Up Today Now!", "", nil)

	require.Len(t, issues, 4)
	assert.Equal(t, "long_headline", issues[0].Field)
	assert.Equal(t, "short_headlines", issues[1].Field)
	assert.Equal(t, "descriptions", issues[2].Field)
	assert.Equal(t, issue("cta", types.SeverityError, types.RuleCharLimit, "Call to action exceeds 15 characters (18)"), issues[3])
}

func TestCount_And_Messages(t *testing.T) {
	issues := []types.ComplianceIssue{
		issue("a", types.SeverityError, types.RuleCharLimit, "one"),
		issue("b", types.SeverityWarning, types.RuleSuperlative, "two"),
		issue("c", types.SeverityWarning, types.RuleMissingCTA, "three"),
	}

	errs, warns := Count(issues)
	assert.Equal(t, 1, errs)
	assert.Equal(t, 2, warns)
	assert.Equal(t, []string{"one", "two", "three"}, Messages(issues))
	assert.False(t, HasErrors(issues[1:]))
}

func TestReport(t *testing.T) {
	warnOnly := []types.ComplianceIssue{issue("a", types.SeverityWarning, types.RuleMissingCTA, "w")}
	withError := append(warnOnly, issue("b", types.SeverityError, types.RuleCharLimit, "e"))

	assert.True(t, Report(warnOnly).Compliant)
	assert.False(t, Report(withError).Compliant)

	empty := Report(nil)
	assert.True(t, empty.Compliant)
	assert.NotNil(t, empty.Issues)
}
