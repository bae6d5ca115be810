// Package observability provides formatted output for CLI results.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/ad-quality/internal/adtext"
	"github.com/jonathan/ad-quality/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 64
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 10
)

// Printer handles formatted output for the CLI
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	inner := boxWidth - 4
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %s │\n", pad(title, inner))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		if adtext.Length(line) > inner {
			line = adtext.Truncate(line, inner-3) + "..."
		}
		fmt.Fprintf(p.out, "│ %s │\n", pad(line, inner))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// pad right-pads s with spaces to width user-perceived characters.
func pad(s string, width int) string {
	if n := adtext.Length(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}

// PrintStrength outputs the score, per-pool breakdown and suggestions.
func (p *Printer) PrintStrength(result types.AdStrengthResult) {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Score:    %d/100 (%s)\n\n", result.Score, result.Strength))
	sb.WriteString(fmt.Sprintf("  Headlines     %2d/40\n", result.Breakdown.Headlines))
	sb.WriteString(fmt.Sprintf("  Descriptions  %2d/30\n", result.Breakdown.Descriptions))
	sb.WriteString(fmt.Sprintf("  Sitelinks     %2d/15\n", result.Breakdown.Sitelinks))
	sb.WriteString(fmt.Sprintf("  Callouts      %2d/15\n", result.Breakdown.Callouts))

	if len(result.Suggestions) > 0 {
		sb.WriteString("\nSuggestions:\n")
		for _, s := range result.Suggestions {
			sb.WriteString(fmt.Sprintf("  • %s\n", s))
		}
	}

	p.printBox("AD STRENGTH", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintCompliance outputs compliance issues grouped as errors then warnings.
func (p *Printer) PrintCompliance(issues []types.ComplianceIssue) {
	var sb strings.Builder

	if len(issues) == 0 {
		sb.WriteString("✓ No compliance issues")
		p.printBox("COMPLIANCE", sb.String())
		return
	}

	var errs, warns []types.ComplianceIssue
	for _, issue := range issues {
		if issue.Severity == types.SeverityError {
			errs = append(errs, issue)
		} else {
			warns = append(warns, issue)
		}
	}

	sb.WriteString(fmt.Sprintf("%d error(s), %d warning(s)\n", len(errs), len(warns)))
	for _, group := range []struct {
		label  string
		issues []types.ComplianceIssue
	}{{"Errors", errs}, {"Warnings", warns}} {
		if len(group.issues) == 0 {
			continue
		}
		sb.WriteString(fmt.Sprintf("\n%s:\n", group.label))
		for _, issue := range group.issues {
			sb.WriteString(fmt.Sprintf("  • [%s] %s\n", issue.Field, issue.Message))
		}
	}

	p.printBox("COMPLIANCE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintPatterns outputs the detected pattern of each headline.
func (p *Printer) PrintPatterns(results []types.PatternResult) {
	if len(results) == 0 {
		return
	}

	var sb strings.Builder
	for _, r := range results {
		indicator := r.Pattern.Indicator
		if indicator == "" {
			indicator = "·"
		}
		sb.WriteString(fmt.Sprintf("%s %s (%s", indicator, r.Headline, r.Pattern.Type))
		if r.Pattern.Boost > 0 {
			sb.WriteString(fmt.Sprintf(", +%d%%", r.Pattern.Boost))
		}
		sb.WriteString(")\n")
		if r.Recommendation != nil {
			mark := "✗"
			if r.Recommendation.IsOptimal {
				mark = "✓"
			}
			sb.WriteString(fmt.Sprintf("    %s %s\n", mark, r.Recommendation.Message))
		}
	}

	p.printBox("HEADLINE PATTERNS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintSimilarPairs outputs near-duplicate headline pairs, most similar first as given.
func (p *Printer) PrintSimilarPairs(pairs []types.SimilarPair, threshold float64) {
	var sb strings.Builder

	if len(pairs) == 0 {
		sb.WriteString(fmt.Sprintf("No pairs at or above %.2f", threshold))
		p.printBox("SIMILAR HEADLINES", sb.String())
		return
	}

	sb.WriteString(fmt.Sprintf("%d pair(s) at or above %.2f\n\n", len(pairs), threshold))
	count := min(len(pairs), maxItemsToShow)
	for i := 0; i < count; i++ {
		pair := pairs[i]
		sb.WriteString(fmt.Sprintf("%3.0f%%  #%d %s\n", pair.Similarity*100, pair.Index1+1, pair.Headline1))
		sb.WriteString(fmt.Sprintf("      #%d %s\n", pair.Index2+1, pair.Headline2))
	}
	if len(pairs) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more pairs\n", len(pairs)-maxItemsToShow))
	}

	p.printBox("SIMILAR HEADLINES", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintAlternative outputs a headline rewrite.
func (p *Printer) PrintAlternative(resp types.AlternativeResponse) {
	content := fmt.Sprintf("Original:     %s\nAlternative:  %s\nSource:       %s",
		resp.Original, resp.Alternative, resp.Source)
	p.printBox("ALTERNATIVE HEADLINE", content)
}

// PrintDKI outputs rendered keyword insertions with their fallback reasons.
func (p *Printer) PrintDKI(results []types.DKIRenderResult) {
	if len(results) == 0 {
		return
	}

	var sb strings.Builder
	for _, r := range results {
		keyword := r.Keyword
		if keyword == "" {
			keyword = "(none)"
		}
		sb.WriteString(fmt.Sprintf("%s → %s (%d)\n", keyword, r.Rendered, adtext.Length(r.Rendered)))
		if r.UsedFallback {
			sb.WriteString(fmt.Sprintf("    fallback: %s\n", r.FallbackReason))
		}
	}

	p.printBox("KEYWORD INSERTION", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintPreview outputs preview combinations the way they would be shown.
func (p *Printer) PrintPreview(combinations []types.PreviewCombination) {
	if len(combinations) == 0 {
		return
	}

	var sb strings.Builder
	for i, c := range combinations {
		sb.WriteString(fmt.Sprintf("Preview %d\n", i+1))
		sb.WriteString(fmt.Sprintf("  %s\n", strings.Join(c.Headlines, " | ")))
		if len(c.Descriptions) > 0 {
			sb.WriteString(fmt.Sprintf("  %s\n", strings.Join(c.Descriptions, " ")))
		}
		if len(c.Sitelinks) > 0 {
			sb.WriteString(fmt.Sprintf("  ↳ %s\n", strings.Join(c.Sitelinks, " · ")))
		}
		if i < len(combinations)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("AD PREVIEW", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintEvaluation outputs a one-line summary per ad in a batch.
func (p *Printer) PrintEvaluation(results []types.EvaluateResult) {
	if len(results) == 0 {
		return
	}

	var sb strings.Builder
	for _, r := range results {
		status := "✓"
		if !r.Compliant {
			status = "✗"
		}
		sb.WriteString(fmt.Sprintf("%s %-16s %3d %-9s issues:%d similar:%d\n",
			status, r.ID, r.Strength.Score, r.Strength.Strength, len(r.Issues), len(r.SimilarPairs)))
	}

	p.printBox("EVALUATION", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintEntityRules outputs the resolved rules for an entity.
func (p *Printer) PrintEntityRules(entity string, rules *types.EntityRules) {
	var sb strings.Builder

	if rules.IsEmpty() {
		sb.WriteString("No entity rules; baseline checks only")
		p.printBox("RULES: "+entity, sb.String())
		return
	}

	for _, section := range []struct {
		label string
		terms []string
	}{
		{"Prohibited words", rules.ProhibitedWords},
		{"Competitor names", rules.CompetitorNames},
		{"Required disclaimers", rules.RequiredDisclaimers},
	} {
		if len(section.terms) == 0 {
			continue
		}
		sb.WriteString(fmt.Sprintf("%s:\n", section.label))
		for _, term := range section.terms {
			sb.WriteString(fmt.Sprintf("  • %s\n", term))
		}
	}

	p.printBox("RULES: "+entity, strings.TrimSuffix(sb.String(), "\n"))
}
