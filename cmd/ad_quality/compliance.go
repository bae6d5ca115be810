package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/ad-quality/internal/compliance"
	"github.com/jonathan/ad-quality/internal/observability"
	"github.com/jonathan/ad-quality/internal/rules"
	"github.com/jonathan/ad-quality/internal/types"
)

// errNotCompliant makes the process exit non-zero after the report is printed.
var errNotCompliant = errors.New("ad is not compliant")

var complianceCmd = &cobra.Command{
	Use:   "compliance",
	Short: "Check a responsive search ad against ad policies",
	Long: `Checks character limits, required assets, superlative claims, calls to action
and entity rules (prohibited words, competitor names, required disclaimers).
Exits non-zero when any error-severity issue is found.`,
	RunE: runCompliance,
}

var displayComplianceCmd = &cobra.Command{
	Use:   "display-compliance",
	Short: "Check a responsive display ad against ad policies",
	RunE:  runDisplayCompliance,
}

var (
	complianceInput  string
	complianceEntity string
)

func init() {
	for _, c := range []*cobra.Command{complianceCmd, displayComplianceCmd} {
		c.Flags().StringVarP(&complianceInput, "in", "i", "-", "Path to ad JSON file (- for stdin)")
		c.Flags().StringVarP(&complianceEntity, "entity", "e", "", "Entity whose rules apply (overrides the entity in the input)")
		rootCmd.AddCommand(c)
	}
}

func runCompliance(cmd *cobra.Command, _ []string) error {
	var req types.ComplianceRequest
	if err := readJSON(cmd, complianceInput, &req); err != nil {
		return err
	}
	if complianceEntity != "" {
		req.Entity = complianceEntity
	}

	return checkAndReport(cmd, req.Entity, req.Rules, func(c *compliance.Checker, r *types.EntityRules) []types.ComplianceIssue {
		return c.Check(req.Headlines, req.Descriptions, req.Sitelinks, req.Callouts, req.Entity, r)
	})
}

func runDisplayCompliance(cmd *cobra.Command, _ []string) error {
	var req types.DisplayComplianceRequest
	if err := readJSON(cmd, complianceInput, &req); err != nil {
		return err
	}
	if complianceEntity != "" {
		req.Entity = complianceEntity
	}

	return checkAndReport(cmd, req.Entity, req.Rules, func(c *compliance.Checker, r *types.EntityRules) []types.ComplianceIssue {
		return c.CheckDisplay(req.LongHeadline, req.ShortHeadlines, req.Descriptions, req.CTAText, req.Entity, r)
	})
}

// checkAndReport resolves entity rules, runs check and prints the report.
func checkAndReport(cmd *cobra.Command, entity string, inline *types.EntityRules, check func(*compliance.Checker, *types.EntityRules) []types.ComplianceIssue) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	src, err := a.openRules(cmd.Context())
	if err != nil {
		return err
	}
	defer src.close()

	entityRules, err := rules.Resolve(cmd.Context(), src.provider(), entity, inline)
	if err != nil {
		return fmt.Errorf("failed to resolve rules for %q: %w", entity, err)
	}

	report := compliance.Report(check(compliance.NewChecker(a.lex), entityRules))
	if err := printResult(cmd, report, func(p *observability.Printer) { p.PrintCompliance(report.Issues) }); err != nil {
		return err
	}
	if !report.Compliant {
		return errNotCompliant
	}
	return nil
}
