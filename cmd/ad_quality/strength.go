package main

import (
	"github.com/spf13/cobra"

	"github.com/jonathan/ad-quality/internal/observability"
	"github.com/jonathan/ad-quality/internal/strength"
	"github.com/jonathan/ad-quality/internal/types"
)

var strengthCmd = &cobra.Command{
	Use:   "strength",
	Short: "Score the strength of a responsive search ad",
	Long:  "Scores a search ad from 0 to 100 across headlines, descriptions, sitelinks and callouts, with suggestions for the weakest pools.",
	RunE:  runStrength,
}

var strengthInput string

func init() {
	strengthCmd.Flags().StringVarP(&strengthInput, "in", "i", "-", "Path to SearchAd JSON file (- for stdin)")
	rootCmd.AddCommand(strengthCmd)
}

func runStrength(cmd *cobra.Command, _ []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	var ad types.SearchAd
	if err := readJSON(cmd, strengthInput, &ad); err != nil {
		return err
	}

	scorer := strength.NewScorerWithThreshold(a.lex, a.cfg.SimilarityThreshold)
	result := scorer.Calculate(ad.Headlines, ad.Descriptions, ad.Sitelinks, ad.Callouts)
	return printResult(cmd, result, func(p *observability.Printer) { p.PrintStrength(result) })
}
