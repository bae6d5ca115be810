package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/ad-quality/internal/observability"
	"github.com/jonathan/ad-quality/internal/similarity"
	"github.com/jonathan/ad-quality/internal/types"
)

var similarCmd = &cobra.Command{
	Use:   "similar [HEADLINE...]",
	Short: "Find near-duplicate headline pairs",
	Long:  "Lists headline pairs whose similarity reaches the threshold. Headlines come from the arguments, or from the headlines of a SearchAd JSON given with --in.",
	RunE:  runSimilar,
}

var (
	similarInput     string
	similarThreshold float64
)

func init() {
	similarCmd.Flags().StringVarP(&similarInput, "in", "i", "", "Path to SearchAd JSON file (- for stdin)")
	similarCmd.Flags().Float64Var(&similarThreshold, "threshold", 0, "Similarity threshold in (0, 1] (default from config)")
	rootCmd.AddCommand(similarCmd)
}

func runSimilar(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	headlines := args
	if similarInput != "" {
		var ad types.SearchAd
		if err := readJSON(cmd, similarInput, &ad); err != nil {
			return err
		}
		headlines = append(headlines, ad.Headlines...)
	}
	if len(headlines) < 2 {
		return fmt.Errorf("at least two headlines are required")
	}

	threshold := a.cfg.SimilarityThreshold
	if similarThreshold != 0 {
		if similarThreshold < 0 || similarThreshold > 1 {
			return fmt.Errorf("--threshold must be in (0, 1], got %g", similarThreshold)
		}
		threshold = similarThreshold
	}

	pairs := similarity.FindSimilarPairs(headlines, threshold)
	if pairs == nil {
		pairs = []types.SimilarPair{}
	}
	return printResult(cmd, pairs, func(p *observability.Printer) { p.PrintSimilarPairs(pairs, threshold) })
}
