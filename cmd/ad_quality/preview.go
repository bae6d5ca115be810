package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/ad-quality/internal/observability"
	"github.com/jonathan/ad-quality/internal/preview"
	"github.com/jonathan/ad-quality/internal/types"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Show sample ad previews from a seeded rotation",
	Long:  "Picks headlines, descriptions and sitelinks the way a serving rotation might. The same seed always gives the same previews.",
	RunE:  runPreview,
}

var (
	previewInput string
	previewSeed  int64
	previewCount int
)

func init() {
	previewCmd.Flags().StringVarP(&previewInput, "in", "i", "-", "Path to SearchAd JSON file (- for stdin)")
	previewCmd.Flags().Int64Var(&previewSeed, "seed", 0, "Rotation seed (default: current time)")
	previewCmd.Flags().IntVarP(&previewCount, "count", "n", 3, "Number of previews")
	rootCmd.AddCommand(previewCmd)
}

func runPreview(cmd *cobra.Command, _ []string) error {
	if previewCount < 1 || previewCount > 20 {
		return fmt.Errorf("--count must be between 1 and 20, got %d", previewCount)
	}

	var ad types.SearchAd
	if err := readJSON(cmd, previewInput, &ad); err != nil {
		return err
	}

	seed := previewSeed
	if !cmd.Flags().Changed("seed") {
		seed = time.Now().UnixNano()
	}
	combinations := preview.Combinations(ad, seed, previewCount)
	return printResult(cmd, combinations, func(p *observability.Printer) { p.PrintPreview(combinations) })
}
