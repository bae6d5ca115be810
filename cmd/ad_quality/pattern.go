package main

import (
	"github.com/spf13/cobra"

	"github.com/jonathan/ad-quality/internal/observability"
	"github.com/jonathan/ad-quality/internal/patterns"
)

var patternCmd = &cobra.Command{
	Use:   "pattern HEADLINE...",
	Short: "Detect the pattern of each headline",
	Long:  "Classifies headlines as question, number-led, urgency, benefit-led or none. With --with-index, advises whether each headline sits in a good position.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runPattern,
}

var patternWithIndex bool

func init() {
	patternCmd.Flags().BoolVar(&patternWithIndex, "with-index", false, "Add position advice using each headline's order")
	rootCmd.AddCommand(patternCmd)
}

func runPattern(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	results := patterns.NewDetector(a.lex).DetectAll(args, patternWithIndex)
	return printResult(cmd, results, func(p *observability.Printer) { p.PrintPatterns(results) })
}
