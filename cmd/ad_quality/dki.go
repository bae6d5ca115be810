package main

import (
	"github.com/spf13/cobra"

	"github.com/jonathan/ad-quality/internal/dki"
	"github.com/jonathan/ad-quality/internal/observability"
)

var dkiCmd = &cobra.Command{
	Use:   "dki [KEYWORD...]",
	Short: "Render a dynamic keyword insertion template",
	Long: `Renders a template such as "Buy {Kw} Online {DEFAULT:Shoes}" once per keyword.
With no keywords the template renders for an empty keyword, which uses the default text.`,
	RunE: runDKI,
}

var (
	dkiTemplate  string
	dkiMaxLength int
)

func init() {
	dkiCmd.Flags().StringVarP(&dkiTemplate, "template", "t", "", "DKI template (required)")
	dkiCmd.Flags().IntVar(&dkiMaxLength, "max-length", dki.DefaultMaxLength, "Maximum rendered length in characters")

	if err := dkiCmd.MarkFlagRequired("template"); err != nil {
		panic(err)
	}

	rootCmd.AddCommand(dkiCmd)
}

func runDKI(cmd *cobra.Command, args []string) error {
	keywords := args
	if len(keywords) == 0 {
		keywords = []string{""}
	}
	results := dki.RenderBatch(dkiTemplate, keywords, dkiMaxLength)
	return printResult(cmd, results, func(p *observability.Printer) { p.PrintDKI(results) })
}
