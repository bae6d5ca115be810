package main

import (
	"github.com/spf13/cobra"

	"github.com/jonathan/ad-quality/internal/observability"
	"github.com/jonathan/ad-quality/internal/rewriting"
)

var alternativeCmd = &cobra.Command{
	Use:   "alternative HEADLINE",
	Short: "Suggest a rewrite for a near-duplicate headline",
	Long: `Rewrites a headline so it no longer duplicates its neighbours. Uses synonym
swaps by default; with --ai and GEMINI_API_KEY set, asks the model first and falls
back to synonyms if the reply is unusable.`,
	Args: cobra.ExactArgs(1),
	RunE: runAlternative,
}

var (
	alternativeAI       bool
	alternativeExisting []string
)

func init() {
	alternativeCmd.Flags().BoolVar(&alternativeAI, "ai", false, "Ask the model before falling back to synonyms")
	alternativeCmd.Flags().StringArrayVar(&alternativeExisting, "existing", nil, "Other headlines in the ad to avoid duplicating (repeatable)")
	rootCmd.AddCommand(alternativeCmd)
}

func runAlternative(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	client, err := a.llmClient(cmd.Context())
	if err != nil {
		return err
	}
	if client != nil {
		defer func() { _ = client.Close() }()
	}

	rewriter := rewriting.NewRewriter(client, a.lex, a.logger)
	resp, err := rewriter.Alternative(cmd.Context(), args[0], alternativeExisting, alternativeAI)
	if err != nil {
		return err
	}
	return printResult(cmd, resp, func(p *observability.Printer) { p.PrintAlternative(resp) })
}
