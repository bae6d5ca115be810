// Package main provides the ad_quality CLI: ad scoring, compliance checks and the HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	configPath  string
	jsonOutput  bool
	lexiconPath string
	rulesPath   string
)

var rootCmd = &cobra.Command{
	Use:           "ad_quality",
	Short:         "Ad quality engine for responsive search and display ads",
	Long:          "ad_quality scores ad strength, checks policy compliance, finds near-duplicate headlines and renders dynamic keyword insertion templates.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to JSON config file")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Print results as JSON")
	rootCmd.PersistentFlags().StringVar(&lexiconPath, "lexicon", "", "Path to a replacement lexicon JSON file (overrides LEXICON_PATH)")
	rootCmd.PersistentFlags().StringVar(&rulesPath, "rules", "", "Path to an entity rules JSON file (overrides ENTITY_RULES_PATH)")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
