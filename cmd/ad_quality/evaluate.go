package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/ad-quality/internal/observability"
	"github.com/jonathan/ad-quality/internal/pipeline"
	"github.com/jonathan/ad-quality/internal/types"
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Score and check a batch of ads",
	Long: `Reads {"ads": [...]} and reports strength, compliance and near-duplicate
headlines for every ad. Ads are evaluated concurrently; results keep input order.`,
	RunE: runEvaluate,
}

var (
	evaluateInput       string
	evaluateConcurrency int
)

func init() {
	evaluateCmd.Flags().StringVarP(&evaluateInput, "in", "i", "-", "Path to batch JSON file (- for stdin)")
	evaluateCmd.Flags().IntVarP(&evaluateConcurrency, "concurrency", "c", 0, "Ads evaluated at once (default: GOMAXPROCS)")
	rootCmd.AddCommand(evaluateCmd)
}

func runEvaluate(cmd *cobra.Command, _ []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	var req types.EvaluateRequest
	if err := readJSON(cmd, evaluateInput, &req); err != nil {
		return err
	}
	if len(req.Ads) > a.cfg.MaxBatchSize {
		return fmt.Errorf("batch has %d ads, limit is %d (MAX_BATCH_SIZE)", len(req.Ads), a.cfg.MaxBatchSize)
	}

	src, err := a.openRules(cmd.Context())
	if err != nil {
		return err
	}
	defer src.close()

	evaluator := pipeline.NewEvaluator(pipeline.Options{
		Lexicon:     a.lex,
		Rules:       src.provider(),
		Threshold:   a.cfg.SimilarityThreshold,
		Concurrency: evaluateConcurrency,
		Logger:      a.logger,
		OnProgress: func(ev pipeline.ProgressEvent) {
			a.logger.Debug("ad evaluated",
				zap.String("id", ev.Result.ID),
				zap.Int("done", ev.Done),
				zap.Int("total", ev.Total))
		},
	})

	var threshold float64
	if req.Threshold != nil {
		threshold = *req.Threshold
	}
	results, err := evaluator.Evaluate(cmd.Context(), req.Ads, threshold)
	if err != nil {
		return err
	}
	return printResult(cmd, results, func(p *observability.Printer) { p.PrintEvaluation(results) })
}
