// Package pipeline evaluates batches of ads concurrently: strength, compliance and
// near-duplicate headlines for each ad.
package pipeline

import (
	"context"
	"fmt"
	"runtime"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/ad-quality/internal/compliance"
	"github.com/jonathan/ad-quality/internal/lexicon"
	"github.com/jonathan/ad-quality/internal/rules"
	"github.com/jonathan/ad-quality/internal/similarity"
	"github.com/jonathan/ad-quality/internal/strength"
	"github.com/jonathan/ad-quality/internal/types"
)

// ProgressEvent reports one finished ad.
type ProgressEvent struct {
	Done   int                  `json:"done"`
	Total  int                  `json:"total"`
	Result types.EvaluateResult `json:"result"`
}

// ProgressCallback is called as each ad finishes. Calls may come from several goroutines.
type ProgressCallback func(event ProgressEvent)

// Options configures an Evaluator.
type Options struct {
	Lexicon     *lexicon.Lexicon
	Rules       rules.Provider
	Threshold   float64
	Concurrency int
	Logger      *zap.Logger
	OnProgress  ProgressCallback
}

// Evaluator runs the per-ad checks. It is safe for concurrent use.
type Evaluator struct {
	scorer      *strength.Scorer
	checker     *compliance.Checker
	rules       rules.Provider
	threshold   float64
	concurrency int
	logger      *zap.Logger
	onProgress  ProgressCallback
}

// NewEvaluator creates an Evaluator.
func NewEvaluator(opts Options) *Evaluator {
	threshold := opts.Threshold
	if threshold <= 0 {
		threshold = similarity.DefaultThreshold
	}
	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = runtime.GOMAXPROCS(0)
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Evaluator{
		scorer:      strength.NewScorerWithThreshold(opts.Lexicon, threshold),
		checker:     compliance.NewChecker(opts.Lexicon),
		rules:       opts.Rules,
		threshold:   threshold,
		concurrency: concurrency,
		logger:      logger,
		onProgress:  opts.OnProgress,
	}
}

// Evaluate checks every ad and returns results in input order. threshold overrides the
// evaluator's similarity threshold when positive. The first rules lookup failure cancels
// the batch.
func (e *Evaluator) Evaluate(ctx context.Context, ads []types.EvaluateAd, threshold float64) ([]types.EvaluateResult, error) {
	if threshold <= 0 {
		threshold = e.threshold
	}

	results := make([]types.EvaluateResult, len(ads))
	var done atomic.Int64

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)

	for i := range ads {
		g.Go(func() error {
			result, err := e.EvaluateAd(gCtx, ads[i], threshold)
			if err != nil {
				return fmt.Errorf("ad %s: %w", ads[i].ID, err)
			}
			results[i] = result

			n := done.Add(1)
			if e.onProgress != nil {
				e.onProgress(ProgressEvent{Done: int(n), Total: len(ads), Result: result})
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	e.logger.Debug("batch evaluated", zap.Int("ads", len(ads)), zap.Float64("threshold", threshold))
	return results, nil
}

// EvaluateAd checks a single ad.
func (e *Evaluator) EvaluateAd(ctx context.Context, ad types.EvaluateAd, threshold float64) (types.EvaluateResult, error) {
	if err := ctx.Err(); err != nil {
		return types.EvaluateResult{}, err
	}
	if threshold <= 0 {
		threshold = e.threshold
	}

	entityRules, err := rules.Resolve(ctx, e.rules, ad.Entity, ad.Rules)
	if err != nil {
		return types.EvaluateResult{}, fmt.Errorf("failed to resolve rules for %q: %w", ad.Entity, err)
	}

	issues := e.checker.Check(ad.Headlines, ad.Descriptions, ad.Sitelinks, ad.Callouts, ad.Entity, entityRules)
	return types.EvaluateResult{
		ID:           ad.ID,
		Strength:     e.scorer.Calculate(ad.Headlines, ad.Descriptions, ad.Sitelinks, ad.Callouts),
		Compliant:    !compliance.HasErrors(issues),
		Issues:       issues,
		SimilarPairs: similarity.FindSimilarPairs(ad.Headlines, threshold),
	}, nil
}
