// Package rewriting produces alternative headlines, asking a language model first and falling
// back to the lexicon's synonym rewrites.
package rewriting

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/ad-quality/internal/adtext"
	"github.com/jonathan/ad-quality/internal/lexicon"
	"github.com/jonathan/ad-quality/internal/llm"
	"github.com/jonathan/ad-quality/internal/prompts"
	"github.com/jonathan/ad-quality/internal/similarity"
	"github.com/jonathan/ad-quality/internal/types"
)

// Sources reported on an AlternativeResponse.
const (
	SourceAI      = "ai"
	SourceSynonym = "synonym"
)

// Rewriter produces alternative headlines.
type Rewriter struct {
	client llm.Client
	gen    *similarity.Generator
	lex    *lexicon.Lexicon
	logger *zap.Logger
}

// NewRewriter creates a Rewriter. client may be nil, in which case every rewrite comes
// from the synonym generator.
func NewRewriter(client llm.Client, lex *lexicon.Lexicon, logger *zap.Logger) *Rewriter {
	if lex == nil {
		lex = lexicon.Default()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Rewriter{
		client: client,
		gen:    similarity.NewGenerator(lex),
		lex:    lex,
		logger: logger,
	}
}

// Alternative rewrites headline. existing lists the other headlines in the ad, which the
// model is told to avoid. With useAI false, or when the model fails or its reply is
// rejected, the synonym generator answers instead. Only context errors are returned.
func (r *Rewriter) Alternative(ctx context.Context, headline string, existing []string, useAI bool) (types.AlternativeResponse, error) {
	resp := types.AlternativeResponse{Original: headline}

	if useAI && r.client != nil && !adtext.IsBlank(headline) {
		alt, err := r.askModel(ctx, headline, existing)
		if err == nil {
			resp.Alternative = alt
			resp.Source = SourceAI
			return resp, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return types.AlternativeResponse{}, ctxErr
		}
		if errors.Is(err, llm.ErrBlocked) {
			r.logger.Info("model declined headline, using synonyms", zap.String("headline", headline))
		} else {
			r.logger.Warn("model rewrite unavailable, using synonyms",
				zap.String("headline", headline),
				zap.Error(err),
			)
		}
	}

	resp.Alternative = r.gen.Alternative(headline)
	resp.Source = SourceSynonym
	return resp, nil
}

func (r *Rewriter) askModel(ctx context.Context, headline string, existing []string) (string, error) {
	limit := max(adtext.HeadlineLimit, adtext.Length(headline))
	prompt := buildPrompt(headline, existing, limit)

	reply, err := r.client.GenerateJSON(ctx, prompt, llm.TierLite)
	if err != nil {
		return "", &APICallError{Message: "failed to generate headline", Cause: err}
	}

	alt, err := parseReply(reply)
	if err != nil {
		return "", err
	}
	if err := r.check(headline, alt, existing, limit); err != nil {
		return "", err
	}
	return alt, nil
}

// check applies the same constraints the synonym generator guarantees, plus a claim check
// so the rewrite never introduces a compliance problem.
func (r *Rewriter) check(headline, alt string, existing []string, limit int) error {
	if alt == "" {
		return &RejectedError{Reply: alt, Reason: "empty"}
	}
	if n := adtext.Length(alt); n > limit {
		return &RejectedError{Reply: alt, Reason: fmt.Sprintf("%d characters exceeds %d", n, limit)}
	}
	normalized := adtext.Normalize(alt)
	if normalized == adtext.Normalize(headline) {
		return &RejectedError{Reply: alt, Reason: "same as original"}
	}
	for _, h := range existing {
		if normalized == adtext.Normalize(h) {
			return &RejectedError{Reply: alt, Reason: "duplicates an existing headline"}
		}
	}
	if found := r.lex.Superlatives(alt); len(found) > 0 && !r.lex.IsSubstantiated(alt) {
		return &RejectedError{Reply: alt, Reason: fmt.Sprintf("unsubstantiated claim %q", found[0])}
	}
	return nil
}

func buildPrompt(headline string, existing []string, limit int) string {
	var avoid string
	var others []string
	for _, h := range existing {
		if h = adtext.CollapseSpaces(h); h != "" && h != adtext.CollapseSpaces(headline) {
			others = append(others, strconv.Quote(h))
		}
	}
	if len(others) > 0 {
		avoid = prompts.Format(prompts.MustGet(prompts.Rewriting, "headline-avoid"), map[string]string{
			"Existing": strings.Join(others, ", "),
		})
	}

	return prompts.Format(prompts.MustGet(prompts.Rewriting, "headline-alternative"), map[string]string{
		"Headline": headline,
		"Limit":    strconv.Itoa(limit),
		"Avoid":    avoid,
	})
}

func parseReply(reply string) (string, error) {
	var parsed struct {
		Alternative string `json:"alternative"`
	}
	if err := json.Unmarshal([]byte(llm.CleanJSONBlock(reply)), &parsed); err != nil {
		return "", &RejectedError{Reply: reply, Reason: "not valid JSON"}
	}
	return adtext.CollapseSpaces(parsed.Alternative), nil
}
