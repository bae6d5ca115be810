package server

import (
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/jonathan/ad-quality/internal/compliance"
	"github.com/jonathan/ad-quality/internal/dki"
	"github.com/jonathan/ad-quality/internal/preview"
	"github.com/jonathan/ad-quality/internal/rules"
	"github.com/jonathan/ad-quality/internal/similarity"
	"github.com/jonathan/ad-quality/internal/types"
)

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.health != nil {
		if err := s.health.Ping(r.Context()); err != nil {
			s.log().Warn("health check failed", zap.Error(err))
			s.jsonResponse(w, http.StatusServiceUnavailable, map[string]string{
				"status":   "degraded",
				"database": "unreachable",
			})
			return
		}
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handlePatterns classifies each headline
func (s *Server) handlePatterns(w http.ResponseWriter, r *http.Request) {
	var req types.PatternRequest
	if !s.decodeRequest(w, r, &req) {
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"results": s.detector.DetectAll(req.Headlines, req.WithIndex),
	})
}

// handleStrength scores a search ad
func (s *Server) handleStrength(w http.ResponseWriter, r *http.Request) {
	var ad types.SearchAd
	if !s.decodeRequest(w, r, &ad) {
		return
	}
	result := s.scorer.Calculate(ad.Headlines, ad.Descriptions, ad.Sitelinks, ad.Callouts)
	s.metrics.observeStrength(result)
	s.jsonResponse(w, http.StatusOK, result)
}

// handleCompliance checks a search ad against the baseline and entity rules
func (s *Server) handleCompliance(w http.ResponseWriter, r *http.Request) {
	var req types.ComplianceRequest
	if !s.decodeRequest(w, r, &req) {
		return
	}
	entityRules, err := rules.Resolve(r.Context(), s.rules, req.Entity, req.Rules)
	if err != nil {
		s.errResponse(w, fmt.Errorf("failed to resolve rules for %q: %w", req.Entity, err))
		return
	}
	issues := s.checker.Check(req.Headlines, req.Descriptions, req.Sitelinks, req.Callouts, req.Entity, entityRules)
	s.metrics.observeIssues(issues)
	s.jsonResponse(w, http.StatusOK, compliance.Report(issues))
}

// handleDisplayCompliance checks a responsive display ad
func (s *Server) handleDisplayCompliance(w http.ResponseWriter, r *http.Request) {
	var req types.DisplayComplianceRequest
	if !s.decodeRequest(w, r, &req) {
		return
	}
	entityRules, err := rules.Resolve(r.Context(), s.rules, req.Entity, req.Rules)
	if err != nil {
		s.errResponse(w, fmt.Errorf("failed to resolve rules for %q: %w", req.Entity, err))
		return
	}
	issues := s.checker.CheckDisplay(req.LongHeadline, req.ShortHeadlines, req.Descriptions, req.CTAText, req.Entity, entityRules)
	s.metrics.observeIssues(issues)
	s.jsonResponse(w, http.StatusOK, compliance.Report(issues))
}

// handleSimilarity lists near-duplicate headline pairs
func (s *Server) handleSimilarity(w http.ResponseWriter, r *http.Request) {
	var req types.SimilarityRequest
	if !s.decodeRequest(w, r, &req) {
		return
	}
	threshold := s.threshold
	if req.Threshold != nil {
		threshold = *req.Threshold
	}
	pairs := similarity.FindSimilarPairs(req.Headlines, threshold)
	if pairs == nil {
		pairs = []types.SimilarPair{}
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"threshold": threshold,
		"pairs":     pairs,
	})
}

// handleAlternatives rewrites one headline
func (s *Server) handleAlternatives(w http.ResponseWriter, r *http.Request) {
	var req types.AlternativeRequest
	if !s.decodeRequest(w, r, &req) {
		return
	}
	resp, err := s.rewriter.Alternative(r.Context(), req.Headline, req.Existing, req.UseAI)
	if err != nil {
		s.errResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

// handleDKI renders a keyword insertion template for one keyword or a batch
func (s *Server) handleDKI(w http.ResponseWriter, r *http.Request) {
	var req types.DKIRequest
	if !s.decodeRequest(w, r, &req) {
		return
	}
	if len(req.Keywords) > 0 {
		s.jsonResponse(w, http.StatusOK, map[string]any{
			"results": dki.RenderBatch(req.Template, req.Keywords, req.MaxLength),
		})
		return
	}
	s.jsonResponse(w, http.StatusOK, dki.Render(req.Template, req.Keyword, req.MaxLength))
}

// handlePreview returns seeded preview rotations of a search ad
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	var req types.PreviewRequest
	if !s.decodeRequest(w, r, &req) {
		return
	}
	count := req.Count
	if count <= 0 {
		count = 1
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"seed":         req.Seed,
		"combinations": preview.Combinations(req.SearchAd, req.Seed, count),
	})
}

// handleEvaluate scores and checks a batch of ads
func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	var req types.EvaluateRequest
	if !s.decodeRequest(w, r, &req) {
		return
	}
	if len(req.Ads) > s.maxBatch {
		s.errResponse(w, &ErrValidation{
			Field:   "ads",
			Message: fmt.Sprintf("at most %d ads per request", s.maxBatch),
		})
		return
	}

	var threshold float64
	if req.Threshold != nil {
		threshold = *req.Threshold
	}
	results, err := s.evaluator.Evaluate(r.Context(), req.Ads, threshold)
	if err != nil {
		s.errResponse(w, err)
		return
	}
	for _, res := range results {
		s.metrics.observeStrength(res.Strength)
		s.metrics.observeIssues(res.Issues)
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"results": results})
}
