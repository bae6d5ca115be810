package server

import (
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/jonathan/ad-quality/internal/rules"
	"github.com/jonathan/ad-quality/internal/types"
)

// handleListEntities lists entities with stored rules
func (s *Server) handleListEntities(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.errResponse(w, rules.ErrReadOnly)
		return
	}
	entities, err := s.store.ListEntities(r.Context())
	if err != nil {
		s.errResponse(w, fmt.Errorf("failed to list entities: %w", err))
		return
	}
	if entities == nil {
		entities = []string{}
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"entities": entities})
}

// handleGetEntityRules returns the rules for one entity
func (s *Server) handleGetEntityRules(w http.ResponseWriter, r *http.Request) {
	entity := r.PathValue("entity")
	if rules.Key(entity) == "" {
		s.errResponse(w, &ErrValidation{Field: "entity", Message: "is required"})
		return
	}
	var found *types.EntityRules
	if s.rules != nil {
		var err error
		found, err = s.rules.Rules(r.Context(), entity)
		if err != nil {
			s.errResponse(w, fmt.Errorf("failed to get rules for %q: %w", entity, err))
			return
		}
	}
	if found == nil {
		s.errResponse(w, &ErrNotFound{Resource: "entity rules", ID: entity})
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"entity": entity, "rules": found})
}

// handlePutEntityRules replaces the rules for one entity
func (s *Server) handlePutEntityRules(w http.ResponseWriter, r *http.Request) {
	entity := r.PathValue("entity")
	if rules.Key(entity) == "" {
		s.errResponse(w, &ErrValidation{Field: "entity", Message: "is required"})
		return
	}
	if s.store == nil {
		s.errResponse(w, rules.ErrReadOnly)
		return
	}
	var body types.EntityRules
	if !s.decodeRequest(w, r, &body) {
		return
	}
	normalized := body.Normalized()
	if err := s.store.SaveRules(r.Context(), entity, normalized); err != nil {
		s.errResponse(w, validationError(err))
		return
	}
	s.log().Info("entity rules saved",
		zap.String("entity", entity),
		zap.Int("prohibited_words", len(normalized.ProhibitedWords)),
		zap.Int("competitor_names", len(normalized.CompetitorNames)),
		zap.Int("required_disclaimers", len(normalized.RequiredDisclaimers)),
	)
	s.jsonResponse(w, http.StatusOK, map[string]any{"entity": entity, "rules": normalized})
}

// handleDeleteEntityRules removes the rules for one entity
func (s *Server) handleDeleteEntityRules(w http.ResponseWriter, r *http.Request) {
	entity := r.PathValue("entity")
	if s.store == nil {
		s.errResponse(w, rules.ErrReadOnly)
		return
	}
	deleted, err := s.store.DeleteRules(r.Context(), entity)
	if err != nil {
		s.errResponse(w, fmt.Errorf("failed to delete rules for %q: %w", entity, err))
		return
	}
	if !deleted {
		s.errResponse(w, &ErrNotFound{Resource: "entity rules", ID: entity})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
