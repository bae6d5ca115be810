// Package rules resolves per-entity compliance rules from a file, a database or a cache in front
// of either.
package rules

import (
	"context"
	"errors"
	"strings"

	"github.com/jonathan/ad-quality/internal/types"
)

// ErrReadOnly is returned when saving to a provider that cannot store rules.
var ErrReadOnly = errors.New("rules provider is read-only")

// Provider resolves the rules for an entity. Unknown entities yield nil rules and a nil
// error, meaning only baseline checks apply.
type Provider interface {
	Rules(ctx context.Context, entity string) (*types.EntityRules, error)
}

// Store is a Provider that also accepts updates.
type Store interface {
	Provider
	SaveRules(ctx context.Context, entity string, rules *types.EntityRules) error
	// DeleteRules reports whether the entity had rules.
	DeleteRules(ctx context.Context, entity string) (bool, error)
	ListEntities(ctx context.Context) ([]string, error)
}

// Key is the lookup key for an entity name: trimmed and lowercased.
func Key(entity string) string {
	return strings.ToLower(strings.TrimSpace(entity))
}

// Resolve returns explicit when it is non-nil, otherwise the provider's rules for entity.
// A nil provider or a blank entity resolves to nil.
func Resolve(ctx context.Context, p Provider, entity string, explicit *types.EntityRules) (*types.EntityRules, error) {
	if explicit != nil {
		return explicit.Normalized(), nil
	}
	if p == nil || Key(entity) == "" {
		return nil, nil
	}
	return p.Rules(ctx, entity)
}
