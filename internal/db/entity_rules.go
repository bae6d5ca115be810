package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/ad-quality/internal/rules"
	"github.com/jonathan/ad-quality/internal/types"
)

// GetEntityRules retrieves the stored rules for an entity. Returns nil, nil when none exist.
func (db *DB) GetEntityRules(ctx context.Context, entity string) (*EntityRulesRecord, error) {
	var rec EntityRulesRecord
	err := db.pool.QueryRow(ctx,
		`SELECT id, entity, created_at, updated_at FROM entity_rules WHERE entity_key = $1`,
		rules.Key(entity),
	).Scan(&rec.ID, &rec.Entity, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get entity rules: %w", err)
	}

	rows, err := db.pool.Query(ctx,
		`SELECT kind, term, position FROM entity_rule_terms
		 WHERE entity_rules_id = $1
		 ORDER BY kind, position`,
		rec.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get entity rule terms: %w", err)
	}
	defer rows.Close()

	var terms []Term
	for rows.Next() {
		var t Term
		if err := rows.Scan(&t.Kind, &t.Value, &t.Position); err != nil {
			return nil, fmt.Errorf("failed to scan entity rule term: %w", err)
		}
		terms = append(terms, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate entity rule terms: %w", err)
	}

	rec.Rules = GroupTerms(terms)
	return &rec, nil
}

// UpsertEntityRules replaces the rules for an entity in a single transaction.
func (db *DB) UpsertEntityRules(ctx context.Context, entity string, r *types.EntityRules) (*EntityRulesRecord, error) {
	key := rules.Key(entity)
	if key == "" {
		return nil, fmt.Errorf("entity name is required")
	}

	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var rec EntityRulesRecord
	err = tx.QueryRow(ctx,
		`INSERT INTO entity_rules (id, entity, entity_key)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (entity_key) DO UPDATE SET entity = EXCLUDED.entity, updated_at = NOW()
		 RETURNING id, entity, created_at, updated_at`,
		uuid.New(), entity, key,
	).Scan(&rec.ID, &rec.Entity, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert entity rules: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM entity_rule_terms WHERE entity_rules_id = $1`, rec.ID); err != nil {
		return nil, fmt.Errorf("failed to clear entity rule terms: %w", err)
	}

	terms := FlattenRules(r)
	if len(terms) > 0 {
		batch := &pgx.Batch{}
		for _, t := range terms {
			batch.Queue(
				`INSERT INTO entity_rule_terms (id, entity_rules_id, kind, term, position)
				 VALUES ($1, $2, $3, $4, $5)`,
				uuid.New(), rec.ID, t.Kind, t.Value, t.Position,
			)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return nil, fmt.Errorf("failed to insert entity rule terms: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	rec.Rules = GroupTerms(terms)
	return &rec, nil
}

// DeleteEntityRules removes an entity's rules. Reports whether a row was deleted.
func (db *DB) DeleteEntityRules(ctx context.Context, entity string) (bool, error) {
	tag, err := db.pool.Exec(ctx, `DELETE FROM entity_rules WHERE entity_key = $1`, rules.Key(entity))
	if err != nil {
		return false, fmt.Errorf("failed to delete entity rules: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// ListEntities returns the stored entity names, sorted by key.
func (db *DB) ListEntities(ctx context.Context) ([]string, error) {
	rows, err := db.pool.Query(ctx, `SELECT entity FROM entity_rules ORDER BY entity_key`)
	if err != nil {
		return nil, fmt.Errorf("failed to list entities: %w", err)
	}
	defer rows.Close()

	names, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to list entities: %w", err)
	}
	return names, nil
}

// Rules resolves an entity's rules, satisfying rules.Provider.
func (db *DB) Rules(ctx context.Context, entity string) (*types.EntityRules, error) {
	rec, err := db.GetEntityRules(ctx, entity)
	if err != nil || rec == nil {
		return nil, err
	}
	return &rec.Rules, nil
}

// SaveRules stores an entity's rules, satisfying rules.Store.
func (db *DB) SaveRules(ctx context.Context, entity string, r *types.EntityRules) error {
	if r != nil {
		if err := r.Validate(); err != nil {
			return err
		}
	}
	_, err := db.UpsertEntityRules(ctx, entity, r)
	return err
}

// DeleteRules removes an entity's rules, satisfying rules.Store.
func (db *DB) DeleteRules(ctx context.Context, entity string) (bool, error) {
	return db.DeleteEntityRules(ctx, entity)
}

var _ rules.Store = (*DB)(nil)
