package rules

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/jonathan/ad-quality/internal/schemas"
	"github.com/jonathan/ad-quality/internal/types"
)

// File is the on-disk layout of an entity rules file.
type File struct {
	Entities map[string]*types.EntityRules `json:"entities"`
}

// StaticProvider serves rules held in memory, typically loaded from a JSON file.
type StaticProvider struct {
	mu    sync.RWMutex
	rules map[string]*types.EntityRules
	names map[string]string
}

// NewStaticProvider creates a provider over the given entity rules.
func NewStaticProvider(entities map[string]*types.EntityRules) *StaticProvider {
	p := &StaticProvider{
		rules: make(map[string]*types.EntityRules, len(entities)),
		names: make(map[string]string, len(entities)),
	}
	for name, r := range entities {
		p.put(name, r)
	}
	return p
}

// LoadFile reads and validates an entity rules file.
func LoadFile(path string) (*StaticProvider, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read entity rules %s: %w", path, err)
	}
	return Parse(data)
}

// Parse validates data against the entity rules schema and builds a provider from it.
func Parse(data []byte) (*StaticProvider, error) {
	if err := schemas.Validate(schemas.EntityRules, data); err != nil {
		return nil, err
	}
	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse entity rules: %w", err)
	}
	return NewStaticProvider(f.Entities), nil
}

// Rules returns a copy of the rules for entity, or nil when none are configured.
func (p *StaticProvider) Rules(_ context.Context, entity string) (*types.EntityRules, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	r, ok := p.rules[Key(entity)]
	if !ok {
		return nil, nil
	}
	return r.Normalized(), nil
}

// SaveRules replaces the rules for entity.
func (p *StaticProvider) SaveRules(_ context.Context, entity string, r *types.EntityRules) error {
	if Key(entity) == "" {
		return fmt.Errorf("entity name is required")
	}
	if r == nil {
		r = &types.EntityRules{}
	}
	if err := r.Validate(); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.put(entity, r)
	return nil
}

// DeleteRules removes the rules for entity.
func (p *StaticProvider) DeleteRules(_ context.Context, entity string) (bool, error) {
	key := Key(entity)
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.rules[key]; !ok {
		return false, nil
	}
	delete(p.rules, key)
	delete(p.names, key)
	return true, nil
}

// ListEntities returns the configured entity names, sorted.
func (p *StaticProvider) ListEntities(_ context.Context) ([]string, error) {
	return p.Entities(), nil
}

// Entities returns the configured entity names, sorted.
func (p *StaticProvider) Entities() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	names := make([]string, 0, len(p.names))
	for _, name := range p.names {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// File returns the provider's contents in file layout.
func (p *StaticProvider) File() File {
	p.mu.RLock()
	defer p.mu.RUnlock()
	f := File{Entities: make(map[string]*types.EntityRules, len(p.rules))}
	for key, r := range p.rules {
		f.Entities[p.names[key]] = r.Normalized()
	}
	return f
}

var _ Store = (*StaticProvider)(nil)

func (p *StaticProvider) put(entity string, r *types.EntityRules) {
	key := Key(entity)
	if key == "" {
		return
	}
	if r == nil {
		r = &types.EntityRules{}
	}
	p.rules[key] = r.Normalized()
	p.names[key] = entity
}
