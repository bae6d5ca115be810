package rules

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/ad-quality/internal/types"
)

const rulesJSON = `{
  "entities": {
    "Acme Markets": {
      "prohibited_words": ["risk-free", " Risk-Free ", "guaranteed returns"],
      "competitor_names": ["RivalFX"],
      "required_disclaimers": ["Capital at risk"]
    },
    "Beta Bank": {
      "prohibited_words": [],
      "competitor_names": ["Acme Markets"]
    }
  }
}`

func TestParse(t *testing.T) {
	p, err := Parse([]byte(rulesJSON))
	require.NoError(t, err)

	assert.Equal(t, []string{"Acme Markets", "Beta Bank"}, p.Entities())

	r, err := p.Rules(context.Background(), "  acme markets ")
	require.NoError(t, err)
	require.NotNil(t, r)
	assert.Equal(t, []string{"risk-free", "guaranteed returns"}, r.ProhibitedWords)
	assert.Equal(t, []string{"RivalFX"}, r.CompetitorNames)
	assert.Equal(t, []string{"Capital at risk"}, r.RequiredDisclaimers)

	missing, err := p.Rules(context.Background(), "Unknown Co")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestParse_RejectsInvalidDocuments(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not json", `{`},
		{"missing entities", `{}`},
		{"unknown field", `{"entities": {"A": {"banned": ["x"]}}}`},
		{"empty term", `{"entities": {"A": {"prohibited_words": [""]}}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.json")
	require.NoError(t, os.WriteFile(path, []byte(rulesJSON), 0o600))

	p, err := LoadFile(path)
	require.NoError(t, err)
	assert.Len(t, p.Entities(), 2)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestStaticProvider_SaveRules(t *testing.T) {
	ctx := context.Background()
	p := NewStaticProvider(nil)

	require.NoError(t, p.SaveRules(ctx, "Gamma", &types.EntityRules{ProhibitedWords: []string{"free money"}}))
	r, err := p.Rules(ctx, "GAMMA")
	require.NoError(t, err)
	assert.Equal(t, []string{"free money"}, r.ProhibitedWords)

	assert.Error(t, p.SaveRules(ctx, " ", &types.EntityRules{}))
	assert.Error(t, p.SaveRules(ctx, "Gamma", &types.EntityRules{ProhibitedWords: []string{""}}))

	f := p.File()
	assert.Contains(t, f.Entities, "Gamma")
}

func TestStaticProvider_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	p := NewStaticProvider(map[string]*types.EntityRules{"A": {ProhibitedWords: []string{"x"}}})

	r, err := p.Rules(ctx, "A")
	require.NoError(t, err)
	r.ProhibitedWords[0] = "mutated"

	again, err := p.Rules(ctx, "A")
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, again.ProhibitedWords)
}

type countingProvider struct {
	calls int
	rules *types.EntityRules
	err   error
}

func (c *countingProvider) Rules(context.Context, string) (*types.EntityRules, error) {
	c.calls++
	return c.rules, c.err
}

func TestCachedProvider(t *testing.T) {
	ctx := context.Background()
	next := &countingProvider{rules: &types.EntityRules{CompetitorNames: []string{"RivalFX"}}}
	c := NewCachedProvider(next, time.Minute)

	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return clock }

	for i := 0; i < 3; i++ {
		r, err := c.Rules(ctx, "Acme")
		require.NoError(t, err)
		assert.Equal(t, []string{"RivalFX"}, r.CompetitorNames)
	}
	assert.Equal(t, 1, next.calls)

	clock = clock.Add(2 * time.Minute)
	_, err := c.Rules(ctx, "acme")
	require.NoError(t, err)
	assert.Equal(t, 2, next.calls)

	c.Invalidate("ACME")
	_, err = c.Rules(ctx, "Acme")
	require.NoError(t, err)
	assert.Equal(t, 3, next.calls)
}

func TestCachedProvider_CachesMissesNotErrors(t *testing.T) {
	ctx := context.Background()

	miss := &countingProvider{}
	c := NewCachedProvider(miss, 0)
	for i := 0; i < 2; i++ {
		r, err := c.Rules(ctx, "Nobody")
		require.NoError(t, err)
		assert.Nil(t, r)
	}
	assert.Equal(t, 1, miss.calls)

	failing := &countingProvider{err: errors.New("db down")}
	c = NewCachedProvider(failing, 0)
	for i := 0; i < 2; i++ {
		_, err := c.Rules(ctx, "Acme")
		assert.Error(t, err)
	}
	assert.Equal(t, 2, failing.calls)
}

func TestCachedProvider_SaveRules(t *testing.T) {
	ctx := context.Background()

	ro := NewCachedProvider(&countingProvider{}, 0)
	assert.ErrorIs(t, ro.SaveRules(ctx, "A", &types.EntityRules{}), ErrReadOnly)

	static := NewStaticProvider(map[string]*types.EntityRules{"A": {ProhibitedWords: []string{"old"}}})
	c := NewCachedProvider(static, time.Hour)

	r, err := c.Rules(ctx, "A")
	require.NoError(t, err)
	assert.Equal(t, []string{"old"}, r.ProhibitedWords)

	require.NoError(t, c.SaveRules(ctx, "A", &types.EntityRules{ProhibitedWords: []string{"new"}}))
	r, err = c.Rules(ctx, "A")
	require.NoError(t, err)
	assert.Equal(t, []string{"new"}, r.ProhibitedWords)
}

// stallingStore holds its first Rules answer until release is closed.
type stallingStore struct {
	*StaticProvider
	fetched chan struct{}
	release chan struct{}
	once    sync.Once
}

func (s *stallingStore) Rules(ctx context.Context, entity string) (*types.EntityRules, error) {
	r, err := s.StaticProvider.Rules(ctx, entity)
	s.once.Do(func() {
		close(s.fetched)
		<-s.release
	})
	return r, err
}

func TestCachedProvider_SaveDuringFetchIsNotOverwritten(t *testing.T) {
	tests := []struct {
		name   string
		change func(ctx context.Context, c *CachedProvider) error
		want   []string
	}{
		{
			name: "save",
			change: func(ctx context.Context, c *CachedProvider) error {
				return c.SaveRules(ctx, "A", &types.EntityRules{ProhibitedWords: []string{"new"}})
			},
			want: []string{"new"},
		},
		{
			name: "delete",
			change: func(ctx context.Context, c *CachedProvider) error {
				_, err := c.DeleteRules(ctx, "A")
				return err
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			store := &stallingStore{
				StaticProvider: NewStaticProvider(map[string]*types.EntityRules{"A": {ProhibitedWords: []string{"old"}}}),
				fetched:        make(chan struct{}),
				release:        make(chan struct{}),
			}
			c := NewCachedProvider(store, time.Hour)

			done := make(chan *types.EntityRules)
			go func() {
				r, _ := c.Rules(ctx, "A")
				done <- r
			}()

			<-store.fetched
			require.NoError(t, tt.change(ctx, c))
			close(store.release)
			stale := <-done
			require.NotNil(t, stale)
			assert.Equal(t, []string{"old"}, stale.ProhibitedWords)

			r, err := c.Rules(ctx, "a")
			require.NoError(t, err)
			if tt.want == nil {
				assert.Nil(t, r)
				return
			}
			require.NotNil(t, r)
			assert.Equal(t, tt.want, r.ProhibitedWords)
		})
	}
}

func TestResolve(t *testing.T) {
	ctx := context.Background()
	p := NewStaticProvider(map[string]*types.EntityRules{"A": {ProhibitedWords: []string{"x"}}})

	explicit := &types.EntityRules{CompetitorNames: []string{" Rival "}}
	r, err := Resolve(ctx, p, "A", explicit)
	require.NoError(t, err)
	assert.Equal(t, []string{"Rival"}, r.CompetitorNames)

	r, err = Resolve(ctx, p, "A", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, r.ProhibitedWords)

	r, err = Resolve(ctx, nil, "A", nil)
	require.NoError(t, err)
	assert.Nil(t, r)

	r, err = Resolve(ctx, p, "  ", nil)
	require.NoError(t, err)
	assert.Nil(t, r)
}

func TestStore_DeleteAndList(t *testing.T) {
	ctx := context.Background()
	static := NewStaticProvider(map[string]*types.EntityRules{
		"Acme":  {ProhibitedWords: []string{"x"}},
		"Beta":  {},
		"Gamma": {},
	})
	c := NewCachedProvider(static, time.Hour)

	_, err := c.Rules(ctx, "Acme")
	require.NoError(t, err)

	deleted, err := c.DeleteRules(ctx, "ACME")
	require.NoError(t, err)
	assert.True(t, deleted)

	r, err := c.Rules(ctx, "Acme")
	require.NoError(t, err)
	assert.Nil(t, r)

	deleted, err = c.DeleteRules(ctx, "Acme")
	require.NoError(t, err)
	assert.False(t, deleted)

	names, err := c.ListEntities(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Beta", "Gamma"}, names)

	ro := NewCachedProvider(&countingProvider{}, 0)
	_, err = ro.DeleteRules(ctx, "A")
	assert.ErrorIs(t, err, ErrReadOnly)
	_, err = ro.ListEntities(ctx)
	assert.ErrorIs(t, err, ErrReadOnly)
}
