// Package preview picks deterministic asset combinations for ad previews, so the same
// seed always shows the same rotation.
package preview

import (
	"github.com/jonathan/ad-quality/internal/adtext"
	"github.com/jonathan/ad-quality/internal/types"
)

// LCG constants: seed = (seed*multiplier + increment) % modulus.
const (
	multiplier = 9301
	increment  = 49297
	modulus    = 233280
)

// Asset counts shown in one preview.
const (
	PreviewHeadlines    = 3
	PreviewDescriptions = 2
	PreviewSitelinks    = 4
)

// Picker is a seeded linear congruential generator. It is not safe for concurrent use.
type Picker struct {
	seed int64
}

// NewPicker creates a Picker. Negative seeds are folded into range.
func NewPicker(seed int64) *Picker {
	seed %= modulus
	if seed < 0 {
		seed += modulus
	}
	return &Picker{seed: seed}
}

// Next advances the generator and returns a value in [0, 1).
func (p *Picker) Next() float64 {
	p.seed = (p.seed*multiplier + increment) % modulus
	return float64(p.seed) / modulus
}

// Intn returns a value in [0, n). n must be positive.
func (p *Picker) Intn(n int) int {
	return int(p.Next() * float64(n))
}

// Pick selects up to n distinct entries of pool in selection order. Blank entries are skipped.
func (p *Picker) Pick(pool []string, n int) []string {
	remaining, _ := adtext.NonBlank(pool)
	if n > len(remaining) {
		n = len(remaining)
	}
	picked := make([]string, 0, n)
	for len(picked) < n {
		i := p.Intn(len(remaining))
		picked = append(picked, remaining[i])
		remaining = append(remaining[:i], remaining[i+1:]...)
	}
	return picked
}

// Combination picks one preview: three headlines, two descriptions, up to four sitelinks.
func (p *Picker) Combination(ad types.SearchAd) types.PreviewCombination {
	return types.PreviewCombination{
		Headlines:    p.Pick(ad.Headlines, PreviewHeadlines),
		Descriptions: p.Pick(ad.Descriptions, PreviewDescriptions),
		Sitelinks:    p.Pick(ad.Sitelinks, PreviewSitelinks),
	}
}

// Combinations returns count successive previews from seed.
func Combinations(ad types.SearchAd, seed int64, count int) []types.PreviewCombination {
	p := NewPicker(seed)
	out := make([]types.PreviewCombination, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, p.Combination(ad))
	}
	return out
}
