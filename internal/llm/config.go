// Package llm provides the language-model client used for AI-assisted ad copy rewrites.
package llm

// ModelTier selects a model by cost and capability.
type ModelTier string

const (
	// TierLite is for short rewrites such as single headlines
	TierLite ModelTier = "lite"
	// TierStandard is for longer copy such as descriptions
	TierStandard ModelTier = "standard"
)

// Config holds the model settings for the client.
type Config struct {
	Models      map[ModelTier]string
	Temperature float32
	// MaxOutputTokens caps each reply; ad copy replies are a few dozen tokens.
	MaxOutputTokens int32
	// SystemInstruction is sent with every request when set.
	SystemInstruction string
}

// DefaultConfig returns the default Gemini configuration.
func DefaultConfig() *Config {
	return &Config{
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
		},
		Temperature:       0.7,
		MaxOutputTokens:   256,
		SystemInstruction: "You write paid search ad copy. Never invent prices, guarantees, awards or rankings.",
	}
}

// GetModel returns the model for tier, falling back to standard and then lite.
func (c *Config) GetModel(tier ModelTier) string {
	for _, t := range []ModelTier{tier, TierStandard, TierLite} {
		if model, ok := c.Models[t]; ok && model != "" {
			return model
		}
	}
	return ""
}

// WithModel returns a copy of c with model set for tier.
func (c *Config) WithModel(tier ModelTier, model string) *Config {
	next := *c
	next.Models = make(map[ModelTier]string, len(c.Models)+1)
	for k, v := range c.Models {
		next.Models[k] = v
	}
	next.Models[tier] = model
	return &next
}
