// Package types provides type definitions for structured data used throughout the ad-quality system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// PatternType identifies the rhetorical pattern of a headline.
type PatternType string

const (
	PatternQuestion PatternType = "question"
	PatternNumber   PatternType = "number"
	PatternUrgency  PatternType = "urgency"
	PatternBenefit  PatternType = "benefit"
	PatternNone     PatternType = "none"
)

// HeadlinePattern is the classification of a single headline
type HeadlinePattern struct {
	Type        PatternType `json:"type"`
	Indicator   string      `json:"indicator"`
	Boost       int         `json:"boost"`
	Description string      `json:"description"`
}

// PositionRecommendation reports whether a pattern sits at a good headline position
type PositionRecommendation struct {
	IsOptimal bool   `json:"is_optimal"`
	Message   string `json:"message"`
}
