// Package types provides type definitions for structured data used throughout the ad-quality system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// Strength is the banded label derived from an ad strength score.
type Strength string

const (
	StrengthPoor      Strength = "poor"
	StrengthAverage   Strength = "average"
	StrengthGood      Strength = "good"
	StrengthExcellent Strength = "excellent"
)

// Breakdown holds per-pool points. Caps are 40/30/15/15.
type Breakdown struct {
	Headlines    int `json:"headlines"`
	Descriptions int `json:"descriptions"`
	Sitelinks    int `json:"sitelinks"`
	Callouts     int `json:"callouts"`
}

// Total returns the sum of all pool points.
func (b Breakdown) Total() int {
	return b.Headlines + b.Descriptions + b.Sitelinks + b.Callouts
}

// AdStrengthResult is the outcome of scoring one search ad
type AdStrengthResult struct {
	Score       int       `json:"score"`
	Strength    Strength  `json:"strength"`
	Breakdown   Breakdown `json:"breakdown"`
	Suggestions []string  `json:"suggestions"`
}
