// Package types provides type definitions for structured data used throughout the ad-quality system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// SimilarPair is two headlines whose similarity reached the threshold. Index1 < Index2 always.
type SimilarPair struct {
	Index1     int     `json:"index1"`
	Index2     int     `json:"index2"`
	Headline1  string  `json:"headline1"`
	Headline2  string  `json:"headline2"`
	Similarity float64 `json:"similarity"`
}
