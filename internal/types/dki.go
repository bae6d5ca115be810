// Package types provides type definitions for structured data used throughout the ad-quality system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// DKIRenderResult is the output of rendering one keyword into a DKI template
type DKIRenderResult struct {
	Keyword        string `json:"keyword,omitempty"`
	Rendered       string `json:"rendered"`
	UsedFallback   bool   `json:"used_fallback"`
	FallbackReason string `json:"fallback_reason,omitempty"`
}
