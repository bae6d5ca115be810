// Package types provides type definitions for structured data used throughout the ad-quality system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "github.com/go-playground/validator/v10"

// SearchAd is the asset pools of a responsive search ad.
type SearchAd struct {
	Headlines    []string `json:"headlines" validate:"max=50"`
	Descriptions []string `json:"descriptions" validate:"max=20"`
	Sitelinks    []string `json:"sitelinks" validate:"max=20"`
	Callouts     []string `json:"callouts" validate:"max=20"`
}

// DisplayAd is the asset set of a responsive display ad.
type DisplayAd struct {
	LongHeadline   string   `json:"long_headline"`
	ShortHeadlines []string `json:"short_headlines" validate:"max=20"`
	Descriptions   []string `json:"descriptions" validate:"max=20"`
	CTAText        string   `json:"cta_text"`
}

// PatternRequest asks for the pattern of each headline. Index enables position advice.
type PatternRequest struct {
	Headlines []string `json:"headlines" validate:"required,min=1,max=50"`
	WithIndex bool     `json:"with_index"`
}

// PatternResult pairs a headline with its detected pattern
type PatternResult struct {
	Index          int                     `json:"index"`
	Headline       string                  `json:"headline"`
	Pattern        HeadlinePattern         `json:"pattern"`
	Recommendation *PositionRecommendation `json:"recommendation,omitempty"`
}

// ComplianceRequest checks a search ad. Inline rules win over rules resolved by entity.
type ComplianceRequest struct {
	SearchAd
	Entity string       `json:"entity,omitempty" validate:"max=200"`
	Rules  *EntityRules `json:"rules,omitempty"`
}

// DisplayComplianceRequest checks a display ad.
type DisplayComplianceRequest struct {
	DisplayAd
	Entity string       `json:"entity,omitempty" validate:"max=200"`
	Rules  *EntityRules `json:"rules,omitempty"`
}

// ComplianceResponse is the result of a compliance check
type ComplianceResponse struct {
	Compliant bool              `json:"compliant"`
	Issues    []ComplianceIssue `json:"issues"`
}

// SimilarityRequest asks for near-duplicate headline pairs.
type SimilarityRequest struct {
	Headlines []string `json:"headlines" validate:"required,max=50"`
	Threshold *float64 `json:"threshold,omitempty" validate:"omitempty,gt=0,lte=1"`
}

// AlternativeRequest asks for a rewrite of one headline.
type AlternativeRequest struct {
	Headline string   `json:"headline" validate:"required,max=200"`
	Existing []string `json:"existing,omitempty" validate:"max=50"`
	UseAI    bool     `json:"use_ai"`
}

// AlternativeResponse is a rewritten headline and where it came from
type AlternativeResponse struct {
	Original    string `json:"original"`
	Alternative string `json:"alternative"`
	Source      string `json:"source"`
}

// DKIRequest renders one keyword, or many when Keywords is set.
type DKIRequest struct {
	Template  string   `json:"template" validate:"required,max=500"`
	Keyword   string   `json:"keyword,omitempty" validate:"required_without=Keywords"`
	Keywords  []string `json:"keywords,omitempty" validate:"omitempty,max=500"`
	MaxLength int      `json:"max_length,omitempty" validate:"omitempty,min=1,max=500"`
}

// PreviewRequest asks for a deterministic preview rotation of a search ad.
type PreviewRequest struct {
	SearchAd
	Seed  int64 `json:"seed"`
	Count int   `json:"count,omitempty" validate:"omitempty,min=1,max=20"`
}

// PreviewCombination is one rendered preview of a search ad
type PreviewCombination struct {
	Headlines    []string `json:"headlines"`
	Descriptions []string `json:"descriptions"`
	Sitelinks    []string `json:"sitelinks"`
}

// EvaluateAd is one ad in a batch evaluation.
type EvaluateAd struct {
	ID string `json:"id" validate:"required,max=100"`
	SearchAd
	Entity string       `json:"entity,omitempty" validate:"max=200"`
	Rules  *EntityRules `json:"rules,omitempty"`
}

// EvaluateRequest scores and checks a batch of ads.
type EvaluateRequest struct {
	Ads       []EvaluateAd `json:"ads" validate:"required,min=1,max=500,dive"`
	Threshold *float64     `json:"threshold,omitempty" validate:"omitempty,gt=0,lte=1"`
}

// EvaluateResult is the combined quality report for one ad
type EvaluateResult struct {
	ID           string            `json:"id"`
	Strength     AdStrengthResult  `json:"strength"`
	Compliant    bool              `json:"compliant"`
	Issues       []ComplianceIssue `json:"issues"`
	SimilarPairs []SimilarPair     `json:"similar_pairs"`
}

// Validate validates the PatternRequest using the validator.
func (r *PatternRequest) Validate() error {
	return validator.New().Struct(r)
}

// Validate validates the SearchAd using the validator.
func (r *SearchAd) Validate() error {
	return validator.New().Struct(r)
}

// Validate validates the ComplianceRequest using the validator.
func (r *ComplianceRequest) Validate() error {
	return validator.New().Struct(r)
}

// Validate validates the DisplayComplianceRequest using the validator.
func (r *DisplayComplianceRequest) Validate() error {
	return validator.New().Struct(r)
}

// Validate validates the SimilarityRequest using the validator.
func (r *SimilarityRequest) Validate() error {
	return validator.New().Struct(r)
}

// Validate validates the AlternativeRequest using the validator.
func (r *AlternativeRequest) Validate() error {
	return validator.New().Struct(r)
}

// Validate validates the DKIRequest using the validator.
func (r *DKIRequest) Validate() error {
	return validator.New().Struct(r)
}

// Validate validates the PreviewRequest using the validator.
func (r *PreviewRequest) Validate() error {
	return validator.New().Struct(r)
}

// Validate validates the EvaluateRequest using the validator.
func (r *EvaluateRequest) Validate() error {
	return validator.New().Struct(r)
}
