package predictor

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// DamageFlag is a token emitted by the Dominus damage analysis.
type DamageFlag string

const (
	FlagComprehensiveDamage  DamageFlag = "comprehensive_damage"
	FlagMinimalDamage        DamageFlag = "minimal_damage"
	FlagMissingDocumentation DamageFlag = "missing_documentation"
)

// Urgency is the Dominus urgency label. Values outside the known set are inert.
type Urgency string

const (
	UrgencyCritical Urgency = "critical"
	UrgencyHigh     Urgency = "high"
	UrgencyMedium   Urgency = "medium"
	UrgencyLow      Urgency = "low"
)

// Priority of a recommended step.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// DominusAnalysis is the AI damage assessment attached to a claim.
type DominusAnalysis struct {
	DamageType string       `json:"damageType,omitempty"`
	Urgency    Urgency      `json:"urgency,omitempty"`
	Materials  []string     `json:"materials,omitempty"`
	Flags      []DamageFlag `json:"flags,omitempty"`
}

// Has reports whether the analysis carries flag f.
func (d *DominusAnalysis) Has(f DamageFlag) bool {
	if d == nil {
		return false
	}
	for _, got := range d.Flags {
		if got == f {
			return true
		}
	}
	return false
}

// StormImpact holds storm metrics for the property. Every field is optional.
type StormImpact struct {
	HailSize      *float64 `json:"hailSize,omitempty"`      // inches
	WindSpeed     *float64 `json:"windSpeed,omitempty"`     // mph
	Distance      *float64 `json:"distance,omitempty"`      // miles from storm center
	SeverityScore *float64 `json:"severityScore,omitempty"` // 0-10 composite
}

// PredictionInput is the per-request claim snapshot scored by the predictor.
type PredictionInput struct {
	ClaimID           string           `json:"claimId" validate:"required,max=128"`
	OrgID             string           `json:"orgId" validate:"required,max=128"`
	Stage             string           `json:"stage,omitempty"`
	DominusAnalysis   *DominusAnalysis `json:"dominusAnalysis,omitempty"`
	StormImpact       *StormImpact     `json:"stormImpact,omitempty"`
	PhotoCount        *int             `json:"photoCount,omitempty" validate:"omitempty,gte=0"`
	HasVideo          *bool            `json:"hasVideo,omitempty"`
	HasDenialLetter   bool             `json:"hasDenialLetter,omitempty"`
	DaysSinceCreation *int             `json:"daysSinceCreation,omitempty" validate:"omitempty,gte=0"`
	// TimelineEvents is accepted for callers that already send it; scoring ignores it.
	TimelineEvents []string `json:"timelineEvents,omitempty"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the identifiers and count fields. Storm metrics are not
// range-checked; extreme values are absorbed by normalization.
func (in PredictionInput) Validate() error {
	return validate.Struct(in)
}

func (in PredictionInput) hasVideo() bool {
	return in.HasVideo != nil && *in.HasVideo
}

func (in PredictionInput) storm(get func(*StormImpact) *float64) (float64, bool) {
	if in.StormImpact == nil {
		return 0, false
	}
	v := get(in.StormImpact)
	if v == nil {
		return 0, false
	}
	return *v, true
}

func (in PredictionInput) hailSize() (float64, bool) {
	return in.storm(func(s *StormImpact) *float64 { return s.HailSize })
}

func (in PredictionInput) windSpeed() (float64, bool) {
	return in.storm(func(s *StormImpact) *float64 { return s.WindSpeed })
}

func (in PredictionInput) distance() (float64, bool) {
	return in.storm(func(s *StormImpact) *float64 { return s.Distance })
}

func (in PredictionInput) severityScore() (float64, bool) {
	return in.storm(func(s *StormImpact) *float64 { return s.SeverityScore })
}

// Probabilities is the normalized three-way outcome distribution.
type Probabilities struct {
	Full    int `json:"probabilityFull"`
	Partial int `json:"probabilityPart"`
	Deny    int `json:"probabilityDeny"`
}

// Max returns the largest of the three outcomes.
func (p Probabilities) Max() int {
	return max(p.Full, p.Partial, p.Deny)
}

// HighDenialRisk reports whether denial is above 50%.
func (p Probabilities) HighDenialRisk() bool {
	return p.Deny > highDenialRisk
}

// Recommendation is a prioritized action item.
type Recommendation struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Priority    Priority `json:"priority"`
	Reasoning   string   `json:"reasoning"`
}

// CarrierBehavior describes how the carrier is expected to handle the claim.
type CarrierBehavior struct {
	LikelyStrategy string   `json:"likelyStrategy"`
	CommonTactics  []string `json:"commonTactics"`
	Timeline       string   `json:"timeline"`
}

// SuccessStep is one entry of the claim playbook.
type SuccessStep struct {
	Step       int    `json:"step"`
	Action     string `json:"action"`
	DoThis     string `json:"doThis"`
	DontDoThis string `json:"dontDoThis"`
}

// PredictionOutput is the full result of one prediction.
type PredictionOutput struct {
	ClaimID string `json:"claimId"`
	OrgID   string `json:"orgId"`

	Probabilities
	ConfidenceScore  int              `json:"confidenceScore"`
	RecommendedSteps []Recommendation `json:"recommendedSteps"`
	RiskFlags        []string         `json:"riskFlags"`
	NextMove         string           `json:"nextMove"`
	AISummary        string           `json:"aiSummary"`
	CarrierBehavior  CarrierBehavior  `json:"carrierBehavior"`
	SuccessPath      []SuccessStep    `json:"successPath"`

	ModelVersion string    `json:"modelVersion"`
	GeneratedAt  time.Time `json:"generatedAt"`
}
