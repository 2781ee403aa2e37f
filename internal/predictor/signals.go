package predictor

import "fmt"

const (
	highDenialRisk    = 50
	farFromStormMiles = 10.0
	minPhotosForFlag  = 5
	minPhotosForRec   = 10
	agedClaimDays     = 90
	smallHailInches   = 1.0
	proceedFullAbove  = 70
)

// Risk flag texts, in emission order.
const (
	RiskHighDenial         = "High denial risk detected"
	RiskFarFromStorm       = "Property is more than 10 miles from the storm center"
	RiskInsufficientPhotos = "Insufficient photo documentation (fewer than 5 photos)"
	RiskNoVideo            = "No video documentation of the damage"
	RiskMissingDocs        = "Missing critical documentation"
	RiskPriorDenial        = "Prior denial on file - appeal required"
	RiskAgedClaim          = "Claim has been open more than 90 days"
	RiskSmallHail          = "Hail under 1 inch may not support a full roof claim"
)

// RiskFlags lists the warnings that apply to the claim. The order is fixed:
// denial risk, then data quality, then history and aging.
func RiskFlags(in PredictionInput, p Probabilities) []string {
	flags := []string{}

	if p.HighDenialRisk() {
		flags = append(flags, RiskHighDenial)
	}
	if d, ok := in.distance(); ok && d > farFromStormMiles {
		flags = append(flags, RiskFarFromStorm)
	}
	if in.PhotoCount != nil && *in.PhotoCount < minPhotosForFlag {
		flags = append(flags, RiskInsufficientPhotos)
	}
	if in.HasVideo != nil && !*in.HasVideo {
		flags = append(flags, RiskNoVideo)
	}
	if in.DominusAnalysis.Has(FlagMissingDocumentation) {
		flags = append(flags, RiskMissingDocs)
	}
	if in.HasDenialLetter {
		flags = append(flags, RiskPriorDenial)
	}
	if in.DaysSinceCreation != nil && *in.DaysSinceCreation > agedClaimDays {
		flags = append(flags, RiskAgedClaim)
	}
	if h, ok := in.hailSize(); ok && h < smallHailInches {
		flags = append(flags, RiskSmallHail)
	}
	return flags
}

// Recommendations maps the claim state to action items. Conditions are
// independent and evaluated in a fixed order.
func Recommendations(in PredictionInput, p Probabilities) []Recommendation {
	recs := []Recommendation{}

	if p.HighDenialRisk() {
		recs = append(recs, Recommendation{
			Title:       "Prepare Denial Rebuttal",
			Description: "Assemble storm reports, damage photos and code citations before the carrier responds.",
			Priority:    PriorityHigh,
			Reasoning:   fmt.Sprintf("Denial probability is %d%%; a rebuttal package shortens the appeal cycle.", p.Deny),
		})
	}
	if in.PhotoCount != nil && *in.PhotoCount < minPhotosForRec {
		recs = append(recs, Recommendation{
			Title:       "Add More Photos",
			Description: "Capture at least 10 photos covering every slope, collateral damage and close-ups of impacts.",
			Priority:    PriorityHigh,
			Reasoning:   fmt.Sprintf("Only %d photos are on file; adjusters discount thinly documented claims.", *in.PhotoCount),
		})
	}
	if !in.hasVideo() {
		recs = append(recs, Recommendation{
			Title:       "Create Video Presentation",
			Description: "Record a narrated walkthrough of the roof and exterior damage.",
			Priority:    PriorityMedium,
			Reasoning:   "Video evidence is harder for the carrier to dispute than still photos.",
		})
	}
	if d, ok := in.distance(); ok && d > farFromStormMiles {
		recs = append(recs, Recommendation{
			Title:       "Strengthen Storm Correlation",
			Description: "Pull hail swath maps and local storm reports that place the event at the property.",
			Priority:    PriorityHigh,
			Reasoning:   fmt.Sprintf("The property is %.1f miles from the storm center, which invites a causation dispute.", d),
		})
	}
	if p.Full > proceedFullAbove {
		recs = append(recs, Recommendation{
			Title:       "Proceed with Confidence",
			Description: "Submit the claim package as documented and schedule the adjuster meeting.",
			Priority:    PriorityMedium,
			Reasoning:   fmt.Sprintf("Full approval probability is %d%%.", p.Full),
		})
	}
	return recs
}

// Confidence scores how much evidence backs the prediction.
func Confidence(in PredictionInput, p Probabilities) int {
	score := 50
	if in.StormImpact != nil {
		score += 15
	}
	if in.DominusAnalysis != nil {
		score += 15
	}
	if in.hasVideo() {
		score += 10
	}
	if in.PhotoCount != nil && *in.PhotoCount >= 10 {
		score += 10
	}
	top := p.Max()
	if top >= 70 {
		score += 10
	}
	if top >= 80 {
		score += 10
	}
	return clampPct(score)
}

// NextMove names the carrier action implied by the dominant outcome. Ties
// resolve toward the less favorable outcome.
func NextMove(p Probabilities) string {
	switch {
	case p.Deny >= p.Full && p.Deny >= p.Partial:
		return "Carrier is likely to deny the claim; have the appeal package ready before the decision letter arrives."
	case p.Partial >= p.Full:
		return "Carrier is likely to approve a partial payment and dispute individual line items."
	default:
		return "Carrier is likely to approve the claim in full after the adjuster inspection."
	}
}

var successPath = [...]SuccessStep{
	{
		Step:       1,
		Action:     "Documentation",
		DoThis:     "Photograph every slope, gutter, vent and soft metal; capture wide shots and close-ups with a scale reference.",
		DontDoThis: "Don't submit a handful of distant photos or images without location context.",
	},
	{
		Step:       2,
		Action:     "AI Analysis",
		DoThis:     "Run the damage analysis on the full photo set and review every flagged item before sharing it.",
		DontDoThis: "Don't forward raw analysis output to the carrier without a human review.",
	},
	{
		Step:       3,
		Action:     "Storm Correlation",
		DoThis:     "Attach hail and wind reports for the date of loss with the distance from the storm center.",
		DontDoThis: "Don't rely on a date of loss that no weather data supports.",
	},
	{
		Step:       4,
		Action:     "Video",
		DoThis:     "Record a narrated walkthrough showing the damage in sequence, ground to roof.",
		DontDoThis: "Don't post unedited footage with no narration or orientation.",
	},
	{
		Step:       5,
		Action:     "Submit",
		DoThis:     "Send one complete package: estimate, photos, video, weather report and analysis summary.",
		DontDoThis: "Don't drip-feed documents; partial submissions reset the carrier's review clock.",
	},
	{
		Step:       6,
		Action:     "Negotiation",
		DoThis:     "Answer each disputed line item with evidence and request a re-inspection when needed.",
		DontDoThis: "Don't accept the first offer or argue without documentation.",
	},
}

// SuccessPath returns the claim playbook. It does not depend on the claim.
func SuccessPath() []SuccessStep {
	out := make([]SuccessStep, len(successPath))
	copy(out, successPath[:])
	return out
}
