package predictor

import (
	"fmt"
	"strings"
)

const carrierSystemPrompt = `You are an insurance claims strategist who has worked for property carriers.
Given a roofing claim and its outcome probabilities, predict how the carrier will handle it.

Respond with valid JSON only, matching this schema:
{
  "likelyStrategy": "one sentence",
  "commonTactics": ["tactic", "tactic", "tactic"],
  "timeline": "expected decision timeline"
}`

const narrativeSystemPrompt = `You are a claims analyst writing for a roofing contractor.
Summarize the claim outlook in 2-3 plain sentences. No headings, no lists, no markdown.`

const carrierUserPrompt = `Claim: %s
Stage: %s

Storm impact:
%s
Damage analysis:
%s
Evidence:
- photos: %s
- video: %s
- prior denial letter: %t
- days since creation: %s

Predicted outcome: %d%% full approval, %d%% partial approval, %d%% denial.`

const narrativeUserPrompt = `Claim: %s
Predicted outcome: %d%% full approval, %d%% partial approval, %d%% denial.
Risk flags: %s

Expected carrier strategy: %s
Common tactics: %s
Timeline: %s`

func buildCarrierPrompt(in PredictionInput, p Probabilities) string {
	return fmt.Sprintf(carrierUserPrompt,
		in.ClaimID,
		orUnknown(in.Stage),
		describeStorm(in),
		describeDominus(in.DominusAnalysis),
		optInt(in.PhotoCount),
		optBool(in.HasVideo),
		in.HasDenialLetter,
		optInt(in.DaysSinceCreation),
		p.Full, p.Partial, p.Deny,
	)
}

func buildNarrativePrompt(in PredictionInput, p Probabilities, flags []string, cb CarrierBehavior) string {
	risk := "none"
	if len(flags) > 0 {
		risk = strings.Join(flags, "; ")
	}
	return fmt.Sprintf(narrativeUserPrompt,
		in.ClaimID,
		p.Full, p.Partial, p.Deny,
		risk,
		cb.LikelyStrategy,
		strings.Join(cb.CommonTactics, "; "),
		cb.Timeline,
	)
}

func describeStorm(in PredictionInput) string {
	if in.StormImpact == nil {
		return "- no storm data\n"
	}
	var sb strings.Builder
	write := func(label, unit string, v float64, ok bool) {
		if ok {
			fmt.Fprintf(&sb, "- %s: %g%s\n", label, v, unit)
		}
	}
	v, ok := in.hailSize()
	write("hail size", " in", v, ok)
	v, ok = in.windSpeed()
	write("wind speed", " mph", v, ok)
	v, ok = in.distance()
	write("distance from storm center", " mi", v, ok)
	v, ok = in.severityScore()
	write("severity score", "/10", v, ok)
	if sb.Len() == 0 {
		return "- no storm metrics\n"
	}
	return sb.String()
}

func describeDominus(d *DominusAnalysis) string {
	if d == nil {
		return "- not analyzed\n"
	}
	flags := make([]string, len(d.Flags))
	for i, f := range d.Flags {
		flags[i] = string(f)
	}
	return fmt.Sprintf("- damage type: %s\n- urgency: %s\n- flags: %s\n",
		orUnknown(d.DamageType), orUnknown(string(d.Urgency)), orUnknown(strings.Join(flags, ", ")))
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}

func optInt(v *int) string {
	if v == nil {
		return "unknown"
	}
	return fmt.Sprint(*v)
}

func optBool(v *bool) string {
	if v == nil {
		return "unknown"
	}
	return fmt.Sprint(*v)
}
