package predictor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// GenerationRequest is a single system+user prompt call.
type GenerationRequest struct {
	System      string
	Prompt      string
	MaxTokens   int
	Temperature float64
}

// TextGenerator produces free text for a prompt. Output is untrusted: it may
// be empty or malformed.
type TextGenerator interface {
	Generate(ctx context.Context, req GenerationRequest) (string, error)
}

var errEmptyResponse = errors.New("empty response")

var fallbackCarrierBehavior = CarrierBehavior{
	LikelyStrategy: "Standard review process with a field adjuster inspection",
	CommonTactics: []string{
		"Request additional documentation",
		"Schedule a re-inspection",
		"Dispute individual line items",
	},
	Timeline: "30-45 days",
}

func fallbackCarrier() CarrierBehavior {
	cb := fallbackCarrierBehavior
	cb.CommonTactics = append([]string(nil), fallbackCarrierBehavior.CommonTactics...)
	return cb
}

func fallbackSummary(p Probabilities) string {
	s := fmt.Sprintf("This claim has a %d%% probability of full approval and a %d%% probability of partial approval.", p.Full, p.Partial)
	if p.HighDenialRisk() {
		s += fmt.Sprintf(" Denial risk is high at %d%%; prepare a rebuttal package before the carrier decides.", p.Deny)
	}
	return s
}

// carrierBehavior asks the generator for the carrier's likely handling and
// falls back to a fixed answer on any failure.
func (pr *Predictor) carrierBehavior(ctx context.Context, in PredictionInput, p Probabilities) CarrierBehavior {
	if pr.llm == nil {
		return fallbackCarrier()
	}
	raw, err := pr.generate(ctx, GenerationRequest{
		System:      carrierSystemPrompt,
		Prompt:      buildCarrierPrompt(in, p),
		MaxTokens:   500,
		Temperature: 0.3,
	})
	if err != nil {
		pr.logger.Warn("carrier behavior generation failed, using fallback", "claim_id", in.ClaimID, "error", err)
		return fallbackCarrier()
	}
	cb, err := parseCarrierBehavior(raw)
	if err != nil {
		pr.logger.Warn("carrier behavior response unusable, using fallback", "claim_id", in.ClaimID, "error", err)
		return fallbackCarrier()
	}
	return cb
}

// summary writes the narrative. It runs after carrierBehavior because the
// prompt embeds the carrier prediction.
func (pr *Predictor) summary(ctx context.Context, in PredictionInput, p Probabilities, flags []string, cb CarrierBehavior) string {
	if pr.llm == nil {
		return fallbackSummary(p)
	}
	raw, err := pr.generate(ctx, GenerationRequest{
		System:      narrativeSystemPrompt,
		Prompt:      buildNarrativePrompt(in, p, flags, cb),
		MaxTokens:   300,
		Temperature: 0.5,
	})
	if err != nil {
		pr.logger.Warn("summary generation failed, using fallback", "claim_id", in.ClaimID, "error", err)
		return fallbackSummary(p)
	}
	return strings.TrimSpace(raw)
}

func (pr *Predictor) generate(ctx context.Context, req GenerationRequest) (out string, err error) {
	ctx, cancel := context.WithTimeout(ctx, pr.timeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("generator panic: %v", r)
		}
	}()

	out, err = pr.llm.Generate(ctx, req)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(out) == "" {
		return "", errEmptyResponse
	}
	return out, nil
}

type carrierJSON struct {
	LikelyStrategy string   `json:"likelyStrategy"`
	CommonTactics  []string `json:"commonTactics"`
	Timeline       string   `json:"timeline"`
}

// parseCarrierBehavior reads the JSON shape requested in the prompt and
// falls back to a line split: first line is the strategy, the next three
// are tactics, the last non-empty line is the timeline.
func parseCarrierBehavior(raw string) (CarrierBehavior, error) {
	clean := stripCodeFences(raw)
	var cj carrierJSON
	if err := json.Unmarshal([]byte(clean), &cj); err == nil && strings.TrimSpace(cj.LikelyStrategy) != "" {
		cb := CarrierBehavior{
			LikelyStrategy: strings.TrimSpace(cj.LikelyStrategy),
			Timeline:       strings.TrimSpace(cj.Timeline),
		}
		for _, t := range cj.CommonTactics {
			if t = strings.TrimSpace(t); t != "" && len(cb.CommonTactics) < 3 {
				cb.CommonTactics = append(cb.CommonTactics, t)
			}
		}
		return fillCarrierGaps(cb), nil
	}

	var lines []string
	for _, l := range strings.Split(clean, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	if len(lines) == 0 {
		return CarrierBehavior{}, errEmptyResponse
	}
	cb := CarrierBehavior{
		LikelyStrategy: lines[0],
		Timeline:       lines[len(lines)-1],
	}
	end := min(len(lines), 4)
	for _, l := range lines[1:end] {
		cb.CommonTactics = append(cb.CommonTactics, strings.TrimLeft(l, "-*• "))
	}
	return fillCarrierGaps(cb), nil
}

func fillCarrierGaps(cb CarrierBehavior) CarrierBehavior {
	if len(cb.CommonTactics) == 0 {
		cb.CommonTactics = fallbackCarrier().CommonTactics
	}
	if cb.Timeline == "" {
		cb.Timeline = fallbackCarrierBehavior.Timeline
	}
	return cb
}

func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		parts := strings.SplitN(s, "\n", 2)
		if len(parts) == 2 {
			s = parts[1]
		}
		s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "```"))
	}
	return s
}
