// Package predictor scores a roofing insurance claim and predicts how the
// carrier is likely to settle it.
package predictor

import (
	"context"
	"io"
	"log/slog"
	"time"
)

const defaultTimeout = 10 * time.Second

// Predictor composes the outcome model with the optional text generator.
// It holds no per-claim state and is safe for concurrent use.
type Predictor struct {
	model   *Model
	llm     TextGenerator
	logger  *slog.Logger
	timeout time.Duration
	now     func() time.Time
}

type Option func(*Predictor)

// WithLogger sets the logger used for external-call failures.
func WithLogger(l *slog.Logger) Option {
	return func(p *Predictor) { p.logger = l }
}

// WithTimeout bounds each text generation call.
func WithTimeout(d time.Duration) Option {
	return func(p *Predictor) {
		if d > 0 {
			p.timeout = d
		}
	}
}

func withClock(now func() time.Time) Option {
	return func(p *Predictor) { p.now = now }
}

// New returns a Predictor. A nil model uses the embedded weights; a nil llm
// runs offline and always uses the templated carrier and summary text.
func New(model *Model, llm TextGenerator, opts ...Option) *Predictor {
	if model == nil {
		model = NewModel(nil)
	}
	p := &Predictor{
		model:   model,
		llm:     llm,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		timeout: defaultTimeout,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ModelVersion reports the weights version stamped on outputs.
func (pr *Predictor) ModelVersion() string {
	return pr.model.Version()
}

// Predict scores the claim. It never fails: external-call errors are logged
// and replaced by deterministic fallbacks.
func (pr *Predictor) Predict(ctx context.Context, in PredictionInput) PredictionOutput {
	probs := pr.model.Probabilities(in)
	flags := RiskFlags(in, probs)
	confidence := Confidence(in, probs)
	recs := Recommendations(in, probs)

	carrier := pr.carrierBehavior(ctx, in, probs)
	summary := pr.summary(ctx, in, probs, flags, carrier)

	pr.logger.Debug("claim predicted",
		"claim_id", in.ClaimID,
		"org_id", in.OrgID,
		"full", probs.Full,
		"partial", probs.Partial,
		"deny", probs.Deny,
		"confidence", confidence,
	)

	return PredictionOutput{
		ClaimID:          in.ClaimID,
		OrgID:            in.OrgID,
		Probabilities:    probs,
		ConfidenceScore:  confidence,
		RecommendedSteps: recs,
		RiskFlags:        flags,
		NextMove:         NextMove(probs),
		AISummary:        summary,
		CarrierBehavior:  carrier,
		SuccessPath:      SuccessPath(),
		ModelVersion:     pr.model.Version(),
		GeneratedAt:      pr.now().UTC(),
	}
}
