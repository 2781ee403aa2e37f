package processor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/claimsight/internal/hermes"
	"github.com/MikeSquared-Agency/claimsight/internal/predictor"
)

// ErrInvalidInput wraps validation failures on a prediction input.
var ErrInvalidInput = errors.New("invalid prediction input")

// PredictionStore persists computed predictions.
type PredictionStore interface {
	SavePrediction(ctx context.Context, in predictor.PredictionInput, out predictor.PredictionOutput) (uuid.UUID, error)
}

// Publisher emits events to the bus.
type Publisher interface {
	Publish(subject string, data any) error
}

// RiskAlerter notifies a human channel about high denial risk claims.
type RiskAlerter interface {
	PostRiskAlert(ctx context.Context, predictionID string, out predictor.PredictionOutput) (string, error)
}

// Result is a computed prediction and the id it was stored under, if any.
type Result struct {
	PredictionID string                     `json:"predictionId,omitempty"`
	Prediction   predictor.PredictionOutput `json:"prediction"`
}

// Processor runs the prediction pipeline: validate, predict, persist, announce.
// Store, publisher and alerter are all optional.
type Processor struct {
	predictor *predictor.Predictor
	store     PredictionStore
	publisher Publisher
	alerter   RiskAlerter
	logger    *slog.Logger
}

func New(pr *predictor.Predictor, s PredictionStore, pub Publisher, al RiskAlerter, logger *slog.Logger) *Processor {
	return &Processor{
		predictor: pr,
		store:     s,
		publisher: pub,
		alerter:   al,
		logger:    logger,
	}
}

// HandlePredictionRequested is the NATS handler for claims.prediction.requested.
func (p *Processor) HandlePredictionRequested(subject string, data []byte) {
	ctx := context.Background()

	var req hermes.PredictionRequest
	if err := json.Unmarshal(data, &req); err != nil {
		p.logger.Error("failed to parse prediction request", "subject", subject, "error", err)
		return
	}

	p.logger.Info("processing prediction request",
		"request_id", req.RequestID,
		"claim_id", req.Input.ClaimID,
		"org_id", req.Input.OrgID,
	)

	if _, err := p.Process(ctx, req.RequestID, req.Input); err != nil {
		p.logger.Error("prediction request rejected", "request_id", req.RequestID, "error", err)
	}
}

// Process validates and predicts one claim. Only validation fails the call:
// persistence, publish and alert failures are logged and the prediction is
// still returned.
func (p *Processor) Process(ctx context.Context, requestID string, in predictor.PredictionInput) (Result, error) {
	if err := in.Validate(); err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	out := p.predictor.Predict(ctx, in)
	res := Result{Prediction: out}

	if p.store != nil {
		id, err := p.store.SavePrediction(ctx, in, out)
		if err != nil {
			p.logger.Error("failed to persist prediction", "claim_id", in.ClaimID, "error", err)
		} else {
			res.PredictionID = id.String()
		}
	}

	evt := hermes.PredictionComputed{
		RequestID:    requestID,
		PredictionID: res.PredictionID,
		ClaimID:      out.ClaimID,
		OrgID:        out.OrgID,
		Prediction:   out,
		Timestamp:    time.Now().UTC(),
	}
	p.publish(hermes.SubjectPredictionComputed, evt)

	if out.HighDenialRisk() {
		p.publish(hermes.SubjectPredictionHighRisk, evt)
		if p.alerter != nil {
			if _, err := p.alerter.PostRiskAlert(ctx, res.PredictionID, out); err != nil {
				p.logger.Error("slack risk alert failed", "claim_id", out.ClaimID, "error", err)
			}
		}
	}

	p.logger.Info("prediction computed",
		"request_id", requestID,
		"prediction_id", res.PredictionID,
		"claim_id", out.ClaimID,
		"deny", out.Deny,
		"confidence", out.ConfidenceScore,
	)
	return res, nil
}

func (p *Processor) publish(subject string, evt any) {
	if p.publisher == nil {
		return
	}
	if err := p.publisher.Publish(subject, evt); err != nil {
		p.logger.Error("failed to publish event", "subject", subject, "error", err)
	}
}
