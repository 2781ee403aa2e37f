package hermes

import (
	"time"

	"github.com/MikeSquared-Agency/claimsight/internal/predictor"
)

const (
	// SubjectPredictionRequested carries PredictionRequest payloads.
	SubjectPredictionRequested = "claims.prediction.requested"
	// SubjectPredictionComputed carries PredictionComputed payloads.
	SubjectPredictionComputed = "claims.prediction.computed"
	// SubjectPredictionHighRisk is published in addition to computed when deny exceeds the alert threshold.
	SubjectPredictionHighRisk = "claims.prediction.high_risk"
	// SubjectRegistered is announced once on startup.
	SubjectRegistered = "claims.agent.claimsight.registered"

	// QueuePredictors is the queue group shared by prediction workers.
	QueuePredictors = "claimsight-predictors"
)

// PredictionRequest asks for a prediction for one claim.
type PredictionRequest struct {
	RequestID string                    `json:"request_id,omitempty"`
	Input     predictor.PredictionInput `json:"input"`
}

// PredictionComputed announces a finished prediction.
// PredictionID is empty when no store is configured.
type PredictionComputed struct {
	RequestID    string                     `json:"request_id,omitempty"`
	PredictionID string                     `json:"prediction_id,omitempty"`
	ClaimID      string                     `json:"claim_id"`
	OrgID        string                     `json:"org_id"`
	Prediction   predictor.PredictionOutput `json:"prediction"`
	Timestamp    time.Time                  `json:"timestamp"`
}

// Registration is the startup announcement payload.
type Registration struct {
	Timestamp    string `json:"timestamp"`
	Port         int    `json:"port"`
	ModelVersion string `json:"model_version"`
	LLM          bool   `json:"llm"`
}
