package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/MikeSquared-Agency/claimsight/internal/predictor"
)

// PredictionRecord is a stored prediction with the input it was computed from.
type PredictionRecord struct {
	ID        uuid.UUID                  `json:"id"`
	Input     predictor.PredictionInput  `json:"input"`
	Output    predictor.PredictionOutput `json:"output"`
	CreatedAt time.Time                  `json:"createdAt"`
}

// SavePrediction writes a prediction across the prediction tables.
// Tables: claim_predictions, claim_prediction_steps, claim_prediction_risk_flags.
func (s *Store) SavePrediction(ctx context.Context, in predictor.PredictionInput, out predictor.PredictionOutput) (uuid.UUID, error) {
	inputJSON, err := json.Marshal(in)
	if err != nil {
		return uuid.Nil, fmt.Errorf("marshal input: %w", err)
	}
	carrierJSON, err := json.Marshal(out.CarrierBehavior)
	if err != nil {
		return uuid.Nil, fmt.Errorf("marshal carrier behavior: %w", err)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return uuid.Nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	// 1. Insert prediction
	predictionID := uuid.New()
	createdAt := out.GeneratedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	_, err = tx.Exec(ctx, `
		INSERT INTO claim_predictions (id, org_id, claim_id, stage, probability_full, probability_partial, probability_deny,
			confidence_score, next_move, ai_summary, carrier_behavior, model_version, input, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		predictionID, in.OrgID, in.ClaimID, in.Stage, out.Full, out.Partial, out.Deny,
		out.ConfidenceScore, out.NextMove, out.AISummary, carrierJSON, out.ModelVersion, inputJSON, createdAt,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("insert prediction: %w", err)
	}

	// 2. Insert recommended steps
	for i, rec := range out.RecommendedSteps {
		_, err = tx.Exec(ctx, `
			INSERT INTO claim_prediction_steps (id, prediction_id, position, title, description, priority, reasoning)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			uuid.New(), predictionID, i, rec.Title, rec.Description, string(rec.Priority), rec.Reasoning,
		)
		if err != nil {
			return uuid.Nil, fmt.Errorf("insert step: %w", err)
		}
	}

	// 3. Insert risk flags
	for i, flag := range out.RiskFlags {
		_, err = tx.Exec(ctx, `
			INSERT INTO claim_prediction_risk_flags (id, prediction_id, position, flag)
			VALUES ($1, $2, $3, $4)`,
			uuid.New(), predictionID, i, flag,
		)
		if err != nil {
			return uuid.Nil, fmt.Errorf("insert risk flag: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return uuid.Nil, fmt.Errorf("commit: %w", err)
	}

	return predictionID, nil
}

const selectPrediction = `
	SELECT p.id, p.probability_full, p.probability_partial, p.probability_deny, p.confidence_score,
		p.next_move, p.ai_summary, p.carrier_behavior, p.model_version, p.input, p.created_at,
		COALESCE((
			SELECT json_agg(json_build_object(
				'title', s.title, 'description', s.description, 'priority', s.priority, 'reasoning', s.reasoning
			) ORDER BY s.position)
			FROM claim_prediction_steps s WHERE s.prediction_id = p.id
		), '[]'::json),
		COALESCE((
			SELECT array_agg(f.flag ORDER BY f.position)
			FROM claim_prediction_risk_flags f WHERE f.prediction_id = p.id
		), '{}'::text[])
	FROM claim_predictions p`

func scanPrediction(row pgx.Row) (*PredictionRecord, error) {
	var (
		rec                          PredictionRecord
		carrierJSON, inputJSON, steps []byte
	)
	out := &rec.Output
	err := row.Scan(&rec.ID, &out.Full, &out.Partial, &out.Deny, &out.ConfidenceScore,
		&out.NextMove, &out.AISummary, &carrierJSON, &out.ModelVersion, &inputJSON, &rec.CreatedAt,
		&steps, &out.RiskFlags)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(carrierJSON, &out.CarrierBehavior); err != nil {
		return nil, fmt.Errorf("decode carrier behavior: %w", err)
	}
	if err := json.Unmarshal(inputJSON, &rec.Input); err != nil {
		return nil, fmt.Errorf("decode input: %w", err)
	}
	if err := json.Unmarshal(steps, &out.RecommendedSteps); err != nil {
		return nil, fmt.Errorf("decode steps: %w", err)
	}
	out.ClaimID = rec.Input.ClaimID
	out.OrgID = rec.Input.OrgID
	out.GeneratedAt = rec.CreatedAt.UTC()
	out.SuccessPath = predictor.SuccessPath()
	return &rec, nil
}

// GetPrediction fetches one prediction by id.
func (s *Store) GetPrediction(ctx context.Context, id uuid.UUID) (*PredictionRecord, error) {
	rec, err := scanPrediction(s.pool.QueryRow(ctx, selectPrediction+` WHERE p.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get prediction: %w", err)
	}
	return rec, nil
}

// ListClaimPredictions returns the newest predictions for a claim first.
func (s *Store) ListClaimPredictions(ctx context.Context, orgID, claimID string, limit int) ([]PredictionRecord, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	rows, err := s.pool.Query(ctx, selectPrediction+`
		WHERE p.org_id = $1 AND p.claim_id = $2
		ORDER BY p.created_at DESC
		LIMIT $3`,
		orgID, claimID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list predictions: %w", err)
	}
	defer rows.Close()

	records := []PredictionRecord{}
	for rows.Next() {
		rec, err := scanPrediction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan prediction: %w", err)
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate predictions: %w", err)
	}
	return records, nil
}
