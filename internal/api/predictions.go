package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/claimsight/internal/predictor"
	"github.com/MikeSquared-Agency/claimsight/internal/processor"
	"github.com/MikeSquared-Agency/claimsight/internal/store"
)

const (
	maxBodyBytes = 1 << 20
	maxBatchSize = 100
)

// BatchRequest is the body of POST /api/v1/predictions/batch.
type BatchRequest struct {
	Inputs []predictor.PredictionInput `json:"inputs"`
}

// BatchResponse lists predictions in request order.
type BatchResponse struct {
	Predictions []predictor.PredictionOutput `json:"predictions"`
	Count       int                          `json:"count"`
}

// ListResponse is the body of the claim history endpoint.
type ListResponse struct {
	Predictions []store.PredictionRecord `json:"predictions"`
	Count       int                      `json:"count"`
}

// createPrediction handles POST /api/v1/predictions
func (s *Server) createPrediction(w http.ResponseWriter, r *http.Request) {
	var in predictor.PredictionInput
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON: %v", err))
		return
	}

	res, err := s.backends.Processor.Process(r.Context(), middleware.GetReqID(r.Context()), in)
	if errors.Is(err, processor.ErrInvalidInput) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		slog.Error("prediction failed", "claim_id", in.ClaimID, "error", err)
		writeError(w, http.StatusInternalServerError, "prediction failed")
		return
	}

	writeJSON(w, http.StatusOK, res)
}

// batchPredictions handles POST /api/v1/predictions/batch
func (s *Server) batchPredictions(w http.ResponseWriter, r *http.Request) {
	var req BatchRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON: %v", err))
		return
	}
	if len(req.Inputs) == 0 {
		writeError(w, http.StatusBadRequest, "inputs must not be empty")
		return
	}
	if len(req.Inputs) > maxBatchSize {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("at most %d inputs per batch", maxBatchSize))
		return
	}
	for i, in := range req.Inputs {
		if err := in.Validate(); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("inputs[%d]: %v", i, err))
			return
		}
	}

	outs, err := s.backends.Batch.PredictAll(r.Context(), req.Inputs, s.backends.BatchConcurrency)
	if err != nil {
		slog.Warn("batch prediction aborted", "count", len(req.Inputs), "error", err)
		writeError(w, http.StatusServiceUnavailable, "batch aborted")
		return
	}

	writeJSON(w, http.StatusOK, BatchResponse{Predictions: outs, Count: len(outs)})
}

// getPrediction handles GET /api/v1/predictions/{predictionID}
func (s *Server) getPrediction(w http.ResponseWriter, r *http.Request) {
	if s.backends.Records == nil {
		writeError(w, http.StatusServiceUnavailable, "prediction storage not configured")
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "predictionID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid prediction id")
		return
	}

	rec, err := s.backends.Records.GetPrediction(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "prediction not found")
		return
	}
	if err != nil {
		slog.Error("get prediction failed", "prediction_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "lookup failed")
		return
	}

	writeJSON(w, http.StatusOK, rec)
}

// listClaimPredictions handles GET /api/v1/orgs/{orgID}/claims/{claimID}/predictions
func (s *Server) listClaimPredictions(w http.ResponseWriter, r *http.Request) {
	if s.backends.Records == nil {
		writeError(w, http.StatusServiceUnavailable, "prediction storage not configured")
		return
	}

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	recs, err := s.backends.Records.ListClaimPredictions(r.Context(), chi.URLParam(r, "orgID"), chi.URLParam(r, "claimID"), limit)
	if err != nil {
		slog.Error("list predictions failed", "error", err)
		writeError(w, http.StatusInternalServerError, "lookup failed")
		return
	}

	writeJSON(w, http.StatusOK, ListResponse{Predictions: recs, Count: len(recs)})
}
