package api

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/claimsight/internal/predictor"
	"github.com/MikeSquared-Agency/claimsight/internal/processor"
	"github.com/MikeSquared-Agency/claimsight/internal/store"
)

// PredictionProcessor computes, persists and announces a single prediction.
type PredictionProcessor interface {
	Process(ctx context.Context, requestID string, in predictor.PredictionInput) (processor.Result, error)
}

// BatchPredictor scores many inputs without side effects.
type BatchPredictor interface {
	PredictAll(ctx context.Context, inputs []predictor.PredictionInput, concurrency int) ([]predictor.PredictionOutput, error)
}

// PredictionReader reads stored predictions.
type PredictionReader interface {
	GetPrediction(ctx context.Context, id uuid.UUID) (*store.PredictionRecord, error)
	ListClaimPredictions(ctx context.Context, orgID, claimID string, limit int) ([]store.PredictionRecord, error)
}

// Backends are the components the HTTP handlers call into.
// Records may be nil when no database is configured.
type Backends struct {
	Processor        PredictionProcessor
	Batch            BatchPredictor
	Records          PredictionReader
	BatchConcurrency int
	ModelVersion     string
}

type Server struct {
	router   *chi.Mux
	port     int
	backends Backends
}

func NewServer(port int, apiToken string, b Backends) *Server {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	s := &Server{
		router:   router,
		port:     port,
		backends: b,
	}

	router.Get("/health", s.health)

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(BearerAuthMiddleware(apiToken))
		r.Get("/claimsight/status", s.status)
		r.Post("/predictions", s.createPrediction)
		r.Post("/predictions/batch", s.batchPredictions)
		r.Get("/predictions/{predictionID}", s.getPrediction)
		r.Get("/orgs/{orgID}/claims/{claimID}/predictions", s.listClaimPredictions)
	})

	return s
}

func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	slog.Info("API server starting", "addr", addr)
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return srv.ListenAndServe()
}

// BearerAuthMiddleware rejects requests without the configured bearer token.
// An empty token disables the check.
func BearerAuthMiddleware(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if token == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
				writeError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"agent":         "claimsight",
		"status":        "ready",
		"model_version": s.backends.ModelVersion,
		"storage":       s.backends.Records != nil,
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
