package api

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MikeSquared-Agency/claimsight/internal/predictor"
	"github.com/MikeSquared-Agency/claimsight/internal/processor"
)

func testBackends(records PredictionReader) Backends {
	pr := predictor.New(nil, nil)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return Backends{
		Processor:        processor.New(pr, nil, nil, nil, logger),
		Batch:            pr,
		Records:          records,
		BatchConcurrency: 2,
		ModelVersion:     pr.ModelVersion(),
	}
}

func TestHealthEndpoint(t *testing.T) {
	srv := NewServer(8760, "secret", testBackends(nil))

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}

	var body map[string]string
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("expected status ok, got %q", body["status"])
	}
}

func TestStatusEndpoint(t *testing.T) {
	srv := NewServer(8760, "", testBackends(nil))

	req := httptest.NewRequest("GET", "/api/v1/claimsight/status", nil)
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}

	var body map[string]any
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body["agent"] != "claimsight" {
		t.Errorf("expected agent claimsight, got %v", body["agent"])
	}
	if body["model_version"] != predictor.NewModel(nil).Version() {
		t.Errorf("unexpected model version %v", body["model_version"])
	}
	if body["storage"] != false {
		t.Errorf("expected storage false, got %v", body["storage"])
	}
}

func TestBearerAuth(t *testing.T) {
	srv := NewServer(8760, "secret", testBackends(nil))

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"wrong token", "Bearer nope", http.StatusUnauthorized},
		{"wrong scheme", "Basic secret", http.StatusUnauthorized},
		{"valid", "Bearer secret", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/api/v1/claimsight/status", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			srv.router.ServeHTTP(w, req)
			if w.Code != tt.want {
				t.Errorf("expected %d, got %d", tt.want, w.Code)
			}
		})
	}
}

func TestNotFoundEndpoint(t *testing.T) {
	srv := NewServer(8760, "", testBackends(nil))

	req := httptest.NewRequest("GET", "/nonexistent", nil)
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}
