package slack

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/MikeSquared-Agency/claimsight/internal/predictor"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func riskyOutput() predictor.PredictionOutput {
	return predictor.PredictionOutput{
		ClaimID:         "claim-42",
		OrgID:           "org-7",
		Probabilities:   predictor.Probabilities{Full: 10, Partial: 25, Deny: 65},
		ConfidenceScore: 80,
		NextMove:        "Carrier is likely to deny the claim.",
		RiskFlags:       []string{predictor.RiskHighDenial, predictor.RiskPriorDenial},
	}
}

func TestFormatRiskAlert(t *testing.T) {
	msg := formatRiskAlert("pred-1", riskyOutput())

	checks := []string{
		"claim-42",
		"org-7",
		"10% full | 25% partial | 65% deny",
		"confidence 80",
		"Carrier is likely to deny the claim.",
		predictor.RiskHighDenial,
		predictor.RiskPriorDenial,
		"Prediction pred-1",
	}
	for _, check := range checks {
		if !strings.Contains(msg, check) {
			t.Errorf("expected message to contain %q", check)
		}
	}
}

func TestFormatRiskAlert_NoFlags(t *testing.T) {
	out := riskyOutput()
	out.RiskFlags = nil

	msg := formatRiskAlert("", out)
	if strings.Contains(msg, "Risk flags") {
		t.Error("expected no risk flag section")
	}
	if strings.Contains(msg, "Prediction ") {
		t.Error("expected no prediction id line")
	}
}

func TestPostRiskAlert_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer xoxb-test" {
			t.Errorf("unexpected auth header %q", r.Header.Get("Authorization"))
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body["channel"] != "C-RISK" {
			t.Errorf("unexpected channel %v", body["channel"])
		}
		json.NewEncoder(w).Encode(map[string]any{"ok": true, "ts": "1700000000.000100"})
	}))
	defer server.Close()

	p := NewPoster("xoxb-test", "C-RISK", discardLogger())
	p.apiURL = server.URL

	ts, err := p.PostRiskAlert(context.Background(), "pred-1", riskyOutput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ts != "1700000000.000100" {
		t.Errorf("unexpected ts %q", ts)
	}
}

func TestPostRiskAlert_SlackError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"ok": false, "error": "channel_not_found"})
	}))
	defer server.Close()

	p := NewPoster("xoxb-test", "C-RISK", discardLogger())
	p.apiURL = server.URL

	_, err := p.PostRiskAlert(context.Background(), "pred-1", riskyOutput())
	if err == nil || !strings.Contains(err.Error(), "channel_not_found") {
		t.Fatalf("expected slack error, got %v", err)
	}
}
