//go:build integration

package hermes

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/MikeSquared-Agency/claimsight/internal/predictor"
)

func skipWithoutNATS(t *testing.T) string {
	t.Helper()
	url := os.Getenv("NATS_URL")
	if url == "" {
		t.Skip("NATS_URL not set, skipping integration test")
	}
	return url
}

func TestIntegration_QueueSubscribe(t *testing.T) {
	natsURL := skipWithoutNATS(t)
	ctx := context.Background()
	logger := slog.Default()

	client, err := NewClient(ctx, natsURL, os.Getenv("NATS_TOKEN"), logger)
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	defer client.Close()

	received := make(chan PredictionRequest, 1)

	err = client.QueueSubscribe("claims.test.prediction.requested", QueuePredictors, func(subject string, data []byte) {
		var req PredictionRequest
		if err := json.Unmarshal(data, &req); err == nil {
			received <- req
		}
	})
	if err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}

	// Give subscription time to propagate
	time.Sleep(100 * time.Millisecond)

	err = client.Publish("claims.test.prediction.requested", PredictionRequest{
		RequestID: "req-int",
		Input:     predictor.PredictionInput{ClaimID: "claim-int", OrgID: "org-int"},
	})
	if err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	select {
	case req := <-received:
		if req.RequestID != "req-int" || req.Input.ClaimID != "claim-int" {
			t.Errorf("unexpected request: %+v", req)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for message")
	}
}
