package processor

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/claimsight/internal/hermes"
	"github.com/MikeSquared-Agency/claimsight/internal/predictor"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeStore struct {
	id    uuid.UUID
	err   error
	saved []predictor.PredictionOutput
}

func (f *fakeStore) SavePrediction(_ context.Context, _ predictor.PredictionInput, out predictor.PredictionOutput) (uuid.UUID, error) {
	if f.err != nil {
		return uuid.Nil, f.err
	}
	f.saved = append(f.saved, out)
	return f.id, nil
}

type published struct {
	subject string
	data    any
}

type fakePublisher struct {
	mu   sync.Mutex
	msgs []published
	err  error
}

func (f *fakePublisher) Publish(subject string, data any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.msgs = append(f.msgs, published{subject, data})
	return f.err
}

func (f *fakePublisher) subjects() []string {
	var out []string
	for _, m := range f.msgs {
		out = append(out, m.subject)
	}
	return out
}

type fakeAlerter struct {
	calls []string
	err   error
}

func (f *fakeAlerter) PostRiskAlert(_ context.Context, predictionID string, _ predictor.PredictionOutput) (string, error) {
	f.calls = append(f.calls, predictionID)
	return "1700000000.1", f.err
}

func intp(v int) *int { return &v }
func boolp(v bool) *bool { return &v }
func f64(v float64) *float64 { return &v }

func lowRiskInput() predictor.PredictionInput {
	return predictor.PredictionInput{
		ClaimID:    "claim-ok",
		OrgID:      "org-1",
		PhotoCount: intp(25),
		HasVideo:   boolp(true),
		StormImpact: &predictor.StormImpact{
			HailSize: f64(2.5), WindSpeed: f64(85), Distance: f64(1), SeverityScore: f64(8),
		},
	}
}

func highRiskInput() predictor.PredictionInput {
	return predictor.PredictionInput{
		ClaimID:         "claim-bad",
		OrgID:           "org-1",
		PhotoCount:      intp(2),
		HasVideo:        boolp(false),
		HasDenialLetter: true,
		StormImpact: &predictor.StormImpact{
			HailSize: f64(0.5), WindSpeed: f64(30), Distance: f64(15), SeverityScore: f64(2),
		},
	}
}

func newTestProcessor(s PredictionStore, pub Publisher, al RiskAlerter) *Processor {
	return New(predictor.New(nil, nil), s, pub, al, discardLogger())
}

func TestProcess_LowRisk(t *testing.T) {
	id := uuid.New()
	st := &fakeStore{id: id}
	pub := &fakePublisher{}
	al := &fakeAlerter{}

	res, err := newTestProcessor(st, pub, al).Process(context.Background(), "req-1", lowRiskInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.PredictionID != id.String() {
		t.Errorf("expected prediction id %s, got %q", id, res.PredictionID)
	}
	if len(st.saved) != 1 {
		t.Fatalf("expected 1 saved prediction, got %d", len(st.saved))
	}

	subjects := pub.subjects()
	if len(subjects) != 1 || subjects[0] != hermes.SubjectPredictionComputed {
		t.Errorf("expected only computed event, got %v", subjects)
	}
	evt, ok := pub.msgs[0].data.(hermes.PredictionComputed)
	if !ok {
		t.Fatalf("unexpected event type %T", pub.msgs[0].data)
	}
	if evt.RequestID != "req-1" || evt.PredictionID != id.String() || evt.ClaimID != "claim-ok" {
		t.Errorf("unexpected event envelope: %+v", evt)
	}
	if len(al.calls) != 0 {
		t.Errorf("expected no slack alert, got %d", len(al.calls))
	}
}

func TestProcess_HighRiskAlerts(t *testing.T) {
	pub := &fakePublisher{}
	al := &fakeAlerter{}

	res, err := newTestProcessor(&fakeStore{id: uuid.New()}, pub, al).Process(context.Background(), "", highRiskInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Prediction.HighDenialRisk() {
		t.Fatalf("expected high denial risk, got %+v", res.Prediction.Probabilities)
	}

	subjects := pub.subjects()
	want := []string{hermes.SubjectPredictionComputed, hermes.SubjectPredictionHighRisk}
	if len(subjects) != len(want) {
		t.Fatalf("expected subjects %v, got %v", want, subjects)
	}
	for i := range want {
		if subjects[i] != want[i] {
			t.Errorf("subject %d: expected %q, got %q", i, want[i], subjects[i])
		}
	}
	if len(al.calls) != 1 || al.calls[0] != res.PredictionID {
		t.Errorf("expected one alert for %q, got %v", res.PredictionID, al.calls)
	}
}

func TestProcess_InvalidInput(t *testing.T) {
	st := &fakeStore{id: uuid.New()}
	pub := &fakePublisher{}

	_, err := newTestProcessor(st, pub, nil).Process(context.Background(), "", predictor.PredictionInput{OrgID: "org-1"})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if len(st.saved) != 0 || len(pub.msgs) != 0 {
		t.Error("expected no side effects for invalid input")
	}
}

func TestProcess_DependencyFailuresAreNotFatal(t *testing.T) {
	st := &fakeStore{err: errors.New("db down")}
	pub := &fakePublisher{err: errors.New("nats down")}
	al := &fakeAlerter{err: errors.New("slack down")}

	res, err := newTestProcessor(st, pub, al).Process(context.Background(), "", highRiskInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.PredictionID != "" {
		t.Errorf("expected empty prediction id, got %q", res.PredictionID)
	}
	if res.Prediction.ClaimID != "claim-bad" {
		t.Errorf("expected prediction to be returned, got %+v", res.Prediction)
	}
	if len(al.calls) != 1 {
		t.Errorf("expected alert attempt, got %d", len(al.calls))
	}
}

func TestProcess_NoDependencies(t *testing.T) {
	res, err := newTestProcessor(nil, nil, nil).Process(context.Background(), "", highRiskInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.PredictionID != "" {
		t.Errorf("expected no prediction id without a store, got %q", res.PredictionID)
	}
}

func TestHandlePredictionRequested(t *testing.T) {
	pub := &fakePublisher{}
	proc := newTestProcessor(&fakeStore{id: uuid.New()}, pub, nil)

	data, err := json.Marshal(hermes.PredictionRequest{RequestID: "req-9", Input: lowRiskInput()})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	proc.HandlePredictionRequested(hermes.SubjectPredictionRequested, data)

	if len(pub.msgs) != 1 {
		t.Fatalf("expected 1 event, got %d", len(pub.msgs))
	}
	evt := pub.msgs[0].data.(hermes.PredictionComputed)
	if evt.RequestID != "req-9" {
		t.Errorf("expected request id req-9, got %q", evt.RequestID)
	}
}

func TestHandlePredictionRequested_BadPayload(t *testing.T) {
	tests := map[string][]byte{
		"not json":      []byte("{nope"),
		"missing claim": []byte(`{"input":{"orgId":"org-1"}}`),
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			pub := &fakePublisher{}
			proc := newTestProcessor(&fakeStore{id: uuid.New()}, pub, nil)
			proc.HandlePredictionRequested(hermes.SubjectPredictionRequested, data)
			if len(pub.msgs) != 0 {
				t.Errorf("expected no events, got %v", pub.subjects())
			}
		})
	}
}
