package predictor

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultWeights(t *testing.T) {
	w := DefaultWeights()
	if w.Version == "" {
		t.Fatal("expected a version")
	}
	if w.Baseline != (Delta{Full: 50, Partial: 30, Deny: 20}) {
		t.Errorf("unexpected baseline %+v", w.Baseline)
	}
	if len(w.Storm.HailSize) != 3 || len(w.Storm.WindSpeed) != 3 {
		t.Errorf("unexpected storm bands: hail=%d wind=%d", len(w.Storm.HailSize), len(w.Storm.WindSpeed))
	}
	if got := w.Dominus.Flags[FlagMissingDocumentation]; got != (Delta{Full: -15, Partial: 5, Deny: 10}) {
		t.Errorf("unexpected missing_documentation delta %+v", got)
	}
	if w.DenialLetter != (Delta{Full: -20, Partial: -10, Deny: 30}) {
		t.Errorf("unexpected denial letter delta %+v", w.DenialLetter)
	}
}

func TestBandsMatchFirst(t *testing.T) {
	w := DefaultWeights()
	tests := []struct {
		v    float64
		want Delta
		hit  bool
	}{
		{2.0, Delta{Full: 20, Deny: -15}, true},
		{1.7, Delta{Full: 10, Deny: -5}, true},
		{1.0, Delta{}, false},
		{0.99, Delta{Full: -10, Deny: 15}, true},
	}
	for _, tt := range tests {
		got, hit := w.Storm.HailSize.match(tt.v)
		if hit != tt.hit || got != tt.want {
			t.Errorf("match(%v) = %+v,%v want %+v,%v", tt.v, got, hit, tt.want, tt.hit)
		}
	}
}

func TestParseWeights_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"not yaml", "version: [unclosed"},
		{"missing version", "baseline: {full: 50, partial: 30, deny: 20}"},
		{"empty baseline", "version: x\nbaseline: {full: 0}"},
		{"unbounded band", "version: x\nbaseline: {full: 1}\nclaim_age_days:\n  - { full: 5 }"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseWeights([]byte(tt.yaml)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestLoadWeightsFile_Override(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weights.yaml")
	custom := `version: "test-1"
baseline: {full: 40, partial: 40, deny: 20}
denial_letter: {full: -40, deny: 40}
`
	if err := os.WriteFile(path, []byte(custom), 0o600); err != nil {
		t.Fatal(err)
	}
	w, err := LoadWeightsFile(path)
	if err != nil {
		t.Fatalf("LoadWeightsFile: %v", err)
	}
	m := NewModel(w)
	if m.Version() != "test-1" {
		t.Errorf("unexpected version %q", m.Version())
	}

	in := baseInput()
	if got := m.Probabilities(in); got != (Probabilities{40, 40, 20}) {
		t.Errorf("baseline: got %+v", got)
	}
	in.HasDenialLetter = true
	if got := m.Probabilities(in); got != (Probabilities{0, 40, 60}) {
		t.Errorf("denial: got %+v", got)
	}
	in.HasDenialLetter = false
	in.StormImpact = &StormImpact{HailSize: f64(3)}
	if got := m.Probabilities(in); got != (Probabilities{40, 40, 20}) {
		t.Errorf("bands absent from the table must be inert: got %+v", got)
	}

	if _, err := LoadWeightsFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
