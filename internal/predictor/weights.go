package predictor

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

//go:embed weights.yaml
var defaultWeightsYAML []byte

// Delta is a point adjustment to the outcome accumulators.
type Delta struct {
	Full    int `yaml:"full"`
	Partial int `yaml:"partial"`
	Deny    int `yaml:"deny"`
}

// Band is a threshold rule over one numeric factor. Every bound that is set
// must hold for the band to match.
type Band struct {
	GTE   *float64 `yaml:"gte"`
	GT    *float64 `yaml:"gt"`
	LTE   *float64 `yaml:"lte"`
	LT    *float64 `yaml:"lt"`
	Delta `yaml:",inline"`
}

func (b Band) matches(v float64) bool {
	if b.GTE != nil && !(v >= *b.GTE) {
		return false
	}
	if b.GT != nil && !(v > *b.GT) {
		return false
	}
	if b.LTE != nil && !(v <= *b.LTE) {
		return false
	}
	if b.LT != nil && !(v < *b.LT) {
		return false
	}
	return true
}

func (b Band) bounded() bool {
	return b.GTE != nil || b.GT != nil || b.LTE != nil || b.LT != nil
}

// Bands is an else-if chain: the first matching band wins.
type Bands []Band

func (bs Bands) match(v float64) (Delta, bool) {
	for _, b := range bs {
		if b.matches(v) {
			return b.Delta, true
		}
	}
	return Delta{}, false
}

type UrgencyRule struct {
	Levels []Urgency `yaml:"levels"`
	Delta  `yaml:",inline"`
}

// Weights is the tunable table behind the outcome model.
type Weights struct {
	Version  string `yaml:"version"`
	Baseline Delta  `yaml:"baseline"`
	Storm    struct {
		HailSize      Bands `yaml:"hail_size"`
		WindSpeed     Bands `yaml:"wind_speed"`
		Distance      Bands `yaml:"distance"`
		SeverityScore Bands `yaml:"severity_score"`
	} `yaml:"storm"`
	Dominus struct {
		Urgency UrgencyRule          `yaml:"urgency"`
		Flags   map[DamageFlag]Delta `yaml:"flags"`
	} `yaml:"dominus"`
	Media struct {
		Video      Delta `yaml:"video"`
		PhotoCount Bands `yaml:"photo_count"`
	} `yaml:"media"`
	DenialLetter Delta `yaml:"denial_letter"`
	ClaimAgeDays Bands `yaml:"claim_age_days"`
}

func (w *Weights) validate() error {
	if w.Version == "" {
		return errors.New("weights version is required")
	}
	if w.Baseline.Full+w.Baseline.Partial+w.Baseline.Deny <= 0 {
		return errors.New("baseline must have a positive total")
	}
	chains := map[string]Bands{
		"storm.hail_size":      w.Storm.HailSize,
		"storm.wind_speed":     w.Storm.WindSpeed,
		"storm.distance":       w.Storm.Distance,
		"storm.severity_score": w.Storm.SeverityScore,
		"media.photo_count":    w.Media.PhotoCount,
		"claim_age_days":       w.ClaimAgeDays,
	}
	for name, bands := range chains {
		for i, b := range bands {
			if !b.bounded() {
				return fmt.Errorf("%s[%d]: band has no bounds", name, i)
			}
		}
	}
	return nil
}

func (r UrgencyRule) applies(u Urgency) bool {
	return u != "" && slices.Contains(r.Levels, u)
}

// ParseWeights decodes and validates a YAML weights table.
func ParseWeights(data []byte) (*Weights, error) {
	var w Weights
	if err := yaml.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("parse weights: %w", err)
	}
	if err := w.validate(); err != nil {
		return nil, fmt.Errorf("validate weights: %w", err)
	}
	return &w, nil
}

// LoadWeightsFile reads a weights table from disk.
func LoadWeightsFile(path string) (*Weights, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read weights: %w", err)
	}
	return ParseWeights(data)
}

// DefaultWeights returns the embedded weights table.
func DefaultWeights() *Weights {
	w, err := ParseWeights(defaultWeightsYAML)
	if err != nil {
		panic(fmt.Sprintf("load weights.yaml: %v", err))
	}
	return w
}
