package predictor

import "math"

// Model turns claim signals into an outcome distribution.
type Model struct {
	w *Weights
}

// NewModel builds a model over w. A nil w selects the embedded defaults.
func NewModel(w *Weights) *Model {
	if w == nil {
		w = DefaultWeights()
	}
	return &Model{w: w}
}

// Version identifies the weights table in use.
func (m *Model) Version() string {
	return m.w.Version
}

type accumulator struct {
	full, partial, deny int
}

func (a *accumulator) add(d Delta) {
	a.full += d.Full
	a.partial += d.Partial
	a.deny += d.Deny
}

func (a *accumulator) addBand(bs Bands, v float64, ok bool) {
	if !ok {
		return
	}
	if d, hit := bs.match(v); hit {
		a.add(d)
	}
}

// Probabilities applies every adjustment to the baseline and normalizes once.
// Absent fields contribute nothing.
func (m *Model) Probabilities(in PredictionInput) Probabilities {
	w := m.w
	acc := accumulator{full: w.Baseline.Full, partial: w.Baseline.Partial, deny: w.Baseline.Deny}

	if in.StormImpact != nil {
		v, ok := in.hailSize()
		acc.addBand(w.Storm.HailSize, v, ok)
		v, ok = in.windSpeed()
		acc.addBand(w.Storm.WindSpeed, v, ok)
		v, ok = in.distance()
		acc.addBand(w.Storm.Distance, v, ok)
		v, ok = in.severityScore()
		acc.addBand(w.Storm.SeverityScore, v, ok)
	}

	if d := in.DominusAnalysis; d != nil {
		if w.Dominus.Urgency.applies(d.Urgency) {
			acc.add(w.Dominus.Urgency.Delta)
		}
		// Flags are looked up from the weights table so that each one fires at most once.
		for _, flag := range []DamageFlag{FlagComprehensiveDamage, FlagMinimalDamage, FlagMissingDocumentation} {
			if delta, ok := w.Dominus.Flags[flag]; ok && d.Has(flag) {
				acc.add(delta)
			}
		}
	}

	if in.hasVideo() {
		acc.add(w.Media.Video)
	}
	if in.PhotoCount != nil {
		acc.addBand(w.Media.PhotoCount, float64(*in.PhotoCount), true)
	}
	if in.HasDenialLetter {
		acc.add(w.DenialLetter)
	}
	if in.DaysSinceCreation != nil {
		acc.addBand(w.ClaimAgeDays, float64(*in.DaysSinceCreation), true)
	}

	return normalize(acc)
}

// normalize rescales the accumulators to integer percentages summing to 100.
// Deny absorbs the rounding remainder; a negative remainder is taken out of
// partial so the clamp never breaks the sum.
func normalize(acc accumulator) Probabilities {
	total := acc.full + acc.partial + acc.deny
	if total <= 0 {
		return Probabilities{Full: 50, Partial: 30, Deny: 20}
	}
	full := clampPct(percent(acc.full, total))
	partial := clampPct(percent(acc.partial, total))
	if full+partial > 100 {
		partial = 100 - full
	}
	return Probabilities{Full: full, Partial: partial, Deny: 100 - full - partial}
}

func percent(v, total int) int {
	return int(math.Round(float64(v) / float64(total) * 100))
}

func clampPct(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
