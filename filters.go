// SPDX-License-Identifier: GPL-3.0-or-later
package engine

import "math"

// FilterKind tags the filter variants a layer may cascade, in declared order.
type FilterKind int

const (
	FilterLowpass FilterKind = iota
	FilterHighpass
	FilterBandpass
	FilterNotch
	FilterAllpass
	FilterLowShelf
	FilterHighShelf
	FilterLadder
	FilterComb
	FilterFormant
)

// sweepGranularity is the minimum number of samples between biquad
// coefficient recomputations when a filter's cutoff is itself modulated
// (by an LFO or a sweep). Recomputing every sample is exact but wasteful,
// and a sweep only needs to sound continuous; a fixed, pinned divisor is
// used instead of a free-running wall-clock-style throttle, keeping the
// schedule itself deterministic.
const sweepGranularity = 32

// BiquadCoeffs holds the five coefficients of a direct-form-II-transposed
// biquad section, normalized so a0 == 1.
type BiquadCoeffs struct {
	b0, b1, b2 float64
	a1, a2     float64
}

// BiquadState is one running DF-II-transposed section: two delay
// registers carried sample to sample, coefficients replaced only through
// SetCoeffs (FilterStage calls it every sweepGranularity samples).
type BiquadState struct {
	c      BiquadCoeffs
	z1, z2 float64
}

func NewBiquadState(c BiquadCoeffs) *BiquadState {
	return &BiquadState{c: c}
}

// Process filters one sample through the section.
func (b *BiquadState) Process(x float64) float64 {
	y := b.c.b0*x + b.z1
	b.z1 = b.c.b1*x - b.c.a1*y + b.z2
	b.z2 = b.c.b2*x - b.c.a2*y
	return y
}

// SetCoeffs retunes the section in place, preserving its delay state (so a
// sweeping cutoff does not click between recomputations).
func (b *BiquadState) SetCoeffs(c BiquadCoeffs) {
	b.c = c
}

func biquadNormalize(b0, b1, b2, a0, a1, a2 float64) BiquadCoeffs {
	return BiquadCoeffs{b0: b0 / a0, b1: b1 / a0, b2: b2 / a0, a1: a1 / a0, a2: a2 / a0}
}

// LowpassCoeffs computes an RBJ-cookbook two-pole lowpass at cutoffHz,
// with q controlling resonance (q=0.7071 is the Butterworth/no-resonance
// case).
func LowpassCoeffs(cutoffHz, sr, q float64) BiquadCoeffs {
	w0 := 2 * math.Pi * cutoffHz / sr
	cosw0, sinw0 := math.Cos(w0), math.Sin(w0)
	alpha := sinw0 / (2 * q)

	b1 := 1 - cosw0
	b0 := b1 / 2
	b2 := b0
	a0 := 1 + alpha
	a1 := -2 * cosw0
	a2 := 1 - alpha
	return biquadNormalize(b0, b1, b2, a0, a1, a2)
}

func HighpassCoeffs(cutoffHz, sr, q float64) BiquadCoeffs {
	w0 := 2 * math.Pi * cutoffHz / sr
	cosw0, sinw0 := math.Cos(w0), math.Sin(w0)
	alpha := sinw0 / (2 * q)

	b0 := (1 + cosw0) / 2
	b1 := -(1 + cosw0)
	b2 := b0
	a0 := 1 + alpha
	a1 := -2 * cosw0
	a2 := 1 - alpha
	return biquadNormalize(b0, b1, b2, a0, a1, a2)
}

func BandpassCoeffs(centerHz, sr, q float64) BiquadCoeffs {
	w0 := 2 * math.Pi * centerHz / sr
	cosw0, sinw0 := math.Cos(w0), math.Sin(w0)
	alpha := sinw0 / (2 * q)

	b0 := alpha
	b1 := 0.0
	b2 := -alpha
	a0 := 1 + alpha
	a1 := -2 * cosw0
	a2 := 1 - alpha
	return biquadNormalize(b0, b1, b2, a0, a1, a2)
}

func NotchCoeffs(centerHz, sr, q float64) BiquadCoeffs {
	w0 := 2 * math.Pi * centerHz / sr
	cosw0, sinw0 := math.Cos(w0), math.Sin(w0)
	alpha := sinw0 / (2 * q)

	b0 := 1.0
	b1 := -2 * cosw0
	b2 := 1.0
	a0 := 1 + alpha
	a1 := b1
	a2 := 1 - alpha
	return biquadNormalize(b0, b1, b2, a0, a1, a2)
}

func AllpassCoeffs(centerHz, sr, q float64) BiquadCoeffs {
	w0 := 2 * math.Pi * centerHz / sr
	cosw0, sinw0 := math.Cos(w0), math.Sin(w0)
	alpha := sinw0 / (2 * q)

	b0 := 1 - alpha
	b1 := -2 * cosw0
	b2 := 1 + alpha
	a0 := b2
	a1 := b1
	a2 := b0
	return biquadNormalize(b0, b1, b2, a0, a1, a2)
}

func LowShelfCoeffs(cornerHz, sr, gainDB, slope float64) BiquadCoeffs {
	a := math.Pow(10, gainDB/40)
	w0 := 2 * math.Pi * cornerHz / sr
	cosw0, sinw0 := math.Cos(w0), math.Sin(w0)
	alpha := sinw0 / 2 * math.Sqrt((a+1/a)*(1/slope-1)+2)
	sqrtA := math.Sqrt(a)

	b0 := a * ((a + 1) - (a-1)*cosw0 + 2*sqrtA*alpha)
	b1 := 2 * a * ((a - 1) - (a+1)*cosw0)
	b2 := a * ((a + 1) - (a-1)*cosw0 - 2*sqrtA*alpha)
	a0 := (a + 1) + (a-1)*cosw0 + 2*sqrtA*alpha
	a1 := -2 * ((a - 1) + (a+1)*cosw0)
	a2 := (a + 1) + (a-1)*cosw0 - 2*sqrtA*alpha
	return biquadNormalize(b0, b1, b2, a0, a1, a2)
}

func HighShelfCoeffs(cornerHz, sr, gainDB, slope float64) BiquadCoeffs {
	a := math.Pow(10, gainDB/40)
	w0 := 2 * math.Pi * cornerHz / sr
	cosw0, sinw0 := math.Cos(w0), math.Sin(w0)
	alpha := sinw0 / 2 * math.Sqrt((a+1/a)*(1/slope-1)+2)
	sqrtA := math.Sqrt(a)

	b0 := a * ((a + 1) + (a-1)*cosw0 + 2*sqrtA*alpha)
	b1 := -2 * a * ((a - 1) + (a+1)*cosw0)
	b2 := a * ((a + 1) + (a-1)*cosw0 - 2*sqrtA*alpha)
	a0 := (a + 1) - (a-1)*cosw0 + 2*sqrtA*alpha
	a1 := 2 * ((a - 1) - (a+1)*cosw0)
	a2 := (a + 1) - (a-1)*cosw0 - 2*sqrtA*alpha
	return biquadNormalize(b0, b1, b2, a0, a1, a2)
}

// LadderFilter is a 4-pole Moog-style ladder with a tanh-saturated
// feedback path: the same tanh-as-soft-clip idiom used elsewhere for
// overdrive, applied here inside the feedback loop rather than at the
// output.
type LadderFilter struct {
	stage      [4]float64
	cutoff     float64
	resonance  float64
	sr         float64
}

func NewLadderFilter(cutoffHz, resonance, sr float64) *LadderFilter {
	return &LadderFilter{cutoff: cutoffHz, resonance: resonance, sr: sr}
}

func (l *LadderFilter) SetParams(cutoffHz, resonance float64) {
	l.cutoff = cutoffHz
	l.resonance = resonance
}

func (l *LadderFilter) Process(x float64) float64 {
	g := math.Tan(math.Pi * l.cutoff / l.sr)
	g = g / (1 + g)

	fb := l.resonance * l.stage[3]
	input := math.Tanh(x - fb)

	prev := input
	for i := 0; i < 4; i++ {
		l.stage[i] += g * (prev - l.stage[i])
		prev = l.stage[i]
	}
	return l.stage[3]
}

// CombFilter is a feedback comb with a fixed-length delay line, the same
// building block the reverb effect uses four of in parallel.
type CombFilter struct {
	buf      []float64
	pos      int
	feedback float64
}

func NewCombFilter(delaySamples int, feedback float64) *CombFilter {
	if delaySamples < 1 {
		delaySamples = 1
	}
	return &CombFilter{buf: make([]float64, delaySamples), feedback: feedback}
}

func (c *CombFilter) Process(x float64) float64 {
	out := c.buf[c.pos]
	c.buf[c.pos] = x + out*c.feedback
	c.pos++
	if c.pos >= len(c.buf) {
		c.pos = 0
	}
	return out
}

// formantPreset pins the three-bandpass-bank center frequencies and gains
// approximating a vowel's formant structure (F1/F2/F3), in Hz.
type formantPreset struct {
	freqs [3]float64
	qs    [3]float64
	gains [3]float64
}

var formantPresets = map[string]formantPreset{
	"a": {freqs: [3]float64{800, 1150, 2900}, qs: [3]float64{10, 12, 12}, gains: [3]float64{1.0, 0.7, 0.35}},
	"e": {freqs: [3]float64{350, 2000, 2800}, qs: [3]float64{12, 14, 12}, gains: [3]float64{1.0, 0.6, 0.3}},
	"i": {freqs: [3]float64{270, 2140, 2950}, qs: [3]float64{14, 16, 12}, gains: [3]float64{1.0, 0.55, 0.3}},
	"o": {freqs: [3]float64{450, 800, 2830}, qs: [3]float64{10, 10, 12}, gains: [3]float64{1.0, 0.65, 0.25}},
	"u": {freqs: [3]float64{325, 700, 2700}, qs: [3]float64{12, 10, 12}, gains: [3]float64{1.0, 0.6, 0.25}},
}

// FormantFilter sums three parallel bandpass sections tuned to a vowel's
// formants.
type FormantFilter struct {
	bands [3]*BiquadState
	gains [3]float64
}

func NewFormantFilter(vowel string, sr float64) *FormantFilter {
	p, ok := formantPresets[vowel]
	if !ok {
		p = formantPresets["a"]
	}
	f := &FormantFilter{gains: p.gains}
	for i := 0; i < 3; i++ {
		f.bands[i] = NewBiquadState(BandpassCoeffs(p.freqs[i], sr, p.qs[i]))
	}
	return f
}

func (f *FormantFilter) Process(x float64) float64 {
	out := 0.0
	for i := 0; i < 3; i++ {
		out += f.gains[i] * f.bands[i].Process(x)
	}
	return out
}

// FilterStage is one element of a layer's filter cascade: a constructed,
// stateful filter plus enough of its configuration to re-derive
// coefficients when its cutoff sweeps.
type FilterStage struct {
	Kind FilterKind

	biquad  *BiquadState
	ladder  *LadderFilter
	comb    *CombFilter
	formant *FormantFilter

	sr              float64
	q               float64
	gainDB          float64
	samplesSinceSet int
}

// Process runs one sample through the stage. cutoffHz is re-evaluated by
// the caller every sample (it may itself be LFO- or sweep-modulated); the
// stage only recomputes biquad coefficients every sweepGranularity
// samples, per the determinism contract on coefficient-update cadence.
func (s *FilterStage) Process(x, cutoffHz float64) float64 {
	switch s.Kind {
	case FilterLadder:
		s.ladder.SetParams(cutoffHz, s.q)
		return s.ladder.Process(x)
	case FilterComb:
		return s.comb.Process(x)
	case FilterFormant:
		return s.formant.Process(x)
	default:
		if s.samplesSinceSet == 0 {
			s.biquad.SetCoeffs(s.coeffsFor(cutoffHz))
		}
		s.samplesSinceSet++
		if s.samplesSinceSet >= sweepGranularity {
			s.samplesSinceSet = 0
		}
		return s.biquad.Process(x)
	}
}

func (s *FilterStage) coeffsFor(cutoffHz float64) BiquadCoeffs {
	switch s.Kind {
	case FilterHighpass:
		return HighpassCoeffs(cutoffHz, s.sr, s.q)
	case FilterBandpass:
		return BandpassCoeffs(cutoffHz, s.sr, s.q)
	case FilterNotch:
		return NotchCoeffs(cutoffHz, s.sr, s.q)
	case FilterAllpass:
		return AllpassCoeffs(cutoffHz, s.sr, s.q)
	case FilterLowShelf:
		return LowShelfCoeffs(cutoffHz, s.sr, s.gainDB, 1)
	case FilterHighShelf:
		return HighShelfCoeffs(cutoffHz, s.sr, s.gainDB, 1)
	default:
		return LowpassCoeffs(cutoffHz, s.sr, s.q)
	}
}

// NewFilterStage constructs a stage from a Filter configuration (request.go).
func NewFilterStage(f Filter, sr float64) *FilterStage {
	s := &FilterStage{Kind: f.Kind, sr: sr, q: f.Q, gainDB: f.GainDB}
	switch f.Kind {
	case FilterLadder:
		s.ladder = NewLadderFilter(f.CutoffHz, f.Resonance, sr)
	case FilterComb:
		delaySamples := int(f.DelaySeconds*sr + 0.5)
		s.comb = NewCombFilter(delaySamples, f.Feedback)
	case FilterFormant:
		s.formant = NewFormantFilter(f.Vowel, sr)
	default:
		s.biquad = NewBiquadState(s.coeffsFor(f.CutoffHz))
	}
	return s
}
