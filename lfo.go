// SPDX-License-Identifier: GPL-3.0-or-later
package engine

import "math"

// LFOTarget enumerates the per-layer modulation destinations an LFO can drive.
type LFOTarget int

const (
	LFOTargetPitch LFOTarget = iota
	LFOTargetVolume
	LFOTargetPan
	LFOTargetFilterCutoff
	LFOTargetPulseWidth
	LFOTargetFMIndex
	LFOTargetGrainSize
	LFOTargetGrainDensity
)

// LFO is a per-layer modulation source: at most one per layer.
type LFO struct {
	RateHz   float64
	Depth    float64
	Waveform WaveformKind
	Target   LFOTarget
}

// oscillatorPhase tracks phase in [0,1) rather than an unbounded radian
// accumulator: angle reduction happens by construction, never by a wrap
// check on a growing number.
type oscillatorPhase struct {
	phase float64
}

func (p *oscillatorPhase) advance(cyclesPerSample float64) float64 {
	cur := p.phase
	p.phase += cyclesPerSample
	if p.phase >= 1 {
		p.phase -= math.Trunc(p.phase)
	}
	return cur
}

// unipolarWaveform evaluates waveform at phase t in [0,1), returning a
// value in [0,1].
func unipolarWaveform(kind WaveformKind, t float64) float64 {
	switch kind {
	case WaveTriangle:
		// 0 -> 0, 0.5 -> 1, 1 -> 0
		return 1 - math.Abs(2*t-1)
	case WaveSawtooth:
		return t
	case WaveSquare:
		if t < 0.5 {
			return 1
		}
		return 0
	default: // WaveSine and any waveform without a dedicated unipolar shape
		return 0.5 * (1 + math.Sin(2*math.Pi*t))
	}
}

// LFOEvaluator precomputes/streams a unipolar [0,1] curve for one LFO
// instance, sample by sample. The same type backs both per-layer LFOs
// and the post-FX LFO scheduler's once-per-render curves: both need
// exactly this evaluation rule, and the "generate once, reuse across every
// matching effect" contract for post-FX curves is enforced by giving the
// caller a plain slice rather than letting each effect instantiate its own
// evaluator.
type LFOEvaluator struct {
	waveform WaveformKind
	phase    oscillatorPhase
	rng      *RNGStream

	holdPeriod   float64 // samples per sample-and-hold draw
	holdCounter  float64
	holdValue    float64
	haveHoldSeed bool
}

// NewLFOEvaluator constructs an evaluator for the given rate/waveform at
// sample rate sr. rng is only consulted for WaveSampleHold; pass nil for
// any other waveform.
func NewLFOEvaluator(rateHz float64, waveform WaveformKind, sr float64, rng *RNGStream) *LFOEvaluator {
	e := &LFOEvaluator{waveform: waveform, rng: rng}
	if rateHz > 0 {
		e.holdPeriod = sr / rateHz
	}
	return e
}

// Next returns the unipolar value for the next sample and advances state.
func (e *LFOEvaluator) Next(rateHz, sr float64) float64 {
	if e.waveform == WaveSampleHold {
		if !e.haveHoldSeed || e.holdCounter <= 0 {
			if e.rng != nil {
				e.holdValue = e.rng.Float64()
			}
			e.haveHoldSeed = true
			if rateHz > 0 {
				e.holdCounter = sr / rateHz
			} else {
				e.holdCounter = sr // effectively static if rate is zero
			}
		}
		e.holdCounter--
		return e.holdValue
	}

	cyclesPerSample := 0.0
	if sr > 0 {
		cyclesPerSample = rateHz / sr
	}
	t := e.phase.advance(cyclesPerSample)
	return unipolarWaveform(e.waveform, t)
}

// PrecomputeCurve generates the full N-sample unipolar curve for one LFO
// instance up front. This is what the post-FX LFO scheduler calls exactly
// once per PostFxLFO entry, regardless of how many effects match its
// target.
func PrecomputeCurve(rateHz float64, waveform WaveformKind, sr float64, n int, rng *RNGStream) []float64 {
	eval := NewLFOEvaluator(rateHz, waveform, sr, rng)
	curve := make([]float64, n)
	for i := 0; i < n; i++ {
		curve[i] = eval.Next(rateHz, sr)
	}
	return curve
}

// ApplyLFOTarget applies the bipolar-derived LFO modulation rule for target
// to base. u is the unipolar LFO value.
func ApplyLFOTarget(target LFOTarget, base, depth, u float64) float64 {
	b := 2*u - 1
	switch target {
	case LFOTargetPitch:
		return base * SemitonesToRatio(depth*b)
	case LFOTargetVolume:
		return clamp(base*(1+depth*b), 0, 2)
	case LFOTargetPan:
		return clamp(base+depth*b, -1, 1)
	case LFOTargetFilterCutoff:
		return base * math.Pow(2, depth*b)
	case LFOTargetPulseWidth:
		return clamp(base+depth*b, 0.01, 0.99)
	case LFOTargetFMIndex:
		return math.Max(0, base+depth*b)
	case LFOTargetGrainSize:
		return math.Max(1, base+depth*b) // milliseconds
	case LFOTargetGrainDensity:
		return math.Max(0.1, base+depth*b)
	default:
		return base
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
