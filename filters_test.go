// SPDX-License-Identifier: GPL-3.0-or-later
package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/stat"
)

func feedSine(p interface{ Process(float64) float64 }, freq, sr float64, n int) []float64 {
	var phase oscillatorPhase
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		t := phase.advance(freq / sr)
		out[i] = p.Process(math.Sin(2 * math.Pi * t))
	}
	return out
}

// rms computes root-mean-square energy via gonum/stat's Mean rather than a
// hand-rolled accumulation loop, shared by every filter/effect energy
// comparison in this package's tests.
func rms(xs []float64) float64 {
	squares := make([]float64, len(xs))
	for i, x := range xs {
		squares[i] = x * x
	}
	return math.Sqrt(stat.Mean(squares, nil))
}

func TestLowpassCoeffs_NormalizedA0(t *testing.T) {
	c := LowpassCoeffs(1000, 44100, 0.7071)
	// biquadNormalize divides through by a0, so a reconstructed a0 is 1;
	// we can't read a0 directly, but the section should be stable (finite
	// output) when driven with a unit impulse.
	b := NewBiquadState(c)
	y0 := b.Process(1)
	y1 := b.Process(0)
	assert.False(t, math.IsNaN(y0) || math.IsInf(y0, 0))
	assert.False(t, math.IsNaN(y1) || math.IsInf(y1, 0))
}

func TestLowpassFilter_AttenuatesAboveCutoff(t *testing.T) {
	sr := 44100.0
	lowFreqEnergy := rms(feedSine(NewBiquadState(LowpassCoeffs(200, sr, 0.7071)), 100, sr, 4096))
	highFreqEnergy := rms(feedSine(NewBiquadState(LowpassCoeffs(200, sr, 0.7071)), 8000, sr, 4096))
	assert.Greater(t, lowFreqEnergy, highFreqEnergy)
}

func TestHighpassFilter_AttenuatesBelowCutoff(t *testing.T) {
	sr := 44100.0
	lowFreqEnergy := rms(feedSine(NewBiquadState(HighpassCoeffs(2000, sr, 0.7071)), 50, sr, 4096))
	highFreqEnergy := rms(feedSine(NewBiquadState(HighpassCoeffs(2000, sr, 0.7071)), 10000, sr, 4096))
	assert.Greater(t, highFreqEnergy, lowFreqEnergy)
}

func TestBandpassFilter_PassesCenterMoreThanFarAway(t *testing.T) {
	sr := 44100.0
	center := rms(feedSine(NewBiquadState(BandpassCoeffs(1000, sr, 4)), 1000, sr, 4096))
	far := rms(feedSine(NewBiquadState(BandpassCoeffs(1000, sr, 4)), 100, sr, 4096))
	assert.Greater(t, center, far)
}

func TestNotchFilter_AttenuatesCenter(t *testing.T) {
	sr := 44100.0
	center := rms(feedSine(NewBiquadState(NotchCoeffs(1000, sr, 4)), 1000, sr, 4096))
	away := rms(feedSine(NewBiquadState(NotchCoeffs(1000, sr, 4)), 4000, sr, 4096))
	assert.Greater(t, away, center)
}

func TestAllpassFilter_PreservesEnergyRoughly(t *testing.T) {
	sr := 44100.0
	in := make([]float64, 4096)
	var phase oscillatorPhase
	for i := range in {
		tt := phase.advance(500 / sr)
		in[i] = math.Sin(2 * math.Pi * tt)
	}
	ap := NewBiquadState(AllpassCoeffs(1000, sr, 0.7071))
	out := make([]float64, len(in))
	for i, x := range in {
		out[i] = ap.Process(x)
	}
	assert.InDelta(t, rms(in), rms(out), 0.05)
}

func TestLadderFilter_FiniteOutput(t *testing.T) {
	l := NewLadderFilter(800, 0.3, 44100)
	var phase oscillatorPhase
	for i := 0; i < 8192; i++ {
		tt := phase.advance(220 / 44100.0)
		y := l.Process(math.Sin(2 * math.Pi * tt))
		assert.False(t, math.IsNaN(y) || math.IsInf(y, 0))
		assert.LessOrEqual(t, math.Abs(y), 1.5)
	}
}

func TestCombFilter_RepeatsDelayedSignal(t *testing.T) {
	c := NewCombFilter(10, 0.5)
	impulseResponse := make([]float64, 25)
	impulseResponse[0] = c.Process(1)
	for i := 1; i < len(impulseResponse); i++ {
		impulseResponse[i] = c.Process(0)
	}
	// A comb filter's first output sample is always its initial (zero)
	// buffer content; the impulse itself appears delaySamples later.
	assert.Equal(t, 0.0, impulseResponse[0])
	assert.InDelta(t, 1.0, impulseResponse[10], 1e-9)
	assert.InDelta(t, 0.5, impulseResponse[20], 1e-9)
}

func TestFormantFilter_KnownVowelsRespond(t *testing.T) {
	sr := 44100.0
	for _, vowel := range []string{"a", "e", "i", "o", "u"} {
		f := NewFormantFilter(vowel, sr)
		var phase oscillatorPhase
		out := 0.0
		for i := 0; i < 2048; i++ {
			tt := phase.advance(150 / sr)
			out += math.Abs(f.Process(math.Sin(2 * math.Pi * tt)))
		}
		assert.Greater(t, out, 0.0, "vowel %q produced no output", vowel)
	}
}

func TestFormantFilter_UnknownVowelFallsBackToA(t *testing.T) {
	sr := 44100.0
	f := NewFormantFilter("not-a-vowel", sr)
	expected := NewFormantFilter("a", sr)
	for i := 0; i < 100; i++ {
		assert.InDelta(t, expected.Process(0.1), f.Process(0.1), 1e-9)
	}
}

func TestFilterStage_SweepRecomputesOnlyEveryGranularity(t *testing.T) {
	sr := 44100.0
	fs := NewFilterStage(Filter{Kind: FilterLowpass, CutoffHz: 500, Q: 0.7071}, sr)

	// Feed a cutoff that changes every sample: coefficients may only change
	// on sweepGranularity boundaries, and the output stays finite across a
	// sweep spanning many recompute windows.
	for i := 0; i < sweepGranularity*10; i++ {
		cutoff := 200 + 1800*float64(i)/float64(sweepGranularity*10)
		prev := fs.biquad.c
		y := fs.Process(0.2, cutoff)
		if i%sweepGranularity != 0 {
			assert.Equal(t, prev, fs.biquad.c, "coefficients changed at sample %d", i)
		}
		assert.False(t, math.IsNaN(y) || math.IsInf(y, 0))
	}
}

func TestFilterStage_LadderKindUsesLadderPath(t *testing.T) {
	sr := 44100.0
	fs := NewFilterStage(Filter{Kind: FilterLadder, CutoffHz: 800, Resonance: 0.2}, sr)
	for i := 0; i < 100; i++ {
		y := fs.Process(0.3, 800)
		assert.False(t, math.IsNaN(y) || math.IsInf(y, 0))
	}
}

func TestFilterStage_CombKindIgnoresCutoffArgument(t *testing.T) {
	sr := 44100.0
	fs := NewFilterStage(Filter{Kind: FilterComb, DelaySeconds: 0.001, Feedback: 0.4}, sr)
	a := fs.Process(1, 100)
	b := fs.Process(1, 9000) // cutoff is meaningless for comb, must not panic or change behavior path
	assert.False(t, math.IsNaN(a) || math.IsNaN(b))
}
