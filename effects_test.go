// SPDX-License-Identifier: GPL-3.0-or-later
package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func allEffectKinds() []EffectKind {
	return []EffectKind{
		EffectReverb, EffectDelay, EffectMultiTapDelay, EffectGranularDelay,
		EffectChorus, EffectPhaser, EffectFlanger, EffectRotarySpeaker,
		EffectWaveshaper, EffectTapeSaturation, EffectBitcrush, EffectDistortion,
		EffectCompressor, EffectLimiter, EffectGate, EffectTransientShaper,
		EffectParametricEQ, EffectStereoWidener, EffectCabinetSim, EffectAutoFilter,
		EffectRingModulator,
	}
}

func TestNewEffectProcessor_AllKindsProduceFiniteOutput(t *testing.T) {
	sr := 44100.0
	rng := NewRNGStream(1, "effects-test")
	for _, k := range allEffectKinds() {
		e := Effect{
			Kind: k, RoomSize: 1, DecaySec: 0.6, DelayMs: 200, FeedbackAmt: 0.3,
			TapCount: 3, MixWet: 0.5, RateHz: 1, Depth: 0.4, Stages: 4,
			Drive: 2, BitDepth: 8, SampleDiv: 2, ThresholdDB: -12, Ratio: 4,
			AttackMs: 5, ReleaseMs: 50, LookaheadMs: 5, MakeupGainDB: 0,
			Bands: []Filter{{Kind: FilterLowShelf, CutoffHz: 200, GainDB: 3}},
			Width: 1.5, CarrierHz: 30,
		}
		p, err := NewEffectProcessor(e, sr, 4096, nil, rng)
		require.NoError(t, err, "kind=%v", k)

		var phase oscillatorPhase
		for i := 0; i < 2000; i++ {
			tt := phase.advance(220 / sr)
			x := math.Sin(2 * math.Pi * tt)
			l, r := p.Process(x, x*0.9, i)
			assert.False(t, math.IsNaN(l) || math.IsInf(l, 0), "kind=%v sample=%d left=%v", k, i, l)
			assert.False(t, math.IsNaN(r) || math.IsInf(r, 0), "kind=%v sample=%d right=%v", k, i, r)
		}
	}
}

func TestNewEffectProcessor_UnknownKindErrors(t *testing.T) {
	_, err := NewEffectProcessor(Effect{Kind: EffectKind(999)}, 44100, 100, nil, nil)
	require.Error(t, err)
	var ie *InternalError
	require.ErrorAs(t, err, &ie)
}

func TestCheckDelayCapacity_RejectsOversizedBuffer(t *testing.T) {
	err := checkDelayCapacity(DefaultEffectByteCap, 2)
	require.Error(t, err)
	var ce *CapacityError
	require.ErrorAs(t, err, &ce)
}

func TestCheckDelayCapacity_AcceptsSmallBuffer(t *testing.T) {
	require.NoError(t, checkDelayCapacity(1000, 2))
}

func TestNewSimpleDelayEffect_RejectsCapacityOverflow(t *testing.T) {
	_, err := newSimpleDelayEffect(Effect{DelayMs: 1e12}, 44100, nil)
	require.Error(t, err)
}

func TestDelayLine_ReadReturnsWrittenSampleAfterDelay(t *testing.T) {
	d := newDelayLine(5)
	d.Write(1)
	d.Write(2)
	d.Write(3)
	assert.Equal(t, 3.0, d.Read(0))
	assert.Equal(t, 2.0, d.Read(1))
	assert.Equal(t, 1.0, d.Read(2))
}

func TestSimpleDelayEffect_EchoesDryAfterConfiguredDelay(t *testing.T) {
	sr := 1000.0
	e := Effect{DelayMs: 10, FeedbackAmt: 0, MixWet: 1} // 10ms @ 1kHz = 10 samples
	d, err := newSimpleDelayEffect(e, sr, nil)
	require.NoError(t, err)

	l, _ := d.Process(1, 0, 0)
	assert.Equal(t, 1.0, l) // dry input only; nothing delayed yet
	for i := 1; i < 10; i++ {
		d.Process(0, 0, i)
	}
	l, _ = d.Process(0, 0, 10)
	assert.InDelta(t, 1.0, l, 1e-9)
}

func TestCompressorEffect_ReducesGainAboveThreshold(t *testing.T) {
	sr := 44100.0
	c := newCompressorEffect(Effect{ThresholdDB: -6, Ratio: 4, AttackMs: 1, ReleaseMs: 10}, sr)
	var l, r float64
	for i := 0; i < 2000; i++ {
		l, r = c.Process(0.99, 0.99, i)
	}
	assert.Less(t, l, 0.99)
	assert.Less(t, r, 0.99)
}

func TestLimiterEffect_PassesSignalBelowThreshold(t *testing.T) {
	sr := 44100.0
	lim := newLimiterEffect(Effect{ThresholdDB: 0, AttackMs: 1, ReleaseMs: 10}, sr)
	l, r := lim.Process(0.1, 0.1, 0)
	assert.InDelta(t, 0.1, l, 1e-9)
	assert.InDelta(t, 0.1, r, 1e-9)
}

func TestGateEffect_MutesBelowThreshold(t *testing.T) {
	sr := 44100.0
	g := newGateEffect(Effect{ThresholdDB: -10, AttackMs: 1, ReleaseMs: 1}, sr)
	var l, r float64
	for i := 0; i < 500; i++ {
		l, r = g.Process(0.0001, 0.0001, i)
	}
	assert.Equal(t, 0.0, l)
	assert.Equal(t, 0.0, r)
}

func TestBitcrushEffect_QuantizesAmplitude(t *testing.T) {
	b := newBitcrushEffect(Effect{BitDepth: 2, SampleDiv: 1, MixWet: 1})
	l, _ := b.Process(0.01, 0.01, 0)
	// With only 4 quantization levels, a small input should snap to 0.
	assert.Equal(t, 0.0, l)
}

func TestBitcrushEffect_HoldsSampleAcrossSampleDiv(t *testing.T) {
	b := newBitcrushEffect(Effect{BitDepth: 8, SampleDiv: 4, MixWet: 1})
	first, _ := b.Process(0.77, 0.77, 0)
	for i := 1; i < 3; i++ {
		held, _ := b.Process(0.1, 0.1, i) // different input, should still read the held value
		assert.Equal(t, first, held)
	}
}

func TestWaveshaperEffect_SaturatesLargeInput(t *testing.T) {
	w := newWaveshaperEffect(Effect{Drive: 10, MixWet: 1}, nil)
	l, _ := w.Process(1, 1, 0)
	assert.Less(t, l, 1.0)
	assert.Greater(t, l, 0.9)
}

func TestWaveshaperEffect_HardClipSaturatesExactlyAtOne(t *testing.T) {
	w := newWaveshaperEffect(Effect{Drive: 10, MixWet: 1, Shape: ShapeHardClip}, nil)
	l, r := w.Process(1, -1, 0)
	assert.Equal(t, 1.0, l)
	assert.Equal(t, -1.0, r)
}

func TestWaveshaperEffect_SineFoldStaysWithinUnityRange(t *testing.T) {
	w := newWaveshaperEffect(Effect{Drive: 3, MixWet: 1, Shape: ShapeSineFold}, nil)
	for _, x := range []float64{-1, -0.5, 0, 0.5, 1, 2} {
		l, _ := w.Process(x, 0, 0)
		assert.GreaterOrEqual(t, l, -1.0001)
		assert.LessOrEqual(t, l, 1.0001)
	}
}

func TestWaveshaperEffect_ShapesDivergeOnTheSameInput(t *testing.T) {
	tanhW := newWaveshaperEffect(Effect{Drive: 6, MixWet: 1, Shape: ShapeTanh}, nil)
	hardW := newWaveshaperEffect(Effect{Drive: 6, MixWet: 1, Shape: ShapeHardClip}, nil)
	tl, _ := tanhW.Process(0.8, 0, 0)
	hl, _ := hardW.Process(0.8, 0, 0)
	assert.NotEqual(t, tl, hl)
}

func TestParametricEQEffect_EmptyBandsIsPassthrough(t *testing.T) {
	sr := 44100.0
	eq := newParametricEQEffect(Effect{}, sr)
	l, r := eq.Process(0.42, -0.3, 0)
	assert.Equal(t, 0.42, l)
	assert.Equal(t, -0.3, r)
}

func TestStereoWidenerEffect_WidthZeroCollapsesToMid(t *testing.T) {
	sr := 44100.0
	sw, err := newStereoWidenerEffect(Effect{Width: 0.00001}, sr, nil)
	require.NoError(t, err)
	l, r := sw.Process(1, -1, 0)
	mid := 0.0 // (1 + -1) * 0.5
	assert.InDelta(t, mid, l, 0.01)
	assert.InDelta(t, mid, r, 0.01)
}

func TestRingModulatorEffect_ZeroCrossingAtPhaseStart(t *testing.T) {
	rm := newRingModulatorEffect(Effect{CarrierHz: 100}, 44100)
	l, r := rm.Process(1, 1, 0)
	assert.InDelta(t, 0, l, 1e-9)
	assert.InDelta(t, 0, r, 1e-9)
}

func TestRunEffectChain_AppliesStagesInDeclaredOrder(t *testing.T) {
	req := baseRequest()
	req.PostFx = []Effect{
		{Kind: EffectGate, ThresholdDB: 0, AttackMs: 1, ReleaseMs: 1}, // mutes everything
		{Kind: EffectWaveshaper, Drive: 5, MixWet: 1},                 // would alter a non-zero signal
	}
	left := make([]float64, 100)
	right := make([]float64, 100)
	for i := range left {
		left[i], right[i] = 1, 1
	}
	require.NoError(t, RunEffectChain(req, 44100, left, right))
	// Gate runs first and mutes the signal, so waveshaper sees silence and
	// the final output must stay at zero.
	for i := range left {
		assert.Equal(t, 0.0, left[i])
		assert.Equal(t, 0.0, right[i])
	}
}

func TestRunEffectChain_EmptyChainIsPassthrough(t *testing.T) {
	req := baseRequest()
	left := []float64{0.1, -0.2, 0.3}
	right := []float64{0.4, -0.5, 0.6}
	orig := append([]float64{}, left...)
	require.NoError(t, RunEffectChain(req, 44100, left, right))
	assert.Equal(t, orig, left)
}
