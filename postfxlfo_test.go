// SPDX-License-Identifier: GPL-3.0-or-later
package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPostFxCurves_OneCurvePerTarget(t *testing.T) {
	req := baseRequest()
	req.PostFxLFOs = []PostFxLFO{
		{RateHz: 1, Depth: 0.5, Waveform: WaveSine, Target: PostFxTargetDelayTime},
		{RateHz: 2, Depth: 0.3, Waveform: WaveTriangle, Target: PostFxTargetReverbSize},
	}
	curves := BuildPostFxCurves(req, 44100, 1000)
	require.Len(t, curves, 2)
	assert.Contains(t, curves, PostFxTargetDelayTime)
	assert.Contains(t, curves, PostFxTargetReverbSize)
	assert.Len(t, curves[PostFxTargetDelayTime], 1000)
}

func TestBuildPostFxCurves_NoLFOsProducesEmptyMap(t *testing.T) {
	req := baseRequest()
	curves := BuildPostFxCurves(req, 44100, 1000)
	assert.Empty(t, curves)
}

func TestBuildPostFxCurves_DeterministicForSampleHoldWaveform(t *testing.T) {
	req := baseRequest()
	req.Seed = 7
	req.PostFxLFOs = []PostFxLFO{{RateHz: 4, Depth: 1, Waveform: WaveSampleHold, Target: PostFxTargetDelayTime}}
	a := BuildPostFxCurves(req, 44100, 2000)
	b := BuildPostFxCurves(req, 44100, 2000)
	assert.Equal(t, a[PostFxTargetDelayTime], b[PostFxTargetDelayTime])
}

func TestBuildPostFxCurves_SharedAcrossMultipleEffectsOnSameTarget(t *testing.T) {
	// The determinism contract this engine relies on: two effects
	// modulated by the same target read the exact same curve slice, built
	// exactly once, rather than each effect deriving its own.
	req := baseRequest()
	req.PostFx = []Effect{
		{Kind: EffectDelay, DelayMs: 100, MixWet: 0.5},
		{Kind: EffectFlanger, DelayMs: 3, Depth: 2, RateHz: 0.2},
	}
	req.PostFxLFOs = []PostFxLFO{{RateHz: 1, Depth: 0.5, Waveform: WaveSine, Target: PostFxTargetDelayTime}}
	curves := BuildPostFxCurves(req, 44100, 500)

	rng := NewRNGStream(req.Seed, "postfx")
	delayProc, err := NewEffectProcessor(req.PostFx[0], 44100, 500, curves, rng)
	require.NoError(t, err)
	flangerProc, err := NewEffectProcessor(req.PostFx[1], 44100, 500, curves, rng)
	require.NoError(t, err)

	delay := delayProc.(*simpleDelayEffect)
	flanger := flangerProc.(*flangerEffect)
	assert.Same(t, &curves[PostFxTargetDelayTime][0], &delay.timeCurve[0])
	assert.Same(t, &curves[PostFxTargetDelayTime][0], &flanger.timeCurve[0])
}

func TestPostFxLFOPurpose_DiffersByIndex(t *testing.T) {
	assert.NotEqual(t, postFxLFOPurpose(0), postFxLFOPurpose(1))
}
