// SPDX-License-Identifier: GPL-3.0-or-later
package engine

import (
	"fmt"
	"math"
)

// RenderLayer renders one Layer into left/right, an already-allocated pair
// of length totalSamples, accumulating (mixing, not overwriting) into
// whatever is already there. idx is the layer's position in the request,
// used only to name its RNG sub-streams so two layers never draw from the
// same stream.
func RenderLayer(layer Layer, sr float64, totalSamples int, seed uint32, idx int, left, right []float64) []NumericGuardWarning {
	var warnings []NumericGuardWarning

	onsetSamples := int(layer.OnsetSeconds*sr + 0.5)
	if onsetSamples < 0 {
		onsetSamples = 0
	}
	if onsetSamples >= totalSamples {
		return warnings
	}
	layerSamples := totalSamples - onsetSamples

	synthRNG := NewRNGStream(seed, fmt.Sprintf("layer[%d]:synth", idx))
	voice := NewSynthVoice(layer.Synthesis, sr, layerSamples, synthRNG)

	env := NewEnvelopeState(layer.Envelope, sr, layerSamples)

	var lfoEval *LFOEvaluator
	if layer.LFO != nil {
		var lfoRNG *RNGStream
		if layer.LFO.Waveform == WaveSampleHold {
			lfoRNG = NewRNGStream(seed, fmt.Sprintf("layer[%d]:lfo", idx))
		}
		lfoEval = NewLFOEvaluator(layer.LFO.RateHz, layer.LFO.Waveform, sr, lfoRNG)
	}

	stages := make([]*FilterStage, len(layer.Filters))
	for i, f := range layer.Filters {
		stages[i] = NewFilterStage(f, sr)
	}

	gain := layer.Gain
	if gain == 0 {
		gain = 1
	}
	pan := layer.Pan

	osc, hasPitchTarget := voice.(*oscillatorState)
	hasPitchTarget = hasPitchTarget && layer.LFO != nil && layer.LFO.Target == LFOTargetPitch

	_, hasPWTarget := voice.(*oscillatorState)
	hasPWTarget = hasPWTarget && layer.LFO != nil && layer.LFO.Target == LFOTargetPulseWidth
	basePW := layer.Synthesis.PulseWidth
	if basePW == 0 {
		basePW = 0.5
	}

	// fm_index and grain_size/grain_density only apply to the synthesis
	// families that expose the matching knob; every other family's LFO
	// (if it happens to target one of these) is simply a no-op, just as
	// pitch/pulse-width apply only to oscillator voices.
	fmVoice, hasFMTarget := voice.(interface{ setFMIndex(float64) })
	hasFMTarget = hasFMTarget && layer.LFO != nil && layer.LFO.Target == LFOTargetFMIndex
	fmIndexBase := 0.0
	switch layer.Synthesis.Kind {
	case SynthFeedbackFM:
		fmIndexBase = layer.Synthesis.FeedbackAmt
	default:
		fmIndexBase = layer.Synthesis.ModIndex
	}

	granVoice, hasGrainSizeTarget := voice.(interface{ setGrainSizeMs(float64) })
	hasGrainSizeTarget = hasGrainSizeTarget && layer.LFO != nil && layer.LFO.Target == LFOTargetGrainSize
	grainSizeBase := layer.Synthesis.GrainSizeMs
	if grainSizeBase <= 0 {
		grainSizeBase = 50
	}

	densVoice, hasGrainDensityTarget := voice.(interface{ setGrainDensityHz(float64) })
	hasGrainDensityTarget = hasGrainDensityTarget && layer.LFO != nil && layer.LFO.Target == LFOTargetGrainDensity
	grainDensityBase := layer.Synthesis.GrainDensityHz
	if grainDensityBase <= 0 {
		grainDensityBase = 20
	}

	for n := 0; n < layerSamples; n++ {
		var u float64
		if lfoEval != nil {
			u = lfoEval.Next(layer.LFO.RateHz, sr)
		}

		if hasPitchTarget {
			ratio := ApplyLFOTarget(LFOTargetPitch, 1, layer.LFO.Depth, u)
			osc.setPitchRatio(ratio)
		}
		if hasPWTarget {
			pw := ApplyLFOTarget(LFOTargetPulseWidth, basePW, layer.LFO.Depth, u)
			osc.setPulseWidth(pw)
		}
		if hasFMTarget {
			idx := ApplyLFOTarget(LFOTargetFMIndex, fmIndexBase, layer.LFO.Depth, u)
			fmVoice.setFMIndex(idx)
		}
		if hasGrainSizeTarget {
			ms := ApplyLFOTarget(LFOTargetGrainSize, grainSizeBase, layer.LFO.Depth, u)
			granVoice.setGrainSizeMs(ms)
		}
		if hasGrainDensityTarget {
			hz := ApplyLFOTarget(LFOTargetGrainDensity, grainDensityBase, layer.LFO.Depth, u)
			densVoice.setGrainDensityHz(hz)
		}

		sample := voice.Next()
		if math.IsNaN(sample) || math.IsInf(sample, 0) {
			warnings = append(warnings, NumericGuardWarning{
				Component: fmt.Sprintf("layer[%d]:synth", idx),
				Reason:    "non-finite sample clamped to 0",
			})
			sample = 0
		}

		// Envelope and volume (LFO-modulated or not) both apply before the
		// filter cascade: the ladder filter's feedback path saturates with
		// tanh, so filter(gain*x) != gain*filter(x) and the multiply order
		// is numerically, not just stylistically, significant.
		envGain := env.Advance(n)
		effGain := gain
		effPan := pan
		if layer.LFO != nil {
			switch layer.LFO.Target {
			case LFOTargetVolume:
				effGain = ApplyLFOTarget(LFOTargetVolume, gain, layer.LFO.Depth, u)
			case LFOTargetPan:
				effPan = ApplyLFOTarget(LFOTargetPan, pan, layer.LFO.Depth, u)
			}
		}
		sample *= envGain * effGain

		cutoffLFO := u
		for i, f := range layer.Filters {
			cutoff := f.CutoffHz
			if f.SweepEnabled && layerSamples > 1 {
				t := float64(n) / float64(layerSamples-1)
				cutoff = InterpolateCurve(CurveLinear, f.CutoffHz, f.SweepEndHz, t)
			}
			if layer.LFO != nil && layer.LFO.Target == LFOTargetFilterCutoff {
				cutoff = ApplyLFOTarget(LFOTargetFilterCutoff, cutoff, layer.LFO.Depth, cutoffLFO)
			}
			sample = stages[i].Process(sample, cutoff)
		}

		if sample > 4 || sample < -4 {
			warnings = append(warnings, NumericGuardWarning{
				Component: fmt.Sprintf("layer[%d]", idx),
				Reason:    "sample magnitude exceeded guard threshold, clamped",
			})
			sample = clamp(sample, -4, 4)
		}

		angle := (effPan + 1) * 0.25 * math.Pi
		l := sample * math.Cos(angle)
		r := sample * math.Sin(angle)

		out := onsetSamples + n
		left[out] += l
		right[out] += r
	}

	return warnings
}
