// SPDX-License-Identifier: GPL-3.0-or-later
package engine

import "fmt"

// EffectProcessor is the contract every post-mix effect implements: one
// stereo sample in, one stereo sample out, i is the absolute sample index
// (needed by effects that read a post-FX LFO curve).
type EffectProcessor interface {
	Process(l, r float64, i int) (float64, float64)
}

// NewEffectProcessor constructs the concrete processor for e. curves
// holds the render's precomputed post-FX LFO curves, keyed by target;
// effects that don't match any configured target simply get a nil curve
// and run unmodulated. rng is the effect chain's own sub-stream, used only
// by effects with an internal random component (granular delay).
func NewEffectProcessor(e Effect, sr float64, totalSamples int, curves map[PostFxTarget][]float64, rng *RNGStream) (EffectProcessor, error) {
	delayCurve := curves[PostFxTargetDelayTime]
	driveCurve := curves[PostFxTargetDistortionDrive]
	sizeCurve := curves[PostFxTargetReverbSize]

	switch e.Kind {
	case EffectReverb:
		return newReverbEffect(e, sr, sizeCurve), nil
	case EffectDelay:
		return newSimpleDelayEffect(e, sr, delayCurve)
	case EffectMultiTapDelay:
		return newMultiTapDelayEffect(e, sr, delayCurve)
	case EffectGranularDelay:
		return newGranularDelayEffect(e, sr, delayCurve, rng)
	case EffectChorus:
		return newChorusEffect(e, sr)
	case EffectPhaser:
		return newPhaserEffect(e, sr), nil
	case EffectFlanger:
		return newFlangerEffect(e, sr, delayCurve)
	case EffectRotarySpeaker:
		return newRotarySpeakerEffect(e, sr)
	case EffectWaveshaper:
		return newWaveshaperEffect(e, driveCurve), nil
	case EffectTapeSaturation:
		return newTapeSaturationEffect(e, sr, driveCurve), nil
	case EffectBitcrush:
		return newBitcrushEffect(e), nil
	case EffectDistortion:
		return newDistortionEffect(e, driveCurve), nil
	case EffectCompressor:
		return newCompressorEffect(e, sr), nil
	case EffectLimiter:
		return newLimiterEffect(e, sr), nil
	case EffectGate:
		return newGateEffect(e, sr), nil
	case EffectTransientShaper:
		return newTransientShaperEffect(e, sr)
	case EffectParametricEQ:
		return newParametricEQEffect(e, sr), nil
	case EffectStereoWidener:
		return newStereoWidenerEffect(e, sr, delayCurve)
	case EffectCabinetSim:
		return newCabinetSimEffect(sr), nil
	case EffectAutoFilter:
		return newAutoFilterEffect(e, sr), nil
	case EffectRingModulator:
		return newRingModulatorEffect(e, sr), nil
	default:
		return nil, internalErrorf("unhandled effect kind %d", e.Kind)
	}
}

// RunEffectChain applies each configured effect in order over the full
// left/right stereo buffers, sample by sample per stage (rather than
// stage by stage over the whole buffer) so a later stage's stateful
// filters see the same per-sample cadence as everything upstream of it.
func RunEffectChain(req RenderRequest, sr float64, left, right []float64) error {
	totalSamples := len(left)
	curves := BuildPostFxCurves(req, sr, totalSamples)
	rng := NewRNGStream(req.Seed, "postfx")

	processors := make([]EffectProcessor, len(req.PostFx))
	for idx, e := range req.PostFx {
		p, err := NewEffectProcessor(e, sr, totalSamples, curves, rng)
		if err != nil {
			return fmt.Errorf("effect[%d]: %w", idx, err)
		}
		processors[idx] = p
	}

	for i := 0; i < totalSamples; i++ {
		l, r := left[i], right[i]
		for _, p := range processors {
			l, r = p.Process(l, r, i)
		}
		left[i], right[i] = l, r
	}
	return nil
}
