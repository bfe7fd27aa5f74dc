// SPDX-License-Identifier: GPL-3.0-or-later
package engine

import "strconv"

// BuildPostFxCurves precomputes one unipolar [0,1] curve per PostFxLFO in
// req, keyed by target. Each curve is generated exactly once regardless of
// how many effects in the chain match that target: every matching effect
// reads the same slice, so two delay-based effects modulated by the same
// delay_time LFO move in lock step rather than drifting against each other.
func BuildPostFxCurves(req RenderRequest, sr float64, totalSamples int) map[PostFxTarget][]float64 {
	curves := make(map[PostFxTarget][]float64, len(req.PostFxLFOs))
	for i, lfo := range req.PostFxLFOs {
		var rng *RNGStream
		if lfo.Waveform == WaveSampleHold {
			rng = NewRNGStream(req.Seed, postFxLFOPurpose(i))
		}
		curves[lfo.Target] = PrecomputeCurve(lfo.RateHz, lfo.Waveform, sr, totalSamples, rng)
	}
	return curves
}

func postFxLFOPurpose(i int) string {
	return "postfx:lfo:" + strconv.Itoa(i)
}
