// SPDX-License-Identifier: GPL-3.0-or-later
package engine

import "math"

// softClipThreshold is where the mixer's final limiter starts bending the
// signal rather than passing it straight through; kept below 1.0 so a
// cluster of simultaneous peaks has headroom to round off instead of
// hard-clipping at the f32 narrowing step.
const softClipThreshold = 0.891

// softClip applies a tanh-based soft limiter above softClipThreshold,
// leaving everything below it untouched.
func softClip(x float64) float64 {
	mag := math.Abs(x)
	if mag <= softClipThreshold {
		return x
	}
	sign := 1.0
	if x < 0 {
		sign = -1.0
	}
	over := mag - softClipThreshold
	headroom := 1 - softClipThreshold
	shaped := softClipThreshold + headroom*math.Tanh(over/headroom)
	return sign * shaped
}

// FinalizeMix applies the mixer's soft-clip policy and narrows the
// interleaved stereo buffer to float32, appending a warning for any sample
// that needed clipping or carried a non-finite value.
func FinalizeMix(left, right []float64) ([]float32, []NumericGuardWarning) {
	out := make([]float32, len(left)*2)
	var warnings []NumericGuardWarning
	clippedCount := 0

	for i := range left {
		l, r := left[i], right[i]
		if math.IsNaN(l) || math.IsInf(l, 0) {
			l = 0
		}
		if math.IsNaN(r) || math.IsInf(r, 0) {
			r = 0
		}
		if math.Abs(l) > softClipThreshold || math.Abs(r) > softClipThreshold {
			clippedCount++
		}
		out[2*i] = float32(softClip(l))
		out[2*i+1] = float32(softClip(r))
	}

	if clippedCount > 0 {
		warnings = append(warnings, NumericGuardWarning{
			Component: "mixer",
			Reason:    "soft-clip engaged on samples exceeding headroom threshold",
		})
	}
	return out, warnings
}
