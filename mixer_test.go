// SPDX-License-Identifier: GPL-3.0-or-later
package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSoftClip_PassesSignalBelowThresholdUnchanged(t *testing.T) {
	assert.Equal(t, 0.5, softClip(0.5))
	assert.Equal(t, -0.5, softClip(-0.5))
	assert.Equal(t, softClipThreshold, softClip(softClipThreshold))
}

func TestSoftClip_BendsSignalAboveThreshold(t *testing.T) {
	y := softClip(2.0)
	assert.Less(t, y, 2.0)
	assert.Less(t, y, 1.0)
	assert.Greater(t, y, softClipThreshold)
}

func TestSoftClip_PreservesSign(t *testing.T) {
	assert.Greater(t, softClip(5), 0.0)
	assert.Less(t, softClip(-5), 0.0)
}

func TestSoftClip_NeverExceedsUnity(t *testing.T) {
	for _, x := range []float64{1, 2, 10, 100, 1e6} {
		assert.LessOrEqual(t, softClip(x), 1.0)
	}
}

func TestFinalizeMix_InterleavesLeftRight(t *testing.T) {
	left := []float64{0.1, 0.2}
	right := []float64{-0.1, -0.2}
	samples, warnings := FinalizeMix(left, right)
	assert.Empty(t, warnings)
	assert.InDelta(t, 0.1, samples[0], 1e-6)
	assert.InDelta(t, -0.1, samples[1], 1e-6)
	assert.InDelta(t, 0.2, samples[2], 1e-6)
	assert.InDelta(t, -0.2, samples[3], 1e-6)
}

func TestFinalizeMix_SubstitutesNonFiniteSamplesWithZero(t *testing.T) {
	left := []float64{math.NaN(), math.Inf(1)}
	right := []float64{math.Inf(-1), 0.3}
	samples, _ := FinalizeMix(left, right)
	assert.Equal(t, float32(0), samples[0])
	assert.Equal(t, float32(0), samples[2])
	assert.Equal(t, float32(0), samples[3])
}

func TestFinalizeMix_EmitsWarningWhenClippingEngages(t *testing.T) {
	left := []float64{0.99}
	right := []float64{0}
	_, warnings := FinalizeMix(left, right)
	assert.Len(t, warnings, 1)
	assert.Equal(t, "mixer", warnings[0].Component)
}

func TestFinalizeMix_NoWarningWhenNothingClips(t *testing.T) {
	left := []float64{0.1, -0.2}
	right := []float64{0.2, -0.1}
	_, warnings := FinalizeMix(left, right)
	assert.Empty(t, warnings)
}
