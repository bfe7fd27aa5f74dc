// SPDX-License-Identifier: GPL-3.0-or-later
package engine

import "math"

// waveshapeCurve applies one of the four nonlinear transfer curves a
// waveshaper can select: tanh saturates smoothly, soft-clip is the same
// cubic `saturate` curve the tape-saturation effect uses (input clamped to
// [-1,1] first), hard-clip is a flat ceiling, and sine-fold wraps the signal back on
// itself through a sine rather than clamping it.
func waveshapeCurve(kind WaveshaperKind, x float64) float64 {
	switch kind {
	case ShapeSoftClip:
		return saturate(clamp(x, -1, 1))
	case ShapeHardClip:
		return clamp(x, -1, 1)
	case ShapeSineFold:
		return math.Sin(x * math.Pi / 2)
	default:
		return math.Tanh(x)
	}
}

// waveshaperEffect runs the signal through a selectable nonlinear transfer
// curve scaled by Drive, optionally swept by a distortion_drive post-FX
// LFO curve.
type waveshaperEffect struct {
	drive      float64
	driveCurve []float64
	shape      WaveshaperKind
	wet        float64
}

func newWaveshaperEffect(e Effect, driveCurve []float64) *waveshaperEffect {
	drive := e.Drive
	if drive <= 0 {
		drive = 1
	}
	wet := e.MixWet
	if wet == 0 {
		wet = 1
	}
	return &waveshaperEffect{drive: drive, driveCurve: driveCurve, shape: e.Shape, wet: wet}
}

func (w *waveshaperEffect) Process(l, r float64, i int) (float64, float64) {
	drive := w.drive
	if w.driveCurve != nil {
		drive = w.drive * (0.3 + 1.7*w.driveCurve[i])
	}
	shapedL := waveshapeCurve(w.shape, l*drive)
	shapedR := waveshapeCurve(w.shape, r*drive)
	return l + (shapedL-l)*w.wet, r + (shapedR-r)*w.wet
}

// tapeSaturationEffect is a softer odd-harmonic saturation curve than
// waveshaper's tanh, scaled by Drive, plus a fixed 8 kHz one-pole
// high-frequency roll-off that mimics tape head loss. The roll-off does
// not depend on Drive.
type tapeSaturationEffect struct {
	drive       float64
	driveCurve  []float64
	lpStateL    float64
	lpStateR    float64
	lpCoeff     float64
	wet         float64
}

func newTapeSaturationEffect(e Effect, sr float64, driveCurve []float64) *tapeSaturationEffect {
	drive := e.Drive
	if drive <= 0 {
		drive = 1.5
	}
	wet := e.MixWet
	if wet == 0 {
		wet = 1
	}
	cutoff := 8000.0
	rc := 1 / (2 * math.Pi * cutoff)
	dt := 1 / sr
	coeff := dt / (rc + dt)
	return &tapeSaturationEffect{drive: drive, driveCurve: driveCurve, lpCoeff: coeff, wet: wet}
}

func saturate(x float64) float64 {
	return x - (x*x*x)/3
}

func (t *tapeSaturationEffect) Process(l, r float64, i int) (float64, float64) {
	drive := t.drive
	if t.driveCurve != nil {
		drive = t.drive * (0.3 + 1.7*t.driveCurve[i])
	}
	sl := clamp(saturate(clamp(l*drive, -1.5, 1.5)), -1, 1)
	sr := clamp(saturate(clamp(r*drive, -1.5, 1.5)), -1, 1)

	t.lpStateL += t.lpCoeff * (sl - t.lpStateL)
	t.lpStateR += t.lpCoeff * (sr - t.lpStateR)

	return l + (t.lpStateL-l)*t.wet, r + (t.lpStateR-r)*t.wet
}

// bitcrushEffect quantizes to steps of 1/2^BitDepth and, independently,
// downsamples by holding each sample for SampleDiv ticks — the two
// classic lo-fi degradation knobs.
type bitcrushEffect struct {
	levels      float64
	sampleDiv   int
	counter     int
	heldL, heldR float64
	wet         float64
}

func newBitcrushEffect(e Effect) *bitcrushEffect {
	bits := e.BitDepth
	if bits <= 0 || bits > 24 {
		bits = 8
	}
	div := e.SampleDiv
	if div < 1 {
		div = 1
	}
	wet := e.MixWet
	if wet == 0 {
		wet = 1
	}
	return &bitcrushEffect{levels: math.Pow(2, float64(bits)), sampleDiv: div, wet: wet}
}

func (b *bitcrushEffect) Process(l, r float64, i int) (float64, float64) {
	if b.counter == 0 {
		b.heldL = math.Round(l*b.levels) / b.levels
		b.heldR = math.Round(r*b.levels) / b.levels
	}
	b.counter++
	if b.counter >= b.sampleDiv {
		b.counter = 0
	}
	return l + (b.heldL-l)*b.wet, r + (b.heldR-r)*b.wet
}

// distortionEffect is a hard-clip distortion with a pre-gain stage
// (Drive), the most aggressive of the three saturation-family effects,
// optionally swept by a distortion_drive post-FX LFO curve.
type distortionEffect struct {
	drive      float64
	driveCurve []float64
	wet        float64
}

func newDistortionEffect(e Effect, driveCurve []float64) *distortionEffect {
	drive := e.Drive
	if drive <= 0 {
		drive = 4
	}
	wet := e.MixWet
	if wet == 0 {
		wet = 1
	}
	return &distortionEffect{drive: drive, driveCurve: driveCurve, wet: wet}
}

func (d *distortionEffect) Process(l, r float64, i int) (float64, float64) {
	drive := d.drive
	if d.driveCurve != nil {
		drive = d.drive * (0.3 + 1.7*d.driveCurve[i])
	}
	cl := clamp(l*drive, -1, 1)
	cr := clamp(r*drive, -1, 1)
	return l + (cl-l)*d.wet, r + (cr-r)*d.wet
}
