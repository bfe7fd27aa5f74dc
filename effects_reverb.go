// SPDX-License-Identifier: GPL-3.0-or-later
package engine

import "math"

// reverbCombDelays/reverbCombDecays/reverbAllpassDelays are pinned
// constants tuned at 44.1kHz: four parallel feedback combs followed by two
// series allpass sections, the classic Schroeder topology. Delay lengths
// are scaled to the request's own sample rate so the same topology holds
// at any rate; the ratios between them (and therefore the reverb's
// character) stay exactly as tuned.
var (
	reverbCombDelaysAt44k    = [4]int{1687, 1601, 2053, 2251}
	reverbCombDecays         = [4]float64{0.97, 0.95, 0.93, 0.91}
	reverbAllpassDelaysAt44k = [2]int{389, 307}
	reverbAllpassCoeff       = 0.5
)

const (
	reverbReferenceSR  = 44100.0
	reverbPreDelaySec  = 0.008
	reverbAttenuation  = 0.3
)

// reverbAllpass is a single Schroeder allpass section.
type reverbAllpass struct {
	buf  []float64
	pos  int
	coef float64
}

func newReverbAllpass(delay int, coef float64) *reverbAllpass {
	if delay < 1 {
		delay = 1
	}
	return &reverbAllpass{buf: make([]float64, delay), coef: coef}
}

func (a *reverbAllpass) Process(x float64) float64 {
	bufOut := a.buf[a.pos]
	y := -a.coef*x + bufOut
	a.buf[a.pos] = x + a.coef*bufOut
	a.pos++
	if a.pos >= len(a.buf) {
		a.pos = 0
	}
	return y
}

// reverbEffect runs the Schroeder network (4 parallel combs into 2 series
// allpass sections) in stereo, as two independent networks fed from the
// summed input. Every sample, each comb's feedback is set to its pinned
// base decay times a room factor: 1.0 without a reverb_size post-FX LFO
// curve, 0.5+u with one. RoomSize is not read, and the DecaySec scaling
// applied at construction is overwritten by that per-sample setting.
type reverbEffect struct {
	combsL, combsR     [4]*CombFilter
	allpassL, allpassR [2]*reverbAllpass
	preDelayL, preDelayR []float64
	preDelayPos         int
	baseDecays          [4]float64
	sizeCurve           []float64
}

func newReverbEffect(e Effect, sr float64, sizeCurve []float64) *reverbEffect {
	scale := sr / reverbReferenceSR
	r := &reverbEffect{sizeCurve: sizeCurve, baseDecays: reverbCombDecays}

	preDelayN := int(reverbPreDelaySec * sr)
	if preDelayN < 1 {
		preDelayN = 1
	}
	r.preDelayL = make([]float64, preDelayN)
	r.preDelayR = make([]float64, preDelayN)

	for i := 0; i < 4; i++ {
		d := int(float64(reverbCombDelaysAt44k[i]) * scale)
		decay := reverbCombDecays[i] * clamp(e.DecaySec, 0.1, 1.3)
		r.combsL[i] = NewCombFilter(d, decay)
		r.combsR[i] = NewCombFilter(d+7, decay) // small offset decorrelates channels
	}
	for i := 0; i < 2; i++ {
		d := int(float64(reverbAllpassDelaysAt44k[i]) * scale)
		r.allpassL[i] = newReverbAllpass(d, reverbAllpassCoeff)
		r.allpassR[i] = newReverbAllpass(d+5, reverbAllpassCoeff)
	}
	return r
}

func (r *reverbEffect) processChannel(x float64, combs *[4]*CombFilter, allpass *[2]*reverbAllpass, roomSize float64) float64 {
	out := 0.0
	for i := 0; i < 4; i++ {
		combs[i].feedback = r.baseDecays[i] * roomSize
		out += combs[i].Process(x)
	}
	out *= 0.25
	for i := 0; i < 2; i++ {
		out = allpass[i].Process(out)
	}
	return out
}

func (r *reverbEffect) Process(l, r2 float64, i int) (float64, float64) {
	roomSize := 1.0
	if r.sizeCurve != nil {
		roomSize = 0.5 + r.sizeCurve[i]
	}

	mono := (l + r2) * 0.5
	r.preDelayL[r.preDelayPos], r.preDelayR[r.preDelayPos] = mono, mono
	readPos := r.preDelayPos + 1
	if readPos >= len(r.preDelayL) {
		readPos = 0
	}
	delayed := r.preDelayL[readPos]
	r.preDelayPos++
	if r.preDelayPos >= len(r.preDelayL) {
		r.preDelayPos = 0
	}

	wetL := r.processChannel(delayed, &r.combsL, &r.allpassL, roomSize)
	wetR := r.processChannel(delayed, &r.combsR, &r.allpassR, roomSize)

	wetL = math.Tanh(wetL * reverbAttenuation)
	wetR = math.Tanh(wetR * reverbAttenuation)

	return l + wetL, r2 + wetR
}
