// SPDX-License-Identifier: GPL-3.0-or-later
package engine

import "math"

// karplusStrongState is a plucked-string model: a noise burst fills a
// delay line of length sr/freq samples, then a two-tap averaging filter
// (the classic Karplus-Strong loop filter) feeds it back on itself,
// low-pass filtering and decaying the contents each time around.
type karplusStrongState struct {
	buf     []float64
	pos     int
	damping float64
}

func newKarplusStrongState(s Synthesis, sr float64, rng *RNGStream) *karplusStrongState {
	n := int(sr/math.Max(s.FrequencyHz, 1) + 0.5)
	if n < 2 {
		n = 2
	}
	buf := make([]float64, n)
	for i := range buf {
		buf[i] = rng.Bipolar()
	}
	damping := s.Damping
	if damping <= 0 {
		damping = 0.5
	}
	return &karplusStrongState{buf: buf, damping: damping}
}

func (k *karplusStrongState) Next() float64 {
	cur := k.buf[k.pos]
	next := k.buf[(k.pos+1)%len(k.buf)]
	avg := (cur + next) * 0.5 * k.damping
	k.buf[k.pos] = avg
	k.pos++
	if k.pos >= len(k.buf) {
		k.pos = 0
	}
	return cur
}

// waveguideStringState is a bowed string: the same delay-line loop as
// Karplus-Strong, but continuously excited by filtered noise (a crude
// friction model) rather than a single burst, so the string keeps
// ringing for as long as the layer is held.
type waveguideStringState struct {
	buf       []float64
	pos       int
	damping   float64
	rng       *RNGStream
	brightness float64
	excLP     float64
}

func newWaveguideStringState(s Synthesis, sr float64, rng *RNGStream) *waveguideStringState {
	n := int(sr/math.Max(s.FrequencyHz, 1) + 0.5)
	if n < 2 {
		n = 2
	}
	damping := s.Damping
	if damping <= 0 {
		damping = 0.995
	}
	brightness := s.BrightRatio
	if brightness <= 0 {
		brightness = 0.5
	}
	return &waveguideStringState{buf: make([]float64, n), damping: damping, rng: rng, brightness: brightness}
}

func (w *waveguideStringState) Next() float64 {
	exc := w.rng.Bipolar() * 0.05
	w.excLP = w.excLP + w.brightness*(exc-w.excLP)

	cur := w.buf[w.pos]
	next := w.buf[(w.pos+1)%len(w.buf)]
	avg := (cur+next)*0.5*w.damping + w.excLP
	w.buf[w.pos] = avg
	w.pos++
	if w.pos >= len(w.buf) {
		w.pos = 0
	}
	return cur
}

// modalPartialOsc is a single exponentially-decaying sinusoid: one term
// of a modal synthesis sum.
type modalPartialOsc struct {
	phase  oscillatorPhase
	freqHz float64
	sr     float64
	amp    float64
	decay  float64 // per-sample multiplier
	level  float64
}

func newModalPartialOsc(fundamentalHz, sr float64, p ModalPartial) *modalPartialOsc {
	decaySec := p.DecaySec
	if decaySec <= 0 {
		decaySec = 1
	}
	// time constant: amplitude falls to 1/e after decaySec seconds.
	perSample := math.Exp(-1 / (decaySec * sr))
	return &modalPartialOsc{freqHz: fundamentalHz * p.Ratio, sr: sr, amp: p.Amp, decay: perSample, level: 1}
}

func (m *modalPartialOsc) Next() float64 {
	t := m.phase.advance(m.freqHz / m.sr)
	out := m.amp * m.level * math.Sin(2*math.Pi*t)
	m.level *= m.decay
	return out
}

// modalBankState sums a bank of modalPartialOsc, one per ModalPartial in
// the Synthesis config, normalized so more partials doesn't mean louder.
type modalBankState struct {
	partials []*modalPartialOsc
}

func newModalBankState(fundamentalHz, sr float64, partials []ModalPartial) *modalBankState {
	bank := &modalBankState{partials: make([]*modalPartialOsc, len(partials))}
	for i, p := range partials {
		bank.partials[i] = newModalPartialOsc(fundamentalHz, sr, p)
	}
	return bank
}

func (m *modalBankState) Next() float64 {
	if len(m.partials) == 0 {
		return 0
	}
	out := 0.0
	for _, p := range m.partials {
		out += p.Next()
	}
	return out / math.Sqrt(float64(len(m.partials)))
}

// defaultMetallicPartials pins an inharmonic partial series typical of
// struck metal (ratios are not small-integer multiples of the
// fundamental, unlike a harmonic series).
func defaultMetallicPartials() []ModalPartial {
	return []ModalPartial{
		{Ratio: 1.0, DecaySec: 1.2, Amp: 1.0},
		{Ratio: 2.76, DecaySec: 0.9, Amp: 0.6},
		{Ratio: 5.40, DecaySec: 0.6, Amp: 0.4},
		{Ratio: 8.93, DecaySec: 0.35, Amp: 0.25},
		{Ratio: 13.34, DecaySec: 0.2, Amp: 0.15},
	}
}

// defaultMembranePartials pins the lowest ideal circular-membrane modes
// (Bessel-function zeros drawn from J0 through J3), as ratios to the
// fundamental mode.
func defaultMembranePartials() []ModalPartial {
	return []ModalPartial{
		{Ratio: 1.0, DecaySec: 0.5, Amp: 1.0},
		{Ratio: 1.594, DecaySec: 0.4, Amp: 0.55},
		{Ratio: 2.136, DecaySec: 0.3, Amp: 0.35},
		{Ratio: 2.296, DecaySec: 0.25, Amp: 0.25},
		{Ratio: 2.653, DecaySec: 0.2, Amp: 0.15},
	}
}

// defaultPitchedBodyPartials pins a harmonic series with a fast-decaying
// upper register, approximating a resonant wooden body driving a pitched
// fundamental.
func defaultPitchedBodyPartials() []ModalPartial {
	return []ModalPartial{
		{Ratio: 1, DecaySec: 2.0, Amp: 1.0},
		{Ratio: 2, DecaySec: 1.2, Amp: 0.5},
		{Ratio: 3, DecaySec: 0.8, Amp: 0.3},
		{Ratio: 4, DecaySec: 0.5, Amp: 0.2},
	}
}
