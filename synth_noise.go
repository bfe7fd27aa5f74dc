// SPDX-License-Identifier: GPL-3.0-or-later
package engine

// whiteNoiseState draws an independent sample from its own RNG sub-stream
// every tick: no filtering, flat spectrum.
type whiteNoiseState struct {
	rng *RNGStream
}

func newWhiteNoiseState(rng *RNGStream) *whiteNoiseState {
	return &whiteNoiseState{rng: rng}
}

func (w *whiteNoiseState) Next() float64 {
	return w.rng.Bipolar()
}

// pinkNoiseState implements the Paul Kellet cascaded one-pole approximation
// of 1/f noise: seven running state variables, fixed pole/gain constants.
// Chosen over an FFT-shaping approach because it is a pure IIR recurrence:
// no block boundary, no window, and therefore nothing that could make the
// output depend on buffer size.
type pinkNoiseState struct {
	rng            *RNGStream
	b0, b1, b2, b3, b4, b5, b6 float64
}

func newPinkNoiseState(rng *RNGStream) *pinkNoiseState {
	return &pinkNoiseState{rng: rng}
}

func (p *pinkNoiseState) Next() float64 {
	white := p.rng.Bipolar()
	p.b0 = 0.99886*p.b0 + white*0.0555179
	p.b1 = 0.99332*p.b1 + white*0.0750759
	p.b2 = 0.96900*p.b2 + white*0.1538520
	p.b3 = 0.86650*p.b3 + white*0.3104856
	p.b4 = 0.55000*p.b4 + white*0.5329522
	p.b5 = -0.7616*p.b5 - white*0.0168980
	out := p.b0 + p.b1 + p.b2 + p.b3 + p.b4 + p.b5 + p.b6 + white*0.5362
	p.b6 = white * 0.115926
	return out * 0.11
}

// brownNoiseState integrates white noise with a leak term to stay bounded,
// giving a -6dB/octave (1/f^2) spectrum.
type brownNoiseState struct {
	rng   *RNGStream
	level float64
}

func newBrownNoiseState(rng *RNGStream) *brownNoiseState {
	return &brownNoiseState{rng: rng}
}

func (b *brownNoiseState) Next() float64 {
	white := b.rng.Bipolar()
	b.level = (b.level + white*0.02) * 0.998
	if b.level > 1 {
		b.level = 1
	} else if b.level < -1 {
		b.level = -1
	}
	return b.level
}
