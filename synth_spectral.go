// SPDX-License-Identifier: GPL-3.0-or-later
package engine

import (
	"math"

	"gonum.org/v1/gonum/dsp/fourier"
)

// phaseDistortionState implements a Casio-CZ-style phase distortion
// oscillator: a linear phase ramp is warped through a piecewise curve
// before being read as a sine, concentrating harmonic energy without an
// explicit filter.
type phaseDistortionState struct {
	phase  oscillatorPhase
	freqHz float64
	sr     float64
	amount float64
}

func newPhaseDistortionState(s Synthesis, sr float64) *phaseDistortionState {
	amt := s.DistortionAmt
	if amt <= 0 {
		amt = 0.5
	}
	if amt >= 1 {
		amt = 0.999
	}
	return &phaseDistortionState{freqHz: s.FrequencyHz, sr: sr, amount: amt}
}

// warp bends a linear ramp t in [0,1) so the first `amount` fraction of
// the period covers half the output phase range and the rest covers the
// other half, the classic CZ "resonance" shape.
func (p *phaseDistortionState) warp(t float64) float64 {
	if t < p.amount {
		return 0.5 * t / p.amount
	}
	return 0.5 + 0.5*(t-p.amount)/(1-p.amount)
}

func (p *phaseDistortionState) Next() float64 {
	t := p.phase.advance(p.freqHz / p.sr)
	return math.Sin(2 * math.Pi * p.warp(t))
}

// vectorSynthState crossfades between a sine and a sawtooth partial,
// VectorMix selecting the blend (0 = pure sine, 1 = pure sawtooth), the
// two-corner simplification of a classic four-corner vector synthesis
// joystick.
type vectorSynthState struct {
	phase  oscillatorPhase
	freqHz float64
	sr     float64
	mix    float64
}

func newVectorSynthState(s Synthesis, sr float64) *vectorSynthState {
	return &vectorSynthState{freqHz: s.FrequencyHz, sr: sr, mix: clamp(s.VectorMix, 0, 1)}
}

func (v *vectorSynthState) Next() float64 {
	t := v.phase.advance(v.freqHz / v.sr)
	sine := math.Sin(2 * math.Pi * t)
	saw := 2*t - 1
	return sine*(1-v.mix) + saw*v.mix
}

// spectralFreezeState captures one cycle-ish window of a source
// oscillator, takes its real FFT, and resynthesizes indefinitely by
// advancing each bin's phase at its own fixed rate while holding
// magnitude constant — the frozen-spectrum granular-less alternative to
// looping a sample. FFT analysis via
// gonum's fourier package; bin phases evolve with pure float64 recurrence
// so the resynthesis itself stays independent of the FFT call count.
type spectralFreezeState struct {
	mags   []float64
	phaseAdvance []float64
	phases []float64
	n      int
}

func newSpectralFreezeState(s Synthesis, sr float64) *spectralFreezeState {
	n := s.FreezeFFTSize
	if n < 64 {
		n = 1024
	}
	// Capture a single cycle of the requested fundamental as the source
	// material: a band-limited-ish sawtooth built from its first few
	// harmonics, frozen and resynthesized.
	src := make([]float64, n)
	freq := s.FrequencyHz
	if freq <= 0 {
		freq = 220
	}
	for i := range src {
		t := float64(i) / float64(n)
		v := 0.0
		for h := 1; h <= 8; h++ {
			v += math.Sin(2*math.Pi*t*float64(h)) / float64(h)
		}
		src[i] = v
	}

	fft := fourier.NewFFT(n)
	spectrum := fft.Coefficients(nil, src)

	mags := make([]float64, len(spectrum))
	phases := make([]float64, len(spectrum))
	advance := make([]float64, len(spectrum))
	for i, c := range spectrum {
		mags[i] = math.Hypot(real(c), imag(c)) / float64(n)
		phases[i] = math.Atan2(imag(c), real(c))
		// The source holds one cycle, so bin i is harmonic i of freq.
		binFreq := float64(i) * freq
		advance[i] = 2 * math.Pi * binFreq / sr
	}

	return &spectralFreezeState{mags: mags, phaseAdvance: advance, phases: phases, n: n}
}

func (sf *spectralFreezeState) Next() float64 {
	out := 0.0
	for i, mag := range sf.mags {
		if mag < 1e-9 {
			continue
		}
		out += mag * math.Cos(sf.phases[i])
		sf.phases[i] += sf.phaseAdvance[i]
	}
	return out
}

// vocoderFormantState drives a periodic pulse excitation through the
// three-band formant filter bank of filters.go, tuned to Vowel.
type vocoderFormantState struct {
	phase    oscillatorPhase
	freqHz   float64
	sr       float64
	formant  *FormantFilter
}

func newVocoderFormantState(s Synthesis, sr float64) *vocoderFormantState {
	freq := s.FrequencyHz
	if freq <= 0 {
		freq = 110
	}
	return &vocoderFormantState{freqHz: freq, sr: sr, formant: NewFormantFilter(s.Vowel, sr)}
}

func (v *vocoderFormantState) Next() float64 {
	t := v.phase.advance(v.freqHz / v.sr)
	// Narrow impulse-train excitation, richer in harmonics than a sine.
	exc := 2*t - 1
	exc = exc * exc * exc
	return v.formant.Process(exc)
}
