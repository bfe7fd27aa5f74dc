// SPDX-License-Identifier: GPL-3.0-or-later
package engine

import "math"

// bipolarWaveform evaluates a waveform at phase t in [0,1) to a value in
// [-1,1]. pulseWidth only affects WavePulse (duty cycle, default 0.5).
func bipolarWaveform(kind WaveformKind, t, pulseWidth float64) float64 {
	switch kind {
	case WaveTriangle:
		return 2*(1-math.Abs(2*t-1)) - 1
	case WaveSawtooth:
		return 2*t - 1
	case WaveSquare:
		if t < 0.5 {
			return 1
		}
		return -1
	case WavePulse:
		pw := pulseWidth
		if pw <= 0 || pw >= 1 {
			pw = 0.5
		}
		if t < pw {
			return 1
		}
		return -1
	default: // WaveSine
		return math.Sin(2 * math.Pi * t)
	}
}

// oscillatorState generates SynthOscillator: a single bipolar waveform at
// a fixed, swept, or externally-modulated frequency, driven by a phase
// accumulator at an arbitrary sample rate.
type oscillatorState struct {
	phase      oscillatorPhase
	waveform   WaveformKind
	freqHz     float64
	sr         float64
	pulseWidth float64

	sweepEnabled bool
	sweepCurve   CurveKind
	sweepStartHz float64
	sweepEndHz   float64
	totalSamples int
	sampleIdx    int

	pitchRatio float64 // one-shot multiplier applied by the pitch LFO target
}

func newOscillatorState(s Synthesis, sr float64, totalSamples int) *oscillatorState {
	pw := s.PulseWidth
	if pw == 0 {
		pw = 0.5
	}
	return &oscillatorState{
		waveform: s.Waveform, freqHz: s.FrequencyHz, sr: sr, pulseWidth: pw,
		sweepEnabled: s.SweepEnabled, sweepCurve: s.SweepCurve,
		sweepStartHz: s.FrequencyHz, sweepEndHz: s.SweepEndHz,
		totalSamples: totalSamples, pitchRatio: 1,
	}
}

// setPitchRatio applies a one-sample multiplier on top of the oscillator's
// own (possibly swept) base frequency; the pitch LFO target uses this
// rather than overwriting the base frequency outright, so a layer can sweep
// and pitch-modulate the same oscillator without one silently discarding
// the other.
func (o *oscillatorState) setPitchRatio(r float64) { o.pitchRatio = r }

func (o *oscillatorState) setPulseWidth(pw float64) { o.pulseWidth = pw }

// currentFrequency returns this sample's base frequency before any pitch
// LFO ratio is applied: the configured sweep curve position if a sweep is
// enabled, otherwise the fixed frequency.
func (o *oscillatorState) currentFrequency() float64 {
	if !o.sweepEnabled || o.totalSamples <= 1 {
		return o.freqHz
	}
	t := float64(o.sampleIdx) / float64(o.totalSamples-1)
	return InterpolateCurve(o.sweepCurve, o.sweepStartHz, o.sweepEndHz, t)
}

func (o *oscillatorState) Next() float64 {
	freq := o.currentFrequency() * o.pitchRatio
	o.pitchRatio = 1
	o.sampleIdx++
	t := o.phase.advance(freq / o.sr)
	return bipolarWaveform(o.waveform, t, o.pulseWidth)
}

// supersawState stacks Voices detuned sawtooth oscillators and sums them
// with equal-power scaling.
type supersawState struct {
	voices []oscillatorPhase
	ratios []float64
	freqHz float64
	sr     float64
}

func newSupersawState(s Synthesis, sr float64) *supersawState {
	voices := s.Voices
	if voices < 1 {
		voices = 1
	}
	ss := &supersawState{voices: make([]oscillatorPhase, voices), ratios: make([]float64, voices), freqHz: s.FrequencyHz, sr: sr}
	if voices == 1 {
		ss.ratios[0] = 1
		return ss
	}
	detune := s.Detune
	for i := 0; i < voices; i++ {
		spread := float64(i)/float64(voices-1)*2 - 1 // -1..1
		cents := spread * detune
		ss.ratios[i] = math.Pow(2, cents/1200)
	}
	return ss
}

func (ss *supersawState) Next() float64 {
	out := 0.0
	for i := range ss.voices {
		t := ss.voices[i].advance(ss.freqHz * ss.ratios[i] / ss.sr)
		out += 2*t - 1
	}
	return out / math.Sqrt(float64(len(ss.voices)))
}
