// SPDX-License-Identifier: GPL-3.0-or-later
package engine

import "math"

// fmState is two-operator FM: a sine modulator phase-modulates a sine
// carrier, index scaling how far the modulator pushes the carrier's phase.
type fmState struct {
	carrierPhase   oscillatorPhase
	modPhase       oscillatorPhase
	carrierFreqHz  float64
	modFreqHz      float64
	index          float64
	sr             float64
}

func newFMState(s Synthesis, sr float64) *fmState {
	ratio := s.ModRatio
	if ratio == 0 {
		ratio = 1
	}
	return &fmState{carrierFreqHz: s.FrequencyHz, modFreqHz: s.FrequencyHz * ratio, index: s.ModIndex, sr: sr}
}

// setFMIndex retunes the modulation index in place; used by the fm_index
// LFO target.
func (f *fmState) setFMIndex(v float64) { f.index = v }

func (f *fmState) Next() float64 {
	mt := f.modPhase.advance(f.modFreqHz / f.sr)
	modSample := math.Sin(2 * math.Pi * mt)

	ct := f.carrierPhase.advance(f.carrierFreqHz / f.sr)
	return math.Sin(2*math.Pi*ct + f.index*modSample)
}

// feedbackFMState is a single FM operator that modulates its own phase
// with a scaled copy of its previous output, the simplest self-oscillating
// FM topology.
type feedbackFMState struct {
	phase      oscillatorPhase
	freqHz     float64
	feedback   float64
	sr         float64
	prevOutput float64
}

func newFeedbackFMState(s Synthesis, sr float64) *feedbackFMState {
	return &feedbackFMState{freqHz: s.FrequencyHz, feedback: s.FeedbackAmt, sr: sr}
}

// setFMIndex retunes the self-feedback amount in place: the feedback
// variant's own analog of a modulation index, used by the fm_index LFO
// target.
func (f *feedbackFMState) setFMIndex(v float64) { f.feedback = v }

func (f *feedbackFMState) Next() float64 {
	t := f.phase.advance(f.freqHz / f.sr)
	out := math.Sin(2*math.Pi*t + f.feedback*f.prevOutput)
	f.prevOutput = out
	return out
}

// amState is carrier amplitude modulated by a sine at carrierFreqHz *
// ModRatio, remapped to [0,1] so modulation never fully cancels the
// carrier: AM output stays a scaled carrier rather than a ring-mod
// sideband pair.
type amState struct {
	carrierPhase  oscillatorPhase
	modPhase      oscillatorPhase
	carrierFreqHz float64
	modFreqHz     float64
	sr            float64
}

func newAMState(s Synthesis, sr float64) *amState {
	ratio := s.ModRatio
	if ratio == 0 {
		ratio = 1
	}
	return &amState{carrierFreqHz: s.FrequencyHz, modFreqHz: s.FrequencyHz * ratio, sr: sr}
}

func (a *amState) Next() float64 {
	ct := a.carrierPhase.advance(a.carrierFreqHz / a.sr)
	carrier := math.Sin(2 * math.Pi * ct)
	mt := a.modPhase.advance(a.modFreqHz / a.sr)
	mod := 0.5 * (1 + math.Sin(2*math.Pi*mt))
	return carrier * mod
}

// ringModState multiplies two raw sine oscillators directly, producing
// sum/difference sidebands with no carrier term.
type ringModState struct {
	aPhase, bPhase oscillatorPhase
	aFreqHz, bFreqHz float64
	sr             float64
}

func newRingModState(s Synthesis, sr float64) *ringModState {
	ratio := s.CarrierRatio
	if ratio == 0 {
		ratio = 1
	}
	return &ringModState{aFreqHz: s.FrequencyHz, bFreqHz: s.FrequencyHz * ratio, sr: sr}
}

func (r *ringModState) Next() float64 {
	at := r.aPhase.advance(r.aFreqHz / r.sr)
	bt := r.bPhase.advance(r.bFreqHz / r.sr)
	return math.Sin(2*math.Pi*at) * math.Sin(2*math.Pi*bt)
}
