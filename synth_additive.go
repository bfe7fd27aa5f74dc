// SPDX-License-Identifier: GPL-3.0-or-later
package engine

import "math"

// additiveState sums a bank of harmonically-related sine partials, one
// oscillator per entry in Harmonics (index i, 0-based, is harmonic i+1),
// normalized by the sum of the requested weights so the mix never
// clips by construction.
type additiveState struct {
	phases     []oscillatorPhase
	freqHz     float64
	sr         float64
	weights    []float64
	weightSum  float64
}

func newAdditiveState(s Synthesis, sr float64) *additiveState {
	weights := s.Harmonics
	if len(weights) == 0 {
		weights = []float64{1}
	}
	sum := 0.0
	for _, w := range weights {
		sum += math.Abs(w)
	}
	if sum == 0 {
		sum = 1
	}
	return &additiveState{phases: make([]oscillatorPhase, len(weights)), freqHz: s.FrequencyHz, sr: sr, weights: weights, weightSum: sum}
}

func (a *additiveState) Next() float64 {
	out := 0.0
	for i, w := range a.weights {
		t := a.phases[i].advance(a.freqHz * float64(i+1) / a.sr)
		out += w * math.Sin(2*math.Pi*t)
	}
	return out / a.weightSum
}

// wavetableState bakes the same harmonic series used by additiveState
// into a single-cycle lookup table of WavetableLen samples, then reads it
// back with a phase accumulator and linear interpolation. The two
// synthesis kinds share a spectrum but differ in where the per-sample
// cost goes: additive re-evaluates every partial every sample, wavetable
// pays that cost once at construction.
type wavetableState struct {
	table  []float64
	phase  oscillatorPhase
	freqHz float64
	sr     float64
}

func newWavetableState(s Synthesis, sr float64) *wavetableState {
	n := s.WavetableLen
	if n < 8 {
		n = 2048
	}
	weights := s.Harmonics
	if len(weights) == 0 {
		weights = []float64{1}
	}
	sum := 0.0
	for _, w := range weights {
		sum += math.Abs(w)
	}
	if sum == 0 {
		sum = 1
	}

	table := make([]float64, n)
	for i := 0; i < n; i++ {
		t := float64(i) / float64(n)
		v := 0.0
		for h, w := range weights {
			v += w * math.Sin(2*math.Pi*t*float64(h+1))
		}
		table[i] = v / sum
	}
	return &wavetableState{table: table, freqHz: s.FrequencyHz, sr: sr}
}

func (w *wavetableState) Next() float64 {
	t := w.phase.advance(w.freqHz / w.sr)
	pos := t * float64(len(w.table))
	i0 := int(pos) % len(w.table)
	i1 := (i0 + 1) % len(w.table)
	frac := pos - math.Floor(pos)
	return w.table[i0]*(1-frac) + w.table[i1]*frac
}
