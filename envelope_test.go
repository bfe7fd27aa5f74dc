// SPDX-License-Identifier: GPL-3.0-or-later
package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnvelopeState_AttackRampsToOne(t *testing.T) {
	env := Envelope{Attack: 0.1, Decay: 0.1, Sustain: 0.5, Release: 0.1}
	sr := 1000.0
	total := int(1 * sr)
	s := NewEnvelopeState(env, sr, total)

	var peak float64
	for n := 0; n < 100; n++ {
		g := s.Advance(n)
		if g > peak {
			peak = g
		}
	}
	assert.InDelta(t, 1.0, peak, 0.02)
}

func TestEnvelopeState_DecaysToSustain(t *testing.T) {
	env := Envelope{Attack: 0.01, Decay: 0.05, Sustain: 0.4, Release: 0.05}
	sr := 1000.0
	total := int(1 * sr)
	s := NewEnvelopeState(env, sr, total)

	var last float64
	for n := 0; n < 200; n++ {
		last = s.Advance(n)
	}
	assert.InDelta(t, 0.4, last, 0.02)
}

func TestEnvelopeState_ReleaseEndsExactlyAtLayerEnd(t *testing.T) {
	env := Envelope{Attack: 0.01, Decay: 0.01, Sustain: 0.8, Release: 0.1}
	sr := 1000.0
	total := int(0.5 * sr)
	s := NewEnvelopeState(env, sr, total)

	var last float64
	for n := 0; n < total; n++ {
		last = s.Advance(n)
	}
	assert.InDelta(t, 0, last, 1e-6)
}

func TestEnvelopeState_ReleaseNeverExceedsOne(t *testing.T) {
	env := Envelope{Attack: 0, Decay: 0, Sustain: 1, Release: 0.2}
	sr := 1000.0
	total := int(1 * sr)
	s := NewEnvelopeState(env, sr, total)

	for n := 0; n < total; n++ {
		g := s.Advance(n)
		assert.LessOrEqual(t, g, 1.0)
		assert.GreaterOrEqual(t, g, 0.0)
	}
}

func TestEnvelopeState_LoopReturnsToAttackInsteadOfDone(t *testing.T) {
	env := Envelope{Attack: 0.01, Decay: 0.01, Sustain: 0.5, Release: 0.02, Loop: true}
	sr := 1000.0
	total := int(0.1 * sr)
	s := NewEnvelopeState(env, sr, total)

	for n := 0; n < total; n++ {
		s.Advance(n)
	}
	assert.NotEqual(t, stageDone, s.stage, "a looping envelope should never settle into stageDone")
}

func TestEnvelopeState_NoLoopSettlesIntoDone(t *testing.T) {
	env := Envelope{Attack: 0.01, Decay: 0.01, Sustain: 0.5, Release: 0.02, Loop: false}
	sr := 1000.0
	total := int(0.1 * sr)
	s := NewEnvelopeState(env, sr, total)

	for n := 0; n < total+int(sr); n++ {
		s.Advance(n)
	}
	assert.Equal(t, stageDone, s.stage)
}

func TestEnvelopeState_ZeroAttackDecayJumpsToSustain(t *testing.T) {
	env := Envelope{Attack: 0, Decay: 0, Sustain: 0.3, Release: 0.05}
	sr := 1000.0
	total := int(0.5 * sr)
	s := NewEnvelopeState(env, sr, total)
	s.Advance(0) // attack stage collapses immediately, moving to decay
	assert.InDelta(t, 0.3, s.Advance(1), 1e-9)
}
