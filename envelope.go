// SPDX-License-Identifier: GPL-3.0-or-later
package engine

// Envelope holds the four ADSR parameters in real-world units.
// Attack/Decay/Release are seconds; Sustain is a unit level in [0,1]. It
// drives the layer's amplitude only; there is no pitch-envelope variant.
type Envelope struct {
	Attack  float64
	Decay   float64
	Sustain float64
	Release float64
	// Loop, when set, returns to the attack stage after release completes
	// instead of holding silence.
	Loop bool
}

// envelopeStage names the classic ADSR phases, with sample counts derived
// from the request's own sample rate rather than a fixed rate.
type envelopeStage int

const (
	stageAttack envelopeStage = iota
	stageDecay
	stageSustain
	stageRelease
	stageDone
)

// EnvelopeState is the per-layer live cursor through an Envelope. It is
// created lazily when a layer is first touched and discarded with it.
type EnvelopeState struct {
	sustain float64
	loop    bool

	stage        envelopeStage
	level        float64
	stageSample  int
	attackN      int
	decayN       int
	releaseN     int
	noteOffAt    int // sample index at which release begins
	releaseStart float64
}

// NewEnvelopeState precomputes sample counts for env at sample rate sr,
// for a layer that lasts totalSamples samples. noteOffAt is the sample
// index at which the release stage begins; for one-shot sounds this is
// totalSamples minus the release length, so release finishes exactly at
// the end of the layer.
func NewEnvelopeState(env Envelope, sr float64, totalSamples int) *EnvelopeState {
	attackN := secondsToSamples(env.Attack, sr)
	decayN := secondsToSamples(env.Decay, sr)
	releaseN := secondsToSamples(env.Release, sr)

	noteOffAt := totalSamples - releaseN
	if noteOffAt < attackN+decayN {
		noteOffAt = attackN + decayN
	}
	if noteOffAt < 0 {
		noteOffAt = 0
	}

	return &EnvelopeState{
		sustain:   env.Sustain,
		loop:      env.Loop,
		stage:     stageAttack,
		attackN:   attackN,
		decayN:    decayN,
		releaseN:  releaseN,
		noteOffAt: noteOffAt,
	}
}

func secondsToSamples(seconds, sr float64) int {
	if seconds <= 0 {
		return 0
	}
	n := int(seconds*sr + 0.5)
	if n < 0 {
		return 0
	}
	return n
}

// Advance steps the envelope by one sample at absolute sample index n and
// returns the current gain in [0,1]. n must be called with strictly
// increasing values starting at 0 (the layer renderer's per-sample loop).
func (s *EnvelopeState) Advance(n int) float64 {
	sustain := s.sustain

	if n >= s.noteOffAt && s.stage != stageRelease && s.stage != stageDone {
		s.stage = stageRelease
		s.stageSample = 0
		s.releaseStart = s.level
	}

	switch s.stage {
	case stageAttack:
		if s.attackN <= 0 {
			s.level = 1
			s.stage = stageDecay
			s.stageSample = 0
		} else {
			s.level = float64(s.stageSample) / float64(s.attackN)
			s.stageSample++
			if s.stageSample >= s.attackN {
				s.level = 1
				s.stage = stageDecay
				s.stageSample = 0
			}
		}
	case stageDecay:
		if s.decayN <= 0 {
			s.level = sustain
			s.stage = stageSustain
		} else {
			s.level = 1 - (1-sustain)*float64(s.stageSample)/float64(s.decayN)
			s.stageSample++
			if s.stageSample >= s.decayN {
				s.level = sustain
				s.stage = stageSustain
			}
		}
	case stageSustain:
		s.level = sustain
	case stageRelease:
		if s.releaseN <= 0 {
			s.level = 0
			s.stage = stageDone
		} else {
			s.level = s.releaseStart * (1 - float64(s.stageSample)/float64(s.releaseN))
			s.stageSample++
			if s.stageSample >= s.releaseN {
				s.level = 0
				if s.loop {
					s.stage = stageAttack
					s.stageSample = 0
				} else {
					s.stage = stageDone
				}
			}
		}
	case stageDone:
		s.level = 0
	}

	if s.level < 0 {
		s.level = 0
	} else if s.level > 1 {
		s.level = 1
	}
	return s.level
}
