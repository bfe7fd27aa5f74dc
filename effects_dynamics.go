// SPDX-License-Identifier: GPL-3.0-or-later
package engine

import "math"

// envelopeFollower tracks a signal's amplitude with independent attack
// and release time constants, the shared building block behind every
// dynamics effect below.
type envelopeFollower struct {
	level         float64
	attackCoeff   float64
	releaseCoeff  float64
}

func newEnvelopeFollower(attackMs, releaseMs, sr float64) *envelopeFollower {
	if attackMs <= 0 {
		attackMs = 5
	}
	if releaseMs <= 0 {
		releaseMs = 50
	}
	return &envelopeFollower{
		attackCoeff:  math.Exp(-1 / (attackMs / 1000 * sr)),
		releaseCoeff: math.Exp(-1 / (releaseMs / 1000 * sr)),
	}
}

func (f *envelopeFollower) Next(x float64) float64 {
	rectified := math.Abs(x)
	if rectified > f.level {
		f.level = f.attackCoeff*f.level + (1-f.attackCoeff)*rectified
	} else {
		f.level = f.releaseCoeff*f.level + (1-f.releaseCoeff)*rectified
	}
	return f.level
}

func dbToLinear(db float64) float64 { return math.Pow(10, db/20) }
func linearToDB(v float64) float64 {
	if v < 1e-9 {
		v = 1e-9
	}
	return 20 * math.Log10(v)
}

// compressorEffect is a feed-forward compressor: envelope follower feeds a
// static gain-reduction curve above ThresholdDB at 1/Ratio slope, smoothed
// by the same attack/release follower so the gain itself doesn't zipper.
type compressorEffect struct {
	env          *envelopeFollower
	thresholdDB  float64
	ratio        float64
	makeup       float64
}

func newCompressorEffect(e Effect, sr float64) *compressorEffect {
	ratio := e.Ratio
	if ratio < 1 {
		ratio = 4
	}
	return &compressorEffect{
		env:         newEnvelopeFollower(e.AttackMs, e.ReleaseMs, sr),
		thresholdDB: e.ThresholdDB,
		ratio:       ratio,
		makeup:      dbToLinear(e.MakeupGainDB),
	}
}

func (c *compressorEffect) gainFor(level float64) float64 {
	levelDB := linearToDB(level)
	if levelDB <= c.thresholdDB {
		return 1
	}
	over := levelDB - c.thresholdDB
	reducedDB := over - over/c.ratio
	return dbToLinear(-reducedDB)
}

func (c *compressorEffect) Process(l, r float64, i int) (float64, float64) {
	level := c.env.Next(math.Max(math.Abs(l), math.Abs(r)))
	g := c.gainFor(level) * c.makeup
	return l * g, r * g
}

// limiterEffect is a compressor with Ratio fixed effectively to infinity
// (a ceiling at ThresholdDB) driven by an envelope follower with AttackMs
// attack (1 ms when unset). It has no lookahead buffer: gain reduction
// follows the input, so the leading edge of a transient above the ceiling
// can pass before the follower catches up.
type limiterEffect struct {
	env         *envelopeFollower
	thresholdDB float64
}

func newLimiterEffect(e Effect, sr float64) *limiterEffect {
	attack := e.AttackMs
	if attack <= 0 {
		attack = 1
	}
	return &limiterEffect{env: newEnvelopeFollower(attack, e.ReleaseMs, sr), thresholdDB: e.ThresholdDB}
}

func (l *limiterEffect) Process(left, right float64, i int) (float64, float64) {
	level := l.env.Next(math.Max(math.Abs(left), math.Abs(right)))
	levelDB := linearToDB(level)
	if levelDB <= l.thresholdDB {
		return left, right
	}
	g := dbToLinear(l.thresholdDB - levelDB)
	return left * g, right * g
}

// gateEffect mutes the signal whenever its tracked level drops below
// ThresholdDB, with separate attack/release so the gate doesn't chatter
// on a signal that hovers near the threshold.
type gateEffect struct {
	env         *envelopeFollower
	thresholdDB float64
}

func newGateEffect(e Effect, sr float64) *gateEffect {
	return &gateEffect{env: newEnvelopeFollower(e.AttackMs, e.ReleaseMs, sr), thresholdDB: e.ThresholdDB}
}

func (g *gateEffect) Process(l, r float64, i int) (float64, float64) {
	level := g.env.Next(math.Max(math.Abs(l), math.Abs(r)))
	if linearToDB(level) < g.thresholdDB {
		return 0, 0
	}
	return l, r
}

// transientShaperEffect reads LookaheadMs ahead of the output point via a
// delay line, comparing a fast envelope against a slow one to detect
// attacks, and boosts or cuts the delayed signal accordingly — the
// lookahead is what lets it react before the transient itself arrives at
// the output.
type transientShaperEffect struct {
	fast, slow  *envelopeFollower
	delayL, delayR *delayLine
	lookahead   int
	gain        float64
}

func newTransientShaperEffect(e Effect, sr float64) (*transientShaperEffect, error) {
	lookMs := e.LookaheadMs
	if lookMs <= 0 {
		lookMs = 5
	}
	lookahead := int(lookMs / 1000 * sr)
	if err := checkDelayCapacity(lookahead+1, 2); err != nil {
		return nil, err
	}
	gain := e.Ratio
	if gain == 0 {
		gain = 1.5
	}
	return &transientShaperEffect{
		fast:      newEnvelopeFollower(0.5, 5, sr),
		slow:      newEnvelopeFollower(30, 100, sr),
		delayL:    newDelayLine(lookahead + 1),
		delayR:    newDelayLine(lookahead + 1),
		lookahead: lookahead,
		gain:      gain,
	}, nil
}

func (t *transientShaperEffect) Process(l, r float64, i int) (float64, float64) {
	mono := (l + r) * 0.5
	fast := t.fast.Next(mono)
	slow := t.slow.Next(mono)

	t.delayL.Write(l)
	t.delayR.Write(r)
	dl := t.delayL.Read(t.lookahead)
	dr := t.delayR.Read(t.lookahead)

	g := 1.0
	if fast > slow*1.1 {
		g = t.gain
	}
	return dl * g, dr * g
}
