// SPDX-License-Identifier: GPL-3.0-or-later
package engine

import "math"

// chorusEffect mixes the dry signal with 1-3 short delay taps, each
// modulated by its own slowly-sweeping LFO, thickening the signal without
// the comb-filtering artifacts of a single voice.
type chorusEffect struct {
	left, right *delayLine
	maxDelay    int
	baseMs      float64
	depthMs     float64
	phases      [3]oscillatorPhase
	rateHz      float64
	sr          float64
	wet         float64
	voices      int
}

func newChorusEffect(e Effect, sr float64) (*chorusEffect, error) {
	baseMs := e.DelayMs
	if baseMs <= 0 {
		baseMs = 15
	}
	depthMs := e.Depth
	if depthMs <= 0 {
		depthMs = 5
	}
	maxDelay := int((baseMs+depthMs)/1000*sr) + 1
	if err := checkDelayCapacity(maxDelay, 2); err != nil {
		return nil, err
	}
	voices := e.Stages
	if voices < 1 {
		voices = 2
	}
	if voices > 3 {
		voices = 3
	}
	rate := e.RateHz
	if rate <= 0 {
		rate = 0.5
	}
	wet := e.MixWet
	if wet <= 0 {
		wet = 0.5
	}
	return &chorusEffect{
		left: newDelayLine(maxDelay), right: newDelayLine(maxDelay),
		maxDelay: maxDelay, baseMs: baseMs, depthMs: depthMs, rateHz: rate, sr: sr, wet: wet, voices: voices,
	}, nil
}

func (c *chorusEffect) Process(l, r float64, i int) (float64, float64) {
	c.left.Write(l)
	c.right.Write(r)

	outL, outR := 0.0, 0.0
	for v := 0; v < c.voices; v++ {
		t := c.phases[v].advance(c.rateHz * (1 + float64(v)*0.07) / c.sr)
		lfo := 0.5 * (1 + math.Sin(2*math.Pi*t))
		ms := c.baseMs + c.depthMs*lfo
		n := int(ms / 1000 * c.sr)
		if n >= c.maxDelay {
			n = c.maxDelay - 1
		}
		outL += c.left.Read(n)
		outR += c.right.Read(n)
	}
	scale := c.wet / float64(c.voices)
	return l + outL*scale, r + outR*scale
}

// phaserEffect cascades Stages allpass sections whose corner frequency is
// swept by a single shared LFO, producing the characteristic sweeping
// notch comb.
type phaserEffect struct {
	stagesL, stagesR []*BiquadState
	phase            oscillatorPhase
	rateHz, sr       float64
	centerHz, depth  float64
	wet              float64
}

func newPhaserEffect(e Effect, sr float64) *phaserEffect {
	stages := e.Stages
	if stages < 2 {
		stages = 4
	}
	rate := e.RateHz
	if rate <= 0 {
		rate = 0.3
	}
	p := &phaserEffect{
		stagesL: make([]*BiquadState, stages), stagesR: make([]*BiquadState, stages),
		rateHz: rate, sr: sr, centerHz: 800, depth: e.Depth, wet: e.MixWet,
	}
	if p.depth <= 0 {
		p.depth = 600
	}
	if p.wet <= 0 {
		p.wet = 0.5
	}
	for i := range p.stagesL {
		p.stagesL[i] = NewBiquadState(AllpassCoeffs(p.centerHz, sr, 0.7))
		p.stagesR[i] = NewBiquadState(AllpassCoeffs(p.centerHz, sr, 0.7))
	}
	return p
}

func (p *phaserEffect) Process(l, r float64, i int) (float64, float64) {
	t := p.phase.advance(p.rateHz / p.sr)
	lfo := 0.5 * (1 + math.Sin(2*math.Pi*t))
	freq := p.centerHz + p.depth*lfo
	coeffs := AllpassCoeffs(freq, p.sr, 0.7)

	outL, outR := l, r
	for idx := range p.stagesL {
		p.stagesL[idx].SetCoeffs(coeffs)
		p.stagesR[idx].SetCoeffs(coeffs)
		outL = p.stagesL[idx].Process(outL)
		outR = p.stagesR[idx].Process(outR)
	}
	return l + (outL-l)*p.wet + outL*p.wet, r + (outR-r)*p.wet + outR*p.wet
}

// flangerEffect is chorus's short-delay, high-feedback sibling: a single
// tap, 1-10ms, with feedback around the delay line, swept by a delay_time
// post-FX LFO curve when present (distinct from the per-effect internal
// rate used by chorus/phaser).
type flangerEffect struct {
	left, right *delayLine
	maxDelay    int
	baseMs      float64
	depthMs     float64
	phase       oscillatorPhase
	rateHz, sr  float64
	feedback    float64
	wet         float64
	timeCurve   []float64
}

func newFlangerEffect(e Effect, sr float64, timeCurve []float64) (*flangerEffect, error) {
	baseMs := e.DelayMs
	if baseMs <= 0 {
		baseMs = 3
	}
	depthMs := e.Depth
	if depthMs <= 0 {
		depthMs = 2
	}
	maxDelay := int((baseMs+depthMs)/1000*sr) + 1
	if err := checkDelayCapacity(maxDelay, 2); err != nil {
		return nil, err
	}
	rate := e.RateHz
	if rate <= 0 {
		rate = 0.2
	}
	return &flangerEffect{
		left: newDelayLine(maxDelay), right: newDelayLine(maxDelay),
		maxDelay: maxDelay, baseMs: baseMs, depthMs: depthMs, rateHz: rate, sr: sr,
		feedback: e.FeedbackAmt, wet: e.MixWet, timeCurve: timeCurve,
	}, nil
}

func (f *flangerEffect) Process(l, r float64, i int) (float64, float64) {
	t := f.phase.advance(f.rateHz / f.sr)
	lfo := 0.5 * (1 + math.Sin(2*math.Pi*t))
	if f.timeCurve != nil {
		lfo = f.timeCurve[i]
	}
	ms := f.baseMs + f.depthMs*lfo
	n := int(ms / 1000 * f.sr)
	if n >= f.maxDelay {
		n = f.maxDelay - 1
	}

	dl := f.left.Read(n)
	dr := f.right.Read(n)
	f.left.Write(l + dl*f.feedback)
	f.right.Write(r + dr*f.feedback)
	return l + dl*f.wet, r + dr*f.wet
}

// rotarySpeakerEffect approximates a Leslie cabinet: a slow amplitude
// tremolo plus a small stereo-decorrelating delay modulation, both driven
// by the same LFO at RateHz (a simplification of the horn/drum dual-rotor
// model, good enough to give a convincing wobble without a full
// Doppler simulation).
type rotarySpeakerEffect struct {
	left, right *delayLine
	maxDelay    int
	phase       oscillatorPhase
	rateHz, sr  float64
	depth       float64
}

func newRotarySpeakerEffect(e Effect, sr float64) (*rotarySpeakerEffect, error) {
	maxDelay := int(0.01 * sr)
	if err := checkDelayCapacity(maxDelay, 2); err != nil {
		return nil, err
	}
	rate := e.RateHz
	if rate <= 0 {
		rate = 6
	}
	depth := e.Depth
	if depth <= 0 {
		depth = 0.3
	}
	return &rotarySpeakerEffect{left: newDelayLine(maxDelay), right: newDelayLine(maxDelay), maxDelay: maxDelay, rateHz: rate, sr: sr, depth: depth}, nil
}

func (rs *rotarySpeakerEffect) Process(l, r float64, i int) (float64, float64) {
	rs.left.Write(l)
	rs.right.Write(r)

	t := rs.phase.advance(rs.rateHz / rs.sr)
	trem := 1 + rs.depth*math.Sin(2*math.Pi*t)
	delaySamples := int(float64(rs.maxDelay-1) * 0.5 * (1 + math.Sin(2*math.Pi*t+math.Pi/2)))

	dl := rs.left.Read(delaySamples)
	dr := rs.right.Read(delaySamples)
	return dl * trem, dr * (2 - trem)
}
