// SPDX-License-Identifier: GPL-3.0-or-later
package engine

import "math"

// DefaultEffectByteCap bounds how much memory any single effect's delay or
// lookahead buffer may allocate. A request that would
// exceed it fails fast with a *CapacityError before the offending effect
// is constructed, rather than allocating and running out of memory mid
// render.
const DefaultEffectByteCap = 64 * 1024 * 1024

const bytesPerSample = 8 // float64 ring buffers throughout

func checkDelayCapacity(samples, channels int) error {
	if int64(samples)*int64(channels)*bytesPerSample > DefaultEffectByteCap {
		return capacityErrorf("delay buffer of %d samples x %d channels exceeds %d byte cap", samples, channels, DefaultEffectByteCap)
	}
	return nil
}

// delayLine is a simple ring-buffer delay, the shared primitive behind
// every delay-family effect below.
type delayLine struct {
	buf []float64
	pos int
}

func newDelayLine(samples int) *delayLine {
	if samples < 1 {
		samples = 1
	}
	return &delayLine{buf: make([]float64, samples)}
}

func (d *delayLine) Write(x float64) {
	d.buf[d.pos] = x
	d.pos++
	if d.pos >= len(d.buf) {
		d.pos = 0
	}
}

// Read returns the sample delaySamples behind the most recent write.
func (d *delayLine) Read(delaySamples int) float64 {
	if delaySamples >= len(d.buf) {
		delaySamples = len(d.buf) - 1
	}
	idx := d.pos - 1 - delaySamples
	for idx < 0 {
		idx += len(d.buf)
	}
	return d.buf[idx]
}

// simpleDelayEffect is a single feedback delay line per channel, time
// optionally swept by a delay_time post-FX LFO curve.
type simpleDelayEffect struct {
	left, right   *delayLine
	maxDelay      int
	baseDelay     float64
	feedback, wet float64
	sr            float64
	timeCurve     []float64
}

func newSimpleDelayEffect(e Effect, sr float64, timeCurve []float64) (*simpleDelayEffect, error) {
	maxDelay := int(e.DelayMs/1000*sr) + 1
	if err := checkDelayCapacity(maxDelay, 2); err != nil {
		return nil, err
	}
	return &simpleDelayEffect{
		left: newDelayLine(maxDelay), right: newDelayLine(maxDelay),
		maxDelay: maxDelay, baseDelay: e.DelayMs, feedback: e.FeedbackAmt, wet: e.MixWet, sr: sr, timeCurve: timeCurve,
	}, nil
}

func (d *simpleDelayEffect) delaySamples(i int) int {
	ms := d.baseDelay
	if d.timeCurve != nil {
		ms = d.baseDelay * (0.2 + 0.8*d.timeCurve[i])
	}
	n := int(ms / 1000 * d.sr)
	if n >= d.maxDelay {
		n = d.maxDelay - 1
	}
	if n < 1 {
		n = 1
	}
	return n
}

func (d *simpleDelayEffect) Process(l, r float64, i int) (float64, float64) {
	n := d.delaySamples(i)
	// The current input is written after the read, so reading n-1 behind
	// the most recent write yields the input from exactly n samples ago.
	dl := d.left.Read(n - 1)
	dr := d.right.Read(n - 1)
	d.left.Write(l + dl*d.feedback)
	d.right.Write(r + dr*d.feedback)
	return l + dl*d.wet, r + dr*d.wet
}

// multiTapDelayEffect reads TapCount evenly-spaced taps off one delay
// line per channel and sums them, each tap quieter than the last.
type multiTapDelayEffect struct {
	left, right *delayLine
	maxDelay    int
	baseDelay   float64
	taps        int
	wet         float64
	sr          float64
	timeCurve   []float64
}

func newMultiTapDelayEffect(e Effect, sr float64, timeCurve []float64) (*multiTapDelayEffect, error) {
	taps := e.TapCount
	if taps < 1 {
		taps = 3
	}
	maxDelay := int(e.DelayMs/1000*sr)*taps + 1
	if err := checkDelayCapacity(maxDelay, 2); err != nil {
		return nil, err
	}
	return &multiTapDelayEffect{
		left: newDelayLine(maxDelay), right: newDelayLine(maxDelay),
		maxDelay: maxDelay, baseDelay: e.DelayMs, taps: taps, wet: e.MixWet, sr: sr, timeCurve: timeCurve,
	}, nil
}

func (m *multiTapDelayEffect) Process(l, r float64, i int) (float64, float64) {
	ms := m.baseDelay
	if m.timeCurve != nil {
		ms = m.baseDelay * (0.2 + 0.8*m.timeCurve[i])
	}
	unit := int(ms / 1000 * m.sr)

	m.left.Write(l)
	m.right.Write(r)

	outL, outR := 0.0, 0.0
	for t := 1; t <= m.taps; t++ {
		n := unit * t
		if n >= m.maxDelay {
			n = m.maxDelay - 1
		}
		tapGain := 1.0 / float64(t)
		outL += m.left.Read(n) * tapGain
		outR += m.right.Read(n) * tapGain
	}
	return l + outL*m.wet, r + outR*m.wet
}

// granularDelayEffect reads its delay line back through short,
// overlapping Hann-windowed grains rather than a single continuous tap,
// giving the classic "diffuse" granular-delay texture.
type granularDelayEffect struct {
	left, right      *delayLine
	maxDelay         int
	baseDelay        float64
	grainSamples     int
	wet              float64
	sr               float64
	rng              *RNGStream
	timeCurve        []float64
	grainPhase       int
}

func newGranularDelayEffect(e Effect, sr float64, timeCurve []float64, rng *RNGStream) (*granularDelayEffect, error) {
	maxDelay := int(e.DelayMs/1000*sr) + 1
	if err := checkDelayCapacity(maxDelay, 2); err != nil {
		return nil, err
	}
	grain := int(0.03 * sr) // 30ms grains
	if grain < 2 {
		grain = 2
	}
	return &granularDelayEffect{
		left: newDelayLine(maxDelay), right: newDelayLine(maxDelay),
		maxDelay: maxDelay, baseDelay: e.DelayMs, grainSamples: grain, wet: e.MixWet, sr: sr, rng: rng, timeCurve: timeCurve,
	}, nil
}

func (g *granularDelayEffect) Process(l, r float64, i int) (float64, float64) {
	g.left.Write(l)
	g.right.Write(r)

	ms := g.baseDelay
	if g.timeCurve != nil {
		ms = g.baseDelay * (0.2 + 0.8*g.timeCurve[i])
	}
	base := int(ms / 1000 * g.sr)
	jitter := 0
	if g.rng != nil {
		jitter = int(g.rng.Range(-float64(g.grainSamples)/4, float64(g.grainSamples)/4))
	}
	n := base + jitter
	if n >= g.maxDelay {
		n = g.maxDelay - 1
	}
	if n < 0 {
		n = 0
	}

	t := float64(g.grainPhase%g.grainSamples) / float64(g.grainSamples)
	window := 0.5 * (1 - math.Cos(2*math.Pi*t))
	g.grainPhase++

	outL := g.left.Read(n) * window
	outR := g.right.Read(n) * window
	return l + outL*g.wet, r + outR*g.wet
}
