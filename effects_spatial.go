// SPDX-License-Identifier: GPL-3.0-or-later
package engine

import "math"

// parametricEQEffect cascades one biquad per entry in Bands, applied
// identically to both channels.
type parametricEQEffect struct {
	bandsL, bandsR []*BiquadState
}

func newParametricEQEffect(e Effect, sr float64) *parametricEQEffect {
	eq := &parametricEQEffect{bandsL: make([]*BiquadState, len(e.Bands)), bandsR: make([]*BiquadState, len(e.Bands))}
	for i, b := range e.Bands {
		eq.bandsL[i] = NewBiquadState(coeffsForBand(b, sr))
		eq.bandsR[i] = NewBiquadState(coeffsForBand(b, sr))
	}
	return eq
}

func coeffsForBand(f Filter, sr float64) BiquadCoeffs {
	switch f.Kind {
	case FilterHighpass:
		return HighpassCoeffs(f.CutoffHz, sr, f.Q)
	case FilterBandpass:
		return BandpassCoeffs(f.CutoffHz, sr, f.Q)
	case FilterNotch:
		return NotchCoeffs(f.CutoffHz, sr, f.Q)
	case FilterLowShelf:
		return LowShelfCoeffs(f.CutoffHz, sr, f.GainDB, 1)
	case FilterHighShelf:
		return HighShelfCoeffs(f.CutoffHz, sr, f.GainDB, 1)
	default:
		return LowpassCoeffs(f.CutoffHz, sr, f.Q)
	}
}

func (p *parametricEQEffect) Process(l, r float64, i int) (float64, float64) {
	for idx := range p.bandsL {
		l = p.bandsL[idx].Process(l)
		r = p.bandsR[idx].Process(r)
	}
	return l, r
}

// stereoWidenerEffect applies a mid-side width transform: mid is passed
// straight through, side is scaled by Width (and, when a delay_time curve
// is present, the side signal shared by both channels is replaced by a
// copy delayed by 0-8 samples, swept by the curve).
type stereoWidenerEffect struct {
	width     float64
	delay     *delayLine
	timeCurve []float64
	sr        float64
}

func newStereoWidenerEffect(e Effect, sr float64, timeCurve []float64) (*stereoWidenerEffect, error) {
	width := e.Width
	if width == 0 {
		width = 1.5
	}
	maxDelay := int(0.01*sr) + 1
	if err := checkDelayCapacity(maxDelay, 1); err != nil {
		return nil, err
	}
	return &stereoWidenerEffect{width: width, delay: newDelayLine(maxDelay), timeCurve: timeCurve, sr: sr}, nil
}

func (s *stereoWidenerEffect) Process(l, r float64, i int) (float64, float64) {
	mid := (l + r) * 0.5
	side := (l - r) * 0.5

	s.delay.Write(side)
	if s.timeCurve != nil {
		n := int(s.timeCurve[i] * 8)
		side = s.delay.Read(n)
	}
	side *= s.width

	return mid + side, mid - side
}

// cabinetSimEffect approximates a speaker cabinet with a single
// bandpass-shaped resonance plus a gentle high-frequency roll-off,
// avoiding a convolution engine entirely.
type cabinetSimEffect struct {
	bandL, bandR *BiquadState
	lpL, lpR     *BiquadState
}

func newCabinetSimEffect(sr float64) *cabinetSimEffect {
	return &cabinetSimEffect{
		bandL: NewBiquadState(BandpassCoeffs(900, sr, 0.9)),
		bandR: NewBiquadState(BandpassCoeffs(900, sr, 0.9)),
		lpL:   NewBiquadState(LowpassCoeffs(4500, sr, 0.7071)),
		lpR:   NewBiquadState(LowpassCoeffs(4500, sr, 0.7071)),
	}
}

func (c *cabinetSimEffect) Process(l, r float64, i int) (float64, float64) {
	bl := c.bandL.Process(l)
	br := c.bandR.Process(r)
	outL := c.lpL.Process(l*0.4 + bl*0.6)
	outR := c.lpR.Process(r*0.4 + br*0.6)
	return outL, outR
}

// autoFilterEffect is a lowpass whose cutoff is swept by its own internal
// LFO (distinct from the post-FX LFO scheduler, since no post-FX target
// covers generic filter sweeps), the classic "auto-wah" effect.
type autoFilterEffect struct {
	filterL, filterR *FilterStage
	phase            oscillatorPhase
	rateHz, sr       float64
	baseHz, depthHz  float64
}

func newAutoFilterEffect(e Effect, sr float64) *autoFilterEffect {
	rate := e.RateHz
	if rate <= 0 {
		rate = 0.8
	}
	base := e.ThresholdDB // repurposed as base cutoff in Hz for this effect
	if base <= 0 {
		base = 800
	}
	depth := e.Depth
	if depth <= 0 {
		depth = 600
	}
	return &autoFilterEffect{
		filterL: NewFilterStage(Filter{Kind: FilterLowpass, CutoffHz: base, Q: 0.9}, sr),
		filterR: NewFilterStage(Filter{Kind: FilterLowpass, CutoffHz: base, Q: 0.9}, sr),
		rateHz:  rate, sr: sr, baseHz: base, depthHz: depth,
	}
}

func (a *autoFilterEffect) Process(l, r float64, i int) (float64, float64) {
	t := a.phase.advance(a.rateHz / a.sr)
	cutoff := a.baseHz + a.depthHz*0.5*(1+math.Sin(2*math.Pi*t))
	return a.filterL.Process(l, cutoff), a.filterR.Process(r, cutoff)
}

// ringModulatorEffect multiplies the signal by a fixed-frequency carrier
// sine, an inline post-mix variant of the per-layer ring-mod synthesis
// family.
type ringModulatorEffect struct {
	phase     oscillatorPhase
	carrierHz float64
	sr        float64
}

func newRingModulatorEffect(e Effect, sr float64) *ringModulatorEffect {
	carrier := e.CarrierHz
	if carrier <= 0 {
		carrier = 30
	}
	return &ringModulatorEffect{carrierHz: carrier, sr: sr}
}

func (rm *ringModulatorEffect) Process(l, r float64, i int) (float64, float64) {
	t := rm.phase.advance(rm.carrierHz / rm.sr)
	c := math.Sin(2 * math.Pi * t)
	return l * c, r * c
}
