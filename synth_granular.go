// SPDX-License-Identifier: GPL-3.0-or-later
package engine

import "math"

// grainVoice is one active grain: a Hann-windowed sine burst at a jittered
// frequency, running for its own fixed sample count.
type grainVoice struct {
	remaining int
	total     int
	phase     oscillatorPhase
	freqHz    float64
	sr        float64
}

func (g *grainVoice) next() (float64, bool) {
	if g.remaining <= 0 {
		return 0, false
	}
	t := float64(g.total-g.remaining) / float64(g.total)
	window := 0.5 * (1 - math.Cos(2*math.Pi*t)) // Hann
	pt := g.phase.advance(g.freqHz / g.sr)
	g.remaining--
	return window * math.Sin(2*math.Pi*pt), true
}

// granularState schedules overlapping grains at densityHz, each sizeMs
// long, with GrainJitter randomizing both onset spacing and per-grain
// pitch. Multiple grains can and do overlap; active voices are summed each
// sample. sizeMs and densityHz are read fresh at every grain/period
// boundary rather than baked into a fixed sample count at construction, so
// the grain_size and grain_density LFO targets can retune a currently
// idle (about-to-spawn) grain without rebuilding the voice.
type granularState struct {
	sr         float64
	baseFreqHz float64
	sizeMs     float64
	densityHz  float64
	counter    int
	jitter     float64
	rng        *RNGStream
	voices     []*grainVoice
}

func newGranularState(s Synthesis, sr float64, rng *RNGStream) *granularState {
	sizeMs := s.GrainSizeMs
	if sizeMs <= 0 {
		sizeMs = 50
	}
	density := s.GrainDensityHz
	if density <= 0 {
		density = 20
	}
	return &granularState{
		sr:         sr,
		baseFreqHz: s.FrequencyHz,
		sizeMs:     sizeMs,
		densityHz:  density,
		jitter:     s.GrainJitter,
		rng:        rng,
	}
}

// setGrainSizeMs retunes the duration of the next spawned grain; used by
// the grain_size LFO target.
func (g *granularState) setGrainSizeMs(ms float64) {
	if ms > 0 {
		g.sizeMs = ms
	}
}

// setGrainDensityHz retunes the spawn rate of the next grain period; used
// by the grain_density LFO target.
func (g *granularState) setGrainDensityHz(hz float64) {
	if hz > 0 {
		g.densityHz = hz
	}
}

func (g *granularState) spawn() {
	jitterFreq := g.baseFreqHz * (1 + g.jitter*g.rng.Bipolar())
	n := int(g.sizeMs / 1000 * g.sr)
	if g.jitter > 0 {
		n = int(float64(n) * (1 + g.jitter*g.rng.Range(-0.3, 0.3)))
	}
	if n < 4 {
		n = 4
	}
	g.voices = append(g.voices, &grainVoice{remaining: n, total: n, freqHz: jitterFreq, sr: g.sr})
}

func (g *granularState) Next() float64 {
	if g.counter <= 0 {
		g.spawn()
		period := int(g.sr / g.densityHz)
		if g.jitter > 0 {
			period = int(float64(period) * (1 + g.jitter*g.rng.Range(-0.5, 0.5)))
		}
		if period < 1 {
			period = 1
		}
		g.counter = period
	}
	g.counter--

	out := 0.0
	live := g.voices[:0]
	for _, v := range g.voices {
		s, ok := v.next()
		if ok {
			out += s
			live = append(live, v)
		}
	}
	g.voices = live
	return out
}

// pulsarState generates a pulsaret (a Hann-windowed sine at
// FrequencyHz*CarrierRatio) once per fundamental period, followed by
// silence: the classic Curtis Roads pulsar-synthesis train, with
// PulseWidth setting the pulsaret's length as a fraction of the period.
type pulsarState struct {
	sr            float64
	periodSamples int
	pulseSamples  int
	counter       int
	phase         oscillatorPhase
	formantHz     float64
}

func newPulsarState(s Synthesis, sr float64) *pulsarState {
	freq := s.FrequencyHz
	if freq <= 0 {
		freq = 110
	}
	pw := s.PulseWidth
	if pw <= 0 || pw >= 1 {
		pw = 0.25
	}
	period := int(sr / freq)
	if period < 2 {
		period = 2
	}
	pulse := int(float64(period) * pw)
	if pulse < 1 {
		pulse = 1
	}
	formant := s.FrequencyHz * s.CarrierRatio
	if formant <= 0 {
		formant = freq * 4
	}
	return &pulsarState{sr: sr, periodSamples: period, pulseSamples: pulse, formantHz: formant}
}

func (p *pulsarState) Next() float64 {
	if p.counter >= p.pulseSamples {
		if p.counter >= p.periodSamples {
			p.counter = 0
		} else {
			p.counter++
			return 0
		}
	}
	t := float64(p.counter) / float64(p.pulseSamples)
	window := 0.5 * (1 - math.Cos(2*math.Pi*t))
	ft := p.phase.advance(p.formantHz / p.sr)
	p.counter++
	return window * math.Sin(2*math.Pi*ft)
}

// vosimState implements a VOSIM-style train after Kaegi/Tempelaars: one
// pulse per fundamental period, shaped as |cos(pi*(t-0.5))|^power over
// sr/(FrequencyHz*CarrierRatio) samples (power from ModIndex, 2 when
// unset) and followed by silence, giving a formant-like spectral peak
// without any filtering stage.
type vosimState struct {
	sr            float64
	periodSamples int
	pulseSamples  int
	counter       int
	power         float64
}

func newVOSIMState(s Synthesis, sr float64) *vosimState {
	freq := s.FrequencyHz
	if freq <= 0 {
		freq = 110
	}
	formant := s.FrequencyHz * s.CarrierRatio
	if formant <= 0 {
		formant = freq * 3
	}
	period := int(sr / freq)
	if period < 2 {
		period = 2
	}
	pulse := int(sr / formant)
	if pulse < 1 || pulse > period {
		pulse = period
	}
	power := s.ModIndex
	if power < 1 {
		power = 2
	}
	return &vosimState{sr: sr, periodSamples: period, pulseSamples: pulse, power: power}
}

func (v *vosimState) Next() float64 {
	if v.counter >= v.pulseSamples {
		if v.counter >= v.periodSamples {
			v.counter = 0
		} else {
			v.counter++
			return 0
		}
	}
	t := float64(v.counter) / float64(v.pulseSamples)
	c := math.Cos(math.Pi * (t - 0.5))
	out := math.Pow(math.Abs(c), v.power) * sign(c)
	v.counter++
	return out
}

func sign(x float64) float64 {
	if x < 0 {
		return -1
	}
	return 1
}
