// SPDX-License-Identifier: GPL-3.0-or-later
package engine

import "fmt"

// SynthesisKind tags which of the 24 algorithm families a Synthesis value
// selects. The struct below is a union-of-fields record rather than one
// interface per family: one flat switch in synth dispatch, no per-variant
// interface satisfaction to keep in sync.
type SynthesisKind int

const (
	SynthOscillator SynthesisKind = iota
	SynthSupersaw
	SynthNoiseWhite
	SynthNoisePink
	SynthNoiseBrown
	SynthFM
	SynthFeedbackFM
	SynthAM
	SynthRingMod
	SynthKarplusStrong
	SynthWaveguideString
	SynthModal
	SynthMetallic
	SynthMembraneDrum
	SynthAdditive
	SynthWavetable
	SynthGranular
	SynthPulsar
	SynthVOSIM
	SynthPhaseDistortion
	SynthVectorSynth
	SynthSpectralFreeze
	SynthVocoderFormant
	SynthPitchedBody
)

// Synthesis is the tagged-variant configuration for one layer's sound
// source. Only the fields relevant to Kind are meaningful; unused fields
// are simply left at their zero value.
type Synthesis struct {
	Kind SynthesisKind

	Waveform    WaveformKind
	FrequencyHz float64

	// Oscillator frequency sweep: when SweepEnabled, FrequencyHz is the
	// start of the sweep and SweepEndHz its end, interpolated by
	// SweepCurve across the layer's full duration.
	SweepEnabled bool
	SweepCurve   CurveKind
	SweepEndHz   float64

	// Supersaw
	Detune float64
	Voices int

	// FM / feedback-FM / AM / ring-mod
	ModRatio      float64
	ModIndex      float64
	FeedbackAmt   float64
	CarrierRatio  float64

	// Karplus-Strong / waveguide / modal / metallic / membrane / pitched body
	Damping     float64
	BrightRatio float64
	Partials    []ModalPartial

	// Additive / wavetable
	Harmonics    []float64 // relative amplitude per harmonic index, 1-based
	WavetableLen int

	// Granular / pulsar / VOSIM
	GrainSizeMs    float64
	GrainDensityHz float64
	GrainJitter    float64
	PulseWidth     float64

	// Phase distortion / vector synth
	DistortionAmt float64
	VectorMix     float64

	// Spectral freeze
	FreezeFFTSize int

	// Vocoder / formant
	Vowel string
}

// ModalPartial is one resonant partial of a modal/metallic/membrane/body
// synthesis source: a frequency ratio relative to the layer's fundamental,
// a decay time, and a relative amplitude.
type ModalPartial struct {
	Ratio    float64
	DecaySec float64
	Amp      float64
}

// Filter is the tagged-variant configuration for one filter cascade stage
//; see filters.go for evaluation.
type Filter struct {
	Kind FilterKind

	CutoffHz  float64
	Q         float64
	GainDB    float64
	Resonance float64

	// Linear cutoff sweep: when SweepEnabled, CutoffHz is the start of the
	// sweep and SweepEndHz its end, moved linearly across the layer's full
	// duration (the same every-sweepGranularity-samples coefficient-recompute
	// cadence that governs LFO-modulated cutoff also governs a swept one).
	SweepEnabled bool
	SweepEndHz   float64

	DelaySeconds float64
	Feedback     float64

	Vowel string
}

// Layer is one independent sound source mixed into the final stereo
// buffer.
type Layer struct {
	Synthesis Synthesis
	Envelope  Envelope
	LFO       *LFO // at most one per layer
	Filters   []Filter

	Gain float64
	Pan  float64 // -1 (full left) .. +1 (full right)

	OnsetSeconds float64 // when this layer begins, relative to render start
}

// EffectKind tags one of the ~20 post-mix effect families.
type EffectKind int

const (
	EffectReverb EffectKind = iota
	EffectDelay
	EffectMultiTapDelay
	EffectGranularDelay
	EffectChorus
	EffectPhaser
	EffectFlanger
	EffectRotarySpeaker
	EffectWaveshaper
	EffectTapeSaturation
	EffectBitcrush
	EffectDistortion
	EffectCompressor
	EffectLimiter
	EffectGate
	EffectTransientShaper
	EffectParametricEQ
	EffectStereoWidener
	EffectCabinetSim
	EffectAutoFilter
	EffectRingModulator
)

// WaveshaperKind selects the nonlinear transfer curve a waveshaper effect
// applies. Tape saturation always uses its own fixed curve and ignores it.
type WaveshaperKind int

const (
	ShapeTanh WaveshaperKind = iota
	ShapeSoftClip
	ShapeHardClip
	ShapeSineFold
)

// Effect is the tagged-variant configuration for one stage of the
// post-mix effect chain. Effects run sequentially, in declared order, over
// the already-mixed left/right stereo buffers.
type Effect struct {
	Kind EffectKind

	// Reverb / delay family
	RoomSize    float64
	DecaySec    float64
	DelayMs     float64
	FeedbackAmt float64
	TapCount    int
	MixWet      float64

	// Chorus / phaser / flanger / rotary
	RateHz float64
	Depth  float64
	Stages int

	// Waveshaper / saturation / bitcrush / distortion
	Drive     float64
	Shape     WaveshaperKind
	BitDepth  int
	SampleDiv int

	// Compressor / limiter / gate / transient shaper
	ThresholdDB  float64
	Ratio        float64
	AttackMs     float64
	ReleaseMs    float64
	LookaheadMs  float64
	MakeupGainDB float64

	// Parametric EQ
	Bands []Filter

	// Stereo widener / cabinet / auto-filter / ring mod
	Width     float64
	CarrierHz float64
}

// PostFxTarget enumerates the render-wide LFO destinations across the
// effect chain.
type PostFxTarget int

const (
	PostFxTargetDelayTime PostFxTarget = iota
	PostFxTargetReverbSize
	PostFxTargetDistortionDrive
)

// postFxTargetMatches reports whether effect kind k is modulatable by
// target.
func postFxTargetMatches(target PostFxTarget, k EffectKind) bool {
	switch target {
	case PostFxTargetDelayTime:
		switch k {
		case EffectDelay, EffectMultiTapDelay, EffectFlanger, EffectStereoWidener, EffectGranularDelay:
			return true
		}
	case PostFxTargetReverbSize:
		return k == EffectReverb
	case PostFxTargetDistortionDrive:
		switch k {
		case EffectWaveshaper, EffectTapeSaturation, EffectDistortion:
			return true
		}
	}
	return false
}

// PostFxLFO is a render-wide modulation source applied across the effect
// chain, distinct from per-layer LFOs.
type PostFxLFO struct {
	RateHz   float64
	Depth    float64
	Waveform WaveformKind
	Target   PostFxTarget
}

// RenderRequest is the full declarative input to Render.
type RenderRequest struct {
	SampleRate      int
	DurationSeconds float64
	Seed            uint32

	Layers     []Layer
	PostFx     []Effect
	PostFxLFOs []PostFxLFO
}

// TotalSamples returns the number of per-channel samples the request
// renders, given its sample rate and duration.
func (r RenderRequest) TotalSamples() int {
	return int(r.DurationSeconds*float64(r.SampleRate) + 0.5)
}

// Validate checks the request's structural invariants before any audio is
// produced; every error returned is a *SpecError.
func (r RenderRequest) Validate() error {
	if r.SampleRate <= 0 {
		return specErrorf(CodeInvalidSampleRate, "sample rate must be positive, got %d", r.SampleRate)
	}
	if r.DurationSeconds <= 0 {
		return specErrorf(CodeInvalidDuration, "duration must be positive, got %f", r.DurationSeconds)
	}
	if r.TotalSamples() <= 0 {
		return specErrorf(CodeZeroLength, "request resolves to zero samples")
	}

	seen := make(map[PostFxTarget]bool, len(r.PostFxLFOs))
	for _, lfo := range r.PostFxLFOs {
		if seen[lfo.Target] {
			return specErrorf(CodeDuplicatePostFxTarget, "post-fx target %d has more than one LFO", lfo.Target)
		}
		seen[lfo.Target] = true

		matched := false
		for _, fx := range r.PostFx {
			if postFxTargetMatches(lfo.Target, fx.Kind) {
				matched = true
				break
			}
		}
		if !matched {
			return specErrorf(CodePostFxNoMatch, "post-fx target %d matches no effect in the chain", lfo.Target)
		}
	}
	return nil
}

func (k SynthesisKind) String() string {
	return fmt.Sprintf("SynthesisKind(%d)", int(k))
}
