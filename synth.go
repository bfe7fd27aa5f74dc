// SPDX-License-Identifier: GPL-3.0-or-later
package engine

// SynthVoice is the minimal contract every synthesis family implements:
// one float64 sample per call, advancing internal state.
type SynthVoice interface {
	Next() float64
}

// NewSynthVoice dispatches s.Kind to its concrete generator. rng is the
// layer's own sub-stream (named "layer[n]:synth" by the caller), used only
// by the families that need randomness (noise, granular, Karplus-Strong,
// waveguide). totalSamples is the layer's rendered length, needed only by
// families whose parameters evolve across the full layer duration (the
// oscillator's optional frequency sweep).
func NewSynthVoice(s Synthesis, sr float64, totalSamples int, rng *RNGStream) SynthVoice {
	switch s.Kind {
	case SynthOscillator:
		return newOscillatorState(s, sr, totalSamples)
	case SynthSupersaw:
		return newSupersawState(s, sr)
	case SynthNoiseWhite:
		return newWhiteNoiseState(rng)
	case SynthNoisePink:
		return newPinkNoiseState(rng)
	case SynthNoiseBrown:
		return newBrownNoiseState(rng)
	case SynthFM:
		return newFMState(s, sr)
	case SynthFeedbackFM:
		return newFeedbackFMState(s, sr)
	case SynthAM:
		return newAMState(s, sr)
	case SynthRingMod:
		return newRingModState(s, sr)
	case SynthKarplusStrong:
		return newKarplusStrongState(s, sr, rng)
	case SynthWaveguideString:
		return newWaveguideStringState(s, sr, rng)
	case SynthModal:
		partials := s.Partials
		if len(partials) == 0 {
			partials = defaultPitchedBodyPartials()
		}
		return newModalBankState(s.FrequencyHz, sr, partials)
	case SynthMetallic:
		partials := s.Partials
		if len(partials) == 0 {
			partials = defaultMetallicPartials()
		}
		return newModalBankState(s.FrequencyHz, sr, partials)
	case SynthMembraneDrum:
		partials := s.Partials
		if len(partials) == 0 {
			partials = defaultMembranePartials()
		}
		return newModalBankState(s.FrequencyHz, sr, partials)
	case SynthPitchedBody:
		partials := s.Partials
		if len(partials) == 0 {
			partials = defaultPitchedBodyPartials()
		}
		return newModalBankState(s.FrequencyHz, sr, partials)
	case SynthAdditive:
		return newAdditiveState(s, sr)
	case SynthWavetable:
		return newWavetableState(s, sr)
	case SynthGranular:
		return newGranularState(s, sr, rng)
	case SynthPulsar:
		return newPulsarState(s, sr)
	case SynthVOSIM:
		return newVOSIMState(s, sr)
	case SynthPhaseDistortion:
		return newPhaseDistortionState(s, sr)
	case SynthVectorSynth:
		return newVectorSynthState(s, sr)
	case SynthSpectralFreeze:
		return newSpectralFreezeState(s, sr)
	case SynthVocoderFormant:
		return newVocoderFormantState(s, sr)
	default:
		return newOscillatorState(s, sr, totalSamples)
	}
}
