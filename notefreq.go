// SPDX-License-Identifier: GPL-3.0-or-later
package engine

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Reference pitch standard: A4 = 440Hz, MIDI note 69.
const (
	a4Frequency = 440.0
	a4MIDINote  = 69
)

var noteSemitone = map[byte]int{
	'C': 0, 'D': 2, 'E': 4, 'F': 5, 'G': 7, 'A': 9, 'B': 11,
}

// NoteToFrequency converts a scientific-pitch-notation note name (e.g. "A4",
// "C#3", "Eb5") to its frequency in Hz using equal temperament referenced to
// A4 = 440Hz. It is a pure function of its string input: no locale, no
// rounding mode ambiguity beyond IEEE-754 double arithmetic.
func NoteToFrequency(name string) (float64, error) {
	if len(name) < 2 {
		return 0, fmt.Errorf("engine: invalid note name %q", name)
	}
	letter := name[0]
	base, ok := noteSemitone[letter]
	if !ok {
		return 0, fmt.Errorf("engine: invalid note letter %q", name)
	}

	rest := name[1:]
	accidental := 0
	for len(rest) > 0 && (rest[0] == '#' || rest[0] == 'b') {
		if rest[0] == '#' {
			accidental++
		} else {
			accidental--
		}
		rest = rest[1:]
	}
	if rest == "" {
		return 0, fmt.Errorf("engine: missing octave in note name %q", name)
	}
	octave, err := strconv.Atoi(rest)
	if err != nil {
		return 0, fmt.Errorf("engine: invalid octave in note name %q: %w", name, err)
	}

	midi := (octave+1)*12 + base + accidental
	semitonesFromA4 := midi - a4MIDINote
	return a4Frequency * math.Pow(2, float64(semitonesFromA4)/12), nil
}

// MustNoteToFrequency panics on a malformed note name; used for literal,
// compile-time-known note names rather than user input.
func MustNoteToFrequency(name string) float64 {
	f, err := NoteToFrequency(name)
	if err != nil {
		panic(err)
	}
	return f
}

// SemitonesToRatio converts a semitone offset to a frequency multiplier,
// 2^(semitones/12). Used by the LFO pitch target.
func SemitonesToRatio(semitones float64) float64 {
	return math.Pow(2, semitones/12)
}

// CurveKind selects the interpolation shape used by sweeps (filter cutoff,
// oscillator frequency) that move from a start to an end value across a
// layer's duration.
type CurveKind int

const (
	CurveLinear CurveKind = iota
	CurveExponential
	CurveLogarithmic
)

// InterpolateCurve returns the value of the named curve at position t in
// [0,1], moving from start to end. Exponential and logarithmic curves
// require start and end to share sign and be non-zero; callers that sweep
// through zero must use CurveLinear. Nothing here or in validation checks
// this: a zero or sign-crossing start/end yields NaN or a non-finite value.
func InterpolateCurve(kind CurveKind, start, end, t float64) float64 {
	if t <= 0 {
		return start
	}
	if t >= 1 {
		return end
	}
	switch kind {
	case CurveExponential:
		// Equal relative steps: start * (end/start)^t.
		return start * math.Pow(end/start, t)
	case CurveLogarithmic:
		// Log-space position warped by ln(1+t(e-1)): moves faster at the
		// start and slower toward the end than the exponential curve.
		logStart := math.Log(start)
		logEnd := math.Log(end)
		return math.Exp(logStart + (logEnd-logStart)*math.Log1p(t*(math.E-1)))
	default:
		return start + (end-start)*t
	}
}

// ParseWaveform normalizes a waveform name for table-driven construction;
// kept here alongside note utilities since both are small string-to-value
// conversions feeding the same layer configuration path.
func ParseWaveform(s string) (WaveformKind, bool) {
	switch strings.ToLower(s) {
	case "sine":
		return WaveSine, true
	case "triangle":
		return WaveTriangle, true
	case "square":
		return WaveSquare, true
	case "sawtooth", "saw":
		return WaveSawtooth, true
	case "pulse":
		return WavePulse, true
	case "sample-and-hold", "s&h", "sh":
		return WaveSampleHold, true
	default:
		return 0, false
	}
}

// WaveformKind tags the shape used by oscillators and by LFOs.
type WaveformKind int

const (
	WaveSine WaveformKind = iota
	WaveTriangle
	WaveSquare
	WaveSawtooth
	WavePulse
	WaveSampleHold
)
