// SPDX-License-Identifier: GPL-3.0-or-later
package engine

import "hash/fnv"

// RNG is the deterministic engine-wide pseudo-random source. It is a
// pure function of the request seed plus a string salt: no OS entropy, no
// wall clock, no goroutine-order dependence.
//
// Root state is expanded from the 32-bit seed with splitmix64 (a small,
// well-known, fixed-constant generator used only to seed the real stream),
// and each derived sub-stream is its own independent xorshift128+ generator
// seeded from the FNV-1a hash of its purpose string combined with the root
// seed. Two sub-streams never share state, so draw order on one never
// perturbs another, whatever order the caller happens to draw them in.
type RNGStream struct {
	s0, s1 uint64
}

// splitMix64 advances and returns the next value of a splitmix64 generator
// seeded by x. It is used only to expand a 64-bit seed into the two 64-bit
// words an xorshift128+ stream needs.
func splitMix64(x uint64) (next, out uint64) {
	x += 0x9E3779B97F4A7C15
	z := x
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	z = z ^ (z >> 31)
	return x, z
}

// fnv1a64 hashes s with the standard library's FNV-1a implementation. The
// constants are fixed by the algorithm's definition, not by this package,
// which is exactly the fixed, portable, pinned hash this derivation needs.
func fnv1a64(s string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return h.Sum64()
}

// newRootSeed expands the request's 32-bit seed into a 64-bit root seed via
// one splitmix64 step, giving the derivation below a full 64 bits of state
// to mix even though the public input is only 32 bits.
func newRootSeed(seed uint32) uint64 {
	_, out := splitMix64(uint64(seed) ^ 0x2545F4914F6CDD1D)
	return out
}

// NewRNGStream derives a deterministic sub-stream identified by purpose.
// The same (seed, purpose) pair always yields the same stream, regardless
// of what else has been drawn from other sub-streams.
func NewRNGStream(seed uint32, purpose string) *RNGStream {
	root := newRootSeed(seed)
	mixed := root ^ fnv1a64(purpose)

	a, s0 := splitMix64(mixed)
	_, s1 := splitMix64(a)
	if s0 == 0 && s1 == 0 {
		s1 = 1 // xorshift128+ cannot recover from the all-zero state
	}
	return &RNGStream{s0: s0, s1: s1}
}

// next advances the xorshift128+ stream and returns the raw 64-bit draw.
func (r *RNGStream) next() uint64 {
	x := r.s0
	y := r.s1
	r.s0 = y
	x ^= x << 23
	x ^= x >> 17
	x ^= y ^ (y >> 26)
	r.s1 = x
	return x + y
}

// Float64 returns the next draw mapped to [0, 1). It is the single RNG
// primitive used in every hot path: every other distribution the engine
// needs is built from this one call.
func (r *RNGStream) Float64() float64 {
	// Top 53 bits give a value exactly representable as a double in [0,1).
	return float64(r.next()>>11) / (1 << 53)
}

// Bipolar returns the next draw mapped to [-1, 1).
func (r *RNGStream) Bipolar() float64 {
	return r.Float64()*2 - 1
}

// Range returns the next draw mapped to [lo, hi).
func (r *RNGStream) Range(lo, hi float64) float64 {
	return lo + r.Float64()*(hi-lo)
}
