// SPDX-License-Identifier: GPL-3.0-or-later
// Package engine implements a deterministic procedural audio rendering
// engine: given a declarative request (sample rate, duration, synthesis
// layers, modulation sources, filters, envelopes, a post-mix effect chain,
// and a numeric seed) it renders an interleaved stereo f32 PCM buffer that
// is byte-identical across runs, platforms, and architectures for the same
// input.
//
// Render is the single public entry point for one request; RenderMany fans
// out independent requests over a bounded goroutine pool. Nothing in this
// package touches a clock, the filesystem, or OS entropy.
package engine
