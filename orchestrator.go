// SPDX-License-Identifier: GPL-3.0-or-later
package engine

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// RenderResult is the output of one Render call: the final interleaved
// stereo f32 PCM buffer plus every non-aborting warning collected along
// the way.
type RenderResult struct {
	Samples  []float32
	Warnings []NumericGuardWarning
}

// Render executes one request end to end: validate, synthesize every
// layer into a shared stereo accumulator, run the post-mix effect chain,
// then finalize to f32. The same request and seed always produce
// byte-identical Samples, regardless of platform, goroutine scheduling,
// or how many other requests are running concurrently via RenderMany.
//
// ctx is checked between layers and is not threaded into the inner
// per-sample loops: those are pure, bounded-time numeric work, and
// checking context there would make the render's own arithmetic depend on
// scheduler timing.
func Render(ctx context.Context, req RenderRequest) (RenderResult, error) {
	if err := req.Validate(); err != nil {
		return RenderResult{}, err
	}

	sr := float64(req.SampleRate)
	totalSamples := req.TotalSamples()

	left := make([]float64, totalSamples)
	right := make([]float64, totalSamples)
	var warnings []NumericGuardWarning

	for idx, layer := range req.Layers {
		if err := ctx.Err(); err != nil {
			return RenderResult{}, err
		}
		w := RenderLayer(layer, sr, totalSamples, req.Seed, idx, left, right)
		warnings = append(warnings, w...)
	}

	if err := ctx.Err(); err != nil {
		return RenderResult{}, err
	}

	if err := RunEffectChain(req, sr, left, right); err != nil {
		return RenderResult{}, err
	}

	samples, clipWarnings := FinalizeMix(left, right)
	warnings = append(warnings, clipWarnings...)

	return RenderResult{Samples: samples, Warnings: warnings}, nil
}

// RenderMany renders every request in reqs concurrently, bounded to
// runtime.GOMAXPROCS(0) in-flight renders at a time, and returns results in
// the same order as reqs. Requests are fully independent: none of their RNG
// sub-streams or buffers are shared, so the result for reqs[i] does not
// depend on how many other requests ran alongside it or in what order
// they finished.
func RenderMany(ctx context.Context, reqs []RenderRequest) ([]RenderResult, error) {
	results := make([]RenderResult, len(reqs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, req := range reqs {
		i, req := i, req
		g.Go(func() error {
			res, err := Render(gctx, req)
			if err != nil {
				return fmt.Errorf("request[%d]: %w", i, err)
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
