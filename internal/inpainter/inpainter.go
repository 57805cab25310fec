// Package inpainter implements the top-level multi-scale driver:
// builds the image pyramid, seeds the coarsest-level target, and runs
// an expectation-maximization loop at each level with PatchMatch
// re-minimization between iterations (spec.md §4.5).
package inpainter

import (
	"context"
	"math/rand"

	"github.com/MeKo-Tech/inpaint/internal/maskedimage"
	"github.com/MeKo-Tech/inpaint/internal/nnf"
	"github.com/MeKo-Tech/inpaint/internal/rowpool"
	"github.com/MeKo-Tech/inpaint/internal/similarity"
)

// DefaultPatchHalfSize is the reference patch half-size (7x7 patches).
const DefaultPatchHalfSize = 3

// Inpainter drives one inpainting run over a fixed input image and
// patch size. A single instance is not safe for concurrent Run calls;
// build one Inpainter per run.
type Inpainter struct {
	pyramid []*maskedimage.MaskedImage
	p       int
	rng     *rand.Rand
	workers int
}

// New validates the input and builds the pyramid. seed drives every
// random decision the run makes (spec.md §5: same seed, same output,
// at Workers==1).
func New(image *maskedimage.MaskedImage, patchHalfSize int, seed int64) (*Inpainter, error) {
	if patchHalfSize <= 0 {
		patchHalfSize = DefaultPatchHalfSize
	}
	minDim := 2*patchHalfSize + 1
	if image.Width() < minDim || image.Height() < minDim {
		return nil, ErrImageTooSmall
	}

	similarity.Init()

	inp := &Inpainter{
		pyramid: maskedimage.BuildPyramid(image.Clone(), patchHalfSize),
		p:       patchHalfSize,
		rng:     rand.New(rand.NewSource(seed)),
		workers: 1,
	}
	return inp, nil
}

// SetWorkers configures how many goroutines stripe the expectation
// step across (spec.md §5). Values <= 1 run single-threaded, which is
// also the only configuration with a determinism guarantee.
func (inp *Inpainter) SetWorkers(n int) {
	if n < 1 {
		n = 1
	}
	inp.workers = n
}

// Run executes the coarse-to-fine EM loop and returns the final
// full-resolution result. sink may be nil, in which case progress
// callbacks are discarded. Cancellation is cooperative: ctx is checked
// between EM iterations (spec.md §5).
func (inp *Inpainter) Run(ctx context.Context, sink Sink) (*maskedimage.MaskedImage, error) {
	if sink == nil {
		sink = NoopSink{}
	}

	levels := len(inp.pyramid)
	level := levels - 1

	target := inp.pyramid[level].Clone()
	target.ClearMask()

	fst := nnf.New(inp.pyramid[level], target, inp.p, inp.rng)
	fts := nnf.New(target, inp.pyramid[level], inp.p, inp.rng)

	// Level 0 is normally consumed only as the final upsample target
	// (spec.md §9) and never runs its own EM pass. The sole exception is
	// a pyramid that never downsampled at all (the input already sat at
	// or below the termination threshold): there, level 0 is the only
	// level there is, so it must run EM itself rather than being skipped
	// entirely.
	stopLevel := 1
	if levels == 1 {
		stopLevel = 0
	}

	for level = levels - 1; level >= stopLevel; level-- {
		sink.OnLevelBegin(level)

		nEM := 1 + 2*level
		nNNF := min(7, 1+level)

		for iter := 0; iter < nEM; iter++ {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			sink.OnEMIteration(level, iter)

			if iter > 0 {
				fst.SetTarget(target)
				fts.SetSource(target)
			}

			forceIdentity(fst, inp.p)
			forceIdentity(fts, inp.p)

			sink.OnStage(StageNNFMinimize)
			fst.Minimize(nNNF, inp.rng)
			fts.Minimize(nNNF, inp.rng)

			last := iter == nEM-1

			var newSource, newTarget *maskedimage.MaskedImage
			upscaled := false
			if last && level > 0 {
				newSource = inp.pyramid[level-1]
				newTarget = target.Upsample(newSource.Width(), newSource.Height())
				upscaled = true
			} else {
				newSource = inp.pyramid[level]
				newTarget = target.Clone()
			}

			vote := rowpool.NewVoteBuffer(newTarget.Width(), newTarget.Height())

			sink.OnStage(StageExpectationST)
			castExpectation(ctx, inp.workers, fst, newSource, vote, upscaled, true)
			sink.OnStage(StageExpectationTS)
			castExpectation(ctx, inp.workers, fts, newSource, vote, upscaled, false)

			sink.OnStage(StageMaximization)
			maximize(newTarget, vote)

			target = newTarget

			if upscaled {
				fst = nnf.NewInherited(inp.pyramid[level-1], target, inp.p, fst)
				fts = nnf.NewInherited(target, inp.pyramid[level-1], inp.p, fts)
			}
		}
	}

	return target, nil
}
