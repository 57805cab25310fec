package inpainter

import (
	"context"

	"github.com/MeKo-Tech/inpaint/internal/maskedimage"
	"github.com/MeKo-Tech/inpaint/internal/nnf"
	"github.com/MeKo-Tech/inpaint/internal/rowpool"
	"github.com/MeKo-Tech/inpaint/internal/similarity"
)

// forceIdentity overrides every field entry whose source patch
// neighborhood contains no masked pixel with the identity match
// (spec.md §4.5, §4.3): such patches need no synthesis and are skipped
// by Minimize regardless, but forcing the identity keeps their stored
// distance meaningful for any caller inspecting the field mid-run.
func forceIdentity(f *nnf.Field, p int) {
	source := f.Source()
	h, w := f.SourceHeight(), f.SourceWidth()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !source.ContainsMask(y, x, p) {
				f.SetIdentity(y, x)
			}
		}
	}
}

// castExpectation casts votes from one direction of the EM step's pair
// of NNFs into vote (spec.md §4.6). forward is true for F_st
// (source -> target, "completeness"); false for F_ts
// (target -> source, "coherence").
//
// newSource is the pyramid level image votes are read from; it may be
// at double the resolution of f's own source/target spaces when
// upscaled is true (the last EM iteration of a level above 0).
func castExpectation(ctx context.Context, workers int, f *nnf.Field, newSource *maskedimage.MaskedImage, vote *rowpool.VoteBuffer, upscaled, forward bool) {
	p := f.PatchHalfSize()
	sh, sw := f.SourceHeight(), f.SourceWidth()
	th, tw := f.TargetHeight(), f.TargetWidth()

	rowpool.Accumulate(ctx, workers, sh, vote, func(rowStart, rowEnd int, local *rowpool.VoteBuffer) {
		for i := rowStart; i < rowEnd; i++ {
			for j := 0; j < sw; j++ {
				e := f.At(i, j)
				weight := similarity.Get(e.D)
				if weight <= 0 {
					continue
				}
				for di := -p; di <= p; di++ {
					ys0, yt0 := i+di, e.TY+di
					if ys0 < 0 || ys0 >= sh || yt0 < 0 || yt0 >= th {
						continue
					}
					for dj := -p; dj <= p; dj++ {
						xs0, xt0 := j+dj, e.TX+dj
						if xs0 < 0 || xs0 >= sw || xt0 < 0 || xt0 >= tw {
							continue
						}

						// (srcY,srcX) always indexes new_source; (tgtY,tgtX)
						// always indexes vote/new_target. For the
						// target->source direction these are swapped
						// relative to the field's own source/target
						// spaces (spec.md §4.6).
						srcY, srcX, tgtY, tgtX := ys0, xs0, yt0, xt0
						if !forward {
							srcY, srcX, tgtY, tgtX = yt0, xt0, ys0, xs0
						}

						castOne(newSource, local, srcY, srcX, tgtY, tgtX, weight, upscaled)
					}
				}
			}
		}
	})
}

func castOne(newSource *maskedimage.MaskedImage, vote *rowpool.VoteBuffer, srcY, srcX, tgtY, tgtX int, weight float64, upscaled bool) {
	if upscaled {
		for uy := 0; uy < 2; uy++ {
			sy, ty := 2*srcY+uy, 2*tgtY+uy
			for ux := 0; ux < 2; ux++ {
				sx, tx := 2*srcX+ux, 2*tgtX+ux
				if !newSource.Contains(sy, sx) || newSource.IsMasked(sy, sx) {
					continue
				}
				r, g, b := newSource.RGBAt(sy, sx)
				vote.Add(ty, tx, float64(r), float64(g), float64(b), weight)
			}
		}
		return
	}
	if !newSource.Contains(srcY, srcX) || newSource.IsMasked(srcY, srcX) {
		return
	}
	r, g, b := newSource.RGBAt(srcY, srcX)
	vote.Add(tgtY, tgtX, float64(r), float64(g), float64(b), weight)
}

// maximize overwrites every target pixel with the weight-normalized
// mean of its votes, clearing its mask bit; pixels with zero
// accumulated weight are left untouched (spec.md §4.7).
func maximize(target *maskedimage.MaskedImage, vote *rowpool.VoteBuffer) {
	h, w := target.Height(), target.Width()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, weight := vote.At(y, x)
			if weight <= 0 {
				continue
			}
			target.SetRGB(y, x, clampRound(r/weight), clampRound(g/weight), clampRound(b/weight))
			target.SetMask(y, x, false)
		}
	}
}

func clampRound(v float64) uint8 {
	v += 0.5
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
