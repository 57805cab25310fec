// Package nnf implements the approximate nearest-neighbor field between
// two masked images, computed by PatchMatch (spec.md §4.3).
package nnf

import (
	"math/rand"

	"github.com/MeKo-Tech/inpaint/internal/maskedimage"
	"github.com/MeKo-Tech/inpaint/internal/patchdist"
)

// Entry is one NNF cell: the best target patch center found so far for
// a given source patch center, and its quantized distance.
type Entry struct {
	TY, TX int
	D      int
}

// Field is a dense Hs x Ws array of Entry, mapping every source patch
// center to its best-known match in target.
type Field struct {
	source, target *maskedimage.MaskedImage
	p               int
	sw, sh          int
	field           []Entry
}

// New builds a fresh field with every entry drawn uniformly at random
// in target bounds (spec.md §4.3 form 1).
func New(source, target *maskedimage.MaskedImage, p int, rng *rand.Rand) *Field {
	f := &Field{
		source: source,
		target: target,
		p:      p,
		sw:     source.Width(),
		sh:     source.Height(),
	}
	f.field = make([]Entry, f.sw*f.sh)
	tw, th := target.Width(), target.Height()
	for y := 0; y < f.sh; y++ {
		for x := 0; x < f.sw; x++ {
			ty := rng.Intn(th)
			tx := rng.Intn(tw)
			f.set(y, x, ty, tx)
		}
	}
	return f
}

// NewInherited builds a field at full resolution by inheriting from a
// half-resolution field prev (spec.md §4.3 form 2): F[y,x] is seeded
// from F'[y/2,x/2] scaled by 2 and offset by (y,x) mod 2, clipped to
// target bounds, then its distance is recomputed at this resolution.
func NewInherited(source, target *maskedimage.MaskedImage, p int, prev *Field) *Field {
	f := &Field{
		source: source,
		target: target,
		p:      p,
		sw:     source.Width(),
		sh:     source.Height(),
	}
	f.field = make([]Entry, f.sw*f.sh)
	tw, th := target.Width(), target.Height()
	for y := 0; y < f.sh; y++ {
		for x := 0; x < f.sw; x++ {
			// prev's dimensions are floor(f's dims / 2) (maskedimage.Downsample
			// halves by floor division), so an odd finer-level dimension (one
			// more than twice the coarser one) puts y/2 or x/2 one past prev's
			// last valid index; clamp rather than index out of range.
			py := clampInt(y/2, 0, prev.sh-1)
			px := clampInt(x/2, 0, prev.sw-1)
			pe := prev.at(py, px)
			ty := clampInt(2*pe.TY+(y%2), 0, th-1)
			tx := clampInt(2*pe.TX+(x%2), 0, tw-1)
			f.set(y, x, ty, tx)
		}
	}
	return f
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func (f *Field) idx(y, x int) int { return y*f.sw + x }

func (f *Field) at(y, x int) Entry { return f.field[f.idx(y, x)] }

// set recomputes the distance for (ty,tx) and stores the entry.
func (f *Field) set(y, x, ty, tx int) {
	d := patchdist.Patch(f.source, y, x, f.target, ty, tx, f.p)
	f.field[f.idx(y, x)] = Entry{TY: ty, TX: tx, D: d}
}

// At returns the entry at (y,x).
func (f *Field) At(y, x int) Entry { return f.at(y, x) }

// SourceWidth/SourceHeight/TargetWidth/TargetHeight expose the field's
// domain and codomain sizes.
func (f *Field) SourceWidth() int  { return f.sw }
func (f *Field) SourceHeight() int { return f.sh }
func (f *Field) TargetWidth() int  { return f.target.Width() }
func (f *Field) TargetHeight() int { return f.target.Height() }

// Source returns the field's source image.
func (f *Field) Source() *maskedimage.MaskedImage { return f.source }

// Target returns the field's target image.
func (f *Field) Target() *maskedimage.MaskedImage { return f.target }

// PatchHalfSize returns p.
func (f *Field) PatchHalfSize() int { return f.p }

// SetIdentity overrides the entry at (y,x) to (y,x,0), used when the
// source patch neighborhood has no masked pixel and therefore needs no
// synthesis (spec.md §4.3, §4.5).
func (f *Field) SetIdentity(y, x int) {
	f.field[f.idx(y, x)] = Entry{TY: y, TX: x, D: 0}
}

// SetSource swaps in a new source image, forcing a full recomputation
// of every entry's distance against the new source content. The field
// is not resized, so the new source must have the same dimensions as
// the one it replaces.
func (f *Field) SetSource(source *maskedimage.MaskedImage) {
	f.source = source
	f.sw = source.Width()
	f.sh = source.Height()
	for y := 0; y < f.sh; y++ {
		for x := 0; x < f.sw; x++ {
			e := f.at(y, x)
			f.set(y, x, e.TY, e.TX)
		}
	}
}

// SetTarget swaps in a new target image, forcing a full recomputation
// of every entry's distance and clamping stored coordinates into the
// new target's bounds.
func (f *Field) SetTarget(target *maskedimage.MaskedImage) {
	f.target = target
	tw, th := target.Width(), target.Height()
	for y := 0; y < f.sh; y++ {
		for x := 0; x < f.sw; x++ {
			e := f.at(y, x)
			ty := clampInt(e.TY, 0, th-1)
			tx := clampInt(e.TX, 0, tw-1)
			f.set(y, x, ty, tx)
		}
	}
}
