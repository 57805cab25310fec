package nnf

import (
	"math/rand"
	"testing"

	"github.com/MeKo-Tech/inpaint/internal/maskedimage"
)

func solidImage(w, h int, v uint8) *maskedimage.MaskedImage {
	img := maskedimage.New(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGB(y, x, v, v, v)
		}
	}
	return img
}

// NewInherited must not panic when the finer level's dimensions are odd,
// one more than twice prev's (maskedimage.Downsample halves by floor
// division, so e.g. a finer height of 9 pairs with a coarser height of
// 4, not 4.5). Concretely reproduces the 18x18 pyramid ([18,9,4]) case
// where upsampling from level 2 (size 4) to level 1 (size 9) inherits
// from a field whose source height is only 4.
func TestNewInheritedOddIntermediateDimension(t *testing.T) {
	rng := rand.New(rand.NewSource(0))

	prevSource := solidImage(4, 4, 100)
	prevTarget := solidImage(4, 4, 100)
	prev := New(prevSource, prevTarget, 1, rng)

	source := solidImage(9, 9, 100)
	target := solidImage(9, 9, 100)

	f := NewInherited(source, target, 1, prev)

	if f.SourceWidth() != 9 || f.SourceHeight() != 9 {
		t.Fatalf("size = %dx%d, want 9x9", f.SourceWidth(), f.SourceHeight())
	}
	// Every entry must land in target bounds, including the last
	// row/column, which is the one that previously indexed past prev.
	for y := 0; y < 9; y++ {
		for x := 0; x < 9; x++ {
			e := f.At(y, x)
			if e.TY < 0 || e.TY >= 9 || e.TX < 0 || e.TX >= 9 {
				t.Fatalf("entry (%d,%d) = (%d,%d) out of target bounds", y, x, e.TY, e.TX)
			}
		}
	}
}

func TestNewEntriesWithinTargetBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	source := solidImage(6, 5, 50)
	target := solidImage(4, 7, 60)

	f := New(source, target, 1, rng)

	for y := 0; y < f.SourceHeight(); y++ {
		for x := 0; x < f.SourceWidth(); x++ {
			e := f.At(y, x)
			if e.TY < 0 || e.TY >= f.TargetHeight() || e.TX < 0 || e.TX >= f.TargetWidth() {
				t.Fatalf("entry (%d,%d) = (%d,%d) out of target bounds", y, x, e.TY, e.TX)
			}
		}
	}
}
