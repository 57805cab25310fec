package inpainter

import (
	"context"
	"testing"

	"github.com/MeKo-Tech/inpaint/internal/maskedimage"
)

const testPatchHalfSize = 3

func solidImage(w, h int, r, g, b uint8) *maskedimage.MaskedImage {
	img := maskedimage.New(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGB(y, x, r, g, b)
		}
	}
	return img
}

func stripeImage(w, h int) *maskedimage.MaskedImage {
	img := maskedimage.New(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if y < h/2 {
				img.SetRGB(y, x, 200, 30, 30) // red
			} else {
				img.SetRGB(y, x, 30, 30, 200) // blue
			}
		}
	}
	return img
}

func checkerboardImage(w, h, tile int) *maskedimage.MaskedImage {
	img := maskedimage.New(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			on := ((y/tile)+(x/tile))%2 == 0
			if on {
				img.SetRGB(y, x, 220, 220, 220)
			} else {
				img.SetRGB(y, x, 20, 20, 20)
			}
		}
	}
	return img
}

func maskRect(img *maskedimage.MaskedImage, y0, x0, y1, x1 int) {
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			img.SetMask(y, x, true)
		}
	}
}

func run(t *testing.T, img *maskedimage.MaskedImage) *maskedimage.MaskedImage {
	t.Helper()
	inp, err := New(img, testPatchHalfSize, 0)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	out, err := inp.Run(context.Background(), nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	return out
}

// S1: an all-known image is returned unchanged.
func TestRunAllKnownIsUnchanged(t *testing.T) {
	img := checkerboardImage(32, 32, 4)
	out := run(t, img)

	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			wr, wg, wb := img.RGBAt(y, x)
			gr, gg, gb := out.RGBAt(y, x)
			if wr != gr || wg != gg || wb != gb {
				t.Fatalf("pixel (%d,%d) changed: want (%d,%d,%d), got (%d,%d,%d)", y, x, wr, wg, wb, gr, gg, gb)
			}
		}
	}
}

// S2: a single masked pixel in a constant field votes back to the same
// constant value.
func TestRunSingleMaskedPixelConstantField(t *testing.T) {
	img := solidImage(32, 32, 128, 128, 128)
	img.SetMask(16, 16, true)

	out := run(t, img)

	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			r, g, b := out.RGBAt(y, x)
			if r != 128 || g != 128 || b != 128 {
				t.Fatalf("pixel (%d,%d) = (%d,%d,%d), want (128,128,128)", y, x, r, g, b)
			}
		}
	}
}

// S3: a masked square inside a horizontal stripe pattern is filled with
// the majority color of its stripe, within tolerance.
func TestRunStripeRestoresMajorityColor(t *testing.T) {
	img := stripeImage(64, 64)
	maskRect(img, 20, 20, 30, 30)

	out := run(t, img)

	withinTolerance := 0
	total := 0
	for y := 20; y < 30; y++ {
		for x := 20; x < 30; x++ {
			total++
			r, g, b := out.RGBAt(y, x)
			wr, wg, wb := img.RGBAt(y, x) // stripe color before masking
			if absDiff(r, wr) <= 8 && absDiff(g, wg) <= 8 && absDiff(b, wb) <= 8 {
				withinTolerance++
			}
		}
	}
	if float64(withinTolerance)/float64(total) < 0.95 {
		t.Fatalf("only %d/%d masked pixels within tolerance of stripe color", withinTolerance, total)
	}
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}

// S5: a mask touching the image edge completes without error, and
// unmasked pixels on the untouched side are preserved.
func TestRunMaskAtEdgeCompletes(t *testing.T) {
	img := checkerboardImage(48, 48, 6)
	maskRect(img, 10, 40, 30, 48)

	out := run(t, img)

	for y := 0; y < 48; y++ {
		for x := 0; x < 20; x++ {
			wr, wg, wb := img.RGBAt(y, x)
			gr, gg, gb := out.RGBAt(y, x)
			if wr != gr || wg != gg || wb != gb {
				t.Fatalf("left-hand pixel (%d,%d) changed", y, x)
			}
		}
	}
}

// S6: an entirely masked image still produces a fully-defined result.
func TestRunAllMaskedCompletes(t *testing.T) {
	img := maskedimage.New(16, 16)
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			img.SetMask(y, x, true)
		}
	}

	out := run(t, img)

	if out.Width() != 16 || out.Height() != 16 {
		t.Fatalf("output size = %dx%d, want 16x16", out.Width(), out.Height())
	}
}

// Pyramid ratios between consecutive levels aren't always exactly 2x
// (Downsample halves by floor division), so an 18x18 input produces
// levels [18,9,4]: level 2 -> level 1 inherits a field whose finer
// dimension (9) is one more than twice the coarser one (4). This must
// complete without panicking.
func TestRunOddPyramidRatioCompletes(t *testing.T) {
	img := checkerboardImage(18, 18, 3)
	maskRect(img, 6, 6, 10, 10)

	out := run(t, img)

	if out.Width() != 18 || out.Height() != 18 {
		t.Fatalf("output size = %dx%d, want 18x18", out.Width(), out.Height())
	}
}

func TestNewRejectsTooSmallImage(t *testing.T) {
	img := maskedimage.New(4, 4)
	if _, err := New(img, testPatchHalfSize, 0); err != ErrImageTooSmall {
		t.Fatalf("New() error = %v, want ErrImageTooSmall", err)
	}
}

func TestRunDeterministicAtOneWorker(t *testing.T) {
	mk := func() *maskedimage.MaskedImage {
		img := stripeImage(48, 48)
		maskRect(img, 15, 15, 25, 25)
		return img
	}

	out1 := run(t, mk())
	out2 := run(t, mk())

	for y := 0; y < 48; y++ {
		for x := 0; x < 48; x++ {
			r1, g1, b1 := out1.RGBAt(y, x)
			r2, g2, b2 := out2.RGBAt(y, x)
			if r1 != r2 || g1 != g2 || b1 != b2 {
				t.Fatalf("pixel (%d,%d) differs across identically-seeded runs", y, x)
			}
		}
	}
}
