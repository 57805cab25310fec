package imageio

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/MeKo-Tech/inpaint/internal/maskedimage"
)

func sampleNRGBA(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x * 7), G: uint8(y * 5), B: uint8((x + y) * 3), A: 255})
		}
	}
	return img
}

func TestEncodeDecodeRoundTripPNG(t *testing.T) {
	src := sampleNRGBA(16, 12)

	var buf bytes.Buffer
	if err := Encode(&buf, src, "png"); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	got, err := Decode(&buf, "png")
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	b := got.Bounds()
	if b.Dx() != 16 || b.Dy() != 12 {
		t.Fatalf("decoded size = %dx%d, want 16x12", b.Dx(), b.Dy())
	}
	gotN := ToNRGBA(got)
	for y := 0; y < 12; y++ {
		for x := 0; x < 16; x++ {
			wantR, wantG, wantB, _ := src.At(x, y).RGBA()
			gotR, gotG, gotB, _ := gotN.At(x, y).RGBA()
			if wantR != gotR || wantG != gotG || wantB != gotB {
				t.Fatalf("pixel (%d,%d) mismatch after PNG round trip", x, y)
			}
		}
	}
}

func TestDecodeRejectsUnknownExtension(t *testing.T) {
	if _, err := Decode(bytes.NewReader(nil), ".xyz"); err == nil {
		t.Fatal("Decode with unknown extension: want error, got nil")
	}
}

func TestFromMaskedImagePreservesRGB(t *testing.T) {
	m := maskedimage.New(4, 3)
	m.SetRGB(1, 2, 10, 20, 30)
	m.SetMask(1, 2, true)

	out := FromMaskedImage(m)
	r, g, b, a := out.At(2, 1).RGBA()
	if r>>8 != 10 || g>>8 != 20 || b>>8 != 30 {
		t.Fatalf("pixel = (%d,%d,%d), want (10,20,30)", r>>8, g>>8, b>>8)
	}
	if a>>8 != 255 {
		t.Fatalf("alpha = %d, want opaque regardless of mask state", a>>8)
	}
}

func TestToNRGBAIsIdempotentOnConcreteType(t *testing.T) {
	src := sampleNRGBA(5, 5)
	if ToNRGBA(src) != src {
		t.Fatal("ToNRGBA should return the same pointer for an already-*image.NRGBA input")
	}
}
