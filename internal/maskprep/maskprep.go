// Package maskprep turns arbitrary color/mask image pairs into the
// engine's MaskedImage, and synthesizes test/demo fixtures (stripes,
// checkerboards, circular and Perlin-noise-shaped holes).
//
// The blur/threshold/noise idioms are adapted from
// internal/mask/processor.go's gift-based GaussianBlur and
// go-perlin-based GeneratePerlinNoise, repurposed from map-layer mask
// compositing to inpainting hole-mask preparation.
package maskprep

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/aquilax/go-perlin"
	"github.com/disintegration/gift"

	"github.com/MeKo-Tech/inpaint/internal/inpainter"
	"github.com/MeKo-Tech/inpaint/internal/maskedimage"
)

// ExtractAlpha converts an image's alpha channel into a grayscale mask,
// preserving anti-aliased edges.
func ExtractAlpha(img image.Image) *image.Gray {
	bounds := img.Bounds()
	out := image.NewGray(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			_, _, _, a := img.At(x, y).RGBA()
			out.SetGray(x, y, color.Gray{Y: uint8(a >> 8)})
		}
	}
	return out
}

// Soften blurs a mask's edges with a Gaussian filter, useful for
// feathering a hard hole boundary before thresholding back to boolean.
func Soften(mask *image.Gray, sigma float32) *image.Gray {
	g := gift.New(gift.GaussianBlur(sigma))
	dst := image.NewGray(g.Bounds(mask.Bounds()))
	g.Draw(dst, mask)
	return dst
}

// Threshold converts a grayscale mask into a row-major boolean plane;
// a pixel is a hole (true) when its gray value is >= threshold.
func Threshold(mask *image.Gray, threshold uint8) []bool {
	bounds := mask.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	out := make([]bool, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			out[y*w+x] = mask.GrayAt(bounds.Min.X+x, bounds.Min.Y+y).Y >= threshold
		}
	}
	return out
}

// Build assembles a MaskedImage from a color image and a grayscale mask
// (thresholded at threshold), which must share the color image's
// dimensions.
func Build(colorImg image.Image, mask *image.Gray, threshold uint8) (*maskedimage.MaskedImage, error) {
	cb := colorImg.Bounds()
	mb := mask.Bounds()
	if cb.Dx() != mb.Dx() || cb.Dy() != mb.Dy() {
		return nil, fmt.Errorf("maskprep: color image %dx%d and mask %dx%d differ in size: %w", cb.Dx(), cb.Dy(), mb.Dx(), mb.Dy(), inpainter.ErrShapeMismatch)
	}

	w, h := cb.Dx(), cb.Dy()
	rgb := make([]uint8, 3*w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, _ := colorImg.At(cb.Min.X+x, cb.Min.Y+y).RGBA()
			i := 3 * (y*w + x)
			rgb[i], rgb[i+1], rgb[i+2] = uint8(r>>8), uint8(g>>8), uint8(b>>8)
		}
	}

	return maskedimage.FromBuffers(w, h, rgb, Threshold(mask, threshold))
}

// PerlinNoise renders a grayscale Perlin noise field, the same
// octave/persistence/lacunarity parameters as the teacher's texture
// noise (2 octaves of persistence, 2 of lacunarity, 3 octaves total).
func PerlinNoise(width, height int, scale float64, seed int64) *image.Gray {
	p := perlin.NewPerlin(2.0, 2.0, 3, seed)
	out := image.NewGray(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			nx := float64(x) / scale
			ny := float64(y) / scale
			val := p.Noise2D(nx, ny)
			normalized := (val + 1.0) / 2.0
			gray := uint8(math.Max(0, math.Min(255, normalized*255)))
			out.SetGray(x, y, color.Gray{Y: gray})
		}
	}
	return out
}

// PerlinHole synthesizes an organically-shaped boolean hole mask: a
// Perlin noise field thresholded at threshold, restricted to the
// circular region of the given center/radius so the hole stays
// bounded and reproducible test fixtures don't depend on image edges.
func PerlinHole(width, height int, seed int64, cy, cx, radius int, threshold uint8) []bool {
	noise := PerlinNoise(width, height, float64(radius)/2, seed)
	out := make([]bool, width*height)
	r2 := radius * radius
	for y := 0; y < height; y++ {
		dy := y - cy
		for x := 0; x < width; x++ {
			dx := x - cx
			if dx*dx+dy*dy > r2 {
				continue
			}
			if noise.GrayAt(x, y).Y >= threshold {
				out[y*width+x] = true
			}
		}
	}
	return out
}

// CircleHole synthesizes a hard-edged circular boolean hole mask.
func CircleHole(width, height, cy, cx, radius int) []bool {
	out := make([]bool, width*height)
	r2 := radius * radius
	for y := 0; y < height; y++ {
		dy := y - cy
		for x := 0; x < width; x++ {
			dx := x - cx
			if dx*dx+dy*dy <= r2 {
				out[y*width+x] = true
			}
		}
	}
	return out
}

// StripeFixture renders a two-color horizontal stripe test image: the
// top half topColor, the bottom half bottomColor.
func StripeFixture(width, height int, topColor, bottomColor color.NRGBA) *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, width, height))
	half := height / 2
	for y := 0; y < height; y++ {
		c := bottomColor
		if y < half {
			c = topColor
		}
		for x := 0; x < width; x++ {
			out.Set(x, y, c)
		}
	}
	return out
}

// CheckerboardFixture renders a periodic checkerboard of tile x tile
// squares alternating between colorA and colorB.
func CheckerboardFixture(width, height, tile int, colorA, colorB color.NRGBA) *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := colorA
			if ((y/tile)+(x/tile))%2 != 0 {
				c = colorB
			}
			out.Set(x, y, c)
		}
	}
	return out
}
