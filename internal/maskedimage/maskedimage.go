// Package maskedimage implements the raster + binary mask pair the
// inpainting engine operates on, plus the mipmap-style pyramid
// operations (downsample/upsample) it relies on between pyramid levels.
package maskedimage

import "fmt"

// DistanceScale is the upper bound of a quantized patch distance
// (kDistanceScale in the reference implementation). It is defined here,
// alongside the buffer it measures distances between; patchdist
// re-exports it, and similarity sizes its lookup table from it.
const DistanceScale = 65535

// DownsampleKernel is the 6-tap separable low-pass filter used before
// 2x decimation. Sum is 32.
var DownsampleKernel = [6]int{1, 5, 10, 10, 5, 1}

// MaskedImage is an RGB raster paired with a same-shape boolean hole
// mask. Pixels are stored row-major; image and mask always have
// identical width/height (enforced by every constructor below).
type MaskedImage struct {
	w, h int
	rgb  []uint8 // len 3*w*h, row-major, 3 bytes per pixel (R,G,B)
	mask []bool  // len w*h, row-major; true = hole
}

// New allocates a zeroed width x height image with every pixel unmasked.
func New(w, h int) *MaskedImage {
	if w <= 0 || h <= 0 {
		panic(fmt.Sprintf("maskedimage: invalid dimensions %dx%d", w, h))
	}
	return &MaskedImage{
		w:    w,
		h:    h,
		rgb:  make([]uint8, 3*w*h),
		mask: make([]bool, w*h),
	}
}

// FromBuffers wraps caller-owned buffers. rgb must have length 3*w*h and
// mask must have length w*h; the slices are taken by reference, not
// copied — callers that need an independent copy should call Clone.
func FromBuffers(w, h int, rgb []uint8, mask []bool) (*MaskedImage, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("maskedimage: invalid dimensions %dx%d", w, h)
	}
	if len(rgb) != 3*w*h {
		return nil, fmt.Errorf("maskedimage: rgb buffer length %d, want %d", len(rgb), 3*w*h)
	}
	if len(mask) != w*h {
		return nil, fmt.Errorf("maskedimage: mask buffer length %d, want %d", len(mask), w*h)
	}
	return &MaskedImage{w: w, h: h, rgb: rgb, mask: mask}, nil
}

// Width returns the image width in pixels.
func (m *MaskedImage) Width() int { return m.w }

// Height returns the image height in pixels.
func (m *MaskedImage) Height() int { return m.h }

// Contains reports whether (y,x) lies within the image bounds.
func (m *MaskedImage) Contains(y, x int) bool {
	return y >= 0 && y < m.h && x >= 0 && x < m.w
}

func (m *MaskedImage) idx(y, x int) int { return y*m.w + x }

// IsMasked reports whether (y,x) is a hole pixel.
func (m *MaskedImage) IsMasked(y, x int) bool {
	return m.mask[m.idx(y, x)]
}

// SetMask sets the hole flag at (y,x).
func (m *MaskedImage) SetMask(y, x int, v bool) {
	m.mask[m.idx(y, x)] = v
}

// ClearMask marks every pixel as known (used to seed the coarsest-level
// target, spec.md §4.5 step 1).
func (m *MaskedImage) ClearMask() {
	for i := range m.mask {
		m.mask[i] = false
	}
}

// RGBAt returns the three channel values at (y,x).
func (m *MaskedImage) RGBAt(y, x int) (r, g, b uint8) {
	i := 3 * m.idx(y, x)
	return m.rgb[i], m.rgb[i+1], m.rgb[i+2]
}

// SetRGB writes the three channel values at (y,x). Per spec.md's
// invariant, only the maximization step is expected to pair this with
// clearing the mask bit — this method does not do so itself.
func (m *MaskedImage) SetRGB(y, x int, r, g, b uint8) {
	i := 3 * m.idx(y, x)
	m.rgb[i], m.rgb[i+1], m.rgb[i+2] = r, g, b
}

// RowRGB returns the raw 3*width-length slice backing row y, for
// pointer-like row access (spec.md §1 models the raster abstractly this
// way; mirrors the Stride-indexed raw-slice access the teacher's
// mask.BoxBlur uses over image.Gray.Pix).
func (m *MaskedImage) RowRGB(y int) []uint8 {
	return m.rgb[y*3*m.w : (y+1)*3*m.w]
}

// RowMask returns the width-length slice backing row y's mask bits.
func (m *MaskedImage) RowMask(y int) []bool {
	return m.mask[y*m.w : (y+1)*m.w]
}

// ContainsMask reports whether any pixel in the (2p+1)^2 window centered
// at (y,x), clipped to image bounds, is masked.
func (m *MaskedImage) ContainsMask(y, x, p int) bool {
	y0, y1 := clampRange(y-p, y+p, m.h)
	x0, x1 := clampRange(x-p, x+p, m.w)
	for yy := y0; yy <= y1; yy++ {
		row := m.mask[yy*m.w : (yy+1)*m.w]
		for xx := x0; xx <= x1; xx++ {
			if row[xx] {
				return true
			}
		}
	}
	return false
}

func clampRange(lo, hi, n int) (int, int) {
	if lo < 0 {
		lo = 0
	}
	if hi > n-1 {
		hi = n - 1
	}
	return lo, hi
}

// Clone returns a deep copy, independent of the receiver's buffers.
func (m *MaskedImage) Clone() *MaskedImage {
	rgb := make([]uint8, len(m.rgb))
	copy(rgb, m.rgb)
	mask := make([]bool, len(m.mask))
	copy(mask, m.mask)
	return &MaskedImage{w: m.w, h: m.h, rgb: rgb, mask: mask}
}
