package maskedimage

import "math"

// rgbF64 is an intermediate accumulator used while blurring; kept
// separate from the uint8 storage format so repeated passes don't lose
// precision or re-quantize between the horizontal and vertical pass.
type rgbF64 struct {
	r, g, b float64
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

func clampByte(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}

// downsample1D applies the 6-tap kernel to one dimension, halving its
// length. in/inMasked have length n; out/outMasked have length n/2.
// Each output o draws from taps at 2*o-2 .. 2*o+3 with symmetric
// (clamp-to-edge) boundary replication, per spec.md's "separable blur
// then decimate" resolution of the downsample ordering question.
func downsample1D(in []rgbF64, inMasked []bool, n int) (out []rgbF64, outMasked []bool) {
	outN := n / 2
	out = make([]rgbF64, outN)
	outMasked = make([]bool, outN)
	for o := 0; o < outN; o++ {
		var sumR, sumG, sumB, sumW float64
		anyMasked := false
		for k := 0; k < 6; k++ {
			idx := clampInt(2*o-2+k, 0, n-1)
			weight := float64(DownsampleKernel[k])
			if inMasked[idx] {
				anyMasked = true
				continue
			}
			sumR += in[idx].r * weight
			sumG += in[idx].g * weight
			sumB += in[idx].b * weight
			sumW += weight
		}
		if sumW > 0 {
			out[o] = rgbF64{sumR / sumW, sumG / sumW, sumB / sumW}
		}
		// sumW == 0 (every tap masked): value stays zero, arbitrary per
		// spec.md §4.1 since the output pixel will itself be masked.
		outMasked[o] = anyMasked
	}
	return out, outMasked
}

// Downsample returns a new image at half resolution (floor division in
// each dimension), built by a separable 6-tap blur followed by 2x
// decimation (spec.md §4.1, §9).
func (m *MaskedImage) Downsample() *MaskedImage {
	outW, outH := m.w/2, m.h/2

	// Horizontal pass: full height, halved width.
	rowRGB := make([][]rgbF64, m.h)
	rowMasked := make([][]bool, m.h)
	for y := 0; y < m.h; y++ {
		srcRow := m.RowRGB(y)
		maskRow := m.RowMask(y)
		in := make([]rgbF64, m.w)
		for x := 0; x < m.w; x++ {
			in[x] = rgbF64{float64(srcRow[3*x]), float64(srcRow[3*x+1]), float64(srcRow[3*x+2])}
		}
		rowRGB[y], rowMasked[y] = downsample1D(in, maskRow, m.w)
	}

	// Vertical pass: halved height, already-halved width.
	out := New(outW, outH)
	col := make([]rgbF64, m.h)
	colMasked := make([]bool, m.h)
	for x := 0; x < outW; x++ {
		for y := 0; y < m.h; y++ {
			col[y] = rowRGB[y][x]
			colMasked[y] = rowMasked[y][x]
		}
		outCol, outColMasked := downsample1D(col, colMasked, m.h)
		for y := 0; y < outH; y++ {
			out.SetRGB(y, x, clampByte(outCol[y].r), clampByte(outCol[y].g), clampByte(outCol[y].b))
			out.SetMask(y, x, outColMasked[y])
		}
	}
	return out
}

// Upsample returns a new image of size newW x newH built by bilinear
// interpolation of RGB; a destination pixel is masked iff the bilinear
// kernel's four source corners include any masked pixel (spec.md §4.1).
func (m *MaskedImage) Upsample(newW, newH int) *MaskedImage {
	out := New(newW, newH)
	scaleX := float64(m.w) / float64(newW)
	scaleY := float64(m.h) / float64(newH)

	for oy := 0; oy < newH; oy++ {
		sy := (float64(oy)+0.5)*scaleY - 0.5
		y0 := int(math.Floor(sy))
		fy := sy - float64(y0)
		y1 := y0 + 1
		y0c := clampInt(y0, 0, m.h-1)
		y1c := clampInt(y1, 0, m.h-1)

		for ox := 0; ox < newW; ox++ {
			sx := (float64(ox)+0.5)*scaleX - 0.5
			x0 := int(math.Floor(sx))
			fx := sx - float64(x0)
			x1 := x0 + 1
			x0c := clampInt(x0, 0, m.w-1)
			x1c := clampInt(x1, 0, m.w-1)

			r00, g00, b00 := m.RGBAt(y0c, x0c)
			r01, g01, b01 := m.RGBAt(y0c, x1c)
			r10, g10, b10 := m.RGBAt(y1c, x0c)
			r11, g11, b11 := m.RGBAt(y1c, x1c)

			w00 := (1 - fy) * (1 - fx)
			w01 := (1 - fy) * fx
			w10 := fy * (1 - fx)
			w11 := fy * fx

			r := float64(r00)*w00 + float64(r01)*w01 + float64(r10)*w10 + float64(r11)*w11
			g := float64(g00)*w00 + float64(g01)*w01 + float64(g10)*w10 + float64(g11)*w11
			b := float64(b00)*w00 + float64(b01)*w01 + float64(b10)*w10 + float64(b11)*w11

			out.SetRGB(oy, ox, clampByte(r), clampByte(g), clampByte(b))

			masked := m.IsMasked(y0c, x0c) || m.IsMasked(y0c, x1c) || m.IsMasked(y1c, x0c) || m.IsMasked(y1c, x1c)
			out.SetMask(oy, ox, masked)
		}
	}
	return out
}

// BuildPyramid constructs the level-0..L sequence by repeated
// Downsample, stopping at the first level whose width or height is at
// or below the patch footprint 2p+1; that level is included as the
// coarsest one (spec.md §3, §4.1).
func BuildPyramid(base *MaskedImage, patchHalfSize int) []*MaskedImage {
	levels := []*MaskedImage{base}
	cur := base
	minDim := 2*patchHalfSize + 1
	for cur.Width() > minDim && cur.Height() > minDim {
		cur = cur.Downsample()
		levels = append(levels, cur)
	}
	return levels
}
