// Package patchdist implements the SSD-based patch dissimilarity metric
// between two masked images (spec.md §4.2).
package patchdist

import "github.com/MeKo-Tech/inpaint/internal/maskedimage"

// SSDScale is the maximum per-pixel penalty contribution before
// averaging (kSSDScale in the reference implementation).
const SSDScale = 20000

// DistanceScale re-exports maskedimage.DistanceScale so callers of this
// package don't need to import maskedimage just for the constant.
const DistanceScale = maskedimage.DistanceScale

// Patch computes the scaled SSD distance between the (2p+1)x(2p+1)
// patch centered at (ay,ax) in a and the patch centered at (by,bx) in
// b, clamped to [0, DistanceScale].
//
// Out-of-bounds and masked positions both contribute the per-pixel
// maximum penalty and both count toward N (spec.md §9's resolution of
// the "simultaneously invalid" open question: such positions are never
// excluded from the average, they're penalized at the ceiling).
func Patch(a *maskedimage.MaskedImage, ay, ax int, b *maskedimage.MaskedImage, by, bx, p int) int {
	var sum, n int

	for dy := -p; dy <= p; dy++ {
		ayy, byy := ay+dy, by+dy
		for dx := -p; dx <= p; dx++ {
			axx, bxx := ax+dx, bx+dx
			n++

			aIn := a.Contains(ayy, axx)
			bIn := b.Contains(byy, bxx)
			if !aIn || !bIn {
				sum += SSDScale
				continue
			}
			if a.IsMasked(ayy, axx) || b.IsMasked(byy, bxx) {
				sum += SSDScale
				continue
			}

			ar, ag, ab := a.RGBAt(ayy, axx)
			br, bg, bb := b.RGBAt(byy, bxx)
			dr := int(ar) - int(br)
			dg := int(ag) - int(bg)
			db := int(ab) - int(bb)
			ssd := dr*dr + dg*dg + db*db

			// Scale so a full-channel max difference (3*255^2) maps to SSDScale.
			sum += ssd * SSDScale / (3 * 255 * 255)
		}
	}

	d := sum / n
	if d > DistanceScale {
		d = DistanceScale
	}
	if d < 0 {
		d = 0
	}
	return d
}
