package nnf

import (
	"math/rand"

	"github.com/MeKo-Tech/inpaint/internal/patchdist"
)

type offset struct{ dy, dx int }

// Minimize runs iters PatchMatch sweeps (propagation + exponential
// random search), alternating sweep direction every iteration
// (spec.md §4.3). Entries whose source patch contains no masked pixel
// are left untouched — the caller is expected to have set them to
// identity beforehand (spec.md §4.5's EM loop does this every
// iteration before calling Minimize).
func (f *Field) Minimize(iters int, rng *rand.Rand) {
	for k := 0; k < iters; k++ {
		forward := k%2 == 0
		f.sweep(forward, rng)
	}
}

func (f *Field) sweep(forward bool, rng *rand.Rand) {
	var neighbors []offset
	if forward {
		// Increasing row-major order; the top and left neighbors were
		// already updated earlier in this same sweep.
		neighbors = []offset{{-1, 0}, {0, -1}}
	} else {
		neighbors = []offset{{1, 0}, {0, 1}}
	}

	yRange := makeRange(f.sh, forward)
	xRange := makeRange(f.sw, forward)

	for _, y := range yRange {
		for _, x := range xRange {
			if !f.source.ContainsMask(y, x, f.p) {
				continue
			}
			f.propagate(y, x, neighbors)
			f.randomSearch(y, x, rng)
		}
	}
}

func makeRange(n int, forward bool) []int {
	r := make([]int, n)
	if forward {
		for i := 0; i < n; i++ {
			r[i] = i
		}
	} else {
		for i := 0; i < n; i++ {
			r[i] = n - 1 - i
		}
	}
	return r
}

// propagate tries each already-updated neighbor's match, shifted by the
// same offset that separates it from (y,x), and keeps it if it improves
// on the current entry.
func (f *Field) propagate(y, x int, neighbors []offset) {
	cur := f.at(y, x)
	th, tw := f.TargetHeight(), f.TargetWidth()

	for _, n := range neighbors {
		ny, nx := y+n.dy, x+n.dx
		if ny < 0 || ny >= f.sh || nx < 0 || nx >= f.sw {
			continue
		}
		ne := f.at(ny, nx)
		ty := ne.TY - n.dy
		tx := ne.TX - n.dx
		if ty < 0 || ty >= th || tx < 0 || tx >= tw {
			continue
		}
		d := patchdist.Patch(f.source, y, x, f.target, ty, tx, f.p)
		if d < cur.D {
			cur = Entry{TY: ty, TX: tx, D: d}
		}
	}
	f.field[f.idx(y, x)] = cur
}

// randomSearch performs exponentially-shrinking random search around
// the current match (spec.md §4.3).
func (f *Field) randomSearch(y, x int, rng *rand.Rand) {
	cur := f.at(y, x)
	th, tw := f.TargetHeight(), f.TargetWidth()

	radius := th
	if tw > radius {
		radius = tw
	}

	for radius >= 1 {
		y0 := cur.TY - radius
		y1 := cur.TY + radius
		x0 := cur.TX - radius
		x1 := cur.TX + radius

		ty := y0 + rng.Intn(y1-y0+1)
		tx := x0 + rng.Intn(x1-x0+1)
		ty = clampInt(ty, 0, th-1)
		tx = clampInt(tx, 0, tw-1)

		d := patchdist.Patch(f.source, y, x, f.target, ty, tx, f.p)
		if d < cur.D {
			cur = Entry{TY: ty, TX: tx, D: d}
		}

		radius /= 2
	}
	f.field[f.idx(y, x)] = cur
}
