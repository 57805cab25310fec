// Package similarity builds the monotone distance-to-vote-weight lookup
// table (spec.md §3, §4.4).
package similarity

import (
	"sync"

	"github.com/MeKo-Tech/inpaint/internal/patchdist"
)

// controlPoints are the 11 seed values the LUT is linearly interpolated
// from, reproduced verbatim from the reference implementation's
// init_kDistance2Similarity.
var controlPoints = [11]float64{1.0, 0.99, 0.96, 0.83, 0.38, 0.11, 0.02, 0.005, 0.0006, 0.0001, 0}

var (
	once sync.Once
	lut  []float64
)

// build computes the length-(DistanceScale+1) table once. Mirrors the
// reference's lazy, idempotent global init
// (`if (kDistance2Similarity.size() == 0) init_kDistance2Similarity();`).
func build() []float64 {
	length := patchdist.DistanceScale + 1
	table := make([]float64, length)
	for i := 0; i < length; i++ {
		t := float64(i) / float64(length)
		j := int(100 * t)
		k := j + 1
		var vj, vk float64
		if j < len(controlPoints) {
			vj = controlPoints[j]
		}
		if k < len(controlPoints) {
			vk = controlPoints[k]
		}
		table[i] = vj + (100*t-float64(j))*(vk-vj)
	}
	return table
}

// Init forces the table to be built if it hasn't been already. Safe to
// call from multiple goroutines or multiple Inpainter instances; the
// table is process-global and immutable once built (spec.md §9).
func Init() {
	once.Do(func() {
		lut = build()
	})
}

// Get returns the vote weight in [0,1] for a quantized patch distance.
// Init is called automatically if needed.
func Get(distance int) float64 {
	Init()
	if distance < 0 {
		distance = 0
	}
	if distance > patchdist.DistanceScale {
		distance = patchdist.DistanceScale
	}
	return lut[distance]
}

// Len returns the table length, DistanceScale+1.
func Len() int {
	Init()
	return len(lut)
}
