package rowpool

import (
	"context"
	"testing"
)

func TestVoteBufferAddAndAt(t *testing.T) {
	v := NewVoteBuffer(4, 4)
	v.Add(1, 1, 10, 20, 30, 2)
	v.Add(1, 1, 0, 0, 0, 1) // extra zero-weighted-value contribution, nonzero weight

	r, g, b, w := v.At(1, 1)
	if w != 3 {
		t.Fatalf("weight = %v, want 3", w)
	}
	if r != 20 || g != 40 || b != 60 {
		t.Fatalf("(r,g,b) = (%v,%v,%v), want (20,40,60)", r, g, b)
	}
}

func TestVoteBufferAddOutOfBoundsIgnored(t *testing.T) {
	v := NewVoteBuffer(2, 2)
	v.Add(-1, 0, 1, 1, 1, 1)
	v.Add(0, 2, 1, 1, 1, 1)

	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			_, _, _, w := v.At(y, x)
			if w != 0 {
				t.Fatalf("pixel (%d,%d) weight = %v, want 0", y, x, w)
			}
		}
	}
}

func TestAccumulateSingleWorkerMatchesSequential(t *testing.T) {
	acc := NewVoteBuffer(3, 3)
	Accumulate(context.Background(), 1, 9, acc, func(rowStart, rowEnd int, local *VoteBuffer) {
		for i := rowStart; i < rowEnd; i++ {
			local.Add(i%3, i/3, float64(i), float64(i), float64(i), 1)
		}
	})

	for i := 0; i < 9; i++ {
		r, _, _, w := acc.At(i%3, i/3)
		if w != 1 || r != float64(i) {
			t.Fatalf("cell %d = (r=%v,w=%v), want (r=%v,w=1)", i, r, w, float64(i))
		}
	}
}

func TestAccumulateMultiWorkerSumsAllBands(t *testing.T) {
	const rows = 40
	acc := NewVoteBuffer(1, 1)
	Accumulate(context.Background(), 4, rows, acc, func(rowStart, rowEnd int, local *VoteBuffer) {
		for i := rowStart; i < rowEnd; i++ {
			local.Add(0, 0, 1, 1, 1, 1)
		}
	})

	_, _, _, w := acc.At(0, 0)
	if w != float64(rows) {
		t.Fatalf("accumulated weight = %v, want %v", w, rows)
	}
}

func TestAccumulateRespectsPreExistingValues(t *testing.T) {
	acc := NewVoteBuffer(1, 1)
	acc.Add(0, 0, 5, 5, 5, 1)

	Accumulate(context.Background(), 2, 4, acc, func(rowStart, rowEnd int, local *VoteBuffer) {
		local.Add(0, 0, 1, 1, 1, 1)
	})

	_, _, _, w := acc.At(0, 0)
	if w != 3 { // 1 pre-existing + 2 bands each contributing once
		t.Fatalf("weight = %v, want 3", w)
	}
}
