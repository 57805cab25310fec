package inpainter

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/inpaint/internal/maskedimage"
)

// This file is the sole testify consumer in the module, mirroring the
// teacher's own sparing use of testify/require in exactly one test file
// (the driver-level test, here as there).
func TestRunProducesCorrectDimensions(t *testing.T) {
	img := checkerboardImage(40, 56, 5)
	maskRect(img, 10, 10, 18, 18)

	inp, err := New(img, testPatchHalfSize, 42)
	require.NoError(t, err)

	out, err := inp.Run(context.Background(), nil)
	require.NoError(t, err)
	require.Equal(t, 40, out.Width())
	require.Equal(t, 56, out.Height())
}

func TestRunContextCancellationStopsEarly(t *testing.T) {
	img := checkerboardImage(64, 64, 8)
	maskRect(img, 20, 20, 40, 40)

	inp, err := New(img, testPatchHalfSize, 1)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = inp.Run(ctx, nil)
	require.ErrorIs(t, err, context.Canceled)
}

func TestNewAcceptsExactMinimumSize(t *testing.T) {
	minDim := 2*testPatchHalfSize + 1
	img := maskedimage.New(minDim, minDim)

	_, err := New(img, testPatchHalfSize, 0)
	require.NoError(t, err)
}
