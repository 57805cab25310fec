package inpainter

import "errors"

// ErrShapeMismatch wraps a color/mask size mismatch detected while
// assembling a MaskedImage (maskprep.Build), per spec §7's "mask shape
// != image shape" invalid-input condition. Defined here, alongside
// ErrImageTooSmall, so callers can check both pre-work validation
// failures against one package regardless of which constructor raised
// them.
var ErrShapeMismatch = errors.New("inpainter: mask shape does not match image shape")

// ErrImageTooSmall is returned when the input is too small to form even
// a single (2p+1)x(2p+1) patch.
var ErrImageTooSmall = errors.New("inpainter: image too small to form a single patch")
