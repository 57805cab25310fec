// Package imageio bridges on-disk raster formats to the engine's
// image.NRGBA / maskedimage.MaskedImage representations. Format
// dispatch is by file extension, mirroring the teacher's convention of
// keeping codec selection at the I/O boundary and working with
// image.NRGBA internally (internal/raster.Renderer.RenderLayers).
package imageio

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"github.com/MeKo-Tech/inpaint/internal/maskedimage"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// DecodeFile reads and decodes an image, dispatching on the file
// extension (.png, .jpg/.jpeg, .bmp, .tif/.tiff, .webp).
func DecodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("imageio: open %s: %w", path, err)
	}
	defer f.Close()

	img, err := Decode(f, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("imageio: decode %s: %w", path, err)
	}
	return img, nil
}

// Decode decodes r according to ext (a file extension, with or without
// the leading dot; case-insensitive).
func Decode(r io.Reader, ext string) (image.Image, error) {
	switch normalizeExt(ext) {
	case "png":
		return png.Decode(r)
	case "jpg", "jpeg":
		return jpeg.Decode(r)
	case "bmp":
		return bmp.Decode(r)
	case "tif", "tiff":
		return tiff.Decode(r)
	case "webp":
		return nativewebp.Decode(r)
	default:
		return nil, fmt.Errorf("imageio: unsupported format %q", ext)
	}
}

// EncodeFile encodes img and writes it to path, dispatching on the
// file extension the same way DecodeFile does.
func EncodeFile(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("imageio: create %s: %w", path, err)
	}
	defer f.Close()

	if err := Encode(f, img, filepath.Ext(path)); err != nil {
		return fmt.Errorf("imageio: encode %s: %w", path, err)
	}
	return nil
}

// Encode writes img to w according to ext.
func Encode(w io.Writer, img image.Image, ext string) error {
	switch normalizeExt(ext) {
	case "png":
		enc := png.Encoder{CompressionLevel: png.BestCompression}
		return enc.Encode(w, img)
	case "jpg", "jpeg":
		return jpeg.Encode(w, img, &jpeg.Options{Quality: 95})
	case "bmp":
		return bmp.Encode(w, img)
	case "tif", "tiff":
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate, Predictor: true})
	case "webp":
		return nativewebp.Encode(w, img, nil)
	default:
		return fmt.Errorf("imageio: unsupported format %q", ext)
	}
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	return ext
}

// ToNRGBA converts an arbitrary image.Image to image.NRGBA, copying
// pixels if the source isn't already that concrete type.
func ToNRGBA(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok {
		return n
	}
	b := img.Bounds()
	out := image.NewNRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			out.Set(x, y, img.At(x, y))
		}
	}
	return out
}

// FromMaskedImage renders a MaskedImage's RGB plane to an opaque
// image.NRGBA, discarding mask state (used for writing the final
// result).
func FromMaskedImage(m *maskedimage.MaskedImage) *image.NRGBA {
	w, h := m.Width(), m.Height()
	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b := m.RGBAt(y, x)
			i := out.PixOffset(x, y)
			out.Pix[i], out.Pix[i+1], out.Pix[i+2], out.Pix[i+3] = r, g, b, 255
		}
	}
	return out
}
