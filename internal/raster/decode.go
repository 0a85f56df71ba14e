package raster

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"  // Register BMP format decoder
	_ "golang.org/x/image/tiff" // Register TIFF format decoder
)

// ErrInvalidDimensions is returned when an image's width or height is not
// strictly positive.
var ErrInvalidDimensions = errors.New("width and height must be positive")

// ErrBufferSize is returned when a raw pixel buffer's length does not equal
// 4 * width * height.
var ErrBufferSize = errors.New("pixel buffer length does not match dimensions")

// FromBuffer wraps a raw row-major RGBA byte buffer as an Image.
//
// The buffer is used directly, not copied; the caller must not mutate it
// afterwards. Returns ErrInvalidDimensions or ErrBufferSize on malformed
// input.
func FromBuffer(width, height int, pix []uint8) (*Image, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	if len(pix) != width*height*4 {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrBufferSize, len(pix), width*height*4)
	}
	return &Image{Width: width, Height: height, Pix: pix}, nil
}

// FromImage converts any image.Image into a raster Image.
//
// The source is normalized to NRGBA first so that 16-bit and YCbCr inputs
// land on the same 8-bit representation the pipeline expects.
func FromImage(src image.Image) *Image {
	nrgba := imaging.Clone(src)
	b := nrgba.Bounds()
	out := NewImage(b.Dx(), b.Dy())
	for y := 0; y < out.Height; y++ {
		si := nrgba.PixOffset(b.Min.X, b.Min.Y+y)
		di := y * out.Width * 4
		copy(out.Pix[di:di+out.Width*4], nrgba.Pix[si:si+out.Width*4])
	}
	return out
}

// DecodeBytes decodes raw image file bytes (PNG, JPEG, GIF, BMP, or TIFF)
// into an Image and reports the detected format tag.
//
// Returns an error wrapping the decoder failure when the bytes are not a
// recognized image format, and ErrInvalidDimensions for degenerate images.
func DecodeBytes(data []byte) (*Image, string, error) {
	src, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}
	b := src.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, format, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, b.Dx(), b.Dy())
	}
	return FromImage(src), format, nil
}
