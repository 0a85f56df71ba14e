// Package preprocess implements the optional image conditioning steps that
// run before edge extraction: channel inversion, grayscale reduction,
// separable Gaussian blur, and median noise reduction.
package preprocess

import (
	"math"

	"github.com/anthonynsimon/bild/effect"
	"github.com/disintegration/imaging"

	"github.com/mjsolidarios/image-cad-to-svg/internal/raster"
)

// Invert returns a copy of img with each color channel mapped x -> 255-x.
// The alpha channel is preserved.
func Invert(img *raster.Image) *raster.Image {
	return raster.FromImage(imaging.Invert(img))
}

// Median applies a 3x3 median filter, replacing each pixel with the middle
// of its 9-sample window, the samples ranked by luminance. Whole pixels are
// picked, so the channels are not filtered independently. Used to knock out
// salt-and-pepper noise before thresholding.
func Median(img *raster.Image) *raster.Image {
	return raster.FromImage(effect.Median(img, 1))
}

// Grayscale reduces an RGBA image to 8-bit luminance using the ITU-R BT.601
// weights 0.299 R + 0.587 G + 0.114 B, rounded to the nearest integer.
//
// For a pure gray pixel (r == g == b == v) the result is exactly v.
func Grayscale(img *raster.Image) *raster.Gray {
	out := raster.NewGray(img.Width, img.Height)
	for i, j := 0, 0; j < len(out.Pix); i, j = i+4, j+1 {
		r := float64(img.Pix[i])
		g := float64(img.Pix[i+1])
		b := float64(img.Pix[i+2])
		out.Pix[j] = uint8(math.Round(0.299*r + 0.587*g + 0.114*b))
	}
	return out
}

// Kernel1D builds a normalized 1-D Gaussian kernel for the given sigma.
// The kernel half-width is ceil(3*sigma), so the returned slice has
// 2*ceil(3*sigma)+1 entries summing to 1.
//
// The same kernel numerics are shared by the blur here and by the Canny
// stage, so output differences between the two never exceed rounding.
func Kernel1D(sigma float64) []float32 {
	if sigma <= 0 {
		return []float32{1}
	}
	half := int(math.Ceil(3 * sigma))
	kernel := make([]float32, 2*half+1)
	sum := 0.0
	for i := -half; i <= half; i++ {
		v := math.Exp(-float64(i*i) / (2 * sigma * sigma))
		kernel[i+half] = float32(v)
		sum += v
	}
	inv := float32(1 / sum)
	for i := range kernel {
		kernel[i] *= inv
	}
	return kernel
}

// GaussianBlur blurs a luminance buffer with a separable Gaussian of the
// given sigma: a horizontal pass into a float32 scratch field followed by a
// vertical pass back to 8 bits. Boundaries are clamped. A sigma <= 0 returns
// a copy of the input unchanged.
func GaussianBlur(g *raster.Gray, sigma float64) *raster.Gray {
	out := raster.NewGray(g.Width, g.Height)
	if sigma <= 0 {
		copy(out.Pix, g.Pix)
		return out
	}
	kernel := Kernel1D(sigma)
	half := len(kernel) / 2

	// Horizontal pass into the scratch field.
	scratch := raster.NewField(g.Width, g.Height)
	for y := 0; y < g.Height; y++ {
		row := y * g.Width
		for x := 0; x < g.Width; x++ {
			var sum float32
			for k := -half; k <= half; k++ {
				sx := clampInt(x+k, 0, g.Width-1)
				sum += float32(g.Pix[row+sx]) * kernel[k+half]
			}
			scratch.Pix[row+x] = sum
		}
	}

	// Vertical pass back to 8 bits.
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			var sum float32
			for k := -half; k <= half; k++ {
				sy := clampInt(y+k, 0, g.Height-1)
				sum += scratch.Pix[sy*g.Width+x] * kernel[k+half]
			}
			out.Pix[y*g.Width+x] = uint8(math.Round(float64(sum)))
		}
	}
	return out
}

// clampInt constrains v to the range [min, max].
func clampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
