package edge

import (
	"math"

	"github.com/mjsolidarios/image-cad-to-svg/internal/preprocess"
	"github.com/mjsolidarios/image-cad-to-svg/internal/raster"
)

// Pixel classes used during dual thresholding. Weak pixels survive only if
// hysteresis connects them to a strong pixel.
const (
	cannyStrong = 255
	cannyWeak   = 50
)

// Canny runs the full Canny edge detector over a luminance buffer:
//
//  1. Gaussian blur at sigma (shared kernel numerics with preprocess).
//  2. Sobel gradients: magnitude and direction.
//  3. Non-maximum suppression along the quantized gradient direction.
//  4. Dual threshold into strong/weak/discarded.
//  5. Hysteresis: weak pixels 8-adjacent to a strong pixel are promoted,
//     iteratively, until stable; the rest are dropped.
//
// The returned mask holds 255 for edge pixels and 0 elsewhere.
func Canny(g *raster.Gray, sigma float64, low, high float32) *raster.Mask {
	blurred := preprocess.GaussianBlur(g, sigma)
	grad := Sobel(blurred)
	suppressed := suppressNonMax(grad)
	return hysteresis(dualThreshold(suppressed, grad.Width, grad.Height, low, high))
}

// suppressNonMax keeps a pixel's gradient magnitude only when it is a local
// maximum along its gradient direction. The direction is quantized into four
// sectors: horizontal, /-diagonal, vertical, and \-diagonal.
func suppressNonMax(grad *raster.Gradient) []float32 {
	w, h := grad.Width, grad.Height
	out := make([]float32, w*h)
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			i := y*w + x
			mag := grad.Magnitude[i]
			if mag == 0 {
				continue
			}
			angle := float64(grad.Direction[i])

			var n1, n2 float32
			switch {
			case (angle >= -math.Pi/8 && angle < math.Pi/8) || angle >= 7*math.Pi/8 || angle < -7*math.Pi/8:
				n1 = grad.Magnitude[i-1]
				n2 = grad.Magnitude[i+1]
			case (angle >= math.Pi/8 && angle < 3*math.Pi/8) || (angle >= -7*math.Pi/8 && angle < -5*math.Pi/8):
				n1 = grad.Magnitude[i-w-1]
				n2 = grad.Magnitude[i+w+1]
			case (angle >= 3*math.Pi/8 && angle < 5*math.Pi/8) || (angle >= -5*math.Pi/8 && angle < -3*math.Pi/8):
				n1 = grad.Magnitude[i-w]
				n2 = grad.Magnitude[i+w]
			default:
				n1 = grad.Magnitude[i-w+1]
				n2 = grad.Magnitude[i+w-1]
			}

			if mag >= n1 && mag >= n2 {
				out[i] = mag
			}
		}
	}
	return out
}

// dualThreshold maps suppressed magnitudes into a tri-state mask:
// >= high becomes strong, >= low becomes weak, the rest zero.
func dualThreshold(suppressed []float32, w, h int, low, high float32) *raster.Mask {
	out := raster.NewMask(w, h)
	for i, v := range suppressed {
		switch {
		case v >= high:
			out.Pix[i] = cannyStrong
		case v >= low:
			out.Pix[i] = cannyWeak
		}
	}
	return out
}

// hysteresis promotes weak pixels that touch a strong pixel (8-connectivity)
// until no more promotions happen, then clears the remaining weak pixels.
// The mask is modified in place and returned.
func hysteresis(mask *raster.Mask) *raster.Mask {
	w, h := mask.Width, mask.Height
	for {
		promoted := false
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				if mask.Pix[y*w+x] != cannyWeak {
					continue
				}
				for dy := -1; dy <= 1 && mask.Pix[y*w+x] == cannyWeak; dy++ {
					for dx := -1; dx <= 1; dx++ {
						nx, ny := x+dx, y+dy
						if nx < 0 || ny < 0 || nx >= w || ny >= h {
							continue
						}
						if mask.Pix[ny*w+nx] == cannyStrong {
							mask.Pix[y*w+x] = cannyStrong
							promoted = true
							break
						}
					}
				}
			}
		}
		if !promoted {
			break
		}
	}
	for i, v := range mask.Pix {
		if v == cannyWeak {
			mask.Pix[i] = 0
		}
	}
	return mask
}
