package edge

import (
	"math"

	"github.com/mjsolidarios/image-cad-to-svg/internal/raster"
)

var (
	sobelX = [3][3]float32{{-1, 0, 1}, {-2, 0, 2}, {-1, 0, 1}}
	sobelY = [3][3]float32{{-1, -2, -1}, {0, 0, 0}, {1, 2, 1}}

	prewittX = [3][3]float32{{-1, 0, 1}, {-1, 0, 1}, {-1, 0, 1}}
	prewittY = [3][3]float32{{-1, -1, -1}, {0, 0, 0}, {1, 1, 1}}
)

// Sobel computes per-pixel gradient magnitude and direction with the Sobel
// operator. Boundaries are clamped.
func Sobel(g *raster.Gray) *raster.Gradient {
	return convolvePair(g, sobelX, sobelY)
}

// Prewitt computes per-pixel gradient magnitude and direction with the
// Prewitt operator.
func Prewitt(g *raster.Gray) *raster.Gradient {
	return convolvePair(g, prewittX, prewittY)
}

// Roberts computes gradient magnitude and direction with the 2x2 Roberts
// cross operator. The diagonal differences are taken toward (x+1, y+1).
func Roberts(g *raster.Gray) *raster.Gradient {
	out := raster.NewGradient(g.Width, g.Height)
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			p := float32(g.At(x, y))
			gx := p - float32(g.At(x+1, y+1))
			gy := float32(g.At(x+1, y)) - float32(g.At(x, y+1))
			i := y*g.Width + x
			out.Magnitude[i] = float32(math.Hypot(float64(gx), float64(gy)))
			out.Direction[i] = float32(math.Atan2(float64(gy), float64(gx)))
		}
	}
	return out
}

// Laplacian computes the absolute response of the 4-connected Laplacian
// kernel. The direction plane is left at zero; the Laplacian is isotropic
// and carries no orientation.
func Laplacian(g *raster.Gray) *raster.Gradient {
	out := raster.NewGradient(g.Width, g.Height)
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			sum := -4*float32(g.At(x, y)) +
				float32(g.At(x-1, y)) + float32(g.At(x+1, y)) +
				float32(g.At(x, y-1)) + float32(g.At(x, y+1))
			if sum < 0 {
				sum = -sum
			}
			out.Magnitude[y*g.Width+x] = sum
		}
	}
	return out
}

// ThresholdGradient produces a binary mask of pixels whose gradient
// magnitude is at least limit. This is the mask form of the plain
// sobel/prewitt/roberts/laplacian edge methods.
func ThresholdGradient(grad *raster.Gradient, limit float32) *raster.Mask {
	out := raster.NewMask(grad.Width, grad.Height)
	for i, m := range grad.Magnitude {
		if m >= limit {
			out.Pix[i] = 255
		}
	}
	return out
}

// convolvePair runs the two 3x3 kernels over the buffer, with clamped
// boundary sampling, and stores magnitude and direction per pixel.
func convolvePair(g *raster.Gray, kx, ky [3][3]float32) *raster.Gradient {
	out := raster.NewGradient(g.Width, g.Height)
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			var gx, gy float32
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					sx := clampInt(x+dx, 0, g.Width-1)
					sy := clampInt(y+dy, 0, g.Height-1)
					v := float32(g.Pix[sy*g.Width+sx])
					gx += v * kx[dy+1][dx+1]
					gy += v * ky[dy+1][dx+1]
				}
			}
			i := y*g.Width + x
			out.Magnitude[i] = float32(math.Hypot(float64(gx), float64(gy)))
			out.Direction[i] = float32(math.Atan2(float64(gy), float64(gx)))
		}
	}
	return out
}

func clampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
