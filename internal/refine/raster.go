// Package refine measures how well a polyline set reconstructs the
// reference binary mask and iteratively improves it: spurious paths are
// dropped, points snap to nearby reference pixels, over-simplified paths are
// re-simplified at a finer tolerance, and unmatched reference clusters are
// re-traced into new paths.
package refine

import (
	"math"

	"github.com/mjsolidarios/image-cad-to-svg/internal/raster"
	"github.com/mjsolidarios/image-cad-to-svg/internal/vector"
)

// Rasterize renders a path set back into a binary mask by marking Bresenham
// lines between consecutive points, closing the loop for closed paths.
func Rasterize(paths []*vector.Path, width, height int) *raster.Mask {
	mask := raster.NewMask(width, height)
	for _, p := range paths {
		n := len(p.Points)
		if n == 0 {
			continue
		}
		if n == 1 {
			mask.Set(int(math.Round(p.Points[0].X)), int(math.Round(p.Points[0].Y)), true)
			continue
		}
		for i := 1; i < n; i++ {
			drawLine(mask, p.Points[i-1].X, p.Points[i-1].Y, p.Points[i].X, p.Points[i].Y)
		}
		if p.Closed {
			drawLine(mask, p.Points[n-1].X, p.Points[n-1].Y, p.Points[0].X, p.Points[0].Y)
		}
	}
	return mask
}

// drawLine marks the Bresenham line between the rounded endpoints.
func drawLine(mask *raster.Mask, fx0, fy0, fx1, fy1 float64) {
	x0 := int(math.Round(fx0))
	y0 := int(math.Round(fy0))
	x1 := int(math.Round(fx1))
	y1 := int(math.Round(fy1))

	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	for {
		mask.Set(x0, y0, true)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
