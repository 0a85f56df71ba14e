package edge

import "github.com/mjsolidarios/image-cad-to-svg/internal/raster"

// Close applies a morphological close (dilate then erode, 8-connectivity)
// the given number of iterations. A close bridges one-pixel gaps left by
// thinning or weak hysteresis without thickening strokes permanently.
func Close(mask *raster.Mask, iterations int) *raster.Mask {
	out := mask
	for i := 0; i < iterations; i++ {
		out = erode(dilate(out))
	}
	if out == mask {
		out = mask.Clone()
	}
	return out
}

// dilate sets every cell with at least one set 8-neighbor.
func dilate(mask *raster.Mask) *raster.Mask {
	out := raster.NewMask(mask.Width, mask.Height)
	for y := 0; y < mask.Height; y++ {
		for x := 0; x < mask.Width; x++ {
			if anyNeighbor(mask, x, y) {
				out.Pix[y*mask.Width+x] = 255
			}
		}
	}
	return out
}

// erode clears every cell with at least one unset 8-neighbor.
func erode(mask *raster.Mask) *raster.Mask {
	out := raster.NewMask(mask.Width, mask.Height)
	for y := 0; y < mask.Height; y++ {
		for x := 0; x < mask.Width; x++ {
			if allNeighbors(mask, x, y) {
				out.Pix[y*mask.Width+x] = 255
			}
		}
	}
	return out
}

func anyNeighbor(mask *raster.Mask, x, y int) bool {
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if mask.At(x+dx, y+dy) {
				return true
			}
		}
	}
	return false
}

func allNeighbors(mask *raster.Mask, x, y int) bool {
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if !mask.At(x+dx, y+dy) {
				return false
			}
		}
	}
	return true
}
