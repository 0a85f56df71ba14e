package edge

import "github.com/mjsolidarios/image-cad-to-svg/internal/raster"

// ForegroundThreshold is the luminance below which a pixel counts as line
// material. CAD drawings are dark strokes on a light background, so the
// foreground sense is inverted relative to the usual bright-object
// convention.
const ForegroundThreshold = 128

// Threshold produces a binary mask from a luminance buffer: pixels darker
// than limit are set (line material), the rest are unset.
func Threshold(g *raster.Gray, limit uint8) *raster.Mask {
	out := raster.NewMask(g.Width, g.Height)
	for i, v := range g.Pix {
		if v < limit {
			out.Pix[i] = 255
		}
	}
	return out
}
