// Package palette detects a drawing's background color and its small set of
// line colors, and snaps sampled colors onto that palette.
//
// CAD drawings carry a handful of semantically distinct stroke colors on a
// roughly uniform background. Detection therefore histograms quantized
// colors rather than clustering the full color space; k-means and median-cut
// quantization are available for drawings that need them.
package palette

import (
	"fmt"
	"sort"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/mjsolidarios/image-cad-to-svg/internal/geom"
	"github.com/mjsolidarios/image-cad-to-svg/internal/raster"
)

// Color is an 8-bit RGBA color value.
type Color struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
	A uint8 `json:"a"`
}

// Black is the fallback line color when no palette entry qualifies.
var Black = Color{A: 255}

// Hex returns the color as "#RRGGBB". Alpha is excluded.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// Distance returns the Euclidean RGB distance between two colors on the
// 0-255 scale.
func (c Color) Distance(other Color) float64 {
	a := colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
	b := colorful.Color{R: float64(other.R) / 255, G: float64(other.G) / 255, B: float64(other.B) / 255}
	return a.DistanceRgb(b) * 255
}

// Luminance returns the BT.601 luminance of the color.
func (c Color) Luminance() float64 {
	return 0.299*float64(c.R) + 0.587*float64(c.G) + 0.114*float64(c.B)
}

// DetectBackground returns the dominant border color: the colors of the top
// and bottom rows and left and right columns are binned by 16-wide channel
// quantization, and the center of the most common bin with alpha >= 128 is
// returned.
func DetectBackground(img *raster.Image) Color {
	type bin struct {
		key   [3]uint8
		count int
		first int
	}
	counts := map[[3]uint8]*bin{}
	order := 0

	add := func(x, y int) {
		r, g, b, a := img.RGBA(x, y)
		if a < 128 {
			return
		}
		key := [3]uint8{r / 16, g / 16, b / 16}
		if e, ok := counts[key]; ok {
			e.count++
		} else {
			counts[key] = &bin{key: key, count: 1, first: order}
		}
		order++
	}

	for x := 0; x < img.Width; x++ {
		add(x, 0)
		add(x, img.Height-1)
	}
	for y := 0; y < img.Height; y++ {
		add(0, y)
		add(img.Width-1, y)
	}

	best := (*bin)(nil)
	for _, e := range counts {
		if best == nil || e.count > best.count || (e.count == best.count && e.first < best.first) {
			best = e
		}
	}
	if best == nil {
		return Color{R: 255, G: 255, B: 255, A: 255}
	}
	return Color{
		R: best.key[0]*16 + 8,
		G: best.key[1]*16 + 8,
		B: best.key[2]*16 + 8,
		A: 255,
	}
}

// Extract scans the image for candidate line colors: opaque pixels far
// enough from the background (and not near-white on a light background) are
// binned by 8-wide channel quantization; bins holding more than minPercent
// of the image's pixels are kept, sorted by count, and capped at maxColors.
// With ignoreBackground false, background-colored pixels participate too.
// When nothing qualifies the palette falls back to pure black.
func Extract(img *raster.Image, background Color, maxColors int, minPercent float64, ignoreBackground bool) []Color {
	if maxColors <= 0 {
		maxColors = 10
	}
	if minPercent <= 0 {
		minPercent = 0.1
	}
	lightBackground := background.Luminance() >= 128

	type bin struct {
		sumR, sumG, sumB int
		count            int
		first            int
	}
	counts := map[[3]uint8]*bin{}
	order := 0
	total := img.Width * img.Height

	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			r, g, b, a := img.RGBA(x, y)
			if a < 128 {
				continue
			}
			c := Color{R: r, G: g, B: b, A: a}
			if ignoreBackground {
				if c.Distance(background) <= 30 {
					continue
				}
				if lightBackground && r > 240 && g > 240 && b > 240 {
					continue
				}
			}
			key := [3]uint8{r / 8, g / 8, b / 8}
			e, ok := counts[key]
			if !ok {
				e = &bin{first: order}
				counts[key] = e
			}
			e.sumR += int(r)
			e.sumG += int(g)
			e.sumB += int(b)
			e.count++
			order++
		}
	}

	bins := make([]*bin, 0, len(counts))
	for _, e := range counts {
		if float64(e.count)/float64(total)*100 > minPercent {
			bins = append(bins, e)
		}
	}
	sort.Slice(bins, func(i, j int) bool {
		if bins[i].count != bins[j].count {
			return bins[i].count > bins[j].count
		}
		return bins[i].first < bins[j].first
	})
	if len(bins) > maxColors {
		bins = bins[:maxColors]
	}

	out := make([]Color, 0, len(bins))
	for _, e := range bins {
		out = append(out, Color{
			R: uint8(e.sumR / e.count),
			G: uint8(e.sumG / e.count),
			B: uint8(e.sumB / e.count),
			A: 255,
		})
	}
	if len(out) == 0 {
		out = append(out, Black)
	}
	return out
}

// Nearest snaps c to the closest palette entry by RGB distance. An empty
// palette returns black.
func Nearest(c Color, entries []Color) Color {
	if len(entries) == 0 {
		return Black
	}
	best := entries[0]
	bestDist := c.Distance(best)
	for _, e := range entries[1:] {
		if d := c.Distance(e); d < bestDist {
			best = e
			bestDist = d
		}
	}
	return best
}

// SampleLine averages the image colors at up to maxSamples evenly spaced
// points along the polyline. Transparent samples are skipped.
func SampleLine(img *raster.Image, line geom.Polyline, maxSamples int) Color {
	if len(line) == 0 {
		return Black
	}
	if maxSamples <= 0 {
		maxSamples = 10
	}
	step := 1
	if len(line) > maxSamples {
		step = (len(line) + maxSamples - 1) / maxSamples
	}

	var sumR, sumG, sumB, n int
	for i := 0; i < len(line); i += step {
		x := int(line[i].X + 0.5)
		y := int(line[i].Y + 0.5)
		r, g, b, a := img.RGBA(x, y)
		if a < 128 {
			continue
		}
		sumR += int(r)
		sumG += int(g)
		sumB += int(b)
		n++
	}
	if n == 0 {
		return Black
	}
	return Color{R: uint8(sumR / n), G: uint8(sumG / n), B: uint8(sumB / n), A: 255}
}
