package trace

import "github.com/mjsolidarios/image-cad-to-svg/internal/raster"

// Hierarchy maps a contour label to the label of its parent contour.
// Top-level outer contours map to zero.
type Hierarchy map[int]int

// SuzukiContours traces outer and inner (hole) boundaries in the style of
// Suzuki–Abe border following, labeling regions and recording the
// child -> parent hierarchy.
//
// Outer boundaries are seeded at each blob's first raster-scan pixel, whose
// left neighbor is background, and traced with the Moore walk. Hole
// boundaries are seeded at the foreground pixel directly above each hole's
// first raster-scan pixel (a labeled pixel whose below neighbor is
// background) and traced the same way with the backtrack pointing into the
// hole. Every traced contour is closed; hole contours carry Hole=true and a
// hierarchy entry pointing at their enclosing blob's label.
func SuzukiContours(mask *raster.Mask) ([]*Contour, Hierarchy) {
	w, h := mask.Width, mask.Height
	labels := make([]int, w*h)
	hierarchy := Hierarchy{}
	var contours []*Contour
	nextLabel := 1

	// Outer boundaries, one per 8-connected blob.
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !mask.At(x, y) || labels[y*w+x] != 0 || mask.At(x-1, y) {
				continue
			}
			label := nextLabel
			nextLabel++
			pts := traceBoundary(mask, x, y, 4)
			floodLabel(mask, labels, x, y, label)
			hierarchy[label] = 0
			if len(pts) >= 3 {
				contours = append(contours, &Contour{Points: pts, Closed: true, Label: label})
			}
		}
	}

	// Hole boundaries: background components not reachable from the image
	// border are holes; each seeds one inner trace.
	outside := exteriorBackground(mask)
	holeSeen := make([]bool, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			if mask.At(x, y) || outside[i] || holeSeen[i] {
				continue
			}
			markHole(mask, outside, holeSeen, x, y)
			// The pixel above the hole's first raster-scan pixel is a
			// labeled foreground pixel whose below neighbor is background.
			sx, sy := x, y-1
			if sy < 0 || !mask.At(sx, sy) {
				continue
			}
			parent := labels[sy*w+sx]
			label := nextLabel
			nextLabel++
			pts := traceBoundary(mask, sx, sy, 6) // backtrack south, into the hole
			hierarchy[label] = parent
			if len(pts) >= 3 {
				contours = append(contours, &Contour{Points: pts, Closed: true, Hole: true, Label: label})
			}
		}
	}
	return contours, hierarchy
}

// floodLabel assigns a label to the whole 8-connected foreground component
// containing (x, y).
func floodLabel(mask *raster.Mask, labels []int, x, y, label int) {
	w := mask.Width
	stack := [][2]int{{x, y}}
	labels[y*w+x] = label
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, d := range mooreDirs {
			nx, ny := p[0]+d[0], p[1]+d[1]
			if !mask.At(nx, ny) {
				continue
			}
			if labels[ny*w+nx] != 0 {
				continue
			}
			labels[ny*w+nx] = label
			stack = append(stack, [2]int{nx, ny})
		}
	}
}

// exteriorBackground flood-fills the background from the image border
// (4-connectivity) and reports which background pixels are outside every
// blob. The remaining background pixels are holes.
func exteriorBackground(mask *raster.Mask) []bool {
	w, h := mask.Width, mask.Height
	outside := make([]bool, w*h)
	var stack [][2]int
	push := func(x, y int) {
		if x < 0 || y < 0 || x >= w || y >= h {
			return
		}
		i := y*w + x
		if outside[i] || mask.Pix[i] > 0 {
			return
		}
		outside[i] = true
		stack = append(stack, [2]int{x, y})
	}
	for x := 0; x < w; x++ {
		push(x, 0)
		push(x, h-1)
	}
	for y := 0; y < h; y++ {
		push(0, y)
		push(w-1, y)
	}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		push(p[0]+1, p[1])
		push(p[0]-1, p[1])
		push(p[0], p[1]+1)
		push(p[0], p[1]-1)
	}
	return outside
}

// markHole marks one 4-connected hole component as seen.
func markHole(mask *raster.Mask, outside, seen []bool, x, y int) {
	w, h := mask.Width, mask.Height
	stack := [][2]int{{x, y}}
	seen[y*w+x] = true
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, d := range [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
			nx, ny := p[0]+d[0], p[1]+d[1]
			if nx < 0 || ny < 0 || nx >= w || ny >= h {
				continue
			}
			i := ny*w + nx
			if seen[i] || outside[i] || mask.Pix[i] > 0 {
				continue
			}
			seen[i] = true
			stack = append(stack, [2]int{nx, ny})
		}
	}
}
