package trace

import (
	"github.com/mjsolidarios/image-cad-to-svg/internal/geom"
	"github.com/mjsolidarios/image-cad-to-svg/internal/raster"
)

// Walk order for choosing the next chain pixel. Fixed so traces are
// deterministic regardless of input order.
var chainDirs = [8][2]int{
	{0, -1},  // N
	{1, -1},  // NE
	{1, 0},   // E
	{1, 1},   // SE
	{0, 1},   // S
	{-1, 1},  // SW
	{-1, 0},  // W
	{-1, -1}, // NW
}

// EdgeChains traces a thinned mask into polylines by walking along the
// skeleton.
//
// Pass 1 starts a walk at every endpoint (a foreground pixel with exactly
// one foreground 8-neighbor) and follows unvisited neighbors in a fixed
// direction order until the line runs out. Pass 2 sweeps up the remaining
// unvisited foreground pixels, which belong to closed loops without
// endpoints, and walks them the same way.
//
// Chains shorter than 3 pixels are discarded. A chain is marked closed only
// when its walk rejoined the start pixel; everything else is an open
// polyline.
func EdgeChains(mask *raster.Mask) []*Contour {
	w, h := mask.Width, mask.Height
	visited := make([]bool, w*h)
	var contours []*Contour

	emit := func(chain geom.Polyline, closed bool) {
		if len(chain) < 3 {
			return
		}
		contours = append(contours, &Contour{Points: chain, Closed: closed})
	}

	// Pass 1: open lines, walked from their endpoints.
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !mask.At(x, y) || visited[y*w+x] {
				continue
			}
			if countNeighbors(mask, x, y) != 1 {
				continue
			}
			chain, closed := walkChain(mask, visited, x, y)
			emit(chain, closed)
		}
	}

	// Pass 2: closed loops have no endpoints; start anywhere on them.
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !mask.At(x, y) || visited[y*w+x] {
				continue
			}
			chain, closed := walkChain(mask, visited, x, y)
			emit(chain, closed)
		}
	}

	return contours
}

// walkChain follows unvisited foreground neighbors from (x, y) until none
// remain, capped at w*h steps. It reports whether the walk came back around
// to its starting pixel.
func walkChain(mask *raster.Mask, visited []bool, x, y int) (geom.Polyline, bool) {
	w := mask.Width
	chain := geom.Polyline{{X: float64(x), Y: float64(y)}}
	visited[y*w+x] = true
	startX, startY := x, y
	cx, cy := x, y

	for steps := 0; steps < mask.Width*mask.Height; steps++ {
		nx, ny, ok := nextUnvisited(mask, visited, cx, cy)
		if !ok {
			break
		}
		visited[ny*w+nx] = true
		chain = append(chain, geom.Point{X: float64(nx), Y: float64(ny)})
		cx, cy = nx, ny
	}

	closed := len(chain) >= 3 && adjacent(cx, cy, startX, startY)
	return chain, closed
}

// nextUnvisited returns the first unvisited foreground 8-neighbor of (x, y)
// in the fixed direction order.
func nextUnvisited(mask *raster.Mask, visited []bool, x, y int) (int, int, bool) {
	for _, d := range chainDirs {
		nx, ny := x+d[0], y+d[1]
		if nx < 0 || ny < 0 || nx >= mask.Width || ny >= mask.Height {
			continue
		}
		if mask.At(nx, ny) && !visited[ny*mask.Width+nx] {
			return nx, ny, true
		}
	}
	return 0, 0, false
}

// countNeighbors returns the number of set 8-neighbors of (x, y).
func countNeighbors(mask *raster.Mask, x, y int) int {
	n := 0
	for _, d := range chainDirs {
		if mask.At(x+d[0], y+d[1]) {
			n++
		}
	}
	return n
}

// adjacent reports whether two pixels are 8-adjacent (and distinct).
func adjacent(x1, y1, x2, y2 int) bool {
	dx, dy := x1-x2, y1-y2
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	return dx <= 1 && dy <= 1 && (dx|dy) != 0
}
