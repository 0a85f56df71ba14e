package trace

import (
	"github.com/mjsolidarios/image-cad-to-svg/internal/geom"
	"github.com/mjsolidarios/image-cad-to-svg/internal/raster"
)

// Moore neighborhood in counterclockwise order starting east. Direction
// indices feed the backtrack arithmetic below.
var mooreDirs = [8][2]int{
	{1, 0},   // 0: E
	{1, -1},  // 1: NE
	{0, -1},  // 2: N
	{-1, -1}, // 3: NW
	{-1, 0},  // 4: W
	{-1, 1},  // 5: SW
	{0, 1},   // 6: S
	{1, 1},   // 7: SE
}

// MooreContours traces the outer boundary of every 8-connected blob in the
// mask using Moore-neighbor tracing.
//
// Blobs are found by raster scan; the first raster-scan pixel of each
// unvisited blob seeds a trace with its backtrack to the west. Each step
// scans the Moore neighborhood starting just past the backtrack direction
// and takes the first foreground pixel; the backtrack then becomes the last
// background neighbor examined. Tracing terminates on return to the start
// pixel, but only after at least 3 boundary points have been collected.
// Every traced contour is closed.
func MooreContours(mask *raster.Mask) []*Contour {
	w, h := mask.Width, mask.Height
	traced := make([]bool, w*h)
	var contours []*Contour

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !mask.At(x, y) || traced[y*w+x] {
				continue
			}
			// Only seed at boundary starts: background (or edge) to the west.
			if mask.At(x-1, y) {
				continue
			}
			pts := traceBoundary(mask, x, y, 4)
			floodMark(mask, traced, x, y)
			if len(pts) >= 3 {
				contours = append(contours, &Contour{Points: pts, Closed: true})
			}
		}
	}
	return contours
}

// traceBoundary walks the 8-connected boundary from the start pixel. The
// backtrack parameter is the direction index of the background pixel the
// scan entered from (west for outer boundaries; south for holes, whose seed
// sits directly above the hole).
//
// The step cap of 4*w*h bounds pathological masks; a boundary can visit a
// pixel at most four times (once per approach direction).
func traceBoundary(mask *raster.Mask, startX, startY, backtrack int) geom.Polyline {
	pts := geom.Polyline{{X: float64(startX), Y: float64(startY)}}
	cx, cy := startX, startY
	bt := backtrack
	maxSteps := 4*mask.Width*mask.Height + 8

	for step := 0; step < maxSteps; step++ {
		found := false
		// Scan counterclockwise, resuming just past the backtrack.
		for i := 0; i < 8; i++ {
			dir := (bt + 1 + i) % 8
			nx := cx + mooreDirs[dir][0]
			ny := cy + mooreDirs[dir][1]
			if !mask.At(nx, ny) {
				continue
			}
			// New backtrack: the direction pointing at the last background
			// neighbor scanned before this foreground one.
			prev := (dir + 7) % 8
			px := nx - (cx + mooreDirs[prev][0])
			py := ny - (cy + mooreDirs[prev][1])
			bt = dirIndex(-px, -py)
			cx, cy = nx, ny
			found = true
			break
		}
		if !found {
			break // isolated pixel
		}
		if cx == startX && cy == startY && len(pts) >= 3 {
			break
		}
		pts = append(pts, geom.Point{X: float64(cx), Y: float64(cy)})
	}
	return pts
}

// floodMark marks the whole 8-connected component containing (x, y) so a
// blob's hole boundaries do not seed fresh traces.
func floodMark(mask *raster.Mask, traced []bool, x, y int) {
	w := mask.Width
	stack := [][2]int{{x, y}}
	traced[y*w+x] = true
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, d := range mooreDirs {
			nx, ny := p[0]+d[0], p[1]+d[1]
			if !mask.At(nx, ny) || traced[ny*w+nx] {
				continue
			}
			traced[ny*w+nx] = true
			stack = append(stack, [2]int{nx, ny})
		}
	}
}

// dirIndex maps a unit offset to its mooreDirs index. Non-unit offsets
// (the backtrack pixel may be diagonal to the new current pixel) are
// clamped componentwise first.
func dirIndex(dx, dy int) int {
	if dx > 1 {
		dx = 1
	}
	if dx < -1 {
		dx = -1
	}
	if dy > 1 {
		dy = 1
	}
	if dy < -1 {
		dy = -1
	}
	for i, d := range mooreDirs {
		if d[0] == dx && d[1] == dy {
			return i
		}
	}
	return 4 // west
}
