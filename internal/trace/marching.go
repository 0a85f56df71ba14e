package trace

import (
	"fmt"
	"math"

	"github.com/mjsolidarios/image-cad-to-svg/internal/geom"
	"github.com/mjsolidarios/image-cad-to-svg/internal/raster"
)

// Cell edges, numbered for the segment table and dedup keys.
const (
	edgeTop = iota
	edgeRight
	edgeBottom
	edgeLeft
)

// marchingTable maps the 4-bit corner classification (TL=1, TR=2, BR=4,
// BL=8; a bit is set when the corner is line material) to the cell edges
// each contour segment crosses. The two saddle cases 5 and 10 emit both
// diagonals so no contour segment is lost.
var marchingTable = [16][][2]int{
	0:  nil,
	1:  {{edgeLeft, edgeTop}},
	2:  {{edgeTop, edgeRight}},
	3:  {{edgeLeft, edgeRight}},
	4:  {{edgeRight, edgeBottom}},
	5:  {{edgeLeft, edgeTop}, {edgeRight, edgeBottom}},
	6:  {{edgeTop, edgeBottom}},
	7:  {{edgeLeft, edgeBottom}},
	8:  {{edgeBottom, edgeLeft}},
	9:  {{edgeTop, edgeBottom}},
	10: {{edgeTop, edgeRight}, {edgeBottom, edgeLeft}},
	11: {{edgeRight, edgeBottom}},
	12: {{edgeLeft, edgeRight}},
	13: {{edgeTop, edgeRight}},
	14: {{edgeLeft, edgeTop}},
	15: nil,
}

// marchSegment is one sub-pixel contour segment crossing a cell.
type marchSegment struct {
	a, b geom.Point
}

// MarchingSquares extracts sub-pixel iso-contours from a luminance buffer.
//
// Each 2x2 cell's corners are classified against the threshold (a corner is
// inside when its luminance is below the threshold, matching the dark-line
// foreground convention), the 16-case table yields the crossed edges, and
// each crossing is located by linear interpolation of the corner values.
// Segments are deduplicated by (cellX, cellY, minEdge, maxEdge) and linked
// across shared endpoints into closed polylines.
func MarchingSquares(g *raster.Gray, threshold float64) []*Contour {
	var segments []marchSegment
	seen := map[string]struct{}{}

	for y := 0; y < g.Height-1; y++ {
		for x := 0; x < g.Width-1; x++ {
			tl := float64(g.Pix[y*g.Width+x])
			tr := float64(g.Pix[y*g.Width+x+1])
			br := float64(g.Pix[(y+1)*g.Width+x+1])
			bl := float64(g.Pix[(y+1)*g.Width+x])

			index := 0
			if tl < threshold {
				index |= 1
			}
			if tr < threshold {
				index |= 2
			}
			if br < threshold {
				index |= 4
			}
			if bl < threshold {
				index |= 8
			}

			for _, pair := range marchingTable[index] {
				e0, e1 := pair[0], pair[1]
				minEdge, maxEdge := e0, e1
				if minEdge > maxEdge {
					minEdge, maxEdge = maxEdge, minEdge
				}
				key := fmt.Sprintf("%d:%d:%d:%d", x, y, minEdge, maxEdge)
				if _, dup := seen[key]; dup {
					continue
				}
				seen[key] = struct{}{}
				segments = append(segments, marchSegment{
					a: edgeCrossing(e0, x, y, tl, tr, br, bl, threshold),
					b: edgeCrossing(e1, x, y, tl, tr, br, bl, threshold),
				})
			}
		}
	}

	return linkSegments(segments)
}

// edgeCrossing interpolates where the iso-line at the threshold crosses a
// cell edge.
func edgeCrossing(edge, cx, cy int, tl, tr, br, bl, threshold float64) geom.Point {
	x, y := float64(cx), float64(cy)
	switch edge {
	case edgeTop:
		return geom.Point{X: x + interpolate(tl, tr, threshold), Y: y}
	case edgeRight:
		return geom.Point{X: x + 1, Y: y + interpolate(tr, br, threshold)}
	case edgeBottom:
		return geom.Point{X: x + interpolate(bl, br, threshold), Y: y + 1}
	default: // edgeLeft
		return geom.Point{X: x, Y: y + interpolate(tl, bl, threshold)}
	}
}

// interpolate returns the fraction along [v0, v1] where the threshold is
// crossed, clamped to [0, 1]. Equal corner values put the crossing at the
// midpoint.
func interpolate(v0, v1, threshold float64) float64 {
	if v0 == v1 {
		return 0.5
	}
	t := (threshold - v0) / (v1 - v0)
	return math.Max(0, math.Min(1, t))
}

// linkSegments chains segments that share endpoints into closed polylines.
func linkSegments(segments []marchSegment) []*Contour {
	key := func(p geom.Point) [2]int64 {
		// Quantize to 1/1024 pixel so interpolated endpoints match exactly.
		return [2]int64{int64(math.Round(p.X * 1024)), int64(math.Round(p.Y * 1024))}
	}

	adj := map[[2]int64][]int{}
	for i, s := range segments {
		adj[key(s.a)] = append(adj[key(s.a)], i)
		adj[key(s.b)] = append(adj[key(s.b)], i)
	}

	used := make([]bool, len(segments))
	var contours []*Contour

	for i := range segments {
		if used[i] {
			continue
		}
		used[i] = true
		pts := geom.Polyline{segments[i].a, segments[i].b}
		cur := segments[i].b

		for {
			k := key(cur)
			nextIdx := -1
			for _, j := range adj[k] {
				if !used[j] {
					nextIdx = j
					break
				}
			}
			if nextIdx < 0 {
				break
			}
			used[nextIdx] = true
			s := segments[nextIdx]
			if key(s.a) == k {
				cur = s.b
			} else {
				cur = s.a
			}
			if key(cur) == key(pts[0]) {
				break // loop closed; do not duplicate the first point
			}
			pts = append(pts, cur)
		}

		if len(pts) >= 3 {
			contours = append(contours, &Contour{Points: pts, Closed: true})
		}
	}
	return contours
}
