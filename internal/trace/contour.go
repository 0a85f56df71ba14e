package trace

import "github.com/mjsolidarios/image-cad-to-svg/internal/geom"

// Contour is an ordered point sequence produced by a tracer.
type Contour struct {
	// Points is the traced polyline in walk order.
	Points geom.Polyline

	// Closed marks the first and last points as adjacent.
	Closed bool

	// Hole marks an inner (hole) boundary. Only the Suzuki–Abe tracer
	// distinguishes holes.
	Hole bool

	// Label is the region label assigned by Suzuki–Abe tracing, zero for
	// other modes.
	Label int
}

// Area returns the contour's absolute shoelace area.
func (c *Contour) Area() float64 { return c.Points.Area() }

// Perimeter returns the sum of segment lengths, including the closing
// segment for closed contours.
func (c *Contour) Perimeter() float64 {
	p := c.Points.Length()
	if c.Closed && len(c.Points) > 2 {
		p += c.Points[len(c.Points)-1].Distance(c.Points[0])
	}
	return p
}

// Bounds returns the contour's axis-aligned bounding box.
func (c *Contour) Bounds() (min, max geom.Point) { return c.Points.Bounds() }

// FilterByArea drops contours whose shoelace area falls outside
// [minArea, maxArea]. A maxArea <= 0 means unbounded above. Open polylines
// have near-zero shoelace area, so they are judged by the larger of their
// bounding-box area and length instead; a straight stroke is never filtered
// out as degenerate.
func FilterByArea(contours []*Contour, minArea, maxArea float64) []*Contour {
	out := contours[:0:0]
	for _, c := range contours {
		area := c.Area()
		if !c.Closed {
			min, max := c.Bounds()
			boxArea := (max.X - min.X) * (max.Y - min.Y)
			if boxArea > area {
				area = boxArea
			}
			if l := c.Points.Length(); l > area {
				area = l
			}
		}
		if area < minArea {
			continue
		}
		if maxArea > 0 && area > maxArea {
			continue
		}
		out = append(out, c)
	}
	return out
}
