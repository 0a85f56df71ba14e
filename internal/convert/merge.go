package convert

import (
	"github.com/asim/quadtree"

	"github.com/mjsolidarios/image-cad-to-svg/internal/geom"
	"github.com/mjsolidarios/image-cad-to-svg/internal/vector"
)

// endpoint identifies one end of an open path inside the merge index.
type endpoint struct {
	path  int
	start bool
}

// mergeSimilarPaths joins open paths whose endpoints lie within threshold
// pixels of each other and whose colors agree, using a quadtree over
// endpoints so candidate lookup stays cheap on drawings with many strokes.
// Merging repeats until no pair qualifies; closed paths are left alone.
func mergeSimilarPaths(paths []*vector.Path, threshold float64) []*vector.Path {
	if threshold <= 0 {
		threshold = 3
	}

	for {
		merged := mergeOnePair(paths, threshold)
		if merged == nil {
			return paths
		}
		paths = merged
	}
}

// mergeOnePair performs a single merge and returns the updated slice, or
// nil when no two paths qualify.
func mergeOnePair(paths []*vector.Path, threshold float64) []*vector.Path {
	tree, ok := buildEndpointTree(paths)
	if !ok {
		return nil
	}

	half := quadtree.NewPoint(threshold, threshold, nil)
	for i, p := range paths {
		if p.Closed || len(p.Points) < 2 {
			continue
		}
		for _, fromStart := range []bool{false, true} {
			pt := p.Points[len(p.Points)-1]
			if fromStart {
				pt = p.Points[0]
			}
			center := quadtree.NewPoint(pt.X, pt.Y, nil)
			for _, found := range tree.Search(quadtree.NewAABB(center, half)) {
				other := found.Data().(endpoint)
				if other.path == i {
					continue
				}
				q := paths[other.path]
				if q.Closed || q.Color != p.Color {
					continue
				}
				ox, oy := found.Coordinates()
				if pt.Distance(geom.Point{X: ox, Y: oy}) > threshold {
					continue
				}
				return spliceAt(paths, i, fromStart, other)
			}
		}
	}
	return nil
}

// buildEndpointTree indexes every open path's two endpoints. Returns false
// when there is nothing to index.
func buildEndpointTree(paths []*vector.Path) (*quadtree.QuadTree, bool) {
	minX, minY := 0.0, 0.0
	maxX, maxY := 1.0, 1.0
	any := false
	for _, p := range paths {
		if p.Closed || len(p.Points) < 2 {
			continue
		}
		any = true
		for _, pt := range []geom.Point{p.Points[0], p.Points[len(p.Points)-1]} {
			if pt.X < minX {
				minX = pt.X
			}
			if pt.Y < minY {
				minY = pt.Y
			}
			if pt.X > maxX {
				maxX = pt.X
			}
			if pt.Y > maxY {
				maxY = pt.Y
			}
		}
	}
	if !any {
		return nil, false
	}

	center := quadtree.NewPoint((minX+maxX)/2, (minY+maxY)/2, nil)
	halfSize := quadtree.NewPoint((maxX-minX)/2+10, (maxY-minY)/2+10, nil)
	tree := quadtree.New(quadtree.NewAABB(center, halfSize), 0, nil)

	for i, p := range paths {
		if p.Closed || len(p.Points) < 2 {
			continue
		}
		first := p.Points[0]
		last := p.Points[len(p.Points)-1]
		tree.Insert(quadtree.NewPoint(first.X, first.Y, endpoint{path: i, start: true}))
		tree.Insert(quadtree.NewPoint(last.X, last.Y, endpoint{path: i, start: false}))
	}
	return tree, true
}

// spliceAt joins path i (at its start or end) onto the other endpoint's
// path, orienting both so the matched endpoints meet in the middle.
func spliceAt(paths []*vector.Path, i int, fromStart bool, other endpoint) []*vector.Path {
	p, q := paths[i], paths[other.path]

	a := append(geom.Polyline(nil), p.Points...)
	if fromStart {
		reverse(a)
	}
	b := append(geom.Polyline(nil), q.Points...)
	if !other.start {
		reverse(b)
	}

	p.Points = append(a, b...)
	out := paths[:0]
	for j, path := range paths {
		if j != other.path {
			out = append(out, path)
		}
	}
	return out
}

func reverse(pts geom.Polyline) {
	for i, j := 0, len(pts)-1; i < j; i, j = i+1, j-1 {
		pts[i], pts[j] = pts[j], pts[i]
	}
}
