package geom

import "math"

// DouglasPeucker reduces a polyline with the Ramer–Douglas–Peucker
// algorithm: the endpoints are always kept; the interior point farthest
// from the chord is kept, and the halves recursed, whenever that distance
// exceeds tolerance.
//
// Every removed point lies within tolerance of the simplified polyline,
// and kept points preserve their input order.
func DouglasPeucker(line Polyline, tolerance float64) Polyline {
	if len(line) < 3 {
		out := make(Polyline, len(line))
		copy(out, line)
		return out
	}

	keep := make([]bool, len(line))
	keep[0] = true
	keep[len(line)-1] = true
	dpMark(line, 0, len(line)-1, tolerance, keep)

	out := make(Polyline, 0, len(line))
	for i, k := range keep {
		if k {
			out = append(out, line[i])
		}
	}
	return out
}

// dpMark marks points to keep between the fixed indices first and last.
func dpMark(line Polyline, first, last int, tolerance float64, keep []bool) {
	if last-first < 2 {
		return
	}
	maxDist := 0.0
	index := first
	for i := first + 1; i < last; i++ {
		d := PerpendicularDistance(line[i], line[first], line[last])
		if d > maxDist {
			maxDist = d
			index = i
		}
	}
	if maxDist > tolerance {
		keep[index] = true
		dpMark(line, first, index, tolerance, keep)
		dpMark(line, index, last, tolerance, keep)
	}
}

// DouglasPeuckerRelative runs DouglasPeucker with a tolerance expressed as
// a percentage of the polyline's bounding-box diagonal.
func DouglasPeuckerRelative(line Polyline, percent float64) Polyline {
	min, max := line.Bounds()
	diagonal := min.Distance(max)
	return DouglasPeucker(line, diagonal*percent/100)
}

// Visvalingam reduces a polyline to at most target points by repeatedly
// removing the interior point whose wing triangle (previous, point, next)
// has the smallest area, recomputing the areas of its surviving neighbors
// after each removal. Endpoints are never removed.
func Visvalingam(line Polyline, target int) Polyline {
	if target < 2 {
		target = 2
	}
	if len(line) <= target {
		out := make(Polyline, len(line))
		copy(out, line)
		return out
	}

	// Doubly linked indices over the input; areas tracked per live point.
	prev := make([]int, len(line))
	next := make([]int, len(line))
	area := make([]float64, len(line))
	alive := len(line)
	for i := range line {
		prev[i] = i - 1
		next[i] = i + 1
	}
	next[len(line)-1] = -1
	recompute := func(i int) {
		if prev[i] < 0 || next[i] < 0 {
			area[i] = math.Inf(1)
			return
		}
		area[i] = triangleArea(line[prev[i]], line[i], line[next[i]])
	}
	for i := range line {
		recompute(i)
	}

	for alive > target {
		best := -1
		bestArea := math.Inf(1)
		for i := 0; i < len(line); i++ {
			if prev[i] == -2 {
				continue
			}
			if area[i] < bestArea {
				bestArea = area[i]
				best = i
			}
		}
		if best < 0 {
			break
		}
		p, n := prev[best], next[best]
		next[p] = n
		prev[n] = p
		prev[best] = -2 // tombstone
		alive--
		recompute(p)
		recompute(n)
	}

	out := make(Polyline, 0, target)
	for i := 0; i != -1; i = next[i] {
		out = append(out, line[i])
	}
	return out
}

// ReumannWitkam streams over the polyline keeping any point whose
// perpendicular distance to the running key line exceeds tolerance; the key
// line then advances through the previous point and the newly kept one.
// The final point is always kept.
func ReumannWitkam(line Polyline, tolerance float64) Polyline {
	if len(line) < 3 {
		out := make(Polyline, len(line))
		copy(out, line)
		return out
	}
	out := Polyline{line[0]}
	keyA, keyB := line[0], line[1]
	for i := 2; i < len(line); i++ {
		if lineDistance(line[i], keyA, keyB) > tolerance {
			out = append(out, line[i])
			keyA, keyB = keyB, line[i]
		}
	}
	if last := line[len(line)-1]; out[len(out)-1] != last {
		out = append(out, last)
	}
	return out
}

// lineDistance returns the distance from p to the infinite line through a
// and b. Coincident a and b degenerate to point distance.
func lineDistance(p, a, b Point) float64 {
	ab := b.Sub(a)
	length := math.Hypot(ab.X, ab.Y)
	if length == 0 {
		return p.Distance(a)
	}
	ap := p.Sub(a)
	return math.Abs(ab.X*ap.Y-ab.Y*ap.X) / length
}
