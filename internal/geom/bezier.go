package geom

import "math"

// CubicBezier is a cubic Bézier segment with endpoints P0, P3 and control
// points P1, P2.
type CubicBezier struct {
	P0, P1, P2, P3 Point
}

// Eval returns the curve point at parameter t in [0, 1].
func (c CubicBezier) Eval(t float64) Point {
	u := 1 - t
	b0 := u * u * u
	b1 := 3 * u * u * t
	b2 := 3 * u * t * t
	b3 := t * t * t
	return Point{
		X: b0*c.P0.X + b1*c.P1.X + b2*c.P2.X + b3*c.P3.X,
		Y: b0*c.P0.Y + b1*c.P1.Y + b2*c.P2.Y + b3*c.P3.Y,
	}
}

// FitBeziers fits a sequence of cubic Bézier segments to a polyline using
// Schneider's algorithm: parameterize by chord length, solve the 2x2 normal
// system for the tangent-aligned control distances, and subdivide at the
// point of maximum error when it exceeds maxError.
func FitBeziers(line Polyline, maxError float64) []CubicBezier {
	if len(line) < 2 {
		return nil
	}
	leftTangent := normalize(line[1].Sub(line[0]))
	rightTangent := normalize(line[len(line)-2].Sub(line[len(line)-1]))
	return fitCubic(line, leftTangent, rightTangent, maxError)
}

func fitCubic(pts Polyline, tHat1, tHat2 Point, maxError float64) []CubicBezier {
	if len(pts) == 2 {
		// Heuristic: place controls at one third of the endpoint distance.
		dist := pts[0].Distance(pts[1]) / 3
		return []CubicBezier{{
			P0: pts[0],
			P1: pts[0].Add(tHat1.Scale(dist)),
			P2: pts[1].Add(tHat2.Scale(dist)),
			P3: pts[1],
		}}
	}

	u := chordLengthParameterize(pts)
	bez := generateBezier(pts, u, tHat1, tHat2)

	maxDist, splitPoint := computeMaxError(pts, bez, u)
	if maxDist <= maxError {
		return []CubicBezier{bez}
	}

	// A couple of reparameterization passes often rescue a near fit before
	// resorting to subdivision.
	if maxDist <= maxError*maxError {
		for i := 0; i < 4; i++ {
			u = reparameterize(pts, u, bez)
			bez = generateBezier(pts, u, tHat1, tHat2)
			maxDist, splitPoint = computeMaxError(pts, bez, u)
			if maxDist <= maxError {
				return []CubicBezier{bez}
			}
		}
	}

	centerTangent := normalize(pts[splitPoint-1].Sub(pts[splitPoint+1]))
	left := fitCubic(pts[:splitPoint+1], tHat1, centerTangent, maxError)
	right := fitCubic(pts[splitPoint:], centerTangent.Scale(-1), tHat2, maxError)
	return append(left, right...)
}

// generateBezier solves the least-squares normal equations for the two
// control-point distances alpha1, alpha2 along the unit tangents. When the
// system is singular or an alpha comes out non-positive, it falls back to
// placing the controls at one third of the endpoint distance.
func generateBezier(pts Polyline, u []float64, tHat1, tHat2 Point) CubicBezier {
	first, last := pts[0], pts[len(pts)-1]

	a := make([][2]Point, len(pts))
	for i, t := range u {
		b1 := 3 * (1 - t) * (1 - t) * t
		b2 := 3 * (1 - t) * t * t
		a[i][0] = tHat1.Scale(b1)
		a[i][1] = tHat2.Scale(b2)
	}

	var c00, c01, c11 float64
	var x0, x1 float64
	for i, t := range u {
		u1 := 1 - t
		b0 := u1 * u1 * u1
		b1 := 3 * u1 * u1 * t
		b2 := 3 * u1 * t * t
		b3 := t * t * t

		c00 += a[i][0].Dot(a[i][0])
		c01 += a[i][0].Dot(a[i][1])
		c11 += a[i][1].Dot(a[i][1])

		tmp := pts[i].Sub(
			first.Scale(b0 + b1).Add(last.Scale(b2 + b3)))
		x0 += a[i][0].Dot(tmp)
		x1 += a[i][1].Dot(tmp)
	}

	detC0C1 := c00*c11 - c01*c01
	detC0X := c00*x1 - c01*x0
	detXC1 := x0*c11 - x1*c01

	var alpha1, alpha2 float64
	if detC0C1 != 0 {
		alpha1 = detXC1 / detC0C1
		alpha2 = detC0X / detC0C1
	}

	segLength := first.Distance(last)
	epsilon := 1e-6 * segLength
	if alpha1 < epsilon || alpha2 < epsilon {
		dist := segLength / 3
		alpha1, alpha2 = dist, dist
	}

	return CubicBezier{
		P0: first,
		P1: first.Add(tHat1.Scale(alpha1)),
		P2: last.Add(tHat2.Scale(alpha2)),
		P3: last,
	}
}

// chordLengthParameterize assigns each point a parameter proportional to its
// cumulative chord length, normalized to [0, 1].
func chordLengthParameterize(pts Polyline) []float64 {
	u := make([]float64, len(pts))
	for i := 1; i < len(pts); i++ {
		u[i] = u[i-1] + pts[i].Distance(pts[i-1])
	}
	total := u[len(u)-1]
	if total > 0 {
		for i := range u {
			u[i] /= total
		}
	}
	return u
}

// reparameterize nudges each parameter toward the nearest curve point with
// one Newton–Raphson step.
func reparameterize(pts Polyline, u []float64, bez CubicBezier) []float64 {
	out := make([]float64, len(u))
	for i := range u {
		out[i] = newtonRaphsonRootFind(bez, pts[i], u[i])
	}
	return out
}

func newtonRaphsonRootFind(bez CubicBezier, p Point, t float64) float64 {
	q := bez.Eval(t)

	// First derivative control points.
	q1 := [3]Point{
		bez.P1.Sub(bez.P0).Scale(3),
		bez.P2.Sub(bez.P1).Scale(3),
		bez.P3.Sub(bez.P2).Scale(3),
	}
	// Second derivative control points.
	q2 := [2]Point{
		q1[1].Sub(q1[0]).Scale(2),
		q1[2].Sub(q1[1]).Scale(2),
	}

	evalQuad := func(c [3]Point, t float64) Point {
		u := 1 - t
		return c[0].Scale(u * u).Add(c[1].Scale(2 * u * t)).Add(c[2].Scale(t * t))
	}
	d1 := evalQuad(q1, t)
	d2 := q2[0].Scale(1 - t).Add(q2[1].Scale(t))

	diff := q.Sub(p)
	numerator := diff.Dot(d1)
	denominator := d1.Dot(d1) + diff.Dot(d2)
	if denominator == 0 {
		return t
	}
	return t - numerator/denominator
}

// computeMaxError returns the largest squared-root distance between the
// points and the fitted curve, along with the index to subdivide at.
func computeMaxError(pts Polyline, bez CubicBezier, u []float64) (float64, int) {
	maxDist := 0.0
	splitPoint := len(pts) / 2
	for i := 1; i < len(pts)-1; i++ {
		d := bez.Eval(u[i]).Distance(pts[i])
		if d > maxDist {
			maxDist = d
			splitPoint = i
		}
	}
	if splitPoint <= 0 {
		splitPoint = 1
	}
	if splitPoint >= len(pts)-1 {
		splitPoint = len(pts) - 2
	}
	return maxDist, splitPoint
}

func normalize(p Point) Point {
	m := math.Hypot(p.X, p.Y)
	if m == 0 {
		return Point{}
	}
	return p.Scale(1 / m)
}
