package geom

import "math"

// Chaikin applies corner-cutting smoothing: each edge AB is replaced by the
// two points 0.75A+0.25B and 0.25A+0.75B, repeated for the given number of
// iterations. Open polylines keep their endpoints; closed polylines wrap
// around so the seam is smoothed like any other corner.
func Chaikin(line Polyline, iterations int, closed bool) Polyline {
	out := make(Polyline, len(line))
	copy(out, line)
	for it := 0; it < iterations; it++ {
		if len(out) < 3 {
			return out
		}
		var next Polyline
		if closed {
			next = make(Polyline, 0, len(out)*2)
			for i := range out {
				a, b := out[i], out[(i+1)%len(out)]
				next = append(next,
					a.Scale(0.75).Add(b.Scale(0.25)),
					a.Scale(0.25).Add(b.Scale(0.75)))
			}
		} else {
			next = make(Polyline, 0, len(out)*2)
			next = append(next, out[0])
			for i := 0; i+1 < len(out); i++ {
				a, b := out[i], out[i+1]
				next = append(next,
					a.Scale(0.75).Add(b.Scale(0.25)),
					a.Scale(0.25).Add(b.Scale(0.75)))
			}
			next = append(next, out[len(out)-1])
		}
		out = next
	}
	return out
}

// MovingAverage smooths a polyline by averaging each point over a window of
// 2*radius+1 points, clamping the window at the ends.
func MovingAverage(line Polyline, radius int) Polyline {
	if radius <= 0 || len(line) < 3 {
		out := make(Polyline, len(line))
		copy(out, line)
		return out
	}
	out := make(Polyline, len(line))
	for i := range line {
		lo := i - radius
		if lo < 0 {
			lo = 0
		}
		hi := i + radius
		if hi > len(line)-1 {
			hi = len(line) - 1
		}
		var sum Point
		for j := lo; j <= hi; j++ {
			sum = sum.Add(line[j])
		}
		out[i] = sum.Scale(1 / float64(hi-lo+1))
	}
	return out
}

// GaussianSmooth smooths a polyline by convolving both coordinates with a
// Gaussian kernel of the given sigma, using mirror padding at the ends.
// The kernel half-width is ceil(3*sigma).
func GaussianSmooth(line Polyline, sigma float64) Polyline {
	if sigma <= 0 || len(line) < 3 {
		out := make(Polyline, len(line))
		copy(out, line)
		return out
	}
	half := int(math.Ceil(3 * sigma))
	kernel := make([]float64, 2*half+1)
	sum := 0.0
	for i := -half; i <= half; i++ {
		v := math.Exp(-float64(i*i) / (2 * sigma * sigma))
		kernel[i+half] = v
		sum += v
	}
	for i := range kernel {
		kernel[i] /= sum
	}

	mirror := func(i int) int {
		for i < 0 || i >= len(line) {
			if i < 0 {
				i = -i
			}
			if i >= len(line) {
				i = 2*(len(line)-1) - i
			}
		}
		return i
	}

	out := make(Polyline, len(line))
	for i := range line {
		var p Point
		for k := -half; k <= half; k++ {
			q := line[mirror(i+k)]
			w := kernel[k+half]
			p.X += q.X * w
			p.Y += q.Y * w
		}
		out[i] = p
	}
	return out
}
