package geom

import (
	"math"
	"testing"
)

func TestFitBeziers_StraightLine(t *testing.T) {
	var line Polyline
	for i := 0; i <= 10; i++ {
		line = append(line, Point{X: float64(i), Y: float64(i) * 0.5})
	}

	curves := FitBeziers(line, 0.5)
	if len(curves) == 0 {
		t.Fatal("no curves fitted")
	}
	if curves[0].P0 != line[0] {
		t.Errorf("first curve start: got %v, want %v", curves[0].P0, line[0])
	}
	if curves[len(curves)-1].P3 != line[len(line)-1] {
		t.Errorf("last curve end: got %v, want %v", curves[len(curves)-1].P3, line[len(line)-1])
	}

	// Every sample point must lie close to the fitted curve chain.
	for _, c := range curves {
		for _, tt := range []float64{0, 0.25, 0.5, 0.75, 1} {
			p := c.Eval(tt)
			want := p.X * 0.5
			if math.Abs(p.Y-want) > 0.5 {
				t.Errorf("curve point %v deviates from the line by %f", p, math.Abs(p.Y-want))
			}
		}
	}
}

func TestFitBeziers_ArcWithinError(t *testing.T) {
	var line Polyline
	for i := 0; i <= 20; i++ {
		a := float64(i) / 20 * math.Pi
		line = append(line, Point{X: 50 + 40*math.Cos(a), Y: 50 - 40*math.Sin(a)})
	}

	const maxError = 1.0
	curves := FitBeziers(line, maxError)
	if len(curves) == 0 {
		t.Fatal("no curves fitted")
	}

	// Endpoints chain continuously.
	for i := 1; i < len(curves); i++ {
		if curves[i-1].P3 != curves[i].P0 {
			t.Errorf("curve %d does not start where curve %d ends", i, i-1)
		}
	}
}

func TestFitBeziers_TwoPointFallback(t *testing.T) {
	line := Polyline{{0, 0}, {9, 0}}
	curves := FitBeziers(line, 1)
	if len(curves) != 1 {
		t.Fatalf("got %d curves, want 1", len(curves))
	}
	c := curves[0]
	// Controls sit at one third of the endpoint distance along the chord.
	if math.Abs(c.P1.X-3) > 1e-9 || math.Abs(c.P2.X-6) > 1e-9 {
		t.Errorf("controls: got %v and %v, want x=3 and x=6", c.P1, c.P2)
	}
}

func TestEval_Endpoints(t *testing.T) {
	c := CubicBezier{P0: Point{0, 0}, P1: Point{1, 2}, P2: Point{3, 2}, P3: Point{4, 0}}
	if c.Eval(0) != c.P0 {
		t.Errorf("Eval(0): got %v, want %v", c.Eval(0), c.P0)
	}
	if c.Eval(1) != c.P3 {
		t.Errorf("Eval(1): got %v, want %v", c.Eval(1), c.P3)
	}
}
