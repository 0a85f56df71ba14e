package geom

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDouglasPeucker_CollinearCollapses(t *testing.T) {
	line := Polyline{{0, 0}, {1, 0}, {2, 0}, {3, 0}, {4, 0}}
	got := DouglasPeucker(line, 0.5)
	want := Polyline{{0, 0}, {4, 0}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("simplified polyline mismatch (-want +got):\n%s", diff)
	}
}

func TestDouglasPeucker_KeepsSignificantCorner(t *testing.T) {
	line := Polyline{{0, 0}, {5, 5}, {10, 0}}
	got := DouglasPeucker(line, 1)
	want := Polyline{{0, 0}, {5, 5}, {10, 0}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("corner dropped (-want +got):\n%s", diff)
	}
}

func TestDouglasPeucker_RemovedPointsWithinTolerance(t *testing.T) {
	// Noisy sine-ish line: every removed point must stay within tolerance
	// of the segment between its surviving neighbors.
	const tolerance = 0.75
	var line Polyline
	for i := 0; i <= 40; i++ {
		line = append(line, Point{X: float64(i), Y: 0.5 * math.Sin(float64(i)/3)})
	}

	kept := DouglasPeucker(line, tolerance)

	keptIdx := map[Point]bool{}
	for _, p := range kept {
		keptIdx[p] = true
	}
	ki := 0
	for _, p := range line {
		if keptIdx[p] {
			ki++
			continue
		}
		// Find surrounding kept points.
		if ki == 0 || ki >= len(kept) {
			t.Fatalf("removed point %v outside kept range", p)
		}
		d := PerpendicularDistance(p, kept[ki-1], kept[ki])
		if d > tolerance+1e-9 {
			t.Errorf("removed point %v is %f from its chord, tolerance %f", p, d, tolerance)
		}
	}
}

func TestDouglasPeucker_ShortInputsUntouched(t *testing.T) {
	for _, line := range []Polyline{nil, {{1, 1}}, {{0, 0}, {1, 1}}} {
		got := DouglasPeucker(line, 1)
		if len(got) != len(line) {
			t.Errorf("input of %d points: got %d, want unchanged", len(line), len(got))
		}
	}
}

func TestDouglasPeuckerRelative(t *testing.T) {
	// 100x100 box (diagonal about 141) with a wobble of about 0.7 units:
	// 5 percent of the diagonal (about 7) is well above the wobble, so it
	// collapses.
	line := Polyline{{0, 0}, {50, 51}, {100, 100}}
	got := DouglasPeuckerRelative(line, 5)
	if len(got) != 2 {
		t.Errorf("got %d points, want 2", len(got))
	}
}

func TestVisvalingam_ReachesTargetCount(t *testing.T) {
	var line Polyline
	for i := 0; i <= 20; i++ {
		line = append(line, Point{X: float64(i), Y: math.Sin(float64(i))})
	}

	got := Visvalingam(line, 5)
	if len(got) != 5 {
		t.Fatalf("got %d points, want 5", len(got))
	}
	if got[0] != line[0] || got[len(got)-1] != line[len(line)-1] {
		t.Error("endpoints must survive simplification")
	}
}

func TestVisvalingam_RemovesSmallestTriangleFirst(t *testing.T) {
	// The middle point's wing triangle is tiny; it goes first.
	line := Polyline{{0, 0}, {5, 0.01}, {10, 0}, {15, 8}, {20, 0}}
	got := Visvalingam(line, 4)
	for _, p := range got {
		if p == (Point{5, 0.01}) {
			t.Error("smallest-area point survived")
		}
	}
}

func TestReumannWitkam(t *testing.T) {
	line := Polyline{{0, 0}, {1, 0.1}, {2, 0.05}, {3, 0}, {4, 5}, {5, 5.1}}
	got := ReumannWitkam(line, 1)

	if got[0] != line[0] {
		t.Error("first point must be kept")
	}
	if got[len(got)-1] != line[len(line)-1] {
		t.Error("last point must be kept")
	}
	// The jump to y=5 must survive.
	found := false
	for _, p := range got {
		if p == (Point{4, 5}) {
			found = true
		}
	}
	if !found {
		t.Error("point far from the key segment was dropped")
	}
}

func TestChaikin_Open(t *testing.T) {
	line := Polyline{{0, 0}, {10, 0}, {10, 10}}
	got := Chaikin(line, 1, false)

	if got[0] != line[0] || got[len(got)-1] != line[len(line)-1] {
		t.Error("open polylines keep their endpoints under corner cutting")
	}
	// The sharp corner at (10,0) is cut.
	for _, p := range got {
		if p == (Point{10, 0}) {
			t.Error("corner point survived corner cutting")
		}
	}
}

func TestChaikin_ClosedWraps(t *testing.T) {
	square := Polyline{{0, 0}, {10, 0}, {10, 10}, {0, 10}}
	got := Chaikin(square, 1, true)
	if len(got) != 8 {
		t.Errorf("closed square after one round: got %d points, want 8", len(got))
	}
}

func TestMovingAverage_PreservesLength(t *testing.T) {
	line := Polyline{{0, 0}, {1, 3}, {2, -3}, {3, 3}, {4, 0}}
	got := MovingAverage(line, 1)
	if len(got) != len(line) {
		t.Fatalf("got %d points, want %d", len(got), len(line))
	}
	// Middle point is averaged with its neighbors.
	want := Point{X: 2, Y: 1}
	if math.Abs(got[2].X-want.X) > 1e-9 || math.Abs(got[2].Y-want.Y) > 1e-9 {
		t.Errorf("middle point: got %v, want %v", got[2], want)
	}
}

func TestGaussianSmooth_StraightLineInvariant(t *testing.T) {
	var line Polyline
	for i := 0; i <= 10; i++ {
		line = append(line, Point{X: float64(i), Y: 2})
	}
	got := GaussianSmooth(line, 1)
	for i, p := range got {
		if math.Abs(p.Y-2) > 1e-6 {
			t.Errorf("point %d: y drifted to %f", i, p.Y)
		}
	}
}

func TestPerpendicularDistance(t *testing.T) {
	tests := []struct {
		name    string
		p, a, b Point
		want    float64
	}{
		{"projection inside segment", Point{5, 3}, Point{0, 0}, Point{10, 0}, 3},
		{"projection before start", Point{-3, 4}, Point{0, 0}, Point{10, 0}, 5},
		{"projection past end", Point{13, 4}, Point{0, 0}, Point{10, 0}, 5},
		{"degenerate segment", Point{3, 4}, Point{0, 0}, Point{0, 0}, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PerpendicularDistance(tt.p, tt.a, tt.b); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("got %f, want %f", got, tt.want)
			}
		})
	}
}
