package refine

import (
	"math"
	"testing"

	"github.com/mjsolidarios/image-cad-to-svg/internal/geom"
	"github.com/mjsolidarios/image-cad-to-svg/internal/palette"
	"github.com/mjsolidarios/image-cad-to-svg/internal/raster"
	"github.com/mjsolidarios/image-cad-to-svg/internal/vector"
)

func lineMask(width, height, y int) *raster.Mask {
	m := raster.NewMask(width, height)
	for x := 0; x < width; x++ {
		m.Set(x, y, true)
	}
	return m
}

func linePath(x0, y0, x1, y1 float64) *vector.Path {
	return &vector.Path{
		Points: geom.Polyline{{X: x0, Y: y0}, {X: x1, Y: y1}},
		Color:  palette.Black,
	}
}

func TestRasterize_HorizontalLine(t *testing.T) {
	mask := Rasterize([]*vector.Path{linePath(0, 5, 9, 5)}, 10, 10)
	for x := 0; x < 10; x++ {
		if !mask.At(x, 5) {
			t.Errorf("pixel (%d,5) not set", x)
		}
	}
	if mask.Count() != 10 {
		t.Errorf("got %d set pixels, want 10", mask.Count())
	}
}

func TestRasterize_ClosedTriangle(t *testing.T) {
	p := &vector.Path{
		Points: geom.Polyline{{X: 1, Y: 1}, {X: 8, Y: 1}, {X: 4, Y: 7}},
		Closed: true,
	}
	mask := Rasterize([]*vector.Path{p}, 10, 10)
	// The closing edge from (4,7) back to (1,1) must be drawn.
	if !mask.At(1, 1) || !mask.At(2, 3) && !mask.At(3, 4) && !mask.At(2, 4) {
		t.Error("closing edge missing from rasterization")
	}
}

func TestDistanceTransform_ZeroAtSources(t *testing.T) {
	m := lineMask(20, 20, 10)
	field := DistanceTransform(m)
	for x := 0; x < 20; x++ {
		if field.At(x, 10) != 0 {
			t.Errorf("source pixel (%d,10): got %f, want 0", x, field.At(x, 10))
		}
	}
}

func TestDistanceTransform_ApproximatesEuclidean(t *testing.T) {
	// Chamfer (1, sqrt2) stays within 9 percent above true Euclidean
	// distance for a single point source.
	m := raster.NewMask(41, 41)
	m.Set(20, 20, true)
	field := DistanceTransform(m)

	for y := 0; y < 41; y++ {
		for x := 0; x < 41; x++ {
			truth := math.Hypot(float64(x-20), float64(y-20))
			got := float64(field.At(x, y))
			// The field is float32, so allow for single-precision rounding.
			if got < truth*(1-1e-6) {
				t.Fatalf("(%d,%d): chamfer %f below Euclidean %f", x, y, got, truth)
			}
			if truth > 0 && got > truth*1.09 {
				t.Fatalf("(%d,%d): chamfer %f exceeds Euclidean %f by more than 9%%", x, y, got, truth)
			}
		}
	}
}

func TestMeasure_PerfectReconstruction(t *testing.T) {
	ref := lineMask(30, 30, 15)
	s := Measure(ref, ref.Clone(), 2)

	if s.Precision != 1 || s.Recall != 1 || s.F1Score != 1 {
		t.Errorf("identical masks: got P=%f R=%f F1=%f, want all 1", s.Precision, s.Recall, s.F1Score)
	}
	if s.MeanDistanceError != 0 {
		t.Errorf("mean distance error: got %f, want 0", s.MeanDistanceError)
	}
}

func TestMeasure_Bounds(t *testing.T) {
	tests := []struct {
		name     string
		ref, ren *raster.Mask
	}{
		{"both empty", raster.NewMask(10, 10), raster.NewMask(10, 10)},
		{"empty render", lineMask(10, 10, 5), raster.NewMask(10, 10)},
		{"empty reference", raster.NewMask(10, 10), lineMask(10, 10, 5)},
		{"disjoint", lineMask(20, 20, 2), lineMask(20, 20, 17)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Measure(tt.ref, tt.ren, 2)
			for _, v := range []float64{s.Precision, s.Recall, s.F1Score} {
				if v < 0 || v > 1 {
					t.Errorf("metric out of [0,1]: %+v", s)
				}
			}
			if (s.Precision == 0 || s.Recall == 0) && s.F1Score != 0 {
				t.Errorf("F1 must be 0 when precision or recall is 0: %+v", s)
			}
		})
	}
}

func TestRefine_AlreadyPerfect(t *testing.T) {
	ref := lineMask(50, 50, 25)
	paths := []*vector.Path{linePath(0, 25, 49, 25)}

	got, report := Refine(paths, ref, DefaultConfig())

	if report.IterationsUsed != 0 {
		t.Errorf("iterations: got %d, want 0", report.IterationsUsed)
	}
	if report.BeforeScore.F1Score < 0.99 {
		t.Errorf("before score: got %f, want ~1", report.BeforeScore.F1Score)
	}
	if len(got) != 1 {
		t.Errorf("paths: got %d, want 1", len(got))
	}
}

func TestRefine_NeverRegresses(t *testing.T) {
	// A slightly offset reconstruction: whatever the strategies do, the
	// returned set's score must not fall below the starting score.
	ref := lineMask(50, 50, 25)
	paths := []*vector.Path{linePath(0, 27, 49, 27)}

	_, report := Refine(paths, ref, DefaultConfig())

	if report.AfterScore.F1Score < report.BeforeScore.F1Score-1e-6 {
		t.Errorf("regression: before %f, after %f", report.BeforeScore.F1Score, report.AfterScore.F1Score)
	}
}

func TestRefine_SnapImprovesOffsetLine(t *testing.T) {
	// Two pixels off: close enough to keep during spurious removal, too far
	// to score under a one-pixel tolerance, and within snapping range.
	ref := lineMask(50, 50, 25)
	paths := []*vector.Path{
		{Points: geom.Polyline{{X: 0, Y: 27}, {X: 20, Y: 27}, {X: 49, Y: 27}}, Color: palette.Black},
	}

	cfg := DefaultConfig()
	cfg.Tolerance = 1
	got, report := Refine(paths, ref, cfg)

	if report.AfterScore.F1Score <= report.BeforeScore.F1Score {
		t.Errorf("snapping should improve an offset line: before %f, after %f",
			report.BeforeScore.F1Score, report.AfterScore.F1Score)
	}
	for _, p := range got {
		for _, pt := range p.Points {
			if pt.Y != 25 {
				t.Errorf("point %v not snapped onto the reference row", pt)
			}
		}
	}
}

func TestRefine_RemovesSpuriousPath(t *testing.T) {
	ref := lineMask(60, 60, 30)
	paths := []*vector.Path{
		linePath(0, 30, 59, 30),
		// A stroke nowhere near the reference.
		{Points: geom.Polyline{{X: 5, Y: 5}, {X: 25, Y: 5}, {X: 45, Y: 5}}, Color: palette.Black},
	}

	got, _ := Refine(paths, ref, DefaultConfig())

	for _, p := range got {
		for _, pt := range p.Points {
			if pt.Y < 20 {
				t.Errorf("spurious path survived refinement: %v", pt)
			}
		}
	}
}

func TestRefine_GapFillRecoversMissingStroke(t *testing.T) {
	// Reference has two strokes; the reconstruction only covers one.
	ref := raster.NewMask(60, 60)
	for x := 0; x < 60; x++ {
		ref.Set(x, 10, true)
		ref.Set(x, 40, true)
	}
	paths := []*vector.Path{linePath(0, 10, 59, 10)}

	got, report := Refine(paths, ref, DefaultConfig())

	if report.AfterScore.Recall <= report.BeforeScore.Recall {
		t.Errorf("gap fill should raise recall: before %f, after %f",
			report.BeforeScore.Recall, report.AfterScore.Recall)
	}
	foundLower := false
	for _, p := range got {
		for _, pt := range p.Points {
			if pt.Y > 30 {
				foundLower = true
			}
		}
	}
	if !foundLower {
		t.Error("no path covers the missing stroke after gap fill")
	}
}

func TestConfig_Defaults(t *testing.T) {
	cfg := Config{}.withDefaults()
	want := DefaultConfig()
	if cfg != want {
		t.Errorf("got %+v, want %+v", cfg, want)
	}
}
