package palette

import (
	"testing"

	"github.com/mjsolidarios/image-cad-to-svg/internal/geom"
	"github.com/mjsolidarios/image-cad-to-svg/internal/raster"
)

// drawing builds a white canvas with horizontal lines of the given colors.
func drawing(width, height int, lines map[int]Color) *raster.Image {
	img := raster.NewImage(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetRGBA(x, y, 255, 255, 255, 255)
		}
	}
	for y, c := range lines {
		for x := 0; x < width; x++ {
			img.SetRGBA(x, y, c.R, c.G, c.B, c.A)
		}
	}
	return img
}

func TestDetectBackground_White(t *testing.T) {
	img := drawing(50, 50, map[int]Color{25: {R: 0, G: 0, B: 0, A: 255}})
	bg := DetectBackground(img)
	if bg.Luminance() < 200 {
		t.Errorf("background should be light, got %+v", bg)
	}
}

func TestDetectBackground_IgnoresTransparentBorder(t *testing.T) {
	img := raster.NewImage(10, 10)
	// Transparent border except the bottom row, which is opaque red.
	for x := 0; x < 10; x++ {
		img.SetRGBA(x, 9, 200, 0, 0, 255)
	}
	bg := DetectBackground(img)
	if bg.R < 150 || bg.G > 60 || bg.B > 60 {
		t.Errorf("background should come from the opaque border pixels, got %+v", bg)
	}
}

func TestExtract_FindsLineColor(t *testing.T) {
	blue := Color{R: 0, G: 0, B: 255, A: 255}
	img := drawing(100, 100, map[int]Color{20: blue, 60: blue})

	entries := Extract(img, Color{R: 255, G: 255, B: 255, A: 255}, 10, 0.1, true)
	if len(entries) == 0 {
		t.Fatal("no palette entries extracted")
	}
	if got := Nearest(blue, entries); got.Distance(blue) > 16 {
		t.Errorf("palette misses blue: nearest is %+v", got)
	}
}

func TestExtract_FallsBackToBlack(t *testing.T) {
	img := drawing(20, 20, nil) // all white
	entries := Extract(img, Color{R: 255, G: 255, B: 255, A: 255}, 10, 0.1, true)
	if len(entries) != 1 || entries[0] != Black {
		t.Errorf("empty drawing: got %+v, want pure black fallback", entries)
	}
}

func TestNearest(t *testing.T) {
	entries := []Color{
		{R: 0, G: 0, B: 0, A: 255},
		{R: 255, G: 0, B: 0, A: 255},
		{R: 0, G: 0, B: 255, A: 255},
	}
	tests := []struct {
		name string
		in   Color
		want Color
	}{
		{"dark gray snaps to black", Color{R: 20, G: 20, B: 20, A: 255}, entries[0]},
		{"crimson snaps to red", Color{R: 220, G: 30, B: 30, A: 255}, entries[1]},
		{"navy snaps to blue", Color{R: 10, G: 10, B: 200, A: 255}, entries[2]},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Nearest(tt.in, entries); got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestNearest_EmptyPalette(t *testing.T) {
	if got := Nearest(Color{R: 9, A: 255}, nil); got != Black {
		t.Errorf("got %+v, want black", got)
	}
}

func TestSampleLine(t *testing.T) {
	red := Color{R: 255, G: 0, B: 0, A: 255}
	img := drawing(100, 100, map[int]Color{50: red})

	line := geom.Polyline{{X: 0, Y: 50}, {X: 99, Y: 50}}
	got := SampleLine(img, line, 10)
	if got.Distance(red) > 1 {
		t.Errorf("sampled color: got %+v, want red", got)
	}
}

func TestKMeans_SeparatesClusters(t *testing.T) {
	var samples []Color
	for i := 0; i < 50; i++ {
		samples = append(samples, Color{R: uint8(10 + i%5), G: 0, B: 0, A: 255})
		samples = append(samples, Color{R: 0, G: 0, B: uint8(240 + i%5), A: 255})
	}

	centroids := KMeans(samples, 2)
	if len(centroids) != 2 {
		t.Fatalf("got %d centroids, want 2", len(centroids))
	}

	foundRed, foundBlue := false, false
	for _, c := range centroids {
		if c.R > 0 && c.B < 50 {
			foundRed = true
		}
		if c.B > 200 && c.R < 50 {
			foundBlue = true
		}
	}
	if !foundRed || !foundBlue {
		t.Errorf("centroids missed a cluster: %+v", centroids)
	}
}

func TestKMeans_Deterministic(t *testing.T) {
	var samples []Color
	for i := 0; i < 30; i++ {
		samples = append(samples, Color{R: uint8(i * 8), G: uint8(255 - i*8), B: uint8(i), A: 255})
	}
	a := KMeans(samples, 3)
	b := KMeans(samples, 3)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("centroid %d differs between runs: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestKMeans_FewerSamplesThanClusters(t *testing.T) {
	samples := []Color{{R: 1, A: 255}, {R: 2, A: 255}}
	got := KMeans(samples, 5)
	if len(got) != 2 {
		t.Errorf("got %d centroids, want 2", len(got))
	}
}

func TestMedianCut_SplitsWidestChannel(t *testing.T) {
	var samples []Color
	for i := 0; i < 32; i++ {
		samples = append(samples, Color{R: uint8(i * 8), G: 100, B: 100, A: 255})
	}

	got := MedianCut(samples, 2)
	if len(got) != 2 {
		t.Fatalf("got %d colors, want 2", len(got))
	}
	// The two representatives split along red.
	if got[0].R == got[1].R {
		t.Errorf("expected distinct red representatives, got %+v", got)
	}
}

func TestMedianCut_StopsWhenUnsplittable(t *testing.T) {
	samples := []Color{{R: 5, G: 5, B: 5, A: 255}, {R: 5, G: 5, B: 5, A: 255}}
	got := MedianCut(samples, 4)
	if len(got) != 1 {
		t.Errorf("identical samples: got %d colors, want 1", len(got))
	}
}
