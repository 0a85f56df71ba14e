package edge

import (
	"testing"

	"github.com/mjsolidarios/image-cad-to-svg/internal/raster"
)

func grayHalves(width, height int, left, right uint8) *raster.Gray {
	g := raster.NewGray(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := left
			if x >= width/2 {
				v = right
			}
			g.Set(x, y, v)
		}
	}
	return g
}

func TestCanny_StrongVerticalEdge(t *testing.T) {
	g := grayHalves(40, 40, 0, 255)

	mask := Canny(g, 1.4, 50, 150)

	found := false
	for x := 17; x <= 23 && !found; x++ {
		if mask.At(x, 20) {
			found = true
		}
	}
	if !found {
		t.Error("strong vertical edge was not detected near the boundary")
	}
}

func TestCanny_UniformImageHasNoEdges(t *testing.T) {
	g := raster.NewGray(30, 30)
	for i := range g.Pix {
		g.Pix[i] = 128
	}

	mask := Canny(g, 1.4, 50, 150)
	if n := mask.Count(); n != 0 {
		t.Errorf("uniform image: got %d edge pixels, want 0", n)
	}
}

func TestCanny_ThresholdsFilterWeakEdges(t *testing.T) {
	// A soft ramp produces small gradients: a high enough threshold pair
	// must reject all of them.
	g := raster.NewGray(40, 40)
	for y := 0; y < 40; y++ {
		for x := 0; x < 40; x++ {
			g.Set(x, y, uint8(x*2))
		}
	}

	strict := Canny(g, 1, 200, 250)
	if n := strict.Count(); n != 0 {
		t.Errorf("strict thresholds: got %d edge pixels, want 0", n)
	}
}

func TestSobel_FlatRegionHasZeroMagnitude(t *testing.T) {
	g := raster.NewGray(10, 10)
	for i := range g.Pix {
		g.Pix[i] = 77
	}
	grad := Sobel(g)
	for i, m := range grad.Magnitude {
		if m != 0 {
			t.Fatalf("magnitude[%d]: got %f, want 0", i, m)
		}
	}
}

func TestSobel_VerticalEdgeOrientation(t *testing.T) {
	g := grayHalves(20, 20, 0, 200)
	grad := Sobel(g)

	// At the boundary the gradient points along +X, so direction ~ 0 and
	// magnitude is large.
	m := grad.MagnitudeAt(10, 10)
	if m < 100 {
		t.Errorf("edge magnitude too small: %f", m)
	}
	d := grad.Direction[10*20+10]
	if d > 0.1 || d < -0.1 {
		t.Errorf("edge direction: got %f, want ~0", d)
	}
}

func TestThresholdGradient(t *testing.T) {
	grad := raster.NewGradient(2, 1)
	grad.Magnitude[0] = 10
	grad.Magnitude[1] = 200

	mask := ThresholdGradient(grad, 100)
	if mask.At(0, 0) {
		t.Error("weak gradient must not set the mask")
	}
	if !mask.At(1, 0) {
		t.Error("strong gradient must set the mask")
	}
}
