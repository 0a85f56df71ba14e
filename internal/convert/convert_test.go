package convert

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/mjsolidarios/image-cad-to-svg/internal/palette"
	"github.com/mjsolidarios/image-cad-to-svg/internal/raster"
)

// canvas builds a solid-color image.
func canvas(width, height int, r, g, b uint8) *raster.Image {
	img := raster.NewImage(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetRGBA(x, y, r, g, b, 255)
		}
	}
	return img
}

func drawRow(img *raster.Image, y int, r, g, b uint8) {
	for x := 0; x < img.Width; x++ {
		img.SetRGBA(x, y, r, g, b, 255)
	}
}

// drawSquareOutline draws the four sides of a square, thickness pixels
// thick, with the outer edge at (x0, y0) and the given outer side length.
func drawSquareOutline(img *raster.Image, x0, y0, side, thickness int, r, g, b uint8) {
	for t := 0; t < thickness; t++ {
		for i := 0; i < side; i++ {
			img.SetRGBA(x0+i, y0+t, r, g, b, 255)
			img.SetRGBA(x0+i, y0+side-1-t, r, g, b, 255)
			img.SetRGBA(x0+t, y0+i, r, g, b, 255)
			img.SetRGBA(x0+side-1-t, y0+i, r, g, b, 255)
		}
	}
}

func TestConvert_SingleBlackLine(t *testing.T) {
	img := canvas(100, 100, 255, 255, 255)
	drawRow(img, 50, 0, 0, 0)

	result, err := Convert(img, "", DefaultOptions())
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}

	if len(result.Paths) != 1 {
		t.Fatalf("got %d paths, want 1", len(result.Paths))
	}
	p := result.Paths[0]
	first := p.Points[0]
	last := p.Points[len(p.Points)-1]
	if first.X > 1 || last.X < 98 {
		t.Errorf("path span: got x %v..%v, want ~0..99", first.X, last.X)
	}
	for _, pt := range p.Points {
		if pt.Y != 50 {
			t.Errorf("point %v off the line row", pt)
		}
	}
	if p.Color != palette.Black {
		t.Errorf("path color: got %+v, want black", p.Color)
	}
	if len(result.Layers) != 1 {
		t.Errorf("got %d layers, want 1", len(result.Layers))
	}
	if result.Refinement == nil {
		t.Fatal("refinement report missing")
	}
	if result.Refinement.AfterScore.F1Score < 0.95 {
		t.Errorf("refined F1: got %f, want >= 0.95", result.Refinement.AfterScore.F1Score)
	}
}

func TestConvert_EmptyImage(t *testing.T) {
	img := canvas(32, 32, 255, 255, 255)

	result, err := Convert(img, "", DefaultOptions())
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}

	if len(result.Paths) != 0 {
		t.Errorf("got %d paths, want 0", len(result.Paths))
	}
	if len(result.Layers) != 0 {
		t.Errorf("got %d layers, want 0", len(result.Layers))
	}
	if len(result.ColorGroups) != 0 {
		t.Errorf("got %d color groups, want 0", len(result.ColorGroups))
	}
	if !strings.Contains(result.SVG, "<g") {
		t.Error("document must still contain an empty group")
	}
}

func TestConvert_SquareOutlineModes(t *testing.T) {
	makeImg := func() *raster.Image {
		img := canvas(64, 64, 255, 255, 255)
		drawSquareOutline(img, 7, 7, 50, 1, 0, 0, 0)
		return img
	}

	t.Run("suzuki", func(t *testing.T) {
		opts := DefaultOptions()
		opts.ContourDetection.Method = ContourSuzuki
		opts.Refinement.Enabled = false

		result, err := Convert(makeImg(), "", opts)
		if err != nil {
			t.Fatalf("Convert failed: %v", err)
		}
		if len(result.Paths) == 0 {
			t.Fatal("no contours traced")
		}
		found := false
		for _, p := range result.Paths {
			if p.Closed && p.Points.Area() > 2300 && p.Points.Area() < 2600 {
				found = true
			}
		}
		if !found {
			t.Error("no closed contour with ~50x50 area")
		}
	})

	t.Run("moore", func(t *testing.T) {
		opts := DefaultOptions()
		opts.ContourDetection.Method = ContourMoore
		opts.Refinement.Enabled = false

		result, err := Convert(makeImg(), "", opts)
		if err != nil {
			t.Fatalf("Convert failed: %v", err)
		}
		if len(result.Paths) != 1 {
			t.Fatalf("got %d paths, want 1", len(result.Paths))
		}
		if !result.Paths[0].Closed {
			t.Error("Moore boundary must be closed")
		}
	})

	t.Run("marching-squares", func(t *testing.T) {
		opts := DefaultOptions()
		opts.ContourDetection.Method = ContourMarchingSquares
		opts.Refinement.Enabled = false

		result, err := Convert(makeImg(), "", opts)
		if err != nil {
			t.Fatalf("Convert failed: %v", err)
		}
		if len(result.Paths) == 0 {
			t.Fatal("no contours traced")
		}
		// The outermost contour's bounding box matches the outline within
		// a pixel.
		matched := false
		for _, p := range result.Paths {
			min, max := p.Points.Bounds()
			if min.X > 5 && min.X < 8 && min.Y > 5 && min.Y < 8 &&
				max.X > 55 && max.X < 58 && max.Y > 55 && max.Y < 58 {
				matched = true
			}
		}
		if !matched {
			t.Error("no sub-pixel contour matches the outline bounding box")
		}
	})
}

func TestConvert_TwoBlueLines(t *testing.T) {
	img := canvas(100, 100, 255, 255, 255)
	drawRow(img, 30, 0, 0, 255)
	drawRow(img, 70, 0, 0, 255)

	result, err := Convert(img, "", DefaultOptions())
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}

	if len(result.Paths) != 2 {
		t.Fatalf("got %d paths, want 2 (both must survive spurious removal)", len(result.Paths))
	}
	blue := palette.Color{B: 255, A: 255}
	for i, p := range result.Paths {
		if p.Color != blue {
			t.Errorf("path %d color: got %+v, want blue", i, p.Color)
		}
	}
	if len(result.Layers) != 1 {
		t.Errorf("got %d layers, want 1", len(result.Layers))
	}
	if len(result.ColorGroups) != 1 || result.ColorGroups[0].Color != "#0000FF" {
		t.Errorf("color groups: got %+v, want one #0000FF group", result.ColorGroups)
	}
}

func TestConvert_InvertedDrawing(t *testing.T) {
	// White line on black behaves like a black line on white once inverted.
	img := canvas(100, 100, 0, 0, 0)
	drawRow(img, 50, 255, 255, 255)

	opts := DefaultOptions()
	opts.InvertColors = true

	result, err := Convert(img, "", opts)
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	if len(result.Paths) != 1 {
		t.Fatalf("got %d paths, want 1", len(result.Paths))
	}
	if result.Paths[0].Color != palette.Black {
		t.Errorf("path color: got %+v, want black", result.Paths[0].Color)
	}
	if result.Refinement.AfterScore.F1Score < 0.95 {
		t.Errorf("refined F1: got %f, want >= 0.95", result.Refinement.AfterScore.F1Score)
	}
}

func TestConvert_NoisySquareWithNoiseReduction(t *testing.T) {
	img := canvas(64, 64, 255, 255, 255)
	drawSquareOutline(img, 7, 7, 50, 4, 0, 0, 0)

	// Deterministic ~1% salt-and-pepper away from the outline.
	seed := uint32(12345)
	next := func(n int) int {
		seed = seed*1664525 + 1013904223
		return int(seed % uint32(n))
	}
	for i := 0; i < 40; i++ {
		x, y := next(64), next(64)
		if x > 13 && x < 50 && y > 13 && y < 50 {
			continue // keep the interior clean for a stable assertion
		}
		img.SetRGBA(x, y, 0, 0, 0, 255)
	}

	opts := DefaultOptions()
	opts.EdgeDetection.ApplyNoiseReduction = true

	result, err := Convert(img, "", opts)
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}

	found := false
	for _, p := range result.Paths {
		min, max := p.Points.Bounds()
		if max.X-min.X > 40 && max.Y-min.Y > 40 {
			found = true
		}
	}
	if !found {
		t.Error("dominant square boundary lost to noise")
	}
}

func TestConvert_UnknownMethods(t *testing.T) {
	img := canvas(10, 10, 255, 255, 255)

	tests := []struct {
		name   string
		mutate func(*Options)
	}{
		{"edge method", func(o *Options) { o.EdgeDetection.Method = "sorcery" }},
		{"contour method", func(o *Options) { o.ContourDetection.Method = "sorcery" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			tt.mutate(&opts)
			_, err := Convert(img, "", opts)
			if err == nil {
				t.Fatal("expected an error")
			}
			if KindOf(err) != KindUnknownMethod {
				t.Errorf("error kind: got %q, want %q", KindOf(err), KindUnknownMethod)
			}
		})
	}
}

func TestConvert_InvalidImage(t *testing.T) {
	bad := &raster.Image{Width: 10, Height: 10, Pix: make([]uint8, 7)}
	_, err := Convert(bad, "", DefaultOptions())
	if KindOf(err) != KindInvalidImage {
		t.Errorf("error kind: got %q, want %q", KindOf(err), KindInvalidImage)
	}

	_, err = Convert(nil, "", DefaultOptions())
	if KindOf(err) != KindInvalidImage {
		t.Errorf("nil image: got %q, want %q", KindOf(err), KindInvalidImage)
	}
}

func TestConvertBytes_PNG(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 50, 50))
	for y := 0; y < 50; y++ {
		for x := 0; x < 50; x++ {
			src.Set(x, y, color.White)
		}
	}
	for x := 0; x < 50; x++ {
		src.Set(x, 25, color.Black)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, src); err != nil {
		t.Fatalf("png encode: %v", err)
	}

	result, err := ConvertBytes(buf.Bytes(), DefaultOptions())
	if err != nil {
		t.Fatalf("ConvertBytes failed: %v", err)
	}
	if result.Metadata.OriginalFormat != "png" {
		t.Errorf("format tag: got %q, want png", result.Metadata.OriginalFormat)
	}
	if result.Metadata.PathCount != len(result.Paths) {
		t.Errorf("metadata path count %d != %d paths", result.Metadata.PathCount, len(result.Paths))
	}
}

func TestConvertBytes_Garbage(t *testing.T) {
	_, err := ConvertBytes([]byte("not an image at all"), DefaultOptions())
	if err == nil {
		t.Fatal("expected an error")
	}
	if KindOf(err) != KindUnsupportedFormat {
		t.Errorf("error kind: got %q, want %q", KindOf(err), KindUnsupportedFormat)
	}
	var tagged *Error
	if !errors.As(err, &tagged) || tagged.Stage != "decode" {
		t.Errorf("error stage: got %+v, want decode", tagged)
	}
}
