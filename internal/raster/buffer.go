package raster

import (
	"image"
	"image/color"
	"math"
)

// Image is an 8-bit RGBA pixel buffer. Pix holds 4 bytes per pixel in
// row-major order, so len(Pix) == Width*Height*4.
//
// Image implements the standard image.Image interface so that library
// operations (inversion, median filtering) can consume it directly.
type Image struct {
	Width  int
	Height int
	Pix    []uint8
}

// NewImage allocates a zeroed (fully transparent black) image.
func NewImage(width, height int) *Image {
	return &Image{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height*4),
	}
}

// ColorModel implements image.Image.
func (m *Image) ColorModel() color.Model { return color.NRGBAModel }

// Bounds implements image.Image.
func (m *Image) Bounds() image.Rectangle { return image.Rect(0, 0, m.Width, m.Height) }

// At implements image.Image. Out-of-range coordinates return transparent black.
func (m *Image) At(x, y int) color.Color {
	r, g, b, a := m.RGBA(x, y)
	return color.NRGBA{R: r, G: g, B: b, A: a}
}

// RGBA returns the four channels at (x, y), or zeros when out of range.
func (m *Image) RGBA(x, y int) (r, g, b, a uint8) {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return 0, 0, 0, 0
	}
	i := (y*m.Width + x) * 4
	return m.Pix[i], m.Pix[i+1], m.Pix[i+2], m.Pix[i+3]
}

// SetRGBA writes the four channels at (x, y). Out-of-range writes are ignored.
func (m *Image) SetRGBA(x, y int, r, g, b, a uint8) {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return
	}
	i := (y*m.Width + x) * 4
	m.Pix[i], m.Pix[i+1], m.Pix[i+2], m.Pix[i+3] = r, g, b, a
}

// Gray is an 8-bit luminance buffer derived from an Image.
type Gray struct {
	Width  int
	Height int
	Pix    []uint8
}

// NewGray allocates a zeroed luminance buffer.
func NewGray(width, height int) *Gray {
	return &Gray{Width: width, Height: height, Pix: make([]uint8, width*height)}
}

// At returns the luminance at (x, y), or 0 when out of range.
func (g *Gray) At(x, y int) uint8 {
	if x < 0 || y < 0 || x >= g.Width || y >= g.Height {
		return 0
	}
	return g.Pix[y*g.Width+x]
}

// Set writes the luminance at (x, y). Out-of-range writes are ignored.
func (g *Gray) Set(x, y int, v uint8) {
	if x < 0 || y < 0 || x >= g.Width || y >= g.Height {
		return
	}
	g.Pix[y*g.Width+x] = v
}

// Mask is a binary grid whose cells are exactly 0 or 255. Set cells are
// "line material"; downstream code may simply test > 0.
type Mask struct {
	Width  int
	Height int
	Pix    []uint8
}

// NewMask allocates an all-unset mask.
func NewMask(width, height int) *Mask {
	return &Mask{Width: width, Height: height, Pix: make([]uint8, width*height)}
}

// At reports whether the cell at (x, y) is set. Out-of-range cells are unset.
func (m *Mask) At(x, y int) bool {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return false
	}
	return m.Pix[y*m.Width+x] > 0
}

// Set marks or clears the cell at (x, y). Out-of-range writes are ignored.
func (m *Mask) Set(x, y int, on bool) {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return
	}
	if on {
		m.Pix[y*m.Width+x] = 255
	} else {
		m.Pix[y*m.Width+x] = 0
	}
}

// Count returns the number of set cells.
func (m *Mask) Count() int {
	n := 0
	for _, v := range m.Pix {
		if v > 0 {
			n++
		}
	}
	return n
}

// Clone returns a deep copy of the mask.
func (m *Mask) Clone() *Mask {
	out := NewMask(m.Width, m.Height)
	copy(out.Pix, m.Pix)
	return out
}

// Gradient holds per-pixel gradient magnitude and direction (radians),
// as produced by the Sobel and Prewitt operators.
type Gradient struct {
	Width     int
	Height    int
	Magnitude []float32
	Direction []float32
}

// NewGradient allocates a zeroed gradient buffer.
func NewGradient(width, height int) *Gradient {
	n := width * height
	return &Gradient{
		Width:     width,
		Height:    height,
		Magnitude: make([]float32, n),
		Direction: make([]float32, n),
	}
}

// MagnitudeAt returns the gradient magnitude at (x, y), or 0 when out of range.
func (g *Gradient) MagnitudeAt(x, y int) float32 {
	if x < 0 || y < 0 || x >= g.Width || y >= g.Height {
		return 0
	}
	return g.Magnitude[y*g.Width+x]
}

// Field is a float32 grid used for distance transforms and convolution
// scratch space.
type Field struct {
	Width  int
	Height int
	Pix    []float32
}

// NewField allocates a zeroed field.
func NewField(width, height int) *Field {
	return &Field{Width: width, Height: height, Pix: make([]float32, width*height)}
}

// NewFieldFilled allocates a field with every cell set to v.
func NewFieldFilled(width, height int, v float32) *Field {
	f := NewField(width, height)
	for i := range f.Pix {
		f.Pix[i] = v
	}
	return f
}

// At returns the value at (x, y). Out-of-range reads return +Inf so that
// distance-transform min() chains ignore them.
func (f *Field) At(x, y int) float32 {
	if x < 0 || y < 0 || x >= f.Width || y >= f.Height {
		return float32(math.Inf(1))
	}
	return f.Pix[y*f.Width+x]
}

// Set writes the value at (x, y). Out-of-range writes are ignored.
func (f *Field) Set(x, y int, v float32) {
	if x < 0 || y < 0 || x >= f.Width || y >= f.Height {
		return
	}
	f.Pix[y*f.Width+x] = v
}
