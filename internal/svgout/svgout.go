// Package svgout serializes colored path sets into a minimal SVG document:
// one group per layer, one stroked path element per polyline, numeric
// precision configurable with trailing zeros stripped.
package svgout

import (
	"encoding/xml"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/mjsolidarios/image-cad-to-svg/internal/vector"
)

// Options controls document serialization.
type Options struct {
	// StrokeWidth is the default stroke width for paths that carry none.
	StrokeWidth float64 `json:"stroke_width"`

	// Precision is the number of decimals for coordinates, 0 to 6.
	Precision int `json:"precision"`

	// Optimize collapses whitespace around path commands and uses H/V
	// shorthands when a coordinate matches the previous point within 0.1.
	Optimize bool `json:"optimize"`

	// AddMetadata embeds a metadata block with the Metadata fields.
	AddMetadata bool `json:"add_metadata"`

	// AddLayerGroups wraps each layer's paths in a <g> element.
	AddLayerGroups bool `json:"add_layer_groups"`

	// ViewBox overrides the default "0 0 width height" when non-empty.
	ViewBox string `json:"view_box,omitempty"`

	// Metadata strings; each value is XML-escaped on output.
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Creator     string `json:"creator,omitempty"`
	Date        string `json:"date,omitempty"`
	Source      string `json:"source,omitempty"`
}

// DefaultOptions returns the standard emitter settings.
func DefaultOptions() Options {
	return Options{StrokeWidth: 1, Precision: 3, AddLayerGroups: true}
}

type xmlMetadata struct {
	XMLName     xml.Name `xml:"metadata"`
	Title       string   `xml:"title,omitempty"`
	Description string   `xml:"description,omitempty"`
	Creator     string   `xml:"creator,omitempty"`
	Date        string   `xml:"date,omitempty"`
	Source      string   `xml:"source,omitempty"`
}

type xmlLinearColor struct {
	XMLName xml.Name `xml:"linearGradient"`
	ID      string   `xml:"id,attr"`
	Stop    struct {
		Offset string `xml:"offset,attr"`
		Color  string `xml:"stop-color,attr"`
	} `xml:"stop"`
}

type xmlDefs struct {
	XMLName xml.Name         `xml:"defs"`
	Colors  []xmlLinearColor `xml:"linearGradient"`
}

type xmlPath struct {
	XMLName     xml.Name `xml:"path"`
	ID          string   `xml:"id,attr,omitempty"`
	D           string   `xml:"d,attr"`
	Stroke      string   `xml:"stroke,attr"`
	StrokeWidth string   `xml:"stroke-width,attr"`
	Fill        string   `xml:"fill,attr"`
}

type xmlGroup struct {
	XMLName xml.Name  `xml:"g"`
	ID      string    `xml:"id,attr"`
	Name    string    `xml:"name,attr,omitempty"`
	Display string    `xml:"display,attr,omitempty"`
	Paths   []xmlPath `xml:"path"`
}

type xmlSVG struct {
	XMLName             xml.Name `xml:"svg"`
	Xmlns               string   `xml:"xmlns,attr"`
	Width               string   `xml:"width,attr"`
	Height              string   `xml:"height,attr"`
	ViewBox             string   `xml:"viewBox,attr"`
	PreserveAspectRatio string   `xml:"preserveAspectRatio,attr"`

	Metadata *xmlMetadata `xml:"metadata,omitempty"`
	Defs     *xmlDefs     `xml:"defs,omitempty"`
	Groups   []xmlGroup   `xml:"g"`
	Paths    []xmlPath    `xml:"path"`
}

// Emit serializes layers (or a flat path list when layer grouping is off)
// into an SVG document string.
func Emit(width, height int, paths []*vector.Path, layers []*vector.Layer, opts Options) (string, error) {
	viewBox := opts.ViewBox
	if viewBox == "" {
		viewBox = fmt.Sprintf("0 0 %d %d", width, height)
	}
	doc := xmlSVG{
		Xmlns:               "http://www.w3.org/2000/svg",
		Width:               strconv.Itoa(width),
		Height:              strconv.Itoa(height),
		ViewBox:             viewBox,
		PreserveAspectRatio: "xMidYMid meet",
	}

	if opts.AddMetadata {
		doc.Metadata = &xmlMetadata{
			Title:       opts.Title,
			Description: opts.Description,
			Creator:     opts.Creator,
			Date:        opts.Date,
			Source:      opts.Source,
		}
	}

	if defs := buildDefs(paths); defs != nil {
		doc.Defs = defs
	}

	if opts.AddLayerGroups && len(layers) > 0 {
		for _, layer := range layers {
			g := xmlGroup{ID: layer.ID, Name: layer.Name}
			if !layer.Visible {
				g.Display = "none"
			}
			for _, p := range layer.Paths {
				g.Paths = append(g.Paths, buildPath(p, opts))
			}
			doc.Groups = append(doc.Groups, g)
		}
	} else if len(paths) > 0 {
		for _, p := range paths {
			doc.Paths = append(doc.Paths, buildPath(p, opts))
		}
	} else {
		// An empty drawing still carries one empty group so consumers can
		// rely on the document's shape.
		doc.Groups = append(doc.Groups, xmlGroup{ID: "layer-0"})
	}

	data, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal svg document: %w", err)
	}
	return xml.Header + string(data) + "\n", nil
}

// buildDefs emits solid-color references when the drawing uses more than
// two stroke colors.
func buildDefs(paths []*vector.Path) *xmlDefs {
	var order []string
	seen := map[string]struct{}{}
	for _, p := range paths {
		hex := p.Color.Hex()
		if _, ok := seen[hex]; !ok {
			seen[hex] = struct{}{}
			order = append(order, hex)
		}
	}
	if len(order) <= 2 {
		return nil
	}
	defs := &xmlDefs{}
	for i, hex := range order {
		c := xmlLinearColor{ID: fmt.Sprintf("color-%d", i)}
		c.Stop.Offset = "0"
		c.Stop.Color = hex
		defs.Colors = append(defs.Colors, c)
	}
	return defs
}

func buildPath(p *vector.Path, opts Options) xmlPath {
	width := p.StrokeWidth
	if width <= 0 {
		width = opts.StrokeWidth
	}
	if width <= 0 {
		width = 1
	}
	return xmlPath{
		ID:          p.ID,
		D:           PathData(p, opts),
		Stroke:      p.Color.Hex(),
		StrokeWidth: FormatNumber(width, opts.Precision),
		Fill:        "none",
	}
}

// PathData renders a path's points as an absolute move-to followed by
// line-to commands, with a closing marker for closed paths.
func PathData(p *vector.Path, opts Options) string {
	if len(p.Points) == 0 {
		return ""
	}
	var b strings.Builder
	sep := " "
	if opts.Optimize {
		sep = ""
	}

	writeCoord := func(cmd byte, x, y float64) {
		b.WriteByte(cmd)
		b.WriteString(sep)
		b.WriteString(FormatNumber(x, opts.Precision))
		b.WriteByte(' ')
		b.WriteString(FormatNumber(y, opts.Precision))
	}

	writeCoord('M', p.Points[0].X, p.Points[0].Y)
	prev := p.Points[0]
	for _, pt := range p.Points[1:] {
		if opts.Optimize {
			b.WriteString(sep)
		} else {
			b.WriteByte(' ')
		}
		switch {
		case opts.Optimize && math.Abs(pt.Y-prev.Y) <= 0.1:
			b.WriteByte('H')
			b.WriteString(sep)
			b.WriteString(FormatNumber(pt.X, opts.Precision))
		case opts.Optimize && math.Abs(pt.X-prev.X) <= 0.1:
			b.WriteByte('V')
			b.WriteString(sep)
			b.WriteString(FormatNumber(pt.Y, opts.Precision))
		default:
			writeCoord('L', pt.X, pt.Y)
		}
		prev = pt
	}
	if p.Closed {
		if !opts.Optimize {
			b.WriteByte(' ')
		}
		b.WriteByte('Z')
	}
	return b.String()
}

// FormatNumber renders v with the given decimal precision, stripping
// trailing zeros and a dangling decimal point.
func FormatNumber(v float64, precision int) string {
	if precision < 0 {
		precision = 0
	}
	if precision > 6 {
		precision = 6
	}
	s := strconv.FormatFloat(v, 'f', precision, 64)
	if strings.ContainsRune(s, '.') {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}
	if s == "-0" {
		s = "0"
	}
	return s
}
