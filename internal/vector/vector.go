// Package vector holds the path and layer model that carries polylines from
// tracing through coloring, refinement, and emission.
package vector

import (
	"fmt"

	"github.com/mjsolidarios/image-cad-to-svg/internal/geom"
	"github.com/mjsolidarios/image-cad-to-svg/internal/palette"
)

// Path is a colored polyline flowing through the pipeline.
type Path struct {
	// ID identifies the path inside the emitted document.
	ID string `json:"id,omitempty"`

	// Points is the polyline in draw order.
	Points geom.Polyline `json:"points"`

	// Closed marks the first and last points as joined; the emitter appends
	// a close command for closed paths.
	Closed bool `json:"closed"`

	// Color is the palette entry assigned to the path.
	Color palette.Color `json:"color"`

	// StrokeWidth in pixels; zero means the document default.
	StrokeWidth float64 `json:"stroke_width,omitempty"`

	// Layer is the id of the layer the path was grouped into, empty before
	// grouping.
	Layer string `json:"layer,omitempty"`
}

// Layer groups paths whose colors fall in the same bucket.
type Layer struct {
	ID      string        `json:"id"`
	Name    string        `json:"name"`
	Color   palette.Color `json:"color"`
	Visible bool          `json:"visible"`
	Locked  bool          `json:"locked"`
	Paths   []*Path       `json:"-"`
}

// GroupLayers buckets paths by greedy nearest color: each path joins the
// nearest existing layer whose color is within threshold (the later layer on
// equal distance), else it opens a new layer. Layers keep the insertion order of their first path so emitted
// documents stay deterministic.
func GroupLayers(paths []*Path, threshold float64) []*Layer {
	if threshold <= 0 {
		threshold = 30
	}
	var layers []*Layer
	for _, p := range paths {
		var home *Layer
		bestDist := threshold
		for _, l := range layers {
			if d := p.Color.Distance(l.Color); d <= bestDist {
				home = l
				bestDist = d
			}
		}
		if home == nil {
			home = &Layer{
				ID:      fmt.Sprintf("layer-%d", len(layers)),
				Name:    fmt.Sprintf("Layer %d (%s)", len(layers)+1, p.Color.Hex()),
				Color:   p.Color,
				Visible: true,
			}
			layers = append(layers, home)
		}
		p.Layer = home.ID
		home.Paths = append(home.Paths, p)
	}
	return layers
}

// ColorGroups returns a histogram of path counts per color hex, insertion
// ordered by first occurrence.
func ColorGroups(paths []*Path) ([]string, map[string]int) {
	counts := map[string]int{}
	var order []string
	for _, p := range paths {
		hex := p.Color.Hex()
		if _, seen := counts[hex]; !seen {
			order = append(order, hex)
		}
		counts[hex]++
	}
	return order, counts
}
