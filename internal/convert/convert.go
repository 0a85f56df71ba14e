// Package convert orchestrates the raster-to-vector pipeline: preprocessing,
// binary/edge extraction, contour tracing, simplification, color analysis,
// refinement, and SVG emission, in that fixed order.
//
// The pipeline is a synchronous pure function over in-memory buffers: each
// stage consumes the previous stage's output, nothing is retained between
// invocations, and there are no suspension points inside a stage. Hosts that
// want cancellation or progress wrap the call from the outside.
package convert

import (
	"fmt"
	"time"

	"github.com/mjsolidarios/image-cad-to-svg/internal/edge"
	"github.com/mjsolidarios/image-cad-to-svg/internal/geom"
	"github.com/mjsolidarios/image-cad-to-svg/internal/palette"
	"github.com/mjsolidarios/image-cad-to-svg/internal/preprocess"
	"github.com/mjsolidarios/image-cad-to-svg/internal/raster"
	"github.com/mjsolidarios/image-cad-to-svg/internal/refine"
	"github.com/mjsolidarios/image-cad-to-svg/internal/svgout"
	"github.com/mjsolidarios/image-cad-to-svg/internal/trace"
	"github.com/mjsolidarios/image-cad-to-svg/internal/vector"
)

// Metadata summarizes one conversion.
type Metadata struct {
	// OriginalFormat is the decoded input format tag ("png", "jpeg", ...)
	// when known, empty for raw pixel buffers.
	OriginalFormat string `json:"original_format,omitempty"`

	// DurationMS is the wall-clock conversion time in milliseconds.
	DurationMS int64 `json:"duration_ms"`

	PathCount  int `json:"path_count"`
	LayerCount int `json:"layer_count"`
}

// ColorGroup is one entry of the color histogram: a stroke color and the
// number of paths carrying it.
type ColorGroup struct {
	Color string `json:"color"`
	Count int    `json:"count"`
}

// Result is the output of one conversion.
type Result struct {
	// SVG is the serialized vector document.
	SVG string `json:"svg"`

	Width  int `json:"width"`
	Height int `json:"height"`

	// Paths are the final polylines, post-refinement, in emission order.
	Paths []*vector.Path `json:"paths"`

	// Layers are the color layers, empty when layer detection is off.
	Layers []*vector.Layer `json:"layers"`

	// ColorGroups is the per-color path histogram, insertion ordered.
	ColorGroups []ColorGroup `json:"color_groups"`

	Metadata Metadata `json:"metadata"`

	// Refinement reports the before/after scores when refinement ran.
	Refinement *refine.Report `json:"refinement,omitempty"`
}

// Convert runs the full pipeline over a decoded image.
//
// The format tag, when known from decoding, is recorded in the result
// metadata. Errors are stage-tagged; unexpected stage failures surface as
// KindProcessingFailed with the cause preserved.
func Convert(img *raster.Image, format string, opts Options) (*Result, error) {
	start := time.Now()

	if img == nil || img.Width <= 0 || img.Height <= 0 {
		return nil, stageError("validate", KindInvalidImage, raster.ErrInvalidDimensions)
	}
	if len(img.Pix) != img.Width*img.Height*4 {
		return nil, stageError("validate", KindInvalidImage, raster.ErrBufferSize)
	}

	// Preprocess.
	work := img
	if opts.InvertColors {
		work = preprocess.Invert(work)
	}
	if opts.EdgeDetection.ApplyNoiseReduction {
		work = preprocess.Median(work)
	}
	gray := preprocess.Grayscale(work)

	// Binary/edge extraction.
	mask, err := extract(gray, opts.EdgeDetection)
	if err != nil {
		return nil, err
	}

	// Contour tracing.
	contours, err := traceContours(mask, gray, opts.ContourDetection)
	if err != nil {
		return nil, err
	}
	contours = trace.FilterByArea(contours, opts.ContourDetection.MinArea, opts.ContourDetection.MaxArea)

	// Simplification and smoothing.
	paths := make([]*vector.Path, 0, len(contours))
	for i, c := range contours {
		pts := c.Points
		if opts.ContourDetection.Simplify {
			pts, err = simplify(pts, opts.ContourDetection)
			if err != nil {
				return nil, err
			}
		}
		if opts.SmoothCurves {
			pts, err = smooth(pts, c.Closed, opts)
			if err != nil {
				return nil, err
			}
		}
		if len(pts) < 2 {
			continue
		}
		paths = append(paths, &vector.Path{
			ID:          fmt.Sprintf("path-%d", i),
			Points:      pts,
			Closed:      c.Closed,
			StrokeWidth: opts.SVG.StrokeWidth,
		})
	}

	// Color analysis.
	background := palette.DetectBackground(work)
	if opts.ColorExtraction.BackgroundColor != nil {
		background = *opts.ColorExtraction.BackgroundColor
	}
	entries := palette.Extract(work, background, opts.ColorExtraction.MaxColors,
		opts.ColorExtraction.MinPercentage, opts.ColorExtraction.IgnoreBackground)
	if opts.ColorExtraction.Quantize && len(entries) > 1 {
		switch opts.ColorExtraction.QuantizeMethod {
		case QuantizeMedianCut:
			entries = palette.MedianCut(entries, opts.ColorExtraction.MaxColors)
		default:
			entries = palette.KMeans(entries, opts.ColorExtraction.MaxColors)
		}
	}
	for _, p := range paths {
		mean := palette.SampleLine(work, p.Points, 10)
		p.Color = palette.Nearest(mean, entries)
	}

	if opts.MergeSimilarPaths {
		paths = mergeSimilarPaths(paths, opts.PathMergeThreshold)
	}

	// Refinement against the extraction mask as ground truth.
	var report *refine.Report
	if opts.Refinement.Enabled {
		var r refine.Report
		paths, r = refine.Refine(paths, mask, opts.Refinement.refineConfig())
		report = &r
	}

	// Layer grouping and emission.
	var layers []*vector.Layer
	if opts.DetectLayers {
		layers = vector.GroupLayers(paths, 30)
	}
	doc, err := svgout.Emit(img.Width, img.Height, paths, layers, opts.SVG)
	if err != nil {
		return nil, stageError("emit", KindProcessingFailed, err)
	}

	order, counts := vector.ColorGroups(paths)
	groups := make([]ColorGroup, 0, len(order))
	for _, hex := range order {
		groups = append(groups, ColorGroup{Color: hex, Count: counts[hex]})
	}

	return &Result{
		SVG:         doc,
		Width:       img.Width,
		Height:      img.Height,
		Paths:       paths,
		Layers:      layers,
		ColorGroups: groups,
		Metadata: Metadata{
			OriginalFormat: format,
			DurationMS:     time.Since(start).Milliseconds(),
			PathCount:      len(paths),
			LayerCount:     len(layers),
		},
		Refinement: report,
	}, nil
}

// ConvertBytes decodes raw image file bytes and converts them.
func ConvertBytes(data []byte, opts Options) (*Result, error) {
	img, format, err := raster.DecodeBytes(data)
	if err != nil {
		return nil, stageError("decode", KindUnsupportedFormat, err)
	}
	return Convert(img, format, opts)
}

// extract produces the binary mask for the selected edge method.
func extract(gray *raster.Gray, opts EdgeOptions) (*raster.Mask, error) {
	var mask *raster.Mask

	switch opts.Method {
	case EdgeSkeleton, "":
		// Thresholding runs on the unblurred grayscale: a blur wide enough
		// to matter also erases one-pixel strokes before thinning sees them.
		mask = edge.Thin(edge.Threshold(gray, edge.ForegroundThreshold))
	case EdgeCanny:
		mask = edge.Canny(gray, opts.GaussianBlur, float32(opts.LowThreshold), float32(opts.HighThreshold))
	case EdgeSobel:
		mask = edge.ThresholdGradient(edge.Sobel(blurred(gray, opts)), float32(opts.HighThreshold))
	case EdgePrewitt:
		mask = edge.ThresholdGradient(edge.Prewitt(blurred(gray, opts)), float32(opts.HighThreshold))
	case EdgeRoberts:
		mask = edge.ThresholdGradient(edge.Roberts(blurred(gray, opts)), float32(opts.HighThreshold))
	case EdgeLaplacian:
		mask = edge.ThresholdGradient(edge.Laplacian(blurred(gray, opts)), float32(opts.HighThreshold))
	default:
		return nil, stageError("edge", KindUnknownMethod, fmt.Errorf("unknown edge detection method %q", opts.Method))
	}

	if opts.CloseIterations > 0 {
		mask = edge.Close(mask, opts.CloseIterations)
	}
	return mask, nil
}

func blurred(gray *raster.Gray, opts EdgeOptions) *raster.Gray {
	if opts.GaussianBlur > 0 {
		return preprocess.GaussianBlur(gray, opts.GaussianBlur)
	}
	return gray
}

// traceContours runs the selected tracer. Marching squares reads the
// grayscale buffer directly for sub-pixel placement; the other modes walk
// the binary mask.
func traceContours(mask *raster.Mask, gray *raster.Gray, opts ContourOptions) ([]*trace.Contour, error) {
	switch opts.Method {
	case ContourEdgeChain, "":
		return trace.EdgeChains(mask), nil
	case ContourMoore:
		return trace.MooreContours(mask), nil
	case ContourSuzuki:
		contours, _ := trace.SuzukiContours(mask)
		return contours, nil
	case ContourMarchingSquares:
		return trace.MarchingSquares(gray, edge.ForegroundThreshold), nil
	default:
		return nil, stageError("trace", KindUnknownMethod, fmt.Errorf("unknown contour detection method %q", opts.Method))
	}
}

// simplify reduces a contour's points with the selected method.
func simplify(pts geom.Polyline, opts ContourOptions) (geom.Polyline, error) {
	tolerance := opts.Tolerance
	if opts.RelativeTolerance > 0 {
		min, max := pts.Bounds()
		tolerance = min.Distance(max) * opts.RelativeTolerance / 100
	}

	switch opts.SimplifyMethod {
	case SimplifyDouglasPeucker, "":
		if opts.RelativeTolerance > 0 {
			return geom.DouglasPeuckerRelative(pts, opts.RelativeTolerance), nil
		}
		if tolerance <= 0 {
			return pts, nil
		}
		return geom.DouglasPeucker(pts, tolerance), nil
	case SimplifyVisvalingam:
		target := opts.TargetPointCount
		if target <= 0 {
			target = len(pts) / 4
		}
		return geom.Visvalingam(pts, target), nil
	case SimplifyReumannWitkam:
		if tolerance <= 0 {
			return pts, nil
		}
		return geom.ReumannWitkam(pts, tolerance), nil
	default:
		return nil, stageError("simplify", KindUnknownMethod, fmt.Errorf("unknown simplify method %q", opts.SimplifyMethod))
	}
}

// smooth applies the selected smoothing to a path. Bézier smoothing fits
// cubic segments and flattens them back into a polyline.
func smooth(pts geom.Polyline, closed bool, opts Options) (geom.Polyline, error) {
	tension := opts.CurveTension
	if tension < 0 {
		tension = 0
	}
	if tension > 1 {
		tension = 1
	}

	switch opts.SmoothMethod {
	case SmoothChaikin, "":
		return geom.Chaikin(pts, 1+int(tension*2+0.5), closed), nil
	case SmoothMovingAverage:
		return geom.MovingAverage(pts, 1+int(tension*2+0.5)), nil
	case SmoothGaussian:
		return geom.GaussianSmooth(pts, 0.5+tension*2), nil
	case SmoothBezier:
		curves := geom.FitBeziers(pts, 1+(1-tension)*3)
		if len(curves) == 0 {
			return pts, nil
		}
		out := geom.Polyline{curves[0].P0}
		for _, c := range curves {
			for _, t := range []float64{0.25, 0.5, 0.75, 1} {
				out = append(out, c.Eval(t))
			}
		}
		return out, nil
	default:
		return nil, stageError("smooth", KindUnknownMethod, fmt.Errorf("unknown smooth method %q", opts.SmoothMethod))
	}
}
