package convert

import (
	"github.com/mjsolidarios/image-cad-to-svg/internal/palette"
	"github.com/mjsolidarios/image-cad-to-svg/internal/refine"
	"github.com/mjsolidarios/image-cad-to-svg/internal/svgout"
)

// Edge extraction method selectors.
const (
	EdgeSkeleton  = "skeleton"
	EdgeCanny     = "canny"
	EdgeSobel     = "sobel"
	EdgePrewitt   = "prewitt"
	EdgeRoberts   = "roberts"
	EdgeLaplacian = "laplacian"
)

// Contour tracing method selectors.
const (
	ContourEdgeChain       = "edge-chain"
	ContourMoore           = "moore"
	ContourSuzuki          = "suzuki"
	ContourMarchingSquares = "marching-squares"
)

// Point reduction method selectors.
const (
	SimplifyDouglasPeucker = "douglas-peucker"
	SimplifyVisvalingam    = "visvalingam"
	SimplifyReumannWitkam  = "reumann-witkam"
)

// Curve smoothing method selectors.
const (
	SmoothChaikin       = "chaikin"
	SmoothMovingAverage = "moving-average"
	SmoothGaussian      = "gaussian"
	SmoothBezier        = "bezier"
)

// Palette quantization method selectors.
const (
	QuantizeKMeans    = "kmeans"
	QuantizeMedianCut = "median-cut"
)

// EdgeOptions selects and tunes the binary/edge extraction stage.
type EdgeOptions struct {
	// Method is one of the Edge* selectors.
	Method string `json:"method"`

	// LowThreshold and HighThreshold drive Canny hysteresis; HighThreshold
	// alone thresholds the plain gradient methods. Range 0-255.
	LowThreshold  float64 `json:"low_threshold"`
	HighThreshold float64 `json:"high_threshold"`

	// GaussianBlur is the blur sigma; zero disables blurring.
	GaussianBlur float64 `json:"gaussian_blur"`

	// ApplyNoiseReduction runs a 3x3 median filter before extraction.
	ApplyNoiseReduction bool `json:"apply_noise_reduction"`

	// CloseIterations applies a morphological close after extraction to
	// bridge one-pixel gaps. Zero disables it.
	CloseIterations int `json:"close_iterations"`
}

// ContourOptions selects and tunes the tracing stage.
type ContourOptions struct {
	// Method is one of the Contour* selectors.
	Method string `json:"method"`

	// MinArea and MaxArea filter traced contours; MaxArea <= 0 means
	// unbounded above.
	MinArea float64 `json:"min_area"`
	MaxArea float64 `json:"max_area"`

	// Simplify reduces each contour with SimplifyMethod at Tolerance.
	// An empty SimplifyMethod means Douglas–Peucker.
	Simplify       bool    `json:"simplify"`
	SimplifyMethod string  `json:"simplify_method,omitempty"`
	Tolerance      float64 `json:"tolerance"`

	// RelativeTolerance, when positive, overrides Tolerance with a
	// percentage of each contour's bounding-box diagonal.
	RelativeTolerance float64 `json:"relative_tolerance,omitempty"`

	// TargetPointCount is the per-contour point budget for the
	// Visvalingam–Whyatt method.
	TargetPointCount int `json:"target_point_count,omitempty"`
}

// ColorOptions tunes palette extraction.
type ColorOptions struct {
	// MaxColors caps the palette size.
	MaxColors int `json:"max_colors"`

	// MinPercentage is the share of image pixels a color bin needs to enter
	// the palette.
	MinPercentage float64 `json:"min_percentage"`

	// Quantize reduces the palette beyond the histogram bins using
	// QuantizeMethod: k-means clustering (default) or median cut.
	Quantize       bool   `json:"quantize"`
	QuantizeMethod string `json:"quantize_method,omitempty"`

	// IgnoreBackground excludes background-colored pixels from the palette.
	IgnoreBackground bool `json:"ignore_background"`

	// BackgroundColor overrides background detection when non-nil.
	BackgroundColor *palette.Color `json:"background_color,omitempty"`
}

// RefinementOptions tunes the accuracy-driven refinement loop.
type RefinementOptions struct {
	Enabled           bool    `json:"enabled"`
	TargetAccuracy    float64 `json:"target_accuracy"`
	MaxIterations     int     `json:"max_iterations"`
	SnapRadius        int     `json:"snap_radius"`
	GapFillMinCluster int     `json:"gap_fill_min_cluster"`
	SpuriousThreshold float64 `json:"spurious_threshold"`
	DistanceTolerance float64 `json:"distance_tolerance"`
}

// Options is the full per-invocation parameter record.
type Options struct {
	// InvertColors flips each color channel before any other stage, for
	// light-on-dark drawings.
	InvertColors bool `json:"invert_colors"`

	EdgeDetection    EdgeOptions       `json:"edge_detection"`
	ContourDetection ContourOptions    `json:"contour_detection"`
	SVG              svgout.Options    `json:"svg"`
	ColorExtraction  ColorOptions      `json:"color_extraction"`
	Refinement       RefinementOptions `json:"refinement"`

	// SmoothCurves smooths each path after simplification using
	// SmoothMethod (Chaikin corner cutting by default); CurveTension in
	// [0, 1] scales how aggressively. Bézier smoothing fits cubic segments
	// and flattens them back to polylines at emission fidelity.
	SmoothCurves bool    `json:"smooth_curves"`
	SmoothMethod string  `json:"smooth_method,omitempty"`
	CurveTension float64 `json:"curve_tension"`

	// DetectLayers groups paths into color layers.
	DetectLayers bool `json:"detect_layers"`

	// MergeSimilarPaths joins open paths whose endpoints are within
	// PathMergeThreshold pixels and whose colors match.
	MergeSimilarPaths  bool    `json:"merge_similar_paths"`
	PathMergeThreshold float64 `json:"path_merge_threshold"`
}

// DefaultOptions returns the standard conversion parameters: skeleton
// centerline extraction, edge-chain tracing, simplification at one pixel,
// layer detection, and refinement toward F1 0.85.
func DefaultOptions() Options {
	return Options{
		EdgeDetection: EdgeOptions{
			Method:        EdgeSkeleton,
			LowThreshold:  50,
			HighThreshold: 150,
			GaussianBlur:  1.4,
		},
		ContourDetection: ContourOptions{
			Method:    ContourEdgeChain,
			MinArea:   2,
			Simplify:  true,
			Tolerance: 1,
		},
		SVG: svgout.DefaultOptions(),
		ColorExtraction: ColorOptions{
			MaxColors:        10,
			MinPercentage:    0.1,
			IgnoreBackground: true,
		},
		Refinement: RefinementOptions{
			Enabled:           true,
			TargetAccuracy:    0.85,
			MaxIterations:     3,
			SnapRadius:        3,
			GapFillMinCluster: 20,
			SpuriousThreshold: 0.7,
			DistanceTolerance: 2,
		},
		DetectLayers:       true,
		CurveTension:       0.5,
		PathMergeThreshold: 3,
	}
}

// refineConfig maps the option record onto the refiner's config.
func (o RefinementOptions) refineConfig() refine.Config {
	return refine.Config{
		TargetF1:          o.TargetAccuracy,
		MaxIterations:     o.MaxIterations,
		Tolerance:         o.DistanceTolerance,
		SnapRadius:        o.SnapRadius,
		GapFillMinCluster: o.GapFillMinCluster,
		SpuriousThreshold: o.SpuriousThreshold,
	}
}
