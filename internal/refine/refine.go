package refine

import (
	"math"

	"github.com/mjsolidarios/image-cad-to-svg/internal/geom"
	"github.com/mjsolidarios/image-cad-to-svg/internal/palette"
	"github.com/mjsolidarios/image-cad-to-svg/internal/raster"
	"github.com/mjsolidarios/image-cad-to-svg/internal/trace"
	"github.com/mjsolidarios/image-cad-to-svg/internal/vector"
)

// Config tunes the refinement loop. Zero values fall back to the defaults
// below.
type Config struct {
	// TargetF1 is the score at which refinement stops early.
	TargetF1 float64

	// MaxIterations caps the number of full improvement passes.
	MaxIterations int

	// Tolerance is the pixel radius within which a rendered pixel matches a
	// reference pixel.
	Tolerance float64

	// SnapRadius bounds the square search window when snapping points onto
	// reference pixels.
	SnapRadius int

	// GapFillMinCluster is the smallest unmatched reference component that
	// gets re-traced into a new path.
	GapFillMinCluster int

	// SpuriousThreshold is the unmatched-point fraction above which a path
	// is dropped during spurious removal.
	SpuriousThreshold float64
}

// DefaultConfig returns the standard refinement parameters.
func DefaultConfig() Config {
	return Config{
		TargetF1:          0.85,
		MaxIterations:     3,
		Tolerance:         2,
		SnapRadius:        3,
		GapFillMinCluster: 20,
		SpuriousThreshold: 0.7,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.TargetF1 <= 0 {
		c.TargetF1 = d.TargetF1
	}
	if c.MaxIterations <= 0 {
		c.MaxIterations = d.MaxIterations
	}
	if c.Tolerance <= 0 {
		c.Tolerance = d.Tolerance
	}
	if c.SnapRadius <= 0 {
		c.SnapRadius = d.SnapRadius
	}
	if c.GapFillMinCluster <= 0 {
		c.GapFillMinCluster = d.GapFillMinCluster
	}
	if c.SpuriousThreshold <= 0 {
		c.SpuriousThreshold = d.SpuriousThreshold
	}
	return c
}

// Report records the refinement outcome: the score before the first
// strategy ran, the score of the returned path set, and the number of full
// iterations performed (zero when the initial score already met the
// target).
type Report struct {
	BeforeScore    Score `json:"before_score"`
	AfterScore     Score `json:"after_score"`
	IterationsUsed int   `json:"iterations_used"`
}

// Refine iterates the improvement strategies over the path set until the
// target F1 is met or the iteration cap is reached.
//
// The strategies run in a fixed order each iteration: remove spurious paths
// (when precision lags), snap points to reference pixels, re-simplify paths
// whose mean reference distance exceeds the tolerance, and trace unmatched
// reference clusters into new paths (when recall lags). The best-scoring
// path set seen is returned, so a strategy that backfires never ships a
// regression.
func Refine(paths []*vector.Path, reference *raster.Mask, cfg Config) ([]*vector.Path, Report) {
	cfg = cfg.withDefaults()
	refDist := DistanceTransform(reference)

	score := scorePaths(paths, reference, refDist, cfg.Tolerance)
	report := Report{BeforeScore: score, AfterScore: score}

	if score.RefTotal == 0 && score.SVGTotal == 0 {
		// Empty drawing, empty reconstruction: nothing to improve.
		return paths, report
	}

	best := paths
	bestScore := score

	for iter := 0; iter < cfg.MaxIterations; iter++ {
		if score.F1Score >= cfg.TargetF1 {
			break
		}
		report.IterationsUsed = iter + 1

		// Work on copies so the strategies never alter the set held in best.
		next := make([]*vector.Path, len(paths))
		for i, p := range paths {
			cp := *p
			cp.Points = append(p.Points[:0:0], p.Points...)
			next[i] = &cp
		}
		paths = next

		if score.Precision < cfg.TargetF1 {
			paths = removeSpurious(paths, refDist, cfg.SpuriousThreshold)
		}
		paths = snapToEdges(paths, reference, cfg.SnapRadius)
		paths = resimplify(paths, refDist, cfg.Tolerance)
		if score.Recall < cfg.TargetF1 {
			paths = fillGaps(paths, reference, cfg)
		}

		score = scorePaths(paths, reference, refDist, cfg.Tolerance)
		if score.F1Score > bestScore.F1Score {
			best = paths
			bestScore = score
		}
	}

	report.AfterScore = bestScore
	return best, report
}

// scorePaths rasterizes the paths and measures them against the reference.
func scorePaths(paths []*vector.Path, reference *raster.Mask, refDist *raster.Field, tolerance float64) Score {
	rendered := Rasterize(paths, reference.Width, reference.Height)
	return measureWith(reference, rendered, refDist, DistanceTransform(rendered), tolerance)
}

// removeSpurious drops paths mostly unsupported by the reference: those
// whose fraction of points without a reference pixel within radius 2
// exceeds the threshold, and any path with fewer than 3 points.
func removeSpurious(paths []*vector.Path, refDist *raster.Field, threshold float64) []*vector.Path {
	const supportRadius = 2
	out := paths[:0:0]
	for _, p := range paths {
		if len(p.Points) < 3 {
			continue
		}
		unmatched := 0
		for _, pt := range p.Points {
			if refDist.At(int(math.Round(pt.X)), int(math.Round(pt.Y))) > supportRadius {
				unmatched++
			}
		}
		if float64(unmatched)/float64(len(p.Points)) > threshold {
			continue
		}
		out = append(out, p)
	}
	return out
}

// snapToEdges moves each point that is not already on a reference pixel to
// the nearest reference pixel inside a square window of the snap radius.
// Ties resolve to the smaller squared distance, then scan order.
func snapToEdges(paths []*vector.Path, reference *raster.Mask, snapRadius int) []*vector.Path {
	for _, p := range paths {
		for i, pt := range p.Points {
			x := int(math.Round(pt.X))
			y := int(math.Round(pt.Y))
			if reference.At(x, y) {
				continue
			}
			bestX, bestY, bestSq := 0, 0, math.MaxInt
			for dy := -snapRadius; dy <= snapRadius; dy++ {
				for dx := -snapRadius; dx <= snapRadius; dx++ {
					if !reference.At(x+dx, y+dy) {
						continue
					}
					if sq := dx*dx + dy*dy; sq < bestSq {
						bestX, bestY, bestSq = x+dx, y+dy, sq
					}
				}
			}
			if bestSq != math.MaxInt {
				p.Points[i] = geom.Point{X: float64(bestX), Y: float64(bestY)}
			}
		}
	}
	return paths
}

// resimplify re-runs Douglas–Peucker at half the default tolerance on paths
// whose points sit too far from the reference on average, recovering detail
// lost to an over-aggressive first simplification.
func resimplify(paths []*vector.Path, refDist *raster.Field, tolerance float64) []*vector.Path {
	const fineTolerance = 0.5
	for _, p := range paths {
		if len(p.Points) == 0 {
			continue
		}
		sum := 0.0
		for _, pt := range p.Points {
			sum += float64(refDist.At(int(math.Round(pt.X)), int(math.Round(pt.Y))))
		}
		if sum/float64(len(p.Points)) > tolerance {
			p.Points = geom.DouglasPeucker(p.Points, fineTolerance)
		}
	}
	return paths
}

// fillGaps finds reference pixels far from every rendered pixel, labels
// their 8-connected components, and traces each component of sufficient
// size into a new path. Traced paths default to black; a cluster whose
// trace yields nothing is skipped.
func fillGaps(paths []*vector.Path, reference *raster.Mask, cfg Config) []*vector.Path {
	const (
		gapMinArea   = 5
		gapTolerance = 1.0
	)

	rendered := Rasterize(paths, reference.Width, reference.Height)
	renDist := DistanceTransform(rendered)

	unmatched := raster.NewMask(reference.Width, reference.Height)
	for i, v := range reference.Pix {
		if v > 0 && renDist.Pix[i] > float32(cfg.Tolerance) {
			unmatched.Pix[i] = 255
		}
	}

	for _, cluster := range components(unmatched, cfg.GapFillMinCluster) {
		for _, c := range trace.MooreContours(cluster) {
			// Thin clusters trace to near-zero shoelace area; judge them by
			// perimeter so missing strokes still come back.
			if c.Area() < gapMinArea && c.Perimeter() < gapMinArea {
				continue
			}
			pts := geom.DouglasPeucker(c.Points, gapTolerance)
			if len(pts) < 2 {
				continue
			}
			paths = append(paths, &vector.Path{
				Points: pts,
				Closed: c.Closed,
				Color:  palette.Black,
			})
		}
	}
	return paths
}

// components splits a mask into per-component indicator masks, dropping
// components smaller than minSize pixels.
func components(mask *raster.Mask, minSize int) []*raster.Mask {
	w, h := mask.Width, mask.Height
	seen := make([]bool, w*h)
	var out []*raster.Mask

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !mask.At(x, y) || seen[y*w+x] {
				continue
			}
			comp := raster.NewMask(w, h)
			size := 0
			stack := [][2]int{{x, y}}
			seen[y*w+x] = true
			for len(stack) > 0 {
				p := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				comp.Set(p[0], p[1], true)
				size++
				for dy := -1; dy <= 1; dy++ {
					for dx := -1; dx <= 1; dx++ {
						nx, ny := p[0]+dx, p[1]+dy
						if nx < 0 || ny < 0 || nx >= w || ny >= h {
							continue
						}
						if mask.At(nx, ny) && !seen[ny*w+nx] {
							seen[ny*w+nx] = true
							stack = append(stack, [2]int{nx, ny})
						}
					}
				}
			}
			if size >= minSize {
				out = append(out, comp)
			}
		}
	}
	return out
}
