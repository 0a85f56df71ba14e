package refine

import "github.com/mjsolidarios/image-cad-to-svg/internal/raster"

// Score is an accuracy snapshot comparing a rendered path mask against the
// reference mask.
type Score struct {
	Precision         float64 `json:"precision"`
	Recall            float64 `json:"recall"`
	F1Score           float64 `json:"f1_score"`
	MeanDistanceError float64 `json:"mean_distance_error"`
	SVGMatched        int     `json:"svg_matched"`
	RefMatched        int     `json:"ref_matched"`
	SVGTotal          int     `json:"svg_total"`
	RefTotal          int     `json:"ref_total"`
}

// Measure scores a rendered mask against the reference within a pixel
// tolerance.
//
// Precision counts rendered pixels with a reference pixel within tolerance;
// recall counts reference pixels with a rendered pixel within tolerance.
// F1 is their harmonic mean. Any zero denominator yields zero rather than
// NaN.
func Measure(reference, rendered *raster.Mask, tolerance float64) Score {
	refDist := DistanceTransform(reference)
	renDist := DistanceTransform(rendered)
	return measureWith(reference, rendered, refDist, renDist, tolerance)
}

// measureWith scores using precomputed distance transforms, letting the
// refinement loop reuse fields between strategies.
func measureWith(reference, rendered *raster.Mask, refDist, renDist *raster.Field, tolerance float64) Score {
	tol := float32(tolerance)
	var s Score
	var distSum float64

	for i, v := range rendered.Pix {
		if v == 0 {
			continue
		}
		s.SVGTotal++
		d := refDist.Pix[i]
		distSum += float64(d)
		if d <= tol {
			s.SVGMatched++
		}
	}
	for i, v := range reference.Pix {
		if v == 0 {
			continue
		}
		s.RefTotal++
		if renDist.Pix[i] <= tol {
			s.RefMatched++
		}
	}

	if s.SVGTotal > 0 {
		s.Precision = float64(s.SVGMatched) / float64(s.SVGTotal)
		s.MeanDistanceError = distSum / float64(s.SVGTotal)
	}
	if s.RefTotal > 0 {
		s.Recall = float64(s.RefMatched) / float64(s.RefTotal)
	}
	if s.Precision+s.Recall > 0 {
		s.F1Score = 2 * s.Precision * s.Recall / (s.Precision + s.Recall)
	}
	return s
}
