package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/mjsolidarios/image-cad-to-svg/internal/convert"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("cad2svg %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		}
	}

	var (
		output        = flag.String("o", "", "output SVG path (default: stdout)")
		edgeMethod    = flag.String("edge", convert.EdgeSkeleton, "edge method: skeleton, canny, sobel, prewitt, roberts, laplacian")
		contourMethod = flag.String("contour", convert.ContourEdgeChain, "contour method: edge-chain, moore, suzuki, marching-squares")
		lowThreshold  = flag.Float64("low", 50, "low edge threshold (0-255)")
		highThreshold = flag.Float64("high", 150, "high edge threshold (0-255)")
		blur          = flag.Float64("blur", 1.4, "Gaussian blur sigma (0 disables)")
		noise         = flag.Bool("denoise", false, "apply median noise reduction")
		invert        = flag.Bool("invert", false, "invert colors before processing")
		tolerance     = flag.Float64("tolerance", 1, "simplification tolerance in pixels")
		smooth        = flag.Bool("smooth", false, "smooth curves with corner cutting")
		precision     = flag.Int("precision", 3, "output decimal precision (0-6)")
		optimize      = flag.Bool("optimize", false, "optimize path data")
		layers        = flag.Bool("layers", true, "group paths into color layers")
		refinement    = flag.Bool("refine", true, "run accuracy-driven refinement")
	)
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "cad2svg - convert a raster CAD drawing to SVG polylines")
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, "Usage: cad2svg [options] <input image>")
		fmt.Fprintln(os.Stderr)
		flag.PrintDefaults()
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, "Environment variables:")
		fmt.Fprintln(os.Stderr, "  CAD2SVG_LOG_LEVEL=debug    Enable debug logging")
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	debug := os.Getenv("CAD2SVG_LOG_LEVEL") == "debug"
	if debug {
		log.Printf("cad2svg v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
	}

	data, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		log.Fatalf("Failed to read input: %v", err)
	}

	opts := convert.DefaultOptions()
	opts.InvertColors = *invert
	opts.EdgeDetection.Method = *edgeMethod
	opts.EdgeDetection.LowThreshold = *lowThreshold
	opts.EdgeDetection.HighThreshold = *highThreshold
	opts.EdgeDetection.GaussianBlur = *blur
	opts.EdgeDetection.ApplyNoiseReduction = *noise
	opts.ContourDetection.Method = *contourMethod
	opts.ContourDetection.Tolerance = *tolerance
	opts.ContourDetection.Simplify = *tolerance > 0
	opts.SmoothCurves = *smooth
	opts.SVG.Precision = *precision
	opts.SVG.Optimize = *optimize
	opts.DetectLayers = *layers
	opts.Refinement.Enabled = *refinement

	result, err := convert.ConvertBytes(data, opts)
	if err != nil {
		log.Fatalf("Conversion failed: %v", err)
	}

	if debug {
		log.Printf("%d paths, %d layers in %dms",
			result.Metadata.PathCount, result.Metadata.LayerCount, result.Metadata.DurationMS)
		if result.Refinement != nil {
			log.Printf("refinement: F1 %.3f -> %.3f in %d iterations",
				result.Refinement.BeforeScore.F1Score,
				result.Refinement.AfterScore.F1Score,
				result.Refinement.IterationsUsed)
		}
	}

	if *output == "" {
		fmt.Print(result.SVG)
		return
	}
	if err := os.WriteFile(*output, []byte(result.SVG), 0o644); err != nil {
		log.Fatalf("Failed to write output: %v", err)
	}
}
