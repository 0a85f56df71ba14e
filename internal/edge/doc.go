// Package edge turns a grayscale drawing into a binary mask of line pixels.
//
// Two families of extraction are provided and selected per invocation:
//
//   - Centerline: threshold the dark foreground and thin it to a one-pixel
//     skeleton with the Zhang–Suen algorithm. Pairs with the edge-chain
//     tracer; each stroke yields a single polyline.
//   - Gradient: Canny edge detection (Gaussian blur, Sobel gradients,
//     non-maximum suppression, dual-threshold hysteresis), or a plain
//     thresholded gradient magnitude from the Sobel, Prewitt, Roberts, or
//     Laplacian operators. Yields stroke outlines rather than centerlines.
//
// An optional morphological close can be applied to either result to bridge
// one-pixel gaps before tracing.
package edge
