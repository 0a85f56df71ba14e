// Package raster defines the pixel buffer types that flow through the
// vectorization pipeline and the decode boundary that produces them.
//
// All buffers are row-major and index as y*Width + x. The coordinate system
// follows the usual image convention: (0,0) is the top-left corner, X grows
// rightward, Y grows downward. Out-of-range reads return the zero value for
// the buffer's element type, except Field, which returns +Inf; callers never
// need to bounds-check before sampling.
//
// # Buffer Types
//
//   - Image: 8-bit RGBA, the decoded input. Read-only after creation.
//   - Gray: 8-bit luminance, derived from an Image.
//   - Mask: binary grid whose cells are exactly 0 or 255.
//   - Gradient: per-pixel float32 magnitude and direction (radians).
//   - Field: float32 grid, used for distance transforms and blur scratch.
//
// # Ownership
//
// Each pipeline stage consumes immutable inputs and allocates a new output.
// Buffers are never mutated across a stage boundary, which is what allows
// the refiner to keep the reference mask alive while re-rasterizing.
package raster
