// Package trace walks binary masks into ordered point sequences.
//
// Four tracing modes are provided, selected per invocation:
//
//   - Edge-chain (default): walks along thinned skeleton lines, producing one
//     open polyline per stroke. Pairs with Zhang–Suen centerline extraction.
//   - Moore: traces the 8-connected outer boundary of each blob, producing
//     closed loops.
//   - Suzuki–Abe: Moore-style boundary tracing that also labels regions and
//     records the hole hierarchy (child contour -> parent contour).
//   - Marching squares: classifies 2x2 grayscale cells against a threshold
//     and links the interpolated edge crossings into closed sub-pixel loops.
//
// The modes disagree on closure semantics on purpose: edge-chain emits open
// polylines (Closed only when the walk rejoined its start pixel), the
// boundary tracers emit closed loops. Downstream consumers must respect the
// per-contour flag.
package trace
