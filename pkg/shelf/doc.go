// Package shelf computes justified bookshelf layouts from physical item
// dimensions.
//
// The engine is a pure function over its arguments: it takes a set of items
// with heterogeneous physical proportions (width, height, spine thickness),
// a target container width, and a [Config], and produces a dense, justified,
// multi-row arrangement with per-item position, scale, depth, rotation, and
// stacking order. It performs no I/O, holds no state between calls, and is
// safe for concurrent use from multiple goroutines.
//
// # Pipeline
//
// A call to [Layout] runs three stages in order:
//
//  1. Normalize: rescale heterogeneous physical dimensions onto a common
//     relative scale anchored to Config.BaseHeight, clamping outliers.
//  2. Pack: greedily assign items to rows under the target row height and
//     container width, then justify each row's uniform scale factor so the
//     row exactly fills the container.
//  3. Derive: compute per-item presentation parameters (deterministic
//     horizontal jitter, spine-proportional tilt, stacking order) from the
//     packed geometry.
//
// # Determinism
//
// Identical arguments always yield identical output, including jitter and
// tilt: "random" visual variety is derived from a hash of each item's ID
// mixed with Config.Seed, never from a nondeterministic source. Re-running
// the pipeline on resize or item change therefore never makes unchanged
// items visually jump.
//
// # Errors
//
// Invalid items (non-positive dimensions, empty or duplicate IDs) are
// excluded from the output and reported in [Result.Excluded]; they never
// abort the computation. An invalid configuration (non-positive container
// width, row height, or base height) fails fast with an INVALID_CONFIG
// error and an empty result.
package shelf
