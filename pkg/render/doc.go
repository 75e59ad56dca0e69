// Package render provides output sinks for computed shelf layouts.
//
// Two formats are supported:
//
//   - SVG: a self-contained bookshelf drawing with one board per row and
//     one tilted rectangle per book ([RenderSVG])
//   - JSON: a machine-readable export of the layout geometry for external
//     tools and round-trip rendering ([RenderJSON])
//
// Both sinks are pure functions over [shelf.Result]: they never mutate their
// inputs and are safe to call concurrently. Rendering options use the
// functional option pattern, e.g.:
//
//	svg := render.RenderSVG(res, render.WithBooks(books), render.WithLabels())
package render
