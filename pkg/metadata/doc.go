// Package metadata looks up book metadata by ISBN from the Open Library
// API.
//
// The client resolves an edition record, follows author references, and
// extracts the physical dimensions the shelf layout engine needs. Open
// Library reports dimensions inconsistently (centimetres or inches, often
// not at all), so the client normalizes everything to millimetres and
// estimates spine thickness from the page count when no measurement is
// available.
//
// All responses are cached through a [cache.Cache]; transient failures are
// retried with exponential backoff.
package metadata
