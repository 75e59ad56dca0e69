package shelf

import (
	"hash/fnv"
	"math/rand/v2"
)

// derive computes presentation parameters from packed geometry.
//
// Jitter and tilt are the "organic" part of the layout, but both are pure
// functions of the input: jitter comes from a PCG generator seeded with a
// hash of the item's ID mixed with the config seed, and tilt scales the
// item's rendered spine against the thickest spine in the call. Stacking
// order increases in visual order (left to right, top to bottom), so every
// item in a later row draws above every item in an earlier row.
func derive(rows []Row, cfg Config) []LayoutItem {
	maxSpine := 0.0
	count := 0
	for _, row := range rows {
		for _, it := range row.Items {
			if it.D > maxSpine {
				maxSpine = it.D
			}
			count++
		}
	}

	out := make([]LayoutItem, 0, count)
	z := 0
	for _, row := range rows {
		for _, it := range row.Items {
			tilt := 0.0
			if maxSpine > 0 {
				tilt = it.D / maxSpine * cfg.MaxTiltY
			}
			out = append(out, LayoutItem{
				ID: it.ID,
				X:  it.X + jitterUnit(it.ID, cfg.Seed)*cfg.JitterX,
				Y:  row.Y,
				W:  it.W,
				H:  it.H,
				D:  it.D,
				Z:  z,
				RY: tilt,
			})
			z++
		}
	}
	return out
}

// jitterUnit returns a deterministic value in [-1, 1) for an item ID.
// The same (id, seed) pair always yields the same value, so re-running the
// pipeline with unchanged inputs never makes items visually jump.
func jitterUnit(id string, seed uint64) float64 {
	h := fnv.New64a()
	h.Write([]byte(id))
	sum := h.Sum64()

	rng := rand.New(rand.NewPCG(sum^seed, sum^0xdeadbeef))
	return rng.Float64()*2 - 1
}
