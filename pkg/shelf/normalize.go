package shelf

import (
	"slices"

	"github.com/shelfline/shelfline/pkg/errors"
)

// normalize converts physical dimensions onto the engine's relative scale.
//
// The reference statistic is the median height across valid items: a few
// extreme entries (an atlas, a pocket edition) must not distort the scale
// of the whole set. Each item gets a single uniform scale factor, so its
// aspect ratio and relative spine thickness survive exactly. The factor is
// BaseHeight/reference, then clamped per item so that no normalized height
// leaves [BaseHeight/MaxHeightRatio, BaseHeight*MaxHeightRatio].
//
// Invalid items are excluded and reported, never passed downstream.
func normalize(items []PhysicalItem, cfg Config) ([]Item, []Excluded) {
	if len(items) == 0 {
		return nil, nil
	}

	valid := make([]PhysicalItem, 0, len(items))
	var excluded []Excluded
	seen := make(map[string]struct{}, len(items))

	for _, it := range items {
		if reason := invalidReason(it, seen); reason != "" {
			excluded = append(excluded, Excluded{ID: it.ID, Reason: reason})
			continue
		}
		seen[it.ID] = struct{}{}
		valid = append(valid, it)
	}
	if len(valid) == 0 {
		return nil, excluded
	}

	reference := medianHeight(valid)
	baseScale := cfg.BaseHeight / reference

	maxH := cfg.BaseHeight * cfg.MaxHeightRatio
	minH := cfg.BaseHeight / cfg.MaxHeightRatio

	normalized := make([]Item, len(valid))
	for i, it := range valid {
		scale := baseScale
		switch h := it.Height * scale; {
		case h > maxH:
			scale *= maxH / h
		case h < minH:
			scale *= minH / h
		}
		normalized[i] = Item{
			ID:     it.ID,
			Width:  it.Width * scale,
			Height: it.Height * scale,
			Spine:  it.Spine * scale,
		}
	}
	return normalized, excluded
}

// invalidReason returns a human-readable rejection reason, or "" if the
// item is acceptable. seen holds IDs already accepted in this call.
func invalidReason(it PhysicalItem, seen map[string]struct{}) string {
	if err := errors.ValidateItemID(it.ID); err != nil {
		return errors.UserMessage(err)
	}
	if _, dup := seen[it.ID]; dup {
		return "duplicate item id"
	}
	if it.Width <= 0 {
		return "non-positive width"
	}
	if it.Height <= 0 {
		return "non-positive height"
	}
	if it.Spine <= 0 {
		return "non-positive spine"
	}
	return ""
}

// medianHeight returns the median height of items. For an even count it
// averages the two middle values.
func medianHeight(items []PhysicalItem) float64 {
	heights := make([]float64, len(items))
	for i, it := range items {
		heights[i] = it.Height
	}
	slices.Sort(heights)

	n := len(heights)
	if n%2 == 1 {
		return heights[n/2]
	}
	return (heights[n/2-1] + heights[n/2]) / 2
}
