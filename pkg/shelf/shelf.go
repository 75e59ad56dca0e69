package shelf

import "github.com/shelfline/shelfline/pkg/errors"

// Layout runs the full normalize → pack → derive pipeline.
//
// Every valid input item produces exactly one output item; invalid items
// are excluded and reported in Result.Excluded. The output is grouped by
// row in visual order, which may differ from input order only across row
// boundaries.
//
// Layout fails fast with an INVALID_CONFIG error when containerWidth is
// not positive or cfg fails validation; it never returns partial geometry
// alongside an error.
func Layout(items []PhysicalItem, containerWidth float64, cfg Config) (Result, error) {
	if containerWidth <= 0 {
		return Result{}, errors.New(errors.ErrCodeInvalidConfig, "container width must be positive, got %g", containerWidth)
	}
	if err := cfg.Validate(); err != nil {
		return Result{}, err
	}

	normalized, excluded := normalize(items, cfg)
	rows := pack(normalized, containerWidth, cfg)

	result := Result{
		Items:    derive(rows, cfg),
		Rows:     rows,
		Width:    containerWidth,
		Excluded: excluded,
	}
	if n := len(rows); n > 0 {
		last := rows[n-1]
		result.Height = last.Y + last.Height
	}
	return result, nil
}

// Pack exposes the row-packing stage for callers that need row structure
// (for example a renderer drawing one shelf board per row). The returned
// rows carry pre-jitter geometry.
func Pack(items []PhysicalItem, containerWidth float64, cfg Config) ([]Row, []Excluded, error) {
	if containerWidth <= 0 {
		return nil, nil, errors.New(errors.ErrCodeInvalidConfig, "container width must be positive, got %g", containerWidth)
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	normalized, excluded := normalize(items, cfg)
	return pack(normalized, containerWidth, cfg), excluded, nil
}
