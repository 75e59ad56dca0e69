package shelf

// eps is the tolerance for row-boundary and justification comparisons.
const eps = 1e-9

// projected is an item scaled to the nominal row height before
// justification.
type projected struct {
	id   string
	w, d float64
}

// pack assigns normalized items to rows and justifies each row.
//
// The packer is a single greedy pass in input order: each item is projected
// to the nominal row height (width * TargetRowHeight/height) and appended
// to the current row while it fits. An item landing exactly on the container
// boundary stays in the current row: the tie-break prefers density over a
// premature break. When a row closes, a single uniform scale factor is
// applied to every member's width, height, and spine so the rendered row
// width equals containerWidth exactly.
//
// Two cases skip justification: the final row when RaggedLastRow is set,
// and a row whose natural width already exceeds the container (a single
// oversized item). The latter is the degraded-layout policy: the item keeps
// its projected size and overflows rather than being shrunk or dropped.
//
// The caller guarantees containerWidth > 0 and a validated cfg.
func pack(items []Item, containerWidth float64, cfg Config) []Row {
	if len(items) == 0 {
		return nil
	}

	var rows []Row
	var cur []projected
	rowWidth := 0.0

	for _, it := range items {
		p := projected{
			id: it.ID,
			w:  it.Width * cfg.TargetRowHeight / it.Height,
			d:  it.Spine * cfg.TargetRowHeight / it.Height,
		}

		need := p.w
		if len(cur) > 0 {
			need += cfg.GutterX
		}
		if len(cur) > 0 && rowWidth+need > containerWidth+eps {
			rows = append(rows, closeRow(cur, containerWidth, cfg, false))
			cur = nil
			need = p.w
			rowWidth = 0
		}
		cur = append(cur, p)
		rowWidth += need
	}
	rows = append(rows, closeRow(cur, containerWidth, cfg, true))

	// Vertical placement uses actual post-justification heights.
	y := 0.0
	for i := range rows {
		rows[i].Y = y
		y += rows[i].Height + cfg.GutterY
	}
	return rows
}

// closeRow converts accumulated projected items into a placed Row.
func closeRow(members []projected, containerWidth float64, cfg Config, last bool) Row {
	gutters := cfg.GutterX * float64(len(members)-1)
	sum := 0.0
	for _, p := range members {
		sum += p.w
	}

	justify := !(last && cfg.RaggedLastRow) && sum+gutters <= containerWidth+eps
	scale := 1.0
	if justify {
		scale = (containerWidth - gutters) / sum
	}

	row := Row{
		Items:     make([]RowItem, len(members)),
		Height:    cfg.TargetRowHeight * scale,
		Justified: justify,
	}

	x := 0.0
	for i, p := range members {
		row.Items[i] = RowItem{
			ID: p.id,
			X:  x,
			W:  p.w * scale,
			H:  cfg.TargetRowHeight * scale,
			D:  p.d * scale,
		}
		x += p.w*scale + cfg.GutterX
	}
	return row
}
