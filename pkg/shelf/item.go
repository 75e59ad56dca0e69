package shelf

// PhysicalItem is the engine input: one catalog entry's physical dimensions
// in a caller-defined unit (typically millimetres). All three dimensions
// must be positive; items that are not are excluded and reported.
type PhysicalItem struct {
	ID     string  // opaque stable identifier, unique within one call
	Width  float64 // cover width
	Height float64 // cover height
	Spine  float64 // spine thickness
}

// Item is a normalized item: dimensions rescaled so the median input height
// maps to Config.BaseHeight, with per-item aspect ratio preserved exactly.
type Item struct {
	ID     string
	Width  float64
	Height float64
	Spine  float64
}

// AspectRatio returns width divided by height.
func (it Item) AspectRatio() float64 { return it.Width / it.Height }

// LayoutItem is the engine output: final geometry for one item in output
// pixel space, ready for absolute positioning by a rendering layer.
type LayoutItem struct {
	ID string  `json:"id"`
	X  float64 `json:"x"` // left edge, jitter applied
	Y  float64 `json:"y"` // top edge
	W  float64 `json:"w"`
	H  float64 `json:"h"`
	D  float64 `json:"d"`  // rendered spine depth
	Z  int     `json:"z"`  // stacking order, increases with visual order
	RY float64 `json:"ry"` // rotation about the vertical axis, degrees
}

// Right returns the x coordinate of the item's right edge.
func (it LayoutItem) Right() float64 { return it.X + it.W }

// Bottom returns the y coordinate of the item's bottom edge.
func (it LayoutItem) Bottom() float64 { return it.Y + it.H }

// CenterX returns the horizontal center of the item.
func (it LayoutItem) CenterX() float64 { return it.X + it.W/2 }

// Excluded reports one input item rejected during validation.
// Excluded items produce no output geometry.
type Excluded struct {
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

// RowItem holds one item's geometry within a packed row, before
// presentation derivation. X is relative to the container's left edge.
type RowItem struct {
	ID string  `json:"id"`
	X  float64 `json:"x"`
	W  float64 `json:"w"`
	H  float64 `json:"h"`
	D  float64 `json:"d"`
}

// Row is one packed shelf row. Items are ordered left to right.
type Row struct {
	Items     []RowItem `json:"items"`
	Y         float64   `json:"y"`         // top edge in output space
	Height    float64   `json:"height"`    // actual post-justification height
	Justified bool      `json:"justified"` // whether the justification scale was applied
}

// Width returns the total rendered width of the row including gutters.
func (r Row) Width() float64 {
	if len(r.Items) == 0 {
		return 0
	}
	last := r.Items[len(r.Items)-1]
	return last.X + last.W - r.Items[0].X
}

// Result is the complete output of one engine invocation. Rows carry the
// pre-jitter packing geometry so renderers can draw per-row furniture
// without re-running the packer.
type Result struct {
	Items    []LayoutItem `json:"items"`
	Rows     []Row        `json:"rows"`
	Width    float64      `json:"width"`  // container width the layout was computed for
	Height   float64      `json:"height"` // total content height including row gutters
	Excluded []Excluded   `json:"excluded,omitempty"`
}
