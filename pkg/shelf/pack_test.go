package shelf

import (
	"math"
	"testing"
)

// rowCfg returns a config whose target row height equals the item heights
// used in these tests, so projected widths equal normalized widths and the
// arithmetic stays readable.
func rowCfg() Config {
	cfg := DefaultConfig()
	cfg.TargetRowHeight = 200
	cfg.BaseHeight = 200
	cfg.GutterX = 10
	cfg.GutterY = 20
	cfg.JitterX = 0
	cfg.RaggedLastRow = false
	return cfg
}

func item(id string, w float64) Item {
	return Item{ID: id, Width: w, Height: 200, Spine: 20}
}

func TestPackRowBreak(t *testing.T) {
	cfg := rowCfg()
	cfg.RaggedLastRow = true

	// 100 + 10 + 150 = 260 fits in 300; adding 50 + 10 would reach 320.
	items := []Item{item("a", 100), item("b", 150), item("c", 50)}
	rows := pack(items, 300, cfg)

	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if n := len(rows[0].Items); n != 2 {
		t.Fatalf("row 0 has %d items, want 2", n)
	}
	if n := len(rows[1].Items); n != 1 {
		t.Fatalf("row 1 has %d items, want 1", n)
	}

	// Row 0 justifies to fill 300 exactly: scale = (300-10)/250 = 1.16.
	if !rows[0].Justified {
		t.Error("row 0 not justified")
	}
	a, b := rows[0].Items[0], rows[0].Items[1]
	if math.Abs(a.W-116) > 1e-9 || math.Abs(b.W-174) > 1e-9 {
		t.Errorf("justified widths = %v, %v, want 116, 174", a.W, b.W)
	}
	if a.X != 0 || math.Abs(b.X-126) > 1e-9 {
		t.Errorf("x positions = %v, %v, want 0, 126", a.X, b.X)
	}
	if fill := b.X + b.W; math.Abs(fill-300) > 1e-6 {
		t.Errorf("row 0 fills to %v, want 300", fill)
	}

	// Ragged last row keeps projected sizes.
	c := rows[1].Items[0]
	if rows[1].Justified {
		t.Error("ragged last row was justified")
	}
	if c.W != 50 || c.H != 200 {
		t.Errorf("ragged item = %vx%v, want 50x200", c.W, c.H)
	}

	// Row 1 starts below row 0's actual (justified) height plus gutter.
	wantY := rows[0].Height + cfg.GutterY
	if math.Abs(rows[1].Y-wantY) > 1e-9 {
		t.Errorf("row 1 y = %v, want %v", rows[1].Y, wantY)
	}
	if math.Abs(rows[0].Height-232) > 1e-9 {
		t.Errorf("row 0 height = %v, want 232", rows[0].Height)
	}
}

func TestPackJustifiesLastRowWhenNotRagged(t *testing.T) {
	cfg := rowCfg()

	rows := pack([]Item{item("a", 100), item("b", 90)}, 400, cfg)
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	if !rows[0].Justified {
		t.Fatal("last row not justified with RaggedLastRow=false")
	}
	// scale = (400-10)/190
	last := rows[0].Items[1]
	if fill := last.X + last.W; math.Abs(fill-400) > 1e-6 {
		t.Errorf("row fills to %v, want 400", fill)
	}
}

func TestPackTieBreakIncludesExactFit(t *testing.T) {
	cfg := rowCfg()
	cfg.RaggedLastRow = true

	// 100 + 10 + 200 lands exactly on the 310 boundary: prefer density,
	// keep both in one row.
	rows := pack([]Item{item("a", 100), item("b", 200)}, 310, cfg)
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1 (inclusive boundary)", len(rows))
	}
	if n := len(rows[0].Items); n != 2 {
		t.Fatalf("row has %d items, want 2", n)
	}
}

func TestPackOversizedItemDegradesGracefully(t *testing.T) {
	cfg := rowCfg()
	cfg.RaggedLastRow = false

	// The oversized item overflows its own row rather than being shrunk
	// or dropped; the following item starts a fresh row.
	rows := pack([]Item{item("big", 500), item("small", 50)}, 300, cfg)
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}

	big := rows[0].Items[0]
	if rows[0].Justified {
		t.Error("oversized row must not be justified")
	}
	if big.W != 500 {
		t.Errorf("oversized width = %v, want 500 (allowed to exceed container)", big.W)
	}
	if big.H != 200 {
		t.Errorf("oversized height = %v, want 200", big.H)
	}
}

func TestPackRowFillInvariant(t *testing.T) {
	cfg := rowCfg()
	cfg.RaggedLastRow = true
	const width = 640.0

	widths := []float64{130, 95, 210, 60, 175, 88, 143, 52, 199, 120, 77, 160}
	items := make([]Item, len(widths))
	for i, w := range widths {
		items[i] = item(string(rune('a'+i)), w)
	}

	rows := pack(items, width, cfg)
	if len(rows) < 2 {
		t.Fatalf("expected multiple rows, got %d", len(rows))
	}

	for i, row := range rows[:len(rows)-1] {
		if !row.Justified {
			t.Errorf("row %d not justified", i)
			continue
		}
		last := row.Items[len(row.Items)-1]
		if fill := last.X + last.W; math.Abs(fill-width)/width > 1e-6 {
			t.Errorf("row %d fills to %v, want %v", i, fill, width)
		}
	}
}

func TestPackNoHorizontalOverlap(t *testing.T) {
	cfg := rowCfg()
	widths := []float64{130, 95, 210, 60, 175, 88}
	items := make([]Item, len(widths))
	for i, w := range widths {
		items[i] = item(string(rune('a'+i)), w)
	}

	for _, row := range pack(items, 500, cfg) {
		for i := 1; i < len(row.Items); i++ {
			prev, cur := row.Items[i-1], row.Items[i]
			gap := cur.X - (prev.X + prev.W)
			if gap < cfg.GutterX-1e-9 {
				t.Errorf("items %s and %s overlap: gap %v < gutter %v", prev.ID, cur.ID, gap, cfg.GutterX)
			}
		}
	}
}

func TestPackNoVerticalOverlap(t *testing.T) {
	cfg := rowCfg()
	widths := []float64{200, 250, 180, 220, 190, 240}
	items := make([]Item, len(widths))
	for i, w := range widths {
		items[i] = item(string(rune('a'+i)), w)
	}

	rows := pack(items, 400, cfg)
	for i := 1; i < len(rows); i++ {
		gap := rows[i].Y - (rows[i-1].Y + rows[i-1].Height)
		if gap < cfg.GutterY-1e-9 {
			t.Errorf("rows %d and %d overlap: gap %v < gutter %v", i-1, i, gap, cfg.GutterY)
		}
	}
}

func TestPackEmptyInput(t *testing.T) {
	if rows := pack(nil, 400, rowCfg()); rows != nil {
		t.Errorf("pack(nil) = %v, want nil", rows)
	}
}

func TestPackProjectsToTargetRowHeight(t *testing.T) {
	cfg := rowCfg()
	cfg.TargetRowHeight = 100
	cfg.RaggedLastRow = true

	// A 200-high item projects to half size at row height 100.
	rows := pack([]Item{{ID: "a", Width: 120, Height: 200, Spine: 30}}, 400, cfg)
	got := rows[0].Items[0]
	if got.W != 60 || got.H != 100 || got.D != 15 {
		t.Errorf("projected geometry = %vx%v d%v, want 60x100 d15", got.W, got.H, got.D)
	}
}
