package pipeline

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shelfline/shelfline/pkg/cache"
	"github.com/shelfline/shelfline/pkg/catalog"
	"github.com/shelfline/shelfline/pkg/errors"
	"github.com/shelfline/shelfline/pkg/shelf"
)

func testStore(t *testing.T) catalog.Store {
	t.Helper()
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	return catalog.NewMemoryStoreWith([]catalog.Book{
		{ID: "hobbit", Title: "The Hobbit", WidthMM: 129, HeightMM: 198, SpineMM: 22, AddedAt: base},
		{ID: "dune", Title: "Dune", WidthMM: 110, HeightMM: 178, SpineMM: 31, AddedAt: base.Add(time.Hour)},
		{ID: "gopl", Title: "The Go Programming Language", WidthMM: 156, HeightMM: 234, SpineMM: 25, AddedAt: base.Add(2 * time.Hour)},
	})
}

func TestValidateFormat(t *testing.T) {
	if err := ValidateFormat(FormatSVG); err != nil {
		t.Errorf("svg should be valid: %v", err)
	}
	if err := ValidateFormat(FormatJSON); err != nil {
		t.Errorf("json should be valid: %v", err)
	}
	err := ValidateFormat("png")
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("expected INVALID_FORMAT, got %v", err)
	}
}

func TestOptionsValidateAndSetDefaults(t *testing.T) {
	var opts Options
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("empty options should validate: %v", err)
	}
	if opts.ContainerWidth != DefaultContainerWidth {
		t.Errorf("ContainerWidth = %v, want default %v", opts.ContainerWidth, DefaultContainerWidth)
	}
	if opts.Layout.TargetRowHeight != shelf.DefaultTargetRowHeight {
		t.Errorf("TargetRowHeight = %v, want default", opts.Layout.TargetRowHeight)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatSVG {
		t.Errorf("Formats = %v, want [svg]", opts.Formats)
	}

	bad := Options{Layout: shelf.Config{TargetRowHeight: -5}}
	if err := bad.ValidateAndSetDefaults(); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("expected INVALID_CONFIG, got %v", err)
	}
}

func TestExecute(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	opts := Options{
		ContainerWidth: 600,
		Formats:        []string{FormatSVG, FormatJSON},
	}

	result, err := runner.Execute(context.Background(), testStore(t), opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if result.Stats.BookCount != 3 {
		t.Errorf("BookCount = %d, want 3", result.Stats.BookCount)
	}
	if len(result.Layout.Items) != 3 {
		t.Errorf("layout items = %d, want 3", len(result.Layout.Items))
	}
	if result.ItemsHash == "" {
		t.Error("missing items hash")
	}

	svg, ok := result.Artifacts[FormatSVG]
	if !ok || !strings.Contains(string(svg), "<svg") {
		t.Error("missing or malformed SVG artifact")
	}
	if _, ok := result.Artifacts[FormatJSON]; !ok {
		t.Error("missing JSON artifact")
	}
}

func TestExecuteLayoutCacheHit(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	runner := NewRunner(fc, nil, nil)
	store := testStore(t)
	opts := Options{ContainerWidth: 600}

	ctx := context.Background()
	first, err := runner.Execute(ctx, store, opts)
	if err != nil {
		t.Fatal(err)
	}
	if first.CacheInfo.LayoutHit || first.CacheInfo.RenderHit {
		t.Error("first run should miss the cache")
	}

	second, err := runner.Execute(ctx, store, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheInfo.LayoutHit {
		t.Error("second run should hit the layout cache")
	}
	if !second.CacheInfo.RenderHit {
		t.Error("second run should hit the artifact cache")
	}
	if string(first.Artifacts[FormatSVG]) != string(second.Artifacts[FormatSVG]) {
		t.Error("cached artifact differs from rendered artifact")
	}

	// A different width is a different layout key.
	wide, err := runner.Execute(ctx, store, Options{ContainerWidth: 1200})
	if err != nil {
		t.Fatal(err)
	}
	if wide.CacheInfo.LayoutHit {
		t.Error("different container width must not share a cache entry")
	}
}

func TestExecuteRefreshBypassesCache(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	runner := NewRunner(fc, nil, nil)
	store := testStore(t)
	ctx := context.Background()

	if _, err := runner.Execute(ctx, store, Options{ContainerWidth: 600}); err != nil {
		t.Fatal(err)
	}
	refreshed, err := runner.Execute(ctx, store, Options{ContainerWidth: 600, Refresh: true})
	if err != nil {
		t.Fatal(err)
	}
	if refreshed.CacheInfo.LayoutHit || refreshed.CacheInfo.RenderHit {
		t.Error("refresh must bypass all caches")
	}
}

func TestComputeLayoutMatchesEngine(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	items := []shelf.PhysicalItem{
		{ID: "a", Width: 129, Height: 198, Spine: 22},
		{ID: "b", Width: 156, Height: 234, Spine: 35},
	}
	opts := Options{ContainerWidth: 480}
	opts.SetLayoutDefaults()

	got, err := runner.ComputeLayout(context.Background(), items, opts)
	if err != nil {
		t.Fatal(err)
	}
	want, err := shelf.Layout(items, 480, opts.Layout)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Items) != len(want.Items) || got.Height != want.Height {
		t.Error("runner layout diverges from direct engine call")
	}
}

func TestRenderRejectsUnknownFormat(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	_, err := runner.Render(context.Background(), shelf.Result{}, nil, Options{Formats: []string{"pdf"}})
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("expected INVALID_FORMAT, got %v", err)
	}
}

func TestBackgroundFlowsIntoArtifacts(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	opts := Options{
		Formats:    []string{FormatSVG},
		Background: "#101418",
	}

	result, err := runner.Execute(context.Background(), testStore(t), opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !strings.Contains(string(result.Artifacts[FormatSVG]), "#101418") {
		t.Error("custom background missing from SVG artifact")
	}

	// Different backgrounds must produce different artifact cache keys.
	keyer := cache.NewDefaultKeyer()
	plain := Options{Formats: []string{FormatSVG}}
	if keyer.ArtifactKey("h", opts.ArtifactKeyOpts(FormatSVG)) == keyer.ArtifactKey("h", plain.ArtifactKeyOpts(FormatSVG)) {
		t.Error("background does not enter the artifact cache key")
	}
}
