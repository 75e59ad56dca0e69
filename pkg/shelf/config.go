package shelf

import "github.com/shelfline/shelfline/pkg/errors"

// Default configuration values. These are tuned for a desktop-width shelf
// around 900px; hosts typically tighten row height and gutters on narrow
// viewports before re-invoking the engine.
const (
	// DefaultTargetRowHeight is the desired visual row height in pixels
	// before per-row justification adjusts it.
	DefaultTargetRowHeight = 140.0

	// DefaultBaseHeight is the reference height the normalizer maps the
	// median physical height onto.
	DefaultBaseHeight = 140.0

	// DefaultGutterX is the horizontal spacing between items in a row.
	DefaultGutterX = 6.0

	// DefaultGutterY is the vertical spacing between rows.
	DefaultGutterY = 28.0

	// DefaultJitterX is the maximum horizontal jitter per item.
	DefaultJitterX = 3.0

	// DefaultMaxTiltY is the maximum rotation angle in degrees.
	DefaultMaxTiltY = 10.0

	// DefaultMaxHeightRatio bounds how far a normalized height may deviate
	// from BaseHeight in either direction before being clamped.
	DefaultMaxHeightRatio = 1.6

	// DefaultSeed is the default jitter seed for reproducibility.
	DefaultSeed = uint64(42)
)

// Config controls one layout computation. It is treated as immutable for
// the duration of a call; the engine never mutates it.
type Config struct {
	TargetRowHeight float64 `json:"target_row_height"`
	BaseHeight      float64 `json:"base_height"`
	GutterX         float64 `json:"gutter_x"`
	GutterY         float64 `json:"gutter_y"`
	JitterX         float64 `json:"jitter_x"`
	MaxTiltY        float64 `json:"max_tilt_y"`
	MaxHeightRatio  float64 `json:"max_height_ratio"`
	RaggedLastRow   bool    `json:"ragged_last_row"`
	Seed            uint64  `json:"seed"`
}

// DefaultConfig returns a Config populated with the package defaults.
func DefaultConfig() Config {
	return Config{
		TargetRowHeight: DefaultTargetRowHeight,
		BaseHeight:      DefaultBaseHeight,
		GutterX:         DefaultGutterX,
		GutterY:         DefaultGutterY,
		JitterX:         DefaultJitterX,
		MaxTiltY:        DefaultMaxTiltY,
		MaxHeightRatio:  DefaultMaxHeightRatio,
		RaggedLastRow:   true,
		Seed:            DefaultSeed,
	}
}

// SetDefaults fills zero-valued fields that have no meaningful zero with
// package defaults. Gutters, jitter, and tilt keep an explicit zero: zero
// is a valid "disabled" setting for those.
func (c *Config) SetDefaults() {
	if c.TargetRowHeight == 0 {
		c.TargetRowHeight = DefaultTargetRowHeight
	}
	if c.BaseHeight == 0 {
		c.BaseHeight = DefaultBaseHeight
	}
	if c.MaxHeightRatio == 0 {
		c.MaxHeightRatio = DefaultMaxHeightRatio
	}
	if c.Seed == 0 {
		c.Seed = DefaultSeed
	}
}

// Validate reports whether the configuration can produce sane geometry.
// It returns an INVALID_CONFIG error for non-positive row or base heights,
// a clamp ratio below 1, or negative spacing values.
func (c Config) Validate() error {
	if c.TargetRowHeight <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "target row height must be positive, got %g", c.TargetRowHeight)
	}
	if c.BaseHeight <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "base height must be positive, got %g", c.BaseHeight)
	}
	if c.MaxHeightRatio < 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "max height ratio must be >= 1, got %g", c.MaxHeightRatio)
	}
	if c.GutterX < 0 || c.GutterY < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "gutters cannot be negative")
	}
	if c.JitterX < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "jitter cannot be negative")
	}
	if c.MaxTiltY < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "max tilt cannot be negative")
	}
	return nil
}
