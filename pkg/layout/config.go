package layout

import (
	"errors"
	"fmt"
)

var (
	// ErrNilGraph is returned by [Compute] and [ComputeIncremental]
	// when the graph is nil.
	ErrNilGraph = errors.New("graph must not be nil")

	// ErrUnknownRoot is returned by [Compute] and [ComputeIncremental]
	// when the root ID is empty or names a person that is not in the
	// graph. The root anchors the whole layout and must exist.
	ErrUnknownRoot = errors.New("unknown root person")

	// ErrInvalidConfig is returned by [Config.Validate] when a spacing
	// parameter is not a positive real number.
	ErrInvalidConfig = errors.New("invalid layout config")
)

// Config holds the spacing parameters of a layout run. All values are
// distances in abstract layout units; the renderer decides what a unit
// means on screen.
//
// MinSpacing is expected to be at most BaseSpacing but this is not
// enforced; a larger MinSpacing only makes collision probing coarser.
type Config struct {
	// BaseSpacing is the default horizontal distance between adjacent
	// persons in a row, and the even spacing the aligner lays children
	// out with.
	BaseSpacing float64 `json:"baseSpacing" toml:"base_spacing"`

	// SpouseSpacing is the horizontal distance between spouses. It is
	// usually smaller than BaseSpacing so couples read as a unit.
	SpouseSpacing float64 `json:"spouseSpacing" toml:"spouse_spacing"`

	// VerticalSpacing is the distance between generation rows.
	VerticalSpacing float64 `json:"verticalSpacing" toml:"vertical_spacing"`

	// MinSpacing is the minimum horizontal distance the occupancy
	// probe keeps between persons in the same row.
	MinSpacing float64 `json:"minSpacing" toml:"min_spacing"`

	// ExpansionFactor controls how fast the fallback rule's spacing
	// grows as the layout fills up. 1.0 disables growth.
	ExpansionFactor float64 `json:"expansionFactor" toml:"expansion_factor"`
}

// DefaultConfig returns the spacing profile used when the caller has
// no opinion.
func DefaultConfig() Config {
	return Config{
		BaseSpacing:     100,
		SpouseSpacing:   80,
		VerticalSpacing: 120,
		MinSpacing:      50,
		ExpansionFactor: 1.5,
	}
}

// Validate checks that every spacing parameter is positive.
// Returns an error wrapping ErrInvalidConfig naming the first bad
// field, or nil.
func (c Config) Validate() error {
	fields := []struct {
		name  string
		value float64
	}{
		{"base spacing", c.BaseSpacing},
		{"spouse spacing", c.SpouseSpacing},
		{"vertical spacing", c.VerticalSpacing},
		{"min spacing", c.MinSpacing},
		{"expansion factor", c.ExpansionFactor},
	}
	for _, f := range fields {
		if f.value <= 0 {
			return fmt.Errorf("%w: %s must be positive, got %v", ErrInvalidConfig, f.name, f.value)
		}
	}
	return nil
}
