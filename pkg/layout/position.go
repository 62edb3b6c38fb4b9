package layout

import (
	"math"
	"slices"
	"strings"

	"github.com/pedigraph/pedigraph/pkg/kin"
)

// Point is a 2-D coordinate in layout units.
type Point struct {
	X float64
	Y float64
}

// DistanceTo returns the Euclidean distance between two points.
func (p Point) DistanceTo(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Position locates one person in a computed layout.
//
// Identity is the ID alone: two positions refer to the same person iff
// their IDs are equal, regardless of coordinates. Name and Meta are
// opaque caller metadata carried through from the person unchanged.
type Position struct {
	ID string

	X float64
	Y float64

	// Generation is the signed row index: 0 is the root's row,
	// negative rows are ancestors, positive rows are descendants.
	Generation int

	Name string
	Meta kin.Metadata
}

// Point returns the position's coordinates.
func (p Position) Point() Point { return Point{X: p.X, Y: p.Y} }

// PositionMap creates an ID lookup map from a position slice.
// Returns an empty map for a nil or empty slice.
func PositionMap(positions []Position) map[string]Position {
	m := make(map[string]Position, len(positions))
	for _, p := range positions {
		m[p.ID] = p
	}
	return m
}

// PositionIDs extracts the ID from each position, in slice order.
func PositionIDs(positions []Position) []string {
	ids := make([]string, len(positions))
	for i, p := range positions {
		ids[i] = p.ID
	}
	return ids
}

// SortPositions sorts positions in place by ID ascending. All
// snapshots returned by this package are sorted this way so identical
// inputs produce identical output bytes.
func SortPositions(positions []Position) {
	slices.SortFunc(positions, func(a, b Position) int {
		return strings.Compare(a.ID, b.ID)
	})
}
