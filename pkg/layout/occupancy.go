package layout

import "math"

// maxProbeRounds bounds the outward search for a free slot. After this
// many rounds the preferred X is returned unchanged, trading perfect
// packing for bounded placement cost.
const maxProbeRounds = 10

// OccupancyIndex records which X coordinates are taken at each Y
// level. A coordinate is occupied iff some currently placed position
// has that exact (x, y); the index keeps two live persons from sharing
// a point.
//
// The zero value is not usable - use NewOccupancyIndex.
type OccupancyIndex struct {
	levels map[float64]map[float64]struct{}
}

// NewOccupancyIndex creates an empty occupancy index.
func NewOccupancyIndex() *OccupancyIndex {
	return &OccupancyIndex{levels: make(map[float64]map[float64]struct{})}
}

// Mark records (x, y) as occupied.
func (o *OccupancyIndex) Mark(x, y float64) {
	level, ok := o.levels[y]
	if !ok {
		level = make(map[float64]struct{})
		o.levels[y] = level
	}
	level[x] = struct{}{}
}

// Unmark clears (x, y). Unmarking a free coordinate is a no-op.
func (o *OccupancyIndex) Unmark(x, y float64) {
	level, ok := o.levels[y]
	if !ok {
		return
	}
	delete(level, x)
	if len(level) == 0 {
		delete(o.levels, y)
	}
}

// Occupied reports whether exactly (x, y) is taken.
func (o *OccupancyIndex) Occupied(x, y float64) bool {
	_, ok := o.levels[y][x]
	return ok
}

// Available reports whether x can be used at level y: true iff no
// occupied X at that Y lies strictly within minSpacing of x.
func (o *OccupancyIndex) Available(x, y, minSpacing float64) bool {
	for occupied := range o.levels[y] {
		if math.Abs(occupied-x) < minSpacing {
			return false
		}
	}
	return true
}

// NearestAvailable finds a free X at level y close to nearX. The exact
// X is tried first; if taken, the search probes outward in rounds of
// ±i×minSpacing, trying the preferred side first each round (right by
// default, left when preferLeft is set). After maxProbeRounds rounds
// nearX is returned unchanged; callers must treat the result as best
// effort rather than a no-overlap guarantee.
func (o *OccupancyIndex) NearestAvailable(nearX, y, minSpacing float64, preferLeft bool) float64 {
	if o.Available(nearX, y, minSpacing) {
		return nearX
	}
	for round := 1; round <= maxProbeRounds; round++ {
		offset := float64(round) * minSpacing
		first, second := nearX+offset, nearX-offset
		if preferLeft {
			first, second = second, first
		}
		if o.Available(first, y, minSpacing) {
			return first
		}
		if o.Available(second, y, minSpacing) {
			return second
		}
	}
	return nearX
}

// CountAt returns the number of occupied coordinates at level y.
func (o *OccupancyIndex) CountAt(y float64) int { return len(o.levels[y]) }
