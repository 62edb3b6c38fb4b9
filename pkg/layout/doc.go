// Package layout computes 2-D positions for family graphs using
// relationship-relative placement rules.
//
// # Overview
//
// Pedigraph draws a family graph as rows of generations around a root
// person: the root's row is generation 0, ancestors stack upward at
// negative generations and descendants downward at positive ones. This
// package owns the placement algorithm: a deterministic, rule-based,
// single-pass engine rather than a force simulation, so that the same
// input always yields the same picture and successive layouts can be
// animated against each other.
//
// # Placement
//
// Persons are visited in a priority order derived from the graph
// (parents, then siblings, then spouse, then children, expanding
// outward from the root; see [Order]). Each person is positioned by
// the first matching rule out of five: adjacent to an already placed
// spouse, below placed parents, above placed children, beside placed
// siblings, or near the closest placed relative as a fallback. The
// [OccupancyIndex] keeps two persons from landing on the same point by
// probing outward for the nearest free slot.
//
// # Alignment
//
// After placement a convergence pass recenters parents above their
// children and spreads children evenly beneath them, iterating to a
// fixed point with a hard cap. The root's X never moves, so the
// layout stays anchored at the origin.
//
// # Basic Usage
//
// Build a [kin.Graph], then call [Compute] for a final snapshot or
// [ComputeIncremental] for one snapshot per placement (for animating
// persons appearing one at a time):
//
//	positions, err := layout.Compute(g, "me", nil, layout.DefaultConfig())
//
// # Coordinate Convention
//
// The Y axis points up: ancestors have larger Y than the root,
// descendants smaller. Renderers that draw ancestors above the root
// can use Y directly.
//
// # Concurrency
//
// All state for one run lives in a session owned by that call, so
// distinct runs may execute concurrently. A single call is strictly
// sequential; placement order is part of the algorithm.
package layout
