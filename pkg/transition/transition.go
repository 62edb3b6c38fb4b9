// Package transition diffs two complete graph snapshots into the
// appear, disappear, and move operations an animation layer consumes.
package transition

import (
	"slices"
	"strings"

	"github.com/pedigraph/pedigraph/pkg/connection"
	"github.com/pedigraph/pedigraph/pkg/layout"
)

// DefaultMovementThreshold is the Euclidean distance a surviving
// person must travel between snapshots before the movement is worth
// animating. Sub-threshold jitter (alignment wiggle, float noise) is
// ignored to avoid spurious micro-animations.
const DefaultMovementThreshold = 5.0

// State is one complete snapshot of the rendered graph: node
// positions plus the derived connections between them.
type State struct {
	Positions   []layout.Position
	Connections []*connection.Connection
}

// Move describes one person travelling between two layouts.
type Move struct {
	ID   string
	From layout.Point
	To   layout.Point
}

// Transition is the diff between two snapshots. A transition with all
// five lists empty is a no-op; use [Transition.HasChanges] to tell the
// two apart.
type Transition struct {
	Appear    []layout.Position
	Disappear []layout.Position
	Moves     []Move

	ConnectionsToAppear    []*connection.Connection
	ConnectionsToDisappear []*connection.Connection
}

// HasChanges reports whether the transition does anything at all.
func (t Transition) HasChanges() bool {
	return len(t.Appear) > 0 || len(t.Disappear) > 0 || len(t.Moves) > 0 ||
		len(t.ConnectionsToAppear) > 0 || len(t.ConnectionsToDisappear) > 0
}

// Compute diffs the current snapshot against the destination.
//
// Node appear/disappear is a pure ID-set difference; persons present
// in both snapshots yield a Move only when their Euclidean distance
// exceeds threshold. Connection appear/disappear is an ID-set
// difference on canonical connection IDs - topology only, since the
// connection lifecycle owns animation state. A negative threshold
// selects [DefaultMovementThreshold]; zero means any movement counts.
//
// All output lists are sorted by ID, so identical inputs produce
// identical transitions.
func Compute(current, destination State, threshold float64) Transition {
	if threshold < 0 {
		threshold = DefaultMovementThreshold
	}

	var t Transition

	currentByID := layout.PositionMap(current.Positions)
	destByID := layout.PositionMap(destination.Positions)

	for _, pos := range destination.Positions {
		if _, exists := currentByID[pos.ID]; !exists {
			t.Appear = append(t.Appear, pos)
		}
	}
	for _, pos := range current.Positions {
		dst, exists := destByID[pos.ID]
		if !exists {
			t.Disappear = append(t.Disappear, pos)
			continue
		}
		if pos.Point().DistanceTo(dst.Point()) > threshold {
			t.Moves = append(t.Moves, Move{ID: pos.ID, From: pos.Point(), To: dst.Point()})
		}
	}
	layout.SortPositions(t.Appear)
	layout.SortPositions(t.Disappear)
	slices.SortFunc(t.Moves, func(a, b Move) int { return strings.Compare(a.ID, b.ID) })

	currentConns := connIDSet(current.Connections)
	destConns := connIDSet(destination.Connections)
	for _, c := range destination.Connections {
		if _, exists := currentConns[c.ID]; !exists {
			t.ConnectionsToAppear = append(t.ConnectionsToAppear, c)
		}
	}
	for _, c := range current.Connections {
		if _, exists := destConns[c.ID]; !exists {
			t.ConnectionsToDisappear = append(t.ConnectionsToDisappear, c)
		}
	}
	connection.SortByID(t.ConnectionsToAppear)
	connection.SortByID(t.ConnectionsToDisappear)

	return t
}

func connIDSet(conns []*connection.Connection) map[string]struct{} {
	set := make(map[string]struct{}, len(conns))
	for _, c := range conns {
		set[c.ID] = struct{}{}
	}
	return set
}
