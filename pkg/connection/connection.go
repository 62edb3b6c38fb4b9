// Package connection derives the edge set of a family graph and
// tracks per-edge animation identity across layout updates.
//
// Connections are deliberately stateful: their canonical IDs let the
// lifecycle functions recognize "the same edge" across two layouts and
// mutate its animation state in place instead of recreating it, which
// is what allows a renderer to fade an edge out rather than have it
// vanish.
package connection

import "fmt"

// Type distinguishes the two edge kinds of a family graph.
type Type int

const (
	// TypeSpouse is the symmetric edge between two spouses.
	TypeSpouse Type = iota
	// TypeParentChild is the directed edge from a parent to a child.
	TypeParentChild
)

// String returns the type name used in canonical IDs.
func (t Type) String() string {
	switch t {
	case TypeSpouse:
		return "spouse"
	case TypeParentChild:
		return "parentChild"
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// ParseType maps a type name back to a Type. The second return is
// false for unknown names.
func ParseType(s string) (Type, bool) {
	switch s {
	case "spouse":
		return TypeSpouse, true
	case "parentChild":
		return TypeParentChild, true
	}
	return 0, false
}

// AnimState is the renderer-owned animation state of a connection.
// Opacity and DrawProgress are in [0, 1]; the renderer decays Opacity
// once Disappearing is set, and [Prune] removes the connection when
// the fade has finished.
type AnimState struct {
	Opacity      float64
	DrawProgress float64
	Disappearing bool
}

// Connection is one edge of the rendered family graph.
//
// Identity is the canonical ID: logically identical edges always
// produce the same ID (see [SpouseID] and [ParentChildID]), so the
// same couple or parent/child pair maps to the same Connection across
// successive layouts. Instances are shared by pointer and mutated in
// place by the lifecycle functions for as long as the ID survives.
type Connection struct {
	ID     string
	Type   Type
	FromID string
	ToID   string

	// Highlighted is true while both endpoints are on the active
	// highlight path.
	Highlighted bool

	Anim AnimState
}

// SpouseID returns the canonical ID of a spouse edge. The endpoints
// are sorted, so the same couple yields the same ID regardless of
// argument order.
func SpouseID(a, b string) string {
	lo, hi := a, b
	if hi < lo {
		lo, hi = hi, lo
	}
	return fmt.Sprintf("%s-%s-%s", TypeSpouse, lo, hi)
}

// ParentChildID returns the canonical ID of a parent→child edge.
// Direction matters: swapping the arguments names a different edge.
func ParentChildID(parentID, childID string) string {
	return fmt.Sprintf("%s-%s-%s", TypeParentChild, parentID, childID)
}

// NewSpouse creates a fresh spouse connection with normalized
// endpoint order and the initial animation state: fully opaque, not
// yet drawn.
func NewSpouse(a, b string) *Connection {
	lo, hi := a, b
	if hi < lo {
		lo, hi = hi, lo
	}
	return &Connection{
		ID:     SpouseID(lo, hi),
		Type:   TypeSpouse,
		FromID: lo,
		ToID:   hi,
		Anim:   AnimState{Opacity: 1},
	}
}

// NewParentChild creates a fresh parent→child connection with the
// initial animation state.
func NewParentChild(parentID, childID string) *Connection {
	return &Connection{
		ID:     ParentChildID(parentID, childID),
		Type:   TypeParentChild,
		FromID: parentID,
		ToID:   childID,
		Anim:   AnimState{Opacity: 1},
	}
}

// HighlightSet turns a path (as returned by kin.Graph.Path) into the
// membership set the lifecycle functions consume.
func HighlightSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
