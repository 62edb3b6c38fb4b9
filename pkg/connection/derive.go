package connection

import (
	"slices"
	"strings"

	"github.com/pedigraph/pedigraph/pkg/kin"
)

// Derive computes the canonical, deduplicated edge set implied by the
// graph's relations: one spouse edge per couple and one parent→child
// edge per parent/child pair. The graph's symmetric adjacency already
// folds both relation directions together, so an edge declared from
// either side (or both) appears exactly once. Edges to persons absent
// from the graph are skipped.
//
// The result is sorted by ID. Every connection starts fully opaque
// with DrawProgress 0, ready to animate in.
func Derive(g *kin.Graph) []*Connection {
	if g == nil {
		return nil
	}

	byID := make(map[string]*Connection)
	for _, p := range g.Persons() {
		for _, spouseID := range g.SpousesOf(p.ID) {
			if !g.Contains(spouseID) {
				continue
			}
			c := NewSpouse(p.ID, spouseID)
			if _, dup := byID[c.ID]; !dup {
				byID[c.ID] = c
			}
		}
		for _, childID := range g.ChildrenOf(p.ID) {
			if !g.Contains(childID) {
				continue
			}
			c := NewParentChild(p.ID, childID)
			if _, dup := byID[c.ID]; !dup {
				byID[c.ID] = c
			}
		}
	}

	conns := make([]*Connection, 0, len(byID))
	for _, c := range byID {
		conns = append(conns, c)
	}
	SortByID(conns)
	return conns
}

// SortByID sorts connections in place by canonical ID.
func SortByID(conns []*Connection) {
	slices.SortFunc(conns, func(a, b *Connection) int {
		return strings.Compare(a.ID, b.ID)
	})
}

// IDs extracts the canonical ID of each connection, in slice order.
func IDs(conns []*Connection) []string {
	ids := make([]string, len(conns))
	for i, c := range conns {
		ids[i] = c.ID
	}
	return ids
}
