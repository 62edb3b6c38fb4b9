package kin

import (
	"slices"
)

// Graph is a family graph with a normalized symmetric adjacency index.
//
// Every relation is indexed in both directions when the declaring
// person is added: a Parent relation A→B lands in parents[A] and
// children[B], a Spouse relation in spouses on both sides, and so on.
// Duplicate declarations (both sides stating the same link) collapse
// to a single index entry.
//
// The zero value is not usable - use New to create a Graph.
// Graph is not safe for concurrent mutation; a fully built Graph is
// safe for concurrent reads.
type Graph struct {
	persons map[string]*Person
	order   []string // insertion order, for stable iteration

	parents  map[string][]string
	children map[string][]string
	spouses  map[string][]string
	siblings map[string][]string
	others   map[string][]string
}

// New creates an empty family graph.
func New() *Graph {
	return &Graph{
		persons:  make(map[string]*Person),
		parents:  make(map[string][]string),
		children: make(map[string][]string),
		spouses:  make(map[string][]string),
		siblings: make(map[string][]string),
		others:   make(map[string][]string),
	}
}

// FromPersons builds a graph from a person slice.
// Returns the first AddPerson error encountered.
func FromPersons(persons []Person) (*Graph, error) {
	g := New()
	for _, p := range persons {
		if err := g.AddPerson(p); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// AddPerson adds a person and indexes all of their relations in both
// directions. Returns ErrInvalidPersonID for an empty ID or
// ErrDuplicatePersonID if the ID is already present. The person's
// Meta field is initialized to an empty map if nil.
func (g *Graph) AddPerson(p Person) error {
	if p.ID == "" {
		return ErrInvalidPersonID
	}
	if _, exists := g.persons[p.ID]; exists {
		return ErrDuplicatePersonID
	}
	if p.Meta == nil {
		p.Meta = Metadata{}
	}
	person := &p
	g.persons[person.ID] = person
	g.order = append(g.order, person.ID)

	for _, r := range person.Relations {
		if r.TargetID == "" || r.TargetID == person.ID {
			continue
		}
		g.index(person.ID, r)
	}
	return nil
}

// index records one relation in both directions.
func (g *Graph) index(from string, r Relation) {
	switch r.Type {
	case RelParent:
		g.parents[from] = addUnique(g.parents[from], r.TargetID)
		g.children[r.TargetID] = addUnique(g.children[r.TargetID], from)
	case RelChild:
		g.children[from] = addUnique(g.children[from], r.TargetID)
		g.parents[r.TargetID] = addUnique(g.parents[r.TargetID], from)
	case RelSpouse:
		g.spouses[from] = addUnique(g.spouses[from], r.TargetID)
		g.spouses[r.TargetID] = addUnique(g.spouses[r.TargetID], from)
	case RelSibling:
		g.siblings[from] = addUnique(g.siblings[from], r.TargetID)
		g.siblings[r.TargetID] = addUnique(g.siblings[r.TargetID], from)
	default:
		g.others[from] = addUnique(g.others[from], r.TargetID)
		g.others[r.TargetID] = addUnique(g.others[r.TargetID], from)
	}
}

func addUnique(ids []string, id string) []string {
	if slices.Contains(ids, id) {
		return ids
	}
	return append(ids, id)
}

// Person returns the person with the given ID and true, or nil and false.
func (g *Graph) Person(id string) (*Person, bool) {
	p, ok := g.persons[id]
	return p, ok
}

// Contains reports whether a person with the given ID is in the graph.
func (g *Graph) Contains(id string) bool {
	_, ok := g.persons[id]
	return ok
}

// Persons returns all persons in insertion order.
// The returned slice holds pointers to the actual persons.
func (g *Graph) Persons() []*Person {
	out := make([]*Person, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.persons[id])
	}
	return out
}

// IDs returns all person IDs sorted ascending.
func (g *Graph) IDs() []string {
	ids := slices.Clone(g.order)
	slices.Sort(ids)
	return ids
}

// Count returns the number of persons in the graph.
func (g *Graph) Count() int { return len(g.persons) }

// ParentsOf returns the IDs indexed as parents of id, in index order.
// The result may name persons absent from the graph when the input
// data references them; treat it as a read-only view.
func (g *Graph) ParentsOf(id string) []string { return g.parents[id] }

// ChildrenOf returns the IDs indexed as children of id, in index order.
func (g *Graph) ChildrenOf(id string) []string { return g.children[id] }

// SpousesOf returns the IDs indexed as spouses of id, in index order.
func (g *Graph) SpousesOf(id string) []string { return g.spouses[id] }

// SiblingsOf returns the IDs indexed as siblings of id, in index order.
func (g *Graph) SiblingsOf(id string) []string { return g.siblings[id] }

// OthersOf returns the IDs linked to id by a loose relation, in index order.
func (g *Graph) OthersOf(id string) []string { return g.others[id] }

// HasParent reports whether parentID is indexed as a parent of childID
// (regardless of which side declared the relation).
func (g *Graph) HasParent(childID, parentID string) bool {
	return slices.Contains(g.parents[childID], parentID)
}

// HasSpouse reports whether a and b are indexed as spouses.
func (g *Graph) HasSpouse(a, b string) bool {
	return slices.Contains(g.spouses[a], b)
}

// HasSibling reports whether a and b are indexed as siblings.
func (g *Graph) HasSibling(a, b string) bool {
	return slices.Contains(g.siblings[a], b)
}

// HasOther reports whether a and b are linked by a loose relation.
func (g *Graph) HasOther(a, b string) bool {
	return slices.Contains(g.others[a], b)
}

// Neighbors returns the union of all relation partners of id that
// exist in the graph, deduplicated, in index order (parents, children,
// spouses, siblings, others).
func (g *Graph) Neighbors(id string) []string {
	var out []string
	for _, group := range [][]string{g.parents[id], g.children[id], g.spouses[id], g.siblings[id], g.others[id]} {
		for _, other := range group {
			if g.Contains(other) {
				out = addUnique(out, other)
			}
		}
	}
	return out
}

// Unknown returns the IDs referenced by relations but absent from the
// graph, sorted ascending. Useful for warning about dangling input.
func (g *Graph) Unknown() []string {
	seen := make(map[string]struct{})
	for _, maps := range []map[string][]string{g.parents, g.children, g.spouses, g.siblings, g.others} {
		for id, targets := range maps {
			if !g.Contains(id) {
				seen[id] = struct{}{}
			}
			for _, t := range targets {
				if !g.Contains(t) {
					seen[t] = struct{}{}
				}
			}
		}
	}
	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// DegreeMap holds BFS distances from a root person.
// It satisfies the layout engine's relationship-oracle interface.
type DegreeMap map[string]int

// DegreeOfSeparation returns the BFS distance to id, or -1 when id was
// not reachable from the root the map was built from.
func (m DegreeMap) DegreeOfSeparation(id string) int {
	if d, ok := m[id]; ok {
		return d
	}
	return -1
}

// DegreesFrom computes BFS degrees of separation from rootID over all
// relation kinds. Unreachable persons are absent from the result.
// Neighbor expansion follows index order, so the result is
// deterministic for a given build sequence.
func (g *Graph) DegreesFrom(rootID string) DegreeMap {
	degrees := DegreeMap{}
	if !g.Contains(rootID) {
		return degrees
	}
	degrees[rootID] = 0
	queue := []string{rootID}
	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]
		for _, next := range g.Neighbors(curr) {
			if _, seen := degrees[next]; seen {
				continue
			}
			degrees[next] = degrees[curr] + 1
			queue = append(queue, next)
		}
	}
	return degrees
}

// Path returns the shortest relationship path from one person to
// another (inclusive of both endpoints), or nil if no path exists.
// Useful for building the highlight set the connection lifecycle
// consumes.
func (g *Graph) Path(fromID, toID string) []string {
	if !g.Contains(fromID) || !g.Contains(toID) {
		return nil
	}
	if fromID == toID {
		return []string{fromID}
	}
	prev := map[string]string{fromID: fromID}
	queue := []string{fromID}
	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]
		for _, next := range g.Neighbors(curr) {
			if _, seen := prev[next]; seen {
				continue
			}
			prev[next] = curr
			if next == toID {
				return rebuildPath(prev, fromID, toID)
			}
			queue = append(queue, next)
		}
	}
	return nil
}

func rebuildPath(prev map[string]string, fromID, toID string) []string {
	path := []string{toID}
	for curr := toID; curr != fromID; {
		curr = prev[curr]
		path = append(path, curr)
	}
	slices.Reverse(path)
	return path
}

// WithinDegree returns a new graph containing only the persons within
// maxDegree BFS steps of rootID. Relations survive intact; links to
// persons outside the cut simply point at absent IDs. A negative
// maxDegree returns the whole graph.
func (g *Graph) WithinDegree(rootID string, maxDegree int) *Graph {
	if maxDegree < 0 {
		return g
	}
	degrees := g.DegreesFrom(rootID)
	sub := New()
	for _, id := range g.order {
		d, reachable := degrees[id]
		if !reachable || d > maxDegree {
			continue
		}
		// AddPerson cannot fail here: IDs were unique in the source graph.
		_ = sub.AddPerson(*g.persons[id])
	}
	return sub
}
