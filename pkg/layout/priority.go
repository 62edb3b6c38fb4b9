package layout

import (
	"slices"

	"github.com/pedigraph/pedigraph/pkg/kin"
)

// OrderAround orders candidates relative to a focus person: parents
// first, then siblings, then spouse, then children, each bucket sorted
// by birth date ascending with the ID as tiebreak (persons without a
// birth date sort after dated ones). Candidates not related to the
// focus through one of those four kinds are omitted.
func OrderAround(g *kin.Graph, focusID string, candidates []string) []string {
	inSet := make(map[string]struct{}, len(candidates))
	for _, id := range candidates {
		inSet[id] = struct{}{}
	}

	seen := make(map[string]struct{})
	var ordered []string
	for _, bucket := range [][]string{
		g.ParentsOf(focusID),
		g.SiblingsOf(focusID),
		g.SpousesOf(focusID),
		g.ChildrenOf(focusID),
	} {
		var ids []string
		for _, id := range bucket {
			if _, ok := inSet[id]; !ok {
				continue
			}
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
		g.SortIDsByBirth(ids)
		ordered = append(ordered, ids...)
	}
	return ordered
}

// scoredID pairs a person with a placement priority. Scores strictly
// decrease in enqueue order, so sorting by score descending reproduces
// that order exactly.
type scoredID struct {
	id    string
	score float64
}

// orderScores expands outward from the root, scoring every in-scope
// person. The root's relatives are enqueued first (in OrderAround
// order); then each queued person's unvisited relatives are enqueued
// by the same rule, in the order they themselves were enqueued.
// Persons unreachable through family relations come last in ID order.
func orderScores(g *kin.Graph, rootID string, scope map[string]struct{}) []scoredID {
	inScope := func(id string) bool {
		if scope == nil {
			return g.Contains(id)
		}
		_, ok := scope[id]
		return ok
	}
	if !g.Contains(rootID) || !inScope(rootID) {
		return nil
	}

	visited := map[string]struct{}{rootID: {}}
	queue := []string{rootID}
	for i := 0; i < len(queue); i++ {
		var candidates []string
		for _, id := range g.Neighbors(queue[i]) {
			if _, done := visited[id]; done {
				continue
			}
			if !inScope(id) {
				continue
			}
			candidates = append(candidates, id)
		}
		for _, id := range OrderAround(g, queue[i], candidates) {
			visited[id] = struct{}{}
			queue = append(queue, id)
		}
	}

	var leftovers []string
	for _, p := range g.Persons() {
		if _, done := visited[p.ID]; done {
			continue
		}
		if !inScope(p.ID) {
			continue
		}
		leftovers = append(leftovers, p.ID)
	}
	slices.Sort(leftovers)
	queue = append(queue, leftovers...)

	scored := make([]scoredID, len(queue))
	for i, id := range queue {
		scored[i] = scoredID{id: id, score: float64(len(queue) - i)}
	}
	return scored
}

// Order returns the visitation order for a whole layout run: the root
// first, then its relatives expanding outward (see [OrderAround] for
// the per-person bucketing), with persons not linked through family
// relations appended last in ID order. A nil scope leaves every person
// in scope; otherwise only IDs present in scope are ordered. Returns
// nil when the root is missing or out of scope.
func Order(g *kin.Graph, rootID string, scope map[string]struct{}) []string {
	scored := orderScores(g, rootID, scope)
	slices.SortFunc(scored, func(a, b scoredID) int {
		switch {
		case a.score > b.score:
			return -1
		case a.score < b.score:
			return 1
		}
		return 0
	})
	ids := make([]string, len(scored))
	for i, s := range scored {
		ids[i] = s.id
	}
	return ids
}
