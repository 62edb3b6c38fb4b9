package layout

import "github.com/pedigraph/pedigraph/pkg/kin"

// Oracle supplies externally precomputed degrees of separation from
// the root person. The engine uses it only to decide which persons are
// in scope for a run: a negative degree excludes the person. A nil
// Oracle leaves every person in scope.
//
// [kin.DegreeMap] satisfies this interface, so a caller without an
// external relationship service can use kin.Graph.DegreesFrom.
type Oracle interface {
	DegreeOfSeparation(id string) int
}

// workingSet resolves the IDs in scope for a run. The root is always
// in scope regardless of what the oracle reports for it.
func workingSet(g *kin.Graph, rootID string, oracle Oracle) map[string]struct{} {
	scope := make(map[string]struct{}, g.Count())
	for _, p := range g.Persons() {
		if oracle != nil && p.ID != rootID && oracle.DegreeOfSeparation(p.ID) < 0 {
			continue
		}
		scope[p.ID] = struct{}{}
	}
	return scope
}
