package kin

import (
	"slices"
	"strings"
)

// ByBirth compares two persons for layout ordering: earlier birth
// dates first, persons without a birth date after all dated persons,
// and the ID as a final tiebreak so the order is total.
func ByBirth(a, b *Person) int {
	switch {
	case a.HasBirthDate() && !b.HasBirthDate():
		return -1
	case !a.HasBirthDate() && b.HasBirthDate():
		return 1
	case a.HasBirthDate() && b.HasBirthDate():
		if c := a.Born.Compare(b.Born); c != 0 {
			return c
		}
	}
	return strings.Compare(a.ID, b.ID)
}

// SortByBirth sorts persons in place using ByBirth.
func SortByBirth(persons []*Person) {
	slices.SortFunc(persons, ByBirth)
}

// SortIDsByBirth sorts the given IDs in place by the birth order of
// the corresponding persons in g. IDs absent from the graph sort after
// all known persons, among themselves by ID.
func (g *Graph) SortIDsByBirth(ids []string) {
	slices.SortFunc(ids, func(a, b string) int {
		pa, okA := g.persons[a]
		pb, okB := g.persons[b]
		switch {
		case okA && !okB:
			return -1
		case !okA && okB:
			return 1
		case okA && okB:
			return ByBirth(pa, pb)
		}
		return strings.Compare(a, b)
	})
}
