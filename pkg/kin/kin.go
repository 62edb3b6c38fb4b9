package kin

import (
	"errors"
	"time"
)

var (
	// ErrInvalidPersonID is returned by [Graph.AddPerson] when the person ID
	// is empty. All persons must have non-empty identifiers.
	ErrInvalidPersonID = errors.New("person ID must not be empty")

	// ErrDuplicatePersonID is returned by [Graph.AddPerson] when a person
	// with the same ID already exists in the graph. Person IDs must be unique.
	ErrDuplicatePersonID = errors.New("duplicate person ID")
)

// RelType classifies a relation between two persons.
type RelType int

const (
	// RelParent marks the target as a parent of the declaring person.
	RelParent RelType = iota
	// RelChild marks the target as a child of the declaring person.
	RelChild
	// RelSpouse marks the target as a spouse of the declaring person.
	RelSpouse
	// RelSibling marks the target as a sibling of the declaring person.
	RelSibling
	// RelOther covers relations the layout treats as loose kinship
	// (in-laws, godparents, unclassified contacts).
	RelOther
)

var relTypeNames = map[RelType]string{
	RelParent:  "parent",
	RelChild:   "child",
	RelSpouse:  "spouse",
	RelSibling: "sibling",
	RelOther:   "other",
}

// String returns the lowercase wire name of the relation type.
func (t RelType) String() string {
	if s, ok := relTypeNames[t]; ok {
		return s
	}
	return "other"
}

// ParseRelType maps a wire name back to a RelType.
// Unknown names parse as RelOther so malformed input degrades to loose
// kinship instead of failing the whole document.
func ParseRelType(s string) RelType {
	for t, name := range relTypeNames {
		if name == s {
			return t
		}
	}
	return RelOther
}

// Relation is one directed, typed link from its declaring person to
// TargetID. The target does not have to exist in the graph; relations
// to absent persons are indexed but never reached by the layout,
// which only visits persons in the working set.
type Relation struct {
	Type     RelType
	TargetID string
}

// Metadata stores arbitrary key-value pairs attached to a person.
// The layout carries it through to positions unchanged (display
// labels, relationship-kind strings from the classification service,
// photo references). Metadata maps are never nil after AddPerson.
type Metadata map[string]any

// Person is one vertex of the family graph.
//
// The zero value is not usable - ID must be set before adding to a
// Graph. Born is optional; the zero time means the birth date is
// unknown and sorts after all known dates.
type Person struct {
	ID        string
	Name      string    // display label, carried through to layout output
	Born      time.Time // zero = unknown
	Relations []Relation
	Meta      Metadata
}

// HasBirthDate reports whether the person's birth date is known.
func (p *Person) HasBirthDate() bool { return !p.Born.IsZero() }
