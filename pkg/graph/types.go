package graph

import (
	"fmt"
	"slices"
	"strings"
	"time"

	apperrors "github.com/pedigraph/pedigraph/pkg/errors"
	"github.com/pedigraph/pedigraph/pkg/kin"
)

// =============================================================================
// Constants - Single Source of Truth
// =============================================================================

// Birth date formats accepted on input. Output uses BornDateFormat
// unless the original value carried a time of day.
const (
	BornDateFormat = "2006-01-02" // preferred, human-editable
	BornTimeFormat = time.RFC3339 // accepted for timestamped records
)

// =============================================================================
// Graph - Family Graph Serialization
// =============================================================================

// Graph is the canonical serialization format for family graphs.
// Used for input documents, API requests, storage, and caching.
//
// The format is human-readable and designed for round-trip fidelity:
// import → transform → export → re-import produces identical results.
type Graph struct {
	Persons []Person `json:"persons" bson:"persons"`
	Root    string   `json:"root,omitempty" bson:"root,omitempty"`
}

// =============================================================================
// Person - Unified Person Type
// =============================================================================

// Person is the wire form of one family member. Relations are kept as
// declared; the in-memory graph indexes them symmetrically on load.
type Person struct {
	ID        string         `json:"id" bson:"id"`
	Name      string         `json:"name,omitempty" bson:"name,omitempty"`
	Born      string         `json:"born,omitempty" bson:"born,omitempty"`
	Relations []Relation     `json:"relations,omitempty" bson:"relations,omitempty"`
	Meta      map[string]any `json:"meta,omitempty" bson:"meta,omitempty"`
}

// DisplayName returns the name if set, otherwise the ID.
func (p *Person) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	return p.ID
}

// =============================================================================
// Relation - Declared Kinship Link
// =============================================================================

// Relation is a declared link from its owning person to Target.
// Type is one of "parent", "child", "spouse", "sibling", "other".
type Relation struct {
	Type   string `json:"type" bson:"type"`
	Target string `json:"target" bson:"target"`
}

// =============================================================================
// kin.Graph ↔ Graph Conversion
// =============================================================================

// FromKin converts an in-memory graph to its serialization format.
// Persons are sorted by ID for deterministic output; declared
// relations are preserved as-is.
func FromKin(g *kin.Graph, rootID string) Graph {
	persons := g.Persons()
	slices.SortFunc(persons, func(a, b *kin.Person) int {
		return strings.Compare(a.ID, b.ID)
	})

	out := Graph{
		Persons: make([]Person, len(persons)),
		Root:    rootID,
	}
	for i, p := range persons {
		out.Persons[i] = personFromKin(p)
	}
	return out
}

// ToKin converts a Graph document to an in-memory graph.
// Returns an error for malformed, duplicate or empty person IDs and
// for birth dates that parse as neither a date nor an RFC 3339
// timestamp. Documents cross this boundary from files and API bodies,
// so IDs are screened here before they reach connection identifiers
// and store records.
func (gd Graph) ToKin() (*kin.Graph, error) {
	g := kin.New()

	for _, pd := range gd.Persons {
		if err := apperrors.ValidatePersonID(pd.ID); err != nil {
			return nil, err
		}
		born, err := ParseBorn(pd.Born)
		if err != nil {
			return nil, fmt.Errorf("person %s: %w", pd.ID, err)
		}

		p := kin.Person{
			ID:   pd.ID,
			Name: pd.Name,
			Born: born,
			Meta: copyMeta(pd.Meta),
		}
		for _, rd := range pd.Relations {
			p.Relations = append(p.Relations, kin.Relation{
				Type:     kin.ParseRelType(rd.Type),
				TargetID: rd.Target,
			})
		}

		if err := g.AddPerson(p); err != nil {
			return nil, fmt.Errorf("add person %s: %w", pd.ID, err)
		}
	}

	return g, nil
}

// ParseBorn parses a wire birth date. Empty means unknown and yields
// the zero time. Both plain dates ("1960-04-21") and RFC 3339
// timestamps are accepted.
func ParseBorn(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(BornDateFormat, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(BornTimeFormat, s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid born date %q (want YYYY-MM-DD or RFC 3339)", s)
}

// FormatBorn renders a birth date for the wire. The zero time renders
// as the empty string; midnight UTC dates render date-only.
func FormatBorn(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	if h, m, s := t.Clock(); h == 0 && m == 0 && s == 0 && t.Location() == time.UTC {
		return t.Format(BornDateFormat)
	}
	return t.Format(BornTimeFormat)
}

// =============================================================================
// Internal Helpers
// =============================================================================

// personFromKin converts a kin.Person to its wire form. This is the
// single point of conversion for all kin→Person operations.
func personFromKin(p *kin.Person) Person {
	pd := Person{
		ID:   p.ID,
		Name: p.Name,
		Born: FormatBorn(p.Born),
		Meta: copyMeta(p.Meta),
	}
	for _, r := range p.Relations {
		pd.Relations = append(pd.Relations, Relation{
			Type:   r.Type.String(),
			Target: r.TargetID,
		})
	}
	return pd
}

// copyMeta creates a shallow copy of metadata to avoid mutation.
// Returns nil for empty input so omitempty keeps documents clean.
func copyMeta(m map[string]any) map[string]any {
	if len(m) == 0 {
		return nil
	}
	result := make(map[string]any, len(m))
	for k, v := range m {
		result[k] = v
	}
	return result
}
