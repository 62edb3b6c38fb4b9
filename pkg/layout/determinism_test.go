package layout

import (
	"fmt"
	"io"
	"math/rand"
	"reflect"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/pedigraph/pedigraph/pkg/kin"
)

// randomFamily builds a reproducible pseudo-random family graph: every
// person after the first carries one relation of a random kind to a
// random earlier person, and three quarters have birth dates.
func randomFamily(seed int64, n int) *kin.Graph {
	rng := rand.New(rand.NewSource(seed))
	relTypes := []kin.RelType{kin.RelParent, kin.RelChild, kin.RelSpouse, kin.RelSibling, kin.RelOther}

	g := kin.New()
	for i := 0; i < n; i++ {
		p := kin.Person{ID: fmt.Sprintf("p%03d", i)}
		if rng.Intn(4) > 0 {
			p.Born = time.Date(1900+rng.Intn(120), time.Month(1+rng.Intn(12)), 1+rng.Intn(28), 0, 0, 0, 0, time.UTC)
		}
		if i > 0 {
			p.Relations = []kin.Relation{{
				Type:     relTypes[rng.Intn(len(relTypes))],
				TargetID: fmt.Sprintf("p%03d", rng.Intn(i)),
			}}
		}
		if err := g.AddPerson(p); err != nil {
			panic(err)
		}
	}
	return g
}

// TestLayoutProperties checks invariants that must hold for any family
// graph, not just the handcrafted ones.
func TestLayoutProperties(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping property-based test in short mode")
	}

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 30

	properties := gopter.NewProperties(parameters)
	e := &Engine{Logger: log.New(io.Discard)}

	properties.Property("identical input yields an identical layout", prop.ForAll(
		func(seed int64, n int) bool {
			g := randomFamily(seed, n)
			first, err := e.Compute(g, "p000", nil, DefaultConfig())
			if err != nil {
				return false
			}
			again, err := e.Compute(g, "p000", nil, DefaultConfig())
			if err != nil {
				return false
			}
			return reflect.DeepEqual(first, again)
		},
		gen.Int64(),
		gen.IntRange(2, 25),
	))

	properties.Property("the root is always at the origin", prop.ForAll(
		func(seed int64, n int) bool {
			g := randomFamily(seed, n)
			positions, err := e.Compute(g, "p000", nil, DefaultConfig())
			if err != nil {
				return false
			}
			root, ok := PositionMap(positions)["p000"]
			return ok && root.X == 0 && root.Y == 0 && root.Generation == 0
		},
		gen.Int64(),
		gen.IntRange(2, 25),
	))

	properties.Property("every person is placed exactly once", prop.ForAll(
		func(seed int64, n int) bool {
			g := randomFamily(seed, n)
			positions, err := e.Compute(g, "p000", nil, DefaultConfig())
			if err != nil {
				return false
			}
			if len(positions) != n {
				return false
			}
			seen := make(map[string]struct{}, n)
			for _, p := range positions {
				if _, dup := seen[p.ID]; dup {
					return false
				}
				seen[p.ID] = struct{}{}
			}
			return true
		},
		gen.Int64(),
		gen.IntRange(2, 25),
	))

	properties.Property("no two persons share an exact point", prop.ForAll(
		func(seed int64, n int) bool {
			g := randomFamily(seed, n)
			positions, err := e.Compute(g, "p000", nil, DefaultConfig())
			if err != nil {
				return false
			}
			seen := make(map[Point]struct{}, len(positions))
			for _, p := range positions {
				if _, taken := seen[p.Point()]; taken {
					return false
				}
				seen[p.Point()] = struct{}{}
			}
			return true
		},
		gen.Int64(),
		gen.IntRange(2, 25),
	))

	properties.TestingRun(t)
}
