package layout

import (
	"errors"
	"io"
	"reflect"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/pedigraph/pedigraph/pkg/kin"
)

// quietEngine silences alignment warnings during tests.
func quietEngine() *Engine {
	return &Engine{Logger: log.New(io.Discard)}
}

func mustGraph(t *testing.T, persons ...kin.Person) *kin.Graph {
	t.Helper()
	g, err := kin.FromPersons(persons)
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func findPosition(t *testing.T, positions []Position, id string) Position {
	t.Helper()
	for _, p := range positions {
		if p.ID == id {
			return p
		}
	}
	t.Fatalf("no position for %q in %v", id, PositionIDs(positions))
	return Position{}
}

func TestComputeValidation(t *testing.T) {
	g := mustGraph(t, kin.Person{ID: "me"})

	if _, err := Compute(nil, "me", nil, DefaultConfig()); !errors.Is(err, ErrNilGraph) {
		t.Errorf("nil graph: got %v, want ErrNilGraph", err)
	}
	if _, err := Compute(g, "", nil, DefaultConfig()); !errors.Is(err, ErrUnknownRoot) {
		t.Errorf("empty root: got %v, want ErrUnknownRoot", err)
	}
	if _, err := Compute(g, "nobody", nil, DefaultConfig()); !errors.Is(err, ErrUnknownRoot) {
		t.Errorf("missing root: got %v, want ErrUnknownRoot", err)
	}
	if _, err := Compute(g, "me", nil, Config{}); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("zero config: got %v, want ErrInvalidConfig", err)
	}
}

func TestRootAtOrigin(t *testing.T) {
	g := mustGraph(t,
		kin.Person{ID: "me", Relations: []kin.Relation{
			{Type: kin.RelParent, TargetID: "father"},
			{Type: kin.RelSpouse, TargetID: "wife"},
		}},
		kin.Person{ID: "father"},
		kin.Person{ID: "wife"},
	)

	configs := []Config{
		DefaultConfig(),
		{BaseSpacing: 10, SpouseSpacing: 8, VerticalSpacing: 12, MinSpacing: 5, ExpansionFactor: 2},
	}
	for _, cfg := range configs {
		positions, err := quietEngine().Compute(g, "me", nil, cfg)
		if err != nil {
			t.Fatal(err)
		}
		root := findPosition(t, positions, "me")
		if root.X != 0 || root.Y != 0 || root.Generation != 0 {
			t.Errorf("root = (%v, %v) gen %d, want (0, 0) gen 0", root.X, root.Y, root.Generation)
		}
	}
}

func TestRootSpousePlacedSecond(t *testing.T) {
	g := mustGraph(t,
		kin.Person{ID: "me", Relations: []kin.Relation{{Type: kin.RelSpouse, TargetID: "wife"}}},
		kin.Person{ID: "wife"},
	)
	cfg := DefaultConfig()

	snapshots, err := ComputeIncremental(g, "me", nil, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if len(snapshots) != 2 {
		t.Fatalf("got %d snapshots, want 2", len(snapshots))
	}
	wife := findPosition(t, snapshots[1], "wife")
	if wife.X != cfg.SpouseSpacing || wife.Y != 0 || wife.Generation != 0 {
		t.Errorf("wife = (%v, %v) gen %d, want (%v, 0) gen 0", wife.X, wife.Y, wife.Generation, cfg.SpouseSpacing)
	}
}

// TestMeFatherIncremental walks the smallest ancestor layout: the root
// appears first at the origin, the father one vertical spacing above
// on the ancestor row.
func TestMeFatherIncremental(t *testing.T) {
	g := mustGraph(t,
		kin.Person{ID: "me", Relations: []kin.Relation{{Type: kin.RelParent, TargetID: "father"}}},
		kin.Person{ID: "father"},
	)
	cfg := DefaultConfig()

	snapshots, err := ComputeIncremental(g, "me", nil, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if len(snapshots) != 2 {
		t.Fatalf("got %d snapshots, want 2", len(snapshots))
	}
	if len(snapshots[0]) != 1 {
		t.Fatalf("step 1 has %d persons, want just the root", len(snapshots[0]))
	}

	me := findPosition(t, snapshots[1], "me")
	if me.X != 0 || me.Y != 0 || me.Generation != 0 {
		t.Errorf("me = (%v, %v) gen %d, want (0, 0) gen 0", me.X, me.Y, me.Generation)
	}
	father := findPosition(t, snapshots[1], "father")
	if father.X != 0 || father.Y != cfg.VerticalSpacing || father.Generation != -1 {
		t.Errorf("father = (%v, %v) gen %d, want (0, %v) gen -1",
			father.X, father.Y, father.Generation, cfg.VerticalSpacing)
	}

	final, err := Compute(g, "me", nil, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(final, snapshots[len(snapshots)-1]) {
		t.Error("Compute result differs from the last incremental snapshot")
	}
}

func TestSpouseRuleFlipsToLeftWhenRightBlocked(t *testing.T) {
	g := mustGraph(t,
		kin.Person{ID: "r", Relations: []kin.Relation{
			{Type: kin.RelChild, TargetID: "c1"},
			{Type: kin.RelChild, TargetID: "c2"},
		}},
		kin.Person{ID: "c1", Born: born(1990), Relations: []kin.Relation{{Type: kin.RelSpouse, TargetID: "s1"}}},
		kin.Person{ID: "c2", Born: born(1992)},
		kin.Person{ID: "s1"},
	)

	snapshots, err := quietEngine().ComputeIncremental(g, "r", nil, DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	if len(snapshots) < 4 {
		t.Fatalf("got %d snapshots, want at least 4", len(snapshots))
	}
	// At placement time the right slot of c1 sits within min spacing
	// of c2, so the spouse flips to the left side.
	s1 := findPosition(t, snapshots[3], "s1")
	if s1.X != -80 || s1.Y != -120 || s1.Generation != 1 {
		t.Errorf("s1 = (%v, %v) gen %d, want (-80, -120) gen 1", s1.X, s1.Y, s1.Generation)
	}
}

func TestBelowParentsUsesParentsMean(t *testing.T) {
	g := mustGraph(t,
		kin.Person{ID: "father", Relations: []kin.Relation{
			{Type: kin.RelSpouse, TargetID: "mother"},
			{Type: kin.RelChild, TargetID: "kid"},
		}},
		kin.Person{ID: "mother", Relations: []kin.Relation{{Type: kin.RelChild, TargetID: "kid"}}},
		kin.Person{ID: "kid"},
	)
	cfg := DefaultConfig()

	positions, err := Compute(g, "father", nil, cfg)
	if err != nil {
		t.Fatal(err)
	}
	kid := findPosition(t, positions, "kid")
	// Parents at X 0 and 80; the child lands centered between them one
	// row below, and alignment has nothing left to fix.
	if kid.X != 40 || kid.Y != -cfg.VerticalSpacing || kid.Generation != 1 {
		t.Errorf("kid = (%v, %v) gen %d, want (40, %v) gen 1", kid.X, kid.Y, kid.Generation, -cfg.VerticalSpacing)
	}
}

// The blend branch of the below-parents rule: a person visited after
// both a parent and a child are settled splits the difference.
func TestBelowParentsBlendsPlacedChildren(t *testing.T) {
	g := mustGraph(t,
		kin.Person{ID: "x", Relations: []kin.Relation{
			{Type: kin.RelParent, TargetID: "p"},
			{Type: kin.RelChild, TargetID: "c"},
		}},
		kin.Person{ID: "p"},
		kin.Person{ID: "c"},
	)
	cfg := DefaultConfig()

	s := newSession(g, "p", workingSet(g, "p", nil), cfg, false)
	s.commit(s.position("p", 100, 120, -1))
	s.commit(s.position("c", 0, -120, 1))

	pos, ok := s.belowParents("x")
	if !ok {
		t.Fatal("belowParents did not match")
	}
	if pos.X != 50 || pos.Y != 0 || pos.Generation != 0 {
		t.Errorf("x = (%v, %v) gen %d, want (50, 0) gen 0", pos.X, pos.Y, pos.Generation)
	}
}

func TestAboveChildrenMirrorsCoParent(t *testing.T) {
	g := mustGraph(t,
		kin.Person{ID: "kid1", Relations: []kin.Relation{{Type: kin.RelParent, TargetID: "dad"}}},
		kin.Person{ID: "kid2", Relations: []kin.Relation{
			{Type: kin.RelParent, TargetID: "dad"},
			{Type: kin.RelParent, TargetID: "mom"},
		}},
		kin.Person{ID: "dad"},
		kin.Person{ID: "mom"},
	)

	snapshots, err := quietEngine().ComputeIncremental(g, "kid1", nil, DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	if len(snapshots) < 4 {
		t.Fatalf("got %d snapshots, want at least 4", len(snapshots))
	}
	// dad sits at 0 on the ancestor row, kid2 at 50; mom mirrors dad
	// across the children's center instead of stacking on it.
	mom := findPosition(t, snapshots[3], "mom")
	if mom.X != 100 || mom.Y != 120 || mom.Generation != -1 {
		t.Errorf("mom = (%v, %v) gen %d, want (100, 120) gen -1", mom.X, mom.Y, mom.Generation)
	}
}

func TestSiblingsFlankTheAnchor(t *testing.T) {
	g := mustGraph(t,
		kin.Person{ID: "me", Born: born(1990), Relations: []kin.Relation{
			{Type: kin.RelSibling, TargetID: "bro"},
			{Type: kin.RelSibling, TargetID: "sis"},
		}},
		kin.Person{ID: "bro", Born: born(1985)},
		kin.Person{ID: "sis", Born: born(1995)},
	)
	cfg := DefaultConfig()

	positions, err := Compute(g, "me", nil, cfg)
	if err != nil {
		t.Fatal(err)
	}
	bro := findPosition(t, positions, "bro")
	if bro.X != -cfg.BaseSpacing || bro.Y != 0 {
		t.Errorf("older sibling = (%v, %v), want (%v, 0)", bro.X, bro.Y, -cfg.BaseSpacing)
	}
	sis := findPosition(t, positions, "sis")
	if sis.X != cfg.BaseSpacing || sis.Y != 0 {
		t.Errorf("younger sibling = (%v, %v), want (%v, 0)", sis.X, sis.Y, cfg.BaseSpacing)
	}
}

func TestFallbackPlacesLooseRelations(t *testing.T) {
	g := mustGraph(t,
		kin.Person{ID: "me", Relations: []kin.Relation{{Type: kin.RelOther, TargetID: "friend"}}},
		kin.Person{ID: "friend"},
	)

	positions, err := Compute(g, "me", nil, DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	friend := findPosition(t, positions, "friend")
	if friend.Y != 0 || friend.Generation != 0 {
		t.Errorf("friend = (%v, %v) gen %d, want the root's row", friend.X, friend.Y, friend.Generation)
	}
	if friend.X <= 0 {
		t.Errorf("friend.X = %v, want a positive offset from the root", friend.X)
	}
}

func TestFallbackPanicsWithoutRoot(t *testing.T) {
	g := mustGraph(t, kin.Person{ID: "me"}, kin.Person{ID: "loner"})
	s := newSession(g, "me", workingSet(g, "me", nil), DefaultConfig(), false)

	defer func() {
		if recover() == nil {
			t.Error("fallback before root placement did not panic")
		}
	}()
	s.byNearestRelative("loner")
}

func TestUnlinkedPersonsStillPlaced(t *testing.T) {
	g := mustGraph(t, kin.Person{ID: "me"}, kin.Person{ID: "loner"})

	positions, err := Compute(g, "me", nil, DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	if len(positions) != 2 {
		t.Fatalf("placed %d persons, want 2", len(positions))
	}
	loner := findPosition(t, positions, "loner")
	if loner.Generation != 0 || loner.Y != 0 {
		t.Errorf("loner = (%v, %v) gen %d, want the root's row", loner.X, loner.Y, loner.Generation)
	}
}

func TestOracleFiltersScope(t *testing.T) {
	g := mustGraph(t,
		kin.Person{ID: "me", Relations: []kin.Relation{{Type: kin.RelParent, TargetID: "father"}}},
		kin.Person{ID: "father"},
		kin.Person{ID: "stranger"},
	)
	oracle := kin.DegreeMap{"me": 0, "father": 1}

	positions, err := Compute(g, "me", oracle, DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	if len(positions) != 2 {
		t.Fatalf("placed %d persons, want 2 (stranger filtered out)", len(positions))
	}
	for _, p := range positions {
		if p.ID == "stranger" {
			t.Error("stranger placed despite a negative degree")
		}
	}
}

func TestIncrementalSnapshotsGrow(t *testing.T) {
	g := orderTestGraph(t)

	e := quietEngine()
	snapshots, err := e.ComputeIncremental(g, "me", nil, DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	count := g.Count()
	if len(snapshots) != count && len(snapshots) != count+1 {
		t.Fatalf("got %d snapshots for %d persons, want %d or %d", len(snapshots), count, count, count+1)
	}
	for i := 0; i < count; i++ {
		if len(snapshots[i]) != i+1 {
			t.Errorf("snapshot %d holds %d persons, want %d", i, len(snapshots[i]), i+1)
		}
	}

	final, err := e.Compute(g, "me", nil, DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(final, snapshots[len(snapshots)-1]) {
		t.Error("Compute result differs from the last incremental snapshot")
	}
}

func TestPositionsCarryMetadata(t *testing.T) {
	g := mustGraph(t,
		kin.Person{ID: "me", Name: "Me Myself", Meta: kin.Metadata{"label": "paternal"}},
	)

	positions, err := Compute(g, "me", nil, DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	me := findPosition(t, positions, "me")
	if me.Name != "Me Myself" {
		t.Errorf("Name = %q, want carried through", me.Name)
	}
	if me.Meta["label"] != "paternal" {
		t.Errorf("Meta = %v, want carried through", me.Meta)
	}
}

func TestComputeDeterministic(t *testing.T) {
	g := orderTestGraph(t)
	e := quietEngine()

	first, err := e.Compute(g, "me", nil, DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	for run := 0; run < 5; run++ {
		again, err := e.Compute(g, "me", nil, DefaultConfig())
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d differs from the first run", run)
		}
	}
}
