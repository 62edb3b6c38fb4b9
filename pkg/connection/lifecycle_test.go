package connection

import (
	"testing"
)

func findConn(t *testing.T, conns []*Connection, id string) *Connection {
	t.Helper()
	for _, c := range conns {
		if c.ID == id {
			return c
		}
	}
	t.Fatalf("no connection %q in %v", id, IDs(conns))
	return nil
}

func TestUpdateKeepsSurvivingInstances(t *testing.T) {
	kept := NewSpouse("a", "b")
	kept.Anim.DrawProgress = 0.7

	current := []*Connection{kept}
	desired := []*Connection{NewSpouse("a", "b")}

	merged := Update(current, desired, nil)
	if len(merged) != 1 {
		t.Fatalf("merged %d connections, want 1", len(merged))
	}
	if merged[0] != kept {
		t.Error("surviving connection was recreated instead of kept")
	}
	if merged[0].Anim.DrawProgress != 0.7 {
		t.Errorf("DrawProgress = %v, animation state must be untouched", merged[0].Anim.DrawProgress)
	}
}

func TestUpdateRecomputesHighlight(t *testing.T) {
	c := NewSpouse("a", "b")
	c.Highlighted = true

	// Only one endpoint highlighted: the flag must drop.
	merged := Update([]*Connection{c}, []*Connection{NewSpouse("a", "b")},
		HighlightSet([]string{"a"}))
	if merged[0].Highlighted {
		t.Error("Highlighted = true with only one endpoint on the path")
	}

	// Both endpoints highlighted: the flag must rise.
	merged = Update(merged, []*Connection{NewSpouse("a", "b")},
		HighlightSet([]string{"a", "b"}))
	if !merged[0].Highlighted {
		t.Error("Highlighted = false with both endpoints on the path")
	}
}

func TestHighlight(t *testing.T) {
	conns := []*Connection{
		NewSpouse("a", "b"),
		NewParentChild("a", "c"),
		NewParentChild("b", "c"),
	}

	Highlight(conns, HighlightSet([]string{"a", "c"}))
	for _, c := range conns {
		want := c.ID == ParentChildID("a", "c")
		if c.Highlighted != want {
			t.Errorf("%s: Highlighted = %v, want %v", c.ID, c.Highlighted, want)
		}
	}

	// Nil set clears every flag.
	Highlight(conns, nil)
	for _, c := range conns {
		if c.Highlighted {
			t.Errorf("%s still highlighted after clearing", c.ID)
		}
	}
}

func TestUpdateAddsAppearing(t *testing.T) {
	desired := []*Connection{NewParentChild("p", "c")}

	merged := Update(nil, desired, nil)
	if len(merged) != 1 {
		t.Fatalf("merged %d connections, want 1", len(merged))
	}
	got := merged[0]
	if got.Anim.DrawProgress != 0 || got.Anim.Disappearing {
		t.Errorf("appearing state = %+v, want DrawProgress 0 and not disappearing", got.Anim)
	}
}

func TestUpdateMarksObsoleteDisappearing(t *testing.T) {
	stale := NewSpouse("a", "b")

	merged := Update([]*Connection{stale}, nil, nil)
	if len(merged) != 1 {
		t.Fatalf("merged %d connections, want the stale one retained", len(merged))
	}
	if !stale.Anim.Disappearing {
		t.Error("obsolete connection was not marked disappearing")
	}
}

// Once disappearing, a connection never returns to a steady state: it
// either stays disappearing or is pruned.
func TestLifecycleMonotonicity(t *testing.T) {
	c := NewSpouse("a", "b")

	// First update drops the edge from the desired set.
	Update([]*Connection{c}, nil, nil)
	if !c.Anim.Disappearing {
		t.Fatal("connection not marked disappearing")
	}

	// The edge stays absent: state passes through unchanged.
	Update([]*Connection{c}, nil, nil)
	if !c.Anim.Disappearing {
		t.Error("second update cleared the disappearing flag")
	}

	// The edge becomes desired again while the fade runs: identity is
	// kept but the disappearance is not reversed.
	merged := Update([]*Connection{c}, []*Connection{NewSpouse("a", "b")}, nil)
	if merged[0] != c {
		t.Error("re-desired connection was recreated")
	}
	if !c.Anim.Disappearing {
		t.Error("re-desiring a disappearing connection reversed its state")
	}
}

func TestUpdateMergesAndSorts(t *testing.T) {
	old := NewSpouse("x", "y")
	currentOnly := NewParentChild("p", "gone")
	current := []*Connection{old, currentOnly}
	desired := []*Connection{NewSpouse("x", "y"), NewParentChild("p", "new")}

	merged := Update(current, desired, nil)
	if len(merged) != 3 {
		t.Fatalf("merged %d connections, want 3", len(merged))
	}
	for i := 1; i < len(merged); i++ {
		if merged[i-1].ID > merged[i].ID {
			t.Errorf("merged output not sorted: %v", IDs(merged))
		}
	}
	if c := findConn(t, merged, "parentChild-p-gone"); !c.Anim.Disappearing {
		t.Error("dropped edge not disappearing")
	}
	if c := findConn(t, merged, "parentChild-p-new"); c.Anim.Disappearing {
		t.Error("fresh edge marked disappearing")
	}
}

func TestPrune(t *testing.T) {
	faded := NewSpouse("a", "b")
	faded.Anim.Disappearing = true
	faded.Anim.Opacity = 0.0005

	fading := NewSpouse("c", "d")
	fading.Anim.Disappearing = true
	fading.Anim.Opacity = 0.4

	transparent := NewSpouse("e", "f")
	transparent.Anim.Opacity = 0 // not disappearing, stays

	kept := Prune([]*Connection{faded, fading, transparent})
	if len(kept) != 2 {
		t.Fatalf("kept %d connections, want 2", len(kept))
	}
	for _, c := range kept {
		if c == faded {
			t.Error("fully faded connection survived pruning")
		}
	}
}
