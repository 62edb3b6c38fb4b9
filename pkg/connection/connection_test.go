package connection

import "testing"

func TestSpouseIDOrderIndependent(t *testing.T) {
	ab := SpouseID("alice", "bob")
	ba := SpouseID("bob", "alice")
	if ab != ba {
		t.Errorf("SpouseID(alice, bob) = %q, SpouseID(bob, alice) = %q, want identical", ab, ba)
	}
	if ab != "spouse-alice-bob" {
		t.Errorf("SpouseID = %q, want spouse-alice-bob", ab)
	}
}

func TestParentChildIDDirectional(t *testing.T) {
	pc := ParentChildID("parent", "child")
	if pc != "parentChild-parent-child" {
		t.Errorf("ParentChildID = %q, want parentChild-parent-child", pc)
	}
	if rev := ParentChildID("child", "parent"); rev == pc {
		t.Error("reversed arguments produced the same ID, direction must matter")
	}
}

func TestNewSpouseNormalizesEndpoints(t *testing.T) {
	c := NewSpouse("zoe", "adam")
	if c.FromID != "adam" || c.ToID != "zoe" {
		t.Errorf("endpoints = (%s, %s), want normalized (adam, zoe)", c.FromID, c.ToID)
	}
	if c.Type != TypeSpouse {
		t.Errorf("Type = %v, want TypeSpouse", c.Type)
	}
}

func TestFreshAnimationState(t *testing.T) {
	for _, c := range []*Connection{
		NewSpouse("a", "b"),
		NewParentChild("a", "b"),
	} {
		if c.Anim.Opacity != 1 {
			t.Errorf("%s: Opacity = %v, want 1", c.ID, c.Anim.Opacity)
		}
		if c.Anim.DrawProgress != 0 {
			t.Errorf("%s: DrawProgress = %v, want 0", c.ID, c.Anim.DrawProgress)
		}
		if c.Anim.Disappearing {
			t.Errorf("%s: fresh connection must not be disappearing", c.ID)
		}
	}
}

func TestTypeString(t *testing.T) {
	if got := TypeSpouse.String(); got != "spouse" {
		t.Errorf("TypeSpouse = %q", got)
	}
	if got := TypeParentChild.String(); got != "parentChild" {
		t.Errorf("TypeParentChild = %q", got)
	}
}
