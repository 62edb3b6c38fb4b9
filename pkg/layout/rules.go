package layout

import (
	"maps"
	"math"
	"slices"

	"github.com/pedigraph/pedigraph/pkg/kin"
)

// Relation weights for the fallback rule's nearest-relative scan.
// Lower weight wins; ties break on the smaller ID.
const (
	weightParentChild = 1.0
	weightSpouse      = 1.5
	weightSibling     = 2.0
	weightOther       = 3.0
)

// place assigns a position to one person via the first matching rule
// and commits it. Rule precedence: adjacent to spouse, below parents,
// above children, beside siblings, then the nearest-relative fallback.
func (s *session) place(id string) {
	pos, ok := s.bySpouse(id)
	if !ok {
		pos, ok = s.belowParents(id)
	}
	if !ok {
		pos, ok = s.aboveChildren(id)
	}
	if !ok {
		pos, ok = s.besideSiblings(id)
	}
	if !ok {
		pos = s.byNearestRelative(id)
	}
	s.commit(pos)
}

// bySpouse places the person next to an already placed spouse: same
// row, one SpouseSpacing to the right, flipped to the left when the
// right slot is unavailable.
func (s *session) bySpouse(id string) (Position, bool) {
	for _, spouseID := range s.graph.SpousesOf(id) {
		sp, ok := s.placed[spouseID]
		if !ok {
			continue
		}
		x := sp.X + s.cfg.SpouseSpacing
		preferLeft := false
		if !s.occupancy.Available(x, sp.Y, s.cfg.MinSpacing) {
			x = sp.X - s.cfg.SpouseSpacing
			preferLeft = true
		}
		x = s.occupancy.NearestAvailable(x, sp.Y, s.cfg.MinSpacing, preferLeft)
		return s.position(id, x, sp.Y, sp.Generation), true
	}
	return Position{}, false
}

// belowParents places the person one row below their placed parents,
// horizontally at the parents' mean X.
func (s *session) belowParents(id string) (Position, bool) {
	var parents []*Position
	for _, pid := range s.graph.ParentsOf(id) {
		if p, ok := s.placed[pid]; ok {
			parents = append(parents, p)
		}
	}
	if len(parents) == 0 {
		return Position{}, false
	}

	ref := parents[0]
	y := ref.Y - s.cfg.VerticalSpacing
	gen := ref.Generation + 1

	x := meanX(parents)
	// A person visited out of strict top-down order may already have
	// placed children; splitting the difference keeps the person
	// between both rows instead of orphaned to one side.
	if children := s.placedChildren(id); len(children) > 0 {
		x = (x + meanX(children)) / 2
	}
	x = s.occupancy.NearestAvailable(x, y, s.cfg.MinSpacing, false)
	return s.position(id, x, y, gen), true
}

// aboveChildren places the person one row above their placed children,
// centered over them, or mirrored across the center against a placed
// co-parent so the couple flanks the children.
func (s *session) aboveChildren(id string) (Position, bool) {
	children := s.placedChildren(id)
	if len(children) == 0 {
		return Position{}, false
	}

	ref := children[0]
	y := ref.Y + s.cfg.VerticalSpacing
	gen := ref.Generation - 1
	center := meanX(children)

	x := center
	if co := s.placedCoParentNear(id, children, gen, center); co != nil {
		x = 2*center - co.X
	}
	x = s.occupancy.NearestAvailable(x, y, s.cfg.MinSpacing, false)
	return s.position(id, x, y, gen), true
}

// placedCoParentNear finds another placed parent of one of the placed
// children, sitting in the target row within 2×SpouseSpacing of the
// children's center. Such a co-parent need not be linked to the person
// by a spouse relation; sharing a child is enough.
func (s *session) placedCoParentNear(id string, children []*Position, gen int, centerX float64) *Position {
	for _, child := range children {
		for _, pid := range s.graph.ParentsOf(child.ID) {
			if pid == id {
				continue
			}
			co, ok := s.placed[pid]
			if !ok || co.Generation != gen {
				continue
			}
			if math.Abs(co.X-centerX) <= 2*s.cfg.SpouseSpacing {
				return co
			}
		}
	}
	return nil
}

// besideSiblings places the person in the row of the earliest placed
// sibling: older than that sibling goes to its left, younger to its
// right, one BaseSpacing away.
func (s *session) besideSiblings(id string) (Position, bool) {
	var anchor *Position
	for _, sibID := range s.graph.SiblingsOf(id) {
		sib, ok := s.placed[sibID]
		if !ok {
			continue
		}
		if anchor == nil || s.seq[sib.ID] < s.seq[anchor.ID] {
			anchor = sib
		}
	}
	if anchor == nil {
		return Position{}, false
	}

	x := anchor.X + s.cfg.BaseSpacing
	preferLeft := false
	person, okP := s.graph.Person(id)
	anchorPerson, okA := s.graph.Person(anchor.ID)
	if okP && okA && kin.ByBirth(person, anchorPerson) < 0 {
		x = anchor.X - s.cfg.BaseSpacing
		preferLeft = true
	}
	x = s.occupancy.NearestAvailable(x, anchor.Y, s.cfg.MinSpacing, preferLeft)
	return s.position(id, x, anchor.Y, anchor.Generation), true
}

// byNearestRelative is the last resort: scan every placed person for
// the closest relationship to the candidate and place next to the
// best match, or next to the root when nothing relates. Panics if
// the root has not been placed, since placement order guarantees
// root-first and a violation means the engine's contract was broken.
func (s *session) byNearestRelative(id string) Position {
	root, ok := s.placed[s.rootID]
	if !ok {
		panic("layout: fallback placement before root; the root must be placed first")
	}

	ref := root
	bestWeight := math.Inf(1)
	for _, pid := range slices.Sorted(maps.Keys(s.placed)) {
		w, related := s.relationWeight(id, pid)
		if related && w < bestWeight {
			bestWeight = w
			ref = s.placed[pid]
		}
	}

	y, gen := ref.Y, ref.Generation
	switch {
	case s.graph.HasParent(ref.ID, id): // candidate is a parent of the reference
		y, gen = ref.Y+s.cfg.VerticalSpacing, ref.Generation-1
	case s.graph.HasParent(id, ref.ID): // candidate is a child of the reference
		y, gen = ref.Y-s.cfg.VerticalSpacing, ref.Generation+1
	}
	x := s.occupancy.NearestAvailable(ref.X+s.spacing(), y, s.cfg.MinSpacing, false)
	return s.position(id, x, y, gen)
}

func (s *session) relationWeight(id, otherID string) (float64, bool) {
	switch {
	case s.graph.HasParent(id, otherID) || s.graph.HasParent(otherID, id):
		return weightParentChild, true
	case s.graph.HasSpouse(id, otherID):
		return weightSpouse, true
	case s.graph.HasSibling(id, otherID):
		return weightSibling, true
	case s.graph.HasOther(id, otherID):
		return weightOther, true
	}
	return 0, false
}

// spacing returns the fallback rule's current horizontal spacing. It
// grows logarithmically with the number of placed persons so dense
// graphs spread out instead of piling up near the root.
func (s *session) spacing() float64 {
	placed := float64(len(s.placed))
	grown := s.cfg.BaseSpacing * math.Pow(s.cfg.ExpansionFactor, math.Log10(placed/10+1))
	return math.Max(s.cfg.MinSpacing, grown)
}

func (s *session) placedChildren(id string) []*Position {
	var out []*Position
	for _, cid := range s.graph.ChildrenOf(id) {
		if c, ok := s.placed[cid]; ok {
			out = append(out, c)
		}
	}
	return out
}

func meanX(positions []*Position) float64 {
	var sum float64
	for _, p := range positions {
		sum += p.X
	}
	return sum / float64(len(positions))
}
