package layout

import (
	"math"
	"slices"
	"strings"
)

// maxAlignPasses caps the convergence loop. Hitting the cap means the
// layout may not be perfectly centered; it is logged and the best
// layout achieved is returned.
const maxAlignPasses = 10

// alignEpsilon is the smallest horizontal move worth making. Mutual
// centering against the immovable anchor approaches its fixed point
// geometrically, so sub-half-unit wiggle is cut off to let passes
// settle; the error left behind is invisible at layout scale.
const alignEpsilon = 0.5

// residualTolerance is the parent/children centering error above which
// a group's parents get one extra nudge per pass.
const residualTolerance = 1.0

// align runs convergence passes over the session until a pass makes
// zero adjustments or the pass cap is hit. Reports whether any person
// moved at all.
func (e *Engine) align(s *session) bool {
	adjusted := false
	for pass := 1; pass <= maxAlignPasses; pass++ {
		if alignPass(s) == 0 {
			return adjusted
		}
		adjusted = true
	}
	e.logger().Warn("layout alignment hit its pass cap without converging",
		"passes", maxAlignPasses, "persons", len(s.placed))
	return adjusted
}

// parentGroup collects the placed children that share an exact placed
// parent set. Keying on the sorted parent IDs makes co-parents group
// together no matter which relation direction declared them.
type parentGroup struct {
	key      string
	parents  []string
	children []string
}

// alignPass runs one convergence sweep and returns the number of
// adjustments made. Groups are processed in ascending generation so
// ancestor rows settle before descendants use them as references.
func alignPass(s *session) int {
	adjustments := 0
	for _, grp := range parentGroups(s) {
		adjustments += alignGroup(s, grp)
	}
	return adjustments
}

func parentGroups(s *session) []parentGroup {
	byKey := make(map[string]*parentGroup)
	for id := range s.placed {
		var parents []string
		for _, pid := range s.graph.ParentsOf(id) {
			if _, ok := s.placed[pid]; ok {
				parents = append(parents, pid)
			}
		}
		if len(parents) == 0 {
			continue
		}
		slices.Sort(parents)
		key := strings.Join(parents, ",")
		grp, ok := byKey[key]
		if !ok {
			grp = &parentGroup{key: key, parents: parents}
			byKey[key] = grp
		}
		grp.children = append(grp.children, id)
	}

	groups := make([]parentGroup, 0, len(byKey))
	for _, grp := range byKey {
		slices.Sort(grp.children)
		groups = append(groups, *grp)
	}
	slices.SortFunc(groups, func(a, b parentGroup) int {
		if ga, gb := s.groupGeneration(a), s.groupGeneration(b); ga != gb {
			return ga - gb
		}
		return strings.Compare(a.key, b.key)
	})
	return groups
}

func (s *session) groupGeneration(grp parentGroup) int {
	gen := math.MaxInt
	for _, id := range grp.children {
		if p := s.placed[id]; p.Generation < gen {
			gen = p.Generation
		}
	}
	return gen
}

// alignGroup centers one family unit: parents above the children's
// center, children evenly spread under the parents' center, and one
// extra parent nudge when the residual error is still over tolerance.
func alignGroup(s *session, grp parentGroup) int {
	children := make([]*Position, len(grp.children))
	for i, id := range grp.children {
		children[i] = s.placed[id]
	}

	adjustments := centerParents(s, grp.parents, meanX(children))

	parents := make([]*Position, len(grp.parents))
	for i, id := range grp.parents {
		parents[i] = s.placed[id]
	}
	parentCenter := meanX(parents)
	adjustments += spreadChildren(s, children, parentCenter)

	if residual := parentCenter - meanX(children); math.Abs(residual) > residualTolerance {
		adjustments += centerParents(s, grp.parents, meanX(children))
	}
	return adjustments
}

// centerParents centers a parent row on x: a single parent snaps to
// the center, two spread as a couple by SpouseSpacing, more than two
// spread evenly by SpouseSpacing. Left-to-right reading order is kept.
func centerParents(s *session, parentIDs []string, x float64) int {
	parents := make([]*Position, len(parentIDs))
	for i, id := range parentIDs {
		parents[i] = s.placed[id]
	}
	sortByX(parents)

	adjustments := 0
	start := x - s.cfg.SpouseSpacing*float64(len(parents)-1)/2
	for i, p := range parents {
		adjustments += s.moveX(p, start+float64(i)*s.cfg.SpouseSpacing)
	}
	return adjustments
}

// spreadChildren lays children out evenly by BaseSpacing centered on
// x, keeping their current left-to-right order.
func spreadChildren(s *session, children []*Position, x float64) int {
	sortByX(children)

	adjustments := 0
	start := x - s.cfg.BaseSpacing*float64(len(children)-1)/2
	for i, c := range children {
		adjustments += s.moveX(c, start+float64(i)*s.cfg.BaseSpacing)
	}
	return adjustments
}

func sortByX(positions []*Position) {
	slices.SortStableFunc(positions, func(a, b *Position) int {
		switch {
		case a.X < b.X:
			return -1
		case a.X > b.X:
			return 1
		}
		return strings.Compare(a.ID, b.ID)
	})
}

// moveX shifts a placed person horizontally, keeping the occupancy
// index in step. The anchor's X is immutable. A target point already
// taken by someone else resolves through the occupancy probe; when
// even that fails the person stays put rather than sharing a point.
func (s *session) moveX(p *Position, x float64) int {
	if p.ID == s.rootID {
		return 0
	}
	if math.Abs(p.X-x) <= alignEpsilon {
		return 0
	}
	s.occupancy.Unmark(p.X, p.Y)
	if s.occupancy.Occupied(x, p.Y) {
		x = s.occupancy.NearestAvailable(x, p.Y, s.cfg.MinSpacing, x < p.X)
	}
	if s.occupancy.Occupied(x, p.Y) || math.Abs(p.X-x) <= alignEpsilon {
		s.occupancy.Mark(p.X, p.Y)
		return 0
	}
	s.occupancy.Mark(x, p.Y)
	p.X = x
	return 1
}
