package connection

// pruneOpacity is the near-zero opacity below which a disappearing
// connection's fade-out counts as finished.
const pruneOpacity = 0.001

// Update reconciles the connections currently on screen with a
// freshly derived desired set and returns the merged list, sorted by
// ID. highlighted holds the person IDs on the active highlight path;
// nil means nothing is highlighted.
//
// Connections present in both sets keep their current instance: only
// the highlight flag is recomputed (true iff both endpoints are
// highlighted), the animation state is untouched. Desired-only
// connections are added in an appearing state. Current-only
// connections are marked disappearing so the renderer can fade them
// out; once disappearing they pass through later updates unchanged,
// which makes disappearance monotonic. Nothing is removed here - that
// is [Prune]'s job, after the fade has run its course.
func Update(current, desired []*Connection, highlighted map[string]struct{}) []*Connection {
	desiredByID := make(map[string]*Connection, len(desired))
	for _, c := range desired {
		desiredByID[c.ID] = c
	}

	merged := make([]*Connection, 0, len(current)+len(desired))
	currentIDs := make(map[string]struct{}, len(current))
	for _, c := range current {
		currentIDs[c.ID] = struct{}{}
		if _, wanted := desiredByID[c.ID]; wanted {
			c.Highlighted = isHighlighted(c, highlighted)
		} else if !c.Anim.Disappearing {
			c.Anim.Disappearing = true
		}
		merged = append(merged, c)
	}

	for _, c := range desired {
		if _, exists := currentIDs[c.ID]; exists {
			continue
		}
		c.Highlighted = isHighlighted(c, highlighted)
		merged = append(merged, c)
	}

	SortByID(merged)
	return merged
}

// Highlight recomputes every connection's highlight flag in place:
// true iff both endpoints are in the highlighted set. A nil set clears
// all highlights.
func Highlight(conns []*Connection, highlighted map[string]struct{}) {
	for _, c := range conns {
		c.Highlighted = isHighlighted(c, highlighted)
	}
}

// Prune drops connections whose disappearance animation has finished:
// disappearing with opacity decayed below the near-zero epsilon.
// Everything else survives in order.
func Prune(conns []*Connection) []*Connection {
	kept := make([]*Connection, 0, len(conns))
	for _, c := range conns {
		if c.Anim.Disappearing && c.Anim.Opacity < pruneOpacity {
			continue
		}
		kept = append(kept, c)
	}
	return kept
}

func isHighlighted(c *Connection, highlighted map[string]struct{}) bool {
	if highlighted == nil {
		return false
	}
	_, from := highlighted[c.FromID]
	_, to := highlighted[c.ToID]
	return from && to
}
