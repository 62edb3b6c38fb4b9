package graph

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/pedigraph/pedigraph/pkg/connection"
	"github.com/pedigraph/pedigraph/pkg/kin"
	"github.com/pedigraph/pedigraph/pkg/layout"
	"github.com/pedigraph/pedigraph/pkg/transition"
)

// =============================================================================
// Layout - Computed Layout Serialization
// =============================================================================

// Layout is the serialization format for a computed layout.
//
// Positions always holds the final settled snapshot. Steps is
// populated only for incremental layouts and then contains every
// intermediate snapshot in placement order, the last one identical to
// Positions. Connections carries the derived edges with their
// animation state so a stored layout can seed a transition.
type Layout struct {
	Root   string        `json:"root,omitempty" bson:"root,omitempty"`
	Config layout.Config `json:"config" bson:"config"`

	Positions []Position   `json:"positions" bson:"positions"`
	Steps     [][]Position `json:"steps,omitempty" bson:"steps,omitempty"`

	Connections []Connection `json:"connections,omitempty" bson:"connections,omitempty"`
}

// Position is the wire form of one placed person.
type Position struct {
	ID         string         `json:"id" bson:"id"`
	X          float64        `json:"x" bson:"x"`
	Y          float64        `json:"y" bson:"y"`
	Generation int            `json:"generation" bson:"generation"`
	Name       string         `json:"name,omitempty" bson:"name,omitempty"`
	Meta       map[string]any `json:"meta,omitempty" bson:"meta,omitempty"`
}

// Connection is the wire form of one derived edge.
// Type is "spouse" or "parentChild", matching the canonical ID prefix.
type Connection struct {
	ID           string  `json:"id" bson:"id"`
	Type         string  `json:"type" bson:"type"`
	From         string  `json:"from" bson:"from"`
	To           string  `json:"to" bson:"to"`
	Highlighted  bool    `json:"highlighted,omitempty" bson:"highlighted,omitempty"`
	Opacity      float64 `json:"opacity" bson:"opacity"`
	DrawProgress float64 `json:"drawProgress" bson:"drawProgress"`
	Disappearing bool    `json:"disappearing,omitempty" bson:"disappearing,omitempty"`
}

// =============================================================================
// Transition - Snapshot Diff Serialization
// =============================================================================

// Point is a bare coordinate pair, used by transition moves.
type Point struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// Move is the wire form of one animated node movement.
type Move struct {
	ID   string `json:"id" bson:"id"`
	From Point  `json:"from" bson:"from"`
	To   Point  `json:"to" bson:"to"`
}

// Transition is the serialization format for a snapshot diff.
type Transition struct {
	Appear    []Position `json:"appear,omitempty" bson:"appear,omitempty"`
	Disappear []Position `json:"disappear,omitempty" bson:"disappear,omitempty"`
	Moves     []Move     `json:"moves,omitempty" bson:"moves,omitempty"`

	ConnectionsToAppear    []Connection `json:"connectionsToAppear,omitempty" bson:"connectionsToAppear,omitempty"`
	ConnectionsToDisappear []Connection `json:"connectionsToDisappear,omitempty" bson:"connectionsToDisappear,omitempty"`

	HasChanges bool `json:"hasChanges" bson:"hasChanges"`
}

// =============================================================================
// Core ↔ Wire Conversion
// =============================================================================

// NewLayout assembles a Layout document from a full computation.
func NewLayout(rootID string, cfg layout.Config, positions []layout.Position, conns []*connection.Connection) Layout {
	return Layout{
		Root:        rootID,
		Config:      cfg,
		Positions:   FromPositions(positions),
		Connections: FromConnections(conns),
	}
}

// NewIncrementalLayout assembles a Layout document from incremental
// snapshots. The final snapshot doubles as Positions.
func NewIncrementalLayout(rootID string, cfg layout.Config, steps [][]layout.Position, conns []*connection.Connection) Layout {
	l := Layout{
		Root:        rootID,
		Config:      cfg,
		Steps:       make([][]Position, len(steps)),
		Connections: FromConnections(conns),
	}
	for i, step := range steps {
		l.Steps[i] = FromPositions(step)
	}
	if len(steps) > 0 {
		l.Positions = l.Steps[len(l.Steps)-1]
	}
	return l
}

// State converts the document's final snapshot into a transition
// snapshot the diff calculator consumes.
func (l Layout) State() (transition.State, error) {
	conns, err := ToConnections(l.Connections)
	if err != nil {
		return transition.State{}, err
	}
	return transition.State{
		Positions:   ToPositions(l.Positions),
		Connections: conns,
	}, nil
}

// FromPositions converts core positions to their wire form.
func FromPositions(ps []layout.Position) []Position {
	out := make([]Position, len(ps))
	for i, p := range ps {
		out[i] = Position{
			ID:         p.ID,
			X:          p.X,
			Y:          p.Y,
			Generation: p.Generation,
			Name:       p.Name,
			Meta:       copyMeta(p.Meta),
		}
	}
	return out
}

// ToPositions converts wire positions back to core positions.
func ToPositions(ps []Position) []layout.Position {
	out := make([]layout.Position, len(ps))
	for i, p := range ps {
		out[i] = layout.Position{
			ID:         p.ID,
			X:          p.X,
			Y:          p.Y,
			Generation: p.Generation,
			Name:       p.Name,
			Meta:       kin.Metadata(copyMeta(p.Meta)),
		}
	}
	return out
}

// FromConnections converts core connections to their wire form.
func FromConnections(conns []*connection.Connection) []Connection {
	if len(conns) == 0 {
		return nil
	}
	out := make([]Connection, len(conns))
	for i, c := range conns {
		out[i] = Connection{
			ID:           c.ID,
			Type:         c.Type.String(),
			From:         c.FromID,
			To:           c.ToID,
			Highlighted:  c.Highlighted,
			Opacity:      c.Anim.Opacity,
			DrawProgress: c.Anim.DrawProgress,
			Disappearing: c.Anim.Disappearing,
		}
	}
	return out
}

// ToConnections converts wire connections back to core connections.
// Returns an error for unknown connection types.
func ToConnections(conns []Connection) ([]*connection.Connection, error) {
	if len(conns) == 0 {
		return nil, nil
	}
	out := make([]*connection.Connection, len(conns))
	for i, cd := range conns {
		ct, ok := connection.ParseType(cd.Type)
		if !ok {
			return nil, fmt.Errorf("connection %s: unknown type %q", cd.ID, cd.Type)
		}
		out[i] = &connection.Connection{
			ID:          cd.ID,
			Type:        ct,
			FromID:      cd.From,
			ToID:        cd.To,
			Highlighted: cd.Highlighted,
			Anim: connection.AnimState{
				Opacity:      cd.Opacity,
				DrawProgress: cd.DrawProgress,
				Disappearing: cd.Disappearing,
			},
		}
	}
	return out, nil
}

// FromTransition converts a core transition to its wire form.
func FromTransition(t transition.Transition) Transition {
	out := Transition{
		Appear:                 FromPositions(t.Appear),
		Disappear:              FromPositions(t.Disappear),
		Moves:                  make([]Move, len(t.Moves)),
		ConnectionsToAppear:    FromConnections(t.ConnectionsToAppear),
		ConnectionsToDisappear: FromConnections(t.ConnectionsToDisappear),
		HasChanges:             t.HasChanges(),
	}
	for i, m := range t.Moves {
		out.Moves[i] = Move{
			ID:   m.ID,
			From: Point{X: m.From.X, Y: m.From.Y},
			To:   Point{X: m.To.X, Y: m.To.Y},
		}
	}
	if len(out.Appear) == 0 {
		out.Appear = nil
	}
	if len(out.Disappear) == 0 {
		out.Disappear = nil
	}
	if len(out.Moves) == 0 {
		out.Moves = nil
	}
	return out
}

// =============================================================================
// Layout Serialization API
// =============================================================================

// MarshalLayout serializes a Layout to pretty-printed JSON bytes.
func MarshalLayout(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// UnmarshalLayout deserializes JSON bytes into a Layout.
// Validates that the document carries at least one snapshot.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("unmarshal layout: %w", err)
	}

	if len(l.Positions) == 0 && len(l.Steps) > 0 {
		l.Positions = l.Steps[len(l.Steps)-1]
	}
	if len(l.Positions) == 0 {
		return Layout{}, fmt.Errorf("layout must contain positions")
	}

	return l, nil
}

// WriteLayoutFile writes a Layout to a JSON file.
func WriteLayoutFile(l Layout, path string) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadLayoutFile reads a Layout from a JSON file.
func ReadLayoutFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalLayout(data)
}

// MarshalTransition serializes a Transition to pretty-printed JSON bytes.
func MarshalTransition(t Transition) ([]byte, error) {
	return json.MarshalIndent(t, "", "  ")
}

// UnmarshalTransition deserializes JSON bytes into a Transition.
func UnmarshalTransition(data []byte) (Transition, error) {
	var t Transition
	if err := json.Unmarshal(data, &t); err != nil {
		return Transition{}, fmt.Errorf("unmarshal transition: %w", err)
	}
	return t, nil
}
