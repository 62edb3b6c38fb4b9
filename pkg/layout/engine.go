package layout

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/pedigraph/pedigraph/pkg/kin"
)

// Engine computes layouts. The zero value is ready to use; Logger may
// be set to route alignment warnings somewhere other than the default
// logger.
type Engine struct {
	// Logger receives non-convergence warnings from the aligner.
	// Nil falls back to log.Default().
	Logger *log.Logger
}

// Compute places every in-scope person of the graph and returns the
// final aligned snapshot, sorted by ID. The root is always at (0, 0)
// with generation 0.
//
// Returns ErrNilGraph, ErrUnknownRoot, or ErrInvalidConfig for bad
// inputs. Persons the oracle reports a negative degree for are left
// out of the run entirely.
func (e *Engine) Compute(g *kin.Graph, rootID string, oracle Oracle, cfg Config) ([]Position, error) {
	s, err := e.run(g, rootID, oracle, cfg, false)
	if err != nil {
		return nil, err
	}
	return s.snapshot(), nil
}

// ComputeIncremental is Compute, but returns one cumulative snapshot
// per placement so a caller can animate persons appearing one at a
// time in visitation order. If the alignment pass moved anyone, one
// final settled snapshot is appended after the per-placement ones.
func (e *Engine) ComputeIncremental(g *kin.Graph, rootID string, oracle Oracle, cfg Config) ([][]Position, error) {
	s, err := e.run(g, rootID, oracle, cfg, true)
	if err != nil {
		return nil, err
	}
	return s.snapshots, nil
}

// Compute runs a zero-value [Engine]; see [Engine.Compute].
func Compute(g *kin.Graph, rootID string, oracle Oracle, cfg Config) ([]Position, error) {
	var e Engine
	return e.Compute(g, rootID, oracle, cfg)
}

// ComputeIncremental runs a zero-value [Engine]; see
// [Engine.ComputeIncremental].
func ComputeIncremental(g *kin.Graph, rootID string, oracle Oracle, cfg Config) ([][]Position, error) {
	var e Engine
	return e.ComputeIncremental(g, rootID, oracle, cfg)
}

func (e *Engine) logger() *log.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return log.Default()
}

func (e *Engine) run(g *kin.Graph, rootID string, oracle Oracle, cfg Config, record bool) (*session, error) {
	if g == nil {
		return nil, ErrNilGraph
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rootID == "" || !g.Contains(rootID) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRoot, rootID)
	}

	s := newSession(g, rootID, workingSet(g, rootID, oracle), cfg, record)

	// The root anchors the layout at the origin, and the root's spouse
	// joins right next so the central couple is settled before
	// relationship-relative rules run for anyone else.
	s.commit(s.position(rootID, 0, 0, 0))
	for _, spouseID := range g.SpousesOf(rootID) {
		if !g.Contains(spouseID) || !s.inScope(spouseID) {
			continue
		}
		x := s.occupancy.NearestAvailable(cfg.SpouseSpacing, 0, cfg.MinSpacing, false)
		s.commit(s.position(spouseID, x, 0, 0))
		break
	}

	for _, id := range Order(g, rootID, s.scope) {
		if _, done := s.placed[id]; done {
			continue
		}
		s.place(id)
	}

	if adjusted := e.align(s); adjusted && record {
		s.snapshots = append(s.snapshots, s.snapshot())
	}
	return s, nil
}

// session holds all mutable state of one layout run. It is created by
// run and never escapes the call, so concurrent runs cannot interfere.
type session struct {
	graph  *kin.Graph
	cfg    Config
	rootID string
	scope  map[string]struct{}

	placed    map[string]*Position
	seq       map[string]int // placement sequence number per ID
	occupancy *OccupancyIndex

	record    bool
	snapshots [][]Position
}

func newSession(g *kin.Graph, rootID string, scope map[string]struct{}, cfg Config, record bool) *session {
	return &session{
		graph:     g,
		cfg:       cfg,
		rootID:    rootID,
		scope:     scope,
		placed:    make(map[string]*Position),
		seq:       make(map[string]int),
		occupancy: NewOccupancyIndex(),
		record:    record,
	}
}

func (s *session) inScope(id string) bool {
	_, ok := s.scope[id]
	return ok
}

// position builds a Position carrying the person's display metadata.
func (s *session) position(id string, x, y float64, gen int) Position {
	pos := Position{ID: id, X: x, Y: y, Generation: gen}
	if p, ok := s.graph.Person(id); ok {
		pos.Name = p.Name
		pos.Meta = p.Meta
	}
	return pos
}

// commit finalizes one placement: the position becomes visible to the
// rules, its point is marked occupied, and in incremental mode a
// cumulative snapshot is recorded.
func (s *session) commit(pos Position) {
	p := pos
	s.placed[p.ID] = &p
	s.seq[p.ID] = len(s.seq)
	s.occupancy.Mark(p.X, p.Y)
	if s.record {
		s.snapshots = append(s.snapshots, s.snapshot())
	}
}

// snapshot copies all placed positions, sorted by ID.
func (s *session) snapshot() []Position {
	out := make([]Position, 0, len(s.placed))
	for _, pos := range s.placed {
		out = append(out, *pos)
	}
	SortPositions(out)
	return out
}
