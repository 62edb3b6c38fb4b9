package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/pedigraph/pedigraph/pkg/graph"
	"github.com/pedigraph/pedigraph/pkg/pipeline"
)

const watchHousehold = `{
	"root": "mom",
	"persons": [
		{"id": "mom", "name": "Mara", "relations": [{"type": "spouse", "target": "dad"}]},
		{"id": "dad", "name": "Dan"},
		{"id": "kid", "relations": [
			{"type": "parent", "target": "mom"},
			{"type": "parent", "target": "dad"}
		]}
	]
}`

const watchHouseholdNoKid = `{
	"root": "mom",
	"persons": [
		{"id": "mom", "name": "Mara", "relations": [{"type": "spouse", "target": "dad"}]},
		{"id": "dad", "name": "Dan"}
	]
}`

func newWatchSession(t *testing.T, doc string) *watchSession {
	t.Helper()
	input := filepath.Join(t.TempDir(), "family.json")
	if err := os.WriteFile(input, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	opts := pipeline.Options{Path: input, Logger: log.New(io.Discard), MovementThreshold: 5}
	return &watchSession{
		runner: pipeline.NewRunner(nil, nil, log.New(io.Discard)),
		opts:   opts,
		input:  input,
		output: layoutPath(input),
	}
}

func TestWatchSessionInitialRecompute(t *testing.T) {
	s := newWatchSession(t, watchHousehold)

	if err := s.recompute(context.Background()); err != nil {
		t.Fatalf("recompute() error: %v", err)
	}

	l, err := graph.ReadLayoutFile(s.output)
	if err != nil {
		t.Fatalf("read written layout: %v", err)
	}
	if len(l.Positions) != 3 {
		t.Errorf("got %d positions, want 3", len(l.Positions))
	}
	if len(l.Connections) != 3 {
		t.Errorf("got %d connections, want 3 (spouse + two parent-child)", len(l.Connections))
	}
	if !s.hasLast {
		t.Error("session should remember the first snapshot")
	}
}

func TestWatchSessionFadesRemovedConnections(t *testing.T) {
	s := newWatchSession(t, watchHousehold)
	ctx := context.Background()

	if err := s.recompute(ctx); err != nil {
		t.Fatalf("initial recompute: %v", err)
	}

	// Edit the document: the kid is gone, both parent-child edges must
	// fade rather than vanish.
	if err := os.WriteFile(s.input, []byte(watchHouseholdNoKid), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := s.recompute(ctx); err != nil {
		t.Fatalf("recompute after edit: %v", err)
	}

	l, err := graph.ReadLayoutFile(s.output)
	if err != nil {
		t.Fatalf("read written layout: %v", err)
	}
	if len(l.Connections) != 3 {
		t.Fatalf("got %d connections, want 3 (fading edges still on screen)", len(l.Connections))
	}

	fading := 0
	for _, cn := range l.Connections {
		if cn.Disappearing {
			fading++
		}
	}
	if fading != 2 {
		t.Errorf("got %d disappearing connections, want 2", fading)
	}

	// The next cycle starts from the pruned set: the fade has played,
	// so only the surviving spouse edge remains on screen.
	if err := s.recompute(ctx); err != nil {
		t.Fatalf("recompute after fade: %v", err)
	}
	l, err = graph.ReadLayoutFile(s.output)
	if err != nil {
		t.Fatalf("read written layout: %v", err)
	}
	if len(l.Connections) != 1 {
		t.Fatalf("got %d connections, want 1 after the fade played", len(l.Connections))
	}
	if l.Connections[0].ID != "spouse-dad-mom" {
		t.Errorf("surviving connection = %q, want spouse-dad-mom", l.Connections[0].ID)
	}
}

func TestWatchSessionKeepsSurvivorState(t *testing.T) {
	s := newWatchSession(t, watchHousehold)
	ctx := context.Background()

	if err := s.recompute(ctx); err != nil {
		t.Fatalf("initial recompute: %v", err)
	}
	before := len(s.conns)

	// No change to the document: the connection set must be stable.
	if err := s.recompute(ctx); err != nil {
		t.Fatalf("recompute without changes: %v", err)
	}
	if len(s.conns) != before {
		t.Errorf("connection count changed from %d to %d without edits", before, len(s.conns))
	}
	for _, cn := range s.conns {
		if cn.Anim.Disappearing {
			t.Errorf("connection %s turned disappearing without edits", cn.ID)
		}
	}
}
