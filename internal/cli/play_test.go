package cli

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pedigraph/pedigraph/pkg/graph"
)

func testPlayLayout() graph.Layout {
	return graph.Layout{
		Root: "mom",
		Steps: [][]graph.Position{
			{{ID: "mom", Name: "Mara", X: 0, Y: 0}},
			{{ID: "mom", Name: "Mara", X: 0, Y: 0}, {ID: "dad", Name: "Dan", X: 80, Y: 0}},
			{
				{ID: "mom", Name: "Mara", X: 0, Y: 0},
				{ID: "dad", Name: "Dan", X: 80, Y: 0},
				{ID: "kid", X: 40, Y: 120},
			},
		},
	}
}

func stepPlay(t *testing.T, m playModel, msg tea.Msg) playModel {
	t.Helper()
	next, _ := m.Update(msg)
	pm, ok := next.(playModel)
	if !ok {
		t.Fatalf("Update returned %T, want playModel", next)
	}
	return pm
}

func TestPlayModelTickAdvances(t *testing.T) {
	m := newPlayModel(testPlayLayout(), defaultPlayInterval)
	if !m.playing || m.step != 0 {
		t.Fatalf("fresh model: playing=%v step=%d, want playing at step 0", m.playing, m.step)
	}

	m = stepPlay(t, m, playTickMsg(time.Now()))
	if m.step != 1 || !m.playing {
		t.Errorf("after one tick: step=%d playing=%v, want 1, true", m.step, m.playing)
	}

	m = stepPlay(t, m, playTickMsg(time.Now()))
	if m.step != 2 || m.playing {
		t.Errorf("at last step: step=%d playing=%v, want 2, false", m.step, m.playing)
	}

	// Ticks past the end must not move the playhead.
	m = stepPlay(t, m, playTickMsg(time.Now()))
	if m.step != 2 {
		t.Errorf("tick past end moved playhead to %d", m.step)
	}
}

func TestPlayModelScrubbing(t *testing.T) {
	m := newPlayModel(testPlayLayout(), defaultPlayInterval)

	next := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("n")}
	prev := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("p")}

	m = stepPlay(t, m, next)
	if m.step != 1 || m.playing {
		t.Errorf("after next: step=%d playing=%v, want 1, paused", m.step, m.playing)
	}

	m = stepPlay(t, m, next)
	m = stepPlay(t, m, next) // clamped at last step
	if m.step != 2 {
		t.Errorf("next past end: step=%d, want 2", m.step)
	}

	m = stepPlay(t, m, prev)
	if m.step != 1 {
		t.Errorf("after prev: step=%d, want 1", m.step)
	}

	m = stepPlay(t, m, prev)
	m = stepPlay(t, m, prev) // clamped at first step
	if m.step != 0 {
		t.Errorf("prev past start: step=%d, want 0", m.step)
	}
}

func TestPlayModelResumeAtEndRestarts(t *testing.T) {
	m := newPlayModel(testPlayLayout(), defaultPlayInterval)
	m.step = 2
	m.playing = false

	m = stepPlay(t, m, tea.KeyMsg{Type: tea.KeySpace})
	if !m.playing || m.step != 0 {
		t.Errorf("space at end: step=%d playing=%v, want restart from 0", m.step, m.playing)
	}
}

func TestPlayModelRestartKey(t *testing.T) {
	m := newPlayModel(testPlayLayout(), defaultPlayInterval)
	m.step = 2
	m.playing = false

	m = stepPlay(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	if m.step != 0 || !m.playing {
		t.Errorf("restart: step=%d playing=%v, want playing from 0", m.step, m.playing)
	}
}

func TestScale(t *testing.T) {
	tests := []struct {
		name   string
		v      float64
		lo, hi float64
		max    int
		want   int
	}{
		{name: "midpoint", v: 5, lo: 0, hi: 10, max: 100, want: 50},
		{name: "lower bound", v: 0, lo: 0, hi: 10, max: 100, want: 0},
		{name: "upper bound", v: 10, lo: 0, hi: 10, max: 100, want: 100},
		{name: "degenerate span centers", v: 7, lo: 7, hi: 7, max: 100, want: 50},
		{name: "below range clamps", v: -5, lo: 0, hi: 10, max: 100, want: 0},
		{name: "above range clamps", v: 15, lo: 0, hi: 10, max: 100, want: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := scale(tt.v, tt.lo, tt.hi, tt.max); got != tt.want {
				t.Errorf("scale(%v, %v, %v, %d) = %d, want %d", tt.v, tt.lo, tt.hi, tt.max, got, tt.want)
			}
		})
	}
}

func TestBoundsOf(t *testing.T) {
	steps := [][]graph.Position{
		{{X: 0, Y: 0}, {X: 10, Y: -5}},
		{{X: 20, Y: 8}},
	}

	b := boundsOf(steps)
	if b.minX != 0 || b.maxX != 20 {
		t.Errorf("x bounds = [%v, %v], want [0, 20]", b.minX, b.maxX)
	}
	if b.minY != -5 || b.maxY != 8 {
		t.Errorf("y bounds = [%v, %v], want [-5, 8]", b.minY, b.maxY)
	}
}

func TestRenderSnapshotShowsLabels(t *testing.T) {
	l := testPlayLayout()
	b := boundsOf(l.Steps)

	out := renderSnapshot(l.Steps[2], l.Steps[1], b, 60, 10)
	if !strings.Contains(out, "Mara") {
		t.Errorf("snapshot should label mom by name, got:\n%s", out)
	}
	// kid has no name, so its ID is the label
	if !strings.Contains(out, "kid") {
		t.Errorf("snapshot should fall back to the ID label, got:\n%s", out)
	}
}

func TestNodeLabelTruncation(t *testing.T) {
	p := graph.Position{ID: "x", Name: "An Unreasonably Long Display Name"}
	label := nodeLabel(p)
	if got := len([]rune(label)); got > maxLabelWidth {
		t.Errorf("label %q is %d runes, want at most %d", label, got, maxLabelWidth)
	}
	if !strings.HasSuffix(label, "…") {
		t.Errorf("truncated label %q should end with an ellipsis", label)
	}
}
