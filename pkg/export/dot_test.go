package export

import (
	"strings"
	"testing"

	"github.com/pedigraph/pedigraph/pkg/graph"
)

func chartLayout() graph.Layout {
	return graph.Layout{
		Root: "me",
		Positions: []graph.Position{
			{ID: "father", X: 0, Y: 120, Generation: -1, Name: "Father"},
			{ID: "me", X: 0, Y: 0, Generation: 0},
		},
		Connections: []graph.Connection{
			{ID: "parentChild-father-me", Type: "parentChild", From: "father", To: "me", Opacity: 1},
		},
	}
}

func TestToDOT_Basic(t *testing.T) {
	dot := ToDOT(chartLayout(), Options{})

	if !strings.Contains(dot, "digraph family") {
		t.Error("ToDOT() output missing digraph declaration")
	}
	if !strings.Contains(dot, "layout=neato") {
		t.Error("ToDOT() output missing neato engine selection")
	}
	if !strings.Contains(dot, `"father"`) {
		t.Error("ToDOT() output missing node father")
	}
	if !strings.Contains(dot, `pos="0,120!"`) {
		t.Error("ToDOT() output missing pinned position")
	}
	if !strings.Contains(dot, `"father" -> "me"`) {
		t.Error("ToDOT() output missing edge")
	}
}

func TestToDOT_RootOutline(t *testing.T) {
	dot := ToDOT(chartLayout(), Options{})

	for _, line := range strings.Split(dot, "\n") {
		if strings.Contains(line, `"me" [`) && !strings.Contains(line, "penwidth=2") {
			t.Errorf("ToDOT() root node missing heavier outline: %s", line)
		}
		if strings.Contains(line, `"father" [`) && strings.Contains(line, "penwidth") {
			t.Errorf("ToDOT() non-root node should not have outline accent: %s", line)
		}
	}
}

func TestToDOT_SpouseEdge(t *testing.T) {
	l := graph.Layout{
		Positions: []graph.Position{
			{ID: "a", X: 0, Y: 0},
			{ID: "b", X: 80, Y: 0},
		},
		Connections: []graph.Connection{
			{ID: "spouse-a-b", Type: "spouse", From: "a", To: "b", Opacity: 1},
		},
	}

	dot := ToDOT(l, Options{})

	if !strings.Contains(dot, "dir=none") {
		t.Error("ToDOT() spouse edge missing dir=none")
	}
	if !strings.Contains(dot, "style=dashed") {
		t.Error("ToDOT() spouse edge missing dashed style")
	}
}

func TestToDOT_HighlightedEdge(t *testing.T) {
	l := chartLayout()
	l.Connections[0].Highlighted = true

	dot := ToDOT(l, Options{})

	if !strings.Contains(dot, "color=firebrick") {
		t.Error("ToDOT() highlighted edge missing accent color")
	}
	if !strings.Contains(dot, "penwidth=2") {
		t.Error("ToDOT() highlighted edge missing penwidth")
	}
}

func TestToDOT_SkipsDisappearing(t *testing.T) {
	l := chartLayout()
	l.Connections[0].Disappearing = true

	dot := ToDOT(l, Options{})

	if strings.Contains(dot, `"father" -> "me"`) {
		t.Error("ToDOT() should skip disappearing connections")
	}
}

func TestToDOT_Detailed(t *testing.T) {
	l := graph.Layout{
		Positions: []graph.Position{
			{ID: "rosa", X: 0, Y: 0, Generation: -2, Name: "Rosa", Meta: map[string]any{"birthplace": "Napoli"}},
		},
	}

	dot := ToDOT(l, Options{Detailed: true})

	if !strings.Contains(dot, "gen: -2") {
		t.Error("ToDOT() detailed output missing generation info")
	}
	if !strings.Contains(dot, "birthplace: Napoli") {
		t.Error("ToDOT() detailed output missing metadata")
	}
}

func TestFmtLabel_Simple(t *testing.T) {
	p := graph.Position{ID: "me", Name: "Ada"}
	if got := fmtLabel(p, false); got != "Ada" {
		t.Errorf("fmtLabel() simple mode = %q, want %q", got, "Ada")
	}

	// Fall back to the ID when no name is set.
	p = graph.Position{ID: "me"}
	if got := fmtLabel(p, false); got != "me" {
		t.Errorf("fmtLabel() without name = %q, want %q", got, "me")
	}
}

func TestFmtLabel_Detailed(t *testing.T) {
	p := graph.Position{
		ID:         "me",
		Name:       "Ada",
		Generation: 0,
		Meta:       map[string]any{"key": "value"},
	}
	label := fmtLabel(p, true)

	if !strings.HasPrefix(label, "Ada\n") {
		t.Errorf("fmtLabel() detailed should start with the name: %q", label)
	}
	if !strings.Contains(label, "gen: 0") {
		t.Errorf("fmtLabel() detailed missing generation: %q", label)
	}
	if !strings.Contains(label, "key: value") {
		t.Errorf("fmtLabel() detailed missing metadata: %q", label)
	}
}

func TestEdgeAttrs_ParentChild(t *testing.T) {
	c := graph.Connection{Type: "parentChild", From: "a", To: "b"}
	if attrs := edgeAttrs(c); len(attrs) != 0 {
		t.Errorf("edgeAttrs() parent-child edge should have no attrs, got %v", attrs)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	tests := []struct {
		name string
		svg  string
		want string
	}{
		{
			name: "with viewBox",
			svg:  `<svg viewBox="10 20 800 600" xmlns="http://www.w3.org/2000/svg">content</svg>`,
			want: `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 800.00 600.00" width="800" height="600">content</svg>`,
		},
		{
			name: "no viewBox",
			svg:  `<svg xmlns="http://www.w3.org/2000/svg">content</svg>`,
			want: `<svg xmlns="http://www.w3.org/2000/svg">content</svg>`,
		},
		{
			name: "zero dimensions",
			svg:  `<svg viewBox="0 0 0 0">content</svg>`,
			want: `<svg viewBox="0 0 0 0">content</svg>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalizeViewBox([]byte(tt.svg))
			if string(got) != tt.want {
				t.Errorf("normalizeViewBox() = %q, want %q", string(got), tt.want)
			}
		})
	}
}

func TestRenderSVG(t *testing.T) {
	svg, err := RenderSVG(ToDOT(chartLayout(), Options{}))
	if err != nil {
		t.Fatalf("RenderSVG() error: %v", err)
	}

	if !strings.Contains(string(svg), "<svg") {
		t.Error("RenderSVG() output missing <svg> tag")
	}
	if !strings.Contains(string(svg), "Father") {
		t.Error("RenderSVG() output missing node label")
	}
}

func TestRenderSVG_InvalidDOT(t *testing.T) {
	dot := `not valid DOT {{{`
	if _, err := RenderSVG(dot); err == nil {
		t.Error("RenderSVG() should return error for invalid DOT")
	}
}
