package export

import (
	"bytes"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/pedigraph/pedigraph/pkg/graph"
)

// Options configures chart generation.
type Options struct {
	// Detailed includes generation numbers and metadata in node labels.
	// When false, only the person's display name is shown.
	Detailed bool
}

// ToDOT converts a layout document to Graphviz DOT format with every
// position pinned. The resulting DOT string can be rendered using
// [RenderSVG] or [RenderPNG], or fed to an external neato binary.
//
// The root person is drawn with a heavier outline. Disappearing
// connections are skipped: they are animation state for a renderer
// that is about to drop them, not part of the chart.
func ToDOT(l graph.Layout, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph family {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  splines=line;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("\n")

	for _, p := range l.Positions {
		fmt.Fprintf(&buf, "  %q [%s];\n", p.ID, strings.Join(nodeAttrs(p, l.Root, opts.Detailed), ", "))
	}

	buf.WriteString("\n")
	for _, c := range l.Connections {
		if c.Disappearing {
			continue
		}
		if attrs := edgeAttrs(c); len(attrs) > 0 {
			fmt.Fprintf(&buf, "  %q -> %q [%s];\n", c.From, c.To, strings.Join(attrs, ", "))
		} else {
			fmt.Fprintf(&buf, "  %q -> %q;\n", c.From, c.To)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(p graph.Position, detailed bool) string {
	name := p.Name
	if name == "" {
		name = p.ID
	}
	if !detailed {
		return name
	}

	parts := []string{fmt.Sprintf("gen: %d", p.Generation)}
	for _, k := range slices.Sorted(maps.Keys(p.Meta)) {
		parts = append(parts, fmt.Sprintf("%s: %v", k, p.Meta[k]))
	}

	return name + "\n" + strings.Join(parts, "\n")
}

func nodeAttrs(p graph.Position, rootID string, detailed bool) []string {
	attrs := []string{
		fmt.Sprintf("label=%q", fmtLabel(p, detailed)),
		fmt.Sprintf("pos=\"%g,%g!\"", p.X, p.Y),
	}
	if p.ID == rootID {
		attrs = append(attrs, "penwidth=2")
	}
	return attrs
}

func edgeAttrs(c graph.Connection) []string {
	var attrs []string
	if c.Type == "spouse" {
		attrs = append(attrs, "dir=none", "style=dashed")
	}
	if c.Highlighted {
		attrs = append(attrs, "color=firebrick", "penwidth=2")
	}
	return attrs
}
