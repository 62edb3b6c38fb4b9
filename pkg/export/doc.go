// Package export renders computed family layouts as static artifacts.
//
// # Overview
//
// This package turns a layout document into Graphviz output with every
// position pinned: the layout engine already decided where each person
// sits, so Graphviz only draws boxes and routes edges. It is a
// reference consumer of computed layouts, useful for debugging and for
// sharing a chart outside the animated renderer.
//
// # Usage
//
// Convert a layout to DOT format, then render to SVG:
//
//	dot := export.ToDOT(l, export.Options{})
//	svg, err := export.RenderSVG(dot)
//
// For a raster image:
//
//	png, err := export.RenderPNG(dot)
//
// # Options
//
// The [Options] struct controls chart generation:
//
//   - Detailed: When true, node labels include the generation number
//     and all person metadata
//
// # DOT Format
//
// The [ToDOT] function produces Graphviz DOT source that can be:
//
//   - Rendered directly via [RenderSVG] or [RenderPNG]
//   - Saved and processed with external Graphviz tools (the neato
//     engine honors the pinned positions)
//   - Customized before rendering
//
// Every node carries a pos attribute with the engine's coordinates and
// a pin flag, so Graphviz moves nothing. Parent-child connections are
// drawn as arrows, spouse connections as dashed lines with no arrow
// head, and highlighted connections in an accent color. Disappearing
// connections are animation state and are left out.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process
// rendering; no external Graphviz installation is required.
package export
