// Package pkg provides the core libraries for Pedigraph family chart layout.
//
// # Overview
//
// Pedigraph turns a family graph - persons and the parent, child,
// spouse and sibling relations between them - into 2D chart layouts
// with stable identities, so a renderer can animate between any two
// states of the graph. The pkg directory is organized into five main
// areas:
//
//  1. [kin] - Domain model (persons, relations, graph traversal)
//  2. [layout] - Placement engine (generations, occupancy, alignment)
//  3. [connection] / [transition] - Edge derivation, lifecycle and diffing
//  4. [pipeline] - Orchestration with caching (parse → layout → export)
//  5. [graph] / [store] / [cache] / [export] - Serialization and backends
//
// # Architecture
//
// The typical data flow through Pedigraph:
//
//	Family document (JSON)
//	         ↓
//	    [kin] package (graph build + relation indexing)
//	         ↓
//	    [layout] package (priority ordering + occupancy + alignment)
//	         ↓
//	    [connection] / [transition] packages (edges + diffs)
//	         ↓
//	    JSON/SVG/PNG/DOT output
//
// # Quick Start
//
// Compute a layout and derive its connections:
//
//	import (
//	    "context"
//	    "github.com/pedigraph/pedigraph/pkg/connection"
//	    "github.com/pedigraph/pedigraph/pkg/kin"
//	    "github.com/pedigraph/pedigraph/pkg/layout"
//	)
//
//	// 1. Build the graph
//	g, _ := kin.FromPersons(persons)
//
//	// 2. Compute positions
//	positions, _ := layout.Compute(g, "mom", nil, layout.DefaultConfig())
//
//	// 3. Derive the edges to draw
//	conns := connection.Derive(g)
//
// # Main Packages
//
// ## Domain Model
//
// [kin] - Persons and their relations. Relations are directional as
// stored but indexed bidirectionally at build time, so a Parent
// relation A→B answers both "who are A's parents" and "who are B's
// children". Includes BFS path finding and degree-of-separation
// clipping.
//
// ## Placement
//
// [layout] - The placement engine. Persons are placed root-first in
// priority order (generation distance, then kinship degree, then ID),
// each at the first free slot probed outward from its anchor; an
// occupancy index guarantees no overlaps and a convergence pass
// aligns parents over their children. Incremental mode records one
// snapshot per placement.
//
// ## Edges and Animation
//
// [connection] - Derives spouse and parent-child connections with
// canonical IDs, carries per-edge animation state across recomputes
// (appear, fade out, prune), and highlights relationship paths.
//
// [transition] - Pure diffing between two layouts: who appears,
// disappears, or moves beyond a threshold, and which connections
// enter or leave. Everything is sorted and deterministic.
//
// ## Serialization
//
// [graph] - Wire types for documents, layouts, connections and
// transitions (JSON + BSON tags), plus file helpers.
//
// ## Infrastructure
//
// [pipeline] - Complete orchestration (parse → layout → connections →
// transition → export) used by CLI and API. A Runner adds
// content-addressed caching on top of the pure stage functions.
//
// [cache] - Cache backends: file (CLI), Redis (shared deployments),
// null (disabled). Keys hash the canonical graph serialization, so
// identical documents share entries regardless of file path.
//
// [store] - Named graph persistence for serve mode: in-memory for
// tests and single-node use, MongoDB for durability.
//
// [export] - Chart artifact rendering to SVG, PNG, DOT and JSON via
// Graphviz.
//
// [errors] - Coded errors carried across package boundaries; codes
// map to HTTP statuses in the API and to user messages in the CLI.
//
// [observability] - Pipeline hooks with a Prometheus implementation.
//
// # Common Workflows
//
// Run the cached pipeline end to end:
//
//	runner := pipeline.NewRunner(fileCache, nil, logger)
//	result, _ := runner.Execute(ctx, pipeline.Options{Path: "family.json"})
//
// Diff two layouts for animation:
//
//	tr, _ := pipeline.ComputeTransition(before, after, 5)
//	if tr.HasChanges { ... }
//
// Keep connection identity across graph edits:
//
//	conns = connection.Update(conns, connection.Derive(g), nil)
//	conns = connection.Prune(conns)
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...              # All tests
//	go test ./pkg/layout/...       # Specific package
//
// [kin]: https://pkg.go.dev/github.com/pedigraph/pedigraph/pkg/kin
// [layout]: https://pkg.go.dev/github.com/pedigraph/pedigraph/pkg/layout
// [connection]: https://pkg.go.dev/github.com/pedigraph/pedigraph/pkg/connection
// [transition]: https://pkg.go.dev/github.com/pedigraph/pedigraph/pkg/transition
// [graph]: https://pkg.go.dev/github.com/pedigraph/pedigraph/pkg/graph
// [pipeline]: https://pkg.go.dev/github.com/pedigraph/pedigraph/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/pedigraph/pedigraph/pkg/cache
// [store]: https://pkg.go.dev/github.com/pedigraph/pedigraph/pkg/store
// [export]: https://pkg.go.dev/github.com/pedigraph/pedigraph/pkg/export
// [errors]: https://pkg.go.dev/github.com/pedigraph/pedigraph/pkg/errors
// [observability]: https://pkg.go.dev/github.com/pedigraph/pedigraph/pkg/observability
package pkg
