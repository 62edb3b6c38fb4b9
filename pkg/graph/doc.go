// Package graph provides serialization types for family graphs and layouts.
//
// This package defines the canonical wire format for Pedigraph's data,
// used for JSON files, API payloads, caching, and cross-tool interoperability.
//
// # Architecture
//
// The package sits at the serialization boundary between internal
// representations and external formats:
//
//   - [Graph], [Layout], [Transition]: Serialization types (this package)
//   - pkg/kin.Graph: Internal family graph representation
//   - pkg/layout.Position: Internal layout output
//
// Use [FromKin]/[Graph.ToKin] and the From*/To* helpers to convert
// between them.
//
// # Graph Serialization
//
// Family documents use a simple person-list JSON format:
//
//	{
//	  "persons": [
//	    {"id": "me", "name": "Ada"},
//	    {"id": "father", "born": "1960-04-21",
//	     "relations": [{"type": "child", "target": "me"}]}
//	  ],
//	  "root": "me"
//	}
//
// Relations are stored as declared; symmetric indexing happens when
// the document is converted to a kin.Graph. Birth dates are plain
// dates ("1960-04-21") or RFC 3339 timestamps.
//
// Common operations:
//
//	g, root, _ := graph.ReadGraphFile("family.json") // File → kin.Graph
//	graph.WriteGraphFile(g, root, "out.json")        // kin.Graph → File
//	data, _ := graph.MarshalGraph(g, root)           // kin.Graph → []byte
//	parsed, _ := graph.UnmarshalGraph(data)          // []byte → Graph
//
// # Layout Serialization
//
// Layout documents carry the final snapshot, optional incremental
// steps, and derived connections:
//
//	l, _ := graph.ReadLayoutFile("family.layout.json")
//	state, _ := l.State() // seed for transition.Compute
//
// # Concurrency
//
// All functions are safe for concurrent reads but not concurrent writes.
package graph
