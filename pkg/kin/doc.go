// Package kin models a family/relationship graph.
//
// A [Graph] holds persons and a normalized adjacency index built from
// their typed relations. Relations are directional as stored (a Parent
// relation on A pointing at B) but semantically bidirectional: the
// index records both directions at build time, so B's children include
// A no matter which side declared the link. Lookups are O(1) map hits
// instead of per-query scans over the whole person set.
//
// The package also provides the ordering and traversal helpers the
// layout engine builds on: birth-order comparison, BFS degrees of
// separation, shortest relationship paths, and degree-scoped
// subgraphs.
package kin
