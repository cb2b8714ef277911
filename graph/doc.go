// Package graph derives a relationship graph over a note collection.
//
// The Builder compares every unordered pair of notes with a blended
// similarity (tag Dice + fingerprint dot product + keyword Jaccard, fixed
// weights 0.3/0.5/0.2) and emits an edge when the blend reaches the build
// threshold. The build is a deliberate full recomputation: there is no
// incremental maintenance, and for large collections it should run off any
// interactive path. Rebuilding from the same inputs always yields the same
// edge set; storage upserts edges by their note pair, so re-derived pairs
// update strength in place.
package graph
