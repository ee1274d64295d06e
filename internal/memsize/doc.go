package memsize

// Package memsize approximates the transitive memory footprint of arbitrary
// value graphs with cycle detection. The estimate feeds the viewer's cache
// eviction policy; it is a heuristic, never authoritative accounting.
