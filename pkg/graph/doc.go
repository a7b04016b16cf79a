// Package graph defines the design graph produced by script evaluation.
// The design graph is an immutable DAG of planar primitives, transforms,
// boolean operations and scenes that together describe a set of regions.
package graph
