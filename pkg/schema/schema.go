// Package schema holds the read-only label-compatibility contract (spec
// §6) that pkg/pattern consults to enumerate legal extensions and that
// pkg/queryshape consults to resolve a sentence's edge endpoint labels.
package schema

import "github.com/mundrapranay/patternplan/pkg/extend"

// EdgeEndpoints is one permitted (start_label, end_label) pair for an
// edge label.
type EdgeEndpoints struct {
	StartLabel int
	EndLabel   int
}

// AdjacentEdge is one permitted (edge_label, direction) pair between two
// vertex labels, direction relative to the first (src) label.
type AdjacentEdge struct {
	EdgeLabel int
	Direction extend.Direction
}

// Schema answers the two label-compatibility questions the planner core
// needs: which (start, end) label pairs an edge label permits, and which
// (edge_label, direction) pairs connect two vertex labels.
type Schema interface {
	// VertexLabels returns every vertex label known to the schema, the
	// candidate target labels for extend enumeration.
	VertexLabels() []int
	// EndpointsOf returns the permitted (start_label, end_label) pairs
	// for an edge label.
	EndpointsOf(edgeLabel int) []EdgeEndpoints
	// AdjacentEdges returns the (edge_label, direction) pairs permitted
	// between srcLabel and dstLabel, direction relative to srcLabel.
	AdjacentEdges(srcLabel, dstLabel int) []AdjacentEdge
}
