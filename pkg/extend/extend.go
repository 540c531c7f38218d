// Package extend describes single-vertex pattern extensions: the set of
// incident edges that attach one new vertex to an existing pattern.
package extend

import "sort"

// Direction is the orientation of a pattern edge relative to a vertex.
type Direction int

const (
	// Out means the vertex is the edge's start.
	Out Direction = iota
	// In means the vertex is the edge's end.
	In
)

// Edge describes one incident edge of an extension: it attaches the new
// vertex to the existing vertex ranked srcRank, via an edge of the given
// label and direction (as seen from the source vertex: Out means the
// edge runs from the source vertex to the new vertex).
type Edge struct {
	SrcRank   int
	EdgeLabel int
	Direction Direction
}

// Step is a one-vertex extension of a pattern: a target vertex label and
// the set of edges connecting it to the current pattern.
type Step struct {
	TargetVertexLabel int
	Edges             []Edge
}

// NewStep builds a Step, sorting its edges by (SrcRank, EdgeLabel,
// Direction) so that two semantically-equal steps compare equal
// regardless of construction order.
func NewStep(targetVertexLabel int, edges []Edge) *Step {
	sorted := make([]Edge, len(edges))
	copy(sorted, edges)
	sort.Slice(sorted, func(i, j int) bool {
		return lessEdge(sorted[i], sorted[j])
	})
	return &Step{TargetVertexLabel: targetVertexLabel, Edges: sorted}
}

func lessEdge(a, b Edge) bool {
	if a.SrcRank != b.SrcRank {
		return a.SrcRank < b.SrcRank
	}
	if a.EdgeLabel != b.EdgeLabel {
		return a.EdgeLabel < b.EdgeLabel
	}
	return a.Direction < b.Direction
}

// DefiniteEdge is a Step edge carrying concrete vertex/edge identities
// instead of ranks, used to roll a step back against one specific
// pattern instance (e.g. while generating a heuristic plan).
type DefiniteEdge struct {
	EdgeID      int
	EdgeLabel   int
	SrcVertexID int
	Direction   Direction
}

// DefiniteStep is the identity-carrying counterpart of Step.
type DefiniteStep struct {
	TargetVertexID    int
	TargetVertexLabel int
	Edges             []DefiniteEdge
}
