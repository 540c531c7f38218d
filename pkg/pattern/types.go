package pattern

import "github.com/mundrapranay/patternplan/pkg/extend"

// Direction mirrors extend.Direction for adjacency bookkeeping: Out means
// the owning vertex is the edge's start, In means it is the edge's end.
type Direction = extend.Direction

const (
	Out = extend.Out
	In  = extend.In
)

// Predicate is an opaque filter expression owned by the caller. The
// planner never inspects it beyond testing for presence; it is carried
// through to the emitted Select operators and otherwise ignored by
// canonicalization and the codec.
type Predicate interface{}

// Vertex is one pattern vertex: a stable id and a label. Its plan-time
// side data (group, rank, tag, predicate), assigned by the canonical
// labeler and the caller, is kept in vertexData.
type Vertex struct {
	ID    int
	Label int
}

// Edge is one pattern edge: a stable id, a label, and an ordered
// (start, end) pair of vertex ids.
type Edge struct {
	ID    int
	Label int
	Start int
	End   int
}

// Adjacency is an immutable view of one edge as seen from one of its
// endpoints.
type Adjacency struct {
	EdgeID       int
	EdgeLabel    int
	AdjVertexID  int
	AdjVertexLabel int
	Direction    Direction
}

// vertexData is the per-vertex side data that is not part of vertex
// identity: group/rank from canonicalization, adjacency lists, tag and
// predicate. Kept in a side table (vertexData map) rather than embedded
// in Vertex so that Vertex stays a small value type; Pattern.Clone
// deep-copies it.
type vertexData struct {
	Group     int
	Rank      int // -1 means unset
	OutAdj    []Adjacency
	InAdj     []Adjacency
	Tag       *int
	Predicate Predicate
}

func newVertexData() *vertexData {
	return &vertexData{Rank: -1}
}

func (d *vertexData) clone() *vertexData {
	c := &vertexData{Group: d.Group, Rank: d.Rank, Tag: d.Tag, Predicate: d.Predicate}
	c.OutAdj = append([]Adjacency(nil), d.OutAdj...)
	c.InAdj = append([]Adjacency(nil), d.InAdj...)
	return c
}

// edgeData is the per-edge side data outside of identity.
type edgeData struct {
	Rank      int // -1 means unset
	Tag       *int
	Predicate Predicate
}

func newEdgeData() *edgeData {
	return &edgeData{Rank: -1}
}

func (d *edgeData) clone() *edgeData {
	return &edgeData{Rank: d.Rank, Tag: d.Tag, Predicate: d.Predicate}
}
