// Package pattern implements the labeled directed multigraph used as a
// query: vertices and edges carry stable integer identity, a label, and
// plan-time side data (group, rank, tag, predicate). Every mutation that
// changes structure re-runs canonicalization, keeping ranks, groups, and
// adjacency order consistent (see pkg/label).
//
// There are no back-pointers between elements: adjacency lists hold only
// ids, and side data lives in arenas (vertexData/edgeData maps) indexed
// by id, per spec's "avoid any pointer/back-reference between pattern
// elements" design note.
package pattern

import (
	"sort"

	"github.com/mundrapranay/patternplan/pkg/label"
)

// Pattern is a labeled directed multigraph used as a graph query.
type Pattern struct {
	vertices map[int]Vertex
	edges    map[int]Edge
	vdata    map[int]*vertexData
	edata    map[int]*edgeData

	rankToVertex map[int]int
	rankToEdge   map[int]int
	tagToVertex  map[int]int
	tagToEdge    map[int]int
}

func newEmptyPattern() *Pattern {
	return &Pattern{
		vertices:     make(map[int]Vertex),
		edges:        make(map[int]Edge),
		vdata:        make(map[int]*vertexData),
		edata:        make(map[int]*edgeData),
		rankToVertex: make(map[int]int),
		rankToEdge:   make(map[int]int),
		tagToVertex:  make(map[int]int),
		tagToEdge:    make(map[int]int),
	}
}

// FromSingleVertex builds a one-vertex pattern. Single-vertex patterns are
// catalogue entries (spec §3) and the base case of every recursive
// operation.
func FromSingleVertex(id, label int) *Pattern {
	p := newEmptyPattern()
	p.vertices[id] = Vertex{ID: id, Label: label}
	p.vdata[id] = newVertexData()
	p.Canonicalize()
	return p
}

// EdgeSpec is the input shape for FromEdges: an edge id, label, and
// ordered endpoint vertex ids together with their labels (a vertex label
// is only consulted the first time that vertex id is seen).
type EdgeSpec struct {
	EdgeID      int
	EdgeLabel   int
	StartID     int
	StartLabel  int
	EndID       int
	EndLabel    int
}

// FromEdges is the primary Pattern constructor: canonicalization runs
// once, after every edge has been added. Returns ErrEmpty if edges is
// empty.
func FromEdges(edges []EdgeSpec) (*Pattern, error) {
	if len(edges) == 0 {
		return nil, ErrEmpty
	}
	p := newEmptyPattern()
	for _, e := range edges {
		if _, ok := p.vertices[e.StartID]; !ok {
			p.vertices[e.StartID] = Vertex{ID: e.StartID, Label: e.StartLabel}
			p.vdata[e.StartID] = newVertexData()
		}
		if _, ok := p.vertices[e.EndID]; !ok {
			p.vertices[e.EndID] = Vertex{ID: e.EndID, Label: e.EndLabel}
			p.vdata[e.EndID] = newVertexData()
		}
		if _, ok := p.edges[e.EdgeID]; ok {
			return nil, NewInvalidPatternError("duplicate edge id")
		}
		edge := Edge{ID: e.EdgeID, Label: e.EdgeLabel, Start: e.StartID, End: e.EndID}
		p.edges[e.EdgeID] = edge
		p.edata[e.EdgeID] = newEdgeData()
		p.linkAdjacency(edge)
	}
	p.Canonicalize()
	return p, nil
}

func (p *Pattern) linkAdjacency(e Edge) {
	p.vdata[e.Start].OutAdj = append(p.vdata[e.Start].OutAdj, Adjacency{
		EdgeID: e.ID, EdgeLabel: e.Label, AdjVertexID: e.End,
		AdjVertexLabel: p.vertices[e.End].Label, Direction: Out,
	})
	p.vdata[e.End].InAdj = append(p.vdata[e.End].InAdj, Adjacency{
		EdgeID: e.ID, EdgeLabel: e.Label, AdjVertexID: e.Start,
		AdjVertexLabel: p.vertices[e.Start].Label, Direction: In,
	})
}

// Clone returns an independent deep copy: mutating the clone never
// affects the original.
func (p *Pattern) Clone() *Pattern {
	c := newEmptyPattern()
	for id, v := range p.vertices {
		c.vertices[id] = v
		c.vdata[id] = p.vdata[id].clone()
	}
	for id, e := range p.edges {
		c.edges[id] = e
		c.edata[id] = p.edata[id].clone()
	}
	for r, id := range p.rankToVertex {
		c.rankToVertex[r] = id
	}
	for r, id := range p.rankToEdge {
		c.rankToEdge[r] = id
	}
	for t, id := range p.tagToVertex {
		c.tagToVertex[t] = id
	}
	for t, id := range p.tagToEdge {
		c.tagToEdge[t] = id
	}
	return c
}

// VerticesNum returns the number of vertices.
func (p *Pattern) VerticesNum() int { return len(p.vertices) }

// EdgesNum returns the number of edges.
func (p *Pattern) EdgesNum() int { return len(p.edges) }

// MinVertexLabel returns the smallest vertex label present, if any.
func (p *Pattern) MinVertexLabel() (int, bool) {
	return minLabel(p.vertices, func(v Vertex) int { return v.Label })
}

// MaxVertexLabel returns the largest vertex label present, if any.
func (p *Pattern) MaxVertexLabel() (int, bool) {
	return maxLabel(p.vertices, func(v Vertex) int { return v.Label })
}

// MinEdgeLabel returns the smallest edge label present, if any.
func (p *Pattern) MinEdgeLabel() (int, bool) {
	return minLabel(p.edges, func(e Edge) int { return e.Label })
}

// MaxEdgeLabel returns the largest edge label present, if any.
func (p *Pattern) MaxEdgeLabel() (int, bool) {
	return maxLabel(p.edges, func(e Edge) int { return e.Label })
}

func minLabel[T any](m map[int]T, get func(T) int) (int, bool) {
	first := true
	best := 0
	for _, v := range m {
		l := get(v)
		if first || l < best {
			best, first = l, false
		}
	}
	return best, !first
}

func maxLabel[T any](m map[int]T, get func(T) int) (int, bool) {
	first := true
	best := 0
	for _, v := range m {
		l := get(v)
		if first || l > best {
			best, first = l, false
		}
	}
	return best, !first
}

// GetVertex returns the vertex with the given id.
func (p *Pattern) GetVertex(id int) (Vertex, bool) {
	v, ok := p.vertices[id]
	return v, ok
}

// GetEdge returns the edge with the given id.
func (p *Pattern) GetEdge(id int) (Edge, bool) {
	e, ok := p.edges[id]
	return e, ok
}

// GetVertexRank returns the vertex's canonical rank, or false if unset.
func (p *Pattern) GetVertexRank(id int) (int, bool) {
	d, ok := p.vdata[id]
	if !ok || d.Rank < 0 {
		return 0, false
	}
	return d.Rank, true
}

// GetEdgeRank returns the edge's canonical rank, or false if unset.
func (p *Pattern) GetEdgeRank(id int) (int, bool) {
	d, ok := p.edata[id]
	if !ok || d.Rank < 0 {
		return 0, false
	}
	return d.Rank, true
}

// GetVertexGroup returns the vertex's equivalence-class group.
func (p *Pattern) GetVertexGroup(id int) (int, bool) {
	d, ok := p.vdata[id]
	if !ok {
		return 0, false
	}
	return d.Group, true
}

// GetVertexFromRank returns the vertex assigned the given rank.
func (p *Pattern) GetVertexFromRank(rank int) (Vertex, bool) {
	id, ok := p.rankToVertex[rank]
	if !ok {
		return Vertex{}, false
	}
	return p.vertices[id], true
}

// GetEdgeFromRank returns the edge assigned the given rank.
func (p *Pattern) GetEdgeFromRank(rank int) (Edge, bool) {
	id, ok := p.rankToEdge[rank]
	if !ok {
		return Edge{}, false
	}
	return p.edges[id], true
}

// GetVertexFromTag returns the vertex bound to the given tag.
func (p *Pattern) GetVertexFromTag(tag int) (Vertex, bool) {
	id, ok := p.tagToVertex[tag]
	if !ok {
		return Vertex{}, false
	}
	return p.vertices[id], true
}

// GetEdgeFromTag returns the edge bound to the given tag.
func (p *Pattern) GetEdgeFromTag(tag int) (Edge, bool) {
	id, ok := p.tagToEdge[tag]
	if !ok {
		return Edge{}, false
	}
	return p.edges[id], true
}

// GetVertexTag returns the tag bound to a vertex, if any.
func (p *Pattern) GetVertexTag(id int) (int, bool) {
	d, ok := p.vdata[id]
	if !ok || d.Tag == nil {
		return 0, false
	}
	return *d.Tag, true
}

// GetEdgeTag returns the tag bound to an edge, if any.
func (p *Pattern) GetEdgeTag(id int) (int, bool) {
	d, ok := p.edata[id]
	if !ok || d.Tag == nil {
		return 0, false
	}
	return *d.Tag, true
}

// GetVertexPredicate returns the predicate attached to a vertex, if any.
func (p *Pattern) GetVertexPredicate(id int) (Predicate, bool) {
	d, ok := p.vdata[id]
	if !ok || d.Predicate == nil {
		return nil, false
	}
	return d.Predicate, true
}

// GetEdgePredicate returns the predicate attached to an edge, if any.
func (p *Pattern) GetEdgePredicate(id int) (Predicate, bool) {
	d, ok := p.edata[id]
	if !ok || d.Predicate == nil {
		return nil, false
	}
	return d.Predicate, true
}

// SetVertexTag binds a tag to a vertex. Tag bindings must stay injective;
// callers are expected to have validated uniqueness (the §6 parser does).
func (p *Pattern) SetVertexTag(id, tag int) {
	p.vdata[id].Tag = &tag
	p.tagToVertex[tag] = id
}

// SetEdgeTag binds a tag to an edge.
func (p *Pattern) SetEdgeTag(id, tag int) {
	p.edata[id].Tag = &tag
	p.tagToEdge[tag] = id
}

// SetVertexPredicate attaches an opaque filter predicate to a vertex.
func (p *Pattern) SetVertexPredicate(id int, pred Predicate) {
	p.vdata[id].Predicate = pred
}

// SetEdgePredicate attaches an opaque filter predicate to an edge.
func (p *Pattern) SetEdgePredicate(id int, pred Predicate) {
	p.edata[id].Predicate = pred
}

// GetVertexOutDegree returns the number of outgoing adjacencies.
func (p *Pattern) GetVertexOutDegree(id int) int {
	d, ok := p.vdata[id]
	if !ok {
		return 0
	}
	return len(d.OutAdj)
}

// GetVertexInDegree returns the number of incoming adjacencies.
func (p *Pattern) GetVertexInDegree(id int) int {
	d, ok := p.vdata[id]
	if !ok {
		return 0
	}
	return len(d.InAdj)
}

// GetVertexDegree returns the total (in + out) degree.
func (p *Pattern) GetVertexDegree(id int) int {
	return p.GetVertexOutDegree(id) + p.GetVertexInDegree(id)
}

// VerticesPredicateNum counts vertices carrying a predicate.
func (p *Pattern) VerticesPredicateNum() int {
	n := 0
	for _, d := range p.vdata {
		if d.Predicate != nil {
			n++
		}
	}
	return n
}

// EdgesPredicateNum counts edges carrying a predicate. The original
// source counted this "by edge id" against the vertex-predicate map, a
// transcription error (spec §9); this implementation counts edges whose
// own predicate is set, the canonicalized-correct behavior.
func (p *Pattern) EdgesPredicateNum() int {
	n := 0
	for _, d := range p.edata {
		if d.Predicate != nil {
			n++
		}
	}
	return n
}

// PredicateNum is the total number of predicated elements.
func (p *Pattern) PredicateNum() int {
	return p.VerticesPredicateNum() + p.EdgesPredicateNum()
}

// VerticesIter returns all vertices in id order (deterministic iteration
// for callers that don't care about canonical order).
func (p *Pattern) VerticesIter() []Vertex {
	out := make([]Vertex, 0, len(p.vertices))
	for _, v := range p.vertices {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// VerticesIterByLabel returns all vertices of the given label, in id
// order.
func (p *Pattern) VerticesIterByLabel(l int) []Vertex {
	out := make([]Vertex, 0)
	for _, v := range p.VerticesIter() {
		if v.Label == l {
			out = append(out, v)
		}
	}
	return out
}

// EdgesIter returns all edges in id order.
func (p *Pattern) EdgesIter() []Edge {
	out := make([]Edge, 0, len(p.edges))
	for _, e := range p.edges {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// EdgesIterByLabel returns all edges of the given label, in id order.
func (p *Pattern) EdgesIterByLabel(l int) []Edge {
	out := make([]Edge, 0)
	for _, e := range p.EdgesIter() {
		if e.Label == l {
			out = append(out, e)
		}
	}
	return out
}

// OutAdjacenciesIter returns the vertex's outgoing adjacencies in
// canonical order.
func (p *Pattern) OutAdjacenciesIter(id int) []Adjacency {
	d, ok := p.vdata[id]
	if !ok {
		return nil
	}
	return append([]Adjacency(nil), d.OutAdj...)
}

// InAdjacenciesIter returns the vertex's incoming adjacencies in
// canonical order.
func (p *Pattern) InAdjacenciesIter(id int) []Adjacency {
	d, ok := p.vdata[id]
	if !ok {
		return nil
	}
	return append([]Adjacency(nil), d.InAdj...)
}

// AdjacenciesIter returns outgoing then incoming adjacencies, in the
// canonical order established by the labeler (spec §4.1).
func (p *Pattern) AdjacenciesIter(id int) []Adjacency {
	out := p.OutAdjacenciesIter(id)
	return append(out, p.InAdjacenciesIter(id)...)
}

// Canonicalize re-derives vertex groups, vertex/edge ranks, and
// canonical adjacency order. Every structural mutation ends by calling
// this; see pkg/label for the algorithm.
func (p *Pattern) Canonicalize() {
	if len(p.vertices) == 0 {
		return
	}
	mgr := label.NewManager(p)
	mgr.Run()
	p.rankToVertex = make(map[int]int, len(p.vertices))
	p.rankToEdge = make(map[int]int, len(p.edges))
	for id, d := range p.vdata {
		if d.Rank >= 0 {
			p.rankToVertex[d.Rank] = id
		}
	}
	for id, d := range p.edata {
		if d.Rank >= 0 {
			p.rankToEdge[d.Rank] = id
		}
	}
}
