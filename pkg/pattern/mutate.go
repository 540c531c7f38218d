package pattern

import "github.com/mundrapranay/patternplan/pkg/extend"

func (p *Pattern) maxVertexID() int {
	max, any := -1, false
	for id := range p.vertices {
		if !any || id > max {
			max, any = id, true
		}
	}
	return max
}

func (p *Pattern) maxEdgeID() int {
	max, any := -1, false
	for id := range p.edges {
		if !any || id > max {
			max, any = id, true
		}
	}
	return max
}

// Extend applies an ExtendStep, introducing one new vertex (id =
// max_vertex_id+1) and one new edge per ExtendEdge (ids allocated
// consecutively from max_edge_id+1). Returns false iff any source rank
// in the step has no corresponding vertex (spec §3 ExtendStep).
func (p *Pattern) Extend(step *extend.Step) (*Pattern, bool) {
	c := p.Clone()
	newVertexID := c.maxVertexID() + 1
	c.vertices[newVertexID] = Vertex{ID: newVertexID, Label: step.TargetVertexLabel}
	c.vdata[newVertexID] = newVertexData()

	for _, ee := range step.Edges {
		srcVertex, ok := c.GetVertexFromRank(ee.SrcRank)
		if !ok {
			return nil, false
		}
		newEdgeID := c.maxEdgeID() + 1
		start, end := srcVertex.ID, newVertexID
		if ee.Direction == In {
			start, end = end, start
		}
		e := Edge{ID: newEdgeID, Label: ee.EdgeLabel, Start: start, End: end}
		c.edges[newEdgeID] = e
		c.edata[newEdgeID] = newEdgeData()
		c.linkAdjacency(e)
	}

	c.Canonicalize()
	return c, true
}

// ExtendDefinitely applies one DefiniteExtendEdge/target-vertex pair,
// the identity-carrying counterpart of Extend used when rolling a step
// back against one specific pattern instance.
func (p *Pattern) ExtendDefinitely(de extend.DefiniteEdge, targetVertex Vertex) (*Pattern, bool) {
	if _, exists := p.vertices[de.SrcVertexID]; !exists {
		return nil, false
	}
	c := p.Clone()
	if _, exists := c.vertices[targetVertex.ID]; !exists {
		c.vertices[targetVertex.ID] = targetVertex
		c.vdata[targetVertex.ID] = newVertexData()
	}
	start, end := de.SrcVertexID, targetVertex.ID
	if de.Direction == In {
		start, end = end, start
	}
	if _, exists := c.edges[de.EdgeID]; exists {
		return nil, false
	}
	e := Edge{ID: de.EdgeID, Label: de.EdgeLabel, Start: start, End: end}
	c.edges[e.ID] = e
	c.edata[e.ID] = newEdgeData()
	c.linkAdjacency(e)
	c.Canonicalize()
	return c, true
}

// addEdgeIncremental is the orthogonal-to-remove-edge helper backing
// ExtendByEdges. Per spec §9: add_edge requires at least one endpoint to
// already exist in the pattern, OR the pattern to be empty (bootstrapping
// the very first edge); otherwise it fails with InvalidPatternError, since
// the edge would be disconnected from everything added so far.
func (c *Pattern) addEdgeIncremental(e EdgeSpec) error {
	if _, exists := c.edges[e.EdgeID]; exists {
		return NewInvalidPatternError("the adding edge already exists")
	}
	_, startExists := c.vertices[e.StartID]
	_, endExists := c.vertices[e.EndID]
	if !startExists && !endExists {
		if len(c.vertices) != 0 {
			return NewInvalidPatternError("the adding edge cannot connect to the pattern")
		}
	}
	if !startExists {
		c.vertices[e.StartID] = Vertex{ID: e.StartID, Label: e.StartLabel}
		c.vdata[e.StartID] = newVertexData()
	}
	if !endExists {
		c.vertices[e.EndID] = Vertex{ID: e.EndID, Label: e.EndLabel}
		c.vdata[e.EndID] = newVertexData()
	}
	edge := Edge{ID: e.EdgeID, Label: e.EdgeLabel, Start: e.StartID, End: e.EndID}
	c.edges[e.EdgeID] = edge
	c.edata[e.EdgeID] = newEdgeData()
	c.linkAdjacency(edge)
	return nil
}

// ExtendByEdges adds a series of edges to a clone of p, one at a time via
// addEdgeIncremental, then canonicalizes.
func (p *Pattern) ExtendByEdges(edges []EdgeSpec) (*Pattern, error) {
	c := p.Clone()
	for _, e := range edges {
		if err := c.addEdgeIncremental(e); err != nil {
			return nil, err
		}
	}
	c.Canonicalize()
	return c, nil
}

func filterOutEdge(adjs []Adjacency, edgeID int) []Adjacency {
	out := adjs[:0]
	for _, a := range adjs {
		if a.EdgeID != edgeID {
			out = append(out, a)
		}
	}
	return out
}

// RemoveVertex removes a vertex and every edge incident to it, clears its
// tag binding, and canonicalizes. Returns false if the vertex doesn't
// exist or the result would be disconnected.
func (p *Pattern) RemoveVertex(id int) (*Pattern, bool) {
	if _, ok := p.vertices[id]; !ok {
		return nil, false
	}
	c := p.Clone()
	adjacencies := c.AdjacenciesIter(id)

	if tag, ok := c.GetVertexTag(id); ok {
		delete(c.tagToVertex, tag)
	}
	delete(c.vertices, id)
	delete(c.vdata, id)

	for _, a := range adjacencies {
		if tag, ok := c.GetEdgeTag(a.EdgeID); ok {
			delete(c.tagToEdge, tag)
		}
		delete(c.edges, a.EdgeID)
		delete(c.edata, a.EdgeID)

		adjData, ok := c.vdata[a.AdjVertexID]
		if !ok {
			continue
		}
		if a.Direction == Out {
			adjData.InAdj = filterOutEdge(adjData.InAdj, a.EdgeID)
		} else {
			adjData.OutAdj = filterOutEdge(adjData.OutAdj, a.EdgeID)
		}
	}

	c.Canonicalize()
	if !c.IsConnected() {
		return nil, false
	}
	return c, true
}

// removeIsolatedVertex deletes a vertex that is already known to carry no
// incident edges (used by RemoveEdge when a removal drops an endpoint's
// degree to zero).
func (p *Pattern) removeIsolatedVertex(id int) {
	if tag, ok := p.GetVertexTag(id); ok {
		delete(p.tagToVertex, tag)
	}
	delete(p.vertices, id)
	delete(p.vdata, id)
}

// RemoveEdge removes one edge. If an endpoint's degree drops to zero, the
// endpoint is also removed, but only when the pattern would retain at
// least one vertex. Returns false if the edge doesn't exist or the
// result would be disconnected.
func (p *Pattern) RemoveEdge(id int) (*Pattern, bool) {
	edge, ok := p.edges[id]
	if !ok {
		return nil, false
	}
	c := p.Clone()

	if tag, ok := c.GetEdgeTag(id); ok {
		delete(c.tagToEdge, tag)
	}
	delete(c.edges, id)
	delete(c.edata, id)

	startData := c.vdata[edge.Start]
	startData.OutAdj = filterOutEdge(startData.OutAdj, id)
	if c.GetVertexDegree(edge.Start) == 0 && c.VerticesNum() > 1 {
		c.removeIsolatedVertex(edge.Start)
	}

	if endData, ok := c.vdata[edge.End]; ok {
		endData.InAdj = filterOutEdge(endData.InAdj, id)
		if c.GetVertexDegree(edge.End) == 0 && c.VerticesNum() > 1 {
			c.removeIsolatedVertex(edge.End)
		}
	}

	c.Canonicalize()
	if !c.IsConnected() {
		return nil, false
	}
	return c, true
}
