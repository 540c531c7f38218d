package pattern

// IsConnected reports whether every vertex is reachable from every other
// vertex, ignoring edge direction. The empty pattern counts as connected.
func (p *Pattern) IsConnected() bool {
	n := len(p.vertices)
	if n <= 1 {
		return true
	}
	return len(p.reachableFrom(p.anyVertexID())) == n
}

// GetConnectedComponentNum returns the number of weakly connected
// components.
func (p *Pattern) GetConnectedComponentNum() int {
	return len(p.GetConnectedComponents())
}

// GetConnectedComponents partitions the pattern into one sub-pattern per
// weakly connected component, each independently canonicalized.
func (p *Pattern) GetConnectedComponents() []*Pattern {
	visited := make(map[int]bool, len(p.vertices))
	var components []*Pattern

	for _, v := range p.VerticesIter() {
		if visited[v.ID] {
			continue
		}
		members := p.reachableFrom(v.ID)
		for id := range members {
			visited[id] = true
		}
		components = append(components, p.subPatternOn(members))
	}
	return components
}

func (p *Pattern) anyVertexID() int {
	for id := range p.vertices {
		return id
	}
	return 0
}

// reachableFrom returns the set of vertex ids weakly reachable from start
// via a breadth-first walk over both out- and in-adjacencies.
func (p *Pattern) reachableFrom(start int) map[int]bool {
	visited := map[int]bool{start: true}
	queue := []int{start}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, a := range p.AdjacenciesIter(id) {
			if !visited[a.AdjVertexID] {
				visited[a.AdjVertexID] = true
				queue = append(queue, a.AdjVertexID)
			}
		}
	}
	return visited
}

// subPatternOn builds a fresh, canonicalized Pattern containing exactly
// the given vertex ids and every edge with both endpoints inside the set.
func (p *Pattern) subPatternOn(members map[int]bool) *Pattern {
	c := newEmptyPattern()
	for id := range members {
		c.vertices[id] = p.vertices[id]
		c.vdata[id] = newVertexData()
		c.vdata[id].Predicate = p.vdata[id].Predicate
		c.vdata[id].Tag = p.vdata[id].Tag
		if tag, ok := p.GetVertexTag(id); ok {
			c.tagToVertex[tag] = id
		}
	}
	for id, e := range p.edges {
		if members[e.Start] && members[e.End] {
			c.edges[id] = e
			c.edata[id] = newEdgeData()
			c.edata[id].Predicate = p.edata[id].Predicate
			c.edata[id].Tag = p.edata[id].Tag
			if tag, ok := p.GetEdgeTag(id); ok {
				c.tagToEdge[tag] = id
			}
			c.linkAdjacency(e)
		}
	}
	c.Canonicalize()
	return c
}
