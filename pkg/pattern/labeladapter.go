package pattern

import "github.com/mundrapranay/patternplan/pkg/label"

// The following methods let *Pattern satisfy pkg/label.Graph, so
// Canonicalize can hand the pattern to the labeler without either
// package importing the other's concrete type.

func (p *Pattern) VertexIDs() []int {
	out := make([]int, 0, len(p.vertices))
	for id := range p.vertices {
		out = append(out, id)
	}
	return out
}

func (p *Pattern) EdgeIDs() []int {
	out := make([]int, 0, len(p.edges))
	for id := range p.edges {
		out = append(out, id)
	}
	return out
}

func (p *Pattern) VertexLabel(id int) int { return p.vertices[id].Label }

func (p *Pattern) VertexOutDegree(id int) int { return len(p.vdata[id].OutAdj) }
func (p *Pattern) VertexInDegree(id int) int  { return len(p.vdata[id].InAdj) }

// Adjacencies returns outgoing then incoming adjacencies combined, as
// the labeler's Adjacency shape.
func (p *Pattern) Adjacencies(id int) []label.Adjacency {
	d := p.vdata[id]
	out := make([]label.Adjacency, 0, len(d.OutAdj)+len(d.InAdj))
	for _, a := range d.OutAdj {
		out = append(out, toLabelAdj(a))
	}
	for _, a := range d.InAdj {
		out = append(out, toLabelAdj(a))
	}
	return out
}

// SetAdjacencies splits the combined, canonically-sorted list back into
// Out/In slices, preserving relative order within each direction.
func (p *Pattern) SetAdjacencies(id int, adjacencies []label.Adjacency) {
	d := p.vdata[id]
	d.OutAdj = d.OutAdj[:0]
	d.InAdj = d.InAdj[:0]
	for _, a := range adjacencies {
		pa := fromLabelAdj(a)
		if a.Direction == label.Out {
			d.OutAdj = append(d.OutAdj, pa)
		} else {
			d.InAdj = append(d.InAdj, pa)
		}
	}
}

func (p *Pattern) SetVertexGroup(id int, group int) { p.vdata[id].Group = group }
func (p *Pattern) SetVertexRank(id int, rank int)   { p.vdata[id].Rank = rank }
func (p *Pattern) SetEdgeRank(id int, rank int)     { p.edata[id].Rank = rank }

func toLabelAdj(a Adjacency) label.Adjacency {
	return label.Adjacency{
		EdgeID:         a.EdgeID,
		EdgeLabel:      a.EdgeLabel,
		AdjVertexID:    a.AdjVertexID,
		AdjVertexLabel: a.AdjVertexLabel,
		Direction:      label.Direction(a.Direction),
	}
}

func fromLabelAdj(a label.Adjacency) Adjacency {
	return Adjacency{
		EdgeID:         a.EdgeID,
		EdgeLabel:      a.EdgeLabel,
		AdjVertexID:    a.AdjVertexID,
		AdjVertexLabel: a.AdjVertexLabel,
		Direction:      Direction(a.Direction),
	}
}
