package pattern

import (
	"sort"

	"github.com/mundrapranay/patternplan/pkg/extend"
	"github.com/mundrapranay/patternplan/pkg/schema"
)

// candidateExtendEdge pairs an ExtendEdge with the source vertex id it
// was generated from, needed to enforce sameLabelLimit-style repetition
// caps during subset enumeration.
type candidateExtendEdge struct {
	edge  extend.Edge
	srcID int
}

// GetExtendSteps enumerates every legal single-vertex extension of p
// under schema, suppressing target labels that would push the pattern
// past sameLabelLimit vertices of that label, and suppressing any
// extend-edge subset that draws more than one edge from the same source
// vertex (spec §4.4).
func (p *Pattern) GetExtendSteps(s schema.Schema, sameLabelLimit int) []*extend.Step {
	var steps []*extend.Step

	labelCount := make(map[int]int)
	for _, v := range p.vertices {
		labelCount[v.Label]++
	}

	for _, targetLabel := range s.VertexLabels() {
		if labelCount[targetLabel] >= sameLabelLimit {
			continue
		}

		var candidates []candidateExtendEdge
		for _, v := range p.VerticesIter() {
			rank, ok := p.GetVertexRank(v.ID)
			if !ok {
				continue
			}
			for _, ae := range s.AdjacentEdges(v.Label, targetLabel) {
				candidates = append(candidates, candidateExtendEdge{
					edge:  extend.Edge{SrcRank: rank, EdgeLabel: ae.EdgeLabel, Direction: ae.Direction},
					srcID: v.ID,
				})
			}
		}

		for _, subset := range subsetsLimitingRepeats(candidates, 1) {
			edges := make([]extend.Edge, len(subset))
			for i, c := range subset {
				edges[i] = c.edge
			}
			steps = append(steps, extend.NewStep(targetLabel, edges))
		}
	}
	return steps
}

// subsetsLimitingRepeats enumerates every non-empty subset of candidates,
// pruning any subset that draws more than repeatLimit elements from the
// same source vertex id (the BFS subset search from get_subsets +
// limit_repeated_element_num in the original).
func subsetsLimitingRepeats(candidates []candidateExtendEdge, repeatLimit int) [][]candidateExtendEdge {
	var out [][]candidateExtendEdge
	n := len(candidates)
	if n == 0 {
		return out
	}

	var extendSubsets func(start int, current []candidateExtendEdge, srcCounts map[int]int)
	extendSubsets = func(start int, current []candidateExtendEdge, srcCounts map[int]int) {
		if len(current) > 0 {
			out = append(out, append([]candidateExtendEdge(nil), current...))
		}
		for i := start; i < n; i++ {
			c := candidates[i]
			if srcCounts[c.srcID] >= repeatLimit {
				continue
			}
			srcCounts[c.srcID]++
			extendSubsets(i+1, append(current, c), srcCounts)
			srcCounts[c.srcID]--
		}
	}
	extendSubsets(0, nil, make(map[int]int))

	sort.Slice(out, func(i, j int) bool { return len(out[i]) < len(out[j]) })
	return out
}
