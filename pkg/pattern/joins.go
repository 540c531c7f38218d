package pattern

import "sort"

// JoinPlan describes one binary decomposition of a pattern into a build
// sub-pattern and a probe sub-pattern sharing a set of join-key vertices
// (spec §3, §4.1). Build and probe are independently canonicalized
// sub-patterns of the original; JoinKeys holds the original pattern's
// vertex ids that appear in both halves.
type JoinPlan struct {
	Build    *Pattern
	Probe    *Pattern
	JoinKeys []int
}

// BinaryJoinDecomposition enumerates every way to split p's edges into
// two non-empty, individually connected halves that together cover every
// edge exactly once, the cut vertex set becoming the join keys. Each
// unordered partition is emitted once (build := the half that does not
// contain the largest edge id).
func (p *Pattern) BinaryJoinDecomposition() []JoinPlan {
	edges := p.EdgesIter()
	n := len(edges)
	if n < 2 {
		return nil
	}

	var plans []JoinPlan
	total := 1 << uint(n)
	for mask := 1; mask < total-1; mask++ {
		complement := (total - 1) ^ mask
		if mask > complement {
			continue // each unordered partition considered once
		}

		buildEdges := edgeSubset(edges, mask)
		probeEdges := edgeSubset(edges, complement)

		buildMembers := vertexSetOf(buildEdges)
		probeMembers := vertexSetOf(probeEdges)

		// Each half keeps only its own edges: drop the other half's edges.
		build, probe := p.subPatternOn(buildMembers), p.subPatternOn(probeMembers)
		for i, e := range edges {
			other := &build
			if mask&(1<<uint(i)) != 0 {
				other = &probe
			}
			if next, ok := (*other).RemoveEdge(e.ID); ok {
				*other = next
			}
		}
		if build.EdgesNum() != len(buildEdges) || probe.EdgesNum() != len(probeEdges) || !build.IsConnected() || !probe.IsConnected() {
			continue
		}

		var joinKeys []int
		for id := range buildMembers {
			if probeMembers[id] {
				joinKeys = append(joinKeys, id)
			}
		}
		if len(joinKeys) == 0 {
			continue
		}
		sort.Ints(joinKeys)

		plans = append(plans, JoinPlan{
			Build:    build,
			Probe:    probe,
			JoinKeys: joinKeys,
		})
	}
	return plans
}

func edgeSubset(edges []Edge, mask int) []Edge {
	var out []Edge
	for i, e := range edges {
		if mask&(1<<uint(i)) != 0 {
			out = append(out, e)
		}
	}
	return out
}

func vertexSetOf(edges []Edge) map[int]bool {
	out := make(map[int]bool)
	for _, e := range edges {
		out[e.Start] = true
		out[e.End] = true
	}
	return out
}
