package pattern_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mundrapranay/patternplan/pkg/codec"
	"github.com/mundrapranay/patternplan/pkg/pattern"
)

// Triangle returns the scenario from spec §8.1: A:0, B:0, C:1 with
// A→B label 0, B→C label 1, A→C label 1.
func triangle(t *testing.T) *pattern.Pattern {
	t.Helper()
	p, err := pattern.FromEdges([]pattern.EdgeSpec{
		{EdgeID: 0, EdgeLabel: 0, StartID: 0, StartLabel: 0, EndID: 1, EndLabel: 0},
		{EdgeID: 1, EdgeLabel: 1, StartID: 1, StartLabel: 0, EndID: 2, EndLabel: 1},
		{EdgeID: 2, EdgeLabel: 1, StartID: 0, StartLabel: 0, EndID: 2, EndLabel: 1},
	})
	require.NoError(t, err)
	return p
}

func TestFromEdgesEmpty(t *testing.T) {
	_, err := pattern.FromEdges(nil)
	require.ErrorIs(t, err, pattern.ErrEmpty)
}

func TestFromEdgesDuplicateID(t *testing.T) {
	_, err := pattern.FromEdges([]pattern.EdgeSpec{
		{EdgeID: 0, EdgeLabel: 0, StartID: 0, StartLabel: 0, EndID: 1, EndLabel: 0},
		{EdgeID: 0, EdgeLabel: 1, StartID: 1, StartLabel: 0, EndID: 2, EndLabel: 0},
	})
	require.Error(t, err)
}

func TestTriangleRanksAreBijection(t *testing.T) {
	p := triangle(t)
	require.Equal(t, 3, p.VerticesNum())
	require.Equal(t, 3, p.EdgesNum())

	seenV := make(map[int]bool)
	for _, v := range p.VerticesIter() {
		r, ok := p.GetVertexRank(v.ID)
		require.True(t, ok)
		require.GreaterOrEqual(t, r, 0)
		require.Less(t, r, 3)
		require.False(t, seenV[r], "rank %d assigned twice", r)
		seenV[r] = true
	}
	seenE := make(map[int]bool)
	for _, e := range p.EdgesIter() {
		r, ok := p.GetEdgeRank(e.ID)
		require.True(t, ok)
		require.False(t, seenE[r], "edge rank %d assigned twice", r)
		seenE[r] = true
	}
}

func TestTriangleGroupsAreSingletons(t *testing.T) {
	p := triangle(t)
	// Groups are numbered within a vertex label, so a group is identified
	// by its (label, group) pair.
	groups := make(map[[2]int]bool)
	for _, v := range p.VerticesIter() {
		g, ok := p.GetVertexGroup(v.ID)
		require.True(t, ok)
		groups[[2]int{v.Label, g}] = true
	}
	require.Len(t, groups, 3, "A has out-degree 2, B has out-degree 1: no two vertices should share a group")
}

func TestTriangleIsomorphicRelabelingEncodesIdentically(t *testing.T) {
	relabeled, err := pattern.FromEdges([]pattern.EdgeSpec{
		{EdgeID: 10, EdgeLabel: 0, StartID: 5, StartLabel: 0, EndID: 6, EndLabel: 0},
		{EdgeID: 11, EdgeLabel: 1, StartID: 6, StartLabel: 0, EndID: 7, EndLabel: 1},
		{EdgeID: 12, EdgeLabel: 1, StartID: 5, StartLabel: 0, EndID: 7, EndLabel: 1},
	})
	require.NoError(t, err)

	original := triangle(t)
	require.Equal(t, original.VerticesNum(), relabeled.VerticesNum())
	require.Equal(t, original.EdgesNum(), relabeled.EdgesNum())
	require.Equal(t, codec.Encode(original), codec.Encode(relabeled))
}

func TestTwoDisjointEdgesConnectedComponents(t *testing.T) {
	p, err := pattern.FromEdges([]pattern.EdgeSpec{
		{EdgeID: 0, EdgeLabel: 0, StartID: 0, StartLabel: 0, EndID: 1, EndLabel: 0},
		{EdgeID: 1, EdgeLabel: 0, StartID: 2, StartLabel: 0, EndID: 3, EndLabel: 0},
	})
	require.NoError(t, err)

	require.False(t, p.IsConnected())
	components := p.GetConnectedComponents()
	require.Len(t, components, 2)
	for _, c := range components {
		require.Equal(t, 2, c.VerticesNum())
		require.Equal(t, 1, c.EdgesNum())
	}
}

func TestRemoveVertexDisconnectionFails(t *testing.T) {
	p, err := pattern.FromEdges([]pattern.EdgeSpec{
		{EdgeID: 0, EdgeLabel: 0, StartID: 0, StartLabel: 0, EndID: 1, EndLabel: 0},
		{EdgeID: 1, EdgeLabel: 0, StartID: 1, StartLabel: 0, EndID: 2, EndLabel: 0},
	})
	require.NoError(t, err)

	_, ok := p.RemoveVertex(1)
	require.False(t, ok, "removing the middle vertex of a 3-path disconnects it")
}

func TestRemoveVertexShrinksByOne(t *testing.T) {
	p := triangle(t)
	before := p.VerticesNum()
	q, ok := p.RemoveVertex(2)
	require.True(t, ok)
	require.True(t, q.IsConnected())
	require.Equal(t, before-1, q.VerticesNum())
}

func TestRemoveEdgeDropsIsolatedEndpoint(t *testing.T) {
	p, err := pattern.FromEdges([]pattern.EdgeSpec{
		{EdgeID: 0, EdgeLabel: 0, StartID: 0, StartLabel: 0, EndID: 1, EndLabel: 0},
		{EdgeID: 1, EdgeLabel: 0, StartID: 1, StartLabel: 0, EndID: 2, EndLabel: 0},
	})
	require.NoError(t, err)

	q, ok := p.RemoveEdge(0)
	require.True(t, ok)
	require.Equal(t, 2, q.VerticesNum(), "removing edge 0 isolates vertex 0, which must be dropped")
	require.Equal(t, 1, q.EdgesNum())
}

func TestEdgesPredicateNumCountsOwnPredicate(t *testing.T) {
	p := triangle(t)
	edges := p.EdgesIter()
	p.SetEdgePredicate(edges[0].ID, "x > 1")
	require.Equal(t, 1, p.EdgesPredicateNum())
	require.Equal(t, 0, p.VerticesPredicateNum())
}

func TestCloneIsIndependent(t *testing.T) {
	p := triangle(t)
	c := p.Clone()
	c.SetVertexPredicate(p.VerticesIter()[0].ID, "flag")
	_, hasPred := p.GetVertexPredicate(p.VerticesIter()[0].ID)
	require.False(t, hasPred, "mutating the clone must not affect the original")
}

func TestBinaryJoinDecompositionFourCycle(t *testing.T) {
	p, err := pattern.FromEdges([]pattern.EdgeSpec{
		{EdgeID: 0, EdgeLabel: 0, StartID: 0, StartLabel: 0, EndID: 1, EndLabel: 0},
		{EdgeID: 1, EdgeLabel: 0, StartID: 1, StartLabel: 0, EndID: 2, EndLabel: 0},
		{EdgeID: 2, EdgeLabel: 0, StartID: 2, StartLabel: 0, EndID: 3, EndLabel: 0},
		{EdgeID: 3, EdgeLabel: 0, StartID: 3, StartLabel: 0, EndID: 0, EndLabel: 0},
	})
	require.NoError(t, err)

	plans := p.BinaryJoinDecomposition()
	require.NotEmpty(t, plans)
	foundTwoKeySplit := false
	for _, plan := range plans {
		if len(plan.JoinKeys) == 2 {
			foundTwoKeySplit = true
			require.True(t, plan.Build.IsConnected())
			require.True(t, plan.Probe.IsConnected())
		}
	}
	require.True(t, foundTwoKeySplit, "a 4-cycle must decompose into two paths sharing exactly 2 join keys")
}
