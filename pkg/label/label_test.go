package label_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mundrapranay/patternplan/pkg/pattern"
)

// label's algorithm is exercised indirectly through pattern.Canonicalize,
// since pattern.Pattern is the only production implementer of
// label.Graph (see pkg/pattern/labeladapter.go); these properties belong
// to label's algorithm rather than pattern's bookkeeping.

func TestCanonicalizationIsIdempotent(t *testing.T) {
	p, err := pattern.FromEdges([]pattern.EdgeSpec{
		{EdgeID: 0, EdgeLabel: 0, StartID: 0, StartLabel: 0, EndID: 1, EndLabel: 0},
		{EdgeID: 1, EdgeLabel: 1, StartID: 1, StartLabel: 0, EndID: 2, EndLabel: 1},
		{EdgeID: 2, EdgeLabel: 1, StartID: 0, StartLabel: 0, EndID: 2, EndLabel: 1},
	})
	require.NoError(t, err)

	before := make(map[int]int)
	for _, v := range p.VerticesIter() {
		r, _ := p.GetVertexRank(v.ID)
		before[v.ID] = r
	}

	p.Canonicalize()

	for _, v := range p.VerticesIter() {
		r, _ := p.GetVertexRank(v.ID)
		require.Equal(t, before[v.ID], r, "re-canonicalizing an already-canonical pattern must not change ranks")
	}
}

func TestSingleVertexPatternHasRankZero(t *testing.T) {
	p := pattern.FromSingleVertex(7, 3)
	r, ok := p.GetVertexRank(7)
	require.True(t, ok)
	require.Equal(t, 0, r)
}
