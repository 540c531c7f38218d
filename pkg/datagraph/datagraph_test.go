package datagraph_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mundrapranay/patternplan/pkg/datagraph"
	"github.com/mundrapranay/patternplan/pkg/extend"
)

func TestNeighborsBothDirections(t *testing.T) {
	g := datagraph.New(
		map[datagraph.VertexID]int{1: 0, 2: 0, 3: 0},
		[]datagraph.EdgeRecord{{From: 1, To: 2, Label: 7}, {From: 2, To: 3, Label: 7}},
	)

	require.ElementsMatch(t, []datagraph.VertexID{2}, g.Neighbors(1, 7, extend.Out))
	require.ElementsMatch(t, []datagraph.VertexID{1}, g.Neighbors(2, 7, extend.In))
	require.Empty(t, g.Neighbors(1, 99, extend.Out))
}

func TestVerticesWithLabel(t *testing.T) {
	g := datagraph.New(
		map[datagraph.VertexID]int{1: 0, 2: 1, 3: 0},
		nil,
	)
	require.ElementsMatch(t, []datagraph.VertexID{1, 3}, g.VerticesWithLabel(0))
	require.ElementsMatch(t, []datagraph.VertexID{2}, g.VerticesWithLabel(1))
	require.Equal(t, 3, g.VertexCount())
}

func TestVertexLabelLookup(t *testing.T) {
	g := datagraph.New(map[datagraph.VertexID]int{5: 2}, nil)
	l, ok := g.VertexLabel(5)
	require.True(t, ok)
	require.Equal(t, 2, l)

	_, ok = g.VertexLabel(6)
	require.False(t, ok)
}
