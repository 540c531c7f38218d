package schema_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mundrapranay/patternplan/pkg/extend"
	"github.com/mundrapranay/patternplan/pkg/schema"
)

func sampleDocument() *schema.Document {
	doc := &schema.Document{VertexLabelIDs: []int{0, 1}}
	doc.Edges = []schema.EdgeRule{{EdgeLabel: 7}}
	doc.Edges[0].Endpoints = []struct {
		StartLabel int `yaml:"start_label"`
		EndLabel   int `yaml:"end_label"`
	}{{StartLabel: 0, EndLabel: 1}}
	return doc
}

func TestValidateRejectsUndeclaredLabel(t *testing.T) {
	doc := sampleDocument()
	doc.Edges[0].Endpoints[0].EndLabel = 9 // not in VertexLabelIDs
	require.Error(t, doc.Validate())
}

func TestValidateAcceptsConsistentDocument(t *testing.T) {
	require.NoError(t, sampleDocument().Validate())
}

func TestBuildDerivesReverseIndexBothDirections(t *testing.T) {
	s := sampleDocument().Build()

	require.ElementsMatch(t, []int{0, 1}, s.VertexLabels())

	out := s.AdjacentEdges(0, 1)
	require.Len(t, out, 1)
	require.Equal(t, schema.AdjacentEdge{EdgeLabel: 7, Direction: extend.Out}, out[0])

	in := s.AdjacentEdges(1, 0)
	require.Len(t, in, 1)
	require.Equal(t, schema.AdjacentEdge{EdgeLabel: 7, Direction: extend.In}, in[0])

	endpoints := s.EndpointsOf(7)
	require.Equal(t, []schema.EdgeEndpoints{{StartLabel: 0, EndLabel: 1}}, endpoints)
}

func TestBuildUnknownEdgeLabelReturnsEmpty(t *testing.T) {
	s := sampleDocument().Build()
	require.Empty(t, s.EndpointsOf(999))
	require.Empty(t, s.AdjacentEdges(5, 5))
}
