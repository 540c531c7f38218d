package client_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mundrapranay/patternplan/pkg/catalogue"
	"github.com/mundrapranay/patternplan/pkg/client"
	"github.com/mundrapranay/patternplan/pkg/dag"
	"github.com/mundrapranay/patternplan/pkg/extend"
	"github.com/mundrapranay/patternplan/pkg/pattern"
	"github.com/mundrapranay/patternplan/pkg/planner"
	"github.com/mundrapranay/patternplan/pkg/queryshape"
	"github.com/mundrapranay/patternplan/pkg/schema"
)

type fakeSchema struct{}

func (fakeSchema) VertexLabels() []int { return []int{0} }
func (fakeSchema) EndpointsOf(edgeLabel int) []schema.EdgeEndpoints {
	return []schema.EdgeEndpoints{{StartLabel: 0, EndLabel: 0}}
}
func (fakeSchema) AdjacentEdges(src, dst int) []schema.AdjacentEdge {
	if src == 0 && dst == 0 {
		return []schema.AdjacentEdge{{EdgeLabel: 0, Direction: extend.Out}}
	}
	return nil
}

func chainInput() queryshape.Input {
	return queryshape.Input{
		StartAlias: "0",
		StartLabel: 0,
		Expands: []queryshape.Expand{
			{EdgeLabel: 0, Direction: extend.Out, Alias: "1"},
			{EdgeLabel: 0, Direction: extend.Out, Alias: "2"},
		},
	}
}

func TestPlanWithoutCatalogueUsesHeuristicFallback(t *testing.T) {
	c := client.New(fakeSchema{}, planner.Distributed)
	plan, err := c.Plan(chainInput())
	require.NoError(t, err)
	require.Equal(t, dag.OpScan, plan.Nodes[0].Op)
	require.Equal(t, dag.OpSink, plan.Nodes[len(plan.Nodes)-1].Op)
}

func TestPlanWithAttachedCatalogueSucceeds(t *testing.T) {
	c := client.New(fakeSchema{}, planner.Distributed)

	p, err := queryshape.Parse(chainInput(), fakeSchema{})
	require.NoError(t, err)

	cat := catalogue.BuildFromPattern(p, fakeSchema{}, 8)
	for _, key := range cat.AllNodes() {
		n, _ := cat.GetNode(key)
		cat.SetPatternCount(key, float64(10*n.Pattern.VerticesNum()))
	}
	c.AttachCatalogue(cat)

	plan, err := c.Plan(chainInput())
	require.NoError(t, err)
	require.Equal(t, dag.OpSink, plan.Nodes[len(plan.Nodes)-1].Op)
}

func TestPlanPropagatesParseErrors(t *testing.T) {
	c := client.New(fakeSchema{}, planner.Distributed)
	_, err := c.Plan(queryshape.Input{})
	require.Error(t, err)
}

func TestPlanRejectsUnrelatedTargetGracefully(t *testing.T) {
	// A catalogue built for a different pattern than the one parsed must
	// still produce a plan via the heuristic fallback, not an error.
	c := client.New(fakeSchema{}, planner.Distributed)

	other, err := pattern.FromEdges([]pattern.EdgeSpec{
		{EdgeID: 0, EdgeLabel: 0, StartID: 0, StartLabel: 0, EndID: 1, EndLabel: 0},
	})
	require.NoError(t, err)
	cat := catalogue.BuildFromPattern(other, fakeSchema{}, 8)
	for _, key := range cat.AllNodes() {
		n, _ := cat.GetNode(key)
		cat.SetPatternCount(key, float64(n.Pattern.VerticesNum()))
	}
	c.AttachCatalogue(cat)

	plan, err := c.Plan(chainInput())
	require.NoError(t, err)
	require.Equal(t, dag.OpSink, plan.Nodes[len(plan.Nodes)-1].Op)
}
