package planner_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mundrapranay/patternplan/pkg/catalogue"
	"github.com/mundrapranay/patternplan/pkg/dag"
	"github.com/mundrapranay/patternplan/pkg/extend"
	"github.com/mundrapranay/patternplan/pkg/pattern"
	"github.com/mundrapranay/patternplan/pkg/planner"
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

func triangle(t *testing.T) *pattern.Pattern {
	t.Helper()
	p, err := pattern.FromEdges([]pattern.EdgeSpec{
		{EdgeID: 0, EdgeLabel: 0, StartID: 0, StartLabel: 0, EndID: 1, EndLabel: 0},
		{EdgeID: 1, EdgeLabel: 0, StartID: 1, StartLabel: 0, EndID: 2, EndLabel: 0},
		{EdgeID: 2, EdgeLabel: 0, StartID: 2, StartLabel: 0, EndID: 0, EndLabel: 0},
	})
	require.NoError(t, err)
	return p
}

func chain(t *testing.T) *pattern.Pattern {
	t.Helper()
	p, err := pattern.FromEdges([]pattern.EdgeSpec{
		{EdgeID: 0, EdgeLabel: 0, StartID: 0, StartLabel: 0, EndID: 1, EndLabel: 0},
		{EdgeID: 1, EdgeLabel: 0, StartID: 1, StartLabel: 0, EndID: 2, EndLabel: 0},
	})
	require.NoError(t, err)
	return p
}

func lastOp(plan *dag.Plan) dag.OpKind { return plan.Nodes[len(plan.Nodes)-1].Op }

func TestGeneratePlanWithoutCatalogueEndsInGroupByAndSink(t *testing.T) {
	p := chain(t)
	plan, err := planner.GeneratePlan(nil, p, planner.Distributed)
	require.NoError(t, err)
	require.Equal(t, dag.OpSink, lastOp(plan))
	require.Equal(t, dag.OpGroupBy, plan.Nodes[len(plan.Nodes)-2].Op)
	require.Equal(t, dag.OpScan, plan.Nodes[0].Op)
}

func TestGeneratePlanHeuristicExpandsEveryEdge(t *testing.T) {
	p := triangle(t)
	plan, err := planner.GeneratePlan(nil, p, planner.Distributed)
	require.NoError(t, err)

	edgeExpandCount := 0
	for _, n := range plan.Nodes {
		if n.Op == dag.OpEdgeExpand {
			edgeExpandCount++
		}
	}
	require.Equal(t, p.EdgesNum(), edgeExpandCount, "one EdgeExpand per pattern edge in distributed mode")
}

func TestGeneratePlanStandaloneFusesMultiEdgeStep(t *testing.T) {
	// A 3-cycle's final vertex attaches via two edges to the first two,
	// so its extend step has arity 2: standalone mode should fuse it.
	p := triangle(t)
	plan, err := planner.GeneratePlan(nil, p, planner.Standalone)
	require.NoError(t, err)

	sawFused := false
	for _, n := range plan.Nodes {
		if n.Op == dag.OpExpandAndIntersect {
			sawFused = true
			eai := n.Payload.(dag.ExpandAndIntersect)
			require.Len(t, eai.Edges, 2)
		}
	}
	require.True(t, sawFused, "standalone mode must fuse an arity-2 extend step into ExpandAndIntersect")
}

func TestGeneratePlanDistributedSplitsMultiEdgeStepIntoIntersect(t *testing.T) {
	p := triangle(t)
	plan, err := planner.GeneratePlan(nil, p, planner.Distributed)
	require.NoError(t, err)

	var intersect *dag.Intersect
	for _, n := range plan.Nodes {
		if n.Op == dag.OpIntersect {
			ix := n.Payload.(dag.Intersect)
			intersect = &ix
		}
	}
	require.NotNil(t, intersect, "distributed mode must emit an explicit Intersect for an arity-2 step")
	require.Len(t, intersect.Parents, 2)
	for _, parentIdx := range intersect.Parents {
		require.Equal(t, dag.OpEdgeExpand, plan.Nodes[parentIdx].Op)
	}
}

func TestGeneratePlanHeuristicTagsEntryAndEveryExtendedVertex(t *testing.T) {
	p := triangle(t)
	plan, err := planner.GeneratePlan(nil, p, planner.Distributed)
	require.NoError(t, err)

	asCount, selectCount := 0, 0
	for _, n := range plan.Nodes {
		switch n.Op {
		case dag.OpAs:
			asCount++
		case dag.OpSelect:
			selectCount++
		}
	}
	require.Equal(t, p.VerticesNum(), asCount, "every vertex, entry included, must be tagged with As")
	require.Equal(t, p.VerticesNum()-1, selectCount, "every extended vertex but the entry gets a label-disambiguation Select")
}

func TestGeneratePlanHeuristicEmitsPredicateFilterForPredicatedVertex(t *testing.T) {
	p := triangle(t)
	p.SetVertexPredicate(2, "age > 30")

	plan, err := planner.GeneratePlan(nil, p, planner.Distributed)
	require.NoError(t, err)

	var predicateSelects int
	for _, n := range plan.Nodes {
		if n.Op != dag.OpSelect {
			continue
		}
		sel := n.Payload.(dag.Select)
		if sel.Predicate != nil {
			predicateSelects++
			require.Equal(t, "age > 30", sel.Predicate)
		}
	}
	require.Equal(t, 1, predicateSelects, "the predicated vertex must get its own predicate-filter Select")
}

func TestGeneratePlanUsesCatalogueBestApproachWhenAvailable(t *testing.T) {
	p := chain(t)
	cat := catalogue.BuildFromPattern(p, fakeSchema{}, 8)
	for _, key := range cat.AllNodes() {
		n, _ := cat.GetNode(key)
		cat.SetPatternCount(key, float64(10*n.Pattern.VerticesNum()))
	}

	plan, err := planner.GeneratePlan(cat, p, planner.Distributed)
	require.NoError(t, err)
	require.Equal(t, dag.OpScan, plan.Nodes[0].Op)
	require.Equal(t, dag.OpSink, lastOp(plan))
}

func TestGeneratePlanFallsBackToHeuristicWhenPatternNotInCatalogue(t *testing.T) {
	inCatalogue := chain(t)
	cat := catalogue.BuildFromPattern(inCatalogue, fakeSchema{}, 8)
	for _, key := range cat.AllNodes() {
		n, _ := cat.GetNode(key)
		cat.SetPatternCount(key, float64(n.Pattern.VerticesNum()))
	}

	other := triangle(t)
	plan, err := planner.GeneratePlan(cat, other, planner.Distributed)
	require.NoError(t, err, "an unrelated pattern must fall back to the heuristic path, not error")
	require.Equal(t, dag.OpSink, lastOp(plan))
}

func fourCycle(t *testing.T) *pattern.Pattern {
	t.Helper()
	p, err := pattern.FromEdges([]pattern.EdgeSpec{
		{EdgeID: 0, EdgeLabel: 0, StartID: 0, StartLabel: 0, EndID: 1, EndLabel: 0},
		{EdgeID: 1, EdgeLabel: 0, StartID: 1, StartLabel: 0, EndID: 2, EndLabel: 0},
		{EdgeID: 2, EdgeLabel: 0, StartID: 2, StartLabel: 0, EndID: 3, EndLabel: 0},
		{EdgeID: 3, EdgeLabel: 0, StartID: 3, StartLabel: 0, EndID: 0, EndLabel: 0},
	})
	require.NoError(t, err)
	return p
}

// TestGeneratePlanEmitsJoinNodeForFourCycleUnderHybridPlanSpace realizes
// spec scenario 5: a 4-cycle decomposes into two join-key-sharing
// 3-vertex paths, and the plan generator splices them with a Join node
// when that derivation is the memoized best approach.
func TestGeneratePlanEmitsJoinNodeForFourCycleUnderHybridPlanSpace(t *testing.T) {
	p := fourCycle(t)
	cat := catalogue.BuildFromPattern(p, fakeSchema{}, 8)
	for _, key := range cat.AllNodes() {
		n, _ := cat.GetNode(key)
		cat.SetPatternCount(key, float64(n.Pattern.VerticesNum()))
	}

	targetKey, ok := cat.GetPatternIndex(p)
	require.True(t, ok)

	// Run the normal DP search once so every reachable sub-pattern
	// (both extend-chain ancestors and join halves) is memoized, then
	// force the target's winner to the BinaryJoin arc BuildFromPattern
	// wired in, regardless of which one the cost model actually prefers.
	_, err := cat.SetBestApproachByPattern(p)
	require.NoError(t, err)

	var joinApproachID string
	for _, a := range cat.PatternInApproachesIter(targetKey) {
		if a.Kind == catalogue.BinaryJoinApproach {
			joinApproachID = a.ID
			break
		}
	}
	require.NotEmpty(t, joinApproachID, "BuildFromPattern must register a BinaryJoin arc for a 4-cycle")
	cat.SetPatternBestApproach(targetKey, joinApproachID)

	plan, err := planner.GeneratePlan(cat, p, planner.Distributed)
	require.NoError(t, err)

	sawJoin := false
	for _, n := range plan.Nodes {
		if n.Op == dag.OpJoin {
			sawJoin = true
		}
	}
	require.True(t, sawJoin, "forcing the BinaryJoin winner must emit a Join node")
}

func TestGeneratePlanBinaryJoinOnlySpaceUnsupportedWhenUnreachable(t *testing.T) {
	p := triangle(t)
	cat := catalogue.BuildFromPattern(p, fakeSchema{}, 8)
	for _, key := range cat.AllNodes() {
		n, _ := cat.GetNode(key)
		cat.SetPatternCount(key, float64(n.Pattern.VerticesNum()))
	}
	cat.PlanSpace = catalogue.BinaryJoin

	_, err := planner.GeneratePlan(cat, p, planner.Distributed)
	require.Error(t, err)
	var unsupported *planner.UnsupportedError
	require.ErrorAs(t, err, &unsupported)
}
