// Package planner is the plan generator (spec §4.8): it turns a target
// pattern, optionally backed by a catalogue's cost-chosen derivations,
// into an operator DAG (pkg/dag). Two paths feed the same emission
// logic: a catalogue-driven path that walks each node's memoized best
// approach, and a heuristic fallback that orders extend steps by a
// cheapest-vertex-to-remove-last tuple when no catalogue is available or
// the catalogue has no path to the target under its current PlanSpace.
package planner

import (
	"fmt"

	"github.com/mundrapranay/patternplan/pkg/catalogue"
	"github.com/mundrapranay/patternplan/pkg/dag"
	"github.com/mundrapranay/patternplan/pkg/extend"
	"github.com/mundrapranay/patternplan/pkg/pattern"
)

// Mode selects the physical shape of a multi-edge extend step: a
// distributed engine wants each edge walk as its own node (so a shuffle
// boundary can sit between them), a standalone engine can fuse them into
// one ExpandAndIntersect node.
type Mode int

const (
	Distributed Mode = iota
	Standalone
)

// GeneratePlan builds an operator DAG for target. When cat is non-nil and
// holds target, the cost-chosen catalogue derivation is used; otherwise
// (or if the catalogue has no derivation reachable under its current
// PlanSpace) a heuristic removal-order plan is generated. A catalogue
// restricted to BinaryJoin-only that cannot reach target returns
// UnsupportedError rather than silently falling back, since BinaryJoin
// restriction is a caller's explicit choice.
func GeneratePlan(cat *catalogue.Catalogue, target *pattern.Pattern, mode Mode) (*dag.Plan, error) {
	if cat != nil {
		if key, ok := cat.GetPatternIndex(target); ok {
			if _, err := cat.SetBestApproachByPattern(target); err == nil {
				if plan, _, emitErr := emitFromNode(cat, key, mode); emitErr == nil {
					finalize(plan)
					return plan, nil
				}
			} else if cat.PlanSpace == catalogue.BinaryJoin {
				return nil, newUnsupportedError("no BinaryJoin decomposition reaches the target pattern")
			}
		}
	}

	plan, err := heuristicPlan(target, mode)
	if err != nil {
		return nil, err
	}
	finalize(plan)
	return plan, nil
}

// finalize appends the trailing GroupBy (bare count) and Sink that close
// every generated plan, per spec §4.8.
func finalize(plan *dag.Plan) {
	tail := len(plan.Nodes) - 1
	gbIdx := plan.Append(dag.Node{Op: dag.OpGroupBy, Payload: dag.GroupBy{}})
	plan.Nodes[tail].Children = append(plan.Nodes[tail].Children, gbIdx)
	sinkIdx := plan.Append(dag.Node{Op: dag.OpSink, Payload: dag.Sink{}})
	plan.Nodes[gbIdx].Children = append(plan.Nodes[gbIdx].Children, sinkIdx)
}

// emitFromNode recursively emits the subplan that produces key's
// bindings, following its memoized best approach, and returns the plan
// along with the index of its single terminal node.
func emitFromNode(cat *catalogue.Catalogue, key string, mode Mode) (*dag.Plan, int, error) {
	node, ok := cat.GetNode(key)
	if !ok {
		return nil, 0, fmt.Errorf("planner: unknown catalogue node %q", key)
	}

	if node.Pattern.VerticesNum() == 1 {
		v := node.Pattern.VerticesIter()[0]
		plan := &dag.Plan{}
		idx := plan.Append(dag.Node{Op: dag.OpScan, Payload: dag.Scan{Labels: []int{v.Label}}})
		pred, _ := node.Pattern.GetVertexPredicate(v.ID)
		tail := appendVertexTag(plan, idx, v.ID, pred)
		return plan, tail, nil
	}

	if node.BestApproach == "" {
		return nil, 0, fmt.Errorf("planner: node %q has no chosen approach", key)
	}
	a, ok := cat.GetApproach(node.BestApproach)
	if !ok {
		return nil, 0, fmt.Errorf("planner: dangling approach reference %q", node.BestApproach)
	}

	switch a.Kind {
	case catalogue.ExtendApproach:
		plan, tail, err := emitFromNode(cat, a.From, mode)
		if err != nil {
			return nil, 0, err
		}
		tail = appendExtendStep(plan, tail, a.Step.Edges, a.Step.TargetVertexLabel, mode)

		sourceNode, ok := cat.GetNode(a.From)
		if !ok {
			return nil, 0, fmt.Errorf("planner: dangling source reference %q", a.From)
		}
		newVertex, ok := newVertexOf(sourceNode.Pattern, node.Pattern)
		if ok {
			pred, _ := node.Pattern.GetVertexPredicate(newVertex.ID)
			tail = appendExtendTargetTail(plan, tail, newVertex.Label, newVertex.ID, pred)
		}
		return plan, tail, nil

	case catalogue.BinaryJoinApproach:
		leftPlan, leftTail, err := emitFromNode(cat, a.From, mode)
		if err != nil {
			return nil, 0, err
		}
		rightPlan, rightTail, err := emitFromNode(cat, a.ProbeCode, mode)
		if err != nil {
			return nil, 0, err
		}
		plan, joinIdx := spliceJoin(leftPlan, leftTail, rightPlan, rightTail, a.JoinKeys)
		return plan, joinIdx, nil
	}
	return nil, 0, fmt.Errorf("planner: unknown approach kind")
}

// spliceJoin concatenates rightPlan after leftPlan, shifting every
// right-hand node index (including Intersect parent lists) by the left
// plan's length, then appends a Join node fed by both plans' terminal
// nodes (spec §4.8's "shift by a known base" invariant).
func spliceJoin(leftPlan *dag.Plan, leftTail int, rightPlan *dag.Plan, rightTail int, joinKeys []int) (*dag.Plan, int) {
	base := len(leftPlan.Nodes)
	merged := append([]dag.Node{}, leftPlan.Nodes...)
	for _, n := range rightPlan.Nodes {
		merged = append(merged, dag.Shift(n, base))
	}
	plan := &dag.Plan{Nodes: merged}

	joinIdx := plan.Append(dag.Node{Op: dag.OpJoin, Payload: dag.Join{LeftKeys: joinKeys, RightKeys: joinKeys}})
	plan.Nodes[leftTail].Children = append(plan.Nodes[leftTail].Children, joinIdx)
	shiftedRightTail := rightTail + base
	plan.Nodes[shiftedRightTail].Children = append(plan.Nodes[shiftedRightTail].Children, joinIdx)
	return plan, joinIdx
}

// appendExtendStep appends the nodes for one extend step (one or more
// incident edges attaching a new target vertex) downstream of tail, and
// returns the index of the step's terminal node: in Standalone mode with
// arity > 1 a single fused ExpandAndIntersect node, otherwise one
// EdgeExpand per edge funneled into an Intersect when arity > 1.
func appendExtendStep(plan *dag.Plan, tail int, edges []extend.Edge, targetLabel int, mode Mode) int {
	if mode == Standalone && len(edges) > 1 {
		dagEdges := make([]dag.EdgeExpand, len(edges))
		for i, e := range edges {
			dagEdges[i] = dag.EdgeExpand{EdgeLabel: e.EdgeLabel, Direction: dag.Direction(e.Direction), TargetVertexLabel: targetLabel}
		}
		idx := plan.Append(dag.Node{Op: dag.OpExpandAndIntersect, Payload: dag.ExpandAndIntersect{Edges: dagEdges, TargetVertexLabel: targetLabel}})
		plan.Nodes[tail].Children = append(plan.Nodes[tail].Children, idx)
		return idx
	}

	expandIdxs := make([]int, 0, len(edges))
	for _, e := range edges {
		idx := plan.Append(dag.Node{Op: dag.OpEdgeExpand, Payload: dag.EdgeExpand{EdgeLabel: e.EdgeLabel, Direction: dag.Direction(e.Direction), TargetVertexLabel: targetLabel}})
		plan.Nodes[tail].Children = append(plan.Nodes[tail].Children, idx)
		expandIdxs = append(expandIdxs, idx)
	}
	if len(expandIdxs) == 1 {
		return expandIdxs[0]
	}

	interIdx := plan.Append(dag.Node{Op: dag.OpIntersect, Payload: dag.Intersect{Parents: expandIdxs}})
	for _, idx := range expandIdxs {
		plan.Nodes[idx].Children = []int{interIdx}
	}
	return interIdx
}

// newVertexOf returns the one vertex present in extended but absent from
// source: the vertex an Extend approach just introduced. Extend assigns
// it a fresh id past every existing vertex id, so exactly one such
// vertex exists whenever extended was reached from source by extension.
func newVertexOf(source, extended *pattern.Pattern) (pattern.Vertex, bool) {
	have := make(map[int]bool, source.VerticesNum())
	for _, v := range source.VerticesIter() {
		have[v.ID] = true
	}
	for _, v := range extended.VerticesIter() {
		if !have[v.ID] {
			return v, true
		}
	}
	return pattern.Vertex{}, false
}

// appendVertexTag appends the As node that tags the vertex an extend
// step just introduced (or, for a size-1
// pattern, the entry vertex itself), followed by a predicate-filter
// Select when pred is non-nil (spec §4.8). The source vertex's Select is
// never emitted by this path in pure-extend mode: it only runs after an
// extend step or for the bottom-of-recursion Scan, whose own label
// filter already subsumes what a Select would add, so only the As and
// any predicate filter are appended there.
func appendVertexTag(plan *dag.Plan, tail, tag int, pred pattern.Predicate) int {
	asIdx := plan.Append(dag.Node{Op: dag.OpAs, Payload: dag.As{Tag: tag}})
	plan.Nodes[tail].Children = append(plan.Nodes[tail].Children, asIdx)
	tail = asIdx

	if pred != nil {
		predIdx := plan.Append(dag.Node{Op: dag.OpSelect, Payload: dag.Select{Predicate: pred}})
		plan.Nodes[tail].Children = append(plan.Nodes[tail].Children, predIdx)
		tail = predIdx
	}
	return tail
}

// appendExtendTargetTail appends the label-disambiguation Select
// followed by appendVertexTag's As/predicate-filter sequence, for the
// vertex an extend step just introduced (spec §4.8: "a Select on
// target-vertex label when needed for disambiguation ... followed by
// any target-vertex predicate filter"). Unlike the bottom-of-recursion
// Scan, an extend step's target vertex was never independently filtered
// by label, so its Select is always emitted here.
func appendExtendTargetTail(plan *dag.Plan, tail, targetLabel, tag int, pred pattern.Predicate) int {
	selIdx := plan.Append(dag.Node{Op: dag.OpSelect, Payload: dag.Select{TargetLabel: targetLabel}})
	plan.Nodes[tail].Children = append(plan.Nodes[tail].Children, selIdx)
	return appendVertexTag(plan, selIdx, tag, pred)
}

// heuristicRank is the tuple compared lexicographically ascending to
// pick the next vertex to remove: fewer predicates and lower degree sort
// first, so predicated, high-degree vertices are removed last, i.e.
// executed first (spec §4.8).
type heuristicRank struct {
	hasPredicate       int
	incidentPredicates int
	degree             int
	outDegree          int
}

func (k heuristicRank) less(o heuristicRank) bool {
	if k.hasPredicate != o.hasPredicate {
		return k.hasPredicate < o.hasPredicate
	}
	if k.incidentPredicates != o.incidentPredicates {
		return k.incidentPredicates < o.incidentPredicates
	}
	if k.degree != o.degree {
		return k.degree < o.degree
	}
	return k.outDegree < o.outDegree
}

func computeHeuristicRank(p *pattern.Pattern, id int) heuristicRank {
	hasPred := 0
	if _, ok := p.GetVertexPredicate(id); ok {
		hasPred = 1
	}
	incident := 0
	for _, a := range p.AdjacenciesIter(id) {
		if _, ok := p.GetEdgePredicate(a.EdgeID); ok {
			incident++
		}
	}
	return heuristicRank{
		hasPredicate:       hasPred,
		incidentPredicates: incident,
		degree:             p.GetVertexDegree(id),
		outDegree:          p.GetVertexOutDegree(id),
	}
}

// definiteStepFor captures vertexID's incident edges as a DefiniteStep,
// from the perspective of vertexID being the newly-introduced vertex
// once the sequence is later replayed in reverse.
func definiteStepFor(working *pattern.Pattern, vertexID int) (*extend.DefiniteStep, error) {
	v, ok := working.GetVertex(vertexID)
	if !ok {
		return nil, fmt.Errorf("planner: vertex %d vanished mid-removal", vertexID)
	}
	adjs := working.AdjacenciesIter(vertexID)
	edges := make([]extend.DefiniteEdge, 0, len(adjs))
	for _, a := range adjs {
		// a is seen from vertexID; a DefiniteEdge is seen from its source.
		dir := extend.In
		if a.Direction == extend.In {
			dir = extend.Out
		}
		edges = append(edges, extend.DefiniteEdge{
			EdgeID: a.EdgeID, EdgeLabel: a.EdgeLabel,
			SrcVertexID: a.AdjVertexID, Direction: dir,
		})
	}
	return &extend.DefiniteStep{TargetVertexID: vertexID, TargetVertexLabel: v.Label, Edges: edges}, nil
}

// heuristicPlan repeatedly removes the cheapest-ranked vertex from a
// working copy of target, recording a DefiniteStep each time, until one
// vertex remains (the entry point); it then emits a Scan for the entry
// and replays the recorded steps in reverse (spec §4.8).
func heuristicPlan(target *pattern.Pattern, mode Mode) (*dag.Plan, error) {
	working := target
	var steps []*extend.DefiniteStep

	for working.VerticesNum() > 1 {
		vs := working.VerticesIter()
		best := vs[0]
		bestRank := computeHeuristicRank(working, best.ID)
		for _, v := range vs[1:] {
			rank := computeHeuristicRank(working, v.ID)
			if rank.less(bestRank) {
				best, bestRank = v, rank
			}
		}

		step, err := definiteStepFor(working, best.ID)
		if err != nil {
			return nil, err
		}
		steps = append(steps, step)

		next, ok := working.RemoveVertex(best.ID)
		if !ok {
			return nil, fmt.Errorf("planner: heuristic removal of vertex %d disconnected the pattern", best.ID)
		}
		working = next
	}

	entry := working.VerticesIter()[0]
	plan := &dag.Plan{}
	tail := plan.Append(dag.Node{Op: dag.OpScan, Payload: dag.Scan{Labels: []int{entry.Label}}})
	entryPred, _ := target.GetVertexPredicate(entry.ID)
	tail = appendVertexTag(plan, tail, entry.ID, entryPred)

	for i := len(steps) - 1; i >= 0; i-- {
		step := steps[i]
		edges := make([]extend.Edge, len(step.Edges))
		for j, de := range step.Edges {
			edges[j] = extend.Edge{EdgeLabel: de.EdgeLabel, Direction: de.Direction}
		}
		tail = appendExtendStep(plan, tail, edges, step.TargetVertexLabel, mode)

		pred, _ := target.GetVertexPredicate(step.TargetVertexID)
		tail = appendExtendTargetTail(plan, tail, step.TargetVertexLabel, step.TargetVertexID, pred)
	}
	return plan, nil
}
