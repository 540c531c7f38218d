// Package catalogue is the directed search graph of canonical
// sub-patterns (spec §4.5): nodes are patterns keyed by their codec
// byte string, arcs are Extend or BinaryJoin derivations, annotated
// with cardinality estimates and a memoized best-derivation choice.
//
// The underlying topology is github.com/katalvlaran/lvlath's
// core.Graph: lvlath vertex ids are the pattern's hex-encoded codec key,
// lvlath edges are approaches. lvlath's Vertex/Edge carry only loosely
// typed payload slots (Metadata map / integer Weight), so a parallel
// typed side table (nodes/approaches below) holds the catalogue's actual
// per-node and per-arc data; the lvlath graph remains the structural
// source of truth for which nodes and arcs exist; the side tables are
// authoritative for their content.
package catalogue

import (
	"encoding/hex"
	"fmt"
	"sort"

	"github.com/katalvlaran/lvlath/core"

	"github.com/mundrapranay/patternplan/pkg/codec"
	"github.com/mundrapranay/patternplan/pkg/cost"
	"github.com/mundrapranay/patternplan/pkg/extend"
	"github.com/mundrapranay/patternplan/pkg/pattern"
	"github.com/mundrapranay/patternplan/pkg/schema"
)

// PlanSpace restricts which approach kinds the search may consider
// (spec §4.5).
type PlanSpace int

const (
	ExtendWithIntersection PlanSpace = iota
	BinaryJoin
	Hybrid
)

// ApproachKind distinguishes the two derivation shapes an arc can carry.
type ApproachKind int

const (
	ExtendApproach ApproachKind = iota
	BinaryJoinApproach
)

// Approach is one arc of the catalogue: a derivation from a source
// pattern to a target pattern.
type Approach struct {
	ID   string // the backing lvlath edge id, stable for SetApproachEstimates/SetPatternBestApproach
	Kind ApproachKind
	From string // source node's codec key
	To   string // target node's codec key

	// Extend fields
	Step           *extend.Step
	Arity          int
	AdjacencyEst   float64
	IntersectEst   float64

	// BinaryJoin fields
	ProbeCode string // the probe sub-pattern's codec key
	JoinKeys  []int
}

// Node is one catalogue entry: a canonical pattern, its estimated
// cardinality, and its memoized best approach (if chosen).
type Node struct {
	Pattern      *pattern.Pattern
	Count        float64
	BestApproach string // lvlath edge id of the memoized best in-approach, "" if unset or size-1
}

// Catalogue owns the lvlath graph plus the typed node/approach payload.
type Catalogue struct {
	g          *core.Graph
	nodes      map[string]*Node     // codec key -> Node
	approaches map[string]*Approach // lvlath edge id -> Approach
	schema     schema.Schema
	PlanSpace  PlanSpace
}

func codeKey(p *pattern.Pattern) string {
	return hex.EncodeToString(codec.Encode(p))
}

// New creates an empty catalogue over the given schema.
func New(s schema.Schema) *Catalogue {
	return &Catalogue{
		g:          core.NewGraph(core.WithDirected(true), core.WithMultiEdges()),
		nodes:      make(map[string]*Node),
		approaches: make(map[string]*Approach),
		schema:     s,
		PlanSpace:  Hybrid,
	}
}

// GetPatternIndex returns the node key for a pattern's codec encoding.
func (c *Catalogue) GetPatternIndex(p *pattern.Pattern) (string, bool) {
	key := codeKey(p)
	_, ok := c.nodes[key]
	return key, ok
}

func (c *Catalogue) ensureNode(p *pattern.Pattern) string {
	key := codeKey(p)
	if _, exists := c.nodes[key]; !exists {
		c.nodes[key] = &Node{Pattern: p}
		_ = c.g.AddVertex(key)
	}
	return key
}

func (c *Catalogue) addApproach(a Approach) {
	edgeID, err := c.g.AddEdge(a.From, a.To, 0)
	if err != nil {
		return
	}
	approach := a
	approach.ID = edgeID
	c.approaches[edgeID] = &approach
}

// BuildFromPattern seeds a catalogue containing p, its single-vertex
// entries, and a closure under "remove one vertex" plus every ExtendStep
// that links adjacent sizes (spec §4.5). sameLabelLimit bounds extend
// enumeration (spec §4.4).
func BuildFromPattern(p *pattern.Pattern, s schema.Schema, sameLabelLimit int) *Catalogue {
	c := New(s)
	c.close(p, sameLabelLimit)
	return c
}

// close performs the BFS closure: visits p, registers it, explores its
// remove-vertex predecessors and add-by-extend successors, and registers
// every connected BinaryJoin split of p (spec §4.1) as a join arc into p,
// queuing the two halves for their own closure, until no new pattern is
// discovered.
func (c *Catalogue) close(p *pattern.Pattern, sameLabelLimit int) {
	visited := make(map[string]bool)
	queue := []*pattern.Pattern{p}
	c.ensureNode(p)

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		curKey := codeKey(cur)
		if visited[curKey] {
			continue
		}
		visited[curKey] = true

		if cur.VerticesNum() == 1 {
			continue
		}

		for _, jp := range cur.BinaryJoinDecomposition() {
			buildKey := c.ensureNode(jp.Build)
			probeKey := c.ensureNode(jp.Probe)
			c.AddJoinApproach(buildKey, curKey, probeKey, jp.JoinKeys)

			if !visited[buildKey] {
				queue = append(queue, jp.Build)
			}
			if !visited[probeKey] {
				queue = append(queue, jp.Probe)
			}
		}

		for _, v := range cur.VerticesIter() {
			smaller, ok := cur.RemoveVertex(v.ID)
			if !ok {
				continue
			}
			smallerKey := c.ensureNode(smaller)

			for _, step := range smaller.GetExtendSteps(c.schema, sameLabelLimit) {
				extended, ok := smaller.Extend(step)
				if !ok || codeKey(extended) != curKey {
					continue
				}
				arity := len(step.Edges)
				c.addApproach(Approach{
					Kind: ExtendApproach, From: smallerKey, To: curKey,
					Step: step, Arity: arity,
				})
			}

			if !visited[smallerKey] {
				queue = append(queue, smaller)
			}
		}
	}
}

// PatternInApproachesIter returns every approach whose target is node.
func (c *Catalogue) PatternInApproachesIter(node string) []*Approach {
	var out []*Approach
	for _, a := range c.sortedApproachIDs() {
		if c.approaches[a].To == node {
			out = append(out, c.approaches[a])
		}
	}
	return out
}

// PatternOutApproachesIter returns every approach whose source is node.
func (c *Catalogue) PatternOutApproachesIter(node string) []*Approach {
	var out []*Approach
	for _, a := range c.sortedApproachIDs() {
		if c.approaches[a].From == node {
			out = append(out, c.approaches[a])
		}
	}
	return out
}

func (c *Catalogue) sortedApproachIDs() []string {
	ids := make([]string, 0, len(c.approaches))
	for id := range c.approaches {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// GetNode returns a node's payload by key.
func (c *Catalogue) GetNode(key string) (*Node, bool) {
	n, ok := c.nodes[key]
	return n, ok
}

// SetPatternCount records a node's estimated cardinality.
func (c *Catalogue) SetPatternCount(key string, count float64) {
	if n, ok := c.nodes[key]; ok {
		n.Count = count
	}
}

// GetPatternWeight returns a node's recorded cardinality.
func (c *Catalogue) GetPatternWeight(key string) (float64, bool) {
	n, ok := c.nodes[key]
	if !ok {
		return 0, false
	}
	return n.Count, true
}

// SetPatternBestApproach memoizes the winning in-approach (by lvlath
// edge id) on a node.
func (c *Catalogue) SetPatternBestApproach(key, approachEdgeID string) {
	if n, ok := c.nodes[key]; ok {
		n.BestApproach = approachEdgeID
	}
}

// AddJoinApproach registers a BinaryJoin arc from build to the target
// pattern's codec key, probe referenced by its own codec key.
func (c *Catalogue) AddJoinApproach(buildKey, targetKey, probeKey string, joinKeys []int) {
	c.addApproach(Approach{
		Kind: BinaryJoinApproach, From: buildKey, To: targetKey,
		ProbeCode: probeKey, JoinKeys: joinKeys,
	})
}

// SetBestApproachByPattern recursively chooses the minimum-cost approach
// for p's node and every ancestor it depends on, memoizing the winner
// (spec §4.7). Returns the chosen cost, or an error if p is not in the
// catalogue.
func (c *Catalogue) SetBestApproachByPattern(p *pattern.Pattern) (cost.Count, error) {
	key, ok := c.GetPatternIndex(p)
	if !ok {
		return cost.Count{}, fmt.Errorf("catalogue: pattern not present")
	}
	return c.bestCost(key)
}

func (c *Catalogue) bestCost(key string) (cost.Count, error) {
	node, ok := c.nodes[key]
	if !ok {
		return cost.Count{}, fmt.Errorf("catalogue: unknown node %q", key)
	}

	if node.Pattern.VerticesNum() == 1 {
		return cost.SourceCost(node.Count), nil
	}

	if node.BestApproach != "" {
		return c.costOfApproach(node.BestApproach)
	}

	best := cost.MaxValue()
	bestScalar := -1.0
	bestEdgeID := ""

	for _, id := range c.sortedApproachIDs() {
		a := c.approaches[id]
		if a.To != key {
			continue
		}
		if !c.allowedByPlanSpace(a) {
			continue
		}
		stepCost, err := c.approachStepCost(a)
		if err != nil {
			continue
		}
		scalar := cost.GlobalTunables().Scalar(stepCost)
		if bestScalar < 0 || scalar < bestScalar {
			best, bestScalar, bestEdgeID = stepCost, scalar, id
		}
	}

	if bestEdgeID == "" {
		return cost.Count{}, fmt.Errorf("catalogue: no derivation found for %q", key)
	}
	c.SetPatternBestApproach(key, bestEdgeID)
	return best, nil
}

func (c *Catalogue) allowedByPlanSpace(a *Approach) bool {
	switch c.PlanSpace {
	case ExtendWithIntersection:
		return a.Kind == ExtendApproach
	case BinaryJoin:
		return a.Kind == BinaryJoinApproach
	default:
		return true
	}
}

// approachStepCost computes the full cost of reaching a.To by a (the
// recursive source cost plus this derivation's own cost).
func (c *Catalogue) approachStepCost(a *Approach) (cost.Count, error) {
	targetNode := c.nodes[a.To]

	switch a.Kind {
	case ExtendApproach:
		subCost, err := c.bestCost(a.From)
		if err != nil {
			return cost.Count{}, err
		}
		subNode := c.nodes[a.From]
		step := cost.ExtendCost(subNode.Count, targetNode.Count, a.Arity, a.AdjacencyEst, a.IntersectEst)
		return subCost.Add(step), nil

	case BinaryJoinApproach:
		buildCost, err := c.bestCost(a.From)
		if err != nil {
			return cost.Count{}, err
		}
		probeNode, ok := c.nodes[a.ProbeCode]
		if !ok {
			return cost.Count{}, fmt.Errorf("catalogue: missing probe node %q", a.ProbeCode)
		}
		probeCost, err := c.bestCost(a.ProbeCode)
		if err != nil {
			return cost.Count{}, err
		}
		step := cost.JoinCost(targetNode.Count, c.nodes[a.From].Count, probeNode.Count)
		return buildCost.Add(probeCost).Add(step), nil
	}
	return cost.Count{}, fmt.Errorf("catalogue: unknown approach kind")
}

func (c *Catalogue) costOfApproach(edgeID string) (cost.Count, error) {
	a, ok := c.approaches[edgeID]
	if !ok {
		return cost.Count{}, fmt.Errorf("catalogue: unknown approach %q", edgeID)
	}
	return c.approachStepCost(a)
}

// SetApproachEstimates records the adjacency/intersect estimates the
// sampler computed for an Extend arc, by edge id.
func (c *Catalogue) SetApproachEstimates(edgeID string, adjacencyEst, intersectEst float64) {
	if a, ok := c.approaches[edgeID]; ok {
		a.AdjacencyEst = adjacencyEst
		a.IntersectEst = intersectEst
	}
}

// GetApproach returns the approach backed by lvlath edge id.
func (c *Catalogue) GetApproach(id string) (*Approach, bool) {
	a, ok := c.approaches[id]
	return a, ok
}

// AllNodes returns every node key currently in the catalogue, sorted.
func (c *Catalogue) AllNodes() []string {
	out := make([]string, 0, len(c.nodes))
	for k := range c.nodes {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
