// Package dag is the operator DAG abstract intermediate representation
// (spec §4.8, §6): a flat list of nodes rooted at index 0, each naming
// its operator and its children's indices. The generator in pkg/planner
// builds these; semantics are owned by the downstream execution engine,
// an external collaborator this package never calls into.
package dag

// OpKind names one of the nine physical operators the planner emits.
type OpKind string

const (
	OpScan              OpKind = "Scan"
	OpSelect            OpKind = "Select"
	OpAs                OpKind = "As"
	OpEdgeExpand        OpKind = "EdgeExpand"
	OpExpandAndIntersect OpKind = "ExpandAndIntersect"
	OpIntersect         OpKind = "Intersect"
	OpJoin              OpKind = "Join"
	OpGroupBy           OpKind = "GroupBy"
	OpSink              OpKind = "Sink"
)

// Direction mirrors extend.Direction, duplicated here (rather than
// imported) so dag stays a leaf package with no planner-core dependency
// — operator payloads are plain data, not pattern-aware structures.
type Direction int

const (
	Out Direction = iota
	In
)

// Scan starts execution by scanning the data graph for every vertex
// whose label is in Labels.
type Scan struct {
	Labels []int
}

// Select filters the current binding. TargetLabel filters on a vertex's
// label when the preceding step's label alone doesn't disambiguate it;
// Predicate, when non-nil, carries an opaque per-element filter pulled
// from the pattern (pkg/pattern.Predicate, kept as interface{} here so
// dag stays independent of pkg/pattern). The two conditions are never
// both needed by the same node: a label-disambiguation Select carries
// TargetLabel and a zero Predicate, a predicate-filter Select carries
// Predicate and a zero TargetLabel.
type Select struct {
	TargetLabel int
	Predicate   interface{}
}

// As binds the current element to a named tag (alias) for later
// reference by Join or the executor.
type As struct {
	Tag int
}

// EdgeExpand walks one edge label/direction from the current binding.
type EdgeExpand struct {
	EdgeLabel         int
	Direction         Direction
	TargetVertexLabel int
}

// ExpandAndIntersect is the stand-alone-mode fusion of one or more
// EdgeExpand steps immediately followed by their Intersect, avoiding a
// separate node per edge when nothing downstream needs to observe the
// intermediate expansions.
type ExpandAndIntersect struct {
	Edges             []EdgeExpand
	TargetVertexLabel int
}

// Intersect merges the bindings produced by Parents (a list of node
// indices, each an EdgeExpand) into one binding set.
type Intersect struct {
	Parents []int
}

// Join combines two independently-generated subplans on shared tag ids.
type Join struct {
	LeftKeys  []int
	RightKeys []int
}

// GroupBy aggregates bindings; Keys is empty for a bare count.
type GroupBy struct {
	Keys []int
}

// Sink terminates the plan, the last node.
type Sink struct{}

// Node is one operator in the DAG: its kind, its typed payload, and the
// indices of its downstream children.
type Node struct {
	Op       OpKind
	Payload  interface{}
	Children []int
}

// Plan is a flat, index-addressed operator DAG rooted at Nodes[0].
type Plan struct {
	Nodes []Node
}

// Append adds a node and returns its index.
func (p *Plan) Append(n Node) int {
	p.Nodes = append(p.Nodes, n)
	return len(p.Nodes) - 1
}

// Len is the number of nodes currently in the plan.
func (p *Plan) Len() int { return len(p.Nodes) }

// Shift returns a copy of n with every child index and, for an
// Intersect payload, every parent index increased by base — used when
// splicing a probe subplan after a build subplan at a Join (spec §4.8's
// "shift by a known base" invariant).
func Shift(n Node, base int) Node {
	shifted := n
	shifted.Children = make([]int, len(n.Children))
	for i, c := range n.Children {
		shifted.Children[i] = c + base
	}
	if in, ok := n.Payload.(Intersect); ok {
		parents := make([]int, len(in.Parents))
		for i, p := range in.Parents {
			parents[i] = p + base
		}
		shifted.Payload = Intersect{Parents: parents}
	}
	return shifted
}
