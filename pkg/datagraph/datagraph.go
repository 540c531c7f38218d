// Package datagraph is the read-only labeled data graph the sampler
// executes partial pattern matches over: vertex-label scans for
// entry-level records, and per-(edge-label, direction) neighbor lookups
// for ExtendEdge intersection (spec §4.6).
//
// Adapted from the teacher's algorithms/common/graph.go loader — same
// space-separated, "#"-comment edge-list convention — extended with a
// parallel vertex-label file and per-edge labels, since a property graph
// needs both where the teacher's plain algorithm graphs needed neither.
package datagraph

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/mundrapranay/patternplan/pkg/extend"
)

// VertexID identifies a vertex in the data graph (distinct from a
// pattern-vertex id: a PatternRecord maps one to the other).
type VertexID int

// EdgeRecord is one labeled, directed edge as loaded from an edge file.
type EdgeRecord struct {
	From  VertexID
	To    VertexID
	Label int
}

// DataGraph is an immutable, read-only adjacency index. Once built it is
// safe for concurrent read access by sampler workers (spec §5: "the data
// graph is accessed read-only").
type DataGraph struct {
	vertexLabel map[VertexID]int
	labelIndex  map[int][]VertexID
	outAdj      map[int]map[VertexID][]VertexID // edgeLabel -> src -> dsts
	inAdj       map[int]map[VertexID][]VertexID // edgeLabel -> dst -> srcs
}

// New builds a DataGraph from vertex labels and a flat edge list.
func New(vertexLabels map[VertexID]int, edges []EdgeRecord) *DataGraph {
	g := &DataGraph{
		vertexLabel: vertexLabels,
		labelIndex:  make(map[int][]VertexID),
		outAdj:      make(map[int]map[VertexID][]VertexID),
		inAdj:       make(map[int]map[VertexID][]VertexID),
	}
	for v, l := range vertexLabels {
		g.labelIndex[l] = append(g.labelIndex[l], v)
	}
	for _, e := range edges {
		if g.outAdj[e.Label] == nil {
			g.outAdj[e.Label] = make(map[VertexID][]VertexID)
		}
		if g.inAdj[e.Label] == nil {
			g.inAdj[e.Label] = make(map[VertexID][]VertexID)
		}
		g.outAdj[e.Label][e.From] = append(g.outAdj[e.Label][e.From], e.To)
		g.inAdj[e.Label][e.To] = append(g.inAdj[e.Label][e.To], e.From)
	}
	return g
}

// VertexLabel returns v's label.
func (g *DataGraph) VertexLabel(v VertexID) (int, bool) {
	l, ok := g.vertexLabel[v]
	return l, ok
}

// VerticesWithLabel returns every vertex carrying label l — the entry
// points for a single-vertex pattern scan.
func (g *DataGraph) VerticesWithLabel(l int) []VertexID {
	return g.labelIndex[l]
}

// Neighbors returns v's neighbors reachable by one edge of label
// edgeLabel in direction dir.
func (g *DataGraph) Neighbors(v VertexID, edgeLabel int, dir extend.Direction) []VertexID {
	var index map[int]map[VertexID][]VertexID
	if dir == extend.Out {
		index = g.outAdj
	} else {
		index = g.inAdj
	}
	byVertex, ok := index[edgeLabel]
	if !ok {
		return nil
	}
	return byVertex[v]
}

// VertexCount is the number of distinct labeled vertices.
func (g *DataGraph) VertexCount() int { return len(g.vertexLabel) }

// LoadFile loads a vertex-label file ("vertex_id label" per line) and an
// edge-list file ("src dst edge_label" per line), both space-separated
// with "#" comment lines, mirroring the teacher's loadEdgeListFromFile.
func LoadFile(vertexPath, edgePath string) (*DataGraph, error) {
	vertexLabels, err := loadVertexLabels(vertexPath)
	if err != nil {
		return nil, fmt.Errorf("datagraph: loading vertex labels: %w", err)
	}
	edges, err := loadEdges(edgePath)
	if err != nil {
		return nil, fmt.Errorf("datagraph: loading edges: %w", err)
	}
	return New(vertexLabels, edges), nil
}

func newReader(f *os.File) *csv.Reader {
	r := csv.NewReader(f)
	r.Comma = ' '
	r.Comment = '#'
	r.FieldsPerRecord = -1
	return r
}

func loadVertexLabels(path string) (map[VertexID]int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening vertex label file: %w", err)
	}
	defer f.Close()

	reader := newReader(f)
	out := make(map[VertexID]int)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading vertex label file: %w", err)
		}
		if len(record) == 0 || record[0] == "" {
			continue
		}
		if len(record) < 2 {
			return nil, fmt.Errorf("invalid vertex label record: need 2 values (id label), got: %v", record)
		}
		id, err := strconv.Atoi(record[0])
		if err != nil {
			return nil, fmt.Errorf("invalid vertex id: %s", record[0])
		}
		label, err := strconv.Atoi(record[1])
		if err != nil {
			return nil, fmt.Errorf("invalid vertex label: %s", record[1])
		}
		out[VertexID(id)] = label
	}
	return out, nil
}

func loadEdges(path string) ([]EdgeRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening edge file: %w", err)
	}
	defer f.Close()

	reader := newReader(f)
	var out []EdgeRecord
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading edge file: %w", err)
		}
		if len(record) == 0 || record[0] == "" {
			continue
		}
		if len(record) < 3 {
			return nil, fmt.Errorf("invalid edge record: need 3 values (src dst edge_label), got: %v", record)
		}
		from, err := strconv.Atoi(record[0])
		if err != nil {
			return nil, fmt.Errorf("invalid src vertex id: %s", record[0])
		}
		to, err := strconv.Atoi(record[1])
		if err != nil {
			return nil, fmt.Errorf("invalid dst vertex id: %s", record[1])
		}
		label, err := strconv.Atoi(record[2])
		if err != nil {
			return nil, fmt.Errorf("invalid edge label: %s", record[2])
		}
		out = append(out, EdgeRecord{From: VertexID(from), To: VertexID(to), Label: label})
	}
	return out, nil
}
