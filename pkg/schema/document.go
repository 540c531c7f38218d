package schema

import (
	"fmt"
	"os"
	"sort"

	"github.com/mundrapranay/patternplan/pkg/extend"
	"gopkg.in/yaml.v3"
)

// EdgeRule is one YAML-encoded entry for an edge label: its permitted
// (start_label, end_label) endpoint pairs.
type EdgeRule struct {
	EdgeLabel int `yaml:"edge_label"`
	Endpoints []struct {
		StartLabel int `yaml:"start_label"`
		EndLabel   int `yaml:"end_label"`
	} `yaml:"endpoints"`
}

// Document is the on-disk YAML representation of a Schema, styled after
// AlgorithmConfig's struct-tag conventions.
type Document struct {
	VertexLabelIDs []int      `yaml:"vertex_label_ids"`
	Edges          []EdgeRule `yaml:"edges"`
}

// Validate checks the document is internally consistent before Build.
func (d *Document) Validate() error {
	if len(d.VertexLabelIDs) == 0 {
		return fmt.Errorf("vertex_label_ids is required")
	}
	known := make(map[int]bool, len(d.VertexLabelIDs))
	for _, l := range d.VertexLabelIDs {
		known[l] = true
	}
	for _, e := range d.Edges {
		for _, ep := range e.Endpoints {
			if !known[ep.StartLabel] || !known[ep.EndLabel] {
				return fmt.Errorf("edge_label %d references an undeclared vertex label", e.EdgeLabel)
			}
		}
	}
	return nil
}

// LoadFile parses a schema YAML document from disk.
func LoadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("schema: reading %s: %w", path, err)
	}
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("schema: parsing %s: %w", path, err)
	}
	if err := doc.Validate(); err != nil {
		return nil, fmt.Errorf("schema: %s: %w", path, err)
	}
	return &doc, nil
}

// inMemory is the Schema built from a Document: every lookup precomputed
// into plain maps so planning never touches YAML structures.
type inMemory struct {
	vertexLabels  []int
	endpoints     map[int][]EdgeEndpoints
	adjacentEdges map[[2]int][]AdjacentEdge
}

// Build compiles a Document into a queryable Schema, deriving the reverse
// (vertex_label, vertex_label) -> (edge_label, direction) index from the
// forward edge_label -> endpoints table.
func (d *Document) Build() Schema {
	s := &inMemory{
		vertexLabels:  append([]int(nil), d.VertexLabelIDs...),
		endpoints:     make(map[int][]EdgeEndpoints),
		adjacentEdges: make(map[[2]int][]AdjacentEdge),
	}
	sort.Ints(s.vertexLabels)

	for _, rule := range d.Edges {
		for _, ep := range rule.Endpoints {
			pair := EdgeEndpoints{StartLabel: ep.StartLabel, EndLabel: ep.EndLabel}
			s.endpoints[rule.EdgeLabel] = append(s.endpoints[rule.EdgeLabel], pair)

			outKey := [2]int{ep.StartLabel, ep.EndLabel}
			s.adjacentEdges[outKey] = append(s.adjacentEdges[outKey], AdjacentEdge{
				EdgeLabel: rule.EdgeLabel, Direction: extend.Out,
			})
			inKey := [2]int{ep.EndLabel, ep.StartLabel}
			s.adjacentEdges[inKey] = append(s.adjacentEdges[inKey], AdjacentEdge{
				EdgeLabel: rule.EdgeLabel, Direction: extend.In,
			})
		}
	}
	return s
}

func (s *inMemory) VertexLabels() []int { return append([]int(nil), s.vertexLabels...) }

func (s *inMemory) EndpointsOf(edgeLabel int) []EdgeEndpoints {
	return append([]EdgeEndpoints(nil), s.endpoints[edgeLabel]...)
}

func (s *inMemory) AdjacentEdges(srcLabel, dstLabel int) []AdjacentEdge {
	return append([]AdjacentEdge(nil), s.adjacentEdges[[2]int{srcLabel, dstLabel}]...)
}
