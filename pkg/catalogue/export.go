package catalogue

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/mundrapranay/patternplan/pkg/pattern"
)

// vertexDoc and edgeDoc are the persisted-catalogue JSON document's
// per-element shape (spec §6: "a JSON document listing pattern vertices
// and pattern edges with tag, src, dst and label fields, plus an
// optional count"), grounded on original_source's GCardPatternVertex/
// GCardPatternEdge/PatternWithCount (glogs/ir/core/src/catalogue/pattern.rs).
type vertexDoc struct {
	Tag   int `json:"tag"`
	Label int `json:"label"`
}

type edgeDoc struct {
	Tag   int `json:"tag"`
	Src   int `json:"src"`
	Dst   int `json:"dst"`
	Label int `json:"label"`
}

// PatternDocument is the JSON shape one catalogue entry round-trips
// through: a pattern's vertices and edges, plus an optional count.
type PatternDocument struct {
	Vertices []vertexDoc `json:"vertices"`
	Edges    []edgeDoc   `json:"edges"`
	Count    *float64    `json:"count,omitempty"`
}

// toDocument flattens p (and an optional count) into its JSON shape.
func toDocument(p *pattern.Pattern, count *float64) PatternDocument {
	doc := PatternDocument{Count: count}
	for _, v := range p.VerticesIter() {
		doc.Vertices = append(doc.Vertices, vertexDoc{Tag: v.ID, Label: v.Label})
	}
	for _, e := range p.EdgesIter() {
		doc.Edges = append(doc.Edges, edgeDoc{Tag: e.ID, Src: e.Start, Dst: e.End, Label: e.Label})
	}
	return doc
}

// toPattern reconstructs a Pattern from its JSON shape, mirroring
// original_source's TryFrom<PatternWithCount> for Pattern: edgeless
// documents must carry exactly one vertex.
func toPattern(doc PatternDocument) (*pattern.Pattern, error) {
	if len(doc.Edges) == 0 {
		if len(doc.Vertices) != 1 {
			return nil, fmt.Errorf("catalogue: pattern document without edges must have exactly one vertex, got %d", len(doc.Vertices))
		}
		v := doc.Vertices[0]
		return pattern.FromSingleVertex(v.Tag, v.Label), nil
	}

	labelOf := make(map[int]int, len(doc.Vertices))
	for _, v := range doc.Vertices {
		labelOf[v.Tag] = v.Label
	}
	specs := make([]pattern.EdgeSpec, 0, len(doc.Edges))
	for _, e := range doc.Edges {
		startLabel, ok := labelOf[e.Src]
		if !ok {
			return nil, fmt.Errorf("catalogue: pattern document references unknown start vertex %d", e.Src)
		}
		endLabel, ok := labelOf[e.Dst]
		if !ok {
			return nil, fmt.Errorf("catalogue: pattern document references unknown end vertex %d", e.Dst)
		}
		specs = append(specs, pattern.EdgeSpec{
			EdgeID: e.Tag, EdgeLabel: e.Label,
			StartID: e.Src, StartLabel: startLabel,
			EndID: e.Dst, EndLabel: endLabel,
		})
	}
	return pattern.FromEdges(specs)
}

// Export writes p, and its weight in c if recorded, to path as a
// PatternDocument.
func (c *Catalogue) Export(p *pattern.Pattern, path string) error {
	var count *float64
	if key, ok := c.GetPatternIndex(p); ok {
		if w, ok := c.GetPatternWeight(key); ok {
			count = &w
		}
	}

	data, err := json.MarshalIndent(toDocument(p, count), "", "  ")
	if err != nil {
		return fmt.Errorf("catalogue: failed to marshal pattern document: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// Import reads a PatternDocument from path and reconstructs its
// pattern and optional count.
func Import(path string) (*pattern.Pattern, *float64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("catalogue: failed to read pattern document: %w", err)
	}
	var doc PatternDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, nil, fmt.Errorf("catalogue: failed to parse pattern document: %w", err)
	}
	p, err := toPattern(doc)
	if err != nil {
		return nil, nil, err
	}
	return p, doc.Count, nil
}
