// Package codec implements the canonical byte-string encoding of a
// ranked Pattern (spec §4.3): encode_to(p1) == encode_to(p2) iff p1 and
// p2 are isomorphic, given identical label domains. It operates on
// pkg/pattern's exported rank/label accessors rather than pattern
// depending on codec, keeping the dependency one-directional.
package codec

import (
	"encoding/binary"

	"github.com/mundrapranay/patternplan/pkg/pattern"
)

const (
	tagSingleVertex byte = 0
	tagMultiEdge    byte = 1
)

// Encode produces p's canonical byte string. p must already be
// canonicalized (every vertex/edge carries a rank) — callers get this
// for free since every pattern constructor and mutator ends with
// Canonicalize.
func Encode(p *pattern.Pattern) []byte {
	if p.VerticesNum() == 1 && p.EdgesNum() == 0 {
		v := p.VerticesIter()[0]
		labelWidth := widthFor(uint64(v.Label))
		out := make([]byte, 0, 2+labelWidth)
		out = append(out, tagSingleVertex, labelWidth)
		out = appendWidth(out, uint64(v.Label), labelWidth)
		return out
	}

	labelWidth, rankWidth := byte(1), byte(1)
	for _, v := range p.VerticesIter() {
		labelWidth = maxWidth(labelWidth, widthFor(uint64(v.Label)))
	}
	for _, e := range p.EdgesIter() {
		labelWidth = maxWidth(labelWidth, widthFor(uint64(e.Label)))
	}
	if n, ok := p.MaxVertexLabel(); ok {
		labelWidth = maxWidth(labelWidth, widthFor(uint64(n)))
	}
	rankWidth = maxWidth(rankWidth, widthFor(uint64(p.VerticesNum())))
	rankWidth = maxWidth(rankWidth, widthFor(uint64(p.EdgesNum())))

	out := []byte{tagMultiEdge, labelWidth, rankWidth}

	for rank := 0; rank < p.EdgesNum(); rank++ {
		e, ok := p.GetEdgeFromRank(rank)
		if !ok {
			continue
		}
		start, _ := p.GetVertex(e.Start)
		end, _ := p.GetVertex(e.End)
		startRank, _ := p.GetVertexRank(e.Start)
		endRank, _ := p.GetVertexRank(e.End)
		edgeRank, _ := p.GetEdgeRank(e.ID)

		out = appendWidth(out, uint64(e.Label), labelWidth)
		out = appendWidth(out, uint64(start.Label), labelWidth)
		out = appendWidth(out, uint64(startRank), rankWidth)
		out = appendWidth(out, uint64(end.Label), labelWidth)
		out = appendWidth(out, uint64(endRank), rankWidth)
		out = appendWidth(out, uint64(edgeRank), rankWidth)
	}
	return out
}

// Decode reverses Encode, reconstructing a pattern isomorphic to the
// original (vertex/edge identities are assigned equal to their rank,
// since rank is the only identity the encoding preserves). Returns false
// on malformed input.
func Decode(data []byte) (*pattern.Pattern, bool) {
	if len(data) < 2 {
		return nil, false
	}
	switch data[0] {
	case tagSingleVertex:
		labelWidth := int(data[1])
		if len(data) != 2+labelWidth {
			return nil, false
		}
		label := readWidth(data[2:2+labelWidth], labelWidth)
		return pattern.FromSingleVertex(0, int(label)), true

	case tagMultiEdge:
		if len(data) < 3 {
			return nil, false
		}
		labelWidth, rankWidth := int(data[1]), int(data[2])
		recordSize := 3*labelWidth + 3*rankWidth
		body := data[3:]
		if recordSize == 0 || len(body)%recordSize != 0 {
			return nil, false
		}

		var specs []pattern.EdgeSpec
		for off := 0; off < len(body); off += recordSize {
			rec := body[off : off+recordSize]
			i := 0
			edgeLabel := readWidth(rec[i:i+labelWidth], labelWidth)
			i += labelWidth
			startLabel := readWidth(rec[i:i+labelWidth], labelWidth)
			i += labelWidth
			startRank := readWidth(rec[i:i+rankWidth], rankWidth)
			i += rankWidth
			endLabel := readWidth(rec[i:i+labelWidth], labelWidth)
			i += labelWidth
			endRank := readWidth(rec[i:i+rankWidth], rankWidth)
			i += rankWidth
			edgeRank := readWidth(rec[i:i+rankWidth], rankWidth)

			specs = append(specs, pattern.EdgeSpec{
				EdgeID:     int(edgeRank),
				EdgeLabel:  int(edgeLabel),
				StartID:    int(startRank),
				StartLabel: int(startLabel),
				EndID:      int(endRank),
				EndLabel:   int(endLabel),
			})
		}
		// Vertex identity in the wire format is the vertex's rank: two
		// records referencing the same rank refer to the same vertex,
		// which is exactly the identification FromEdges performs on
		// matching StartID/EndID values.
		p, err := pattern.FromEdges(specs)
		if err != nil {
			return nil, false
		}
		return p, true

	default:
		return nil, false
	}
}

func widthFor(v uint64) byte {
	w := byte(1)
	for v > (uint64(1)<<(8*w))-1 {
		w++
		if w >= 8 {
			break
		}
	}
	return w
}

func maxWidth(a, b byte) byte {
	if a > b {
		return a
	}
	return b
}

func appendWidth(out []byte, v uint64, width byte) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, v)
	return append(out, buf[8-int(width):]...)
}

func readWidth(b []byte, width int) uint64 {
	buf := make([]byte, 8)
	copy(buf[8-width:], b)
	return binary.BigEndian.Uint64(buf)
}
