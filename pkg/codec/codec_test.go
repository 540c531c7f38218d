package codec_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mundrapranay/patternplan/pkg/codec"
	"github.com/mundrapranay/patternplan/pkg/pattern"
)

func TestEncodeIsomorphismInvariant(t *testing.T) {
	a, err := pattern.FromEdges([]pattern.EdgeSpec{
		{EdgeID: 0, EdgeLabel: 0, StartID: 0, StartLabel: 0, EndID: 1, EndLabel: 0},
		{EdgeID: 1, EdgeLabel: 1, StartID: 1, StartLabel: 0, EndID: 2, EndLabel: 1},
		{EdgeID: 2, EdgeLabel: 1, StartID: 0, StartLabel: 0, EndID: 2, EndLabel: 1},
	})
	require.NoError(t, err)

	b, err := pattern.FromEdges([]pattern.EdgeSpec{
		{EdgeID: 50, EdgeLabel: 0, StartID: 10, StartLabel: 0, EndID: 11, EndLabel: 0},
		{EdgeID: 51, EdgeLabel: 1, StartID: 11, StartLabel: 0, EndID: 12, EndLabel: 1},
		{EdgeID: 52, EdgeLabel: 1, StartID: 10, StartLabel: 0, EndID: 12, EndLabel: 1},
	})
	require.NoError(t, err)

	require.Equal(t, codec.Encode(a), codec.Encode(b))
}

func TestEncodeDistinguishesNonIsomorphicPatterns(t *testing.T) {
	triangle, err := pattern.FromEdges([]pattern.EdgeSpec{
		{EdgeID: 0, EdgeLabel: 0, StartID: 0, StartLabel: 0, EndID: 1, EndLabel: 0},
		{EdgeID: 1, EdgeLabel: 0, StartID: 1, StartLabel: 0, EndID: 2, EndLabel: 0},
		{EdgeID: 2, EdgeLabel: 0, StartID: 2, StartLabel: 0, EndID: 0, EndLabel: 0},
	})
	require.NoError(t, err)

	path, err := pattern.FromEdges([]pattern.EdgeSpec{
		{EdgeID: 0, EdgeLabel: 0, StartID: 0, StartLabel: 0, EndID: 1, EndLabel: 0},
		{EdgeID: 1, EdgeLabel: 0, StartID: 1, StartLabel: 0, EndID: 2, EndLabel: 0},
	})
	require.NoError(t, err)

	require.NotEqual(t, codec.Encode(triangle), codec.Encode(path))
}

func TestDecodeRoundTrip(t *testing.T) {
	p, err := pattern.FromEdges([]pattern.EdgeSpec{
		{EdgeID: 0, EdgeLabel: 0, StartID: 0, StartLabel: 0, EndID: 1, EndLabel: 0},
		{EdgeID: 1, EdgeLabel: 1, StartID: 1, StartLabel: 0, EndID: 2, EndLabel: 1},
	})
	require.NoError(t, err)

	bytes := codec.Encode(p)
	decoded, ok := codec.Decode(bytes)
	require.True(t, ok)
	require.Equal(t, p.VerticesNum(), decoded.VerticesNum())
	require.Equal(t, p.EdgesNum(), decoded.EdgesNum())
	require.Equal(t, codec.Encode(p), codec.Encode(decoded))
}

func TestDecodeRoundTripSingleVertex(t *testing.T) {
	p := pattern.FromSingleVertex(42, 9)
	decoded, ok := codec.Decode(codec.Encode(p))
	require.True(t, ok)
	require.Equal(t, 1, decoded.VerticesNum())
	v := decoded.VerticesIter()[0]
	require.Equal(t, 9, v.Label)
}

func TestDecodeRejectsMalformed(t *testing.T) {
	_, ok := codec.Decode([]byte{})
	require.False(t, ok)
	_, ok = codec.Decode([]byte{1, 1, 1, 0, 0})
	require.False(t, ok)
}
