package catalogue_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mundrapranay/patternplan/pkg/catalogue"
	"github.com/mundrapranay/patternplan/pkg/pattern"
)

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0644)
}

func TestExportImportSingleVertexRoundTrip(t *testing.T) {
	p := pattern.FromSingleVertex(0, 5)
	cat := catalogue.New(fakeSchema{})

	path := filepath.Join(t.TempDir(), "pattern.json")
	require.NoError(t, cat.Export(p, path))

	got, count, err := catalogue.Import(path)
	require.NoError(t, err)
	require.Nil(t, count)
	require.Equal(t, 1, got.VerticesNum())
	require.Equal(t, 0, got.EdgesNum())
}

func TestExportImportEdgeCountRoundTrip(t *testing.T) {
	p, err := pattern.FromEdges([]pattern.EdgeSpec{
		{EdgeID: 0, EdgeLabel: 0, StartID: 0, StartLabel: 0, EndID: 1, EndLabel: 0},
	})
	require.NoError(t, err)

	cat := catalogue.BuildFromPattern(p, fakeSchema{}, 8)
	key, ok := cat.GetPatternIndex(p)
	require.True(t, ok)
	cat.SetPatternCount(key, 42)

	path := filepath.Join(t.TempDir(), "pattern.json")
	require.NoError(t, cat.Export(p, path))

	got, count, err := catalogue.Import(path)
	require.NoError(t, err)
	require.NotNil(t, count)
	require.Equal(t, 42.0, *count)
	require.Equal(t, 2, got.VerticesNum())
	require.Equal(t, 1, got.EdgesNum())
}

func TestImportRejectsEdgelessMultiVertexDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, writeFile(path, `{"vertices":[{"tag":0,"label":0},{"tag":1,"label":0}],"edges":[]}`))

	_, _, err := catalogue.Import(path)
	require.Error(t, err)
}
