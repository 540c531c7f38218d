package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mundrapranay/patternplan/pkg/config"
	"github.com/mundrapranay/patternplan/pkg/extend"
	"github.com/mundrapranay/patternplan/pkg/planner"
	"github.com/mundrapranay/patternplan/pkg/sampler"
)

func writeConfig(t *testing.T, yamlBody string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yamlBody), 0644))
	return path
}

func TestLoadConfigValidMinimal(t *testing.T) {
	path := writeConfig(t, `
mode: standalone
same_label_limit: 4
query:
  start_alias: "0"
  start_label: 0
  expands:
    - edge_label: 1
      direction: out
      alias: "1"
graph:
  vertex_file: vertices.txt
  edge_file: edges.txt
`)
	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "standalone", cfg.Mode)
	require.Equal(t, planner.Standalone, cfg.PlannerMode())
	require.Equal(t, 4, cfg.SameLabelLimit)
}

func TestLoadConfigRejectsMissingExpands(t *testing.T) {
	path := writeConfig(t, `
query:
  start_alias: "0"
graph:
  vertex_file: v.txt
  edge_file: e.txt
`)
	_, err := config.LoadConfig(path)
	require.Error(t, err)
}

func TestLoadConfigRejectsMissingGraphFiles(t *testing.T) {
	path := writeConfig(t, `
query:
  start_alias: "0"
  expands:
    - edge_label: 1
      direction: out
`)
	_, err := config.LoadConfig(path)
	require.Error(t, err)
}

func TestQueryShapeConfigToInput(t *testing.T) {
	q := config.QueryShapeConfig{
		StartAlias: "0",
		StartLabel: 0,
		Expands: []config.ExpandConfig{
			{EdgeLabel: 1, Direction: "out", Alias: "1"},
			{EdgeLabel: 2, Direction: "in"},
		},
	}
	in, err := q.ToInput()
	require.NoError(t, err)
	require.Equal(t, "0", in.StartAlias)
	require.Len(t, in.Expands, 2)
	require.Equal(t, extend.Out, in.Expands[0].Direction)
	require.Equal(t, extend.In, in.Expands[1].Direction)
}

func TestQueryShapeConfigRejectsUnknownDirection(t *testing.T) {
	q := config.QueryShapeConfig{
		StartAlias: "0",
		Expands:    []config.ExpandConfig{{EdgeLabel: 1, Direction: "sideways"}},
	}
	_, err := q.ToInput()
	require.Error(t, err)
}

func TestSamplerConfigToSamplerConfigDefaults(t *testing.T) {
	s := config.SamplerConfig{Strategy: "ledp", NoiseLambda: 2.5}
	cfg := s.ToSamplerConfig()
	require.Equal(t, sampler.StrategyLEDP, cfg.Strategy)
	require.Equal(t, 1.0, cfg.Rate, "zero rate in YAML must fall back to the default")
	require.Equal(t, 2.5, cfg.NoiseLambda)
}

func TestSaveConfigRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.yaml")
	cfg := &config.RunConfig{
		Mode:           "distributed",
		SameLabelLimit: 6,
		Query: config.QueryShapeConfig{
			StartAlias: "0",
			Expands:    []config.ExpandConfig{{EdgeLabel: 1, Direction: "out", Alias: "1"}},
		},
		Graph: config.GraphInputConfig{VertexFile: "v.txt", EdgeFile: "e.txt"},
	}
	require.NoError(t, config.SaveConfig(cfg, path))

	loaded, err := config.LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, cfg.Mode, loaded.Mode)
	require.Equal(t, cfg.Graph, loaded.Graph)
}
