// Package config is the YAML run-configuration loader for cmd/planquery
// (and friends): a query shape, sampler tunables, and graph input
// location, loaded from one file the way a planner operator would hand
// a job to the binary.
//
// Adapted from the teacher's algorithms/common/{algorithm.go,config.go}
// (`AlgorithmConfig`/`LoadConfig`/`SaveConfig`/`Validate`, yaml.v3-tagged
// struct, struct-tag validation returning plain `fmt.Errorf`s): the
// shape is rewritten from "algorithm + worker + server address" to
// "query shape + sampler + graph files", since this module plans graph
// pattern queries rather than coordinating round-based distributed
// algorithms.
package config

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mundrapranay/patternplan/pkg/extend"
	"github.com/mundrapranay/patternplan/pkg/planner"
	"github.com/mundrapranay/patternplan/pkg/queryshape"
	"github.com/mundrapranay/patternplan/pkg/sampler"
)

// ExpandConfig is one expand sentence: an edge label/direction, an
// optional alias for the reached vertex.
type ExpandConfig struct {
	EdgeLabel int    `yaml:"edge_label" json:"edge_label"`
	Direction string `yaml:"direction" json:"direction"` // "out" or "in"
	Alias     string `yaml:"alias,omitempty" json:"alias,omitempty"`
}

// QueryShapeConfig is the YAML shape of a queryshape.Input.
type QueryShapeConfig struct {
	StartAlias string         `yaml:"start_alias" json:"start_alias"`
	StartLabel int            `yaml:"start_label" json:"start_label"`
	Expands    []ExpandConfig `yaml:"expands" json:"expands"`
	EndAlias   string         `yaml:"end_alias,omitempty" json:"end_alias,omitempty"`
}

// ToInput converts the YAML shape into a queryshape.Input.
func (q QueryShapeConfig) ToInput() (queryshape.Input, error) {
	in := queryshape.Input{StartAlias: q.StartAlias, StartLabel: q.StartLabel, EndAlias: q.EndAlias}
	for _, e := range q.Expands {
		dir, err := parseDirection(e.Direction)
		if err != nil {
			return queryshape.Input{}, err
		}
		in.Expands = append(in.Expands, queryshape.Expand{EdgeLabel: e.EdgeLabel, Direction: dir, Alias: e.Alias})
	}
	return in, nil
}

func parseDirection(s string) (extend.Direction, error) {
	switch s {
	case "out", "":
		return extend.Out, nil
	case "in":
		return extend.In, nil
	default:
		return 0, fmt.Errorf("config: unknown direction %q, want \"out\" or \"in\"", s)
	}
}

// SamplerConfig is the YAML shape of a sampler.Config.
type SamplerConfig struct {
	Strategy           string  `yaml:"strategy" json:"strategy"` // "exact" or "ledp"
	Rate               float64 `yaml:"rate" json:"rate"`
	MinRecords         int     `yaml:"min_records" json:"min_records"`
	ThreadNum          int     `yaml:"thread_num" json:"thread_num"`
	SparsificationRate float64 `yaml:"sparsification_rate" json:"sparsification_rate"`
	NoiseLambda        float64 `yaml:"noise_lambda" json:"noise_lambda"`
}

// ToSamplerConfig converts the YAML shape into a sampler.Config.
func (s SamplerConfig) ToSamplerConfig() sampler.Config {
	cfg := sampler.DefaultConfig()
	if s.Strategy == string(sampler.StrategyLEDP) {
		cfg.Strategy = sampler.StrategyLEDP
	} else {
		cfg.Strategy = sampler.StrategyExact
	}
	if s.Rate > 0 {
		cfg.Rate = s.Rate
	}
	cfg.MinRecords = s.MinRecords
	if s.ThreadNum > 0 {
		cfg.ThreadNum = s.ThreadNum
	}
	if s.SparsificationRate > 0 {
		cfg.SparsificationRate = s.SparsificationRate
	}
	cfg.NoiseLambda = s.NoiseLambda
	return cfg
}

// GraphInputConfig names the data graph's vertex-label and edge-list
// files, in the space-separated format pkg/datagraph.LoadFile reads.
type GraphInputConfig struct {
	VertexFile string `yaml:"vertex_file" json:"vertex_file"`
	EdgeFile   string `yaml:"edge_file" json:"edge_file"`
}

// RunConfig is the full configuration for one planquery run.
type RunConfig struct {
	Mode           string           `yaml:"mode" json:"mode"` // "distributed" or "standalone"
	SameLabelLimit int              `yaml:"same_label_limit" json:"same_label_limit"`
	Query          QueryShapeConfig `yaml:"query" json:"query"`
	Sampler        SamplerConfig    `yaml:"sampler" json:"sampler"`
	Graph          GraphInputConfig `yaml:"graph" json:"graph"`
}

// PlannerMode returns the planner.Mode named by Mode, defaulting to
// Distributed for an empty or unrecognized value.
func (c *RunConfig) PlannerMode() planner.Mode {
	if c.Mode == "standalone" {
		return planner.Standalone
	}
	return planner.Distributed
}

// Validate checks that a RunConfig carries the fields a run requires.
func (c *RunConfig) Validate() error {
	if c.Query.StartAlias == "" {
		return fmt.Errorf("query.start_alias is required")
	}
	if len(c.Query.Expands) == 0 {
		return fmt.Errorf("query.expands must be non-empty")
	}
	if c.Graph.VertexFile == "" {
		return fmt.Errorf("graph.vertex_file is required")
	}
	if c.Graph.EdgeFile == "" {
		return fmt.Errorf("graph.edge_file is required")
	}
	if c.SameLabelLimit <= 0 {
		c.SameLabelLimit = 8
	}
	return nil
}

// LoadConfig loads a RunConfig from a YAML file and validates it.
func LoadConfig(filePath string) (*RunConfig, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("config: failed to open config file: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("config: failed to read config file: %w", err)
	}

	var cfg RunConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: invalid config: %w", err)
	}
	return &cfg, nil
}

// SaveConfig writes a RunConfig to a YAML file.
func SaveConfig(cfg *RunConfig, filePath string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("config: failed to marshal config: %w", err)
	}
	return os.WriteFile(filePath, data, 0644)
}
