// Command planquery is the end-to-end demonstration CLI: given a run
// configuration (query shape, sampler tunables, data graph files) and a
// schema document, it builds a catalogue, samples it against the data
// graph, and prints the resulting operator plan.
//
// Grounded on the teacher's cmd/algorithm-runner/main.go's overall
// shape (load config, load graph, build a client, run, report), with
// the round-based distributed algorithm execution replaced by one
// pkg/client.Client.Plan call — the rest of that file's coordination
// machinery has no counterpart in a query planner (see DESIGN.md).
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/mundrapranay/patternplan/pkg/catalogue"
	"github.com/mundrapranay/patternplan/pkg/client"
	"github.com/mundrapranay/patternplan/pkg/config"
	"github.com/mundrapranay/patternplan/pkg/dag"
	"github.com/mundrapranay/patternplan/pkg/datagraph"
	"github.com/mundrapranay/patternplan/pkg/queryshape"
	"github.com/mundrapranay/patternplan/pkg/sampler"
	"github.com/mundrapranay/patternplan/pkg/schema"
)

var (
	configPath = flag.String("config", "", "path to a run configuration YAML file")
	schemaPath = flag.String("schema", "", "path to a schema YAML file")
	noSampling = flag.Bool("no-sample", false, "skip sampling and emit the heuristic plan directly")
)

func main() {
	flag.Parse()
	if *configPath == "" || *schemaPath == "" {
		log.Fatal("both -config and -schema are required")
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("failed to load run config: %v", err)
	}
	schemaDoc, err := schema.LoadFile(*schemaPath)
	if err != nil {
		log.Fatalf("failed to load schema: %v", err)
	}
	s := schemaDoc.Build()

	in, err := cfg.Query.ToInput()
	if err != nil {
		log.Fatalf("failed to parse query shape: %v", err)
	}

	c := client.New(s, cfg.PlannerMode())

	if !*noSampling {
		if err := warmCatalogue(c, cfg, s, in); err != nil {
			log.Fatalf("failed to warm catalogue: %v", err)
		}
	}

	plan, err := c.Plan(in)
	if err != nil {
		log.Fatalf("failed to generate plan: %v", err)
	}

	printPlan(plan)
}

// warmCatalogue parses in into a target pattern, builds a catalogue
// around it, samples the data graph named by cfg.Graph to populate its
// cardinality estimates, and attaches the result to c.
func warmCatalogue(c *client.Client, cfg *config.RunConfig, s schema.Schema, in queryshape.Input) error {
	target, err := queryshape.Parse(in, s)
	if err != nil {
		return fmt.Errorf("planquery: failed to resolve query shape against schema: %w", err)
	}

	dg, err := datagraph.LoadFile(cfg.Graph.VertexFile, cfg.Graph.EdgeFile)
	if err != nil {
		return fmt.Errorf("planquery: failed to load data graph: %w", err)
	}

	cat := catalogue.BuildFromPattern(target, s, cfg.SameLabelLimit)
	smp := sampler.New(cat, dg, cfg.Sampler.ToSamplerConfig())
	if err := smp.Run(target); err != nil {
		return fmt.Errorf("planquery: failed to sample catalogue: %w", err)
	}

	c.AttachCatalogue(cat)
	return nil
}

func printPlan(plan *dag.Plan) {
	for i, node := range plan.Nodes {
		fmt.Printf("%2d [%s]", i, node.Op)
		if len(node.Children) > 0 {
			fmt.Printf(" -> %v", node.Children)
		}
		fmt.Println()
		fmt.Printf("    %+v\n", node.Payload)
	}
}
