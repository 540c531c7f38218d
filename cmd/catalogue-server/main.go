// Command catalogue-server runs one node of a replicated catalogue
// cluster (pkg/catalogue/cluster): it builds and samples a local
// catalogue for the configured query shape, then, whenever it holds
// raft leadership, republishes that catalogue's counts and memoized
// best-approach choices into the cluster so every other node's local
// catalogue can converge on the same plan search results via
// pkg/client.Client.AttachCluster.
//
// Adapted from the teacher's cmd/silhouette-server/main.go: the raft
// bootstrap/join flag set and graceful-shutdown signal handling are
// kept; the gRPC CoordinationServiceServer and OKVS/KVS storage-backend
// selection are dropped (see DESIGN.md — no CLI-facing network service
// is in scope for this domain).
package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mundrapranay/patternplan/pkg/catalogue"
	"github.com/mundrapranay/patternplan/pkg/catalogue/cluster"
	"github.com/mundrapranay/patternplan/pkg/config"
	"github.com/mundrapranay/patternplan/pkg/datagraph"
	"github.com/mundrapranay/patternplan/pkg/queryshape"
	"github.com/mundrapranay/patternplan/pkg/sampler"
	"github.com/mundrapranay/patternplan/pkg/schema"
)

var (
	nodeID     = flag.String("node-id", "", "unique ID for this node")
	listenAddr = flag.String("listen-addr", "127.0.0.1:8080", "address to listen for raft communication")
	dataDir    = flag.String("data-dir", "./data", "directory to store raft logs and snapshots")
	bootstrap  = flag.Bool("bootstrap", false, "bootstrap a new cluster (first node)")
	configPath = flag.String("config", "", "path to a run configuration YAML file")
	schemaPath = flag.String("schema", "", "path to a schema YAML file")
)

func main() {
	flag.Parse()

	if *nodeID == "" {
		log.Fatal("node-id is required")
	}
	if err := os.MkdirAll(*dataDir, 0755); err != nil {
		log.Fatalf("failed to create data directory: %v", err)
	}

	store, err := cluster.NewStore(cluster.Config{
		NodeID:           *nodeID,
		ListenAddr:       *listenAddr,
		DataDir:          *dataDir,
		Bootstrap:        *bootstrap,
		HeartbeatTimeout: 1000 * time.Millisecond,
		ElectionTimeout:  1000 * time.Millisecond,
		CommitTimeout:    50 * time.Millisecond,
	})
	if err != nil {
		log.Fatalf("failed to create store: %v", err)
	}
	defer store.Shutdown()

	cat := buildLocalCatalogue()

	log.Printf("node %s is ready, raft listening on %s", *nodeID, *listenAddr)

	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-ticker.C:
			if cat == nil || !store.IsLeader() {
				continue
			}
			publishLocalCatalogue(store, cat)
		case <-sigChan:
			log.Println("shutting down...")
			return
		}
	}
}

// buildLocalCatalogue loads the configured query shape and graph, if
// any, and returns a warmed catalogue ready to republish. A nil return
// means no config was given, so there is nothing to publish — the node
// still participates in the raft group.
func buildLocalCatalogue() *catalogue.Catalogue {
	if *configPath == "" || *schemaPath == "" {
		log.Println("no -config/-schema given, this node will only participate in raft membership")
		return nil
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

	target, err := queryshape.Parse(in, s)
	if err != nil {
		log.Fatalf("failed to resolve query shape against schema: %v", err)
	}

	dg, err := datagraph.LoadFile(cfg.Graph.VertexFile, cfg.Graph.EdgeFile)
	if err != nil {
		log.Fatalf("failed to load data graph: %v", err)
	}

	cat := catalogue.BuildFromPattern(target, s, cfg.SameLabelLimit)
	smp := sampler.New(cat, dg, cfg.Sampler.ToSamplerConfig())
	if err := smp.Run(target); err != nil {
		log.Fatalf("failed to sample catalogue: %v", err)
	}
	if _, err := cat.SetBestApproachByPattern(target); err != nil {
		log.Printf("warning: no derivation reaches the target pattern: %v", err)
	}

	return cat
}

func publishLocalCatalogue(store *cluster.Store, cat *catalogue.Catalogue) {
	for _, key := range cat.AllNodes() {
		node, ok := cat.GetNode(key)
		if !ok {
			continue
		}
		if err := store.SetCount(key, node.Count); err != nil {
			log.Printf("failed to publish count for %s: %v", key, err)
			continue
		}
		if node.BestApproach != "" {
			if err := store.SetBestApproach(key, node.BestApproach); err != nil {
				log.Printf("failed to publish best approach for %s: %v", key, err)
			}
		}
	}
}
