// Package client is the programmatic entry point (spec §6): given a
// schema and, optionally, a pre-built catalogue, it turns a parsed
// query shape into an operator DAG ready for an execution engine.
//
// The teacher's Client in this package was a gRPC stub wired for a
// distributed-PIR coordination protocol (StartRound/PublishValues/
// GetValue over a CoordinationServiceClient, backed by a FrodoPIR
// client from internal/crypto). None of that survives here: grpc,
// protobuf, and internal/crypto are dropped dependencies (see
// SPEC_FULL.md's domain-stack table), and this package's concern is a
// local planning facade, not round-based distributed value exchange.
// What's kept from the teacher is the shape of the type: one struct
// guarding mutable per-session state behind a mutex, exposing a small
// number of named operations.
package client

import (
	"fmt"
	"sync"

	"github.com/mundrapranay/patternplan/pkg/catalogue"
	"github.com/mundrapranay/patternplan/pkg/catalogue/cluster"
	"github.com/mundrapranay/patternplan/pkg/dag"
	"github.com/mundrapranay/patternplan/pkg/planner"
	"github.com/mundrapranay/patternplan/pkg/queryshape"
	"github.com/mundrapranay/patternplan/pkg/schema"
)

// Client turns query shapes into operator DAGs against a fixed schema,
// optionally backed by a catalogue whose counts/best-approach choices
// may themselves be kept in sync with a Raft cluster.
type Client struct {
	mu     sync.RWMutex
	schema schema.Schema
	cat    *catalogue.Catalogue
	store  *cluster.Store
	mode   planner.Mode
}

// New creates a Client over schema s, emitting plans for mode (spec
// §4.8's Distributed/Standalone split). It starts without a catalogue:
// every Plan call falls back to the heuristic generator until
// AttachCatalogue is called.
func New(s schema.Schema, mode planner.Mode) *Client {
	return &Client{schema: s, mode: mode}
}

// AttachCatalogue gives the client a catalogue to prefer over the
// heuristic plan generator.
func (c *Client) AttachCatalogue(cat *catalogue.Catalogue) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cat = cat
}

// AttachCluster wires a replicated catalogue store: before every Plan
// call its state is synced into the attached catalogue, so a plan
// reflects the cluster's agreed-on counts and memoized choices rather
// than only this node's local view.
func (c *Client) AttachCluster(store *cluster.Store) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store = store
}

// Plan parses in against the client's schema and generates an operator
// DAG for the resulting pattern.
func (c *Client) Plan(in queryshape.Input) (*dag.Plan, error) {
	c.mu.RLock()
	s, cat, store, mode := c.schema, c.cat, c.store, c.mode
	c.mu.RUnlock()

	p, err := queryshape.Parse(in, s)
	if err != nil {
		return nil, fmt.Errorf("client: failed to parse query shape: %w", err)
	}

	if cat != nil && store != nil {
		store.SyncInto(cat)
	}
	return planner.GeneratePlan(cat, p, mode)
}
