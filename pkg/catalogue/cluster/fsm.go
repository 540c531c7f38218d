// Package cluster replicates a catalogue's cardinality estimates and
// memoized best-approach choices across a Raft group, so every node in
// a distributed planner (spec §5's "Distributed" mode) agrees on the
// same plan search results without re-running the sampler or the cost
// search independently.
//
// Adapted from the teacher's internal/store (a generic Raft-backed
// key-value FSM): the command vocabulary and state shape are now
// catalogue-specific (pattern count + best-approach per node key)
// instead of opaque byte blobs.
package cluster

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/hashicorp/raft"
)

// OpKind names one of the two catalogue mutations the FSM replicates.
type OpKind string

const (
	OpSetCount        OpKind = "SET_COUNT"
	OpSetBestApproach OpKind = "SET_BEST_APPROACH"
)

// Command is one replicated catalogue mutation.
type Command struct {
	Op           OpKind  `json:"op"`
	PatternKey   string  `json:"pattern_key"`
	Count        float64 `json:"count,omitempty"`
	ApproachID   string  `json:"approach_id,omitempty"`
}

// Entry is the replicated state held per catalogue node.
type Entry struct {
	Count        float64
	BestApproach string
}

// FSM is the Raft state machine: a map from catalogue pattern key to its
// replicated Entry.
type FSM struct {
	mu   sync.RWMutex
	data map[string]Entry
}

// NewFSM creates an empty FSM.
func NewFSM() *FSM {
	return &FSM{data: make(map[string]Entry)}
}

// Apply applies one replicated log entry.
func (f *FSM) Apply(log *raft.Log) interface{} {
	f.mu.Lock()
	defer f.mu.Unlock()

	var cmd Command
	if err := json.Unmarshal(log.Data, &cmd); err != nil {
		return fmt.Errorf("cluster: failed to deserialize command: %w", err)
	}

	entry := f.data[cmd.PatternKey]
	switch cmd.Op {
	case OpSetCount:
		entry.Count = cmd.Count
	case OpSetBestApproach:
		entry.BestApproach = cmd.ApproachID
	default:
		return fmt.Errorf("cluster: unrecognized command op: %s", cmd.Op)
	}
	f.data[cmd.PatternKey] = entry
	return nil
}

// Get returns the replicated entry for a pattern key.
func (f *FSM) Get(patternKey string) (Entry, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	e, ok := f.data[patternKey]
	return e, ok
}

// All returns a snapshot copy of every replicated entry.
func (f *FSM) All() map[string]Entry {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make(map[string]Entry, len(f.data))
	for k, v := range f.data {
		out[k] = v
	}
	return out
}

// Snapshot captures the FSM state for Raft log compaction.
func (f *FSM) Snapshot() (raft.FSMSnapshot, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	clone := make(map[string]Entry, len(f.data))
	for k, v := range f.data {
		clone[k] = v
	}
	return &fsmSnapshot{data: clone}, nil
}

// Restore replaces the FSM state from a snapshot.
func (f *FSM) Restore(rc io.ReadCloser) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	var snapshotData map[string]Entry
	decoder := json.NewDecoder(rc)
	if err := decoder.Decode(&snapshotData); err != nil {
		return fmt.Errorf("cluster: failed to decode snapshot: %w", err)
	}
	f.data = snapshotData
	return nil
}

type fsmSnapshot struct {
	data map[string]Entry
}

func (s *fsmSnapshot) Persist(sink raft.SnapshotSink) error {
	encoder := json.NewEncoder(sink)
	if err := encoder.Encode(s.data); err != nil {
		sink.Cancel()
		return fmt.Errorf("cluster: failed to encode snapshot: %w", err)
	}
	return sink.Close()
}

func (s *fsmSnapshot) Release() {}
