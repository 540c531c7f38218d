package cluster

import (
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/raft"
	raftboltdb "github.com/hashicorp/raft-boltdb/v2"

	"github.com/mundrapranay/patternplan/pkg/catalogue"
)

// Config configures a replicated catalogue store's Raft group.
type Config struct {
	NodeID           string
	ListenAddr       string
	DataDir          string
	Bootstrap        bool
	HeartbeatTimeout time.Duration
	ElectionTimeout  time.Duration
	CommitTimeout    time.Duration
}

// Store replicates catalogue node counts and best-approach choices
// across a Raft group; every node applies the same command log and so
// converges on the same plan search results.
type Store struct {
	raft *raft.Raft
	fsm  *FSM
}

// NewStore creates and initializes a replicated catalogue store.
func NewStore(config Config) (*Store, error) {
	fsm := NewFSM()

	raftConfig := raft.DefaultConfig()
	raftConfig.LocalID = raft.ServerID(config.NodeID)
	raftConfig.HeartbeatTimeout = config.HeartbeatTimeout
	raftConfig.ElectionTimeout = config.ElectionTimeout
	raftConfig.CommitTimeout = config.CommitTimeout
	raftConfig.Logger = hclog.New(&hclog.LoggerOptions{
		Name:  "catalogue-cluster",
		Level: hclog.Info,
	})

	logStore, err := raftboltdb.NewBoltStore(fmt.Sprintf("%s/logs", config.DataDir))
	if err != nil {
		return nil, fmt.Errorf("cluster: failed to create log store: %w", err)
	}

	stableStore, err := raftboltdb.NewBoltStore(fmt.Sprintf("%s/stable", config.DataDir))
	if err != nil {
		return nil, fmt.Errorf("cluster: failed to create stable store: %w", err)
	}

	snapshotStore, err := raft.NewFileSnapshotStore(config.DataDir, 3, nil)
	if err != nil {
		return nil, fmt.Errorf("cluster: failed to create snapshot store: %w", err)
	}

	addr, err := net.ResolveTCPAddr("tcp", config.ListenAddr)
	if err != nil {
		return nil, fmt.Errorf("cluster: failed to resolve address: %w", err)
	}
	transport, err := raft.NewTCPTransport(config.ListenAddr, addr, 3, 10*time.Second, nil)
	if err != nil {
		return nil, fmt.Errorf("cluster: failed to create transport: %w", err)
	}

	r, err := raft.NewRaft(raftConfig, fsm, logStore, stableStore, snapshotStore, transport)
	if err != nil {
		return nil, fmt.Errorf("cluster: failed to create raft: %w", err)
	}

	if config.Bootstrap {
		r.BootstrapCluster(raft.Configuration{
			Servers: []raft.Server{
				{ID: raft.ServerID(config.NodeID), Address: raft.ServerAddress(config.ListenAddr)},
			},
		})
	}

	return &Store{raft: r, fsm: fsm}, nil
}

// SetCount replicates a catalogue node's estimated cardinality.
func (s *Store) SetCount(patternKey string, count float64) error {
	return s.apply(Command{Op: OpSetCount, PatternKey: patternKey, Count: count})
}

// SetBestApproach replicates a catalogue node's memoized best approach.
func (s *Store) SetBestApproach(patternKey, approachID string) error {
	return s.apply(Command{Op: OpSetBestApproach, PatternKey: patternKey, ApproachID: approachID})
}

func (s *Store) apply(cmd Command) error {
	if s.raft.State() != raft.Leader {
		return fmt.Errorf("cluster: not the leader")
	}
	data, err := json.Marshal(cmd)
	if err != nil {
		return fmt.Errorf("cluster: failed to marshal command: %w", err)
	}
	future := s.raft.Apply(data, 10*time.Second)
	if err := future.Error(); err != nil {
		return fmt.Errorf("cluster: failed to apply command: %w", err)
	}
	return nil
}

// Get returns the locally-replicated entry for a pattern key.
func (s *Store) Get(patternKey string) (Entry, bool) {
	return s.fsm.Get(patternKey)
}

// SyncInto copies every replicated entry into a local catalogue, so its
// SetBestApproachByPattern search sees the cluster's agreed-on counts
// and memoized choices instead of recomputing them from scratch.
func (s *Store) SyncInto(cat *catalogue.Catalogue) {
	for key, entry := range s.fsm.All() {
		cat.SetPatternCount(key, entry.Count)
		if entry.BestApproach != "" {
			cat.SetPatternBestApproach(key, entry.BestApproach)
		}
	}
}

// IsLeader reports whether this node currently holds Raft leadership.
func (s *Store) IsLeader() bool { return s.raft.State() == raft.Leader }

// Leader returns the address of the current Raft leader.
func (s *Store) Leader() raft.ServerAddress { return s.raft.Leader() }

// AddVoter adds a new voting peer to the cluster.
func (s *Store) AddVoter(peerID, peerAddr string) error {
	return s.raft.AddVoter(raft.ServerID(peerID), raft.ServerAddress(peerAddr), 0, 0).Error()
}

// RemoveServer removes a peer from the cluster.
func (s *Store) RemoveServer(peerID string) error {
	return s.raft.RemoveServer(raft.ServerID(peerID), 0, 0).Error()
}

// Shutdown gracefully shuts down the Raft instance.
func (s *Store) Shutdown() error {
	return s.raft.Shutdown().Error()
}
