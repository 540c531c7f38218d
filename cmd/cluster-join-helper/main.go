// Command cluster-join-helper adds voters to a running replicated
// catalogue cluster (pkg/catalogue/cluster). It starts a throwaway
// node, lets it settle, then issues AddVoter for each peer named on
// the command line.
//
// Adapted from the teacher's cmd/cluster-peer-helper, which did the
// same thing against internal/store.Store; this version talks to
// pkg/catalogue/cluster.Store instead.
//
// Usage: cluster-join-helper <leader-data-dir> <peer-id>:<peer-addr> [<peer-id>:<peer-addr> ...]
package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mundrapranay/patternplan/pkg/catalogue/cluster"
)

func main() {
	if len(os.Args) < 3 {
		fmt.Fprintf(os.Stderr, "Usage: %s <leader-data-dir> <peer-id>:<peer-addr> [<peer-id>:<peer-addr> ...]\n", os.Args[0])
		os.Exit(1)
	}

	leaderDataDir := os.Args[1]
	helperDataDir := filepath.Join(filepath.Dir(leaderDataDir), "helper-node")
	if err := os.MkdirAll(helperDataDir, 0755); err != nil {
		log.Fatalf("failed to create helper data directory: %v", err)
	}

	config := cluster.Config{
		NodeID:           "helper-node",
		ListenAddr:       "127.0.0.1:0",
		DataDir:          helperDataDir,
		Bootstrap:        false,
		HeartbeatTimeout: 1000 * time.Millisecond,
		ElectionTimeout:  1000 * time.Millisecond,
		CommitTimeout:    50 * time.Millisecond,
	}

	s, err := cluster.NewStore(config)
	if err != nil {
		log.Fatalf("failed to create store: %v", err)
	}
	defer s.Shutdown()

	fmt.Println("waiting for helper node to settle...")
	time.Sleep(2 * time.Second)

	for _, peerSpec := range os.Args[2:] {
		colonIdx := strings.LastIndexByte(peerSpec, ':')
		if colonIdx == -1 {
			fmt.Fprintf(os.Stderr, "invalid peer spec %q, want peer-id:peer-addr\n", peerSpec)
			continue
		}
		peerID, peerAddr := peerSpec[:colonIdx], peerSpec[colonIdx+1:]

		fmt.Printf("adding voter %s at %s...\n", peerID, peerAddr)
		if err := s.AddVoter(peerID, peerAddr); err != nil {
			fmt.Fprintf(os.Stderr, "failed to add voter %s: %v\n", peerID, err)
			continue
		}
		fmt.Printf("added voter %s\n", peerID)
		time.Sleep(1 * time.Second)
	}

	fmt.Println("voter addition complete")
}
