// Package arch defines the architecture snapshot model consumed by the
// layout and synthesis engines.
//
// A snapshot is one immutable, versioned architecture description for a
// single evolution round: a node/edge graph plus round metadata and an
// optional evolution-tracking record. Snapshots are constructed wholesale
// from an external JSON payload and are read-only afterwards.
//
// Validation here is purely structural (required fields, unique IDs).
// Graph-shape irregularities such as cycles, dangling edge endpoints, or
// unknown enum values are deliberately not rejected; downstream layers
// degrade gracefully for those.
package arch

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/archsketch/archsketch/pkg/errors"
)

// NodeType classifies a node for shape and icon selection.
// Unknown values are preserved and resolved by the style mapper's fallback.
type NodeType string

// Known node types.
const (
	TypeClient     NodeType = "client"
	TypeGateway    NodeType = "gateway"
	TypeService    NodeType = "service"
	TypeDatabase   NodeType = "database"
	TypeCache      NodeType = "cache"
	TypeQueue      NodeType = "queue"
	TypeThirdParty NodeType = "third_party"
)

// NodeStatus classifies a node's evolution state for color selection.
type NodeStatus string

// Known node statuses.
const (
	StatusNew      NodeStatus = "new"
	StatusModified NodeStatus = "modified"
	StatusStable   NodeStatus = "stable"
)

// Interaction classifies an edge for stroke-pattern selection.
type Interaction string

// Known interaction kinds.
const (
	InteractionSync  Interaction = "sync"
	InteractionAsync Interaction = "async"
)

// Node is one component in an architecture snapshot.
type Node struct {
	ID          string     `json:"id" bson:"id"`
	Label       string     `json:"label" bson:"label"`
	TechStack   string     `json:"tech_stack,omitempty" bson:"tech_stack,omitempty"`
	Type        NodeType   `json:"type" bson:"type"`
	Status      NodeStatus `json:"status" bson:"status"`
	Description string     `json:"description,omitempty" bson:"description,omitempty"`
	Alerts      []string   `json:"alerts,omitempty" bson:"alerts,omitempty"`
}

// DisplayLabel returns the label if set, otherwise the ID.
func (n *Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// Edge is a directed interaction between two nodes, referenced by ID.
// Endpoints referencing missing nodes are tolerated: the layout engine
// skips such edges instead of erroring.
type Edge struct {
	Source      string      `json:"source" bson:"source"`
	Target      string      `json:"target" bson:"target"`
	Label       string      `json:"label,omitempty" bson:"label,omitempty"`
	Interaction Interaction `json:"interaction" bson:"interaction"`
}

// Architecture is the node/edge graph of one snapshot.
type Architecture struct {
	Nodes []Node `json:"nodes" bson:"nodes"`
	Edges []Edge `json:"edges" bson:"edges"`
}

// Tracking records the evolution bookkeeping for one round: which backlog
// issues the round solved and which new issues it surfaced.
type Tracking struct {
	SolvedIssues []string `json:"solved_issues,omitempty" bson:"solved_issues,omitempty"`
	NewBacklog   []string `json:"new_backlog,omitempty" bson:"new_backlog,omitempty"`
}

// Snapshot is one architecture description for a single evolution round.
type Snapshot struct {
	RoundID           int          `json:"round_id" bson:"round_id"`
	RoundTitle        string       `json:"round_title" bson:"round_title"`
	DecisionRationale string       `json:"decision_rationale,omitempty" bson:"decision_rationale,omitempty"`
	Architecture      Architecture `json:"architecture" bson:"architecture"`
	EvolutionTracking *Tracking    `json:"evolution_tracking,omitempty" bson:"evolution_tracking,omitempty"`
}

// Validate checks structural integrity and returns nil if the snapshot is
// usable for synthesis. Violations are fatal to the synthesis call:
//
//   - RoundID must be a positive integer
//   - RoundTitle must be non-empty
//   - Every node needs a non-empty, unique ID
//   - Every edge needs non-empty source and target IDs
//
// Validate does not check that edge endpoints reference existing nodes,
// that the graph is acyclic, or that enum values are recognized. Those are
// graph-shape irregularities absorbed by layout and style fallbacks.
func (s *Snapshot) Validate() error {
	if s.RoundID < 1 {
		return errors.New(errors.ErrCodeInvalidSnapshot, "round_id must be >= 1, got %d", s.RoundID)
	}
	if s.RoundTitle == "" {
		return errors.New(errors.ErrCodeInvalidSnapshot, "round_title cannot be empty")
	}

	seen := make(map[string]struct{}, len(s.Architecture.Nodes))
	for i, n := range s.Architecture.Nodes {
		if n.ID == "" {
			return errors.New(errors.ErrCodeInvalidNode, "node %d has empty id", i)
		}
		if _, dup := seen[n.ID]; dup {
			return errors.New(errors.ErrCodeInvalidNode, "duplicate node id %q", n.ID)
		}
		seen[n.ID] = struct{}{}
	}

	for i, e := range s.Architecture.Edges {
		if e.Source == "" {
			return errors.New(errors.ErrCodeInvalidEdge, "edge %d has empty source", i)
		}
		if e.Target == "" {
			return errors.New(errors.ErrCodeInvalidEdge, "edge %d has empty target", i)
		}
	}

	return nil
}

// Hash computes the SHA-256 content hash of the snapshot's canonical JSON
// encoding. Two snapshots with identical content hash identically, which
// makes the hash suitable as a memoization key for synthesized documents.
func (s *Snapshot) Hash() string {
	data, _ := json.Marshal(s)
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// UnmarshalSnapshot decodes JSON bytes into a validated Snapshot.
// Returns a structural validation error if the payload is malformed at
// the type level or violates the snapshot contract.
func UnmarshalSnapshot(data []byte) (Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return Snapshot{}, errors.Wrap(errors.ErrCodeInvalidSnapshot, err, "decode snapshot")
	}
	if err := s.Validate(); err != nil {
		return Snapshot{}, err
	}
	return s, nil
}

// ReadSnapshot decodes a validated Snapshot from r.
func ReadSnapshot(r io.Reader) (Snapshot, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Snapshot{}, fmt.Errorf("read snapshot: %w", err)
	}
	return UnmarshalSnapshot(data)
}

// ReadSnapshotFile reads and validates a snapshot from a JSON file.
func ReadSnapshotFile(path string) (Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Snapshot{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "snapshot file %s", path)
		}
		return Snapshot{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalSnapshot(data)
}

// MarshalSnapshot serializes a Snapshot to pretty-printed JSON bytes.
func MarshalSnapshot(s Snapshot) ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

// WriteSnapshotFile writes a Snapshot to a JSON file.
func WriteSnapshotFile(s Snapshot, path string) error {
	data, err := MarshalSnapshot(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
