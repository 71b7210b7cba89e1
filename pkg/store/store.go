// Package store persists architecture rounds: the input snapshots and the
// documents synthesized from them.
//
// Two backends are provided: a file store under the user config directory
// for CLI usage, and a MongoDB store for the serve mode. Rounds are keyed
// by their round id; storing a round again replaces it.
package store

import (
	"context"
	"time"

	"github.com/archsketch/archsketch/pkg/arch"
	"github.com/archsketch/archsketch/pkg/diagram"
)

// Record is the stored metadata for one round.
type Record struct {
	ID           string    `json:"id" bson:"_id"`
	RoundID      int       `json:"round_id" bson:"round_id"`
	RoundTitle   string    `json:"round_title" bson:"round_title"`
	SnapshotHash string    `json:"snapshot_hash" bson:"snapshot_hash"`
	HasDocument  bool      `json:"has_document" bson:"has_document"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" bson:"updated_at"`
}

// Store is the persistence interface shared by all backends.
type Store interface {
	// PutSnapshot stores a snapshot, replacing any snapshot previously
	// stored under the same round id, and returns the round's record.
	PutSnapshot(ctx context.Context, snap arch.Snapshot) (Record, error)

	// GetSnapshot retrieves the snapshot for a round. Returns a
	// ROUND_NOT_FOUND error when the round does not exist.
	GetSnapshot(ctx context.Context, roundID int) (arch.Snapshot, error)

	// PutDocument stores the synthesized document for a round. The
	// round's snapshot must already be stored.
	PutDocument(ctx context.Context, roundID int, doc diagram.Document) error

	// GetDocument retrieves the document for a round. Returns a
	// ROUND_NOT_FOUND error when the round or its document is missing.
	GetDocument(ctx context.Context, roundID int) (diagram.Document, error)

	// ListRounds returns records for all stored rounds, ordered by
	// ascending round id.
	ListRounds(ctx context.Context) ([]Record, error)

	// Close releases backend resources.
	Close() error
}
