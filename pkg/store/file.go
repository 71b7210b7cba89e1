package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/archsketch/archsketch/pkg/arch"
	"github.com/archsketch/archsketch/pkg/diagram"
	"github.com/archsketch/archsketch/pkg/errors"
)

// FileStore keeps rounds under a base directory, one subdirectory per
// round holding record.json, snapshot.json and document.json.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
}

// NewFileStore creates a file store rooted at baseDir. If baseDir is
// empty it defaults to ~/.config/archsketch/rounds/.
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		baseDir = filepath.Join(home, ".config", "archsketch", "rounds")
	}
	if err := os.MkdirAll(baseDir, 0o700); err != nil {
		return nil, fmt.Errorf("create rounds dir: %w", err)
	}
	return &FileStore{baseDir: baseDir}, nil
}

// Path returns the base directory for round files.
func (s *FileStore) Path() string { return s.baseDir }

func (s *FileStore) roundDir(roundID int) string {
	return filepath.Join(s.baseDir, strconv.Itoa(roundID))
}

// PutSnapshot stores a snapshot, replacing any existing round with the
// same id. A new round gets a fresh record id; re-storing keeps the id
// and bumps UpdatedAt.
func (s *FileStore) PutSnapshot(ctx context.Context, snap arch.Snapshot) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	dir := s.roundDir(snap.RoundID)
	now := time.Now().UTC()

	rec, err := s.readRecord(snap.RoundID)
	if err != nil {
		rec = Record{ID: uuid.NewString(), CreatedAt: now}
	}
	rec.RoundID = snap.RoundID
	rec.RoundTitle = snap.RoundTitle
	rec.SnapshotHash = snap.Hash()
	rec.UpdatedAt = now

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return Record{}, errors.Wrap(errors.ErrCodeStore, err, "create round dir")
	}
	if err := arch.WriteSnapshotFile(snap, filepath.Join(dir, "snapshot.json")); err != nil {
		return Record{}, errors.Wrap(errors.ErrCodeStore, err, "write snapshot")
	}
	if err := s.writeRecord(rec); err != nil {
		return Record{}, err
	}
	return rec, nil
}

// GetSnapshot retrieves the snapshot for a round.
func (s *FileStore) GetSnapshot(ctx context.Context, roundID int) (arch.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	path := filepath.Join(s.roundDir(roundID), "snapshot.json")
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return arch.Snapshot{}, errors.New(errors.ErrCodeRoundNotFound, "round %d not found", roundID)
	}
	return arch.ReadSnapshotFile(path)
}

// PutDocument stores the synthesized document for a round.
func (s *FileStore) PutDocument(ctx context.Context, roundID int, doc diagram.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.readRecord(roundID)
	if err != nil {
		return errors.New(errors.ErrCodeRoundNotFound, "round %d not found", roundID)
	}
	if err := diagram.WriteDocumentFile(doc, filepath.Join(s.roundDir(roundID), "document.json")); err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "write document")
	}
	rec.HasDocument = true
	rec.UpdatedAt = time.Now().UTC()
	return s.writeRecord(rec)
}

// GetDocument retrieves the document for a round.
func (s *FileStore) GetDocument(ctx context.Context, roundID int) (diagram.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	path := filepath.Join(s.roundDir(roundID), "document.json")
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return diagram.Document{}, errors.New(errors.ErrCodeRoundNotFound, "no document for round %d", roundID)
	}
	return diagram.ReadDocumentFile(path)
}

// ListRounds returns all stored rounds ordered by ascending round id.
func (s *FileStore) ListRounds(ctx context.Context) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "read rounds dir")
	}

	var records []Record
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		roundID, err := strconv.Atoi(entry.Name())
		if err != nil {
			continue
		}
		rec, err := s.readRecord(roundID)
		if err != nil {
			continue
		}
		records = append(records, rec)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].RoundID < records[j].RoundID })
	return records, nil
}

// Close does nothing for the file backend.
func (s *FileStore) Close() error { return nil }

func (s *FileStore) recordPath(roundID int) string {
	return filepath.Join(s.roundDir(roundID), "record.json")
}

func (s *FileStore) readRecord(roundID int) (Record, error) {
	data, err := os.ReadFile(s.recordPath(roundID))
	if err != nil {
		return Record{}, err
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Record{}, errors.Wrap(errors.ErrCodeStore, err, "parse record")
	}
	return rec, nil
}

func (s *FileStore) writeRecord(rec Record) error {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "marshal record")
	}
	if err := os.WriteFile(s.recordPath(rec.RoundID), data, 0o600); err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "write record")
	}
	return nil
}

var _ Store = (*FileStore)(nil)
