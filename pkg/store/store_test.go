package store

import (
	"context"
	"testing"

	"github.com/archsketch/archsketch/pkg/arch"
	"github.com/archsketch/archsketch/pkg/diagram"
	"github.com/archsketch/archsketch/pkg/errors"
)

func testSnapshot(roundID int, title string) arch.Snapshot {
	return arch.Snapshot{
		RoundID:    roundID,
		RoundTitle: title,
		Architecture: arch.Architecture{
			Nodes: []arch.Node{{ID: "api", Label: "API", Type: arch.TypeService}},
		},
	}
}

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore error: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestFileStoreSnapshotRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	snap := testSnapshot(1, "Baseline")
	rec, err := s.PutSnapshot(ctx, snap)
	if err != nil {
		t.Fatalf("PutSnapshot error: %v", err)
	}
	if rec.ID == "" {
		t.Error("record id should be assigned")
	}
	if rec.RoundID != 1 || rec.RoundTitle != "Baseline" {
		t.Errorf("record = %+v", rec)
	}
	if rec.SnapshotHash != snap.Hash() {
		t.Error("record hash should match snapshot hash")
	}
	if rec.HasDocument {
		t.Error("fresh round should have no document")
	}

	got, err := s.GetSnapshot(ctx, 1)
	if err != nil {
		t.Fatalf("GetSnapshot error: %v", err)
	}
	if got.RoundTitle != "Baseline" || len(got.Architecture.Nodes) != 1 {
		t.Errorf("GetSnapshot = %+v", got)
	}
}

func TestFileStoreReplaceKeepsRecordID(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	first, err := s.PutSnapshot(ctx, testSnapshot(1, "Baseline"))
	if err != nil {
		t.Fatalf("PutSnapshot error: %v", err)
	}
	second, err := s.PutSnapshot(ctx, testSnapshot(1, "Baseline v2"))
	if err != nil {
		t.Fatalf("PutSnapshot error: %v", err)
	}
	if second.ID != first.ID {
		t.Error("re-storing a round should keep its record id")
	}
	if second.RoundTitle != "Baseline v2" {
		t.Errorf("title = %q, want updated title", second.RoundTitle)
	}

	got, err := s.GetSnapshot(ctx, 1)
	if err != nil {
		t.Fatalf("GetSnapshot error: %v", err)
	}
	if got.RoundTitle != "Baseline v2" {
		t.Error("snapshot should be replaced")
	}
}

func TestFileStoreRoundNotFound(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, err := s.GetSnapshot(ctx, 99)
	if errors.GetCode(err) != errors.ErrCodeRoundNotFound {
		t.Errorf("GetSnapshot code = %v, want ROUND_NOT_FOUND", errors.GetCode(err))
	}
	_, err = s.GetDocument(ctx, 99)
	if errors.GetCode(err) != errors.ErrCodeRoundNotFound {
		t.Errorf("GetDocument code = %v, want ROUND_NOT_FOUND", errors.GetCode(err))
	}
	err = s.PutDocument(ctx, 99, diagram.Document{Type: diagram.DocumentType})
	if errors.GetCode(err) != errors.ErrCodeRoundNotFound {
		t.Errorf("PutDocument code = %v, want ROUND_NOT_FOUND", errors.GetCode(err))
	}
}

func TestFileStoreDocumentRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	if _, err := s.PutSnapshot(ctx, testSnapshot(1, "Baseline")); err != nil {
		t.Fatalf("PutSnapshot error: %v", err)
	}

	doc := diagram.Document{
		Type:     diagram.DocumentType,
		Version:  diagram.DocumentVersion,
		Source:   diagram.DocumentSource,
		Elements: []diagram.Element{},
	}
	if err := s.PutDocument(ctx, 1, doc); err != nil {
		t.Fatalf("PutDocument error: %v", err)
	}

	got, err := s.GetDocument(ctx, 1)
	if err != nil {
		t.Fatalf("GetDocument error: %v", err)
	}
	if got.Type != diagram.DocumentType {
		t.Errorf("document type = %q", got.Type)
	}

	rounds, err := s.ListRounds(ctx)
	if err != nil {
		t.Fatalf("ListRounds error: %v", err)
	}
	if len(rounds) != 1 || !rounds[0].HasDocument {
		t.Errorf("rounds = %+v, want one round with document", rounds)
	}
}

func TestFileStoreListRoundsOrdered(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	for _, id := range []int{3, 1, 10, 2} {
		if _, err := s.PutSnapshot(ctx, testSnapshot(id, "round")); err != nil {
			t.Fatalf("PutSnapshot(%d) error: %v", id, err)
		}
	}

	rounds, err := s.ListRounds(ctx)
	if err != nil {
		t.Fatalf("ListRounds error: %v", err)
	}
	want := []int{1, 2, 3, 10}
	if len(rounds) != len(want) {
		t.Fatalf("rounds = %d, want %d", len(rounds), len(want))
	}
	for i, rec := range rounds {
		if rec.RoundID != want[i] {
			t.Errorf("rounds[%d].RoundID = %d, want %d", i, rec.RoundID, want[i])
		}
	}
}
