package badger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/JedouEdu/digiEduHack-hackathon/core"
	"github.com/JedouEdu/digiEduHack-hackathon/storage"
)

func TestRunRecordAndGet(t *testing.T) {
	_, _, runs, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer backend.Close()

	ctx := context.Background()

	result := &core.IngestResult{
		RecordID:         "rec-1",
		Status:           core.StatusIngested,
		TableType:        "assessment",
		RowsLoaded:       100,
		ProcessingTimeMS: 420,
	}
	if err := runs.RecordRun(ctx, result); err != nil {
		t.Fatalf("Failed to record run: %v", err)
	}
	if result.CompletedAt.IsZero() {
		t.Fatal("Expected CompletedAt to be set")
	}

	got, err := runs.GetRun(ctx, "rec-1")
	if err != nil {
		t.Fatalf("Failed to get run: %v", err)
	}
	if got.Status != core.StatusIngested || got.RowsLoaded != 100 {
		t.Fatalf("Unexpected run: %+v", got)
	}

	if _, err := runs.GetRun(ctx, "missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}

	if err := runs.RecordRun(ctx, &core.IngestResult{}); !errors.Is(err, core.ErrEmptyRecordID) {
		t.Fatalf("Expected ErrEmptyRecordID, got %v", err)
	}
}

func TestRunRerunOverwrites(t *testing.T) {
	_, _, runs, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer backend.Close()

	ctx := context.Background()
	base := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)

	first := &core.IngestResult{RecordID: "rec-1", Status: core.StatusFailed, CompletedAt: base}
	if err := runs.RecordRun(ctx, first); err != nil {
		t.Fatalf("Failed to record run: %v", err)
	}

	second := &core.IngestResult{RecordID: "rec-1", Status: core.StatusIngested, CompletedAt: base.Add(time.Hour)}
	if err := runs.RecordRun(ctx, second); err != nil {
		t.Fatalf("Failed to record rerun: %v", err)
	}

	got, err := runs.GetRun(ctx, "rec-1")
	if err != nil {
		t.Fatalf("Failed to get run: %v", err)
	}
	if got.Status != core.StatusIngested {
		t.Fatalf("Expected rerun status, got %s", got.Status)
	}

	// The stale time index entry is gone, so the record appears once.
	recent, err := runs.RecentRuns(ctx, 10)
	if err != nil {
		t.Fatalf("Failed to list runs: %v", err)
	}
	if len(recent) != 1 {
		t.Fatalf("Expected 1 run after rerun, got %d", len(recent))
	}
}

func TestRecentRunsOrderAndLimit(t *testing.T) {
	_, _, runs, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer backend.Close()

	ctx := context.Background()
	base := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)

	for i, id := range []string{"rec-a", "rec-b", "rec-c"} {
		result := &core.IngestResult{
			RecordID:    id,
			Status:      core.StatusIngested,
			CompletedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := runs.RecordRun(ctx, result); err != nil {
			t.Fatalf("Failed to record run %s: %v", id, err)
		}
	}

	recent, err := runs.RecentRuns(ctx, 2)
	if err != nil {
		t.Fatalf("Failed to list runs: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("Expected 2 runs, got %d", len(recent))
	}
	if recent[0].RecordID != "rec-c" || recent[1].RecordID != "rec-b" {
		t.Fatalf("Expected most recent first, got %s then %s", recent[0].RecordID, recent[1].RecordID)
	}
}
