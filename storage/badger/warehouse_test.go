package badger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/JedouEdu/digiEduHack-hackathon/core"
	"github.com/JedouEdu/digiEduHack-hackathon/storage"
)

func TestWarehouseTableRoundTrip(t *testing.T) {
	_, warehouse, _, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer backend.Close()

	ctx := context.Background()

	table := &core.NormalizedTable{
		TableType: "assessment",
		RegionID:  "praha",
		RecordID:  "rec-1",
		Columns:   []string{"student_id", "score"},
		Rows: [][]core.Cell{
			{core.StringCell("S001"), core.NumberCell(87.5)},
			{core.StringCell("S002"), core.NullCell()},
		},
	}

	stats, err := warehouse.InsertTable(ctx, table)
	if err != nil {
		t.Fatalf("Failed to insert table: %v", err)
	}
	if stats.RowsLoaded != 2 {
		t.Fatalf("Expected 2 rows loaded, got %d", stats.RowsLoaded)
	}
	if stats.BytesProcessed <= 0 {
		t.Fatalf("Expected positive byte count, got %d", stats.BytesProcessed)
	}

	retrieved, err := warehouse.GetTable(ctx, "rec-1")
	if err != nil {
		t.Fatalf("Failed to get table: %v", err)
	}
	if retrieved.TableType != "assessment" || len(retrieved.Rows) != 2 {
		t.Fatalf("Unexpected table: type=%s rows=%d", retrieved.TableType, len(retrieved.Rows))
	}

	if _, err := warehouse.GetTable(ctx, "missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}

func TestWarehouseTableReingestOverwrites(t *testing.T) {
	_, warehouse, _, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer backend.Close()

	ctx := context.Background()

	first := &core.NormalizedTable{
		TableType: "assessment",
		RecordID:  "rec-1",
		Columns:   []string{"score"},
		Rows:      [][]core.Cell{{core.NumberCell(50)}},
	}
	if _, err := warehouse.InsertTable(ctx, first); err != nil {
		t.Fatalf("Failed to insert table: %v", err)
	}

	second := &core.NormalizedTable{
		TableType: "assessment",
		RecordID:  "rec-1",
		Columns:   []string{"score"},
		Rows:      [][]core.Cell{{core.NumberCell(60)}, {core.NumberCell(70)}},
	}
	if _, err := warehouse.InsertTable(ctx, second); err != nil {
		t.Fatalf("Failed to re-insert table: %v", err)
	}

	retrieved, err := warehouse.GetTable(ctx, "rec-1")
	if err != nil {
		t.Fatalf("Failed to get table: %v", err)
	}
	if len(retrieved.Rows) != 2 {
		t.Fatalf("Expected re-ingested table with 2 rows, got %d", len(retrieved.Rows))
	}
}

func TestWarehouseObservationRoundTrip(t *testing.T) {
	_, warehouse, _, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer backend.Close()

	ctx := context.Background()

	obs := &core.Observation{
		RecordID:        "rec-1",
		RegionID:        "praha",
		Text:            "Pani Novakova vysvetluje matematiku skvele.",
		Mentions:        []core.ObservedMention{{Text: "Novakova", Kind: "person"}},
		SentimentScore:  0.8,
		ContentType:     "text",
		IngestTimestamp: time.Now().UTC().Truncate(time.Microsecond),
	}
	targets := []core.ObservationTarget{
		{ObservationID: "rec-1", TargetType: core.EntityTeacher, TargetID: "T-1", RelevanceScore: 0.92, Confidence: core.ConfidenceHigh},
	}

	if err := warehouse.InsertObservation(ctx, obs, targets); err != nil {
		t.Fatalf("Failed to insert observation: %v", err)
	}

	gotObs, gotTargets, err := warehouse.GetObservation(ctx, "rec-1")
	if err != nil {
		t.Fatalf("Failed to get observation: %v", err)
	}
	if gotObs.SentimentScore != 0.8 {
		t.Fatalf("Expected sentiment 0.8, got %v", gotObs.SentimentScore)
	}
	if len(gotTargets) != 1 || gotTargets[0].TargetID != "T-1" {
		t.Fatalf("Unexpected targets: %v", gotTargets)
	}

	if _, _, err := warehouse.GetObservation(ctx, "missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}

func TestWarehouseObservationInvalid(t *testing.T) {
	_, warehouse, _, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer backend.Close()

	obs := &core.Observation{RecordID: "", Text: "text"}
	if err := warehouse.InsertObservation(context.Background(), obs, nil); !errors.Is(err, core.ErrInvalidObservation) {
		t.Fatalf("Expected ErrInvalidObservation, got %v", err)
	}
}

func TestWarehouseFeedbackTargetsAppend(t *testing.T) {
	_, warehouse, _, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer backend.Close()

	ctx := context.Background()

	err = warehouse.InsertFeedbackTargets(ctx,
		core.FeedbackTarget{FeedbackID: "fb-1", TargetType: core.EntityTeacher, TargetID: "T-1", RelevanceScore: 0.9, Confidence: core.ConfidenceHigh},
		core.FeedbackTarget{FeedbackID: "fb-2", TargetType: core.EntitySubject, TargetID: "SUB-1", RelevanceScore: 0.7, Confidence: core.ConfidenceMedium},
	)
	if err != nil {
		t.Fatalf("Failed to insert targets: %v", err)
	}

	// Second batch appends to fb-1
	err = warehouse.InsertFeedbackTargets(ctx,
		core.FeedbackTarget{FeedbackID: "fb-1", TargetType: core.EntitySchool, TargetID: "SCH-1", RelevanceScore: 0.8, Confidence: core.ConfidenceHigh},
	)
	if err != nil {
		t.Fatalf("Failed to append targets: %v", err)
	}

	fb1, err := warehouse.GetFeedbackTargets(ctx, "fb-1")
	if err != nil {
		t.Fatalf("Failed to get targets: %v", err)
	}
	if len(fb1) != 2 {
		t.Fatalf("Expected 2 targets for fb-1, got %d", len(fb1))
	}

	fb2, err := warehouse.GetFeedbackTargets(ctx, "fb-2")
	if err != nil {
		t.Fatalf("Failed to get targets: %v", err)
	}
	if len(fb2) != 1 {
		t.Fatalf("Expected 1 target for fb-2, got %d", len(fb2))
	}

	none, err := warehouse.GetFeedbackTargets(ctx, "fb-missing")
	if err != nil {
		t.Fatalf("Expected no error for missing feedback, got %v", err)
	}
	if len(none) != 0 {
		t.Fatalf("Expected no targets, got %d", len(none))
	}
}
