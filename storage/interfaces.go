package storage

import (
	"context"

	"github.com/JedouEdu/digiEduHack-hackathon/core"
)

// Repository provides common storage operations shared across all repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the storage backend and releases resources.
	Close() error
}

// EntityRepository provides operations for the entity dimension store.
type EntityRepository interface {
	Repository

	// SaveEntities upserts one or more entities.
	// Sets InsertedAt on first write and refreshes UpdatedAt on every write.
	// Returns the entities with timestamps populated.
	SaveEntities(ctx context.Context, entities ...*core.Entity) ([]*core.Entity, error)

	// GetEntity retrieves a single entity by its canonical ID.
	// Returns ErrNotFound if the entity doesn't exist.
	GetEntity(ctx context.Context, id string) (*core.Entity, error)

	// LoadRegion retrieves every entity belonging to a region.
	// The result feeds the in-memory resolution cache.
	LoadRegion(ctx context.Context, region string) ([]*core.Entity, error)

	// DeleteEntities removes entities by their canonical IDs.
	// Returns ErrNotFound if any entity doesn't exist.
	DeleteEntities(ctx context.Context, ids ...string) error
}

// TableStats reports what a warehouse write consumed.
type TableStats struct {
	RowsLoaded     int
	BytesProcessed int64
}

// Warehouse provides operations for normalized fact data: tables from the
// tabular path, observations and targets from the free-form path.
// Re-ingesting a record overwrites its table; observations and targets
// are append-only.
type Warehouse interface {
	Repository

	// InsertTable stores a normalized table keyed by its record ID.
	// Returns the row and byte counts of the stored form.
	InsertTable(ctx context.Context, table *core.NormalizedTable) (*TableStats, error)

	// GetTable retrieves a normalized table by record ID.
	// Returns ErrNotFound if no table was stored for the record.
	GetTable(ctx context.Context, recordID string) (*core.NormalizedTable, error)

	// InsertObservation stores an observation and its resolved targets.
	InsertObservation(ctx context.Context, obs *core.Observation, targets []core.ObservationTarget) error

	// GetObservation retrieves an observation and its targets by record ID.
	// Returns ErrNotFound if the observation doesn't exist.
	GetObservation(ctx context.Context, recordID string) (*core.Observation, []core.ObservationTarget, error)

	// InsertFeedbackTargets appends feedback targets from a batch analysis.
	InsertFeedbackTargets(ctx context.Context, targets ...core.FeedbackTarget) error

	// GetFeedbackTargets retrieves all targets recorded for a feedback row.
	GetFeedbackTargets(ctx context.Context, feedbackID string) ([]core.FeedbackTarget, error)
}

// RunRepository keeps the audit trail of ingestion runs.
type RunRepository interface {
	Repository

	// RecordRun stores the result of one ingestion call.
	// Sets CompletedAt if not already set. Re-runs of the same record
	// overwrite the previous result.
	RecordRun(ctx context.Context, result *core.IngestResult) error

	// GetRun retrieves the last recorded result for a record.
	// Returns ErrNotFound if the record was never ingested.
	GetRun(ctx context.Context, recordID string) (*core.IngestResult, error)

	// RecentRuns retrieves up to limit results, most recent first.
	RecentRuns(ctx context.Context, limit int) ([]*core.IngestResult, error)
}
