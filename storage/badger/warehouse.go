package badger

import (
	"context"

	"github.com/dgraph-io/badger/v4"

	"github.com/JedouEdu/digiEduHack-hackathon/core"
	"github.com/JedouEdu/digiEduHack-hackathon/storage"
)

// Warehouse implements storage.Warehouse for BadgerDB.
type Warehouse struct {
	backend *Backend
}

var _ storage.Warehouse = (*Warehouse)(nil)

// NewWarehouse creates a new Warehouse.
func NewWarehouse(backend *Backend) (storage.Warehouse, error) {
	return &Warehouse{
		backend: backend,
	}, nil
}

// Close releases resources. Warehouse has no resources to release.
func (w *Warehouse) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (w *Warehouse) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return w.backend.WithTransaction(ctx, fn)
}

// InsertTable stores a normalized table keyed by its record ID.
// Re-ingesting a record replaces its previous table.
func (w *Warehouse) InsertTable(ctx context.Context, table *core.NormalizedTable) (*storage.TableStats, error) {
	if table.RecordID == "" {
		return nil, core.ErrEmptyRecordID
	}

	value := storage.MarshalNormalizedTable(table)
	err := w.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Set(makeTableKey(table.RecordID), value); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return nil, err
	}

	return &storage.TableStats{
		RowsLoaded:     len(table.Rows),
		BytesProcessed: int64(len(value)),
	}, nil
}

// GetTable retrieves a normalized table by record ID.
func (w *Warehouse) GetTable(ctx context.Context, recordID string) (*core.NormalizedTable, error) {
	var result *core.NormalizedTable
	err := w.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeTableKey(recordID))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return storage.ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			result, err = storage.UnmarshalNormalizedTable(val)
			return err
		})
	}, false)
	return result, err
}

// InsertObservation stores an observation and its resolved targets.
func (w *Warehouse) InsertObservation(ctx context.Context, obs *core.Observation, targets []core.ObservationTarget) error {
	if err := core.ValidateObservation(obs); err != nil {
		return err
	}

	return w.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Set(makeObservationKey(obs.RecordID), storage.MarshalObservation(obs)); err != nil {
			return err
		}
		if err := tx.Set(makeObservationTargetsKey(obs.RecordID), storage.MarshalObservationTargets(targets)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// GetObservation retrieves an observation and its targets by record ID.
func (w *Warehouse) GetObservation(ctx context.Context, recordID string) (*core.Observation, []core.ObservationTarget, error) {
	var (
		obs     *core.Observation
		targets []core.ObservationTarget
	)
	err := w.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeObservationKey(recordID))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return storage.ErrNotFound
			}
			return err
		}
		err = item.Value(func(val []byte) error {
			obs, err = storage.UnmarshalObservation(val)
			return err
		})
		if err != nil {
			return err
		}

		item, err = tx.Get(makeObservationTargetsKey(recordID))
		if err != nil {
			// Targets may legitimately be absent.
			if err == badger.ErrKeyNotFound {
				return nil
			}
			return err
		}
		return item.Value(func(val []byte) error {
			targets, err = storage.UnmarshalObservationTargets(val)
			return err
		})
	}, false)
	return obs, targets, err
}

// InsertFeedbackTargets appends feedback targets, merging with any targets
// already recorded for the same feedback row.
func (w *Warehouse) InsertFeedbackTargets(ctx context.Context, targets ...core.FeedbackTarget) error {
	byFeedback := make(map[string][]core.FeedbackTarget)
	order := make([]string, 0)
	for _, t := range targets {
		if _, ok := byFeedback[t.FeedbackID]; !ok {
			order = append(order, t.FeedbackID)
		}
		byFeedback[t.FeedbackID] = append(byFeedback[t.FeedbackID], t)
	}

	return w.backend.WithTx(func(tx *badger.Txn) error {
		for _, feedbackID := range order {
			key := makeFeedbackTargetsKey(feedbackID)

			existing, err := readFeedbackTargets(tx, key)
			if err != nil {
				return err
			}
			merged := append(existing, byFeedback[feedbackID]...)

			if err := tx.Set(key, storage.MarshalFeedbackTargets(merged)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetFeedbackTargets retrieves all targets recorded for a feedback row.
func (w *Warehouse) GetFeedbackTargets(ctx context.Context, feedbackID string) ([]core.FeedbackTarget, error) {
	var results []core.FeedbackTarget
	err := w.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		results, err = readFeedbackTargets(tx, makeFeedbackTargetsKey(feedbackID))
		return err
	}, false)
	return results, err
}

// readFeedbackTargets reads a feedback target list. Missing keys return
// (nil, nil).
func readFeedbackTargets(tx *badger.Txn, key []byte) ([]core.FeedbackTarget, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var targets []core.FeedbackTarget
	err = item.Value(func(val []byte) error {
		targets, err = storage.UnmarshalFeedbackTargets(val)
		return err
	})
	return targets, err
}
