package badger

import (
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/JedouEdu/digiEduHack-hackathon/core"
	"github.com/JedouEdu/digiEduHack-hackathon/storage"
)

// RunRepository implements storage.RunRepository for BadgerDB.
type RunRepository struct {
	backend *Backend
}

var _ storage.RunRepository = (*RunRepository)(nil)

// NewRunRepository creates a new RunRepository.
func NewRunRepository(backend *Backend) (storage.RunRepository, error) {
	return &RunRepository{
		backend: backend,
	}, nil
}

// Close releases resources. RunRepository has no resources to release.
func (r *RunRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *RunRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// RecordRun stores the result of one ingestion call and maintains the
// time index. Re-runs of the same record replace the previous result.
func (r *RunRepository) RecordRun(ctx context.Context, result *core.IngestResult) error {
	if result.RecordID == "" {
		return core.ErrEmptyRecordID
	}
	if result.CompletedAt.IsZero() {
		result.CompletedAt = time.Now().UTC()
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeRunKey(result.RecordID)

		// Drop the old time index entry before writing the new one
		old, err := readRun(tx, key)
		if err != nil {
			return err
		}
		if old != nil {
			if err := tx.Delete(makeRunTimeKey(old.CompletedAt, old.RecordID)); err != nil {
				return err
			}
		}

		if err := tx.Set(key, storage.MarshalIngestResult(result)); err != nil {
			return err
		}
		timeKey := makeRunTimeKey(result.CompletedAt, result.RecordID)
		if err := tx.Set(timeKey, []byte(result.RecordID)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// GetRun retrieves the last recorded result for a record.
func (r *RunRepository) GetRun(ctx context.Context, recordID string) (*core.IngestResult, error) {
	var result *core.IngestResult
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readRun(tx, makeRunKey(recordID))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// RecentRuns retrieves up to limit results, most recent first, by walking
// the time index in reverse.
func (r *RunRepository) RecentRuns(ctx context.Context, limit int) ([]*core.IngestResult, error) {
	var results []*core.IngestResult
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		prefix := []byte(runTimePrefix + ":")
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.Reverse = true
		iter := tx.NewIterator(opts)
		defer iter.Close()

		// Seek past every key under the prefix; 0xFF sorts after any
		// timestamp byte.
		seek := append(append([]byte{}, prefix...), 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF)
		for iter.Seek(seek); iter.ValidForPrefix(prefix) && len(results) < limit; iter.Next() {
			var recordID string
			err := iter.Item().Value(func(val []byte) error {
				recordID = string(val)
				return nil
			})
			if err != nil {
				return err
			}

			run, err := readRun(tx, makeRunKey(recordID))
			if err != nil {
				return err
			}
			if run != nil {
				results = append(results, run)
			}
		}
		return nil
	}, false)
	return results, err
}

// readRun reads a run result from the transaction. Missing keys return
// (nil, nil).
func readRun(tx *badger.Txn, key []byte) (*core.IngestResult, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var result *core.IngestResult
	err = item.Value(func(val []byte) error {
		var err error
		result, err = storage.UnmarshalIngestResult(val)
		return err
	})
	return result, err
}
