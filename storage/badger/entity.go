package badger

import (
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/JedouEdu/digiEduHack-hackathon/core"
	"github.com/JedouEdu/digiEduHack-hackathon/storage"
)

// EntityRepository implements storage.EntityRepository for BadgerDB.
type EntityRepository struct {
	backend *Backend
}

var _ storage.EntityRepository = (*EntityRepository)(nil)

// NewEntityRepository creates a new EntityRepository.
func NewEntityRepository(backend *Backend) (storage.EntityRepository, error) {
	return &EntityRepository{
		backend: backend,
	}, nil
}

// Close releases resources. EntityRepository has no resources to release.
func (r *EntityRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *EntityRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// SaveEntities upserts one or more entities with their region index.
func (r *EntityRepository) SaveEntities(ctx context.Context, entities ...*core.Entity) ([]*core.Entity, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, entity := range entities {
			if err := core.ValidateEntity(entity); err != nil {
				return err
			}

			key := makeEntityKey(entity.ID)

			// Preserve InsertedAt across upserts
			old, err := readEntity(tx, key)
			if err != nil {
				return err
			}
			now := time.Now().UTC()
			if old != nil {
				entity.InsertedAt = old.InsertedAt
			} else if entity.InsertedAt.IsZero() {
				entity.InsertedAt = now
			}
			entity.UpdatedAt = now

			if err := tx.Set(key, storage.MarshalEntity(entity)); err != nil {
				return err
			}

			regionKey := makeEntityRegionKey(entity.Region, entity.ID)
			if err := tx.Set(regionKey, []byte(entity.ID)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return entities, err
}

// GetEntity retrieves a single entity by its canonical ID.
func (r *EntityRepository) GetEntity(ctx context.Context, id string) (*core.Entity, error) {
	var result *core.Entity
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readEntity(tx, makeEntityKey(id))
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

// LoadRegion retrieves every entity belonging to a region via the region
// index.
func (r *EntityRepository) LoadRegion(ctx context.Context, region string) ([]*core.Entity, error) {
	var results []*core.Entity
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		prefix := makeEntityRegionScanPrefix(region)
		opts.Prefix = prefix
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Seek(prefix); iter.ValidForPrefix(prefix); iter.Next() {
			var id string
			err := iter.Item().Value(func(val []byte) error {
				id = string(val)
				return nil
			})
			if err != nil {
				return err
			}

			entity, err := readEntity(tx, makeEntityKey(id))
			if err != nil {
				return err
			}
			if entity != nil {
				results = append(results, entity)
			}
		}
		return nil
	}, false)

	return results, err
}

// DeleteEntities removes entities and their region index entries.
func (r *EntityRepository) DeleteEntities(ctx context.Context, ids ...string) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makeEntityKey(id)

			entity, err := readEntity(tx, key)
			if err != nil {
				return err
			}
			if entity == nil {
				return storage.ErrNotFound
			}

			if err := tx.Delete(makeEntityRegionKey(entity.Region, id)); err != nil {
				return err
			}
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// readEntity reads an entity from the transaction. Missing keys return
// (nil, nil).
func readEntity(tx *badger.Txn, key []byte) (*core.Entity, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var entity *core.Entity
	err = item.Value(func(val []byte) error {
		var err error
		entity, err = storage.UnmarshalEntity(val)
		return err
	})
	return entity, err
}
