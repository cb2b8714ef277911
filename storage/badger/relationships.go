package badger

import (
	"context"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/notewise/core"
	"github.com/poiesic/notewise/storage"
)

// RelationshipRepository implements storage.RelationshipRepository for BadgerDB.
//
// Edges are keyed by their unordered pair ID, so storing an edge for a pair
// that already has one is a replacement. A per-note reference index lets
// either endpoint find its edges.
type RelationshipRepository struct {
	backend *Backend
}

var _ storage.RelationshipRepository = (*RelationshipRepository)(nil)

// NewRelationshipRepository creates a new RelationshipRepository.
func NewRelationshipRepository(backend *Backend) (*RelationshipRepository, error) {
	return &RelationshipRepository{backend: backend}, nil
}

// Close is a no-op; the repository holds no resources of its own.
func (r *RelationshipRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *RelationshipRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// UpsertRelationships stores relationships, replacing any existing edge for
// the same unordered note pair.
func (r *RelationshipRepository) UpsertRelationships(ctx context.Context, relationships ...*core.Relationship) ([]*core.Relationship, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, relationship := range relationships {
			relationship.UpdatedAt = time.Now().UTC()

			pairId := relationship.PairKey()
			key := makeRelationshipKey(pairId)
			value := storage.MarshalRelationship(relationship)
			if err := tx.Set(key, value); err != nil {
				return err
			}

			// Index both endpoints
			sourceRef := makeRelationshipRefKey(relationship.SourceId, pairId)
			if err := tx.Set(sourceRef, storage.MarshalID(pairId)); err != nil {
				return err
			}
			targetRef := makeRelationshipRefKey(relationship.TargetId, pairId)
			if err := tx.Set(targetRef, storage.MarshalID(pairId)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return relationships, err
}

// DeleteRelationshipsFor removes every edge touching the given note.
func (r *RelationshipRepository) DeleteRelationshipsFor(ctx context.Context, noteId core.ID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		pairIds, err := r.pairIdsFor(tx, noteId)
		if err != nil {
			return err
		}

		for _, pairId := range pairIds {
			key := makeRelationshipKey(pairId)
			relationship, err := r.readRelationship(tx, key)
			if err != nil {
				return err
			}
			if relationship == nil {
				continue
			}

			if err := tx.Delete(makeRelationshipRefKey(relationship.SourceId, pairId)); err != nil {
				return err
			}
			if err := tx.Delete(makeRelationshipRefKey(relationship.TargetId, pairId)); err != nil {
				return err
			}
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetRelationships retrieves all edges touching the given note.
func (r *RelationshipRepository) GetRelationships(ctx context.Context, noteId core.ID) ([]*core.Relationship, error) {
	var results []*core.Relationship
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		pairIds, err := r.pairIdsFor(tx, noteId)
		if err != nil {
			return err
		}

		for _, pairId := range pairIds {
			relationship, err := r.readRelationship(tx, makeRelationshipKey(pairId))
			if err != nil {
				return err
			}
			if relationship != nil {
				results = append(results, relationship)
			}
		}
		return nil
	}, false)
	return results, err
}

// GetAllRelationships retrieves every stored edge.
func (r *RelationshipRepository) GetAllRelationships(ctx context.Context) ([]*core.Relationship, error) {
	var results []*core.Relationship
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(relationPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var relationship *core.Relationship
			err := iter.Item().Value(func(val []byte) error {
				var err error
				relationship, err = storage.UnmarshalRelationship(val)
				return err
			})
			if err != nil {
				return err
			}
			if relationship != nil {
				results = append(results, relationship)
			}
		}
		return nil
	}, false)
	return results, err
}

// pairIdsFor reads the per-note reference index.
func (r *RelationshipRepository) pairIdsFor(tx *badger.Txn, noteId core.ID) ([]core.ID, error) {
	var pairIds []core.ID

	startKey := makePartialRelationshipRefKey(noteId)
	iter := tx.NewIterator(badger.DefaultIteratorOptions)
	defer iter.Close()

	for iter.Seek(startKey); iter.Valid(); iter.Next() {
		key := iter.Item().Key()
		if len(key) < len(startKey) {
			break
		}
		if slices.Compare(key[:len(startKey)], startKey) != 0 {
			break
		}

		var pairId core.ID
		err := iter.Item().Value(func(val []byte) error {
			var err error
			pairId, err = storage.UnmarshalID(val)
			return err
		})
		if err != nil {
			return nil, err
		}
		pairIds = append(pairIds, pairId)
	}
	return pairIds, nil
}

// readRelationship reads an edge from the transaction.
func (r *RelationshipRepository) readRelationship(tx *badger.Txn, key []byte) (*core.Relationship, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var relationship *core.Relationship
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		relationship, unmarshalErr = storage.UnmarshalRelationship(val)
		return unmarshalErr
	})
	return relationship, err
}
