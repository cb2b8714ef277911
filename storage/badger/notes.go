package badger

import (
	"context"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/notewise/core"
	"github.com/poiesic/notewise/similarity"
	"github.com/poiesic/notewise/storage"
)

// NoteRepository implements storage.NoteRepository for BadgerDB.
type NoteRepository struct {
	backend *Backend
	idSeq   *badger.Sequence
}

var _ storage.NoteRepository = (*NoteRepository)(nil)

// NewNoteRepository creates a new NoteRepository.
func NewNoteRepository(backend *Backend) (*NoteRepository, error) {
	idSeq, err := backend.GetSequence(noteIDSeq)
	if err != nil {
		return nil, err
	}

	return &NoteRepository{
		backend: backend,
		idSeq:   idSeq,
	}, nil
}

// Close releases the ID sequence.
func (r *NoteRepository) Close() error {
	return r.idSeq.Release()
}

// WithTransaction delegates to the backend.
func (r *NoteRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// AddNotes adds one or more notes to storage.
func (r *NoteRepository) AddNotes(ctx context.Context, notes ...*core.Note) ([]*core.Note, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, note := range notes {
			if note.Id == 0 {
				nextID, err := r.idSeq.Next()
				if err != nil {
					return err
				}
				// BadgerDB sequences can return 0 on first call, so we skip it
				if nextID == 0 {
					nextID, err = r.idSeq.Next()
					if err != nil {
						return err
					}
				}
				note.Id = core.ID(nextID)
			}

			if note.CreatedAt.IsZero() {
				note.CreatedAt = time.Now().UTC()
			}
			note.UpdatedAt = note.CreatedAt

			// Store primary record
			key := makeNoteKey(note.Id)
			value := storage.MarshalNote(note)
			if err := tx.Set(key, value); err != nil {
				return err
			}

			// Update creation-date index
			dateKey := makeNoteDateKey(note.CreatedAt, note.Id)
			if err := tx.Set(dateKey, storage.MarshalID(note.Id)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return notes, err
}

// UpdateNotes updates existing notes.
func (r *NoteRepository) UpdateNotes(ctx context.Context, notes ...*core.Note) ([]*core.Note, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, note := range notes {
			key := makeNoteKey(note.Id)

			old, err := r.readNote(tx, key)
			if err != nil {
				return err
			}
			if old == nil {
				return storage.ErrNotFound
			}

			// Creation time is immutable
			note.CreatedAt = old.CreatedAt
			note.UpdatedAt = time.Now().UTC()

			value := storage.MarshalNote(note)
			if err := tx.Set(key, value); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return notes, err
}

// DeleteNotes removes notes by their IDs.
func (r *NoteRepository) DeleteNotes(ctx context.Context, ids ...core.ID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makeNoteKey(id)

			// Read record to get metadata for index cleanup
			note, err := r.readNote(tx, key)
			if err != nil {
				return err
			}
			if note == nil {
				return storage.ErrNotFound
			}

			dateKey := makeNoteDateKey(note.CreatedAt, note.Id)
			if err := tx.Delete(dateKey); err != nil {
				return err
			}

			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetNote retrieves a single note by ID.
func (r *NoteRepository) GetNote(ctx context.Context, id core.ID) (*core.Note, error) {
	var result *core.Note
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeNoteKey(id)
		var err error
		result, err = r.readNote(tx, key)
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

// GetNotes retrieves multiple notes by their IDs.
func (r *NoteRepository) GetNotes(ctx context.Context, ids ...core.ID) ([]*core.Note, error) {
	var result []*core.Note
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makeNoteKey(id)
			note, err := r.readNote(tx, key)
			if err != nil {
				return err
			}
			if note != nil {
				result = append(result, note)
			}
		}
		return nil
	}, false)
	return result, err
}

// GetAllNotes retrieves every stored note.
func (r *NoteRepository) GetAllNotes(ctx context.Context) ([]*core.Note, error) {
	var results []*core.Note
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(notePrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var note *core.Note
			err := iter.Item().Value(func(val []byte) error {
				var err error
				note, err = storage.UnmarshalNote(val)
				return err
			})
			if err != nil {
				return err
			}
			if note != nil {
				results = append(results, note)
			}
		}
		return nil
	}, false)
	return results, err
}

// GetNotesByDateRange retrieves notes created within a time range.
func (r *NoteRepository) GetNotesByDateRange(ctx context.Context, start, end time.Time) ([]*core.Note, error) {
	if start.Equal(end) {
		end = start.Add(1 * time.Microsecond)
	}

	var results []*core.Note
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		startKey := makePartialNoteDateKey(start)
		endKey := makePartialNoteDateKey(end)
		iter := tx.NewIterator(badger.DefaultIteratorOptions)
		defer iter.Close()

		for iter.Seek(startKey); iter.Valid(); iter.Next() {
			key := iter.Item().Key()
			if slices.Compare(key, endKey) > 0 {
				break
			}

			var noteID core.ID
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				noteID, err = storage.UnmarshalID(val)
				return err
			}); err != nil {
				return err
			}

			noteKey := makeNoteKey(noteID)
			note, err := r.readNote(tx, noteKey)
			if err != nil {
				return err
			}
			if note != nil {
				results = append(results, note)
			}
		}
		return nil
	}, false)

	return results, err
}

// GetRecentNotes retrieves the N most recently created notes, newest first.
func (r *NoteRepository) GetRecentNotes(ctx context.Context, limit int) ([]*core.Note, error) {
	var results []*core.Note
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true

		iter := tx.NewIterator(opts)
		defer iter.Close()

		// Seek to the last possible key in the date index
		startKey := makePartialNoteDateKey(time.Date(9999, 12, 31, 23, 59, 59, 999999999, time.UTC))
		prefix := []byte(noteDatePrefix + ":")

		count := 0
		for iter.Seek(startKey); iter.Valid() && count < limit; iter.Next() {
			key := iter.Item().Key()
			if len(key) < len(prefix) || slices.Compare(key[:len(prefix)], prefix) != 0 {
				break
			}

			var noteID core.ID
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				noteID, err = storage.UnmarshalID(val)
				return err
			}); err != nil {
				return err
			}

			noteKey := makeNoteKey(noteID)
			note, err := r.readNote(tx, noteKey)
			if err != nil {
				return err
			}
			if note != nil {
				results = append(results, note)
				count++
			}
		}
		return nil
	}, false)

	return results, err
}

// FindSimilar finds notes whose fingerprint aligns with the given one.
func (r *NoteRepository) FindSimilar(ctx context.Context, fingerprint core.Fingerprint, minScore float32, limit int) ([]*core.SearchResult, error) {
	var results []*core.SearchResult

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(notePrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var note *core.Note
			err := iter.Item().Value(func(val []byte) error {
				var err error
				note, err = storage.UnmarshalNote(val)
				return err
			})
			if err != nil {
				return err
			}
			if note == nil || note.Embedding.IsZero() {
				continue
			}

			score := similarity.Vector(fingerprint, note.Embedding)
			if score >= minScore {
				results = append(results, &core.SearchResult{
					Note:  note,
					Score: score,
				})
			}
		}
		return nil
	}, false)

	if err != nil {
		return nil, err
	}

	// Sort by score descending
	slices.SortStableFunc(results, func(a, b *core.SearchResult) int {
		if a.Score > b.Score {
			return -1
		}
		if a.Score < b.Score {
			return 1
		}
		return 0
	})

	if len(results) > limit {
		results = results[:limit]
	}

	return results, nil
}

// readNote reads a note from the transaction.
func (r *NoteRepository) readNote(tx *badger.Txn, key []byte) (*core.Note, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var note *core.Note
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		note, unmarshalErr = storage.UnmarshalNote(val)
		return unmarshalErr
	})
	return note, err
}
