package badger

import (
	"context"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/notewise/core"
	"github.com/poiesic/notewise/storage"
)

// TaskRepository implements storage.TaskRepository for BadgerDB.
type TaskRepository struct {
	backend *Backend
	idSeq   *badger.Sequence
}

var _ storage.TaskRepository = (*TaskRepository)(nil)

// NewTaskRepository creates a new TaskRepository.
func NewTaskRepository(backend *Backend) (*TaskRepository, error) {
	idSeq, err := backend.GetSequence(taskIDSeq)
	if err != nil {
		return nil, err
	}

	return &TaskRepository{
		backend: backend,
		idSeq:   idSeq,
	}, nil
}

// Close releases the ID sequence.
func (r *TaskRepository) Close() error {
	return r.idSeq.Release()
}

// WithTransaction delegates to the backend.
func (r *TaskRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// AddTasks adds one or more tasks to storage.
func (r *TaskRepository) AddTasks(ctx context.Context, tasks ...*core.Task) ([]*core.Task, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, task := range tasks {
			if task.Id == 0 {
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
				task.Id = core.ID(nextID)
			}

			if task.CreatedAt.IsZero() {
				task.CreatedAt = time.Now().UTC()
			}
			task.UpdatedAt = task.CreatedAt

			if err := r.writeTask(tx, task); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return tasks, err
}

// UpdateTasks updates existing tasks.
func (r *TaskRepository) UpdateTasks(ctx context.Context, tasks ...*core.Task) ([]*core.Task, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, task := range tasks {
			key := makeTaskKey(task.Id)

			old, err := r.readTask(tx, key)
			if err != nil {
				return err
			}
			if old == nil {
				return storage.ErrNotFound
			}

			task.CreatedAt = old.CreatedAt
			task.UpdatedAt = time.Now().UTC()

			// Retire the old completion-date index entry
			if old.Completed {
				if err := tx.Delete(makeTaskDoneKey(core.DateKey(old.UpdatedAt), old.Id)); err != nil {
					return err
				}
			}
			if old.NoteId != task.NoteId {
				if err := tx.Delete(makeTaskNoteKey(old.NoteId, old.Id)); err != nil {
					return err
				}
			}

			if err := r.writeTask(tx, task); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return tasks, err
}

// DeleteTasks removes tasks by their IDs.
func (r *TaskRepository) DeleteTasks(ctx context.Context, ids ...core.ID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makeTaskKey(id)

			task, err := r.readTask(tx, key)
			if err != nil {
				return err
			}
			if task == nil {
				return storage.ErrNotFound
			}

			if err := tx.Delete(makeTaskNoteKey(task.NoteId, task.Id)); err != nil {
				return err
			}
			if task.Completed {
				if err := tx.Delete(makeTaskDoneKey(core.DateKey(task.UpdatedAt), task.Id)); err != nil {
					return err
				}
			}
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetTask retrieves a single task by ID.
func (r *TaskRepository) GetTask(ctx context.Context, id core.ID) (*core.Task, error) {
	var result *core.Task
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeTaskKey(id)
		var err error
		result, err = r.readTask(tx, key)
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

// GetTasks retrieves multiple tasks by their IDs.
func (r *TaskRepository) GetTasks(ctx context.Context, ids ...core.ID) ([]*core.Task, error) {
	var result []*core.Task
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			task, err := r.readTask(tx, makeTaskKey(id))
			if err != nil {
				return err
			}
			if task != nil {
				result = append(result, task)
			}
		}
		return nil
	}, false)
	return result, err
}

// GetAllTasks retrieves every stored task.
func (r *TaskRepository) GetAllTasks(ctx context.Context) ([]*core.Task, error) {
	return r.scanTasks(func(*core.Task) bool { return true })
}

// GetOpenTasks retrieves tasks that are not yet completed.
func (r *TaskRepository) GetOpenTasks(ctx context.Context) ([]*core.Task, error) {
	return r.scanTasks(func(task *core.Task) bool { return !task.Completed })
}

// GetTasksByNote retrieves tasks extracted from the given note.
func (r *TaskRepository) GetTasksByNote(ctx context.Context, noteId core.ID) ([]*core.Task, error) {
	var results []*core.Task
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		startKey := makePartialTaskNoteKey(noteId)
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

			var taskID core.ID
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				taskID, err = storage.UnmarshalID(val)
				return err
			}); err != nil {
				return err
			}

			task, err := r.readTask(tx, makeTaskKey(taskID))
			if err != nil {
				return err
			}
			if task != nil {
				results = append(results, task)
			}
		}
		return nil
	}, false)
	return results, err
}

// GetTasksCompletedOn retrieves tasks completed on the given date.
func (r *TaskRepository) GetTasksCompletedOn(ctx context.Context, date string) ([]*core.Task, error) {
	var results []*core.Task
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		startKey := makePartialTaskDoneKey(date)
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

			var taskID core.ID
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				taskID, err = storage.UnmarshalID(val)
				return err
			}); err != nil {
				return err
			}

			task, err := r.readTask(tx, makeTaskKey(taskID))
			if err != nil {
				return err
			}
			if task != nil {
				results = append(results, task)
			}
		}
		return nil
	}, false)
	return results, err
}

// writeTask stores the primary record and its index entries.
func (r *TaskRepository) writeTask(tx *badger.Txn, task *core.Task) error {
	key := makeTaskKey(task.Id)
	value := storage.MarshalTask(task)
	if err := tx.Set(key, value); err != nil {
		return err
	}

	noteKey := makeTaskNoteKey(task.NoteId, task.Id)
	if err := tx.Set(noteKey, storage.MarshalID(task.Id)); err != nil {
		return err
	}

	if task.Completed {
		doneKey := makeTaskDoneKey(core.DateKey(task.UpdatedAt), task.Id)
		if err := tx.Set(doneKey, storage.MarshalID(task.Id)); err != nil {
			return err
		}
	}
	return nil
}

// scanTasks iterates all primary task records, keeping those the filter accepts.
func (r *TaskRepository) scanTasks(keep func(*core.Task) bool) ([]*core.Task, error) {
	var results []*core.Task
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(taskPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var task *core.Task
			err := iter.Item().Value(func(val []byte) error {
				var err error
				task, err = storage.UnmarshalTask(val)
				return err
			})
			if err != nil {
				return err
			}
			if task != nil && keep(task) {
				results = append(results, task)
			}
		}
		return nil
	}, false)
	return results, err
}

// readTask reads a task from the transaction.
func (r *TaskRepository) readTask(tx *badger.Txn, key []byte) (*core.Task, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var task *core.Task
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		task, unmarshalErr = storage.UnmarshalTask(val)
		return unmarshalErr
	})
	return task, err
}
