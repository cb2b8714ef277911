package badger

import (
	"context"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/notewise/core"
	"github.com/poiesic/notewise/storage"
)

// ActivityRepository implements storage.ActivityRepository for BadgerDB.
// One record per date, updated read-modify-write inside a transaction.
type ActivityRepository struct {
	backend *Backend
}

var _ storage.ActivityRepository = (*ActivityRepository)(nil)

// NewActivityRepository creates a new ActivityRepository.
func NewActivityRepository(backend *Backend) (*ActivityRepository, error) {
	return &ActivityRepository{backend: backend}, nil
}

// Close is a no-op; the repository holds no resources of its own.
func (r *ActivityRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *ActivityRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// BumpActivity adds the delta's counters to the record for the given date.
func (r *ActivityRepository) BumpActivity(ctx context.Context, date string, delta core.DailyActivity) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeActivityKey(date)
		activity, err := r.readActivity(tx, key)
		if err != nil {
			return err
		}
		if activity == nil {
			activity = &core.DailyActivity{Date: date}
		}

		activity.NotesCreated += delta.NotesCreated
		activity.NotesUpdated += delta.NotesUpdated
		activity.TasksCompleted += delta.TasksCompleted
		activity.MeetingsRecorded += delta.MeetingsRecorded

		if err := tx.Set(key, storage.MarshalActivity(activity)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// GetActivity retrieves the activity record for a date.
func (r *ActivityRepository) GetActivity(ctx context.Context, date string) (*core.DailyActivity, error) {
	var result *core.DailyActivity
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = r.readActivity(tx, makeActivityKey(date))
		return err
	}, false)
	if err != nil {
		return nil, err
	}
	if result == nil {
		result = &core.DailyActivity{Date: date}
	}
	return result, nil
}

// GetActivityRange retrieves activity records for the given dates, in order.
func (r *ActivityRepository) GetActivityRange(ctx context.Context, dates []string) ([]core.DailyActivity, error) {
	results := make([]core.DailyActivity, 0, len(dates))
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, date := range dates {
			activity, err := r.readActivity(tx, makeActivityKey(date))
			if err != nil {
				return err
			}
			if activity == nil {
				activity = &core.DailyActivity{Date: date}
			}
			results = append(results, *activity)
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return results, nil
}

// readActivity reads a daily activity record from the transaction.
func (r *ActivityRepository) readActivity(tx *badger.Txn, key []byte) (*core.DailyActivity, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var activity *core.DailyActivity
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		activity, unmarshalErr = storage.UnmarshalActivity(val)
		return unmarshalErr
	})
	return activity, err
}
