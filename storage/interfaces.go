package storage

import (
	"context"
	"time"

	"github.com/poiesic/notewise/core"
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

// NoteRepository provides operations for managing notes.
type NoteRepository interface {
	Repository
	// AddNotes adds one or more notes to storage.
	// Generates new IDs from sequence for notes with ID=0.
	// Sets CreatedAt and UpdatedAt timestamps.
	// Returns the notes with generated IDs and timestamps populated.
	AddNotes(ctx context.Context, notes ...*core.Note) ([]*core.Note, error)

	// UpdateNotes updates existing notes.
	// Updates the UpdatedAt timestamp automatically.
	// Returns ErrNotFound if any note doesn't exist.
	UpdateNotes(ctx context.Context, notes ...*core.Note) ([]*core.Note, error)

	// DeleteNotes removes notes by their IDs.
	// Also removes associated indices.
	// Returns ErrNotFound if any note doesn't exist.
	DeleteNotes(ctx context.Context, ids ...core.ID) error

	// GetNote retrieves a single note by ID.
	// Returns ErrNotFound if the note doesn't exist.
	GetNote(ctx context.Context, id core.ID) (*core.Note, error)

	// GetNotes retrieves multiple notes by their IDs.
	// Returns only the notes that exist (no error for missing notes).
	GetNotes(ctx context.Context, ids ...core.ID) ([]*core.Note, error)

	// GetAllNotes retrieves every stored note.
	GetAllNotes(ctx context.Context) ([]*core.Note, error)

	// GetNotesByDateRange retrieves notes created within a time range.
	// Returns notes where start <= CreatedAt < end, ordered by creation time.
	GetNotesByDateRange(ctx context.Context, start, end time.Time) ([]*core.Note, error)

	// GetRecentNotes retrieves the N most recently created notes, newest first.
	GetRecentNotes(ctx context.Context, limit int) ([]*core.Note, error)

	// FindSimilar finds notes whose fingerprint aligns with the given one.
	// Returns notes with score >= minScore, up to limit results,
	// ordered by score (highest first). Notes without a fingerprint are skipped.
	FindSimilar(ctx context.Context, fingerprint core.Fingerprint, minScore float32, limit int) ([]*core.SearchResult, error)
}

// RelationshipRepository provides operations for managing note relationships.
type RelationshipRepository interface {
	Repository
	// UpsertRelationships stores relationships, replacing any existing edge
	// for the same unordered note pair. Sets the UpdatedAt timestamp.
	UpsertRelationships(ctx context.Context, relationships ...*core.Relationship) ([]*core.Relationship, error)

	// DeleteRelationshipsFor removes every edge touching the given note.
	DeleteRelationshipsFor(ctx context.Context, noteId core.ID) error

	// GetRelationships retrieves all edges touching the given note.
	GetRelationships(ctx context.Context, noteId core.ID) ([]*core.Relationship, error)

	// GetAllRelationships retrieves every stored edge.
	GetAllRelationships(ctx context.Context) ([]*core.Relationship, error)
}

// TaskRepository provides operations for managing tasks.
type TaskRepository interface {
	Repository
	// AddTasks adds one or more tasks to storage.
	// Generates new IDs from sequence for tasks with ID=0.
	// Sets CreatedAt and UpdatedAt timestamps.
	AddTasks(ctx context.Context, tasks ...*core.Task) ([]*core.Task, error)

	// UpdateTasks updates existing tasks.
	// Updates the UpdatedAt timestamp automatically.
	// Returns ErrNotFound if any task doesn't exist.
	UpdateTasks(ctx context.Context, tasks ...*core.Task) ([]*core.Task, error)

	// DeleteTasks removes tasks by their IDs.
	// Returns ErrNotFound if any task doesn't exist.
	DeleteTasks(ctx context.Context, ids ...core.ID) error

	// GetTask retrieves a single task by ID.
	// Returns ErrNotFound if the task doesn't exist.
	GetTask(ctx context.Context, id core.ID) (*core.Task, error)

	// GetTasks retrieves multiple tasks by their IDs.
	// Returns only the tasks that exist (no error for missing tasks).
	GetTasks(ctx context.Context, ids ...core.ID) ([]*core.Task, error)

	// GetAllTasks retrieves every stored task.
	GetAllTasks(ctx context.Context) ([]*core.Task, error)

	// GetOpenTasks retrieves tasks that are not yet completed.
	GetOpenTasks(ctx context.Context) ([]*core.Task, error)

	// GetTasksByNote retrieves tasks extracted from the given note.
	GetTasksByNote(ctx context.Context, noteId core.ID) ([]*core.Task, error)

	// GetTasksCompletedOn retrieves tasks completed on the given date
	// (a core.DateKey value).
	GetTasksCompletedOn(ctx context.Context, date string) ([]*core.Task, error)
}

// ActivityRepository provides operations for daily activity counters.
type ActivityRepository interface {
	Repository
	// BumpActivity adds the delta's counters to the record for the given
	// date (a core.DateKey value), creating the record if absent.
	BumpActivity(ctx context.Context, date string, delta core.DailyActivity) error

	// GetActivity retrieves the activity record for a date.
	// Returns a zero-counter record (never ErrNotFound) when the date has
	// no recorded activity.
	GetActivity(ctx context.Context, date string) (*core.DailyActivity, error)

	// GetActivityRange retrieves activity records for the given dates, in
	// the order requested. Dates with no activity yield zero-counter records.
	GetActivityRange(ctx context.Context, dates []string) ([]core.DailyActivity, error)
}
