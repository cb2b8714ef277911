// Package pipeline orchestrates note ingestion and background enrichment.
//
// Storing a note is synchronous; fingerprinting, task extraction, and
// relationship refresh happen afterwards on worker pools so ingestion
// latency stays flat as the collection grows. Errors during async
// processing are logged but never fail the ingestion.
package pipeline

import (
	"context"
	"log/slog"
	"runtime"
	"strings"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/notewise/core"
	"github.com/poiesic/notewise/fingerprint"
	"github.com/poiesic/notewise/graph"
	"github.com/poiesic/notewise/storage"
	"github.com/poiesic/notewise/tasks"
)

// MeetingTag marks a note as a meeting record for activity accounting.
const MeetingTag = "meeting"

// Pipeline orchestrates ingestion and processing of notes.
// It manages concurrent fingerprinting, task extraction, and graph refresh.
type Pipeline struct {
	noteRepository         storage.NoteRepository
	relationshipRepository storage.RelationshipRepository
	taskRepository         storage.TaskRepository
	activityRepository     storage.ActivityRepository
	fingerprintPool        *ants.Pool
	taskPool               *ants.Pool
	fingerprintProc        processor
	taskProc               processor
	logger                 *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent processing.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}

		// Release old pools
		if p.fingerprintPool != nil {
			p.fingerprintPool.Release()
		}
		if p.taskPool != nil {
			p.taskPool.Release()
		}

		fingerprintPool, err := ants.NewPool(size)
		if err != nil {
			return err
		}

		taskPool, err := ants.NewPool(size)
		if err != nil {
			fingerprintPool.Release()
			return err
		}

		p.fingerprintPool = fingerprintPool
		p.taskPool = taskPool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(
	noteRepository storage.NoteRepository,
	relationshipRepository storage.RelationshipRepository,
	taskRepository storage.TaskRepository,
	activityRepository storage.ActivityRepository,
	generator fingerprint.Generator,
	opts ...Option,
) (*Pipeline, error) {
	if noteRepository == nil {
		return nil, ErrNoteRepositoryRequired
	}
	if relationshipRepository == nil {
		return nil, ErrRelationshipRepositoryRequired
	}
	if taskRepository == nil {
		return nil, ErrTaskRepositoryRequired
	}
	if activityRepository == nil {
		return nil, ErrActivityRepositoryRequired
	}
	if generator == nil {
		return nil, ErrGeneratorRequired
	}

	logger := slog.Default()

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}

	fingerprintPool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	taskPool, err := ants.NewPool(poolSize)
	if err != nil {
		fingerprintPool.Release()
		return nil, err
	}

	p := &Pipeline{
		noteRepository:         noteRepository,
		relationshipRepository: relationshipRepository,
		taskRepository:         taskRepository,
		activityRepository:     activityRepository,
		fingerprintPool:        fingerprintPool,
		taskPool:               taskPool,
		logger:                 logger,
	}

	// Apply options (may override defaults)
	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	builder, err := graph.NewBuilder(graph.WithLogger(p.logger))
	if err != nil {
		p.Release()
		return nil, err
	}

	fingerprintProc, err := newFingerprintProcessor(noteRepository, relationshipRepository, generator, builder, p.logger)
	if err != nil {
		p.Release()
		return nil, err
	}

	taskProc, err := newTaskProcessor(noteRepository, taskRepository, tasks.NewExtractor(tasks.WithLogger(p.logger)), p.logger)
	if err != nil {
		p.Release()
		return nil, err
	}

	p.fingerprintProc = fingerprintProc
	p.taskProc = taskProc

	return p, nil
}

// IngestNotes stores notes and processes them asynchronously.
// Processing generates fingerprints, refreshes graph edges, and extracts
// tasks. Each stored note bumps the day's activity counters; notes tagged
// with MeetingTag also count as recorded meetings.
func (p *Pipeline) IngestNotes(ctx context.Context, notes ...*core.Note) ([]*core.Note, error) {
	added, err := p.noteRepository.AddNotes(ctx, notes...)
	if err != nil {
		return nil, err
	}

	if len(added) == 0 {
		return added, nil
	}

	for _, note := range added {
		delta := core.DailyActivity{NotesCreated: 1}
		if isMeeting(note) {
			delta.MeetingsRecorded = 1
		}
		if err := p.activityRepository.BumpActivity(ctx, core.DateKey(note.CreatedAt), delta); err != nil {
			p.logger.Error("error recording activity", "err", err)
		}
	}

	p.submit(added)
	return added, nil
}

// RefreshNote updates a stored note. When contentChanged is true the note
// is resubmitted for fingerprinting, graph refresh, and task extraction;
// metadata-only updates skip reprocessing.
func (p *Pipeline) RefreshNote(ctx context.Context, note *core.Note, contentChanged bool) (*core.Note, error) {
	updated, err := p.noteRepository.UpdateNotes(ctx, note)
	if err != nil {
		return nil, err
	}

	if err := p.activityRepository.BumpActivity(ctx, core.DateKey(updated[0].UpdatedAt), core.DailyActivity{NotesUpdated: 1}); err != nil {
		p.logger.Error("error recording activity", "err", err)
	}

	if contentChanged {
		p.submit(updated)
	}
	return updated[0], nil
}

// submit queues the notes for async processing.
func (p *Pipeline) submit(notes []*core.Note) {
	ids := make([]core.ID, len(notes))
	for i, note := range notes {
		ids[i] = note.Id
	}

	p.fingerprintPool.Submit(func() {
		if err := p.fingerprintProc.process(context.Background(), ids...); err != nil {
			p.logger.Error("error processing fingerprints", "err", err)
		}
	})

	p.taskPool.Submit(func() {
		if err := p.taskProc.process(context.Background(), ids...); err != nil {
			p.logger.Error("error extracting tasks", "err", err)
		}
	})
}

// Release releases resources including worker pools.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.fingerprintPool != nil {
		p.fingerprintPool.Release()
	}
	if p.taskPool != nil {
		p.taskPool.Release()
	}
}

// isMeeting reports whether the note carries the meeting tag.
func isMeeting(note *core.Note) bool {
	for _, tag := range note.Tags {
		if strings.EqualFold(tag, MeetingTag) {
			return true
		}
	}
	return false
}
