package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/poiesic/notewise/core"
	"github.com/poiesic/notewise/fingerprint"
	"github.com/poiesic/notewise/graph"
	"github.com/poiesic/notewise/storage"
	"github.com/poiesic/notewise/tasks"
)

// processor handles background enrichment for a batch of stored notes.
type processor interface {
	process(ctx context.Context, ids ...core.ID) error
}

// fingerprintProcessor generates fingerprints for notes and refreshes the
// graph edges touching them.
type fingerprintProcessor struct {
	noteRepository         storage.NoteRepository
	relationshipRepository storage.RelationshipRepository
	generator              fingerprint.Generator
	builder                *graph.Builder
	logger                 *slog.Logger
}

var _ processor = (*fingerprintProcessor)(nil)

func newFingerprintProcessor(
	noteRepository storage.NoteRepository,
	relationshipRepository storage.RelationshipRepository,
	generator fingerprint.Generator,
	builder *graph.Builder,
	logger *slog.Logger,
) (processor, error) {
	if noteRepository == nil {
		return nil, fmt.Errorf("note repository required")
	}
	if relationshipRepository == nil {
		return nil, fmt.Errorf("relationship repository required")
	}
	if generator == nil {
		return nil, fmt.Errorf("generator required")
	}
	if builder == nil {
		return nil, fmt.Errorf("builder required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &fingerprintProcessor{
		noteRepository:         noteRepository,
		relationshipRepository: relationshipRepository,
		generator:              generator,
		builder:                builder,
		logger:                 logger.With("processor", "fingerprints"),
	}, nil
}

// process fingerprints the notes and rebuilds their edges.
func (fp *fingerprintProcessor) process(ctx context.Context, ids ...core.ID) error {
	fp.logger.Info("processing notes for fingerprints", "notes", len(ids))

	notes, err := fp.noteRepository.GetNotes(ctx, ids...)
	if err != nil {
		fp.logger.Error("error retrieving notes", "err", err)
		return err
	}

	texts := make([]string, len(notes))
	for i, note := range notes {
		texts[i] = note.Text()
	}

	fingerprints, err := fp.generator.GenerateBatch(ctx, texts)
	if err != nil {
		fp.logger.Error("error generating fingerprints", "err", err)
		return err
	}

	if len(fingerprints) != len(notes) {
		return fmt.Errorf("fingerprint result mismatch. expected %d, received %d", len(notes), len(fingerprints))
	}

	for i := range fingerprints {
		notes[i].Embedding = fingerprints[i]
	}

	updated, err := fp.noteRepository.UpdateNotes(ctx, notes...)
	if err != nil {
		return err
	}

	return fp.refreshEdges(ctx, updated)
}

// refreshEdges recomputes the edges touching each note. Existing edges for
// the note are dropped first so pairs that no longer qualify don't linger.
func (fp *fingerprintProcessor) refreshEdges(ctx context.Context, notes []*core.Note) error {
	all, err := fp.noteRepository.GetAllNotes(ctx)
	if err != nil {
		return err
	}

	for _, note := range notes {
		if err := fp.relationshipRepository.DeleteRelationshipsFor(ctx, note.Id); err != nil {
			return err
		}

		related, err := fp.builder.FindRelated(ctx, note, all)
		if err != nil {
			return err
		}
		if len(related) == 0 {
			continue
		}

		edges := make([]*core.Relationship, len(related))
		for i, result := range related {
			edges[i] = &core.Relationship{
				SourceId: note.Id,
				TargetId: result.Note.Id,
				Strength: result.Score,
				Type:     core.RelationTypeSemantic,
			}
		}
		if _, err := fp.relationshipRepository.UpsertRelationships(ctx, edges...); err != nil {
			return err
		}
	}
	return nil
}

// taskProcessor extracts tasks from note content.
type taskProcessor struct {
	noteRepository storage.NoteRepository
	taskRepository storage.TaskRepository
	extractor      *tasks.Extractor
	logger         *slog.Logger
}

var _ processor = (*taskProcessor)(nil)

func newTaskProcessor(
	noteRepository storage.NoteRepository,
	taskRepository storage.TaskRepository,
	extractor *tasks.Extractor,
	logger *slog.Logger,
) (processor, error) {
	if noteRepository == nil {
		return nil, fmt.Errorf("note repository required")
	}
	if taskRepository == nil {
		return nil, fmt.Errorf("task repository required")
	}
	if extractor == nil {
		return nil, fmt.Errorf("extractor required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &taskProcessor{
		noteRepository: noteRepository,
		taskRepository: taskRepository,
		extractor:      extractor,
		logger:         logger.With("processor", "tasks"),
	}, nil
}

// process re-extracts tasks for the notes. Previously extracted tasks for
// a note are replaced, but completion state carries over to re-extracted
// tasks with the same title.
func (tp *taskProcessor) process(ctx context.Context, ids ...core.ID) error {
	tp.logger.Info("extracting tasks from notes", "notes", len(ids))

	notes, err := tp.noteRepository.GetNotes(ctx, ids...)
	if err != nil {
		tp.logger.Error("error retrieving notes", "err", err)
		return err
	}

	for _, note := range notes {
		extracted, err := tp.extractor.Extract(ctx, note.Content, note.Id)
		if err != nil {
			return err
		}

		existing, err := tp.taskRepository.GetTasksByNote(ctx, note.Id)
		if err != nil {
			return err
		}

		completed := make(map[string]bool)
		var stale []core.ID
		for _, task := range existing {
			if task.Completed {
				completed[strings.ToLower(task.Title)] = true
			}
			stale = append(stale, task.Id)
		}

		for _, task := range extracted {
			if completed[strings.ToLower(task.Title)] {
				task.Completed = true
			}
		}

		if len(stale) > 0 {
			if err := tp.taskRepository.DeleteTasks(ctx, stale...); err != nil {
				return err
			}
		}
		if len(extracted) > 0 {
			if _, err := tp.taskRepository.AddTasks(ctx, extracted...); err != nil {
				return err
			}
		}
	}
	return nil
}
