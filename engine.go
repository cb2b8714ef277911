// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package notewise

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/poiesic/notewise/cluster"
	"github.com/poiesic/notewise/core"
	"github.com/poiesic/notewise/digest"
	"github.com/poiesic/notewise/fingerprint"
	"github.com/poiesic/notewise/graph"
	"github.com/poiesic/notewise/pipeline"
	"github.com/poiesic/notewise/search"
	"github.com/poiesic/notewise/storage"
	"github.com/poiesic/notewise/storage/badger"
)

// dateLayout is the canonical digest date format, matching core.DateKey.
const dateLayout = "2006-01-02"

// Engine is the top-level entry point: it owns the storage backend, the
// repositories, and the fingerprint generator, and hands out the
// intelligence components wired to them.
type Engine struct {
	backend          *badger.Backend
	noteRepo         storage.NoteRepository
	relationshipRepo storage.RelationshipRepository
	taskRepo         storage.TaskRepository
	activityRepo     storage.ActivityRepository
	generator        fingerprint.Generator
	logger           *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*engineOptions)

type engineOptions struct {
	inMemory  bool
	generator fingerprint.Generator
}

// WithInMemory opens the backend in memory, ignoring the file path.
// Useful for tests and throwaway sessions.
func WithInMemory() EngineOption {
	return func(o *engineOptions) {
		o.inMemory = true
	}
}

// WithGenerator sets a custom fingerprint generator.
// Default is the local positional generator.
func WithGenerator(generator fingerprint.Generator) EngineOption {
	return func(o *engineOptions) {
		if generator != nil {
			o.generator = generator
		}
	}
}

// NewEngine opens the storage backend at filePath and wires the
// repositories and the fingerprint generator.
func NewEngine(filePath string, opts ...EngineOption) (*Engine, error) {
	options := &engineOptions{
		generator: fingerprint.NewPositional(),
	}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend(filePath, options.inMemory)
	if err != nil {
		return nil, err
	}

	noteRepo, err := badger.NewNoteRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	relationshipRepo, err := badger.NewRelationshipRepository(backend)
	if err != nil {
		noteRepo.Close()
		backend.Close()
		return nil, err
	}

	taskRepo, err := badger.NewTaskRepository(backend)
	if err != nil {
		noteRepo.Close()
		backend.Close()
		return nil, err
	}

	activityRepo, err := badger.NewActivityRepository(backend)
	if err != nil {
		taskRepo.Close()
		noteRepo.Close()
		backend.Close()
		return nil, err
	}

	return &Engine{
		backend:          backend,
		noteRepo:         noteRepo,
		relationshipRepo: relationshipRepo,
		taskRepo:         taskRepo,
		activityRepo:     activityRepo,
		generator:        options.generator,
		logger:           slog.Default(),
	}, nil
}

// Close releases the repositories and the storage backend.
func (e *Engine) Close() error {
	if err := e.taskRepo.Close(); err != nil {
		e.logger.Error("error closing task repository", "err", err)
		return err
	}
	if err := e.noteRepo.Close(); err != nil {
		e.logger.Error("error closing note repository", "err", err)
		return err
	}
	if err := e.backend.Close(); err != nil {
		e.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

func (e *Engine) NoteRepository() storage.NoteRepository {
	return e.noteRepo
}

func (e *Engine) RelationshipRepository() storage.RelationshipRepository {
	return e.relationshipRepo
}

func (e *Engine) TaskRepository() storage.TaskRepository {
	return e.taskRepo
}

func (e *Engine) ActivityRepository() storage.ActivityRepository {
	return e.activityRepo
}

func (e *Engine) NewPipeline(opts ...pipeline.Option) (*pipeline.Pipeline, error) {
	return pipeline.NewPipeline(e.noteRepo, e.relationshipRepo, e.taskRepo, e.activityRepo, e.generator, opts...)
}

func (e *Engine) NewSearcher(opts ...search.Option) (*search.Searcher, error) {
	return search.NewSearcher(e.generator, opts...)
}

// Search runs a semantic query over the whole collection.
func (e *Engine) Search(ctx context.Context, query string, opts ...search.Option) ([]*core.SearchResult, error) {
	searcher, err := e.NewSearcher(opts...)
	if err != nil {
		return nil, err
	}

	notes, err := e.noteRepo.GetAllNotes(ctx)
	if err != nil {
		return nil, err
	}
	return searcher.Search(ctx, query, notes)
}

// Related returns the notes most related to the given one, scored by
// blended tag, fingerprint, and keyword similarity.
func (e *Engine) Related(ctx context.Context, noteId core.ID, opts ...graph.Option) ([]*core.SearchResult, error) {
	builder, err := graph.NewBuilder(opts...)
	if err != nil {
		return nil, err
	}

	note, err := e.noteRepo.GetNote(ctx, noteId)
	if err != nil {
		return nil, err
	}

	notes, err := e.noteRepo.GetAllNotes(ctx)
	if err != nil {
		return nil, err
	}
	return builder.FindRelated(ctx, note, notes)
}

// BuildGraph recomputes the full relationship graph and persists it.
func (e *Engine) BuildGraph(ctx context.Context, opts ...graph.Option) ([]*core.Relationship, error) {
	builder, err := graph.NewBuilder(opts...)
	if err != nil {
		return nil, err
	}

	notes, err := e.noteRepo.GetAllNotes(ctx)
	if err != nil {
		return nil, err
	}

	edges, err := builder.Build(ctx, notes)
	if err != nil {
		return nil, err
	}

	if len(edges) > 0 {
		if _, err := e.relationshipRepo.UpsertRelationships(ctx, edges...); err != nil {
			return nil, err
		}
	}
	return edges, nil
}

// ClusterTopics groups the whole collection into keyword-seeded topic
// clusters.
func (e *Engine) ClusterTopics(ctx context.Context, opts ...cluster.Option) ([]*core.Cluster, error) {
	clusterer, err := cluster.NewClusterer(opts...)
	if err != nil {
		return nil, err
	}

	notes, err := e.noteRepo.GetAllNotes(ctx)
	if err != nil {
		return nil, err
	}
	return clusterer.Cluster(ctx, notes)
}

// CompleteTask marks a task as done and records the completion in the
// day's activity counters. Completing an already-completed task is a no-op.
func (e *Engine) CompleteTask(ctx context.Context, taskId core.ID) (*core.Task, error) {
	task, err := e.taskRepo.GetTask(ctx, taskId)
	if err != nil {
		return nil, err
	}
	if task.Completed {
		return task, nil
	}

	task.Completed = true
	updated, err := e.taskRepo.UpdateTasks(ctx, task)
	if err != nil {
		return nil, err
	}

	delta := core.DailyActivity{TasksCompleted: 1}
	if err := e.activityRepo.BumpActivity(ctx, core.DateKey(updated[0].UpdatedAt), delta); err != nil {
		e.logger.Error("error recording activity", "err", err)
	}
	return updated[0], nil
}

// DailyDigest assembles the digest for one date (core.DateKey format).
func (e *Engine) DailyDigest(ctx context.Context, date string) (*digest.Digest, error) {
	day, err := time.ParseInLocation(dateLayout, date, time.UTC)
	if err != nil {
		return nil, err
	}

	activity, err := e.activityRepo.GetActivity(ctx, date)
	if err != nil {
		return nil, err
	}

	created, err := e.noteRepo.GetNotesByDateRange(ctx, day, day.Add(24*time.Hour))
	if err != nil {
		return nil, err
	}

	// Notes edited on the date but created earlier
	all, err := e.noteRepo.GetAllNotes(ctx)
	if err != nil {
		return nil, err
	}
	var updated []*core.Note
	for _, note := range all {
		if core.DateKey(note.UpdatedAt) == date && core.DateKey(note.CreatedAt) != date {
			updated = append(updated, note)
		}
	}

	completed, err := e.taskRepo.GetTasksCompletedOn(ctx, date)
	if err != nil {
		return nil, err
	}

	var meetings []*core.Note
	for _, note := range created {
		if hasTag(note, pipeline.MeetingTag) {
			meetings = append(meetings, note)
		}
	}

	aggregator := digest.NewAggregator(digest.WithLogger(e.logger))
	return aggregator.Daily(digest.DayInput{
		Activity:       *activity,
		CreatedNotes:   created,
		UpdatedNotes:   updated,
		CompletedTasks: completed,
		MeetingNotes:   meetings,
	}), nil
}

// WeeklySummary aggregates activity for the seven days ending at endDate
// (core.DateKey format).
func (e *Engine) WeeklySummary(ctx context.Context, endDate string) (*digest.WeeklySummary, error) {
	end, err := time.ParseInLocation(dateLayout, endDate, time.UTC)
	if err != nil {
		return nil, err
	}

	dates := make([]string, 0, 7)
	for offset := -6; offset <= 0; offset++ {
		dates = append(dates, core.DateKey(end.AddDate(0, 0, offset)))
	}

	activities, err := e.activityRepo.GetActivityRange(ctx, dates)
	if err != nil {
		return nil, err
	}

	aggregator := digest.NewAggregator(digest.WithLogger(e.logger))
	return aggregator.Weekly(activities), nil
}

func hasTag(note *core.Note, tag string) bool {
	for _, t := range note.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}
