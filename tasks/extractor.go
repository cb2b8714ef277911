// Package tasks extracts actionable items from free note text.
//
// Extraction is line-oriented: each non-trivial line is tested against an
// ordered table of (matcher, extractor) patterns covering checkbox syntax,
// explicit TODO/TASK markers, modal-verb phrasing, and bare action verbs,
// stopping at the first match. Matched text is post-processed to infer a
// priority and an absolute due date from marker tokens, which are stripped
// from the task title.
package tasks

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/poiesic/notewise/core"
)

// Extractor extracts tasks from note text.
type Extractor struct {
	now    func() time.Time
	logger *slog.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithClock sets the time source used to resolve relative due dates.
// Default is time.Now.
func WithClock(now func() time.Time) Option {
	return func(e *Extractor) {
		if now != nil {
			e.now = now
		}
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Extractor) {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
	}
}

// NewExtractor creates a task extractor.
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{
		now:    time.Now,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract scans the text line by line and returns the tasks found.
// Pass noteId 0 when the text has no originating note. Text with no
// matching lines yields an empty task list, not an error.
//
// Tasks are deduplicated by case-insensitive exact match on the cleaned
// title; the first occurrence wins.
func (e *Extractor) Extract(ctx context.Context, input string, noteId core.ID) ([]*core.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var extracted []*core.Task
	seen := make(map[string]bool)

	for _, line := range strings.Split(input, "\n") {
		trimmed := strings.TrimSpace(line)
		if len(trimmed) < 3 {
			continue
		}

		match, ok := matchLine(trimmed)
		if !ok {
			continue
		}

		priority, title := inferPriority(match.title)
		dueDate, title := e.inferDueDate(title)
		title = cleanTitle(title)
		if title == "" {
			continue
		}

		key := strings.ToLower(title)
		if seen[key] {
			continue
		}
		seen[key] = true

		extracted = append(extracted, &core.Task{
			Title:         title,
			NoteId:        noteId,
			Completed:     match.completed,
			Priority:      priority,
			DueDate:       dueDate,
			ExtractedFrom: trimmed,
		})
	}

	e.logger.Debug("task extraction complete", "noteId", noteId, "tasks", len(extracted))
	return extracted, nil
}

// cleanTitle collapses whitespace and trims trailing sentence punctuation.
func cleanTitle(title string) string {
	title = strings.Join(strings.Fields(title), " ")
	title = strings.TrimRight(title, " .,;:!?")
	return strings.TrimSpace(title)
}
