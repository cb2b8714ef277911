// Package digest composes narrative summaries of note and task activity.
//
// The aggregator is pure: callers select the day's notes, tasks, and
// activity counters (the store owns that filtering), and this package only
// aggregates and narrates.
package digest

import (
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"

	"github.com/poiesic/notewise/core"
)

// Result size caps for the daily digest.
const (
	maxCreatedNotes   = 5
	maxUpdatedNotes   = 5
	maxCompletedTasks = 10
	maxTopTags        = 3
)

// Activity totals that qualify a day for productivity insights.
const (
	highlyProductiveActions = 10
	goodProgressActions     = 5
)

// DayInput carries one day's pre-filtered records and counters.
type DayInput struct {
	Activity       core.DailyActivity
	CreatedNotes   []*core.Note
	UpdatedNotes   []*core.Note
	CompletedTasks []*core.Task
	MeetingNotes   []*core.Note
}

// Digest is a daily activity summary.
type Digest struct {
	Date           string
	Activity       core.DailyActivity
	CreatedNotes   []*core.Note // up to 5
	UpdatedNotes   []*core.Note // up to 5
	CompletedTasks []*core.Task // up to 10
	MeetingNotes   []*core.Note // all meeting notes
	Insights       []string
	Summary        string
}

// WeeklySummary aggregates the last seven daily activity records.
type WeeklySummary struct {
	Days            int
	NotesCreated    int
	NotesUpdated    int
	TasksCompleted  int
	Meetings        int
	AvgNotesPerDay  int // rounded
	AvgTasksPerDay  int // rounded
}

// Aggregator builds daily digests and weekly summaries.
type Aggregator struct {
	logger *slog.Logger
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(a *Aggregator) {
		if logger == nil {
			logger = slog.Default()
		}
		a.logger = logger
	}
}

// NewAggregator creates a digest aggregator.
func NewAggregator(opts ...Option) *Aggregator {
	a := &Aggregator{logger: slog.Default()}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Daily composes the digest for one day's activity.
func (a *Aggregator) Daily(input DayInput) *Digest {
	d := &Digest{
		Date:           input.Activity.Date,
		Activity:       input.Activity,
		CreatedNotes:   capNotes(input.CreatedNotes, maxCreatedNotes),
		UpdatedNotes:   capNotes(input.UpdatedNotes, maxUpdatedNotes),
		CompletedTasks: capTasks(input.CompletedTasks, maxCompletedTasks),
		MeetingNotes:   input.MeetingNotes,
	}

	d.Insights = a.insights(input)
	d.Summary = narrate(input.Activity)

	a.logger.Debug("daily digest composed", "date", d.Date, "insights", len(d.Insights))
	return d
}

// insights derives qualitative messages from the day's records.
func (a *Aggregator) insights(input DayInput) []string {
	var insights []string
	activity := input.Activity

	actions := activity.NotesCreated + activity.TasksCompleted
	if actions > highlyProductiveActions {
		insights = append(insights, fmt.Sprintf("Highly productive day with %d actions across notes and tasks.", actions))
	} else if actions > goodProgressActions {
		insights = append(insights, fmt.Sprintf("Good progress today with %d actions across notes and tasks.", actions))
	}

	if topics := topTags(append(append([]*core.Note{}, input.CreatedNotes...), input.UpdatedNotes...), maxTopTags); len(topics) > 0 {
		insights = append(insights, fmt.Sprintf("Main topics: %s.", strings.Join(topics, ", ")))
	}

	if activity.MeetingsRecorded > 0 || len(input.MeetingNotes) > 0 {
		meetings := activity.MeetingsRecorded
		if meetings == 0 {
			meetings = len(input.MeetingNotes)
		}
		insights = append(insights, fmt.Sprintf("Captured %s.", pluralize(meetings, "meeting note")))
	}

	if activity.TasksCompleted > 0 || len(input.CompletedTasks) > 0 {
		completed := activity.TasksCompleted
		if completed == 0 {
			completed = len(input.CompletedTasks)
		}
		insights = append(insights, fmt.Sprintf("Checked off %s.", pluralize(completed, "task")))
	}

	return insights
}

// narrate builds the one-paragraph summary from the day's counters.
// Clauses appear in a fixed order (created, updated, tasks, meetings) and
// only for non-zero counters. A day with neither creations nor completed
// tasks yields a fixed no-activity message.
func narrate(activity core.DailyActivity) string {
	if activity.NotesCreated == 0 && activity.TasksCompleted == 0 {
		return "No activity recorded yet today."
	}

	var clauses []string
	if activity.NotesCreated > 0 {
		clauses = append(clauses, fmt.Sprintf("Created %s.", pluralize(activity.NotesCreated, "new note")))
	}
	if activity.NotesUpdated > 0 {
		clauses = append(clauses, fmt.Sprintf("Updated %s.", pluralize(activity.NotesUpdated, "note")))
	}
	if activity.TasksCompleted > 0 {
		clauses = append(clauses, fmt.Sprintf("Completed %s.", pluralize(activity.TasksCompleted, "task")))
	}
	if activity.MeetingsRecorded > 0 {
		clauses = append(clauses, fmt.Sprintf("Recorded %s.", pluralize(activity.MeetingsRecorded, "meeting")))
	}

	return strings.Join(clauses, " ")
}

// Weekly sums the supplied daily records (callers pass the last seven)
// and computes rounded per-day averages for notes and tasks.
func (a *Aggregator) Weekly(activities []core.DailyActivity) *WeeklySummary {
	summary := &WeeklySummary{Days: len(activities)}
	for _, activity := range activities {
		summary.NotesCreated += activity.NotesCreated
		summary.NotesUpdated += activity.NotesUpdated
		summary.TasksCompleted += activity.TasksCompleted
		summary.Meetings += activity.MeetingsRecorded
	}

	if summary.Days > 0 {
		summary.AvgNotesPerDay = int(math.Round(float64(summary.NotesCreated) / float64(summary.Days)))
		summary.AvgTasksPerDay = int(math.Round(float64(summary.TasksCompleted) / float64(summary.Days)))
	}

	return summary
}

// topTags returns the most frequent tags across the notes, ties broken by
// first encounter order.
func topTags(notes []*core.Note, limit int) []string {
	frequency := make(map[string]int)
	var order []string

	for _, note := range notes {
		if note == nil {
			continue
		}
		for _, tag := range note.Tags {
			if frequency[tag] == 0 {
				order = append(order, tag)
			}
			frequency[tag]++
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		return frequency[order[i]] > frequency[order[j]]
	})

	if len(order) > limit {
		order = order[:limit]
	}
	return order
}

func pluralize(count int, noun string) string {
	if count == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", count, noun)
}

func capNotes(notes []*core.Note, limit int) []*core.Note {
	if len(notes) > limit {
		return notes[:limit]
	}
	return notes
}

func capTasks(tasks []*core.Task, limit int) []*core.Task {
	if len(tasks) > limit {
		return tasks[:limit]
	}
	return tasks
}
