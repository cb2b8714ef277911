package badger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/poiesic/notewise/core"
	"github.com/poiesic/notewise/storage"
)

func TestTaskBasics(t *testing.T) {
	repos, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer repos.Close()

	ctx := context.Background()

	due := time.Now().UTC().AddDate(0, 0, 3).Truncate(time.Microsecond)
	task := &core.Task{
		Title:    "call dentist",
		NoteId:   7,
		Priority: core.PriorityHigh,
		DueDate:  &due,
	}

	added, err := repos.Tasks.AddTasks(ctx, task)
	if err != nil {
		t.Fatalf("Failed to add task: %v", err)
	}

	if added[0].Id == 0 {
		t.Fatal("Expected non-zero ID")
	}

	retrieved, err := repos.Tasks.GetTask(ctx, added[0].Id)
	if err != nil {
		t.Fatalf("Failed to get task: %v", err)
	}

	if retrieved.Title != "call dentist" {
		t.Fatalf("Expected 'call dentist', got '%s'", retrieved.Title)
	}
	if retrieved.Priority != core.PriorityHigh {
		t.Fatalf("Expected high priority, got '%s'", retrieved.Priority)
	}
	if retrieved.DueDate == nil || !retrieved.DueDate.Equal(due) {
		t.Fatalf("Expected due date %v, got %v", due, retrieved.DueDate)
	}
}

func TestTasksByNote(t *testing.T) {
	repos, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer repos.Close()

	ctx := context.Background()

	tasks := []*core.Task{
		{Title: "task a", NoteId: 1},
		{Title: "task b", NoteId: 1},
		{Title: "task c", NoteId: 2},
	}

	if _, err := repos.Tasks.AddTasks(ctx, tasks...); err != nil {
		t.Fatalf("Failed to add tasks: %v", err)
	}

	results, err := repos.Tasks.GetTasksByNote(ctx, 1)
	if err != nil {
		t.Fatalf("Failed to get tasks by note: %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("Expected 2 tasks, got %d", len(results))
	}
}

func TestOpenTasks(t *testing.T) {
	repos, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer repos.Close()

	ctx := context.Background()

	tasks := []*core.Task{
		{Title: "open one"},
		{Title: "done one", Completed: true},
		{Title: "open two"},
	}

	if _, err := repos.Tasks.AddTasks(ctx, tasks...); err != nil {
		t.Fatalf("Failed to add tasks: %v", err)
	}

	results, err := repos.Tasks.GetOpenTasks(ctx)
	if err != nil {
		t.Fatalf("Failed to get open tasks: %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("Expected 2 open tasks, got %d", len(results))
	}
	for _, task := range results {
		if task.Completed {
			t.Fatalf("Expected open task, got completed '%s'", task.Title)
		}
	}
}

func TestTasksCompletedOn(t *testing.T) {
	repos, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer repos.Close()

	ctx := context.Background()

	added, err := repos.Tasks.AddTasks(ctx, &core.Task{Title: "finish report"})
	if err != nil {
		t.Fatalf("Failed to add task: %v", err)
	}

	// Completing the task indexes it under today's date
	added[0].Completed = true
	if _, err := repos.Tasks.UpdateTasks(ctx, added[0]); err != nil {
		t.Fatalf("Failed to update task: %v", err)
	}

	today := core.DateKey(time.Now().UTC())
	results, err := repos.Tasks.GetTasksCompletedOn(ctx, today)
	if err != nil {
		t.Fatalf("Failed to get completed tasks: %v", err)
	}

	if len(results) != 1 {
		t.Fatalf("Expected 1 completed task, got %d", len(results))
	}
	if results[0].Title != "finish report" {
		t.Fatalf("Expected 'finish report', got '%s'", results[0].Title)
	}

	// Reopening the task retires the index entry
	results[0].Completed = false
	if _, err := repos.Tasks.UpdateTasks(ctx, results[0]); err != nil {
		t.Fatalf("Failed to update task: %v", err)
	}

	results, err = repos.Tasks.GetTasksCompletedOn(ctx, today)
	if err != nil {
		t.Fatalf("Failed to get completed tasks: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("Expected 0 completed tasks, got %d", len(results))
	}
}

func TestTaskDelete(t *testing.T) {
	repos, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer repos.Close()

	ctx := context.Background()

	added, err := repos.Tasks.AddTasks(ctx, &core.Task{Title: "throwaway", NoteId: 3})
	if err != nil {
		t.Fatalf("Failed to add task: %v", err)
	}

	if err := repos.Tasks.DeleteTasks(ctx, added[0].Id); err != nil {
		t.Fatalf("Failed to delete task: %v", err)
	}

	_, err = repos.Tasks.GetTask(ctx, added[0].Id)
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}

	byNote, err := repos.Tasks.GetTasksByNote(ctx, 3)
	if err != nil {
		t.Fatalf("Failed to get tasks by note: %v", err)
	}
	if len(byNote) != 0 {
		t.Fatalf("Expected 0 tasks, got %d", len(byNote))
	}
}
