package badger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/poiesic/notewise/core"
	"github.com/poiesic/notewise/storage"
)

func TestNoteBasics(t *testing.T) {
	repos, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer repos.Close()

	ctx := context.Background()

	note := &core.Note{
		Title:   "Sprint planning",
		Content: "Discuss roadmap for Q2.",
		Tags:    []string{"work", "planning"},
	}

	added, err := repos.Notes.AddNotes(ctx, note)
	if err != nil {
		t.Fatalf("Failed to add note: %v", err)
	}

	if len(added) != 1 {
		t.Fatalf("Expected 1 note, got %d", len(added))
	}

	if added[0].Id == 0 {
		t.Fatal("Expected non-zero ID")
	}

	retrieved, err := repos.Notes.GetNote(ctx, added[0].Id)
	if err != nil {
		t.Fatalf("Failed to get note: %v", err)
	}

	if retrieved.Title != "Sprint planning" {
		t.Fatalf("Expected 'Sprint planning', got '%s'", retrieved.Title)
	}
	if len(retrieved.Tags) != 2 {
		t.Fatalf("Expected 2 tags, got %d", len(retrieved.Tags))
	}
}

func TestNoteUpdate(t *testing.T) {
	repos, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer repos.Close()

	ctx := context.Background()

	added, err := repos.Notes.AddNotes(ctx, &core.Note{Title: "Draft", Content: "v1"})
	if err != nil {
		t.Fatalf("Failed to add note: %v", err)
	}

	added[0].Content = "v2"
	if _, err := repos.Notes.UpdateNotes(ctx, added[0]); err != nil {
		t.Fatalf("Failed to update note: %v", err)
	}

	retrieved, err := repos.Notes.GetNote(ctx, added[0].Id)
	if err != nil {
		t.Fatalf("Failed to get note: %v", err)
	}
	if retrieved.Content != "v2" {
		t.Fatalf("Expected 'v2', got '%s'", retrieved.Content)
	}

	// Updating a missing note is an error
	_, err = repos.Notes.UpdateNotes(ctx, &core.Note{Id: 9999, Title: "Ghost"})
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}

func TestNoteDelete(t *testing.T) {
	repos, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer repos.Close()

	ctx := context.Background()

	added, err := repos.Notes.AddNotes(ctx, &core.Note{Title: "Throwaway"})
	if err != nil {
		t.Fatalf("Failed to add note: %v", err)
	}

	if err := repos.Notes.DeleteNotes(ctx, added[0].Id); err != nil {
		t.Fatalf("Failed to delete note: %v", err)
	}

	_, err = repos.Notes.GetNote(ctx, added[0].Id)
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}

func TestNoteDateRange(t *testing.T) {
	repos, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer repos.Close()

	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	notes := []*core.Note{
		{Title: "Old", CreatedAt: now.Add(-2 * time.Hour)},
		{Title: "Middle", CreatedAt: now.Add(-1 * time.Hour)},
		{Title: "Fresh", CreatedAt: now},
	}

	if _, err := repos.Notes.AddNotes(ctx, notes...); err != nil {
		t.Fatalf("Failed to add notes: %v", err)
	}

	start := now.Add(-90 * time.Minute)
	end := now.Add(1 * time.Minute)

	results, err := repos.Notes.GetNotesByDateRange(ctx, start, end)
	if err != nil {
		t.Fatalf("Failed to get notes by date range: %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("Expected 2 notes, got %d", len(results))
	}
	if results[0].Title != "Middle" {
		t.Errorf("Expected 'Middle' first, got '%s'", results[0].Title)
	}
}

func TestGetRecentNotes(t *testing.T) {
	repos, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer repos.Close()

	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	notes := []*core.Note{
		{Title: "First", CreatedAt: now.Add(-3 * time.Hour)},
		{Title: "Second", CreatedAt: now.Add(-2 * time.Hour)},
		{Title: "Third", CreatedAt: now.Add(-1 * time.Hour)},
		{Title: "Fourth", CreatedAt: now},
	}

	if _, err := repos.Notes.AddNotes(ctx, notes...); err != nil {
		t.Fatalf("Failed to add notes: %v", err)
	}

	results, err := repos.Notes.GetRecentNotes(ctx, 2)
	if err != nil {
		t.Fatalf("Failed to get recent notes: %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("Expected 2 notes, got %d", len(results))
	}
	if results[0].Title != "Fourth" {
		t.Errorf("Expected 'Fourth' first, got '%s'", results[0].Title)
	}
	if results[1].Title != "Third" {
		t.Errorf("Expected 'Third' second, got '%s'", results[1].Title)
	}
}

func TestFindSimilarNotes(t *testing.T) {
	repos, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer repos.Close()

	ctx := context.Background()

	notes := []*core.Note{
		{Title: "Aligned", Embedding: core.Fingerprint{1, 0, 0}},
		{Title: "Partial", Embedding: core.Fingerprint{0.6, 0.8, 0}},
		{Title: "Orthogonal", Embedding: core.Fingerprint{0, 0, 1}},
		{Title: "Unscored"},
	}

	if _, err := repos.Notes.AddNotes(ctx, notes...); err != nil {
		t.Fatalf("Failed to add notes: %v", err)
	}

	results, err := repos.Notes.FindSimilar(ctx, core.Fingerprint{1, 0, 0}, 0.5, 10)
	if err != nil {
		t.Fatalf("Failed to find similar notes: %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(results))
	}
	if results[0].Note.Title != "Aligned" {
		t.Errorf("Expected 'Aligned' first, got '%s'", results[0].Note.Title)
	}
	if results[1].Note.Title != "Partial" {
		t.Errorf("Expected 'Partial' second, got '%s'", results[1].Note.Title)
	}

	// Limit caps the result set
	limited, err := repos.Notes.FindSimilar(ctx, core.Fingerprint{1, 0, 0}, 0.0, 1)
	if err != nil {
		t.Fatalf("Failed to find similar notes: %v", err)
	}
	if len(limited) != 1 {
		t.Fatalf("Expected 1 result, got %d", len(limited))
	}
}

func TestNoteFingerprintRoundTrip(t *testing.T) {
	repos, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer repos.Close()

	ctx := context.Background()

	note := &core.Note{
		Title:     "Fingerprinted",
		Embedding: core.Fingerprint{0.25, 0.5, 0.25},
	}

	added, err := repos.Notes.AddNotes(ctx, note)
	if err != nil {
		t.Fatalf("Failed to add note: %v", err)
	}

	retrieved, err := repos.Notes.GetNote(ctx, added[0].Id)
	if err != nil {
		t.Fatalf("Failed to get note: %v", err)
	}

	if len(retrieved.Embedding) != 3 {
		t.Fatalf("Expected 3 dimensions, got %d", len(retrieved.Embedding))
	}
	if retrieved.Embedding[1] != 0.5 {
		t.Fatalf("Expected 0.5, got %f", retrieved.Embedding[1])
	}
}
