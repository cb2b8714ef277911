package badger

import (
	"context"
	"testing"

	"github.com/poiesic/notewise/core"
)

func TestRelationshipUpsert(t *testing.T) {
	repos, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer repos.Close()

	ctx := context.Background()

	edge := &core.Relationship{
		SourceId: 1,
		TargetId: 2,
		Strength: 0.4,
		Type:     core.RelationTypeSemantic,
	}

	if _, err := repos.Relationships.UpsertRelationships(ctx, edge); err != nil {
		t.Fatalf("Failed to upsert relationship: %v", err)
	}

	// Same unordered pair, reversed endpoints, replaces the edge
	reversed := &core.Relationship{
		SourceId: 2,
		TargetId: 1,
		Strength: 0.9,
		Type:     core.RelationTypeSemantic,
	}
	if _, err := repos.Relationships.UpsertRelationships(ctx, reversed); err != nil {
		t.Fatalf("Failed to upsert relationship: %v", err)
	}

	all, err := repos.Relationships.GetAllRelationships(ctx)
	if err != nil {
		t.Fatalf("Failed to get relationships: %v", err)
	}

	if len(all) != 1 {
		t.Fatalf("Expected 1 relationship, got %d", len(all))
	}
	if all[0].Strength != 0.9 {
		t.Fatalf("Expected strength 0.9, got %f", all[0].Strength)
	}
}

func TestRelationshipsByNote(t *testing.T) {
	repos, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer repos.Close()

	ctx := context.Background()

	edges := []*core.Relationship{
		{SourceId: 1, TargetId: 2, Strength: 0.5, Type: core.RelationTypeSemantic},
		{SourceId: 1, TargetId: 3, Strength: 0.6, Type: core.RelationTypeSemantic},
		{SourceId: 2, TargetId: 3, Strength: 0.7, Type: core.RelationTypeSemantic},
	}

	if _, err := repos.Relationships.UpsertRelationships(ctx, edges...); err != nil {
		t.Fatalf("Failed to upsert relationships: %v", err)
	}

	// Note 1 touches two edges, note 3 touches two, via either endpoint
	forOne, err := repos.Relationships.GetRelationships(ctx, 1)
	if err != nil {
		t.Fatalf("Failed to get relationships: %v", err)
	}
	if len(forOne) != 2 {
		t.Fatalf("Expected 2 relationships for note 1, got %d", len(forOne))
	}

	forThree, err := repos.Relationships.GetRelationships(ctx, 3)
	if err != nil {
		t.Fatalf("Failed to get relationships: %v", err)
	}
	if len(forThree) != 2 {
		t.Fatalf("Expected 2 relationships for note 3, got %d", len(forThree))
	}
}

func TestDeleteRelationshipsFor(t *testing.T) {
	repos, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer repos.Close()

	ctx := context.Background()

	edges := []*core.Relationship{
		{SourceId: 1, TargetId: 2, Strength: 0.5, Type: core.RelationTypeSemantic},
		{SourceId: 1, TargetId: 3, Strength: 0.6, Type: core.RelationTypeSemantic},
		{SourceId: 2, TargetId: 3, Strength: 0.7, Type: core.RelationTypeSemantic},
	}

	if _, err := repos.Relationships.UpsertRelationships(ctx, edges...); err != nil {
		t.Fatalf("Failed to upsert relationships: %v", err)
	}

	if err := repos.Relationships.DeleteRelationshipsFor(ctx, 1); err != nil {
		t.Fatalf("Failed to delete relationships: %v", err)
	}

	all, err := repos.Relationships.GetAllRelationships(ctx)
	if err != nil {
		t.Fatalf("Failed to get relationships: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("Expected 1 remaining relationship, got %d", len(all))
	}
	if all[0].SourceId != 2 || all[0].TargetId != 3 {
		t.Fatalf("Expected edge 2-3 to remain, got %d-%d", all[0].SourceId, all[0].TargetId)
	}

	// The other endpoints no longer see the deleted edges
	forTwo, err := repos.Relationships.GetRelationships(ctx, 2)
	if err != nil {
		t.Fatalf("Failed to get relationships: %v", err)
	}
	if len(forTwo) != 1 {
		t.Fatalf("Expected 1 relationship for note 2, got %d", len(forTwo))
	}
}
