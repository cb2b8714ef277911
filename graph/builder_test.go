package graph

import (
	"context"
	"testing"

	"github.com/poiesic/notewise/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unitFingerprint(dims int, at int) core.Fingerprint {
	fp := make(core.Fingerprint, dims)
	fp[at] = 1
	return fp
}

func TestNewBuilder(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		b, err := NewBuilder()
		require.NoError(t, err)
		assert.NotNil(t, b)
	})

	t.Run("invalid limit", func(t *testing.T) {
		_, err := NewBuilder(WithRelatedLimit(0))
		assert.Equal(t, ErrInvalidLimit, err)
	})

	t.Run("negative weights", func(t *testing.T) {
		_, err := NewBuilder(WithWeights(Weights{Tag: -1}))
		assert.Equal(t, ErrInvalidWeights, err)
	})
}

func TestBuild(t *testing.T) {
	ctx := context.Background()

	t.Run("empty collection", func(t *testing.T) {
		b, err := NewBuilder()
		require.NoError(t, err)

		edges, err := b.Build(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, edges)
	})

	t.Run("identical notes produce a strong edge", func(t *testing.T) {
		b, err := NewBuilder()
		require.NoError(t, err)

		fp := unitFingerprint(4, 0)
		notes := []*core.Note{
			{Id: 1, Title: "Project roadmap", Content: "roadmap milestones planning", Tags: []string{"work"}, Embedding: fp},
			{Id: 2, Title: "Project roadmap", Content: "roadmap milestones planning", Tags: []string{"work"}, Embedding: fp},
		}

		edges, err := b.Build(ctx, notes)
		require.NoError(t, err)
		require.Len(t, edges, 1)

		edge := edges[0]
		assert.Equal(t, core.ID(1), edge.SourceId)
		assert.Equal(t, core.ID(2), edge.TargetId)
		assert.Equal(t, core.RelationTypeSemantic, edge.Type)
		assert.InDelta(t, 1.0, float64(edge.Strength), 1e-5)
	})

	t.Run("unrelated notes produce no edge", func(t *testing.T) {
		b, err := NewBuilder()
		require.NoError(t, err)

		notes := []*core.Note{
			{Id: 1, Title: "Sourdough starter", Content: "flour water fermentation", Tags: []string{"baking"}, Embedding: unitFingerprint(4, 0)},
			{Id: 2, Title: "Kubernetes upgrade", Content: "cluster nodes draining", Tags: []string{"infra"}, Embedding: unitFingerprint(4, 1)},
		}

		edges, err := b.Build(ctx, notes)
		require.NoError(t, err)
		assert.Empty(t, edges)
	})

	t.Run("missing fingerprints contribute zero vector score", func(t *testing.T) {
		b, err := NewBuilder()
		require.NoError(t, err)

		// Tag Dice is 1.0, so 0.3 tag weight alone reaches the threshold
		notes := []*core.Note{
			{Id: 1, Title: "alpha", Tags: []string{"shared", "tags"}},
			{Id: 2, Title: "beta", Tags: []string{"shared", "tags"}},
		}

		edges, err := b.Build(ctx, notes)
		require.NoError(t, err)
		require.Len(t, edges, 1)
		assert.InDelta(t, 0.3, float64(edges[0].Strength), 1e-5)
	})

	t.Run("idempotent across rebuilds", func(t *testing.T) {
		b, err := NewBuilder()
		require.NoError(t, err)

		fp := unitFingerprint(4, 2)
		notes := []*core.Note{
			{Id: 1, Title: "meeting notes budget", Tags: []string{"work", "budget"}, Embedding: fp},
			{Id: 2, Title: "budget review meeting", Tags: []string{"work", "budget"}, Embedding: fp},
			{Id: 3, Title: "holiday packing list", Tags: []string{"travel"}, Embedding: unitFingerprint(4, 3)},
		}

		first, err := b.Build(ctx, notes)
		require.NoError(t, err)
		second, err := b.Build(ctx, notes)
		require.NoError(t, err)

		require.Equal(t, len(first), len(second))
		for i := range first {
			assert.Equal(t, first[i].SourceId, second[i].SourceId)
			assert.Equal(t, first[i].TargetId, second[i].TargetId)
			assert.InDelta(t, float64(first[i].Strength), float64(second[i].Strength), 1e-6)
		}
	})

	t.Run("cancelled context aborts", func(t *testing.T) {
		b, err := NewBuilder()
		require.NoError(t, err)

		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		notes := []*core.Note{{Id: 1, Title: "a"}, {Id: 2, Title: "b"}}
		_, err = b.Build(cancelled, notes)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestFindRelated(t *testing.T) {
	ctx := context.Background()

	fp := unitFingerprint(4, 0)
	target := &core.Note{Id: 1, Title: "Project roadmap planning", Tags: []string{"work"}, Embedding: fp}
	notes := []*core.Note{
		target,
		{Id: 2, Title: "Roadmap planning session", Tags: []string{"work"}, Embedding: fp},
		{Id: 3, Title: "Grocery list", Tags: []string{"errands"}, Embedding: unitFingerprint(4, 1)},
		{Id: 4, Title: "Planning roadmap milestones", Tags: []string{"work"}, Embedding: fp},
	}

	t.Run("excludes the note itself and unrelated notes", func(t *testing.T) {
		b, err := NewBuilder()
		require.NoError(t, err)

		related, err := b.FindRelated(ctx, target, notes)
		require.NoError(t, err)
		require.Len(t, related, 2)

		for _, result := range related {
			assert.NotEqual(t, target.Id, result.Note.Id)
			assert.NotEqual(t, core.ID(3), result.Note.Id)
			assert.GreaterOrEqual(t, result.Score, DefaultRelatedThreshold)
		}
		for i := 1; i < len(related); i++ {
			assert.GreaterOrEqual(t, related[i-1].Score, related[i].Score)
		}
	})

	t.Run("limit caps results", func(t *testing.T) {
		b, err := NewBuilder(WithRelatedLimit(1))
		require.NoError(t, err)

		related, err := b.FindRelated(ctx, target, notes)
		require.NoError(t, err)
		assert.Len(t, related, 1)
	})

	t.Run("nil note rejected", func(t *testing.T) {
		b, err := NewBuilder()
		require.NoError(t, err)

		_, err = b.FindRelated(ctx, nil, notes)
		assert.Equal(t, ErrNoteRequired, err)
	})

	t.Run("empty collection", func(t *testing.T) {
		b, err := NewBuilder()
		require.NoError(t, err)

		related, err := b.FindRelated(ctx, target, nil)
		require.NoError(t, err)
		assert.Empty(t, related)
	})
}
