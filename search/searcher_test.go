package search

import (
	"context"
	"testing"

	"github.com/poiesic/notewise/core"
	"github.com/poiesic/notewise/fingerprint"
	"github.com/poiesic/notewise/fingerprint/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPositional() fingerprint.Generator {
	return fingerprint.NewPositional(fingerprint.WithDelay(0))
}

func TestNewSearcher(t *testing.T) {
	t.Run("valid configuration", func(t *testing.T) {
		searcher, err := NewSearcher(newPositional())
		require.NoError(t, err)
		assert.NotNil(t, searcher)
	})

	t.Run("with custom threshold", func(t *testing.T) {
		searcher, err := NewSearcher(newPositional(), WithThreshold(0.5))
		require.NoError(t, err)
		assert.NotNil(t, searcher)
	})

	t.Run("with nil logger falls back to default", func(t *testing.T) {
		searcher, err := NewSearcher(newPositional(), WithLogger(nil))
		require.NoError(t, err)
		assert.NotNil(t, searcher)
	})

	t.Run("nil generator", func(t *testing.T) {
		_, err := NewSearcher(nil)
		assert.Equal(t, ErrGeneratorRequired, err)
	})
}

func TestSearch_EmptyCollection(t *testing.T) {
	searcher, err := NewSearcher(newPositional())
	require.NoError(t, err)

	results, err := searcher.Search(context.Background(), "anything", nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearch_RanksIdenticalTextFirst(t *testing.T) {
	searcher, err := NewSearcher(newPositional())
	require.NoError(t, err)

	query := "tomato tomato seedlings watering"
	notes := []*core.Note{
		{Id: 1, Title: "Gardening", Content: "soil compost watering seedlings fertilizer mulch pruning"},
		{Id: 2, Title: "tomato tomato", Content: "seedlings watering"},
	}

	results, err := searcher.Search(context.Background(), query, notes)
	require.NoError(t, err)
	require.NotEmpty(t, results)

	// The note whose token stream matches the query exactly scores ~1
	assert.Equal(t, core.ID(2), results[0].Note.Id)
	assert.InDelta(t, 1.0, float64(results[0].Score), 1e-5)

	for _, result := range results {
		assert.Greater(t, result.Score, DefaultThreshold)
	}
	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i-1].Score, results[i].Score)
	}
}

func TestSearch_NoResultAboveThreshold(t *testing.T) {
	searcher, err := NewSearcher(newPositional())
	require.NoError(t, err)

	// Notes with no usable tokens produce zero fingerprints and score 0
	notes := []*core.Note{
		{Id: 1, Title: "it", Content: "a an of to"},
		{Id: 2},
	}

	results, err := searcher.Search(context.Background(), "kubernetes deployment rollout", notes)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearch_EmptyQuery(t *testing.T) {
	searcher, err := NewSearcher(newPositional())
	require.NoError(t, err)

	notes := []*core.Note{
		{Id: 1, Title: "Some note", Content: "with real content inside"},
	}

	results, err := searcher.Search(context.Background(), "", notes)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearch_UsesCachedFingerprint(t *testing.T) {
	gen := mock.NewGenerator()
	searcher, err := NewSearcher(gen)
	require.NoError(t, err)

	cached := core.Fingerprint{1, 0, 0}
	notes := []*core.Note{
		{Id: 1, Title: "Cached", Embedding: cached},
	}

	_, err = searcher.Search(context.Background(), "query", notes)
	require.NoError(t, err)

	// Only the query should hit the generator
	assert.Equal(t, 1, gen.CallCount())
	assert.Equal(t, cached, notes[0].Embedding)
}

func TestSearch_AttachesComputedFingerprint(t *testing.T) {
	searcher, err := NewSearcher(newPositional())
	require.NoError(t, err)

	notes := []*core.Note{
		{Id: 1, Title: "Tomato seedlings", Content: "tomato seedlings watering"},
	}

	_, err = searcher.Search(context.Background(), "tomato seedlings watering", notes)
	require.NoError(t, err)
	assert.NotEmpty(t, notes[0].Embedding)
}

func TestSearch_StableTieBreak(t *testing.T) {
	gen := mock.NewGenerator()
	// All notes and the query share one fingerprint, so every score ties.
	gen.GenerateFunc = func(ctx context.Context, input string) (core.Fingerprint, error) {
		return core.Fingerprint{1, 0}, nil
	}

	searcher, err := NewSearcher(gen)
	require.NoError(t, err)

	notes := []*core.Note{
		{Id: 10, Title: "first"},
		{Id: 20, Title: "second"},
		{Id: 30, Title: "third"},
	}

	results, err := searcher.Search(context.Background(), "query", notes)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, core.ID(10), results[0].Note.Id)
	assert.Equal(t, core.ID(20), results[1].Note.Id)
	assert.Equal(t, core.ID(30), results[2].Note.Id)
}

type recordingMonitor struct {
	started  bool
	scored   int
	finished bool
}

func (m *recordingMonitor) Start(_ string)                        { m.started = true }
func (m *recordingMonitor) QueryFingerprinted(_ core.Fingerprint) {}
func (m *recordingMonitor) NoteFingerprinted(_ *core.Note)        {}
func (m *recordingMonitor) NoteScored(_ *core.Note, _ float32)    { m.scored++ }
func (m *recordingMonitor) Finish(_ []*core.SearchResult)         { m.finished = true }

func TestSearchWithMonitor(t *testing.T) {
	searcher, err := NewSearcher(newPositional())
	require.NoError(t, err)

	notes := []*core.Note{
		{Id: 1, Title: "alpha note", Content: "alpha content"},
		{Id: 2, Title: "beta note", Content: "beta content"},
	}

	monitor := &recordingMonitor{}
	_, err = searcher.SearchWithMonitor(context.Background(), "alpha", notes, monitor)
	require.NoError(t, err)

	assert.True(t, monitor.started)
	assert.Equal(t, 2, monitor.scored)
	assert.True(t, monitor.finished)
}
