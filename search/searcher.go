package search

import (
	"context"
	"log/slog"
	"sort"

	"github.com/poiesic/notewise/core"
	"github.com/poiesic/notewise/fingerprint"
	"github.com/poiesic/notewise/similarity"
)

// DefaultThreshold is the minimum score a note must strictly exceed to be
// included in search results.
const DefaultThreshold float32 = 0.1

// Searcher ranks a note collection against a query by fingerprint
// similarity.
type Searcher struct {
	generator fingerprint.Generator
	threshold float32
	logger    *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithThreshold sets the minimum relevance score.
// Default is DefaultThreshold.
func WithThreshold(threshold float32) Option {
	return func(s *Searcher) error {
		s.threshold = threshold
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewSearcher creates a new searcher.
func NewSearcher(generator fingerprint.Generator, opts ...Option) (*Searcher, error) {
	if generator == nil {
		return nil, ErrGeneratorRequired
	}

	s := &Searcher{
		generator: generator,
		threshold: DefaultThreshold,
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Search ranks notes by relevance to the query.
// Returns results strictly above the threshold, sorted by descending score;
// ties preserve the input order of the note collection. An empty result is
// a valid outcome, not an error.
func (s *Searcher) Search(ctx context.Context, query string, notes []*core.Note) ([]*core.SearchResult, error) {
	return s.SearchWithMonitor(ctx, query, notes, nil)
}

// SearchWithMonitor ranks notes by relevance to the query with monitoring.
// The monitor receives callbacks at each stage of the search process.
//
// A note's cached fingerprint is used when present; otherwise one is
// computed from its title and content and attached to the note, so the
// caller can persist it alongside the result.
func (s *Searcher) SearchWithMonitor(ctx context.Context, query string, notes []*core.Note, monitor Monitor) ([]*core.SearchResult, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	monitor.Start(query)

	queryFp, err := s.generator.Generate(ctx, query)
	if err != nil {
		s.logger.Error("error generating fingerprint for query", "query", query, "err", err)
		return nil, err
	}
	monitor.QueryFingerprinted(queryFp)

	results := make([]*core.SearchResult, 0, len(notes))
	for _, note := range notes {
		if note == nil {
			continue
		}

		fp := note.Embedding
		if len(fp) == 0 {
			fp, err = s.generator.Generate(ctx, note.Text())
			if err != nil {
				s.logger.Error("error generating fingerprint for note", "noteId", note.Id, "err", err)
				return nil, err
			}
			note.Embedding = fp
			monitor.NoteFingerprinted(note)
		}

		score := similarity.Vector(queryFp, fp)
		monitor.NoteScored(note, score)

		if score > s.threshold {
			results = append(results, &core.SearchResult{Note: note, Score: score})
		}
	}

	// Stable sort keeps input order for tied scores
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	monitor.Finish(results)
	return results, nil
}
