package graph

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/poiesic/notewise/core"
	"github.com/poiesic/notewise/similarity"
)

// Default thresholds and blend weights. These constants were carried over
// from the system this engine replaces and are kept for behavioral parity;
// the options below expose them as calibration knobs.
const (
	DefaultBuildThreshold   float32 = 0.3
	DefaultRelatedThreshold float32 = 0.2
	DefaultRelatedLimit             = 5

	defaultTagWeight     float32 = 0.3
	defaultVectorWeight  float32 = 0.5
	defaultKeywordWeight float32 = 0.2
)

// Weights controls how tag, vector, and keyword similarity blend into a
// single relationship strength.
type Weights struct {
	Tag     float32
	Vector  float32
	Keyword float32
}

// Builder derives weighted relationships between notes by pairwise blended
// similarity. Every build is a full recomputation over the supplied note
// set; callers must not mutate the slice while a build runs.
type Builder struct {
	buildThreshold   float32
	relatedThreshold float32
	relatedLimit     int
	weights          Weights
	logger           *slog.Logger
}

// Option configures a Builder.
type Option func(*Builder) error

// WithBuildThreshold sets the minimum blended score for Build edges.
// Default is DefaultBuildThreshold.
func WithBuildThreshold(threshold float32) Option {
	return func(b *Builder) error {
		b.buildThreshold = threshold
		return nil
	}
}

// WithRelatedThreshold sets the minimum blended score for FindRelated.
// Default is DefaultRelatedThreshold.
func WithRelatedThreshold(threshold float32) Option {
	return func(b *Builder) error {
		b.relatedThreshold = threshold
		return nil
	}
}

// WithRelatedLimit sets the maximum number of FindRelated results.
// Default is DefaultRelatedLimit. Values below 1 are rejected.
func WithRelatedLimit(limit int) Option {
	return func(b *Builder) error {
		if limit < 1 {
			return ErrInvalidLimit
		}
		b.relatedLimit = limit
		return nil
	}
}

// WithWeights sets the blend weights.
// Defaults are 0.3 tag, 0.5 vector, 0.2 keyword.
func WithWeights(w Weights) Option {
	return func(b *Builder) error {
		if w.Tag < 0 || w.Vector < 0 || w.Keyword < 0 {
			return ErrInvalidWeights
		}
		b.weights = w
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) error {
		if logger == nil {
			logger = slog.Default()
		}
		b.logger = logger
		return nil
	}
}

// NewBuilder creates a new graph builder.
func NewBuilder(opts ...Option) (*Builder, error) {
	b := &Builder{
		buildThreshold:   DefaultBuildThreshold,
		relatedThreshold: DefaultRelatedThreshold,
		relatedLimit:     DefaultRelatedLimit,
		weights: Weights{
			Tag:     defaultTagWeight,
			Vector:  defaultVectorWeight,
			Keyword: defaultKeywordWeight,
		},
		logger: slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(b); err != nil {
			return nil, err
		}
	}

	return b, nil
}

// blendedScore computes the weighted combination of tag, vector, and
// keyword similarity between two notes. The vector contribution is 0 when
// either fingerprint is absent.
func (b *Builder) blendedScore(a, c *core.Note) float32 {
	score := b.weights.Tag * similarity.Tags(a.Tags, c.Tags)
	if len(a.Embedding) > 0 && len(c.Embedding) > 0 {
		score += b.weights.Vector * similarity.Vector(a.Embedding, c.Embedding)
	}
	score += b.weights.Keyword * similarity.Keywords(a.Text(), c.Text())
	return score
}

// Build derives relationships for every unordered pair of notes whose
// blended similarity reaches the build threshold. The computation is
// O(n²) in the number of notes and deterministic: rebuilding from the
// same inputs yields the same edge set. A cooperative cancellation point
// runs between pairs.
func (b *Builder) Build(ctx context.Context, notes []*core.Note) ([]*core.Relationship, error) {
	start := time.Now()
	var relationships []*core.Relationship

	for i := 0; i < len(notes); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for j := i + 1; j < len(notes); j++ {
			score := b.blendedScore(notes[i], notes[j])
			if score >= b.buildThreshold {
				relationships = append(relationships, &core.Relationship{
					SourceId: notes[i].Id,
					TargetId: notes[j].Id,
					Strength: score,
					Type:     core.RelationTypeSemantic,
				})
			}
		}
	}

	b.logger.Debug("graph build complete",
		"notes", len(notes),
		"edges", len(relationships),
		"elapsed", time.Since(start))

	return relationships, nil
}

// FindRelated scores every other note in the collection against the given
// note and returns up to the configured limit of notes whose blended score
// reaches the related threshold, ordered by descending score.
func (b *Builder) FindRelated(ctx context.Context, note *core.Note, notes []*core.Note) ([]*core.SearchResult, error) {
	if note == nil {
		return nil, ErrNoteRequired
	}

	var related []*core.SearchResult
	for _, other := range notes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if other == nil || other.Id == note.Id {
			continue
		}

		score := b.blendedScore(note, other)
		if score >= b.relatedThreshold {
			related = append(related, &core.SearchResult{Note: other, Score: score})
		}
	}

	sort.SliceStable(related, func(i, j int) bool {
		return related[i].Score > related[j].Score
	})

	if len(related) > b.relatedLimit {
		related = related[:b.relatedLimit]
	}

	return related, nil
}
