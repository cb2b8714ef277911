// Package remote implements fingerprint.Generator against an external
// OpenAI-compatible embedding service. It is the swap-in replacement the
// positional generator's interface isolation anticipates: vocabulary-true
// embeddings with exact cosine semantics, at the cost of a network
// dependency. Returned vectors are unit-normalized so the dot-product
// precondition of similarity.Vector holds.
package remote

import (
	"context"
	"log/slog"

	"github.com/poiesic/notewise/core"
	"github.com/poiesic/notewise/fingerprint"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"
)

// Generator implements fingerprint.Generator using an embedding API.
type Generator struct {
	embedder embeddings.Embedder
	retry    RetryConfig
	logger   *slog.Logger
}

var _ fingerprint.Generator = (*Generator)(nil)

// NewGenerator creates a remote generator using the provided configuration.
func NewGenerator(config *Config) (*Generator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Use "none" as token for local OpenAI-compatible services that don't
	// require authentication
	client, err := openai.New(
		openai.WithBaseURL(config.Host),
		openai.WithToken("none"),
		openai.WithEmbeddingModel(config.Model),
	)
	if err != nil {
		return nil, err
	}

	embedder, err := embeddings.NewEmbedder(client, embeddings.WithStripNewLines(true))
	if err != nil {
		return nil, err
	}

	return &Generator{
		embedder: embedder,
		retry:    config.Retry,
		logger:   slog.Default().With("component", "remote-generator"),
	}, nil
}

// Generate builds a fingerprint for a single text string.
func (g *Generator) Generate(ctx context.Context, input string) (core.Fingerprint, error) {
	fps, err := g.GenerateBatch(ctx, []string{input})
	if err != nil {
		return nil, err
	}
	if len(fps) == 0 {
		g.logger.Warn("embedding service returned empty result")
		return core.Fingerprint{}, nil
	}
	return fps[0], nil
}

// GenerateBatch builds fingerprints for multiple texts in input order.
// Transient service failures are retried with exponential backoff.
func (g *Generator) GenerateBatch(ctx context.Context, inputs []string) ([]core.Fingerprint, error) {
	g.logger.Debug("generating embeddings for texts", "count", len(inputs))

	var vectors [][]float32
	err := RetryWithBackoff(ctx, func() error {
		var embedErr error
		vectors, embedErr = g.embedder.EmbedDocuments(ctx, inputs)
		return embedErr
	}, g.retry.MaxAttempts, g.retry.BaseDelay)
	if err != nil {
		g.logger.Error("failed to generate embeddings", "count", len(inputs), "err", err)
		return nil, err
	}

	fingerprints := make([]core.Fingerprint, len(vectors))
	for i, vec := range vectors {
		fingerprints[i] = fingerprint.Normalize(core.Fingerprint(vec))
	}
	return fingerprints, nil
}
