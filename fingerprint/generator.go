package fingerprint

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/poiesic/notewise/core"
	"github.com/poiesic/notewise/text"
)

const (
	// DefaultDimensions is the maximum fingerprint length.
	DefaultDimensions = 100

	// defaultDelay simulates the latency of a future external scoring
	// service. It has no correctness implication and always resolves.
	defaultDelay = 10 * time.Millisecond
)

// Generator builds fingerprints from text.
// Implementations must be thread-safe for concurrent use.
type Generator interface {
	// Generate builds a fingerprint for a single text string.
	// A text with no usable tokens yields an empty fingerprint, not an error.
	Generate(ctx context.Context, input string) (core.Fingerprint, error)

	// GenerateBatch builds fingerprints for multiple texts.
	// The returned slice contains fingerprints in input order.
	GenerateBatch(ctx context.Context, inputs []string) ([]core.Fingerprint, error)
}

// Positional is the default model-free Generator.
// It is a pure function of its input; callers decide whether to cache
// results.
type Positional struct {
	dimensions int
	delay      time.Duration
	logger     *slog.Logger
}

var _ Generator = (*Positional)(nil)

// Option configures a Positional generator.
type Option func(*Positional)

// WithDimensions sets the maximum fingerprint length.
// Default is DefaultDimensions. Values below 1 are ignored.
func WithDimensions(n int) Option {
	return func(p *Positional) {
		if n >= 1 {
			p.dimensions = n
		}
	}
}

// WithDelay sets the simulated processing delay per generation.
// Use 0 to disable; tests typically do.
func WithDelay(d time.Duration) Option {
	return func(p *Positional) {
		if d >= 0 {
			p.delay = d
		}
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Positional) {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
	}
}

// NewPositional creates a positional fingerprint generator.
func NewPositional(opts ...Option) *Positional {
	p := &Positional{
		dimensions: DefaultDimensions,
		delay:      defaultDelay,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Generate builds a fingerprint from the first N tokens of the input in
// document order. Tokens inside the window are not deduplicated: a repeated
// token contributes one dimension per occurrence, each holding its whole-
// document frequency. The result is L2-normalized unless no token survived
// filtering, in which case it is empty.
func (p *Positional) Generate(ctx context.Context, input string) (core.Fingerprint, error) {
	if p.delay > 0 {
		// Stand-in for a future external scoring call; always resolves.
		time.Sleep(p.delay)
	}

	tokens := text.Tokenize(input)
	if len(tokens) == 0 {
		p.logger.Debug("no usable tokens in input", "length", len(input))
		return core.Fingerprint{}, nil
	}

	freq := make(map[string]int, len(tokens))
	for _, tok := range tokens {
		freq[tok]++
	}

	window := tokens
	if len(window) > p.dimensions {
		window = window[:p.dimensions]
	}

	fp := make(core.Fingerprint, len(window))
	for i, tok := range window {
		fp[i] = float32(freq[tok])
	}

	return Normalize(fp), nil
}

// GenerateBatch builds fingerprints for multiple texts in input order.
func (p *Positional) GenerateBatch(ctx context.Context, inputs []string) ([]core.Fingerprint, error) {
	fingerprints := make([]core.Fingerprint, len(inputs))
	for i, input := range inputs {
		fp, err := p.Generate(ctx, input)
		if err != nil {
			return nil, err
		}
		fingerprints[i] = fp
	}
	return fingerprints, nil
}

// Normalize scales a fingerprint to unit length.
// Returns a new fingerprint. An all-zero input is returned as a zero
// fingerprint of the same length.
func Normalize(fp core.Fingerprint) core.Fingerprint {
	if len(fp) == 0 {
		return fp
	}

	var magnitude float64
	for _, v := range fp {
		magnitude += float64(v) * float64(v)
	}
	magnitude = math.Sqrt(magnitude)

	result := make(core.Fingerprint, len(fp))
	if magnitude == 0 {
		return result
	}

	for i, v := range fp {
		result[i] = float32(float64(v) / magnitude)
	}
	return result
}
