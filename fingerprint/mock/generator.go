package mock

import (
	"context"
	"hash/fnv"

	"github.com/poiesic/notewise/core"
	"github.com/poiesic/notewise/fingerprint"
)

// Generator is a test double for fingerprint.Generator.
// It allows custom behavior injection via function fields.
type Generator struct {
	// GenerateFunc is called by Generate if set.
	// If nil, uses default deterministic behavior.
	GenerateFunc func(ctx context.Context, input string) (core.Fingerprint, error)

	// GenerateBatchFunc is called by GenerateBatch if set.
	// If nil, uses default deterministic behavior.
	GenerateBatchFunc func(ctx context.Context, inputs []string) ([]core.Fingerprint, error)

	callCount int
}

var _ fingerprint.Generator = (*Generator)(nil)

// NewGenerator creates a mock generator with default deterministic behavior.
// Note: Returns the concrete type to allow test assertions.
func NewGenerator() *Generator {
	return &Generator{}
}

// Generate builds a deterministic fingerprint based on the input hash.
func (g *Generator) Generate(ctx context.Context, input string) (core.Fingerprint, error) {
	g.callCount++

	if g.GenerateFunc != nil {
		return g.GenerateFunc(ctx, input)
	}

	return deterministicFingerprint(input, fingerprint.DefaultDimensions), nil
}

// GenerateBatch builds deterministic fingerprints for multiple inputs.
func (g *Generator) GenerateBatch(ctx context.Context, inputs []string) ([]core.Fingerprint, error) {
	g.callCount++

	if g.GenerateBatchFunc != nil {
		return g.GenerateBatchFunc(ctx, inputs)
	}

	fingerprints := make([]core.Fingerprint, len(inputs))
	for i, input := range inputs {
		fingerprints[i] = deterministicFingerprint(input, fingerprint.DefaultDimensions)
	}
	return fingerprints, nil
}

// CallCount returns the number of times any method was called.
func (g *Generator) CallCount() int {
	return g.callCount
}

// Reset clears the call count and injected functions.
func (g *Generator) Reset() {
	g.callCount = 0
	g.GenerateFunc = nil
	g.GenerateBatchFunc = nil
}

// deterministicFingerprint creates a unit-normalized fingerprint from the
// input's FNV hash, so the same input always produces the same fingerprint.
func deterministicFingerprint(input string, dim int) core.Fingerprint {
	if input == "" {
		return core.Fingerprint{}
	}

	h := fnv.New32a()
	h.Write([]byte(input))
	seed := h.Sum32()

	fp := make(core.Fingerprint, dim)
	for i := 0; i < dim; i++ {
		// Simple pseudo-random generation based on seed and index
		seed = seed*1664525 + 1013904223 // LCG constants
		fp[i] = float32(seed%1000) / 1000.0
	}

	return fingerprint.Normalize(fp)
}
