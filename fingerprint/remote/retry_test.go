package remote

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetryWithBackoff(t *testing.T) {
	ctx := context.Background()

	t.Run("succeeds on first attempt", func(t *testing.T) {
		calls := 0
		err := RetryWithBackoff(ctx, func() error {
			calls++
			return nil
		}, 3, time.Millisecond)
		require.NoError(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("retries until success", func(t *testing.T) {
		calls := 0
		err := RetryWithBackoff(ctx, func() error {
			calls++
			if calls < 3 {
				return errors.New("transient")
			}
			return nil
		}, 5, time.Millisecond)
		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("returns last error when attempts exhausted", func(t *testing.T) {
		wantErr := errors.New("persistent")
		calls := 0
		err := RetryWithBackoff(ctx, func() error {
			calls++
			return wantErr
		}, 3, time.Millisecond)
		assert.Equal(t, wantErr, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("rejects non-positive attempts", func(t *testing.T) {
		err := RetryWithBackoff(ctx, func() error { return nil }, 0, time.Millisecond)
		assert.Equal(t, ErrInvalidMaxAttempts, err)
	})

	t.Run("honors context cancellation", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(context.Background())
		cancel()
		err := RetryWithBackoff(cancelled, func() error { return errors.New("never runs") }, 3, time.Millisecond)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestConfig_Validate(t *testing.T) {
	t.Run("complete config", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Host = "http://localhost:11434/v1"
		cfg.Model = "embeddinggemma"
		assert.NoError(t, cfg.Validate())
	})

	t.Run("missing host", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Model = "embeddinggemma"
		assert.Equal(t, ErrHostRequired, cfg.Validate())
	})

	t.Run("missing model", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Host = "http://localhost:11434/v1"
		assert.Equal(t, ErrModelRequired, cfg.Validate())
	})

	t.Run("invalid retry attempts", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Host = "http://localhost:11434/v1"
		cfg.Model = "embeddinggemma"
		cfg.Retry.MaxAttempts = 0
		assert.Equal(t, ErrInvalidMaxAttempts, cfg.Validate())
	})
}
