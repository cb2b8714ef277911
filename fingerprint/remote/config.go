// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package remote

import (
	"errors"
	"strings"
	"time"
)

var (
	// ErrHostRequired is returned when no embedding service host is configured.
	ErrHostRequired = errors.New("embedding service host required")

	// ErrModelRequired is returned when no embedding model is configured.
	ErrModelRequired = errors.New("embedding model required")

	// ErrInvalidMaxAttempts is returned for a non-positive retry attempt count.
	ErrInvalidMaxAttempts = errors.New("max attempts must be positive")
)

// RetryConfig controls retry behavior for embedding service calls.
type RetryConfig struct {
	// MaxAttempts is the maximum number of attempts per call. Default: 3.
	MaxAttempts int

	// BaseDelay is the base delay between retries; it doubles on each
	// retry. Default: 1s.
	BaseDelay time.Duration
}

// Config holds configuration for the remote generator.
type Config struct {
	// Host is the base URL for the embedding service API.
	// Example: "http://localhost:11434/v1" for a local OpenAI-compatible server
	Host string

	// Model is the model identifier to use for text embeddings.
	// Example: "embeddinggemma", "text-embedding-3-small"
	Model string

	// Retry controls backoff for transient service failures.
	Retry RetryConfig
}

// DefaultConfig returns a Config with default retry settings.
// Host and Model must still be provided before use.
func DefaultConfig() *Config {
	return &Config{
		Retry: RetryConfig{
			MaxAttempts: 3,
			BaseDelay:   time.Second,
		},
	}
}

// Validate checks that the configuration is complete.
func (c *Config) Validate() error {
	if c == nil || strings.TrimSpace(c.Host) == "" {
		return ErrHostRequired
	}
	if strings.TrimSpace(c.Model) == "" {
		return ErrModelRequired
	}
	if c.Retry.MaxAttempts <= 0 {
		return ErrInvalidMaxAttempts
	}
	return nil
}
