// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package generate asks a language model for elective recommendations. It
// builds the counsellor prompt, sends it through a provider Backend and
// returns the raw reply text for the parse package.
package generate

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/pdiddy/elective-advisor/pkg/types"
)

const (
	defaultMaxRetries = 3
	defaultMaxTokens  = 4096
)

// Prompt is a rendered request: the system instructions and the user turn.
type Prompt struct {
	System string
	User   string
}

// Backend sends a prompt to a text-generation service and returns the reply
// text. Implementations exist for OpenAI and Anthropic; tests supply fakes.
type Backend interface {
	Complete(ctx context.Context, p Prompt) (string, error)
}

// NewBackend returns the backend selected by cfg.Provider.
func NewBackend(cfg types.AIConfig) (Backend, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("no API key configured for provider %q", cfg.Provider)
	}

	switch cfg.Provider {
	case types.ProviderOpenAI, "":
		return &OpenAIBackend{
			APIKey:  cfg.APIKey,
			Model:   cfg.Model,
			BaseURL: cfg.BaseURL,
			Timeout: cfg.Timeout,
		}, nil
	case types.ProviderAnthropic:
		return &ClaudeBackend{
			APIKey:  cfg.APIKey,
			Model:   cfg.Model,
			BaseURL: cfg.BaseURL,
			Timeout: cfg.Timeout,
		}, nil
	default:
		return nil, fmt.Errorf("unknown AI provider %q (want openai or anthropic)", cfg.Provider)
	}
}

// backoffBase is the first retry delay. Tests override it to avoid real
// sleeps.
var backoffBase = time.Second

// Generate calls backend with exponential backoff between failed attempts.
// maxRetries of zero or less uses the default (3).
func Generate(ctx context.Context, backend Backend, p Prompt, maxRetries int) (string, error) {
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * backoffBase
			slog.Warn("generation failed, retrying", "attempt", attempt, "backoff", backoff, "err", lastErr)
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoff):
			}
		}

		reply, err := backend.Complete(ctx, p)
		if err == nil {
			return reply, nil
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		lastErr = err
	}
	return "", fmt.Errorf("after %d retries: %w", maxRetries, lastErr)
}
