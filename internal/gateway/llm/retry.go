package llm

import (
	"context"
	"time"

	"crm-ai-gateway/internal/common/errors"
)

// Retrying retries retryable failures with exponential backoff. Credential
// and timeout errors are returned immediately.
type Retrying struct {
	Model
	MaxRetries int
	// BaseDelay is the first backoff; zero means 100ms.
	BaseDelay time.Duration
}

func WithRetry(m Model, maxRetries int) Model {
	if maxRetries <= 0 {
		return m
	}
	return &Retrying{Model: m, MaxRetries: maxRetries}
}

func (r *Retrying) Generate(ctx context.Context, prompt string, params Params) (string, error) {
	base := r.BaseDelay
	if base <= 0 {
		base = 100 * time.Millisecond
	}

	var lastErr error
	for attempt := 0; attempt <= r.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := base * time.Duration(1<<(attempt-1))
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return "", errors.Classify(r.Provider(), ctx.Err())
			}
		}

		text, err := r.Model.Generate(ctx, prompt, params)
		if err == nil {
			return text, nil
		}
		lastErr = err

		if ctx.Err() != nil || !errors.IsRetryable(err) {
			break
		}
	}
	return "", lastErr
}
