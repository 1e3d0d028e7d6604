package gateway

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/casedeck/casedeck/internal/models"
)

// WithRetry runs fn up to attempts times, retrying only transient failures
// (transport errors and empty generations) with linear backoff. Input,
// budget, and credential errors surface immediately.
func WithRetry[T any](ctx context.Context, attempts int, backoff time.Duration, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		out, err := fn(ctx)
		if err == nil {
			return out, nil
		}
		lastErr = err

		if !retryable(err) || attempt == attempts {
			return zero, err
		}

		wait := backoff * time.Duration(attempt)
		log.Warn().
			Err(err).
			Int("attempt", attempt).
			Dur("backoff", wait).
			Msg("Transient AI failure, retrying")

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(wait):
		}
	}
	return zero, lastErr
}

func retryable(err error) bool {
	switch models.KindOf(err) {
	case models.KindTransportFailure, models.KindNoSlidesGenerated:
		return true
	}
	return false
}
