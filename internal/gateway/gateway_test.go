package gateway

import (
	"context"
	"errors"
	"testing"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/casedeck/casedeck/internal/config"
	"github.com/casedeck/casedeck/internal/models"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func TestDailyBudget_ReserveAndReset(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 3, 1, 23, 50, 0, 0, time.UTC)}
	budget := newDailyBudget(2, clock)

	require.NoError(t, budget.reserve())
	require.NoError(t, budget.reserve())
	assert.Equal(t, 0, budget.remaining())

	err := budget.reserve()
	require.Error(t, err)
	assert.True(t, models.IsKind(err, models.KindBudgetExceeded))

	// Crossing midnight restores the full budget.
	clock.now = clock.now.Add(15 * time.Minute)
	assert.Equal(t, 2, budget.remaining())
	require.NoError(t, budget.reserve())
}

func TestDailyBudget_ZeroLimitIsUnlimited(t *testing.T) {
	budget := newDailyBudget(0, &fakeClock{now: time.Now()})
	for i := 0; i < 500; i++ {
		require.NoError(t, budget.reserve())
	}
	assert.Equal(t, -1, budget.remaining())
}

func TestWithRetry_SucceedsAfterTransientFailures(t *testing.T) {
	calls := 0
	out, err := WithRetry(context.Background(), 3, time.Millisecond, func(context.Context) (string, error) {
		calls++
		if calls < 3 {
			return "", models.NewError(models.KindTransportFailure, "connection reset")
		}
		return "deck", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "deck", out)
	assert.Equal(t, 3, calls)
}

func TestWithRetry_NonRetryableSurfacesImmediately(t *testing.T) {
	tests := []struct {
		name string
		kind models.ErrorKind
	}{
		{"budget exhausted", models.KindBudgetExceeded},
		{"schema violation", models.KindSchemaViolation},
		{"misconfigured", models.KindMisconfigured},
		{"rate limited", models.KindRateLimited},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			_, err := WithRetry(context.Background(), 3, time.Millisecond, func(context.Context) (int, error) {
				calls++
				return 0, models.NewError(tt.kind, "permanent failure")
			})
			require.Error(t, err)
			assert.True(t, models.IsKind(err, tt.kind))
			assert.Equal(t, 1, calls)
		})
	}
}

func TestWithRetry_ExhaustsAttempts(t *testing.T) {
	calls := 0
	_, err := WithRetry(context.Background(), 3, time.Millisecond, func(context.Context) (int, error) {
		calls++
		return 0, models.NewError(models.KindNoSlidesGenerated, "empty response")
	})
	require.Error(t, err)
	assert.True(t, models.IsKind(err, models.KindNoSlidesGenerated))
	assert.Equal(t, 3, calls)
}

func TestWithRetry_HonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := WithRetry(ctx, 3, time.Hour, func(context.Context) (int, error) {
		return 0, models.NewError(models.KindTransportFailure, "connection reset")
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestMapProviderError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind models.ErrorKind
	}{
		{"bad credentials", &openai.APIError{HTTPStatusCode: 401}, models.KindMisconfigured},
		{"forbidden", &openai.APIError{HTTPStatusCode: 403}, models.KindMisconfigured},
		{"throttled", &openai.APIError{HTTPStatusCode: 429}, models.KindRateLimited},
		{"server error", &openai.APIError{HTTPStatusCode: 500}, models.KindTransportFailure},
		{"deadline", context.DeadlineExceeded, models.KindTransportFailure},
		{"plain error", errors.New("socket closed"), models.KindTransportFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mapped := mapProviderError(tt.err)
			assert.True(t, models.IsKind(mapped, tt.kind), "got kind %q", models.KindOf(mapped))
			assert.True(t, errors.Is(mapped, tt.err))
		})
	}
}

func TestNew_RequiresAPIKey(t *testing.T) {
	_, err := New(&config.LLMConfig{}, nil)
	require.Error(t, err)
	assert.True(t, models.IsKind(err, models.KindMisconfigured))

	gw, err := New(&config.LLMConfig{APIKey: "sk-test", MaxCallsPerDay: 5}, nil)
	require.NoError(t, err)
	assert.Equal(t, 5, gw.budget.remaining())
}

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain json", `{"title":"x"}`, `{"title":"x"}`},
		{"fenced json", "```json\n{\"title\":\"x\"}\n```", `{"title":"x"}`},
		{"bare fence", "```\n{\"title\":\"x\"}\n```", `{"title":"x"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stripCodeFence(tt.in))
		})
	}
}
