package gateway

import (
	"sync"
	"time"

	"github.com/casedeck/casedeck/internal/models"
)

// dailyBudget caps gateway calls per calendar day. The counter resets when
// the local date changes; a zero limit disables the cap.
type dailyBudget struct {
	mu    sync.Mutex
	limit int
	day   string
	calls int
	clock models.Clock
}

func newDailyBudget(limit int, clock models.Clock) *dailyBudget {
	if clock == nil {
		clock = models.SystemClock{}
	}
	return &dailyBudget{limit: limit, clock: clock}
}

// reserve consumes one call from today's budget.
func (b *dailyBudget) reserve() error {
	if b.limit <= 0 {
		return nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	today := b.clock.Now().Format(time.DateOnly)
	if today != b.day {
		b.day = today
		b.calls = 0
	}
	if b.calls >= b.limit {
		return models.NewError(models.KindBudgetExceeded,
			"daily limit of %d AI calls reached", b.limit)
	}
	b.calls++
	return nil
}

// remaining reports how many calls are left today.
func (b *dailyBudget) remaining() int {
	if b.limit <= 0 {
		return -1
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.clock.Now().Format(time.DateOnly) != b.day {
		return b.limit
	}
	return b.limit - b.calls
}
