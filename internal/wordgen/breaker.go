package wordgen

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"

	"codeberg.org/snonux/vocabtester/internal/vocab"
)

// BreakerGenerator stops calling a backend for a while after repeated
// failures, so a broken key or an outage fails fast in the UI.
type BreakerGenerator struct {
	next Generator
	cb   *gobreaker.CircuitBreaker
}

// NewBreakerGenerator wraps next with a circuit breaker that opens after
// three consecutive failures and probes again after thirty seconds.
func NewBreakerGenerator(next Generator) *BreakerGenerator {
	return newBreakerGenerator(next, gobreaker.Settings{
		Name:        next.Name(),
		MaxRequests: 1,
		Timeout:     30 * time.Second,
	})
}

func newBreakerGenerator(next Generator, st gobreaker.Settings) *BreakerGenerator {
	if st.ReadyToTrip == nil {
		st.ReadyToTrip = func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		}
	}
	st.IsSuccessful = func(err error) bool {
		// A cancelled request says nothing about the backend.
		return err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
	}
	st.OnStateChange = func(name string, from, to gobreaker.State) {
		slog.Warn("generator circuit changed state", "generator", name, "from", from.String(), "to", to.String())
	}
	return &BreakerGenerator{next: next, cb: gobreaker.NewCircuitBreaker(st)}
}

// Name returns the wrapped backend name.
func (b *BreakerGenerator) Name() string {
	return b.next.Name()
}

// State exposes the breaker state.
func (b *BreakerGenerator) State() gobreaker.State {
	return b.cb.State()
}

// Generate calls the wrapped backend unless the circuit is open.
func (b *BreakerGenerator) Generate(ctx context.Context, kanji string) (*vocab.Word, error) {
	res, err := b.cb.Execute(func() (interface{}, error) {
		w, err := b.next.Generate(ctx, kanji)
		if err != nil && ctx.Err() != nil {
			// SDKs do not always keep the context error in the chain.
			return nil, fmt.Errorf("%w: %w", ctx.Err(), err)
		}
		return w, err
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%s unavailable: %w", b.next.Name(), err)
		}
		return nil, err
	}
	return res.(*vocab.Word), nil
}
