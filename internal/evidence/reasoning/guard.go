package reasoning

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"civreg/pkg/platform/circuit"
	"civreg/pkg/platform/sentinel"
)

const DefaultCooldown = 30 * time.Second

type completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Guarded fails fast while the provider's circuit is open. After the
// cool-down, calls are let through as trials; enough trial successes close
// the circuit again.
type Guarded struct {
	next     completer
	breaker  *circuit.Breaker
	cooldown time.Duration
	now      func() time.Time
	logger   *slog.Logger

	mu       sync.Mutex
	openedAt time.Time
}

type GuardOption func(*Guarded)

func WithGuardLogger(logger *slog.Logger) GuardOption {
	return func(g *Guarded) {
		g.logger = logger
	}
}

func WithCooldown(d time.Duration) GuardOption {
	return func(g *Guarded) {
		if d > 0 {
			g.cooldown = d
		}
	}
}

func withClock(now func() time.Time) GuardOption {
	return func(g *Guarded) {
		g.now = now
	}
}

func NewGuarded(next completer, breaker *circuit.Breaker, opts ...GuardOption) (*Guarded, error) {
	if next == nil {
		return nil, errors.New("completer is required")
	}
	if breaker == nil {
		return nil, errors.New("breaker is required")
	}
	g := &Guarded{
		next:     next,
		breaker:  breaker,
		cooldown: DefaultCooldown,
		now:      time.Now,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

func (g *Guarded) Complete(ctx context.Context, prompt string) (string, error) {
	if g.rejecting() {
		return "", fmt.Errorf("%s circuit open: %w", g.breaker.Name(), sentinel.ErrUnavailable)
	}

	out, err := g.next.Complete(ctx, prompt)
	if err != nil {
		// A caller that cancelled or ran out of time says nothing about
		// provider health. The client's own per-call timeout still counts.
		if ctx.Err() != nil || errors.Is(err, context.Canceled) {
			return "", err
		}
		g.recordFailure(err)
		return "", err
	}

	if _, change := g.breaker.RecordSuccess(); change.Closed {
		g.logger.InfoContext(ctx, "reasoning circuit closed", "breaker", g.breaker.Name())
	}
	return out, nil
}

func (g *Guarded) rejecting() bool {
	if !g.breaker.IsOpen() {
		return false
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.now().Sub(g.openedAt) < g.cooldown
}

func (g *Guarded) recordFailure(err error) {
	useFallback, change := g.breaker.RecordFailure()
	if !useFallback {
		return
	}
	// A failed trial restarts the cool-down.
	g.mu.Lock()
	g.openedAt = g.now()
	g.mu.Unlock()
	if change.Opened {
		g.logger.Warn("reasoning circuit opened",
			"breaker", g.breaker.Name(),
			"cooldown", g.cooldown,
			"error", err,
		)
	}
}
