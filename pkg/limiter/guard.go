package limiter

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

// GuardConfig bounds the outbound LLM call rate per model.
type GuardConfig struct {
	RequestsPerMinute float64       `json:"requests_per_minute"`
	Burst             int           `json:"burst"`
	BreakerInterval   time.Duration `json:"breaker_interval"`
	BreakerTimeout    time.Duration `json:"breaker_timeout"`
}

// DefaultGuardConfig returns settings suitable for a single fallback model.
func DefaultGuardConfig() GuardConfig {
	return GuardConfig{
		RequestsPerMinute: 600,
		Burst:             20,
		BreakerInterval:   10 * time.Second,
		BreakerTimeout:    30 * time.Second,
	}
}

// Guard serializes protection around outbound LLM calls: rate limit first,
// then the circuit breaker, then the retrier inside the breaker window.
type Guard struct {
	mu       sync.Mutex
	cfg      GuardConfig
	retrier  *Retrier
	limiters map[string]*rate.Limiter
	breakers map[string]*gobreaker.CircuitBreaker
	onState  func(model string, from, to gobreaker.State)
}

// NewGuard creates a guard with the given config and retry policy.
func NewGuard(cfg GuardConfig, retry *RetryConfig) *Guard {
	if cfg.RequestsPerMinute <= 0 {
		cfg = DefaultGuardConfig()
	}
	return &Guard{
		cfg:      cfg,
		retrier:  NewRetrier(retry),
		limiters: make(map[string]*rate.Limiter),
		breakers: make(map[string]*gobreaker.CircuitBreaker),
	}
}

// OnStateChange registers a callback for breaker state transitions. Must be
// called before the first Execute for a model.
func (g *Guard) OnStateChange(fn func(model string, from, to gobreaker.State)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.onState = fn
}

func (g *Guard) limiterFor(model string) *rate.Limiter {
	g.mu.Lock()
	defer g.mu.Unlock()
	if l, ok := g.limiters[model]; ok {
		return l
	}
	l := rate.NewLimiter(rate.Limit(g.cfg.RequestsPerMinute/60.0), g.cfg.Burst)
	g.limiters[model] = l
	return l
}

func (g *Guard) breakerFor(model string) *gobreaker.CircuitBreaker {
	g.mu.Lock()
	defer g.mu.Unlock()
	if b, ok := g.breakers[model]; ok {
		return b
	}
	onState := g.onState
	b := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "llm-" + model,
		MaxRequests: 3,
		Interval:    g.cfg.BreakerInterval,
		Timeout:     g.cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.Requests >= 5 && float64(counts.TotalFailures)/float64(counts.Requests) >= 0.5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			if onState != nil {
				onState(model, from, to)
			}
		},
	})
	g.breakers[model] = b
	return b
}

// Execute runs fn for the model under rate limiting, circuit breaking and
// retry. The retrier runs inside the breaker so repeated transient failures
// count toward tripping it.
func (g *Guard) Execute(ctx context.Context, model string, fn func(ctx context.Context) error) error {
	if err := g.limiterFor(model).Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	_, err := g.breakerFor(model).Execute(func() (any, error) {
		return nil, g.retrier.Do(ctx, fn)
	})
	return err
}

// BreakerState returns the breaker state for a model.
func (g *Guard) BreakerState(model string) gobreaker.State {
	return g.breakerFor(model).State()
}

// Reset drops the limiter and breaker for a model.
func (g *Guard) Reset(model string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.limiters, model)
	delete(g.breakers, model)
}
