package generation

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sony/gobreaker/v2"
)

// BreakerConfig configures the circuit breaker around a TextGenerator.
type BreakerConfig struct {
	// Name identifies the breaker in logs and metrics.
	Name string
	// MinRequests is the number of calls observed before the failure ratio counts.
	MinRequests uint32
	// FailureRatio trips the breaker once failures/requests reaches it.
	FailureRatio float64
	// Timeout is how long the breaker stays open before probing again.
	Timeout time.Duration
}

var breakerState = prometheus.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "circuit_breaker_state",
		Help: "Current state of the circuit breaker (0=closed, 1=half-open, 2=open)",
	},
	[]string{"name"},
)

func init() {
	prometheus.MustRegister(breakerState)
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

// BreakerGenerator rejects calls immediately while the wrapped generator
// keeps failing. It never retries; a rejected call is reported as a
// ServiceError wrapping ErrCircuitOpen.
type BreakerGenerator struct {
	next    TextGenerator
	breaker *gobreaker.CircuitBreaker[string]
}

var _ TextGenerator = (*BreakerGenerator)(nil)

// NewBreakerGenerator wraps next with a circuit breaker.
func NewBreakerGenerator(next TextGenerator, cfg BreakerConfig, logger *slog.Logger) *BreakerGenerator {
	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= cfg.FailureRatio
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
			breakerState.WithLabelValues(name).Set(stateToFloat(to))
		},
		// Refusals and caller cancellations say nothing about provider health.
		IsSuccessful: func(err error) bool {
			return err == nil ||
				errors.Is(err, ErrContentBlocked) ||
				errors.Is(err, context.Canceled)
		},
	}

	breakerState.WithLabelValues(cfg.Name).Set(0)

	return &BreakerGenerator{
		next:    next,
		breaker: gobreaker.NewCircuitBreaker[string](settings),
	}
}

// GenerateText implements TextGenerator.
func (b *BreakerGenerator) GenerateText(ctx context.Context, prompt Prompt) (string, error) {
	text, err := b.breaker.Execute(func() (string, error) {
		return b.next.GenerateText(ctx, prompt)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return "", &ServiceError{
			Details: "review service is temporarily unavailable, try again later",
			Err:     errors.Join(ErrCircuitOpen, err),
		}
	}
	return text, err
}

// State returns the breaker's current state.
func (b *BreakerGenerator) State() gobreaker.State {
	return b.breaker.State()
}
