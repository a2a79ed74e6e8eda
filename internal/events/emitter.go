package events

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/phrazzld/inception-api/internal/platform/logger"
)

// ErrNilEvent is returned when EmitEvent is called without an event.
var ErrNilEvent = errors.New("event cannot be nil")

// InMemoryEventEmitter fans deck events out to handlers registered at startup.
// Dispatch is synchronous on the caller's goroutine.
type InMemoryEventEmitter struct {
	mu       sync.RWMutex
	handlers []EventHandler
	logger   *slog.Logger
}

var _ EventEmitter = (*InMemoryEventEmitter)(nil)

func NewInMemoryEventEmitter(log *slog.Logger) *InMemoryEventEmitter {
	return &InMemoryEventEmitter{
		logger: log.With("component", "deck_events"),
	}
}

func (e *InMemoryEventEmitter) RegisterHandler(handler EventHandler) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.handlers = append(e.handlers, handler)
}

// EmitEvent delivers event to every handler, even after one fails, and
// returns the first handler error.
func (e *InMemoryEventEmitter) EmitEvent(ctx context.Context, event *DeckEvent) error {
	if event == nil {
		return ErrNilEvent
	}

	e.mu.RLock()
	handlers := append([]EventHandler(nil), e.handlers...)
	e.mu.RUnlock()

	log := logger.FromContextOrDefault(ctx, e.logger).With(
		slog.String("event_type", string(event.Type)),
		slog.String("deck_id", event.DeckID.String()))
	if event.Position != 0 {
		log = log.With(slog.Int("position", event.Position))
	}

	var firstErr error
	for i, handler := range handlers {
		if err := handler.HandleEvent(ctx, event); err != nil {
			log.Error("deck event handler failed",
				slog.Int("handler", i),
				slog.String("error", err.Error()))
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
