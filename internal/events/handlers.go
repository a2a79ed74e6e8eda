package events

import (
	"context"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var deckEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "deck_events_total",
		Help: "Total number of deck events emitted, by type",
	},
	[]string{"type"},
)

// LoggingHandler writes every event to the structured log.
type LoggingHandler struct {
	logger *slog.Logger
}

// NewLoggingHandler creates a LoggingHandler.
func NewLoggingHandler(logger *slog.Logger) *LoggingHandler {
	return &LoggingHandler{logger: logger.With("component", "deck_events")}
}

// HandleEvent implements EventHandler.
func (h *LoggingHandler) HandleEvent(ctx context.Context, event *DeckEvent) error {
	attrs := []any{
		"event_id", event.ID,
		"event_type", string(event.Type),
		"deck_id", event.DeckID,
		"owner_id", event.OwnerID,
	}
	if event.Position != 0 {
		attrs = append(attrs, "position", event.Position)
	}
	h.logger.InfoContext(ctx, "deck event", attrs...)
	return nil
}

// MetricsHandler counts events by type.
type MetricsHandler struct {
	counter *prometheus.CounterVec
}

// NewMetricsHandler creates a MetricsHandler backed by deck_events_total.
func NewMetricsHandler() *MetricsHandler {
	return &MetricsHandler{counter: deckEventsTotal}
}

// HandleEvent implements EventHandler.
func (h *MetricsHandler) HandleEvent(_ context.Context, event *DeckEvent) error {
	h.counter.WithLabelValues(string(event.Type)).Inc()
	return nil
}
