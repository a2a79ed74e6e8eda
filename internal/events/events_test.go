package events

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockEventHandler implements the EventHandler interface for testing
type MockEventHandler struct {
	// The last event received by this handler
	LastEvent *DeckEvent
	// Error to return from HandleEvent
	HandlerError error
	// Count of events handled
	HandledCount int
}

// HandleEvent implements the EventHandler interface
func (h *MockEventHandler) HandleEvent(ctx context.Context, event *DeckEvent) error {
	h.LastEvent = event
	h.HandledCount++
	return h.HandlerError
}

func TestNewDeckEvent(t *testing.T) {
	deckID, ownerID := uuid.New(), uuid.New()

	event := NewDeckEvent(ItemSaved, deckID, ownerID).WithPosition(4)

	assert.NotEqual(t, uuid.Nil, event.ID)
	assert.Equal(t, ItemSaved, event.Type)
	assert.Equal(t, deckID, event.DeckID)
	assert.Equal(t, ownerID, event.OwnerID)
	assert.Equal(t, 4, event.Position)
	assert.WithinDuration(t, time.Now(), event.OccurredAt, 2*time.Second)
}

func TestLoggingHandler(t *testing.T) {
	var buf bytes.Buffer
	handler := NewLoggingHandler(slog.New(slog.NewJSONHandler(&buf, nil)))

	event := NewDeckEvent(DeckCreated, uuid.New(), uuid.New())
	require.NoError(t, handler.HandleEvent(context.Background(), event))

	out := buf.String()
	assert.Contains(t, out, `"event_type":"deck.created"`)
	assert.Contains(t, out, event.DeckID.String())
	assert.NotContains(t, out, `"position"`)
}

func TestMetricsHandler(t *testing.T) {
	handler := NewMetricsHandler()
	before := testutil.ToFloat64(deckEventsTotal.WithLabelValues(string(ReviewFailed)))

	require.NoError(t, handler.HandleEvent(context.Background(), NewDeckEvent(ReviewFailed, uuid.New(), uuid.New())))
	require.NoError(t, handler.HandleEvent(context.Background(), NewDeckEvent(ReviewFailed, uuid.New(), uuid.New())))

	after := testutil.ToFloat64(deckEventsTotal.WithLabelValues(string(ReviewFailed)))
	assert.Equal(t, before+2, after)
}

func TestHandlerFunc(t *testing.T) {
	var got *DeckEvent
	h := HandlerFunc(func(_ context.Context, e *DeckEvent) error {
		got = e
		return nil
	})

	event := NewDeckEvent(DeckDeleted, uuid.New(), uuid.New())
	require.NoError(t, h.HandleEvent(context.Background(), event))
	assert.Same(t, event, got)
}
