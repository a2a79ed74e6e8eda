package deck_review

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/inception-api/internal/domain"
	"github.com/phrazzld/inception-api/internal/events"
	"github.com/phrazzld/inception-api/internal/generation"
	"github.com/phrazzld/inception-api/internal/platform/logger"
	"github.com/phrazzld/inception-api/internal/platform/telemetry"
	"github.com/phrazzld/inception-api/internal/redact"
	"github.com/phrazzld/inception-api/internal/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Review outcomes recorded in deck_reviews_total.
const (
	outcomeCompleted  = "completed"
	outcomeDegraded   = "degraded"
	outcomeFailed     = "failed"
	outcomeIncomplete = "incomplete"
)

var reviewsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "deck_reviews_total",
	Help: "Deck review requests by outcome.",
}, []string{"outcome"})

// Verify interface compliance at compile time
var _ DeckReviewService = (*deckReviewServiceImpl)(nil)

type deckReviewServiceImpl struct {
	gate      service.Authorizer
	items     ItemLister
	generator generation.TextGenerator
	emitter   events.EventEmitter
	logger    *slog.Logger
}

// NewDeckReviewService creates a new DeckReviewService.
func NewDeckReviewService(
	gate service.Authorizer,
	items ItemLister,
	generator generation.TextGenerator,
	emitter events.EventEmitter,
	logger *slog.Logger,
) (DeckReviewService, error) {
	switch {
	case gate == nil:
		return nil, domain.NewValidationError("gate", "cannot be nil", domain.ErrValidation)
	case items == nil:
		return nil, domain.NewValidationError("items", "cannot be nil", domain.ErrValidation)
	case generator == nil:
		return nil, domain.NewValidationError("generator", "cannot be nil", domain.ErrValidation)
	case emitter == nil:
		return nil, domain.NewValidationError("emitter", "cannot be nil", domain.ErrValidation)
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &deckReviewServiceImpl{
		gate:      gate,
		items:     items,
		generator: generator,
		emitter:   emitter,
		logger:    logger.With(slog.String("component", "deck_review_service")),
	}, nil
}

// ReviewDeck implements DeckReviewService.
func (s *deckReviewServiceImpl) ReviewDeck(
	ctx context.Context,
	ownerID, deckID uuid.UUID,
) (*domain.Review, error) {
	ctx, span := telemetry.Tracer().Start(ctx, "deck_review.ReviewDeck",
		trace.WithAttributes(attribute.String("deck.id", deckID.String())))
	defer span.End()

	log := logger.FromContextOrDefault(ctx, s.logger).With(slog.String("deck_id", deckID.String()))

	deck, err := s.gate.Authorize(ctx, ownerID, deckID)
	if err != nil {
		span.SetStatus(codes.Error, "deck not accessible")
		return nil, err
	}

	items, err := s.items.ListByDeck(ctx, deck.ID)
	if err != nil {
		log.Error("failed to load deck items", slog.String("error", err.Error()))
		span.RecordError(err)
		span.SetStatus(codes.Error, "load items")
		return nil, service.NewDeckServiceError("review_deck", "failed to load items", err)
	}

	if !domain.IsComplete(items) {
		log.Debug("review requested for incomplete deck",
			slog.Int("filled", domain.FilledCount(items)))
		reviewsTotal.WithLabelValues(outcomeIncomplete).Inc()
		span.SetStatus(codes.Error, "deck incomplete")
		return nil, domain.ErrIncompleteDeck
	}

	raw, err := s.generator.GenerateText(ctx, buildPrompt(deck, items))
	if err != nil {
		reviewErr := &ReviewServiceError{
			DeckID:  deck.ID,
			Details: generation.Details(err),
			Err:     err,
		}
		log.Error("review generation failed",
			slog.String("error", redact.Error(err)),
			slog.String("details", reviewErr.Details))
		reviewsTotal.WithLabelValues(outcomeFailed).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "generation failed")
		s.emit(ctx, events.NewDeckEvent(events.ReviewFailed, deck.ID, ownerID))
		return nil, reviewErr
	}

	review := parseReview(raw)
	span.SetAttributes(
		attribute.Bool("review.degraded", review.Degraded),
		attribute.Int("review.item_count", len(review.ItemReviews)),
	)

	if review.Degraded {
		log.Warn("review response was not structured, returning raw text",
			slog.Int("response_length", len(raw)))
		reviewsTotal.WithLabelValues(outcomeDegraded).Inc()
		s.emit(ctx, events.NewDeckEvent(events.ReviewDegraded, deck.ID, ownerID))
		return review, nil
	}

	log.Info("deck reviewed", slog.Int("item_reviews", len(review.ItemReviews)))
	reviewsTotal.WithLabelValues(outcomeCompleted).Inc()
	s.emit(ctx, events.NewDeckEvent(events.ReviewCompleted, deck.ID, ownerID))
	return review, nil
}

func (s *deckReviewServiceImpl) emit(ctx context.Context, event *events.DeckEvent) {
	if err := s.emitter.EmitEvent(ctx, event); err != nil && !errors.Is(err, context.Canceled) {
		logger.FromContextOrDefault(ctx, s.logger).Warn("review event handler failed",
			slog.String("event_type", string(event.Type)),
			slog.String("error", err.Error()))
	}
}
