package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/inception-api/internal/api/shared"
	"github.com/phrazzld/inception-api/internal/platform/logger"
	"github.com/phrazzld/inception-api/internal/service/deck_review"
)

// ReviewHandler requests narrative feedback on a complete deck.
type ReviewHandler struct {
	reviews deck_review.DeckReviewService
	logger  *slog.Logger
}

// NewReviewHandler creates a new ReviewHandler.
func NewReviewHandler(reviews deck_review.DeckReviewService, logger *slog.Logger) *ReviewHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReviewHandler{
		reviews: reviews,
		logger:  logger.With(slog.String("component", "review_handler")),
	}
}

// ReviewDeck handles POST /api/decks/{id}/review.
//
// Incomplete decks are rejected with 400 before any generation happens.
// Generator failures are 502 with the upstream details; an unstructured
// reply is still 200 with degraded set.
func (h *ReviewHandler) ReviewDeck(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, deckID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	review, err := h.reviews.ReviewDeck(r.Context(), userID, deckID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to review deck")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, review)
}
