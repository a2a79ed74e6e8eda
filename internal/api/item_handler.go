package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/inception-api/internal/api/shared"
	"github.com/phrazzld/inception-api/internal/platform/logger"
	"github.com/phrazzld/inception-api/internal/service"
)

// ItemHandler serves the ten positional items of a deck.
type ItemHandler struct {
	decks  service.DeckService
	logger *slog.Logger
}

// NewItemHandler creates a new ItemHandler.
func NewItemHandler(decks service.DeckService, logger *slog.Logger) *ItemHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ItemHandler{
		decks:  decks,
		logger: logger.With(slog.String("component", "item_handler")),
	}
}

// ListItems handles GET /api/decks/{id}/items.
func (h *ItemHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, deckID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	items, err := h.decks.ListItems(r.Context(), userID, deckID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list items")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, itemsToResponse(items))
}

// GetItem handles GET /api/decks/{id}/items/{position}. A position that
// was never written is 404.
func (h *ItemHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, deckID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}
	position, err := getPathPosition(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	item, err := h.decks.GetItem(r.Context(), userID, deckID, position)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load item")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, itemToResponse(item))
}

// SaveItem handles PUT /api/decks/{id}/items/{position}. The write is an
// upsert; repeating it with the same content leaves the same state.
func (h *ItemHandler) SaveItem(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, deckID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}
	position, err := getPathPosition(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	var req SaveItemRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	item, err := h.decks.SaveItem(r.Context(), userID, deckID, position, req.Content)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to save item")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, itemToResponse(item))
}
