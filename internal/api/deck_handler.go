package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"strings"

	"github.com/phrazzld/inception-api/internal/api/shared"
	"github.com/phrazzld/inception-api/internal/platform/logger"
	"github.com/phrazzld/inception-api/internal/service"
	"github.com/phrazzld/inception-api/internal/service/auth"
)

// DeckHandler serves deck CRUD and export for the authenticated user.
type DeckHandler struct {
	decks  service.DeckService
	logger *slog.Logger
}

// NewDeckHandler creates a new DeckHandler.
func NewDeckHandler(decks service.DeckService, logger *slog.Logger) *DeckHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &DeckHandler{
		decks:  decks,
		logger: logger.With(slog.String("component", "deck_handler")),
	}
}

// ListDecks handles GET /api/decks.
func (h *DeckHandler) ListDecks(w http.ResponseWriter, r *http.Request) {
	userID, ok := shared.UserIDFromContext(r.Context())
	if !ok {
		HandleAPIError(w, r, auth.ErrMissingToken, "")
		return
	}

	summaries, err := h.decks.ListDecks(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list decks")
		return
	}

	out := make([]DeckSummaryResponse, 0, len(summaries))
	for _, s := range summaries {
		out = append(out, summaryToResponse(s))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, out)
}

// CreateDeck handles POST /api/decks.
func (h *DeckHandler) CreateDeck(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := shared.UserIDFromContext(r.Context())
	if !ok {
		HandleAPIError(w, r, auth.ErrMissingToken, "")
		return
	}

	var req CreateDeckRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	deck, err := h.decks.CreateDeck(r.Context(), userID, req.Title, req.Description)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create deck")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, deckToResponse(deck, nil, 0, false))
}

// GetDeck handles GET /api/decks/{id}.
func (h *DeckHandler) GetDeck(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, deckID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	deck, err := h.decks.GetDeck(r.Context(), userID, deckID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load deck")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, deckWithItemsToResponse(deck))
}

// UpdateDeck handles PUT /api/decks/{id}.
func (h *DeckHandler) UpdateDeck(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, deckID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	var req UpdateDeckRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	if _, err := h.decks.UpdateDeck(r.Context(), userID, deckID, req.Title, req.Description); err != nil {
		HandleAPIError(w, r, err, "Failed to update deck")
		return
	}

	// Respond with the full deck so clients get items and progress in one call.
	deck, err := h.decks.GetDeck(r.Context(), userID, deckID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load deck")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, deckWithItemsToResponse(deck))
}

// DeleteDeck handles DELETE /api/decks/{id}.
func (h *DeckHandler) DeleteDeck(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, deckID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	if err := h.decks.DeleteDeck(r.Context(), userID, deckID); err != nil {
		HandleAPIError(w, r, err, "Failed to delete deck")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

var unsafeFilenameChars = regexp.MustCompile(`[^a-z0-9]+`)

// ExportDeck handles GET /api/decks/{id}/export and returns the deck as a
// Markdown attachment.
func (h *DeckHandler) ExportDeck(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, deckID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	export, err := h.decks.ExportMarkdown(r.Context(), userID, deckID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to export deck")
		return
	}

	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.md"`, exportFilename(export.Title)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(export.Markdown)); err != nil {
		log.Warn("failed to write export", slog.String("error", err.Error()))
	}
}

// exportFilename turns a deck title into a lowercase, dash-separated name.
func exportFilename(title string) string {
	name := strings.Trim(unsafeFilenameChars.ReplaceAllString(strings.ToLower(title), "-"), "-")
	if name == "" {
		return "inception-deck"
	}
	return name
}
