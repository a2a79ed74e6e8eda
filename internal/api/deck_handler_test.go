package api

import (
	"net/http"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/inception-api/internal/domain"
	"github.com/phrazzld/inception-api/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateDeck(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)
	token := srv.register("owner@example.com")

	rec := srv.do(http.MethodPost, "/api/decks", token, CreateDeckRequest{
		Title:       "Checkout Revamp",
		Description: testutils.StrPtr("Rebuild the payment flow"),
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var deck DeckResponse
	decodeBody(t, rec, &deck)
	assert.NotEqual(t, uuid.Nil, deck.ID)
	assert.Equal(t, "Checkout Revamp", deck.Title)
	require.NotNil(t, deck.Description)
	assert.Equal(t, "Rebuild the payment flow", *deck.Description)
	assert.Empty(t, deck.Items)
	assert.False(t, deck.IsComplete)
	assert.Contains(t, rec.Body.String(), `"items":[]`)
}

func TestCreateDeckValidation(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)
	token := srv.register("owner@example.com")

	tests := []struct {
		name      string
		body      interface{}
		wantError string
	}{
		{name: "missing title", body: map[string]string{}, wantError: "Invalid Title: required field"},
		{name: "blank title", body: CreateDeckRequest{Title: "   "}, wantError: "Title is required"},
		{name: "title too long", body: CreateDeckRequest{Title: strings.Repeat("t", 201)}, wantError: "Invalid Title: too long"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := srv.do(http.MethodPost, "/api/decks", token, tc.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tc.wantError, errorBody(t, rec)["error"])
		})
	}
}

func TestDeckRoutesRequireAuth(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)

	for _, route := range []struct{ method, path string }{
		{http.MethodGet, "/api/decks"},
		{http.MethodPost, "/api/decks"},
		{http.MethodGet, "/api/decks/" + uuid.NewString()},
		{http.MethodPut, "/api/decks/" + uuid.NewString() + "/items/1"},
		{http.MethodPost, "/api/decks/" + uuid.NewString() + "/review"},
		{http.MethodGet, "/api/decks/" + uuid.NewString() + "/export"},
	} {
		rec := srv.do(route.method, route.path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", route.method, route.path)
	}
}

func TestGetDeck(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)
	token := srv.register("owner@example.com")
	deckID := srv.createDeck(token, "Deck")

	srv.do(http.MethodPut, "/api/decks/"+deckID+"/items/3", token, SaveItemRequest{Content: testutils.StrPtr("third")})
	srv.do(http.MethodPut, "/api/decks/"+deckID+"/items/1", token, SaveItemRequest{Content: testutils.StrPtr("first")})

	rec := srv.do(http.MethodGet, "/api/decks/"+deckID, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var deck DeckResponse
	decodeBody(t, rec, &deck)
	require.Len(t, deck.Items, 2)
	assert.Equal(t, 1, deck.Items[0].Position)
	assert.Equal(t, 3, deck.Items[1].Position)
	assert.Equal(t, 2, deck.FilledCount)
	assert.False(t, deck.IsComplete)
}

func TestDeckNotAccessible(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)
	owner := srv.register("owner@example.com")
	stranger := srv.register("stranger@example.com")
	deckID := srv.createDeck(owner, "Private")

	foreign := srv.do(http.MethodGet, "/api/decks/"+deckID, stranger, nil)
	missing := srv.do(http.MethodGet, "/api/decks/"+uuid.NewString(), stranger, nil)

	// A foreign deck must be indistinguishable from a missing one.
	assert.Equal(t, http.StatusNotFound, foreign.Code)
	assert.Equal(t, http.StatusNotFound, missing.Code)
	assert.Equal(t, "Deck not found", errorBody(t, foreign)["error"])
	assert.Equal(t, "Deck not found", errorBody(t, missing)["error"])

	for _, rec := range []struct {
		method, path string
		body         interface{}
	}{
		{http.MethodPut, "/api/decks/" + deckID, UpdateDeckRequest{Title: testutils.StrPtr("Mine now")}},
		{http.MethodDelete, "/api/decks/" + deckID, nil},
		{http.MethodGet, "/api/decks/" + deckID + "/items", nil},
		{http.MethodGet, "/api/decks/" + deckID + "/items/1", nil},
		{http.MethodPut, "/api/decks/" + deckID + "/items/1", SaveItemRequest{Content: testutils.StrPtr("x")}},
		{http.MethodGet, "/api/decks/" + deckID + "/export", nil},
		{http.MethodPost, "/api/decks/" + deckID + "/review", nil},
	} {
		got := srv.do(rec.method, rec.path, stranger, rec.body)
		assert.Equal(t, http.StatusNotFound, got.Code, "%s %s", rec.method, rec.path)
	}

	// The owner's deck is untouched.
	var deck DeckResponse
	decodeBody(t, srv.do(http.MethodGet, "/api/decks/"+deckID, owner, nil), &deck)
	assert.Equal(t, "Private", deck.Title)
	assert.Empty(t, deck.Items)
}

func TestInvalidDeckID(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)
	token := srv.register("owner@example.com")

	rec := srv.do(http.MethodGet, "/api/decks/not-a-uuid", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid id: has invalid format", errorBody(t, rec)["error"])
}

func TestListDecks(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)
	owner := srv.register("owner@example.com")
	other := srv.register("other@example.com")

	older := srv.createDeck(owner, "Older")
	newer := srv.createDeck(owner, "Newer")
	srv.createDeck(other, "Not mine")

	// Writing an item bumps the deck to the top.
	srv.fillDeck(owner, older)

	rec := srv.do(http.MethodGet, "/api/decks", owner, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var decks []DeckSummaryResponse
	decodeBody(t, rec, &decks)
	require.Len(t, decks, 2)
	assert.Equal(t, older, decks[0].ID.String())
	assert.Equal(t, domain.DeckSize, decks[0].FilledCount)
	assert.True(t, decks[0].IsComplete)
	assert.Equal(t, newer, decks[1].ID.String())
	assert.False(t, decks[1].IsComplete)

	var empty []DeckSummaryResponse
	fresh := srv.register("fresh@example.com")
	rec = srv.do(http.MethodGet, "/api/decks", fresh, nil)
	assert.Equal(t, "[]\n", rec.Body.String())
	decodeBody(t, rec, &empty)
	assert.Empty(t, empty)
}

func TestUpdateDeck(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)
	token := srv.register("owner@example.com")
	deckID := srv.createDeck(token, "Before")

	rec := srv.do(http.MethodPut, "/api/decks/"+deckID, token, UpdateDeckRequest{
		Description: testutils.StrPtr("Now with a description"),
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var deck DeckResponse
	decodeBody(t, rec, &deck)
	assert.Equal(t, "Before", deck.Title, "omitted title is unchanged")
	require.NotNil(t, deck.Description)
	assert.Equal(t, "Now with a description", *deck.Description)

	rec = srv.do(http.MethodPut, "/api/decks/"+deckID, token, UpdateDeckRequest{Title: testutils.StrPtr("  ")})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = srv.do(http.MethodPut, "/api/decks/"+deckID, token, UpdateDeckRequest{Title: testutils.StrPtr("After")})
	require.Equal(t, http.StatusOK, rec.Code)
	decodeBody(t, rec, &deck)
	assert.Equal(t, "After", deck.Title)
}

func TestDeleteDeck(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)
	token := srv.register("owner@example.com")
	deckID := srv.createDeck(token, "Doomed")
	srv.fillDeck(token, deckID)

	rec := srv.do(http.MethodDelete, "/api/decks/"+deckID, token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())

	assert.Equal(t, http.StatusNotFound, srv.do(http.MethodGet, "/api/decks/"+deckID, token, nil).Code)
	assert.Equal(t, http.StatusNotFound, srv.do(http.MethodDelete, "/api/decks/"+deckID, token, nil).Code)

	items, err := srv.stores.Items.ListByDeck(t.Context(), uuid.MustParse(deckID))
	require.NoError(t, err)
	assert.Empty(t, items, "items are deleted with their deck")
}

func TestExportDeck(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)
	token := srv.register("owner@example.com")
	deckID := srv.createDeck(token, "Checkout Revamp!")
	srv.do(http.MethodPut, "/api/decks/"+deckID+"/items/2", token, SaveItemRequest{Content: testutils.StrPtr("Fast, safe checkout.")})

	rec := srv.do(http.MethodGet, "/api/decks/"+deckID+"/export", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/markdown; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="checkout-revamp.md"`, rec.Header().Get("Content-Disposition"))

	doc := rec.Body.String()
	assert.True(t, strings.HasPrefix(doc, "# Checkout Revamp!\n"))
	assert.Contains(t, doc, "1 of 10 questions answered")
	assert.Contains(t, doc, "## 2. Elevator Pitch")
	assert.Contains(t, doc, "Fast, safe checkout.")
}

func TestExportFilename(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "q3-planning-2026", exportFilename("  Q3 Planning / 2026 "))
	assert.Equal(t, "inception-deck", exportFilename("!!!"))
}

func TestListQuestions(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)

	rec := srv.do(http.MethodGet, "/api/questions", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var questions []domain.Question
	decodeBody(t, rec, &questions)
	require.Len(t, questions, domain.DeckSize)
	for i, q := range questions {
		assert.Equal(t, i+1, q.Position)
		assert.NotEmpty(t, q.Title)
	}
	assert.Equal(t, "Why are we here?", questions[0].Title)
}
