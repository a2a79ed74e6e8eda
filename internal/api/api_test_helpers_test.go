package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/inception-api/internal/api/middleware"
	"github.com/phrazzld/inception-api/internal/config"
	"github.com/phrazzld/inception-api/internal/domain"
	"github.com/phrazzld/inception-api/internal/events"
	"github.com/phrazzld/inception-api/internal/mocks"
	"github.com/phrazzld/inception-api/internal/service"
	"github.com/phrazzld/inception-api/internal/service/auth"
	"github.com/phrazzld/inception-api/internal/service/deck_review"
	"github.com/phrazzld/inception-api/internal/testutils"
	"github.com/stretchr/testify/require"
)

// testServer is the full /api tree on a private SQLite database with a
// fake text generator.
type testServer struct {
	t         *testing.T
	handler   http.Handler
	stores    *testutils.TestStores
	generator *mocks.MockTextGenerator
	jwt       auth.JWTService
}

type serverOption func(*Routes)

func withReviewLimit(perMinute, burst int) serverOption {
	return func(rt *Routes) {
		rt.ReviewLimiter = middleware.RateLimitPerMinute(perMinute, burst)
	}
}

func newTestServer(t *testing.T, opts ...serverOption) *testServer {
	t.Helper()

	log := slog.Default()
	stores := testutils.CreateTestStores(t)
	gen := &mocks.MockTextGenerator{}
	emitter := events.NewInMemoryEventEmitter(log)
	gate := service.NewAccessGate(stores.Decks)

	decks, err := service.NewDeckService(stores.DB, stores.Decks, stores.Items, gate, emitter, log)
	require.NoError(t, err)
	reviews, err := deck_review.NewDeckReviewService(gate, stores.Items, gen, emitter, log)
	require.NoError(t, err)
	jwtSvc, err := auth.NewJWTService(config.AuthConfig{
		JWTSecret:                   strings.Repeat("k", auth.MinSecretLength),
		TokenLifetimeMinutes:        15,
		RefreshTokenLifetimeMinutes: 60,
	})
	require.NoError(t, err)

	routes := Routes{
		Auth:         NewAuthHandler(service.NewUserService(stores.Users, log), jwtSvc, auth.NewBcryptVerifier(), log),
		Decks:        NewDeckHandler(decks, log),
		Items:        NewItemHandler(decks, log),
		Reviews:      NewReviewHandler(reviews, log),
		Authenticate: middleware.NewAuthMiddleware(jwtSvc).Authenticate,
	}
	for _, opt := range opts {
		opt(&routes)
	}

	r := chi.NewRouter()
	r.Use(middleware.NewTraceMiddleware(log))
	routes.Mount(r)

	return &testServer{t: t, handler: r, stores: stores, generator: gen, jwt: jwtSvc}
}

// do sends a request with an optional JSON body and bearer token.
func (s *testServer) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	s.t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		require.NoError(s.t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

// register creates an account and returns its access token.
func (s *testServer) register(email string) string {
	s.t.Helper()

	rec := s.do(http.MethodPost, "/api/auth/register", "", RegisterRequest{
		Email:    email,
		Password: testutils.TestPassword,
	})
	require.Equal(s.t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp AuthResponse
	decodeBody(s.t, rec, &resp)
	return resp.AccessToken
}

// createDeck creates a deck and returns its ID path segment.
func (s *testServer) createDeck(token, title string) string {
	s.t.Helper()

	rec := s.do(http.MethodPost, "/api/decks", token, CreateDeckRequest{Title: title})
	require.Equal(s.t, http.StatusCreated, rec.Code, rec.Body.String())

	var deck DeckResponse
	decodeBody(s.t, rec, &deck)
	return deck.ID.String()
}

// fillDeck answers every question of a deck through the API.
func (s *testServer) fillDeck(token, deckID string) {
	s.t.Helper()

	for p := domain.MinPosition; p <= domain.MaxPosition; p++ {
		rec := s.do(http.MethodPut, fmt.Sprintf("/api/decks/%s/items/%d", deckID, p), token,
			SaveItemRequest{Content: testutils.StrPtr(fmt.Sprintf("Answer %d", p))})
		require.Equal(s.t, http.StatusOK, rec.Code, rec.Body.String())
	}
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func errorBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var body map[string]string
	decodeBody(t, rec, &body)
	return body
}
