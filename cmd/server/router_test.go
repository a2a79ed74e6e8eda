package main

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/phrazzld/inception-api/internal/config"
	"github.com/phrazzld/inception-api/internal/events"
	"github.com/phrazzld/inception-api/internal/mocks"
	"github.com/phrazzld/inception-api/internal/service"
	"github.com/phrazzld/inception-api/internal/service/auth"
	"github.com/phrazzld/inception-api/internal/service/deck_review"
	"github.com/phrazzld/inception-api/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestApplication wires an application on SQLite with a fake generator,
// skipping the Gemini client and telemetry exporter.
func newTestApplication(t *testing.T) *application {
	t.Helper()

	log := slog.Default()
	stores := testutils.CreateTestStores(t)
	cfg := &config.Config{
		Server: config.ServerConfig{
			Port:                   0,
			LogLevel:               "debug",
			AllowedOrigins:         []string{"http://localhost:5173"},
			ShutdownTimeoutSeconds: 1,
		},
		Auth: config.AuthConfig{
			JWTSecret:                   strings.Repeat("s", auth.MinSecretLength),
			TokenLifetimeMinutes:        15,
			RefreshTokenLifetimeMinutes: 60,
		},
		Review: config.ReviewConfig{RequestsPerMinute: 5, Burst: 2},
	}

	jwtSvc, err := auth.NewJWTService(cfg.Auth)
	require.NoError(t, err)

	emitter := events.NewInMemoryEventEmitter(log)
	gate := service.NewAccessGate(stores.Decks)
	decks, err := service.NewDeckService(stores.DB, stores.Decks, stores.Items, gate, emitter, log)
	require.NoError(t, err)
	gen := &mocks.MockTextGenerator{}
	reviews, err := deck_review.NewDeckReviewService(gate, stores.Items, gen, emitter, log)
	require.NoError(t, err)

	return &application{
		config:           cfg,
		logger:           log,
		userStore:        stores.Users,
		deckStore:        stores.Decks,
		itemStore:        stores.Items,
		jwtService:       jwtSvc,
		passwordVerifier: auth.NewBcryptVerifier(),
		generator:        gen,
		userService:      service.NewUserService(stores.Users, log),
		deckService:      decks,
		reviewService:    reviews,
		eventEmitter:     emitter,
	}
}

func TestRouterOperationalEndpoints(t *testing.T) {
	t.Parallel()
	router := newTestApplication(t).setupRouter()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http_requests_total")
}

func TestRouterServesAPI(t *testing.T) {
	t.Parallel()
	router := newTestApplication(t).setupRouter()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/questions", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/decks", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), `"trace_id"`)
}

func TestRouterCORSPreflight(t *testing.T) {
	t.Parallel()
	router := newTestApplication(t).setupRouter()

	req := httptest.NewRequest(http.MethodOptions, "/api/decks", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestStartHTTPServerStopsOnCancel(t *testing.T) {
	t.Parallel()
	app := newTestApplication(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.startHTTPServer(ctx, app.setupRouter()) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
