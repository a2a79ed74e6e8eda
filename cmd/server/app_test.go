package main

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/phrazzld/inception-api/internal/config"
	"github.com/phrazzld/inception-api/internal/platform/sqlstore"
	"github.com/phrazzld/inception-api/internal/platform/telemetry"
	"github.com/phrazzld/inception-api/internal/service/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubTelemetry replaces setupTelemetry for the duration of the test and
// reports how many times the returned shutdown func ran.
func stubTelemetry(t *testing.T) *int {
	t.Helper()
	calls := 0
	original := setupTelemetry
	setupTelemetry = func(context.Context, config.TelemetryConfig, string) (telemetry.ShutdownFunc, error) {
		return func(context.Context) error {
			calls++
			return nil
		}, nil
	}
	t.Cleanup(func() { setupTelemetry = original })
	return &calls
}

func TestNewApplicationShutsDownTelemetryOnError(t *testing.T) {
	validAuth := config.AuthConfig{
		JWTSecret:                   strings.Repeat("s", auth.MinSecretLength),
		BCryptCost:                  4,
		TokenLifetimeMinutes:        15,
		RefreshTokenLifetimeMinutes: 60,
	}

	tests := []struct {
		name string
		cfg  config.Config
	}{
		{
			name: "short jwt secret",
			cfg: config.Config{
				Auth: config.AuthConfig{JWTSecret: "short", TokenLifetimeMinutes: 15},
				LLM:  config.LLMConfig{GeminiAPIKey: "k", ModelName: "m"},
			},
		},
		{
			name: "missing gemini key",
			cfg: config.Config{
				Auth: validAuth,
				LLM:  config.LLMConfig{ModelName: "m"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := stubTelemetry(t)
			log := slog.New(slog.NewTextHandler(io.Discard, nil))

			app, err := newApplication(context.Background(), &tt.cfg, log, nil, sqlstore.SQLite)
			require.Error(t, err)
			assert.Nil(t, app)
			assert.Equal(t, 1, *calls)
		})
	}
}
