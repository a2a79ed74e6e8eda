package generation_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/phrazzld/inception-api/internal/generation"
	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGenerator struct {
	calls int
	text  string
	err   error
}

func (s *stubGenerator) GenerateText(context.Context, generation.Prompt) (string, error) {
	s.calls++
	return s.text, s.err
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestServiceError(t *testing.T) {
	cause := errors.New("quota exceeded")
	err := &generation.ServiceError{Code: 429, Status: "RESOURCE_EXHAUSTED", Details: "quota exceeded", Err: cause}

	assert.ErrorIs(t, err, generation.ErrServiceFailure)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "429")
	assert.Equal(t, "quota exceeded", generation.Details(err))

	wrapped := &generation.ServiceError{}
	assert.ErrorIs(t, wrapped, generation.ErrServiceFailure)

	assert.Equal(t, "plain", generation.Details(errors.New("plain")))
	assert.Empty(t, generation.Details(nil))
}

func TestSentinelsAreServiceFailures(t *testing.T) {
	for _, err := range []error{
		generation.ErrContentBlocked,
		generation.ErrEmptyResponse,
		generation.ErrCircuitOpen,
	} {
		assert.ErrorIs(t, err, generation.ErrServiceFailure)
	}
	assert.NotErrorIs(t, generation.ErrInvalidConfig, generation.ErrServiceFailure)
}

func TestBreakerTripsAfterFailures(t *testing.T) {
	stub := &stubGenerator{err: &generation.ServiceError{Details: "boom"}}
	gen := generation.NewBreakerGenerator(stub, generation.BreakerConfig{
		Name:         "test-trip",
		MinRequests:  2,
		FailureRatio: 0.5,
		Timeout:      time.Minute,
	}, quietLogger())

	for i := 0; i < 2; i++ {
		_, err := gen.GenerateText(context.Background(), generation.Prompt{User: "x"})
		require.Error(t, err)
	}
	assert.Equal(t, gobreaker.StateOpen, gen.State())

	_, err := gen.GenerateText(context.Background(), generation.Prompt{User: "x"})
	assert.ErrorIs(t, err, generation.ErrCircuitOpen)
	assert.ErrorIs(t, err, generation.ErrServiceFailure)
	assert.Equal(t, 2, stub.calls, "open breaker must not reach the provider")
}

func TestBreakerIgnoresBlockedContent(t *testing.T) {
	stub := &stubGenerator{err: generation.ErrContentBlocked}
	gen := generation.NewBreakerGenerator(stub, generation.BreakerConfig{
		Name:         "test-blocked",
		MinRequests:  1,
		FailureRatio: 0.1,
		Timeout:      time.Minute,
	}, quietLogger())

	for i := 0; i < 3; i++ {
		_, err := gen.GenerateText(context.Background(), generation.Prompt{User: "x"})
		assert.ErrorIs(t, err, generation.ErrContentBlocked)
	}
	assert.Equal(t, gobreaker.StateClosed, gen.State())
	assert.Equal(t, 3, stub.calls)
}

func TestBreakerPassesThroughSuccess(t *testing.T) {
	stub := &stubGenerator{text: `{"overall_review":"ok"}`}
	gen := generation.NewBreakerGenerator(stub, generation.BreakerConfig{
		Name:         "test-success",
		MinRequests:  1,
		FailureRatio: 0.5,
		Timeout:      time.Minute,
	}, quietLogger())

	text, err := gen.GenerateText(context.Background(), generation.Prompt{User: "x"})
	require.NoError(t, err)
	assert.Equal(t, `{"overall_review":"ok"}`, text)
}
