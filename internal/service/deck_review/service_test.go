package deck_review_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/inception-api/internal/domain"
	"github.com/phrazzld/inception-api/internal/events"
	"github.com/phrazzld/inception-api/internal/generation"
	"github.com/phrazzld/inception-api/internal/mocks"
	"github.com/phrazzld/inception-api/internal/service"
	"github.com/phrazzld/inception-api/internal/service/deck_review"
	"github.com/phrazzld/inception-api/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type reviewFixture struct {
	stores *testutils.TestStores
	gen    *mocks.MockTextGenerator
	svc    deck_review.DeckReviewService
	owner  *domain.User
	seen   []events.Type
}

func newReviewFixture(t *testing.T, gen *mocks.MockTextGenerator) *reviewFixture {
	t.Helper()

	stores := testutils.CreateTestStores(t)
	f := &reviewFixture{stores: stores, gen: gen}

	emitter := events.NewInMemoryEventEmitter(slog.Default())
	emitter.RegisterHandler(events.HandlerFunc(func(_ context.Context, e *events.DeckEvent) error {
		f.seen = append(f.seen, e.Type)
		return nil
	}))

	svc, err := deck_review.NewDeckReviewService(
		service.NewAccessGate(stores.Decks),
		stores.Items,
		gen,
		emitter,
		slog.Default(),
	)
	require.NoError(t, err)

	f.svc = svc
	f.owner = testutils.MustInsertUser(t, stores, "owner@example.com")
	return f
}

func fullReviewJSON(t *testing.T) string {
	t.Helper()
	type entry struct {
		Position     int    `json:"position"`
		Strengths    string `json:"strengths"`
		Improvements string `json:"improvements"`
	}
	doc := struct {
		ItemReviews   []entry `json:"item_reviews"`
		OverallReview string  `json:"overall_review"`
	}{OverallReview: "A coherent deck."}
	// Out of order on purpose.
	for p := domain.MaxPosition; p >= domain.MinPosition; p-- {
		doc.ItemReviews = append(doc.ItemReviews, entry{
			Position:     p,
			Strengths:    fmt.Sprintf("clear answer %d", p),
			Improvements: fmt.Sprintf("add detail %d", p),
		})
	}
	data, err := json.Marshal(doc)
	require.NoError(t, err)
	return string(data)
}

func TestReviewDeckIncompleteNeverCallsGenerator(t *testing.T) {
	t.Parallel()
	f := newReviewFixture(t, mocks.NewMockTextGeneratorWithText("unused"))
	ctx := context.Background()

	empty := testutils.MustInsertDeck(t, f.stores, f.owner.ID, "Empty")
	_, err := f.svc.ReviewDeck(ctx, f.owner.ID, empty.ID)
	assert.ErrorIs(t, err, domain.ErrIncompleteDeck)

	// Nine answers plus one whitespace-only answer is still incomplete.
	almost := testutils.MustInsertDeck(t, f.stores, f.owner.ID, "Almost")
	for p := 1; p <= 9; p++ {
		testutils.MustSaveItem(t, f.stores, almost.ID, p, testutils.StrPtr("answer"))
	}
	testutils.MustSaveItem(t, f.stores, almost.ID, 10, testutils.StrPtr("  \n "))
	_, err = f.svc.ReviewDeck(ctx, f.owner.ID, almost.ID)
	assert.ErrorIs(t, err, domain.ErrIncompleteDeck)

	assert.Zero(t, f.gen.CallCount())
	assert.Empty(t, f.seen)
}

func TestReviewDeckNotAccessible(t *testing.T) {
	t.Parallel()
	f := newReviewFixture(t, mocks.NewMockTextGeneratorWithText("unused"))
	ctx := context.Background()

	other := testutils.MustInsertUser(t, f.stores, "other@example.com")
	deck := testutils.MustInsertDeck(t, f.stores, other.ID, "Theirs")
	testutils.FillDeck(t, f.stores, deck.ID)

	_, err := f.svc.ReviewDeck(ctx, f.owner.ID, deck.ID)
	assert.ErrorIs(t, err, service.ErrNotAccessible)

	_, err = f.svc.ReviewDeck(ctx, f.owner.ID, uuid.New())
	assert.ErrorIs(t, err, service.ErrNotAccessible)

	assert.Zero(t, f.gen.CallCount())
}

func TestReviewDeckStructuredResponse(t *testing.T) {
	t.Parallel()
	f := newReviewFixture(t, mocks.NewMockTextGeneratorWithText(""))
	f.gen.Text = fullReviewJSON(t)
	ctx := context.Background()

	deck := testutils.MustInsertDeck(t, f.stores, f.owner.ID, "Checkout Revamp")
	testutils.FillDeck(t, f.stores, deck.ID)

	review, err := f.svc.ReviewDeck(ctx, f.owner.ID, deck.ID)
	require.NoError(t, err)
	assert.False(t, review.Degraded)
	assert.Equal(t, "A coherent deck.", review.OverallReview)
	require.Len(t, review.ItemReviews, domain.DeckSize)
	for i, r := range review.ItemReviews {
		assert.Equal(t, i+1, r.Position)
		assert.Equal(t, fmt.Sprintf("clear answer %d", i+1), r.Strengths)
	}

	assert.Equal(t, 1, f.gen.CallCount())
	assert.Equal(t, []events.Type{events.ReviewCompleted}, f.seen)

	prompt := f.gen.LastPrompt()
	assert.NotEmpty(t, prompt.System)
	assert.True(t, strings.HasPrefix(prompt.User, "# Project: Checkout Revamp\n"))
	last := -1
	for _, q := range domain.Questions() {
		idx := strings.Index(prompt.User, fmt.Sprintf("## %d. %s", q.Position, q.Title))
		require.GreaterOrEqual(t, idx, 0)
		assert.Greater(t, idx, last, "question %d out of order", q.Position)
		last = idx
		assert.Contains(t, prompt.User, fmt.Sprintf("Answer for question %d", q.Position))
	}
}

func TestReviewDeckDegradesOnUnstructuredText(t *testing.T) {
	t.Parallel()
	raw := "Overall this deck is promising, but the NOT list is thin."
	f := newReviewFixture(t, mocks.NewMockTextGeneratorWithText(raw))

	deck := testutils.MustInsertDeck(t, f.stores, f.owner.ID, "Prose")
	testutils.FillDeck(t, f.stores, deck.ID)

	review, err := f.svc.ReviewDeck(context.Background(), f.owner.ID, deck.ID)
	require.NoError(t, err)
	assert.True(t, review.Degraded)
	assert.Equal(t, raw, review.OverallReview)
	assert.NotNil(t, review.ItemReviews)
	assert.Empty(t, review.ItemReviews)
	assert.Equal(t, []events.Type{events.ReviewDegraded}, f.seen)
}

func TestReviewDeckServiceFailure(t *testing.T) {
	t.Parallel()
	cause := &generation.ServiceError{
		Code:    503,
		Status:  "UNAVAILABLE",
		Details: "review service is unavailable",
		Err:     errors.New("upstream 503"),
	}
	f := newReviewFixture(t, mocks.NewMockTextGeneratorWithError(cause))

	deck := testutils.MustInsertDeck(t, f.stores, f.owner.ID, "Unlucky")
	testutils.FillDeck(t, f.stores, deck.ID)

	_, err := f.svc.ReviewDeck(context.Background(), f.owner.ID, deck.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, deck_review.ErrReviewService)
	assert.ErrorIs(t, err, generation.ErrServiceFailure)

	var reviewErr *deck_review.ReviewServiceError
	require.ErrorAs(t, err, &reviewErr)
	assert.Equal(t, "review service is unavailable", reviewErr.Details)
	assert.Equal(t, deck.ID, reviewErr.DeckID)

	// No retry.
	assert.Equal(t, 1, f.gen.CallCount())
	assert.Equal(t, []events.Type{events.ReviewFailed}, f.seen)
}

func TestReviewServiceErrorMessage(t *testing.T) {
	id := uuid.MustParse("9f1c2b8e-1f44-4d7b-9a55-0a6a3c1f2e10")
	err := &deck_review.ReviewServiceError{DeckID: id, Details: "quota exceeded"}
	assert.Equal(t, "review of deck 9f1c2b8e-1f44-4d7b-9a55-0a6a3c1f2e10 failed: quota exceeded", err.Error())
	assert.ErrorIs(t, err, deck_review.ErrReviewService)
}

func TestNewDeckReviewServiceRequiresDependencies(t *testing.T) {
	stores := testutils.CreateTestStores(t)
	emitter := events.NewInMemoryEventEmitter(slog.Default())

	_, err := deck_review.NewDeckReviewService(nil, stores.Items, &mocks.MockTextGenerator{}, emitter, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = deck_review.NewDeckReviewService(service.NewAccessGate(stores.Decks), stores.Items, nil, emitter, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
}
