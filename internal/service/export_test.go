package service_test

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/inception-api/internal/domain"
	"github.com/phrazzld/inception-api/internal/service"
	"github.com/phrazzld/inception-api/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderMarkdown(t *testing.T) {
	t.Parallel()

	deckID := uuid.New()
	deck := &service.DeckWithItems{
		Deck: domain.Deck{
			ID:          deckID,
			OwnerID:     uuid.New(),
			Title:       "Checkout Revamp",
			Description: testutils.StrPtr("Rebuild the payment flow"),
			UpdatedAt:   time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
		},
		Items: []domain.Item{
			{DeckID: deckID, Position: 1, Content: testutils.StrPtr("  Cut abandoned carts.  ")},
			{DeckID: deckID, Position: 2, Content: testutils.StrPtr("   ")},
			{DeckID: deckID, Position: 3, Content: nil},
		},
		FilledCount: 1,
	}

	doc, err := service.RenderMarkdown(deck)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(doc, "# Checkout Revamp\n\nRebuild the payment flow\n"))
	assert.Contains(t, doc, "_Last updated 2026-03-14. 1 of 10 questions answered._")
	assert.Contains(t, doc, "## 1. Why are we here?\n\n_The reason the project exists_\n\nCut abandoned carts.\n")
	assert.Contains(t, doc, "## 2. Elevator Pitch")

	// Every question appears once, in order.
	last := -1
	for _, q := range domain.Questions() {
		idx := strings.Index(doc, fmt.Sprintf("## %d. %s\n", q.Position, q.Title))
		require.GreaterOrEqual(t, idx, 0, "missing %q", q.Title)
		assert.Greater(t, idx, last)
		last = idx
	}

	assert.Equal(t, domain.DeckSize-1, strings.Count(doc, "_Not answered yet._"))
}

func TestRenderMarkdownWithoutDescription(t *testing.T) {
	t.Parallel()

	doc, err := service.RenderMarkdown(&service.DeckWithItems{
		Deck: domain.Deck{Title: "Bare", UpdatedAt: time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)},
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(doc, "# Bare\n\n_Last updated 2026-01-02. 0 of 10 questions answered._\n"))
	assert.Equal(t, domain.DeckSize, strings.Count(doc, "_Not answered yet._"))
}

func TestExportMarkdown(t *testing.T) {
	t.Parallel()
	f := newDeckFixture(t)
	ctx := context.Background()

	deck, err := f.svc.CreateDeck(ctx, f.owner.ID, "Export me", nil)
	require.NoError(t, err)
	testutils.FillDeck(t, f.stores, deck.ID)

	export, err := f.svc.ExportMarkdown(ctx, f.owner.ID, deck.ID)
	require.NoError(t, err)
	assert.Equal(t, "Export me", export.Title)
	doc := export.Markdown
	assert.Contains(t, doc, "# Export me")
	assert.Contains(t, doc, "10 of 10 questions answered")
	assert.Contains(t, doc, "Answer for question 10")
	assert.NotContains(t, doc, "_Not answered yet._")
}
