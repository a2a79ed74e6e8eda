package testutils

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/inception-api/internal/domain"
	"github.com/stretchr/testify/require"
)

// TestPassword satisfies the password length rules.
const TestPassword = "correct-horse-battery"

// StrPtr returns a pointer to s.
func StrPtr(s string) *string {
	return &s
}

// MustInsertUser registers a user with TestPassword.
func MustInsertUser(t *testing.T, stores *TestStores, email string) *domain.User {
	t.Helper()

	user, err := domain.NewUser(email, TestPassword, nil)
	require.NoError(t, err, "Failed to build test user")
	require.NoError(t, stores.Users.Create(context.Background(), user), "Failed to insert test user")
	return user
}

// MustInsertDeck creates an empty deck owned by ownerID.
func MustInsertDeck(t *testing.T, stores *TestStores, ownerID uuid.UUID, title string) *domain.Deck {
	t.Helper()

	deck, err := domain.NewDeck(ownerID, title, nil)
	require.NoError(t, err, "Failed to build test deck")
	require.NoError(t, stores.Decks.Create(context.Background(), deck), "Failed to insert test deck")
	return deck
}

// MustSaveItem writes content at a position of a deck.
func MustSaveItem(t *testing.T, stores *TestStores, deckID uuid.UUID, position int, content *string) *domain.Item {
	t.Helper()

	item, err := domain.NewItem(deckID, position, content)
	require.NoError(t, err, "Failed to build test item")
	require.NoError(t, stores.Items.Upsert(context.Background(), item), "Failed to save test item")
	return item
}

// FillDeck writes non-blank content at every position, completing the deck.
func FillDeck(t *testing.T, stores *TestStores, deckID uuid.UUID) {
	t.Helper()

	for p := domain.MinPosition; p <= domain.MaxPosition; p++ {
		MustSaveItem(t, stores, deckID, p, StrPtr(fmt.Sprintf("Answer for question %d", p)))
	}
}
