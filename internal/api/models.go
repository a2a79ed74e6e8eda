package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/inception-api/internal/domain"
	"github.com/phrazzld/inception-api/internal/service"
)

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Email    string  `json:"email"    validate:"required,email"`
	Password string  `json:"password" validate:"required,min=12,max=72"`
	Name     *string `json:"name"     validate:"omitempty,max=100"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// RefreshTokenRequest defines the payload for the token refresh endpoint.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// AuthResponse is returned by registration, login and refresh.
type AuthResponse struct {
	User         *UserResponse `json:"user,omitempty"`
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token"`
	// ExpiresAt is the RFC 3339 time at which the access token expires.
	ExpiresAt string `json:"expires_at"`
}

// UserResponse is the public view of an account.
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      *string   `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateDeckRequest defines the payload for creating a deck. Blank titles
// are rejected by the domain, not by the tag.
type CreateDeckRequest struct {
	Title       string  `json:"title"       validate:"required,max=200"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
}

// UpdateDeckRequest changes the supplied fields of a deck.
type UpdateDeckRequest struct {
	Title       *string `json:"title"       validate:"omitempty,max=200"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
}

// SaveItemRequest sets the content at a deck position. A null or missing
// content is stored as null.
type SaveItemRequest struct {
	Content *string `json:"content" validate:"omitempty,max=20000"`
}

// DeckResponse is a deck with its items and completion state.
type DeckResponse struct {
	ID          uuid.UUID     `json:"id"`
	Title       string        `json:"title"`
	Description *string       `json:"description"`
	Items       []domain.Item `json:"items"`
	FilledCount int           `json:"filled_count"`
	IsComplete  bool          `json:"is_complete"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// DeckSummaryResponse is one entry of the deck list.
type DeckSummaryResponse struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	FilledCount int       `json:"filled_count"`
	IsComplete  bool      `json:"is_complete"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ItemResponse is a single deck item.
type ItemResponse struct {
	ID        uuid.UUID `json:"id"`
	DeckID    uuid.UUID `json:"deck_id"`
	Position  int       `json:"position"`
	Content   *string   `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func userToResponse(u *domain.User) *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		CreatedAt: u.CreatedAt,
	}
}

func deckToResponse(d *domain.Deck, items []domain.Item, filled int, complete bool) DeckResponse {
	if items == nil {
		items = []domain.Item{}
	}
	return DeckResponse{
		ID:          d.ID,
		Title:       d.Title,
		Description: d.Description,
		Items:       items,
		FilledCount: filled,
		IsComplete:  complete,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

func deckWithItemsToResponse(d *service.DeckWithItems) DeckResponse {
	return deckToResponse(&d.Deck, d.Items, d.FilledCount, d.IsComplete)
}

func summaryToResponse(s domain.DeckSummary) DeckSummaryResponse {
	return DeckSummaryResponse{
		ID:          s.ID,
		Title:       s.Title,
		Description: s.Description,
		FilledCount: s.FilledCount,
		IsComplete:  s.IsComplete,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

func itemToResponse(i *domain.Item) ItemResponse {
	return ItemResponse{
		ID:        i.ID,
		DeckID:    i.DeckID,
		Position:  i.Position,
		Content:   i.Content,
		CreatedAt: i.CreatedAt,
		UpdatedAt: i.UpdatedAt,
	}
}

func itemsToResponse(items []domain.Item) []ItemResponse {
	out := make([]ItemResponse, 0, len(items))
	for i := range items {
		out = append(out, itemToResponse(&items[i]))
	}
	return out
}
