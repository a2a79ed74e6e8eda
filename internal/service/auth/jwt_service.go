package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// JWTService issues and checks the bearer tokens of the deck API.
//
// Access tokens authenticate requests; refresh tokens are only accepted by
// the refresh endpoint. Each validator rejects the other kind with
// ErrWrongTokenType.
type JWTService interface {
	// GenerateToken creates a signed access token for userID.
	GenerateToken(ctx context.Context, userID uuid.UUID) (string, error)

	// ValidateToken checks an access token and returns its claims.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)

	// GenerateRefreshToken creates a signed, longer-lived refresh token.
	GenerateRefreshToken(ctx context.Context, userID uuid.UUID) (string, error)

	// ValidateRefreshToken checks a refresh token and returns its claims.
	ValidateRefreshToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims are the verified contents of a token.
type Claims struct {
	// UserID is the unique identifier of the user the token was issued for.
	UserID uuid.UUID `json:"uid,omitempty"`

	// TokenType is "access" or "refresh".
	TokenType string `json:"type,omitempty"`

	Subject   string    `json:"sub,omitempty"`
	IssuedAt  time.Time `json:"iat,omitempty"`
	ExpiresAt time.Time `json:"exp,omitempty"`
	ID        string    `json:"jti,omitempty"`
}

// TokenPair is what login, registration and refresh hand back to clients.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// IssueTokenPair generates an access and a refresh token for userID.
// ExpiresAt is the access token's expiry as read back from its claims.
func IssueTokenPair(ctx context.Context, svc JWTService, userID uuid.UUID) (*TokenPair, error) {
	access, err := svc.GenerateToken(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}
	refresh, err := svc.GenerateRefreshToken(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}
	claims, err := svc.ValidateToken(ctx, access)
	if err != nil {
		return nil, fmt.Errorf("read access token expiry: %w", err)
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    claims.ExpiresAt,
	}, nil
}
