package auth

import (
	"context"
	"time"
)

// JWTService verifies the access tokens issued by the identity provider.
// The service never manages accounts; a token only tells it which user is
// calling.
type JWTService interface {
	// GenerateToken creates a signed access token for userID valid for lifetime.
	// It is used by the token command for local development and by tests.
	GenerateToken(ctx context.Context, userID string, lifetime time.Duration) (string, error)

	// ValidateToken validates the provided access token string and extracts the claims.
	// Returns ErrExpiredToken, ErrTokenNotYetValid, ErrMissingSubject or
	// ErrInvalidToken when the token cannot be trusted.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims represents the verified identity carried by an access token.
type Claims struct {
	// UserID is the token subject. It is opaque to this service.
	UserID string `json:"sub"`

	Issuer    string    `json:"iss,omitempty"`
	IssuedAt  time.Time `json:"iat,omitempty"`
	ExpiresAt time.Time `json:"exp,omitempty"`
	ID        string    `json:"jti,omitempty"`
}
