package auth

import (
	"context"
	"time"

	"github.com/tuesdayhq/tuesday-api/internal/domain"
)

// JWTService defines operations for managing JWT session tokens. Tokens are
// stateless: validity is proven solely by signature and expiry, with no
// server-side session store.
type JWTService interface {
	// GenerateToken creates a signed JWT access token carrying the user's
	// identity claims. Returns the compact token string or an error if
	// signing fails.
	GenerateToken(ctx context.Context, user *domain.User) (string, error)

	// ValidateToken validates the provided token string and extracts the
	// claims. Returns ErrExpiredToken if the token has expired, or
	// ErrInvalidToken for any other validation failure (bad signature,
	// malformed structure, wrong algorithm).
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims represents the identity claims carried by a session token.
type Claims struct {
	// UserID is the numeric identifier of the user the token was issued
	// for, parsed from the subject claim.
	UserID int64

	// Email is the user's normalized email address at issuance time.
	Email string

	// Name is the user's display name at issuance time.
	Name string

	// Standard registered JWT claims
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
	ID        string
}
