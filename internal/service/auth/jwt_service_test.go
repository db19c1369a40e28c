package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tuesdayhq/tuesday-api/internal/config"
	"github.com/tuesdayhq/tuesday-api/internal/domain"
)

// newTestJWTService builds an HMAC service with an injected clock for
// deterministic expiry behavior.
func newTestJWTService(secret string, lifetime time.Duration, timeFunc func() time.Time) JWTService {
	return &hmacJWTService{
		signingKey:    []byte(secret),
		tokenLifetime: lifetime,
		timeFunc:      timeFunc,
	}
}

func testUser() *domain.User {
	return &domain.User{
		ID:    42,
		Email: "ada@example.com",
		Name:  "Ada Lovelace",
	}
}

func TestNewJWTServiceRequiresSecret(t *testing.T) {
	t.Parallel()

	_, err := NewJWTService(config.AuthConfig{JWTSecret: "", TokenLifetimeMinutes: 120})
	assert.Error(t, err)

	svc, err := NewJWTService(config.AuthConfig{JWTSecret: "secret", TokenLifetimeMinutes: 120})
	require.NoError(t, err)
	assert.NotNil(t, svc)
}

func TestGenerateToken(t *testing.T) {
	t.Parallel()

	// Setup
	fixedTime := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	tokenLifetime := 120 * time.Minute
	secret := "test-secret-that-is-long-enough-for-testing"
	user := testUser()

	svc := newTestJWTService(secret, tokenLifetime, func() time.Time {
		return fixedTime
	})

	t.Run("generates valid token", func(t *testing.T) {
		t.Parallel()
		token, err := svc.GenerateToken(context.Background(), user)
		require.NoError(t, err)
		require.NotEmpty(t, token)

		claims, err := svc.ValidateToken(context.Background(), token)
		require.NoError(t, err)

		assert.Equal(t, user.ID, claims.UserID)
		assert.Equal(t, "42", claims.Subject)
		assert.Equal(t, user.Email, claims.Email)
		assert.Equal(t, user.Name, claims.Name)
		// Compare Unix timestamps to avoid timezone issues
		assert.Equal(t, fixedTime.Unix(), claims.IssuedAt.Unix())
		assert.Equal(t, fixedTime.Add(tokenLifetime).Unix(), claims.ExpiresAt.Unix())
		assert.NotEmpty(t, claims.ID)
	})

	t.Run("tokens carry unique IDs", func(t *testing.T) {
		t.Parallel()
		first, err := svc.GenerateToken(context.Background(), user)
		require.NoError(t, err)
		second, err := svc.GenerateToken(context.Background(), user)
		require.NoError(t, err)

		firstClaims, err := svc.ValidateToken(context.Background(), first)
		require.NoError(t, err)
		secondClaims, err := svc.ValidateToken(context.Background(), second)
		require.NoError(t, err)

		assert.NotEqual(t, firstClaims.ID, secondClaims.ID)
	})
}

func TestValidateToken(t *testing.T) {
	t.Parallel()

	// Setup
	fixedTime := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	tokenLifetime := 120 * time.Minute
	secret := "test-secret-that-is-long-enough-for-testing"
	wrongSecret := "wrong-secret-that-is-long-enough-for-testing"
	user := testUser()

	tests := []struct {
		name      string
		setupFunc func() (JWTService, string)
		wantErr   error
	}{
		{
			name: "valid token",
			setupFunc: func() (JWTService, string) {
				svc := newTestJWTService(secret, tokenLifetime, func() time.Time {
					return fixedTime
				})
				token, _ := svc.GenerateToken(context.Background(), user)
				return svc, token
			},
			wantErr: nil,
		},
		{
			name: "expired token",
			setupFunc: func() (JWTService, string) {
				genSvc := newTestJWTService(secret, tokenLifetime, func() time.Time {
					return fixedTime
				})
				token, _ := genSvc.GenerateToken(context.Background(), user)

				// Validate at a later time (after expiry)
				valSvc := newTestJWTService(secret, tokenLifetime, func() time.Time {
					return fixedTime.Add(tokenLifetime + time.Hour)
				})
				return valSvc, token
			},
			wantErr: ErrExpiredToken,
		},
		{
			name: "invalid signature",
			setupFunc: func() (JWTService, string) {
				genSvc := newTestJWTService(secret, tokenLifetime, func() time.Time {
					return fixedTime
				})
				token, _ := genSvc.GenerateToken(context.Background(), user)

				valSvc := newTestJWTService(wrongSecret, tokenLifetime, func() time.Time {
					return fixedTime
				})
				return valSvc, token
			},
			wantErr: ErrInvalidToken,
		},
		{
			name: "validly signed token missing time claims",
			setupFunc: func() (JWTService, string) {
				svc := newTestJWTService(secret, tokenLifetime, func() time.Time {
					return fixedTime
				})
				// Signed with the real key but carrying only a subject,
				// so it was not minted by this service.
				bare := jwt.NewWithClaims(jwt.SigningMethodHS256,
					jwt.RegisteredClaims{Subject: "42"})
				token, _ := bare.SignedString([]byte(secret))
				return svc, token
			},
			wantErr: ErrInvalidToken,
		},
		{
			name: "malformed token",
			setupFunc: func() (JWTService, string) {
				svc := newTestJWTService(secret, tokenLifetime, func() time.Time {
					return fixedTime
				})
				return svc, "this.is.not.a.valid.jwt.token"
			},
			wantErr: ErrInvalidToken,
		},
		{
			name: "empty token",
			setupFunc: func() (JWTService, string) {
				svc := newTestJWTService(secret, tokenLifetime, func() time.Time {
					return fixedTime
				})
				return svc, ""
			},
			wantErr: ErrInvalidToken,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc, token := tt.setupFunc()
			claims, err := svc.ValidateToken(context.Background(), token)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, claims)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, claims)
				assert.Equal(t, user.ID, claims.UserID)
			}
		})
	}
}
