package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"pensionfund/internal/domain/entity"
)

// ErrTokenExpired is returned by the parse methods when the token is
// well-formed and correctly signed but past its expiry. Callers use it to
// distinguish expiry from tampering.
var ErrTokenExpired = errors.New("token expired")

// Claims is the unified claim schema carried by every signed token.
// The refresh token only populates UserID and the registered claims.
type Claims struct {
	UserID      uuid.UUID   `json:"uid"`
	Email       string      `json:"email,omitempty"`
	Role        entity.Role `json:"role,omitempty"`
	MemberID    *uuid.UUID  `json:"member_id,omitempty"`
	Permissions []string    `json:"permissions,omitempty"`
	TokenType   string      `json:"typ"`
	jwt.RegisteredClaims
}

// TokenService defines the interface for generating and validating signed tokens.
// This abstracts the details of token creation from the use cases.
type TokenService interface {
	// GenerateAccessToken creates a short-lived access token embedding the
	// user's identity, role and effective permissions.
	GenerateAccessToken(user *entity.User) (string, error)

	// GenerateRefreshToken creates a long-lived refresh token for the user.
	// The caller is responsible for persisting its hash.
	GenerateRefreshToken(userID uuid.UUID) (string, error)

	// ParseAccessToken verifies signature, expiry and issuer of an access token.
	ParseAccessToken(tokenString string) (*Claims, error)

	// ParseRefreshToken verifies signature, expiry and issuer of a refresh token.
	ParseRefreshToken(tokenString string) (*Claims, error)

	// HashToken returns the hex-encoded SHA-256 digest used to store
	// refresh and reset tokens server-side.
	HashToken(token string) string

	// NewOpaqueToken returns a random, URL-safe opaque token for the
	// password-reset flow.
	NewOpaqueToken() (string, error)

	// AccessTokenDuration returns the configured access-token lifetime.
	AccessTokenDuration() time.Duration

	// RefreshTokenDuration returns the configured refresh-token lifetime.
	RefreshTokenDuration() time.Duration
}
