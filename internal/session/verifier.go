package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenVerifier decides whether a stored token still counts as a session.
type TokenVerifier interface {
	Verify(token string) bool
}

// PresenceVerifier accepts any non-empty token. Nothing is checked against
// the issuer.
type PresenceVerifier struct{}

func (PresenceVerifier) Verify(token string) bool {
	return token != ""
}

// JWTExpiryVerifier reads the exp claim without checking the signature and
// rejects expired tokens and tokens that are not JWTs.
type JWTExpiryVerifier struct {
	Now func() time.Time
}

func (v JWTExpiryVerifier) Verify(token string) bool {
	if token == "" {
		return false
	}

	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	if claims.ExpiresAt == nil {
		return true
	}

	now := time.Now
	if v.Now != nil {
		now = v.Now
	}
	return now().Before(claims.ExpiresAt.Time)
}
