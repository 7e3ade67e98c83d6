package auth

import (
	"time"

	"github.com/weddingwise/weddingwise-client/internal/domain"
)

// AccessClaims are the claims carried by an access token. v4.local tokens
// are encrypted, so clients cannot read them.
type AccessClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`

	Expiration time.Time `json:"exp"`
	NotBefore  time.Time `json:"nbf"`
	IssuedAt   time.Time `json:"iat"`
	TokenID    string    `json:"jti"`
}

// Identity returns the user the token was issued to.
func (c *AccessClaims) Identity() domain.Identity {
	return domain.Identity{ID: c.UserID, Name: c.Name, Email: c.Email}
}

// ExpiredFor reports how long ago the token expired at now. It is zero or
// negative for a token that is still valid.
func (c *AccessClaims) ExpiredFor(now time.Time) time.Duration {
	return now.Sub(c.Expiration)
}
