package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"aidanwoods.dev/go-paseto"

	"github.com/weddingwise/weddingwise-client/internal/domain"
	"github.com/weddingwise/weddingwise-client/internal/id"
)

const (
	tokenIssuer   = "weddingwise-api"
	tokenAudience = "weddingwise-client"
)

var (
	// ErrTokenExpired means the token is authentic but past its expiry.
	ErrTokenExpired = errors.New("token has expired")
	// ErrTokenInvalid means the token could not be decrypted or carries the wrong claims.
	ErrTokenInvalid = errors.New("invalid token")
	// ErrRefreshWindowClosed means the token expired too long ago to be renewed.
	ErrRefreshWindowClosed = errors.New("token can no longer be refreshed")
)

// TokenService handles PASETO token generation and verification.
type TokenService struct {
	symmetricKey        paseto.V4SymmetricKey
	accessTokenDuration time.Duration
	refreshWindow       time.Duration
	now                 func() time.Time
}

// Option configures a TokenService.
type Option func(*TokenService)

// WithClock replaces time.Now, letting tests move time forward.
func WithClock(now func() time.Time) Option {
	return func(s *TokenService) {
		s.now = now
	}
}

// NewTokenService creates a token service from a 32-byte key.
// refreshWindow is how long after expiry a token may still be exchanged for a new one.
func NewTokenService(key []byte, accessDuration, refreshWindow time.Duration, opts ...Option) (*TokenService, error) {
	if len(key) != keyLength {
		return nil, fmt.Errorf("PASETO v4 key must be exactly %d bytes, got %d", keyLength, len(key))
	}
	if accessDuration <= 0 {
		return nil, errors.New("access token duration must be positive")
	}

	symmetricKey, err := paseto.V4SymmetricKeyFromBytes(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create PASETO symmetric key: %w", err)
	}

	s := &TokenService{
		symmetricKey:        symmetricKey,
		accessTokenDuration: accessDuration,
		refreshWindow:       refreshWindow,
		now:                 time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// GenerateAccessToken creates a new PASETO v4.local access token for the user.
func (s *TokenService) GenerateAccessToken(identity domain.Identity) (string, error) {
	now := s.now()

	token := paseto.NewToken()
	token.SetIssuer(tokenIssuer)
	token.SetSubject(identity.ID)
	token.SetAudience(tokenAudience)
	token.SetIssuedAt(now)
	token.SetNotBefore(now)
	token.SetExpiration(now.Add(s.accessTokenDuration))

	tokenID, err := id.Generate("token")
	if err != nil {
		return "", fmt.Errorf("generate token ID: %w", err)
	}
	token.SetJti(tokenID)

	//nolint:errcheck // Token.Set only errors on invalid types, which we control
	_ = token.Set("user_id", identity.ID)
	//nolint:errcheck // Token.Set only errors on invalid types, which we control
	_ = token.Set("email", identity.Email)
	//nolint:errcheck // Token.Set only errors on invalid types, which we control
	_ = token.Set("name", identity.Name)

	return token.V4Encrypt(s.symmetricKey, nil), nil
}

// VerifyAccessToken decrypts a token and checks its claims against the
// service clock. An authentic but expired token returns its claims together
// with ErrTokenExpired.
func (s *TokenService) VerifyAccessToken(tokenString string) (*AccessClaims, error) {
	// Expiry is checked below against the injected clock, not by the parser.
	parser := paseto.NewParserWithoutExpiryCheck()
	parser.AddRule(paseto.ForAudience(tokenAudience))
	parser.AddRule(paseto.IssuedBy(tokenIssuer))

	token, err := parser.ParseV4Local(s.symmetricKey, tokenString, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTokenInvalid, err)
	}

	var claims AccessClaims
	if err := json.Unmarshal(token.ClaimsJSON(), &claims); err != nil {
		return nil, fmt.Errorf("%w: parse claims: %w", ErrTokenInvalid, err)
	}

	now := s.now()
	if now.Before(claims.NotBefore) {
		return nil, fmt.Errorf("%w: not yet valid", ErrTokenInvalid)
	}
	if !now.Before(claims.Expiration) {
		return &claims, ErrTokenExpired
	}
	return &claims, nil
}

// RefreshAccessToken exchanges a token that is still valid, or expired
// within the refresh window, for a new one.
func (s *TokenService) RefreshAccessToken(tokenString string) (string, *AccessClaims, error) {
	claims, err := s.VerifyAccessToken(tokenString)
	switch {
	case errors.Is(err, ErrTokenExpired):
		if claims.ExpiredFor(s.now()) > s.refreshWindow {
			return "", nil, ErrRefreshWindowClosed
		}
	case err != nil:
		return "", nil, err
	}

	renewed, err := s.GenerateAccessToken(claims.Identity())
	if err != nil {
		return "", nil, err
	}
	return renewed, claims, nil
}

// AccessTokenDuration returns the configured access token lifetime.
func (s *TokenService) AccessTokenDuration() time.Duration {
	return s.accessTokenDuration
}
