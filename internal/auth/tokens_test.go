package auth

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weddingwise/weddingwise-client/internal/domain"
)

// testClock is a settable clock.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func setupTokenService(t *testing.T) (*TokenService, *testClock) {
	t.Helper()

	key, err := GenerateKey()
	require.NoError(t, err)

	clock := &testClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	s, err := NewTokenService(key, 15*time.Minute, time.Hour, WithClock(clock.Now))
	require.NoError(t, err)
	return s, clock
}

func ann() domain.Identity {
	return domain.Identity{ID: "u1", Name: "Ann", Email: "a@x.com"}
}

func TestNewTokenService_RejectsBadKey(t *testing.T) {
	_, err := NewTokenService(make([]byte, 16), time.Minute, time.Hour)
	assert.Error(t, err)

	_, err = NewTokenService(make([]byte, 32), 0, time.Hour)
	assert.Error(t, err)
}

func TestAccessToken_RoundTrip(t *testing.T) {
	s, _ := setupTokenService(t)

	token, err := s.GenerateAccessToken(ann())
	require.NoError(t, err)
	assert.Contains(t, token, "v4.local.")

	claims, err := s.VerifyAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, ann(), claims.Identity())
	assert.Equal(t, time.Duration(0), claims.ExpiredFor(claims.Expiration))
	assert.NotEmpty(t, claims.TokenID)
}

func TestVerifyAccessToken_Expiry(t *testing.T) {
	s, clock := setupTokenService(t)

	token, err := s.GenerateAccessToken(ann())
	require.NoError(t, err)

	clock.Advance(14 * time.Minute)
	_, err = s.VerifyAccessToken(token)
	require.NoError(t, err)

	clock.Advance(time.Minute)
	claims, err := s.VerifyAccessToken(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
	require.NotNil(t, claims, "expired tokens still report who they belong to")
	assert.Equal(t, "u1", claims.UserID)
}

func TestVerifyAccessToken_Invalid(t *testing.T) {
	s, _ := setupTokenService(t)
	other, _ := setupTokenService(t)

	foreign, err := other.GenerateAccessToken(ann())
	require.NoError(t, err)

	for _, token := range []string{"", "garbage", foreign} {
		_, err := s.VerifyAccessToken(token)
		assert.ErrorIs(t, err, ErrTokenInvalid)
	}
}

func TestRefreshAccessToken(t *testing.T) {
	tests := []struct {
		name    string
		advance time.Duration
		wantErr error
	}{
		{name: "still valid", advance: time.Minute},
		{name: "expired within window", advance: 15*time.Minute + 30*time.Minute},
		{name: "expired past window", advance: 15*time.Minute + 2*time.Hour, wantErr: ErrRefreshWindowClosed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, clock := setupTokenService(t)
			token, err := s.GenerateAccessToken(ann())
			require.NoError(t, err)

			clock.Advance(tt.advance)
			renewed, claims, err := s.RefreshAccessToken(token)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NotEqual(t, token, renewed)
			assert.Equal(t, "u1", claims.UserID)

			fresh, err := s.VerifyAccessToken(renewed)
			require.NoError(t, err)
			assert.Equal(t, clock.Now().Add(15*time.Minute).Unix(), fresh.Expiration.Unix())
		})
	}
}

func TestRefreshAccessToken_Invalid(t *testing.T) {
	s, _ := setupTokenService(t)
	_, _, err := s.RefreshAccessToken("v4.local.nope")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestLoadOrGenerateKey_TokensReuse(t *testing.T) {
	dir := t.TempDir()

	first, err := LoadOrGenerateKey(dir)
	require.NoError(t, err)
	assert.Len(t, first, keyLength)

	second, err := LoadOrGenerateKey(dir)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
