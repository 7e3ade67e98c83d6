package booking_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weddingwise/weddingwise-client/internal/auth"
	"github.com/weddingwise/weddingwise-client/internal/booking"
	"github.com/weddingwise/weddingwise-client/internal/domain"
	domainerrors "github.com/weddingwise/weddingwise-client/internal/errors"
	"github.com/weddingwise/weddingwise-client/internal/fakeapi"
	"github.com/weddingwise/weddingwise-client/internal/gateway"
	"github.com/weddingwise/weddingwise-client/internal/id"
	"github.com/weddingwise/weddingwise-client/internal/store"
	"github.com/weddingwise/weddingwise-client/internal/validation"
)

const (
	accessTTL     = 15 * time.Minute
	refreshWindow = time.Hour
)

type liveEnv struct {
	manager *booking.Manager
	api     *fakeapi.Server
	clock   *fakeapi.ManualClock
	store   *store.Store
}

// setupLive wires a manager to the fake API over real HTTP and signs in.
func setupLive(t *testing.T) *liveEnv {
	t.Helper()
	ctx := context.Background()

	clock := fakeapi.NewManualClock(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))
	key, err := auth.GenerateKey()
	require.NoError(t, err)
	tokens, err := auth.NewTokenService(key, accessTTL, refreshWindow, auth.WithClock(clock.Now))
	require.NoError(t, err)

	api := fakeapi.New(fakeapi.Options{
		Tokens: tokens,
		Hasher: auth.NewPasswordHasher(auth.PasswordParams{Memory: 1024, Iterations: 1, Parallelism: 1}),
		Now:    clock.Now,
	})
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	_, err = api.SeedUser("Ann", "ann@example.com", "s3cret!")
	require.NoError(t, err)

	client, err := gateway.New(gateway.Config{BaseURL: srv.URL + "/api", RPS: 100, Burst: 100}, nil)
	require.NoError(t, err)
	t.Cleanup(client.Close)

	st, err := store.OpenInMemory(nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	m := booking.New(client, st, validation.New(), nil)
	require.NoError(t, m.Hydrate(ctx))
	require.NoError(t, m.SignIn(ctx, "ann@example.com", "s3cret!"))

	return &liveEnv{manager: m, api: api, clock: clock, store: st}
}

func (env *liveEnv) fillCart(t *testing.T) {
	t.Helper()
	ctx := context.Background()

	_, err := env.manager.AddToCart(ctx, domain.BookingDetails{
		Kind: domain.KindEvent, TargetRef: "e2", DisplayName: "Reception",
		RequesterName: "Ann", RequesterEmail: "ann@example.com", Date: "2025-06-01", GuestCount: 50,
	})
	require.NoError(t, err)
	_, err = env.manager.AddToCart(ctx, domain.BookingDetails{
		Kind: domain.KindVendor, TargetRef: "v1", DisplayName: "ABC Catering",
		RequesterName: "Ann", RequesterEmail: "ann@example.com", Date: "2025-06-01", GuestCount: 80,
	})
	require.NoError(t, err)
}

func TestLive_SignIn(t *testing.T) {
	env := setupLive(t)

	assert.Equal(t, domain.StateLoggedIn, env.manager.State())
	assert.Equal(t, "ann@example.com", env.manager.Identity().Email)
	assert.NotEmpty(t, env.manager.Token())
}

func TestLive_SignInWrongPassword(t *testing.T) {
	env := setupLive(t)
	ctx := context.Background()
	env.manager.Logout(ctx)

	err := env.manager.SignIn(ctx, "ann@example.com", "wrong1!")
	require.Error(t, err)
	assert.Equal(t, domainerrors.CodeInvalidCredentials, domainerrors.CodeOf(err))
	assert.Equal(t, "Invalid credentials", domainerrors.UserMessage(err))
	assert.Equal(t, domain.StateLoggedOut, env.manager.State())
}

func TestLive_ConfirmAndSync(t *testing.T) {
	env := setupLive(t)
	ctx := context.Background()
	env.fillCart(t)

	records, err := env.manager.ConfirmBookings(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
	for _, r := range records {
		assert.True(t, id.IsServer(r.ServerID))
		assert.Equal(t, "confirmed", env.api.BookingStatus(r.ServerID))
	}
	assert.Empty(t, env.manager.Cart())
	require.Len(t, env.api.Outbox(), 1)

	synced, err := env.manager.SyncBookings(ctx)
	require.NoError(t, err)
	require.Len(t, synced, 2)
	assert.Equal(t, records[0].ServerID, synced[0].ServerID)
	assert.Equal(t, "Reception", synced[0].DisplayName)
	assert.Equal(t, "2025-06-01", synced[0].Date)
	assert.Equal(t, domain.KindVendor, synced[1].Kind)
	assert.Equal(t, 80, synced[1].GuestCount)
}

func TestLive_RenewsExpiredCredential(t *testing.T) {
	env := setupLive(t)
	ctx := context.Background()
	before := env.manager.Token()

	env.clock.Advance(accessTTL + time.Minute)

	_, err := env.manager.SyncBookings(ctx)
	require.NoError(t, err)

	after := env.manager.Token()
	assert.NotEqual(t, before, after)
	assert.Equal(t, domain.StateLoggedIn, env.manager.State())

	snap, err := env.store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, after, snap.Token)
}

func TestLive_SessionExpired(t *testing.T) {
	env := setupLive(t)
	ctx := context.Background()
	env.fillCart(t)

	env.clock.Advance(accessTTL + refreshWindow + time.Minute)

	_, err := env.manager.ConfirmBookings(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrSessionExpired)

	assert.Equal(t, domain.StateLoggedOut, env.manager.State())
	assert.Empty(t, env.manager.Token())
	assert.Empty(t, env.manager.Cart())

	snap, err := env.store.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, snap.Identity)
	assert.Empty(t, snap.Token)
}

func TestLive_ConfirmRetryReusesServerBookings(t *testing.T) {
	env := setupLive(t)
	ctx := context.Background()
	env.fillCart(t)

	env.api.FailNext(http.MethodPost, "/api/bookings/confirm-booking", http.StatusInternalServerError, "Server error")

	_, err := env.manager.ConfirmBookings(ctx)
	require.Error(t, err)
	assert.Equal(t, domainerrors.CodeRemoteFailure, domainerrors.CodeOf(err))

	cart := env.manager.Cart()
	require.Len(t, cart, 2)
	for _, item := range cart {
		assert.True(t, id.IsServer(item.ID), item.ID)
	}
	assert.Equal(t, 2, env.api.BookingCount())

	records, err := env.manager.ConfirmBookings(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 2)
	assert.Equal(t, 2, env.api.BookingCount())
}

func TestLive_RemoveServerCartItem(t *testing.T) {
	env := setupLive(t)
	ctx := context.Background()
	env.fillCart(t)

	env.api.FailNext(http.MethodPost, "/api/bookings/confirm-booking", http.StatusBadGateway, "")
	_, err := env.manager.ConfirmBookings(ctx)
	require.Error(t, err)

	item := env.manager.Cart()[0]
	require.NoError(t, env.manager.RemoveFromCart(ctx, item.ID))

	assert.Len(t, env.manager.Cart(), 1)
	assert.Empty(t, env.api.BookingStatus(item.ID))
	assert.Equal(t, 1, env.api.BookingCount())
}
