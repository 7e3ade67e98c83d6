// Package booking holds the session's single mutation authority: identity,
// credential, cart and confirmed bookings. Every change goes through a Manager,
// which mirrors it into the session store and talks to the remote API through
// the gateway.
package booking

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/weddingwise/weddingwise-client/internal/domain"
	domainerrors "github.com/weddingwise/weddingwise-client/internal/errors"
	"github.com/weddingwise/weddingwise-client/internal/gateway"
	"github.com/weddingwise/weddingwise-client/internal/store"
	"github.com/weddingwise/weddingwise-client/internal/validation"
)

// Remote is the part of the remote API the manager uses.
// *gateway.Client satisfies it.
type Remote interface {
	SetCredentials(creds gateway.Credentials)

	Login(ctx context.Context, email, password string) (*gateway.SessionGrant, error)
	Register(ctx context.Context, r domain.Registration) (string, error)
	RequestPasswordReset(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, token, newPassword string) (string, error)
	UpdateProfile(ctx context.Context, p domain.ProfileUpdate) (*gateway.SessionGrant, error)
	SendContact(ctx context.Context, m domain.ContactMessage) (string, error)

	ListEvents(ctx context.Context) ([]domain.Event, error)
	GetEvent(ctx context.Context, id string) (*domain.Event, error)
	ListVendors(ctx context.Context) ([]domain.Vendor, error)
	GetVendor(ctx context.Context, id string) (*domain.Vendor, error)

	CreateBooking(ctx context.Context, d domain.BookingDetails) (string, error)
	ListBookings(ctx context.Context, kind domain.Kind) ([]domain.BookingRecord, error)
	UpdateBooking(ctx context.Context, serverID string, d domain.BookingDetails) error
	DeleteBooking(ctx context.Context, kind domain.Kind, serverID string) error
	ConfirmBookings(ctx context.Context, items []domain.CartItem) error
}

// SessionStore persists the session keys. *store.Store satisfies it.
type SessionStore interface {
	Load(ctx context.Context) (*store.Snapshot, error)
	Save(ctx context.Context, key store.Key, value any) error
	Clear(ctx context.Context, keys ...store.Key) error
}

// Manager owns the session state.
//
// opMu serialises operations. mu guards the fields below it and is the only
// lock taken by the gateway callbacks (Token, StoreRenewedToken, ForceLogout),
// so a renewal in the middle of an operation cannot deadlock.
type Manager struct {
	remote    Remote
	store     SessionStore
	validator *validation.Validator
	logger    *slog.Logger

	opMu sync.Mutex

	mu       sync.RWMutex
	state    domain.SessionState
	identity *domain.Identity
	token    string
	cart     []domain.CartItem
	bookings []domain.BookingRecord
	darkMode bool
	// generation changes whenever the session is cleared. Operations that
	// started under an older generation must not commit.
	generation uint64
}

// New creates a manager and registers it as the remote's credential owner.
// Call Hydrate before any other operation.
func New(remote Remote, sessions SessionStore, v *validation.Validator, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	m := &Manager{
		remote:    remote,
		store:     sessions,
		validator: v,
		logger:    logger.With("component", "booking"),
		state:     domain.StateUninitialized,
	}
	remote.SetCredentials(m)
	return m
}

// Hydrate reads the session store once and settles on LoggedIn or LoggedOut.
// Calling it again is a no-op.
func (m *Manager) Hydrate(ctx context.Context) error {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	m.mu.Lock()
	if m.state != domain.StateUninitialized {
		m.mu.Unlock()
		return nil
	}
	m.state = domain.StateHydrating
	m.mu.Unlock()

	snap, err := m.store.Load(ctx)
	if err != nil {
		m.logger.Error("session hydration failed", "error", err)
		m.setState(domain.StateLoggedOut)
		return domainerrors.Wrap(err, domainerrors.CodeInternal, "load session")
	}

	loggedIn := snap.Identity.IsWellFormed() && strings.TrimSpace(snap.Token) != ""
	if !loggedIn && (snap.Identity != nil || snap.Token != "" || snap.Bookings != nil) {
		// Half a session is no session.
		if err := m.store.Clear(ctx, store.KeyCurrentUser, store.KeyAuthToken, store.KeyBookings); err != nil {
			m.logger.Warn("failed to purge stale session", "error", err)
		}
	}

	m.mu.Lock()
	m.cart = snap.Cart
	if snap.DarkMode != nil {
		m.darkMode = *snap.DarkMode
	}
	if loggedIn {
		m.state = domain.StateLoggedIn
		m.identity = snap.Identity
		m.token = snap.Token
		m.bookings = snap.Bookings
	} else {
		m.state = domain.StateLoggedOut
	}
	m.mu.Unlock()

	m.logger.Info("session hydrated",
		"state", m.State().String(),
		"cart_items", len(snap.Cart),
		"purged", len(snap.Purged))
	return nil
}

// State returns the session state.
func (m *Manager) State() domain.SessionState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Identity returns a copy of the signed-in identity, or nil.
func (m *Manager) Identity() *domain.Identity {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.identity == nil {
		return nil
	}
	identity := *m.identity
	return &identity
}

// Cart returns a copy of the cart in insertion order.
func (m *Manager) Cart() []domain.CartItem {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.cart)
}

// BookingRecords returns a copy of the confirmed bookings.
func (m *Manager) BookingRecords() []domain.BookingRecord {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.bookings)
}

// Token returns the current credential. Part of gateway.Credentials.
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token
}

// StoreRenewedToken replaces the credential after the gateway renewed it.
// Part of gateway.Credentials.
func (m *Manager) StoreRenewedToken(ctx context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != domain.StateLoggedIn {
		return domainerrors.Unauthorized("no session to renew")
	}
	if err := m.store.Save(ctx, store.KeyAuthToken, token); err != nil {
		return domainerrors.Wrap(err, domainerrors.CodeInternal, "save renewed credential")
	}
	m.token = token
	m.logger.Info("credential renewed", "user_id", m.identity.ID)
	return nil
}

// ForceLogout ends the session after the credential could not be renewed.
// Part of gateway.Credentials.
func (m *Manager) ForceLogout(ctx context.Context) {
	m.logger.Warn("session expired, logging out")
	m.clearSession(ctx)
}

// Logout clears identity, credential, cart and bookings from memory and store.
// It never fails; store errors are logged.
func (m *Manager) Logout(ctx context.Context) {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	m.clearSession(ctx)
	m.logger.Info("logged out")
}

func (m *Manager) clearSession(ctx context.Context) {
	m.mu.Lock()
	m.state = domain.StateLoggedOut
	m.identity = nil
	m.token = ""
	m.cart = nil
	m.bookings = nil
	m.generation++
	defer m.mu.Unlock()

	if err := m.store.Clear(ctx, store.SessionKeys...); err != nil {
		m.logger.Warn("failed to clear persisted session", "error", err)
	}
}

func (m *Manager) setState(s domain.SessionState) {
	m.mu.Lock()
	m.state = s
	m.mu.Unlock()
}

// begin checks the manager is hydrated and returns the current generation.
func (m *Manager) begin() (uint64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.state == domain.StateUninitialized || m.state == domain.StateHydrating {
		return 0, domainerrors.Internal("session has not been hydrated")
	}
	return m.generation, nil
}

// requireLogin is begin for operations that need a signed-in user.
func (m *Manager) requireLogin(msg string) (uint64, error) {
	gen, err := m.begin()
	if err != nil {
		return 0, err
	}
	if m.State() != domain.StateLoggedIn {
		return 0, domainerrors.Unauthorized(msg)
	}
	return gen, nil
}

// persist writes one session key, wrapping store failures.
func (m *Manager) persist(ctx context.Context, key store.Key, value any) error {
	if err := m.store.Save(ctx, key, value); err != nil {
		m.logger.Error("failed to persist session state", "key", string(key), "error", err)
		return domainerrors.Wrapf(err, domainerrors.CodeInternal, "save %s", key)
	}
	return nil
}

// commit runs fn under the state lock unless the session was cleared since
// gen was taken. fn persists first and assigns memory only when that succeeds.
func (m *Manager) commit(gen uint64, fn func() error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.generation != gen {
		return domainerrors.SessionExpired("session ended during the operation")
	}
	return fn()
}

// validate runs struct validation on v.
func (m *Manager) validate(v any) error {
	return m.validator.Validate(v)
}
