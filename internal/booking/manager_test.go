package booking

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/weddingwise/weddingwise-client/internal/domain"
	"github.com/weddingwise/weddingwise-client/internal/gateway"
	"github.com/weddingwise/weddingwise-client/internal/store"
	"github.com/weddingwise/weddingwise-client/internal/validation"
)

// stubRemote is an in-process Remote that records every call.
type stubRemote struct {
	mu    sync.Mutex
	creds gateway.Credentials
	calls []string

	nextID     int
	grant      *gateway.SessionGrant
	loginErr   error
	createErrs map[int]error // keyed by 1-based create call number
	creates    int
	confirmErr error
	updateErr  error
	deleteErr  error
	listed     map[domain.Kind][]domain.BookingRecord
	confirmed  []domain.CartItem

	// onConfirm runs before the confirmation call returns.
	onConfirm func(ctx context.Context, creds gateway.Credentials) error
}

func (s *stubRemote) record(call string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, call)
}

func (s *stubRemote) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

func (s *stubRemote) SetCredentials(creds gateway.Credentials) { s.creds = creds }

func (s *stubRemote) Login(_ context.Context, email, _ string) (*gateway.SessionGrant, error) {
	s.record("login:" + email)
	if s.loginErr != nil {
		return nil, s.loginErr
	}
	return s.grant, nil
}

func (s *stubRemote) Register(_ context.Context, r domain.Registration) (string, error) {
	s.record("register:" + r.Email)
	return "User registered successfully", nil
}

func (s *stubRemote) RequestPasswordReset(_ context.Context, email string) (string, error) {
	s.record("reset-request:" + email)
	return "Reset email sent", nil
}

func (s *stubRemote) ResetPassword(_ context.Context, token, _ string) (string, error) {
	s.record("reset:" + token)
	return "Password reset successful", nil
}

func (s *stubRemote) UpdateProfile(_ context.Context, p domain.ProfileUpdate) (*gateway.SessionGrant, error) {
	s.record("profile:" + p.Email)
	return &gateway.SessionGrant{Identity: &domain.Identity{ID: "u1", Name: p.Name, Email: p.Email}, Token: "tok-profile"}, nil
}

func (s *stubRemote) SendContact(_ context.Context, m domain.ContactMessage) (string, error) {
	s.record("contact:" + m.Email)
	return "Message sent", nil
}

func (s *stubRemote) ListEvents(context.Context) ([]domain.Event, error) {
	s.record("events")
	return []domain.Event{{ID: "e1", Title: "Reception"}}, nil
}

func (s *stubRemote) GetEvent(_ context.Context, id string) (*domain.Event, error) {
	s.record("event:" + id)
	return &domain.Event{ID: id, Title: "Reception"}, nil
}

func (s *stubRemote) ListVendors(context.Context) ([]domain.Vendor, error) {
	s.record("vendors")
	return []domain.Vendor{{ID: "v1", Name: "ABC Catering"}}, nil
}

func (s *stubRemote) GetVendor(_ context.Context, id string) (*domain.Vendor, error) {
	s.record("vendor:" + id)
	return &domain.Vendor{ID: id, Name: "ABC Catering"}, nil
}

func (s *stubRemote) CreateBooking(_ context.Context, d domain.BookingDetails) (string, error) {
	s.record("create:" + d.DisplayName)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creates++
	if err := s.createErrs[s.creates]; err != nil {
		return "", err
	}
	s.nextID++
	return fmt.Sprintf("srv-%d", s.nextID), nil
}

func (s *stubRemote) ListBookings(_ context.Context, kind domain.Kind) ([]domain.BookingRecord, error) {
	s.record("list:" + string(kind))
	return s.listed[kind], nil
}

func (s *stubRemote) UpdateBooking(_ context.Context, serverID string, _ domain.BookingDetails) error {
	s.record("update:" + serverID)
	return s.updateErr
}

func (s *stubRemote) DeleteBooking(_ context.Context, kind domain.Kind, serverID string) error {
	s.record("delete:" + string(kind) + ":" + serverID)
	return s.deleteErr
}

func (s *stubRemote) ConfirmBookings(ctx context.Context, items []domain.CartItem) error {
	s.record("confirm")
	if s.onConfirm != nil {
		if err := s.onConfirm(ctx, s.creds); err != nil {
			return err
		}
	}
	if s.confirmErr != nil {
		return s.confirmErr
	}
	s.confirmed = items
	return nil
}

type testEnv struct {
	manager *Manager
	remote  *stubRemote
	store   *store.Store
}

func setupTest(t *testing.T) *testEnv {
	t.Helper()

	st, err := store.OpenInMemory(nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	remote := &stubRemote{
		grant: &gateway.SessionGrant{Identity: &domain.Identity{ID: "u1", Name: "Ann", Email: "a@x.com"}, Token: "tok1"},
	}
	m := New(remote, st, validation.New(), nil)
	require.NoError(t, m.Hydrate(context.Background()))

	return &testEnv{manager: m, remote: remote, store: st}
}

func setupLoggedIn(t *testing.T) *testEnv {
	t.Helper()
	env := setupTest(t)
	require.NoError(t, env.manager.Login(context.Background(), ann(), "tok1"))
	return env
}

func ann() *domain.Identity {
	return &domain.Identity{ID: "u1", Name: "Ann", Email: "a@x.com"}
}

func reception() domain.BookingDetails {
	return domain.BookingDetails{
		Kind:           domain.KindEvent,
		TargetRef:      "e1",
		DisplayName:    "Reception",
		RequesterName:  "Ann",
		RequesterEmail: "a@x.com",
		Date:           "2025-06-01",
		GuestCount:     50,
	}
}

func catering() domain.BookingDetails {
	return domain.BookingDetails{
		Kind:           domain.KindVendor,
		TargetRef:      "v1",
		DisplayName:    "ABC Catering",
		RequesterName:  "Ann",
		RequesterEmail: "a@x.com",
		Date:           "2025-06-01",
		GuestCount:     80,
	}
}

func (env *testEnv) load(t *testing.T) *store.Snapshot {
	t.Helper()
	snap, err := env.store.Load(context.Background())
	require.NoError(t, err)
	return snap
}
