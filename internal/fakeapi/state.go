package fakeapi

import (
	"encoding/json"
	"net/http"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/weddingwise/weddingwise-client/internal/domain"
	domainerrors "github.com/weddingwise/weddingwise-client/internal/errors"
	"github.com/weddingwise/weddingwise-client/internal/http/response"
)

const maxBodyBytes = 1 << 20

// SeedUser registers an account directly, bypassing the HTTP surface.
func (s *Server) SeedUser(name, email, password string) (domain.Identity, error) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return domain.Identity{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.userByEmailLocked(email); ok {
		return domain.Identity{}, domainerrors.Conflict("User already exists")
	}
	u := &user{ID: uuid.NewString(), Name: name, Email: normalizeEmail(email), PasswordHash: hash}
	s.users[u.ID] = u
	return domain.Identity{ID: u.ID, Name: u.Name, Email: u.Email}, nil
}

// IssueToken returns a credential for a seeded user.
func (s *Server) IssueToken(identity domain.Identity) (string, error) {
	return s.tokens.GenerateAccessToken(identity)
}

// Outbox returns the emails the server has sent.
func (s *Server) Outbox() []Email {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.outbox)
}

// Contacts returns the contact messages received.
func (s *Server) Contacts() []ContactMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.contacts)
}

// BookingStatus reports the status of a booking, or "" if it does not exist.
func (s *Server) BookingStatus(id string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b, ok := s.bookings[id]; ok {
		return b.Status
	}
	return ""
}

// BookingCount returns how many bookings of any status the server holds.
func (s *Server) BookingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.bookings)
}

func (s *Server) lookupUser(id string) (user, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return user{}, false
	}
	return *u, true
}

func (s *Server) userByEmailLocked(email string) (*user, bool) {
	email = normalizeEmail(email)
	for _, u := range s.users {
		if u.Email == email {
			return u, true
		}
	}
	return nil, false
}

// ownedBookingLocked returns the booking if it belongs to userID and has the given kind.
func (s *Server) ownedBookingLocked(id, userID string, kind domain.Kind) (*booking, bool) {
	b, ok := s.bookings[id]
	if !ok || b.UserID != userID || b.Kind != kind {
		return nil, false
	}
	return b, true
}

func (s *Server) catalogTitle(kind domain.Kind, ref string) string {
	docs := s.events
	if kind == domain.KindVendor {
		docs = s.vendors
	}
	for _, d := range docs {
		if d.ID == ref {
			if kind == domain.KindVendor {
				return d.Name
			}
			return d.Title
		}
	}
	return ""
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// decodeJSON reads the request body into dst and validates it. It writes the
// error response itself and reports whether the handler should continue.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		s.logger.Debug("invalid request body", "path", r.URL.Path, "error", err)
		response.HandleError(w, domainerrors.Validation("Invalid request body"), s.logger)
		return false
	}
	if err := s.validator.Validate(dst); err != nil {
		response.HandleError(w, err, s.logger)
		return false
	}
	return true
}
