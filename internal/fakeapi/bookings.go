package fakeapi

import (
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/weddingwise/weddingwise-client/internal/domain"
	"github.com/weddingwise/weddingwise-client/internal/http/response"
)

type bookingRequest struct {
	EventTitle string `json:"eventTitle"`
	VendorName string `json:"vendorName"`
	Event      string `json:"event"`
	Vendor     string `json:"vendor"`
	Name       string `json:"name" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Date       string `json:"date" validate:"required"`
	Guests     int    `json:"guests" validate:"gte=1"`
}

type confirmRequest struct {
	BookedEvents  []confirmItem `json:"bookedEvents"`
	BookedVendors []confirmItem `json:"bookedVendors"`
}

type confirmItem struct {
	ID string `json:"_id"`
}

// apply copies the request into b. It writes a 400 and returns false when
// the request is incomplete.
func (s *Server) apply(w http.ResponseWriter, req bookingRequest, kind domain.Kind, b *booking) bool {
	date, err := parseDate(req.Date)
	if err != nil {
		response.BadRequest(w, "Invalid date", s.logger)
		return false
	}

	target, title := req.Event, req.EventTitle
	if kind == domain.KindVendor {
		target, title = req.Vendor, req.VendorName
	}
	if title == "" && target != "" {
		title = s.catalogTitle(kind, target)
	}
	if strings.TrimSpace(title) == "" {
		response.BadRequest(w, "Please provide all required fields", s.logger)
		return false
	}

	b.Target = target
	b.Title = title
	b.Name = req.Name
	b.Email = req.Email
	b.Date = date
	b.Guests = req.Guests
	return true
}

func (s *Server) handleBook(kind domain.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req bookingRequest
		if !s.decodeJSON(w, r, &req) {
			return
		}

		b := &booking{
			ID:        uuid.NewString(),
			UserID:    getUserID(r.Context()),
			Kind:      kind,
			Status:    statusPending,
			CreatedAt: s.now(),
		}
		if !s.apply(w, req, kind, b) {
			return
		}

		s.mu.Lock()
		s.bookings[b.ID] = b
		s.order = append(s.order, b.ID)
		doc := b.doc()
		s.mu.Unlock()

		s.logger.Debug("booking created", "booking_id", b.ID, "kind", string(kind))
		response.Created(w, doc, s.logger)
	}
}

// handleListBookings returns the caller's confirmed bookings of one kind,
// oldest first.
func (s *Server) handleListBookings(kind domain.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := getUserID(r.Context())

		s.mu.Lock()
		docs := make([]bookingDoc, 0)
		for _, id := range s.order {
			b, ok := s.ownedBookingLocked(id, userID, kind)
			if ok && b.Status == statusConfirmed {
				docs = append(docs, b.doc())
			}
		}
		s.mu.Unlock()

		response.Success(w, docs, s.logger)
	}
}

func (s *Server) handleUpdateBooking(kind domain.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req bookingRequest
		if !s.decodeJSON(w, r, &req) {
			return
		}
		id := chi.URLParam(r, "id")

		s.mu.Lock()
		defer s.mu.Unlock()

		b, ok := s.ownedBookingLocked(id, getUserID(r.Context()), kind)
		if !ok {
			response.NotFound(w, "Booking not found", s.logger)
			return
		}

		updated := *b
		if !s.apply(w, req, kind, &updated) {
			return
		}
		*b = updated

		response.Success(w, b.doc(), s.logger)
	}
}

func (s *Server) handleDeleteBooking(kind domain.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		s.mu.Lock()
		defer s.mu.Unlock()

		if _, ok := s.ownedBookingLocked(id, getUserID(r.Context()), kind); !ok {
			response.NotFound(w, "Booking not found", s.logger)
			return
		}
		delete(s.bookings, id)
		s.order = slices.DeleteFunc(s.order, func(o string) bool { return o == id })

		response.Message(w, http.StatusOK, "Booking deleted", s.logger)
	}
}

// handleConfirm confirms every listed booking and emails a summary. Either
// all bookings are confirmed or none are.
func (s *Server) handleConfirm(w http.ResponseWriter, r *http.Request) {
	var req confirmRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	if len(req.BookedEvents)+len(req.BookedVendors) == 0 {
		response.BadRequest(w, "No bookings to confirm", s.logger)
		return
	}
	userID := getUserID(r.Context())

	s.mu.Lock()
	defer s.mu.Unlock()

	var confirmed []*booking
	for _, group := range []struct {
		kind  domain.Kind
		items []confirmItem
	}{
		{domain.KindEvent, req.BookedEvents},
		{domain.KindVendor, req.BookedVendors},
	} {
		for _, item := range group.items {
			b, ok := s.ownedBookingLocked(item.ID, userID, group.kind)
			if !ok {
				response.NotFound(w, fmt.Sprintf("Booking %s not found", item.ID), s.logger)
				return
			}
			confirmed = append(confirmed, b)
		}
	}

	u := s.users[userID]
	var body strings.Builder
	ids := make([]string, 0, len(confirmed))
	for _, b := range confirmed {
		b.Status = statusConfirmed
		ids = append(ids, b.ID)
		fmt.Fprintf(&body, "%s on %s for %d guests\n", b.Title, b.Date.Format(time.DateOnly), b.Guests)
	}
	s.outbox = append(s.outbox, Email{
		To:       u.Email,
		Subject:  "Your WeddingWise booking confirmation",
		Body:     body.String(),
		Bookings: ids,
	})

	s.logger.Info("bookings confirmed", "user_id", userID, "count", len(ids))
	response.Message(w, http.StatusOK, "Booking confirmed and email sent", s.logger)
}

// parseDate accepts YYYY-MM-DD or an RFC 3339 timestamp.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
}
