package gateway

import (
	"context"
	"net/http"

	"github.com/weddingwise/weddingwise-client/internal/domain"
	domainerrors "github.com/weddingwise/weddingwise-client/internal/errors"
)

// collection returns the path segment for a booking kind.
func collection(kind domain.Kind) string {
	if kind == domain.KindVendor {
		return "vendors"
	}
	return "events"
}

// CreateBooking creates a pending booking on the server and returns its identifier.
func (c *Client) CreateBooking(ctx context.Context, d domain.BookingDetails) (string, error) {
	var resp WireBooking
	if err := c.Request(ctx, http.MethodPost, escape(collection(d.Kind), "book"), bookingToWire("", d), &resp); err != nil {
		return "", err
	}
	if resp.ID == "" {
		return "", domainerrors.RemoteFailure("server returned no booking identifier")
	}
	return resp.ID, nil
}

// ListBookings returns the confirmed bookings of one kind for the signed-in user.
func (c *Client) ListBookings(ctx context.Context, kind domain.Kind) ([]domain.BookingRecord, error) {
	var resp []WireBooking
	if err := c.Request(ctx, http.MethodGet, escape(collection(kind), "bookings"), nil, &resp); err != nil {
		return nil, err
	}

	records := make([]domain.BookingRecord, 0, len(resp))
	for _, b := range resp {
		records = append(records, b.record(kind))
	}
	return records, nil
}

// UpdateBooking replaces the fields of a server booking.
func (c *Client) UpdateBooking(ctx context.Context, serverID string, d domain.BookingDetails) error {
	path := escape(collection(d.Kind), "bookings", serverID)
	return c.Request(ctx, http.MethodPut, path, bookingToWire("", d), nil)
}

// DeleteBooking removes a server booking.
func (c *Client) DeleteBooking(ctx context.Context, kind domain.Kind, serverID string) error {
	return c.Request(ctx, http.MethodDelete, escape(collection(kind), "bookings", serverID), nil, nil)
}

// ConfirmRequest is the body of the confirmation call.
type ConfirmRequest struct {
	BookedEvents  []WireBooking `json:"bookedEvents"`
	BookedVendors []WireBooking `json:"bookedVendors"`
}

// ConfirmBookings finalises every item at once. All items must already carry
// server identifiers. The server sends the confirmation email.
func (c *Client) ConfirmBookings(ctx context.Context, items []domain.CartItem) error {
	req := ConfirmRequest{
		BookedEvents:  []WireBooking{},
		BookedVendors: []WireBooking{},
	}
	for _, item := range items {
		w := bookingToWire(item.ID, item.BookingDetails)
		if item.Kind == domain.KindVendor {
			req.BookedVendors = append(req.BookedVendors, w)
		} else {
			req.BookedEvents = append(req.BookedEvents, w)
		}
	}

	return c.Request(ctx, http.MethodPost, "/bookings/confirm-booking", req, nil)
}
