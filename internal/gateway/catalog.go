package gateway

import (
	"context"
	"net/http"

	"github.com/weddingwise/weddingwise-client/internal/domain"
)

// ListEvents returns the event catalog.
func (c *Client) ListEvents(ctx context.Context) ([]domain.Event, error) {
	var resp []wireEvent
	if err := c.Request(ctx, http.MethodGet, "/events", nil, &resp); err != nil {
		return nil, err
	}

	events := make([]domain.Event, 0, len(resp))
	for _, e := range resp {
		events = append(events, e.event())
	}
	return events, nil
}

// GetEvent returns one catalog event.
func (c *Client) GetEvent(ctx context.Context, id string) (*domain.Event, error) {
	var resp wireEvent
	if err := c.Request(ctx, http.MethodGet, escape("events", id), nil, &resp); err != nil {
		return nil, err
	}
	event := resp.event()
	return &event, nil
}

// ListVendors returns the vendor catalog.
func (c *Client) ListVendors(ctx context.Context) ([]domain.Vendor, error) {
	var resp []wireVendor
	if err := c.Request(ctx, http.MethodGet, "/vendors", nil, &resp); err != nil {
		return nil, err
	}

	vendors := make([]domain.Vendor, 0, len(resp))
	for _, v := range resp {
		vendors = append(vendors, v.vendor())
	}
	return vendors, nil
}

// GetVendor returns one catalog vendor.
func (c *Client) GetVendor(ctx context.Context, id string) (*domain.Vendor, error) {
	var resp wireVendor
	if err := c.Request(ctx, http.MethodGet, escape("vendors", id), nil, &resp); err != nil {
		return nil, err
	}
	vendor := resp.vendor()
	return &vendor, nil
}
