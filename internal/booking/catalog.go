package booking

import (
	"context"

	"github.com/weddingwise/weddingwise-client/internal/domain"
)

// ListEvents returns the event catalog. Catalog reads do not touch session state.
func (m *Manager) ListEvents(ctx context.Context) ([]domain.Event, error) {
	return m.remote.ListEvents(ctx)
}

// GetEvent returns one catalog event.
func (m *Manager) GetEvent(ctx context.Context, id string) (*domain.Event, error) {
	return m.remote.GetEvent(ctx, id)
}

// ListVendors returns the vendor catalog.
func (m *Manager) ListVendors(ctx context.Context) ([]domain.Vendor, error) {
	return m.remote.ListVendors(ctx)
}

// GetVendor returns one catalog vendor.
func (m *Manager) GetVendor(ctx context.Context, id string) (*domain.Vendor, error) {
	return m.remote.GetVendor(ctx, id)
}
