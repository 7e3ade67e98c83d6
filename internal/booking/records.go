package booking

import (
	"context"
	"errors"
	"slices"

	"github.com/weddingwise/weddingwise-client/internal/domain"
	domainerrors "github.com/weddingwise/weddingwise-client/internal/errors"
	"github.com/weddingwise/weddingwise-client/internal/store"
)

// SyncBookings replaces the booking records with the server's listings of
// both kinds, events first.
func (m *Manager) SyncBookings(ctx context.Context) ([]domain.BookingRecord, error) {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	gen, err := m.requireLogin("log in to see your bookings")
	if err != nil {
		return nil, err
	}

	var records []domain.BookingRecord
	for _, kind := range []domain.Kind{domain.KindEvent, domain.KindVendor} {
		listed, err := m.remote.ListBookings(ctx, kind)
		if err != nil {
			return nil, err
		}
		records = append(records, listed...)
	}
	if records == nil {
		records = []domain.BookingRecord{}
	}

	err = m.commit(gen, func() error {
		if err := m.persist(ctx, store.KeyBookings, records); err != nil {
			return err
		}
		m.bookings = records
		return nil
	})
	if err != nil {
		return nil, err
	}

	m.logger.Debug("bookings synced", "count", len(records))
	return slices.Clone(records), nil
}

// DeleteBookingRecord deletes a confirmed booking on the server and then
// locally. A booking the server no longer has is removed locally as well.
func (m *Manager) DeleteBookingRecord(ctx context.Context, serverID string) error {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	gen, err := m.requireLogin("log in to manage your bookings")
	if err != nil {
		return err
	}

	record, ok := m.bookingRecord(serverID)
	if !ok {
		return domainerrors.NotFoundf("booking %s not found", serverID)
	}

	err = m.remote.DeleteBooking(ctx, record.Kind, record.ServerID)
	if err != nil && !errors.Is(err, domainerrors.ErrNotFound) {
		return err
	}

	err = m.commit(gen, func() error {
		next := slices.DeleteFunc(slices.Clone(m.bookings), func(r domain.BookingRecord) bool {
			return r.ServerID == serverID
		})
		if err := m.persist(ctx, store.KeyBookings, next); err != nil {
			return err
		}
		m.bookings = next
		return nil
	})
	if err != nil {
		return err
	}

	m.logger.Info("booking deleted", "server_id", serverID, "kind", string(record.Kind))
	return nil
}

// UpdateBookingRecord applies patch to a confirmed booking. The record is
// replaced only after validation and the server update both succeed.
func (m *Manager) UpdateBookingRecord(ctx context.Context, serverID string, patch domain.DetailsPatch) (domain.BookingRecord, error) {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	gen, err := m.requireLogin("log in to manage your bookings")
	if err != nil {
		return domain.BookingRecord{}, err
	}

	record, ok := m.bookingRecord(serverID)
	if !ok {
		return domain.BookingRecord{}, domainerrors.NotFoundf("booking %s not found", serverID)
	}

	record.BookingDetails = patch.Apply(record.BookingDetails)
	if err := m.validate(record.BookingDetails); err != nil {
		return domain.BookingRecord{}, err
	}
	if err := m.remote.UpdateBooking(ctx, record.ServerID, record.BookingDetails); err != nil {
		return domain.BookingRecord{}, err
	}

	err = m.commit(gen, func() error {
		next := slices.Clone(m.bookings)
		i := slices.IndexFunc(next, func(r domain.BookingRecord) bool { return r.ServerID == serverID })
		if i < 0 {
			return domainerrors.NotFoundf("booking %s not found", serverID)
		}
		next[i] = record
		if err := m.persist(ctx, store.KeyBookings, next); err != nil {
			return err
		}
		m.bookings = next
		return nil
	})
	if err != nil {
		return domain.BookingRecord{}, err
	}

	m.logger.Info("booking updated", "server_id", serverID)
	return record, nil
}

func (m *Manager) bookingRecord(serverID string) (domain.BookingRecord, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	i := slices.IndexFunc(m.bookings, func(r domain.BookingRecord) bool { return r.ServerID == serverID })
	if i < 0 {
		return domain.BookingRecord{}, false
	}
	return m.bookings[i], true
}
