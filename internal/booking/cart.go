package booking

import (
	"context"
	"errors"
	"slices"

	"github.com/weddingwise/weddingwise-client/internal/domain"
	domainerrors "github.com/weddingwise/weddingwise-client/internal/errors"
	"github.com/weddingwise/weddingwise-client/internal/id"
	"github.com/weddingwise/weddingwise-client/internal/store"
)

// AddToCart validates d and appends it to the cart under a new local identifier.
// Invalid input leaves the cart unchanged and names every offending field.
func (m *Manager) AddToCart(ctx context.Context, d domain.BookingDetails) (domain.CartItem, error) {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	gen, err := m.begin()
	if err != nil {
		return domain.CartItem{}, err
	}
	if err := m.validate(d); err != nil {
		return domain.CartItem{}, err
	}

	localID, err := id.NewLocal()
	if err != nil {
		return domain.CartItem{}, domainerrors.Wrap(err, domainerrors.CodeInternal, "generate cart item id")
	}
	item := domain.CartItem{ID: localID, BookingDetails: d}

	err = m.commit(gen, func() error {
		next := append(slices.Clone(m.cart), item)
		if err := m.persist(ctx, store.KeyCart, next); err != nil {
			return err
		}
		m.cart = next
		return nil
	})
	if err != nil {
		return domain.CartItem{}, err
	}

	m.logger.Debug("added to cart", "item_id", item.ID, "kind", string(item.Kind))
	return item, nil
}

// RemoveFromCart removes the item with the given identifier. An absent item
// is a no-op. Items the server already knows are deleted there first; a
// booking the server no longer has is removed locally all the same.
func (m *Manager) RemoveFromCart(ctx context.Context, itemID string) error {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	gen, err := m.begin()
	if err != nil {
		return err
	}

	item, ok := m.cartItem(itemID)
	if !ok {
		return nil
	}

	if id.IsServer(item.ID) {
		err := m.remote.DeleteBooking(ctx, item.Kind, item.ID)
		if err != nil && !errors.Is(err, domainerrors.ErrNotFound) {
			return err
		}
	}

	err = m.commit(gen, func() error {
		next := slices.DeleteFunc(slices.Clone(m.cart), func(c domain.CartItem) bool {
			return c.ID == itemID
		})
		if err := m.persist(ctx, store.KeyCart, next); err != nil {
			return err
		}
		m.cart = next
		return nil
	})
	if err != nil {
		return err
	}

	m.logger.Debug("removed from cart", "item_id", itemID)
	return nil
}

// UpdateCartItem applies patch to a cart item. The patched item must still
// pass validation; on failure the item is left as it was. Items the server
// already knows are updated there first.
func (m *Manager) UpdateCartItem(ctx context.Context, itemID string, patch domain.DetailsPatch) (domain.CartItem, error) {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	gen, err := m.begin()
	if err != nil {
		return domain.CartItem{}, err
	}

	item, ok := m.cartItem(itemID)
	if !ok {
		return domain.CartItem{}, domainerrors.NotFoundf("cart item %s not found", itemID)
	}

	item.BookingDetails = patch.Apply(item.BookingDetails)
	if err := m.validate(item.BookingDetails); err != nil {
		return domain.CartItem{}, err
	}

	if id.IsServer(item.ID) {
		if err := m.remote.UpdateBooking(ctx, item.ID, item.BookingDetails); err != nil {
			return domain.CartItem{}, err
		}
	}

	err = m.commit(gen, func() error {
		next := slices.Clone(m.cart)
		i := slices.IndexFunc(next, func(c domain.CartItem) bool { return c.ID == itemID })
		if i < 0 {
			return domainerrors.NotFoundf("cart item %s not found", itemID)
		}
		next[i] = item
		if err := m.persist(ctx, store.KeyCart, next); err != nil {
			return err
		}
		m.cart = next
		return nil
	})
	if err != nil {
		return domain.CartItem{}, err
	}
	return item, nil
}

// ConfirmBookings sends the whole cart to the server.
//
// Local items are created on the server one by one in cart order, then a
// single confirmation call covers every item. On success the items become
// booking records and the cart is emptied.
//
// A failed confirmation is not fully side-effect free: items that already
// obtained a server identifier keep it, replacing their local identifier, so
// a retry does not create them twice. Every other field and the cart order
// stay unchanged. After SESSION_EXPIRED nothing is written, since the
// session has been cleared.
func (m *Manager) ConfirmBookings(ctx context.Context) ([]domain.BookingRecord, error) {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	gen, err := m.begin()
	if err != nil {
		return nil, err
	}

	original := m.Cart()
	if len(original) == 0 {
		return nil, domainerrors.NothingToConfirm("nothing to confirm")
	}
	if m.State() != domain.StateLoggedIn || m.Token() == "" {
		return nil, domainerrors.Unauthorized("log in to confirm your bookings")
	}

	cart := slices.Clone(original)

	for i := range cart {
		if !id.IsLocal(cart[i].ID) {
			continue
		}
		serverID, err := m.remote.CreateBooking(ctx, cart[i].BookingDetails)
		if err != nil {
			m.logger.Warn("create booking failed", "item_id", cart[i].ID, "error", err)
			return nil, m.keepServerIDs(ctx, gen, original, cart, err)
		}
		m.logger.Debug("booking created", "item_id", cart[i].ID, "server_id", serverID)
		cart[i].ID = serverID
	}

	if err := m.remote.ConfirmBookings(ctx, cart); err != nil {
		m.logger.Warn("confirm bookings failed", "items", len(cart), "error", err)
		return nil, m.keepServerIDs(ctx, gen, original, cart, err)
	}

	records := make([]domain.BookingRecord, 0, len(cart))
	for _, item := range cart {
		records = append(records, domain.BookingRecord{ServerID: item.ID, BookingDetails: item.BookingDetails})
	}

	err = m.commit(gen, func() error {
		next := append(slices.Clone(m.bookings), records...)
		if err := m.persist(ctx, store.KeyBookings, next); err != nil {
			return err
		}
		if err := m.persist(ctx, store.KeyCart, []domain.CartItem{}); err != nil {
			return err
		}
		m.bookings = next
		m.cart = []domain.CartItem{}
		return nil
	})
	if err != nil {
		return nil, err
	}

	m.logger.Info("bookings confirmed", "count", len(records))
	return records, nil
}

// keepServerIDs records the server identifiers obtained before cause and
// returns cause. A session that expired meanwhile is left cleared.
func (m *Manager) keepServerIDs(ctx context.Context, gen uint64, original, progressed []domain.CartItem, cause error) error {
	if errors.Is(cause, domainerrors.ErrSessionExpired) {
		return cause
	}

	assigned := make(map[string]string)
	for i := range original {
		if original[i].ID != progressed[i].ID {
			assigned[original[i].ID] = progressed[i].ID
		}
	}
	if len(assigned) == 0 {
		return cause
	}

	err := m.commit(gen, func() error {
		next := slices.Clone(m.cart)
		for i := range next {
			if serverID, ok := assigned[next[i].ID]; ok {
				next[i].ID = serverID
			}
		}
		if err := m.persist(ctx, store.KeyCart, next); err != nil {
			return err
		}
		m.cart = next
		return nil
	})
	if err != nil {
		m.logger.Warn("failed to keep server identifiers", "error", err)
	}
	return cause
}

// cartItem returns a copy of the cart item with the given identifier.
func (m *Manager) cartItem(itemID string) (domain.CartItem, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	i := slices.IndexFunc(m.cart, func(c domain.CartItem) bool { return c.ID == itemID })
	if i < 0 {
		return domain.CartItem{}, false
	}
	return m.cart[i], true
}
