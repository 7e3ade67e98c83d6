package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/dgraph-io/badger/v4"

	"github.com/weddingwise/weddingwise-client/internal/domain"
	domainerrors "github.com/weddingwise/weddingwise-client/internal/errors"
	"github.com/weddingwise/weddingwise-client/internal/id"
)

// undefinedLiteral is what a browser writes when it serialises a missing value.
var undefinedLiteral = []byte("undefined")

// Snapshot is the last persisted value of every session key.
// A nil field means the key is absent (never written, cleared, or purged as corrupted).
type Snapshot struct {
	Identity *domain.Identity
	Token    string
	Cart     []domain.CartItem
	Bookings []domain.BookingRecord
	DarkMode *bool
	Budget   []domain.BudgetItem

	// Purged lists the keys whose stored value was unreadable and has been deleted.
	Purged []Key
}

// Load reads every session key once.
//
// Values that are empty, the literal "undefined", or fail to parse are treated
// as absent and deleted. Only database failures are returned as errors.
func (s *Store) Load(_ context.Context) (*Snapshot, error) {
	snap := &Snapshot{}

	for _, key := range AllKeys {
		raw, err := s.getRaw(key.dbKey())
		if errors.Is(err, badger.ErrKeyNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", key, err)
		}

		if decodeErr := snap.decode(key, raw); decodeErr != nil {
			s.logger.Warn("purging unreadable session entry",
				"key", string(key),
				"code", string(domainerrors.CodeMalformedState),
				"error", decodeErr)
			if err := s.delete(key.dbKey()); err != nil {
				return nil, fmt.Errorf("purge %s: %w", key, err)
			}
			snap.Purged = append(snap.Purged, key)
		}
	}

	repaired, err := assignMissingCartIDs(snap.Cart)
	if err != nil {
		return nil, err
	}
	if repaired > 0 {
		s.logger.Info("assigned local identifiers to cart items", "count", repaired)
		if err := s.save(KeyCart, snap.Cart); err != nil {
			return nil, fmt.Errorf("save repaired cart: %w", err)
		}
	}

	return snap, nil
}

// decode parses raw into the snapshot field for key.
func (snap *Snapshot) decode(key Key, raw []byte) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return domainerrors.MalformedState("empty value")
	}
	if bytes.Equal(raw, undefinedLiteral) {
		return domainerrors.MalformedState("undefined value")
	}

	switch key {
	case KeyCurrentUser:
		var identity *domain.Identity
		if err := json.Unmarshal(raw, &identity); err != nil {
			return domainerrors.Wrap(err, domainerrors.CodeMalformedState, "parse identity")
		}
		snap.Identity = identity
	case KeyAuthToken:
		var token string
		if err := json.Unmarshal(raw, &token); err != nil {
			return domainerrors.Wrap(err, domainerrors.CodeMalformedState, "parse credential")
		}
		snap.Token = token
	case KeyCart:
		var cart []domain.CartItem
		if err := json.Unmarshal(raw, &cart); err != nil {
			return domainerrors.Wrap(err, domainerrors.CodeMalformedState, "parse cart")
		}
		snap.Cart = cart
	case KeyBookings:
		var bookings []domain.BookingRecord
		if err := json.Unmarshal(raw, &bookings); err != nil {
			return domainerrors.Wrap(err, domainerrors.CodeMalformedState, "parse bookings")
		}
		snap.Bookings = bookings
	case KeyDarkMode:
		on, err := strconv.ParseBool(string(raw))
		if err != nil {
			return domainerrors.Wrap(err, domainerrors.CodeMalformedState, "parse dark mode")
		}
		snap.DarkMode = &on
	case KeyBudget:
		var items []domain.BudgetItem
		if err := json.Unmarshal(raw, &items); err != nil {
			return domainerrors.Wrap(err, domainerrors.CodeMalformedState, "parse budget")
		}
		snap.Budget = items
	}
	return nil
}

// Save serialises value and overwrites whatever is stored under key.
//
// Accepted value types per key: currentUser *domain.Identity or domain.Identity,
// authToken string, cart []domain.CartItem, bookings []domain.BookingRecord,
// darkMode bool, budget []domain.BudgetItem.
func (s *Store) Save(_ context.Context, key Key, value any) error {
	if !key.Valid() {
		return ErrUnknownKey.WithDetails(string(key))
	}
	if !acceptsValue(key, value) {
		return ErrUnsupportedValue.WithDetails(fmt.Sprintf("%s: %T", key, value))
	}
	return s.save(key, value)
}

func (s *Store) save(key Key, value any) error {
	var data []byte
	if on, ok := value.(bool); ok {
		data = []byte(strconv.FormatBool(on))
	} else {
		var err error
		data, err = json.Marshal(value)
		if err != nil {
			return fmt.Errorf("failed to marshal %s: %w", key, err)
		}
	}

	if err := s.setRaw(key.dbKey(), data); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Clear removes the given keys. Clearing an absent key is not an error.
func (s *Store) Clear(_ context.Context, keys ...Key) error {
	dbKeys := make([][]byte, 0, len(keys))
	for _, key := range keys {
		if !key.Valid() {
			return ErrUnknownKey.WithDetails(string(key))
		}
		dbKeys = append(dbKeys, key.dbKey())
	}
	if err := s.delete(dbKeys...); err != nil {
		return fmt.Errorf("clear session keys: %w", err)
	}
	return nil
}

// Has reports whether a value is currently stored under key.
func (s *Store) Has(_ context.Context, key Key) (bool, error) {
	return s.exists(key.dbKey())
}

func acceptsValue(key Key, value any) bool {
	switch key {
	case KeyCurrentUser:
		switch value.(type) {
		case *domain.Identity, domain.Identity:
			return true
		}
	case KeyAuthToken:
		_, ok := value.(string)
		return ok
	case KeyCart:
		_, ok := value.([]domain.CartItem)
		return ok
	case KeyBookings:
		_, ok := value.([]domain.BookingRecord)
		return ok
	case KeyDarkMode:
		_, ok := value.(bool)
		return ok
	case KeyBudget:
		_, ok := value.([]domain.BudgetItem)
		return ok
	}
	return false
}

// assignMissingCartIDs gives every cart item without an identifier a fresh local one.
func assignMissingCartIDs(cart []domain.CartItem) (int, error) {
	repaired := 0
	for i := range cart {
		if cart[i].ID != "" {
			continue
		}
		localID, err := id.NewLocal()
		if err != nil {
			return repaired, err
		}
		cart[i].ID = localID
		repaired++
	}
	return repaired, nil
}
