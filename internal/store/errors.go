package store

import (
	domainerrors "github.com/weddingwise/weddingwise-client/internal/errors"
)

// Sentinel errors.
var (
	// ErrUnknownKey is returned when saving or clearing a key outside AllKeys.
	ErrUnknownKey = domainerrors.Validation("unknown session key")

	// ErrUnsupportedValue is returned when Save receives a value of the wrong type for its key.
	ErrUnsupportedValue = domainerrors.Validation("unsupported value for session key")
)
