// Package id generates client-side identifiers and tells them apart from server ones.
package id

import (
	"fmt"
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// LocalPrefix marks identifiers minted on this client for items the server has not seen.
const LocalPrefix = "local"

const (
	// alphabet leaves out '-' and '_' so an identifier reads as one word.
	alphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	// Size is the length of the random part of an identifier.
	Size = 16
)

// Generate returns prefix-<random>, for example "local-V1StGXR8Z5jdHi6B".
func Generate(prefix string) (string, error) {
	s, err := gonanoid.Generate(alphabet, Size)
	if err != nil {
		return "", fmt.Errorf("generate %s id: %w", prefix, err)
	}
	return prefix + "-" + s, nil
}

// NewLocal returns a fresh identifier in the local namespace.
func NewLocal() (string, error) {
	return Generate(LocalPrefix)
}

// IsLocal reports whether id belongs to the local namespace.
// The empty string is neither local nor server-assigned.
func IsLocal(id string) bool {
	return strings.HasPrefix(id, LocalPrefix+"-")
}

// IsServer reports whether id was assigned by the server.
func IsServer(id string) bool {
	return id != "" && !IsLocal(id)
}
