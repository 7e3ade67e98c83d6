// Package auth issues and checks the credentials of the development API:
// PASETO v4.local access tokens and argon2id password hashes.
package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// keyLength is the size of a PASETO v4 symmetric key.
const keyLength = 32

// KeyFileName is the file LoadOrGenerateKey keeps the key in.
const KeyFileName = "token.key"

// GenerateKey returns a fresh random token key.
func GenerateKey() ([]byte, error) {
	key := make([]byte, keyLength)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("generate token key: %w", err)
	}
	return key, nil
}

// LoadOrGenerateKey returns the hex-encoded key stored in dir, creating it
// when missing, so credentials issued before a restart stay valid.
func LoadOrGenerateKey(dir string) ([]byte, error) {
	path := filepath.Join(dir, KeyFileName)

	key, err := readKey(path)
	if err == nil {
		return key, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	if key, err = GenerateKey(); err != nil {
		return nil, err
	}
	if err := writeKey(path, key); err != nil {
		return nil, err
	}
	return key, nil
}

func readKey(path string) ([]byte, error) {
	//#nosec G304 -- path is built from the configured key directory
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	text := strings.TrimSpace(string(data))
	key, err := hex.DecodeString(text)
	if err != nil {
		return nil, fmt.Errorf("token key %s is not hex: %w", path, err)
	}
	if len(key) != keyLength {
		return nil, fmt.Errorf("token key %s has %d bytes, want %d", path, len(key), keyLength)
	}
	return key, nil
}

// writeKey writes through a temporary file so a crash never leaves a
// truncated key behind.
func writeKey(path string, key []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create key directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, KeyFileName+".*")
	if err != nil {
		return fmt.Errorf("save token key: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(hex.EncodeToString(key) + "\n"); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("save token key: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("save token key: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("save token key: %w", err)
	}
	return nil
}
