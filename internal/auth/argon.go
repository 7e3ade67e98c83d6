package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// PasswordParams are the argon2id cost settings.
type PasswordParams struct {
	Memory      uint32 // KiB
	Iterations  uint32
	Parallelism uint8
}

// DefaultPasswordParams suit a development server on a laptop.
var DefaultPasswordParams = PasswordParams{Memory: 64 * 1024, Iterations: 3, Parallelism: 4}

const (
	saltLength = 16
	hashLength = 32

	// maxPasswordLength bounds hashing work for oversized inputs.
	maxPasswordLength = 1024
)

var errMalformedHash = errors.New("malformed password hash")

// PasswordHasher hashes and verifies passwords with argon2id.
type PasswordHasher struct {
	params PasswordParams
}

// NewPasswordHasher creates a hasher with the given cost settings.
func NewPasswordHasher(params PasswordParams) *PasswordHasher {
	return &PasswordHasher{params: params}
}

// Hash returns the argon2id hash of password in PHC string format:
//
//	$argon2id$v=19$m=65536,t=3,p=4$<salt>$<hash>
func (h *PasswordHasher) Hash(password string) (string, error) {
	switch {
	case password == "":
		return "", errors.New("password cannot be empty")
	case len(password) > maxPasswordLength:
		return "", errors.New("password exceeds maximum length")
	}

	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	p := phc{params: h.params, salt: salt}
	p.key = p.derive(password, hashLength)
	return p.String(), nil
}

// Verify checks password against encoded. Cost settings come from the hash,
// so hashes made with other settings still verify.
func (h *PasswordHasher) Verify(encoded, password string) bool {
	return VerifyPassword(encoded, password)
}

// NeedsRehash reports whether encoded was made with settings other than the
// hasher's. Malformed hashes need a rehash too.
func (h *PasswordHasher) NeedsRehash(encoded string) bool {
	p, err := parsePHC(encoded)
	return err != nil || p.params != h.params
}

// VerifyPassword verifies a password against an argon2id hash. Malformed
// hashes fail verification.
func VerifyPassword(encoded, password string) bool {
	if len(password) > maxPasswordLength {
		return false
	}
	p, err := parsePHC(encoded)
	if err != nil {
		return false
	}
	//nolint:gosec // key length comes from a decoded hash and is small
	candidate := p.derive(password, uint32(len(p.key)))
	return subtle.ConstantTimeCompare(p.key, candidate) == 1
}

// phc is a decoded argon2id hash string.
type phc struct {
	params PasswordParams
	salt   []byte
	key    []byte
}

func (p phc) derive(password string, length uint32) []byte {
	return argon2.IDKey([]byte(password), p.salt, p.params.Iterations, p.params.Memory, p.params.Parallelism, length)
}

func (p phc) String() string {
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		p.params.Memory, p.params.Iterations, p.params.Parallelism,
		base64.RawStdEncoding.EncodeToString(p.salt),
		base64.RawStdEncoding.EncodeToString(p.key),
	)
}

func parsePHC(s string) (phc, error) {
	var p phc

	rest, ok := strings.CutPrefix(s, "$argon2id$")
	if !ok {
		return p, errMalformedHash
	}
	fields := strings.Split(rest, "$")
	if len(fields) != 4 {
		return p, errMalformedHash
	}

	var version int
	if _, err := fmt.Sscanf(fields[0], "v=%d", &version); err != nil || version != argon2.Version {
		return p, fmt.Errorf("%w: version %q", errMalformedHash, fields[0])
	}
	if _, err := fmt.Sscanf(fields[1], "m=%d,t=%d,p=%d", &p.params.Memory, &p.params.Iterations, &p.params.Parallelism); err != nil {
		return p, fmt.Errorf("%w: parameters: %w", errMalformedHash, err)
	}

	var err error
	if p.salt, err = base64.RawStdEncoding.DecodeString(fields[2]); err != nil {
		return p, fmt.Errorf("%w: salt: %w", errMalformedHash, err)
	}
	if p.key, err = base64.RawStdEncoding.DecodeString(fields[3]); err != nil || len(p.key) == 0 {
		return p, fmt.Errorf("%w: key", errMalformedHash)
	}
	return p, nil
}
