package privacy

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

const saltBytes = 16

// Hasher pseudonymizes raw identifiers with a salted SHA-256 digest. The
// salt is fixed at construction and never exposed, so digests are stable
// within one instance but cannot be reversed via lookup tables.
type Hasher struct {
	salt string
}

// NewHasher generates a salt from the operating system CSPRNG.
func NewHasher() (*Hasher, error) {
	buf := make([]byte, saltBytes)
	if _, err := rand.Read(buf); err != nil {
		return nil, fmt.Errorf("failed to generate hash salt: %w", err)
	}
	return &Hasher{salt: hex.EncodeToString(buf)}, nil
}

// NewHasherWithSalt injects a salt, typically from configuration when
// digests must stay stable across service instances.
func NewHasherWithSalt(salt string) (*Hasher, error) {
	if salt == "" {
		return nil, fmt.Errorf("hash salt must not be empty")
	}
	return &Hasher{salt: salt}, nil
}

// Hash returns the hex digest of identifier combined with the instance salt.
// An empty identifier is hashed like any other string.
func (h *Hasher) Hash(identifier string) string {
	sum := sha256.Sum256([]byte(identifier + h.salt))
	return hex.EncodeToString(sum[:])
}
