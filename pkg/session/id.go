package session

import (
	"crypto/rand"
	"encoding/base64"

	"github.com/google/uuid"
)

// idEntropy is the number of random bytes behind every generated id.
const idEntropy = 24

// IDGenerator produces session ids. It must be safe for concurrent use.
type IDGenerator func() string

// GenerateID returns a URL-safe, unpadded base64 encoding of 24 bytes read from
// crypto/rand.
func GenerateID() string {
	b := make([]byte, idEntropy)
	// crypto/rand.Read never returns an error since Go 1.24; it crashes the program instead.
	_, _ = rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}

// UUIDGenerator returns random (version 4) UUID strings.
func UUIDGenerator() string {
	return uuid.NewString()
}
