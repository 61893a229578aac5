package util

import (
	"crypto/rand"
	"encoding/hex"
)

// NewID returns a URL-safe random hex string, used for request IDs and
// session tokens. Domain entity IDs come from pkg/validate instead.
func NewID() string {
	var b [12]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "id-unknown"
	}
	return hex.EncodeToString(b[:])
}
