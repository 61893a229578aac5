package store

import (
	"crypto/rand"
	"encoding/hex"
)

// newSessionToken returns a random hex token for session keys.
func newSessionToken() (string, error) {
	var b [12]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	return hex.EncodeToString(b[:]), nil
}
