package store

import (
	"encoding/json"
	"sync"
	"time"

	"librarydesk/pkg/domain"
)

// MemorySessionStore keeps sessions in-process. Used for development and
// tests; the record round-trips through JSON so the credential is stripped
// the same way the Redis store strips it.
type MemorySessionStore struct {
	mu      sync.RWMutex
	entries map[string]memorySession
	ttl     time.Duration
}

type memorySession struct {
	payload []byte
	expires time.Time
}

// NewMemorySessionStore initializes an empty session store.
func NewMemorySessionStore(ttl time.Duration) *MemorySessionStore {
	return &MemorySessionStore{
		entries: make(map[string]memorySession),
		ttl:     ttl,
	}
}

// NewSession stores the staff record under a fresh token.
func (s *MemorySessionStore) NewSession(staff domain.Staff) (string, error) {
	payload, err := json.Marshal(staff)
	if err != nil {
		return "", err
	}
	token, err := newSessionToken()
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[token] = memorySession{
		payload: payload,
		expires: time.Now().Add(s.ttl),
	}
	return token, nil
}

// GetStaffByToken resolves a token to the stored staff record.
func (s *MemorySessionStore) GetStaffByToken(token string) (domain.Staff, bool, error) {
	s.mu.RLock()
	entry, ok := s.entries[token]
	s.mu.RUnlock()
	if !ok || time.Now().After(entry.expires) {
		return domain.Staff{}, false, nil
	}
	var staff domain.Staff
	if err := json.Unmarshal(entry.payload, &staff); err != nil {
		return domain.Staff{}, false, err
	}
	return staff, true, nil
}

// DeleteSession removes a token.
func (s *MemorySessionStore) DeleteSession(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, token)
	return nil
}
