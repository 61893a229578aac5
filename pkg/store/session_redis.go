package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"librarydesk/pkg/domain"
)

const sessionKeyPrefix = "librarydesk:session:"

// RedisSessionStore keeps the authenticated staff record in Redis with TTL.
// The record is serialized through its JSON form, which strips the password
// hash, so a session entry never carries a credential.
type RedisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisSessionStore builds a Redis-backed session store.
func NewRedisSessionStore(addr, password string, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
		}),
		ttl: ttl,
	}
}

// NewSession writes the staff record under a fresh token key with TTL.
func (s *RedisSessionStore) NewSession(staff domain.Staff) (string, error) {
	payload, err := json.Marshal(staff)
	if err != nil {
		return "", err
	}
	token, err := newSessionToken()
	if err != nil {
		return "", err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := s.client.Set(ctx, sessionKeyPrefix+token, payload, s.ttl).Err(); err != nil {
		return "", err
	}
	return token, nil
}

// GetStaffByToken resolves a token to the stored staff record.
func (s *RedisSessionStore) GetStaffByToken(token string) (domain.Staff, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	raw, err := s.client.Get(ctx, sessionKeyPrefix+token).Bytes()
	if err == redis.Nil {
		return domain.Staff{}, false, nil
	}
	if err != nil {
		return domain.Staff{}, false, err
	}
	var staff domain.Staff
	if err := json.Unmarshal(raw, &staff); err != nil {
		return domain.Staff{}, false, err
	}
	return staff, true, nil
}

// DeleteSession removes a token key.
func (s *RedisSessionStore) DeleteSession(token string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := s.client.Del(ctx, sessionKeyPrefix+token).Err(); err != nil && err != redis.Nil {
		return err
	}
	return nil
}
