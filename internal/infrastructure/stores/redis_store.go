package stores

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/kalindafab/eventease-auth/domain"
)

// RedisStore implements domain.SessionStore on a single Redis key. It is
// the shared store for multiple manager instances: writes are whole-record
// replacements and the last write wins. No TTL is set; expiry is enforced
// by the session manager, not the store.
type RedisStore struct {
	client *redis.Client
	key    string
}

// NewRedisStore creates a session store on the given key
func NewRedisStore(client *redis.Client, key string) *RedisStore {
	return &RedisStore{client: client, key: key}
}

// Write implements domain.SessionStore
func (s *RedisStore) Write(ctx context.Context, session *domain.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return nil
}

// Read implements domain.SessionStore. A malformed record is removed and
// reported as absent so the caller can always recover to logged-out.
func (s *RedisStore) Read(ctx context.Context) (*domain.Session, error) {
	data, err := s.client.Get(ctx, s.key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrSessionAbsent
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}

	var session domain.Session
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		s.client.Del(ctx, s.key)
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreCorrupt, err)
	}
	if session.User == nil || session.Token == "" {
		// A partial record is never a valid persisted state.
		s.client.Del(ctx, s.key)
		return nil, domain.ErrStoreCorrupt
	}
	return &session, nil
}

// Clear implements domain.SessionStore
func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return nil
}

var _ domain.SessionStore = (*RedisStore)(nil)
