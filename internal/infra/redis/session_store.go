package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"kuisin/internal/domain"
)

// SessionStore keeps admin sessions in Redis so every instance sees a logout.
//
//	SET admin:session:{sessionID} {adminID} EX ttl
type SessionStore struct {
	client *redis.Client
}

func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client}
}

func (s *SessionStore) Create(ctx context.Context, sessionID, adminID string, ttl time.Duration) error {
	return s.client.Set(ctx, s.key(sessionID), adminID, ttl).Err()
}

func (s *SessionStore) Lookup(ctx context.Context, sessionID string) (string, error) {
	adminID, err := s.client.Get(ctx, s.key(sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", domain.ErrSessionNotFound
	}
	if err != nil {
		return "", err
	}
	return adminID, nil
}

func (s *SessionStore) Revoke(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, s.key(sessionID)).Err()
}

func (s *SessionStore) key(sessionID string) string {
	return "admin:session:" + sessionID
}
