package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/agiseventos/agenda/internal/auth"
)

const keyPrefix = "session:"

type redisCommander interface {
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Scan(ctx context.Context, cursor uint64, match string, count int64) *redis.ScanCmd
	Ping(ctx context.Context) *redis.StatusCmd
}

// RedisStore guarda sessões como JSON em chaves session:<hash>.
type RedisStore struct {
	redis redisCommander
	ttl   time.Duration
	now   func() time.Time
}

// NewRedisStore cria store sobre o cliente informado; ttl zero desativa a expiração.
func NewRedisStore(client redisCommander, ttl time.Duration) *RedisStore {
	return &RedisStore{redis: client, ttl: ttl, now: time.Now}
}

func redisKey(hash string) string {
	return keyPrefix + hash
}

func (s *RedisStore) Create(ctx context.Context, userID int64) (string, Session, error) {
	raw, hash, sess, err := newSession(userID, s.now().UTC())
	if err != nil {
		return "", Session{}, err
	}

	payload, err := json.Marshal(sess)
	if err != nil {
		return "", Session{}, err
	}
	if err := s.redis.Set(ctx, redisKey(hash), payload, s.ttl).Err(); err != nil {
		return "", Session{}, fmt.Errorf("redis set: %w", err)
	}
	return raw, sess, nil
}

func (s *RedisStore) Get(ctx context.Context, token string) (Session, error) {
	val, err := s.redis.Get(ctx, redisKey(auth.HashToken(token))).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Session{}, ErrNotFound
		}
		return Session{}, fmt.Errorf("redis get: %w", err)
	}

	var sess Session
	if err := json.Unmarshal([]byte(val), &sess); err != nil {
		return Session{}, ErrNotFound
	}
	return sess, nil
}

func (s *RedisStore) Delete(ctx context.Context, token string) error {
	return s.redis.Del(ctx, redisKey(auth.HashToken(token))).Err()
}

func (s *RedisStore) Clear(ctx context.Context) error {
	var cursor uint64
	for {
		keys, next, err := s.redis.Scan(ctx, cursor, keyPrefix+"*", 100).Result()
		if err != nil {
			return fmt.Errorf("redis scan: %w", err)
		}
		if len(keys) > 0 {
			if err := s.redis.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("redis del: %w", err)
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.redis.Ping(ctx).Err()
}
