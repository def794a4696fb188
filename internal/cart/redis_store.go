package cart

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	pkgerrors "github.com/SHERATONS/FISHERMEN/pkg/errors"
	"github.com/SHERATONS/FISHERMEN/pkg/redis"
)

type cartCache interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	CartKey(buyerID string) string
}

// RedisStore persists carts in Redis with a TTL so a buyer can resume a
// session after the process restarts.
type RedisStore struct {
	cache cartCache
	ttl   time.Duration
}

// NewRedisStore wraps the shared Redis client as a cart store.
func NewRedisStore(cache cartCache, ttl time.Duration) (*RedisStore, error) {
	if cache == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "redis client required")
	}
	if ttl <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "cart ttl must be positive")
	}
	return &RedisStore{cache: cache, ttl: ttl}, nil
}

func (s *RedisStore) Get(ctx context.Context, buyerID uuid.UUID) ([]Line, error) {
	raw, err := s.cache.Get(ctx, s.cache.CartKey(buyerID.String()))
	if err != nil {
		if redis.IsNil(err) {
			return []Line{}, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}

	var lines []Line
	if err := json.Unmarshal([]byte(raw), &lines); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode cart")
	}
	return lines, nil
}

func (s *RedisStore) Put(ctx context.Context, buyerID uuid.UUID, lines []Line) error {
	payload, err := json.Marshal(lines)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode cart")
	}
	if err := s.cache.Set(ctx, s.cache.CartKey(buyerID.String()), payload, s.ttl); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store cart")
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context, buyerID uuid.UUID) error {
	if err := s.cache.Del(ctx, s.cache.CartKey(buyerID.String())); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}
	return nil
}
