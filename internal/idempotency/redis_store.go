package idempotency

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const inFlightMarker = "in-flight"

// RedisStore keeps reservations as plain keys with a TTL.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisStore{client: client, ttl: ttl, prefix: "idem:checkout"}
}

func (s *RedisStore) redisKey(scope, key string) string {
	return fmt.Sprintf("%s:%s:%s", s.prefix, scope, key)
}

func (s *RedisStore) Reserve(ctx context.Context, scope, key string) (Reservation, error) {
	rk := s.redisKey(scope, key)

	ok, err := s.client.SetNX(ctx, rk, inFlightMarker, s.ttl).Result()
	if err != nil {
		return Reservation{}, fmt.Errorf("reserve idempotency key: %w", err)
	}
	if ok {
		return Reservation{Status: StatusNew}, nil
	}

	val, err := s.client.Get(ctx, rk).Result()
	if errors.Is(err, redis.Nil) {
		// expired between SETNX and GET
		return s.Reserve(ctx, scope, key)
	}
	if err != nil {
		return Reservation{}, fmt.Errorf("read idempotency key: %w", err)
	}
	if val == inFlightMarker {
		return Reservation{Status: StatusInFlight}, nil
	}

	id, err := strconv.ParseUint(val, 10, 64)
	if err != nil {
		return Reservation{}, fmt.Errorf("corrupt idempotency value %q: %w", val, err)
	}
	return Reservation{Status: StatusCompleted, OrderID: uint(id)}, nil
}

func (s *RedisStore) Complete(ctx context.Context, scope, key string, orderID uint) error {
	if err := s.client.Set(ctx, s.redisKey(scope, key), strconv.FormatUint(uint64(orderID), 10), s.ttl).Err(); err != nil {
		return fmt.Errorf("complete idempotency key: %w", err)
	}
	return nil
}

// releaseScript deletes the key only while it still holds the in-flight marker.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

func (s *RedisStore) Release(ctx context.Context, scope, key string) error {
	if err := releaseScript.Run(ctx, s.client, []string{s.redisKey(scope, key)}, inFlightMarker).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("release idempotency key: %w", err)
	}
	return nil
}
