package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrSessionNotFound is returned when the token has no store entry, either
// because it never existed, was revoked, or its TTL elapsed.
var ErrSessionNotFound = errors.New("session not found")

const (
	keyPrefix    = "session:"
	storeTimeout = 5 * time.Second
)

// Repository is the Redis-backed session store. Expiry is enforced by the
// store itself via per-key TTL.
type Repository struct {
	redisClient *redis.Client
}

func NewRepository(redisClient *redis.Client) *Repository {
	return &Repository{redisClient: redisClient}
}

func buildKey(token string) string {
	return keyPrefix + token
}

// Set writes token -> userID with the given TTL, overwriting any existing entry.
func (r *Repository) Set(ctx context.Context, token string, userID uint, ttl time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	err := r.redisClient.Set(ctx, buildKey(token), strconv.FormatUint(uint64(userID), 10), ttl).Err()
	if err != nil {
		return fmt.Errorf("failed to write session to store: %w", err)
	}
	return nil
}

// Get returns the user id stored for token. The TTL is not refreshed on read.
func (r *Repository) Get(ctx context.Context, token string) (uint, error) {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	val, err := r.redisClient.Get(ctx, buildKey(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, ErrSessionNotFound
		}
		return 0, fmt.Errorf("failed to read session from store: %w", err)
	}

	userID, err := strconv.ParseUint(val, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed session value: %w", err)
	}
	return uint(userID), nil
}

// Delete removes the entry for token. Deleting an absent key is a no-op.
func (r *Repository) Delete(ctx context.Context, token string) error {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	if err := r.redisClient.Del(ctx, buildKey(token)).Err(); err != nil {
		return fmt.Errorf("failed to delete session from store: %w", err)
	}
	return nil
}

// Count returns the number of live session keys, used by the stats jobs.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	var count int64
	var cursor uint64
	for {
		keys, next, err := r.redisClient.Scan(ctx, cursor, keyPrefix+"*", 100).Result()
		if err != nil {
			return 0, fmt.Errorf("failed to scan session keys: %w", err)
		}
		count += int64(len(keys))
		cursor = next
		if cursor == 0 {
			return count, nil
		}
	}
}
