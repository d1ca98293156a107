// Package session issues, resolves and revokes opaque session tokens backed
// by Redis. A session has exactly two states: it exists until revocation or
// TTL expiry, then it is gone.
package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultTTL is the fixed session lifetime. Expiry is absolute from creation;
// reads do not extend it.
const DefaultTTL = 24 * time.Hour

const tokenBytes = 32

type Service struct {
	repo *Repository
	ttl  time.Duration
}

func NewService(redisClient *redis.Client, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Service{repo: NewRepository(redisClient), ttl: ttl}
}

// TTL returns the session lifetime, which is also the cookie Max-Age.
func (s *Service) TTL() time.Duration {
	return s.ttl
}

// Create generates a fresh unguessable token and stores it against userID.
// A store write failure is a hard error: no token means no session, and the
// caller must not issue a cookie.
func (s *Service) Create(ctx context.Context, userID uint) (string, error) {
	token, err := generateToken()
	if err != nil {
		return "", err
	}
	if err := s.repo.Set(ctx, token, userID, s.ttl); err != nil {
		return "", err
	}
	return token, nil
}

// Resolve maps a token to the user id it was issued for. Missing, revoked and
// expired tokens all return ErrSessionNotFound.
func (s *Service) Resolve(ctx context.Context, token string) (uint, error) {
	return s.repo.Get(ctx, token)
}

// Revoke deletes the session. Idempotent: revoking an absent token succeeds.
func (s *Service) Revoke(ctx context.Context, token string) error {
	return s.repo.Delete(ctx, token)
}

// Count returns the number of currently active sessions.
func (s *Service) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

// generateToken draws 32 bytes (256 bits) from the system CSPRNG, encoded
// URL-safe without padding.
func generateToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
