package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCodeStore keeps verification codes and reset tokens in Redis with a
// TTL so they clean themselves up.
type RedisCodeStore struct {
	rdb *redis.Client
}

// NewRedisCodeStore creates a new RedisCodeStore.
func NewRedisCodeStore(rdb *redis.Client) *RedisCodeStore {
	return &RedisCodeStore{rdb: rdb}
}

func verificationKey(email string) string { return "verify:" + email }
func resetKey(token string) string        { return "reset:" + token }

// SaveVerificationCode stores the 6-digit code for an email, replacing any
// earlier code (resend invalidates the old one).
func (s *RedisCodeStore) SaveVerificationCode(ctx context.Context, email, code string, ttl time.Duration) error {
	if err := s.rdb.Set(ctx, verificationKey(email), code, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save verification code: %w", err)
	}
	return nil
}

// GetVerificationCode returns ErrNotFound for unknown or expired codes.
func (s *RedisCodeStore) GetVerificationCode(ctx context.Context, email string) (string, error) {
	code, err := s.rdb.Get(ctx, verificationKey(email)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get verification code: %w", err)
	}
	return code, nil
}

// DeleteVerificationCode removes a consumed code.
func (s *RedisCodeStore) DeleteVerificationCode(ctx context.Context, email string) error {
	if err := s.rdb.Del(ctx, verificationKey(email)).Err(); err != nil {
		return fmt.Errorf("failed to delete verification code: %w", err)
	}
	return nil
}

// SaveResetToken maps an opaque reset token to the user it was issued for.
func (s *RedisCodeStore) SaveResetToken(ctx context.Context, token, userID string, ttl time.Duration) error {
	if err := s.rdb.Set(ctx, resetKey(token), userID, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save reset token: %w", err)
	}
	return nil
}

// GetResetToken returns the user id a token was issued for, ErrNotFound for
// unknown or expired tokens.
func (s *RedisCodeStore) GetResetToken(ctx context.Context, token string) (string, error) {
	userID, err := s.rdb.Get(ctx, resetKey(token)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get reset token: %w", err)
	}
	return userID, nil
}

// DeleteResetToken removes a consumed token.
func (s *RedisCodeStore) DeleteResetToken(ctx context.Context, token string) error {
	if err := s.rdb.Del(ctx, resetKey(token)).Err(); err != nil {
		return fmt.Errorf("failed to delete reset token: %w", err)
	}
	return nil
}
