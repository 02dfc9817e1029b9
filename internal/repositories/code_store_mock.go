package repositories

import (
	"context"
	"sync"
	"time"
)

// MockCodeStore is an in-memory implementation of CodeStore. TTLs are
// honored lazily on read.
type MockCodeStore struct {
	codes  map[string]expiringValue
	tokens map[string]expiringValue
	mu     sync.RWMutex
}

type expiringValue struct {
	value   string
	expires time.Time
}

// NewMockCodeStore creates a new instance of MockCodeStore.
func NewMockCodeStore() *MockCodeStore {
	return &MockCodeStore{
		codes:  make(map[string]expiringValue),
		tokens: make(map[string]expiringValue),
	}
}

// SaveVerificationCode stores a code for an email.
func (s *MockCodeStore) SaveVerificationCode(_ context.Context, email, code string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes[email] = expiringValue{value: code, expires: time.Now().Add(ttl)}
	return nil
}

// GetVerificationCode returns the live code for an email.
func (s *MockCodeStore) GetVerificationCode(_ context.Context, email string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ev, ok := s.codes[email]
	if !ok || time.Now().After(ev.expires) {
		return "", ErrNotFound
	}
	return ev.value, nil
}

// DeleteVerificationCode removes a consumed code.
func (s *MockCodeStore) DeleteVerificationCode(_ context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.codes, email)
	return nil
}

// SaveResetToken stores a reset token for a user.
func (s *MockCodeStore) SaveResetToken(_ context.Context, token, userID string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[token] = expiringValue{value: userID, expires: time.Now().Add(ttl)}
	return nil
}

// GetResetToken returns the user a live token was issued for.
func (s *MockCodeStore) GetResetToken(_ context.Context, token string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ev, ok := s.tokens[token]
	if !ok || time.Now().After(ev.expires) {
		return "", ErrNotFound
	}
	return ev.value, nil
}

// DeleteResetToken removes a consumed token.
func (s *MockCodeStore) DeleteResetToken(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, token)
	return nil
}
