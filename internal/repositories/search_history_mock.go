package repositories

import (
	"context"
	"sync"
)

// MockSearchHistory is an in-memory implementation of SearchHistoryRepository.
type MockSearchHistory struct {
	entries map[string][]string // keyed by user id, most recent first
	mu      sync.RWMutex
}

// NewMockSearchHistory creates a new instance of MockSearchHistory.
func NewMockSearchHistory() *MockSearchHistory {
	return &MockSearchHistory{entries: make(map[string][]string)}
}

// Add records a query at the front, dropping any earlier occurrence and
// trimming to SearchHistoryLimit.
func (s *MockSearchHistory) Add(_ context.Context, userID, query string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.entries[userID]
	next := make([]string, 0, len(current)+1)
	next = append(next, query)
	for _, q := range current {
		if q != query {
			next = append(next, q)
		}
	}
	if len(next) > SearchHistoryLimit {
		next = next[:SearchHistoryLimit]
	}
	s.entries[userID] = next
	return nil
}

// List returns the user's recent searches, most recent first.
func (s *MockSearchHistory) List(_ context.Context, userID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, len(s.entries[userID]))
	copy(out, s.entries[userID])
	return out, nil
}
