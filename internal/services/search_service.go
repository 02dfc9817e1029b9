package services

import (
	"context"
	"fmt"
	"strings"

	"buckeyeborrow/internal/repositories"
)

// SearchService records and serves a user's recent catalog searches.
type SearchService struct {
	historyRepo repositories.SearchHistoryRepository
}

// NewSearchService creates a new SearchService.
func NewSearchService(historyRepo repositories.SearchHistoryRepository) *SearchService {
	return &SearchService{historyRepo: historyRepo}
}

// Record saves a search query. Blank queries are ignored without error.
func (s *SearchService) Record(ctx context.Context, userID, query string) error {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}
	if err := s.historyRepo.Add(ctx, userID, query); err != nil {
		return fmt.Errorf("failed to record search: %w", err)
	}
	return nil
}

// Recent returns the user's recent searches, most recent first.
func (s *SearchService) Recent(ctx context.Context, userID string) ([]string, error) {
	history, err := s.historyRepo.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list search history: %w", err)
	}
	if history == nil {
		history = []string{}
	}
	return history, nil
}
