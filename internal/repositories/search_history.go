package repositories

import "context"

// SearchHistoryLimit bounds the per-user recent-search list.
const SearchHistoryLimit = 10

// SearchHistoryRepository keeps a small per-user list of recent search
// queries: most recent first, de-duplicated, never more than
// SearchHistoryLimit entries.
type SearchHistoryRepository interface {
	Add(ctx context.Context, userID, query string) error
	List(ctx context.Context, userID string) ([]string, error)
}
