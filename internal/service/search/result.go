package search

import "github.com/Taum/marketbot-sub000/internal/domain"

// SearchResult is one page of matching cards.
type SearchResult struct {
	Cards      []domain.DisplayCard
	Page       int
	PageSize   int
	TotalCount *int
	PageCount  *int
	Strategy   domain.TextStrategy
}
