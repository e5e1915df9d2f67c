package search

import (
	"context"

	"github.com/google/uuid"

	"github.com/Taum/marketbot-sub000/internal/domain"
)

// ListFacets returns dictionary parts of one kind ordered by how many lines
// link them.
func (s *Service) ListFacets(ctx context.Context, in FacetsInput) ([]domain.FacetUsage, error) {
	if err := in.Validate(s.cfg); err != nil {
		return nil, err
	}

	filter := in.Filter
	switch {
	case filter.Limit == 0:
		filter.Limit = s.cfg.DefaultPageSize
	case filter.Limit > s.cfg.MaxPageSize:
		filter.Limit = s.cfg.MaxPageSize
	}

	return s.facets.ListFacets(ctx, in.Kind, filter)
}

// GetCard returns one card with its ability lines.
func (s *Service) GetCard(ctx context.Context, cardID uuid.UUID) (*domain.DisplayCard, error) {
	card, err := s.cards.GetByID(ctx, cardID)
	if err != nil {
		return nil, err
	}

	lines, err := newLinesLoader(s.lines).Load(ctx, cardID)()
	if err != nil {
		return nil, err
	}
	return &domain.DisplayCard{Card: *card, Lines: lines}, nil
}
