// Package search validates card search requests, runs the compiled plan and
// assembles display cards with their ability lines.
package search

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/Taum/marketbot-sub000/internal/config"
	"github.com/Taum/marketbot-sub000/internal/domain"
	compiler "github.com/Taum/marketbot-sub000/internal/search"
)

type cardRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error)
	Search(ctx context.Context, plan *compiler.Plan) ([]domain.Card, *int, error)
}

type lineRepo interface {
	GetLinesByCardIDs(ctx context.Context, cardIDs []uuid.UUID) ([]domain.AbilityLine, error)
}

type facetRepo interface {
	ListFacets(ctx context.Context, kind domain.FacetKind, filter domain.FacetFilter) ([]domain.FacetUsage, error)
}

// Service implements card search and facet listing.
type Service struct {
	log    *slog.Logger
	cards  cardRepo
	lines  lineRepo
	facets facetRepo
	cfg    config.SearchConfig
}

// NewService creates a new search service.
func NewService(logger *slog.Logger, cards cardRepo, lines lineRepo, facets facetRepo, cfg config.SearchConfig) *Service {
	return &Service{
		log:    logger.With("service", "search"),
		cards:  cards,
		lines:  lines,
		facets: facets,
		cfg:    cfg,
	}
}
