package search

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/Taum/marketbot-sub000/internal/domain"
	compiler "github.com/Taum/marketbot-sub000/internal/search"
)

// Search validates the input, compiles it and returns one page of matching
// cards with their ability lines. Invalid input returns a ValidationError
// before anything is executed.
func (s *Service) Search(ctx context.Context, in SearchInput) (*SearchResult, error) {
	if err := in.Validate(s.cfg); err != nil {
		return nil, err
	}

	page := s.normalizePage(in.Page)
	plan, err := compiler.Compile(in.Query, page, s.cfg.CompileOptions())
	if err != nil {
		return nil, err
	}

	cards, total, err := s.cards.Search(ctx, plan)
	if err != nil {
		return nil, fmt.Errorf("search cards: %w", err)
	}

	ids := make([]uuid.UUID, len(cards))
	for i, c := range cards {
		ids[i] = c.ID
	}
	lines, err := s.loadLines(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load ability lines: %w", err)
	}

	result := &SearchResult{
		Cards:      make([]domain.DisplayCard, len(cards)),
		Page:       page.Number,
		PageSize:   page.Size,
		TotalCount: total,
		Strategy:   plan.Strategy(),
	}
	for i, c := range cards {
		result.Cards[i] = domain.DisplayCard{Card: c, Lines: lines[i]}
	}
	if total != nil {
		pages := (*total + page.Size - 1) / page.Size
		result.PageCount = &pages
	}

	s.log.DebugContext(ctx, "card search",
		slog.Int("combinations", len(plan.Combinations)),
		slog.String("strategy", plan.Strategy().String()),
		slog.Int("page", page.Number),
		slog.Int("results", len(cards)),
	)
	return result, nil
}

// normalizePage applies the default page size and clamps it to the maximum.
func (s *Service) normalizePage(p domain.PageRequest) domain.PageRequest {
	switch {
	case p.Size == 0:
		p.Size = s.cfg.DefaultPageSize
	case p.Size > s.cfg.MaxPageSize:
		p.Size = s.cfg.MaxPageSize
	}
	return p
}
