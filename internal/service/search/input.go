package search

import (
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/Taum/marketbot-sub000/internal/config"
	"github.com/Taum/marketbot-sub000/internal/domain"
)

// SearchInput holds the parameters of a card search.
type SearchInput struct {
	Query domain.SearchQuery
	Page  domain.PageRequest
}

// Validate checks all fields and collects all errors.
func (i SearchInput) Validate(cfg config.SearchConfig) error {
	var errs domain.FieldErrors
	q := i.Query

	if len(q.Combinations) > cfg.MaxCombinations {
		errs.Add("combinations", "max %d combinations", cfg.MaxCombinations)
	}
	for n, c := range q.Combinations {
		for _, kind := range []domain.FacetKind{domain.FacetTrigger, domain.FacetCondition, domain.FacetEffect} {
			checkLength(&errs, fmt.Sprintf("combinations[%d].%s", n, kind), c.Field(kind), cfg.MaxQueryLength)
		}
	}
	checkLength(&errs, "name", q.Name, cfg.MaxQueryLength)
	checkLength(&errs, "card_text", q.CardText, cfg.MaxQueryLength)

	for _, f := range q.Factions {
		if !f.IsValid() {
			errs.Add("factions", "unknown faction %q", f)
		}
	}

	ranges := []struct {
		field string
		r     domain.IntRange
	}{
		{"main_cost", q.MainCost},
		{"recall_cost", q.RecallCost},
		{"forest_power", q.ForestPower},
		{"mountain_power", q.MountainPower},
		{"ocean_power", q.OceanPower},
	}
	for _, r := range ranges {
		if r.r.Inverted() {
			errs.Add(r.field, "min greater than max")
		}
	}
	if q.Price.Inverted() {
		errs.Add("price", "min greater than max")
	}

	if i.Page.Number < 1 {
		errs.Add("page.number", "must be at least 1")
	} else if limit := maxPageNumber(cfg.MaxPageSize); i.Page.Number > limit {
		errs.Add("page.number", "max %d", limit)
	}
	if i.Page.Size < 0 {
		errs.Add("page.size", "must not be negative")
	}
	return errs.Err()
}

// FacetsInput holds the parameters of a facet listing.
type FacetsInput struct {
	Kind   domain.FacetKind
	Filter domain.FacetFilter
}

// Validate checks all fields and collects all errors.
func (i FacetsInput) Validate(cfg config.SearchConfig) error {
	var errs domain.FieldErrors

	if !i.Kind.IsValid() {
		errs.Add("kind", "unknown kind %q", i.Kind)
	}
	checkLength(&errs, "search", i.Filter.Search, cfg.MaxQueryLength)
	if i.Filter.Limit < 0 {
		errs.Add("limit", "must not be negative")
	}
	if i.Filter.Offset < 0 {
		errs.Add("offset", "must not be negative")
	}
	return errs.Err()
}

// maxPageNumber keeps the row offset of the last page within a Postgres
// integer for any page size up to pageCap.
func maxPageNumber(pageCap int) int {
	return math.MaxInt32 / max(pageCap, 1)
}

func checkLength(errs *domain.FieldErrors, field string, s *string, limit int) {
	if s != nil && utf8.RuneCountInString(*s) > limit {
		errs.Add(field, "max %d characters", limit)
	}
}
