package domain

import "strings"

// IntRange is an inclusive integer range; nil bounds are open.
type IntRange struct {
	Min *int
	Max *int
}

func (r IntRange) IsZero() bool { return r.Min == nil && r.Max == nil }

// Inverted reports whether both bounds are set and min exceeds max.
func (r IntRange) Inverted() bool {
	return r.Min != nil && r.Max != nil && *r.Min > *r.Max
}

// PriceRange is an inclusive price range; nil bounds are open.
type PriceRange struct {
	Min *float64
	Max *float64
}

func (r PriceRange) IsZero() bool { return r.Min == nil && r.Max == nil }

func (r PriceRange) Inverted() bool {
	return r.Min != nil && r.Max != nil && *r.Min > *r.Max
}

// AbilityCombination holds the optional facet query texts of one combination.
type AbilityCombination struct {
	Trigger   *string
	Condition *string
	Effect    *string
}

// Field returns the query text for a facet kind.
func (c AbilityCombination) Field(kind FacetKind) *string {
	switch kind {
	case FacetTrigger:
		return c.Trigger
	case FacetCondition:
		return c.Condition
	case FacetEffect:
		return c.Effect
	}
	return nil
}

// IsEmpty reports whether every field is nil or blank.
func (c AbilityCombination) IsEmpty() bool {
	return isBlank(c.Trigger) && isBlank(c.Condition) && isBlank(c.Effect)
}

func isBlank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}

// SearchQuery is the full card search request.
type SearchQuery struct {
	Combinations         []AbilityCombination
	MatchAllCombinations bool
	IncludeSupport       bool
	Name                 *string
	CardText             *string
	Factions             []Faction
	SetCodes             []string
	Subtypes             []string
	MainCost             IntRange
	RecallCost           IntRange
	ForestPower          IntRange
	MountainPower        IntRange
	OceanPower           IntRange
	Price                PriceRange
	InSaleOnly           bool
}

// PageRequest selects a 1-based page of results.
type PageRequest struct {
	Number       int
	Size         int
	IncludeTotal bool
}

// Offset returns the row offset of the page.
func (p PageRequest) Offset() int {
	if p.Number < 1 {
		return 0
	}
	return (p.Number - 1) * p.Size
}

// FacetFilter narrows a facet listing.
type FacetFilter struct {
	Search         *string
	IncludeSupport bool
	Limit          int
	Offset         int
}
