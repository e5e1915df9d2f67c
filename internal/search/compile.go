package search

import (
	"fmt"
	"strings"

	"github.com/Taum/marketbot-sub000/internal/domain"
)

// SetOp is the operator of a LineSet node.
type SetOp int

const (
	// OpFacet selects lines linked to a part of the given kinds whose text
	// satisfies the token predicates.
	OpFacet SetOp = iota
	// OpHasKind selects lines having any link of the given kinds.
	OpHasKind
	OpUnion
	OpIntersect
	// OpExcept subtracts every child after the first from the first.
	OpExcept
)

func (o SetOp) String() string {
	switch o {
	case OpFacet:
		return "facet"
	case OpHasKind:
		return "has_kind"
	case OpUnion:
		return "union"
	case OpIntersect:
		return "intersect"
	case OpExcept:
		return "except"
	}
	return fmt.Sprintf("SetOp(%d)", int(o))
}

// LineSet is a set expression over ability line ids.
//
// For OpFacet a part matches when its text contains every AllOf token, none of
// the NoneOf tokens and, if AnyOf is set, at least one AnyOf token. Matching is
// case-insensitive substring containment.
type LineSet struct {
	Op       SetOp
	Kinds    []domain.FacetKind
	AllOf    []string
	NoneOf   []string
	AnyOf    []string
	Children []*LineSet
}

func (s *LineSet) String() string {
	switch s.Op {
	case OpFacet:
		return fmt.Sprintf("facet%v(all=%q none=%q any=%q)", s.Kinds, s.AllOf, s.NoneOf, s.AnyOf)
	case OpHasKind:
		return fmt.Sprintf("has%v", s.Kinds)
	}
	parts := make([]string, len(s.Children))
	for i, c := range s.Children {
		parts[i] = c.String()
	}
	return s.Op.String() + "(" + strings.Join(parts, ", ") + ")"
}

func union(sets []*LineSet) *LineSet {
	if len(sets) == 1 {
		return sets[0]
	}
	return &LineSet{Op: OpUnion, Children: sets}
}

func intersect(sets []*LineSet) *LineSet {
	if len(sets) == 1 {
		return sets[0]
	}
	return &LineSet{Op: OpIntersect, Children: sets}
}

func except(base *LineSet, subtract []*LineSet) *LineSet {
	if len(subtract) == 0 {
		return base
	}
	return &LineSet{Op: OpExcept, Children: append([]*LineSet{base}, subtract...)}
}

// facetOrder is the order in which combination fields are considered.
var facetOrder = []domain.FacetKind{domain.FacetTrigger, domain.FacetCondition, domain.FacetEffect}

type compiledFacet struct {
	kind     domain.FacetKind
	set      *LineSet
	inverted bool
}

// CompileCombination turns one combination into a line set. It returns nil
// when no field carries a term.
//
// A field with positive terms selects matching lines. A field with only
// negated terms is inverted: its set holds the lines it excludes, which are
// subtracted from the result. When the first present field is inverted the
// positive sets are unioned; otherwise they are intersected. A combination
// made only of inverted fields starts from every line that has a link of the
// first field's kind.
func CompileCombination(c domain.AbilityCombination) *LineSet {
	var facets []compiledFacet
	for _, kind := range facetOrder {
		field := c.Field(kind)
		if field == nil {
			continue
		}
		pos, neg := Partition(Tokenize(*field))
		if len(pos) == 0 && len(neg) == 0 {
			continue
		}
		kinds := kind.LinkKinds()
		if len(pos) > 0 {
			facets = append(facets, compiledFacet{
				kind: kind,
				set:  &LineSet{Op: OpFacet, Kinds: kinds, AllOf: pos, NoneOf: neg},
			})
		} else {
			facets = append(facets, compiledFacet{
				kind:     kind,
				set:      &LineSet{Op: OpFacet, Kinds: kinds, AnyOf: neg},
				inverted: true,
			})
		}
	}
	if len(facets) == 0 {
		return nil
	}

	var positive, inverted []*LineSet
	for _, f := range facets {
		if f.inverted {
			inverted = append(inverted, f.set)
		} else {
			positive = append(positive, f.set)
		}
	}

	var base *LineSet
	switch {
	case len(positive) == 0:
		base = &LineSet{Op: OpHasKind, Kinds: facets[0].kind.LinkKinds()}
	case facets[0].inverted:
		base = union(positive)
	default:
		base = intersect(positive)
	}
	return except(base, inverted)
}

// TextFilter is a compiled free-text predicate.
type TextFilter struct {
	Include  []string
	Exclude  []string
	Strategy domain.TextStrategy
}

// Plan is a compiled search query ready for rendering by a storage adapter.
type Plan struct {
	Combinations   []*LineSet
	MatchAll       bool
	IncludeSupport bool
	Name           *TextFilter
	CardText       *TextFilter
	Query          domain.SearchQuery
	Limit          int
	Offset         int
	IncludeTotal   bool
}

// Strategy returns the card text strategy, or substring when no text filter
// is set.
func (p *Plan) Strategy() domain.TextStrategy {
	if p.CardText == nil {
		return domain.TextSubstring
	}
	return p.CardText.Strategy
}

// Compile turns a validated query into a plan. The page must already be
// normalized.
func Compile(q domain.SearchQuery, page domain.PageRequest, opts Options) (*Plan, error) {
	if len(q.Combinations) > opts.MaxCombinations {
		return nil, domain.NewValidationError("combinations",
			fmt.Sprintf("at most %d combinations allowed", opts.MaxCombinations))
	}

	if page.Offset() < 0 {
		return nil, domain.NewValidationError("page.number", "out of range")
	}

	plan := &Plan{
		MatchAll:       q.MatchAllCombinations,
		IncludeSupport: q.IncludeSupport,
		Query:          q,
		Limit:          page.Size,
		Offset:         page.Offset(),
		IncludeTotal:   page.IncludeTotal,
	}

	hasFacetFields := false
	for _, c := range q.Combinations {
		if c.IsEmpty() {
			continue
		}
		hasFacetFields = true
		if set := CompileCombination(c); set != nil {
			plan.Combinations = append(plan.Combinations, set)
		}
	}

	if q.Name != nil {
		if pos, neg := Partition(Tokenize(*q.Name)); len(pos)+len(neg) > 0 {
			plan.Name = &TextFilter{Include: pos, Exclude: neg, Strategy: domain.TextSubstring}
		}
	}
	if q.CardText != nil {
		tokens := Tokenize(*q.CardText)
		if len(tokens) > 0 {
			pos, neg := Partition(tokens)
			plan.CardText = &TextFilter{
				Include:  pos,
				Exclude:  neg,
				Strategy: SelectTextStrategy(tokens, hasFacetFields, opts),
			}
		}
	}
	return plan, nil
}
