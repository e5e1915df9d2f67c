package search

import (
	"math"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Taum/marketbot-sub000/internal/domain"
)

func ptr[T any](v T) *T { return &v }

type fixtureLink struct {
	kind      domain.FacetKind
	text      string
	isSupport bool
}

// fixture maps line names to their links.
type fixture map[string][]fixtureLink

// eval is an in-memory reference evaluation of a LineSet.
func (f fixture) eval(s *LineSet, includeSupport bool) []string {
	var out []string
	switch s.Op {
	case OpFacet, OpHasKind:
		for line, links := range f {
			for _, l := range links {
				if !includeSupport && l.isSupport {
					continue
				}
				if !slices.Contains(s.Kinds, l.kind) {
					continue
				}
				if s.Op == OpHasKind || partMatches(s, l.text) {
					out = append(out, line)
					break
				}
			}
		}
	case OpUnion:
		for _, c := range s.Children {
			out = append(out, f.eval(c, includeSupport)...)
		}
	case OpIntersect:
		out = f.eval(s.Children[0], includeSupport)
		for _, c := range s.Children[1:] {
			other := f.eval(c, includeSupport)
			out = slices.DeleteFunc(out, func(l string) bool { return !slices.Contains(other, l) })
		}
	case OpExcept:
		out = f.eval(s.Children[0], includeSupport)
		for _, c := range s.Children[1:] {
			other := f.eval(c, includeSupport)
			out = slices.DeleteFunc(out, func(l string) bool { return slices.Contains(other, l) })
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}

func partMatches(s *LineSet, text string) bool {
	text = strings.ToLower(text)
	for _, tok := range s.AllOf {
		if !strings.Contains(text, strings.ToLower(tok)) {
			return false
		}
	}
	for _, tok := range s.NoneOf {
		if strings.Contains(text, strings.ToLower(tok)) {
			return false
		}
	}
	if len(s.AnyOf) == 0 {
		return true
	}
	for _, tok := range s.AnyOf {
		if strings.Contains(text, strings.ToLower(tok)) {
			return true
		}
	}
	return false
}

func testFixture() fixture {
	noCond := fixtureLink{kind: domain.FacetCondition, text: domain.SubstituteNoCondition}
	return fixture{
		"jDraw": {
			{kind: domain.FacetTrigger, text: "{J}"}, noCond,
			{kind: domain.FacetEffect, text: "Draw a card."},
		},
		"jMana": {
			{kind: domain.FacetTrigger, text: "{J}"}, noCond,
			{kind: domain.FacetEffect, text: "Gain 1 mana."},
		},
		"hMana": {
			{kind: domain.FacetTrigger, text: "{H}"},
			{kind: domain.FacetCondition, text: "If I'm in a Forest"},
			{kind: domain.FacetEffect, text: "Gain 1 mana."},
		},
		"hModes": {
			{kind: domain.FacetTrigger, text: "{H}"}, noCond,
			{kind: domain.FacetEffect, text: "Choose one:"},
			{kind: domain.FacetExtraEffect, text: "Draw a card."},
			{kind: domain.FacetExtraEffect, text: "Sabotage a character."},
		},
		"supportDraw": {
			{kind: domain.FacetTrigger, text: "{D}", isSupport: true},
			{kind: domain.FacetCondition, text: domain.SubstituteNoCondition, isSupport: true},
			{kind: domain.FacetEffect, text: "Draw a card.", isSupport: true},
		},
		"unparsed": nil,
	}
}

func TestCompileCombination_Empty(t *testing.T) {
	t.Parallel()

	assert.Nil(t, CompileCombination(domain.AbilityCombination{}))
	assert.Nil(t, CompileCombination(domain.AbilityCombination{Trigger: ptr("  "), Effect: ptr("-")}))
}

func TestCompileCombination_Shapes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		comb domain.AbilityCombination
		want string
	}{
		{
			name: "single positive",
			comb: domain.AbilityCombination{Effect: ptr("draw -sabotage")},
			want: `facet[effect extra_effect](all=["draw"] none=["sabotage"] any=[])`,
		},
		{
			name: "positives intersect",
			comb: domain.AbilityCombination{Trigger: ptr("{J}"), Effect: ptr("mana")},
			want: `intersect(facet[trigger](all=["{J}"] none=[] any=[]), facet[effect extra_effect](all=["mana"] none=[] any=[]))`,
		},
		{
			name: "pure negative",
			comb: domain.AbilityCombination{Effect: ptr("-draw")},
			want: `except(has[effect extra_effect], facet[effect extra_effect](all=[] none=[] any=["draw"]))`,
		},
		{
			name: "inverted first unions positives",
			comb: domain.AbilityCombination{Trigger: ptr("-{J}"), Condition: ptr("forest"), Effect: ptr("mana")},
			want: `except(union(facet[condition](all=["forest"] none=[] any=[]), facet[effect extra_effect](all=["mana"] none=[] any=[])), facet[trigger](all=[] none=[] any=["{J}"]))`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			set := CompileCombination(tt.comb)
			require.NotNil(t, set)
			assert.Equal(t, tt.want, set.String())
		})
	}
}

func TestCompileCombination_Semantics(t *testing.T) {
	t.Parallel()

	f := testFixture()
	tests := []struct {
		name           string
		comb           domain.AbilityCombination
		includeSupport bool
		want           []string
	}{
		{
			name: "effect matches extra effects",
			comb: domain.AbilityCombination{Effect: ptr("draw")},
			want: []string{"hModes", "jDraw"},
		},
		{
			name:           "support lines only when requested",
			comb:           domain.AbilityCombination{Effect: ptr("draw")},
			includeSupport: true,
			want:           []string{"hModes", "jDraw", "supportDraw"},
		},
		{
			name: "pure negative keeps lines with an effect and no match",
			comb: domain.AbilityCombination{Effect: ptr("-draw")},
			want: []string{"hMana", "jMana"},
		},
		{
			name: "positive trigger minus negative effect",
			comb: domain.AbilityCombination{Trigger: ptr("{J}"), Effect: ptr("-draw")},
			want: []string{"jMana"},
		},
		{
			name: "negative trigger first",
			comb: domain.AbilityCombination{Trigger: ptr("-{J}"), Effect: ptr("mana")},
			want: []string{"hMana"},
		},
		{
			name: "no condition marker",
			comb: domain.AbilityCombination{Trigger: ptr("{H}"), Condition: ptr("$noCondition")},
			want: []string{"hModes"},
		},
		{
			name: "negated token inside positive field",
			comb: domain.AbilityCombination{Effect: ptr("gain -forest")},
			want: []string{"hMana", "jMana"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			set := CompileCombination(tt.comb)
			require.NotNil(t, set)
			assert.Equal(t, tt.want, f.eval(set, tt.includeSupport))
		})
	}
}

func TestCompile(t *testing.T) {
	t.Parallel()

	q := domain.SearchQuery{
		Combinations: []domain.AbilityCombination{
			{Trigger: ptr("{J}")},
			{},
			{Effect: ptr("-draw")},
		},
		MatchAllCombinations: true,
		Name:                 ptr("sierra -oops"),
		CardText:             ptr("a b c d e f"),
	}
	plan, err := Compile(q, domain.PageRequest{Number: 2, Size: 100, IncludeTotal: true}, DefaultOptions())
	require.NoError(t, err)

	assert.Len(t, plan.Combinations, 2)
	assert.True(t, plan.MatchAll)
	assert.Equal(t, 100, plan.Limit)
	assert.Equal(t, 100, plan.Offset)
	assert.True(t, plan.IncludeTotal)
	require.NotNil(t, plan.Name)
	assert.Equal(t, []string{"sierra"}, plan.Name.Include)
	assert.Equal(t, []string{"oops"}, plan.Name.Exclude)
	require.NotNil(t, plan.CardText)
	assert.Equal(t, domain.TextSubstring, plan.Strategy(), "facet fields force substring")
}

func TestCompile_RankedWithoutFacets(t *testing.T) {
	t.Parallel()

	plan, err := Compile(domain.SearchQuery{CardText: ptr("when this character leaves play draw")},
		domain.PageRequest{Number: 1, Size: 10}, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, domain.TextRanked, plan.Strategy())
	assert.Empty(t, plan.Combinations)
}

func TestCompile_TooManyCombinations(t *testing.T) {
	t.Parallel()

	q := domain.SearchQuery{Combinations: make([]domain.AbilityCombination, 4)}
	_, err := Compile(q, domain.PageRequest{Number: 1, Size: 10}, DefaultOptions())
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestCompile_OverflowingPage(t *testing.T) {
	t.Parallel()

	_, err := Compile(domain.SearchQuery{}, domain.PageRequest{Number: math.MaxInt / 50, Size: 100}, DefaultOptions())
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCompile_BlankTextFilters(t *testing.T) {
	t.Parallel()

	plan, err := Compile(domain.SearchQuery{Name: ptr("  "), CardText: ptr(`""`)},
		domain.PageRequest{Number: 1, Size: 10}, DefaultOptions())
	require.NoError(t, err)
	assert.Nil(t, plan.Name)
	assert.Nil(t, plan.CardText)
	assert.Equal(t, domain.TextSubstring, plan.Strategy())
}
