package ability

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/Taum/marketbot-sub000/internal/domain"
)

// MaxExtraEffects is the largest number of mode options a line may carry.
const MaxExtraEffects = 3

const minExtraEffects = 2

// Variant names the grammar rule that matched a line.
type Variant int

const (
	VariantUnparsed Variant = iota
	VariantTriggerCode
	VariantWhen
	VariantAt
	VariantStatic
	VariantSupportCode
)

func (v Variant) String() string {
	switch v {
	case VariantTriggerCode:
		return "trigger_code"
	case VariantWhen:
		return "when"
	case VariantAt:
		return "at"
	case VariantStatic:
		return "static"
	case VariantSupportCode:
		return "support_code"
	}
	return "unparsed"
}

// Span is a fragment of a line with rune offsets relative to the line text.
type Span struct {
	Kind       domain.FacetKind
	Text       string
	Start      int
	End        int
	Substitute *string
}

// Match is the result of running the grammar over one line.
type Match struct {
	Variant   Variant
	Trigger   Span
	Condition Span
	Effect    Span
	Extras    []Span
}

// Parsed reports whether a grammar rule matched.
func (m *Match) Parsed() bool { return m.Variant != VariantUnparsed }

// Spans returns the matched spans in line order: trigger, condition, effect
// and then any extra effects. An unparsed match has no spans.
func (m *Match) Spans() []Span {
	if !m.Parsed() {
		return nil
	}
	spans := make([]Span, 0, 3+len(m.Extras))
	spans = append(spans, m.Trigger, m.Condition, m.Effect)
	return append(spans, m.Extras...)
}

// conditionPattern is shared by every rule: an optional bracket right after
// the trigger, then the effect.
const conditionPattern = `\s*(\[[^\]]*\])?(.*)$`

type rule struct {
	variant  Variant
	prefixes []string
	pattern  *regexp.Regexp
}

var rules = []rule{
	{
		variant:  VariantTriggerCode,
		prefixes: []string{"{J}", "{H}", "{R}"},
		pattern:  regexp.MustCompile(`^(\{[JHR]\})` + conditionPattern),
	},
	{
		variant:  VariantWhen,
		prefixes: []string{"When "},
		pattern:  regexp.MustCompile(`^(When\s.*?)\s*(?:—|–|\s-\s|:)` + conditionPattern),
	},
	{
		variant:  VariantAt,
		prefixes: []string{"At "},
		pattern:  regexp.MustCompile(`^(At\s.*?)\s*(?:—|–|\s-\s|:)` + conditionPattern),
	},
	{
		variant:  VariantStatic,
		prefixes: []string{"[]"},
		pattern:  regexp.MustCompile(`^(\[\])` + conditionPattern),
	},
	{
		variant:  VariantSupportCode,
		prefixes: []string{"{D}", "{T}"},
		pattern:  regexp.MustCompile(`^(\{[DT]\})\s*:?` + conditionPattern),
	},
}

func (r *rule) applies(line string) bool {
	for _, p := range r.prefixes {
		if strings.HasPrefix(line, p) {
			return true
		}
	}
	return false
}

// MatchLine dispatches a normalized line to the first rule whose prefix
// applies. A line whose rule fails to extract a complete shape is unparsed.
func MatchLine(line string) Match {
	for i := range rules {
		r := &rules[i]
		if !r.applies(line) {
			continue
		}
		m, ok := r.extract(line)
		if !ok {
			return Match{Variant: VariantUnparsed}
		}
		return m
	}
	return Match{Variant: VariantUnparsed}
}

func (r *rule) extract(line string) (Match, bool) {
	loc := r.pattern.FindStringSubmatchIndex(line)
	if loc == nil {
		return Match{}, false
	}
	m := Match{Variant: r.variant}

	trigStart, trigEnd := trimRange(line, loc[2], loc[3])
	if trigStart == trigEnd {
		return Match{}, false
	}
	if r.variant == VariantStatic {
		m.Trigger = substituted(line, domain.FacetTrigger, trigStart, trigEnd, domain.SubstituteStatic)
	} else {
		m.Trigger = span(line, domain.FacetTrigger, trigStart, trigEnd)
	}

	switch condStart, condEnd := loc[4], loc[5]; {
	case condStart < 0:
		m.Condition = substituted(line, domain.FacetCondition, trigEnd, trigEnd, domain.SubstituteNoCondition)
	default:
		innerStart, innerEnd := trimRange(line, condStart+1, condEnd-1)
		if innerStart == innerEnd {
			m.Condition = substituted(line, domain.FacetCondition, condStart, condEnd, domain.SubstituteNoCondition)
		} else {
			m.Condition = span(line, domain.FacetCondition, innerStart, innerEnd)
		}
	}

	effStart, effEnd := trimRange(line, loc[6], loc[7])
	if effStart == effEnd {
		return Match{}, false
	}
	effect, extras, ok := splitModes(line, effStart, effEnd)
	if !ok {
		return Match{}, false
	}
	m.Effect = effect
	m.Extras = extras
	return m, true
}

// splitModes separates mode bullets from the effect text. Without bullets the
// whole range is the effect.
func splitModes(line string, start, end int) (Span, []Span, bool) {
	text := line[start:end]
	first := strings.IndexRune(text, ModeBullet)
	if first < 0 {
		return span(line, domain.FacetEffect, start, end), nil, true
	}

	headStart, headEnd := trimRange(line, start, start+first)
	if headStart == headEnd {
		return Span{}, nil, false
	}

	var extras []Span
	bulletLen := utf8.RuneLen(ModeBullet)
	pos := start + first
	for pos < end {
		itemStart := pos + bulletLen
		next := strings.IndexRune(line[itemStart:end], ModeBullet)
		itemEnd := end
		if next >= 0 {
			itemEnd = itemStart + next
		}
		s, e := trimRange(line, itemStart, itemEnd)
		if s == e {
			return Span{}, nil, false
		}
		extras = append(extras, span(line, domain.FacetExtraEffect, s, e))
		pos = itemEnd
	}
	if len(extras) < minExtraEffects || len(extras) > MaxExtraEffects {
		return Span{}, nil, false
	}
	return span(line, domain.FacetEffect, headStart, headEnd), extras, true
}

func span(line string, kind domain.FacetKind, start, end int) Span {
	return Span{
		Kind:  kind,
		Text:  line[start:end],
		Start: runeOffset(line, start),
		End:   runeOffset(line, end),
	}
}

func substituted(line string, kind domain.FacetKind, start, end int, marker string) Span {
	s := span(line, kind, start, end)
	s.Text = marker
	s.Substitute = &marker
	return s
}

func trimRange(line string, start, end int) (int, int) {
	for start < end && line[start] == ' ' {
		start++
	}
	for end > start && line[end-1] == ' ' {
		end--
	}
	return start, end
}

func runeOffset(s string, byteOffset int) int {
	return utf8.RuneCountInString(s[:byteOffset])
}
