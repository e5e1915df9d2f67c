package ability

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Taum/marketbot-sub000/internal/domain"
)

// SegmentedLine is a line produced by the pipeline before dictionary ids are
// known.
type SegmentedLine struct {
	LineNumber int
	IsSupport  bool
	Text       string
	Start      int
	End        int
	Match      Match
}

// Status returns the parse status stored for the line.
func (l *SegmentedLine) Status() domain.ParseStatus {
	if l.Match.Parsed() {
		return domain.ParseOK
	}
	return domain.ParseUnparsed
}

// Segmentation is the pure pipeline output for one card.
type Segmentation struct {
	CardID uuid.UUID
	Lines  []SegmentedLine
}

// Segment normalizes and splits both text boxes of a card and matches every
// line against the grammar. It has no side effects.
func Segment(cardID uuid.UUID, mainText, echoText *string) Segmentation {
	seg := Segmentation{CardID: cardID}

	if mainText != nil {
		for i, s := range SplitLines(Normalize(*mainText)) {
			seg.Lines = append(seg.Lines, SegmentedLine{
				LineNumber: i,
				Text:       s.Text,
				Start:      s.Start,
				End:        s.End,
				Match:      MatchLine(s.Text),
			})
		}
	}

	if echoText != nil {
		box := []rune(Normalize(*echoText))
		start, end := trimRunes(box, 0, len(box))
		if start < end {
			text := string(box[start:end])
			seg.Lines = append(seg.Lines, SegmentedLine{
				LineNumber: domain.SupportLineNumber,
				IsSupport:  true,
				Text:       text,
				Start:      start,
				End:        end,
				Match:      MatchLine(text),
			})
		}
	}
	return seg
}

// Unparsed returns the lines no grammar rule matched.
func (s *Segmentation) Unparsed() []SegmentedLine {
	var out []SegmentedLine
	for _, l := range s.Lines {
		if !l.Match.Parsed() {
			out = append(out, l)
		}
	}
	return out
}

// PartKeys returns the distinct dictionary keys the segmentation refers to.
func (s *Segmentation) PartKeys() []domain.PartKey {
	seen := make(map[domain.PartKey]struct{})
	var keys []domain.PartKey
	for _, l := range s.Lines {
		for _, sp := range l.Match.Spans() {
			k := partKey(sp, l.IsSupport)
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			keys = append(keys, k)
		}
	}
	return keys
}

// Resolve builds ability lines using ids looked up from the memo. Every key
// returned by PartKeys must already be present.
func (s *Segmentation) Resolve(memo *PartMemo) ([]domain.AbilityLine, error) {
	lines := make([]domain.AbilityLine, 0, len(s.Lines))
	for _, l := range s.Lines {
		line := domain.AbilityLine{
			CardID:      s.CardID,
			LineNumber:  l.LineNumber,
			IsSupport:   l.IsSupport,
			Text:        l.Text,
			StartOffset: l.Start,
			EndOffset:   l.End,
			Status:      l.Status(),
		}

		seen := make(map[domain.LinkKey]struct{})
		for _, sp := range l.Match.Spans() {
			k := partKey(sp, l.IsSupport)
			id, ok := memo.Lookup(k)
			if !ok {
				return nil, fmt.Errorf("resolve line %d of card %s: part %q not in memo", l.LineNumber, s.CardID, k)
			}
			ps := domain.PartSpan{
				PartID:         id,
				Kind:           sp.Kind,
				Text:           sp.Text,
				StartOffset:    sp.Start,
				EndOffset:      sp.End,
				SubstituteText: sp.Substitute,
			}
			// One link per (part, kind): a repeated mode option keeps its first span.
			if _, dup := seen[ps.Key()]; dup {
				continue
			}
			seen[ps.Key()] = struct{}{}
			line.Spans = append(line.Spans, ps)
		}
		lines = append(lines, line)
	}
	return lines, nil
}

func partKey(sp Span, isSupport bool) domain.PartKey {
	return domain.PartKey{
		Text:      strings.TrimSpace(sp.Text),
		Kind:      sp.Kind.PartKind(),
		IsSupport: isSupport,
	}
}
