package ability

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Taum/marketbot-sub000/internal/domain"
)

func resolvedMemo(seg Segmentation) *PartMemo {
	memo := NewPartMemo()
	for _, k := range seg.PartKeys() {
		memo.Store(k, uuid.New())
	}
	return memo
}

func TestSegment_MainAndEcho(t *testing.T) {
	t.Parallel()

	cardID := uuid.New()
	seg := Segment(cardID,
		strPtr("{j} Draw a card.  {H} [] Gain 1 mana.  Gigantic."),
		strPtr("  {D} : Sabotage a character.  "))

	require.Len(t, seg.Lines, 4)
	assert.Equal(t, cardID, seg.CardID)

	assert.Equal(t, 0, seg.Lines[0].LineNumber)
	assert.Equal(t, "{J} Draw a card.", seg.Lines[0].Text)
	assert.Equal(t, domain.ParseOK, seg.Lines[0].Status())

	assert.Equal(t, 1, seg.Lines[1].LineNumber)
	assert.Equal(t, 18, seg.Lines[1].Start)

	assert.Equal(t, 2, seg.Lines[2].LineNumber)
	assert.Equal(t, domain.ParseUnparsed, seg.Lines[2].Status())

	echo := seg.Lines[3]
	assert.Equal(t, domain.SupportLineNumber, echo.LineNumber)
	assert.True(t, echo.IsSupport)
	assert.Equal(t, "{D} : Sabotage a character.", echo.Text)
	assert.Equal(t, 2, echo.Start)
	assert.Equal(t, VariantSupportCode, echo.Match.Variant)

	unparsed := seg.Unparsed()
	require.Len(t, unparsed, 1)
	assert.Equal(t, "Gigantic.", unparsed[0].Text)
}

func TestSegment_NoText(t *testing.T) {
	t.Parallel()

	assert.Empty(t, Segment(uuid.New(), nil, nil).Lines)
	assert.Empty(t, Segment(uuid.New(), strPtr("   "), strPtr("")).Lines)
}

func TestSegment_PartKeysDeduplicate(t *testing.T) {
	t.Parallel()

	seg := Segment(uuid.New(),
		strPtr("{J} Draw a card.  {H} Draw a card.  {R} Choose one: • Draw a card. • Gain 1 mana."),
		strPtr("{D} Draw a card."))

	keys := seg.PartKeys()
	assert.Contains(t, keys, domain.PartKey{Text: "Draw a card.", Kind: domain.FacetEffect})
	assert.Contains(t, keys, domain.PartKey{Text: "Draw a card.", Kind: domain.FacetEffect, IsSupport: true})
	assert.Contains(t, keys, domain.PartKey{Text: "Gain 1 mana.", Kind: domain.FacetEffect})
	assert.Contains(t, keys, domain.PartKey{Text: domain.SubstituteNoCondition, Kind: domain.FacetCondition})

	seen := map[domain.PartKey]int{}
	for _, k := range keys {
		seen[k]++
	}
	for k, n := range seen {
		assert.Equal(t, 1, n, "key %v repeated", k)
	}
}

func TestSegmentation_Resolve(t *testing.T) {
	t.Parallel()

	cardID := uuid.New()
	seg := Segment(cardID, strPtr("{J} Choose one: • Draw a card. • Gain 1 mana.  Gigantic."), nil)
	memo := resolvedMemo(seg)

	lines, err := seg.Resolve(memo)
	require.NoError(t, err)
	require.Len(t, lines, 2)

	first := lines[0]
	assert.Equal(t, cardID, first.CardID)
	assert.Equal(t, domain.ParseOK, first.Status)
	require.Len(t, first.Spans, 5)
	kinds := make([]domain.FacetKind, 0, len(first.Spans))
	for _, sp := range first.Spans {
		assert.NotEqual(t, uuid.Nil, sp.PartID)
		kinds = append(kinds, sp.Kind)
	}
	assert.Equal(t, []domain.FacetKind{
		domain.FacetTrigger, domain.FacetCondition, domain.FacetEffect,
		domain.FacetExtraEffect, domain.FacetExtraEffect,
	}, kinds)

	drawID, ok := memo.Lookup(domain.PartKey{Text: "Draw a card.", Kind: domain.FacetEffect})
	require.True(t, ok)
	assert.Equal(t, drawID, first.Spans[3].PartID)

	assert.Equal(t, domain.ParseUnparsed, lines[1].Status)
	assert.Empty(t, lines[1].Spans)
}

func TestSegmentation_ResolveDuplicateModeOption(t *testing.T) {
	t.Parallel()

	seg := Segment(uuid.New(), strPtr("{J} Choose one: • Draw a card. • Draw a card."), nil)
	lines, err := seg.Resolve(resolvedMemo(seg))
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Len(t, lines[0].Spans, 4)
}

func TestSegmentation_ResolveMissingPart(t *testing.T) {
	t.Parallel()

	seg := Segment(uuid.New(), strPtr("{J} Draw a card."), nil)
	_, err := seg.Resolve(NewPartMemo())
	require.Error(t, err)
}
