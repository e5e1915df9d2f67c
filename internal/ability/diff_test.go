package ability

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Taum/marketbot-sub000/internal/domain"
)

func storedLines(t *testing.T, cardID uuid.UUID, memo *PartMemo, main string) []domain.AbilityLine {
	t.Helper()
	seg := Segment(cardID, &main, nil)
	for _, k := range memo.Missing(seg.PartKeys()) {
		memo.Store(k, uuid.New())
	}
	lines, err := seg.Resolve(memo)
	require.NoError(t, err)
	return lines
}

// persisted returns the lines a plan would insert, standing in for a store read.
func persisted(plan LinePlan) []domain.AbilityLine {
	return plan.CreateLines
}

func TestDiffLines_AllNew(t *testing.T) {
	t.Parallel()

	next := storedLines(t, uuid.New(), NewPartMemo(), "{J} Draw a card.  {H} Gain 1 mana.")
	plan := DiffLines(nil, next)

	require.Len(t, plan.CreateLines, 2)
	assert.Len(t, plan.CreateLinks, 6)
	for _, l := range plan.CreateLines {
		assert.NotEqual(t, uuid.Nil, l.ID)
	}
	for _, link := range plan.CreateLinks {
		assert.NotEqual(t, uuid.Nil, link.LineID)
	}
	sum := plan.Summary()
	assert.Equal(t, 2, sum.LinesCreated)
	assert.Equal(t, 6, sum.LinksCreated)
}

func TestDiffLines_Idempotent(t *testing.T) {
	t.Parallel()

	cardID := uuid.New()
	memo := NewPartMemo()
	text := "{J} Draw a card.  {H} [If I'm alone] Gain 1 mana."
	existing := persisted(DiffLines(nil, storedLines(t, cardID, memo, text)))

	plan := DiffLines(existing, storedLines(t, cardID, memo, text))

	assert.True(t, plan.IsEmpty())
	sum := plan.Summary()
	assert.Equal(t, domain.ReindexResult{LinesUnchanged: 2}, sum)
}

func TestDiffLines_EditedLine(t *testing.T) {
	t.Parallel()

	cardID := uuid.New()
	memo := NewPartMemo()
	existing := persisted(DiffLines(nil, storedLines(t, cardID, memo, "{J} Draw a card.  {H} Gain 1 mana.")))

	plan := DiffLines(existing, storedLines(t, cardID, memo, "{J} Draw a card.  {H} Gain 2 mana."))

	assert.Empty(t, plan.CreateLines)
	require.Len(t, plan.UpdateLines, 1)
	assert.Equal(t, existing[1].ID, plan.UpdateLines[0].ID)
	require.Len(t, plan.CreateLinks, 1)
	assert.Equal(t, "Gain 2 mana.", plan.CreateLinks[0].Text)
	require.Len(t, plan.DeleteLinks, 1)
	assert.Equal(t, "Gain 1 mana.", plan.DeleteLinks[0].Text)

	sum := plan.Summary()
	assert.Equal(t, 1, sum.LinesUpdated)
	assert.Equal(t, 1, sum.LinesUnchanged)
}

func TestDiffLines_RemovedLine(t *testing.T) {
	t.Parallel()

	cardID := uuid.New()
	memo := NewPartMemo()
	existing := persisted(DiffLines(nil, storedLines(t, cardID, memo, "{J} Draw a card.  {H} Gain 1 mana.")))

	plan := DiffLines(existing, storedLines(t, cardID, memo, "{J} Draw a card."))

	assert.Equal(t, []uuid.UUID{existing[1].ID}, plan.DeleteLineIDs)
	assert.Empty(t, plan.DeleteLinks)
	assert.Equal(t, 1, plan.Summary().LinesDeleted)
}

func TestDiffLines_ShiftedOffsetsUpdateSpans(t *testing.T) {
	t.Parallel()

	cardID := uuid.New()
	memo := NewPartMemo()
	existing := persisted(DiffLines(nil, storedLines(t, cardID, memo, "{J} Draw a card.")))

	plan := DiffLines(existing, storedLines(t, cardID, memo, "{J} [] Draw a card."))

	assert.Empty(t, plan.CreateLinks)
	assert.Empty(t, plan.DeleteLinks)
	require.Len(t, plan.UpdateLinks, 2)
	assert.Equal(t, domain.FacetCondition, plan.UpdateLinks[0].Kind)
	assert.Equal(t, 4, plan.UpdateLinks[0].StartOffset)
	assert.Equal(t, domain.FacetEffect, plan.UpdateLinks[1].Kind)
	assert.Equal(t, 7, plan.UpdateLinks[1].StartOffset)
	require.Len(t, plan.UpdateLines, 1)
}

func TestDiffLines_ParsedToUnparsed(t *testing.T) {
	t.Parallel()

	cardID := uuid.New()
	memo := NewPartMemo()
	existing := persisted(DiffLines(nil, storedLines(t, cardID, memo, "{J} Draw a card.")))

	plan := DiffLines(existing, storedLines(t, cardID, memo, "Draw a card."))

	require.Len(t, plan.UpdateLines, 1)
	assert.Equal(t, domain.ParseUnparsed, plan.UpdateLines[0].Status)
	assert.Len(t, plan.DeleteLinks, 3)
}

func TestLinePlan_Merge(t *testing.T) {
	t.Parallel()

	a := DiffLines(nil, storedLines(t, uuid.New(), NewPartMemo(), "{J} Draw a card."))
	b := DiffLines(nil, storedLines(t, uuid.New(), NewPartMemo(), "{H} Gain 1 mana."))
	a.Merge(b)

	assert.Len(t, a.CreateLines, 2)
	assert.Len(t, a.CreateLinks, 6)
}
