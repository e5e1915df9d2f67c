package ability

import (
	"context"
	"fmt"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	pipeline "github.com/Taum/marketbot-sub000/internal/ability"
	postgres "github.com/Taum/marketbot-sub000/internal/adapter/postgres"
	"github.com/Taum/marketbot-sub000/internal/domain"
)

// ---------------------------------------------------------------------------
// Raw SQL
// ---------------------------------------------------------------------------

const linesByCardIDsSQL = `
SELECT
    l.id, l.card_id, l.line_number, l.is_support, l.text,
    l.start_offset, l.end_offset, l.parse_status,
    lp.part_id, lp.kind AS link_kind, p.text AS part_text,
    lp.start_offset AS link_start, lp.end_offset AS link_end, lp.substitute_text
FROM ability_lines l
LEFT JOIN ability_line_parts lp ON lp.line_id = l.id
LEFT JOIN ability_parts p ON p.id = lp.part_id
WHERE l.card_id = ANY($1::uuid[])
ORDER BY l.card_id, l.is_support, l.line_number, lp.start_offset, lp.end_offset, lp.kind`

const insertLineSQL = `
INSERT INTO ability_lines (id, card_id, line_number, is_support, text, start_offset, end_offset, parse_status)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

const updateLineSQL = `
UPDATE ability_lines
SET text = $2, start_offset = $3, end_offset = $4, parse_status = $5, updated_at = now()
WHERE id = $1`

const deleteLinesSQL = `DELETE FROM ability_lines WHERE id = ANY($1::uuid[])`

const insertLinkSQL = `
INSERT INTO ability_line_parts (line_id, part_id, kind, start_offset, end_offset, substitute_text)
VALUES ($1, $2, $3, $4, $5, $6)`

const updateLinkSQL = `
UPDATE ability_line_parts
SET start_offset = $4, end_offset = $5, substitute_text = $6
WHERE line_id = $1 AND part_id = $2 AND kind = $3`

const deleteLinkSQL = `
DELETE FROM ability_line_parts WHERE line_id = $1 AND part_id = $2 AND kind = $3`

type lineRow struct {
	ID             uuid.UUID  `db:"id"`
	CardID         uuid.UUID  `db:"card_id"`
	LineNumber     int        `db:"line_number"`
	IsSupport      bool       `db:"is_support"`
	Text           string     `db:"text"`
	StartOffset    int        `db:"start_offset"`
	EndOffset      int        `db:"end_offset"`
	ParseStatus    string     `db:"parse_status"`
	PartID         *uuid.UUID `db:"part_id"`
	LinkKind       *string    `db:"link_kind"`
	PartText       *string    `db:"part_text"`
	LinkStart      *int       `db:"link_start"`
	LinkEnd        *int       `db:"link_end"`
	SubstituteText *string    `db:"substitute_text"`
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// GetLinesByCardIDs returns the lines of the given cards with their spans.
// Lines are grouped by card, main lines first by number, then the echo line.
func (r *Repo) GetLinesByCardIDs(ctx context.Context, cardIDs []uuid.UUID) ([]domain.AbilityLine, error) {
	if len(cardIDs) == 0 {
		return []domain.AbilityLine{}, nil
	}

	var rows []lineRow
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &rows, linesByCardIDsSQL, cardIDs); err != nil {
		return nil, postgres.MapError(err, "ability lines", "")
	}
	return groupLines(rows), nil
}

func groupLines(rows []lineRow) []domain.AbilityLine {
	lines := make([]domain.AbilityLine, 0, len(rows))
	for _, row := range rows {
		if n := len(lines); n == 0 || lines[n-1].ID != row.ID {
			lines = append(lines, domain.AbilityLine{
				ID:          row.ID,
				CardID:      row.CardID,
				LineNumber:  row.LineNumber,
				IsSupport:   row.IsSupport,
				Text:        row.Text,
				StartOffset: row.StartOffset,
				EndOffset:   row.EndOffset,
				Status:      domain.ParseStatus(row.ParseStatus),
			})
		}
		if row.PartID == nil {
			continue
		}
		line := &lines[len(lines)-1]
		line.Spans = append(line.Spans, domain.PartSpan{
			PartID:         *row.PartID,
			Kind:           domain.FacetKind(deref(row.LinkKind)),
			Text:           deref(row.PartText),
			StartOffset:    deref(row.LinkStart),
			EndOffset:      deref(row.LinkEnd),
			SubstituteText: row.SubstituteText,
		})
	}
	return lines
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

// ---------------------------------------------------------------------------
// Write operations (pgx.Batch API)
// ---------------------------------------------------------------------------

// ApplyPlan writes a line plan. Link deletes run first, then line deletes,
// line writes and link writes, so foreign keys hold at every step. Callers
// should run it inside a transaction.
func (r *Repo) ApplyPlan(ctx context.Context, plan pipeline.LinePlan) error {
	if plan.IsEmpty() {
		return nil
	}

	batch := &pgx.Batch{}
	for _, l := range plan.DeleteLinks {
		batch.Queue(deleteLinkSQL, l.LineID, l.PartID, string(l.Kind))
	}
	if len(plan.DeleteLineIDs) > 0 {
		batch.Queue(deleteLinesSQL, plan.DeleteLineIDs)
	}
	for _, l := range plan.CreateLines {
		batch.Queue(insertLineSQL, l.ID, l.CardID, l.LineNumber, l.IsSupport, l.Text,
			l.StartOffset, l.EndOffset, string(l.Status))
	}
	for _, l := range plan.UpdateLines {
		batch.Queue(updateLineSQL, l.ID, l.Text, l.StartOffset, l.EndOffset, string(l.Status))
	}
	for _, l := range plan.CreateLinks {
		batch.Queue(insertLinkSQL, l.LineID, l.PartID, string(l.Kind), l.StartOffset, l.EndOffset, l.SubstituteText)
	}
	for _, l := range plan.UpdateLinks {
		batch.Queue(updateLinkSQL, l.LineID, l.PartID, string(l.Kind), l.StartOffset, l.EndOffset, l.SubstituteText)
	}

	return r.sendBatchExec(ctx, batch)
}

func (r *Repo) sendBatchExec(ctx context.Context, batch *pgx.Batch) error {
	q := postgres.QuerierFromCtx(ctx, r.db)
	results := q.SendBatch(ctx, batch)
	defer results.Close()

	for i := range batch.Len() {
		if _, err := results.Exec(); err != nil {
			return postgres.MapError(fmt.Errorf("batch exec %d: %w", i, err), "ability lines", "")
		}
	}
	return nil
}
