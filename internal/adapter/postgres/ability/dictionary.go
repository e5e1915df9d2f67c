package ability

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"

	postgres "github.com/Taum/marketbot-sub000/internal/adapter/postgres"
	"github.com/Taum/marketbot-sub000/internal/domain"
)

// ---------------------------------------------------------------------------
// Raw SQL
// ---------------------------------------------------------------------------

const upsertPartsSQL = `
WITH input AS (
    SELECT * FROM unnest($1::uuid[], $2::text[], $3::text[], $4::bool[]) AS i(id, text, kind, is_support)
), inserted AS (
    INSERT INTO ability_parts (id, text, kind, is_support)
    SELECT id, text, kind, is_support FROM input
    ON CONFLICT (text, kind, is_support) DO NOTHING
    RETURNING id, text, kind, is_support
)
SELECT id, text, kind, is_support FROM inserted
UNION ALL
SELECT p.id, p.text, p.kind, p.is_support
FROM ability_parts p
JOIN input i ON i.text = p.text AND i.kind = p.kind AND i.is_support = p.is_support`

// Rows committed by a concurrent writer after the upsert's snapshot are
// invisible to it; a fresh statement sees them.
const rereadPartsSQL = `
SELECT p.id, p.text, p.kind, p.is_support
FROM ability_parts p
JOIN unnest($1::text[], $2::text[], $3::bool[]) AS i(text, kind, is_support)
  ON i.text = p.text AND i.kind = p.kind AND i.is_support = p.is_support`

const deleteOrphanPartsSQL = `
DELETE FROM ability_parts p
WHERE p.created_at < $1
  AND NOT EXISTS (SELECT 1 FROM ability_line_parts lp WHERE lp.part_id = p.id)`

type partRow struct {
	ID        uuid.UUID `db:"id"`
	Text      string    `db:"text"`
	Kind      string    `db:"kind"`
	IsSupport bool      `db:"is_support"`
}

func (r partRow) key() domain.PartKey {
	return domain.PartKey{Text: r.Text, Kind: domain.FacetKind(r.Kind), IsSupport: r.IsSupport}
}

// ---------------------------------------------------------------------------
// Dictionary
// ---------------------------------------------------------------------------

// ResolveParts returns the id of every key, inserting the missing ones.
// Concurrent callers resolving the same key receive the same id.
func (r *Repo) ResolveParts(ctx context.Context, keys []domain.PartKey) (map[domain.PartKey]uuid.UUID, error) {
	out := make(map[domain.PartKey]uuid.UUID, len(keys))
	if len(keys) == 0 {
		return out, nil
	}
	q := postgres.QuerierFromCtx(ctx, r.db)

	ids := make([]uuid.UUID, len(keys))
	texts := make([]string, len(keys))
	kinds := make([]string, len(keys))
	support := make([]bool, len(keys))
	for i, k := range keys {
		ids[i] = uuid.New()
		texts[i] = k.Text
		kinds[i] = string(k.Kind)
		support[i] = k.IsSupport
	}

	var rows []partRow
	if err := pgxscan.Select(ctx, q, &rows, upsertPartsSQL, ids, texts, kinds, support); err != nil {
		return nil, postgres.MapError(err, "ability parts", "")
	}
	for _, row := range rows {
		out[row.key()] = row.ID
	}

	missing := missingKeys(keys, out)
	if len(missing) == 0 {
		return out, nil
	}

	texts, kinds, support = texts[:0], kinds[:0], support[:0]
	for _, k := range missing {
		texts = append(texts, k.Text)
		kinds = append(kinds, string(k.Kind))
		support = append(support, k.IsSupport)
	}
	var reread []partRow
	if err := pgxscan.Select(ctx, q, &reread, rereadPartsSQL, texts, kinds, support); err != nil {
		return nil, postgres.MapError(err, "ability parts", "")
	}
	for _, row := range reread {
		out[row.key()] = row.ID
	}

	if missing = missingKeys(keys, out); len(missing) > 0 {
		return nil, fmt.Errorf("resolve ability parts: %d keys unresolved, first %q", len(missing), missing[0])
	}
	return out, nil
}

func missingKeys(keys []domain.PartKey, found map[domain.PartKey]uuid.UUID) []domain.PartKey {
	var missing []domain.PartKey
	for _, k := range keys {
		if _, ok := found[k]; !ok {
			missing = append(missing, k)
		}
	}
	return missing
}

// DeleteOrphanParts removes dictionary parts created before olderThan that no
// line links to. It returns the number of deleted parts.
func (r *Repo) DeleteOrphanParts(ctx context.Context, olderThan time.Time) (int64, error) {
	tag, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, deleteOrphanPartsSQL, olderThan)
	if err != nil {
		return 0, postgres.MapError(err, "ability_parts", "orphans")
	}
	return tag.RowsAffected(), nil
}

// ---------------------------------------------------------------------------
// Facet listing
// ---------------------------------------------------------------------------

type facetRow struct {
	ID         uuid.UUID `db:"id"`
	Text       string    `db:"text"`
	IsSupport  bool      `db:"is_support"`
	UsageCount int       `db:"usage_count"`
}

// ListFacets returns parts linked with the given kind, most used first.
// Parts no line links to are omitted.
func (r *Repo) ListFacets(ctx context.Context, kind domain.FacetKind, filter domain.FacetFilter) ([]domain.FacetUsage, error) {
	qb := psql.
		Select("p.id", "p.text", "p.is_support", "count(lp.line_id) AS usage_count").
		From("ability_parts p").
		Join("ability_line_parts lp ON lp.part_id = p.id").
		Where(sq.Eq{"lp.kind": string(kind)}).
		GroupBy("p.id", "p.text", "p.is_support").
		OrderBy("usage_count DESC", "p.text ASC", "p.id ASC")

	if !filter.IncludeSupport {
		qb = qb.Where(sq.Eq{"p.is_support": false})
	}
	if filter.Search != nil && *filter.Search != "" {
		qb = qb.Where(sq.ILike{"p.text": postgres.ContainsPattern(*filter.Search)})
	}
	if filter.Limit > 0 {
		qb = qb.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		qb = qb.Offset(uint64(filter.Offset))
	}

	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build facets query: %w", err)
	}

	var rows []facetRow
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &rows, query, args...); err != nil {
		return nil, postgres.MapError(err, "facets", string(kind))
	}

	out := make([]domain.FacetUsage, len(rows))
	for i, row := range rows {
		out[i] = domain.FacetUsage{
			ID:         row.ID,
			Text:       row.Text,
			Kind:       kind.PartKind(),
			IsSupport:  row.IsSupport,
			UsageCount: row.UsageCount,
		}
	}
	return out, nil
}
