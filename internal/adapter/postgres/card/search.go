package card

import (
	"context"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	postgres "github.com/Taum/marketbot-sub000/internal/adapter/postgres"
	"github.com/Taum/marketbot-sub000/internal/domain"
	"github.com/Taum/marketbot-sub000/internal/search"
)

// textExpr is the indexed concatenation of a card's ability boxes.
const textExpr = "(coalesce(c.main_text, '') || ' ' || coalesce(c.echo_text, ''))"

type searchRow struct {
	cardRow
	TotalCount int `db:"total_count"`
}

// Search executes a compiled plan. The total is returned only when the plan
// asks for it.
func (r *Repo) Search(ctx context.Context, plan *search.Plan) ([]domain.Card, *int, error) {
	where, err := planWhere(plan)
	if err != nil {
		return nil, nil, err
	}

	qb := psql.Select(cardColumns...).
		From("cards c").
		Where(where).
		OrderBy("c.name ASC", "c.id ASC").
		Limit(uint64(plan.Limit)).
		Offset(uint64(plan.Offset))
	if plan.IncludeTotal {
		qb = qb.Column("count(*) OVER() AS total_count")
	}

	query, args, err := qb.ToSql()
	if err != nil {
		return nil, nil, fmt.Errorf("build search query: %w", err)
	}

	q := postgres.QuerierFromCtx(ctx, r.db)

	var rows []searchRow
	if err := pgxscan.Select(ctx, q, &rows, query, args...); err != nil {
		return nil, nil, postgres.MapError(err, "card search", "")
	}

	cards := make([]domain.Card, len(rows))
	for i, row := range rows {
		cards[i] = row.toDomain()
	}

	if !plan.IncludeTotal {
		return cards, nil, nil
	}
	if len(rows) > 0 {
		total := rows[0].TotalCount
		return cards, &total, nil
	}
	if plan.Offset == 0 {
		total := 0
		return cards, &total, nil
	}

	// Past the last page the window yields no row to read the total from.
	countQuery, countArgs, err := psql.Select("count(*)").From("cards c").Where(where).ToSql()
	if err != nil {
		return nil, nil, fmt.Errorf("build search count query: %w", err)
	}
	var total int
	if err := q.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, nil, postgres.MapError(err, "card search", "")
	}
	return cards, &total, nil
}

// planWhere renders every filter of the plan into a single conjunction.
func planWhere(plan *search.Plan) (sq.And, error) {
	where := sq.And{}

	if len(plan.Combinations) > 0 {
		var combos []sq.Sqlizer
		for _, set := range plan.Combinations {
			sql, args, err := renderLineSet(set, plan.IncludeSupport)
			if err != nil {
				return nil, err
			}
			combos = append(combos, sq.Expr(
				"EXISTS (SELECT 1 FROM ability_lines al WHERE al.card_id = c.id AND al.id IN ("+sql+"))",
				args...,
			))
		}
		if plan.MatchAll {
			where = append(where, sq.And(combos))
		} else {
			where = append(where, sq.Or(combos))
		}
	}

	if plan.Name != nil {
		where = append(where, nameFilter(plan.Name)...)
	}
	if plan.CardText != nil {
		where = append(where, textFilter(plan.CardText)...)
	}

	return append(where, scalarFilters(plan.Query)...), nil
}

// nameFilter matches any positive token and none of the negative ones.
func nameFilter(f *search.TextFilter) sq.And {
	var out sq.And
	if len(f.Include) > 0 {
		anyOf := sq.Or{}
		for _, tok := range f.Include {
			anyOf = append(anyOf, sq.ILike{"c.name": postgres.ContainsPattern(tok)})
		}
		out = append(out, anyOf)
	}
	for _, tok := range f.Exclude {
		out = append(out, sq.NotILike{"c.name": postgres.ContainsPattern(tok)})
	}
	return out
}

// textFilter requires every positive token and no negative token in the
// card's ability text. Ranked filters use ILIKE so the trigram index on the
// text expression applies; substring filters scan with strpos. Both are
// case-insensitive containment.
func textFilter(f *search.TextFilter) sq.And {
	var out sq.And
	for _, tok := range f.Include {
		out = append(out, textContains(tok, f.Strategy, true))
	}
	for _, tok := range f.Exclude {
		out = append(out, textContains(tok, f.Strategy, false))
	}
	return out
}

func textContains(tok string, strategy domain.TextStrategy, want bool) sq.Sqlizer {
	if strategy == domain.TextRanked {
		if want {
			return sq.Expr(textExpr+" ILIKE ?", postgres.ContainsPattern(tok))
		}
		return sq.Expr(textExpr+" NOT ILIKE ?", postgres.ContainsPattern(tok))
	}
	if want {
		return sq.Expr("strpos(lower("+textExpr+"), lower(?)) > 0", tok)
	}
	return sq.Expr("strpos(lower("+textExpr+"), lower(?)) = 0", tok)
}

func scalarFilters(q domain.SearchQuery) sq.And {
	var out sq.And
	if len(q.Factions) > 0 {
		codes := make([]string, len(q.Factions))
		for i, f := range q.Factions {
			codes[i] = string(f)
		}
		out = append(out, sq.Eq{"c.faction": codes})
	}
	if len(q.SetCodes) > 0 {
		out = append(out, sq.Eq{"c.set_code": q.SetCodes})
	}
	if len(q.Subtypes) > 0 {
		out = append(out, sq.Expr("c.subtypes && ?::text[]", q.Subtypes))
	}
	out = appendIntRange(out, "c.main_cost", q.MainCost)
	out = appendIntRange(out, "c.recall_cost", q.RecallCost)
	out = appendIntRange(out, "c.forest_power", q.ForestPower)
	out = appendIntRange(out, "c.mountain_power", q.MountainPower)
	out = appendIntRange(out, "c.ocean_power", q.OceanPower)
	if q.Price.Min != nil {
		out = append(out, sq.GtOrEq{"c.last_seen_price": *q.Price.Min})
	}
	if q.Price.Max != nil {
		out = append(out, sq.LtOrEq{"c.last_seen_price": *q.Price.Max})
	}
	if q.InSaleOnly {
		out = append(out, sq.Eq{"c.in_sale": true})
	}
	return out
}

func appendIntRange(out sq.And, column string, r domain.IntRange) sq.And {
	if r.Min != nil {
		out = append(out, sq.GtOrEq{column: *r.Min})
	}
	if r.Max != nil {
		out = append(out, sq.LtOrEq{column: *r.Max})
	}
	return out
}

// ---------------------------------------------------------------------------
// Line set rendering
// ---------------------------------------------------------------------------

// renderLineSet renders a line set as a query returning line ids. The SQL
// uses ? placeholders and is meant to be embedded in an outer statement.
func renderLineSet(s *search.LineSet, includeSupport bool) (string, []any, error) {
	switch s.Op {
	case search.OpFacet, search.OpHasKind:
		return leafQuery(s, includeSupport).ToSql()
	case search.OpUnion:
		return joinSets(s.Children, " UNION ", includeSupport)
	case search.OpIntersect:
		return joinSets(s.Children, " INTERSECT ", includeSupport)
	case search.OpExcept:
		return joinSets(s.Children, " EXCEPT ", includeSupport)
	}
	return "", nil, fmt.Errorf("render line set: unknown op %s", s.Op)
}

func leafQuery(s *search.LineSet, includeSupport bool) sq.SelectBuilder {
	kinds := make([]string, len(s.Kinds))
	for i, k := range s.Kinds {
		kinds[i] = string(k)
	}

	qb := sq.Select("lp.line_id").
		From("ability_line_parts lp").
		Join("ability_parts p ON p.id = lp.part_id").
		Where(sq.Eq{"lp.kind": kinds})
	if !includeSupport {
		qb = qb.Where(sq.Eq{"p.is_support": false})
	}
	if s.Op == search.OpHasKind {
		return qb
	}

	for _, tok := range s.AllOf {
		qb = qb.Where(sq.ILike{"p.text": postgres.ContainsPattern(tok)})
	}
	for _, tok := range s.NoneOf {
		qb = qb.Where(sq.NotILike{"p.text": postgres.ContainsPattern(tok)})
	}
	if len(s.AnyOf) > 0 {
		anyOf := sq.Or{}
		for _, tok := range s.AnyOf {
			anyOf = append(anyOf, sq.ILike{"p.text": postgres.ContainsPattern(tok)})
		}
		qb = qb.Where(anyOf)
	}
	return qb
}

func joinSets(children []*search.LineSet, op string, includeSupport bool) (string, []any, error) {
	if len(children) == 0 {
		return "", nil, fmt.Errorf("render line set: empty%s", strings.ToLower(op))
	}
	parts := make([]string, len(children))
	var args []any
	for i, c := range children {
		sql, a, err := renderLineSet(c, includeSupport)
		if err != nil {
			return "", nil, err
		}
		parts[i] = "(" + sql + ")"
		args = append(args, a...)
	}
	return strings.Join(parts, op), args, nil
}
