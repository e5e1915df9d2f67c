// Package card implements card reads and the faceted card search using
// PostgreSQL.
package card

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

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const stalePredicate = "(abilities_indexed_at IS NULL OR abilities_indexed_at < updated_at)"

// Repo provides card persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new card repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

// ---------------------------------------------------------------------------
// Rows
// ---------------------------------------------------------------------------

var cardColumns = []string{
	"c.id", "c.reference", "c.name", "c.faction", "c.set_code", "c.rarity", "c.subtypes",
	"c.main_cost", "c.recall_cost", "c.forest_power", "c.mountain_power", "c.ocean_power",
	"c.main_text", "c.echo_text", "c.image_url", "c.last_seen_price", "c.last_seen_at", "c.in_sale",
	"c.abilities_indexed_at", "c.created_at", "c.updated_at",
}

type cardRow struct {
	ID                 uuid.UUID  `db:"id"`
	Reference          string     `db:"reference"`
	Name               string     `db:"name"`
	Faction            string     `db:"faction"`
	SetCode            string     `db:"set_code"`
	Rarity             string     `db:"rarity"`
	Subtypes           []string   `db:"subtypes"`
	MainCost           *int       `db:"main_cost"`
	RecallCost         *int       `db:"recall_cost"`
	ForestPower        *int       `db:"forest_power"`
	MountainPower      *int       `db:"mountain_power"`
	OceanPower         *int       `db:"ocean_power"`
	MainText           *string    `db:"main_text"`
	EchoText           *string    `db:"echo_text"`
	ImageURL           *string    `db:"image_url"`
	LastSeenPrice      *float64   `db:"last_seen_price"`
	LastSeenAt         *time.Time `db:"last_seen_at"`
	InSale             bool       `db:"in_sale"`
	AbilitiesIndexedAt *time.Time `db:"abilities_indexed_at"`
	CreatedAt          time.Time  `db:"created_at"`
	UpdatedAt          time.Time  `db:"updated_at"`
}

func (r cardRow) toDomain() domain.Card {
	subtypes := r.Subtypes
	if subtypes == nil {
		subtypes = []string{}
	}
	return domain.Card{
		ID:            r.ID,
		Reference:     r.Reference,
		Name:          r.Name,
		Faction:       domain.Faction(r.Faction),
		SetCode:       r.SetCode,
		Rarity:        r.Rarity,
		Subtypes:      subtypes,
		MainCost:      r.MainCost,
		RecallCost:    r.RecallCost,
		ForestPower:   r.ForestPower,
		MountainPower: r.MountainPower,
		OceanPower:    r.OceanPower,
		MainText:      r.MainText,
		EchoText:      r.EchoText,
		ImageURL:      r.ImageURL,
		LastSeenPrice: r.LastSeenPrice,
		LastSeenAt:    r.LastSeenAt,
		InSale:        r.InSale,
		IndexedAt:     r.AbilitiesIndexedAt,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// GetByID returns a card by primary key.
// Returns domain.ErrNotFound if the card does not exist.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	query, args, err := psql.Select(cardColumns...).From("cards c").Where(sq.Eq{"c.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build card query: %w", err)
	}

	var row cardRow
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &row, query, args...); err != nil {
		return nil, postgres.MapError(err, "card", id.String())
	}
	c := row.toDomain()
	return &c, nil
}

// GetTextByID returns the ability text boxes of a card.
func (r *Repo) GetTextByID(ctx context.Context, id uuid.UUID) (*domain.CardText, error) {
	var t domain.CardText
	err := postgres.QuerierFromCtx(ctx, r.db).QueryRow(ctx,
		`SELECT id, main_text, echo_text FROM cards WHERE id = $1`, id,
	).Scan(&t.CardID, &t.MainText, &t.EchoText)
	if err != nil {
		return nil, postgres.MapError(err, "card", id.String())
	}
	return &t, nil
}

// ListTextsPage returns up to limit card texts with ids greater than after,
// ordered by id. With onlyStale, cards whose lines are newer than the card
// row are skipped.
func (r *Repo) ListTextsPage(ctx context.Context, after uuid.UUID, limit int, onlyStale bool) ([]domain.CardText, error) {
	qb := psql.Select("id", "main_text", "echo_text").
		From("cards").
		Where(sq.Gt{"id": after}).
		OrderBy("id").
		Limit(uint64(limit))
	if onlyStale {
		qb = qb.Where(stalePredicate)
	}

	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build card page query: %w", err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.db).Query(ctx, query, args...)
	if err != nil {
		return nil, postgres.MapError(err, "card page", after.String())
	}
	defer rows.Close()

	texts := make([]domain.CardText, 0, limit)
	for rows.Next() {
		var t domain.CardText
		if err := rows.Scan(&t.CardID, &t.MainText, &t.EchoText); err != nil {
			return nil, fmt.Errorf("scan card text: %w", err)
		}
		texts = append(texts, t)
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.MapError(err, "card page", after.String())
	}
	return texts, nil
}

// CountStale returns how many cards still need their abilities indexed.
func (r *Repo) CountStale(ctx context.Context) (int, error) {
	var n int
	err := postgres.QuerierFromCtx(ctx, r.db).
		QueryRow(ctx, "SELECT count(*) FROM cards WHERE "+stalePredicate).
		Scan(&n)
	if err != nil {
		return 0, postgres.MapError(err, "card", "")
	}
	return n, nil
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// MarkIndexed records when the abilities of the given cards were indexed.
func (r *Repo) MarkIndexed(ctx context.Context, ids []uuid.UUID, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx,
		`UPDATE cards SET abilities_indexed_at = $2 WHERE id = ANY($1::uuid[])`, ids, at)
	if err != nil {
		return postgres.MapError(err, "card", "")
	}
	return nil
}
