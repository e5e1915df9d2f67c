package testhelper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Taum/marketbot-sub000/internal/domain"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// CardOption customizes a seeded card.
type CardOption func(*domain.Card)

// WithText sets the main and echo boxes. Empty strings are stored as NULL.
func WithText(main, echo string) CardOption {
	return func(c *domain.Card) {
		c.MainText, c.EchoText = nil, nil
		if main != "" {
			c.MainText = &main
		}
		if echo != "" {
			c.EchoText = &echo
		}
	}
}

// WithName sets the card name.
func WithName(name string) CardOption {
	return func(c *domain.Card) { c.Name = name }
}

// WithFaction sets the card faction.
func WithFaction(f domain.Faction) CardOption {
	return func(c *domain.Card) { c.Faction = f }
}

// WithSetCode sets the set code. Tests use a unique code to scope searches.
func WithSetCode(code string) CardOption {
	return func(c *domain.Card) { c.SetCode = code }
}

// WithSubtypes sets the card subtypes.
func WithSubtypes(subtypes ...string) CardOption {
	return func(c *domain.Card) { c.Subtypes = subtypes }
}

// UniqueSetCode returns a set code no other test uses.
func UniqueSetCode() string {
	return "T" + uniqueSuffix()
}

// WithMainCost sets the main cost.
func WithMainCost(cost int) CardOption {
	return func(c *domain.Card) { c.MainCost = &cost }
}

// WithPrice sets the last seen price and marks the card in sale.
func WithPrice(price float64) CardOption {
	return func(c *domain.Card) {
		c.LastSeenPrice = &price
		c.InSale = true
	}
}

// SeedCard inserts a card with default values adjusted by opts.
func SeedCard(t *testing.T, pool *pgxpool.Pool, opts ...CardOption) domain.Card {
	t.Helper()
	ctx := context.Background()

	suffix := uniqueSuffix()
	now := time.Now().UTC().Truncate(time.Microsecond)
	main := "{J} Draw a card."
	card := domain.Card{
		ID:        uuid.New(),
		Reference: "ALT_CORE_B_AX_" + suffix,
		Name:      "Test Card " + suffix,
		Faction:   domain.FactionAxiom,
		SetCode:   "CORE",
		Rarity:    "COMMON",
		Subtypes:  []string{"Engineer"},
		MainText:  &main,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(&card)
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO cards (id, reference, name, faction, set_code, rarity, subtypes,
		                    main_cost, recall_cost, forest_power, mountain_power, ocean_power,
		                    main_text, echo_text, last_seen_price, in_sale, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`,
		card.ID, card.Reference, card.Name, string(card.Faction), card.SetCode, card.Rarity, card.Subtypes,
		card.MainCost, card.RecallCost, card.ForestPower, card.MountainPower, card.OceanPower,
		card.MainText, card.EchoText, card.LastSeenPrice, card.InSale, card.CreatedAt, card.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedCard insert: %v", err)
	}

	return card
}
