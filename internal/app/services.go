package app

import (
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Taum/marketbot-sub000/internal/adapter/postgres"
	"github.com/Taum/marketbot-sub000/internal/adapter/postgres/ability"
	"github.com/Taum/marketbot-sub000/internal/adapter/postgres/card"
	"github.com/Taum/marketbot-sub000/internal/config"
	"github.com/Taum/marketbot-sub000/internal/service/indexing"
	"github.com/Taum/marketbot-sub000/internal/service/search"
)

// Services groups the application services built on one connection pool.
type Services struct {
	Indexing *indexing.Service
	Search   *search.Service
	Cards    *card.Repo
}

// NewServices wires repositories and services against pool.
func NewServices(pool *pgxpool.Pool, cfg *config.Config, logger *slog.Logger) *Services {
	cards := card.New(pool)
	abilities := ability.New(pool)
	tx := postgres.NewTxManager(pool)

	return &Services{
		Indexing: indexing.NewService(logger, cards, abilities, abilities, tx, cfg.Indexer),
		Search:   search.NewService(logger, cards, abilities, abilities, cfg.Search),
		Cards:    cards,
	}
}
