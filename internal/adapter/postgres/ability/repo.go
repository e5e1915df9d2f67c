// Package ability implements the facet dictionary and the line/link store
// using PostgreSQL.
package ability

import (
	sq "github.com/Masterminds/squirrel"

	postgres "github.com/Taum/marketbot-sub000/internal/adapter/postgres"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Repo provides ability part and line persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new ability repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}
