package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Taum/marketbot-sub000/internal/config"
)

func TestPoolConfig_RuntimeParams(t *testing.T) {
	t.Parallel()

	cfg, err := poolConfig(config.DatabaseConfig{
		DSN:              "postgres://u:p@localhost:5432/cards",
		MaxConns:         8,
		MinConns:         1,
		ApplicationName:  "indexer",
		StatementTimeout: 1500 * time.Millisecond,
	})
	require.NoError(t, err)

	assert.EqualValues(t, 8, cfg.MaxConns)
	assert.EqualValues(t, 1, cfg.MinConns)
	assert.Equal(t, "indexer", cfg.ConnConfig.RuntimeParams["application_name"])
	assert.Equal(t, "1500", cfg.ConnConfig.RuntimeParams["statement_timeout"])
}

func TestPoolConfig_NoTimeout(t *testing.T) {
	t.Parallel()

	cfg, err := poolConfig(config.DatabaseConfig{DSN: "postgres://u:p@localhost:5432/cards"})
	require.NoError(t, err)
	assert.NotContains(t, cfg.ConnConfig.RuntimeParams, "statement_timeout")
}

func TestPoolConfig_BadDSN(t *testing.T) {
	t.Parallel()

	_, err := poolConfig(config.DatabaseConfig{DSN: "postgres://u:p@localhost:notaport/cards"})
	assert.Error(t, err)
}
