// Command indexer segments card ability text into the facet dictionary and
// maintains the index. It is intended to run after each crawl and on demand.
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Taum/marketbot-sub000/internal/adapter/postgres"
	"github.com/Taum/marketbot-sub000/internal/app"
	"github.com/Taum/marketbot-sub000/internal/config"
)

// CLI defines the command-line interface.
var CLI struct {
	Config string `name:"config" short:"c" type:"path" env:"CONFIG_PATH" help:"Config file (default: ./config.yaml)"`

	Migrate MigrateCmd `cmd:"" help:"Apply pending database migrations"`
	Run     RunCmd     `cmd:"" help:"Index cards in keyset pages"`
	Card    CardCmd    `cmd:"" help:"Re-index a single card and print the changes"`
	Facets  FacetsCmd  `cmd:"" help:"List facet dictionary entries by usage"`
	Prune   PruneCmd   `cmd:"" help:"Delete dictionary entries no line links to"`
	Token   TokenCmd   `cmd:"" help:"Mint an admin bearer token for the reindex endpoint"`
}

// env carries what every command needs. The pool is opened on first use so
// commands without database access do not require one.
type env struct {
	ctx    context.Context
	cfg    *config.Config
	logger *slog.Logger
	db     *pgxpool.Pool
}

func (e *env) pool() (*pgxpool.Pool, error) {
	if e.db != nil {
		return e.db, nil
	}
	pool, err := postgres.NewPool(e.ctx, e.cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	e.db = pool
	return pool, nil
}

func (e *env) services() (*app.Services, error) {
	pool, err := e.pool()
	if err != nil {
		return nil, err
	}
	return app.NewServices(pool, e.cfg, e.logger), nil
}

func (e *env) close() {
	if e.db != nil {
		e.db.Close()
	}
}

func main() {
	kctx := kong.Parse(&CLI,
		kong.Name("indexer"),
		kong.Description("Card ability indexing tool"),
		kong.UsageOnError(),
	)

	cfg, err := config.LoadFile(CLI.Config)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	e := &env{ctx: ctx, cfg: cfg, logger: app.NewLogger(cfg.Log)}
	err = kctx.Run(e)
	e.close()
	if err != nil {
		e.logger.Error("command failed",
			slog.String("command", kctx.Command()),
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}
}
