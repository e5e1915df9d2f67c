package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"

	"github.com/Taum/marketbot-sub000/internal/adapter/postgres"
	"github.com/Taum/marketbot-sub000/internal/adapter/postgres/ability"
	"github.com/Taum/marketbot-sub000/internal/auth"
	"github.com/Taum/marketbot-sub000/internal/domain"
	"github.com/Taum/marketbot-sub000/internal/service/search"
)

// MigrateCmd applies the embedded migrations.
type MigrateCmd struct{}

func (c *MigrateCmd) Run(e *env) error {
	pool, err := e.pool()
	if err != nil {
		return err
	}
	return postgres.Migrate(e.ctx, pool, e.logger)
}

// RunCmd indexes cards page by page.
type RunCmd struct {
	PageSize int  `name:"page-size" help:"Cards per page and transaction (default from config)"`
	All      bool `name:"all" help:"Re-index every card, not only stale ones"`
	Limit    int  `name:"limit" help:"Stop after this many cards (0 = no limit)"`
}

func (c *RunCmd) Run(e *env) error {
	svcs, err := e.services()
	if err != nil {
		return err
	}

	opts := svcs.Indexing.DefaultBatchOptions()
	if c.PageSize > 0 {
		opts.PageSize = c.PageSize
	}
	if c.All {
		opts.OnlyStale = false
	}
	opts.Limit = c.Limit

	start := time.Now()
	res, err := svcs.Indexing.RunBatch(e.ctx, opts)
	if err != nil {
		return err
	}

	e.logger.Info("indexing completed",
		slog.Int("cards", res.Cards),
		slog.Int("pages", res.Pages),
		slog.Int("lines_created", res.LinesCreated),
		slog.Int("lines_updated", res.LinesUpdated),
		slog.Int("lines_deleted", res.LinesDeleted),
		slog.Int("lines_unparsed", res.LinesUnparsed),
		slog.Duration("elapsed", time.Since(start)),
	)
	return nil
}

// CardCmd re-indexes one card.
type CardCmd struct {
	ID string `arg:"" help:"Card id"`
}

func (c *CardCmd) Run(e *env) error {
	id, err := uuid.Parse(c.ID)
	if err != nil {
		return fmt.Errorf("card id %q: %w", c.ID, err)
	}

	svcs, err := e.services()
	if err != nil {
		return err
	}

	res, err := svcs.Indexing.Reindex(e.ctx, id)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "lines created\t%d\n", res.LinesCreated)
	fmt.Fprintf(w, "lines updated\t%d\n", res.LinesUpdated)
	fmt.Fprintf(w, "lines unchanged\t%d\n", res.LinesUnchanged)
	fmt.Fprintf(w, "lines deleted\t%d\n", res.LinesDeleted)
	fmt.Fprintf(w, "lines unparsed\t%d\n", res.LinesUnparsed)
	fmt.Fprintf(w, "links created\t%d\n", res.LinksCreated)
	fmt.Fprintf(w, "links deleted\t%d\n", res.LinksDeleted)
	return w.Flush()
}

// FacetsCmd prints the facet usage list of one kind.
type FacetsCmd struct {
	Kind           string `arg:"" enum:"trigger,condition,effect,extra_effect" help:"Facet kind"`
	Search         string `name:"search" help:"Only entries containing this text"`
	IncludeSupport bool   `name:"include-support" help:"Include echo box entries"`
	Limit          int    `name:"limit" default:"50" help:"Maximum entries"`
}

func (c *FacetsCmd) Run(e *env) error {
	svcs, err := e.services()
	if err != nil {
		return err
	}

	in := search.FacetsInput{
		Kind:   domain.FacetKind(c.Kind),
		Filter: domain.FacetFilter{IncludeSupport: c.IncludeSupport, Limit: c.Limit},
	}
	if c.Search != "" {
		in.Filter.Search = &c.Search
	}

	facets, err := svcs.Search.ListFacets(e.ctx, in)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "USES\tSUPPORT\tTEXT")
	for _, f := range facets {
		fmt.Fprintf(w, "%d\t%t\t%s\n", f.UsageCount, f.IsSupport, f.Text)
	}
	return w.Flush()
}

// PruneCmd deletes unreferenced dictionary entries. Entries younger than the
// grace period are kept so a concurrent indexing run can still link them.
type PruneCmd struct {
	Grace time.Duration `name:"grace" default:"24h" help:"Keep entries created within this period"`
}

func (c *PruneCmd) Run(e *env) error {
	pool, err := e.pool()
	if err != nil {
		return err
	}

	threshold := time.Now().Add(-c.Grace)
	deleted, err := ability.New(pool).DeleteOrphanParts(e.ctx, threshold)
	if err != nil {
		return err
	}

	e.logger.Info("orphan parts deleted",
		slog.Int64("deleted", deleted),
		slog.Time("threshold", threshold),
	)
	return nil
}

// TokenCmd prints an admin token signed with the configured secret.
type TokenCmd struct {
	Operator string `arg:"" help:"Operator name recorded in reindex logs"`
}

func (c *TokenCmd) Run(e *env) error {
	if !e.cfg.Auth.AdminEnabled() {
		return errors.New("auth.admin_jwt_secret is not configured")
	}

	jwt := auth.NewJWTManager(e.cfg.Auth.AdminJWTSecret, e.cfg.Auth.JWTIssuer, e.cfg.Auth.AdminTokenTTL)
	token, err := jwt.GenerateAdminToken(c.Operator)
	if err != nil {
		return err
	}
	fmt.Println(token)
	return nil
}
