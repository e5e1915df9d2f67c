package indexing

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	pipeline "github.com/Taum/marketbot-sub000/internal/ability"
	"github.com/Taum/marketbot-sub000/internal/domain"
)

// BatchOptions controls a batch run. Zero PageSize uses the configured page
// size; zero Limit indexes every selected card.
type BatchOptions struct {
	PageSize  int
	OnlyStale bool
	Limit     int
}

// DefaultBatchOptions returns the options configured for the indexer.
func (s *Service) DefaultBatchOptions() BatchOptions {
	return BatchOptions{PageSize: s.cfg.PageSize, OnlyStale: !s.cfg.ReindexAll}
}

// RunBatch indexes cards page by page in id order. Each page is segmented
// concurrently and persisted in its own transaction. Part ids resolved by a
// page are shared with later pages only after the page commits. The first
// failing page stops the run; the error names the cursor the page started
// after, and pages committed before it stay committed.
func (s *Service) RunBatch(ctx context.Context, opts BatchOptions) (domain.BatchResult, error) {
	var result domain.BatchResult
	if opts.PageSize <= 0 {
		opts.PageSize = s.cfg.PageSize
	}

	memo := pipeline.NewPartMemo()
	after := uuid.Nil

	for {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		limit := opts.PageSize
		if opts.Limit > 0 {
			remaining := opts.Limit - result.Cards
			if remaining <= 0 {
				break
			}
			limit = min(limit, remaining)
		}

		texts, err := s.cards.ListTextsPage(ctx, after, limit, opts.OnlyStale)
		if err != nil {
			return result, fmt.Errorf("list cards after %s: %w", after, err)
		}
		if len(texts) == 0 {
			break
		}

		page, err := s.indexPage(ctx, texts, memo)
		if err != nil {
			return result, fmt.Errorf("index page after %s: %w", after, err)
		}

		result.Add(page)
		result.Cards += len(texts)
		result.Pages++
		after = texts[len(texts)-1].CardID

		s.log.InfoContext(ctx, "page indexed",
			append([]any{slog.Int("page", result.Pages), slog.Int("cards", len(texts))}, resultAttrs(page)...)...)

		if len(texts) < limit {
			break
		}
	}

	s.log.InfoContext(ctx, "batch finished",
		append([]any{slog.Int("pages", result.Pages), slog.Int("cards", result.Cards)}, resultAttrs(result.ReindexResult)...)...)
	return result, nil
}

func (s *Service) indexPage(ctx context.Context, texts []domain.CardText, memo *pipeline.PartMemo) (domain.ReindexResult, error) {
	segs := make([]pipeline.Segmentation, len(texts))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(s.cfg.SegmentWorkers, 1))
	for i, t := range texts {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			segs[i] = pipeline.Segment(t.CardID, t.MainText, t.EchoText)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return domain.ReindexResult{}, err
	}

	ids := make([]uuid.UUID, len(texts))
	for i, t := range texts {
		ids[i] = t.CardID
	}

	pageMemo := memo.Fork()
	var result domain.ReindexResult
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		result, err = s.persist(ctx, segs, pageMemo)
		if err != nil {
			return err
		}
		return s.cards.MarkIndexed(ctx, ids, s.now())
	})
	if err != nil {
		return domain.ReindexResult{}, err
	}

	pageMemo.Commit()
	return result, nil
}
