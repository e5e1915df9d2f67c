// Package indexing segments card rules text into ability lines and keeps the
// stored lines, parts and links in sync with it.
package indexing

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	pipeline "github.com/Taum/marketbot-sub000/internal/ability"
	"github.com/Taum/marketbot-sub000/internal/config"
	"github.com/Taum/marketbot-sub000/internal/domain"
)

// cardRepo defines the card reads and writes needed by the indexer.
type cardRepo interface {
	GetTextByID(ctx context.Context, id uuid.UUID) (*domain.CardText, error)
	ListTextsPage(ctx context.Context, after uuid.UUID, limit int, onlyStale bool) ([]domain.CardText, error)
	MarkIndexed(ctx context.Context, ids []uuid.UUID, at time.Time) error
}

// partDictionary resolves part keys to dictionary ids, creating missing parts.
type partDictionary interface {
	ResolveParts(ctx context.Context, keys []domain.PartKey) (map[domain.PartKey]uuid.UUID, error)
}

// lineStore reads and writes ability lines with their links.
type lineStore interface {
	GetLinesByCardIDs(ctx context.Context, cardIDs []uuid.UUID) ([]domain.AbilityLine, error)
	ApplyPlan(ctx context.Context, plan pipeline.LinePlan) error
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service implements card ability indexing.
type Service struct {
	log   *slog.Logger
	cards cardRepo
	parts partDictionary
	lines lineStore
	tx    txManager
	cfg   config.IndexerConfig
	now   func() time.Time
}

// NewService creates a new indexing service.
func NewService(
	logger *slog.Logger,
	cards cardRepo,
	parts partDictionary,
	lines lineStore,
	tx txManager,
	cfg config.IndexerConfig,
) *Service {
	return &Service{
		log:   logger.With("service", "indexing"),
		cards: cards,
		parts: parts,
		lines: lines,
		tx:    tx,
		cfg:   cfg,
		now:   time.Now,
	}
}

// persist resolves the parts of the given segmentations through memo, diffs
// them against the stored lines and applies the changes. It must run inside a
// transaction.
func (s *Service) persist(ctx context.Context, segs []pipeline.Segmentation, memo *pipeline.PartMemo) (domain.ReindexResult, error) {
	var result domain.ReindexResult
	if len(segs) == 0 {
		return result, nil
	}

	if missing := missingKeys(segs, memo); len(missing) > 0 {
		ids, err := s.parts.ResolveParts(ctx, missing)
		if err != nil {
			return result, fmt.Errorf("resolve parts: %w", err)
		}
		for k, id := range ids {
			memo.Store(k, id)
		}
	}

	cardIDs := make([]uuid.UUID, len(segs))
	for i, seg := range segs {
		cardIDs[i] = seg.CardID
	}
	existing, err := s.lines.GetLinesByCardIDs(ctx, cardIDs)
	if err != nil {
		return result, fmt.Errorf("load lines: %w", err)
	}
	byCard := make(map[uuid.UUID][]domain.AbilityLine, len(segs))
	for _, l := range existing {
		byCard[l.CardID] = append(byCard[l.CardID], l)
	}

	var plan pipeline.LinePlan
	unparsed := 0
	for _, seg := range segs {
		for _, l := range seg.Unparsed() {
			unparsed++
			s.log.WarnContext(ctx, "unparsed ability line",
				slog.String("card_id", seg.CardID.String()),
				slog.Int("line_number", l.LineNumber),
				slog.Bool("is_support", l.IsSupport),
				slog.String("text", l.Text),
			)
		}

		next, err := seg.Resolve(memo)
		if err != nil {
			return result, err
		}
		plan.Merge(pipeline.DiffLines(byCard[seg.CardID], next))
	}

	if err := s.lines.ApplyPlan(ctx, plan); err != nil {
		return result, fmt.Errorf("apply line plan: %w", err)
	}

	result = plan.Summary()
	result.LinesUnparsed = unparsed
	return result, nil
}

// missingKeys returns the distinct part keys of segs that memo cannot resolve.
func missingKeys(segs []pipeline.Segmentation, memo *pipeline.PartMemo) []domain.PartKey {
	seen := make(map[domain.PartKey]struct{})
	var keys []domain.PartKey
	for _, seg := range segs {
		for _, k := range seg.PartKeys() {
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
			keys = append(keys, k)
		}
	}
	return memo.Missing(keys)
}

func resultAttrs(r domain.ReindexResult) []any {
	return []any{
		slog.Int("lines_created", r.LinesCreated),
		slog.Int("lines_updated", r.LinesUpdated),
		slog.Int("lines_unchanged", r.LinesUnchanged),
		slog.Int("lines_deleted", r.LinesDeleted),
		slog.Int("lines_unparsed", r.LinesUnparsed),
		slog.Int("links_created", r.LinksCreated),
		slog.Int("links_deleted", r.LinksDeleted),
	}
}
