package indexing

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	pipeline "github.com/Taum/marketbot-sub000/internal/ability"
	"github.com/Taum/marketbot-sub000/internal/domain"
)

// Reindex re-segments one card and stores the result in a single transaction.
// Running it twice on unchanged text reports every line as unchanged.
func (s *Service) Reindex(ctx context.Context, cardID uuid.UUID) (domain.ReindexResult, error) {
	var result domain.ReindexResult

	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		text, err := s.cards.GetTextByID(ctx, cardID)
		if err != nil {
			return err
		}

		seg := pipeline.Segment(text.CardID, text.MainText, text.EchoText)
		result, err = s.persist(ctx, []pipeline.Segmentation{seg}, pipeline.NewPartMemo())
		if err != nil {
			return err
		}
		return s.cards.MarkIndexed(ctx, []uuid.UUID{cardID}, s.now())
	})
	if err != nil {
		return domain.ReindexResult{}, fmt.Errorf("reindex card %s: %w", cardID, err)
	}

	s.log.InfoContext(ctx, "card reindexed",
		append([]any{slog.String("card_id", cardID.String())}, resultAttrs(result)...)...)
	return result, nil
}
