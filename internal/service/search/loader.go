package search

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/graph-gophers/dataloader/v7"

	"github.com/Taum/marketbot-sub000/internal/domain"
)

const (
	maxBatch = 100
	wait     = 2 * time.Millisecond
)

// newLinesLoader returns a loader batching ability line reads by card id into
// queries of at most maxBatch cards. Loaders cache results and must not
// outlive a single call.
func newLinesLoader(repo lineRepo) *dataloader.Loader[uuid.UUID, []domain.AbilityLine] {
	return dataloader.NewBatchedLoader(
		newLinesBatchFn(repo),
		dataloader.WithWait[uuid.UUID, []domain.AbilityLine](wait),
		dataloader.WithBatchCapacity[uuid.UUID, []domain.AbilityLine](maxBatch),
	)
}

func newLinesBatchFn(repo lineRepo) dataloader.BatchFunc[uuid.UUID, []domain.AbilityLine] {
	return func(ctx context.Context, keys []uuid.UUID) []*dataloader.Result[[]domain.AbilityLine] {
		lines, err := repo.GetLinesByCardIDs(ctx, keys)
		if err != nil {
			return errorResults[[]domain.AbilityLine](len(keys), err)
		}

		grouped := make(map[uuid.UUID][]domain.AbilityLine, len(keys))
		for _, l := range lines {
			grouped[l.CardID] = append(grouped[l.CardID], l)
		}

		return mapResults(keys, grouped, emptySlice[domain.AbilityLine])
	}
}

// loadLines returns the ability lines of every card, in card order.
func (s *Service) loadLines(ctx context.Context, cardIDs []uuid.UUID) ([][]domain.AbilityLine, error) {
	if len(cardIDs) == 0 {
		return nil, nil
	}
	lines, errs := newLinesLoader(s.lines).LoadMany(ctx, cardIDs)()
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return lines, nil
}

// errorResults returns n results all carrying the same error.
func errorResults[V any](n int, err error) []*dataloader.Result[V] {
	results := make([]*dataloader.Result[V], n)
	for i := range results {
		results[i] = &dataloader.Result[V]{Error: err}
	}
	return results
}

// mapResults maps grouped results back to key order, using defaultFn for missing keys.
func mapResults[V any](keys []uuid.UUID, grouped map[uuid.UUID]V, defaultFn func() V) []*dataloader.Result[V] {
	results := make([]*dataloader.Result[V], len(keys))
	for i, key := range keys {
		if v, ok := grouped[key]; ok {
			results[i] = &dataloader.Result[V]{Data: v}
		} else {
			results[i] = &dataloader.Result[V]{Data: defaultFn()}
		}
	}
	return results
}

// emptySlice returns a non-nil empty slice.
func emptySlice[T any]() []T {
	return []T{}
}
