package recommend

import (
	"context"
	"fmt"
	"sync"

	"github.com/kailas-cloud/bookrec/internal/domain"
)

// Batch limits. Each query in a batch gets a trimmed result list so the
// combined payload stays small.
const (
	MaxBatchQueries      = 10
	batchResultsPerQuery = 5
)

// BatchItem is the outcome for one query in a batch, in input order.
type BatchItem struct {
	Response Response
	Err      error
}

// RecommendBatch runs up to MaxBatchQueries queries concurrently and
// reports per-query outcomes. One failing query never fails the batch.
func (s *Service) RecommendBatch(ctx context.Context, queries []string, prefs domain.Preferences) ([]BatchItem, error) {
	if len(queries) == 0 {
		return nil, fmt.Errorf("%w: empty batch", domain.ErrInvalidQuery)
	}
	if len(queries) > MaxBatchQueries {
		return nil, fmt.Errorf("%w: batch exceeds %d queries", domain.ErrInvalidQuery, MaxBatchQueries)
	}

	batchPrefs := prefs
	if batchPrefs.MaxResults <= 0 || batchPrefs.MaxResults > batchResultsPerQuery {
		batchPrefs.MaxResults = batchResultsPerQuery
	}

	items := make([]BatchItem, len(queries))
	var wg sync.WaitGroup
	for i, q := range queries {
		wg.Add(1)
		go func(i int, q string) {
			defer wg.Done()
			resp, err := s.Recommend(ctx, q, batchPrefs)
			items[i] = BatchItem{Response: resp, Err: err}
		}(i, q)
	}
	wg.Wait()

	return items, nil
}
