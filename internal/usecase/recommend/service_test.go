package recommend

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/bookrec/internal/domain"
	"github.com/kailas-cloud/bookrec/internal/usecase/enhance"
)

type stubExtractor struct {
	features domain.FeatureBundle
}

func (s *stubExtractor) Extract(string) domain.FeatureBundle { return s.features }

type stubRanker struct {
	candidates []domain.ScoredCandidate
	err        error
	block      bool
	calls      int
	lastTopK   int
}

func (s *stubRanker) Rank(ctx context.Context, _ string, topK int) ([]domain.ScoredCandidate, error) {
	s.calls++
	s.lastTopK = topK
	if s.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if topK > 0 && len(s.candidates) > topK {
		return s.candidates[:topK], s.err
	}
	return s.candidates, s.err
}

type stubCache struct {
	entries map[string][]domain.EnhancedResult
	puts    int
}

func newStubCache() *stubCache {
	return &stubCache{entries: make(map[string][]domain.EnhancedResult)}
}

func (s *stubCache) Get(_ context.Context, key string) ([]domain.EnhancedResult, bool) {
	results, ok := s.entries[key]
	return results, ok
}

func (s *stubCache) Put(_ context.Context, key string, results []domain.EnhancedResult) {
	s.puts++
	s.entries[key] = results
}

func rankedBooks() []domain.ScoredCandidate {
	return []domain.ScoredCandidate{
		{Book: domain.Book{ID: "1", Title: "A", Genre: "Mystery", Rating: 4.5}, Similarity: 0.9},
		{Book: domain.Book{ID: "2", Title: "B", Genre: "Mystery", Rating: 3.5}, Similarity: 0.7},
		{Book: domain.Book{ID: "3", Title: "C", Genre: "Romance", Rating: 4.8}, Similarity: 0.5},
	}
}

func newService(rank Ranker, cache Cache, opts ...Option) *Service {
	return New(&stubExtractor{}, rank, enhance.New(), cache, zap.NewNop(), opts...)
}

func TestRecommend_SuccessPath(t *testing.T) {
	ranker := &stubRanker{candidates: rankedBooks()}
	cache := newStubCache()
	svc := newService(ranker, cache)

	resp, err := svc.Recommend(context.Background(), "mystery novels", domain.Preferences{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Fallback || resp.FromCache {
		t.Error("success path must not be marked fallback or cached")
	}
	if len(resp.Results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(resp.Results))
	}
	for i, want := range []string{"1", "2", "3"} {
		if resp.Results[i].ID != want {
			t.Errorf("position %d: expected book %s, got %s", i, want, resp.Results[i].ID)
		}
	}
	if cache.puts != 1 {
		t.Errorf("expected 1 cache put, got %d", cache.puts)
	}
}

func TestRecommend_CacheHitSkipsBackend(t *testing.T) {
	ranker := &stubRanker{candidates: rankedBooks()}
	cache := newStubCache()
	svc := newService(ranker, cache)

	if _, err := svc.Recommend(context.Background(), "mystery novels", domain.Preferences{}); err != nil {
		t.Fatal(err)
	}

	resp, err := svc.Recommend(context.Background(), "Mystery  Novels", domain.Preferences{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !resp.FromCache {
		t.Error("expected second, case-variant request to hit the cache")
	}
	if ranker.calls != 1 {
		t.Errorf("expected backend called once, got %d", ranker.calls)
	}
}

func TestRecommend_FallbackOnBackendUnavailable(t *testing.T) {
	ranker := &stubRanker{err: fmt.Errorf("connect: %w", domain.ErrBackendUnavailable)}
	cache := newStubCache()
	svc := newService(ranker, cache)

	resp, err := svc.Recommend(context.Background(), "mystery novels", domain.Preferences{})
	if err != nil {
		t.Fatalf("backend outage must degrade, not fail: %v", err)
	}
	if !resp.Fallback {
		t.Error("expected fallback response")
	}
	if len(resp.Results) == 0 {
		t.Error("fallback response must carry recommendations")
	}
	if cache.puts != 0 {
		t.Error("fallback responses must never be cached")
	}
}

func TestRecommend_FallbackOnTimeout(t *testing.T) {
	ranker := &stubRanker{block: true}
	svc := newService(ranker, newStubCache(), WithTimeout(20*time.Millisecond))

	resp, err := svc.Recommend(context.Background(), "mystery novels", domain.Preferences{})
	if err != nil {
		t.Fatalf("backend timeout must degrade, not fail: %v", err)
	}
	if !resp.Fallback {
		t.Error("expected fallback response after timeout")
	}
}

func TestRecommend_RejectedPassesThrough(t *testing.T) {
	ranker := &stubRanker{err: fmt.Errorf("%w: model not found", domain.ErrBackendRejected)}
	svc := newService(ranker, newStubCache())

	_, err := svc.Recommend(context.Background(), "mystery novels", domain.Preferences{})
	if !errors.Is(err, domain.ErrBackendRejected) {
		t.Fatalf("expected ErrBackendRejected, got %v", err)
	}
}

func TestRecommend_InvalidQuery(t *testing.T) {
	ranker := &stubRanker{candidates: rankedBooks()}
	svc := newService(ranker, newStubCache())

	if _, err := svc.Recommend(context.Background(), "a", domain.Preferences{}); !errors.Is(err, domain.ErrInvalidQuery) {
		t.Errorf("expected ErrInvalidQuery, got %v", err)
	}
	if ranker.calls != 0 {
		t.Error("invalid query must not reach the backend")
	}
}

func TestRecommend_PreferenceFilters(t *testing.T) {
	svc := newService(&stubRanker{candidates: rankedBooks()}, newStubCache())

	resp, err := svc.Recommend(context.Background(), "good books",
		domain.Preferences{MinRating: 4.0, Genres: []string{"mystery"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resp.Results) != 1 {
		t.Fatalf("expected 1 result after filtering, got %d", len(resp.Results))
	}
	if resp.Results[0].ID != "1" {
		t.Errorf("expected book 1 to survive filters, got %s", resp.Results[0].ID)
	}
}

func TestRecommend_MaxResultsTruncates(t *testing.T) {
	svc := newService(&stubRanker{candidates: rankedBooks()}, newStubCache())

	resp, err := svc.Recommend(context.Background(), "good books", domain.Preferences{MaxResults: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resp.Results) != 2 {
		t.Errorf("expected 2 results, got %d", len(resp.Results))
	}
}

func TestRecommend_FiltersDoNotBackfillBeyondMaxResults(t *testing.T) {
	// The ranker is asked for exactly maxResults candidates; preference
	// filters then narrow that window. Lower-ranked books never fill the
	// gap left by filtered-out results.
	ranker := &stubRanker{candidates: rankedBooks()}
	svc := newService(ranker, newStubCache())

	resp, err := svc.Recommend(context.Background(), "good books",
		domain.Preferences{MaxResults: 2, MinRating: 4.0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ranker.lastTopK != 2 {
		t.Errorf("expected ranker asked for 2 candidates, got %d", ranker.lastTopK)
	}
	if len(resp.Results) != 1 {
		t.Fatalf("expected 1 result (rank 2 filtered, rank 3 not backfilled), got %d", len(resp.Results))
	}
	if resp.Results[0].ID != "1" {
		t.Errorf("expected book 1, got %s", resp.Results[0].ID)
	}
}

func TestRecommendBatch_OrderAndLimits(t *testing.T) {
	svc := newService(&stubRanker{candidates: rankedBooks()}, newStubCache())

	queries := []string{"mystery novels", "a", "romance books"}
	items, err := svc.RecommendBatch(context.Background(), queries, domain.Preferences{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	if items[0].Err != nil || items[2].Err != nil {
		t.Error("valid queries must succeed")
	}
	if !errors.Is(items[1].Err, domain.ErrInvalidQuery) {
		t.Errorf("expected per-item invalid query error, got %v", items[1].Err)
	}
	if items[0].Response.Query != "mystery novels" {
		t.Error("batch results must preserve input order")
	}
	for _, item := range items {
		if len(item.Response.Results) > batchResultsPerQuery {
			t.Errorf("batch items are capped at %d results, got %d",
				batchResultsPerQuery, len(item.Response.Results))
		}
	}
}

func TestRecommendBatch_RejectsOversizedBatch(t *testing.T) {
	svc := newService(&stubRanker{candidates: rankedBooks()}, newStubCache())

	queries := make([]string, MaxBatchQueries+1)
	for i := range queries {
		queries[i] = "mystery novels"
	}

	if _, err := svc.RecommendBatch(context.Background(), queries, domain.Preferences{}); !errors.Is(err, domain.ErrInvalidQuery) {
		t.Errorf("expected ErrInvalidQuery for oversized batch, got %v", err)
	}

	if _, err := svc.RecommendBatch(context.Background(), nil, domain.Preferences{}); !errors.Is(err, domain.ErrInvalidQuery) {
		t.Errorf("expected ErrInvalidQuery for empty batch, got %v", err)
	}
}
