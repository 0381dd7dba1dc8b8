// Package recommend orchestrates the recommendation pipeline: query
// validation, feature extraction, circuit-broken similarity ranking,
// enhancement, preference filtering, and caching. When the scoring
// backend is unavailable or times out the service degrades to a curated
// fallback list instead of failing the request.
package recommend

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"github.com/kailas-cloud/bookrec/internal/domain"
	"github.com/kailas-cloud/bookrec/internal/metrics"
	"github.com/kailas-cloud/bookrec/internal/repository/reccache"
)

// DefaultTimeout bounds a single scoring call.
const DefaultTimeout = 30 * time.Second

// Response is one finished recommendation set.
type Response struct {
	Query     string
	Results   []domain.EnhancedResult
	Fallback  bool
	FromCache bool
}

// Service runs the recommendation pipeline.
type Service struct {
	extract  Extractor
	rank     Ranker
	enhance  Enhancer
	cache    Cache
	fallback []domain.ScoredCandidate
	breaker  *gobreaker.CircuitBreaker[[]domain.ScoredCandidate]
	timeout  time.Duration
	logger   *zap.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithTimeout overrides the per-request scoring deadline.
func WithTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithFallbackCatalog overrides the curated fallback list.
func WithFallbackCatalog(books []domain.Book) Option {
	return func(s *Service) { s.fallback = fallbackCandidates(books) }
}

// New creates a recommendation service. The circuit breaker guards the
// ranking backend only; client errors (rejected requests) do not count
// as backend failures.
func New(extract Extractor, rank Ranker, enhance Enhancer, cache Cache, logger *zap.Logger, opts ...Option) *Service {
	s := &Service{
		extract:  extract,
		rank:     rank,
		enhance:  enhance,
		cache:    cache,
		fallback: fallbackCandidates(DefaultFallbackCatalog()),
		timeout:  DefaultTimeout,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.breaker = gobreaker.NewCircuitBreaker[[]domain.ScoredCandidate](gobreaker.Settings{
		Name:        "scoring-backend",
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.Requests >= 5 &&
				float64(counts.TotalFailures)/float64(counts.Requests) >= 0.6
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, domain.ErrBackendRejected)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Info("Circuit breaker state change",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})

	return s
}

// Recommend runs the full pipeline for one query. Backend outages and
// timeouts degrade to the fallback catalog; fallback responses are never
// cached. A rejected backend request propagates to the caller unchanged.
func (s *Service) Recommend(ctx context.Context, rawQuery string, prefs domain.Preferences) (Response, error) {
	query, err := domain.NewQuery(rawQuery, prefs)
	if err != nil {
		return Response{}, err
	}

	key := reccache.Key(query.Text(), query.Preferences())
	if results, ok := s.cache.Get(ctx, key); ok {
		return Response{Query: query.Text(), Results: results, FromCache: true}, nil
	}

	features := s.extract.Extract(query.Text())

	candidates, err := s.score(ctx, query.Text(), query.Preferences().MaxResults)
	if err != nil {
		if errors.Is(err, domain.ErrBackendRejected) {
			return Response{}, err
		}
		if errors.Is(err, domain.ErrBackendUnavailable) || errors.Is(err, domain.ErrBackendTimeout) {
			s.logger.Warn("Scoring backend degraded, serving fallback",
				zap.String("query", query.Text()), zap.Error(err))
			metrics.FallbackResponsesTotal.Inc()
			return Response{
				Query:    query.Text(),
				Results:  s.fallbackResults(features, query.Preferences().MaxResults),
				Fallback: true,
			}, nil
		}
		return Response{}, err
	}

	results := s.enhance.Enhance(candidates, features)
	results = applyPreferences(results, query.Preferences())
	// The ranker already honors maxResults; this guards a backend that
	// over-returns.
	if len(results) > query.Preferences().MaxResults {
		results = results[:query.Preferences().MaxResults]
	}

	s.cache.Put(ctx, key, results)
	return Response{Query: query.Text(), Results: results}, nil
}

// score runs one circuit-broken, deadline-bounded ranking call and maps
// transport failures onto the backend error taxonomy. topK bounds the
// candidate list before preference filters run; filtered-out results are
// not backfilled from lower ranks.
func (s *Service) score(ctx context.Context, query string, topK int) ([]domain.ScoredCandidate, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	candidates, err := s.breaker.Execute(func() ([]domain.ScoredCandidate, error) {
		return s.rank.Rank(ctx, query, topK)
	})
	if err != nil {
		return nil, classifyScoreError(err)
	}
	return candidates, nil
}

func classifyScoreError(err error) error {
	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return fmt.Errorf("%w: circuit open", domain.ErrBackendUnavailable)
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %w", domain.ErrBackendTimeout, err)
	case errors.Is(err, domain.ErrBackendRejected),
		errors.Is(err, domain.ErrBackendTimeout),
		errors.Is(err, domain.ErrBackendUnavailable):
		return err
	default:
		return fmt.Errorf("%w: %w", domain.ErrBackendUnavailable, err)
	}
}

// fallbackResults enhances the curated catalog with the request features
// so fallback responses still carry genre boosts and match reasons.
func (s *Service) fallbackResults(features domain.FeatureBundle, maxResults int) []domain.EnhancedResult {
	results := s.enhance.Enhance(s.fallback, features)
	if maxResults > 0 && len(results) > maxResults {
		results = results[:maxResults]
	}
	return results
}

// applyPreferences drops results below the minimum rating or outside the
// requested genres. An empty genre list admits everything.
func applyPreferences(results []domain.EnhancedResult, prefs domain.Preferences) []domain.EnhancedResult {
	if prefs.MinRating <= 0 && len(prefs.Genres) == 0 {
		return results
	}

	filtered := results[:0]
	for _, r := range results {
		if prefs.MinRating > 0 && r.Rating < prefs.MinRating {
			continue
		}
		if len(prefs.Genres) > 0 && !genreAllowed(r.Genre, prefs.Genres) {
			continue
		}
		filtered = append(filtered, r)
	}
	return filtered
}

func genreAllowed(genre string, wanted []string) bool {
	g := strings.ToLower(genre)
	for _, w := range wanted {
		if strings.Contains(g, strings.ToLower(w)) {
			return true
		}
	}
	return false
}
