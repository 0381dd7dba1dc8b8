package recommend

import (
	"context"

	"github.com/kailas-cloud/bookrec/internal/domain"
)

// Extractor derives structured features from raw query text.
type Extractor interface {
	Extract(raw string) domain.FeatureBundle
}

// Ranker scores the corpus against a query and returns candidates in
// descending similarity order.
type Ranker interface {
	Rank(ctx context.Context, query string, topK int) ([]domain.ScoredCandidate, error)
}

// Enhancer converts scored candidates into enhanced results without
// changing their order.
type Enhancer interface {
	Enhance(candidates []domain.ScoredCandidate, features domain.FeatureBundle) []domain.EnhancedResult
}

// Cache stores finished recommendation lists (ISP).
type Cache interface {
	Get(ctx context.Context, key string) ([]domain.EnhancedResult, bool)
	Put(ctx context.Context, key string, results []domain.EnhancedResult)
}
