package rank

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/kailas-cloud/bookrec/internal/domain"
	"github.com/kailas-cloud/bookrec/internal/repository/corpus"
)

// QueryEmbedder vectorizes query text through a remote provider. Errors
// it returns are expected to already carry the backend error taxonomy
// (unavailable / timeout / rejected).
type QueryEmbedder interface {
	Embed(ctx context.Context, text string) (domain.Vector, error)
}

// embIndex pairs books with their precomputed embedding vectors.
type embIndex struct {
	books   []domain.Book
	vectors []domain.Vector
	version string
}

// EmbeddingEngine ranks books by cosine similarity between a remotely
// embedded query vector and precomputed corpus vectors.
type EmbeddingEngine struct {
	embed QueryEmbedder
	cfg   Config
	idx   atomic.Pointer[embIndex]
}

// NewEmbeddingEngine creates an embedding-backed ranking engine.
func NewEmbeddingEngine(embed QueryEmbedder, cfg Config) *EmbeddingEngine {
	cfg.applyDefaults()
	return &EmbeddingEngine{embed: embed, cfg: cfg}
}

// Reload installs a corpus snapshot. Records without precomputed vectors
// are skipped; a snapshot with none at all is an error since the engine
// would silently rank nothing.
func (e *EmbeddingEngine) Reload(snap corpus.Snapshot) error {
	var (
		books   []domain.Book
		vectors []domain.Vector
	)
	for _, rec := range snap.Records() {
		if len(rec.Vector) == 0 {
			continue
		}
		books = append(books, rec.Book)
		vectors = append(vectors, rec.Vector)
	}
	if snap.Len() > 0 && len(books) == 0 {
		return fmt.Errorf("corpus %s carries no precomputed vectors", snap.Version())
	}

	e.idx.Store(&embIndex{books: books, vectors: vectors, version: snap.Version()})
	return nil
}

// Rank embeds the query remotely and scores it against corpus vectors.
// Embedding failures propagate so the orchestrator can fall back.
func (e *EmbeddingEngine) Rank(ctx context.Context, query string, topK int) ([]domain.ScoredCandidate, error) {
	idx := e.idx.Load()
	if idx == nil || len(idx.books) == 0 {
		return nil, nil
	}

	queryVec, err := e.embed.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	return rankByVector(queryVec, idx.vectors, idx.books, e.cfg.MinSimilarity, topK), nil
}

// Ready reports whether a non-empty corpus index is installed.
func (e *EmbeddingEngine) Ready() bool {
	idx := e.idx.Load()
	return idx != nil && len(idx.books) > 0
}

// Version returns the installed corpus version, or empty when unloaded.
func (e *EmbeddingEngine) Version() string {
	if idx := e.idx.Load(); idx != nil {
		return idx.version
	}
	return ""
}

// Size returns the number of indexed books.
func (e *EmbeddingEngine) Size() int {
	if idx := e.idx.Load(); idx != nil {
		return len(idx.books)
	}
	return 0
}
