// Package rank computes similarity-ranked candidate lists against the
// book corpus. Two engines share the ranking contract: a local TF-IDF
// engine and a remote embedding-backed engine. Both are deterministic
// given a fixed corpus snapshot and query.
package rank

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/kailas-cloud/bookrec/internal/domain"
	"github.com/kailas-cloud/bookrec/internal/lexicon"
	"github.com/kailas-cloud/bookrec/internal/repository/corpus"
)

// Ranking defaults. Candidates below MinSimilarity carry no usable signal
// and are dropped before truncation.
const (
	DefaultMaxFeatures   = 5000
	DefaultMinSimilarity = 0.01
	DefaultTopK          = 10
	maxDocFrac           = 0.8
)

// Config tunes an engine.
type Config struct {
	MaxFeatures   int
	MinSimilarity float64
}

func (c *Config) applyDefaults() {
	if c.MaxFeatures <= 0 {
		c.MaxFeatures = DefaultMaxFeatures
	}
	if c.MinSimilarity <= 0 {
		c.MinSimilarity = DefaultMinSimilarity
	}
}

// index is one immutable fitted view of the corpus. Requests read it via
// an atomic pointer; Reload builds a full replacement before swapping, so
// no request ever observes a partially built index.
type index struct {
	model   *tfidfModel
	books   []domain.Book
	version string
}

// Engine ranks books by TF-IDF cosine similarity, locally.
type Engine struct {
	lex *lexicon.Lexicon
	cfg Config
	idx atomic.Pointer[index]
}

// NewEngine creates a TF-IDF ranking engine with no corpus loaded.
func NewEngine(lex *lexicon.Lexicon, cfg Config) *Engine {
	cfg.applyDefaults()
	return &Engine{lex: lex, cfg: cfg}
}

// Reload fits the vectorizer on a corpus snapshot and atomically installs
// the new index.
func (e *Engine) Reload(snap corpus.Snapshot) {
	records := snap.Records()
	books := make([]domain.Book, len(records))
	texts := make([]string, len(records))
	for i, rec := range records {
		books[i] = rec.Book
		texts[i] = combinedText(rec.Book)
	}

	e.idx.Store(&index{
		model:   fitTFIDF(texts, e.lex.IsStopword, e.cfg.MaxFeatures, maxDocFrac),
		books:   books,
		version: snap.Version(),
	})
}

// Rank returns at most topK candidates ordered by descending similarity,
// ties broken by corpus insertion order. An empty or missing corpus yields
// an empty list, not an error.
func (e *Engine) Rank(ctx context.Context, query string, topK int) ([]domain.ScoredCandidate, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("rank: %w", err)
	}

	idx := e.idx.Load()
	if idx == nil || len(idx.books) == 0 {
		return nil, nil
	}

	queryVec := idx.model.transform(query, e.lex.IsStopword)
	return rankByVector(queryVec, idx.model.docs, idx.books, e.cfg.MinSimilarity, topK), nil
}

// Ready reports whether a non-empty corpus index is installed.
func (e *Engine) Ready() bool {
	idx := e.idx.Load()
	return idx != nil && len(idx.books) > 0
}

// Version returns the installed corpus version, or empty when unloaded.
func (e *Engine) Version() string {
	if idx := e.idx.Load(); idx != nil {
		return idx.version
	}
	return ""
}

// Size returns the number of indexed books.
func (e *Engine) Size() int {
	if idx := e.idx.Load(); idx != nil {
		return len(idx.books)
	}
	return 0
}

// rankByVector scores every book vector against the query vector and
// returns the topK above the similarity floor. The sort is stable so equal
// scores keep corpus insertion order.
func rankByVector(
	queryVec domain.Vector, docVecs []domain.Vector, books []domain.Book,
	minSimilarity float64, topK int,
) []domain.ScoredCandidate {
	if topK <= 0 {
		topK = DefaultTopK
	}
	if topK > domain.MaxResultsCeiling {
		topK = domain.MaxResultsCeiling
	}

	candidates := make([]domain.ScoredCandidate, 0, len(books))
	for i, dv := range docVecs {
		sim := domain.Cosine(queryVec, dv)
		if sim < minSimilarity {
			continue
		}
		candidates = append(candidates, domain.ScoredCandidate{Book: books[i], Similarity: sim})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Similarity > candidates[j].Similarity
	})

	if len(candidates) > topK {
		candidates = candidates[:topK]
	}
	return candidates
}

// combinedText concatenates the fields the vectorizer was trained over.
func combinedText(b domain.Book) string {
	return strings.Join([]string{b.Title, b.Author, b.Genre, b.Description}, " ")
}
