package rank

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/kailas-cloud/bookrec/internal/domain"
	"github.com/kailas-cloud/bookrec/internal/lexicon"
	"github.com/kailas-cloud/bookrec/internal/repository/corpus"
)

func testSnapshot(version string, books ...domain.Book) corpus.Snapshot {
	records := make([]corpus.Record, len(books))
	for i, b := range books {
		records[i] = corpus.Record{Book: b}
	}
	return corpus.NewSnapshot(records, version)
}

func defaultBooks() []domain.Book {
	return []domain.Book{
		{ID: "1", Title: "The Dragon Throne", Author: "Ana Reyes", Genre: "Fantasy",
			Description: "Dragons and wizards battle for an ancient throne", Rating: 4.5},
		{ID: "2", Title: "Murder on the Express", Author: "Paul Croft", Genre: "Mystery",
			Description: "A detective untangles a murder aboard a snowbound train", Rating: 4.2},
		{ID: "3", Title: "Starlight Colony", Author: "Mei Tanaka", Genre: "Science Fiction",
			Description: "Colonists struggle aboard a generation spaceship", Rating: 3.9},
	}
}

func loadedEngine(t *testing.T) *Engine {
	t.Helper()
	e := NewEngine(lexicon.Default(), Config{})
	e.Reload(testSnapshot("v1", defaultBooks()...))
	return e
}

func TestRank_MostSimilarFirst(t *testing.T) {
	e := loadedEngine(t)

	results, err := e.Rank(context.Background(), "dragons and wizards fantasy", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) == 0 {
		t.Fatal("expected results")
	}
	if results[0].ID != "1" {
		t.Errorf("expected the fantasy book first, got %s", results[0].ID)
	}
	for i := 1; i < len(results); i++ {
		if results[i].Similarity > results[i-1].Similarity {
			t.Errorf("results not sorted descending at %d", i)
		}
	}
}

func TestRank_SimilarityBounds(t *testing.T) {
	e := loadedEngine(t)

	results, err := e.Rank(context.Background(), "murder mystery detective train", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, r := range results {
		if r.Similarity < 0 || r.Similarity > 1 {
			t.Errorf("similarity %f out of [0,1]", r.Similarity)
		}
	}
}

func TestRank_Deterministic(t *testing.T) {
	e := loadedEngine(t)

	first, err := e.Rank(context.Background(), "space colony ship", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := e.Rank(context.Background(), "space colony ship", 10)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !reflect.DeepEqual(again, first) {
			t.Fatal("ranking must be deterministic for identical inputs")
		}
	}
}

func TestRank_DeterministicAcrossReload(t *testing.T) {
	e := loadedEngine(t)
	first, _ := e.Rank(context.Background(), "dragons", 10)

	e.Reload(testSnapshot("v1", defaultBooks()...))
	again, _ := e.Rank(context.Background(), "dragons", 10)

	if !reflect.DeepEqual(again, first) {
		t.Fatal("identical snapshot must produce identical rankings after reload")
	}
}

func TestRank_NoCorpusLoaded(t *testing.T) {
	e := NewEngine(lexicon.Default(), Config{})

	results, err := e.Rank(context.Background(), "anything", 10)
	if err != nil {
		t.Fatalf("empty corpus must not error, got %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected empty results, got %d", len(results))
	}
	if e.Ready() {
		t.Error("engine without corpus should not be ready")
	}
}

func TestRank_EmptySnapshot(t *testing.T) {
	e := NewEngine(lexicon.Default(), Config{})
	e.Reload(testSnapshot("v0"))

	results, err := e.Rank(context.Background(), "anything", 10)
	if err != nil || len(results) != 0 {
		t.Errorf("empty snapshot should yield empty results and nil error, got %v %v", results, err)
	}
}

func TestRank_UnrelatedQueryDroppedByThreshold(t *testing.T) {
	e := loadedEngine(t)

	results, err := e.Rank(context.Background(), "quantum chromodynamics lattice", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("out-of-vocabulary query should yield no candidates, got %d", len(results))
	}
}

func TestRank_TopKTruncation(t *testing.T) {
	books := make([]domain.Book, 30)
	for i := range books {
		books[i] = domain.Book{
			ID:          string(rune('a' + i)),
			Title:       "Dragon Tale",
			Description: "dragons everywhere",
		}
	}
	e := NewEngine(lexicon.Default(), Config{})
	e.Reload(testSnapshot("v1", books...))

	results, err := e.Rank(context.Background(), "dragons", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 5 {
		t.Errorf("expected 5 results, got %d", len(results))
	}

	// topK above the hard ceiling is clamped.
	results, _ = e.Rank(context.Background(), "dragons", 100)
	if len(results) != domain.MaxResultsCeiling {
		t.Errorf("expected ceiling %d, got %d", domain.MaxResultsCeiling, len(results))
	}
}

func TestRank_TiesKeepInsertionOrder(t *testing.T) {
	same := domain.Book{Title: "Dragon Tale", Description: "dragons everywhere"}
	a, b, c := same, same, same
	a.ID, b.ID, c.ID = "first", "second", "third"

	e := NewEngine(lexicon.Default(), Config{})
	e.Reload(testSnapshot("v1", a, b, c))

	results, err := e.Rank(context.Background(), "dragons", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	for i, want := range []string{"first", "second", "third"} {
		if results[i].ID != want {
			t.Errorf("position %d: expected %s, got %s", i, want, results[i].ID)
		}
	}
}

func TestRank_CancelledContext(t *testing.T) {
	e := loadedEngine(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := e.Rank(ctx, "dragons", 10); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestReload_SwapsVersion(t *testing.T) {
	e := loadedEngine(t)
	if e.Version() != "v1" {
		t.Errorf("expected version v1, got %s", e.Version())
	}
	if e.Size() != 3 {
		t.Errorf("expected 3 indexed books, got %d", e.Size())
	}

	e.Reload(testSnapshot("v2", defaultBooks()[0]))
	if e.Version() != "v2" {
		t.Errorf("expected version v2 after reload, got %s", e.Version())
	}
	if e.Size() != 1 {
		t.Errorf("expected 1 indexed book after reload, got %d", e.Size())
	}
}

// --- EmbeddingEngine ---

type stubEmbedder struct {
	vec    domain.Vector
	err    error
	called int
}

func (s *stubEmbedder) Embed(_ context.Context, _ string) (domain.Vector, error) {
	s.called++
	return s.vec, s.err
}

func embSnapshot() corpus.Snapshot {
	return corpus.NewSnapshot([]corpus.Record{
		{Book: domain.Book{ID: "1", Title: "A"}, Vector: domain.Vector{1, 0}},
		{Book: domain.Book{ID: "2", Title: "B"}, Vector: domain.Vector{0, 1}},
		{Book: domain.Book{ID: "3", Title: "C"}}, // no vector, skipped
	}, "v1")
}

func TestEmbeddingEngine_Rank(t *testing.T) {
	embed := &stubEmbedder{vec: domain.Vector{1, 0}}
	e := NewEmbeddingEngine(embed, Config{})
	if err := e.Reload(embSnapshot()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.Size() != 2 {
		t.Fatalf("expected 2 indexed books (vectorless skipped), got %d", e.Size())
	}

	results, err := e.Rank(context.Background(), "query", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result (orthogonal book below threshold), got %d", len(results))
	}
	if results[0].ID != "1" || results[0].Similarity != 1 {
		t.Errorf("unexpected top result: %+v", results[0])
	}
}

func TestEmbeddingEngine_EmbedErrorPropagates(t *testing.T) {
	embed := &stubEmbedder{err: domain.ErrBackendUnavailable}
	e := NewEmbeddingEngine(embed, Config{})
	if err := e.Reload(embSnapshot()); err != nil {
		t.Fatal(err)
	}

	_, err := e.Rank(context.Background(), "query", 10)
	if !errors.Is(err, domain.ErrBackendUnavailable) {
		t.Errorf("expected ErrBackendUnavailable, got %v", err)
	}
}

func TestEmbeddingEngine_RejectsVectorlessCorpus(t *testing.T) {
	e := NewEmbeddingEngine(&stubEmbedder{}, Config{})
	snap := corpus.NewSnapshot([]corpus.Record{
		{Book: domain.Book{ID: "1", Title: "No Vector"}},
	}, "v1")

	if err := e.Reload(snap); err == nil {
		t.Fatal("expected error for corpus without vectors")
	}
}

func TestEmbeddingEngine_EmptyIndexSkipsEmbedding(t *testing.T) {
	embed := &stubEmbedder{vec: domain.Vector{1}}
	e := NewEmbeddingEngine(embed, Config{})

	results, err := e.Rank(context.Background(), "query", 10)
	if err != nil || len(results) != 0 {
		t.Fatalf("expected empty results and nil error, got %v %v", results, err)
	}
	if embed.called != 0 {
		t.Error("embedder should not be called when no corpus is loaded")
	}
}
