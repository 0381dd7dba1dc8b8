package domain

// Book is a corpus entity. The catalog owns it; the recommendation
// core treats it as read-only.
type Book struct {
	ID          string
	Title       string
	Author      string
	Description string
	Genre       string
	Rating      float64 // 0-5
	Cover       string
}

// ScoredCandidate is a book with its content similarity to a query.
// Produced fresh per request, never persisted.
type ScoredCandidate struct {
	Book
	Similarity float64 // cosine similarity in [0,1]
}

// EnhancedResult is the terminal representation returned to callers:
// a scored candidate with structured-match boosts applied.
type EnhancedResult struct {
	ScoredCandidate
	RelevanceScore float64  // similarity plus boosts, clamped to [0,1]
	Confidence     float64  // in [0,1]
	MatchReasons   []string // ordered, may be empty
}
