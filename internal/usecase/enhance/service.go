// Package enhance turns similarity-ranked candidates into presentable
// recommendations: additive relevance boosts, a confidence estimate, and
// human-readable match reasons. The incoming similarity order is frozen;
// boosting never reorders the list.
package enhance

import (
	"strings"

	"github.com/kailas-cloud/bookrec/internal/domain"
)

// Boost and confidence tunables. Boosts are additive on top of raw
// similarity; both relevance and confidence are clamped to 1.
const (
	genreBoost  = 0.10
	authorBoost = 0.15

	baseConfidence      = 0.70
	highSimilarityBonus = 0.20
	highRatingBonus     = 0.10
	genreSignalBonus    = 0.10

	highSimilarityFloor = 0.8
	highRatingFloor     = 4.0
	reasonRatingFloor   = 4.5
)

// Match reason labels, emitted in this fixed order.
const (
	reasonHighSimilarity = "High content similarity"
	reasonMatchingGenre  = "Matching genre"
	reasonHighlyRated    = "Highly rated"
)

// Service computes enhanced results from scored candidates.
type Service struct{}

// New creates an enhancement service.
func New() *Service {
	return &Service{}
}

// Enhance scores each candidate against the query features. The output
// preserves the input order exactly; one enhanced result per candidate.
func (s *Service) Enhance(candidates []domain.ScoredCandidate, features domain.FeatureBundle) []domain.EnhancedResult {
	results := make([]domain.EnhancedResult, len(candidates))
	for i, c := range candidates {
		results[i] = enhanceOne(c, features)
	}
	return results
}

func enhanceOne(c domain.ScoredCandidate, features domain.FeatureBundle) domain.EnhancedResult {
	relevance := c.Similarity
	if matchesGenre(c.Book, features.Genres) {
		relevance += genreBoost
	}
	if matchesAuthor(c.Book, features.Authors) {
		relevance += authorBoost
	}
	if relevance > 1 {
		relevance = 1
	}

	confidence := baseConfidence
	if c.Similarity > highSimilarityFloor {
		confidence += highSimilarityBonus
	}
	if c.Book.Rating > highRatingFloor {
		confidence += highRatingBonus
	}
	if features.HasGenres() {
		confidence += genreSignalBonus
	}
	if confidence > 1 {
		confidence = 1
	}

	var reasons []string
	if c.Similarity > highSimilarityFloor {
		reasons = append(reasons, reasonHighSimilarity)
	}
	if matchesGenre(c.Book, features.Genres) {
		reasons = append(reasons, reasonMatchingGenre)
	}
	if c.Book.Rating > reasonRatingFloor {
		reasons = append(reasons, reasonHighlyRated)
	}

	return domain.EnhancedResult{
		ScoredCandidate: c,
		RelevanceScore:  relevance,
		Confidence:      confidence,
		MatchReasons:    reasons,
	}
}

// matchesGenre checks whether any extracted genre is a case-insensitive
// substring of the book's genre. "science fiction" matches a catalog
// genre of "Sci-Fi / Science Fiction"; a generic catalog genre like
// "Fiction" does not match a more specific extracted genre.
func matchesGenre(b domain.Book, genres []string) bool {
	bookGenre := strings.ToLower(b.Genre)
	if bookGenre == "" {
		return false
	}
	for _, g := range genres {
		if strings.Contains(bookGenre, strings.ToLower(g)) {
			return true
		}
	}
	return false
}

// matchesAuthor checks the book's author against detected author names.
func matchesAuthor(b domain.Book, authors []string) bool {
	bookAuthor := strings.ToLower(b.Author)
	if bookAuthor == "" {
		return false
	}
	for _, a := range authors {
		if strings.Contains(bookAuthor, strings.ToLower(a)) {
			return true
		}
	}
	return false
}
