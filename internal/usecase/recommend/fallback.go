package recommend

import "github.com/kailas-cloud/bookrec/internal/domain"

// DefaultFallbackCatalog returns the curated list served when the
// scoring backend is down. Broad, highly rated titles across genres so a
// degraded response is still useful for most queries.
func DefaultFallbackCatalog() []domain.Book {
	return []domain.Book{
		{
			ID:          "fallback-1",
			Title:       "The Midnight Library",
			Author:      "Matt Haig",
			Genre:       "Fiction",
			Description: "Between life and death there is a library where every book is a different life you could have lived",
			Rating:      4.2,
		},
		{
			ID:          "fallback-2",
			Title:       "Project Hail Mary",
			Author:      "Andy Weir",
			Genre:       "Science Fiction",
			Description: "A lone astronaut wakes up on a spaceship with no memory and must save humanity from extinction",
			Rating:      4.6,
		},
		{
			ID:          "fallback-3",
			Title:       "The Thursday Murder Club",
			Author:      "Richard Osman",
			Genre:       "Mystery",
			Description: "Four retirees in a peaceful village meet weekly to investigate cold cases until a real murder lands on their doorstep",
			Rating:      4.1,
		},
		{
			ID:          "fallback-4",
			Title:       "Circe",
			Author:      "Madeline Miller",
			Genre:       "Fantasy",
			Description: "The banished witch of Greek myth forges her own power on a remote island",
			Rating:      4.3,
		},
		{
			ID:          "fallback-5",
			Title:       "Educated",
			Author:      "Tara Westover",
			Genre:       "Biography",
			Description: "A memoir of a woman who leaves her survivalist family and earns a PhD from Cambridge",
			Rating:      4.5,
		},
	}
}

// fallbackCandidates wraps catalog books as zero-similarity candidates so
// they flow through the same enhancement path as ranked results.
func fallbackCandidates(books []domain.Book) []domain.ScoredCandidate {
	candidates := make([]domain.ScoredCandidate, len(books))
	for i, b := range books {
		candidates[i] = domain.ScoredCandidate{Book: b}
	}
	return candidates
}
