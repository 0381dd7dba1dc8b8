package domain

// QueryType classifies what a free-text query is asking for.
type QueryType string

const (
	QueryTypeAuthor      QueryType = "author"
	QueryTypeSimilar     QueryType = "similar"
	QueryTypeGenre       QueryType = "genre"
	QueryTypeTitle       QueryType = "title"
	QueryTypeDescription QueryType = "description"
)

// FeatureBundle is the structured interpretation of a free-text query.
// All fields derive deterministically from the query text.
type FeatureBundle struct {
	CleanedText string
	Genres      []string // sorted set of genre categories
	Authors     []string // sorted set of detected author names
	Themes      []string // sorted set of theme categories
	Keywords    []string // ordered, at most 10 significant tokens
	QueryType   QueryType
}

// HasGenres reports whether any genre category was detected.
func (b FeatureBundle) HasGenres() bool { return len(b.Genres) > 0 }
