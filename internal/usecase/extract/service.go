// Package extract turns raw query text into a structured feature bundle:
// genres, themes, author names, significant keywords, and a query type.
// Extraction is pure and deterministic — identical input always yields an
// identical bundle.
package extract

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/kailas-cloud/bookrec/internal/domain"
	"github.com/kailas-cloud/bookrec/internal/lexicon"
)

const (
	maxKeywords       = 10
	minKeywordLength  = 3
	shortQueryRuneLen = 30 // below this, a capitalized query reads as a title
)

// Unicode-aware: accented letters ("café", "Brontë") are word characters.
var nonWord = regexp.MustCompile(`[^\p{L}\p{N}_]+`)

// Service is the feature extractor.
type Service struct {
	lex     *lexicon.Lexicon
	authors AuthorDetector
}

// New creates a feature extractor. A nil detector falls back to the
// default pattern heuristic.
func New(lex *lexicon.Lexicon, authors AuthorDetector) *Service {
	if authors == nil {
		authors = NewPatternDetector()
	}
	return &Service{lex: lex, authors: authors}
}

// Extract derives a feature bundle from raw query text. It has no failure
// path: degenerate input yields an empty bundle, never an error.
func (s *Service) Extract(raw string) domain.FeatureBundle {
	lower := strings.ToLower(norm.NFKC.String(raw))
	cleaned := cleanText(lower)

	genres := s.matchCategories(s.lex.GenreCategories(), s.lex.GenreKeywords, lower)
	themes := s.matchCategories(s.lex.ThemeCategories(), s.lex.ThemeKeywords, lower)

	return domain.FeatureBundle{
		CleanedText: cleaned,
		Genres:      genres,
		Authors:     s.authors.Detect(raw),
		Themes:      themes,
		Keywords:    s.extractKeywords(cleaned),
		QueryType:   classify(raw, lower, genres),
	}
}

// cleanText lowercases input upstream; here every non-word run becomes a
// single space and repeated whitespace collapses.
func cleanText(lower string) string {
	return strings.Join(strings.Fields(nonWord.ReplaceAllString(lower, " ")), " ")
}

// matchCategories includes a category when any of its phrases appears as
// a substring of the lowercased query. Substring containment, not token
// matching: "historical fiction" triggers the historical category.
func (s *Service) matchCategories(names []string, keywords func(string) []string, lower string) []string {
	var matched []string
	for _, name := range names {
		for _, phrase := range keywords(name) {
			if strings.Contains(lower, phrase) {
				matched = append(matched, name)
				break
			}
		}
	}
	return matched
}

// extractKeywords keeps tokens longer than two characters that are not
// stopwords, in original order, truncated to the first ten.
func (s *Service) extractKeywords(cleaned string) []string {
	var keywords []string
	for _, tok := range strings.Fields(cleaned) {
		if utf8.RuneCountInString(tok) < minKeywordLength || s.lex.IsStopword(tok) {
			continue
		}
		keywords = append(keywords, tok)
		if len(keywords) == maxKeywords {
			break
		}
	}
	return keywords
}

// classify applies the query-type rules in priority order; only the first
// matching rule wins.
func classify(raw, lower string, genres []string) domain.QueryType {
	switch {
	case strings.Contains(lower, "by ") || strings.Contains(lower, "author"):
		return domain.QueryTypeAuthor
	case strings.Contains(lower, "like ") || strings.Contains(lower, "similar to"):
		return domain.QueryTypeSimilar
	case len(genres) > 0:
		return domain.QueryTypeGenre
	case utf8.RuneCountInString(raw) < shortQueryRuneLen && startsUpper(raw):
		return domain.QueryTypeTitle
	default:
		return domain.QueryTypeDescription
	}
}

func startsUpper(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsUpper(r)
}
