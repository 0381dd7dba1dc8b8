// Package lexicon holds the keyword tables driving feature extraction:
// genre and theme categories keyed by trigger phrases, and the stopword
// set. Tables are data, not logic — they load from YAML so they can be
// tuned without touching the extraction algorithm.
package lexicon

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// Lexicon is an immutable set of extraction tables.
type Lexicon struct {
	genres    map[string][]string
	themes    map[string][]string
	stopwords map[string]struct{}

	genreNames []string // sorted, for deterministic iteration
	themeNames []string
}

// file is the on-disk YAML shape.
type file struct {
	Genres    map[string][]string `yaml:"genres"`
	Themes    map[string][]string `yaml:"themes"`
	Stopwords []string            `yaml:"stopwords"`
}

// Default returns the built-in tables.
func Default() *Lexicon {
	return build(defaultGenres, defaultThemes, defaultStopwords)
}

// Load reads tables from a YAML file. Sections absent from the file fall
// back to the built-in defaults. An empty path returns Default().
func Load(path string) (*Lexicon, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read lexicon %s: %w", path, err)
	}

	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse lexicon: %w", err)
	}

	genres := f.Genres
	if len(genres) == 0 {
		genres = defaultGenres
	}
	themes := f.Themes
	if len(themes) == 0 {
		themes = defaultThemes
	}
	stopwords := f.Stopwords
	if len(stopwords) == 0 {
		stopwords = defaultStopwords
	}

	return build(genres, themes, stopwords), nil
}

func build(genres, themes map[string][]string, stopwords []string) *Lexicon {
	l := &Lexicon{
		genres:    genres,
		themes:    themes,
		stopwords: make(map[string]struct{}, len(stopwords)),
	}
	for _, w := range stopwords {
		l.stopwords[w] = struct{}{}
	}
	for name := range genres {
		l.genreNames = append(l.genreNames, name)
	}
	for name := range themes {
		l.themeNames = append(l.themeNames, name)
	}
	sort.Strings(l.genreNames)
	sort.Strings(l.themeNames)
	return l
}

// GenreCategories returns genre category names in sorted order.
func (l *Lexicon) GenreCategories() []string { return l.genreNames }

// ThemeCategories returns theme category names in sorted order.
func (l *Lexicon) ThemeCategories() []string { return l.themeNames }

// GenreKeywords returns the trigger phrases for a genre category.
func (l *Lexicon) GenreKeywords(category string) []string { return l.genres[category] }

// ThemeKeywords returns the trigger phrases for a theme category.
func (l *Lexicon) ThemeKeywords(category string) []string { return l.themes[category] }

// IsStopword reports whether a lowercased token is a stopword.
func (l *Lexicon) IsStopword(token string) bool {
	_, ok := l.stopwords[token]
	return ok
}
