package domain

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Query parameter limits.
const (
	// MinQueryLength is the minimum trimmed query length.
	MinQueryLength = 2
	// MaxQueryLength is the maximum trimmed query length.
	MaxQueryLength = 500
	DefaultMaxResults = 10
	MaxResultsCeiling = 20
)

// Preferences are optional per-request overrides.
type Preferences struct {
	Genres     []string
	Authors    []string
	MinRating  float64
	MaxResults int
}

// Query is a validated recommendation request. Immutable; created per
// incoming request and discarded after the response.
type Query struct {
	raw   string
	text  string
	prefs Preferences
}

// NewQuery validates and normalizes a raw query.
// The text is trimmed; MaxResults is clamped to [1, 20] with default 10;
// MinRating is clamped to be non-negative.
func NewQuery(raw string, prefs Preferences) (Query, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return Query{}, fmt.Errorf("%w: query is required", ErrInvalidQuery)
	}
	if n := utf8.RuneCountInString(text); n < MinQueryLength {
		return Query{}, fmt.Errorf("%w: query must be at least %d characters long", ErrInvalidQuery, MinQueryLength)
	} else if n > MaxQueryLength {
		return Query{}, fmt.Errorf("%w: query too long (max %d chars)", ErrInvalidQuery, MaxQueryLength)
	}

	if prefs.MaxResults <= 0 {
		prefs.MaxResults = DefaultMaxResults
	}
	if prefs.MaxResults > MaxResultsCeiling {
		prefs.MaxResults = MaxResultsCeiling
	}
	if prefs.MinRating < 0 {
		prefs.MinRating = 0
	}

	return Query{raw: raw, text: text, prefs: prefs}, nil
}

// Raw returns the query text as received.
func (q *Query) Raw() string { return q.raw }

// Text returns the trimmed query text.
func (q *Query) Text() string { return q.text }

// Preferences returns the normalized preference overrides.
func (q *Query) Preferences() Preferences { return q.prefs }
