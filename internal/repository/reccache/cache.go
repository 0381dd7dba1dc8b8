// Package reccache caches finished recommendation lists keyed by the
// normalized query and preferences. Entries expire after a TTL; the
// in-memory driver also bounds the entry count, evicting oldest-inserted.
package reccache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
	"strings"
	"time"

	"github.com/kailas-cloud/bookrec/internal/domain"
)

// Cache defaults.
const (
	DefaultTTL        = 5 * time.Minute
	DefaultMaxEntries = 50
)

// Cache is the consumer interface for recommendation caching (ISP).
type Cache interface {
	Get(ctx context.Context, key string) ([]domain.EnhancedResult, bool)
	Put(ctx context.Context, key string, results []domain.EnhancedResult)
	Stats() Stats
}

// Stats is a point-in-time view of cache effectiveness, counted per
// process. Entries is zero for the shared driver; its count lives
// server-side.
type Stats struct {
	Hits    uint64
	Misses  uint64
	Entries int
}

// keyPayload is the canonical form hashed into a cache key. Preferences
// are normalized (lowercased, sorted) so equivalent requests collide.
type keyPayload struct {
	Query      string   `json:"query"`
	Genres     []string `json:"genres,omitempty"`
	Authors    []string `json:"authors,omitempty"`
	MinRating  float64  `json:"minRating,omitempty"`
	MaxResults int      `json:"maxResults,omitempty"`
}

// Key derives a deterministic cache key from a query and its preferences.
// The query is lowercased and whitespace-trimmed, so "Mystery Books" and
// "  mystery books " share an entry.
func Key(query string, prefs domain.Preferences) string {
	payload := keyPayload{
		Query:      strings.ToLower(strings.TrimSpace(query)),
		Genres:     normalizeList(prefs.Genres),
		Authors:    normalizeList(prefs.Authors),
		MinRating:  prefs.MinRating,
		MaxResults: prefs.MaxResults,
	}
	data, _ := json.Marshal(payload)
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

func normalizeList(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.ToLower(strings.TrimSpace(s))
	}
	sort.Strings(out)
	return out
}
