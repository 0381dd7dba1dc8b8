package bookrec

import "time"

// Preferences narrow and shape the result set.
type Preferences struct {
	Genres     []string `json:"genres,omitempty"`
	Authors    []string `json:"authors,omitempty"`
	MinRating  float64  `json:"minRating,omitempty"`
	MaxResults int      `json:"maxResults,omitempty"`
}

// Recommendation is one recommended book with its scoring breakdown.
type Recommendation struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Author         string   `json:"author"`
	Description    string   `json:"description"`
	Genre          string   `json:"genre"`
	Rating         float64  `json:"rating"`
	Cover          string   `json:"cover,omitempty"`
	Similarity     float64  `json:"similarity"`
	RelevanceScore float64  `json:"relevanceScore"`
	Confidence     float64  `json:"confidence"`
	MatchReasons   []string `json:"matchReasons,omitempty"`
}

// RecommendResult is the response to a single recommendation request.
type RecommendResult struct {
	Query           string           `json:"query"`
	Recommendations []Recommendation `json:"recommendations"`
	TotalResults    int              `json:"totalResults"`
	Fallback        bool             `json:"fallback,omitempty"`
	FromCache       bool             `json:"fromCache,omitempty"`
	Timestamp       time.Time        `json:"timestamp"`
}

// BatchResult is the response to a batch recommendation request.
type BatchResult struct {
	Items     []BatchItem `json:"items"`
	Timestamp time.Time   `json:"timestamp"`
}

// BatchItem is one per-query outcome inside a batch response.
type BatchItem struct {
	Query           string           `json:"query"`
	Recommendations []Recommendation `json:"recommendations,omitempty"`
	Fallback        bool             `json:"fallback,omitempty"`
	Error           *BatchError      `json:"error,omitempty"`
}

// BatchError is a per-query failure inside a batch response.
type BatchError struct {
	Code    string `json:"error"`
	Message string `json:"message"`
}

// HealthStatus represents the aggregated system health.
type HealthStatus struct {
	Status string            `json:"status"` // "ok", "degraded", "error"
	Checks map[string]string `json:"checks"` // component → "ok"/"error"
}

// Wire request bodies.
type recommendRequest struct {
	Query       string       `json:"query"`
	Preferences *Preferences `json:"preferences,omitempty"`
}

type batchRequest struct {
	Queries     []string     `json:"queries"`
	Preferences *Preferences `json:"preferences,omitempty"`
}
