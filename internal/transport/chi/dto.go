package chi

import (
	"time"

	"github.com/kailas-cloud/bookrec/internal/domain"
	"github.com/kailas-cloud/bookrec/internal/usecase/recommend"
)

// recommendRequest is the POST /api/v1/recommendations body.
type recommendRequest struct {
	Query       string              `json:"query" validate:"required,min=2,max=500"`
	Preferences *preferencesRequest `json:"preferences,omitempty"`
}

// batchRequest is the POST /api/v1/recommendations/batch body.
type batchRequest struct {
	Queries     []string            `json:"queries" validate:"required,min=1,max=10,dive,min=2,max=500"`
	Preferences *preferencesRequest `json:"preferences,omitempty"`
}

type preferencesRequest struct {
	Genres     []string `json:"genres,omitempty"`
	Authors    []string `json:"authors,omitempty"`
	MinRating  float64  `json:"minRating,omitempty" validate:"gte=0,lte=5"`
	MaxResults int      `json:"maxResults,omitempty" validate:"gte=0,lte=20"`
}

func (p *preferencesRequest) toDomain() domain.Preferences {
	if p == nil {
		return domain.Preferences{}
	}
	return domain.Preferences{
		Genres:     p.Genres,
		Authors:    p.Authors,
		MinRating:  p.MinRating,
		MaxResults: p.MaxResults,
	}
}

// recommendationDTO is one recommendation in a response payload.
type recommendationDTO struct {
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

// recommendResponse is the POST /api/v1/recommendations success payload.
type recommendResponse struct {
	Success         bool                `json:"success"`
	Query           string              `json:"query"`
	Recommendations []recommendationDTO `json:"recommendations"`
	TotalResults    int                 `json:"totalResults"`
	Fallback        bool                `json:"fallback,omitempty"`
	FromCache       bool                `json:"fromCache,omitempty"`
	Timestamp       time.Time           `json:"timestamp"`
}

// batchResponse is the POST /api/v1/recommendations/batch success payload.
type batchResponse struct {
	Success   bool               `json:"success"`
	Items     []batchResponseDTO `json:"items"`
	Timestamp time.Time          `json:"timestamp"`
}

type batchResponseDTO struct {
	Query           string              `json:"query"`
	Recommendations []recommendationDTO `json:"recommendations,omitempty"`
	Fallback        bool                `json:"fallback,omitempty"`
	Error           *errorBody          `json:"error,omitempty"`
}

// errorResponse is the error payload for every endpoint.
type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func toRecommendationDTOs(results []domain.EnhancedResult) []recommendationDTO {
	dtos := make([]recommendationDTO, len(results))
	for i, r := range results {
		dtos[i] = recommendationDTO{
			ID:             r.ID,
			Title:          r.Title,
			Author:         r.Author,
			Description:    r.Description,
			Genre:          r.Genre,
			Rating:         r.Rating,
			Cover:          r.Cover,
			Similarity:     r.Similarity,
			RelevanceScore: r.RelevanceScore,
			Confidence:     r.Confidence,
			MatchReasons:   r.MatchReasons,
		}
	}
	return dtos
}

func toRecommendResponse(resp recommend.Response, now time.Time) recommendResponse {
	dtos := toRecommendationDTOs(resp.Results)
	return recommendResponse{
		Success:         true,
		Query:           resp.Query,
		Recommendations: dtos,
		TotalResults:    len(dtos),
		Fallback:        resp.Fallback,
		FromCache:       resp.FromCache,
		Timestamp:       now.UTC(),
	}
}
