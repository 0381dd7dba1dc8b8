// Package chi exposes the recommendation API over HTTP.
package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	chirouter "github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/bookrec/internal/domain"
	healthuc "github.com/kailas-cloud/bookrec/internal/usecase/health"
	"github.com/kailas-cloud/bookrec/internal/usecase/recommend"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

// Server serves the recommendation HTTP API.
type Server struct {
	recommender   *recommend.Service
	health        *healthuc.Service
	validate      *validator.Validate
	logger        *zap.Logger
	now           func() time.Time
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(recommender *recommend.Service, health *healthuc.Service, logger *zap.Logger) *Server {
	s := &Server{
		recommender: recommender,
		health:      health,
		validate:    validator.New(),
		logger:      logger,
		now:         time.Now,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidQuery, http.StatusBadRequest, "invalid_query"),
		rejectedHandler,
		sentinelHandler(domain.ErrBackendTimeout, http.StatusGatewayTimeout, "backend_timeout"),
		sentinelHandler(domain.ErrBackendUnavailable, http.StatusBadGateway, "backend_unavailable"),
	}
	return s
}

// Routes builds the API router.
func (s *Server) Routes() chirouter.Router {
	r := chirouter.NewRouter()
	r.Post("/api/v1/recommendations", s.Recommendations)
	r.Post("/api/v1/recommendations/batch", s.BatchRecommendations)
	r.Get("/healthz", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
	return r
}

// Recommendations handles POST /api/v1/recommendations.
func (s *Server) Recommendations(w http.ResponseWriter, r *http.Request) {
	var req recommendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_query", "Invalid request body: "+err.Error())
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_query", "Validation failed: "+err.Error())
		return
	}

	resp, err := s.recommender.Recommend(r.Context(), req.Query, req.Preferences.toDomain())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toRecommendResponse(resp, s.now()))
}

// BatchRecommendations handles POST /api/v1/recommendations/batch.
func (s *Server) BatchRecommendations(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_query", "Invalid request body: "+err.Error())
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_query", "Validation failed: "+err.Error())
		return
	}

	items, err := s.recommender.RecommendBatch(r.Context(), req.Queries, req.Preferences.toDomain())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	dtos := make([]batchResponseDTO, len(items))
	for i, item := range items {
		dto := batchResponseDTO{Query: req.Queries[i]}
		if item.Err != nil {
			dto.Error = &errorBody{Error: errorCode(item.Err), Message: safeMessage(item.Err)}
		} else {
			dto.Query = item.Response.Query
			dto.Recommendations = toRecommendationDTOs(item.Response.Results)
			dto.Fallback = item.Response.Fallback
		}
		dtos[i] = dto
	}

	writeJSON(w, http.StatusOK, batchResponse{
		Success:   true,
		Items:     dtos,
		Timestamp: s.now().UTC(),
	})
}

// HealthCheck handles GET /healthz.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{
		Success: false,
		Error:   code,
		Message: message,
	})
}

// safeMessage returns a client-facing message. Backend rejections keep
// their provider message verbatim so callers can see what was wrong with
// the request; everything else collapses to the sentinel text.
func safeMessage(err error) string {
	if errors.Is(err, domain.ErrBackendRejected) {
		return err.Error()
	}
	sentinels := []error{
		domain.ErrInvalidQuery,
		domain.ErrBackendTimeout,
		domain.ErrBackendUnavailable,
		domain.ErrCorpusNotLoaded,
	}
	for _, sentinel := range sentinels {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return "internal error"
}

func errorCode(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidQuery):
		return "invalid_query"
	case errors.Is(err, domain.ErrBackendRejected):
		return "backend_rejected"
	case errors.Is(err, domain.ErrBackendTimeout):
		return "backend_timeout"
	case errors.Is(err, domain.ErrBackendUnavailable):
		return "backend_unavailable"
	default:
		return "internal_error"
	}
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, safeMessage(err))
		return true
	}
}

// rejectedHandler maps backend rejections to 502 with the provider
// message passed through unchanged.
func rejectedHandler(w http.ResponseWriter, err error) bool {
	if !errors.Is(err, domain.ErrBackendRejected) {
		return false
	}
	writeError(w, http.StatusBadGateway, "backend_rejected", err.Error())
	return true
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	for _, h := range s.errorHandlers {
		if h(w, err) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
}
