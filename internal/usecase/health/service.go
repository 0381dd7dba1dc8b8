package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure; requests still succeed, possibly
	// via the fallback catalog.
	Degraded Status = "degraded"
	// Unhealthy indicates the service cannot produce recommendations.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	index   IndexChecker
	backend BackendChecker
	cache   CachePinger
}

// New creates a Service. backend and cache can be nil.
func New(index IndexChecker, backend BackendChecker, cache CachePinger) *Service {
	return &Service{index: index, backend: backend, cache: cache}
}

// Check runs health checks against all components. A missing corpus index
// is fatal since no ranking can happen without it; backend and cache
// failures only degrade the service.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	indexOK := s.index.Ready()
	if indexOK {
		checks["index"] = CheckOK
	} else {
		checks["index"] = CheckError
	}

	if s.backend != nil {
		if err := s.backend.HealthCheck(ctx); err != nil {
			checks["scoring_backend"] = CheckError
		} else {
			checks["scoring_backend"] = CheckOK
		}
	}

	if s.cache != nil {
		if err := s.cache.Ping(ctx); err != nil {
			checks["cache"] = CheckError
		} else {
			checks["cache"] = CheckOK
		}
	}

	if !indexOK {
		return Report{Status: Unhealthy, Checks: checks}
	}

	status := Healthy
	for _, v := range checks {
		if v == CheckError {
			status = Degraded
			break
		}
	}

	return Report{Status: status, Checks: checks}
}
