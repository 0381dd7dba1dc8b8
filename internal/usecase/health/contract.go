package health

import "context"

// IndexChecker reports whether the corpus index is loaded and usable.
type IndexChecker interface {
	Ready() bool
}

// BackendChecker checks scoring backend availability.
type BackendChecker interface {
	HealthCheck(ctx context.Context) error
}

// CachePinger checks cache store availability.
type CachePinger interface {
	Ping(ctx context.Context) error
}
