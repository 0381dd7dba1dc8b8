package domain

import "errors"

var (
	// ErrInvalidQuery signals a missing, too short, or too long query.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrBackendUnavailable signals an unreachable scoring backend.
	ErrBackendUnavailable = errors.New("scoring backend unavailable")
	// ErrBackendTimeout signals a scoring backend that exceeded its time budget.
	ErrBackendTimeout = errors.New("scoring backend timeout")
	// ErrBackendRejected signals a structured client error from the scoring backend.
	ErrBackendRejected = errors.New("scoring backend rejected request")
	// ErrCorpusNotLoaded signals that no corpus snapshot has been installed yet.
	ErrCorpusNotLoaded = errors.New("corpus not loaded")
)
