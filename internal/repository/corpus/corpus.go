// Package corpus loads the pre-built book catalog the scoring pipeline
// consumes. Providers return immutable versioned snapshots; building the
// catalog itself (scraping, cleaning, vectorizing) happens elsewhere.
package corpus

import (
	"context"

	"github.com/kailas-cloud/bookrec/internal/domain"
)

// Record is a catalog entry: a book plus its optional precomputed
// embedding vector (required only by the embedding scoring driver).
type Record struct {
	Book   domain.Book
	Vector domain.Vector
}

// Snapshot is an immutable view of the catalog at one version.
type Snapshot struct {
	records []Record
	version string
}

// NewSnapshot creates a snapshot. The records slice is owned by the
// snapshot after the call.
func NewSnapshot(records []Record, version string) Snapshot {
	return Snapshot{records: records, version: version}
}

// Records returns catalog entries in corpus insertion order.
func (s Snapshot) Records() []Record { return s.records }

// Version identifies the catalog build this snapshot came from.
func (s Snapshot) Version() string { return s.version }

// Len returns the number of records.
func (s Snapshot) Len() int { return len(s.records) }

// Provider loads catalog snapshots from a backing store.
type Provider interface {
	Load(ctx context.Context) (Snapshot, error)
}
