package domain

import (
	"fmt"
	"time"
)

// Ingestion defaults.
const (
	// DefaultMaxConcurrent bounds simultaneous page fetches.
	DefaultMaxConcurrent = 5

	// DefaultChunkSize is the target chunk length in bytes.
	DefaultChunkSize = 5000
)

// IngestOptions configures one ingestion run.
type IngestOptions struct {
	// MaxConcurrent bounds simultaneous page fetches.
	// Zero means DefaultMaxConcurrent.
	MaxConcurrent int

	// Source is the dataset tag stamped into chunk metadata.
	// Empty means DefaultSource.
	Source string
}

// URLFailure records one page that could not be ingested.
type URLFailure struct {
	// URL is the page that failed.
	URL string

	// Reason describes the failure.
	Reason string
}

// IngestReport is the aggregate outcome of one ingestion run. Partial
// failure is reported here, never raised: every successfully enriched
// chunk is persisted even when sibling chunks or pages fail.
type IngestReport struct {
	// RunID uniquely identifies the run.
	RunID string

	// Started and Finished bound the run.
	Started  time.Time
	Finished time.Time

	// Total is the number of URLs submitted.
	Total int

	// Succeeded counts URLs that fetched and were processed.
	Succeeded int

	// Failed counts URLs whose fetch failed.
	Failed int

	// ChunksStored counts chunks written to the store.
	ChunksStored int

	// ChunkFailures counts chunks that could not be stored.
	ChunkFailures int

	// Failures lists the failed URLs with reasons.
	Failures []URLFailure
}

// Duration returns the wall-clock time the run took.
func (r *IngestReport) Duration() time.Duration {
	return r.Finished.Sub(r.Started)
}

// Summary returns a one-line human-readable tally.
func (r *IngestReport) Summary() string {
	return fmt.Sprintf("%d/%d URLs succeeded, %d failed, %d chunks stored (%d chunk failures) in %s",
		r.Succeeded, r.Total, r.Failed, r.ChunksStored, r.ChunkFailures, r.Duration().Round(time.Millisecond))
}
