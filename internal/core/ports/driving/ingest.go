package driving

import (
	"context"

	"github.com/corpora-labs/confcrawl/internal/core/domain"
)

// Ingestor runs the fetch-chunk-enrich-store pipeline over a set of URLs.
type Ingestor interface {
	// Ingest processes the URLs and returns the aggregate report.
	// Partial failure is reported, not raised: the only errors are
	// usage errors (no URLs) and a concurrent run already in progress.
	Ingest(ctx context.Context, urls []string, opts domain.IngestOptions) (*domain.IngestReport, error)

	// Running reports whether an ingestion run is in progress.
	Running() bool
}
