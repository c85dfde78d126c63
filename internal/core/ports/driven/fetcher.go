package driven

import (
	"context"

	"github.com/corpora-labs/confcrawl/internal/core/domain"
)

// PageFetcher renders a URL into markdown via a headless rendering
// engine. Fetch never returns a Go error: every failure, including
// context cancellation, surfaces as Success=false with a populated
// Error string. One external call per URL; retries are the caller's
// decision, not the fetcher's.
type PageFetcher interface {
	// Fetch renders the URL and returns the outcome in-band.
	Fetch(ctx context.Context, url string) domain.FetchResult

	// Ping validates the rendering engine is reachable.
	Ping(ctx context.Context) error

	// Close releases the rendering engine.
	Close() error
}
