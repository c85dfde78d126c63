package driving

import (
	"context"

	"github.com/corpora-labs/confcrawl/internal/core/domain"
)

// Retriever exposes the read operations the external agent composes its
// answers from. The formatted operations return sentinel strings for
// empty conditions; errors mean the underlying store or embedding call
// failed, never "nothing matched".
type Retriever interface {
	// SearchDocumentation embeds the query, ranks stored chunks and
	// returns them as delimited text sections. Returns the no-results
	// sentinel when nothing matches.
	SearchDocumentation(ctx context.Context, query string) (string, error)

	// SearchChunks is the structured variant used by interactive
	// surfaces. An empty result is an empty slice, not an error.
	SearchChunks(ctx context.Context, query string, topK int) ([]domain.ScoredChunk, error)

	// ListPages returns the distinct ingested URLs, sorted
	// lexicographically.
	ListPages(ctx context.Context) ([]string, error)

	// GetPage reassembles a page from its stored chunks in order.
	// Returns the not-found sentinel when the URL has no chunks.
	GetPage(ctx context.Context, url string) (string, error)
}
