package driven

import (
	"context"

	"github.com/corpora-labs/confcrawl/internal/core/domain"
)

// ChunkStore persists chunks and answers similarity queries. The store is
// the durable table of chunks keyed by (url, chunk_number) together with
// its vector index; both concerns belong to one external collaborator.
//
// Implementations must tolerate concurrent upserts: distinct keys never
// conflict, and writes to the same key are last-writer-wins.
type ChunkStore interface {
	// Upsert inserts or overwrites the chunk identified by
	// (chunk.URL, chunk.ChunkNumber). Idempotent; re-ingesting a page
	// overwrites in place, never duplicates.
	Upsert(ctx context.Context, chunk *domain.Chunk) error

	// DistinctURLs returns the distinct URLs of chunks matching the
	// filter, sorted lexicographically.
	DistinctURLs(ctx context.Context, filter domain.Filter) ([]string, error)

	// ChunksByURL returns all chunks for a URL matching the filter,
	// ordered by ascending chunk number. A missing URL yields an empty
	// slice, not an error.
	ChunksByURL(ctx context.Context, url string, filter domain.Filter) ([]domain.Chunk, error)

	// Search returns the topK chunks most similar to the query
	// embedding among those matching the filter, most similar first.
	// Ties rank by (url, chunk_number) ascending. An empty candidate
	// set yields an empty slice, not an error.
	Search(ctx context.Context, embedding []float32, topK int, filter domain.Filter) ([]domain.ScoredChunk, error)

	// DeleteByURL removes every chunk stored for the URL and reports
	// how many were removed.
	DeleteByURL(ctx context.Context, url string) (int64, error)

	// DeleteBySource removes every chunk tagged with the source and
	// reports how many were removed.
	DeleteBySource(ctx context.Context, source string) (int64, error)

	// Close releases the underlying storage.
	Close() error
}
