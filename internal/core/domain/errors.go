package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNoURLs indicates an ingestion run was requested with no URLs.
	// This is a usage error: no partial work is attempted.
	ErrNoURLs = errors.New("no URLs to ingest")

	// ErrIngestInProgress indicates an ingestion run is already active.
	ErrIngestInProgress = errors.New("ingestion in progress")

	// Service availability errors. Each marks a driven dependency that
	// is missing or misconfigured; callers surface configuration
	// guidance rather than retrying.

	// ErrLLMUnavailable indicates the LLM service is not configured.
	// Chunk titles and summaries fall back to error placeholders.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not
	// configured. Similarity search is disabled without embeddings.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrFetcherUnavailable indicates the page fetcher is not configured.
	ErrFetcherUnavailable = errors.New("page fetcher unavailable")

	// ErrStoreUnavailable indicates the chunk store is not configured
	// or unreachable.
	ErrStoreUnavailable = errors.New("chunk store unavailable")

	// ErrUnsupportedProvider indicates an unknown provider or backend name.
	ErrUnsupportedProvider = errors.New("unsupported provider")
)
