package search

import "errors"

// Error definitions for the search view.
var (
	// ErrNoRetriever indicates that no retriever was provided.
	ErrNoRetriever = errors.New("retriever is required")
)
