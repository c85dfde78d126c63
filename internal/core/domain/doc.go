// Package domain defines the core business entities for confcrawl.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Chunk: A bounded fragment of a page with enrichment and an embedding
//   - Filter: A typed metadata filter scoping one ingestion dataset
//   - FetchResult: The outcome of rendering one URL
//   - IngestReport: The aggregate tally of one ingestion run
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
