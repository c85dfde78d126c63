// Package sqlite provides a SQLite-based implementation of the ChunkStore port.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. Chunks are keyed by (url, chunk_number),
// metadata is stored as JSON, and embeddings are stored as little-endian float32
// blobs. Similarity search loads candidate rows and ranks them in Go, since SQLite
// has no native vector type.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
//
// # Data Location
//
// By default, the database is stored at ~/.confcrawl/data/chunks.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking provided
// by SQLite in WAL mode.
package sqlite
