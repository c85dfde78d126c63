// Package postgres provides a PostgreSQL-based implementation of the ChunkStore port.
//
// This adapter uses lib/pq wrapped in OpenTelemetry instrumentation via otelsql,
// so query spans and connection pool stats flow to whatever tracer and meter the
// process configures. Chunks are keyed by (url, chunk_number), metadata is stored
// as JSONB, and embeddings live in a pgvector column. Similarity search ranks rows
// in SQL with the cosine distance operator instead of loading candidates into Go.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
// The first migration installs the pgvector extension, so the connecting role
// needs CREATE EXTENSION rights on first run.
//
// # Thread Safety
//
// All operations are thread-safe through database/sql connection pooling.
package postgres
