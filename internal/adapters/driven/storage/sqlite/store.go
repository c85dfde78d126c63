package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/corpora-labs/confcrawl/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/corpora-labs/confcrawl/internal/core/domain"
	"github.com/corpora-labs/confcrawl/internal/core/ports/driven"
	"github.com/corpora-labs/confcrawl/internal/vector"
)

// Ensure Store implements the interface.
var _ driven.ChunkStore = (*Store)(nil)

// sourceExpr extracts the dataset tag from the chunk metadata JSON.
// It backs the source filter and the idx_chunks_source index.
const sourceExpr = "json_extract(metadata, '$.source')"

// chunkColumns is the column list every chunk query selects.
const chunkColumns = "url, chunk_number, title, summary, content, metadata, embedding, created_at, updated_at"

// Store is a SQLite-backed chunk store. Embeddings are stored as
// little-endian float32 blobs and scored in Go; SQLite has no native
// vector type.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a SQLite chunk store at the given database file.
// If path is empty, defaults to ~/.confcrawl/data/chunks.db.
func NewStore(path string) (*Store, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		path = filepath.Join(home, ".confcrawl", "data", "chunks.db")
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: path,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	// Sort and run migrations
	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_create_chunks.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		// Read and execute migration
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

// Upsert stores or replaces the chunk at (url, chunk number). An
// existing row keeps its creation time; everything else is replaced.
func (s *Store) Upsert(ctx context.Context, chunk *domain.Chunk) error {
	if chunk.URL == "" || chunk.ChunkNumber < 0 {
		return domain.ErrInvalidInput
	}

	metadataJSON, err := json.Marshal(chunk.Metadata)
	if err != nil {
		return fmt.Errorf("marshalling metadata: %w", err)
	}

	now := time.Now().UTC()
	createdAt := chunk.CreatedAt
	if createdAt.IsZero() {
		createdAt = now
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO chunks (url, chunk_number, title, summary, content, metadata, embedding, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(url, chunk_number) DO UPDATE SET
			title = excluded.title,
			summary = excluded.summary,
			content = excluded.content,
			metadata = excluded.metadata,
			embedding = excluded.embedding,
			updated_at = excluded.updated_at
	`, chunk.URL, chunk.ChunkNumber, chunk.Title, chunk.Summary, chunk.Content,
		string(metadataJSON), float32SliceToBytes(chunk.Embedding), createdAt, now)

	if err != nil {
		return fmt.Errorf("saving chunk: %w", err)
	}
	return nil
}

// DistinctURLs returns the URLs with at least one chunk matching the
// filter, sorted lexicographically.
func (s *Store) DistinctURLs(ctx context.Context, filter domain.Filter) ([]string, error) {
	query := "SELECT DISTINCT url FROM chunks"
	var args []any
	if clause, clauseArgs := sourcePredicate(filter); clause != "" {
		query += " WHERE " + clause
		args = clauseArgs
	}
	query += " ORDER BY url"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying urls: %w", err)
	}
	defer rows.Close()

	var urls []string //nolint:prealloc // size unknown from query
	for rows.Next() {
		var url string
		if err := rows.Scan(&url); err != nil {
			return nil, fmt.Errorf("scanning url: %w", err)
		}
		urls = append(urls, url)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating urls: %w", err)
	}

	return urls, nil
}

// ChunksByURL returns the chunks stored for a URL that match the
// filter, ordered by chunk number.
func (s *Store) ChunksByURL(ctx context.Context, url string, filter domain.Filter) ([]domain.Chunk, error) {
	where := "WHERE url = ?"
	args := []any{url}
	if clause, clauseArgs := sourcePredicate(filter); clause != "" {
		where += " AND " + clause
		args = append(args, clauseArgs...)
	}

	return s.queryChunks(ctx, where+" ORDER BY chunk_number", args...)
}

// Search scores every chunk matching the filter by cosine similarity
// against the query embedding and returns the topK best. Ties break by
// (url, chunk number) ascending.
func (s *Store) Search(ctx context.Context, embedding []float32, topK int, filter domain.Filter) ([]domain.ScoredChunk, error) {
	if topK <= 0 {
		return nil, nil
	}

	var where string
	var args []any
	if clause, clauseArgs := sourcePredicate(filter); clause != "" {
		where = "WHERE " + clause
		args = clauseArgs
	}

	chunks, err := s.queryChunks(ctx, where, args...)
	if err != nil {
		return nil, err
	}

	scored := make([]domain.ScoredChunk, 0, len(chunks))
	for _, chunk := range chunks {
		scored = append(scored, domain.ScoredChunk{
			Chunk: chunk,
			Score: vector.CosineSimilarity(embedding, chunk.Embedding),
		})
	}

	sort.Slice(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		if scored[i].URL != scored[j].URL {
			return scored[i].URL < scored[j].URL
		}
		return scored[i].ChunkNumber < scored[j].ChunkNumber
	})

	if len(scored) > topK {
		scored = scored[:topK]
	}
	return scored, nil
}

// DeleteByURL removes every chunk stored for the URL and returns how
// many rows were removed.
func (s *Store) DeleteByURL(ctx context.Context, url string) (int64, error) {
	result, err := s.db.ExecContext(ctx, "DELETE FROM chunks WHERE url = ?", url)
	if err != nil {
		return 0, fmt.Errorf("deleting chunks: %w", err)
	}
	return result.RowsAffected()
}

// DeleteBySource removes every chunk whose metadata source matches and
// returns how many rows were removed.
func (s *Store) DeleteBySource(ctx context.Context, source string) (int64, error) {
	result, err := s.db.ExecContext(ctx, "DELETE FROM chunks WHERE "+sourceExpr+" = ?", source)
	if err != nil {
		return 0, fmt.Errorf("deleting chunks: %w", err)
	}
	return result.RowsAffected()
}

// queryChunks runs a chunk select with the given tail (WHERE/ORDER BY)
// and scans the rows.
func (s *Store) queryChunks(ctx context.Context, tail string, args ...any) ([]domain.Chunk, error) {
	query := "SELECT " + chunkColumns + " FROM chunks"
	if tail != "" {
		query += " " + tail
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	var chunks []domain.Chunk //nolint:prealloc // size unknown from query
	for rows.Next() {
		chunk, err := scanChunk(rows)
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, *chunk)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}

	return chunks, nil
}

// sourcePredicate builds the metadata source condition for a filter.
// A zero filter matches everything.
func sourcePredicate(filter domain.Filter) (string, []any) {
	if filter.IsZero() {
		return "", nil
	}
	return sourceExpr + " = ?", []any{filter.Source}
}

// scanChunk scans a chunk from *sql.Rows.
func scanChunk(rows *sql.Rows) (*domain.Chunk, error) {
	var chunk domain.Chunk
	var metadataJSON string
	var embeddingBlob []byte
	var createdAt, updatedAt sql.NullTime

	if err := rows.Scan(&chunk.URL, &chunk.ChunkNumber, &chunk.Title, &chunk.Summary,
		&chunk.Content, &metadataJSON, &embeddingBlob, &createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("scanning chunk: %w", err)
	}

	chunk.Embedding = bytesToFloat32Slice(embeddingBlob)

	if metadataJSON != "" {
		if err := json.Unmarshal([]byte(metadataJSON), &chunk.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshaling chunk metadata: %w", err)
		}
	}

	if createdAt.Valid {
		chunk.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		chunk.UpdatedAt = updatedAt.Time
	}

	return &chunk, nil
}

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}
