package domain

import "time"

// Metadata keys every stored chunk carries.
const (
	// MetaSource tags the chunk with its ingestion dataset.
	MetaSource = "source"

	// MetaCrawledAt records the fetch time (RFC 3339, UTC).
	MetaCrawledAt = "crawled_at"

	// MetaURLPath records the path component of the source URL.
	MetaURLPath = "url_path"

	// MetaChunkSize records the content length in bytes (decimal string).
	MetaChunkSize = "chunk_size"
)

// DefaultSource is the dataset tag applied when none is configured.
const DefaultSource = "sigchi__conference_events"

// Chunk is the unit of storage and retrieval: one bounded fragment of a
// page's text, enriched with a title, summary and embedding vector.
type Chunk struct {
	// URL identifies the source page. Not unique on its own.
	URL string

	// ChunkNumber is the zero-based ordinal of this fragment within its
	// page. (URL, ChunkNumber) uniquely identifies a chunk.
	ChunkNumber int

	// Title is a short human-readable description of the fragment.
	Title string

	// Summary condenses the fragment's main points.
	Summary string

	// Content is the raw fragment text.
	Content string

	// Metadata holds arbitrary key/value tags. Always includes the
	// source tag and fetch timestamp.
	Metadata map[string]string

	// Embedding is the fixed-length vector representing Content in
	// semantic space. A zero vector marks a failed enrichment; the
	// field is never absent.
	Embedding []float32

	// CreatedAt is when the chunk was first stored.
	CreatedAt time.Time

	// UpdatedAt is when the chunk was last overwritten.
	UpdatedAt time.Time
}

// Source returns the chunk's dataset tag, or "" if untagged.
func (c *Chunk) Source() string {
	return c.Metadata[MetaSource]
}

// ScoredChunk pairs a chunk with its similarity to a query embedding.
type ScoredChunk struct {
	Chunk

	// Score is the similarity to the query vector. Higher is more
	// similar; cosine similarity in all shipped stores.
	Score float64
}

// Enrichment is the per-chunk output of the enrichment step. All fields
// are always populated: failures substitute the documented fallbacks
// instead of leaving fields empty.
type Enrichment struct {
	Title     string
	Summary   string
	Embedding []float32
}

// FetchResult is the outcome of rendering one URL. Fetchers never return
// a Go error; all failure is carried in-band.
type FetchResult struct {
	// Success reports whether the page rendered.
	Success bool

	// Markdown is the rendered page content. Empty on failure.
	Markdown string

	// Error describes the failure. Empty on success.
	Error string
}
