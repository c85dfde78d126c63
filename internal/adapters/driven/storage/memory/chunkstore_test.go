package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corpora-labs/confcrawl/internal/core/domain"
)

func testChunk(url string, number int, source string, embedding []float32) *domain.Chunk {
	return &domain.Chunk{
		URL:         url,
		ChunkNumber: number,
		Title:       "Title",
		Summary:     "Summary",
		Content:     "content",
		Metadata:    map[string]string{domain.MetaSource: source},
		Embedding:   embedding,
	}
}

func TestNewChunkStore(t *testing.T) {
	store := NewChunkStore()
	require.NotNil(t, store)
	assert.NotNil(t, store.pages)
}

func TestChunkStore_Upsert_Success(t *testing.T) {
	store := NewChunkStore()
	ctx := context.Background()

	err := store.Upsert(ctx, testChunk("https://example.com/a", 0, "s1", nil))
	require.NoError(t, err)

	chunks, err := store.ChunksByURL(ctx, "https://example.com/a", domain.Filter{})
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, 0, chunks[0].ChunkNumber)
	assert.False(t, chunks[0].CreatedAt.IsZero())
	assert.False(t, chunks[0].UpdatedAt.IsZero())
}

func TestChunkStore_Upsert_InvalidInput(t *testing.T) {
	store := NewChunkStore()
	ctx := context.Background()

	err := store.Upsert(ctx, testChunk("", 0, "s1", nil))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	err = store.Upsert(ctx, testChunk("https://example.com/a", -1, "s1", nil))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestChunkStore_Upsert_Idempotent(t *testing.T) {
	store := NewChunkStore()
	ctx := context.Background()

	first := testChunk("https://example.com/a", 0, "s1", nil)
	first.Content = "original"
	require.NoError(t, store.Upsert(ctx, first))

	chunks, err := store.ChunksByURL(ctx, "https://example.com/a", domain.Filter{})
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	createdAt := chunks[0].CreatedAt

	time.Sleep(time.Millisecond)

	second := testChunk("https://example.com/a", 0, "s1", nil)
	second.Content = "replacement"
	require.NoError(t, store.Upsert(ctx, second))

	// Same key: still exactly one chunk, content replaced, creation
	// time preserved, update time advanced.
	chunks, err = store.ChunksByURL(ctx, "https://example.com/a", domain.Filter{})
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "replacement", chunks[0].Content)
	assert.Equal(t, createdAt, chunks[0].CreatedAt)
	assert.True(t, chunks[0].UpdatedAt.After(createdAt))
}

func TestChunkStore_DistinctURLs_Sorted(t *testing.T) {
	store := NewChunkStore()
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, testChunk("https://example.com/c", 0, "s1", nil)))
	require.NoError(t, store.Upsert(ctx, testChunk("https://example.com/a", 0, "s1", nil)))
	require.NoError(t, store.Upsert(ctx, testChunk("https://example.com/b", 0, "s1", nil)))
	require.NoError(t, store.Upsert(ctx, testChunk("https://example.com/a", 1, "s1", nil)))

	urls, err := store.DistinctURLs(ctx, domain.Filter{})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"https://example.com/a",
		"https://example.com/b",
		"https://example.com/c",
	}, urls)
}

func TestChunkStore_DistinctURLs_FilterExcludes(t *testing.T) {
	store := NewChunkStore()
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, testChunk("https://example.com/a", 0, "s1", nil)))
	require.NoError(t, store.Upsert(ctx, testChunk("https://example.com/b", 0, "s2", nil)))

	urls, err := store.DistinctURLs(ctx, domain.SourceFilter("s2"))
	require.NoError(t, err)
	assert.Equal(t, []string{"https://example.com/b"}, urls)

	urls, err = store.DistinctURLs(ctx, domain.SourceFilter("missing"))
	require.NoError(t, err)
	assert.Empty(t, urls)
}

func TestChunkStore_ChunksByURL_Ordered(t *testing.T) {
	store := NewChunkStore()
	ctx := context.Background()

	// Insert out of order
	require.NoError(t, store.Upsert(ctx, testChunk("https://example.com/a", 2, "s1", nil)))
	require.NoError(t, store.Upsert(ctx, testChunk("https://example.com/a", 0, "s1", nil)))
	require.NoError(t, store.Upsert(ctx, testChunk("https://example.com/a", 1, "s1", nil)))

	chunks, err := store.ChunksByURL(ctx, "https://example.com/a", domain.Filter{})
	require.NoError(t, err)
	require.Len(t, chunks, 3)
	for i, chunk := range chunks {
		assert.Equal(t, i, chunk.ChunkNumber)
	}
}

func TestChunkStore_ChunksByURL_UnknownURL(t *testing.T) {
	store := NewChunkStore()

	chunks, err := store.ChunksByURL(context.Background(), "https://example.com/missing", domain.Filter{})
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestChunkStore_Search_RanksBySimilarity(t *testing.T) {
	store := NewChunkStore()
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, testChunk("https://example.com/a", 0, "s1", []float32{1, 0, 0})))
	require.NoError(t, store.Upsert(ctx, testChunk("https://example.com/b", 0, "s1", []float32{0, 1, 0})))
	require.NoError(t, store.Upsert(ctx, testChunk("https://example.com/c", 0, "s1", []float32{0.9, 0.1, 0})))

	matches, err := store.Search(ctx, []float32{1, 0, 0}, 2, domain.Filter{})
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "https://example.com/a", matches[0].URL)
	assert.Equal(t, "https://example.com/c", matches[1].URL)
	assert.Greater(t, matches[0].Score, matches[1].Score)
}

func TestChunkStore_Search_TieBreakByURLAndNumber(t *testing.T) {
	store := NewChunkStore()
	ctx := context.Background()

	// Identical embeddings: all score the same
	embedding := []float32{1, 0}
	require.NoError(t, store.Upsert(ctx, testChunk("https://example.com/b", 0, "s1", embedding)))
	require.NoError(t, store.Upsert(ctx, testChunk("https://example.com/a", 1, "s1", embedding)))
	require.NoError(t, store.Upsert(ctx, testChunk("https://example.com/a", 0, "s1", embedding)))

	matches, err := store.Search(ctx, embedding, 10, domain.Filter{})
	require.NoError(t, err)
	require.Len(t, matches, 3)
	assert.Equal(t, "https://example.com/a", matches[0].URL)
	assert.Equal(t, 0, matches[0].ChunkNumber)
	assert.Equal(t, "https://example.com/a", matches[1].URL)
	assert.Equal(t, 1, matches[1].ChunkNumber)
	assert.Equal(t, "https://example.com/b", matches[2].URL)
}

func TestChunkStore_Search_FilterExcludesEverything(t *testing.T) {
	store := NewChunkStore()
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, testChunk("https://example.com/a", 0, "s1", []float32{1, 0})))

	matches, err := store.Search(ctx, []float32{1, 0}, 10, domain.SourceFilter("other"))
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestChunkStore_Search_EmptyStore(t *testing.T) {
	store := NewChunkStore()

	matches, err := store.Search(context.Background(), []float32{1, 0}, 10, domain.Filter{})
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestChunkStore_Search_NonPositiveTopK(t *testing.T) {
	store := NewChunkStore()
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, testChunk("https://example.com/a", 0, "s1", []float32{1, 0})))

	matches, err := store.Search(ctx, []float32{1, 0}, 0, domain.Filter{})
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestChunkStore_DeleteByURL(t *testing.T) {
	store := NewChunkStore()
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, testChunk("https://example.com/a", 0, "s1", nil)))
	require.NoError(t, store.Upsert(ctx, testChunk("https://example.com/a", 1, "s1", nil)))
	require.NoError(t, store.Upsert(ctx, testChunk("https://example.com/b", 0, "s1", nil)))

	removed, err := store.DeleteByURL(ctx, "https://example.com/a")
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)

	urls, err := store.DistinctURLs(ctx, domain.Filter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"https://example.com/b"}, urls)
}

func TestChunkStore_DeleteByURL_Missing(t *testing.T) {
	store := NewChunkStore()

	removed, err := store.DeleteByURL(context.Background(), "https://example.com/missing")
	require.NoError(t, err)
	assert.Equal(t, int64(0), removed)
}

func TestChunkStore_DeleteBySource(t *testing.T) {
	store := NewChunkStore()
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, testChunk("https://example.com/a", 0, "s1", nil)))
	require.NoError(t, store.Upsert(ctx, testChunk("https://example.com/a", 1, "s2", nil)))
	require.NoError(t, store.Upsert(ctx, testChunk("https://example.com/b", 0, "s1", nil)))

	removed, err := store.DeleteBySource(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)

	// The s2 chunk on page a survives
	chunks, err := store.ChunksByURL(ctx, "https://example.com/a", domain.Filter{})
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "s2", chunks[0].Source())

	urls, err := store.DistinctURLs(ctx, domain.Filter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"https://example.com/a"}, urls)
}

func TestChunkStore_Close(t *testing.T) {
	store := NewChunkStore()
	assert.NoError(t, store.Close())
}
