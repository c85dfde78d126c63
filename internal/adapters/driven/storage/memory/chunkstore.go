package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/corpora-labs/confcrawl/internal/core/domain"
	"github.com/corpora-labs/confcrawl/internal/core/ports/driven"
	"github.com/corpora-labs/confcrawl/internal/vector"
)

// Ensure ChunkStore implements the interface.
var _ driven.ChunkStore = (*ChunkStore)(nil)

// ChunkStore is an in-memory implementation of driven.ChunkStore.
// Chunks are keyed by (url, chunk number); similarity search scans
// every stored chunk. Nothing survives process exit.
type ChunkStore struct {
	mu    sync.RWMutex
	pages map[string]map[int]domain.Chunk
}

// NewChunkStore creates a new in-memory chunk store.
func NewChunkStore() *ChunkStore {
	return &ChunkStore{
		pages: make(map[string]map[int]domain.Chunk),
	}
}

// Upsert stores or replaces the chunk at (url, chunk number).
// Re-upserting the same key overwrites in place and keeps the original
// creation time.
func (s *ChunkStore) Upsert(_ context.Context, chunk *domain.Chunk) error {
	if chunk.URL == "" || chunk.ChunkNumber < 0 {
		return domain.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	byNumber, ok := s.pages[chunk.URL]
	if !ok {
		byNumber = make(map[int]domain.Chunk)
		s.pages[chunk.URL] = byNumber
	}

	now := time.Now()
	stored := *chunk
	if existing, ok := byNumber[chunk.ChunkNumber]; ok {
		stored.CreatedAt = existing.CreatedAt
	} else if stored.CreatedAt.IsZero() {
		stored.CreatedAt = now
	}
	stored.UpdatedAt = now

	byNumber[chunk.ChunkNumber] = stored
	return nil
}

// DistinctURLs returns the URLs with at least one chunk matching the
// filter, sorted lexicographically.
func (s *ChunkStore) DistinctURLs(_ context.Context, filter domain.Filter) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var urls []string
	for url, byNumber := range s.pages {
		for _, chunk := range byNumber {
			if filter.Matches(chunk.Metadata) {
				urls = append(urls, url)
				break
			}
		}
	}

	sort.Strings(urls)
	return urls, nil
}

// ChunksByURL returns the chunks stored for a URL that match the
// filter, ordered by chunk number.
func (s *ChunkStore) ChunksByURL(_ context.Context, url string, filter domain.Filter) ([]domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byNumber, ok := s.pages[url]
	if !ok {
		return nil, nil
	}

	var chunks []domain.Chunk
	for _, chunk := range byNumber {
		if filter.Matches(chunk.Metadata) {
			chunks = append(chunks, chunk)
		}
	}

	sort.Slice(chunks, func(i, j int) bool {
		return chunks[i].ChunkNumber < chunks[j].ChunkNumber
	})
	return chunks, nil
}

// Search scores every chunk matching the filter by cosine similarity
// against the query embedding and returns the topK best. Ties break by
// (url, chunk number) ascending.
func (s *ChunkStore) Search(_ context.Context, embedding []float32, topK int, filter domain.Filter) ([]domain.ScoredChunk, error) {
	if topK <= 0 {
		return nil, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var scored []domain.ScoredChunk
	for _, byNumber := range s.pages {
		for _, chunk := range byNumber {
			if !filter.Matches(chunk.Metadata) {
				continue
			}
			scored = append(scored, domain.ScoredChunk{
				Chunk: chunk,
				Score: vector.CosineSimilarity(embedding, chunk.Embedding),
			})
		}
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
// many were removed.
func (s *ChunkStore) DeleteByURL(_ context.Context, url string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	byNumber, ok := s.pages[url]
	if !ok {
		return 0, nil
	}
	removed := int64(len(byNumber))
	delete(s.pages, url)
	return removed, nil
}

// DeleteBySource removes every chunk whose metadata source matches and
// returns how many were removed.
func (s *ChunkStore) DeleteBySource(_ context.Context, source string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	filter := domain.SourceFilter(source)
	var removed int64
	for url, byNumber := range s.pages {
		for number, chunk := range byNumber {
			if filter.Matches(chunk.Metadata) {
				delete(byNumber, number)
				removed++
			}
		}
		if len(byNumber) == 0 {
			delete(s.pages, url)
		}
	}
	return removed, nil
}

// Close is a no-op for the in-memory store.
func (s *ChunkStore) Close() error {
	return nil
}
