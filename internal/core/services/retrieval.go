package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/corpora-labs/confcrawl/internal/core/domain"
	"github.com/corpora-labs/confcrawl/internal/core/ports/driven"
	"github.com/corpora-labs/confcrawl/internal/core/ports/driving"
	"github.com/corpora-labs/confcrawl/internal/logger"
)

// Ensure RetrievalService implements the interface.
var _ driving.Retriever = (*RetrievalService)(nil)

const (
	// defaultMatchCount is how many chunks a documentation search
	// considers before formatting.
	defaultMatchCount = 100

	// noResultsSentinel is returned when a search matches nothing.
	noResultsSentinel = "No relevant documentation found."
)

// RetrievalService answers documentation queries against the chunk
// store. Queries are embedded with the same model used at ingestion
// and matched by vector similarity.
type RetrievalService struct {
	store    driven.ChunkStore
	enricher *Enricher
	source   string
}

// NewRetrievalService creates a retrieval service scoped to one
// metadata source. An empty source selects the default corpus.
func NewRetrievalService(store driven.ChunkStore, enricher *Enricher, source string) *RetrievalService {
	if source == "" {
		source = domain.DefaultSource
	}
	return &RetrievalService{
		store:    store,
		enricher: enricher,
		source:   source,
	}
}

// SearchChunks embeds the query and returns the topK most similar
// chunks. A topK of zero or less falls back to the default match count.
func (s *RetrievalService) SearchChunks(ctx context.Context, query string, topK int) ([]domain.ScoredChunk, error) {
	if s.store == nil {
		return nil, domain.ErrStoreUnavailable
	}
	if topK <= 0 {
		topK = defaultMatchCount
	}

	embedding := s.enricher.Embed(ctx, query)
	matches, err := s.store.Search(ctx, embedding, topK, domain.SourceFilter(s.source))
	if err != nil {
		return nil, fmt.Errorf("search chunks: %w", err)
	}

	logger.Debug("Search for %q matched %d chunks", query, len(matches))
	return matches, nil
}

// SearchDocumentation runs a similarity search and formats the matches
// as a single markdown document, one titled section per chunk.
func (s *RetrievalService) SearchDocumentation(ctx context.Context, query string) (string, error) {
	matches, err := s.SearchChunks(ctx, query, defaultMatchCount)
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return noResultsSentinel, nil
	}

	sections := make([]string, 0, len(matches))
	for _, match := range matches {
		sections = append(sections, fmt.Sprintf("# %s\n\n%s", match.Title, match.Content))
	}
	return strings.Join(sections, "\n\n---\n\n"), nil
}

// ListPages returns the distinct ingested URLs in lexicographic order.
func (s *RetrievalService) ListPages(ctx context.Context) ([]string, error) {
	if s.store == nil {
		return nil, domain.ErrStoreUnavailable
	}

	urls, err := s.store.DistinctURLs(ctx, domain.SourceFilter(s.source))
	if err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}
	return urls, nil
}

// GetPage reassembles a page from its stored chunks, in chunk order,
// under a single page title. The page title is the first chunk's title
// with any chunk-specific suffix removed.
func (s *RetrievalService) GetPage(ctx context.Context, pageURL string) (string, error) {
	if s.store == nil {
		return "", domain.ErrStoreUnavailable
	}

	chunks, err := s.store.ChunksByURL(ctx, pageURL, domain.SourceFilter(s.source))
	if err != nil {
		return "", fmt.Errorf("get page: %w", err)
	}
	if len(chunks) == 0 {
		return fmt.Sprintf("No content found for URL: %s", pageURL), nil
	}

	pageTitle := chunks[0].Title
	if idx := strings.Index(pageTitle, " - "); idx >= 0 {
		pageTitle = pageTitle[:idx]
	}

	parts := make([]string, 0, len(chunks)+1)
	parts = append(parts, fmt.Sprintf("# %s\n", pageTitle))
	for _, chunk := range chunks {
		parts = append(parts, chunk.Content)
	}
	return strings.Join(parts, "\n\n"), nil
}
