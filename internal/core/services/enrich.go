package services

import (
	"context"

	"github.com/corpora-labs/confcrawl/internal/core/domain"
	"github.com/corpora-labs/confcrawl/internal/core/ports/driven"
	"github.com/corpora-labs/confcrawl/internal/logger"
	"github.com/corpora-labs/confcrawl/internal/vector"
)

// Enrichment fallbacks. A chunk whose LLM call fails is stored with
// these strings; a chunk whose embedding call fails is stored with a
// zero vector. Neither failure aborts ingestion of sibling chunks.
const (
	titleFallback   = "Error processing title"
	summaryFallback = "Error processing summary"
)

// annotationInputLimit caps how much chunk content is sent to the LLM
// for title/summary extraction. The embedding always covers the full
// content.
const annotationInputLimit = 1000

// fallbackDimensions is the embedding length used when no embedding
// service is configured, matching the default OpenAI model.
const fallbackDimensions = 1536

// Enricher produces a title, summary and embedding for one chunk.
// Every method degrades instead of failing: enrichment issues are
// independent per chunk and logged, never propagated.
type Enricher struct {
	llm      driven.LLMService
	embedder driven.EmbeddingService
}

// NewEnricher creates an enricher. Both services are optional; nil
// services yield the documented fallbacks.
func NewEnricher(llm driven.LLMService, embedder driven.EmbeddingService) *Enricher {
	return &Enricher{
		llm:      llm,
		embedder: embedder,
	}
}

// Enrich derives the title, summary and embedding for one chunk of the
// page at url. It never returns an error.
func (e *Enricher) Enrich(ctx context.Context, url, content string) domain.Enrichment {
	title, summary := e.titleAndSummary(ctx, url, content)

	return domain.Enrichment{
		Title:     title,
		Summary:   summary,
		Embedding: e.Embed(ctx, content),
	}
}

// Embed returns the embedding for text, or a zero vector of the fixed
// dimensionality when the call fails or no service is configured. It
// never returns an error; retrieval uses the same path for queries.
func (e *Enricher) Embed(ctx context.Context, text string) []float32 {
	if e.embedder == nil {
		return vector.Zero(e.Dimensions())
	}

	embedding, err := e.embedder.Embed(ctx, text)
	if err != nil {
		logger.Warn("Embedding failed, storing zero vector: %v", err)
		return vector.Zero(e.Dimensions())
	}

	return embedding
}

// Dimensions returns the embedding length every vector from this
// enricher has, including fallback zero vectors.
func (e *Enricher) Dimensions() int {
	if e.embedder != nil {
		return e.embedder.Dimensions()
	}
	return fallbackDimensions
}

// titleAndSummary asks the LLM for the chunk annotation over the first
// annotationInputLimit bytes of content, falling back on failure.
func (e *Enricher) titleAndSummary(ctx context.Context, url, content string) (string, string) {
	if e.llm == nil {
		return titleFallback, summaryFallback
	}

	excerpt := content
	if len(excerpt) > annotationInputLimit {
		excerpt = excerpt[:annotationInputLimit]
	}

	title, summary, err := e.llm.TitleAndSummary(ctx, url, excerpt)
	if err != nil {
		logger.Warn("Title/summary extraction failed for %s: %v", url, err)
		return titleFallback, summaryFallback
	}

	return title, summary
}
