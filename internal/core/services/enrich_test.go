package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corpora-labs/confcrawl/internal/vector"
)

// --- Mock implementations for enrichment testing ---

// enrichMockLLM implements driven.LLMService.
type enrichMockLLM struct {
	title       string
	summary     string
	err         error
	lastURL     string
	lastContent string
}

func (m *enrichMockLLM) TitleAndSummary(_ context.Context, url, content string) (string, string, error) {
	m.lastURL = url
	m.lastContent = content
	if m.err != nil {
		return "", "", m.err
	}
	return m.title, m.summary, nil
}

func (m *enrichMockLLM) ModelName() string            { return "mock-llm" }
func (m *enrichMockLLM) Ping(_ context.Context) error { return nil }
func (m *enrichMockLLM) Close() error                 { return nil }

// enrichMockEmbedder implements driven.EmbeddingService.
type enrichMockEmbedder struct {
	embedding []float32
	err       error
	lastText  string
}

func (m *enrichMockEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	m.lastText = text
	if m.err != nil {
		return nil, m.err
	}
	if m.embedding != nil {
		return m.embedding, nil
	}
	return []float32{0.1, 0.2, 0.3}, nil
}

func (m *enrichMockEmbedder) Dimensions() int              { return 3 }
func (m *enrichMockEmbedder) ModelName() string            { return "mock-embed" }
func (m *enrichMockEmbedder) Ping(_ context.Context) error { return nil }
func (m *enrichMockEmbedder) Close() error                 { return nil }

// --- Tests ---

func TestNewEnricher(t *testing.T) {
	enricher := NewEnricher(&enrichMockLLM{}, &enrichMockEmbedder{})
	require.NotNil(t, enricher)
}

func TestEnricher_Enrich_Success(t *testing.T) {
	llm := &enrichMockLLM{title: "Conference Schedule", summary: "Talks and times."}
	embedder := &enrichMockEmbedder{embedding: []float32{0.5, 0.5, 0.5}}
	enricher := NewEnricher(llm, embedder)

	enrichment := enricher.Enrich(context.Background(), "https://example.com/schedule", "Keynote at 9am.")

	assert.Equal(t, "Conference Schedule", enrichment.Title)
	assert.Equal(t, "Talks and times.", enrichment.Summary)
	assert.Equal(t, []float32{0.5, 0.5, 0.5}, enrichment.Embedding)
	assert.Equal(t, "https://example.com/schedule", llm.lastURL)
}

func TestEnricher_Enrich_LLMFailure(t *testing.T) {
	llm := &enrichMockLLM{err: errors.New("model offline")}
	embedder := &enrichMockEmbedder{embedding: []float32{0.5, 0.5, 0.5}}
	enricher := NewEnricher(llm, embedder)

	enrichment := enricher.Enrich(context.Background(), "https://example.com/a", "content")

	// Fallback annotation, but the embedding still succeeds
	assert.Equal(t, "Error processing title", enrichment.Title)
	assert.Equal(t, "Error processing summary", enrichment.Summary)
	assert.Equal(t, []float32{0.5, 0.5, 0.5}, enrichment.Embedding)
}

func TestEnricher_Enrich_EmbeddingFailure(t *testing.T) {
	llm := &enrichMockLLM{title: "Title", summary: "Summary"}
	embedder := &enrichMockEmbedder{err: errors.New("quota exceeded")}
	enricher := NewEnricher(llm, embedder)

	enrichment := enricher.Enrich(context.Background(), "https://example.com/a", "content")

	// Annotation succeeds, embedding degrades to a zero vector of the
	// configured dimensionality
	assert.Equal(t, "Title", enrichment.Title)
	require.Len(t, enrichment.Embedding, embedder.Dimensions())
	assert.True(t, vector.IsZero(enrichment.Embedding))
}

func TestEnricher_Enrich_NoServices(t *testing.T) {
	enricher := NewEnricher(nil, nil)

	enrichment := enricher.Enrich(context.Background(), "https://example.com/a", "content")

	assert.Equal(t, "Error processing title", enrichment.Title)
	assert.Equal(t, "Error processing summary", enrichment.Summary)
	require.Len(t, enrichment.Embedding, fallbackDimensions)
	assert.True(t, vector.IsZero(enrichment.Embedding))
}

func TestEnricher_Enrich_TruncatesAnnotationInput(t *testing.T) {
	llm := &enrichMockLLM{title: "Title", summary: "Summary"}
	embedder := &enrichMockEmbedder{}
	enricher := NewEnricher(llm, embedder)

	content := strings.Repeat("x", 2500)
	enricher.Enrich(context.Background(), "https://example.com/a", content)

	// The LLM sees only the leading excerpt; the embedding covers the
	// full chunk content
	assert.Len(t, llm.lastContent, annotationInputLimit)
	assert.Equal(t, content, embedder.lastText)
}

func TestEnricher_Enrich_ShortContentNotTruncated(t *testing.T) {
	llm := &enrichMockLLM{title: "Title", summary: "Summary"}
	enricher := NewEnricher(llm, &enrichMockEmbedder{})

	enricher.Enrich(context.Background(), "https://example.com/a", "short content")

	assert.Equal(t, "short content", llm.lastContent)
}

func TestEnricher_Embed_Success(t *testing.T) {
	embedder := &enrichMockEmbedder{embedding: []float32{1, 2, 3}}
	enricher := NewEnricher(nil, embedder)

	embedding := enricher.Embed(context.Background(), "query text")

	assert.Equal(t, []float32{1, 2, 3}, embedding)
	assert.Equal(t, "query text", embedder.lastText)
}

func TestEnricher_Embed_NilEmbedder(t *testing.T) {
	enricher := NewEnricher(nil, nil)

	embedding := enricher.Embed(context.Background(), "query text")

	require.Len(t, embedding, fallbackDimensions)
	assert.True(t, vector.IsZero(embedding))
}

func TestEnricher_Dimensions(t *testing.T) {
	assert.Equal(t, 3, NewEnricher(nil, &enrichMockEmbedder{}).Dimensions())
	assert.Equal(t, fallbackDimensions, NewEnricher(nil, nil).Dimensions())
}
