package mcp

import (
	"context"

	"github.com/corpora-labs/confcrawl/internal/core/domain"
)

// mockRetriever is a mock implementation of driving.Retriever.
type mockRetriever struct {
	documentation string
	chunks        []domain.ScoredChunk
	pages         []string
	pageContent   string
	err           error
}

func (m *mockRetriever) SearchDocumentation(_ context.Context, _ string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return m.documentation, nil
}

func (m *mockRetriever) SearchChunks(_ context.Context, _ string, _ int) ([]domain.ScoredChunk, error) {
	return m.chunks, m.err
}

func (m *mockRetriever) ListPages(_ context.Context) ([]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.pages, nil
}

func (m *mockRetriever) GetPage(_ context.Context, _ string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return m.pageContent, nil
}
