package cli

import (
	"context"
	"errors"
	"time"

	"github.com/corpora-labs/confcrawl/internal/core/domain"
)

// Commands read package-level services, so each test installs mocks
// and restores the previous wiring through the returned cleanup.
func setupTestServices() func() {
	oldIngestor := ingestor
	oldRetriever := retriever
	oldSettings := settingsService
	oldStore := chunkStore

	ingestor = &mockIngestor{}
	retriever = &mockRetriever{}
	settingsService = &mockSettingsService{settings: domain.DefaultAppSettings()}
	chunkStore = &mockChunkStore{}

	return func() {
		ingestor = oldIngestor
		retriever = oldRetriever
		settingsService = oldSettings
		chunkStore = oldStore
	}
}

// mockIngestor implements driving.Ingestor with a canned report.
type mockIngestor struct {
	IngestFunc func(ctx context.Context, urls []string, opts domain.IngestOptions) (*domain.IngestReport, error)
	running    bool
}

func (m *mockIngestor) Ingest(ctx context.Context, urls []string, opts domain.IngestOptions) (*domain.IngestReport, error) {
	if m.IngestFunc != nil {
		return m.IngestFunc(ctx, urls, opts)
	}
	now := time.Now()
	return &domain.IngestReport{
		RunID:        "run-1",
		Started:      now,
		Finished:     now.Add(50 * time.Millisecond),
		Total:        len(urls),
		Succeeded:    len(urls),
		ChunksStored: len(urls) * 2,
	}, nil
}

func (m *mockIngestor) Running() bool {
	return m.running
}

// mockRetriever implements driving.Retriever with canned responses.
type mockRetriever struct {
	SearchChunksFunc func(ctx context.Context, query string, topK int) ([]domain.ScoredChunk, error)
	ListPagesFunc    func(ctx context.Context) ([]string, error)
	GetPageFunc      func(ctx context.Context, url string) (string, error)
}

func (m *mockRetriever) SearchDocumentation(ctx context.Context, query string) (string, error) {
	return "# Accepted Papers\n\nThe accepted papers are listed below.", nil
}

func (m *mockRetriever) SearchChunks(ctx context.Context, query string, topK int) ([]domain.ScoredChunk, error) {
	if m.SearchChunksFunc != nil {
		return m.SearchChunksFunc(ctx, query, topK)
	}
	return []domain.ScoredChunk{
		{
			Chunk: domain.Chunk{
				URL:         "https://programs.sigchi.org/chi/2026",
				ChunkNumber: 0,
				Title:       "Accepted Papers",
				Summary:     "Lists the accepted papers with session assignments.",
			},
			Score: 0.92,
		},
		{
			Chunk: domain.Chunk{
				URL:         "https://programs.sigchi.org/uist/2026",
				ChunkNumber: 1,
				Title:       "Keynote Speakers",
				Summary:     "Announces the opening and closing keynotes.",
			},
			Score: 0.81,
		},
	}, nil
}

func (m *mockRetriever) ListPages(ctx context.Context) ([]string, error) {
	if m.ListPagesFunc != nil {
		return m.ListPagesFunc(ctx)
	}
	return []string{
		"https://programs.sigchi.org/chi/2026",
		"https://programs.sigchi.org/uist/2026",
	}, nil
}

func (m *mockRetriever) GetPage(ctx context.Context, url string) (string, error) {
	if m.GetPageFunc != nil {
		return m.GetPageFunc(ctx, url)
	}
	return "# Conference Program\n\nSessions run Monday through Friday.", nil
}

// mockRetrieverError fails every retrieval operation.
type mockRetrieverError struct{}

func (m *mockRetrieverError) SearchDocumentation(ctx context.Context, query string) (string, error) {
	return "", errors.New("store offline")
}

func (m *mockRetrieverError) SearchChunks(ctx context.Context, query string, topK int) ([]domain.ScoredChunk, error) {
	return nil, errors.New("store offline")
}

func (m *mockRetrieverError) ListPages(ctx context.Context) ([]string, error) {
	return nil, errors.New("store offline")
}

func (m *mockRetrieverError) GetPage(ctx context.Context, url string) (string, error) {
	return "", errors.New("store offline")
}

// mockSettingsService implements driving.SettingsService in memory.
type mockSettingsService struct {
	settings    domain.AppSettings
	validateErr error
	getErr      error
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	s := m.settings
	return &s, nil
}

func (m *mockSettingsService) Save(settings *domain.AppSettings) error {
	m.settings = *settings
	return nil
}

func (m *mockSettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	m.settings.Embedding = domain.EmbeddingSettings{Provider: provider, Model: model, APIKey: apiKey}
	return nil
}

func (m *mockSettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	m.settings.LLM = domain.LLMSettings{Provider: provider, Model: model, APIKey: apiKey}
	return nil
}

func (m *mockSettingsService) SetFetcherProvider(provider domain.FetcherProvider, baseURL string) error {
	m.settings.Fetcher.Provider = provider
	m.settings.Fetcher.BaseURL = baseURL
	return nil
}

func (m *mockSettingsService) SetStorageBackend(backend domain.StorageBackend, location string) error {
	m.settings.Storage.Backend = backend
	return nil
}

func (m *mockSettingsService) Validate() error {
	return m.validateErr
}

func (m *mockSettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

func (m *mockSettingsService) ValidateEmbeddingConfig() error {
	return nil
}

func (m *mockSettingsService) ValidateLLMConfig() error {
	return nil
}

// mockChunkStore implements driven.ChunkStore for purge tests.
type mockChunkStore struct {
	DeleteByURLFunc    func(ctx context.Context, url string) (int64, error)
	DeleteBySourceFunc func(ctx context.Context, source string) (int64, error)
}

func (m *mockChunkStore) Upsert(ctx context.Context, chunk *domain.Chunk) error {
	return nil
}

func (m *mockChunkStore) DistinctURLs(ctx context.Context, filter domain.Filter) ([]string, error) {
	return nil, nil
}

func (m *mockChunkStore) ChunksByURL(ctx context.Context, url string, filter domain.Filter) ([]domain.Chunk, error) {
	return nil, nil
}

func (m *mockChunkStore) Search(ctx context.Context, embedding []float32, topK int, filter domain.Filter) ([]domain.ScoredChunk, error) {
	return nil, nil
}

func (m *mockChunkStore) DeleteByURL(ctx context.Context, url string) (int64, error) {
	if m.DeleteByURLFunc != nil {
		return m.DeleteByURLFunc(ctx, url)
	}
	return 4, nil
}

func (m *mockChunkStore) DeleteBySource(ctx context.Context, source string) (int64, error) {
	if m.DeleteBySourceFunc != nil {
		return m.DeleteBySourceFunc(ctx, source)
	}
	return 12, nil
}

func (m *mockChunkStore) Close() error {
	return nil
}
