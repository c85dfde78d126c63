package services

import (
	"fmt"
	"time"

	"github.com/corpora-labs/confcrawl/internal/core/domain"
	"github.com/corpora-labs/confcrawl/internal/core/ports/driven"
	"github.com/corpora-labs/confcrawl/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyEmbedProvider  = "embedding.provider"
	keyEmbedModel     = "embedding.model"
	keyEmbedBaseURL   = "embedding.base_url"
	keyEmbedAPIKey    = "embedding.api_key"
	keyLLMProvider    = "llm.provider"
	keyLLMModel       = "llm.model"
	keyLLMBaseURL     = "llm.base_url"
	keyLLMAPIKey      = "llm.api_key"
	keyFetchProvider  = "fetcher.provider"
	keyFetchBaseURL   = "fetcher.base_url"
	keyFetchTimeout   = "fetcher.timeout"
	keyFetchRate      = "fetcher.requests_per_second"
	keyStorageBackend = "storage.backend"
	keyStoragePath    = "storage.path"
	keyStorageDSN     = "storage.dsn"
	keyIngestMaxConc  = "ingest.max_concurrent"
	keyIngestChunk    = "ingest.chunk_size"
	keyIngestSource   = "ingest.source"
)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
	}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Embedding: domain.EmbeddingSettings{
			Provider: s.getProvider(keyEmbedProvider, defaults.Embedding.Provider),
			Model:    s.getString(keyEmbedModel, defaults.Embedding.Model),
			BaseURL:  s.configStore.GetString(keyEmbedBaseURL), // No default - empty is valid for cloud providers
			APIKey:   s.configStore.GetString(keyEmbedAPIKey),
		},
		LLM: domain.LLMSettings{
			Provider: s.getProvider(keyLLMProvider, defaults.LLM.Provider),
			Model:    s.getString(keyLLMModel, defaults.LLM.Model),
			BaseURL:  s.configStore.GetString(keyLLMBaseURL), // No default - empty is valid for cloud providers
			APIKey:   s.configStore.GetString(keyLLMAPIKey),
		},
		Fetcher: domain.FetcherSettings{
			Provider:          s.getFetcherProvider(defaults.Fetcher.Provider),
			BaseURL:           s.configStore.GetString(keyFetchBaseURL),
			Timeout:           s.getDuration(keyFetchTimeout, defaults.Fetcher.Timeout),
			RequestsPerSecond: s.configStore.GetFloat64(keyFetchRate),
		},
		Storage: domain.StorageSettings{
			Backend: s.getStorageBackend(defaults.Storage.Backend),
			Path:    s.configStore.GetString(keyStoragePath),
			DSN:     s.configStore.GetString(keyStorageDSN),
		},
		Ingest: domain.IngestSettings{
			MaxConcurrent: s.getInt(keyIngestMaxConc, defaults.Ingest.MaxConcurrent),
			ChunkSize:     s.getInt(keyIngestChunk, defaults.Ingest.ChunkSize),
			Source:        s.getString(keyIngestSource, defaults.Ingest.Source),
		},
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	// Save embedding settings
	if err := s.configStore.Set(keyEmbedProvider, settings.Embedding.Provider.String()); err != nil {
		return fmt.Errorf("save embedding provider: %w", err)
	}
	if err := s.configStore.Set(keyEmbedModel, settings.Embedding.Model); err != nil {
		return fmt.Errorf("save embedding model: %w", err)
	}
	if err := s.configStore.Set(keyEmbedBaseURL, settings.Embedding.BaseURL); err != nil {
		return fmt.Errorf("save embedding base_url: %w", err)
	}
	if settings.Embedding.APIKey != "" {
		if err := s.configStore.Set(keyEmbedAPIKey, settings.Embedding.APIKey); err != nil {
			return fmt.Errorf("save embedding api_key: %w", err)
		}
	}

	// Save LLM settings
	if err := s.configStore.Set(keyLLMProvider, settings.LLM.Provider.String()); err != nil {
		return fmt.Errorf("save llm provider: %w", err)
	}
	if err := s.configStore.Set(keyLLMModel, settings.LLM.Model); err != nil {
		return fmt.Errorf("save llm model: %w", err)
	}
	if err := s.configStore.Set(keyLLMBaseURL, settings.LLM.BaseURL); err != nil {
		return fmt.Errorf("save llm base_url: %w", err)
	}
	if settings.LLM.APIKey != "" {
		if err := s.configStore.Set(keyLLMAPIKey, settings.LLM.APIKey); err != nil {
			return fmt.Errorf("save llm api_key: %w", err)
		}
	}

	// Save fetcher settings
	if err := s.configStore.Set(keyFetchProvider, settings.Fetcher.Provider.String()); err != nil {
		return fmt.Errorf("save fetcher provider: %w", err)
	}
	if err := s.configStore.Set(keyFetchBaseURL, settings.Fetcher.BaseURL); err != nil {
		return fmt.Errorf("save fetcher base_url: %w", err)
	}
	if err := s.configStore.Set(keyFetchTimeout, settings.Fetcher.Timeout.String()); err != nil {
		return fmt.Errorf("save fetcher timeout: %w", err)
	}
	if err := s.configStore.Set(keyFetchRate, settings.Fetcher.RequestsPerSecond); err != nil {
		return fmt.Errorf("save fetcher requests_per_second: %w", err)
	}

	// Save storage settings
	if err := s.configStore.Set(keyStorageBackend, settings.Storage.Backend.String()); err != nil {
		return fmt.Errorf("save storage backend: %w", err)
	}
	if err := s.configStore.Set(keyStoragePath, settings.Storage.Path); err != nil {
		return fmt.Errorf("save storage path: %w", err)
	}
	if err := s.configStore.Set(keyStorageDSN, settings.Storage.DSN); err != nil {
		return fmt.Errorf("save storage dsn: %w", err)
	}

	// Save ingest settings
	if err := s.configStore.Set(keyIngestMaxConc, settings.Ingest.MaxConcurrent); err != nil {
		return fmt.Errorf("save ingest max_concurrent: %w", err)
	}
	if err := s.configStore.Set(keyIngestChunk, settings.Ingest.ChunkSize); err != nil {
		return fmt.Errorf("save ingest chunk_size: %w", err)
	}
	if err := s.configStore.Set(keyIngestSource, settings.Ingest.Source); err != nil {
		return fmt.Errorf("save ingest source: %w", err)
	}

	return nil
}

// SetEmbeddingProvider configures the embedding provider.
func (s *SettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid embedding provider: %s", provider)
	}

	// Validate provider supports embeddings
	validProviders := domain.AllEmbeddingProviders()
	valid := false
	for _, p := range validProviders {
		if p == provider {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("provider %s does not support embeddings", provider)
	}

	// Validate API key if required
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("API key required for %s", provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Embedding.Provider = provider

	// Set model - use provided or default
	if model != "" {
		settings.Embedding.Model = model
	} else {
		defaults := domain.DefaultEmbeddingModels()
		if defaultModel, ok := defaults[provider]; ok {
			settings.Embedding.Model = defaultModel
		}
	}

	// Set base URL based on provider type
	if provider.IsLocal() {
		// Local providers need a base URL
		if settings.Embedding.BaseURL == "" {
			settings.Embedding.BaseURL = "http://localhost:11434"
		}
	} else {
		// Cloud providers don't need a custom base URL
		settings.Embedding.BaseURL = ""
	}

	// Set API key
	settings.Embedding.APIKey = apiKey

	return s.Save(settings)
}

// SetLLMProvider configures the LLM provider.
func (s *SettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid LLM provider: %s", provider)
	}

	// Validate API key if required
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("API key required for %s", provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.LLM.Provider = provider

	// Set model - use provided or default
	if model != "" {
		settings.LLM.Model = model
	} else {
		defaults := domain.DefaultLLMModels()
		if defaultModel, ok := defaults[provider]; ok {
			settings.LLM.Model = defaultModel
		}
	}

	// Set base URL based on provider type
	if provider.IsLocal() {
		// Local providers need a base URL
		if settings.LLM.BaseURL == "" {
			settings.LLM.BaseURL = "http://localhost:11434"
		}
	} else {
		// Cloud providers don't need a custom base URL
		settings.LLM.BaseURL = ""
	}

	// Set API key
	settings.LLM.APIKey = apiKey

	return s.Save(settings)
}

// SetFetcherProvider configures the page rendering backend.
func (s *SettingsService) SetFetcherProvider(provider domain.FetcherProvider, baseURL string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid fetcher provider: %s", provider)
	}

	// The HTTP rendering service needs an endpoint
	if provider == domain.FetcherService && baseURL == "" {
		return fmt.Errorf("base URL required for %s", provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Fetcher.Provider = provider
	if provider == domain.FetcherService {
		settings.Fetcher.BaseURL = baseURL
	} else {
		// Local Chrome needs no endpoint
		settings.Fetcher.BaseURL = ""
	}

	return s.Save(settings)
}

// SetStorageBackend configures the chunk store backend.
func (s *SettingsService) SetStorageBackend(backend domain.StorageBackend, location string) error {
	if !backend.IsValid() {
		return fmt.Errorf("invalid storage backend: %s", backend)
	}

	// Postgres needs a connection string
	if backend == domain.StoragePostgres && location == "" {
		return fmt.Errorf("connection string required for %s", backend)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Storage.Backend = backend
	switch backend {
	case domain.StorageSQLite:
		settings.Storage.Path = location
		settings.Storage.DSN = ""
	case domain.StoragePostgres:
		settings.Storage.DSN = location
		settings.Storage.Path = ""
	case domain.StorageMemory:
		settings.Storage.Path = ""
		settings.Storage.DSN = ""
	}

	return s.Save(settings)
}

// Validate checks if current settings are complete enough to ingest.
// AI providers are not required: enrichment falls back to placeholder
// annotations and zero vectors when they are absent.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	if !settings.Fetcher.IsConfigured() {
		return fmt.Errorf("fetcher %q is not fully configured", settings.Fetcher.Provider)
	}
	if !settings.Storage.Backend.IsValid() {
		return fmt.Errorf("invalid storage backend: %s", settings.Storage.Backend)
	}
	if settings.Storage.Backend == domain.StoragePostgres && settings.Storage.DSN == "" {
		return fmt.Errorf("storage backend %q requires a connection string", settings.Storage.Backend)
	}
	if settings.Ingest.MaxConcurrent <= 0 {
		return fmt.Errorf("ingest max_concurrent must be positive, got %d", settings.Ingest.MaxConcurrent)
	}
	if settings.Ingest.ChunkSize <= 0 {
		return fmt.Errorf("ingest chunk_size must be positive, got %d", settings.Ingest.ChunkSize)
	}

	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ValidateEmbeddingConfig validates the current embedding configuration by pinging the provider.
func (s *SettingsService) ValidateEmbeddingConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateEmbedding(&settings.Embedding)
}

// ValidateLLMConfig validates the current LLM configuration by pinging the provider.
func (s *SettingsService) ValidateLLMConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateLLM(&settings.LLM)
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getDuration(key string, defaultVal time.Duration) time.Duration {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultVal
	}
	return d
}

func (s *SettingsService) getProvider(key string, defaultVal domain.AIProvider) domain.AIProvider {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	provider := domain.AIProvider(val)
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}

func (s *SettingsService) getFetcherProvider(defaultVal domain.FetcherProvider) domain.FetcherProvider {
	val := s.configStore.GetString(keyFetchProvider)
	if val == "" {
		return defaultVal
	}
	provider := domain.FetcherProvider(val)
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}

func (s *SettingsService) getStorageBackend(defaultVal domain.StorageBackend) domain.StorageBackend {
	val := s.configStore.GetString(keyStorageBackend)
	if val == "" {
		return defaultVal
	}
	backend := domain.StorageBackend(val)
	if !backend.IsValid() {
		return defaultVal
	}
	return backend
}
