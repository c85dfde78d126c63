package domain

import "time"

const unknownDescription = "Unknown"

// AIProvider identifies an AI service provider for embeddings or LLM.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderAnthropic
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	default:
		return unknownDescription
	}
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint (for Ollama).
	BaseURL string

	// APIKey is the API key (for OpenAI).
	APIKey string
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// LLMSettings holds LLM provider configuration.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the LLM model name.
	Model string

	// BaseURL is the API endpoint (for Ollama).
	BaseURL string

	// APIKey is the API key (for OpenAI/Anthropic).
	APIKey string
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// FetcherProvider identifies a page rendering backend.
type FetcherProvider string

// Available fetcher providers.
const (
	// FetcherChrome drives a local headless Chrome.
	FetcherChrome FetcherProvider = "chrome"

	// FetcherService calls a self-hosted rendering service over HTTP.
	FetcherService FetcherProvider = "service"
)

// IsValid returns true if the fetcher provider is recognised.
func (p FetcherProvider) IsValid() bool {
	switch p {
	case FetcherChrome, FetcherService:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (p FetcherProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p FetcherProvider) Description() string {
	switch p {
	case FetcherChrome:
		return "Headless Chrome (local)"
	case FetcherService:
		return "Rendering service (HTTP)"
	default:
		return unknownDescription
	}
}

// FetcherSettings holds page fetcher configuration.
type FetcherSettings struct {
	// Provider is the rendering backend.
	Provider FetcherProvider

	// BaseURL is the rendering service endpoint (for FetcherService).
	BaseURL string

	// Timeout bounds a single fetch.
	Timeout time.Duration

	// RequestsPerSecond throttles fetch starts. Zero disables throttling.
	RequestsPerSecond float64
}

// IsConfigured returns true if the fetcher is set up.
func (f FetcherSettings) IsConfigured() bool {
	if !f.Provider.IsValid() {
		return false
	}
	if f.Provider == FetcherService && f.BaseURL == "" {
		return false
	}
	return true
}

// StorageBackend identifies a chunk store implementation.
type StorageBackend string

// Available storage backends.
const (
	// StorageSQLite is the embedded default.
	StorageSQLite StorageBackend = "sqlite"

	// StoragePostgres uses PostgreSQL with the pgvector extension.
	StoragePostgres StorageBackend = "postgres"

	// StorageMemory keeps chunks in process memory. Nothing survives exit.
	StorageMemory StorageBackend = "memory"
)

// IsValid returns true if the storage backend is recognised.
func (b StorageBackend) IsValid() bool {
	switch b {
	case StorageSQLite, StoragePostgres, StorageMemory:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (b StorageBackend) String() string {
	return string(b)
}

// Description returns a human-readable description of the backend.
func (b StorageBackend) Description() string {
	switch b {
	case StorageSQLite:
		return "SQLite (embedded, default)"
	case StoragePostgres:
		return "PostgreSQL with pgvector"
	case StorageMemory:
		return "In-memory (not persisted)"
	default:
		return unknownDescription
	}
}

// StorageSettings holds chunk store configuration.
type StorageSettings struct {
	// Backend selects the store implementation.
	Backend StorageBackend

	// Path is the database file location (for sqlite).
	Path string

	// DSN is the connection string (for postgres).
	DSN string
}

// IngestSettings holds ingestion behaviour configuration.
type IngestSettings struct {
	// MaxConcurrent bounds simultaneous page fetches.
	MaxConcurrent int

	// ChunkSize is the target chunk length in bytes.
	ChunkSize int

	// Source is the dataset tag stamped into chunk metadata.
	Source string
}

// AppSettings holds all application settings.
type AppSettings struct {
	// Embedding holds embedding provider settings.
	Embedding EmbeddingSettings

	// LLM holds LLM provider settings.
	LLM LLMSettings

	// Fetcher holds page fetcher settings.
	Fetcher FetcherSettings

	// Storage holds chunk store settings.
	Storage StorageSettings

	// Ingest holds ingestion behaviour settings.
	Ingest IngestSettings
}

// DefaultAppSettings returns settings with sensible defaults.
// AI features (Embedding, LLM) are left unconfigured by default.
// Users must explicitly configure them via settings wizard.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		// Embedding is left unconfigured - user must set up via settings wizard
		Embedding: EmbeddingSettings{},
		// LLM is left unconfigured - user must set up via settings wizard
		LLM: LLMSettings{},
		Fetcher: FetcherSettings{
			Provider: FetcherChrome,
			Timeout:  60 * time.Second,
		},
		Storage: StorageSettings{
			Backend: StorageSQLite,
		},
		Ingest: IngestSettings{
			MaxConcurrent: DefaultMaxConcurrent,
			ChunkSize:     DefaultChunkSize,
			Source:        DefaultSource,
		},
	}
}

// AllEmbeddingProviders returns providers that support embeddings.
func AllEmbeddingProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
	}
}

// AllLLMProviders returns providers that support LLM operations.
func AllLLMProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
		AIProviderAnthropic,
	}
}

// AllFetcherProviders returns the available rendering backends.
func AllFetcherProviders() []FetcherProvider {
	return []FetcherProvider{
		FetcherChrome,
		FetcherService,
	}
}

// AllStorageBackends returns the available chunk store backends.
func AllStorageBackends() []StorageBackend {
	return []StorageBackend{
		StorageSQLite,
		StoragePostgres,
		StorageMemory,
	}
}

// DefaultEmbeddingModels returns default models for each embedding provider.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama: "nomic-embed-text",
		AIProviderOpenAI: "text-embedding-3-small",
	}
}

// DefaultLLMModels returns default models for each LLM provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama:    "llama3.2",
		AIProviderOpenAI:    "gpt-4o-mini",
		AIProviderAnthropic: "claude-3-5-haiku-latest",
	}
}

// EmbeddingDimensions returns the vector dimensions for known models.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		// Ollama models
		"nomic-embed-text":  768,
		"mxbai-embed-large": 1024,
		"all-minilm":        384,
		// OpenAI models
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
	}
}
