// Package driven provides interfaces for infrastructure adapters (secondary/outbound ports).
package driven

import "context"

// LLMService extracts chunk titles and summaries.
// This is an optional service - when nil, chunks carry the documented
// fallback strings instead of real titles and summaries.
//
// Implementations may include:
//   - OpenAI (GPT-4o, GPT-4o-mini)
//   - Anthropic (Claude)
//   - Ollama (local models)
type LLMService interface {
	// TitleAndSummary derives a short title and a 2-3 sentence summary
	// for one chunk of page content. Callers truncate content before
	// the call; implementations receive it as-is.
	TitleAndSummary(ctx context.Context, url, content string) (title, summary string, err error)

	// ModelName returns the name of the LLM model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight test request.
	// This is used at startup to verify connectivity before committing to ingestion.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
