// Package service provides a page fetcher backed by a self-hosted
// rendering service reached over HTTP.
//
// The service contract is one POST /render call per URL with a JSON
// body {"url": ...}, answered by {"success": ..., "markdown": ...,
// "error": ...}. A GET /health endpoint reports liveness.
package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/corpora-labs/confcrawl/internal/core/domain"
	"github.com/corpora-labs/confcrawl/internal/core/ports/driven"
)

// Ensure Fetcher implements the interface.
var _ driven.PageFetcher = (*Fetcher)(nil)

// DefaultTimeout bounds a single render call.
const DefaultTimeout = 60 * time.Second

// Config holds configuration for the rendering service fetcher.
type Config struct {
	// BaseURL is the rendering service endpoint (required).
	BaseURL string

	// Timeout is the request timeout (default: 60s).
	Timeout time.Duration

	// RequestsPerSecond throttles fetch starts. Zero disables throttling.
	RequestsPerSecond float64
}

// Fetcher renders pages via a remote rendering service.
type Fetcher struct {
	client  *http.Client
	baseURL string
	limiter *rate.Limiter
}

// renderRequest is the rendering service request format.
type renderRequest struct {
	URL string `json:"url"`
}

// renderResponse is the rendering service response format.
type renderResponse struct {
	Success  bool   `json:"success"`
	Markdown string `json:"markdown"`
	Error    string `json:"error"`
}

// NewFetcher creates a rendering service fetcher.
func NewFetcher(cfg Config) (*Fetcher, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("rendering service base URL is required: %w", domain.ErrInvalidInput)
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}

	return &Fetcher{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: cfg.BaseURL,
		limiter: limiter,
	}, nil
}

// Fetch renders the URL and returns the outcome in-band. It never
// returns a Go error; failures are carried in the result.
func (f *Fetcher) Fetch(ctx context.Context, url string) domain.FetchResult {
	if f.limiter != nil {
		if err := f.limiter.Wait(ctx); err != nil {
			return domain.FetchResult{Error: fmt.Sprintf("waiting for fetch slot: %v", err)}
		}
	}

	reqBody := renderRequest{URL: url}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return domain.FetchResult{Error: fmt.Sprintf("marshal request: %v", err)}
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		f.baseURL+"/render",
		bytes.NewReader(jsonBody),
	)
	if err != nil {
		return domain.FetchResult{Error: fmt.Sprintf("create request: %v", err)}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return domain.FetchResult{Error: fmt.Sprintf("send request: %v", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return domain.FetchResult{Error: fmt.Sprintf("rendering service error (status %d): failed to read response", resp.StatusCode)}
		}
		return domain.FetchResult{Error: fmt.Sprintf("rendering service error (status %d): %s", resp.StatusCode, string(body))}
	}

	var renderResp renderResponse
	if err := json.NewDecoder(resp.Body).Decode(&renderResp); err != nil {
		return domain.FetchResult{Error: fmt.Sprintf("decode response: %v", err)}
	}

	if !renderResp.Success {
		errMsg := renderResp.Error
		if errMsg == "" {
			errMsg = "rendering service reported failure without detail"
		}
		return domain.FetchResult{Error: errMsg}
	}

	return domain.FetchResult{Success: true, Markdown: renderResp.Markdown}
}

// Ping validates the service is reachable by checking the /health endpoint.
func (f *Fetcher) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.baseURL+"/health", http.NoBody)
	if err != nil {
		return fmt.Errorf("rendering service: failed to create ping request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("rendering service: ping failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("rendering service: health check returned status %d", resp.StatusCode)
	}
	return nil
}

// Close releases resources.
func (f *Fetcher) Close() error {
	// HTTP client doesn't need explicit cleanup
	return nil
}
