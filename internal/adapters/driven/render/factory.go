// Package render creates page fetcher adapters from settings.
package render

import (
	"fmt"

	"github.com/corpora-labs/confcrawl/internal/adapters/driven/render/chrome"
	"github.com/corpora-labs/confcrawl/internal/adapters/driven/render/service"
	"github.com/corpora-labs/confcrawl/internal/core/domain"
	"github.com/corpora-labs/confcrawl/internal/core/ports/driven"
)

// NewFetcher creates the page fetcher selected by the settings.
func NewFetcher(settings domain.FetcherSettings) (driven.PageFetcher, error) {
	switch settings.Provider {
	case domain.FetcherChrome:
		return chrome.NewFetcher(chrome.Config{
			Timeout:           settings.Timeout,
			RequestsPerSecond: settings.RequestsPerSecond,
		}), nil

	case domain.FetcherService:
		fetcher, err := service.NewFetcher(service.Config{
			BaseURL:           settings.BaseURL,
			Timeout:           settings.Timeout,
			RequestsPerSecond: settings.RequestsPerSecond,
		})
		if err != nil {
			return nil, err
		}
		return fetcher, nil

	default:
		return nil, fmt.Errorf("unknown fetcher provider: %s", settings.Provider)
	}
}
