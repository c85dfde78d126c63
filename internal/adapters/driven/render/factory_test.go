package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corpora-labs/confcrawl/internal/core/domain"
)

func TestNewFetcher_Chrome(t *testing.T) {
	fetcher, err := NewFetcher(domain.FetcherSettings{
		Provider: domain.FetcherChrome,
	})

	require.NoError(t, err)
	require.NotNil(t, fetcher)
	assert.NoError(t, fetcher.Close())
}

func TestNewFetcher_Service(t *testing.T) {
	fetcher, err := NewFetcher(domain.FetcherSettings{
		Provider: domain.FetcherService,
		BaseURL:  "http://localhost:3000",
	})

	require.NoError(t, err)
	require.NotNil(t, fetcher)
	assert.NoError(t, fetcher.Close())
}

func TestNewFetcher_ServiceRequiresBaseURL(t *testing.T) {
	fetcher, err := NewFetcher(domain.FetcherSettings{
		Provider: domain.FetcherService,
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Nil(t, fetcher)
}

func TestNewFetcher_UnknownProvider(t *testing.T) {
	fetcher, err := NewFetcher(domain.FetcherSettings{
		Provider: "netscape",
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown fetcher provider")
	assert.Nil(t, fetcher)
}
