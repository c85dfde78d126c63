// Package chrome provides a page fetcher that renders URLs in a local
// headless Chrome instance and converts the result to markdown.
package chrome

import (
	"context"
	"fmt"
	"strings"
	"time"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/chromedp/chromedp"
	"golang.org/x/time/rate"

	"github.com/corpora-labs/confcrawl/internal/core/domain"
	"github.com/corpora-labs/confcrawl/internal/core/ports/driven"
)

// Ensure Fetcher implements the interface.
var _ driven.PageFetcher = (*Fetcher)(nil)

// Default configuration values.
const (
	DefaultTimeout = 60 * time.Second

	// pingTimeout bounds the browser health check. A cold browser start
	// can take several seconds.
	pingTimeout = 15 * time.Second
)

// Config holds configuration for the Chrome fetcher.
type Config struct {
	// Timeout bounds a single page render (default: 60s).
	Timeout time.Duration

	// RequestsPerSecond throttles fetch starts. Zero disables throttling.
	RequestsPerSecond float64
}

// Fetcher renders pages in a shared headless Chrome. Each Fetch opens a
// fresh tab in the running browser, so concurrent fetches are safe.
type Fetcher struct {
	browserCtx    context.Context
	cancelBrowser context.CancelFunc
	cancelAlloc   context.CancelFunc
	timeout       time.Duration
	limiter       *rate.Limiter
}

// NewFetcher creates a Chrome fetcher. The browser process itself is
// launched lazily on the first render.
func NewFetcher(cfg Config) *Fetcher {
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		// Text is all we keep; skip image downloads.
		chromedp.Flag("blink-settings", "imagesEnabled=false"),
	)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), opts...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)

	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}

	return &Fetcher{
		browserCtx:    browserCtx,
		cancelBrowser: cancelBrowser,
		cancelAlloc:   cancelAlloc,
		timeout:       cfg.Timeout,
		limiter:       limiter,
	}
}

// Fetch renders the URL and returns the outcome in-band. It never
// returns a Go error; failures are carried in the result.
func (f *Fetcher) Fetch(ctx context.Context, url string) domain.FetchResult {
	if f.limiter != nil {
		if err := f.limiter.Wait(ctx); err != nil {
			return domain.FetchResult{Error: fmt.Sprintf("waiting for fetch slot: %v", err)}
		}
	}

	html, err := f.renderPage(ctx, url)
	if err != nil {
		return domain.FetchResult{Error: fmt.Sprintf("render page: %v", err)}
	}

	markdown, err := htmltomarkdown.ConvertString(html)
	if err != nil {
		return domain.FetchResult{Error: fmt.Sprintf("convert to markdown: %v", err)}
	}

	markdown = strings.TrimSpace(markdown)
	if markdown == "" {
		return domain.FetchResult{Error: "page rendered no content"}
	}

	return domain.FetchResult{Success: true, Markdown: markdown}
}

// renderPage drives a fresh tab through navigation and returns the
// fully rendered document HTML.
func (f *Fetcher) renderPage(ctx context.Context, url string) (string, error) {
	tabCtx, cancelTab := chromedp.NewContext(f.browserCtx)
	defer cancelTab()

	// chromedp contexts descend from the browser context, not the
	// caller; propagate caller cancellation by hand.
	stop := context.AfterFunc(ctx, cancelTab)
	defer stop()

	tabCtx, cancelTimeout := context.WithTimeout(tabCtx, f.timeout)
	defer cancelTimeout()

	var html string
	err := chromedp.Run(tabCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", err
	}

	return html, nil
}

// Ping validates that the browser can start and render.
func (f *Fetcher) Ping(ctx context.Context) error {
	tabCtx, cancelTab := chromedp.NewContext(f.browserCtx)
	defer cancelTab()

	stop := context.AfterFunc(ctx, cancelTab)
	defer stop()

	tabCtx, cancelTimeout := context.WithTimeout(tabCtx, pingTimeout)
	defer cancelTimeout()

	if err := chromedp.Run(tabCtx, chromedp.Navigate("about:blank")); err != nil {
		return fmt.Errorf("chrome: failed to start browser: %w", err)
	}
	return nil
}

// Close shuts down the browser and its allocator.
func (f *Fetcher) Close() error {
	f.cancelBrowser()
	f.cancelAlloc()
	return nil
}
