package services

import (
	"context"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"

	"github.com/corpora-labs/confcrawl/internal/chunker"
	"github.com/corpora-labs/confcrawl/internal/core/domain"
	"github.com/corpora-labs/confcrawl/internal/core/ports/driven"
	"github.com/corpora-labs/confcrawl/internal/core/ports/driving"
	"github.com/corpora-labs/confcrawl/internal/logger"
)

// Ensure IngestOrchestrator implements the interface.
var _ driving.Ingestor = (*IngestOrchestrator)(nil)

// chunkWorkers sizes the shared worker pool for chunk enrichment and
// storage. Pages fan out their chunks onto this pool; saturation defers
// chunk starts without blocking page fetches, since fetch slots are
// released before fan-out begins.
const chunkWorkers = 64

// IngestOrchestrator runs the fetch-chunk-enrich-store pipeline.
// Page fetches are admission-controlled by a counting semaphore; chunk
// work fans out onto a worker pool. Every unit of work is isolated: a
// failed chunk never fails its page, a failed page never fails the run.
type IngestOrchestrator struct {
	fetcher  driven.PageFetcher
	store    driven.ChunkStore
	enricher *Enricher
	splitter *chunker.Splitter
	workers  *ants.Pool

	mu      sync.Mutex
	running bool
}

// NewIngestOrchestrator creates an ingest orchestrator.
func NewIngestOrchestrator(
	fetcher driven.PageFetcher,
	store driven.ChunkStore,
	enricher *Enricher,
	splitter *chunker.Splitter,
) (*IngestOrchestrator, error) {
	workers, err := ants.NewPool(chunkWorkers)
	if err != nil {
		return nil, err
	}

	return &IngestOrchestrator{
		fetcher:  fetcher,
		store:    store,
		enricher: enricher,
		splitter: splitter,
		workers:  workers,
	}, nil
}

// Ingest processes the URLs and returns the aggregate report. The only
// errors are usage errors: an empty URL list, or a run already active.
// Fetch, enrichment and storage failures are tallied in the report.
func (o *IngestOrchestrator) Ingest(ctx context.Context, urls []string, opts domain.IngestOptions) (*domain.IngestReport, error) {
	if len(urls) == 0 {
		return nil, domain.ErrNoURLs
	}
	if o.fetcher == nil {
		return nil, domain.ErrFetcherUnavailable
	}
	if o.store == nil {
		return nil, domain.ErrStoreUnavailable
	}

	if err := o.acquireRun(); err != nil {
		return nil, err
	}
	defer o.releaseRun()

	maxConcurrent := opts.MaxConcurrent
	if maxConcurrent <= 0 {
		maxConcurrent = domain.DefaultMaxConcurrent
	}
	source := opts.Source
	if source == "" {
		source = domain.DefaultSource
	}

	run := &ingestRun{
		report: &domain.IngestReport{
			RunID:   uuid.NewString(),
			Started: time.Now(),
			Total:   len(urls),
		},
	}

	logger.Info("Starting ingestion of %d URLs (max %d concurrent fetches)", len(urls), maxConcurrent)

	sem := make(chan struct{}, maxConcurrent)
	var pages sync.WaitGroup
	for _, pageURL := range urls {
		pages.Add(1)
		go func(pageURL string) {
			defer pages.Done()
			o.ingestPage(ctx, run, sem, pageURL, source)
		}(pageURL)
	}

	pages.Wait()
	run.chunks.Wait()

	run.report.Finished = time.Now()
	logger.Info("Ingestion complete: %s", run.report.Summary())
	return run.report, nil
}

// Running reports whether an ingestion run is in progress.
func (o *IngestOrchestrator) Running() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.running
}

// Close releases the chunk worker pool. The orchestrator must not be
// used afterwards.
func (o *IngestOrchestrator) Close() error {
	o.workers.Release()
	return nil
}

// ingestPage fetches one URL under the admission gate, then fans its
// chunks out onto the worker pool. The fetch slot is released as soon
// as the fetch returns, before any chunk work starts.
func (o *IngestOrchestrator) ingestPage(ctx context.Context, run *ingestRun, sem chan struct{}, pageURL, source string) {
	defer func() {
		done, total := run.pagesDone()
		logger.Progress(done, total, pageURL)
	}()

	select {
	case sem <- struct{}{}:
	case <-ctx.Done():
		run.pageFailed(pageURL, ctx.Err().Error())
		return
	}

	result := o.fetcher.Fetch(ctx, pageURL)
	<-sem

	if !result.Success {
		logger.Warn("Fetch failed for %s: %s", pageURL, result.Error)
		run.pageFailed(pageURL, result.Error)
		return
	}

	contents := o.splitter.Split(result.Markdown)
	logger.Debug("Fetched %s: %d chunks", pageURL, len(contents))
	crawledAt := time.Now().UTC()

	for number, content := range contents {
		number, content := number, content
		run.chunks.Add(1)
		err := o.workers.Submit(func() {
			defer run.chunks.Done()
			o.processChunk(ctx, run, pageURL, source, number, content, crawledAt)
		})
		if err != nil {
			run.chunks.Done()
			logger.Warn("Failed to queue chunk %d of %s: %v", number, pageURL, err)
			run.chunkFailed()
		}
	}

	run.pageSucceeded()
}

// processChunk enriches one chunk and upserts it. Enrichment never
// fails (fallbacks substitute); a storage failure is tallied and the
// sibling chunks proceed.
func (o *IngestOrchestrator) processChunk(ctx context.Context, run *ingestRun, pageURL, source string, number int, content string, crawledAt time.Time) {
	enrichment := o.enricher.Enrich(ctx, pageURL, content)

	chunk := &domain.Chunk{
		URL:         pageURL,
		ChunkNumber: number,
		Title:       enrichment.Title,
		Summary:     enrichment.Summary,
		Content:     content,
		Metadata:    chunkMetadata(source, pageURL, len(content), crawledAt),
		Embedding:   enrichment.Embedding,
	}

	if err := o.store.Upsert(ctx, chunk); err != nil {
		logger.Warn("Failed to store chunk %d of %s: %v", number, pageURL, err)
		run.chunkFailed()
		return
	}

	logger.Debug("Stored chunk %d of %s: %s", number, pageURL, chunk.Title)
	run.chunkStored()
}

func (o *IngestOrchestrator) acquireRun() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.running {
		return domain.ErrIngestInProgress
	}
	o.running = true
	return nil
}

func (o *IngestOrchestrator) releaseRun() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.running = false
}

// chunkMetadata builds the metadata every stored chunk carries.
func chunkMetadata(source, pageURL string, contentLen int, crawledAt time.Time) map[string]string {
	meta := map[string]string{
		domain.MetaSource:    source,
		domain.MetaChunkSize: strconv.Itoa(contentLen),
		domain.MetaCrawledAt: crawledAt.Format(time.RFC3339),
	}
	if u, err := url.Parse(pageURL); err == nil {
		meta[domain.MetaURLPath] = u.Path
	}
	return meta
}

// ingestRun accumulates one run's tally. Pages and chunks complete in
// any order; all counters go through the mutex.
type ingestRun struct {
	mu     sync.Mutex
	report *domain.IngestReport
	chunks sync.WaitGroup
}

func (r *ingestRun) pageSucceeded() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.report.Succeeded++
}

// pagesDone returns the completed and total page counts for progress output.
func (r *ingestRun) pagesDone() (done, total int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.report.Succeeded + r.report.Failed, r.report.Total
}

func (r *ingestRun) pageFailed(url, reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.report.Failed++
	r.report.Failures = append(r.report.Failures, domain.URLFailure{URL: url, Reason: reason})
}

func (r *ingestRun) chunkStored() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.report.ChunksStored++
}

func (r *ingestRun) chunkFailed() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.report.ChunkFailures++
}
