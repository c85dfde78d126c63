package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/corpora-labs/confcrawl/internal/core/domain"
	"github.com/corpora-labs/confcrawl/internal/logger"
)

var (
	ingestFile          string
	ingestWatch         bool
	ingestMaxConcurrent int
	ingestSource        string
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [urls...]",
	Short: "Fetch pages into the knowledge base",
	Long: `Fetches each page, converts it to markdown, splits it into chunks,
annotates every chunk with a title, summary and embedding, and stores
the result. Re-ingesting a page overwrites its chunks in place.

URLs are taken from the arguments, from --file, or both. With --watch
the URL file is re-read and re-ingested whenever it changes.`,
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVarP(&ingestFile, "file", "f", "", "file with one URL per line")
	ingestCmd.Flags().BoolVar(&ingestWatch, "watch", false, "re-ingest when the URL file changes")
	ingestCmd.Flags().IntVar(&ingestMaxConcurrent, "max-concurrent", 0, "maximum simultaneous page fetches (0 = configured default)")
	ingestCmd.Flags().StringVar(&ingestSource, "source", "", "dataset tag stamped into chunk metadata")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestor == nil {
		return errors.New("ingest service not configured")
	}
	if ingestWatch && ingestFile == "" {
		return errors.New("--watch requires --file")
	}

	urls := args
	if ingestFile != "" {
		fromFile, err := readURLFile(ingestFile)
		if err != nil {
			return err
		}
		urls = append(urls, fromFile...)
	}
	if len(urls) == 0 {
		return errors.New("no URLs given: pass them as arguments or with --file")
	}

	opts := ingestOptions()
	ctx := cmd.Context()

	if err := ingestOnce(ctx, cmd, urls, opts); err != nil {
		return err
	}

	if !ingestWatch {
		return nil
	}
	return watchAndIngest(ctx, cmd, opts)
}

// ingestOptions merges the command flags over the persisted ingest
// settings. Flags win; unset flags fall back to configuration.
func ingestOptions() domain.IngestOptions {
	opts := domain.IngestOptions{
		MaxConcurrent: ingestMaxConcurrent,
		Source:        ingestSource,
	}

	if settingsService == nil {
		return opts
	}
	settings, err := settingsService.Get()
	if err != nil {
		return opts
	}
	if opts.MaxConcurrent == 0 {
		opts.MaxConcurrent = settings.Ingest.MaxConcurrent
	}
	if opts.Source == "" {
		opts.Source = settings.Ingest.Source
	}
	return opts
}

func ingestOnce(ctx context.Context, cmd *cobra.Command, urls []string, opts domain.IngestOptions) error {
	cmd.Printf("Ingesting %d pages...\n", len(urls))

	report, err := ingestor.Ingest(ctx, urls, opts)
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	cmd.Println(report.Summary())
	for _, failure := range report.Failures {
		cmd.Printf("  failed: %s: %s\n", failure.URL, failure.Reason)
	}
	return nil
}

// watchAndIngest re-reads the URL file and re-ingests whenever it
// changes. Editors usually replace files instead of writing in place,
// so the watch is on the directory and events are filtered by name.
func watchAndIngest(ctx context.Context, cmd *cobra.Command, opts domain.IngestOptions) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("starting file watcher: %w", err)
	}
	defer watcher.Close()

	path, err := filepath.Abs(ingestFile)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", ingestFile, err)
	}
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(path), err)
	}

	cmd.Printf("Watching %s for changes. Press Ctrl+C to stop.\n", ingestFile)

	// One save can fire several events; collapse them before re-reading.
	var pending <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			pending = time.After(500 * time.Millisecond)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("file watcher: %v", err)

		case <-pending:
			pending = nil
			urls, err := readURLFile(ingestFile)
			if err != nil {
				logger.Warn("re-reading %s: %v", ingestFile, err)
				continue
			}
			if len(urls) == 0 {
				logger.Info("%s has no URLs, skipping", ingestFile)
				continue
			}
			if err := ingestOnce(ctx, cmd, urls, opts); err != nil {
				logger.Warn("re-ingest: %v", err)
			}
		}
	}
}

// readURLFile loads URLs from path, one per line. Blank lines and
// lines starting with # are skipped.
func readURLFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading URL file: %w", err)
	}

	var urls []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	return urls, nil
}
