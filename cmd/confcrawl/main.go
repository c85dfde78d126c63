// Command confcrawl ingests conference web pages into a searchable
// knowledge base and serves retrieval over a CLI, a terminal browser
// and an MCP server.
package main

import (
	"fmt"
	"os"

	"github.com/corpora-labs/confcrawl/internal/adapters/driven/ai"
	"github.com/corpora-labs/confcrawl/internal/adapters/driven/config/file"
	"github.com/corpora-labs/confcrawl/internal/adapters/driven/render"
	"github.com/corpora-labs/confcrawl/internal/adapters/driven/storage"
	"github.com/corpora-labs/confcrawl/internal/adapters/driving/cli"
	"github.com/corpora-labs/confcrawl/internal/chunker"
	"github.com/corpora-labs/confcrawl/internal/core/services"
	"github.com/corpora-labs/confcrawl/internal/logger"
)

// version is stamped by the release build via -ldflags.
var version = "dev"

// settingsService is wired by initSettings and read by initBackends.
var settingsService *services.SettingsService

// closeBackends releases the resources wired by initBackends. Nil until
// a command that needs backends has run.
var closeBackends func()

func main() {
	cli.SetVersion(version)
	cli.SetInitialisers(initSettings, initBackends)

	err := cli.Execute()
	if closeBackends != nil {
		closeBackends()
	}
	if err != nil {
		os.Exit(1)
	}
}

// initSettings opens the configuration store and wires the settings
// service. It must succeed with an empty configuration so that the
// settings wizard stays reachable on a fresh install.
func initSettings(configDir string) error {
	configStore, err := file.NewConfigStore(configDir)
	if err != nil {
		return fmt.Errorf("opening configuration: %w", err)
	}

	settingsService = services.NewSettingsService(configStore, ai.NewConfigValidator())
	cli.SetSettingsService(settingsService)
	return nil
}

// initBackends assembles the corpus-facing stack from the persisted
// settings: chunk store, page fetcher, AI services, and the ingest and
// retrieval services on top of them. Missing AI configuration degrades
// to warnings; enrichment substitutes its documented fallbacks.
func initBackends(string) error {
	appSettings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}

	chunkStore, err := storage.NewChunkStore(appSettings.Storage)
	if err != nil {
		return fmt.Errorf("opening chunk store: %w", err)
	}

	fetcher, err := render.NewFetcher(appSettings.Fetcher)
	if err != nil {
		chunkStore.Close()
		return fmt.Errorf("creating page fetcher: %w", err)
	}

	aiServices := ai.InitAIServices(&appSettings.Embedding, &appSettings.LLM)
	for _, warning := range aiServices.Warnings {
		logger.Warn("%s", warning)
	}

	enricher := services.NewEnricher(aiServices.LLMService, aiServices.EmbeddingService)
	splitter := chunker.New(chunker.WithMaxSize(appSettings.Ingest.ChunkSize))

	orchestrator, err := services.NewIngestOrchestrator(fetcher, chunkStore, enricher, splitter)
	if err != nil {
		aiServices.Close()
		fetcher.Close()
		chunkStore.Close()
		return fmt.Errorf("creating ingest orchestrator: %w", err)
	}

	retriever := services.NewRetrievalService(chunkStore, enricher, appSettings.Ingest.Source)

	cli.SetServices(orchestrator, retriever, chunkStore)
	closeBackends = func() {
		orchestrator.Close()
		aiServices.Close()
		fetcher.Close()
		chunkStore.Close()
	}
	return nil
}
