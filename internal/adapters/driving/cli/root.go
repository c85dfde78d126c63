// Package cli implements the confcrawl command-line interface.
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/corpora-labs/confcrawl/internal/core/ports/driven"
	"github.com/corpora-labs/confcrawl/internal/core/ports/driving"
	"github.com/corpora-labs/confcrawl/internal/logger"
)

// version is stamped by the release build via -ldflags.
var version = "dev"

// Services are injected by the composition root before commands run.
// Every command checks its service for nil and fails with a
// configuration error, which keeps the package testable without live
// backends.
var (
	ingestor        driving.Ingestor
	retriever       driving.Retriever
	settingsService driving.SettingsService
	chunkStore      driven.ChunkStore
)

// Initialisers are installed by the composition root and run after
// flag parsing, so --config is honoured. The settings initialiser must
// succeed with nothing configured; commands that repair configuration
// stay usable even when the backend stack cannot start.
var (
	initSettings func(configDir string) error
	initBackends func(configDir string) error
)

// Persistent flags.
var (
	verboseFlag bool
	configDir   string
)

var rootCmd = &cobra.Command{
	Use:   "confcrawl",
	Short: "Crawl conference pages into a searchable knowledge base",
	Long: `confcrawl ingests conference web pages into a searchable knowledge
base. Pages are rendered in a headless browser, converted to markdown,
split into chunks, annotated with titles, summaries and embeddings,
then stored for similarity search.

Run 'confcrawl mcp' to expose the knowledge base to MCP-compatible
AI assistants.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		logger.SetVerbose(verboseFlag)
		return initialise(cmd)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVar(&configDir, "config", "", "Config directory (default is OS config dir + /confcrawl)")
}

// initialise wires services for the invoked command. Version and help
// need nothing; settings needs only the config store, so a broken
// backend configuration can still be repaired with the wizard.
func initialise(cmd *cobra.Command) error {
	switch commandName(cmd) {
	case "confcrawl", "version", "help", "completion":
		return nil
	}

	if initSettings != nil {
		if err := initSettings(configDir); err != nil {
			return err
		}
	}

	if commandName(cmd) == "settings" {
		return nil
	}

	if initBackends != nil {
		if err := initBackends(configDir); err != nil {
			return err
		}
	}
	return nil
}

// commandName returns the top-level command name for cmd.
func commandName(cmd *cobra.Command) string {
	for cmd.HasParent() && cmd.Parent().HasParent() {
		cmd = cmd.Parent()
	}
	return cmd.Name()
}

// SetVersion records the build version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// SetInitialisers registers the service constructors run before a
// command executes. The settings initialiser runs for every command
// that touches configuration or backends; the backends initialiser
// runs only for commands that operate on the corpus.
func SetInitialisers(settings, backends func(configDir string) error) {
	initSettings = settings
	initBackends = backends
}

// SetSettingsService injects the settings port.
func SetSettingsService(s driving.SettingsService) {
	settingsService = s
}

// SetServices injects the corpus-facing ports.
func SetServices(i driving.Ingestor, r driving.Retriever, store driven.ChunkStore) {
	ingestor = i
	retriever = r
	chunkStore = store
}

// Execute runs the root command. The command context is cancelled on
// interrupt, which stops watch loops and long servers cleanly.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}
