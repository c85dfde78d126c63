package cli

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/corpora-labs/confcrawl/internal/adapters/driving/tui"
)

// browseCmd represents the browse command.
var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse the knowledge base in an interactive terminal UI",
	Long: `Launch the interactive terminal user interface for confcrawl.

The browser provides a visual interface for searching ingested
conference documentation, listing pages and reading reassembled page
content with keyboard navigation.

Controls:
  ↑/k, ↓/j - Navigate
  Enter    - Search / Open
  Esc      - Back
  q        - Quit`,
	Args: cobra.NoArgs,
	RunE: runBrowse,
}

func init() {
	rootCmd.AddCommand(browseCmd)
}

func runBrowse(cmd *cobra.Command, _ []string) error {
	if retriever == nil {
		return errors.New("retrieval service not configured")
	}

	// Add panic recovery to get stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in browser: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	app, err := tui.NewApp(tui.NewPorts(retriever))
	if err != nil {
		return fmt.Errorf("failed to create browser: %w", err)
	}
	app.WithContext(cmd.Context())

	if err := app.Run(); err != nil {
		return fmt.Errorf("browser error: %w", err)
	}
	return nil
}
