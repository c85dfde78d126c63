package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var pagesCmd = &cobra.Command{
	Use:   "pages",
	Short: "List ingested page URLs",
	Long:  `Lists the distinct URLs of every ingested page, sorted alphabetically.`,
	Args:  cobra.NoArgs,
	RunE:  runPages,
}

func init() {
	rootCmd.AddCommand(pagesCmd)
}

func runPages(cmd *cobra.Command, _ []string) error {
	if retriever == nil {
		return errors.New("retrieval service not configured")
	}

	ctx := context.Background()

	pages, err := retriever.ListPages(ctx)
	if err != nil {
		return fmt.Errorf("failed to list pages: %w", err)
	}

	if len(pages) == 0 {
		cmd.Println("No pages ingested.")
		return nil
	}

	for _, url := range pages {
		cmd.Printf("  %s\n", url)
	}
	cmd.Println()
	cmd.Printf("Total: %d pages\n", len(pages))
	return nil
}
