package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	purgeURL    string
	purgeSource string
)

var purgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete ingested chunks",
	Long: `Deletes stored chunks, either every chunk of one page (--url) or
every chunk tagged with a dataset source (--source). Re-ingesting a
page overwrites its chunks in place, so purging is only needed to
drop pages or datasets entirely.`,
	Args: cobra.NoArgs,
	RunE: runPurge,
}

func init() {
	purgeCmd.Flags().StringVar(&purgeURL, "url", "", "delete all chunks of this page")
	purgeCmd.Flags().StringVar(&purgeSource, "source", "", "delete all chunks with this source tag")
	rootCmd.AddCommand(purgeCmd)
}

func runPurge(cmd *cobra.Command, _ []string) error {
	if chunkStore == nil {
		return errors.New("chunk store not configured")
	}

	if purgeURL != "" && purgeSource != "" {
		return errors.New("--url and --source are mutually exclusive")
	}

	ctx := context.Background()

	switch {
	case purgeURL != "":
		deleted, err := chunkStore.DeleteByURL(ctx, purgeURL)
		if err != nil {
			return fmt.Errorf("failed to purge page: %w", err)
		}
		cmd.Printf("Deleted %d chunks for %s\n", deleted, purgeURL)

	case purgeSource != "":
		deleted, err := chunkStore.DeleteBySource(ctx, purgeSource)
		if err != nil {
			return fmt.Errorf("failed to purge source: %w", err)
		}
		cmd.Printf("Deleted %d chunks for source %s\n", deleted, purgeSource)

	default:
		return errors.New("either --url or --source is required")
	}

	return nil
}
