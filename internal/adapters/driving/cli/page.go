package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var pageCmd = &cobra.Command{
	Use:   "page [url]",
	Short: "Print the full content of an ingested page",
	Long: `Reassembles one ingested page from its stored chunks, in chunk
order, and prints it as markdown.`,
	Args: cobra.ExactArgs(1),
	RunE: runPage,
}

func init() {
	rootCmd.AddCommand(pageCmd)
}

func runPage(cmd *cobra.Command, args []string) error {
	if retriever == nil {
		return errors.New("retrieval service not configured")
	}

	ctx := context.Background()

	content, err := retriever.GetPage(ctx, args[0])
	if err != nil {
		return fmt.Errorf("failed to get page: %w", err)
	}

	cmd.Println(content)
	return nil
}
