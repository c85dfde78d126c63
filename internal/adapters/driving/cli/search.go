package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/corpora-labs/confcrawl/internal/core/domain"
)

var (
	searchLimit int
	searchJSON  bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the ingested documentation",
	Long: `Performs semantic search across all ingested conference pages.
The query is embedded and scored against every stored chunk by cosine
similarity; the closest chunks are returned first.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 10, "maximum number of results")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := args[0]

	if retriever == nil {
		return errors.New("retrieval service not configured")
	}

	ctx := context.Background()

	results, err := retriever.SearchChunks(ctx, query, searchLimit)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, results)
	}

	return outputSearchTable(cmd, results)
}

// searchHit is the JSON projection of a scored chunk. Embeddings are
// index internals and stay out of command output.
type searchHit struct {
	URL         string
	ChunkNumber int
	Title       string
	Summary     string
	Score       float64
}

func outputSearchJSON(cmd *cobra.Command, results []domain.ScoredChunk) error {
	hits := make([]searchHit, 0, len(results))
	for i := range results {
		hits = append(hits, searchHit{
			URL:         results[i].URL,
			ChunkNumber: results[i].ChunkNumber,
			Title:       results[i].Title,
			Summary:     results[i].Summary,
			Score:       results[i].Score,
		})
	}

	data, err := json.MarshalIndent(hits, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, results []domain.ScoredChunk) error {
	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i := range results {
		title := results[i].Title
		if title == "" {
			title = results[i].URL
		}

		cmd.Printf("  [%d] %s (%.2f)\n", i+1, title, results[i].Score)
		cmd.Printf("      %s #%d\n", results[i].URL, results[i].ChunkNumber)
		if results[i].Summary != "" {
			cmd.Printf("      %s\n", results[i].Summary)
		}
		cmd.Println()
	}

	return nil
}
