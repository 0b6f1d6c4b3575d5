package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/busrag/internal/core/domain"
)

var (
	searchLimit int
	searchJSON  bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search routes and providers",
	Long: `Finds the passages nearest to the query in the vector index.
Results are ordered by ascending distance; lower is closer.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", domain.DefaultSearchK,
		"maximum number of results (default from retrieval.search_k)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if retrievalService == nil {
		return errors.New("retrieval service not configured")
	}
	if err := ensureIndex(cmd); err != nil {
		return err
	}

	k := resolveK(cmd, searchLimit, func(s *domain.AppSettings) int { return s.Retrieval.SearchK })
	results, err := retrievalService.Retrieve(commandContext(cmd), args[0], k)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputJSON(cmd, results)
	}

	return outputResults(cmd, results)
}

// resolveK uses the flag when set and the configured default otherwise.
func resolveK(cmd *cobra.Command, flagValue int, fromSettings func(*domain.AppSettings) int) int {
	if cmd.Flags().Changed("limit") || settingsService == nil {
		return flagValue
	}
	settings, err := settingsService.Get()
	if err != nil {
		return flagValue
	}
	if k := fromSettings(settings); k > 0 {
		return k
	}
	return flagValue
}

func outputJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputResults(cmd *cobra.Command, results []domain.RetrievalResult) error {
	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i, r := range results {
		cmd.Printf("  [%d] %s (distance %.4f)\n", i+1, r.ID, r.Distance)
		cmd.Println(indent(r.Text, "      "))
		cmd.Println()
	}
	return nil
}

func indent(text, prefix string) string {
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}
