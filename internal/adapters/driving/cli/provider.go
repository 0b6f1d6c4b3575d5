package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/busrag/internal/core/domain"
)

var (
	providerLimit int
	providerJSON  bool
)

var providerCmd = &cobra.Command{
	Use:   "provider",
	Short: "Show bus provider details",
}

var providerListCmd = &cobra.Command{
	Use:   "list",
	Short: "List providers from the corpus",
	Args:  cobra.NoArgs,
	RunE:  runProviderList,
}

var providerShowCmd = &cobra.Command{
	Use:   "show [name]",
	Short: "Show details for a provider",
	Long: `Looks the provider up in the vector index first. When the index has
nothing, falls back to provider_texts/<name>.txt.`,
	Args: cobra.ExactArgs(1),
	RunE: runProviderShow,
}

func init() {
	providerShowCmd.Flags().IntVarP(&providerLimit, "limit", "n", domain.DefaultProviderK,
		"maximum number of passages (default from retrieval.provider_k)")
	providerShowCmd.Flags().BoolVar(&providerJSON, "json", false, "output as JSON")
	providerCmd.AddCommand(providerListCmd)
	providerCmd.AddCommand(providerShowCmd)
	rootCmd.AddCommand(providerCmd)
}

func runProviderList(cmd *cobra.Command, _ []string) error {
	if providerService == nil {
		return errors.New("provider service not configured")
	}
	names, err := providerService.Providers(commandContext(cmd))
	if err != nil {
		return fmt.Errorf("list providers: %w", err)
	}
	if len(names) == 0 {
		cmd.Println("No providers found.")
		return nil
	}
	for _, n := range names {
		cmd.Println(n)
	}
	return nil
}

func runProviderShow(cmd *cobra.Command, args []string) error {
	if providerService == nil {
		return errors.New("provider service not configured")
	}
	if err := ensureIndex(cmd); err != nil {
		return err
	}

	k := resolveK(cmd, providerLimit, func(s *domain.AppSettings) int { return s.Retrieval.ProviderK })
	info, err := providerService.Lookup(commandContext(cmd), args[0], k)
	if errors.Is(err, domain.ErrNotFound) {
		cmd.Println("No details found.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("provider lookup failed: %w", err)
	}

	if providerJSON {
		return outputJSON(cmd, info)
	}

	if info.Tier == domain.LookupTierFile {
		cmd.Println(info.Text)
		return nil
	}
	for _, r := range info.Results {
		cmd.Printf("%s\n", r.ID)
		cmd.Println(indent(r.Text, "  "))
		cmd.Println()
	}
	return nil
}
