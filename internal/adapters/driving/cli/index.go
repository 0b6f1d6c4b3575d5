package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/busrag/internal/adapters/driving/watcher"
	"github.com/custodia-labs/busrag/internal/core/domain"
)

var watchDebounce time.Duration

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Manage the vector index",
	Long: `Build, inspect and remove the persisted vector index.

The index is built from the routes in data.json and the files in
provider_texts/. Search commands build it on first use.`,
}

var indexBuildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the index if none exists",
	Args:  cobra.NoArgs,
	RunE:  runIndexBuild,
}

var indexRebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Rebuild the index from the current corpus",
	Args:  cobra.NoArgs,
	RunE:  runIndexRebuild,
}

var indexStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show index state",
	Args:  cobra.NoArgs,
	RunE:  runIndexStatus,
}

var indexClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the persisted index",
	Args:  cobra.NoArgs,
	RunE:  runIndexClear,
}

var indexWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Rebuild the index when the corpus changes",
	Long: `Watches the data directory and provider_texts/ and rebuilds the index
after changes settle. Runs until interrupted.`,
	Args: cobra.NoArgs,
	RunE: runIndexWatch,
}

func init() {
	indexWatchCmd.Flags().DurationVar(&watchDebounce, "debounce", watcher.DefaultDebounce,
		"quiet period before a rebuild")

	indexCmd.AddCommand(indexBuildCmd)
	indexCmd.AddCommand(indexRebuildCmd)
	indexCmd.AddCommand(indexStatusCmd)
	indexCmd.AddCommand(indexClearCmd)
	indexCmd.AddCommand(indexWatchCmd)
	rootCmd.AddCommand(indexCmd)
}

func runIndexBuild(cmd *cobra.Command, _ []string) error {
	if indexService == nil {
		return errors.New("index service not configured")
	}
	report, err := indexService.EnsureBuilt(commandContext(cmd))
	if err != nil {
		return fmt.Errorf("build failed: %w", err)
	}
	printBuildReport(cmd, report, false)
	return nil
}

func runIndexRebuild(cmd *cobra.Command, _ []string) error {
	if indexService == nil {
		return errors.New("index service not configured")
	}
	report, err := indexService.Rebuild(commandContext(cmd))
	if err != nil {
		return fmt.Errorf("rebuild failed: %w", err)
	}
	printBuildReport(cmd, report, false)
	return nil
}

func runIndexStatus(cmd *cobra.Command, _ []string) error {
	if indexService == nil {
		return errors.New("index service not configured")
	}
	ctx := commandContext(cmd)

	// Load so the status reflects what queries would see.
	if _, err := indexService.Snapshot(ctx); err != nil {
		cmd.PrintErrf("Warning: %v\n", err)
	}
	status, err := indexService.Status(ctx)
	if err != nil {
		return fmt.Errorf("status failed: %w", err)
	}

	cmd.Printf("State:      %s\n", status.State)
	if status.Loaded {
		cmd.Printf("Documents:  %d\n", status.Documents)
		cmd.Printf("Dimension:  %d\n", status.Dimension)
		if status.Model != "" {
			cmd.Printf("Model:      %s\n", status.Model)
		}
	}
	if status.State == domain.IndexStateAbsent {
		cmd.Println("Run 'busrag index build' to create the index.")
	}
	return nil
}

func runIndexClear(cmd *cobra.Command, _ []string) error {
	if indexService == nil {
		return errors.New("index service not configured")
	}
	if err := indexService.Clear(commandContext(cmd)); err != nil {
		return fmt.Errorf("clear failed: %w", err)
	}
	cmd.Println("Index cleared.")
	return nil
}

func runIndexWatch(cmd *cobra.Command, _ []string) error {
	if indexService == nil {
		return errors.New("index service not configured")
	}
	if len(watchPaths) == 0 {
		return errors.New("no corpus paths to watch")
	}

	ctx := commandContext(cmd)
	if err := ensureIndex(cmd); err != nil {
		return err
	}

	w, err := watcher.New(watchPaths, indexService, watcher.Config{
		Debounce: watchDebounce,
		OnRebuild: func(report *domain.BuildReport, err error) {
			if err != nil {
				cmd.PrintErrf("Rebuild failed: %v\n", err)
				return
			}
			printBuildReport(cmd, report, false)
		},
	})
	if err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}

	cmd.Printf("Watching %v (Ctrl+C to stop)\n", watchPaths)
	return w.Run(ctx)
}

// printBuildReport describes a build. Quiet mode only reports actual builds.
func printBuildReport(cmd *cobra.Command, report *domain.BuildReport, quiet bool) {
	if report == nil {
		return
	}
	switch report.Outcome {
	case domain.BuildOutcomeBuilt:
		msg := fmt.Sprintf("Indexed %d documents (dimension %d) in %s",
			report.Documents, report.Dimension, report.Duration.Round(time.Millisecond))
		if quiet {
			cmd.PrintErrln(msg)
		} else {
			cmd.Println(msg)
		}
	case domain.BuildOutcomeAlreadyPresent:
		if !quiet {
			cmd.Printf("Index already present (%d documents).\n", report.Documents)
		}
	case domain.BuildOutcomeNoData:
		cmd.PrintErrln("No data found to index. Place data.json and provider_texts/ in the data directory.")
	}
}
