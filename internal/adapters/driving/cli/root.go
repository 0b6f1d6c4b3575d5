// Package cli provides the cobra command tree for busrag.
// Services are injected by the binary through SetBootstrap, or directly
// through SetServices in tests.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/busrag/internal/core/ports/driving"
	"github.com/custodia-labs/busrag/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Services aggregates the driving ports the commands use.
type Services struct {
	Index     driving.IndexService
	Retrieval driving.RetrievalService
	Answer    driving.AnswerService
	Provider  driving.ProviderService
	Booking   driving.BookingService
	Settings  driving.SettingsService

	// WatchPaths are the corpus locations observed by "index watch".
	WatchPaths []string

	// Warnings are reported once before a command runs.
	Warnings []string

	// Close releases adapter resources. May be nil.
	Close func() error
}

// Bootstrap builds services for the given configuration directory.
// An empty configDir selects the default.
type Bootstrap func(ctx context.Context, configDir string) (*Services, error)

var (
	indexService     driving.IndexService
	retrievalService driving.RetrievalService
	answerService    driving.AnswerService
	providerService  driving.ProviderService
	bookingService   driving.BookingService
	settingsService  driving.SettingsService
	watchPaths       []string

	bootstrap     Bootstrap
	closeServices func() error
	servicesReady bool
	verboseFlag   bool
	configDirFlag string
)

// annotationSkipBootstrap marks commands that run without services.
const annotationSkipBootstrap = "busrag.skip-bootstrap"

var rootCmd = &cobra.Command{
	Use:   "busrag",
	Short: "Bus route search and question answering",
	Long: `busrag indexes bus providers and routes from a local data directory and
answers questions about them with retrieval-augmented generation.

The corpus is read from data.json and provider_texts/ in the data directory.
The vector index is built on first use and rebuilt with "busrag index rebuild".`,
	SilenceUsage:      true,
	PersistentPreRunE: prepare,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "print pipeline details to stderr")
	rootCmd.PersistentFlags().StringVar(&configDirFlag, "config-dir", "", "configuration directory (default ~/.busrag)")
}

// SetVersion sets the version reported by "busrag version".
func SetVersion(v string) {
	version = v
}

// SetBootstrap registers the function that builds services before a command runs.
func SetBootstrap(fn Bootstrap) {
	bootstrap = fn
}

// SetServices injects services directly and skips bootstrap.
func SetServices(s *Services) {
	if s == nil {
		s = &Services{}
	}
	indexService = s.Index
	retrievalService = s.Retrieval
	answerService = s.Answer
	providerService = s.Provider
	bookingService = s.Booking
	settingsService = s.Settings
	watchPaths = s.WatchPaths
	closeServices = s.Close
	servicesReady = true
}

// Execute runs the root command and releases services afterwards.
func Execute(ctx context.Context) error {
	defer func() {
		if closeServices != nil {
			if err := closeServices(); err != nil {
				logger.Warn("Closing services: %v", err)
			}
		}
	}()
	return rootCmd.ExecuteContext(ctx)
}

func prepare(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verboseFlag)

	if servicesReady || bootstrap == nil || cmd.Annotations[annotationSkipBootstrap] == "true" {
		return nil
	}

	s, err := bootstrap(commandContext(cmd), configDirFlag)
	if err != nil {
		return fmt.Errorf("initialise: %w", err)
	}
	SetServices(s)

	for _, w := range s.Warnings {
		cmd.PrintErrf("Warning: %s\n", w)
	}
	return nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// ensureIndex builds the index on first use, the way the first query of a
// fresh install expects.
func ensureIndex(cmd *cobra.Command) error {
	if indexService == nil {
		return errors.New("index service not configured")
	}
	report, err := indexService.EnsureBuilt(commandContext(cmd))
	if err != nil {
		return fmt.Errorf("prepare index: %w", err)
	}
	printBuildReport(cmd, report, true)
	return nil
}
