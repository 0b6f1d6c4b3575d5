package cli

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/busrag/internal/adapters/driving/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal user interface for busrag.

The TUI builds the index if needed, then offers bus search, grounded
question answering, provider details and ticket bookings.

Controls:
  ↑/k, ↓/j - Navigate
  Enter    - Submit / Select
  Esc      - Back
  q        - Quit (from the menu)`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

// tuiPorts builds the TUI ports from the injected services.
func tuiPorts() *tui.Ports {
	return &tui.Ports{
		Retrieval: retrievalService,
		Answer:    answerService,
		Provider:  providerService,
		Booking:   bookingService,
		Index:     indexService,
		Settings:  settingsService,
	}
}

// runTUIProgram starts the bubbletea program. Replaced in tests.
var runTUIProgram = func(app *tui.App) error {
	return app.Run()
}

func runTUI(cmd *cobra.Command, _ []string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
			err = fmt.Errorf("tui panic: %v", r)
		}
	}()

	app, err := tui.NewApp(tuiPorts())
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	app.WithContext(commandContext(cmd))

	if err := runTUIProgram(app); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
