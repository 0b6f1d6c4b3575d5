package cli

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/busrag/internal/adapters/driving/tui"
	"github.com/custodia-labs/busrag/internal/adapters/driving/tui/messages"
)

func stubTUIProgram(t *testing.T, fn func(app *tui.App) error) {
	t.Helper()
	original := runTUIProgram
	runTUIProgram = fn
	t.Cleanup(func() { runTUIProgram = original })
}

func TestTUICmd_StartsApp(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	var started *tui.App
	stubTUIProgram(t, func(app *tui.App) error {
		started = app
		return nil
	})

	_, err := execute(t, "tui")

	require.NoError(t, err)
	require.NotNil(t, started)
	assert.Equal(t, messages.ViewMenu, started.CurrentView())
}

func TestTUIPorts_UsesInjectedServices(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	ports := tuiPorts()

	assert.Same(t, ts.retrieval, ports.Retrieval)
	assert.Same(t, ts.answer, ports.Answer)
	assert.Same(t, ts.provider, ports.Provider)
	assert.Same(t, ts.booking, ports.Booking)
	assert.Same(t, ts.index, ports.Index)
	assert.Same(t, ts.settings, ports.Settings)
}

func TestTUICmd_MissingRetrieval(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()
	retrievalService = nil
	stubTUIProgram(t, func(*tui.App) error {
		t.Fatal("program should not start")
		return nil
	})

	_, err := execute(t, "tui")

	require.Error(t, err)
	assert.ErrorIs(t, err, tui.ErrMissingRetrievalService)
}

func TestTUICmd_ProgramError(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()
	stubTUIProgram(t, func(*tui.App) error { return errors.New("no tty") })

	_, err := execute(t, "tui")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "TUI error: no tty")
}

func TestTUICmd_RecoversPanic(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()
	stubTUIProgram(t, func(*tui.App) error { panic("render failure") })

	_, err := execute(t, "tui")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "tui panic: render failure")
}
