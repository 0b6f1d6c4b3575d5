package cli

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmd_Bootstrap(t *testing.T) {
	restore := resetServices()
	defer restore()

	mocks := &mockBookingService{}
	var gotDir string
	calls := 0
	SetBootstrap(func(_ context.Context, configDir string) (*Services, error) {
		calls++
		gotDir = configDir
		return &Services{
			Booking:  mocks,
			Warnings: []string{"LLM not configured"},
		}, nil
	})

	out, err := execute(t, "--config-dir", "/tmp/busrag-test", "booking", "list")

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, "/tmp/busrag-test", gotDir)
	assert.Contains(t, out, "Warning: LLM not configured")
	assert.Contains(t, out, "No bookings yet.")
	assert.Same(t, mocks, bookingService)
}

func TestRootCmd_BootstrapError(t *testing.T) {
	restore := resetServices()
	defer restore()
	SetBootstrap(func(context.Context, string) (*Services, error) {
		return nil, errors.New("config unreadable")
	})

	_, err := execute(t, "booking", "list")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "initialise: config unreadable")
}

func TestRootCmd_InjectedServicesSkipBootstrap(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()
	SetBootstrap(func(context.Context, string) (*Services, error) {
		t.Fatal("bootstrap should not run")
		return nil, nil
	})

	_, err := execute(t, "booking", "list")

	require.NoError(t, err)
}

func TestExecute_ClosesServices(t *testing.T) {
	restore := resetServices()
	defer restore()

	closed := false
	SetServices(&Services{Close: func() error {
		closed = true
		return errors.New("already closed")
	}})

	rootCmd.SetArgs([]string{"version"})
	defer rootCmd.SetArgs(nil)

	require.NoError(t, Execute(context.Background()))
	assert.True(t, closed)
}

func TestSetServices_Nil(t *testing.T) {
	restore := resetServices()
	defer restore()

	SetServices(nil)

	assert.True(t, servicesReady)
	assert.Nil(t, retrievalService)
	assert.Nil(t, bookingService)
}
