package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/busrag/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/busrag/internal/core/domain"
)

func newTestApp(t *testing.T, ports *Ports) *App {
	t.Helper()
	if ports == nil {
		ports = &Ports{Retrieval: &mockRetrievalService{}}
	}
	app, err := NewApp(ports)
	require.NoError(t, err)
	app.SetDimensions(100, 40)
	return app
}

func update(t *testing.T, app *App, msg tea.Msg) (*App, tea.Cmd) {
	t.Helper()
	model, cmd := app.Update(msg)
	next, ok := model.(*App)
	require.True(t, ok)
	return next, cmd
}

func TestNewApp_InvalidPorts(t *testing.T) {
	_, err := NewApp(nil)
	assert.ErrorIs(t, err, ErrInvalidPorts)

	_, err = NewApp(&Ports{})
	assert.ErrorIs(t, err, ErrMissingRetrievalService)
}

func TestNewApp_StartsOnMenu(t *testing.T) {
	app, err := NewApp(&Ports{Retrieval: &mockRetrievalService{}})
	require.NoError(t, err)

	assert.Equal(t, messages.ViewMenu, app.CurrentView())
	assert.False(t, app.Ready())
	assert.Equal(t, "Initialising...", app.View())
}

func TestApp_WindowSize(t *testing.T) {
	app, err := NewApp(&Ports{Retrieval: &mockRetrievalService{}})
	require.NoError(t, err)

	app, _ = update(t, app, tea.WindowSizeMsg{Width: 120, Height: 40})

	assert.True(t, app.Ready())
	assert.Contains(t, app.View(), "Bus Route Assistant")
}

func TestApp_AppliesConfiguredLimits(t *testing.T) {
	settings := domain.DefaultAppSettings()
	settings.Retrieval.SearchK = 9
	app := newTestApp(t, &Ports{
		Retrieval: &mockRetrievalService{},
		Settings:  &mockSettingsService{settings: settings},
	})

	assert.Equal(t, 9, app.searchView.Limit())
}

func TestApp_SettingsErrorKeepsDefaults(t *testing.T) {
	app := newTestApp(t, &Ports{
		Retrieval: &mockRetrievalService{},
		Settings:  &mockSettingsService{err: errors.New("unreadable")},
	})

	assert.Equal(t, domain.DefaultSearchK, app.searchView.Limit())
}

func TestApp_InitEnsuresIndex(t *testing.T) {
	index := &mockIndexService{report: &domain.BuildReport{Outcome: domain.BuildOutcomeBuilt, Documents: 12}}
	app := newTestApp(t, &Ports{Retrieval: &mockRetrievalService{}, Index: index})

	require.NotNil(t, app.Init())
	assert.Contains(t, app.View(), "Index: preparing...")

	msg := app.ensureIndex()()
	app, _ = update(t, app, msg)

	assert.Equal(t, 1, index.calls)
	require.NotNil(t, app.IndexReport())
	assert.Contains(t, app.View(), "Index: built 12 passages")
}

func TestApp_IndexReadyOutcomes(t *testing.T) {
	tests := []struct {
		name string
		msg  messages.IndexReady
		want string
	}{
		{"no data", messages.IndexReady{Report: &domain.BuildReport{Outcome: domain.BuildOutcomeNoData}}, "no data found"},
		{"already present", messages.IndexReady{Report: &domain.BuildReport{Outcome: domain.BuildOutcomeAlreadyPresent}}, "Index: ready"},
		{"error", messages.IndexReady{Err: errors.New("embedder offline")}, "embedder offline"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(t, nil)
			app, _ = update(t, app, tt.msg)
			assert.Contains(t, app.View(), tt.want)
		})
	}
}

func TestApp_InitWithoutIndex(t *testing.T) {
	app := newTestApp(t, nil)

	require.NotNil(t, app.Init())
	assert.NotContains(t, app.View(), "Index:")
}

func TestApp_NavigateToSearchAndBack(t *testing.T) {
	retrieval := &mockRetrievalService{
		results: []domain.RetrievalResult{{ID: "route::Hanif::Dhaka->Rajshahi", Text: "Provider: Hanif"}},
	}
	app := newTestApp(t, &Ports{Retrieval: retrieval})

	app, _ = update(t, app, messages.ViewChanged{View: messages.ViewSearch})
	assert.Equal(t, messages.ViewSearch, app.CurrentView())
	assert.Contains(t, app.View(), "Search Buses")

	app, _ = update(t, app, messages.SearchCompleted{Results: retrieval.results})
	assert.Contains(t, app.View(), "route::Hanif::Dhaka->Rajshahi")

	_, cmd := update(t, app, tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	app, _ = update(t, app, cmd())
	assert.Equal(t, messages.ViewMenu, app.CurrentView())
}

func TestApp_SearchErrorRecorded(t *testing.T) {
	app := newTestApp(t, nil)
	app, _ = update(t, app, messages.ViewChanged{View: messages.ViewSearch})

	app, _ = update(t, app, messages.SearchCompleted{Err: errors.New("index missing")})

	assert.EqualError(t, app.Err(), "index missing")
}

func TestApp_AskView(t *testing.T) {
	app := newTestApp(t, nil)

	app, _ = update(t, app, messages.ViewChanged{View: messages.ViewAsk})

	assert.Equal(t, messages.ViewAsk, app.CurrentView())
	assert.Contains(t, app.View(), "Ask a Question")

	app, _ = update(t, app, messages.AnswerCompleted{Err: domain.ErrNoGroundingData})
	assert.Contains(t, app.View(), "No data indexed to answer this question.")
}

func TestApp_BookingsViewLoads(t *testing.T) {
	booking := &mockBookingService{bookings: []domain.Booking{{
		ID: 3,
		BookingRequest: domain.BookingRequest{
			Name: "Karim", Phone: "01800000000", Provider: "Greenline",
			Origin: "Dhaka", Destination: "Sylhet", TravelDate: "2025-02-01",
		},
	}}}
	app := newTestApp(t, &Ports{Retrieval: &mockRetrievalService{}, Booking: booking})

	app, cmd := update(t, app, messages.ViewChanged{View: messages.ViewBookings})
	require.NotNil(t, cmd)
	app, _ = update(t, app, cmd())

	assert.Contains(t, app.View(), "Karim")
}

func TestApp_ProviderViewLoads(t *testing.T) {
	app := newTestApp(t, nil)

	app, cmd := update(t, app, messages.ViewChanged{View: messages.ViewProvider})
	require.NotNil(t, cmd)
	app, _ = update(t, app, messages.ProvidersLoaded{Names: []string{"Shyamoli"}})

	assert.Contains(t, app.View(), "Shyamoli")
}

func TestApp_HelpView(t *testing.T) {
	app := newTestApp(t, nil)

	app, _ = update(t, app, messages.ViewChanged{View: messages.ViewHelp})
	out := app.View()
	assert.Contains(t, out, "Help")
	assert.Contains(t, out, "Cancel selected booking")

	app, _ = update(t, app, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, messages.ViewMenu, app.CurrentView())
}

func TestApp_Quit(t *testing.T) {
	app := newTestApp(t, nil)

	_, cmd := update(t, app, tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())

	_, cmd = update(t, app, messages.Quit{})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestApp_WithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app := newTestApp(t, nil)
	assert.Same(t, app, app.WithContext(ctx))
}
