package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/busrag/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/busrag/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/busrag/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/busrag/internal/adapters/driving/tui/views/ask"
	"github.com/custodia-labs/busrag/internal/adapters/driving/tui/views/bookings"
	"github.com/custodia-labs/busrag/internal/adapters/driving/tui/views/menu"
	"github.com/custodia-labs/busrag/internal/adapters/driving/tui/views/provider"
	"github.com/custodia-labs/busrag/internal/adapters/driving/tui/views/search"
	"github.com/custodia-labs/busrag/internal/core/domain"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *styles.Styles

	menuView     *menu.View
	searchView   *search.View
	askView      *ask.View
	providerView *provider.View
	bookingsView *bookings.View

	// currentView tracks which view is active.
	currentView messages.ViewType

	// indexReport is the outcome of the startup build, nil until it completes.
	indexReport *domain.BuildReport

	err    error
	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	app := &App{
		ports:        ports,
		ctx:          context.Background(),
		styles:       s,
		menuView:     menu.NewView(s),
		searchView:   search.NewView(s, km, ports.Retrieval),
		askView:      ask.NewView(s, km, ports.Answer),
		providerView: provider.NewView(s, km, ports.Provider),
		bookingsView: bookings.NewView(s, km, ports.Booking),
		currentView:  messages.ViewMenu,
	}
	app.applyLimits()
	return app, nil
}

// applyLimits copies the configured result counts into the views.
func (a *App) applyLimits() {
	if a.ports.Settings == nil {
		return
	}
	settings, err := a.ports.Settings.Get()
	if err != nil {
		return
	}
	a.searchView.SetLimit(settings.Retrieval.SearchK)
	a.askView.SetLimit(settings.Retrieval.AskK)
	a.providerView.SetLimit(settings.Retrieval.ProviderK)
}

// WithContext sets the context for the app and its views.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.searchView.WithContext(ctx)
	a.askView.WithContext(ctx)
	a.providerView.WithContext(ctx)
	a.bookingsView.WithContext(ctx)
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.EnterAltScreen,
		tea.SetWindowTitle("busrag - Bus Route Assistant"),
	}
	if a.ports.Index != nil {
		a.menuView.SetIndexStatus("Index: preparing...")
		cmds = append(cmds, a.ensureIndex())
	}
	return tea.Batch(cmds...)
}

// ensureIndex builds the index in the background when none is usable.
func (a *App) ensureIndex() tea.Cmd {
	index, ctx := a.ports.Index, a.ctx
	return func() tea.Msg {
		report, err := index.EnsureBuilt(ctx)
		return messages.IndexReady{Report: report, Err: err}
	}
}

// Update implements tea.Model.
//
//nolint:gocyclo // central message handler
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		return a, a.routeToCurrent(msg)

	case messages.ViewChanged:
		a.currentView = msg.View
		switch msg.View {
		case messages.ViewSearch:
			a.searchView.Reset()
			return a, a.searchView.Init()
		case messages.ViewAsk:
			a.askView.Reset()
			return a, a.askView.Init()
		case messages.ViewProvider:
			return a, a.providerView.Init()
		case messages.ViewBookings:
			return a, a.bookingsView.Init()
		case messages.ViewMenu, messages.ViewHelp:
		}
		return a, nil

	case messages.IndexReady:
		a.handleIndexReady(msg)
		return a, nil

	case messages.SearchCompleted:
		a.searchView, cmd = a.searchView.Update(msg)
		a.err = a.searchView.Err()
		return a, cmd

	case messages.AnswerCompleted:
		a.askView, cmd = a.askView.Update(msg)
		a.err = a.askView.Err()
		return a, cmd

	case messages.ProvidersLoaded, messages.ProviderLoaded:
		a.providerView, cmd = a.providerView.Update(msg)
		a.err = a.providerView.Err()
		return a, cmd

	case messages.BookingsLoaded, messages.BookingCreated, messages.BookingCancelled:
		a.bookingsView, cmd = a.bookingsView.Update(msg)
		a.err = a.bookingsView.Err()
		return a, cmd

	case messages.ErrorOccurred:
		a.err = msg.Err
		return a, a.routeToCurrent(msg)

	case messages.Quit:
		return a, tea.Quit
	}

	return a, a.routeToCurrent(msg)
}

// routeToCurrent forwards a message to the active view.
func (a *App) routeToCurrent(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch a.currentView {
	case messages.ViewMenu:
		a.menuView, cmd = a.menuView.Update(msg)
	case messages.ViewSearch:
		a.searchView, cmd = a.searchView.Update(msg)
	case messages.ViewAsk:
		a.askView, cmd = a.askView.Update(msg)
	case messages.ViewProvider:
		a.providerView, cmd = a.providerView.Update(msg)
	case messages.ViewBookings:
		a.bookingsView, cmd = a.bookingsView.Update(msg)
	case messages.ViewHelp:
		if key, ok := msg.(tea.KeyMsg); ok && key.Type == tea.KeyEsc {
			a.currentView = messages.ViewMenu
		}
	}
	return cmd
}

func (a *App) handleIndexReady(msg messages.IndexReady) {
	if msg.Err != nil {
		a.err = msg.Err
		a.menuView.SetIndexStatus("Index: " + msg.Err.Error())
		return
	}
	a.indexReport = msg.Report

	switch {
	case msg.Report == nil:
		a.menuView.SetIndexStatus("")
	case msg.Report.Outcome == domain.BuildOutcomeNoData:
		a.menuView.SetIndexStatus("Index: no data found. Add data.json or provider_texts to the data directory.")
	case msg.Report.Outcome == domain.BuildOutcomeBuilt:
		a.menuView.SetIndexStatus(fmt.Sprintf("Index: built %d passages", msg.Report.Documents))
	default:
		a.menuView.SetIndexStatus("Index: ready")
	}
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewSearch:
		return a.searchView.View()
	case messages.ViewAsk:
		return a.askView.View()
	case messages.ViewProvider:
		return a.providerView.View()
	case messages.ViewBookings:
		return a.bookingsView.View()
	case messages.ViewHelp:
		return a.viewHelp()
	default:
		return a.menuView.View()
	}
}

func (a *App) viewHelp() string {
	return a.styles.Title.Render("Help") + `

Navigation:
  esc         Back
  ctrl+c      Quit

Menu:
  j/k, ↑/↓    Navigate options
  enter       Select option
  q           Quit

Search and Ask:
  (type)      Enter query
  enter       Submit
  n           New query
  j/k, ↑/↓    Navigate results

Provider Info:
  j/k, ↑/↓    Choose provider
  enter       Show details

Bookings:
  a           Book a ticket
  tab         Next form field
  d           Cancel selected booking
  r           Refresh

[esc] back to menu`
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// IndexReport returns the startup build outcome, nil until it completes.
func (a *App) IndexReport() *domain.BuildReport {
	return a.indexReport
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions on the app and every view.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.menuView.SetDimensions(width, height)
	a.searchView.SetDimensions(width, height)
	a.askView.SetDimensions(width, height)
	a.providerView.SetDimensions(width, height)
	a.bookingsView.SetDimensions(width, height)
}
