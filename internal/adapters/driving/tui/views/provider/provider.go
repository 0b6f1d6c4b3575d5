// Package provider provides the bus provider lookup view for the TUI.
package provider

import (
	"context"
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/busrag/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/busrag/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/busrag/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/busrag/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/busrag/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/busrag/internal/core/domain"
	"github.com/custodia-labs/busrag/internal/core/ports/driving"
)

// ErrNoProviderService indicates that no provider service was provided.
var ErrNoProviderService = errors.New("provider service is not configured")

// View lists providers and shows details for the selected one.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	results   *list.ResultList
	statusbar *status.Bar

	providerService driving.ProviderService
	limit           int
	ctx             context.Context

	names    []string
	selected int
	info     *domain.ProviderInfo
	notFound bool
	detail   bool
	err      error
	ready    bool
}

// NewView creates a new provider view.
func NewView(s *styles.Styles, km *keymap.KeyMap, providerService driving.ProviderService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &View{
		styles:          s,
		keymap:          km,
		results:         list.NewResultList(s),
		statusbar:       status.NewBar(s, km),
		providerService: providerService,
		limit:           domain.DefaultProviderK,
		ctx:             context.Background(),
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// SetLimit sets the number of passages retrieved per lookup.
func (v *View) SetLimit(k int) {
	if k > 0 {
		v.limit = k
	}
}

// Init loads the provider names.
func (v *View) Init() tea.Cmd {
	v.detail = false
	v.statusbar.Busy("Loading providers...")
	svc, ctx := v.providerService, v.ctx
	return func() tea.Msg {
		if svc == nil {
			return messages.ProvidersLoaded{Err: ErrNoProviderService}
		}
		names, err := svc.Providers(ctx)
		return messages.ProvidersLoaded{Names: names, Err: err}
	}
}

// Update handles messages for the provider view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.ProvidersLoaded:
		v.err = msg.Err
		if msg.Err != nil {
			v.statusbar.Fail(msg.Err)
			return v, nil
		}
		v.names = msg.Names
		v.selected = 0
		v.statusbar.Clear()
		v.statusbar.SetHints(v.keymap.ResultsHelp()[1:])

	case messages.ProviderLoaded:
		v.handleLookup(msg)

	case messages.ErrorOccurred:
		v.err = msg.Err
		v.statusbar.Fail(msg.Err)
	}
	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if msg.Type == tea.KeyEsc {
		if v.detail {
			v.detail = false
			v.statusbar.Clear()
			return v, nil
		}
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	}

	if v.detail {
		v.results, _ = v.results.Update(msg)
		return v, nil
	}

	switch {
	case keymap.Matches(msg.String(), v.keymap.Up):
		if v.selected > 0 {
			v.selected--
		}
	case keymap.Matches(msg.String(), v.keymap.Down):
		if v.selected < len(v.names)-1 {
			v.selected++
		}
	case msg.Type == tea.KeyEnter:
		if name := v.SelectedName(); name != "" {
			v.statusbar.Busy("Looking up " + name + "...")
			return v, v.lookup(name)
		}
	}
	return v, nil
}

func (v *View) lookup(name string) tea.Cmd {
	svc, ctx, k := v.providerService, v.ctx, v.limit
	return func() tea.Msg {
		if svc == nil {
			return messages.ProviderLoaded{Err: ErrNoProviderService}
		}
		info, err := svc.Lookup(ctx, name, k)
		if info == nil && err == nil {
			err = domain.ErrNotFound
		}
		return messages.ProviderLoaded{Info: info, Err: err}
	}
}

func (v *View) handleLookup(msg messages.ProviderLoaded) {
	v.detail = true
	v.info = nil
	v.notFound = false
	v.err = nil
	v.results.SetResults(nil)

	switch {
	case errors.Is(msg.Err, domain.ErrNotFound):
		v.notFound = true
		v.statusbar.Clear()
	case msg.Err != nil:
		v.err = msg.Err
		v.statusbar.Fail(msg.Err)
	default:
		v.info = msg.Info
		v.results.SetResults(msg.Info.Results)
		v.statusbar.Info("Found via " + string(msg.Info.Tier) + " lookup")
	}
}

// View renders the provider view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := []string{v.styles.Title.Render("Provider Details"), ""}

	switch {
	case v.detail:
		sections = append(sections, v.renderDetail())
	case v.err != nil:
		sections = append(sections, v.styles.Error.Render("Error: "+v.err.Error()))
	case len(v.names) == 0:
		sections = append(sections, v.styles.Muted.Render("No providers listed in the corpus."))
	default:
		sections = append(sections, v.renderNames())
	}

	sections = append(sections, "", v.statusbar.View())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (v *View) renderNames() string {
	lines := make([]string, len(v.names))
	for i, name := range v.names {
		if i == v.selected {
			lines[i] = v.styles.Selected.Render("> " + name)
		} else {
			lines[i] = v.styles.Normal.Render("  " + name)
		}
	}
	return strings.Join(lines, "\n")
}

func (v *View) renderDetail() string {
	name := v.SelectedName()
	header := v.styles.Subtitle.Render(name)

	switch {
	case v.err != nil:
		return header + "\n" + v.styles.Error.Render("Error: "+v.err.Error())
	case v.notFound || v.info == nil:
		return header + "\n" + v.styles.Muted.Render("No details found.")
	case v.info.Tier == domain.LookupTierFile:
		return header + "\n\n" + v.styles.Normal.Render(v.info.Text)
	default:
		return header + "\n\n" + v.results.View()
	}
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.ready = true
	v.results.SetDimensions(width, height-6)
	v.statusbar.SetWidth(width)
}

// Names returns the loaded provider names.
func (v *View) Names() []string {
	return v.names
}

// SelectedName returns the highlighted provider, or "" when none.
func (v *View) SelectedName() string {
	if v.selected < 0 || v.selected >= len(v.names) {
		return ""
	}
	return v.names[v.selected]
}

// Info returns the last lookup result.
func (v *View) Info() *domain.ProviderInfo {
	return v.info
}

// ShowingDetail reports whether a lookup result is displayed.
func (v *View) ShowingDetail() bool {
	return v.detail
}

// Err returns the current error, if any.
func (v *View) Err() error {
	return v.err
}
