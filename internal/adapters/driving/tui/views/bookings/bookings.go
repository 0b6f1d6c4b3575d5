// Package bookings provides the reservation list and booking form for the TUI.
package bookings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/busrag/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/busrag/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/busrag/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/busrag/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/busrag/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/busrag/internal/core/domain"
	"github.com/custodia-labs/busrag/internal/core/ports/driving"
)

// ErrNoBookingService indicates that no booking service was provided.
var ErrNoBookingService = errors.New("booking service is not configured")

// Form field positions.
const (
	fieldName = iota
	fieldPhone
	fieldProvider
	fieldOrigin
	fieldDestination
	fieldDate
	fieldCount
)

// View shows stored bookings and a form for creating new ones.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	statusbar *status.Bar
	fields    []*input.Field

	bookingService driving.BookingService
	ctx            context.Context
	now            func() time.Time

	bookings []domain.Booking
	selected int
	formOpen bool
	focused  int
	err      error
	ready    bool
}

// NewView creates a new bookings view.
func NewView(s *styles.Styles, km *keymap.KeyMap, bookingService driving.BookingService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	v := &View{
		styles:         s,
		keymap:         km,
		statusbar:      status.NewBar(s, km),
		bookingService: bookingService,
		ctx:            context.Background(),
		now:            time.Now,
	}
	v.fields = []*input.Field{
		input.NewField(s, "Name", "Your name"),
		input.NewField(s, "Phone", "01XXXXXXXXX"),
		input.NewField(s, "Provider", "e.g. Hanif"),
		input.NewField(s, "Origin", ""),
		input.NewField(s, "Destination", ""),
		input.NewField(s, "Travel date", domain.TravelDateLayout),
	}
	v.resetForm()
	v.closeForm()
	return v
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init loads the bookings list.
func (v *View) Init() tea.Cmd {
	v.closeForm()
	return v.load()
}

func (v *View) load() tea.Cmd {
	svc, ctx := v.bookingService, v.ctx
	return func() tea.Msg {
		if svc == nil {
			return messages.BookingsLoaded{Err: ErrNoBookingService}
		}
		bookings, err := svc.List(ctx)
		return messages.BookingsLoaded{Bookings: bookings, Err: err}
	}
}

// Update handles messages for the bookings view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)

	case tea.KeyMsg:
		if v.formOpen {
			return v.handleFormKey(msg)
		}
		return v.handleListKey(msg)

	case messages.BookingsLoaded:
		v.err = msg.Err
		if msg.Err != nil {
			v.statusbar.Fail(msg.Err)
			return v, nil
		}
		v.bookings = msg.Bookings
		if v.selected >= len(v.bookings) {
			v.selected = max(len(v.bookings)-1, 0)
		}

	case messages.BookingCreated:
		if msg.Err != nil {
			v.err = msg.Err
			v.statusbar.Fail(msg.Err)
			return v, nil
		}
		v.err = nil
		v.closeForm()
		v.resetForm()
		v.selected = 0
		v.statusbar.Info(fmt.Sprintf("Booking %d created", msg.Booking.ID))
		return v, v.load()

	case messages.BookingCancelled:
		if msg.Err != nil {
			v.err = msg.Err
			v.statusbar.Fail(msg.Err)
			return v, nil
		}
		v.err = nil
		v.statusbar.Info(fmt.Sprintf("Cancelled booking %d", msg.ID))
		return v, v.load()

	case messages.ErrorOccurred:
		v.err = msg.Err
		v.statusbar.Fail(msg.Err)
	}
	return v, nil
}

func (v *View) handleListKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	if msg.Type == tea.KeyEsc {
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	}

	switch k := msg.String(); {
	case keymap.Matches(k, v.keymap.Up):
		if v.selected > 0 {
			v.selected--
		}
	case keymap.Matches(k, v.keymap.Down):
		if v.selected < len(v.bookings)-1 {
			v.selected++
		}
	case keymap.Matches(k, v.keymap.Add):
		v.err = nil
		v.formOpen = true
		v.statusbar.Clear()
		v.statusbar.SetHints(v.keymap.FormHelp())
		return v, v.focus(fieldName)
	case keymap.Matches(k, v.keymap.Delete):
		if b := v.SelectedBooking(); b != nil {
			v.statusbar.Busy(fmt.Sprintf("Cancelling booking %d...", b.ID))
			return v, v.cancel(b.ID)
		}
	case keymap.Matches(k, v.keymap.Refresh):
		return v, v.load()
	}
	return v, nil
}

func (v *View) handleFormKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		v.err = nil
		v.closeForm()
		return v, nil
	case tea.KeyTab:
		return v, v.focus((v.focused + 1) % fieldCount)
	case tea.KeyShiftTab:
		return v, v.focus((v.focused + fieldCount - 1) % fieldCount)
	case tea.KeyEnter:
		req := v.Request()
		if err := req.Validate(); err != nil {
			v.err = err
			v.statusbar.Fail(err)
			return v, nil
		}
		v.statusbar.Busy("Booking...")
		return v, v.book(req)
	}

	var cmd tea.Cmd
	v.fields[v.focused], cmd = v.fields[v.focused].Update(msg)
	return v, cmd
}

func (v *View) book(req domain.BookingRequest) tea.Cmd {
	svc, ctx := v.bookingService, v.ctx
	return func() tea.Msg {
		if svc == nil {
			return messages.BookingCreated{Err: ErrNoBookingService}
		}
		booking, err := svc.Book(ctx, req)
		return messages.BookingCreated{Booking: booking, Err: err}
	}
}

func (v *View) cancel(id int64) tea.Cmd {
	svc, ctx := v.bookingService, v.ctx
	return func() tea.Msg {
		if svc == nil {
			return messages.BookingCancelled{ID: id, Err: ErrNoBookingService}
		}
		return messages.BookingCancelled{ID: id, Err: svc.Cancel(ctx, id)}
	}
}

func (v *View) focus(idx int) tea.Cmd {
	v.focused = idx
	for i, f := range v.fields {
		if i != idx {
			f.Blur()
		}
	}
	return v.fields[idx].Focus()
}

func (v *View) closeForm() {
	v.formOpen = false
	for _, f := range v.fields {
		f.Blur()
	}
	v.statusbar.SetHints(v.keymap.BookingsHelp())
}

func (v *View) resetForm() {
	for _, f := range v.fields {
		f.Reset()
	}
	v.fields[fieldOrigin].SetValue("Dhaka")
	v.fields[fieldDestination].SetValue("Rajshahi")
	v.fields[fieldDate].SetValue(v.now().Format(domain.TravelDateLayout))
	v.focused = fieldName
}

// View renders the bookings view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var sections []string
	if v.formOpen {
		sections = append(sections, v.styles.Title.Render("Book a Ticket"), "")
		for _, f := range v.fields {
			sections = append(sections, f.View())
		}
	} else {
		sections = append(sections, v.styles.Title.Render("Bookings"), "", v.renderList())
	}
	if v.err != nil {
		sections = append(sections, "", v.styles.Error.Render("Error: "+v.err.Error()))
	}
	sections = append(sections, "", v.statusbar.View())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (v *View) renderList() string {
	if len(v.bookings) == 0 {
		return v.styles.Muted.Render("No bookings yet.")
	}

	lines := make([]string, len(v.bookings))
	for i := range v.bookings {
		b := &v.bookings[i]
		line := fmt.Sprintf("ID %d  %s (%s)  %s  %s -> %s  %s",
			b.ID, b.Name, b.Phone, b.Provider, b.Origin, b.Destination, b.TravelDate)
		if i == v.selected {
			lines[i] = v.styles.Selected.Render("> " + line)
		} else {
			lines[i] = v.styles.Normal.Render("  " + line)
		}
	}
	return strings.Join(lines, "\n")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, _ int) {
	v.ready = true
	for _, f := range v.fields {
		f.SetWidth(width)
	}
	v.statusbar.SetWidth(width)
}

// Request returns the booking described by the form fields.
func (v *View) Request() domain.BookingRequest {
	value := func(i int) string { return strings.TrimSpace(v.fields[i].Value()) }
	return domain.BookingRequest{
		Name:        value(fieldName),
		Phone:       value(fieldPhone),
		Provider:    value(fieldProvider),
		Origin:      value(fieldOrigin),
		Destination: value(fieldDestination),
		TravelDate:  value(fieldDate),
	}
}

// Bookings returns the loaded bookings.
func (v *View) Bookings() []domain.Booking {
	return v.bookings
}

// SelectedBooking returns the highlighted booking, or nil when none.
func (v *View) SelectedBooking() *domain.Booking {
	if v.selected < 0 || v.selected >= len(v.bookings) {
		return nil
	}
	return &v.bookings[v.selected]
}

// FormOpen reports whether the booking form is displayed.
func (v *View) FormOpen() bool {
	return v.formOpen
}

// FocusedField returns the label of the focused form field.
func (v *View) FocusedField() string {
	return v.fields[v.focused].Label()
}

// Err returns the current error, if any.
func (v *View) Err() error {
	return v.err
}
