package bookings

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/busrag/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/busrag/internal/core/domain"
)

// MockBookingService implements driving.BookingService for testing.
type MockBookingService struct {
	Stored    []domain.Booking
	BookErr   error
	Cancelled []int64
	nextID    int64
}

func (m *MockBookingService) Book(_ context.Context, req domain.BookingRequest) (*domain.Booking, error) {
	if m.BookErr != nil {
		return nil, m.BookErr
	}
	m.nextID++
	b := domain.Booking{ID: m.nextID, BookingRequest: req, CreatedAt: time.Now()}
	m.Stored = append([]domain.Booking{b}, m.Stored...)
	return &b, nil
}

func (m *MockBookingService) List(_ context.Context) ([]domain.Booking, error) {
	return m.Stored, nil
}

func (m *MockBookingService) Cancel(_ context.Context, id int64) error {
	for i, b := range m.Stored {
		if b.ID == id {
			m.Stored = append(m.Stored[:i], m.Stored[i+1:]...)
			m.Cancelled = append(m.Cancelled, id)
			return nil
		}
	}
	return domain.ErrNotFound
}

func newTestView(t *testing.T, mock *MockBookingService) *View {
	t.Helper()
	view := NewView(nil, nil, mock)
	view.now = func() time.Time { return time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC) }
	view.resetForm()
	view.SetDimensions(120, 40)
	view, _ = view.Update(view.Init()())
	return view
}

func typeText(view *View, text string) *View {
	for _, r := range text {
		view, _ = view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return view
}

func sampleBooking(id int64) domain.Booking {
	return domain.Booking{
		ID: id,
		BookingRequest: domain.BookingRequest{
			Name: "Rahim", Phone: "01700000000", Provider: "Hanif",
			Origin: "Dhaka", Destination: "Rajshahi", TravelDate: "2025-01-20",
		},
	}
}

func TestView_EmptyList(t *testing.T) {
	view := newTestView(t, &MockBookingService{})

	assert.Empty(t, view.Bookings())
	assert.Nil(t, view.SelectedBooking())
	assert.Contains(t, view.View(), "No bookings yet.")
}

func TestView_ListsBookings(t *testing.T) {
	view := newTestView(t, &MockBookingService{Stored: []domain.Booking{sampleBooking(2), sampleBooking(1)}})

	require.Len(t, view.Bookings(), 2)
	out := view.View()
	assert.Contains(t, out, "ID 2")
	assert.Contains(t, out, "Dhaka -> Rajshahi")
}

func TestView_NilService(t *testing.T) {
	view := NewView(nil, nil, nil)
	view.SetDimensions(120, 40)

	view, _ = view.Update(view.Init()())

	assert.ErrorIs(t, view.Err(), ErrNoBookingService)
}

func TestView_FormDefaults(t *testing.T) {
	view := newTestView(t, &MockBookingService{})

	view, _ = view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}})

	require.True(t, view.FormOpen())
	assert.Equal(t, "Name", view.FocusedField())
	req := view.Request()
	assert.Equal(t, "Dhaka", req.Origin)
	assert.Equal(t, "Rajshahi", req.Destination)
	assert.Equal(t, "2025-01-15", req.TravelDate)
	assert.Contains(t, view.View(), "Book a Ticket")
}

func TestView_FieldNavigation(t *testing.T) {
	view := newTestView(t, &MockBookingService{})
	view, _ = view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}})

	view, _ = view.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, "Phone", view.FocusedField())

	view, _ = view.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	view, _ = view.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, "Travel date", view.FocusedField())
}

func TestView_SubmitBooking(t *testing.T) {
	mock := &MockBookingService{}
	view := newTestView(t, mock)
	view, _ = view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}})

	view = typeText(view, "Rahim")
	view, _ = view.Update(tea.KeyMsg{Type: tea.KeyTab})
	view = typeText(view, "01700000000")
	view, _ = view.Update(tea.KeyMsg{Type: tea.KeyTab})
	view = typeText(view, "Hanif")

	view, cmd := view.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	created := cmd()
	require.IsType(t, messages.BookingCreated{}, created)

	view, cmd = view.Update(created)
	assert.False(t, view.FormOpen())
	require.NotNil(t, cmd)
	view, _ = view.Update(cmd())

	require.Len(t, view.Bookings(), 1)
	assert.Equal(t, "Rahim", view.Bookings()[0].Name)
	assert.Equal(t, "Hanif", view.Bookings()[0].Provider)
	assert.Empty(t, view.Request().Name)
}

func TestView_SubmitInvalid(t *testing.T) {
	view := newTestView(t, &MockBookingService{})
	view, _ = view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}})

	view, cmd := view.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
	assert.True(t, view.FormOpen())
	assert.ErrorIs(t, view.Err(), domain.ErrInvalidInput)
	assert.Contains(t, view.View(), "name is required")
}

func TestView_SubmitServiceError(t *testing.T) {
	view := newTestView(t, &MockBookingService{})
	view, _ = view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}})

	view, _ = view.Update(messages.BookingCreated{Err: errors.New("disk full")})

	assert.True(t, view.FormOpen())
	assert.Contains(t, view.View(), "disk full")
}

func TestView_CancelBooking(t *testing.T) {
	mock := &MockBookingService{Stored: []domain.Booking{sampleBooking(2), sampleBooking(1)}}
	view := newTestView(t, mock)

	view, _ = view.Update(tea.KeyMsg{Type: tea.KeyDown})
	require.Equal(t, int64(1), view.SelectedBooking().ID)

	view, cmd := view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'d'}})
	require.NotNil(t, cmd)
	view, cmd = view.Update(cmd())
	require.NotNil(t, cmd)
	view, _ = view.Update(cmd())

	assert.Equal(t, []int64{1}, mock.Cancelled)
	require.Len(t, view.Bookings(), 1)
	assert.Equal(t, int64(2), view.SelectedBooking().ID)
}

func TestView_CancelWithNoSelection(t *testing.T) {
	view := newTestView(t, &MockBookingService{})

	_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'d'}})

	assert.Nil(t, cmd)
}

func TestView_Escape(t *testing.T) {
	view := newTestView(t, &MockBookingService{})
	view, _ = view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}})

	view, cmd := view.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Nil(t, cmd)
	assert.False(t, view.FormOpen())

	_, cmd = view.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, messages.ViewChanged{View: messages.ViewMenu}, cmd())
}

func TestView_Refresh(t *testing.T) {
	mock := &MockBookingService{}
	view := newTestView(t, mock)
	mock.Stored = []domain.Booking{sampleBooking(7)}

	view, cmd := view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	require.NotNil(t, cmd)
	view, _ = view.Update(cmd())

	require.Len(t, view.Bookings(), 1)
	assert.Equal(t, int64(7), view.Bookings()[0].ID)
}
