// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/busrag/internal/core/domain"
)

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewMenu is the main navigation menu.
	ViewMenu ViewType = iota
	// ViewSearch is the passage search view.
	ViewSearch
	// ViewAsk is the question answering view.
	ViewAsk
	// ViewProvider is the provider lookup view.
	ViewProvider
	// ViewBookings lists and creates bookings.
	ViewBookings
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewMenu:
		return "menu"
	case ViewSearch:
		return "search"
	case ViewAsk:
		return "ask"
	case ViewProvider:
		return "provider"
	case ViewBookings:
		return "bookings"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// IndexReady carries the outcome of the start-up index build.
type IndexReady struct {
	Report *domain.BuildReport
	Err    error
}

// SearchCompleted carries retrieval results back to the model.
type SearchCompleted struct {
	Results []domain.RetrievalResult
	Err     error
}

// AnswerCompleted carries a generated answer.
type AnswerCompleted struct {
	Answer *domain.Answer
	Err    error
}

// ProvidersLoaded carries the provider names from the corpus description.
type ProvidersLoaded struct {
	Names []string
	Err   error
}

// ProviderLoaded carries a provider lookup result.
type ProviderLoaded struct {
	Info *domain.ProviderInfo
	Err  error
}

// BookingsLoaded carries the stored bookings, newest first.
type BookingsLoaded struct {
	Bookings []domain.Booking
	Err      error
}

// BookingCreated signals a booking was stored.
type BookingCreated struct {
	Booking *domain.Booking
	Err     error
}

// BookingCancelled signals a booking was removed.
type BookingCancelled struct {
	ID  int64
	Err error
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
