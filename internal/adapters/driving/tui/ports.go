// Package tui provides an interactive terminal user interface for busrag.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/busrag/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
type Ports struct {
	// Retrieval backs the search view. Required.
	Retrieval driving.RetrievalService

	// Answer backs the ask view.
	Answer driving.AnswerService

	// Provider backs the provider view.
	Provider driving.ProviderService

	// Booking backs the bookings view.
	Booking driving.BookingService

	// Index is used to build the index when the TUI starts.
	Index driving.IndexService

	// Settings supplies per-view result counts.
	Settings driving.SettingsService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Retrieval == nil {
		return ErrMissingRetrievalService
	}
	return nil
}
