package driven

import (
	"context"

	"github.com/custodia-labs/busrag/internal/core/domain"
)

// BookingStore persists reservations.
type BookingStore interface {
	// Create stores a booking and returns it with ID and CreatedAt set.
	Create(ctx context.Context, req domain.BookingRequest) (*domain.Booking, error)

	// Get retrieves a booking by ID.
	// Returns domain.ErrNotFound if it does not exist.
	Get(ctx context.Context, id int64) (*domain.Booking, error)

	// List returns all bookings, newest first.
	List(ctx context.Context) ([]domain.Booking, error)

	// Delete removes a booking.
	// Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, id int64) error

	// Close releases resources.
	Close() error
}
