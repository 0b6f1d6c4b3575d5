package driving

import (
	"context"

	"github.com/custodia-labs/busrag/internal/core/domain"
)

// BookingService manages seat reservations.
type BookingService interface {
	// Book validates and stores a reservation.
	Book(ctx context.Context, req domain.BookingRequest) (*domain.Booking, error)

	// List returns all reservations, newest first.
	List(ctx context.Context) ([]domain.Booking, error)

	// Cancel removes a reservation.
	Cancel(ctx context.Context, id int64) error
}
