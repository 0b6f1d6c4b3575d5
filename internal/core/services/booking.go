package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/busrag/internal/core/domain"
	"github.com/custodia-labs/busrag/internal/core/ports/driven"
	"github.com/custodia-labs/busrag/internal/core/ports/driving"
	"github.com/custodia-labs/busrag/internal/logger"
)

// Ensure BookingService implements the interface.
var _ driving.BookingService = (*BookingService)(nil)

// BookingService validates and stores reservations.
type BookingService struct {
	store  driven.BookingStore
	corpus driven.CorpusSource
}

// NewBookingService creates a new booking service.
// corpus is optional; when set, bookings must name a known provider.
func NewBookingService(store driven.BookingStore, corpus driven.CorpusSource) *BookingService {
	return &BookingService{
		store:  store,
		corpus: corpus,
	}
}

// Book validates and stores a reservation.
func (s *BookingService) Book(ctx context.Context, req domain.BookingRequest) (*domain.Booking, error) {
	req = trimRequest(req)
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if s.corpus != nil {
		desc, err := s.corpus.LoadDescription(ctx)
		if err != nil {
			return nil, fmt.Errorf("load corpus description: %w", err)
		}
		if len(desc.Providers) > 0 && !desc.HasProvider(req.Provider) {
			return nil, fmt.Errorf("%w: unknown provider %q", domain.ErrInvalidInput, req.Provider)
		}
	}

	booking, err := s.store.Create(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}
	logger.Info("Booking %d created for %s (%s %s->%s on %s)", booking.ID, booking.Name,
		booking.Provider, booking.Origin, booking.Destination, booking.TravelDate)
	return booking, nil
}

// List returns all reservations, newest first.
func (s *BookingService) List(ctx context.Context) ([]domain.Booking, error) {
	bookings, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return bookings, nil
}

// Cancel removes a reservation.
func (s *BookingService) Cancel(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: booking id must be positive", domain.ErrInvalidInput)
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("cancel booking %d: %w", id, err)
	}
	logger.Info("Booking %d cancelled", id)
	return nil
}

func trimRequest(r domain.BookingRequest) domain.BookingRequest {
	r.Name = strings.TrimSpace(r.Name)
	r.Phone = strings.TrimSpace(r.Phone)
	r.Provider = strings.TrimSpace(r.Provider)
	r.Origin = strings.TrimSpace(r.Origin)
	r.Destination = strings.TrimSpace(r.Destination)
	r.TravelDate = strings.TrimSpace(r.TravelDate)
	return r
}
