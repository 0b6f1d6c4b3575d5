package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/custodia-labs/busrag/internal/core/domain"
	"github.com/custodia-labs/busrag/internal/core/ports/driven"
)

// Ensure BookingStore implements the interface.
var _ driven.BookingStore = (*BookingStore)(nil)

// BookingStore is an in-memory implementation of driven.BookingStore.
type BookingStore struct {
	mu       sync.RWMutex
	bookings map[int64]domain.Booking
	nextID   int64
}

// NewBookingStore creates a new in-memory booking store.
func NewBookingStore() *BookingStore {
	return &BookingStore{
		bookings: make(map[int64]domain.Booking),
	}
}

// Create stores a booking with the next sequential ID.
func (s *BookingStore) Create(_ context.Context, req domain.BookingRequest) (*domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	b := domain.Booking{
		ID:             s.nextID,
		BookingRequest: req,
		CreatedAt:      time.Now(),
	}
	s.bookings[b.ID] = b
	return &b, nil
}

// Get retrieves a booking by ID.
func (s *BookingStore) Get(_ context.Context, id int64) (*domain.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.bookings[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &b, nil
}

// List returns all bookings, newest first.
func (s *BookingStore) List(_ context.Context) ([]domain.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.Booking, 0, len(s.bookings))
	for _, b := range s.bookings {
		result = append(result, b)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID > result[j].ID })
	return result, nil
}

// Delete removes a booking.
func (s *BookingStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.bookings[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.bookings, id)
	return nil
}

// Close is a no-op.
func (s *BookingStore) Close() error {
	return nil
}
