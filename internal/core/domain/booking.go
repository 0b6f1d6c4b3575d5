package domain

import (
	"fmt"
	"strings"
	"time"
)

// TravelDateLayout is the accepted format of a booking travel date.
const TravelDateLayout = "2006-01-02"

// BookingRequest is a reservation as submitted by a user.
type BookingRequest struct {
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	Provider    string `json:"provider"`
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	TravelDate  string `json:"travel_date"`
}

// Validate checks that every field is present and the travel date parses.
func (r BookingRequest) Validate() error {
	fields := []struct {
		name  string
		value string
	}{
		{"name", r.Name},
		{"phone", r.Phone},
		{"provider", r.Provider},
		{"origin", r.Origin},
		{"destination", r.Destination},
		{"travel date", r.TravelDate},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return fmt.Errorf("%w: %s is required", ErrInvalidInput, f.name)
		}
	}
	if _, err := time.Parse(TravelDateLayout, r.TravelDate); err != nil {
		return fmt.Errorf("%w: travel date must be YYYY-MM-DD", ErrInvalidInput)
	}
	return nil
}

// Booking is a stored reservation.
type Booking struct {
	ID int64 `json:"id"`
	BookingRequest
	CreatedAt time.Time `json:"created_at"`
}
