package repository

import (
	"context"
)

// BookingRepository defines the booking queries this service needs
type BookingRepository interface {
	// CountActiveByFlight counts non-deleted bookings referencing a flight.
	CountActiveByFlight(ctx context.Context, flightID uint) (int64, error)
}
