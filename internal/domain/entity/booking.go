package entity

import (
	"time"
)

// Booking is a pickup booking referencing a tracked flight. Only the
// dependent-count query touches it here; booking lifecycle lives elsewhere.
type Booking struct {
	ID            uint
	FlightID      uint
	PassengerName string
	Phone         string
	PickupTime    time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
