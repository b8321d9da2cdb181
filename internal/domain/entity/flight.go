package entity

import (
	"time"
)

// Flight is one tracked real-world flight occurrence tied to one or more
// bookings. Status and timestamps are mutated only by the webhook reconciler;
// alert fields only by the alert coordinator.
type Flight struct {
	ID                 uint
	FlightNumber       string
	FaFlightID         string
	Origin             string
	OriginIATA         string
	Destination        string
	DestinationIATA    string
	ScheduledDeparture *time.Time
	EstimatedDeparture *time.Time
	ActualDeparture    *time.Time
	ScheduledArrival   *time.Time
	EstimatedArrival   *time.Time
	ActualArrival      *time.Time
	DelayMinutes       int
	OriginGate         string
	DestinationGate    string
	AircraftType       string
	Registration       string
	Status             FlightStatus
	AlertID            string
	AlertEnabled       bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// FlightUpdate is the single update payload a webhook delivery produces.
// EstimatedDeparture/EstimatedArrival hold the best-known times
// (actual > estimated > scheduled); the Actual fields are set only when the
// delivery carried actuals.
type FlightUpdate struct {
	Status             FlightStatus
	EstimatedDeparture *time.Time
	EstimatedArrival   *time.Time
	ActualDeparture    *time.Time
	ActualArrival      *time.Time
	DelayMinutes       int
	OriginGate         string
	DestinationGate    string
	AircraftType       string
	Registration       string
}
