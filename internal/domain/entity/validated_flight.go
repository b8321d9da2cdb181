package entity

import (
	"time"
)

// AirportRef is an airport reference as reported by the provider. Code is the
// provider's primary identifier (usually ICAO), CodeIATA the IATA alias.
type AirportRef struct {
	Code     string
	CodeIATA string
	Name     string
	City     string
}

// FlightLeg is one concrete flight occurrence returned by the provider.
type FlightLeg struct {
	Ident        string
	IdentIATA    string
	IdentICAO    string
	ActualIdent  string
	FaFlightID   string
	Origin       AirportRef
	Destination  AirportRef
	ScheduledOut *time.Time
	EstimatedOut *time.Time
	ActualOut    *time.Time
	ScheduledIn  *time.Time
	EstimatedIn  *time.Time
	ActualIn     *time.Time
	Status       string
	AircraftType string
	Registration string
}

// BestArrival returns the most authoritative arrival time known for the leg,
// preferring actual over estimated over scheduled.
func (l *FlightLeg) BestArrival() *time.Time {
	if l.ActualIn != nil {
		return l.ActualIn
	}
	if l.EstimatedIn != nil {
		return l.EstimatedIn
	}
	return l.ScheduledIn
}

// BestDeparture returns the most authoritative departure time known for the leg.
func (l *FlightLeg) BestDeparture() *time.Time {
	if l.ActualOut != nil {
		return l.ActualOut
	}
	if l.EstimatedOut != nil {
		return l.EstimatedOut
	}
	return l.ScheduledOut
}

// ValidatedFlight is the result of a flight number/date lookup. Live marks
// whether it came from the live data source or the published schedule.
type ValidatedFlight struct {
	FlightNumber    string     `json:"flightNumber"`
	FaFlightID      string     `json:"faFlightId,omitempty"`
	Origin          string     `json:"origin"`
	OriginIATA      string     `json:"originIata,omitempty"`
	OriginName      string     `json:"originName,omitempty"`
	Destination     string     `json:"destination"`
	DestinationIATA string     `json:"destinationIata,omitempty"`
	DestinationName string     `json:"destinationName,omitempty"`
	Departure       *time.Time `json:"departure,omitempty"`
	Arrival         *time.Time `json:"arrival,omitempty"`
	Status          string     `json:"status,omitempty"`
	AircraftType    string     `json:"aircraftType,omitempty"`
	Live            bool       `json:"live"`
}

// PickupFlightResult is the booking-flow view of a lookup: either a usable
// flight, or an informational message when the destination is unsupported,
// plus an arrival-proximity warning when pickup lead time is short.
type PickupFlightResult struct {
	Flight  *ValidatedFlight `json:"flight,omitempty"`
	Message string           `json:"message,omitempty"`
	Warning string           `json:"warning,omitempty"`
}

// AlertParams describes the tracking subscription to provision for a flight.
type AlertParams struct {
	FlightNumber string
	Date         string
	Destination  string
	Events       []string
}
