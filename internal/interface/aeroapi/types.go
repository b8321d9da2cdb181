package aeroapi

import (
	"time"

	"flighttrack-service/internal/domain/entity"
)

type airportRef struct {
	Code     *string `json:"code"`
	CodeIATA *string `json:"code_iata"`
	Name     *string `json:"name"`
	City     *string `json:"city"`
}

func (a *airportRef) toEntity() entity.AirportRef {
	return entity.AirportRef{
		Code:     deref(a.Code),
		CodeIATA: deref(a.CodeIATA),
		Name:     deref(a.Name),
		City:     deref(a.City),
	}
}

type liveFlight struct {
	Ident        string     `json:"ident"`
	IdentIATA    *string    `json:"ident_iata"`
	IdentICAO    *string    `json:"ident_icao"`
	FaFlightID   string     `json:"fa_flight_id"`
	Origin       airportRef `json:"origin"`
	Destination  airportRef `json:"destination"`
	ScheduledOut *time.Time `json:"scheduled_out"`
	EstimatedOut *time.Time `json:"estimated_out"`
	ActualOut    *time.Time `json:"actual_out"`
	ScheduledIn  *time.Time `json:"scheduled_in"`
	EstimatedIn  *time.Time `json:"estimated_in"`
	ActualIn     *time.Time `json:"actual_in"`
	Status       string     `json:"status"`
	AircraftType *string    `json:"aircraft_type"`
	Registration *string    `json:"registration"`
}

type liveFlightsResponse struct {
	Flights []liveFlight `json:"flights"`
}

func (f *liveFlight) toEntity() entity.FlightLeg {
	return entity.FlightLeg{
		Ident:        f.Ident,
		IdentIATA:    deref(f.IdentIATA),
		IdentICAO:    deref(f.IdentICAO),
		FaFlightID:   f.FaFlightID,
		Origin:       f.Origin.toEntity(),
		Destination:  f.Destination.toEntity(),
		ScheduledOut: f.ScheduledOut,
		EstimatedOut: f.EstimatedOut,
		ActualOut:    f.ActualOut,
		ScheduledIn:  f.ScheduledIn,
		EstimatedIn:  f.EstimatedIn,
		ActualIn:     f.ActualIn,
		Status:       f.Status,
		AircraftType: deref(f.AircraftType),
		Registration: deref(f.Registration),
	}
}

// scheduledFlight is a published-schedule entry. Unlike the live shape, the
// schedules endpoint reports airports as bare codes.
type scheduledFlight struct {
	Ident           string     `json:"ident"`
	IdentIATA       *string    `json:"ident_iata"`
	IdentICAO       *string    `json:"ident_icao"`
	ActualIdent     *string    `json:"actual_ident"`
	FaFlightID      *string    `json:"fa_flight_id"`
	Origin          string     `json:"origin"`
	OriginIATA      *string    `json:"origin_iata"`
	Destination     string     `json:"destination"`
	DestinationIATA *string    `json:"destination_iata"`
	ScheduledOut    *time.Time `json:"scheduled_out"`
	ScheduledIn     *time.Time `json:"scheduled_in"`
	AircraftType    *string    `json:"aircraft_type"`
}

type scheduledFlightsResponse struct {
	Scheduled []scheduledFlight `json:"scheduled"`
}

func (f *scheduledFlight) toEntity() entity.FlightLeg {
	return entity.FlightLeg{
		Ident:        f.Ident,
		IdentIATA:    deref(f.IdentIATA),
		IdentICAO:    deref(f.IdentICAO),
		ActualIdent:  deref(f.ActualIdent),
		FaFlightID:   deref(f.FaFlightID),
		Origin:       entity.AirportRef{Code: f.Origin, CodeIATA: deref(f.OriginIATA)},
		Destination:  entity.AirportRef{Code: f.Destination, CodeIATA: deref(f.DestinationIATA)},
		ScheduledOut: f.ScheduledOut,
		ScheduledIn:  f.ScheduledIn,
		AircraftType: deref(f.AircraftType),
	}
}

type airportResponse struct {
	AirportCode string  `json:"airport_code"`
	CodeIATA    *string `json:"code_iata"`
	Name        string  `json:"name"`
	City        string  `json:"city"`
}

type createAlertRequest struct {
	Ident       string   `json:"ident"`
	Start       string   `json:"start"`
	End         string   `json:"end,omitempty"`
	Destination string   `json:"destination,omitempty"`
	Events      []string `json:"events"`
}

type createAlertResponse struct {
	AlertID entity.AlertID `json:"alert_id"`
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
